package domain

type CheckoutStep string

const (
	CheckoutStepCustomerAndAddress CheckoutStep = "customer_and_address"
	CheckoutStepDeliveryAndPayment CheckoutStep = "delivery_and_payment"
	CheckoutStepReviewAndSubmit    CheckoutStep = "review_and_submit"
	CheckoutStepSubmitted          CheckoutStep = "submitted"
)

func (s CheckoutStep) IsTerminal() bool {
	return s == CheckoutStepSubmitted
}

// Number is the 1-based wizard position, 0 for the terminal step.
func (s CheckoutStep) Number() int {
	switch s {
	case CheckoutStepCustomerAndAddress:
		return 1
	case CheckoutStepDeliveryAndPayment:
		return 2
	case CheckoutStepReviewAndSubmit:
		return 3
	default:
		return 0
	}
}

// String representation (for logging)
func (s CheckoutStep) String() string {
	return string(s)
}

package checkout

import "errors"

var (
	ErrDraftNotFound     = errors.New("checkout draft not found")
	ErrDraftSubmitted    = errors.New("checkout draft already submitted")
	ErrActionInProgress  = errors.New("another action is in progress for this checkout")
	ErrIllegalTransition = errors.New("illegal transition of checkout step")
	ErrNotAuthenticated  = errors.New("checkout requires an authenticated session")
	ErrLoadFailed        = errors.New("failed to load checkout data")
	ErrSubmitFailed      = errors.New("failed to submit order")
	ErrTopUpFailed       = errors.New("failed to top up points")
)

// Validation failures. They never reach the backend.
var (
	ErrEmptyCart                = errors.New("cart is empty, nothing to checkout")
	ErrInvalidCart              = errors.New("cart contains invalid items")
	ErrCustomerIncomplete       = errors.New("customer fields are incomplete")
	ErrShippingIncomplete       = errors.New("no address selected and shipping fields are incomplete")
	ErrAddressNotFound          = errors.New("address not found")
	ErrDeliveryNotSelected      = errors.New("delivery date and time must be selected")
	ErrPaymentMethodNotSelected = errors.New("payment method must be selected")
	ErrPaymentMethodUnavailable = errors.New("payment method is not registered")
	ErrInvalidCardNumber        = errors.New("card number must be 16 digits")
	ErrInvalidCardExpiry        = errors.New("card expiry must be MM/YY")
	ErrCardExpired              = errors.New("card has expired")
	ErrInvalidCVV               = errors.New("cvv must be 3 or 4 digits")
	ErrInsufficientBalance      = errors.New("balance is insufficient for the order total")
	ErrTopUpUnavailable         = errors.New("inline top-up is not available")
	ErrInvalidTopUpAmount       = errors.New("top-up amount must be positive")
	ErrTopUpExceedsBalance      = errors.New("top-up amount exceeds the PayPay balance")
)

var validationErrors = []error{
	ErrEmptyCart,
	ErrInvalidCart,
	ErrCustomerIncomplete,
	ErrShippingIncomplete,
	ErrAddressNotFound,
	ErrDeliveryNotSelected,
	ErrPaymentMethodNotSelected,
	ErrPaymentMethodUnavailable,
	ErrInvalidCardNumber,
	ErrInvalidCardExpiry,
	ErrCardExpired,
	ErrInvalidCVV,
	ErrInsufficientBalance,
	ErrTopUpUnavailable,
	ErrInvalidTopUpAmount,
	ErrTopUpExceedsBalance,
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

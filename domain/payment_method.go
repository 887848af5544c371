package domain

import "fmt"

// PaymentMethod is one of the three virtual payment methods.
type PaymentMethod string

const (
	PaymentMethodNone              PaymentMethod = ""
	PaymentMethodPoint             PaymentMethod = "point"
	PaymentMethodPayPay            PaymentMethod = "paypay"
	PaymentMethodVirtualCreditCard PaymentMethod = "virtual_credit_card"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(s); m {
	case PaymentMethodNone, PaymentMethodPoint, PaymentMethodPayPay, PaymentMethodVirtualCreditCard:
		return m, nil
	default:
		return PaymentMethodNone, fmt.Errorf("unknown payment method %q", s)
	}
}

// BalanceCode is the enum name the balances endpoints expect.
func (m PaymentMethod) BalanceCode() string {
	switch m {
	case PaymentMethodPoint:
		return "POINT"
	case PaymentMethodPayPay:
		return "PAYPAY"
	case PaymentMethodVirtualCreditCard:
		return "VIRTUAL_CREDIT_CARD"
	default:
		return ""
	}
}

func (m PaymentMethod) String() string {
	return string(m)
}

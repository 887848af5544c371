package domain

// UserBalances holds the three independent virtual balances.
type UserBalances struct {
	Point             Yen `json:"pointBalance" msgpack:"point"`
	PayPay            Yen `json:"paypayBalance" msgpack:"paypay"`
	VirtualCreditCard Yen `json:"virtualCardBalance" msgpack:"virtual_credit_card"`
}

func (b UserBalances) Of(m PaymentMethod) Yen {
	switch m {
	case PaymentMethodPoint:
		return b.Point
	case PaymentMethodPayPay:
		return b.PayPay
	case PaymentMethodVirtualCreditCard:
		return b.VirtualCreditCard
	default:
		return 0
	}
}

// UserBalance is a single balance row returned by /api/balances/find.
type UserBalance struct {
	ID            int64  `json:"id"`
	UserID        string `json:"userId"`
	PaymentMethod string `json:"paymentMethod"`
	Balance       Yen    `json:"balance"`
}

type PayPayAccount struct {
	PayPayID string `json:"paypayId" msgpack:"paypay_id"`
	Balance  Yen    `json:"balance" msgpack:"balance"`
}

type RegisteredCard struct {
	CardCompanyName  string `json:"cardCompanyName" msgpack:"card_company_name"`
	MaskedCardNumber string `json:"maskedCardNumber" msgpack:"masked_card_number"`
	AvailableCredit  Yen    `json:"availableCredit" msgpack:"available_credit"`
}

// PaymentInfo gates which payment options are selectable.
type PaymentInfo struct {
	PayPayAccount *PayPayAccount  `json:"paypayAccount" msgpack:"paypay_account"`
	CreditCard    *RegisteredCard `json:"creditCard" msgpack:"credit_card"`
}

func (p PaymentInfo) Registered(m PaymentMethod) bool {
	switch m {
	case PaymentMethodPoint:
		return true
	case PaymentMethodPayPay:
		return p.PayPayAccount != nil
	case PaymentMethodVirtualCreditCard:
		return p.CreditCard != nil
	default:
		return false
	}
}

package checkout

import "github.com/fjod/go_cart/storefront/domain"

type ShortfallAction string

const (
	ShortfallInlineTopUp   ShortfallAction = "inline_top_up"
	ShortfallExternalTopUp ShortfallAction = "external_top_up"
)

var topUpPages = map[domain.PaymentMethod]string{
	domain.PaymentMethodPoint:             "/mypoint",
	domain.PaymentMethodPayPay:            "/charge",
	domain.PaymentMethodVirtualCreditCard: "/card-balance",
}

type PaymentOption struct {
	Method       domain.PaymentMethod `json:"method"`
	Label        string               `json:"label"`
	Balance      domain.Yen           `json:"balance"`
	BalanceLabel string               `json:"balanceLabel"`
	// InlineTopUp is set on the point option when PayPay is registered.
	InlineTopUp bool `json:"inlineTopUp"`
}

type Shortfall struct {
	Action    ShortfallAction `json:"action"`
	Missing   domain.Yen      `json:"missing"`
	TopUpPath string          `json:"topUpPath,omitempty"`
}

type Evaluation struct {
	Option       PaymentOption `json:"option"`
	Total        domain.Yen    `json:"total"`
	CanPay       bool          `json:"canPay"`
	BalanceAfter domain.Yen    `json:"balanceAfter"`
	Shortfall    *Shortfall    `json:"shortfall,omitempty"`
}

// BuildOptions lists the selectable payment methods. Point is always
// offered; PayPay and card only once registered.
func BuildOptions(info domain.PaymentInfo, balances domain.UserBalances) []PaymentOption {
	options := []PaymentOption{{
		Method:       domain.PaymentMethodPoint,
		Label:        "ポイントで支払い",
		Balance:      balances.Point,
		BalanceLabel: "ポイント",
		InlineTopUp:  info.PayPayAccount != nil,
	}}
	if info.Registered(domain.PaymentMethodPayPay) {
		options = append(options, PaymentOption{
			Method:       domain.PaymentMethodPayPay,
			Label:        "PayPayで支払い",
			Balance:      balances.PayPay,
			BalanceLabel: "円",
		})
	}
	if info.Registered(domain.PaymentMethodVirtualCreditCard) {
		options = append(options, PaymentOption{
			Method:       domain.PaymentMethodVirtualCreditCard,
			Label:        "クレジットカード",
			Balance:      balances.VirtualCreditCard,
			BalanceLabel: "円",
		})
	}
	return options
}

func FindOption(options []PaymentOption, m domain.PaymentMethod) (PaymentOption, bool) {
	for _, o := range options {
		if o.Method == m {
			return o, true
		}
	}
	return PaymentOption{}, false
}

func Evaluate(option PaymentOption, total domain.Yen) Evaluation {
	ev := Evaluation{
		Option:       option,
		Total:        total,
		CanPay:       option.Balance >= total,
		BalanceAfter: option.Balance - total,
	}
	if ev.CanPay {
		return ev
	}
	ev.BalanceAfter = 0
	sf := &Shortfall{Missing: total - option.Balance}
	if option.Method == domain.PaymentMethodPoint && option.InlineTopUp {
		sf.Action = ShortfallInlineTopUp
	} else {
		sf.Action = ShortfallExternalTopUp
		sf.TopUpPath = topUpPages[option.Method]
	}
	ev.Shortfall = sf
	return ev
}

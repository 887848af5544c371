package checkout

import (
	"time"

	"github.com/fjod/go_cart/storefront/domain"
)

// Draft is one shopper's checkout wizard between requests. It lives in the
// draft cache and is dropped on abandon or expiry.
type Draft struct {
	ID            string `json:"id" msgpack:"id"`
	SessionID     string `json:"-" msgpack:"session_id"`
	UserID        int64  `json:"userId,omitempty" msgpack:"user_id"`
	Authenticated bool   `json:"authenticated" msgpack:"authenticated"`

	Step  domain.CheckoutStep `json:"step" msgpack:"step"`
	Error string              `json:"error,omitempty" msgpack:"error"`

	Cart domain.CartSnapshot `json:"cart" msgpack:"cart"`
	Form domain.CheckoutForm `json:"form" msgpack:"form"`

	Addresses         []domain.Address `json:"addresses" msgpack:"addresses"`
	SelectedAddressID int64            `json:"selectedAddressId,omitempty" msgpack:"selected_address_id"`
	AddressChecked    bool             `json:"addressChecked" msgpack:"address_checked"`
	// NeedsAddress tells the UI to send the shopper to /profile first.
	NeedsAddress bool `json:"needsAddress" msgpack:"needs_address"`

	Balances    domain.UserBalances `json:"balances" msgpack:"balances"`
	PaymentInfo domain.PaymentInfo  `json:"paymentInfo" msgpack:"payment_info"`

	Confirmation *domain.OrderConfirmation `json:"confirmation,omitempty" msgpack:"confirmation"`

	CreatedAt time.Time `json:"createdAt" msgpack:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" msgpack:"updated_at"`
}

func (d *Draft) Totals() domain.OrderTotals {
	return domain.ComputeTotals(d.Cart.Subtotal())
}

func (d *Draft) PaymentOptions() []PaymentOption {
	return BuildOptions(d.PaymentInfo, d.Balances)
}

// SelectedOption is the offered option matching the form's payment method.
func (d *Draft) SelectedOption() (PaymentOption, bool) {
	return FindOption(d.PaymentOptions(), d.Form.PaymentMethod)
}

func (d *Draft) SelectedAddress() (domain.Address, bool) {
	if d.SelectedAddressID == 0 {
		return domain.Address{}, false
	}
	return domain.FindAddress(d.Addresses, d.SelectedAddressID)
}

// View is the draft as rendered by the wizard, with derived state attached.
type View struct {
	*Draft
	StepNumber     int                `json:"stepNumber"`
	Totals         domain.OrderTotals `json:"totals"`
	Delivery       DeliveryOptions    `json:"delivery"`
	PaymentOptions []PaymentOption    `json:"paymentOptions"`
	Payment        *Evaluation        `json:"payment,omitempty"`
	// Redirect is set when the shopper must leave checkout first.
	Redirect string `json:"redirect,omitempty"`
}

// ProfilePath is where a shopper without any saved address registers one.
const ProfilePath = "/profile"

func NewView(d *Draft, now time.Time) View {
	v := View{
		Draft:          d,
		StepNumber:     d.Step.Number(),
		Totals:         d.Totals(),
		Delivery:       NewDeliveryOptions(now),
		PaymentOptions: d.PaymentOptions(),
	}
	if opt, ok := d.SelectedOption(); ok {
		ev := Evaluate(opt, v.Totals.Total)
		v.Payment = &ev
	}
	if d.NeedsAddress {
		v.Redirect = ProfilePath
	}
	return v
}

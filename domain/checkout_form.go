package domain

// CardInput is typed in at the payment step and only lives in the draft.
type CardInput struct {
	Number string `json:"cardNumber" msgpack:"number"`
	Expiry string `json:"cardExpiry" msgpack:"expiry"`
	CVV    string `json:"cardCvv" msgpack:"cvv"`
}

// CheckoutForm is the mutable checkout draft.
type CheckoutForm struct {
	LastName      string `json:"lastName" msgpack:"last_name"`
	FirstName     string `json:"firstName" msgpack:"first_name"`
	LastNameKana  string `json:"lastNameKana" msgpack:"last_name_kana"`
	FirstNameKana string `json:"firstNameKana" msgpack:"first_name_kana"`
	Phone         string `json:"phone" msgpack:"phone"`
	Email         string `json:"email" msgpack:"email"`

	PostalCode string `json:"postalCode" msgpack:"postal_code"`
	State      string `json:"state" msgpack:"state"`
	City       string `json:"city" msgpack:"city"`
	Street     string `json:"street" msgpack:"street"`

	DeliveryDate string `json:"deliveryDate" msgpack:"delivery_date"`
	DeliveryTime string `json:"deliveryTime" msgpack:"delivery_time"`

	PaymentMethod PaymentMethod `json:"paymentMethod" msgpack:"payment_method"`
	Card          CardInput     `json:"-" msgpack:"card"`
}

func (f *CheckoutForm) ApplyProfile(p Profile) {
	f.LastName = p.LastName
	f.FirstName = p.FirstName
	f.Email = p.Email
	f.Phone = p.PhoneNumber
}

func (f *CheckoutForm) ApplyAddress(a Address) {
	f.PostalCode = a.PostalCode
	f.State = a.State
	f.City = a.City
	f.Street = a.Street
}

func (f *CheckoutForm) ClearShipping() {
	f.ApplyAddress(Address{})
}

// FormPatch carries a partial update; nil fields are left untouched.
type FormPatch struct {
	LastName      *string `json:"lastName,omitempty"`
	FirstName     *string `json:"firstName,omitempty"`
	LastNameKana  *string `json:"lastNameKana,omitempty"`
	FirstNameKana *string `json:"firstNameKana,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty"`
	PostalCode    *string `json:"postalCode,omitempty"`
	State         *string `json:"state,omitempty"`
	City          *string `json:"city,omitempty"`
	Street        *string `json:"street,omitempty"`
	DeliveryDate  *string `json:"deliveryDate,omitempty"`
	DeliveryTime  *string `json:"deliveryTime,omitempty"`
	PaymentMethod *string `json:"paymentMethod,omitempty"`
	CardNumber    *string `json:"cardNumber,omitempty"`
	CardExpiry    *string `json:"cardExpiry,omitempty"`
	CardCVV       *string `json:"cardCvv,omitempty"`
}

// Apply copies the set fields into the form. Callers validate the payment
// method separately.
func (p FormPatch) Apply(f *CheckoutForm) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&f.LastName, p.LastName)
	set(&f.FirstName, p.FirstName)
	set(&f.LastNameKana, p.LastNameKana)
	set(&f.FirstNameKana, p.FirstNameKana)
	set(&f.Phone, p.Phone)
	set(&f.Email, p.Email)
	set(&f.PostalCode, p.PostalCode)
	set(&f.State, p.State)
	set(&f.City, p.City)
	set(&f.Street, p.Street)
	set(&f.DeliveryDate, p.DeliveryDate)
	set(&f.DeliveryTime, p.DeliveryTime)
	set(&f.Card.Number, p.CardNumber)
	set(&f.Card.Expiry, p.CardExpiry)
	set(&f.Card.CVV, p.CardCVV)
	if p.PaymentMethod != nil {
		f.PaymentMethod = PaymentMethod(*p.PaymentMethod)
	}
}

// TouchesShipping reports whether the patch edits any shipping field.
func (p FormPatch) TouchesShipping() bool {
	return p.PostalCode != nil || p.State != nil || p.City != nil || p.Street != nil
}

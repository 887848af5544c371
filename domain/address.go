package domain

type AddressType string

const (
	AddressTypeShipping AddressType = "SHIPPING"
	AddressTypeBilling  AddressType = "BILLING"
)

// Address is a saved user address. The at-most-one-default rule is enforced
// by the backend and consumed as given.
type Address struct {
	ID          int64       `json:"id,omitempty" msgpack:"id"`
	AddressType AddressType `json:"addressType,omitempty" msgpack:"address_type"`
	PostalCode  string      `json:"postalCode" msgpack:"postal_code"`
	State       string      `json:"state" msgpack:"state"` // prefecture
	City        string      `json:"city" msgpack:"city"`
	Street      string      `json:"street" msgpack:"street"`
	Country     string      `json:"country,omitempty" msgpack:"country"`
	IsDefault   bool        `json:"isDefault" msgpack:"is_default"`
}

// DefaultAddress returns the address flagged as default, else the first one.
func DefaultAddress(addresses []Address) (Address, bool) {
	if len(addresses) == 0 {
		return Address{}, false
	}
	for _, a := range addresses {
		if a.IsDefault {
			return a, true
		}
	}
	return addresses[0], true
}

func FindAddress(addresses []Address, id int64) (Address, bool) {
	for _, a := range addresses {
		if a.ID == id {
			return a, true
		}
	}
	return Address{}, false
}

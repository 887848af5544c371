package checkout

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/pkg/textnorm"
)

var expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/(\d{2})$`)

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// validateCustomer gates step 1: identity fields, then either a saved
// address or a complete manual one.
func validateCustomer(d *Draft) error {
	f := d.Form
	if blank(f.LastName) || blank(f.FirstName) || blank(f.Phone) || blank(f.Email) {
		return ErrCustomerIncomplete
	}
	if _, ok := d.SelectedAddress(); ok {
		return nil
	}
	if blank(f.PostalCode) || blank(f.State) || blank(f.City) || blank(f.Street) {
		return ErrShippingIncomplete
	}
	return nil
}

// validateDeliveryAndPayment gates step 2. Order matters: delivery, method,
// card number, expiry, CVV, balance.
func validateDeliveryAndPayment(d *Draft, now time.Time) error {
	f := d.Form
	if blank(f.DeliveryDate) || blank(f.DeliveryTime) {
		return ErrDeliveryNotSelected
	}
	if f.PaymentMethod == domain.PaymentMethodNone {
		return ErrPaymentMethodNotSelected
	}
	option, ok := d.SelectedOption()
	if !ok {
		return ErrPaymentMethodUnavailable
	}
	if f.PaymentMethod == domain.PaymentMethodVirtualCreditCard {
		if err := validateCard(f.Card, now); err != nil {
			return err
		}
	}
	return checkBalance(option, d.Totals().Total)
}

func validateCard(card domain.CardInput, now time.Time) error {
	number := textnorm.Strip(card.Number, " ")
	if len(number) != 16 || !textnorm.IsDigits(number) {
		return ErrInvalidCardNumber
	}

	m := expiryPattern.FindStringSubmatch(strings.TrimSpace(textnorm.Fold(card.Expiry)))
	if m == nil {
		return ErrInvalidCardExpiry
	}
	month, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	year += 2000
	if year < now.Year() || (year == now.Year() && month < int(now.Month())) {
		return ErrCardExpired
	}

	cvv := strings.TrimSpace(textnorm.Fold(card.CVV))
	if len(cvv) < 3 || len(cvv) > 4 || !textnorm.IsDigits(cvv) {
		return ErrInvalidCVV
	}
	return nil
}

func checkBalance(option PaymentOption, total domain.Yen) error {
	if !Evaluate(option, total).CanPay {
		return ErrInsufficientBalance
	}
	return nil
}

// validateSubmit repeats every earlier guard against the current draft.
func validateSubmit(d *Draft, now time.Time) error {
	if d.Cart.IsEmpty() {
		return ErrEmptyCart
	}
	if err := validateCustomer(d); err != nil {
		return err
	}
	return validateDeliveryAndPayment(d, now)
}

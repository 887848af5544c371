package checkout

import (
	"fmt"
	"time"

	"github.com/fjod/go_cart/storefront/domain"
)

type Event string

const (
	EventAdvance Event = "advance"
	EventRetreat Event = "retreat"
	EventSubmit  Event = "submit"
)

type guard func(d *Draft, now time.Time) error

type transitionKey struct {
	from  domain.CheckoutStep
	event Event
}

type transition struct {
	to    domain.CheckoutStep
	guard guard
}

var transitions = map[transitionKey]transition{
	{domain.CheckoutStepCustomerAndAddress, EventAdvance}: {
		to: domain.CheckoutStepDeliveryAndPayment,
		guard: func(d *Draft, _ time.Time) error {
			return validateCustomer(d)
		},
	},
	{domain.CheckoutStepDeliveryAndPayment, EventAdvance}: {
		to:    domain.CheckoutStepReviewAndSubmit,
		guard: validateDeliveryAndPayment,
	},
	{domain.CheckoutStepDeliveryAndPayment, EventRetreat}: {
		to: domain.CheckoutStepCustomerAndAddress,
	},
	{domain.CheckoutStepReviewAndSubmit, EventRetreat}: {
		to: domain.CheckoutStepDeliveryAndPayment,
	},
	{domain.CheckoutStepReviewAndSubmit, EventSubmit}: {
		to:    domain.CheckoutStepSubmitted,
		guard: validateSubmit,
	},
}

func CanFire(step domain.CheckoutStep, ev Event) bool {
	_, ok := transitions[transitionKey{step, ev}]
	return ok
}

// next resolves the target step of ev without changing d.
func next(d *Draft, ev Event, now time.Time) (domain.CheckoutStep, error) {
	t, ok := transitions[transitionKey{d.Step, ev}]
	if !ok {
		if d.Step.IsTerminal() {
			return d.Step, ErrDraftSubmitted
		}
		return d.Step, fmt.Errorf("%w: %s from %s", ErrIllegalTransition, ev, d.Step)
	}
	if t.guard != nil {
		if err := t.guard(d, now); err != nil {
			return d.Step, err
		}
	}
	return t.to, nil
}

// fire applies ev to d. A failed guard leaves the step and records the
// shopper-facing message; any successful transition clears it.
func fire(d *Draft, ev Event, now time.Time) error {
	to, err := next(d, ev, now)
	if err != nil {
		d.Error = UserMessage(err)
		return err
	}
	d.Step = to
	d.Error = ""
	return nil
}

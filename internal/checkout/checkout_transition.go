package checkout

import (
	"context"
)

func (s *CheckoutServiceImpl) Advance(ctx context.Context, sessionID, draftID string) (View, error) {
	return s.mutate(ctx, sessionID, draftID, func(d *Draft) error {
		return fire(d, EventAdvance, s.now())
	})
}

// Retreat always succeeds from steps 2 and 3 and clears the pending error.
func (s *CheckoutServiceImpl) Retreat(ctx context.Context, sessionID, draftID string) (View, error) {
	return s.mutate(ctx, sessionID, draftID, func(d *Draft) error {
		return fire(d, EventRetreat, s.now())
	})
}

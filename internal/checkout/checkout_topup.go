package checkout

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fjod/go_cart/storefront/domain"
)

// inlineTopUpAvailable: paying with points, PayPay registered, points short.
func inlineTopUpAvailable(d *Draft) bool {
	if d.Form.PaymentMethod != domain.PaymentMethodPoint || d.PaymentInfo.PayPayAccount == nil {
		return false
	}
	return d.Balances.Point < d.Totals().Total
}

func validateTopUp(d *Draft, amount domain.Yen) error {
	if !inlineTopUpAvailable(d) {
		return ErrTopUpUnavailable
	}
	if amount <= 0 {
		return ErrInvalidTopUpAmount
	}
	if amount > d.Balances.PayPay {
		return ErrTopUpExceedsBalance
	}
	return nil
}

// TopUp moves amount from PayPay into points and refreshes every balance.
// Step and form are left untouched.
func (s *CheckoutServiceImpl) TopUp(ctx context.Context, sessionID, draftID string, amount domain.Yen) (View, error) {
	ctx, span := s.tracer.Start(ctx, "checkout.TopUp")
	defer span.End()

	return s.mutate(ctx, sessionID, draftID, func(d *Draft) error {
		if !d.Authenticated {
			d.Error = UserMessage(ErrNotAuthenticated)
			return ErrNotAuthenticated
		}
		if err := validateTopUp(d, amount); err != nil {
			d.Error = UserMessage(err)
			return err
		}

		chargeCtx, cancel := context.WithTimeout(ctx, s.wallet.timeout)
		defer cancel()
		res, err := s.wallet.walletClient.ChargePointsFromPayPay(chargeCtx, d.UserID, amount)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrTopUpFailed, err)
			d.Error = UserMessage(err)
			return err
		}

		if err := s.refreshBalances(ctx, d); err != nil {
			s.log.WarnContext(ctx, "balance refresh after top-up failed, using charge response",
				slog.String("draft_id", d.ID), slog.String("error", err.Error()))
			d.Balances = res.Balances
		}
		d.Error = ""
		s.log.InfoContext(ctx, "points topped up from paypay",
			slog.String("draft_id", d.ID), slog.Int64("amount", int64(amount)))
		return nil
	})
}

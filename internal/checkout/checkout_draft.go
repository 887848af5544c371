package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/cache"
)

func (s *CheckoutServiceImpl) loadDraft(ctx context.Context, sessionID, draftID string) (*Draft, error) {
	d, err := s.drafts.Get(ctx, draftID)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, ErrDraftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}
	// Drafts are only visible to the session that started them.
	if d.SessionID != sessionID {
		return nil, ErrDraftNotFound
	}
	return &d, nil
}

func (s *CheckoutServiceImpl) saveDraft(ctx context.Context, d *Draft) error {
	d.UpdatedAt = s.now()
	if err := s.drafts.Set(ctx, d.ID, *d); err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// mutate runs fn on the locked draft and saves the result, including the
// recorded error message when fn fails.
func (s *CheckoutServiceImpl) mutate(ctx context.Context, sessionID, draftID string, fn func(d *Draft) error) (View, error) {
	unlock, ok := s.locks.tryLock(draftID)
	if !ok {
		return View{}, ErrActionInProgress
	}
	defer unlock()

	d, err := s.loadDraft(ctx, sessionID, draftID)
	if err != nil {
		return View{}, err
	}
	if s.restoreSubmitted(ctx, d) || d.Step.IsTerminal() {
		return s.view(d), ErrDraftSubmitted
	}

	fnErr := fn(d)
	if err := s.saveDraft(ctx, d); err != nil {
		if !d.Step.IsTerminal() {
			return View{}, err
		}
		// The order is placed. The in-process record keeps the draft
		// closed until a later save succeeds.
		s.log.WarnContext(ctx, "failed to store submitted draft",
			slog.String("draft_id", d.ID), slog.String("error", err.Error()))
		return s.view(d), fnErr
	}
	if d.Step.IsTerminal() {
		s.submitted.Delete(d.ID)
	}
	return s.view(d), fnErr
}

// restoreSubmitted puts back the terminal state of a draft whose order was
// placed but whose saved copy is stale, and retries storing it.
func (s *CheckoutServiceImpl) restoreSubmitted(ctx context.Context, d *Draft) bool {
	v, ok := s.submitted.Load(d.ID)
	if !ok {
		return false
	}
	if !d.Step.IsTerminal() {
		c := v.(domain.OrderConfirmation)
		d.Step = domain.CheckoutStepSubmitted
		d.Error = ""
		d.Confirmation = &c
		d.Form.Card = domain.CardInput{}
	}
	if err := s.saveDraft(ctx, d); err == nil {
		s.submitted.Delete(d.ID)
	}
	return true
}

func (s *CheckoutServiceImpl) view(d *Draft) View {
	return NewView(d, s.now())
}

func (s *CheckoutServiceImpl) Get(ctx context.Context, sessionID, draftID string) (View, error) {
	d, err := s.loadDraft(ctx, sessionID, draftID)
	if err != nil {
		return View{}, err
	}
	s.restoreSubmitted(ctx, d)
	return s.view(d), nil
}

// Update applies shopper input. Editing any shipping field switches the
// draft to a manually entered address.
func (s *CheckoutServiceImpl) Update(ctx context.Context, sessionID, draftID string, patch domain.FormPatch) (View, error) {
	if patch.PaymentMethod != nil {
		if _, err := domain.ParsePaymentMethod(*patch.PaymentMethod); err != nil {
			return View{}, fmt.Errorf("%w: %v", ErrPaymentMethodUnavailable, err)
		}
	}
	return s.mutate(ctx, sessionID, draftID, func(d *Draft) error {
		patch.Apply(&d.Form)
		if patch.TouchesShipping() {
			d.SelectedAddressID = 0
		}
		d.Error = ""
		return nil
	})
}

func (s *CheckoutServiceImpl) SelectAddress(ctx context.Context, sessionID, draftID string, addressID int64) (View, error) {
	return s.mutate(ctx, sessionID, draftID, func(d *Draft) error {
		addr, ok := domain.FindAddress(d.Addresses, addressID)
		if !ok {
			d.Error = UserMessage(ErrAddressNotFound)
			return ErrAddressNotFound
		}
		d.Form.ApplyAddress(addr)
		d.SelectedAddressID = addr.ID
		d.Error = ""
		return nil
	})
}

// Abandon drops the draft. Unknown drafts are not an error.
func (s *CheckoutServiceImpl) Abandon(ctx context.Context, sessionID, draftID string) error {
	unlock, ok := s.locks.tryLock(draftID)
	if !ok {
		return ErrActionInProgress
	}
	defer unlock()

	if _, err := s.loadDraft(ctx, sessionID, draftID); err != nil {
		if errors.Is(err, ErrDraftNotFound) {
			return nil
		}
		return err
	}
	if err := s.drafts.Delete(ctx, draftID); err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	s.submitted.Delete(draftID)
	return nil
}

func (s *CheckoutServiceImpl) Confirmation(ctx context.Context, receiptID string) (domain.OrderConfirmation, error) {
	if s.receipts == nil {
		return domain.OrderConfirmation{}, ErrDraftNotFound
	}
	return s.receipts.Receipt(ctx, receiptID)
}

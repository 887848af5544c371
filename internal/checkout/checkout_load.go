package checkout

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fjod/go_cart/storefront/domain"
)

// Start opens a checkout draft. An authenticated session gets its profile,
// addresses, balances and payment registrations loaded; a load failure keeps
// whatever was loaded and records the message on the draft.
func (s *CheckoutServiceImpl) Start(ctx context.Context, sessionID string, handoff *domain.CartSnapshot) (View, error) {
	ctx, span := s.tracer.Start(ctx, "checkout.Start")
	defer span.End()

	if handoff != nil {
		if err := handoff.Validate(); err != nil {
			return View{}, fmt.Errorf("%w: %w", ErrInvalidCart, err)
		}
	}

	now := s.now()
	d := &Draft{
		ID:            uuid.NewString(),
		SessionID:     sessionID,
		Authenticated: sessionID != "",
		Step:          domain.CheckoutStepCustomerAndAddress,
		CreatedAt:     now,
	}

	loadErr := s.load(ctx, d, handoff)
	if loadErr != nil {
		d.Error = msgLoadFailed
		s.log.WarnContext(ctx, "checkout load failed",
			slog.String("draft_id", d.ID), slog.String("error", loadErr.Error()))
	}
	if err := s.saveDraft(ctx, d); err != nil {
		return View{}, err
	}
	return s.view(d), loadErr
}

func (s *CheckoutServiceImpl) load(ctx context.Context, d *Draft, handoff *domain.CartSnapshot) error {
	if handoff != nil {
		d.Cart = domain.CartSnapshot{Items: append([]domain.CartItem{}, handoff.Items...)}
	} else {
		cartCtx, cancel := context.WithTimeout(ctx, s.cart.timeout)
		defer cancel()
		cart, err := s.cart.cartClient.GetCart(cartCtx)
		if err != nil {
			return fmt.Errorf("%w: get cart: %w", ErrLoadFailed, err)
		}
		d.Cart = cart.Snapshot()
	}

	if d.Cart.IsEmpty() {
		d.AddressChecked = true
		return nil
	}
	if !d.Authenticated {
		return nil
	}

	if err := s.loadCustomer(ctx, d); err != nil {
		return err
	}
	return s.loadWallet(ctx, d)
}

func (s *CheckoutServiceImpl) loadCustomer(ctx context.Context, d *Draft) error {
	ctx, cancel := context.WithTimeout(ctx, s.profile.timeout)
	defer cancel()

	var (
		profile   domain.Profile
		addresses []domain.Address
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.profile.profileClient.GetProfile(gctx)
		if err != nil {
			return fmt.Errorf("get profile: %w", err)
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		list, err := s.profile.profileClient.ListAddresses(gctx)
		if err != nil {
			return fmt.Errorf("list addresses: %w", err)
		}
		addresses = list
		return nil
	})
	err := g.Wait()

	if profile.ID != 0 || profile.Email != "" {
		d.UserID = profile.ID
		d.Form.ApplyProfile(profile)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	d.Addresses = addresses
	d.AddressChecked = true
	if addr, ok := domain.DefaultAddress(addresses); ok {
		d.Form.ApplyAddress(addr)
		d.SelectedAddressID = addr.ID
		return nil
	}
	d.Form.ClearShipping()
	d.SelectedAddressID = 0
	d.NeedsAddress = true
	return nil
}

func (s *CheckoutServiceImpl) loadWallet(ctx context.Context, d *Draft) error {
	ctx, cancel := context.WithTimeout(ctx, s.wallet.timeout)
	defer cancel()

	var (
		balances domain.UserBalances
		info     domain.PaymentInfo
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := s.wallet.walletClient.GetBalances(gctx, d.UserID)
		if err != nil {
			return fmt.Errorf("get balances: %w", err)
		}
		balances = b
		return nil
	})
	g.Go(func() error {
		acct, err := s.wallet.walletClient.RegisteredPayPay(gctx, d.UserID)
		if err != nil {
			return fmt.Errorf("get paypay registration: %w", err)
		}
		info.PayPayAccount = acct
		return nil
	})
	g.Go(func() error {
		card, err := s.wallet.walletClient.RegisteredCard(gctx, d.UserID)
		if err != nil {
			return fmt.Errorf("get card registration: %w", err)
		}
		info.CreditCard = card
		return nil
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	d.Balances = balances
	d.PaymentInfo = info
	return nil
}

// refreshBalances replaces the draft balances with the backend's view.
func (s *CheckoutServiceImpl) refreshBalances(ctx context.Context, d *Draft) error {
	ctx, cancel := context.WithTimeout(ctx, s.wallet.timeout)
	defer cancel()
	b, err := s.wallet.walletClient.GetBalances(ctx, d.UserID)
	if err != nil {
		return fmt.Errorf("refresh balances: %w", err)
	}
	d.Balances = b
	return nil
}

package checkout

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/fjod/go_cart/storefront/domain"
)

// Submit re-validates the draft, places the order and then runs best-effort
// cleanup. Cleanup failures are logged and never undo the order.
func (s *CheckoutServiceImpl) Submit(ctx context.Context, sessionID, draftID string) (View, error) {
	ctx, span := s.tracer.Start(ctx, "checkout.Submit")
	defer span.End()

	return s.mutate(ctx, sessionID, draftID, func(d *Draft) error {
		if !d.Authenticated {
			d.Error = UserMessage(ErrNotAuthenticated)
			return ErrNotAuthenticated
		}
		to, err := next(d, EventSubmit, s.now())
		if err != nil {
			d.Error = UserMessage(err)
			return err
		}

		addr, err := s.orderAddress(ctx, d)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrSubmitFailed, err)
			d.Error = UserMessage(err)
			return err
		}

		order, err := s.placeOrder(ctx, d, addr)
		if err != nil {
			err = fmt.Errorf("%w: %w", ErrSubmitFailed, err)
			d.Error = UserMessage(err)
			return err
		}

		confirmation := s.confirmation(d, order, addr)
		s.submitted.Store(d.ID, confirmation)
		d.Step = to
		d.Error = ""
		d.Confirmation = &confirmation
		// Card input is only needed up to the order call.
		d.Form.Card = domain.CardInput{}
		s.log.InfoContext(ctx, "order placed",
			slog.String("draft_id", d.ID),
			slog.Int64("order_id", order.ID),
			slog.String("order_number", order.OrderNumber))

		// The order exists now; cleanup must not die with the request.
		s.cleanup(context.WithoutCancel(ctx), d, confirmation)
		return nil
	})
}

// orderAddress returns the saved address the order ships to. A manually
// entered address is saved first so the order can reference it.
func (s *CheckoutServiceImpl) orderAddress(ctx context.Context, d *Draft) (domain.Address, error) {
	if addr, ok := d.SelectedAddress(); ok {
		return addr, nil
	}
	ctx, cancel := context.WithTimeout(ctx, s.profile.timeout)
	defer cancel()
	addr, err := s.profile.profileClient.CreateAddress(ctx, domain.Address{
		AddressType: domain.AddressTypeShipping,
		PostalCode:  d.Form.PostalCode,
		State:       d.Form.State,
		City:        d.Form.City,
		Street:      d.Form.Street,
		Country:     "日本",
	})
	if err != nil {
		return domain.Address{}, fmt.Errorf("save address: %w", err)
	}
	d.Addresses = append(d.Addresses, addr)
	d.SelectedAddressID = addr.ID
	return addr, nil
}

func (s *CheckoutServiceImpl) placeOrder(ctx context.Context, d *Draft, addr domain.Address) (domain.Order, error) {
	ctx, cancel := context.WithTimeout(ctx, s.orders.timeout)
	defer cancel()
	order, err := s.orders.orderClient.CreateOrder(ctx, domain.OrderRequest{
		PaymentMethod:     d.Form.PaymentMethod.String(),
		BillingAddressID:  addr.ID,
		ShippingAddressID: addr.ID,
		DeliveryDate:      d.Form.DeliveryDate,
		DeliveryTime:      d.Form.DeliveryTime,
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

func (s *CheckoutServiceImpl) confirmation(d *Draft, order domain.Order, addr domain.Address) domain.OrderConfirmation {
	items := make([]domain.CartItem, len(d.Cart.Items))
	copy(items, d.Cart.Items)
	return domain.OrderConfirmation{
		ID:            uuid.NewString(),
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		Items:         items,
		Totals:        d.Totals(),
		PaymentMethod: d.Form.PaymentMethod,
		DeliveryDate:  d.Form.DeliveryDate,
		DeliveryTime:  d.Form.DeliveryTime,
		Address:       addr,
		CustomerName:  strings.TrimSpace(d.Form.LastName + " " + d.Form.FirstName),
		Email:         d.Form.Email,
		PlacedAt:      s.now(),
	}
}

func (s *CheckoutServiceImpl) cleanup(ctx context.Context, d *Draft, c domain.OrderConfirmation) {
	warn := func(msg string, err error) {
		s.log.WarnContext(ctx, msg,
			slog.String("draft_id", d.ID),
			slog.Int64("order_id", c.OrderID),
			slog.String("error", err.Error()))
	}

	if err := s.refreshBalances(ctx, d); err != nil {
		warn("post-order balance refresh failed", err)
	}

	cartCtx, cancel := context.WithTimeout(ctx, s.cart.timeout)
	for _, item := range c.Items {
		if err := s.cart.cartClient.RemoveCartItem(cartCtx, item.ID); err != nil {
			warn(fmt.Sprintf("post-order removal of cart item %d failed", item.ID), err)
		}
	}
	cancel()

	if s.badge != nil {
		if _, err := s.badge.Refresh(ctx, d.SessionID); err != nil {
			warn("post-order cart badge refresh failed", err)
		}
	}
	if s.receipts != nil {
		if err := s.receipts.SaveReceipt(ctx, d.SessionID, c); err != nil {
			warn("failed to store order receipt", err)
		}
	}
}

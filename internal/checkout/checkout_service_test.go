package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/api"
	"github.com/fjod/go_cart/storefront/internal/cache"
	"github.com/fjod/go_cart/storefront/pkg/logger"
)

type fixture struct {
	svc      *CheckoutServiceImpl
	drafts   *cache.MemoryCache[Draft]
	cart     *MockCartClient
	profile  *MockProfileClient
	wallet   *MockWalletClient
	orders   *MockOrderClient
	receipts *MockReceipts
	badge    *MockBadge
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithDrafts(t, nil)
}

// newFixtureWithDrafts stores drafts in wrap(memory) when wrap is set.
func newFixtureWithDrafts(t *testing.T, wrap func(*cache.MemoryCache[Draft]) cache.Cache[Draft]) *fixture {
	t.Helper()
	f := &fixture{
		drafts: cache.NewMemoryCache[Draft](30 * time.Minute),
		cart:   &MockCartClient{Cart: domain.Cart{Items: cartFixture().Items, TotalItemCount: 3}},
		profile: &MockProfileClient{
			Profile:   domain.Profile{ID: 3, Email: "taro@example.com", LastName: "山田", FirstName: "太郎", PhoneNumber: "09012345678"},
			Addresses: []domain.Address{{ID: 6, PostalCode: "530-0001", State: "大阪府", City: "大阪市", Street: "梅田1-1"}, addressFixture()},
		},
		wallet: &MockWalletClient{
			Balances: domain.UserBalances{Point: 1000, PayPay: 50000, VirtualCreditCard: 40000},
			PayPay:   paypayAccount,
			Card:     registeredCard,
		},
		orders:   &MockOrderClient{Order: domain.Order{ID: 55, OrderNumber: "ORD-20261014-0055", TotalAmount: 33380}},
		receipts: &MockReceipts{},
		badge:    &MockBadge{},
	}
	var drafts cache.Cache[Draft] = f.drafts
	if wrap != nil {
		drafts = wrap(f.drafts)
	}
	f.svc = NewCheckoutService(
		drafts,
		NewCartHandler(f.cart, time.Second),
		NewProfileHandler(f.profile, time.Second),
		NewWalletHandler(f.wallet, time.Second),
		NewOrderHandler(f.orders, time.Second),
		WithReceipts(f.receipts),
		WithCartBadge(f.badge),
		WithClock(func() time.Time { return fixedNow }),
		WithLogger(logger.Nop()),
	)
	return f
}

func strPtr(s string) *string { return &s }

// toReview drives a fresh draft to step 3 paying with method.
func (f *fixture) toReview(t *testing.T, method domain.PaymentMethod) View {
	t.Helper()
	ctx := context.Background()
	v, err := f.svc.Start(ctx, "s1", nil)
	require.NoError(t, err)
	_, err = f.svc.Advance(ctx, "s1", v.ID)
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, "s1", v.ID, domain.FormPatch{
		DeliveryDate:  strPtr("2026-10-16"),
		DeliveryTime:  strPtr("morning"),
		PaymentMethod: strPtr(method.String()),
		CardNumber:    strPtr("4242 4242 4242 4242"),
		CardExpiry:    strPtr("12/27"),
		CardCVV:       strPtr("123"),
	})
	require.NoError(t, err)
	v, err = f.svc.Advance(ctx, "s1", v.ID)
	require.NoError(t, err)
	require.Equal(t, domain.CheckoutStepReviewAndSubmit, v.Step)
	return v
}

func TestStart_SeedsFromProfileAndDefaultAddress(t *testing.T) {
	f := newFixture(t)

	v, err := f.svc.Start(context.Background(), "s1", nil)

	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStepCustomerAndAddress, v.Step)
	assert.Equal(t, 1, v.StepNumber)
	assert.Equal(t, "山田", v.Form.LastName)
	assert.Equal(t, "09012345678", v.Form.Phone)
	assert.Equal(t, int64(7), v.SelectedAddressID)
	assert.Equal(t, "東京都", v.Form.State)
	assert.True(t, v.AddressChecked)
	assert.False(t, v.NeedsAddress)
	assert.Equal(t, domain.Yen(33380), v.Totals.Total)
	assert.Len(t, v.PaymentOptions, 3)
	assert.Len(t, v.Delivery.TimeSlots, 4)
	assert.Equal(t, 1, f.cart.GetCalls)

	stored, err := f.drafts.Get(context.Background(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, "s1", stored.SessionID)
}

func TestStart_FirstAddressWhenNoDefault(t *testing.T) {
	f := newFixture(t)
	f.profile.Addresses[1].IsDefault = false

	v, err := f.svc.Start(context.Background(), "s1", nil)

	require.NoError(t, err)
	assert.Equal(t, int64(6), v.SelectedAddressID)
	assert.Equal(t, "大阪府", v.Form.State)
}

func TestStart_PrefersHandoff(t *testing.T) {
	f := newFixture(t)
	handoff := &domain.CartSnapshot{Items: []domain.CartItem{{ID: 9, PriceAtAddition: 1000, Quantity: 1}}}

	v, err := f.svc.Start(context.Background(), "s1", handoff)

	require.NoError(t, err)
	assert.Equal(t, 0, f.cart.GetCalls)
	assert.Equal(t, domain.Yen(1000), v.Totals.Subtotal)
}

func TestStart_EmptyCartSkipsProfileAndAddresses(t *testing.T) {
	f := newFixture(t)
	f.cart.Cart = domain.Cart{}

	v, err := f.svc.Start(context.Background(), "s1", nil)

	require.NoError(t, err)
	assert.True(t, v.Cart.IsEmpty())
	assert.True(t, v.AddressChecked)
	assert.Equal(t, 0, f.profile.Calls)
	assert.Equal(t, 0, f.wallet.BalancesCalls)
}

func TestStart_NoAddressesNeedsAddress(t *testing.T) {
	f := newFixture(t)
	f.profile.Addresses = nil

	v, err := f.svc.Start(context.Background(), "s1", nil)

	require.NoError(t, err)
	assert.True(t, v.NeedsAddress)
	assert.Equal(t, ProfilePath, v.Redirect)
	assert.Zero(t, v.SelectedAddressID)
	assert.Empty(t, v.Form.PostalCode)
	assert.Equal(t, "山田", v.Form.LastName)
}

func TestStart_UnauthenticatedLoadsCartOnly(t *testing.T) {
	f := newFixture(t)

	v, err := f.svc.Start(context.Background(), "", nil)

	require.NoError(t, err)
	assert.False(t, v.Authenticated)
	assert.False(t, v.Cart.IsEmpty())
	assert.Equal(t, 0, f.profile.Calls)
	assert.Empty(t, v.Form.LastName)
}

func TestStart_LoadFailureKeepsPartialState(t *testing.T) {
	f := newFixture(t)
	f.profile.AddressesErr = errors.New("connection reset")

	v, err := f.svc.Start(context.Background(), "s1", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLoadFailed)
	assert.Equal(t, "注文情報の読み込みに失敗しました。", v.Error)
	assert.False(t, v.Cart.IsEmpty())
	assert.Equal(t, 0, f.wallet.BalancesCalls)

	_, err = f.svc.Get(context.Background(), "s1", v.ID)
	assert.NoError(t, err)
}

func TestStart_CartFailure(t *testing.T) {
	f := newFixture(t)
	f.cart.GetErr = &api.Error{Status: 500}

	v, err := f.svc.Start(context.Background(), "s1", nil)

	assert.ErrorIs(t, err, ErrLoadFailed)
	assert.Equal(t, msgLoadFailed, v.Error)
	assert.Equal(t, 0, f.profile.Calls)
}

func TestGet_OtherSessionCannotSeeDraft(t *testing.T) {
	f := newFixture(t)
	v, err := f.svc.Start(context.Background(), "s1", nil)
	require.NoError(t, err)

	_, err = f.svc.Get(context.Background(), "s2", v.ID)

	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestAdvance_Step1Fails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v, err := f.svc.Start(ctx, "s1", nil)
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, "s1", v.ID, domain.FormPatch{Phone: strPtr("")})
	require.NoError(t, err)

	v, err = f.svc.Advance(ctx, "s1", v.ID)

	assert.ErrorIs(t, err, ErrCustomerIncomplete)
	assert.Equal(t, domain.CheckoutStepCustomerAndAddress, v.Step)
	assert.NotEmpty(t, v.Error)

	stored, err := f.svc.Get(ctx, "s1", v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.Error, stored.Error)
}

func TestUpdate_ShippingEditDropsSelectedAddress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v, err := f.svc.Start(ctx, "s1", nil)
	require.NoError(t, err)

	v, err = f.svc.Update(ctx, "s1", v.ID, domain.FormPatch{Street: strPtr("丸の内2-2")})

	require.NoError(t, err)
	assert.Zero(t, v.SelectedAddressID)
	assert.Equal(t, "丸の内2-2", v.Form.Street)
}

func TestUpdate_RejectsUnknownPaymentMethod(t *testing.T) {
	f := newFixture(t)
	v, err := f.svc.Start(context.Background(), "s1", nil)
	require.NoError(t, err)

	_, err = f.svc.Update(context.Background(), "s1", v.ID, domain.FormPatch{PaymentMethod: strPtr("cod")})

	assert.ErrorIs(t, err, ErrPaymentMethodUnavailable)
}

func TestSelectAddress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v, err := f.svc.Start(ctx, "s1", nil)
	require.NoError(t, err)

	v, err = f.svc.SelectAddress(ctx, "s1", v.ID, 6)
	require.NoError(t, err)
	assert.Equal(t, int64(6), v.SelectedAddressID)
	assert.Equal(t, "梅田1-1", v.Form.Street)

	_, err = f.svc.SelectAddress(ctx, "s1", v.ID, 404)
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestRetreat(t *testing.T) {
	f := newFixture(t)
	v := f.toReview(t, domain.PaymentMethodPayPay)

	v, err := f.svc.Retreat(context.Background(), "s1", v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStepDeliveryAndPayment, v.Step)

	v, err = f.svc.Retreat(context.Background(), "s1", v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStepCustomerAndAddress, v.Step)
}

func TestSubmit_PlacesOrderAndCleansUp(t *testing.T) {
	f := newFixture(t)
	v := f.toReview(t, domain.PaymentMethodPayPay)

	v, err := f.svc.Submit(context.Background(), "s1", v.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStepSubmitted, v.Step)
	require.Len(t, f.orders.Requests, 1)
	req := f.orders.Requests[0]
	assert.Equal(t, "paypay", req.PaymentMethod)
	assert.Equal(t, int64(7), req.ShippingAddressID)
	assert.Equal(t, req.ShippingAddressID, req.BillingAddressID)
	assert.Equal(t, "2026-10-16", req.DeliveryDate)
	assert.Equal(t, "morning", req.DeliveryTime)

	require.NotNil(t, v.Confirmation)
	c := v.Confirmation
	assert.Equal(t, int64(55), c.OrderID)
	assert.Equal(t, "ORD-20261014-0055", c.OrderNumber)
	assert.Equal(t, domain.Yen(33380), c.Totals.Total)
	assert.Equal(t, "山田 太郎", c.CustomerName)
	assert.Len(t, c.Items, 2)

	assert.ElementsMatch(t, []int64{1, 2}, f.cart.Removed)
	assert.Equal(t, 1, f.badge.Calls)
	require.Len(t, f.receipts.Saved, 1)
	assert.Equal(t, c.ID, f.receipts.Saved[0].ID)

	got, err := f.svc.Confirmation(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.OrderNumber, got.OrderNumber)
}

func TestSubmit_ManualAddressIsSavedFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	v, err := f.svc.Start(ctx, "s1", nil)
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, "s1", v.ID, domain.FormPatch{
		PostalCode: strPtr("060-0001"),
		State:      strPtr("北海道"),
		City:       strPtr("札幌市"),
		Street:     strPtr("北1条"),
	})
	require.NoError(t, err)
	v = f.toReviewFrom(t, v.ID, domain.PaymentMethodPayPay)

	_, err = f.svc.Submit(ctx, "s1", v.ID)

	require.NoError(t, err)
	require.Len(t, f.profile.Created, 1)
	assert.Equal(t, "北海道", f.profile.Created[0].State)
	assert.Equal(t, int64(100), f.orders.Requests[0].ShippingAddressID)
}

func (f *fixture) toReviewFrom(t *testing.T, draftID string, method domain.PaymentMethod) View {
	t.Helper()
	ctx := context.Background()
	_, err := f.svc.Advance(ctx, "s1", draftID)
	require.NoError(t, err)
	_, err = f.svc.Update(ctx, "s1", draftID, domain.FormPatch{
		DeliveryDate:  strPtr("2026-10-17"),
		DeliveryTime:  strPtr("evening"),
		PaymentMethod: strPtr(method.String()),
	})
	require.NoError(t, err)
	v, err := f.svc.Advance(ctx, "s1", draftID)
	require.NoError(t, err)
	return v
}

func TestSubmit_BackendMessageSurfaced(t *testing.T) {
	f := newFixture(t)
	v := f.toReview(t, domain.PaymentMethodPayPay)
	f.orders.Err = &api.Error{Status: 409, Message: "在庫が不足しています"}

	v, err := f.svc.Submit(context.Background(), "s1", v.ID)

	assert.ErrorIs(t, err, ErrSubmitFailed)
	assert.Equal(t, "在庫が不足しています", v.Error)
	assert.Equal(t, domain.CheckoutStepReviewAndSubmit, v.Step)
	assert.Empty(t, f.cart.Removed)
	assert.Empty(t, f.receipts.Saved)
}

func TestSubmit_GenericFallbackMessage(t *testing.T) {
	f := newFixture(t)
	v := f.toReview(t, domain.PaymentMethodPayPay)
	f.orders.Err = &api.Error{Status: 0, Err: errors.New("dial tcp: refused")}

	v, err := f.svc.Submit(context.Background(), "s1", v.ID)

	require.Error(t, err)
	assert.Equal(t, "注文の確定に失敗しました。", v.Error)
	require.Len(t, f.orders.Requests, 1)
}

func TestSubmit_RevalidatesBalance(t *testing.T) {
	f := newFixture(t)
	v := f.toReview(t, domain.PaymentMethodPayPay)

	stored, err := f.drafts.Get(context.Background(), v.ID)
	require.NoError(t, err)
	stored.Balances.PayPay = 100
	require.NoError(t, f.drafts.Set(context.Background(), v.ID, stored))

	v, err = f.svc.Submit(context.Background(), "s1", v.ID)

	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Empty(t, f.orders.Requests)
	assert.Equal(t, domain.CheckoutStepReviewAndSubmit, v.Step)
}

func TestSubmit_CleanupFailuresAreNotFatal(t *testing.T) {
	f := newFixture(t)
	v := f.toReview(t, domain.PaymentMethodPayPay)
	f.cart.RemoveErr = errors.New("cart down")
	f.wallet.BalancesErr = errors.New("wallet down")
	f.badge.Err = errors.New("badge down")
	f.receipts.Err = errors.New("db down")

	v, err := f.svc.Submit(context.Background(), "s1", v.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStepSubmitted, v.Step)
	assert.NotNil(t, v.Confirmation)
}

func TestSubmit_TwiceIsRejected(t *testing.T) {
	f := newFixture(t)
	v := f.toReview(t, domain.PaymentMethodPayPay)
	_, err := f.svc.Submit(context.Background(), "s1", v.ID)
	require.NoError(t, err)

	_, err = f.svc.Submit(context.Background(), "s1", v.ID)

	assert.ErrorIs(t, err, ErrDraftSubmitted)
	assert.Len(t, f.orders.Requests, 1)
}

func TestSubmit_ConcurrentActionFailsFast(t *testing.T) {
	f := newFixture(t)
	v := f.toReview(t, domain.PaymentMethodPayPay)
	f.orders.Started = make(chan struct{})
	f.orders.Release = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.Submit(context.Background(), "s1", v.ID)
		done <- err
	}()
	<-f.orders.Started

	_, err := f.svc.Submit(context.Background(), "s1", v.ID)
	assert.ErrorIs(t, err, ErrActionInProgress)
	_, err = f.svc.TopUp(context.Background(), "s1", v.ID, 100)
	assert.ErrorIs(t, err, ErrActionInProgress)

	close(f.orders.Release)
	require.NoError(t, <-done)
	assert.Len(t, f.orders.Requests, 1)
}

func TestSubmit_Unauthenticated(t *testing.T) {
	f := newFixture(t)
	v, err := f.svc.Start(context.Background(), "", nil)
	require.NoError(t, err)

	stored, err := f.drafts.Get(context.Background(), v.ID)
	require.NoError(t, err)
	stored.Step = domain.CheckoutStepReviewAndSubmit
	require.NoError(t, f.drafts.Set(context.Background(), v.ID, stored))

	_, err = f.svc.Submit(context.Background(), "", v.ID)

	assert.ErrorIs(t, err, ErrNotAuthenticated)
	assert.Empty(t, f.orders.Requests)
}

// pointDraft reaches step 2 paying with points that do not cover the total.
func (f *fixture) pointDraft(t *testing.T) View {
	t.Helper()
	ctx := context.Background()
	v, err := f.svc.Start(ctx, "s1", nil)
	require.NoError(t, err)
	_, err = f.svc.Advance(ctx, "s1", v.ID)
	require.NoError(t, err)
	v, err = f.svc.Update(ctx, "s1", v.ID, domain.FormPatch{
		DeliveryDate:  strPtr("2026-10-16"),
		DeliveryTime:  strPtr("afternoon"),
		PaymentMethod: strPtr("point"),
	})
	require.NoError(t, err)
	require.NotNil(t, v.Payment)
	require.False(t, v.Payment.CanPay)
	require.Equal(t, ShortfallInlineTopUp, v.Payment.Shortfall.Action)
	return v
}

func TestTopUp_MovesPayPayIntoPoints(t *testing.T) {
	f := newFixture(t)
	v := f.pointDraft(t)
	before := v.Balances
	calls := f.wallet.BalancesCalls

	v, err := f.svc.TopUp(context.Background(), "s1", v.ID, 32380)

	require.NoError(t, err)
	assert.Equal(t, before.Point+32380, v.Balances.Point)
	assert.Equal(t, before.PayPay-32380, v.Balances.PayPay)
	assert.Equal(t, calls+1, f.wallet.BalancesCalls)
	assert.Equal(t, domain.CheckoutStepDeliveryAndPayment, v.Step)
	assert.Equal(t, domain.PaymentMethodPoint, v.Form.PaymentMethod)
	assert.True(t, v.Payment.CanPay)

	v, err = f.svc.Advance(context.Background(), "s1", v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStepReviewAndSubmit, v.Step)
}

func TestTopUp_RejectsBadAmountsWithoutCalling(t *testing.T) {
	for _, amount := range []domain.Yen{0, -1, 50001} {
		f := newFixture(t)
		v := f.pointDraft(t)

		_, err := f.svc.TopUp(context.Background(), "s1", v.ID, amount)

		require.Error(t, err, "amount=%d", amount)
		assert.True(t, IsValidation(err))
		assert.Empty(t, f.wallet.Charged)
	}
}

func TestTopUp_AmountEqualToPayPayBalance(t *testing.T) {
	f := newFixture(t)
	v := f.pointDraft(t)

	v, err := f.svc.TopUp(context.Background(), "s1", v.ID, 50000)

	require.NoError(t, err)
	assert.Equal(t, domain.Yen(0), v.Balances.PayPay)
	assert.Equal(t, domain.Yen(51000), v.Balances.Point)
}

func TestTopUp_OnlyWhenInlineTopUpApplies(t *testing.T) {
	t.Run("other method", func(t *testing.T) {
		f := newFixture(t)
		v := f.pointDraft(t)
		_, err := f.svc.Update(context.Background(), "s1", v.ID, domain.FormPatch{PaymentMethod: strPtr("paypay")})
		require.NoError(t, err)

		_, err = f.svc.TopUp(context.Background(), "s1", v.ID, 100)

		assert.ErrorIs(t, err, ErrTopUpUnavailable)
		assert.Empty(t, f.wallet.Charged)
	})

	t.Run("paypay not registered", func(t *testing.T) {
		f := newFixture(t)
		f.wallet.PayPay = nil
		view, err := f.svc.Start(context.Background(), "s1", nil)
		require.NoError(t, err)
		_, err = f.svc.Update(context.Background(), "s1", view.ID, domain.FormPatch{PaymentMethod: strPtr("point")})
		require.NoError(t, err)

		_, err = f.svc.TopUp(context.Background(), "s1", view.ID, 100)

		assert.ErrorIs(t, err, ErrTopUpUnavailable)
	})

	t.Run("points already sufficient", func(t *testing.T) {
		f := newFixture(t)
		f.wallet.Balances.Point = 40000
		view, err := f.svc.Start(context.Background(), "s1", nil)
		require.NoError(t, err)
		_, err = f.svc.Update(context.Background(), "s1", view.ID, domain.FormPatch{PaymentMethod: strPtr("point")})
		require.NoError(t, err)

		_, err = f.svc.TopUp(context.Background(), "s1", view.ID, 100)

		assert.ErrorIs(t, err, ErrTopUpUnavailable)
	})
}

func TestTopUp_BackendFailure(t *testing.T) {
	f := newFixture(t)
	v := f.pointDraft(t)
	f.wallet.ChargeErr = &api.Error{Status: 400, Message: "PayPay残高が不足しています"}

	v, err := f.svc.TopUp(context.Background(), "s1", v.ID, 100)

	assert.ErrorIs(t, err, ErrTopUpFailed)
	assert.Equal(t, "PayPay残高が不足しています", v.Error)
	assert.Equal(t, domain.Yen(1000), v.Balances.Point)
}

func TestTopUp_RefreshFailureFallsBackToChargeResponse(t *testing.T) {
	f := newFixture(t)
	v := f.pointDraft(t)
	f.wallet.BalancesErrAfter = f.wallet.BalancesCalls

	v, err := f.svc.TopUp(context.Background(), "s1", v.ID, 500)

	require.NoError(t, err)
	assert.Equal(t, domain.Yen(1500), v.Balances.Point)
}

func TestAbandon(t *testing.T) {
	f := newFixture(t)
	v, err := f.svc.Start(context.Background(), "s1", nil)
	require.NoError(t, err)

	require.NoError(t, f.svc.Abandon(context.Background(), "s2", v.ID))
	_, err = f.svc.Get(context.Background(), "s1", v.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Abandon(context.Background(), "s1", v.ID))
	_, err = f.svc.Get(context.Background(), "s1", v.ID)
	assert.ErrorIs(t, err, ErrDraftNotFound)

	assert.NoError(t, f.svc.Abandon(context.Background(), "s1", v.ID))
}

func TestStart_RejectsInvalidHandoff(t *testing.T) {
	tests := []struct {
		name string
		item domain.CartItem
	}{
		{name: "negative quantity", item: domain.CartItem{ID: 9, PriceAtAddition: 1000, Quantity: -5}},
		{name: "zero quantity", item: domain.CartItem{ID: 9, PriceAtAddition: 1000, Quantity: 0}},
		{name: "negative price", item: domain.CartItem{ID: 9, PriceAtAddition: -1000, Quantity: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.wallet.Balances = domain.UserBalances{}

			v, err := f.svc.Start(context.Background(), "s1", &domain.CartSnapshot{Items: []domain.CartItem{tt.item}})

			assert.ErrorIs(t, err, ErrInvalidCart)
			assert.ErrorIs(t, err, domain.ErrInvalidCartItem)
			assert.True(t, IsValidation(err))
			assert.Nil(t, v.Draft)
			assert.Zero(t, f.profile.Calls)
		})
	}
}

func TestSubmit_LostDraftWriteKeepsOrderClosed(t *testing.T) {
	ctx := context.Background()
	var flaky *FlakyDrafts
	f := newFixtureWithDrafts(t, func(m *cache.MemoryCache[Draft]) cache.Cache[Draft] {
		flaky = &FlakyDrafts{MemoryCache: m}
		return flaky
	})
	v := f.toReview(t, domain.PaymentMethodPayPay)

	flaky.SetFailing(true)
	v, err := f.svc.Submit(ctx, "s1", v.ID)

	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStepSubmitted, v.Step)
	require.NotNil(t, v.Confirmation)
	confirmationID := v.Confirmation.ID
	stale, err := f.drafts.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStepReviewAndSubmit, stale.Step)

	_, err = f.svc.Submit(ctx, "s1", v.ID)
	assert.ErrorIs(t, err, ErrDraftSubmitted)

	flaky.SetFailing(false)
	got, err := f.svc.Get(ctx, "s1", v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStepSubmitted, got.Step)
	require.NotNil(t, got.Confirmation)
	assert.Equal(t, confirmationID, got.Confirmation.ID)

	_, err = f.svc.Submit(ctx, "s1", v.ID)
	assert.ErrorIs(t, err, ErrDraftSubmitted)
	assert.Len(t, f.orders.Requests, 1)

	stored, err := f.drafts.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStepSubmitted, stored.Step)
}

func TestSubmit_DraftWriteFailureBeforeOrderIsReported(t *testing.T) {
	ctx := context.Background()
	var flaky *FlakyDrafts
	f := newFixtureWithDrafts(t, func(m *cache.MemoryCache[Draft]) cache.Cache[Draft] {
		flaky = &FlakyDrafts{MemoryCache: m}
		return flaky
	})
	v := f.toReview(t, domain.PaymentMethodPayPay)
	f.orders.Err = &api.Error{Status: 409, Message: "在庫が不足しています"}

	flaky.SetFailing(true)
	_, err := f.svc.Submit(ctx, "s1", v.ID)

	assert.ErrorContains(t, err, "failed to save draft")

	flaky.SetFailing(false)
	f.orders.Err = nil
	v, err = f.svc.Submit(ctx, "s1", v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CheckoutStepSubmitted, v.Step)
}

func TestSubmit_DropsCardInput(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	v := f.toReview(t, domain.PaymentMethodVirtualCreditCard)
	stored, err := f.drafts.Get(ctx, v.ID)
	require.NoError(t, err)
	require.NotEmpty(t, stored.Form.Card.Number)

	_, err = f.svc.Submit(ctx, "s1", v.ID)
	require.NoError(t, err)

	stored, err = f.drafts.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.CardInput{}, stored.Form.Card)
}

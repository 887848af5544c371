package checkout

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/fjod/go_cart/storefront/internal/cache"
)

type CheckoutService interface {
	Start(ctx context.Context, sessionID string, handoff *domain.CartSnapshot) (View, error)
	Get(ctx context.Context, sessionID, draftID string) (View, error)
	Update(ctx context.Context, sessionID, draftID string, patch domain.FormPatch) (View, error)
	SelectAddress(ctx context.Context, sessionID, draftID string, addressID int64) (View, error)
	Advance(ctx context.Context, sessionID, draftID string) (View, error)
	Retreat(ctx context.Context, sessionID, draftID string) (View, error)
	Submit(ctx context.Context, sessionID, draftID string) (View, error)
	TopUp(ctx context.Context, sessionID, draftID string, amount domain.Yen) (View, error)
	Abandon(ctx context.Context, sessionID, draftID string) error
	Confirmation(ctx context.Context, receiptID string) (domain.OrderConfirmation, error)
}

// ReceiptStore keeps confirmations so the confirmation page survives reloads.
type ReceiptStore interface {
	SaveReceipt(ctx context.Context, sessionID string, c domain.OrderConfirmation) error
	Receipt(ctx context.Context, id string) (domain.OrderConfirmation, error)
}

type CartBadge interface {
	Refresh(ctx context.Context, sessionID string) (int, error)
}

type CheckoutServiceImpl struct {
	drafts  cache.Cache[Draft]
	cart    *CartHandler
	profile *ProfileHandler
	wallet  *WalletHandler
	orders  *OrderHandler

	receipts ReceiptStore
	badge    CartBadge
	locks    *draftLocks
	// submitted remembers placed orders by draft id until the terminal
	// draft is stored, so a lost write cannot reopen the draft.
	submitted sync.Map
	now      func() time.Time
	log      *slog.Logger
	tracer   trace.Tracer
}

type Option func(*CheckoutServiceImpl)

func WithReceipts(store ReceiptStore) Option {
	return func(s *CheckoutServiceImpl) { s.receipts = store }
}

func WithCartBadge(badge CartBadge) Option {
	return func(s *CheckoutServiceImpl) { s.badge = badge }
}

func WithClock(now func() time.Time) Option {
	return func(s *CheckoutServiceImpl) { s.now = now }
}

func WithLogger(log *slog.Logger) Option {
	return func(s *CheckoutServiceImpl) { s.log = log }
}

func NewCheckoutService(
	drafts cache.Cache[Draft],
	cart *CartHandler,
	profile *ProfileHandler,
	wallet *WalletHandler,
	orders *OrderHandler,
	opts ...Option,
) *CheckoutServiceImpl {
	s := &CheckoutServiceImpl{
		drafts:  drafts,
		cart:    cart,
		profile: profile,
		wallet:  wallet,
		orders:  orders,
		locks:   newDraftLocks(),
		now:     time.Now,
		log:     slog.Default(),
		tracer:  otel.Tracer("github.com/fjod/go_cart/storefront/internal/checkout"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

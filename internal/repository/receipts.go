package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fjod/go_cart/storefront/domain"
	"github.com/lib/pq"
)

// ReceiptRecord is a stored order confirmation waiting to be published.
type ReceiptRecord struct {
	ID        string `db:"id"`
	OrderID   int64  `db:"order_id"`
	SessionID string `db:"session_id"`
	Payload   []byte `db:"payload"`
	Published bool   `db:"published"`
}

func (r *Repository) SaveReceipt(ctx context.Context, sessionID string, c domain.OrderConfirmation) error {
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal receipt: %w", err)
	}

	query := r.db.Rebind(`INSERT INTO receipts (id, order_id, session_id, payload, published)
	          VALUES (?, ?, ?, ?, ?)`)

	_, insertErr := r.db.ExecContext(ctx, query,
		c.ID,
		c.OrderID,
		sessionID,
		string(payload),
		false)

	if insertErr != nil {
		var pqErr *pq.Error
		if errors.As(insertErr, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateReceipt
		}
		return fmt.Errorf("insert receipt: %w", insertErr)
	}
	return nil
}

func (r *Repository) Receipt(ctx context.Context, id string) (domain.OrderConfirmation, error) {
	query := r.db.Rebind(`SELECT payload FROM receipts WHERE id = ?`)

	var payload []byte
	err := r.db.GetContext(ctx, &payload, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.OrderConfirmation{}, ErrReceiptNotFound
	}
	if err != nil {
		return domain.OrderConfirmation{}, fmt.Errorf("query receipt by id: %w", err)
	}

	var c domain.OrderConfirmation
	if err := json.Unmarshal(payload, &c); err != nil {
		return domain.OrderConfirmation{}, fmt.Errorf("unmarshal receipt: %w", err)
	}
	return c, nil
}

// UnpublishedReceipts returns the oldest receipts not yet handed to the broker.
func (r *Repository) UnpublishedReceipts(ctx context.Context, limit int) ([]*ReceiptRecord, error) {
	query := r.db.Rebind(`SELECT id, order_id, session_id, payload, published
	          FROM receipts WHERE published = ? ORDER BY created_at, id LIMIT ?`)

	var records []*ReceiptRecord
	if err := r.db.SelectContext(ctx, &records, query, false, limit); err != nil {
		return nil, fmt.Errorf("query unpublished receipts: %w", err)
	}
	return records, nil
}

func (r *Repository) MarkPublished(ctx context.Context, id string) error {
	query := r.db.Rebind(`UPDATE receipts SET published = ?, published_at = CURRENT_TIMESTAMP WHERE id = ?`)

	res, err := r.db.ExecContext(ctx, query, true, id)
	if err != nil {
		return fmt.Errorf("mark receipt published: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark receipt published: %w", err)
	}
	if n == 0 {
		return ErrReceiptNotFound
	}
	return nil
}

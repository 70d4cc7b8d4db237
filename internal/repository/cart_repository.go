package repository

import (
	"context"
	"database/sql"

	"github.com/santhokumarp/salonhub/internal/model"
)

// CartRepo provides access to cart_items. A cart is the set of rows owned
// by one user; it is cleared inside the checkout transaction.
type CartRepo struct {
	db *sql.DB
}

// NewCartRepo returns a CartRepo bound to the given database.
func NewCartRepo(db *sql.DB) *CartRepo { return &CartRepo{db: db} }

// AddOrIncrement inserts a (user, service) line with quantity 1, or bumps
// the quantity when the line already exists.
func (r *CartRepo) AddOrIncrement(ctx context.Context, userID, serviceID uint64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO cart_items (user_id, service_id, quantity) VALUES (?, ?, 1)
		 ON DUPLICATE KEY UPDATE quantity = quantity + 1`,
		userID, serviceID)
	return err
}

// CartLine is a cart item joined with its live catalog row, shaped for
// cart display and checkout duration math.
type CartLine struct {
	ItemID      uint64
	ServiceID   uint64
	ServiceName string
	PricePaise  int64
	DurationMin int
	Quantity    int
}

// ListByUser returns the user's cart lines with service details.
func (r *CartRepo) ListByUser(ctx context.Context, userID uint64) ([]CartLine, error) {
	return r.list(ctx, r.db, userID)
}

// ListByUserTx is ListByUser inside an existing transaction. Checkout uses
// it so the lines it snapshots are the lines it clears.
func (r *CartRepo) ListByUserTx(ctx context.Context, tx *sql.Tx, userID uint64) ([]CartLine, error) {
	return r.list(ctx, tx, userID)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func (r *CartRepo) list(ctx context.Context, q querier, userID uint64) ([]CartLine, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT ci.id, s.id, s.name, s.price_paise, s.duration_min, ci.quantity
		 FROM cart_items ci
		 JOIN services s ON s.id = ci.service_id
		 WHERE ci.user_id = ?
		 ORDER BY ci.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	lines := make([]CartLine, 0)
	for rows.Next() {
		var l CartLine
		if err := rows.Scan(&l.ItemID, &l.ServiceID, &l.ServiceName, &l.PricePaise, &l.DurationMin, &l.Quantity); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// Remove deletes one cart line. The user filter keeps a customer from
// deleting another user's line by guessing ids; sql.ErrNoRows on miss.
func (r *CartRepo) Remove(ctx context.Context, userID, itemID uint64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM cart_items WHERE id = ? AND user_id = ?`, itemID, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ClearTx deletes every cart line of the user within the transaction.
func (r *CartRepo) ClearTx(ctx context.Context, tx *sql.Tx, userID uint64) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE user_id = ?`, userID)
	return err
}

// Items returns the raw cart rows without the catalog join.
func (r *CartRepo) Items(ctx context.Context, userID uint64) ([]model.CartItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, service_id, quantity FROM cart_items WHERE user_id = ? ORDER BY id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.CartItem, 0)
	for rows.Next() {
		var it model.CartItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.ServiceID, &it.Quantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

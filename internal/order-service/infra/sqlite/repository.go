// Package sqlite provides the SQLite-backed implementation of
// ports.OrderRepository.
//
// WAL mode is enabled on Open so reads never block the writer — listing and
// lookups keep working while orders are being created.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jcmexdev/orders-ms/internal/order-service/core/domain"
	"github.com/jcmexdev/orders-ms/internal/order-service/core/ports"

	// Register the pure-Go SQLite driver. modernc.org/sqlite avoids CGO,
	// which keeps Docker (Alpine) builds trivial.
	_ "modernc.org/sqlite"
)

var _ ports.OrderRepository = (*Repository)(nil)

// schema is the DDL executed once on startup. Order items belong to exactly
// one order and are only ever written inside the order's own transaction.
const schema = `
CREATE TABLE IF NOT EXISTS orders (
    id            TEXT    PRIMARY KEY,
    total_amount  REAL    NOT NULL CHECK (total_amount >= 0),
    total_items   INTEGER NOT NULL CHECK (total_items >= 0),
    status        TEXT    NOT NULL DEFAULT 'PENDING',

    -- RFC3339 stored as TEXT, the SQLite idiom for timestamps.
    created_at    TEXT    NOT NULL,
    updated_at    TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS order_items (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id    TEXT    NOT NULL REFERENCES orders(id),
    product_id  TEXT    NOT NULL,
    quantity    INTEGER NOT NULL CHECK (quantity > 0),

    -- Unit price snapshot taken at creation time; immutable thereafter.
    price       REAL    NOT NULL CHECK (price >= 0)
);

-- Index for the paginated listing filter.
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);

-- Index for loading an order's items.
CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);
`

// Repository is the SQLite implementation of the order store.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
//
//	repo, err := sqlite.Open("./data/orders.db")
func Open(path string) (*Repository, error) {
	// The pure-Go driver takes pragmas as DSN query parameters. WAL for
	// concurrent readers, foreign_keys for integrity, busy_timeout so
	// writers wait for locks instead of failing immediately.
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// SQLite performs best with a single writer connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close releases the database handle. Call it with defer in main().
func (r *Repository) Close() error {
	return r.db.Close()
}

// Create persists the order and all its items in one transaction.
func (r *Repository) Create(ctx context.Context, agg domain.Aggregation) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("sqlite: begin create order: %w", err)
	}
	defer tx.Rollback()

	order := &domain.Order{
		ID:          uuid.NewString(),
		TotalAmount: agg.TotalAmount,
		TotalItems:  agg.TotalItems,
		Status:      domain.StatusPending,
		Items:       agg.Items,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	const insertOrder = `
		INSERT INTO orders (id, total_amount, total_items, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, insertOrder,
		order.ID,
		order.TotalAmount,
		order.TotalItems,
		string(order.Status),
		formatTime(order.CreatedAt),
		formatTime(order.UpdatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: insert order: %w", err)
	}

	const insertItem = `
		INSERT INTO order_items (order_id, product_id, quantity, price)
		VALUES (?, ?, ?, ?)`
	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, insertItem, order.ID, item.ProductID, item.Quantity, item.Price); err != nil {
			return nil, fmt.Errorf("sqlite: insert item %s for order %s: %w", item.ProductID, order.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("sqlite: commit create order: %w", err)
	}
	return order, nil
}

// FindPage returns one window of orders plus metadata about the full
// matching set. Items are not loaded for listings.
func (r *Repository) FindPage(ctx context.Context, req ports.PageRequest) (*ports.OrderPage, error) {
	req = req.Normalize()

	where := ""
	args := []any{}
	if req.Status != nil {
		where = " WHERE status = ?"
		args = append(args, string(*req.Status))
	}

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders"+where, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("sqlite: count orders: %w", err)
	}

	query := `
		SELECT id, total_amount, total_items, status, created_at, updated_at
		FROM   orders` + where + `
		ORDER  BY created_at DESC, id
		LIMIT  ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, req.Limit, (req.Page-1)*req.Limit)...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list orders: %w", err)
	}
	defer rows.Close()

	data := make([]domain.Order, 0, req.Limit)
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		data = append(data, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate orders: %w", err)
	}

	return &ports.OrderPage{
		Data: data,
		Meta: ports.PageMeta{
			Total:    total,
			Page:     req.Page,
			LastPage: (total + req.Limit - 1) / req.Limit,
		},
	}, nil
}

// FindByID loads a single order with its items.
func (r *Repository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	const q = `
		SELECT id, total_amount, total_items, status, created_at, updated_at
		FROM   orders
		WHERE  id = ?`

	order, err := scanOrder(r.db.QueryRowContext(ctx, q, id))
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("order with id %s not found", id)
	}
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

// UpdateStatus persists a new status and bumps updated_at. The write is a
// single UPDATE, so it is atomic at the order row.
func (r *Repository) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	const q = `UPDATE orders SET status = ?, updated_at = ? WHERE id = ?`

	res, err := r.db.ExecContext(ctx, q, string(status), formatTime(time.Now().UTC()), id)
	if err != nil {
		return nil, fmt.Errorf("sqlite: update status for %q: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("sqlite: rows affected for %q: %w", id, err)
	}
	if affected == 0 {
		return nil, domain.NotFoundf("order with id %s not found", id)
	}

	return r.FindByID(ctx, id)
}

func (r *Repository) loadItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	const q = `
		SELECT product_id, quantity, price
		FROM   order_items
		WHERE  order_id = ?
		ORDER  BY id`

	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load items for %q: %w", orderID, err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.Price); err != nil {
			return nil, fmt.Errorf("sqlite: scan item for %q: %w", orderID, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterate items for %q: %w", orderID, err)
	}
	return items, nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (*domain.Order, error) {
	var (
		order     domain.Order
		status    string
		createdAt string
		updatedAt string
	)
	err := s.Scan(&order.ID, &order.TotalAmount, &order.TotalItems, &status, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: scan order: %w", err)
	}

	order.Status = domain.Status(status)
	if order.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if order.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &order, nil
}

package order

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrNotFound      = errors.New("order not found")
	ErrAlreadyExists = errors.New("order already exists")
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID string) (*Order, error)
	UpdateStatus(ctx context.Context, orderID string, status Status) error
}

type repo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}

	address, err := json.Marshal(o.ShippingAddress)
	if err != nil {
		return fmt.Errorf("marshal shipping address: %w", err)
	}
	breakdown, err := json.Marshal(o.SupplierBreakdown)
	if err != nil {
		return fmt.Errorf("marshal supplier breakdown: %w", err)
	}
	supplierErrors, err := json.Marshal(o.SupplierErrors)
	if err != nil {
		return fmt.Errorf("marshal supplier errors: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO orders (id, status, subtotal, shipping_cost, discount, total, payment_method, payment_reference,
             shipping_address, supplier_breakdown, supplier_status, supplier_errors, auto_submitted, created_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		o.ID, o.Status, o.Subtotal, o.ShippingCost, o.Discount, o.Total, o.PaymentMethod, o.PaymentReference,
		address, breakdown, o.SupplierStatus, supplierErrors, o.AutoSubmitted, o.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("insert order %s: %w", o.ID, ErrAlreadyExists)
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for _, it := range o.Items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (id, order_id, product_id, name, unit_price, quantity)
             VALUES ($1, $2, $3, $4, $5, $6)`,
			uuid.NewString(), o.ID, it.ProductID, it.Name, it.UnitPrice, it.Quantity,
		)
		if err != nil {
			return fmt.Errorf("insert order_item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// GetByID returns nil without error when the order does not exist.
func (r *repo) GetByID(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	var address, breakdown, supplierErrors []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT id, status, subtotal, shipping_cost, discount, total, payment_method, payment_reference,
             shipping_address, supplier_breakdown, supplier_status, supplier_errors, auto_submitted, created_at
         FROM orders WHERE id = $1`,
		orderID,
	).Scan(&o.ID, &o.Status, &o.Subtotal, &o.ShippingCost, &o.Discount, &o.Total, &o.PaymentMethod, &o.PaymentReference,
		&address, &breakdown, &o.SupplierStatus, &supplierErrors, &o.AutoSubmitted, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select order: %w", err)
	}

	if err := unmarshalColumn(address, &o.ShippingAddress); err != nil {
		return nil, fmt.Errorf("decode shipping_address: %w", err)
	}
	if err := unmarshalColumn(breakdown, &o.SupplierBreakdown); err != nil {
		return nil, fmt.Errorf("decode supplier_breakdown: %w", err)
	}
	if err := unmarshalColumn(supplierErrors, &o.SupplierErrors); err != nil {
		return nil, fmt.Errorf("decode supplier_errors: %w", err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, name, unit_price, quantity
         FROM order_items WHERE order_id = $1`,
		o.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("select order_items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ProductID, &it.Name, &it.UnitPrice, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan order_item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return &o, nil
}

func (r *repo) UpdateStatus(ctx context.Context, orderID string, status Status) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, orderID,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func unmarshalColumn(raw []byte, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

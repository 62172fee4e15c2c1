package receipts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mebelpos/mebelpos/internal/platform/db"
)

// ListFilter narrows receipt listings.
type ListFilter struct {
	CashierID  *int64
	CustomerID *int64
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// Repository abstracts receipt persistence.
type Repository interface {
	Create(ctx context.Context, r *Receipt) error
	Get(ctx context.Context, id int64) (*Receipt, error)
	List(ctx context.Context, filter ListFilter) ([]Receipt, int, error)
	CountByCashierSince(ctx context.Context, cashierID int64, since time.Time) (int, error)
	GenerateNumber(ctx context.Context) (string, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a pgx-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// Create inserts the header and every item in a single transaction. This is
// the one blocking write of checkout; everything after it is best-effort.
func (r *repository) Create(ctx context.Context, receipt *Receipt) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO receipts (number, cashier_id, customer_id, total, paid_amount, remaining_amount, payment_method)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at
		`, receipt.Number, receipt.CashierID, receipt.CustomerID, receipt.Total,
			receipt.PaidAmount, receipt.RemainingAmount, receipt.PaymentMethod,
		).Scan(&receipt.ID, &receipt.CreatedAt)
		if err != nil {
			return fmt.Errorf("receipts: insert header: %w", err)
		}

		for i := range receipt.Items {
			item := &receipt.Items[i]
			item.ReceiptID = receipt.ID
			err := tx.QueryRow(ctx, `
				INSERT INTO receipt_items (receipt_id, product_id, code, name, unit, quantity, unit_price,
					paid_cash, paid_click, paid_card, paid_partner)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
				RETURNING id
			`, item.ReceiptID, item.ProductID, item.Code, item.Name, item.Unit, item.Quantity, item.UnitPrice,
				item.Split.Cash, item.Split.Click, item.Split.Card, item.Split.Partner,
			).Scan(&item.ID)
			if err != nil {
				return fmt.Errorf("receipts: insert item: %w", err)
			}
		}
		return nil
	})
}

const receiptColumns = `id, number, cashier_id, customer_id, total, paid_amount, remaining_amount, payment_method, created_at`

func (r *repository) Get(ctx context.Context, id int64) (*Receipt, error) {
	row := r.pool.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM receipts WHERE id = $1", receiptColumns), id)
	receipt, err := scanReceipt(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, receipt_id, product_id, code, name, unit, quantity, unit_price,
			paid_cash, paid_click, paid_card, paid_partner
		FROM receipt_items WHERE receipt_id = $1 ORDER BY id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item Item
		if err := rows.Scan(&item.ID, &item.ReceiptID, &item.ProductID, &item.Code, &item.Name, &item.Unit,
			&item.Quantity, &item.UnitPrice,
			&item.Split.Cash, &item.Split.Click, &item.Split.Card, &item.Split.Partner); err != nil {
			return nil, err
		}
		receipt.Items = append(receipt.Items, item)
	}
	return receipt, rows.Err()
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Receipt, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if filter.CashierID != nil {
		conditions = append(conditions, fmt.Sprintf("cashier_id = $%d", argPos))
		args = append(args, *filter.CashierID)
		argPos++
	}
	if filter.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", argPos))
		args = append(args, *filter.CustomerID)
		argPos++
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argPos))
		args = append(args, *filter.From)
		argPos++
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("created_at < $%d", argPos))
		args = append(args, *filter.To)
		argPos++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + conditions[0]
		for i := 1; i < len(conditions); i++ {
			whereClause += " AND " + conditions[i]
		}
	}

	var total int
	if err := r.pool.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM receipts %s", whereClause), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM receipts %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		receiptColumns, whereClause, argPos, argPos+1)
	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var receipts []Receipt
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			return nil, 0, err
		}
		receipts = append(receipts, *receipt)
	}
	return receipts, total, rows.Err()
}

func (r *repository) CountByCashierSince(ctx context.Context, cashierID int64, since time.Time) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM receipts WHERE cashier_id = $1 AND created_at >= $2", cashierID, since).Scan(&count)
	return count, err
}

// GenerateNumber suggests the next receipt number: R-{YYYYMMDD}-{SEQ}.
func (r *repository) GenerateNumber(ctx context.Context) (string, error) {
	var count int64
	day := time.Now().Format("20060102")
	err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM receipts WHERE created_at::date = CURRENT_DATE").Scan(&count)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("R-%s-%04d", day, count+1), nil
}

func scanReceipt(row pgx.Row) (*Receipt, error) {
	var receipt Receipt
	var customerID pgtype.Int8
	var createdAt pgtype.Timestamptz

	if err := row.Scan(&receipt.ID, &receipt.Number, &receipt.CashierID, &customerID, &receipt.Total,
		&receipt.PaidAmount, &receipt.RemainingAmount, &receipt.PaymentMethod, &createdAt); err != nil {
		return nil, err
	}
	if customerID.Valid {
		v := customerID.Int64
		receipt.CustomerID = &v
	}
	if createdAt.Valid {
		receipt.CreatedAt = createdAt.Time
	}
	return &receipt, nil
}

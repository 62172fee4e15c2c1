package debts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mebelpos/mebelpos/internal/platform/db"
	"github.com/mebelpos/mebelpos/internal/pos/pricing"
)

// Repository abstracts debt persistence.
type Repository interface {
	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
	Get(ctx context.Context, id int64) (*Debt, error)
	List(ctx context.Context, req ListDebtsRequest) ([]Debt, int, error)
	Create(ctx context.Context, d Debt) (int64, error)
	Reduce(ctx context.Context, id int64, amount pricing.Money, remaining pricing.Money) error
	OutstandingTotal(ctx context.Context, customerID int64) (pricing.Money, error)
	ListOpen(ctx context.Context) ([]Debt, error)
}

type repository struct {
	q    pgxQuerier
	pool *pgxpool.Pool
}

type pgxQuerier interface {
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// NewRepository constructs a pgx-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{q: pool, pool: pool}
}

func (r *repository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &repository{q: tx, pool: r.pool})
	})
}

const debtColumns = `id, customer_id, amount, description, items, status, created_at, paid_at`

func (r *repository) Get(ctx context.Context, id int64) (*Debt, error) {
	row := r.q.QueryRow(ctx, fmt.Sprintf("SELECT %s FROM debts WHERE id = $1", debtColumns), id)
	d, err := scanDebt(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *repository) List(ctx context.Context, req ListDebtsRequest) ([]Debt, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if req.CustomerID != nil {
		conditions = append(conditions, fmt.Sprintf("customer_id = $%d", argPos))
		args = append(args, *req.CustomerID)
		argPos++
	}
	if req.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, string(*req.Status))
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
	if err := r.q.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM debts %s", whereClause), args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf("SELECT %s FROM debts %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		debtColumns, whereClause, argPos, argPos+1)
	args = append(args, req.Limit, req.Offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	debts, err := collectDebts(rows)
	if err != nil {
		return nil, 0, err
	}
	return debts, total, nil
}

func (r *repository) Create(ctx context.Context, d Debt) (int64, error) {
	items, err := json.Marshal(d.Items)
	if err != nil {
		return 0, fmt.Errorf("debts: encode items: %w", err)
	}
	var id int64
	err = r.q.QueryRow(ctx, `
		INSERT INTO debts (customer_id, amount, description, items, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, d.CustomerID, d.Amount, d.Description, items, string(StatusOpen)).Scan(&id)
	if err != nil {
		if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == "23503" {
			return 0, ErrUnknownCustomer
		}
		if isForeignKeyViolation(err) {
			return 0, ErrUnknownCustomer
		}
		return 0, err
	}
	return id, nil
}

// Reduce lowers the remaining amount; a remaining balance of zero closes the debt.
func (r *repository) Reduce(ctx context.Context, id int64, amount, remaining pricing.Money) error {
	var row pgx.Row
	if remaining <= 0 {
		row = r.q.QueryRow(ctx, `
			UPDATE debts SET amount = 0, status = $2, paid_at = NOW()
			WHERE id = $1 RETURNING id
		`, id, string(StatusPaid))
	} else {
		row = r.q.QueryRow(ctx, `
			UPDATE debts SET amount = $2 WHERE id = $1 RETURNING id
		`, id, remaining)
	}
	var updated int64
	if err := row.Scan(&updated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (r *repository) OutstandingTotal(ctx context.Context, customerID int64) (pricing.Money, error) {
	var total pricing.Money
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0) FROM debts
		WHERE customer_id = $1 AND status = $2
	`, customerID, string(StatusOpen)).Scan(&total)
	return total, err
}

func (r *repository) ListOpen(ctx context.Context) ([]Debt, error) {
	rows, err := r.q.Query(ctx, fmt.Sprintf(
		"SELECT %s FROM debts WHERE status = $1 ORDER BY created_at", debtColumns), string(StatusOpen))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDebts(rows)
}

// isForeignKeyViolation inspects the SQLSTATE embedded in the driver error.
func isForeignKeyViolation(err error) bool {
	type sqlState interface{ SQLState() string }
	var st sqlState
	if errors.As(err, &st) {
		return st.SQLState() == "23503"
	}
	return false
}

func collectDebts(rows pgx.Rows) ([]Debt, error) {
	var debts []Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		debts = append(debts, *d)
	}
	return debts, rows.Err()
}

func scanDebt(row pgx.Row) (*Debt, error) {
	var d Debt
	var items []byte
	var status string
	var createdAt, paidAt pgtype.Timestamptz

	if err := row.Scan(&d.ID, &d.CustomerID, &d.Amount, &d.Description, &items, &status, &createdAt, &paidAt); err != nil {
		return nil, err
	}
	d.Status = Status(status)
	if len(items) > 0 {
		if err := json.Unmarshal(items, &d.Items); err != nil {
			return nil, fmt.Errorf("debts: decode items: %w", err)
		}
	}
	if createdAt.Valid {
		d.CreatedAt = createdAt.Time
	}
	if paidAt.Valid {
		t := paidAt.Time
		d.PaidAt = &t
	}
	return &d, nil
}

package staff

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository abstracts employee and attendance persistence.
type Repository interface {
	Create(ctx context.Context, e Employee) (int64, error)
	Update(ctx context.Context, id int64, updates map[string]interface{}) error
	Get(ctx context.Context, id int64) (*Employee, error)
	List(ctx context.Context, activeOnly bool) ([]Employee, error)

	UpsertCheckIn(ctx context.Context, employeeID int64, day time.Time, at time.Time) (*Attendance, error)
	CloseAttendance(ctx context.Context, employeeID int64, day time.Time, at time.Time) (*Attendance, error)
	ListAttendance(ctx context.Context, employeeID int64, from, to time.Time) ([]Attendance, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a pgx-backed Repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const employeeColumns = `id, full_name, phone, position, user_id, hired_at, is_active`

func (r *repository) Create(ctx context.Context, e Employee) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO employees (full_name, phone, position, user_id, hired_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, e.FullName, e.Phone, e.Position, e.UserID, e.HiredAt, e.IsActive).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("staff: create employee: %w", err)
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	setClause := ""
	args := []interface{}{}
	argPos := 1
	for col, val := range updates {
		if setClause != "" {
			setClause += ", "
		}
		setClause += fmt.Sprintf("%s = $%d", col, argPos)
		args = append(args, val)
		argPos++
	}
	args = append(args, id)

	tag, err := r.pool.Exec(ctx,
		fmt.Sprintf("UPDATE employees SET %s WHERE id = $%d", setClause, argPos), args...)
	if err != nil {
		return fmt.Errorf("staff: update employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Employee, error) {
	row := r.pool.QueryRow(ctx,
		fmt.Sprintf("SELECT %s FROM employees WHERE id = $1", employeeColumns), id)
	return scanEmployee(row)
}

func (r *repository) List(ctx context.Context, activeOnly bool) ([]Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM employees", employeeColumns)
	if activeOnly {
		query += " WHERE is_active"
	}
	query += " ORDER BY full_name"

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, *e)
	}
	return employees, rows.Err()
}

// UpsertCheckIn records today's check-in once; a repeated check-in returns the
// existing row untouched.
func (r *repository) UpsertCheckIn(ctx context.Context, employeeID int64, day time.Time, at time.Time) (*Attendance, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO attendance (employee_id, day, check_in)
		VALUES ($1, $2, $3)
		ON CONFLICT (employee_id, day) DO NOTHING
	`, employeeID, day, at)
	if err != nil {
		return nil, fmt.Errorf("staff: check in: %w", err)
	}
	row := r.pool.QueryRow(ctx, `
		SELECT id, employee_id, day, check_in, check_out
		FROM attendance WHERE employee_id = $1 AND day = $2
	`, employeeID, day)
	return scanAttendance(row)
}

func (r *repository) CloseAttendance(ctx context.Context, employeeID int64, day time.Time, at time.Time) (*Attendance, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE attendance SET check_out = $3
		WHERE employee_id = $1 AND day = $2 AND check_out IS NULL
	`, employeeID, day, at)
	if err != nil {
		return nil, fmt.Errorf("staff: check out: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotCheckedIn
	}
	row := r.pool.QueryRow(ctx, `
		SELECT id, employee_id, day, check_in, check_out
		FROM attendance WHERE employee_id = $1 AND day = $2
	`, employeeID, day)
	return scanAttendance(row)
}

func (r *repository) ListAttendance(ctx context.Context, employeeID int64, from, to time.Time) ([]Attendance, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, employee_id, day, check_in, check_out
		FROM attendance
		WHERE employee_id = $1 AND day >= $2 AND day < $3
		ORDER BY day
	`, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *a)
	}
	return records, rows.Err()
}

func scanEmployee(row pgx.Row) (*Employee, error) {
	var e Employee
	var userID pgtype.Int8
	var hiredAt pgtype.Timestamptz
	if err := row.Scan(&e.ID, &e.FullName, &e.Phone, &e.Position, &userID, &hiredAt, &e.IsActive); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if userID.Valid {
		v := userID.Int64
		e.UserID = &v
	}
	if hiredAt.Valid {
		e.HiredAt = hiredAt.Time
	}
	return &e, nil
}

func scanAttendance(row pgx.Row) (*Attendance, error) {
	var a Attendance
	var day pgtype.Date
	var checkOut pgtype.Timestamptz
	if err := row.Scan(&a.ID, &a.EmployeeID, &day, &a.CheckIn, &checkOut); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotCheckedIn
		}
		return nil, err
	}
	if day.Valid {
		a.Day = day.Time
	}
	if checkOut.Valid {
		v := checkOut.Time
		a.CheckOut = &v
	}
	return &a, nil
}

package staff

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	employees  map[int64]*Employee
	attendance map[string]*Attendance
	nextID     int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		employees:  map[int64]*Employee{},
		attendance: map[string]*Attendance{},
		nextID:     1,
	}
}

func (m *mockRepository) key(employeeID int64, day time.Time) string {
	return fmt.Sprintf("%d/%s", employeeID, day.Format("2006-01-02"))
}

func (m *mockRepository) Create(_ context.Context, e Employee) (int64, error) {
	id := m.nextID
	m.nextID++
	e.ID = id
	m.employees[id] = &e
	return id, nil
}

func (m *mockRepository) Update(_ context.Context, id int64, updates map[string]interface{}) error {
	e, ok := m.employees[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["full_name"]; ok {
		e.FullName = v.(string)
	}
	if v, ok := updates["is_active"]; ok {
		e.IsActive = v.(bool)
	}
	return nil
}

func (m *mockRepository) Get(_ context.Context, id int64) (*Employee, error) {
	e, ok := m.employees[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func (m *mockRepository) List(_ context.Context, activeOnly bool) ([]Employee, error) {
	var out []Employee
	for _, e := range m.employees {
		if activeOnly && !e.IsActive {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

func (m *mockRepository) UpsertCheckIn(_ context.Context, employeeID int64, day, at time.Time) (*Attendance, error) {
	k := m.key(employeeID, day)
	if a, ok := m.attendance[k]; ok {
		return a, nil
	}
	a := &Attendance{
		ID:         int64(len(m.attendance) + 1),
		EmployeeID: employeeID,
		Day:        day,
		CheckIn:    at,
	}
	m.attendance[k] = a
	return a, nil
}

func (m *mockRepository) CloseAttendance(_ context.Context, employeeID int64, day, at time.Time) (*Attendance, error) {
	a, ok := m.attendance[m.key(employeeID, day)]
	if !ok || a.CheckOut != nil {
		return nil, ErrNotCheckedIn
	}
	out := at
	a.CheckOut = &out
	return a, nil
}

func (m *mockRepository) ListAttendance(_ context.Context, employeeID int64, from, to time.Time) ([]Attendance, error) {
	var out []Attendance
	for _, a := range m.attendance {
		if a.EmployeeID != employeeID {
			continue
		}
		if a.Day.Before(from) || !a.Day.Before(to) {
			continue
		}
		out = append(out, *a)
	}
	return out, nil
}

type mockCounter struct {
	count int
}

func (m *mockCounter) CountByCashierSince(_ context.Context, _ int64, _ time.Time) (int, error) {
	return m.count, nil
}

func newTestService(repo *mockRepository, counter ReceiptCounter) (*Service, *time.Time) {
	svc := NewService(repo, counter)
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	clock := &now
	svc.now = func() time.Time { return *clock }
	return svc, clock
}

func TestCheckInIsIdempotentPerDay(t *testing.T) {
	repo := newMockRepository()
	svc, clock := newTestService(repo, nil)

	e, err := svc.Create(context.Background(), CreateEmployeeRequest{
		FullName: "Dilnoza T.", Phone: "+998901234567", Position: "cashier",
	})
	require.NoError(t, err)

	first, err := svc.CheckIn(context.Background(), e.ID)
	require.NoError(t, err)

	*clock = clock.Add(2 * time.Hour)
	second, err := svc.CheckIn(context.Background(), e.ID)
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first.CheckIn, second.CheckIn)
	require.Len(t, repo.attendance, 1)
}

func TestCheckOutClosesTheDay(t *testing.T) {
	repo := newMockRepository()
	svc, clock := newTestService(repo, nil)

	e, err := svc.Create(context.Background(), CreateEmployeeRequest{
		FullName: "Dilnoza T.", Phone: "+998901234567", Position: "cashier",
	})
	require.NoError(t, err)

	_, err = svc.CheckOut(context.Background(), e.ID)
	require.ErrorIs(t, err, ErrNotCheckedIn)

	_, err = svc.CheckIn(context.Background(), e.ID)
	require.NoError(t, err)

	*clock = clock.Add(8 * time.Hour)
	a, err := svc.CheckOut(context.Background(), e.ID)
	require.NoError(t, err)
	require.NotNil(t, a.CheckOut)
	require.InDelta(t, 8.0, a.Hours(), 0.01)

	_, err = svc.CheckOut(context.Background(), e.ID)
	require.ErrorIs(t, err, ErrNotCheckedIn)
}

func TestMonthlySummary(t *testing.T) {
	repo := newMockRepository()
	counter := &mockCounter{count: 42}
	svc, clock := newTestService(repo, counter)

	userID := int64(3)
	e, err := svc.Create(context.Background(), CreateEmployeeRequest{
		FullName: "Dilnoza T.", Phone: "+998901234567", Position: "cashier", UserID: &userID,
	})
	require.NoError(t, err)

	for day := 0; day < 3; day++ {
		*clock = time.Date(2026, 3, 10+day, 9, 0, 0, 0, time.UTC)
		_, err = svc.CheckIn(context.Background(), e.ID)
		require.NoError(t, err)
		*clock = clock.Add(8 * time.Hour)
		_, err = svc.CheckOut(context.Background(), e.ID)
		require.NoError(t, err)
	}

	summary, err := svc.MonthlySummary(context.Background(), e.ID, "2026-03")
	require.NoError(t, err)
	require.Equal(t, 3, summary.DaysPresent)
	require.InDelta(t, 24.0, summary.TotalHours, 0.01)
	require.Equal(t, 42, summary.ReceiptsIssued)

	_, err = svc.MonthlySummary(context.Background(), e.ID, "March")
	require.Error(t, err)
}

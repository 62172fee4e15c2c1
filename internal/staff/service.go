package staff

import (
	"context"
	"fmt"
	"time"
)

// ReceiptCounter reports how many receipts a terminal account issued since a
// point in time.
type ReceiptCounter interface {
	CountByCashierSince(ctx context.Context, cashierID int64, since time.Time) (int, error)
}

// Service coordinates employee records and attendance.
type Service struct {
	repo     Repository
	receipts ReceiptCounter
	now      func() time.Time
}

// NewService builds a Service. The receipt counter is optional; without it
// summaries report zero receipts.
func NewService(repo Repository, receipts ReceiptCounter) *Service {
	return &Service{repo: repo, receipts: receipts, now: time.Now}
}

func (s *Service) Create(ctx context.Context, req CreateEmployeeRequest) (*Employee, error) {
	hiredAt := s.now()
	if req.HiredAt != nil {
		hiredAt = *req.HiredAt
	}
	e := Employee{
		FullName: req.FullName,
		Phone:    req.Phone,
		Position: req.Position,
		UserID:   req.UserID,
		HiredAt:  hiredAt,
		IsActive: true,
	}
	id, err := s.repo.Create(ctx, e)
	if err != nil {
		return nil, err
	}
	e.ID = id
	return &e, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateEmployeeRequest) (*Employee, error) {
	updates := make(map[string]interface{})
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Position != nil {
		updates["position"] = *req.Position
	}
	if req.UserID != nil {
		updates["user_id"] = *req.UserID
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Employee, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, activeOnly bool) ([]Employee, error) {
	return s.repo.List(ctx, activeOnly)
}

// CheckIn opens today's attendance row. Checking in twice on the same day is
// a no-op that returns the existing row.
func (s *Service) CheckIn(ctx context.Context, employeeID int64) (*Attendance, error) {
	if _, err := s.repo.Get(ctx, employeeID); err != nil {
		return nil, err
	}
	now := s.now()
	return s.repo.UpsertCheckIn(ctx, employeeID, dayOf(now), now)
}

// CheckOut closes today's open attendance row.
func (s *Service) CheckOut(ctx context.Context, employeeID int64) (*Attendance, error) {
	now := s.now()
	return s.repo.CloseAttendance(ctx, employeeID, dayOf(now), now)
}

// MonthlySummary aggregates attendance and receipt activity for a month given
// as "2006-01".
func (s *Service) MonthlySummary(ctx context.Context, employeeID int64, month string) (*MonthlySummary, error) {
	e, err := s.repo.Get(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	from, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, fmt.Errorf("staff: invalid month %q: %w", month, err)
	}
	to := from.AddDate(0, 1, 0)

	records, err := s.repo.ListAttendance(ctx, employeeID, from, to)
	if err != nil {
		return nil, err
	}
	summary := &MonthlySummary{EmployeeID: employeeID, Month: month, DaysPresent: len(records)}
	for _, a := range records {
		summary.TotalHours += a.Hours()
	}

	if s.receipts != nil && e.UserID != nil {
		count, err := s.receipts.CountByCashierSince(ctx, *e.UserID, from)
		if err != nil {
			return nil, err
		}
		summary.ReceiptsIssued = count
	}
	return summary, nil
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

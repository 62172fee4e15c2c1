// Package staff tracks employees, daily attendance and monthly activity.
package staff

import (
	"errors"
	"time"
)

// Employee is a shop worker. UserID links the employee to a terminal account
// when they operate the register.
type Employee struct {
	ID       int64      `json:"id"`
	FullName string     `json:"full_name"`
	Phone    string     `json:"phone"`
	Position string     `json:"position"`
	UserID   *int64     `json:"user_id,omitempty"`
	HiredAt  time.Time  `json:"hired_at"`
	IsActive bool       `json:"is_active"`
}

// Attendance is one employee-day. CheckOut stays nil until the employee
// checks out.
type Attendance struct {
	ID         int64      `json:"id"`
	EmployeeID int64      `json:"employee_id"`
	Day        time.Time  `json:"day"`
	CheckIn    time.Time  `json:"check_in"`
	CheckOut   *time.Time `json:"check_out,omitempty"`
}

// Hours returns the worked hours for a closed attendance row, zero otherwise.
func (a Attendance) Hours() float64 {
	if a.CheckOut == nil {
		return 0
	}
	return a.CheckOut.Sub(a.CheckIn).Hours()
}

// MonthlySummary is the per-employee activity digest.
type MonthlySummary struct {
	EmployeeID     int64   `json:"employee_id"`
	Month          string  `json:"month"`
	DaysPresent    int     `json:"days_present"`
	TotalHours     float64 `json:"total_hours"`
	ReceiptsIssued int     `json:"receipts_issued"`
}

var (
	// ErrNotFound indicates the employee does not exist.
	ErrNotFound = errors.New("staff: employee not found")
	// ErrNotCheckedIn indicates a check-out without an open attendance row.
	ErrNotCheckedIn = errors.New("staff: no open attendance for today")
)

package staff

import "time"

type CreateEmployeeRequest struct {
	FullName string     `json:"full_name" validate:"required,min=2,max=128"`
	Phone    string     `json:"phone" validate:"required,min=5,max=32"`
	Position string     `json:"position" validate:"required,min=2,max=64"`
	UserID   *int64     `json:"user_id,omitempty" validate:"omitempty,gt=0"`
	HiredAt  *time.Time `json:"hired_at,omitempty"`
}

type UpdateEmployeeRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,min=2,max=128"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=5,max=32"`
	Position *string `json:"position,omitempty" validate:"omitempty,min=2,max=64"`
	UserID   *int64  `json:"user_id,omitempty" validate:"omitempty,gt=0"`
	IsActive *bool   `json:"is_active,omitempty"`
}

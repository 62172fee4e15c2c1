package debts

type CreateDebtRequest struct {
	CustomerID  int64  `json:"customer_id" validate:"required,gt=0"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Description string `json:"description" validate:"max=500"`
	Items       []Item `json:"items,omitempty"`
}

type PayDebtRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

type ListDebtsRequest struct {
	CustomerID *int64  `json:"customer_id,omitempty"`
	Status     *Status `json:"status,omitempty"`
	Limit      int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int     `json:"offset" validate:"gte=0"`
}

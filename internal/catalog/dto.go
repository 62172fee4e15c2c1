package catalog

type CreateProductRequest struct {
	Code          string  `json:"code" validate:"required,max=50"`
	Name          string  `json:"name" validate:"required,max=200"`
	BasePrice     int64   `json:"base_price" validate:"required,gt=0"`
	CostPrice     *int64  `json:"cost_price,omitempty" validate:"omitempty,gt=0"`
	StockQuantity int     `json:"stock_quantity" validate:"gte=0"`
	Unit          string  `json:"unit" validate:"required,max=20"`
	ImagePath     *string `json:"image_path,omitempty" validate:"omitempty,max=500"`
}

type UpdateProductRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,max=200"`
	BasePrice     *int64  `json:"base_price,omitempty" validate:"omitempty,gt=0"`
	CostPrice     *int64  `json:"cost_price,omitempty" validate:"omitempty,gt=0"`
	StockQuantity *int    `json:"stock_quantity,omitempty" validate:"omitempty,gte=0"`
	Unit          *string `json:"unit,omitempty" validate:"omitempty,max=20"`
	ImagePath     *string `json:"image_path,omitempty" validate:"omitempty,max=500"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

type ListProductsRequest struct {
	Search   *string `json:"search,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
	Limit    int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset   int     `json:"offset" validate:"gte=0"`
}

type RestockRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

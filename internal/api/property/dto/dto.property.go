package propertydto

// PropertyCreateInput đầu vào tạo bất động sản.
type PropertyCreateInput struct {
	Title       string  `json:"title" validate:"required,no_xss"`
	Description string  `json:"description"`
	Address     string  `json:"address" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Beds        int     `json:"beds" validate:"gte=0"`
	Baths       int     `json:"baths" validate:"gte=0"`
	Sqft        int     `json:"sqft" validate:"gte=0"`
	Type        string  `json:"type" validate:"required"`
	Status      string  `json:"status"`
	Agent       string  `json:"agent" validate:"omitempty,exists=users"`
	Featured    bool    `json:"featured"`
}

// PropertyUpdateInput đầu vào cập nhật bất động sản, chỉ các trường khác rỗng
// mới được ghi đè.
type PropertyUpdateInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Address     string   `json:"address"`
	Price       *float64 `json:"price"`
	Beds        *int     `json:"beds"`
	Baths       *int     `json:"baths"`
	Sqft        *int     `json:"sqft"`
	Type        string   `json:"type"`
	Status      string   `json:"status"`
	Agent       *string  `json:"agent"`
	Featured    *bool    `json:"featured"`
}

// PropertyImageDeleteInput đầu vào xóa một ảnh theo publicId.
type PropertyImageDeleteInput struct {
	PublicID string `json:"publicId" validate:"required"`
}

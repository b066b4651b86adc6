package request

type CreateItemRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	PriceCents  int64    `json:"price_cents" binding:"required,min=0"`
	Quantity    int32    `json:"quantity" binding:"min=0"`
	Images      []string `json:"images"`
}

// All fields optional; present fields replace, absent fields keep.
type UpdateItemRequest struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	PriceCents  *int64    `json:"price_cents,omitempty"`
	Quantity    *int32    `json:"quantity,omitempty"`
	Images      *[]string `json:"images,omitempty"`
}

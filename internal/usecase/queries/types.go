package queries

import (
	"time"

	"github.com/google/uuid"
)

// AuthorizedUserView represents read-optimized user data with authorization info
type AuthorizedUserView struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	DisplayName string    `json:"display_name"`
	ShopName    *string   `json:"shop_name,omitempty"`
	IsActive    bool      `json:"is_active"`
}

// ItemView represents read-optimized catalog item data
type ItemView struct {
	ID          uuid.UUID `json:"id"`
	SellerID    uuid.UUID `json:"seller_id"`
	SellerName  string    `json:"seller_name"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	Quantity    int32     `json:"quantity"`
	Version     int32     `json:"version"`
	Images      []string  `json:"images"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CartLineView joins a cart line with the live catalog row it points at.
type CartLineView struct {
	ID         uuid.UUID `json:"id"`
	ItemID     uuid.UUID `json:"item_id"`
	ItemName   string    `json:"item_name"`
	PriceCents int64     `json:"price_cents"`
	Quantity   int32     `json:"quantity"`
	Selected   bool      `json:"selected"`
	InStock    int32     `json:"in_stock"`
	Image      *string   `json:"image,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// OrderLineView carries snapshot content, not live catalog content. What the
// buyer saw at checkout is what the order shows forever.
type OrderLineView struct {
	ItemID     uuid.UUID `json:"item_id"`
	Version    int32     `json:"version"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	Quantity   int32     `json:"quantity"`
	Image      *string   `json:"image,omitempty"`
}

type OrderView struct {
	ID              uuid.UUID       `json:"id"`
	BuyerID         uuid.UUID       `json:"buyer_id"`
	SellerID        uuid.UUID       `json:"seller_id"`
	SellerName      string          `json:"seller_name"`
	DisplayName     string          `json:"display_name"`
	Image           *string         `json:"image,omitempty"`
	Status          string          `json:"status"`
	TotalPriceCents int64           `json:"total_price_cents"`
	Recipient       string          `json:"recipient"`
	PostalCode      string          `json:"postal_code"`
	Address1        string          `json:"address1"`
	Address2        *string         `json:"address2,omitempty"`
	Phone           string          `json:"phone"`
	Lines           []OrderLineView `json:"lines"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type OrderListItem struct {
	ID              uuid.UUID `json:"id"`
	SellerName      string    `json:"seller_name"`
	DisplayName     string    `json:"display_name"`
	Image           *string   `json:"image,omitempty"`
	Status          string    `json:"status"`
	TotalPriceCents int64     `json:"total_price_cents"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

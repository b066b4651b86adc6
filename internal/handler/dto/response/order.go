package response

import (
	"time"

	"marketplace-core/internal/usecase/commands"
	"marketplace-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type OrderLineResponse struct {
	ItemID     uuid.UUID `json:"itemId"`
	Version    int32     `json:"version"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"priceCents"`
	Quantity   int32     `json:"quantity"`
	Image      *string   `json:"image,omitempty"`
}

type OrderResponse struct {
	ID              uuid.UUID           `json:"id"`
	BuyerID         uuid.UUID           `json:"buyerId"`
	SellerID        uuid.UUID           `json:"sellerId"`
	SellerName      string              `json:"sellerName"`
	DisplayName     string              `json:"displayName"`
	Image           *string             `json:"image,omitempty"`
	Status          string              `json:"status"`
	TotalPriceCents int64               `json:"totalPriceCents"`
	Recipient       string              `json:"recipient"`
	PostalCode      string              `json:"postalCode"`
	Address1        string              `json:"address1"`
	Address2        *string             `json:"address2,omitempty"`
	Phone           string              `json:"phone"`
	Lines           []OrderLineResponse `json:"lines"`
	CreatedAt       time.Time           `json:"createdAt"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

type OrderListItemResponse struct {
	ID              uuid.UUID `json:"id"`
	SellerName      string    `json:"sellerName"`
	DisplayName     string    `json:"displayName"`
	Image           *string   `json:"image,omitempty"`
	Status          string    `json:"status"`
	TotalPriceCents int64     `json:"totalPriceCents"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type OrderListResponse struct {
	Orders     []OrderListItemResponse `json:"orders"`
	NextCursor *string                 `json:"nextCursor,omitempty"`
}

type CreatedOrderResponse struct {
	ID              uuid.UUID `json:"id"`
	SellerID        uuid.UUID `json:"sellerId"`
	DisplayName     string    `json:"displayName"`
	TotalPriceCents int64     `json:"totalPriceCents"`
}

type CheckoutResponse struct {
	Orders []CreatedOrderResponse `json:"orders"`
}

func FromOrderView(rm *queries.OrderView) (*OrderResponse, error) {
	var resp OrderResponse
	if err := copier.Copy(&resp, rm); err != nil {
		return nil, err
	}
	return &resp, nil
}

func FromOrderListItems(rms []*queries.OrderListItem, next *queries.Cursor) (*OrderListResponse, error) {
	resp := &OrderListResponse{Orders: make([]OrderListItemResponse, 0, len(rms))}
	for _, rm := range rms {
		var item OrderListItemResponse
		if err := copier.Copy(&item, rm); err != nil {
			return nil, err
		}
		resp.Orders = append(resp.Orders, item)
	}
	if next != nil {
		resp.NextCursor = &next.After
	}
	return resp, nil
}

func FromCheckoutResult(result *commands.CheckoutResult) (*CheckoutResponse, error) {
	var resp CheckoutResponse
	if err := copier.Copy(&resp.Orders, result.Orders); err != nil {
		return nil, err
	}
	return &resp, nil
}

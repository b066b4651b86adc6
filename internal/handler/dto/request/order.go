package request

import (
	"marketplace-core/internal/domain/order"
)

type CheckoutRequest struct {
	Recipient  string  `json:"recipient" binding:"required"`
	PostalCode string  `json:"postal_code" binding:"required"`
	Address1   string  `json:"address1" binding:"required"`
	Address2   *string `json:"address2,omitempty"`
	Phone      string  `json:"phone" binding:"required"`
}

func (r CheckoutRequest) ToDomain() (order.ShippingAddress, error) {
	return order.NewShippingAddress(r.Recipient, r.PostalCode, r.Address1, r.Address2, r.Phone)
}

type ChangeOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

package request

import (
	"github.com/google/uuid"
)

type AddCartLineRequest struct {
	ItemID   uuid.UUID `json:"item_id" binding:"required"`
	Quantity int32     `json:"quantity" binding:"required,min=1"`
}

type SelectCartLineRequest struct {
	Selected *bool `json:"selected" binding:"required"`
}

package response

import (
	"time"

	"marketplace-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type CartLineResponse struct {
	ID         uuid.UUID `json:"id"`
	ItemID     uuid.UUID `json:"itemId"`
	ItemName   string    `json:"itemName"`
	PriceCents int64     `json:"priceCents"`
	Quantity   int32     `json:"quantity"`
	Selected   bool      `json:"selected"`
	InStock    int32     `json:"inStock"`
	Image      *string   `json:"image,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func FromCartLineViews(rms []*queries.CartLineView) ([]CartLineResponse, error) {
	resps := make([]CartLineResponse, 0, len(rms))
	for _, rm := range rms {
		var resp CartLineResponse
		if err := copier.Copy(&resp, rm); err != nil {
			return nil, err
		}
		resps = append(resps, resp)
	}
	return resps, nil
}

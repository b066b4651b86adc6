package response

import (
	"marketplace-core/internal/usecase/queries"

	"github.com/google/uuid"
)

type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	User        *UserResponse `json:"user"`
}

type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	DisplayName string    `json:"displayName"`
	ShopName    *string   `json:"shopName,omitempty"`
}

func FromAuthorizedUserView(rm *queries.AuthorizedUserView) *UserResponse {
	return &UserResponse{
		ID:          rm.ID,
		Email:       rm.Email,
		Role:        rm.Role,
		DisplayName: rm.DisplayName,
		ShopName:    rm.ShopName,
	}
}

//go:build e2e

package cart_test

import (
	"net/http"
	"testing"

	"marketplace-core/internal/domain/user"
	"marketplace-core/internal/handler/dto/request"
	"marketplace-core/internal/handler/dto/response"
	"marketplace-core/tests/common/authtest"
	"marketplace-core/tests/common/dbtest"
	"marketplace-core/tests/common/httptest"
	"marketplace-core/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	cartURL      = "/api/cart"
	cartLinesURL = "/api/cart/lines"
)

type CartFlowSuite struct {
	e2e.SharedSuite
}

func TestCartFlowSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(CartFlowSuite))
}

func (s *CartFlowSuite) seedBuyerAndItem() (string, uuid.UUID) {
	t := s.T()
	sellerID := dbtest.CreateTestUser(t, s.DB, "seller@example.com", string(user.RoleSeller))
	itemID := dbtest.CreateTestItem(t, s.DB, sellerID, "Walnut desk", 24900, 5)
	token := authtest.CreateAndLogin(t, s.DB, s.Router, "buyer@example.com", string(user.RoleBuyer))
	return token, itemID
}

func (s *CartFlowSuite) listCart(token string) []response.CartLineResponse {
	t := s.T()
	w := httptest.PerformRequest(t, s.Router, http.MethodGet, cartURL, nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var lines []response.CartLineResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &lines))
	return lines
}

func (s *CartFlowSuite) TestCartLines() {
	s.Run("adding the same item twice replaces the quantity", func() {
		t := s.T()
		token, itemID := s.seedBuyerAndItem()

		for _, qty := range []int32{1, 3} {
			w := httptest.PerformRequest(t, s.Router, http.MethodPut, cartLinesURL,
				request.AddCartLineRequest{ItemID: itemID, Quantity: qty}, token)
			require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
		}

		lines := s.listCart(token)
		require.Len(t, lines, 1)
		require.Equal(t, itemID, lines[0].ItemID)
		require.Equal(t, int32(3), lines[0].Quantity)
		require.True(t, lines[0].Selected)
		require.Equal(t, "Walnut desk", lines[0].ItemName)
		require.Equal(t, int32(5), lines[0].InStock)
	})

	s.Run("unknown items cannot enter the cart", func() {
		t := s.T()
		token, _ := s.seedBuyerAndItem()

		w := httptest.PerformRequest(t, s.Router, http.MethodPut, cartLinesURL,
			request.AddCartLineRequest{ItemID: uuid.New(), Quantity: 1}, token)
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Item not found")
	})

	s.Run("selection can be toggled per line", func() {
		t := s.T()
		token, itemID := s.seedBuyerAndItem()

		w := httptest.PerformRequest(t, s.Router, http.MethodPut, cartLinesURL,
			request.AddCartLineRequest{ItemID: itemID, Quantity: 2}, token)
		require.Equal(t, http.StatusNoContent, w.Code)

		deselect := false
		w = httptest.PerformRequest(t, s.Router, http.MethodPatch,
			cartLinesURL+"/"+itemID.String()+"/selected",
			request.SelectCartLineRequest{Selected: &deselect}, token)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())

		lines := s.listCart(token)
		require.Len(t, lines, 1)
		require.False(t, lines[0].Selected)

		w = httptest.PerformRequest(t, s.Router, http.MethodPatch,
			cartLinesURL+"/"+uuid.New().String()+"/selected",
			request.SelectCartLineRequest{Selected: &deselect}, token)
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Cart line not found")
	})

	s.Run("removing a line empties the cart", func() {
		t := s.T()
		token, itemID := s.seedBuyerAndItem()

		w := httptest.PerformRequest(t, s.Router, http.MethodPut, cartLinesURL,
			request.AddCartLineRequest{ItemID: itemID, Quantity: 1}, token)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = httptest.PerformRequest(t, s.Router, http.MethodDelete,
			cartLinesURL+"/"+itemID.String(), nil, token)
		require.Equal(t, http.StatusNoContent, w.Code, w.Body.String())
		require.Empty(t, s.listCart(token))

		// The line is gone, so a second delete finds nothing.
		w = httptest.PerformRequest(t, s.Router, http.MethodDelete,
			cartLinesURL+"/"+itemID.String(), nil, token)
		httptest.AssertErrorResponse(t, w, http.StatusNotFound, "Cart line not found")
	})

	s.Run("sellers have no cart", func() {
		t := s.T()
		_, itemID := s.seedBuyerAndItem()
		sellerToken := authtest.LoginUser(t, s.Router, "seller@example.com", "password123")

		w := httptest.PerformRequest(t, s.Router, http.MethodPut, cartLinesURL,
			request.AddCartLineRequest{ItemID: itemID, Quantity: 1}, sellerToken)
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, cartURL, nil, sellerToken)
		require.Equal(t, http.StatusForbidden, w.Code)
	})
}

package api

import (
	"errors"
	"net/http"

	reqdto "marketplace-core/internal/handler/dto/request"
	resdto "marketplace-core/internal/handler/dto/response"
	"marketplace-core/internal/handler/httperr"
	"marketplace-core/internal/handler/middleware"
	"marketplace-core/internal/usecase/commands"
	"marketplace-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CartHandler struct {
	cartCommands commands.CartCommands
	cartQueries  queries.CartQueries
}

func NewCartHandler(cartCommands commands.CartCommands, cartQueries queries.CartQueries) *CartHandler {
	return &CartHandler{
		cartCommands: cartCommands,
		cartQueries:  cartQueries,
	}
}

// @Summary List cart
// @Description List the authenticated buyer's cart lines with live stock info
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Success 200 {array} resdto.CartLineResponse
// @Router /cart [get]
func (h *CartHandler) List(c *gin.Context) {
	buyerID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errNoActor, "Internal server error", nil)
		return
	}

	views, err := h.cartQueries.ListByBuyer(c.Request.Context(), buyerID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	response, err := resdto.FromCartLineViews(views)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Add cart line
// @Description Add an item to the cart, or replace its quantity if present
// @Tags cart
// @Accept json
// @Security BearerAuth
// @Param request body reqdto.AddCartLineRequest true "Item and quantity"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cart/lines [put]
func (h *CartHandler) AddLine(c *gin.Context) {
	buyerID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errNoActor, "Internal server error", nil)
		return
	}

	var req reqdto.AddCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	err := h.cartCommands.AddLine(c.Request.Context(), buyerID, req)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrItemNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Item not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Select cart line
// @Description Mark a cart line as selected or deselected for checkout
// @Tags cart
// @Accept json
// @Security BearerAuth
// @Param itemId path string true "Item ID"
// @Param request body reqdto.SelectCartLineRequest true "Selection"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /cart/lines/{itemId}/selected [patch]
func (h *CartHandler) SelectLine(c *gin.Context) {
	buyerID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errNoActor, "Internal server error", nil)
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid item ID", nil)
		return
	}

	var req reqdto.SelectCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	err = h.cartCommands.SetSelected(c.Request.Context(), buyerID, itemID, *req.Selected)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrCartLineNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Cart line not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Remove cart line
// @Description Remove an item from the cart
// @Tags cart
// @Security BearerAuth
// @Param itemId path string true "Item ID"
// @Success 204 "No Content"
// @Failure 404 {object} map[string]string
// @Router /cart/lines/{itemId} [delete]
func (h *CartHandler) RemoveLine(c *gin.Context) {
	buyerID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errNoActor, "Internal server error", nil)
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid item ID", nil)
		return
	}

	err = h.cartCommands.RemoveLine(c.Request.Context(), buyerID, itemID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrCartLineNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Cart line not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

package api

import (
	"errors"
	"net/http"

	"marketplace-core/internal/domain/order"
	reqdto "marketplace-core/internal/handler/dto/request"
	resdto "marketplace-core/internal/handler/dto/response"
	"marketplace-core/internal/handler/httperr"
	"marketplace-core/internal/handler/middleware"
	"marketplace-core/internal/usecase/commands"
	"marketplace-core/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	checkoutCommands commands.CheckoutCommands
	orderCommands    commands.OrderCommands
	orderQueries     queries.OrderQueries
}

func NewOrderHandler(checkoutCommands commands.CheckoutCommands, orderCommands commands.OrderCommands, orderQueries queries.OrderQueries) *OrderHandler {
	return &OrderHandler{
		checkoutCommands: checkoutCommands,
		orderCommands:    orderCommands,
		orderQueries:     orderQueries,
	}
}

// @Summary Checkout
// @Description Turn the selected cart lines into per-seller orders
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CheckoutRequest true "Shipping address"
// @Success 201 {object} resdto.CheckoutResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /orders/checkout [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	buyerID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errNoActor, "Internal server error", nil)
		return
	}

	var req reqdto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.checkoutCommands.Checkout(c.Request.Context(), buyerID, req)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrNoItemsSelected):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "No cart items selected", nil)
		case errors.Is(err, commands.ErrInsufficientStock):
			var stockErr *commands.InsufficientStockError
			var detail any
			if errors.As(err, &stockErr) {
				detail = stockErr.Items
			}
			httperr.AbortWithError(c, http.StatusConflict, err, "Insufficient stock", detail)
		case errors.Is(err, commands.ErrCheckoutItemGone):
			httperr.AbortWithError(c, http.StatusConflict, err, "An item in the cart is no longer available", nil)
		case errors.Is(err, commands.ErrDomainValidation):
			httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid shipping address", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	response, err := resdto.FromCheckoutResult(result)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusCreated, response)
}

// @Summary Change order status
// @Description Apply one transition of the order state machine
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body reqdto.ChangeOrderStatusRequest true "Target status"
// @Success 200 {object} resdto.OrderResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /orders/{id}/status [patch]
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errNoActor, "Internal server error", nil)
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid order ID", nil)
		return
	}

	var req reqdto.ChangeOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	err = h.orderCommands.ChangeStatus(c.Request.Context(), actor, orderID, order.Status(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrOrderNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Order not found", nil)
		case errors.Is(err, commands.ErrUnauthorized):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Not a party to this order", nil)
		case errors.Is(err, commands.ErrInvalidTransition):
			// Surface the guard's reason so the client can tell "already
			// confirmed" from "not yet confirmed" without parsing states.
			msg := "Invalid status transition"
			var transitionErr *order.TransitionError
			if errors.As(err, &transitionErr) {
				msg = transitionErr.Reason
			}
			httperr.AbortWithError(c, http.StatusConflict, err, msg, nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	view, err := h.orderQueries.GetByID(c.Request.Context(), actor, orderID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	response, err := resdto.FromOrderView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, response)
}

// @Summary Get order
// @Description Get one order with its snapshot-backed lines
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} resdto.OrderResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errNoActor, "Internal server error", nil)
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid order ID", nil)
		return
	}

	view, err := h.orderQueries.GetByID(c.Request.Context(), actor, orderID)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrOrderNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Order not found", nil)
		case errors.Is(err, queries.ErrOrderAccess):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Not a party to this order", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	response, err := resdto.FromOrderView(view)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, response)
}

// @Summary List my purchases
// @Description List the authenticated buyer's orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param sort query string false "newest or oldest" default(newest)
// @Param limit query int false "Page size" default(50)
// @Param after query string false "Cursor from the previous page"
// @Success 200 {object} resdto.OrderListResponse
// @Failure 400 {object} httperr.Response
// @Router /orders [get]
func (h *OrderHandler) ListPurchases(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errNoActor, "Internal server error", nil)
		return
	}
	h.list(c, func(sort queries.OrderSort, after *queries.Cursor, limit int) ([]*queries.OrderListItem, *queries.Cursor, error) {
		return h.orderQueries.ListByBuyer(c.Request.Context(), userID, sort, after, limit)
	})
}

// @Summary List incoming orders
// @Description List orders sold by the authenticated seller
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param sort query string false "newest or oldest" default(newest)
// @Param limit query int false "Page size" default(50)
// @Param after query string false "Cursor from the previous page"
// @Success 200 {object} resdto.OrderListResponse
// @Failure 400 {object} httperr.Response
// @Router /orders/incoming [get]
func (h *OrderHandler) ListIncoming(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errNoActor, "Internal server error", nil)
		return
	}
	h.list(c, func(sort queries.OrderSort, after *queries.Cursor, limit int) ([]*queries.OrderListItem, *queries.Cursor, error) {
		return h.orderQueries.ListBySeller(c.Request.Context(), userID, sort, after, limit)
	})
}

func (h *OrderHandler) list(c *gin.Context, fetch func(queries.OrderSort, *queries.Cursor, int) ([]*queries.OrderListItem, *queries.Cursor, error)) {
	sort := queries.OrderSort(c.DefaultQuery("sort", string(queries.SortNewest)))
	limit := parseIntQuery(c, "limit", 0)

	var after *queries.Cursor
	if cursor := c.Query("after"); cursor != "" {
		after = &queries.Cursor{After: cursor}
	}

	items, next, err := fetch(sort, after, limit)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrInvalidCursor), errors.Is(err, queries.ErrInvalidSortKey):
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid list parameters", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	response, err := resdto.FromOrderListItems(items, next)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}
	c.JSON(http.StatusOK, response)
}

package commands

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"marketplace-core/internal/domain/item"
	"marketplace-core/internal/domain/order"
	reqdto "marketplace-core/internal/handler/dto/request"
	"marketplace-core/internal/pkg/clock"
	"marketplace-core/internal/pkg/config"
	"marketplace-core/internal/pkg/errs"
	"marketplace-core/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrNoItemsSelected         = errs.New("no cart items selected")
	ErrInsufficientStock       = errs.New("insufficient stock")
	ErrCheckoutItemGone        = errs.New("cart references an item that no longer exists")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

// StockShortage reports one line the buyer asked for that the catalog cannot
// cover right now.
type StockShortage struct {
	ItemID    uuid.UUID `json:"item_id"`
	Name      string    `json:"name"`
	Requested int32     `json:"requested"`
	Available int32     `json:"available"`
}

// InsufficientStockError aggregates every shortage found in one checkout
// attempt so the buyer fixes the cart once, not item by item.
type InsufficientStockError struct {
	Items []StockShortage
}

func (e *InsufficientStockError) Error() string {
	names := make([]string, 0, len(e.Items))
	for _, s := range e.Items {
		names = append(names, fmt.Sprintf("%s (want %d, have %d)", s.Name, s.Requested, s.Available))
	}
	return "insufficient stock: " + strings.Join(names, ", ")
}

type CreatedOrder struct {
	ID              uuid.UUID `json:"id"`
	SellerID        uuid.UUID `json:"seller_id"`
	DisplayName     string    `json:"display_name"`
	TotalPriceCents int64     `json:"total_price_cents"`
}

type CheckoutResult struct {
	Orders []CreatedOrder `json:"orders"`
}

type CheckoutCommands interface {
	Checkout(ctx context.Context, buyerID uuid.UUID, req reqdto.CheckoutRequest) (*CheckoutResult, error)
}

type checkoutCommandsImpl struct {
	uow      shared.UnitOfWork
	clock    clock.Clock
	orderCfg config.OrderConfig
}

func NewCheckoutCommands(uow shared.UnitOfWork, clock clock.Clock, orderCfg config.OrderConfig) CheckoutCommands {
	return &checkoutCommandsImpl{
		uow:      uow,
		clock:    clock,
		orderCfg: orderCfg,
	}
}

// Checkout turns the buyer's selected cart lines into per-seller orders in one
// transaction. Either every order is created with its stock reserved, or
// nothing happens at all.
func (c *checkoutCommandsImpl) Checkout(ctx context.Context, buyerID uuid.UUID, req reqdto.CheckoutRequest) (*CheckoutResult, error) {
	shipTo, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, ErrDomainValidation)
	}

	var created []*order.Order
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		created = nil

		lines, err := tx.CartLines().SelectedByBuyer(ctx, tx.DB(), buyerID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if len(lines) == 0 {
			return ErrNoItemsSelected
		}

		locked, err := c.lockItems(ctx, tx, lines)
		if err != nil {
			return err
		}

		if err := checkStock(lines, locked); err != nil {
			return err
		}

		orders, err := buildOrders(buyerID, shipTo, lines, locked)
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}

		for _, o := range orders {
			for _, line := range o.Lines() {
				it := locked[line.ItemID]
				if err := tx.Snapshots().GetOrCreate(ctx, tx.DB(), it.ID, it.Version, snapshotContent(it)); err != nil {
					return errs.Mark(err, ErrDatabaseOperationFailed)
				}
			}
			if err := tx.Orders().Create(ctx, tx.DB(), o); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			for _, line := range o.Lines() {
				if err := tx.Items().DecrementQuantity(ctx, tx.DB(), line.ItemID, line.Quantity); err != nil {
					return errs.Mark(err, ErrDatabaseOperationFailed)
				}
			}
		}

		consumed := make([]uuid.UUID, 0, len(lines))
		for _, l := range lines {
			consumed = append(consumed, l.ID)
		}
		if err := tx.CartLines().DeleteByIDs(ctx, tx.DB(), consumed); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		created = orders
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.scheduleAwaitingTimeouts(ctx, created)

	result := &CheckoutResult{Orders: make([]CreatedOrder, 0, len(created))}
	for _, o := range created {
		result.Orders = append(result.Orders, CreatedOrder{
			ID:              o.ID(),
			SellerID:        o.SellerID(),
			DisplayName:     o.DisplayName(),
			TotalPriceCents: o.TotalPriceCents(),
		})
	}
	return result, nil
}

// Row locks are taken in item id order so two overlapping checkouts always
// queue instead of deadlocking.
func (c *checkoutCommandsImpl) lockItems(ctx context.Context, tx shared.Tx, lines []shared.CartLine) (map[uuid.UUID]shared.LockedItem, error) {
	ids := make([]uuid.UUID, 0, len(lines))
	seen := make(map[uuid.UUID]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ItemID]; ok {
			continue
		}
		seen[l.ItemID] = struct{}{}
		ids = append(ids, l.ItemID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	items, err := tx.Items().LockByIDs(ctx, tx.DB(), ids)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if len(items) != len(ids) {
		return nil, ErrCheckoutItemGone
	}

	locked := make(map[uuid.UUID]shared.LockedItem, len(items))
	for _, it := range items {
		locked[it.ID] = it
	}
	return locked, nil
}

// All shortages are collected before failing; a partial checkout never happens.
func checkStock(lines []shared.CartLine, locked map[uuid.UUID]shared.LockedItem) error {
	var shortages []StockShortage
	for _, l := range lines {
		it := locked[l.ItemID]
		if it.Quantity < l.Quantity {
			shortages = append(shortages, StockShortage{
				ItemID:    it.ID,
				Name:      it.Name,
				Requested: l.Quantity,
				Available: it.Quantity,
			})
		}
	}
	if len(shortages) > 0 {
		return errs.Mark(&InsufficientStockError{Items: shortages}, ErrInsufficientStock)
	}
	return nil
}

// One order per seller. The representative item (lowest name, case
// insensitive) lends the order its display name and image.
func buildOrders(buyerID uuid.UUID, shipTo order.ShippingAddress, lines []shared.CartLine, locked map[uuid.UUID]shared.LockedItem) ([]*order.Order, error) {
	bySeller := make(map[uuid.UUID][]shared.CartLine)
	for _, l := range lines {
		sellerID := locked[l.ItemID].SellerID
		bySeller[sellerID] = append(bySeller[sellerID], l)
	}

	sellerIDs := make([]uuid.UUID, 0, len(bySeller))
	for id := range bySeller {
		sellerIDs = append(sellerIDs, id)
	}
	sort.Slice(sellerIDs, func(i, j int) bool { return sellerIDs[i].String() < sellerIDs[j].String() })

	orders := make([]*order.Order, 0, len(sellerIDs))
	for _, sellerID := range sellerIDs {
		group := bySeller[sellerID]

		var total int64
		var rep shared.LockedItem
		orderLines := make([]order.Line, 0, len(group))
		for i, l := range group {
			it := locked[l.ItemID]
			if i == 0 || strings.ToLower(it.Name) < strings.ToLower(rep.Name) {
				rep = it
			}
			total += int64(l.Quantity) * it.PriceCents
			orderLines = append(orderLines, order.Line{
				ItemID:    it.ID,
				Version:   it.Version,
				Quantity:  l.Quantity,
				UnitPrice: it.PriceCents,
			})
		}

		var repImage *string
		if len(rep.Images) > 0 {
			img := rep.Images[0]
			repImage = &img
		}

		o, err := order.NewOrder(buyerID, sellerID, rep.Name, repImage, total, shipTo, orderLines)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}

	return orders, nil
}

func snapshotContent(it shared.LockedItem) item.SnapshotContent {
	return item.SnapshotContent{
		Name:        it.Name,
		Description: it.Description,
		PriceCents:  it.PriceCents,
		Images:      it.Images,
	}
}

// Timeout jobs are written after the checkout commits so a rolled-back
// checkout never leaves cancellation jobs behind. A failure here only costs
// the auto-cancel; the orders themselves are already durable.
func (c *checkoutCommandsImpl) scheduleAwaitingTimeouts(ctx context.Context, orders []*order.Order) {
	if len(orders) == 0 {
		return
	}
	fu, ok := order.ScheduledFollowUp(order.StatusAwaiting)
	if !ok {
		return
	}
	fireAt := c.clock.Now().Add(c.orderCfg.AwaitingTimeout())

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		for _, o := range orders {
			if err := tx.Jobs().Schedule(ctx, tx.DB(), o.ID(), fu.Expected, fu.Target, fireAt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		slog.Error("failed to schedule awaiting timeouts", "orders", len(orders), "error", err.Error())
	}
}

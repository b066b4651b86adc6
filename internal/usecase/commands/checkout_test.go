//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"marketplace-core/internal/domain/order"
	reqdto "marketplace-core/internal/handler/dto/request"
	"marketplace-core/internal/pkg/clock"
	"marketplace-core/internal/pkg/config"
	"marketplace-core/internal/pkg/errs"
	"marketplace-core/internal/usecase/commands"
	"marketplace-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var checkoutBase = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func validCheckoutRequest() reqdto.CheckoutRequest {
	return reqdto.CheckoutRequest{
		Recipient:  "Jordan Lee",
		PostalCode: "94103",
		Address1:   "1 Market St",
		Phone:      "+1-415-555-0100",
	}
}

func newCheckoutFixture() (*fakeStore, commands.CheckoutCommands, *clock.MockClock) {
	store := newFakeStore()
	mockClock := clock.NewMockClock(checkoutBase)
	uc := commands.NewCheckoutCommands(&fakeUoW{store: store}, mockClock, config.NewTestConfig().Order)
	return store, uc, mockClock
}

func TestCheckout_SplitsCartPerSeller(t *testing.T) {
	store, uc, _ := newCheckoutFixture()
	buyerID := uuid.New()
	sellerA := uuid.New()
	sellerB := uuid.New()

	desk := shared.LockedItem{
		ID: uuid.New(), SellerID: sellerA, Name: "Walnut desk",
		PriceCents: 24900, Quantity: 5, Version: 3, Images: []string{"desk.jpg"},
	}
	chair := shared.LockedItem{
		ID: uuid.New(), SellerID: sellerA, Name: "armchair",
		PriceCents: 9900, Quantity: 10, Version: 1, Images: []string{"chair.jpg"},
	}
	lamp := shared.LockedItem{
		ID: uuid.New(), SellerID: sellerB, Name: "Brass lamp",
		PriceCents: 4500, Quantity: 2, Version: 2,
	}
	store.addItem(desk)
	store.addItem(chair)
	store.addItem(lamp)
	store.addSelectedLine(buyerID, desk.ID, 1)
	store.addSelectedLine(buyerID, chair.ID, 2)
	store.addSelectedLine(buyerID, lamp.ID, 2)

	result, err := uc.Checkout(context.Background(), buyerID, validCheckoutRequest())
	require.NoError(t, err)
	require.Len(t, result.Orders, 2)
	require.Len(t, store.createdOrders, 2)

	bySeller := make(map[uuid.UUID]*order.Order)
	for _, o := range store.createdOrders {
		bySeller[o.SellerID()] = o
	}

	orderA := bySeller[sellerA]
	require.NotNil(t, orderA)
	assert.Equal(t, buyerID, orderA.BuyerID())
	assert.Equal(t, order.StatusAwaiting, orderA.Status())
	assert.Equal(t, int64(24900+2*9900), orderA.TotalPriceCents())
	// "armchair" sorts before "Walnut desk" case-insensitively, so it is the
	// representative item.
	assert.Equal(t, "armchair", orderA.DisplayName())
	require.NotNil(t, orderA.RepresentativeImage())
	assert.Equal(t, "chair.jpg", *orderA.RepresentativeImage())
	assert.Len(t, orderA.Lines(), 2)

	orderB := bySeller[sellerB]
	require.NotNil(t, orderB)
	assert.Equal(t, int64(2*4500), orderB.TotalPriceCents())
	assert.Equal(t, "Brass lamp", orderB.DisplayName())
	assert.Nil(t, orderB.RepresentativeImage())
	require.Len(t, orderB.Lines(), 1)
	assert.Equal(t, order.Line{ItemID: lamp.ID, Version: 2, Quantity: 2, UnitPrice: 4500}, orderB.Lines()[0])

	// Shipping address is frozen onto every order.
	assert.Equal(t, "Jordan Lee", orderA.ShipTo().Recipient())
	assert.Equal(t, "Jordan Lee", orderB.ShipTo().Recipient())
}

func TestCheckout_ReservesStockAndConsumesCart(t *testing.T) {
	store, uc, _ := newCheckoutFixture()
	buyerID := uuid.New()
	sellerID := uuid.New()

	desk := shared.LockedItem{
		ID: uuid.New(), SellerID: sellerID, Name: "Walnut desk",
		PriceCents: 24900, Quantity: 5, Version: 3, Images: []string{"desk.jpg"},
	}
	store.addItem(desk)
	store.addSelectedLine(buyerID, desk.ID, 2)
	// Unselected lines are left alone.
	other := shared.LockedItem{ID: uuid.New(), SellerID: sellerID, Name: "Side table", PriceCents: 100, Quantity: 1, Version: 1}
	store.addItem(other)
	store.cartLines = append(store.cartLines, shared.CartLine{
		ID: uuid.New(), BuyerID: buyerID, ItemID: other.ID, Quantity: 1, Selected: false,
	})

	_, err := uc.Checkout(context.Background(), buyerID, validCheckoutRequest())
	require.NoError(t, err)

	assert.Equal(t, int32(2), store.decrements[desk.ID])
	assert.Equal(t, int32(3), store.items[desk.ID].Quantity)

	// Snapshot frozen at the item's current version.
	content, ok := store.snapshots[desk.ID.String()+"/3"]
	require.True(t, ok)
	assert.Equal(t, "Walnut desk", content.Name)
	assert.Equal(t, int64(24900), content.PriceCents)

	// Only the consumed line is gone.
	require.Len(t, store.cartLines, 1)
	assert.Equal(t, other.ID, store.cartLines[0].ItemID)
}

func TestCheckout_SchedulesAwaitingTimeout(t *testing.T) {
	store, uc, mockClock := newCheckoutFixture()
	buyerID := uuid.New()

	it := shared.LockedItem{ID: uuid.New(), SellerID: uuid.New(), Name: "Lamp", PriceCents: 4500, Quantity: 2, Version: 1}
	store.addItem(it)
	store.addSelectedLine(buyerID, it.ID, 1)

	result, err := uc.Checkout(context.Background(), buyerID, validCheckoutRequest())
	require.NoError(t, err)
	require.Len(t, result.Orders, 1)

	require.Len(t, store.scheduledJobs, 1)
	job := store.scheduledJobs[0]
	assert.Equal(t, result.Orders[0].ID, job.OrderID)
	assert.Equal(t, order.StatusAwaiting, job.Expected)
	assert.Equal(t, order.StatusCancelled, job.Target)
	wantFireAt := mockClock.Now().Add(config.NewTestConfig().Order.AwaitingTimeout())
	assert.Equal(t, wantFireAt, job.FireAt)
}

func TestCheckout_JobScheduleFailureDoesNotFailCheckout(t *testing.T) {
	store, uc, _ := newCheckoutFixture()
	buyerID := uuid.New()

	it := shared.LockedItem{ID: uuid.New(), SellerID: uuid.New(), Name: "Lamp", PriceCents: 4500, Quantity: 2, Version: 1}
	store.addItem(it)
	store.addSelectedLine(buyerID, it.ID, 1)
	store.failSchedule = errs.New("db down")

	result, err := uc.Checkout(context.Background(), buyerID, validCheckoutRequest())
	require.NoError(t, err)
	assert.Len(t, result.Orders, 1)
	assert.Empty(t, store.scheduledJobs)
}

func TestCheckout_NoItemsSelected(t *testing.T) {
	store, uc, _ := newCheckoutFixture()
	buyerID := uuid.New()

	it := shared.LockedItem{ID: uuid.New(), SellerID: uuid.New(), Name: "Lamp", PriceCents: 4500, Quantity: 2, Version: 1}
	store.addItem(it)
	store.cartLines = append(store.cartLines, shared.CartLine{
		ID: uuid.New(), BuyerID: buyerID, ItemID: it.ID, Quantity: 1, Selected: false,
	})

	_, err := uc.Checkout(context.Background(), buyerID, validCheckoutRequest())
	require.ErrorIs(t, err, commands.ErrNoItemsSelected)
	assert.Empty(t, store.createdOrders)
}

func TestCheckout_AggregatesStockShortages(t *testing.T) {
	store, uc, _ := newCheckoutFixture()
	buyerID := uuid.New()
	sellerID := uuid.New()

	desk := shared.LockedItem{ID: uuid.New(), SellerID: sellerID, Name: "Walnut desk", PriceCents: 24900, Quantity: 1, Version: 1}
	lamp := shared.LockedItem{ID: uuid.New(), SellerID: sellerID, Name: "Brass lamp", PriceCents: 4500, Quantity: 0, Version: 1}
	chair := shared.LockedItem{ID: uuid.New(), SellerID: sellerID, Name: "Armchair", PriceCents: 9900, Quantity: 5, Version: 1}
	store.addItem(desk)
	store.addItem(lamp)
	store.addItem(chair)
	store.addSelectedLine(buyerID, desk.ID, 2)
	store.addSelectedLine(buyerID, lamp.ID, 1)
	store.addSelectedLine(buyerID, chair.ID, 1)

	_, err := uc.Checkout(context.Background(), buyerID, validCheckoutRequest())
	require.ErrorIs(t, err, commands.ErrInsufficientStock)

	var stockErr *commands.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	require.Len(t, stockErr.Items, 2)
	assert.Equal(t, commands.StockShortage{ItemID: desk.ID, Name: "Walnut desk", Requested: 2, Available: 1}, stockErr.Items[0])
	assert.Equal(t, commands.StockShortage{ItemID: lamp.ID, Name: "Brass lamp", Requested: 1, Available: 0}, stockErr.Items[1])

	// All-or-nothing: the sufficiently stocked item is untouched too.
	assert.Empty(t, store.createdOrders)
	assert.Empty(t, store.decrements)
	assert.Empty(t, store.snapshots)
	assert.Len(t, store.cartLines, 3)
}

func TestCheckout_ItemGone(t *testing.T) {
	store, uc, _ := newCheckoutFixture()
	buyerID := uuid.New()

	// The cart references an item that was deleted after it was added.
	store.addSelectedLine(buyerID, uuid.New(), 1)

	_, err := uc.Checkout(context.Background(), buyerID, validCheckoutRequest())
	require.ErrorIs(t, err, commands.ErrCheckoutItemGone)
	assert.Empty(t, store.createdOrders)
}

func TestCheckout_InvalidAddress(t *testing.T) {
	store, uc, _ := newCheckoutFixture()
	buyerID := uuid.New()

	req := validCheckoutRequest()
	req.Recipient = "  "
	_, err := uc.Checkout(context.Background(), buyerID, req)
	require.ErrorIs(t, err, commands.ErrDomainValidation)
	require.ErrorIs(t, err, order.ErrInvalidAddress)
	assert.Empty(t, store.createdOrders)
}

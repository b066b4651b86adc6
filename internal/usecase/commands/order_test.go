//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"marketplace-core/internal/domain/order"
	"marketplace-core/internal/domain/user"
	"marketplace-core/internal/pkg/clock"
	"marketplace-core/internal/pkg/config"
	"marketplace-core/internal/usecase/commands"
	"marketplace-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var transitionBase = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type orderFixture struct {
	store    *fakeStore
	uc       commands.OrderCommands
	clock    *clock.MockClock
	orderCfg config.OrderConfig

	orderID  uuid.UUID
	buyerID  uuid.UUID
	sellerID uuid.UUID
}

func newOrderFixture(status order.Status) *orderFixture {
	store := newFakeStore()
	mockClock := clock.NewMockClock(transitionBase)
	cfg := config.NewTestConfig().Order

	f := &orderFixture{
		store:    store,
		uc:       commands.NewOrderCommands(&fakeUoW{store: store}, mockClock, cfg),
		clock:    mockClock,
		orderCfg: cfg,
		orderID:  uuid.New(),
		buyerID:  uuid.New(),
		sellerID: uuid.New(),
	}
	store.addOrder(shared.OrderSnapshot{
		ID:       f.orderID,
		BuyerID:  f.buyerID,
		SellerID: f.sellerID,
		Status:   status,
	})
	return f
}

func (f *orderFixture) seller() shared.Actor {
	return shared.Actor{ID: f.sellerID, Role: user.RoleSeller}
}

func (f *orderFixture) buyer() shared.Actor {
	return shared.Actor{ID: f.buyerID, Role: user.RoleBuyer}
}

func TestChangeStatus_SellerConfirms(t *testing.T) {
	f := newOrderFixture(order.StatusAwaiting)

	err := f.uc.ChangeStatus(context.Background(), f.seller(), f.orderID, order.StatusConfirmed)
	require.NoError(t, err)

	require.Len(t, f.store.statusWrites, 1)
	write := f.store.statusWrites[0]
	assert.Equal(t, order.StatusConfirmed, write.Status)
	assert.Equal(t, transitionBase, write.UpdatedAt)
	assert.Equal(t, order.StatusConfirmed, f.store.orders[f.orderID].Status)

	// Entering confirmed arms the confirmed timeout against the new updated_at.
	require.Len(t, f.store.scheduledJobs, 1)
	job := f.store.scheduledJobs[0]
	assert.Equal(t, f.orderID, job.OrderID)
	assert.Equal(t, order.StatusConfirmed, job.Expected)
	assert.Equal(t, order.StatusCancelled, job.Target)
	assert.Equal(t, transitionBase.Add(f.orderCfg.ConfirmedTimeout()), job.FireAt)
}

func TestChangeStatus_SellerStartsDelivery(t *testing.T) {
	f := newOrderFixture(order.StatusConfirmed)

	err := f.uc.ChangeStatus(context.Background(), f.seller(), f.orderID, order.StatusDelivering)
	require.NoError(t, err)

	require.Len(t, f.store.scheduledJobs, 1)
	job := f.store.scheduledJobs[0]
	assert.Equal(t, order.StatusDelivering, job.Expected)
	assert.Equal(t, order.StatusDelivered, job.Target)
	assert.Equal(t, transitionBase.Add(f.orderCfg.DeliveryTimeout()), job.FireAt)
}

func TestChangeStatus_BuyerCancelsAwaiting(t *testing.T) {
	f := newOrderFixture(order.StatusAwaiting)

	err := f.uc.ChangeStatus(context.Background(), f.buyer(), f.orderID, order.StatusCancelled)
	require.NoError(t, err)

	assert.Equal(t, order.StatusCancelled, f.store.orders[f.orderID].Status)
	// Cancelled is terminal; nothing is scheduled.
	assert.Empty(t, f.store.scheduledJobs)
}

func TestChangeStatus_BuyerCannotCancelConfirmed(t *testing.T) {
	f := newOrderFixture(order.StatusConfirmed)

	err := f.uc.ChangeStatus(context.Background(), f.buyer(), f.orderID, order.StatusCancelled)
	require.ErrorIs(t, err, commands.ErrInvalidTransition)

	var terr *order.TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "a confirmed order can no longer be cancelled by the buyer", terr.Reason)
	assert.Empty(t, f.store.statusWrites)
}

func TestChangeStatus_StrangerIsRejected(t *testing.T) {
	f := newOrderFixture(order.StatusAwaiting)

	cases := []struct {
		name  string
		actor shared.Actor
	}{
		{"other buyer", shared.Actor{ID: uuid.New(), Role: user.RoleBuyer}},
		{"other seller", shared.Actor{ID: uuid.New(), Role: user.RoleSeller}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := f.uc.ChangeStatus(context.Background(), tc.actor, f.orderID, order.StatusCancelled)
			require.ErrorIs(t, err, commands.ErrUnauthorized)
		})
	}

	t.Run("admin is a party to every order", func(t *testing.T) {
		err := f.uc.ChangeStatus(context.Background(), shared.Actor{ID: uuid.New(), Role: user.RoleAdmin}, f.orderID, order.StatusConfirmed)
		require.NoError(t, err)
	})
}

func TestChangeStatus_OrderNotFound(t *testing.T) {
	f := newOrderFixture(order.StatusAwaiting)

	err := f.uc.ChangeStatus(context.Background(), f.seller(), uuid.New(), order.StatusConfirmed)
	require.ErrorIs(t, err, commands.ErrOrderNotFound)
}

func TestChangeStatus_UnknownTarget(t *testing.T) {
	f := newOrderFixture(order.StatusAwaiting)

	err := f.uc.ChangeStatus(context.Background(), f.seller(), f.orderID, order.Status("shipped"))
	require.ErrorIs(t, err, commands.ErrInvalidTransition)
	assert.Empty(t, f.store.statusWrites)
}

func TestApplyScheduled_CancelsStaleAwaitingOrder(t *testing.T) {
	f := newOrderFixture(order.StatusAwaiting)
	jobID := uuid.New()

	err := f.uc.ApplyScheduled(context.Background(), shared.ScheduledTransition{
		ID:       jobID,
		OrderID:  f.orderID,
		Expected: order.StatusAwaiting,
		Target:   order.StatusCancelled,
	})
	require.NoError(t, err)

	assert.Equal(t, order.StatusCancelled, f.store.orders[f.orderID].Status)
	assert.Equal(t, "done", f.store.jobFinishes[jobID])
}

func TestApplyScheduled_CompletesDelivery(t *testing.T) {
	f := newOrderFixture(order.StatusDelivering)
	jobID := uuid.New()

	err := f.uc.ApplyScheduled(context.Background(), shared.ScheduledTransition{
		ID:       jobID,
		OrderID:  f.orderID,
		Expected: order.StatusDelivering,
		Target:   order.StatusDelivered,
	})
	require.NoError(t, err)

	assert.Equal(t, order.StatusDelivered, f.store.orders[f.orderID].Status)
	assert.Equal(t, "done", f.store.jobFinishes[jobID])
	// Delivered is terminal; no follow-up job.
	assert.Empty(t, f.store.scheduledJobs)
}

func TestApplyScheduled_SupersededWhenStatusMoved(t *testing.T) {
	// The seller confirmed before the awaiting timeout fired.
	f := newOrderFixture(order.StatusConfirmed)
	jobID := uuid.New()

	err := f.uc.ApplyScheduled(context.Background(), shared.ScheduledTransition{
		ID:       jobID,
		OrderID:  f.orderID,
		Expected: order.StatusAwaiting,
		Target:   order.StatusCancelled,
	})
	require.NoError(t, err)

	// The stale job is a silent no-op; the order keeps its status.
	assert.Equal(t, order.StatusConfirmed, f.store.orders[f.orderID].Status)
	assert.Equal(t, "superseded", f.store.jobFinishes[jobID])
	assert.Empty(t, f.store.statusWrites)
}

func TestApplyScheduled_OrderGone(t *testing.T) {
	f := newOrderFixture(order.StatusAwaiting)

	err := f.uc.ApplyScheduled(context.Background(), shared.ScheduledTransition{
		ID:       uuid.New(),
		OrderID:  uuid.New(),
		Expected: order.StatusAwaiting,
		Target:   order.StatusCancelled,
	})
	require.ErrorIs(t, err, commands.ErrOrderNotFound)
	assert.Empty(t, f.store.statusWrites)
}

//go:build unit

package commands_test

import (
	"context"
	"fmt"
	"time"

	"marketplace-core/internal/domain/item"
	"marketplace-core/internal/domain/order"
	"marketplace-core/internal/infra"
	"marketplace-core/internal/infra/db"
	"marketplace-core/internal/usecase/shared"

	"github.com/google/uuid"
)

// fakeStore is an in-memory stand-in for the repositories behind shared.Tx.
// It records every write so tests can assert on exactly what a command did.
type fakeStore struct {
	cartLines []shared.CartLine
	items     map[uuid.UUID]shared.LockedItem
	catalog   map[uuid.UUID]*item.CatalogItem
	orders    map[uuid.UUID]*shared.OrderSnapshot

	createdOrders      []*order.Order
	statusWrites       []statusWrite
	snapshots          map[string]item.SnapshotContent
	decrements         map[uuid.UUID]int32
	deletedCartLineIDs []uuid.UUID
	scheduledJobs      []scheduledJob
	jobFinishes        map[uuid.UUID]string

	failSchedule error
}

type statusWrite struct {
	OrderID   uuid.UUID
	Status    order.Status
	UpdatedAt time.Time
}

type scheduledJob struct {
	OrderID  uuid.UUID
	Expected order.Status
	Target   order.Status
	FireAt   time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		items:       make(map[uuid.UUID]shared.LockedItem),
		catalog:     make(map[uuid.UUID]*item.CatalogItem),
		orders:      make(map[uuid.UUID]*shared.OrderSnapshot),
		snapshots:   make(map[string]item.SnapshotContent),
		decrements:  make(map[uuid.UUID]int32),
		jobFinishes: make(map[uuid.UUID]string),
	}
}

func (s *fakeStore) addItem(it shared.LockedItem) {
	s.items[it.ID] = it
}

func (s *fakeStore) addSelectedLine(buyerID, itemID uuid.UUID, quantity int32) {
	s.cartLines = append(s.cartLines, shared.CartLine{
		ID:       uuid.New(),
		BuyerID:  buyerID,
		ItemID:   itemID,
		Quantity: quantity,
		Selected: true,
	})
}

func (s *fakeStore) addOrder(snap shared.OrderSnapshot) {
	copied := snap
	s.orders[snap.ID] = &copied
}

// fakeUoW runs the transaction function directly; rollback is simulated by
// the commands' own all-or-nothing assertions on the recorded writes.
type fakeUoW struct {
	store *fakeStore
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &fakeTx{store: u.store})
}

func (u *fakeUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) Orders() shared.OrderRepository       { return &fakeOrderRepo{t.store} }
func (t *fakeTx) Items() shared.ItemRepository         { return &fakeItemRepo{t.store} }
func (t *fakeTx) Snapshots() shared.SnapshotRepository { return &fakeSnapshotRepo{t.store} }
func (t *fakeTx) CartLines() shared.CartLineRepository { return &fakeCartLineRepo{t.store} }
func (t *fakeTx) Jobs() shared.JobRepository           { return &fakeJobRepo{t.store} }
func (t *fakeTx) Users() shared.UserRepository         { return &fakeUserRepo{} }
func (t *fakeTx) DB() db.DBTX                          { return nil }

type fakeOrderRepo struct{ store *fakeStore }

func (r *fakeOrderRepo) Create(_ context.Context, _ db.DBTX, o *order.Order) error {
	r.store.createdOrders = append(r.store.createdOrders, o)
	r.store.orders[o.ID()] = &shared.OrderSnapshot{
		ID:       o.ID(),
		BuyerID:  o.BuyerID(),
		SellerID: o.SellerID(),
		Status:   o.Status(),
	}
	return nil
}

func (r *fakeOrderRepo) FindForUpdate(_ context.Context, _ db.DBTX, id uuid.UUID) (*shared.OrderSnapshot, error) {
	snap, ok := r.store.orders[id]
	if !ok {
		return nil, infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	copied := *snap
	return &copied, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, _ db.DBTX, id uuid.UUID, status order.Status, updatedAt time.Time) error {
	snap, ok := r.store.orders[id]
	if !ok {
		return infra.WrapRepoErr("order not found", nil, infra.KindNotFound)
	}
	snap.Status = status
	snap.UpdatedAt = updatedAt
	r.store.statusWrites = append(r.store.statusWrites, statusWrite{OrderID: id, Status: status, UpdatedAt: updatedAt})
	return nil
}

type fakeItemRepo struct{ store *fakeStore }

func (r *fakeItemRepo) Insert(_ context.Context, _ db.DBTX, it *item.CatalogItem) error {
	r.store.catalog[it.ID()] = it
	return nil
}

func (r *fakeItemRepo) LockByIDs(_ context.Context, _ db.DBTX, ids []uuid.UUID) ([]shared.LockedItem, error) {
	found := make([]shared.LockedItem, 0, len(ids))
	for _, id := range ids {
		if it, ok := r.store.items[id]; ok {
			found = append(found, it)
		}
	}
	return found, nil
}

func (r *fakeItemRepo) LockByID(_ context.Context, _ db.DBTX, id uuid.UUID) (*item.CatalogItem, error) {
	it, ok := r.store.catalog[id]
	if !ok {
		return nil, infra.WrapRepoErr("item not found", nil, infra.KindNotFound)
	}
	return it, nil
}

func (r *fakeItemRepo) Update(_ context.Context, _ db.DBTX, it *item.CatalogItem) error {
	r.store.catalog[it.ID()] = it
	return nil
}

func (r *fakeItemRepo) DecrementQuantity(_ context.Context, _ db.DBTX, id uuid.UUID, by int32) error {
	it := r.store.items[id]
	it.Quantity -= by
	r.store.items[id] = it
	r.store.decrements[id] += by
	return nil
}

type fakeSnapshotRepo struct{ store *fakeStore }

func (r *fakeSnapshotRepo) GetOrCreate(_ context.Context, _ db.DBTX, itemID uuid.UUID, version int32, content item.SnapshotContent) error {
	key := fmt.Sprintf("%s/%d", itemID, version)
	if _, ok := r.store.snapshots[key]; !ok {
		r.store.snapshots[key] = content
	}
	return nil
}

type fakeCartLineRepo struct{ store *fakeStore }

func (r *fakeCartLineRepo) SelectedByBuyer(_ context.Context, _ db.DBTX, buyerID uuid.UUID) ([]shared.CartLine, error) {
	var selected []shared.CartLine
	for _, l := range r.store.cartLines {
		if l.BuyerID == buyerID && l.Selected {
			selected = append(selected, l)
		}
	}
	return selected, nil
}

func (r *fakeCartLineRepo) DeleteByIDs(_ context.Context, _ db.DBTX, ids []uuid.UUID) error {
	r.store.deletedCartLineIDs = append(r.store.deletedCartLineIDs, ids...)
	remaining := r.store.cartLines[:0]
	for _, l := range r.store.cartLines {
		keep := true
		for _, id := range ids {
			if l.ID == id {
				keep = false
				break
			}
		}
		if keep {
			remaining = append(remaining, l)
		}
	}
	r.store.cartLines = remaining
	return nil
}

func (r *fakeCartLineRepo) Upsert(_ context.Context, _ db.DBTX, buyerID, itemID uuid.UUID, quantity int32) error {
	for i, l := range r.store.cartLines {
		if l.BuyerID == buyerID && l.ItemID == itemID {
			r.store.cartLines[i].Quantity = quantity
			return nil
		}
	}
	r.store.cartLines = append(r.store.cartLines, shared.CartLine{
		ID: uuid.New(), BuyerID: buyerID, ItemID: itemID, Quantity: quantity,
	})
	return nil
}

func (r *fakeCartLineRepo) SetSelected(_ context.Context, _ db.DBTX, buyerID, itemID uuid.UUID, selected bool) error {
	for i, l := range r.store.cartLines {
		if l.BuyerID == buyerID && l.ItemID == itemID {
			r.store.cartLines[i].Selected = selected
			return nil
		}
	}
	return infra.WrapRepoErr("cart line not found", nil, infra.KindNotFound)
}

func (r *fakeCartLineRepo) Delete(_ context.Context, _ db.DBTX, buyerID, itemID uuid.UUID) error {
	for i, l := range r.store.cartLines {
		if l.BuyerID == buyerID && l.ItemID == itemID {
			r.store.cartLines = append(r.store.cartLines[:i], r.store.cartLines[i+1:]...)
			return nil
		}
	}
	return infra.WrapRepoErr("cart line not found", nil, infra.KindNotFound)
}

type fakeJobRepo struct{ store *fakeStore }

func (r *fakeJobRepo) Schedule(_ context.Context, _ db.DBTX, orderID uuid.UUID, expected, target order.Status, fireAt time.Time) error {
	if r.store.failSchedule != nil {
		return r.store.failSchedule
	}
	r.store.scheduledJobs = append(r.store.scheduledJobs, scheduledJob{
		OrderID: orderID, Expected: expected, Target: target, FireAt: fireAt,
	})
	return nil
}

func (r *fakeJobRepo) ClaimDue(_ context.Context, _ db.DBTX, _ time.Time, _ int32) ([]shared.ScheduledTransition, error) {
	return nil, nil
}

func (r *fakeJobRepo) MarkDone(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	r.store.jobFinishes[id] = "done"
	return nil
}

func (r *fakeJobRepo) MarkSuperseded(_ context.Context, _ db.DBTX, id uuid.UUID) error {
	r.store.jobFinishes[id] = "superseded"
	return nil
}

func (r *fakeJobRepo) MarkFailed(_ context.Context, _ db.DBTX, id uuid.UUID, _ string) error {
	r.store.jobFinishes[id] = "failed"
	return nil
}

func (r *fakeJobRepo) RequeueStale(_ context.Context, _ db.DBTX, _ time.Time) (int64, error) {
	return 0, nil
}

type fakeUserRepo struct{}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, _ db.DBTX, _ uuid.UUID) error {
	return nil
}

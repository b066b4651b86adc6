package shared

import (
	"context"
	"time"

	"marketplace-core/internal/domain/item"
	"marketplace-core/internal/domain/order"
	"marketplace-core/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db db.DBTX) error) error
}

type Tx interface {
	Orders() OrderRepository
	Items() ItemRepository
	Snapshots() SnapshotRepository
	CartLines() CartLineRepository
	Jobs() JobRepository
	Users() UserRepository
	DB() db.DBTX
}

type OrderRepository interface {
	// Create inserts the order row and its lines in one go. Line insertion
	// accumulates quantity when the (order, item, version) key repeats
	// instead of writing a duplicate row.
	Create(ctx context.Context, tx db.DBTX, o *order.Order) error
	// FindForUpdate takes the exclusive row lock every status transition
	// serializes on.
	FindForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*OrderSnapshot, error)
	UpdateStatus(ctx context.Context, tx db.DBTX, id uuid.UUID, status order.Status, updatedAt time.Time) error
}

type ItemRepository interface {
	Insert(ctx context.Context, tx db.DBTX, it *item.CatalogItem) error
	// LockByIDs re-reads catalog items with exclusive row locks, in
	// deterministic id order so concurrent checkouts cannot deadlock.
	LockByIDs(ctx context.Context, tx db.DBTX, ids []uuid.UUID) ([]LockedItem, error)
	LockByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*item.CatalogItem, error)
	Update(ctx context.Context, tx db.DBTX, it *item.CatalogItem) error
	DecrementQuantity(ctx context.Context, tx db.DBTX, id uuid.UUID, by int32) error
}

type SnapshotRepository interface {
	// GetOrCreate inserts the content for (itemID, version) unless a row
	// already exists; existing content is reused untouched.
	GetOrCreate(ctx context.Context, tx db.DBTX, itemID uuid.UUID, version int32, content item.SnapshotContent) error
}

type CartLineRepository interface {
	SelectedByBuyer(ctx context.Context, tx db.DBTX, buyerID uuid.UUID) ([]CartLine, error)
	DeleteByIDs(ctx context.Context, tx db.DBTX, ids []uuid.UUID) error
	Upsert(ctx context.Context, tx db.DBTX, buyerID, itemID uuid.UUID, quantity int32) error
	SetSelected(ctx context.Context, tx db.DBTX, buyerID, itemID uuid.UUID, selected bool) error
	Delete(ctx context.Context, tx db.DBTX, buyerID, itemID uuid.UUID) error
}

type JobRepository interface {
	Schedule(ctx context.Context, tx db.DBTX, orderID uuid.UUID, expected, target order.Status, fireAt time.Time) error
	// ClaimDue marks due queued jobs as processing using SKIP LOCKED so
	// multiple worker processes never claim the same job.
	ClaimDue(ctx context.Context, tx db.DBTX, now time.Time, limit int32) ([]ScheduledTransition, error)
	MarkDone(ctx context.Context, tx db.DBTX, id uuid.UUID) error
	MarkSuperseded(ctx context.Context, tx db.DBTX, id uuid.UUID) error
	MarkFailed(ctx context.Context, tx db.DBTX, id uuid.UUID, lastError string) error
	// RequeueStale returns jobs stuck in processing (crashed worker) to the
	// queue. At-least-once semantics; the expected-status guard absorbs any
	// re-delivery.
	RequeueStale(ctx context.Context, tx db.DBTX, claimedBefore time.Time) (int64, error)
}

type UserRepository interface {
	UpdateLastLogin(ctx context.Context, tx db.DBTX, userID uuid.UUID) error
}

package shared

import (
	"time"

	"marketplace-core/internal/domain/order"
	"marketplace-core/internal/domain/user"

	"github.com/google/uuid"
)

// Write-side snapshots prevent dependency on Read-side query types (CQRS separation)

// Actor identifies who is asking for an operation. RoleSystem actors only
// exist inside the scheduler; tokens can never mint one.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

// LockedItem is a catalog item as seen under its checkout row lock.
type LockedItem struct {
	ID          uuid.UUID
	SellerID    uuid.UUID
	Name        string
	Description string
	PriceCents  int64
	Quantity    int32
	Version     int32
	Images      []string
}

type CartLine struct {
	ID       uuid.UUID
	BuyerID  uuid.UUID
	ItemID   uuid.UUID
	Quantity int32
	Selected bool
}

// OrderSnapshot is the minimal lock-protected view the state machine needs.
type OrderSnapshot struct {
	ID        uuid.UUID
	BuyerID   uuid.UUID
	SellerID  uuid.UUID
	Status    order.Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ScheduledTransition is one durable delayed-transition job.
type ScheduledTransition struct {
	ID       uuid.UUID
	OrderID  uuid.UUID
	Expected order.Status
	Target   order.Status
	FireAt   time.Time
	Attempts int32
}

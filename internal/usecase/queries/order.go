package queries

import (
	"context"
	"time"

	"marketplace-core/internal/domain/user"
	"marketplace-core/internal/infra"
	"marketplace-core/internal/pkg/errs"
	"marketplace-core/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound  = errs.New("order not found")
	ErrOrderAccess    = errs.New("order access denied")
	ErrInvalidCursor  = errs.New("invalid cursor")
	ErrInvalidSortKey = errs.New("invalid sort key")
)

type OrderSort string

const (
	SortNewest OrderSort = "newest"
	SortOldest OrderSort = "oldest"
)

type OrderQueries interface {
	GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*OrderView, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, sort OrderSort, after *Cursor, limit int) ([]*OrderListItem, *Cursor, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, sort OrderSort, after *Cursor, limit int) ([]*OrderListItem, *Cursor, error)
}

type OrderReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
	ListByBuyerFirstPage(ctx context.Context, buyerID uuid.UUID, newestFirst bool, limit int32) ([]*OrderListItem, error)
	ListByBuyerKeyset(ctx context.Context, buyerID uuid.UUID, newestFirst bool, afterTime time.Time, afterID uuid.UUID, limit int32) ([]*OrderListItem, error)
	ListBySellerFirstPage(ctx context.Context, sellerID uuid.UUID, newestFirst bool, limit int32) ([]*OrderListItem, error)
	ListBySellerKeyset(ctx context.Context, sellerID uuid.UUID, newestFirst bool, afterTime time.Time, afterID uuid.UUID, limit int32) ([]*OrderListItem, error)
}

type orderQueriesImpl struct {
	readStore OrderReadStore
}

func NewOrderQueries(readStore OrderReadStore) OrderQueries {
	return &orderQueriesImpl{readStore: readStore}
}

func (q *orderQueriesImpl) GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*OrderView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	// Only the two parties to the order (and admins) may see it.
	if actor.Role != user.RoleAdmin && actor.ID != view.BuyerID && actor.ID != view.SellerID {
		return nil, ErrOrderAccess
	}

	return view, nil
}

func (q *orderQueriesImpl) ListByBuyer(ctx context.Context, buyerID uuid.UUID, sort OrderSort, after *Cursor, limit int) ([]*OrderListItem, *Cursor, error) {
	return q.list(ctx, buyerID, sort, after, limit,
		q.readStore.ListByBuyerFirstPage, q.readStore.ListByBuyerKeyset)
}

func (q *orderQueriesImpl) ListBySeller(ctx context.Context, sellerID uuid.UUID, sort OrderSort, after *Cursor, limit int) ([]*OrderListItem, *Cursor, error) {
	return q.list(ctx, sellerID, sort, after, limit,
		q.readStore.ListBySellerFirstPage, q.readStore.ListBySellerKeyset)
}

type firstPageFn func(ctx context.Context, ownerID uuid.UUID, newestFirst bool, limit int32) ([]*OrderListItem, error)
type keysetFn func(ctx context.Context, ownerID uuid.UUID, newestFirst bool, afterTime time.Time, afterID uuid.UUID, limit int32) ([]*OrderListItem, error)

func (q *orderQueriesImpl) list(ctx context.Context, ownerID uuid.UUID, sort OrderSort, after *Cursor, limit int, firstPage firstPageFn, keyset keysetFn) ([]*OrderListItem, *Cursor, error) {
	newestFirst, err := newestFirstFor(sort)
	if err != nil {
		return nil, nil, err
	}
	pageSize := ValidateLimit(limit)

	// Fetch one extra row to decide whether a next page exists.
	var rows []*OrderListItem
	if after == nil || after.After == "" {
		rows, err = firstPage(ctx, ownerID, newestFirst, pageSize+1)
	} else {
		var afterTime time.Time
		var afterID uuid.UUID
		afterTime, afterID, err = DecodeAfterCursor(after.After)
		if err != nil {
			return nil, nil, errs.Mark(err, ErrInvalidCursor)
		}
		rows, err = keyset(ctx, ownerID, newestFirst, afterTime, afterID, pageSize+1)
	}
	if err != nil {
		return nil, nil, err
	}

	var next *Cursor
	if len(rows) > int(pageSize) {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
	}

	return rows, next, nil
}

func newestFirstFor(sort OrderSort) (bool, error) {
	switch sort {
	case SortNewest, "":
		return true, nil
	case SortOldest:
		return false, nil
	default:
		return false, ErrInvalidSortKey
	}
}

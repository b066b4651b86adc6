package queries

import (
	"context"

	"marketplace-core/internal/infra"
	"marketplace-core/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrItemNotFound = errs.New("item not found")

type ItemQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*ItemView, error)
	List(ctx context.Context, limit int) ([]*ItemView, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, limit int) ([]*ItemView, error)
}

type ItemReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ItemView, error)
	List(ctx context.Context, limit int32) ([]*ItemView, error)
	ListBySeller(ctx context.Context, sellerID uuid.UUID, limit int32) ([]*ItemView, error)
}

type itemQueriesImpl struct {
	readStore ItemReadStore
}

func NewItemQueries(readStore ItemReadStore) ItemQueries {
	return &itemQueriesImpl{readStore: readStore}
}

func (q *itemQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*ItemView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *itemQueriesImpl) List(ctx context.Context, limit int) ([]*ItemView, error) {
	return q.readStore.List(ctx, ValidateLimit(limit))
}

func (q *itemQueriesImpl) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit int) ([]*ItemView, error) {
	return q.readStore.ListBySeller(ctx, sellerID, ValidateLimit(limit))
}

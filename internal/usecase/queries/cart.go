package queries

import (
	"context"

	"github.com/google/uuid"
)

type CartQueries interface {
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*CartLineView, error)
}

type CartReadStore interface {
	ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*CartLineView, error)
}

type cartQueriesImpl struct {
	readStore CartReadStore
}

func NewCartQueries(readStore CartReadStore) CartQueries {
	return &cartQueriesImpl{readStore: readStore}
}

func (q *cartQueriesImpl) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*CartLineView, error) {
	return q.readStore.ListByBuyer(ctx, buyerID)
}

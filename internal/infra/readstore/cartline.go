package readstore

import (
	"context"

	"marketplace-core/internal/infra"
	"marketplace-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CartReadStore struct {
	pool *pgxpool.Pool
}

func NewCartReadStore(pool *pgxpool.Pool) *CartReadStore {
	return &CartReadStore{pool: pool}
}

// The cart shows live catalog data. Price drift between carting and checkout
// is resolved at checkout, which snapshots whatever is current then.
func (r *CartReadStore) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]*queries.CartLineView, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.item_id, i.name, i.price_cents, c.quantity, c.selected,
		       i.quantity, i.images ->> 0, c.created_at
		FROM cart_lines c
		JOIN catalog_items i ON i.id = c.item_id
		WHERE c.buyer_id = $1
		ORDER BY c.created_at, c.id`,
		buyerID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list cart lines", err)
	}
	defer rows.Close()

	var views []*queries.CartLineView
	for rows.Next() {
		var v queries.CartLineView
		if err := rows.Scan(
			&v.ID, &v.ItemID, &v.ItemName, &v.PriceCents, &v.Quantity, &v.Selected,
			&v.InStock, &v.Image, &v.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan cart line", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list cart lines", err)
	}

	return views, nil
}

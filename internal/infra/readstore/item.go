package readstore

import (
	"context"
	"errors"

	"marketplace-core/internal/infra"
	"marketplace-core/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ItemReadStore struct {
	pool *pgxpool.Pool
}

func NewItemReadStore(pool *pgxpool.Pool) *ItemReadStore {
	return &ItemReadStore{pool: pool}
}

const itemSelect = `
	SELECT i.id, i.seller_id, COALESCE(u.shop_name, u.display_name),
	       i.name, i.description, i.price_cents, i.quantity, i.version, i.images,
	       i.created_at, i.updated_at
	FROM catalog_items i
	JOIN users u ON u.id = i.seller_id`

func (r *ItemReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.ItemView, error) {
	var v queries.ItemView
	err := r.pool.QueryRow(ctx, itemSelect+` WHERE i.id = $1`, id).Scan(
		&v.ID, &v.SellerID, &v.SellerName,
		&v.Name, &v.Description, &v.PriceCents, &v.Quantity, &v.Version, &v.Images,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("item not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find item by ID", err)
	}
	return &v, nil
}

func (r *ItemReadStore) List(ctx context.Context, limit int32) ([]*queries.ItemView, error) {
	return r.list(ctx, itemSelect+` ORDER BY i.created_at DESC, i.id DESC LIMIT $1`, limit)
}

func (r *ItemReadStore) ListBySeller(ctx context.Context, sellerID uuid.UUID, limit int32) ([]*queries.ItemView, error) {
	return r.list(ctx, itemSelect+` WHERE i.seller_id = $1 ORDER BY i.created_at DESC, i.id DESC LIMIT $2`, sellerID, limit)
}

func (r *ItemReadStore) list(ctx context.Context, sql string, args ...any) ([]*queries.ItemView, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list items", err)
	}
	defer rows.Close()

	var views []*queries.ItemView
	for rows.Next() {
		var v queries.ItemView
		if err := rows.Scan(
			&v.ID, &v.SellerID, &v.SellerName,
			&v.Name, &v.Description, &v.PriceCents, &v.Quantity, &v.Version, &v.Images,
			&v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan item", err)
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list items", err)
	}

	return views, nil
}

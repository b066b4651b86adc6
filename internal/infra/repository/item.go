package repository

import (
	"context"
	"time"

	"marketplace-core/internal/domain/item"
	"marketplace-core/internal/infra"
	"marketplace-core/internal/infra/db"
	"marketplace-core/internal/pkg/pgconv"
	"marketplace-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type ItemRepository struct{}

func NewItemRepository() *ItemRepository {
	return &ItemRepository{}
}

func (r *ItemRepository) Insert(ctx context.Context, tx db.DBTX, it *item.CatalogItem) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO catalog_items (id, seller_id, name, description, price_cents, quantity, version, images)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		it.ID(), it.SellerID(), it.Name(), it.Description(),
		it.PriceCents(), it.Quantity(), it.Version(), it.Images(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert catalog item", err)
	}
	return nil
}

// LockByIDs orders the lock acquisition by item id so two checkouts touching
// the same items always lock in the same sequence.
func (r *ItemRepository) LockByIDs(ctx context.Context, tx db.DBTX, ids []uuid.UUID) ([]shared.LockedItem, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, seller_id, name, description, price_cents, quantity, version, images
		FROM catalog_items
		WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE`,
		ids,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock catalog items", err)
	}
	defer rows.Close()

	var items []shared.LockedItem
	for rows.Next() {
		var li shared.LockedItem
		if err := rows.Scan(
			&li.ID, &li.SellerID, &li.Name, &li.Description,
			&li.PriceCents, &li.Quantity, &li.Version, &li.Images,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan locked catalog item", err)
		}
		items = append(items, li)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read locked catalog items", err)
	}

	return items, nil
}

func (r *ItemRepository) LockByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*item.CatalogItem, error) {
	var (
		itemID, sellerID     uuid.UUID
		name, description    string
		priceCents           int64
		quantity, version    int32
		images               []string
		createdAt, updatedAt time.Time
	)
	err := tx.QueryRow(ctx, `
		SELECT id, seller_id, name, description, price_cents, quantity, version, images, created_at, updated_at
		FROM catalog_items
		WHERE id = $1
		FOR UPDATE`,
		id,
	).Scan(&itemID, &sellerID, &name, &description, &priceCents, &quantity, &version, &images, &createdAt, &updatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("catalog item not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock catalog item", err)
	}

	return item.ReconstructCatalogItem(itemID, sellerID, name, description, priceCents, quantity, version, images, createdAt, updatedAt), nil
}

func (r *ItemRepository) Update(ctx context.Context, tx db.DBTX, it *item.CatalogItem) error {
	tag, err := tx.Exec(ctx, `
		UPDATE catalog_items
		SET name = $2, description = $3, price_cents = $4, quantity = $5,
		    version = $6, images = $7, updated_at = now()
		WHERE id = $1`,
		it.ID(), it.Name(), it.Description(), it.PriceCents(),
		it.Quantity(), it.Version(), it.Images(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update catalog item", err)
	}
	if tag.RowsAffected() != 1 {
		return infra.WrapRepoErr("catalog item not found for update", nil, infra.KindNotFound)
	}
	return nil
}

// DecrementQuantity runs inside the checkout transaction, after the stock
// check performed under the same row lock. The quantity guard in the WHERE
// clause is a safety net, not the primary check.
func (r *ItemRepository) DecrementQuantity(ctx context.Context, tx db.DBTX, id uuid.UUID, by int32) error {
	tag, err := tx.Exec(ctx, `
		UPDATE catalog_items
		SET quantity = quantity - $2, updated_at = now()
		WHERE id = $1 AND quantity >= $2`,
		id, by,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to decrement item quantity", err)
	}
	if tag.RowsAffected() != 1 {
		return infra.WrapRepoErr("item stock changed underneath the checkout lock", nil, infra.KindDBFailure)
	}
	return nil
}

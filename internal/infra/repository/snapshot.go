package repository

import (
	"context"

	"marketplace-core/internal/domain/item"
	"marketplace-core/internal/infra"
	"marketplace-core/internal/infra/db"

	"github.com/google/uuid"
)

type SnapshotRepository struct{}

func NewSnapshotRepository() *SnapshotRepository {
	return &SnapshotRepository{}
}

// GetOrCreate relies on the catalog invariant that content never changes
// within a version: when the row exists the provided content is simply
// discarded. Runs in the caller's transaction so a failed order creation
// leaves no orphan snapshot behind.
func (r *SnapshotRepository) GetOrCreate(ctx context.Context, tx db.DBTX, itemID uuid.UUID, version int32, content item.SnapshotContent) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO item_snapshots (item_id, version, name, description, price_cents, images)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (item_id, version) DO NOTHING`,
		itemID, version, content.Name, content.Description, content.PriceCents, content.Images,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to get or create item snapshot", err)
	}
	return nil
}

package repository

import (
	"context"

	"marketplace-core/internal/infra"
	"marketplace-core/internal/infra/db"
	"marketplace-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type CartLineRepository struct{}

func NewCartLineRepository() *CartLineRepository {
	return &CartLineRepository{}
}

func (r *CartLineRepository) SelectedByBuyer(ctx context.Context, tx db.DBTX, buyerID uuid.UUID) ([]shared.CartLine, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, buyer_id, item_id, quantity, selected
		FROM cart_lines
		WHERE buyer_id = $1 AND selected
		ORDER BY created_at`,
		buyerID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read selected cart lines", err)
	}
	defer rows.Close()

	var lines []shared.CartLine
	for rows.Next() {
		var cl shared.CartLine
		if err := rows.Scan(&cl.ID, &cl.BuyerID, &cl.ItemID, &cl.Quantity, &cl.Selected); err != nil {
			return nil, infra.WrapRepoErr("failed to scan cart line", err)
		}
		lines = append(lines, cl)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read cart lines", err)
	}

	return lines, nil
}

func (r *CartLineRepository) DeleteByIDs(ctx context.Context, tx db.DBTX, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE id = ANY($1)`, ids)
	if err != nil {
		return infra.WrapRepoErr("failed to delete consumed cart lines", err)
	}
	return nil
}

// Upsert replaces the quantity for an existing (buyer, item) line; adding the
// same item twice is an edit, not a second line.
func (r *CartLineRepository) Upsert(ctx context.Context, tx db.DBTX, buyerID, itemID uuid.UUID, quantity int32) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO cart_lines (buyer_id, item_id, quantity, selected)
		VALUES ($1, $2, $3, true)
		ON CONFLICT (buyer_id, item_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`,
		buyerID, itemID, quantity,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to upsert cart line", err)
	}
	return nil
}

func (r *CartLineRepository) Delete(ctx context.Context, tx db.DBTX, buyerID, itemID uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE buyer_id = $1 AND item_id = $2`, buyerID, itemID)
	if err != nil {
		return infra.WrapRepoErr("failed to delete cart line", err)
	}
	if tag.RowsAffected() != 1 {
		return infra.WrapRepoErr("cart line not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CartLineRepository) SetSelected(ctx context.Context, tx db.DBTX, buyerID, itemID uuid.UUID, selected bool) error {
	tag, err := tx.Exec(ctx, `
		UPDATE cart_lines SET selected = $3, updated_at = now()
		WHERE buyer_id = $1 AND item_id = $2`,
		buyerID, itemID, selected,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update cart line selection", err)
	}
	if tag.RowsAffected() != 1 {
		return infra.WrapRepoErr("cart line not found", nil, infra.KindNotFound)
	}
	return nil
}

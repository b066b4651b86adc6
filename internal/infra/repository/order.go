package repository

import (
	"context"
	"time"

	"marketplace-core/internal/domain/order"
	"marketplace-core/internal/infra"
	"marketplace-core/internal/infra/db"
	"marketplace-core/internal/pkg/pgconv"
	"marketplace-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

func (r *OrderRepository) Create(ctx context.Context, tx db.DBTX, o *order.Order) error {
	ship := o.ShipTo()
	_, err := tx.Exec(ctx, `
		INSERT INTO orders (
			id, buyer_id, seller_id, status, display_name, representative_image,
			total_price_cents, ship_to_recipient, ship_to_postal_code,
			ship_to_address1, ship_to_address2, ship_to_phone
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		o.ID(), o.BuyerID(), o.SellerID(), o.Status().String(),
		o.DisplayName(), pgconv.StringPtrToPgtype(o.RepresentativeImage()),
		o.TotalPriceCents(), ship.Recipient(), ship.PostalCode(),
		ship.Address1(), pgconv.StringPtrToPgtype(ship.Address2()), ship.Phone(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create order", err)
	}

	for _, line := range o.Lines() {
		// Duplicate cart lines for the same item+version fold into one row.
		_, err := tx.Exec(ctx, `
			INSERT INTO order_lines (order_id, item_id, version, quantity, unit_price_cents)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (order_id, item_id, version)
			DO UPDATE SET quantity = order_lines.quantity + EXCLUDED.quantity`,
			o.ID(), line.ItemID, line.Version, line.Quantity, line.UnitPrice,
		)
		if err != nil {
			return infra.WrapRepoErr("failed to create order line", err)
		}
	}

	return nil
}

func (r *OrderRepository) FindForUpdate(ctx context.Context, tx db.DBTX, id uuid.UUID) (*shared.OrderSnapshot, error) {
	var snap shared.OrderSnapshot
	var status string
	err := tx.QueryRow(ctx, `
		SELECT id, buyer_id, seller_id, status, created_at, updated_at
		FROM orders
		WHERE id = $1
		FOR UPDATE`,
		id,
	).Scan(&snap.ID, &snap.BuyerID, &snap.SellerID, &status, &snap.CreatedAt, &snap.UpdatedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock order", err)
	}
	snap.Status = order.Status(status)

	return &snap, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, tx db.DBTX, id uuid.UUID, status order.Status, updatedAt time.Time) error {
	tag, err := tx.Exec(ctx, `
		UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status.String(), updatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update order status", err)
	}
	if tag.RowsAffected() != 1 {
		return infra.WrapRepoErr("order not found for status update", nil, infra.KindNotFound)
	}
	return nil
}

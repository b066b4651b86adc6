package readstore

import (
	"context"
	"errors"
	"time"

	"marketplace-core/internal/infra"
	"marketplace-core/internal/infra/db"
	"marketplace-core/internal/usecase/queries"
	"marketplace-core/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderReadStore struct {
	uow shared.UnitOfWork
}

func NewOrderReadStore(uow shared.UnitOfWork) *OrderReadStore {
	return &OrderReadStore{uow: uow}
}

// FindByID reads the order header and its lines inside one read-only
// transaction so a concurrent status change cannot tear the view.
func (r *OrderReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error) {
	var view queries.OrderView
	err := r.uow.WithinReadOnly(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		err := dbtx.QueryRow(ctx, `
			SELECT o.id, o.buyer_id, o.seller_id, COALESCE(s.shop_name, s.display_name),
			       o.display_name, o.representative_image, o.status, o.total_price_cents,
			       o.ship_to_recipient, o.ship_to_postal_code, o.ship_to_address1,
			       o.ship_to_address2, o.ship_to_phone,
			       o.created_at, o.updated_at
			FROM orders o
			JOIN users s ON s.id = o.seller_id
			WHERE o.id = $1`,
			id,
		).Scan(
			&view.ID, &view.BuyerID, &view.SellerID, &view.SellerName,
			&view.DisplayName, &view.Image, &view.Status, &view.TotalPriceCents,
			&view.Recipient, &view.PostalCode, &view.Address1,
			&view.Address2, &view.Phone,
			&view.CreatedAt, &view.UpdatedAt,
		)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return infra.WrapRepoErr("order not found", err, infra.KindNotFound)
			}
			return infra.WrapRepoErr("failed to find order by ID", err)
		}

		lines, err := findLines(ctx, dbtx, id)
		if err != nil {
			return err
		}
		view.Lines = lines
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &view, nil
}

// Lines render from item_snapshots, never from the live catalog row.
func findLines(ctx context.Context, dbtx db.DBTX, orderID uuid.UUID) ([]queries.OrderLineView, error) {
	rows, err := dbtx.Query(ctx, `
		SELECT l.item_id, l.version, s.name, s.price_cents, l.quantity, s.images ->> 0
		FROM order_lines l
		JOIN item_snapshots s ON s.item_id = l.item_id AND s.version = l.version
		WHERE l.order_id = $1
		ORDER BY lower(s.name), l.item_id`,
		orderID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read order lines", err)
	}
	defer rows.Close()

	var lines []queries.OrderLineView
	for rows.Next() {
		var l queries.OrderLineView
		if err := rows.Scan(&l.ItemID, &l.Version, &l.Name, &l.PriceCents, &l.Quantity, &l.Image); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order line", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read order lines", err)
	}

	return lines, nil
}

const orderListSelect = `
	SELECT o.id, COALESCE(s.shop_name, s.display_name), o.display_name, o.representative_image,
	       o.status, o.total_price_cents, o.created_at, o.updated_at
	FROM orders o
	JOIN users s ON s.id = o.seller_id`

func (r *OrderReadStore) ListByBuyerFirstPage(ctx context.Context, buyerID uuid.UUID, newestFirst bool, limit int32) ([]*queries.OrderListItem, error) {
	sql := orderListSelect + `
	WHERE o.buyer_id = $1
	ORDER BY o.created_at ` + direction(newestFirst) + `, o.id ` + direction(newestFirst) + `
	LIMIT $2`
	return r.listPage(ctx, sql, buyerID, limit)
}

func (r *OrderReadStore) ListByBuyerKeyset(ctx context.Context, buyerID uuid.UUID, newestFirst bool, afterTime time.Time, afterID uuid.UUID, limit int32) ([]*queries.OrderListItem, error) {
	sql := orderListSelect + `
	WHERE o.buyer_id = $1 AND (o.created_at, o.id) ` + keysetOp(newestFirst) + ` ($2, $3)
	ORDER BY o.created_at ` + direction(newestFirst) + `, o.id ` + direction(newestFirst) + `
	LIMIT $4`
	return r.listPage(ctx, sql, buyerID, afterTime, afterID, limit)
}

func (r *OrderReadStore) ListBySellerFirstPage(ctx context.Context, sellerID uuid.UUID, newestFirst bool, limit int32) ([]*queries.OrderListItem, error) {
	sql := orderListSelect + `
	WHERE o.seller_id = $1
	ORDER BY o.created_at ` + direction(newestFirst) + `, o.id ` + direction(newestFirst) + `
	LIMIT $2`
	return r.listPage(ctx, sql, sellerID, limit)
}

func (r *OrderReadStore) ListBySellerKeyset(ctx context.Context, sellerID uuid.UUID, newestFirst bool, afterTime time.Time, afterID uuid.UUID, limit int32) ([]*queries.OrderListItem, error) {
	sql := orderListSelect + `
	WHERE o.seller_id = $1 AND (o.created_at, o.id) ` + keysetOp(newestFirst) + ` ($2, $3)
	ORDER BY o.created_at ` + direction(newestFirst) + `, o.id ` + direction(newestFirst) + `
	LIMIT $4`
	return r.listPage(ctx, sql, sellerID, afterTime, afterID, limit)
}

func (r *OrderReadStore) listPage(ctx context.Context, sql string, args ...any) ([]*queries.OrderListItem, error) {
	var items []*queries.OrderListItem
	err := r.uow.WithDB(ctx, func(ctx context.Context, dbtx db.DBTX) error {
		rows, err := dbtx.Query(ctx, sql, args...)
		if err != nil {
			return infra.WrapRepoErr("failed to list orders", err)
		}
		defer rows.Close()

		for rows.Next() {
			var it queries.OrderListItem
			if err := rows.Scan(&it.ID, &it.SellerName, &it.DisplayName, &it.Image, &it.Status, &it.TotalPriceCents, &it.CreatedAt, &it.UpdatedAt); err != nil {
				return infra.WrapRepoErr("failed to scan order list item", err)
			}
			items = append(items, &it)
		}
		if err := rows.Err(); err != nil {
			return infra.WrapRepoErr("failed to list orders", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

func direction(newestFirst bool) string {
	if newestFirst {
		return "DESC"
	}
	return "ASC"
}

func keysetOp(newestFirst bool) string {
	if newestFirst {
		return "<"
	}
	return ">"
}

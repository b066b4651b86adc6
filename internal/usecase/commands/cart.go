package commands

import (
	"context"

	reqdto "marketplace-core/internal/handler/dto/request"
	"marketplace-core/internal/infra"
	"marketplace-core/internal/pkg/errs"
	"marketplace-core/internal/usecase/shared"

	"github.com/google/uuid"
)

var ErrCartLineNotFound = errs.New("cart line not found")

type CartCommands interface {
	// AddLine inserts or replaces the buyer's line for an item. Re-adding an
	// item overwrites its quantity rather than creating a second line.
	AddLine(ctx context.Context, buyerID uuid.UUID, req reqdto.AddCartLineRequest) error
	SetSelected(ctx context.Context, buyerID, itemID uuid.UUID, selected bool) error
	RemoveLine(ctx context.Context, buyerID, itemID uuid.UUID) error
}

type cartCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewCartCommands(uow shared.UnitOfWork) CartCommands {
	return &cartCommandsImpl{uow: uow}
}

func (c *cartCommandsImpl) AddLine(ctx context.Context, buyerID uuid.UUID, req reqdto.AddCartLineRequest) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		err := tx.CartLines().Upsert(ctx, tx.DB(), buyerID, req.ItemID, req.Quantity)
		if err != nil {
			// The FK to catalog_items is the existence check.
			if infra.IsKind(err, infra.KindForeignKeyViolated) {
				return errs.Mark(err, ErrItemNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (c *cartCommandsImpl) SetSelected(ctx context.Context, buyerID, itemID uuid.UUID, selected bool) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		err := tx.CartLines().SetSelected(ctx, tx.DB(), buyerID, itemID, selected)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrCartLineNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (c *cartCommandsImpl) RemoveLine(ctx context.Context, buyerID, itemID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		err := tx.CartLines().Delete(ctx, tx.DB(), buyerID, itemID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrCartLineNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

package commands

import (
	"context"

	"marketplace-core/internal/domain/item"
	"marketplace-core/internal/domain/user"
	reqdto "marketplace-core/internal/handler/dto/request"
	"marketplace-core/internal/infra"
	"marketplace-core/internal/pkg/errs"
	"marketplace-core/internal/pkg/patch"
	"marketplace-core/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrItemNotFound = errs.New("catalog item not found")
	ErrItemNotOwned = errs.New("catalog item not owned by seller")
)

type ItemCommands interface {
	Create(ctx context.Context, actor shared.Actor, req reqdto.CreateItemRequest) (uuid.UUID, error)
	// Update bumps the item version only when sellable content actually
	// changed. Restocks keep the version so existing snapshots stay valid.
	Update(ctx context.Context, actor shared.Actor, itemID uuid.UUID, req reqdto.UpdateItemRequest) error
}

type itemCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewItemCommands(uow shared.UnitOfWork) ItemCommands {
	return &itemCommandsImpl{uow: uow}
}

func (c *itemCommandsImpl) Create(ctx context.Context, actor shared.Actor, req reqdto.CreateItemRequest) (uuid.UUID, error) {
	it, err := item.NewCatalogItem(actor.ID, req.Name, req.Description, req.PriceCents, req.Quantity, req.Images)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDomainValidation)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Items().Insert(ctx, tx.DB(), it)
	})
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	return it.ID(), nil
}

func (c *itemCommandsImpl) Update(ctx context.Context, actor shared.Actor, itemID uuid.UUID, req reqdto.UpdateItemRequest) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		it, err := tx.Items().LockByID(ctx, tx.DB(), itemID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrItemNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if actor.Role != user.RoleAdmin && it.SellerID() != actor.ID {
			return ErrItemNotOwned
		}

		name := patch.Coalesce(req.Name, it.Name())
		description := patch.Coalesce(req.Description, it.Description())
		priceCents := patch.Coalesce(req.PriceCents, it.PriceCents())
		images := it.Images()
		if req.Images != nil {
			images = *req.Images
		}

		if !it.ContentEquals(name, description, priceCents, images) {
			if err := it.ApplyContentEdit(name, description, priceCents, images); err != nil {
				return errs.Mark(err, ErrDomainValidation)
			}
		}
		if req.Quantity != nil {
			if err := it.SetQuantity(*req.Quantity); err != nil {
				return errs.Mark(err, ErrDomainValidation)
			}
		}

		if err := tx.Items().Update(ctx, tx.DB(), it); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

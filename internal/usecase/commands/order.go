package commands

import (
	"context"
	"time"

	"marketplace-core/internal/domain/order"
	"marketplace-core/internal/domain/user"
	"marketplace-core/internal/infra"
	"marketplace-core/internal/pkg/clock"
	"marketplace-core/internal/pkg/config"
	"marketplace-core/internal/pkg/errs"
	"marketplace-core/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound     = errs.New("order not found")
	ErrInvalidTransition = errs.New("invalid order status transition")
	ErrUnauthorized      = errs.New("actor is not a party to this order")
)

type OrderCommands interface {
	// ChangeStatus is the only writer of order.status. It serializes on the
	// order row lock, so concurrent transitions resolve strictly one after
	// the other.
	ChangeStatus(ctx context.Context, actor shared.Actor, orderID uuid.UUID, target order.Status) error
	// ApplyScheduled runs one claimed timeout job. A stale expected status
	// marks the job superseded and succeeds silently.
	ApplyScheduled(ctx context.Context, job shared.ScheduledTransition) error
}

type orderCommandsImpl struct {
	uow      shared.UnitOfWork
	clock    clock.Clock
	orderCfg config.OrderConfig
}

func NewOrderCommands(uow shared.UnitOfWork, clock clock.Clock, orderCfg config.OrderConfig) OrderCommands {
	return &orderCommandsImpl{
		uow:      uow,
		clock:    clock,
		orderCfg: orderCfg,
	}
}

func (c *orderCommandsImpl) ChangeStatus(ctx context.Context, actor shared.Actor, orderID uuid.UUID, target order.Status) error {
	if !target.IsValid() {
		return errs.Mark(&order.TransitionError{Reason: "unknown target status"}, ErrInvalidTransition)
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Orders().FindForUpdate(ctx, tx.DB(), orderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrOrderNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := checkParty(actor, snap); err != nil {
			return err
		}

		if err := order.CanTransition(snap.Status, target, actor.Role); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}

		return c.applyTransition(ctx, tx, snap.ID, target)
	})
}

func (c *orderCommandsImpl) ApplyScheduled(ctx context.Context, job shared.ScheduledTransition) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Orders().FindForUpdate(ctx, tx.DB(), job.OrderID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return errs.Mark(err, ErrOrderNotFound)
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// Someone moved the order before the timer fired. Not an error; the
		// job is simply obsolete.
		if snap.Status != job.Expected {
			return tx.Jobs().MarkSuperseded(ctx, tx.DB(), job.ID)
		}

		if err := order.CanTransition(snap.Status, job.Target, user.RoleSystem); err != nil {
			return errs.Mark(err, ErrInvalidTransition)
		}

		if err := c.applyTransition(ctx, tx, snap.ID, job.Target); err != nil {
			return err
		}

		return tx.Jobs().MarkDone(ctx, tx.DB(), job.ID)
	})
}

// applyTransition writes the status and, when the entered status carries a
// timeout policy, its follow-up job in the same transaction. The new
// updated_at is the time base for the follow-up.
func (c *orderCommandsImpl) applyTransition(ctx context.Context, tx shared.Tx, orderID uuid.UUID, target order.Status) error {
	now := c.clock.Now()
	if err := tx.Orders().UpdateStatus(ctx, tx.DB(), orderID, target, now); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}

	fu, ok := order.ScheduledFollowUp(target)
	if !ok {
		return nil
	}
	fireAt := now.Add(c.timeoutFor(target))
	if err := tx.Jobs().Schedule(ctx, tx.DB(), orderID, fu.Expected, fu.Target, fireAt); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (c *orderCommandsImpl) timeoutFor(entered order.Status) time.Duration {
	switch entered {
	case order.StatusAwaiting:
		return c.orderCfg.AwaitingTimeout()
	case order.StatusConfirmed:
		return c.orderCfg.ConfirmedTimeout()
	default:
		return c.orderCfg.DeliveryTimeout()
	}
}

// checkParty rejects actors that are neither side of the order. Role-level
// legality is the transition table's job; this only checks identity.
func checkParty(actor shared.Actor, snap *shared.OrderSnapshot) error {
	switch actor.Role {
	case user.RoleBuyer:
		if actor.ID != snap.BuyerID {
			return ErrUnauthorized
		}
	case user.RoleSeller:
		if actor.ID != snap.SellerID {
			return ErrUnauthorized
		}
	case user.RoleAdmin, user.RoleSystem:
		// unrestricted
	default:
		return ErrUnauthorized
	}
	return nil
}

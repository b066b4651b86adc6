package repository

import (
	"context"
	"time"

	"marketplace-core/internal/domain/order"
	"marketplace-core/internal/infra"
	"marketplace-core/internal/infra/db"
	"marketplace-core/internal/usecase/shared"

	"github.com/google/uuid"
)

type JobRepository struct{}

func NewJobRepository() *JobRepository {
	return &JobRepository{}
}

func (r *JobRepository) Schedule(ctx context.Context, tx db.DBTX, orderID uuid.UUID, expected, target order.Status, fireAt time.Time) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO scheduled_transitions (order_id, expected_status, target_status, fire_at, status)
		VALUES ($1, $2, $3, $4, 'queued')`,
		orderID, expected, target, fireAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to schedule transition", err)
	}
	return nil
}

// ClaimDue takes up to limit due jobs in a single statement. SKIP LOCKED
// keeps concurrent pollers from blocking on or double-claiming the same rows.
func (r *JobRepository) ClaimDue(ctx context.Context, tx db.DBTX, now time.Time, limit int32) ([]shared.ScheduledTransition, error) {
	rows, err := tx.Query(ctx, `
		UPDATE scheduled_transitions
		SET status = 'processing', attempts = attempts + 1, claimed_at = $1
		WHERE id IN (
			SELECT id FROM scheduled_transitions
			WHERE status = 'queued' AND fire_at <= $1
			ORDER BY fire_at
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, order_id, expected_status, target_status, fire_at, attempts`,
		now, limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim due transitions", err)
	}
	defer rows.Close()

	var jobs []shared.ScheduledTransition
	for rows.Next() {
		var j shared.ScheduledTransition
		if err := rows.Scan(&j.ID, &j.OrderID, &j.Expected, &j.Target, &j.FireAt, &j.Attempts); err != nil {
			return nil, infra.WrapRepoErr("failed to scan claimed transition", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read claimed transitions", err)
	}

	return jobs, nil
}

func (r *JobRepository) MarkDone(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	return r.finish(ctx, tx, id, "done", nil)
}

func (r *JobRepository) MarkSuperseded(ctx context.Context, tx db.DBTX, id uuid.UUID) error {
	return r.finish(ctx, tx, id, "superseded", nil)
}

func (r *JobRepository) MarkFailed(ctx context.Context, tx db.DBTX, id uuid.UUID, lastError string) error {
	return r.finish(ctx, tx, id, "failed", &lastError)
}

func (r *JobRepository) finish(ctx context.Context, tx db.DBTX, id uuid.UUID, status string, lastError *string) error {
	tag, err := tx.Exec(ctx, `
		UPDATE scheduled_transitions
		SET status = $2, last_error = COALESCE($3, last_error), claimed_at = NULL
		WHERE id = $1 AND status = 'processing'`,
		id, status, lastError,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to finish transition job", err)
	}
	if tag.RowsAffected() != 1 {
		return infra.WrapRepoErr("transition job not in processing state", nil, infra.KindNotFound)
	}
	return nil
}

// RequeueStale recovers jobs whose worker died after claiming them.
func (r *JobRepository) RequeueStale(ctx context.Context, tx db.DBTX, claimedBefore time.Time) (int64, error) {
	tag, err := tx.Exec(ctx, `
		UPDATE scheduled_transitions
		SET status = 'queued', claimed_at = NULL
		WHERE status = 'processing' AND claimed_at < $1`,
		claimedBefore,
	)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to requeue stale transitions", err)
	}
	return tag.RowsAffected(), nil
}

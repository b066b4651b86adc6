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

type UserReadStore struct {
	pool *pgxpool.Pool
}

func NewUserReadStore(pool *pgxpool.Pool) *UserReadStore {
	return &UserReadStore{pool: pool}
}

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	var v queries.AuthorizedUserView
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, role, display_name, shop_name, is_active
		FROM users WHERE id = $1`,
		id,
	).Scan(&v.ID, &v.Email, &v.Role, &v.DisplayName, &v.ShopName, &v.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}
	return &v, nil
}

func (r *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, string, error) {
	var v queries.AuthorizedUserView
	var passwordHash string
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, role, display_name, shop_name, is_active, password_hash
		FROM users WHERE email = $1`,
		email,
	).Scan(&v.ID, &v.Email, &v.Role, &v.DisplayName, &v.ShopName, &v.IsActive, &passwordHash)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user by email", err)
	}
	return &v, passwordHash, nil
}

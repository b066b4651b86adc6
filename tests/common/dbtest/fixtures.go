//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// bcrypt hash of "password123", precomputed so seeding stays fast
const testPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	var shopName *string
	if role == "seller" {
		name := "Shop of " + email
		shopName = &name
	}

	tag, err := db.Exec(ctx,
		`INSERT INTO users (id, email, password_hash, role, display_name, shop_name, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, true)
		 ON CONFLICT (email) DO NOTHING`,
		userID, email, testPasswordHash, role, email, shopName)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&userID)
	}

	return userID
}

func CreateTestItem(t *testing.T, db DBLike, sellerID uuid.UUID, name string, priceCents int64, quantity int32) uuid.UUID {
	t.Helper()

	itemID := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO catalog_items (id, seller_id, name, description, price_cents, quantity, version, images)
		 VALUES ($1, $2, $3, '', $4, $5, 1, '[]'::jsonb)`,
		itemID, sellerID, name, priceCents, quantity)
	require.NoError(t, err)

	return itemID
}

func CreateTestCartLine(t *testing.T, db DBLike, buyerID, itemID uuid.UUID, quantity int32, selected bool) uuid.UUID {
	t.Helper()

	lineID := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO cart_lines (id, buyer_id, item_id, quantity, selected)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (buyer_id, item_id) DO UPDATE SET quantity = EXCLUDED.quantity, selected = EXCLUDED.selected`,
		lineID, buyerID, itemID, quantity, selected)
	require.NoError(t, err)

	return lineID
}

func ItemQuantity(t *testing.T, db DBLike, itemID uuid.UUID) int32 {
	t.Helper()

	var quantity int32
	err := db.QueryRow(context.Background(),
		"SELECT quantity FROM catalog_items WHERE id = $1", itemID).Scan(&quantity)
	require.NoError(t, err)
	return quantity
}

func OrderStatus(t *testing.T, db DBLike, orderID uuid.UUID) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(),
		"SELECT status FROM orders WHERE id = $1", orderID).Scan(&status)
	require.NoError(t, err)
	return status
}

// CountScheduledJobs reports how many delayed-transition jobs exist for an
// order in the given status.
func CountScheduledJobs(t *testing.T, db DBLike, orderID uuid.UUID, status string) int {
	t.Helper()

	var n int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM scheduled_transitions WHERE order_id = $1 AND status = $2", orderID, status).Scan(&n)
	require.NoError(t, err)
	return n
}

// SeedReferenceData is kept as the reset hook; the schema has no shared
// lookup tables, so each suite seeds its own users and items.
func SeedReferenceData(_ *pgxpool.Pool) error {
	return nil
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}

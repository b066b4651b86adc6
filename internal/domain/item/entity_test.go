//go:build unit

package item_test

import (
	"testing"

	"marketplace-core/internal/domain/item"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newItem(t *testing.T) *item.CatalogItem {
	t.Helper()
	it, err := item.NewCatalogItem(uuid.New(), "Walnut desk", "Solid walnut, 140cm", 24900, 5, []string{"a.jpg"})
	require.NoError(t, err)
	return it
}

func TestNewCatalogItem(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		sellerID := uuid.New()
		it, err := item.NewCatalogItem(sellerID, "  Walnut desk ", "desc", 24900, 5, []string{"a.jpg"})
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, it.ID())
		assert.Equal(t, sellerID, it.SellerID())
		assert.Equal(t, "Walnut desk", it.Name())
		assert.Equal(t, int32(1), it.Version())
		assert.Equal(t, int32(5), it.Quantity())
	})

	t.Run("validation", func(t *testing.T) {
		cases := []struct {
			name     string
			itemName string
			price    int64
			quantity int32
			errIs    error
		}{
			{"empty name", "  ", 100, 1, item.ErrEmptyName},
			{"negative price", "desk", -1, 1, item.ErrNegativePrice},
			{"negative quantity", "desk", 100, -1, item.ErrNegativeQuantity},
			{"zero price ok", "desk", 0, 1, nil},
			{"zero quantity ok", "desk", 100, 0, nil},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := item.NewCatalogItem(uuid.New(), tc.itemName, "", tc.price, tc.quantity, nil)
				if tc.errIs != nil {
					require.ErrorIs(t, err, tc.errIs)
				} else {
					require.NoError(t, err)
				}
			})
		}
	})
}

func TestApplyContentEdit(t *testing.T) {
	t.Run("bumps version", func(t *testing.T) {
		it := newItem(t)
		require.NoError(t, it.ApplyContentEdit("Oak desk", "Solid oak", 19900, []string{"b.jpg"}))

		assert.Equal(t, int32(2), it.Version())
		assert.Equal(t, "Oak desk", it.Name())
		assert.Equal(t, int64(19900), it.PriceCents())
		assert.Equal(t, []string{"b.jpg"}, it.Images())
	})

	t.Run("each edit bumps again", func(t *testing.T) {
		it := newItem(t)
		require.NoError(t, it.ApplyContentEdit("Oak desk", "", 19900, nil))
		require.NoError(t, it.ApplyContentEdit("Pine desk", "", 9900, nil))
		assert.Equal(t, int32(3), it.Version())
	})

	t.Run("rejects invalid content", func(t *testing.T) {
		it := newItem(t)
		require.ErrorIs(t, it.ApplyContentEdit(" ", "", 100, nil), item.ErrEmptyName)
		require.ErrorIs(t, it.ApplyContentEdit("desk", "", -5, nil), item.ErrNegativePrice)
		// Failed edits leave the version alone.
		assert.Equal(t, int32(1), it.Version())
	})
}

func TestSetQuantity(t *testing.T) {
	it := newItem(t)
	require.NoError(t, it.SetQuantity(0))
	assert.Equal(t, int32(0), it.Quantity())
	// Quantity changes never touch the version.
	assert.Equal(t, int32(1), it.Version())

	require.ErrorIs(t, it.SetQuantity(-1), item.ErrNegativeQuantity)
}

func TestContentEquals(t *testing.T) {
	it := newItem(t)

	assert.True(t, it.ContentEquals("Walnut desk", "Solid walnut, 140cm", 24900, []string{"a.jpg"}))
	assert.True(t, it.ContentEquals("  Walnut desk ", "Solid walnut, 140cm", 24900, []string{"a.jpg"}))
	assert.False(t, it.ContentEquals("Oak desk", "Solid walnut, 140cm", 24900, []string{"a.jpg"}))
	assert.False(t, it.ContentEquals("Walnut desk", "changed", 24900, []string{"a.jpg"}))
	assert.False(t, it.ContentEquals("Walnut desk", "Solid walnut, 140cm", 24800, []string{"a.jpg"}))
	assert.False(t, it.ContentEquals("Walnut desk", "Solid walnut, 140cm", 24900, []string{"a.jpg", "b.jpg"}))
	assert.False(t, it.ContentEquals("Walnut desk", "Solid walnut, 140cm", 24900, []string{"b.jpg"}))
}

func TestSnapshotContent(t *testing.T) {
	it := newItem(t)
	snap := it.SnapshotContent()
	assert.Equal(t, item.SnapshotContent{
		Name:        "Walnut desk",
		Description: "Solid walnut, 140cm",
		PriceCents:  24900,
		Images:      []string{"a.jpg"},
	}, snap)
}

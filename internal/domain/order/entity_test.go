//go:build unit

package order_test

import (
	"testing"

	"marketplace-core/internal/domain/order"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validLines() []order.Line {
	return []order.Line{
		{ItemID: uuid.New(), Version: 1, Quantity: 2, UnitPrice: 1500},
	}
}

func validAddress(t *testing.T) order.ShippingAddress {
	t.Helper()
	addr, err := order.NewShippingAddress("Jordan Lee", "94103", "1 Market St", nil, "+1-415-555-0100")
	require.NoError(t, err)
	return addr
}

func TestNewOrder(t *testing.T) {
	buyerID := uuid.New()
	sellerID := uuid.New()

	t.Run("basic success case", func(t *testing.T) {
		img := "https://cdn.example.com/a.jpg"
		o, err := order.NewOrder(buyerID, sellerID, "Walnut desk and 1 more", &img, 3000, validAddress(t), validLines())
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, o.ID())
		assert.Equal(t, order.StatusAwaiting, o.Status())
		assert.Equal(t, buyerID, o.BuyerID())
		assert.Equal(t, sellerID, o.SellerID())
		assert.Equal(t, int64(3000), o.TotalPriceCents())
		require.NotNil(t, o.RepresentativeImage())
		assert.Equal(t, img, *o.RepresentativeImage())
		assert.Len(t, o.Lines(), 1)
	})

	t.Run("validation", func(t *testing.T) {
		cases := []struct {
			name  string
			build func() (*order.Order, error)
			errIs error
		}{
			{
				name: "empty display name",
				build: func() (*order.Order, error) {
					return order.NewOrder(buyerID, sellerID, "  ", nil, 100, validAddress(t), validLines())
				},
				errIs: order.ErrEmptyDisplayName,
			},
			{
				name: "negative total price",
				build: func() (*order.Order, error) {
					return order.NewOrder(buyerID, sellerID, "desk", nil, -1, validAddress(t), validLines())
				},
				errIs: order.ErrNegativeTotalPrice,
			},
			{
				name: "no lines",
				build: func() (*order.Order, error) {
					return order.NewOrder(buyerID, sellerID, "desk", nil, 100, validAddress(t), nil)
				},
				errIs: order.ErrNoLines,
			},
			{
				name: "buyer equals seller",
				build: func() (*order.Order, error) {
					return order.NewOrder(buyerID, buyerID, "desk", nil, 100, validAddress(t), validLines())
				},
				errIs: order.ErrSameParty,
			},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				o, err := tc.build()
				require.ErrorIs(t, err, tc.errIs)
				assert.Nil(t, o)
			})
		}
	})
}

func TestNewShippingAddress(t *testing.T) {
	t.Run("trims whitespace", func(t *testing.T) {
		addr, err := order.NewShippingAddress("  Jordan Lee ", "94103", " 1 Market St ", nil, "")
		require.NoError(t, err)
		assert.Equal(t, "Jordan Lee", addr.Recipient())
		assert.Equal(t, "1 Market St", addr.Address1())
	})

	t.Run("required fields", func(t *testing.T) {
		cases := []struct {
			name      string
			recipient string
			postal    string
			address1  string
		}{
			{"missing recipient", "", "94103", "1 Market St"},
			{"missing postal code", "Jordan Lee", "", "1 Market St"},
			{"missing address line", "Jordan Lee", "94103", "   "},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := order.NewShippingAddress(tc.recipient, tc.postal, tc.address1, nil, "")
				require.ErrorIs(t, err, order.ErrInvalidAddress)
			})
		}
	})

	t.Run("second address line is optional", func(t *testing.T) {
		line2 := "Apt 4B"
		addr, err := order.NewShippingAddress("Jordan Lee", "94103", "1 Market St", &line2, "")
		require.NoError(t, err)
		require.NotNil(t, addr.Address2())
		assert.Equal(t, line2, *addr.Address2())
	})
}

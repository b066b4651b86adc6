//go:build unit

package order_test

import (
	"testing"

	"marketplace-core/internal/domain/order"
	"marketplace-core/internal/domain/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition_LegalEdges(t *testing.T) {
	cases := []struct {
		name    string
		current order.Status
		target  order.Status
		roles   []user.Role
	}{
		{
			name:    "awaiting to confirmed",
			current: order.StatusAwaiting,
			target:  order.StatusConfirmed,
			roles:   []user.Role{user.RoleSeller, user.RoleAdmin},
		},
		{
			name:    "awaiting to cancelled",
			current: order.StatusAwaiting,
			target:  order.StatusCancelled,
			roles:   []user.Role{user.RoleBuyer, user.RoleSeller, user.RoleAdmin, user.RoleSystem},
		},
		{
			name:    "confirmed to cancelled",
			current: order.StatusConfirmed,
			target:  order.StatusCancelled,
			roles:   []user.Role{user.RoleSeller, user.RoleAdmin, user.RoleSystem},
		},
		{
			name:    "confirmed to delivering",
			current: order.StatusConfirmed,
			target:  order.StatusDelivering,
			roles:   []user.Role{user.RoleSeller, user.RoleAdmin},
		},
		{
			name:    "delivering to delivered",
			current: order.StatusDelivering,
			target:  order.StatusDelivered,
			roles:   []user.Role{user.RoleSystem},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for _, role := range tc.roles {
				assert.NoError(t, order.CanTransition(tc.current, tc.target, role), "role %s", role)
			}
		})
	}
}

func TestCanTransition_RoleRefusals(t *testing.T) {
	cases := []struct {
		name    string
		current order.Status
		target  order.Status
		role    user.Role
		reason  string
	}{
		{
			name:    "buyer cannot confirm",
			current: order.StatusAwaiting,
			target:  order.StatusConfirmed,
			role:    user.RoleBuyer,
			reason:  "role buyer may not move an order from awaiting to confirmed",
		},
		{
			name:    "buyer cannot cancel after confirmation",
			current: order.StatusConfirmed,
			target:  order.StatusCancelled,
			role:    user.RoleBuyer,
			reason:  "a confirmed order can no longer be cancelled by the buyer",
		},
		{
			name:    "buyer cannot start delivery",
			current: order.StatusConfirmed,
			target:  order.StatusDelivering,
			role:    user.RoleBuyer,
			reason:  "role buyer may not move an order from confirmed to delivering",
		},
		{
			name:    "seller cannot complete delivery",
			current: order.StatusDelivering,
			target:  order.StatusDelivered,
			role:    user.RoleSeller,
			reason:  "delivery completion is recorded automatically and cannot be triggered manually",
		},
		{
			name:    "admin cannot complete delivery",
			current: order.StatusDelivering,
			target:  order.StatusDelivered,
			role:    user.RoleAdmin,
			reason:  "delivery completion is recorded automatically and cannot be triggered manually",
		},
		{
			name:    "buyer cannot complete delivery",
			current: order.StatusDelivering,
			target:  order.StatusDelivered,
			role:    user.RoleBuyer,
			reason:  "delivery completion is recorded automatically and cannot be triggered manually",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := order.CanTransition(tc.current, tc.target, tc.role)
			requireTransitionError(t, err, tc.reason)
		})
	}
}

func TestCanTransition_IllegalEdges(t *testing.T) {
	cases := []struct {
		name    string
		current order.Status
		target  order.Status
		reason  string
	}{
		{
			name:    "cancelled is terminal",
			current: order.StatusCancelled,
			target:  order.StatusConfirmed,
			reason:  "order is already cancelled",
		},
		{
			name:    "delivered is terminal",
			current: order.StatusDelivered,
			target:  order.StatusCancelled,
			reason:  "order is already delivered",
		},
		{
			name:    "cannot confirm twice",
			current: order.StatusConfirmed,
			target:  order.StatusConfirmed,
			reason:  "order is already confirmed",
		},
		{
			name:    "cannot confirm while delivering",
			current: order.StatusDelivering,
			target:  order.StatusConfirmed,
			reason:  "order is already confirmed",
		},
		{
			name:    "cannot skip confirmation",
			current: order.StatusAwaiting,
			target:  order.StatusDelivering,
			reason:  "order is not yet confirmed",
		},
		{
			name:    "cannot start delivery twice",
			current: order.StatusDelivering,
			target:  order.StatusDelivering,
			reason:  "order is already out for delivery",
		},
		{
			name:    "cannot deliver before shipping",
			current: order.StatusConfirmed,
			target:  order.StatusDelivered,
			reason:  "order is not out for delivery yet",
		},
		{
			name:    "cannot deliver from awaiting",
			current: order.StatusAwaiting,
			target:  order.StatusDelivered,
			reason:  "order is not out for delivery yet",
		},
		{
			name:    "cannot cancel after shipping",
			current: order.StatusDelivering,
			target:  order.StatusCancelled,
			reason:  "order already left for delivery and can no longer be cancelled",
		},
		{
			name:    "cannot reopen",
			current: order.StatusConfirmed,
			target:  order.StatusAwaiting,
			reason:  "order cannot return to the awaiting state",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Illegal edges are refused for every role, admin included.
			for _, role := range []user.Role{user.RoleBuyer, user.RoleSeller, user.RoleAdmin, user.RoleSystem} {
				err := order.CanTransition(tc.current, tc.target, role)
				requireTransitionError(t, err, tc.reason)
			}
		})
	}
}

func TestCanTransition_UnknownTarget(t *testing.T) {
	err := order.CanTransition(order.StatusAwaiting, order.Status("shipped"), user.RoleAdmin)
	requireTransitionError(t, err, `unknown target status "shipped"`)
}

func TestScheduledFollowUp(t *testing.T) {
	cases := []struct {
		status   order.Status
		expected order.FollowUp
		ok       bool
	}{
		{order.StatusAwaiting, order.FollowUp{Expected: order.StatusAwaiting, Target: order.StatusCancelled}, true},
		{order.StatusConfirmed, order.FollowUp{Expected: order.StatusConfirmed, Target: order.StatusCancelled}, true},
		{order.StatusDelivering, order.FollowUp{Expected: order.StatusDelivering, Target: order.StatusDelivered}, true},
		{order.StatusDelivered, order.FollowUp{}, false},
		{order.StatusCancelled, order.FollowUp{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.status.String(), func(t *testing.T) {
			fu, ok := order.ScheduledFollowUp(tc.status)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, fu)
		})
	}
}

func requireTransitionError(t *testing.T, err error, reason string) {
	t.Helper()
	require.Error(t, err)
	var terr *order.TransitionError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, reason, terr.Reason)
}

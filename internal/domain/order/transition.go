package order

import (
	"fmt"

	"marketplace-core/internal/domain/user"
)

// TransitionError carries the human-readable reason a transition was refused.
// The reason distinguishes guard failures (e.g. "not yet confirmed" vs
// "already confirmed") so the HTTP layer can surface it as-is.
type TransitionError struct {
	Reason string
}

func (e *TransitionError) Error() string {
	return e.Reason
}

func refuse(format string, args ...any) *TransitionError {
	return &TransitionError{Reason: fmt.Sprintf(format, args...)}
}

type edge struct {
	from Status
	to   Status
}

// allowedTriggers is the whole state graph. An edge absent from this map is
// illegal for every actor. RoleSystem rows are the scheduler's timeout edges.
var allowedTriggers = map[edge][]user.Role{
	{StatusAwaiting, StatusConfirmed}:   {user.RoleSeller, user.RoleAdmin},
	{StatusAwaiting, StatusCancelled}:   {user.RoleBuyer, user.RoleSeller, user.RoleAdmin, user.RoleSystem},
	{StatusConfirmed, StatusCancelled}:  {user.RoleSeller, user.RoleAdmin, user.RoleSystem},
	{StatusConfirmed, StatusDelivering}: {user.RoleSeller, user.RoleAdmin},
	{StatusDelivering, StatusDelivered}: {user.RoleSystem},
}

// CanTransition validates (current, target, role) against the state graph.
// Returns nil when the transition is legal, otherwise a *TransitionError.
func CanTransition(current, target Status, role user.Role) error {
	if !target.IsValid() {
		return refuse("unknown target status %q", target)
	}

	roles, legal := allowedTriggers[edge{current, target}]
	if legal {
		for _, r := range roles {
			if r == role {
				return nil
			}
		}
		return refuseRole(current, target, role)
	}

	return refuseEdge(current, target)
}

// refuseEdge explains why the edge itself does not exist.
func refuseEdge(current, target Status) *TransitionError {
	switch {
	case current == StatusCancelled:
		return refuse("order is already cancelled")
	case current == StatusDelivered:
		return refuse("order is already delivered")
	case target == StatusConfirmed && current != StatusAwaiting:
		return refuse("order is already confirmed")
	case target == StatusDelivering && current == StatusAwaiting:
		return refuse("order is not yet confirmed")
	case target == StatusDelivering:
		return refuse("order is already out for delivery")
	case target == StatusDelivered:
		return refuse("order is not out for delivery yet")
	case target == StatusCancelled:
		return refuse("order already left for delivery and can no longer be cancelled")
	case target == StatusAwaiting:
		return refuse("order cannot return to the awaiting state")
	default:
		return refuse("transition from %s to %s is not allowed", current, target)
	}
}

// refuseRole explains why this actor may not trigger an otherwise legal edge.
func refuseRole(current, target Status, role user.Role) *TransitionError {
	if current == StatusConfirmed && target == StatusCancelled && role == user.RoleBuyer {
		return refuse("a confirmed order can no longer be cancelled by the buyer")
	}
	if target == StatusDelivered && role != user.RoleSystem {
		return refuse("delivery completion is recorded automatically and cannot be triggered manually")
	}
	return refuse("role %s may not move an order from %s to %s", role, current, target)
}

// FollowUp names the delayed transition to register after an order enters a
// status with a timeout policy.
type FollowUp struct {
	Expected Status
	Target   Status
}

// ScheduledFollowUp reports the timeout edge that accompanies status s, if any.
// The fire time is the entering transition's updated_at plus the configured
// timeout for s.
func ScheduledFollowUp(s Status) (FollowUp, bool) {
	switch s {
	case StatusAwaiting:
		return FollowUp{Expected: StatusAwaiting, Target: StatusCancelled}, true
	case StatusConfirmed:
		return FollowUp{Expected: StatusConfirmed, Target: StatusCancelled}, true
	case StatusDelivering:
		return FollowUp{Expected: StatusDelivering, Target: StatusDelivered}, true
	default:
		return FollowUp{}, false
	}
}

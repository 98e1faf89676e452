// Package access decides which operations a principal may perform on a
// project, its tasks, or a user account.
package access

import (
	apierrors "github.com/yukikurage/project-board-api/internal/errors"
)

// Action names an operation subject to authorization.
type Action string

const (
	ActionReadProject      Action = "read-project"
	ActionRenameProject    Action = "rename-project"
	ActionDeleteProject    Action = "delete-project"
	ActionManageMembership Action = "manage-membership"
	ActionReadTask         Action = "read-task"
	ActionCreateTask       Action = "create-task"
	ActionUpdateTask       Action = "update-task"
	ActionDeleteTask       Action = "delete-task"
	ActionUpdateUser       Action = "update-user"
	ActionDeleteUser       Action = "delete-user"
)

// Denial reasons
const (
	ReasonOwnerOnly     = "Forbidden: owner-only"
	ReasonNotMember     = "Forbidden: not a member"
	ReasonOtherUser     = "Forbidden: cannot act on other users"
	ReasonUnknownAction = "Forbidden: unknown action"
)

// Principal is the authenticated caller.
type Principal struct {
	UserID string
	Email  string
}

// Resource describes the target of an action. Project actions use
// OwnerID and IsMember; user actions use TargetUserID.
type Resource struct {
	OwnerID      string
	IsMember     bool
	TargetUserID string
}

// Decision is the outcome of Authorize.
type Decision struct {
	Allowed bool
	Reason  string
}

// Err returns nil for an allowed decision and a Forbidden error otherwise.
func (d Decision) Err() error {
	if d.Allowed {
		return nil
	}
	return apierrors.NewForbidden(d.Reason)
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }

// Authorize applies the ownership and membership rules. The resource must
// already be known to exist.
func Authorize(p Principal, action Action, res Resource) Decision {
	switch action {
	case ActionRenameProject, ActionDeleteProject, ActionManageMembership:
		if p.UserID != "" && p.UserID == res.OwnerID {
			return allow()
		}
		return deny(ReasonOwnerOnly)

	case ActionReadProject, ActionReadTask, ActionCreateTask, ActionUpdateTask, ActionDeleteTask:
		if p.UserID != "" && (p.UserID == res.OwnerID || res.IsMember) {
			return allow()
		}
		return deny(ReasonNotMember)

	case ActionUpdateUser, ActionDeleteUser:
		if p.UserID != "" && p.UserID == res.TargetUserID {
			return allow()
		}
		return deny(ReasonOtherUser)
	}

	return deny(ReasonUnknownAction)
}

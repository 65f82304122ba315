// Package policy holds the pure authorization decision function. It never
// touches the database: callers collect the relevant facts about the
// resource instance into a Snapshot first.
package policy

import (
	"github.com/taskdeck-io/taskdeck/internal/modules/model"
)

type Resource int

const (
	ResourceProject Resource = iota
	ResourceTask
	ResourceDocument
	ResourceComment
	ResourceTimeline
	ResourceNotification
)

func (r Resource) String() string {
	switch r {
	case ResourceProject:
		return "project"
	case ResourceTask:
		return "task"
	case ResourceDocument:
		return "document"
	case ResourceComment:
		return "comment"
	case ResourceTimeline:
		return "timeline"
	case ResourceNotification:
		return "notification"
	}
	return "unknown"
}

type Operation int

const (
	OpList Operation = iota
	OpCreate
	OpRetrieve
	OpUpdate
	OpDelete
)

func (o Operation) String() string {
	switch o {
	case OpList:
		return "list"
	case OpCreate:
		return "create"
	case OpRetrieve:
		return "retrieve"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	}
	return "unknown"
}

// Snapshot captures the facts about a resource instance that the decision
// depends on. Zero value is fine for operations without an instance (list,
// create against a payload whose facts the caller fills in).
type Snapshot struct {
	// Caller's profile is in the owning project's team_members.
	CallerIsMember bool
	// Caller's profile is the task's assignee (comment create).
	CallerIsAssignee bool
	// Caller authored the comment.
	CallerIsAuthor bool
	// The notification belongs to the caller's account.
	CallerIsOwner bool
}

type Decision struct {
	Allow  bool
	Reason string
	// Hide makes a denial surface as 404 instead of 403, so the caller
	// cannot confirm the record exists.
	Hide bool
}

func allow() Decision              { return Decision{Allow: true} }
func deny(reason string) Decision  { return Decision{Reason: reason} }
func hide(reason string) Decision  { return Decision{Reason: reason, Hide: true} }

// Decide is the single entry point for role checks. Visibility scoping
// (which rows a caller may even see) lives in the scope package; Decide
// gates operations on top of that.
func Decide(p *model.Profile, res Resource, op Operation, snap Snapshot) Decision {
	if p == nil || !p.Role.Valid() {
		return deny("no valid profile")
	}
	isManager := p.Role == model.RoleManager

	switch res {
	case ResourceProject, ResourceTask:
		switch op {
		case OpRetrieve:
			return allow()
		case OpList, OpCreate, OpUpdate, OpDelete:
			if isManager {
				return allow()
			}
			return deny("manager role required")
		}

	case ResourceDocument:
		switch op {
		case OpRetrieve:
			return allow()
		case OpList:
			if isManager {
				return allow()
			}
			return deny("manager role required")
		case OpCreate, OpUpdate:
			// Managers are exempt from the membership check.
			if isManager || snap.CallerIsMember {
				return allow()
			}
			return deny("not a member of this project")
		case OpDelete:
			// Role precedence: a manager who is also a team member may
			// still delete.
			if isManager {
				return allow()
			}
			return deny("manager role required")
		}

	case ResourceComment:
		switch op {
		case OpList, OpRetrieve:
			return allow()
		case OpCreate:
			if isManager || snap.CallerIsAssignee {
				return allow()
			}
			return deny("only the task assignee or a manager may comment")
		case OpUpdate, OpDelete:
			// Ownership violations on comments are revealed, not hidden.
			if snap.CallerIsAuthor {
				return allow()
			}
			return deny("only the author may modify a comment")
		}

	case ResourceTimeline:
		switch op {
		case OpList:
			if isManager {
				return allow()
			}
			return deny("manager role required")
		case OpCreate, OpRetrieve, OpUpdate, OpDelete:
			return deny("timelines are read-only")
		}

	case ResourceNotification:
		switch op {
		case OpList, OpRetrieve:
			return allow()
		case OpUpdate:
			// Touching another account's notification must not confirm
			// its existence.
			if snap.CallerIsOwner {
				return allow()
			}
			return hide("not the owning account")
		case OpCreate, OpDelete:
			return deny("notifications are system generated")
		}
	}

	return deny("unknown resource or operation")
}

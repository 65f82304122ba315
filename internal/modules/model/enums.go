package model

// Role is the closed set of profile roles. Policy decisions switch on it
// exhaustively; raw string comparison is never used outside this package.
type Role string

const (
	RoleManager   Role = "manager"
	RoleQA        Role = "qa"
	RoleDeveloper Role = "developer"
)

func (r Role) Valid() bool {
	switch r {
	case RoleManager, RoleQA, RoleDeveloper:
		return true
	}
	return false
}

// TaskStatus is the closed set of task workflow states.
type TaskStatus string

const (
	StatusOpen            TaskStatus = "open"
	StatusReview          TaskStatus = "review"
	StatusWorking         TaskStatus = "working"
	StatusAwaitingRelease TaskStatus = "awaiting_release"
	StatusWaitingQA       TaskStatus = "waiting_qa"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusReview, StatusWorking, StatusAwaitingRelease, StatusWaitingQA:
		return true
	}
	return false
}

// Package scope builds the per-caller visible subset of each resource
// collection. Scopes are applied to the query before any filtering or
// pagination; a retrieve that falls outside the scoped set reads as absent.
package scope

import (
	"github.com/taskdeck-io/taskdeck/internal/modules/model"
	"gorm.io/gorm"
)

// Func narrows a query to the rows visible to one caller.
type Func func(db *gorm.DB) *gorm.DB

func all() Func {
	return func(db *gorm.DB) *gorm.DB { return db }
}

func none() Func {
	return func(db *gorm.DB) *gorm.DB { return db.Where("1 = 0") }
}

// Unrestricted skips visibility scoping. Used only to load a record whose
// facts feed a policy decision that must answer 403 rather than 404.
func Unrestricted() Func { return all() }

func isManager(caller *model.Account) bool {
	return caller.Profile != nil && caller.Profile.Role == model.RoleManager
}

// Projects: managers see all; others see projects their profile belongs to.
func Projects(caller *model.Account) Func {
	if isManager(caller) {
		return all()
	}
	if caller.Profile == nil {
		return none()
	}
	profileID := caller.Profile.ID
	return func(db *gorm.DB) *gorm.DB {
		return db.
			Joins("JOIN project_members pm ON pm.project_id = projects.id").
			Where("pm.profile_id = ?", profileID)
	}
}

// Tasks: managers see all; others see only tasks assigned to them.
func Tasks(caller *model.Account) Func {
	if isManager(caller) {
		return all()
	}
	if caller.Profile == nil {
		return none()
	}
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tasks.assignee_id = ?", caller.Profile.ID)
	}
}

// Documents: managers see all; others see documents of projects that contain
// a task assigned to them.
func Documents(caller *model.Account) Func {
	if isManager(caller) {
		return all()
	}
	if caller.Profile == nil {
		return none()
	}
	profileID := caller.Profile.ID
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"documents.project_id IN (SELECT project_id FROM tasks WHERE assignee_id = ?)",
			profileID,
		)
	}
}

// Comments: managers see all; others see only comments they authored.
func Comments(caller *model.Account) Func {
	if isManager(caller) {
		return all()
	}
	accountID := caller.ID
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("comments.author_id = ?", accountID)
	}
}

// Timelines: manager-only; everyone else sees nothing.
func Timelines(caller *model.Account) Func {
	if isManager(caller) {
		return all()
	}
	return none()
}

// Notifications are always scoped to the caller's own account, managers
// included.
func Notifications(caller *model.Account) Func {
	accountID := caller.ID
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("notifications.account_id = ?", accountID)
	}
}

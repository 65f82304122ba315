package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taskdeck-io/taskdeck/internal/modules/model"
)

func profileWith(role model.Role) *model.Profile {
	return &model.Profile{Role: role}
}

func TestDecide(t *testing.T) {
	manager := profileWith(model.RoleManager)
	developer := profileWith(model.RoleDeveloper)
	qa := profileWith(model.RoleQA)

	tests := []struct {
		name        string
		profile     *model.Profile
		res         Resource
		op          Operation
		snap        Snapshot
		expectAllow bool
		expectHide  bool
	}{
		{"manager creates project", manager, ResourceProject, OpCreate, Snapshot{}, true, false},
		{"developer cannot create project", developer, ResourceProject, OpCreate, Snapshot{}, false, false},
		{"qa cannot delete project", qa, ResourceProject, OpDelete, Snapshot{}, false, false},
		{"anyone retrieves a project", developer, ResourceProject, OpRetrieve, Snapshot{}, true, false},
		{"developer cannot list projects", developer, ResourceProject, OpList, Snapshot{}, false, false},

		{"manager updates task", manager, ResourceTask, OpUpdate, Snapshot{}, true, false},
		{"developer cannot update task", developer, ResourceTask, OpUpdate, Snapshot{}, false, false},
		{"qa retrieves a task", qa, ResourceTask, OpRetrieve, Snapshot{}, true, false},

		{"member creates document", developer, ResourceDocument, OpCreate, Snapshot{CallerIsMember: true}, true, false},
		{"non-member cannot create document", developer, ResourceDocument, OpCreate, Snapshot{}, false, false},
		{"manager exempt from membership", manager, ResourceDocument, OpCreate, Snapshot{}, true, false},
		{"member cannot delete document", developer, ResourceDocument, OpDelete, Snapshot{CallerIsMember: true}, false, false},
		{"manager who is also a member deletes document", manager, ResourceDocument, OpDelete, Snapshot{CallerIsMember: true}, true, false},

		{"assignee creates comment", developer, ResourceComment, OpCreate, Snapshot{CallerIsAssignee: true}, true, false},
		{"manager creates comment on any task", manager, ResourceComment, OpCreate, Snapshot{}, true, false},
		{"bystander cannot create comment", qa, ResourceComment, OpCreate, Snapshot{}, false, false},
		{"author updates own comment", developer, ResourceComment, OpUpdate, Snapshot{CallerIsAuthor: true}, true, false},
		{"manager cannot update another author's comment", manager, ResourceComment, OpUpdate, Snapshot{}, false, false},
		{"non-author denial is revealed", developer, ResourceComment, OpDelete, Snapshot{}, false, false},

		{"manager lists timelines", manager, ResourceTimeline, OpList, Snapshot{}, true, false},
		{"qa cannot list timelines", qa, ResourceTimeline, OpList, Snapshot{}, false, false},
		{"timelines are immutable even for managers", manager, ResourceTimeline, OpUpdate, Snapshot{}, false, false},

		{"owner marks notification read", developer, ResourceNotification, OpUpdate, Snapshot{CallerIsOwner: true}, true, false},
		{"foreign notification denial hides existence", developer, ResourceNotification, OpUpdate, Snapshot{}, false, true},
		{"notifications cannot be created by hand", manager, ResourceNotification, OpCreate, Snapshot{}, false, false},

		{"nil profile denied", nil, ResourceProject, OpRetrieve, Snapshot{}, false, false},
		{"invalid role denied", profileWith("intern"), ResourceProject, OpRetrieve, Snapshot{}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.profile, tt.res, tt.op, tt.snap)
			assert.Equal(t, tt.expectAllow, d.Allow)
			assert.Equal(t, tt.expectHide, d.Hide)
			if !d.Allow {
				assert.NotEmpty(t, d.Reason)
			}
		})
	}
}

package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/taskdeck-io/taskdeck/internal/modules/model"
	"github.com/taskdeck-io/taskdeck/internal/pkg/apperr"
)

func TestTaskService_Create(t *testing.T) {
	manager := accountWithRole(model.RoleManager)
	developer := accountWithRole(model.RoleDeveloper)
	projectID := uuid.New()
	memberID := uuid.New()
	outsiderID := uuid.New()

	project := &model.Project{
		ID:          projectID,
		Title:       "release train",
		TeamMembers: []model.Profile{{ID: memberID}},
	}

	tests := []struct {
		name        string
		caller      *model.Account
		input       CreateTaskInput
		setup       func(*MockTaskRepo, *MockProjectRepo)
		expectError bool
		expectKind  apperr.Kind
	}{
		{
			name:   "successful creation defaults to open",
			caller: manager,
			input:  CreateTaskInput{Title: "ship it", ProjectID: projectID},
			setup: func(tasks *MockTaskRepo, projects *MockProjectRepo) {
				projects.On("Get", mock.Anything, projectID, mock.Anything).Return(project, nil)
				tasks.On("Create", mock.Anything, mock.MatchedBy(func(task *model.Task) bool {
					return task.Status == model.StatusOpen && task.ProjectID == projectID
				})).Return(nil)
			},
		},
		{
			name:   "assignee must be a team member",
			caller: manager,
			input: CreateTaskInput{
				Title:      "ship it",
				ProjectID:  projectID,
				AssigneeID: &outsiderID,
			},
			setup: func(tasks *MockTaskRepo, projects *MockProjectRepo) {
				projects.On("Get", mock.Anything, projectID, mock.Anything).Return(project, nil)
			},
			expectError: true,
			expectKind:  apperr.KindValidation,
		},
		{
			name:   "team member assignee is accepted",
			caller: manager,
			input: CreateTaskInput{
				Title:      "ship it",
				ProjectID:  projectID,
				AssigneeID: &memberID,
			},
			setup: func(tasks *MockTaskRepo, projects *MockProjectRepo) {
				projects.On("Get", mock.Anything, projectID, mock.Anything).Return(project, nil)
				tasks.On("Create", mock.Anything, mock.MatchedBy(func(task *model.Task) bool {
					return task.AssigneeID != nil && *task.AssigneeID == memberID
				})).Return(nil)
			},
		},
		{
			name:        "developer cannot create",
			caller:      developer,
			input:       CreateTaskInput{Title: "ship it", ProjectID: projectID},
			setup:       func(*MockTaskRepo, *MockProjectRepo) {},
			expectError: true,
			expectKind:  apperr.KindForbidden,
		},
		{
			name:        "invalid status choice",
			caller:      manager,
			input:       CreateTaskInput{Title: "ship it", Status: "parked", ProjectID: projectID},
			setup:       func(*MockTaskRepo, *MockProjectRepo) {},
			expectError: true,
			expectKind:  apperr.KindValidation,
		},
		{
			name:   "unknown project",
			caller: manager,
			input:  CreateTaskInput{Title: "ship it", ProjectID: projectID},
			setup: func(tasks *MockTaskRepo, projects *MockProjectRepo) {
				projects.On("Get", mock.Anything, projectID, mock.Anything).
					Return(nil, gorm.ErrRecordNotFound)
			},
			expectError: true,
			expectKind:  apperr.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := &MockTaskRepo{}
			projects := &MockProjectRepo{}
			tt.setup(tasks, projects)

			svc := NewTaskService(tasks, projects)
			task, err := svc.Create(context.Background(), tt.caller, tt.input)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, task)
				assert.True(t, apperr.IsKind(err, tt.expectKind))
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, task)
			}
			tasks.AssertExpectations(t)
			projects.AssertExpectations(t)
		})
	}
}

func TestTaskService_Update(t *testing.T) {
	manager := accountWithRole(model.RoleManager)
	taskID := uuid.New()
	projectID := uuid.New()
	existing := &model.Task{ID: taskID, Title: "ship it", ProjectID: projectID, Status: model.StatusOpen}

	t.Run("clear assignee wins over assignee id", func(t *testing.T) {
		tasks := &MockTaskRepo{}
		projects := &MockProjectRepo{}
		tasks.On("Get", mock.Anything, taskID, mock.Anything).Return(existing, nil)
		tasks.On("Update", mock.Anything, taskID, mock.MatchedBy(func(fields map[string]interface{}) bool {
			v, ok := fields["assignee_id"]
			return ok && v == nil
		})).Return(nil)

		someone := uuid.New()
		svc := NewTaskService(tasks, projects)
		_, err := svc.Update(context.Background(), manager, taskID, UpdateTaskInput{
			AssigneeID:    &someone,
			ClearAssignee: true,
		})
		assert.NoError(t, err)
		tasks.AssertExpectations(t)
	})

	t.Run("status transition", func(t *testing.T) {
		tasks := &MockTaskRepo{}
		tasks.On("Get", mock.Anything, taskID, mock.Anything).Return(existing, nil)
		tasks.On("Update", mock.Anything, taskID, mock.MatchedBy(func(fields map[string]interface{}) bool {
			return fields["status"] == model.StatusWorking
		})).Return(nil)

		status := model.StatusWorking
		svc := NewTaskService(tasks, &MockProjectRepo{})
		_, err := svc.Update(context.Background(), manager, taskID, UpdateTaskInput{Status: &status})
		assert.NoError(t, err)
		tasks.AssertExpectations(t)
	})

	t.Run("invalid status is rejected before storage", func(t *testing.T) {
		tasks := &MockTaskRepo{}
		tasks.On("Get", mock.Anything, taskID, mock.Anything).Return(existing, nil)

		status := model.TaskStatus("parked")
		svc := NewTaskService(tasks, &MockProjectRepo{})
		_, err := svc.Update(context.Background(), manager, taskID, UpdateTaskInput{Status: &status})
		assert.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("out of scope task reads as absent", func(t *testing.T) {
		tasks := &MockTaskRepo{}
		tasks.On("Get", mock.Anything, taskID, mock.Anything).Return(nil, gorm.ErrRecordNotFound)

		title := "renamed"
		svc := NewTaskService(tasks, &MockProjectRepo{})
		_, err := svc.Update(context.Background(), manager, taskID, UpdateTaskInput{Title: &title})
		assert.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

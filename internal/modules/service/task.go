package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck-io/taskdeck/internal/modules/model"
	"github.com/taskdeck-io/taskdeck/internal/modules/policy"
	"github.com/taskdeck-io/taskdeck/internal/modules/repo"
	"github.com/taskdeck-io/taskdeck/internal/modules/scope"
	"github.com/taskdeck-io/taskdeck/internal/pkg/apperr"
)

type CreateTaskInput struct {
	Title       string
	Description string
	Status      model.TaskStatus
	ProjectID   uuid.UUID
	AssigneeID  *uuid.UUID
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *model.TaskStatus
	AssigneeID  *uuid.UUID
	// ClearAssignee unsets the assignee; it wins over AssigneeID.
	ClearAssignee bool
}

type ListTasksInput struct {
	ListInput
	Caller *model.Account
}

type ListTasksOutput struct {
	Items      []model.Task `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
	HasMore    bool         `json:"has_more"`
}

type TaskService interface {
	List(ctx context.Context, in ListTasksInput) (*ListTasksOutput, error)
	Create(ctx context.Context, caller *model.Account, in CreateTaskInput) (*model.Task, error)
	Retrieve(ctx context.Context, caller *model.Account, id uuid.UUID) (*model.Task, error)
	Update(ctx context.Context, caller *model.Account, id uuid.UUID, in UpdateTaskInput) (*model.Task, error)
	Delete(ctx context.Context, caller *model.Account, id uuid.UUID) error
}

type taskService struct {
	tasks    repo.TaskRepo
	projects repo.ProjectRepo
}

func NewTaskService(tasks repo.TaskRepo, projects repo.ProjectRepo) TaskService {
	return &taskService{tasks: tasks, projects: projects}
}

func (s *taskService) List(ctx context.Context, in ListTasksInput) (*ListTasksOutput, error) {
	if d := policy.Decide(in.Caller.Profile, policy.ResourceTask, policy.OpList, policy.Snapshot{}); !d.Allow {
		return nil, apperr.Forbidden(d.Reason)
	}
	afterT, afterID, err := in.decodeCursor()
	if err != nil {
		return nil, err
	}

	items, err := s.tasks.ListWithCursor(ctx, scope.Tasks(in.Caller), afterT, afterID, in.Limit+1, in.TimeDesc)
	if err != nil {
		return nil, apperr.Internal("storage error", err)
	}

	out := &ListTasksOutput{}
	out.Items, out.NextCursor, out.HasMore = page(items, in.Limit,
		func(t model.Task) time.Time { return t.CreatedAt },
		func(t model.Task) uuid.UUID { return t.ID })
	return out, nil
}

func (s *taskService) Create(ctx context.Context, caller *model.Account, in CreateTaskInput) (*model.Task, error) {
	if d := policy.Decide(caller.Profile, policy.ResourceTask, policy.OpCreate, policy.Snapshot{}); !d.Allow {
		return nil, apperr.Forbidden(d.Reason)
	}
	if in.Title == "" {
		return nil, apperr.ValidationField("title", "title is required")
	}
	status := in.Status
	if status == "" {
		status = model.StatusOpen
	}
	if !status.Valid() {
		return nil, apperr.ValidationField("status", "invalid status choice")
	}

	project, err := s.projects.Get(ctx, in.ProjectID, scope.Projects(caller))
	if err != nil {
		return nil, apperr.ValidationField("project", "the project does not exist")
	}
	if err := validateAssignee(project, in.AssigneeID); err != nil {
		return nil, err
	}

	task := &model.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		ProjectID:   project.ID,
		AssigneeID:  in.AssigneeID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, storeErr(err, "task")
	}
	return task, nil
}

func (s *taskService) Retrieve(ctx context.Context, caller *model.Account, id uuid.UUID) (*model.Task, error) {
	if d := policy.Decide(caller.Profile, policy.ResourceTask, policy.OpRetrieve, policy.Snapshot{}); !d.Allow {
		return nil, apperr.Forbidden(d.Reason)
	}
	task, err := s.tasks.Get(ctx, id, scope.Tasks(caller))
	if err != nil {
		return nil, storeErr(err, "task not found")
	}
	return task, nil
}

func (s *taskService) Update(ctx context.Context, caller *model.Account, id uuid.UUID, in UpdateTaskInput) (*model.Task, error) {
	if d := policy.Decide(caller.Profile, policy.ResourceTask, policy.OpUpdate, policy.Snapshot{}); !d.Allow {
		return nil, apperr.Forbidden(d.Reason)
	}
	existing, err := s.tasks.Get(ctx, id, scope.Tasks(caller))
	if err != nil {
		return nil, storeErr(err, "task not found")
	}

	fields := map[string]interface{}{}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, apperr.ValidationField("title", "title is required")
		}
		fields["title"] = *in.Title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, apperr.ValidationField("status", "invalid status choice")
		}
		fields["status"] = *in.Status
	}
	switch {
	case in.ClearAssignee:
		fields["assignee_id"] = nil
	case in.AssigneeID != nil:
		project, err := s.projects.Get(ctx, existing.ProjectID, scope.Projects(caller))
		if err != nil {
			return nil, apperr.Internal("storage error", err)
		}
		if err := validateAssignee(project, in.AssigneeID); err != nil {
			return nil, err
		}
		fields["assignee_id"] = *in.AssigneeID
	}

	if len(fields) > 0 {
		if err := s.tasks.Update(ctx, id, fields); err != nil {
			return nil, storeErr(err, "task not found")
		}
	}
	task, err := s.tasks.Get(ctx, id, scope.Tasks(caller))
	if err != nil {
		return nil, storeErr(err, "task not found")
	}
	return task, nil
}

func (s *taskService) Delete(ctx context.Context, caller *model.Account, id uuid.UUID) error {
	if d := policy.Decide(caller.Profile, policy.ResourceTask, policy.OpDelete, policy.Snapshot{}); !d.Allow {
		return apperr.Forbidden(d.Reason)
	}
	task, err := s.tasks.Get(ctx, id, scope.Tasks(caller))
	if err != nil {
		return storeErr(err, "task not found")
	}
	if err := s.tasks.Delete(ctx, task); err != nil {
		return apperr.Internal("delete task", err)
	}
	return nil
}

// validateAssignee enforces assignee ∈ project.team_members.
func validateAssignee(project *model.Project, assigneeID *uuid.UUID) error {
	if assigneeID == nil {
		return nil
	}
	for _, m := range project.TeamMembers {
		if m.ID == *assigneeID {
			return nil
		}
	}
	return apperr.ValidationField("assignee", "the assignee is not a member of the project")
}

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

type CreateCommentInput struct {
	Text      string
	TaskID    uuid.UUID
	ProjectID uuid.UUID
	// AuthorID is optional in the payload; when present it must equal the
	// caller's account id.
	AuthorID *uuid.UUID
}

type UpdateCommentInput struct {
	Text *string
	// AuthorID and CreatedAt are immutable; a payload carrying a different
	// value is rejected.
	AuthorID  *uuid.UUID
	CreatedAt *time.Time
}

type ListCommentsInput struct {
	ListInput
	Caller *model.Account
}

type ListCommentsOutput struct {
	Items      []model.Comment `json:"items"`
	NextCursor string          `json:"next_cursor,omitempty"`
	HasMore    bool            `json:"has_more"`
}

type CommentService interface {
	List(ctx context.Context, in ListCommentsInput) (*ListCommentsOutput, error)
	Create(ctx context.Context, caller *model.Account, in CreateCommentInput) (*model.Comment, error)
	Retrieve(ctx context.Context, caller *model.Account, id uuid.UUID) (*model.Comment, error)
	Update(ctx context.Context, caller *model.Account, id uuid.UUID, in UpdateCommentInput) (*model.Comment, error)
	Delete(ctx context.Context, caller *model.Account, id uuid.UUID) error
}

type commentService struct {
	comments repo.CommentRepo
	tasks    repo.TaskRepo
}

func NewCommentService(comments repo.CommentRepo, tasks repo.TaskRepo) CommentService {
	return &commentService{comments: comments, tasks: tasks}
}

func (s *commentService) List(ctx context.Context, in ListCommentsInput) (*ListCommentsOutput, error) {
	if d := policy.Decide(in.Caller.Profile, policy.ResourceComment, policy.OpList, policy.Snapshot{}); !d.Allow {
		return nil, apperr.Forbidden(d.Reason)
	}
	afterT, afterID, err := in.decodeCursor()
	if err != nil {
		return nil, err
	}

	items, err := s.comments.ListWithCursor(ctx, scope.Comments(in.Caller), afterT, afterID, in.Limit+1, in.TimeDesc)
	if err != nil {
		return nil, apperr.Internal("storage error", err)
	}

	out := &ListCommentsOutput{}
	out.Items, out.NextCursor, out.HasMore = page(items, in.Limit,
		func(c model.Comment) time.Time { return c.CreatedAt },
		func(c model.Comment) uuid.UUID { return c.ID })
	return out, nil
}

func (s *commentService) Create(ctx context.Context, caller *model.Account, in CreateCommentInput) (*model.Comment, error) {
	if in.Text == "" {
		return nil, apperr.ValidationField("text", "text is required")
	}
	if in.AuthorID != nil && *in.AuthorID != caller.ID {
		return nil, apperr.ValidationField("author", "you cannot set a different author for the comment")
	}

	task, err := s.tasks.Get(ctx, in.TaskID, scope.Unrestricted())
	if err != nil {
		return nil, apperr.ValidationField("task", "the task does not exist")
	}
	if in.ProjectID != uuid.Nil && in.ProjectID != task.ProjectID {
		return nil, apperr.ValidationField("task", "the task does not belong to the specified project")
	}

	snap := policy.Snapshot{CallerIsAssignee: isAssignee(task, caller)}
	if d := policy.Decide(caller.Profile, policy.ResourceComment, policy.OpCreate, snap); !d.Allow {
		return nil, apperr.Forbidden(d.Reason)
	}

	comment := &model.Comment{
		Text:      in.Text,
		AuthorID:  caller.ID,
		TaskID:    task.ID,
		ProjectID: task.ProjectID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, storeErr(err, "comment")
	}
	return comment, nil
}

func (s *commentService) Retrieve(ctx context.Context, caller *model.Account, id uuid.UUID) (*model.Comment, error) {
	comment, err := s.comments.Get(ctx, id, scope.Comments(caller))
	if err != nil {
		return nil, storeErr(err, "comment not found")
	}
	return comment, nil
}

func (s *commentService) Update(ctx context.Context, caller *model.Account, id uuid.UUID, in UpdateCommentInput) (*model.Comment, error) {
	// Loaded without scoping: a non-author gets 403, not 404.
	existing, err := s.comments.GetAny(ctx, id)
	if err != nil {
		return nil, storeErr(err, "comment not found")
	}

	snap := policy.Snapshot{CallerIsAuthor: existing.AuthorID == caller.ID}
	if d := policy.Decide(caller.Profile, policy.ResourceComment, policy.OpUpdate, snap); !d.Allow {
		return nil, apperr.Forbidden(d.Reason)
	}

	if in.AuthorID != nil && *in.AuthorID != existing.AuthorID {
		return nil, apperr.ValidationField("author", "you cannot change the author of the comment")
	}
	if in.CreatedAt != nil && !in.CreatedAt.Equal(existing.CreatedAt) {
		return nil, apperr.ValidationField("created_at", "created_at is immutable")
	}

	if in.Text != nil {
		if *in.Text == "" {
			return nil, apperr.ValidationField("text", "text is required")
		}
		if err := s.comments.Update(ctx, id, map[string]interface{}{"text": *in.Text}); err != nil {
			return nil, storeErr(err, "comment not found")
		}
	}

	comment, err := s.comments.GetAny(ctx, id)
	if err != nil {
		return nil, storeErr(err, "comment not found")
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, caller *model.Account, id uuid.UUID) error {
	existing, err := s.comments.GetAny(ctx, id)
	if err != nil {
		return storeErr(err, "comment not found")
	}

	snap := policy.Snapshot{CallerIsAuthor: existing.AuthorID == caller.ID}
	if d := policy.Decide(caller.Profile, policy.ResourceComment, policy.OpDelete, snap); !d.Allow {
		return apperr.Forbidden(d.Reason)
	}
	if err := s.comments.Delete(ctx, existing); err != nil {
		return apperr.Internal("delete comment", err)
	}
	return nil
}

func isAssignee(task *model.Task, caller *model.Account) bool {
	return caller.Profile != nil && task.AssigneeID != nil && *task.AssigneeID == caller.Profile.ID
}

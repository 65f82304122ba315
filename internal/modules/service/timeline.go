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

type ListTimelinesInput struct {
	ListInput
	Caller *model.Account
}

type ListTimelinesOutput struct {
	Items      []model.Timeline `json:"items"`
	NextCursor string           `json:"next_cursor,omitempty"`
	HasMore    bool             `json:"has_more"`
}

// TimelineService is read-only; timelines are derived entities created by
// the event pipeline.
type TimelineService interface {
	List(ctx context.Context, in ListTimelinesInput) (*ListTimelinesOutput, error)
}

type timelineService struct {
	timelines repo.TimelineRepo
}

func NewTimelineService(timelines repo.TimelineRepo) TimelineService {
	return &timelineService{timelines: timelines}
}

func (s *timelineService) List(ctx context.Context, in ListTimelinesInput) (*ListTimelinesOutput, error) {
	if d := policy.Decide(in.Caller.Profile, policy.ResourceTimeline, policy.OpList, policy.Snapshot{}); !d.Allow {
		return nil, apperr.Forbidden(d.Reason)
	}
	afterT, afterID, err := in.decodeCursor()
	if err != nil {
		return nil, err
	}

	items, err := s.timelines.ListWithCursor(ctx, scope.Timelines(in.Caller), afterT, afterID, in.Limit+1, in.TimeDesc)
	if err != nil {
		return nil, apperr.Internal("storage error", err)
	}

	out := &ListTimelinesOutput{}
	out.Items, out.NextCursor, out.HasMore = page(items, in.Limit,
		func(t model.Timeline) time.Time { return t.CreatedAt },
		func(t model.Timeline) uuid.UUID { return t.ID })
	return out, nil
}

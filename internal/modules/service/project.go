package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck-io/taskdeck/internal/modules/event"
	"github.com/taskdeck-io/taskdeck/internal/modules/model"
	"github.com/taskdeck-io/taskdeck/internal/modules/policy"
	"github.com/taskdeck-io/taskdeck/internal/modules/repo"
	"github.com/taskdeck-io/taskdeck/internal/modules/scope"
	"github.com/taskdeck-io/taskdeck/internal/pkg/apperr"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CreateProjectInput struct {
	Title         string
	Description   string
	StartDate     time.Time
	EndDate       *time.Time
	TeamMemberIDs []uuid.UUID
}

type UpdateProjectInput struct {
	Title         *string
	Description   *string
	StartDate     *time.Time
	EndDate       *time.Time
	// ClearEndDate nulls end_date and wins over EndDate.
	ClearEndDate  bool
	TeamMemberIDs *[]uuid.UUID
}

type ListProjectsInput struct {
	ListInput
	Caller *model.Account
}

type ListProjectsOutput struct {
	Items      []model.Project `json:"items"`
	NextCursor string          `json:"next_cursor,omitempty"`
	HasMore    bool            `json:"has_more"`
}

type ProjectService interface {
	List(ctx context.Context, in ListProjectsInput) (*ListProjectsOutput, error)
	Create(ctx context.Context, caller *model.Account, in CreateProjectInput) (*model.Project, error)
	Retrieve(ctx context.Context, caller *model.Account, id uuid.UUID) (*model.Project, error)
	Update(ctx context.Context, caller *model.Account, id uuid.UUID, in UpdateProjectInput) (*model.Project, error)
	Delete(ctx context.Context, caller *model.Account, id uuid.UUID) error
}

type projectService struct {
	projects repo.ProjectRepo
	accounts repo.AccountRepo
	bus      *event.Bus
}

func NewProjectService(projects repo.ProjectRepo, accounts repo.AccountRepo, bus *event.Bus) ProjectService {
	return &projectService{projects: projects, accounts: accounts, bus: bus}
}

func (s *projectService) List(ctx context.Context, in ListProjectsInput) (*ListProjectsOutput, error) {
	if d := policy.Decide(in.Caller.Profile, policy.ResourceProject, policy.OpList, policy.Snapshot{}); !d.Allow {
		return nil, apperr.Forbidden(d.Reason)
	}
	afterT, afterID, err := in.decodeCursor()
	if err != nil {
		return nil, err
	}

	items, err := s.projects.ListWithCursor(ctx, scope.Projects(in.Caller), afterT, afterID, in.Limit+1, in.TimeDesc)
	if err != nil {
		return nil, apperr.Internal("storage error", err)
	}

	out := &ListProjectsOutput{}
	out.Items, out.NextCursor, out.HasMore = page(items, in.Limit,
		func(p model.Project) time.Time { return p.CreatedAt },
		func(p model.Project) uuid.UUID { return p.ID })
	return out, nil
}

func (s *projectService) Create(ctx context.Context, caller *model.Account, in CreateProjectInput) (*model.Project, error) {
	if d := policy.Decide(caller.Profile, policy.ResourceProject, policy.OpCreate, policy.Snapshot{}); !d.Allow {
		return nil, apperr.Forbidden(d.Reason)
	}
	if in.Title == "" {
		return nil, apperr.ValidationField("title", "title is required")
	}
	if in.StartDate.IsZero() {
		return nil, apperr.ValidationField("start_date", "start date is required")
	}
	if err := validateDates(in.StartDate, in.EndDate, true); err != nil {
		return nil, err
	}

	members, err := s.resolveMembers(ctx, in.TeamMemberIDs)
	if err != nil {
		return nil, err
	}

	project := &model.Project{
		Title:       in.Title,
		Description: in.Description,
		StartDate:   datatypes.Date(in.StartDate),
		TeamMembers: members,
	}
	if in.EndDate != nil {
		end := datatypes.Date(*in.EndDate)
		project.EndDate = &end
	}

	// The timeline handler runs inside the transaction: project and
	// timeline commit together or not at all.
	err = s.projects.CreateInTx(ctx, project, func(tx *gorm.DB) error {
		return s.bus.Dispatch(ctx, tx, event.ProjectCreated{Project: project})
	})
	if err != nil {
		return nil, storeErr(err, "project")
	}

	s.bus.Announce(ctx, event.ProjectCreated{Project: project})
	if len(in.TeamMemberIDs) > 0 {
		s.bus.Announce(ctx, event.MembersAdded{Project: project, ProfileIDs: in.TeamMemberIDs})
	}
	return project, nil
}

func (s *projectService) Retrieve(ctx context.Context, caller *model.Account, id uuid.UUID) (*model.Project, error) {
	if d := policy.Decide(caller.Profile, policy.ResourceProject, policy.OpRetrieve, policy.Snapshot{}); !d.Allow {
		return nil, apperr.Forbidden(d.Reason)
	}
	// Outside the caller's scoped set the project reads as absent.
	project, err := s.projects.Get(ctx, id, scope.Projects(caller))
	if err != nil {
		return nil, storeErr(err, "project not found")
	}
	return project, nil
}

func (s *projectService) Update(ctx context.Context, caller *model.Account, id uuid.UUID, in UpdateProjectInput) (*model.Project, error) {
	if d := policy.Decide(caller.Profile, policy.ResourceProject, policy.OpUpdate, policy.Snapshot{}); !d.Allow {
		return nil, apperr.Forbidden(d.Reason)
	}
	existing, err := s.projects.Get(ctx, id, scope.Projects(caller))
	if err != nil {
		return nil, storeErr(err, "project not found")
	}

	// Partial merge: validate the record as it would look after the update.
	start := time.Time(existing.StartDate)
	if in.StartDate != nil {
		start = *in.StartDate
	}
	var end *time.Time
	if existing.EndDate != nil {
		t := time.Time(*existing.EndDate)
		end = &t
	}
	if in.EndDate != nil {
		end = in.EndDate
	}
	if in.ClearEndDate {
		end = nil
	}
	if err := validateDates(start, end, false); err != nil {
		return nil, err
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
	if in.StartDate != nil {
		fields["start_date"] = datatypes.Date(*in.StartDate)
	}
	if in.ClearEndDate {
		fields["end_date"] = nil
	} else if in.EndDate != nil {
		fields["end_date"] = datatypes.Date(*in.EndDate)
	}
	if len(fields) > 0 {
		if err := s.projects.Update(ctx, id, fields); err != nil {
			return nil, storeErr(err, "project not found")
		}
	}

	var added []uuid.UUID
	if in.TeamMemberIDs != nil {
		members, err := s.resolveMembers(ctx, *in.TeamMemberIDs)
		if err != nil {
			return nil, err
		}
		added = newMemberIDs(existing.TeamMembers, *in.TeamMemberIDs)
		if err := s.projects.ReplaceMembers(ctx, existing, members); err != nil {
			return nil, apperr.Internal("replace team members", err)
		}
	}

	project, err := s.projects.Get(ctx, id, scope.Projects(caller))
	if err != nil {
		return nil, storeErr(err, "project not found")
	}

	// Only additions fan out; removals are silent.
	if len(added) > 0 {
		s.bus.Announce(ctx, event.MembersAdded{Project: project, ProfileIDs: added})
	}
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, caller *model.Account, id uuid.UUID) error {
	if d := policy.Decide(caller.Profile, policy.ResourceProject, policy.OpDelete, policy.Snapshot{}); !d.Allow {
		return apperr.Forbidden(d.Reason)
	}
	project, err := s.projects.Get(ctx, id, scope.Projects(caller))
	if err != nil {
		return storeErr(err, "project not found")
	}
	if err := s.projects.Delete(ctx, project); err != nil {
		return apperr.Internal("delete project", err)
	}
	return nil
}

// resolveMembers loads the given profiles and fails validation when any id
// does not exist.
func (s *projectService) resolveMembers(ctx context.Context, ids []uuid.UUID) ([]model.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	profiles, err := s.accounts.GetProfiles(ctx, ids)
	if err != nil {
		return nil, apperr.Internal("storage error", err)
	}
	if len(profiles) != len(ids) {
		return nil, apperr.ValidationField("team_members", "one or more profiles do not exist")
	}
	return profiles, nil
}

// newMemberIDs returns the requested ids that are not already on the team.
func newMemberIDs(current []model.Profile, requested []uuid.UUID) []uuid.UUID {
	existing := make(map[uuid.UUID]bool, len(current))
	for _, p := range current {
		existing[p.ID] = true
	}
	var added []uuid.UUID
	for _, id := range requested {
		if !existing[id] {
			added = append(added, id)
		}
	}
	return added
}

// validateDates enforces start<=end; at creation the start date must also
// not lie in the past.
func validateDates(start time.Time, end *time.Time, creating bool) error {
	startDay := truncateDay(start)
	if creating {
		today := truncateDay(time.Now())
		if startDay.Before(today) {
			return apperr.ValidationField("start_date", "start date must not be in the past")
		}
	}
	if end != nil && truncateDay(*end).Before(startDay) {
		return apperr.ValidationField("end_date", "end date must not be before start date")
	}
	return nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/taskdeck-io/taskdeck/internal/modules/model"
	"github.com/taskdeck-io/taskdeck/internal/modules/scope"
	"github.com/taskdeck-io/taskdeck/internal/pkg/apperr"
)

// MockDocumentRepo is a mock implementation of repo.DocumentRepo
type MockDocumentRepo struct {
	mock.Mock
}

func (m *MockDocumentRepo) Create(ctx context.Context, d *model.Document) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDocumentRepo) Get(ctx context.Context, id uuid.UUID, sc scope.Func) (*model.Document, error) {
	args := m.Called(ctx, id, sc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepo) ListWithCursor(ctx context.Context, sc scope.Func, afterCreatedAt time.Time, afterID uuid.UUID, limit int, timeDesc bool) ([]model.Document, error) {
	args := m.Called(ctx, sc, afterCreatedAt, afterID, limit, timeDesc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentRepo) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *MockDocumentRepo) Delete(ctx context.Context, d *model.Document) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockDocumentRepo) NameExists(ctx context.Context, projectID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, projectID, name, excludeID)
	return args.Bool(0), args.Error(1)
}

func newTestDocumentService(documents *MockDocumentRepo, projects *MockProjectRepo) DocumentService {
	return NewDocumentService(documents, projects, nil, func() time.Duration { return 15 * time.Minute }, zap.NewNop())
}

func TestDocumentService_Create(t *testing.T) {
	manager := accountWithRole(model.RoleManager)
	member := accountWithRole(model.RoleDeveloper)
	outsider := accountWithRole(model.RoleQA)

	projectID := uuid.New()
	project := &model.Project{
		ID:          projectID,
		Title:       "release train",
		TeamMembers: []model.Profile{{ID: member.Profile.ID}},
	}

	tests := []struct {
		name        string
		caller      *model.Account
		input       CreateDocumentInput
		setup       func(*MockDocumentRepo, *MockProjectRepo)
		expectError bool
		expectKind  apperr.Kind
	}{
		{
			name:   "team member creates a document",
			caller: member,
			input:  CreateDocumentInput{Name: "runbook", ProjectID: projectID},
			setup: func(documents *MockDocumentRepo, projects *MockProjectRepo) {
				projects.On("Get", mock.Anything, projectID, mock.Anything).Return(project, nil)
				documents.On("NameExists", mock.Anything, projectID, "runbook", uuid.Nil).Return(false, nil)
				documents.On("Create", mock.Anything, mock.MatchedBy(func(d *model.Document) bool {
					return d.Name == "runbook" && d.ProjectID == projectID && d.FileKey == ""
				})).Return(nil)
			},
		},
		{
			name:   "manager is exempt from the membership check",
			caller: manager,
			input:  CreateDocumentInput{Name: "runbook", ProjectID: projectID},
			setup: func(documents *MockDocumentRepo, projects *MockProjectRepo) {
				projects.On("Get", mock.Anything, projectID, mock.Anything).Return(project, nil)
				documents.On("NameExists", mock.Anything, projectID, "runbook", uuid.Nil).Return(false, nil)
				documents.On("Create", mock.Anything, mock.Anything).Return(nil)
			},
		},
		{
			name:   "non-member is refused",
			caller: outsider,
			input:  CreateDocumentInput{Name: "runbook", ProjectID: projectID},
			setup: func(documents *MockDocumentRepo, projects *MockProjectRepo) {
				projects.On("Get", mock.Anything, projectID, mock.Anything).Return(project, nil)
			},
			expectError: true,
			expectKind:  apperr.KindForbidden,
		},
		{
			name:   "duplicate name within the project",
			caller: member,
			input:  CreateDocumentInput{Name: "runbook", ProjectID: projectID},
			setup: func(documents *MockDocumentRepo, projects *MockProjectRepo) {
				projects.On("Get", mock.Anything, projectID, mock.Anything).Return(project, nil)
				documents.On("NameExists", mock.Anything, projectID, "runbook", uuid.Nil).Return(true, nil)
			},
			expectError: true,
			expectKind:  apperr.KindValidation,
		},
		{
			name:        "missing name",
			caller:      member,
			input:       CreateDocumentInput{ProjectID: projectID},
			setup:       func(*MockDocumentRepo, *MockProjectRepo) {},
			expectError: true,
			expectKind:  apperr.KindValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			documents := &MockDocumentRepo{}
			projects := &MockProjectRepo{}
			tt.setup(documents, projects)

			svc := newTestDocumentService(documents, projects)
			out, err := svc.Create(context.Background(), tt.caller, tt.input)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, out)
				assert.True(t, apperr.IsKind(err, tt.expectKind))
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, out)
				assert.Empty(t, out.UploadURL)
			}
			documents.AssertExpectations(t)
			projects.AssertExpectations(t)
		})
	}
}

func TestDocumentService_Delete(t *testing.T) {
	manager := accountWithRole(model.RoleManager)
	member := accountWithRole(model.RoleDeveloper)
	documentID := uuid.New()
	projectID := uuid.New()
	doc := &model.Document{ID: documentID, Name: "runbook", ProjectID: projectID}

	t.Run("manager deletes", func(t *testing.T) {
		documents := &MockDocumentRepo{}
		projects := &MockProjectRepo{}
		documents.On("Get", mock.Anything, documentID, mock.Anything).Return(doc, nil)
		documents.On("Delete", mock.Anything, doc).Return(nil)

		svc := newTestDocumentService(documents, projects)
		assert.NoError(t, svc.Delete(context.Background(), manager, documentID))
		documents.AssertExpectations(t)
	})

	t.Run("member without the manager role cannot delete", func(t *testing.T) {
		documents := &MockDocumentRepo{}
		projects := &MockProjectRepo{}
		documents.On("Get", mock.Anything, documentID, mock.Anything).Return(doc, nil)

		svc := newTestDocumentService(documents, projects)
		err := svc.Delete(context.Background(), member, documentID)
		assert.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})

	t.Run("out of scope document reads as absent", func(t *testing.T) {
		documents := &MockDocumentRepo{}
		projects := &MockProjectRepo{}
		documents.On("Get", mock.Anything, documentID, mock.Anything).
			Return(nil, gorm.ErrRecordNotFound)

		svc := newTestDocumentService(documents, projects)
		err := svc.Delete(context.Background(), member, documentID)
		assert.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindNotFound))
	})
}

func TestDocumentService_Update(t *testing.T) {
	member := accountWithRole(model.RoleDeveloper)
	outsider := accountWithRole(model.RoleQA)
	documentID := uuid.New()
	projectID := uuid.New()
	doc := &model.Document{ID: documentID, Name: "runbook", ProjectID: projectID}
	project := &model.Project{
		ID:          projectID,
		TeamMembers: []model.Profile{{ID: member.Profile.ID}},
	}

	t.Run("member renames with uniqueness pre-check", func(t *testing.T) {
		documents := &MockDocumentRepo{}
		projects := &MockProjectRepo{}
		documents.On("Get", mock.Anything, documentID, mock.Anything).Return(doc, nil)
		projects.On("Get", mock.Anything, projectID, mock.Anything).Return(project, nil)
		documents.On("NameExists", mock.Anything, projectID, "playbook", documentID).Return(false, nil)
		documents.On("Update", mock.Anything, documentID, mock.MatchedBy(func(fields map[string]interface{}) bool {
			return fields["name"] == "playbook"
		})).Return(nil)

		name := "playbook"
		svc := newTestDocumentService(documents, projects)
		_, err := svc.Update(context.Background(), member, documentID, UpdateDocumentInput{Name: &name})
		assert.NoError(t, err)
		documents.AssertExpectations(t)
	})

	t.Run("non-member is refused", func(t *testing.T) {
		documents := &MockDocumentRepo{}
		projects := &MockProjectRepo{}
		documents.On("Get", mock.Anything, documentID, mock.Anything).Return(doc, nil)
		projects.On("Get", mock.Anything, projectID, mock.Anything).Return(project, nil)

		name := "playbook"
		svc := newTestDocumentService(documents, projects)
		_, err := svc.Update(context.Background(), outsider, documentID, UpdateDocumentInput{Name: &name})
		assert.Error(t, err)
		assert.True(t, apperr.IsKind(err, apperr.KindForbidden))
	})
}

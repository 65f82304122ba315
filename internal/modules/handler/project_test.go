package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/taskdeck-io/taskdeck/internal/modules/model"
	"github.com/taskdeck-io/taskdeck/internal/modules/service"
	"github.com/taskdeck-io/taskdeck/internal/pkg/apperr"
)

// MockProjectService is a mock implementation of ProjectService
type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) List(ctx context.Context, in service.ListProjectsInput) (*service.ListProjectsOutput, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ListProjectsOutput), args.Error(1)
}

func (m *MockProjectService) Create(ctx context.Context, caller *model.Account, in service.CreateProjectInput) (*model.Project, error) {
	args := m.Called(ctx, caller, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) Retrieve(ctx context.Context, caller *model.Account, id uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, caller, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) Update(ctx context.Context, caller *model.Account, id uuid.UUID, in service.UpdateProjectInput) (*model.Project, error) {
	args := m.Called(ctx, caller, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) Delete(ctx context.Context, caller *model.Account, id uuid.UUID) error {
	args := m.Called(ctx, caller, id)
	return args.Error(0)
}

func testCaller(role model.Role) *model.Account {
	return &model.Account{
		ID:       uuid.New(),
		Username: "caller",
		Profile:  &model.Profile{ID: uuid.New(), Role: role},
	}
}

// withCaller seeds the context the way the auth middleware does.
func withCaller(caller *model.Account) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(CallerKey, caller)
		c.Next()
	}
}

func setupProjectRouter(caller *model.Account, h *ProjectHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	g := router.Group("", withCaller(caller))
	g.GET("/projects", h.ListProjects)
	g.POST("/projects", h.CreateProject)
	g.GET("/projects/:project_id", h.GetProject)
	g.PUT("/projects/:project_id", h.UpdateProject)
	g.DELETE("/projects/:project_id", h.DeleteProject)
	return router
}

func TestProjectHandler_ListProjects(t *testing.T) {
	caller := testCaller(model.RoleManager)

	tests := []struct {
		name           string
		query          string
		setup          func(*MockProjectService)
		expectedStatus int
	}{
		{
			name: "successful listing",
			setup: func(svc *MockProjectService) {
				svc.On("List", mock.Anything, mock.MatchedBy(func(in service.ListProjectsInput) bool {
					return in.Caller == caller && in.Limit == 20
				})).Return(&service.ListProjectsOutput{
					Items:   []model.Project{{ID: uuid.New(), Title: "atlas"}},
					HasMore: false,
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "limit forwarded from query",
			query: "?limit=5&time_desc=true",
			setup: func(svc *MockProjectService) {
				svc.On("List", mock.Anything, mock.MatchedBy(func(in service.ListProjectsInput) bool {
					return in.Limit == 5 && in.TimeDesc
				})).Return(&service.ListProjectsOutput{Items: []model.Project{}}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "limit over maximum rejected at binding",
			query:          "?limit=500",
			setup:          func(svc *MockProjectService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "non-manager forbidden",
			setup: func(svc *MockProjectService) {
				svc.On("List", mock.Anything, mock.Anything).
					Return(nil, apperr.Forbidden("requires the manager role"))
			},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockProjectService{}
			tt.setup(mockService)

			router := setupProjectRouter(caller, NewProjectHandler(mockService))

			req := httptest.NewRequest("GET", "/projects"+tt.query, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestProjectHandler_CreateProject(t *testing.T) {
	caller := testCaller(model.RoleManager)
	memberID := uuid.New()

	tests := []struct {
		name           string
		requestBody    CreateProjectReq
		setup          func(*MockProjectService)
		expectedStatus int
	}{
		{
			name: "successful creation",
			requestBody: CreateProjectReq{
				Title:         "atlas",
				StartDate:     "2026-09-01",
				EndDate:       strPtr("2026-12-01"),
				TeamMemberIDs: []string{memberID.String()},
			},
			setup: func(svc *MockProjectService) {
				svc.On("Create", mock.Anything, caller, mock.MatchedBy(func(in service.CreateProjectInput) bool {
					return in.Title == "atlas" &&
						in.StartDate.Format("2006-01-02") == "2026-09-01" &&
						in.EndDate != nil &&
						len(in.TeamMemberIDs) == 1 && in.TeamMemberIDs[0] == memberID
				})).Return(&model.Project{ID: uuid.New(), Title: "atlas"}, nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing title rejected at binding",
			requestBody:    CreateProjectReq{StartDate: "2026-09-01"},
			setup:          func(svc *MockProjectService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed start date",
			requestBody:    CreateProjectReq{Title: "atlas", StartDate: "01/09/2026"},
			setup:          func(svc *MockProjectService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "malformed member id",
			requestBody: CreateProjectReq{
				Title:         "atlas",
				StartDate:     "2026-09-01",
				TeamMemberIDs: []string{"not-a-uuid"},
			},
			setup:          func(svc *MockProjectService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "non-manager forbidden",
			requestBody: CreateProjectReq{Title: "atlas", StartDate: "2026-09-01"},
			setup: func(svc *MockProjectService) {
				svc.On("Create", mock.Anything, caller, mock.Anything).
					Return(nil, apperr.Forbidden("requires the manager role"))
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:        "duplicate title",
			requestBody: CreateProjectReq{Title: "atlas", StartDate: "2026-09-01"},
			setup: func(svc *MockProjectService) {
				svc.On("Create", mock.Anything, caller, mock.Anything).
					Return(nil, apperr.Conflict("project already exists"))
			},
			expectedStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockProjectService{}
			tt.setup(mockService)

			router := setupProjectRouter(caller, NewProjectHandler(mockService))

			raw, err := json.Marshal(tt.requestBody)
			assert.NoError(t, err)
			req := httptest.NewRequest("POST", "/projects", bytes.NewReader(raw))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestProjectHandler_GetProject(t *testing.T) {
	caller := testCaller(model.RoleDeveloper)
	projectID := uuid.New()

	tests := []struct {
		name           string
		path           string
		setup          func(*MockProjectService)
		expectedStatus int
	}{
		{
			name: "successful retrieval",
			path: "/projects/" + projectID.String(),
			setup: func(svc *MockProjectService) {
				svc.On("Retrieve", mock.Anything, caller, projectID).
					Return(&model.Project{ID: projectID, Title: "atlas"}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "malformed id",
			path:           "/projects/nope",
			setup:          func(svc *MockProjectService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "outside the caller's scope",
			path: "/projects/" + projectID.String(),
			setup: func(svc *MockProjectService) {
				svc.On("Retrieve", mock.Anything, caller, projectID).
					Return(nil, apperr.NotFound("project not found"))
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockProjectService{}
			tt.setup(mockService)

			router := setupProjectRouter(caller, NewProjectHandler(mockService))

			req := httptest.NewRequest("GET", tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestProjectHandler_UpdateProject(t *testing.T) {
	caller := testCaller(model.RoleManager)
	projectID := uuid.New()

	t.Run("partial update forwards only set fields", func(t *testing.T) {
		mockService := &MockProjectService{}
		mockService.On("Update", mock.Anything, caller, projectID, mock.MatchedBy(func(in service.UpdateProjectInput) bool {
			return in.Title != nil && *in.Title == "atlas v2" &&
				in.Description == nil && in.StartDate == nil && in.TeamMemberIDs == nil
		})).Return(&model.Project{ID: projectID, Title: "atlas v2"}, nil)

		router := setupProjectRouter(caller, NewProjectHandler(mockService))

		raw, err := json.Marshal(UpdateProjectReq{Title: strPtr("atlas v2")})
		assert.NoError(t, err)
		req := httptest.NewRequest("PUT", "/projects/"+projectID.String(), bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("member list replacement is forwarded", func(t *testing.T) {
		memberID := uuid.New()
		mockService := &MockProjectService{}
		mockService.On("Update", mock.Anything, caller, projectID, mock.MatchedBy(func(in service.UpdateProjectInput) bool {
			return in.TeamMemberIDs != nil && len(*in.TeamMemberIDs) == 1 && (*in.TeamMemberIDs)[0] == memberID
		})).Return(&model.Project{ID: projectID}, nil)

		router := setupProjectRouter(caller, NewProjectHandler(mockService))

		members := []string{memberID.String()}
		raw, err := json.Marshal(UpdateProjectReq{TeamMemberIDs: &members})
		assert.NoError(t, err)
		req := httptest.NewRequest("PUT", "/projects/"+projectID.String(), bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("clear end date is forwarded", func(t *testing.T) {
		mockService := &MockProjectService{}
		mockService.On("Update", mock.Anything, caller, projectID, mock.MatchedBy(func(in service.UpdateProjectInput) bool {
			return in.ClearEndDate && in.EndDate == nil
		})).Return(&model.Project{ID: projectID}, nil)

		router := setupProjectRouter(caller, NewProjectHandler(mockService))

		raw, err := json.Marshal(UpdateProjectReq{ClearEndDate: true})
		assert.NoError(t, err)
		req := httptest.NewRequest("PUT", "/projects/"+projectID.String(), bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("malformed end date", func(t *testing.T) {
		mockService := &MockProjectService{}
		router := setupProjectRouter(caller, NewProjectHandler(mockService))

		raw, err := json.Marshal(UpdateProjectReq{EndDate: strPtr("next month")})
		assert.NoError(t, err)
		req := httptest.NewRequest("PUT", "/projects/"+projectID.String(), bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestProjectHandler_DeleteProject(t *testing.T) {
	caller := testCaller(model.RoleManager)
	projectID := uuid.New()

	tests := []struct {
		name           string
		setup          func(*MockProjectService)
		expectedStatus int
	}{
		{
			name: "successful deletion",
			setup: func(svc *MockProjectService) {
				svc.On("Delete", mock.Anything, caller, projectID).Return(nil)
			},
			expectedStatus: http.StatusNoContent,
		},
		{
			name: "unknown project",
			setup: func(svc *MockProjectService) {
				svc.On("Delete", mock.Anything, caller, projectID).
					Return(apperr.NotFound("project not found"))
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &MockProjectService{}
			tt.setup(mockService)

			router := setupProjectRouter(caller, NewProjectHandler(mockService))

			req := httptest.NewRequest("DELETE", "/projects/"+projectID.String(), nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func strPtr(s string) *string { return &s }

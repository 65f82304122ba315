package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/taskdeck-io/taskdeck/internal/modules/serializer"
	"github.com/taskdeck-io/taskdeck/internal/modules/service"
)

type ProjectHandler struct {
	svc service.ProjectService
}

func NewProjectHandler(s service.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: s}
}

type CreateProjectReq struct {
	Title         string   `json:"title" binding:"required"`
	Description   string   `json:"description"`
	StartDate     string   `json:"start_date" binding:"required"`
	EndDate       *string  `json:"end_date"`
	TeamMemberIDs []string `json:"team_members"`
}

type UpdateProjectReq struct {
	Title         *string   `json:"title"`
	Description   *string   `json:"description"`
	StartDate     *string   `json:"start_date"`
	EndDate       *string   `json:"end_date"`
	ClearEndDate  bool      `json:"clear_end_date"`
	TeamMemberIDs *[]string `json:"team_members"`
}

// ListProjects godoc
//
//	@Summary		List projects
//	@Description	List projects visible to the caller (manager only)
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			limit		query	integer	false	"Page size, default 20, max 200"
//	@Param			cursor		query	string	false	"Cursor from the previous page"
//	@Param			time_desc	query	string	false	"Newest first when true"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.ListProjectsOutput}
//	@Router			/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	req := ListQuery{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	out, err := h.svc.List(c.Request.Context(), service.ListProjectsInput{
		ListInput: service.ListInput{Limit: req.Limit, Cursor: req.Cursor, TimeDesc: req.TimeDesc},
		Caller:    caller,
	})
	if err != nil {
		serializer.JSONError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// CreateProject godoc
//
//	@Summary		Create project
//	@Description	Create a project; its timeline is created in the same transaction
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.CreateProjectReq	true	"CreateProject payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Project}
//	@Router			/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	req := CreateProjectReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid start_date", err))
		return
	}
	end, err := parseDatePtr(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid end_date", err))
		return
	}
	memberIDs, err := parseUUIDs(req.TeamMemberIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid team_members", err))
		return
	}

	project, err := h.svc.Create(c.Request.Context(), caller, service.CreateProjectInput{
		Title:         req.Title,
		Description:   req.Description,
		StartDate:     start,
		EndDate:       end,
		TeamMemberIDs: memberIDs,
	})
	if err != nil {
		serializer.JSONError(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: project})
}

// GetProject godoc
//
//	@Summary		Get project
//	@Description	Retrieve one project from the caller's scoped set
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Router			/projects/{project_id} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	project, err := h.svc.Retrieve(c.Request.Context(), caller, id)
	if err != nil {
		serializer.JSONError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: project})
}

// UpdateProject godoc
//
//	@Summary		Update project
//	@Description	Partially update a project; added team members are notified
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string						true	"Project ID"	Format(uuid)
//	@Param			payload		body	handler.UpdateProjectReq	true	"UpdateProject payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Router			/projects/{project_id} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	req := UpdateProjectReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	start, err := parseDatePtr(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid start_date", err))
		return
	}
	end, err := parseDatePtr(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid end_date", err))
		return
	}

	in := service.UpdateProjectInput{
		Title:        req.Title,
		Description:  req.Description,
		StartDate:    start,
		EndDate:      end,
		ClearEndDate: req.ClearEndDate,
	}
	if req.TeamMemberIDs != nil {
		memberIDs, err := parseUUIDs(*req.TeamMemberIDs)
		if err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid team_members", err))
			return
		}
		in.TeamMemberIDs = &memberIDs
	}

	project, err := h.svc.Update(c.Request.Context(), caller, id, in)
	if err != nil {
		serializer.JSONError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: project})
}

// DeleteProject godoc
//
//	@Summary		Delete project
//	@Description	Delete a project and its tasks, documents, and timeline
//	@Tags			project
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		204	{object}	nil
//	@Router			/projects/{project_id} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("project_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), caller, id); err != nil {
		serializer.JSONError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

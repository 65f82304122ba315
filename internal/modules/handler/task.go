package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/taskdeck-io/taskdeck/internal/modules/model"
	"github.com/taskdeck-io/taskdeck/internal/modules/serializer"
	"github.com/taskdeck-io/taskdeck/internal/modules/service"
)

type TaskHandler struct {
	svc service.TaskService
}

func NewTaskHandler(s service.TaskService) *TaskHandler {
	return &TaskHandler{svc: s}
}

type CreateTaskReq struct {
	Title       string  `json:"title" binding:"required"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	ProjectID   string  `json:"project_id" binding:"required,uuid"`
	AssigneeID  *string `json:"assignee_id"`
}

type UpdateTaskReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	AssigneeID  *string `json:"assignee_id"`
	// ClearAssignee unsets the assignee regardless of assignee_id.
	ClearAssignee bool `json:"clear_assignee"`
}

// ListTasks godoc
//
//	@Summary		List tasks
//	@Description	List tasks (manager only)
//	@Tags			task
//	@Accept			json
//	@Produce		json
//	@Param			limit		query	integer	false	"Page size, default 20, max 200"
//	@Param			cursor		query	string	false	"Cursor from the previous page"
//	@Param			time_desc	query	string	false	"Newest first when true"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.ListTasksOutput}
//	@Router			/tasks [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	req := ListQuery{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	out, err := h.svc.List(c.Request.Context(), service.ListTasksInput{
		ListInput: service.ListInput{Limit: req.Limit, Cursor: req.Cursor, TimeDesc: req.TimeDesc},
		Caller:    caller,
	})
	if err != nil {
		serializer.JSONError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// CreateTask godoc
//
//	@Summary		Create task
//	@Description	Create a task in a project; the assignee must be a team member
//	@Tags			task
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.CreateTaskReq	true	"CreateTask payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Task}
//	@Router			/tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	req := CreateTaskReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project_id", err))
		return
	}
	assigneeID, err := parseUUIDPtr(req.AssigneeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid assignee_id", err))
		return
	}

	in := service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		ProjectID:   projectID,
		AssigneeID:  assigneeID,
	}
	if req.Status != "" {
		in.Status = model.TaskStatus(req.Status)
	}

	task, err := h.svc.Create(c.Request.Context(), caller, in)
	if err != nil {
		serializer.JSONError(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: task})
}

// GetTask godoc
//
//	@Summary		Get task
//	@Description	Retrieve one task from the caller's scoped set
//	@Tags			task
//	@Accept			json
//	@Produce		json
//	@Param			task_id	path	string	true	"Task ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Task}
//	@Router			/tasks/{task_id} [get]
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	task, err := h.svc.Retrieve(c.Request.Context(), caller, id)
	if err != nil {
		serializer.JSONError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: task})
}

// UpdateTask godoc
//
//	@Summary		Update task
//	@Description	Partially update a task (manager only)
//	@Tags			task
//	@Accept			json
//	@Produce		json
//	@Param			task_id	path	string					true	"Task ID"	Format(uuid)
//	@Param			payload	body	handler.UpdateTaskReq	true	"UpdateTask payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Task}
//	@Router			/tasks/{task_id} [put]
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("task_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	req := UpdateTaskReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	assigneeID, err := parseUUIDPtr(req.AssigneeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid assignee_id", err))
		return
	}

	in := service.UpdateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		AssigneeID:    assigneeID,
		ClearAssignee: req.ClearAssignee,
	}
	if req.Status != nil {
		st := model.TaskStatus(*req.Status)
		in.Status = &st
	}

	task, err := h.svc.Update(c.Request.Context(), caller, id, in)
	if err != nil {
		serializer.JSONError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: task})
}

// DeleteTask godoc
//
//	@Summary		Delete task
//	@Description	Delete a task and its comments (manager only)
//	@Tags			task
//	@Accept			json
//	@Produce		json
//	@Param			task_id	path	string	true	"Task ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		204	{object}	nil
//	@Router			/tasks/{task_id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, err := uuid.Parse(c.Param("task_id"))
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

func parseUUIDPtr(raw *string) (*uuid.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

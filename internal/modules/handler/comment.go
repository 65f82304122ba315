package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/taskdeck-io/taskdeck/internal/modules/serializer"
	"github.com/taskdeck-io/taskdeck/internal/modules/service"
)

type CommentHandler struct {
	svc service.CommentService
}

func NewCommentHandler(s service.CommentService) *CommentHandler {
	return &CommentHandler{svc: s}
}

type CreateCommentReq struct {
	Text      string  `json:"text" binding:"required"`
	TaskID    string  `json:"task_id" binding:"required,uuid"`
	ProjectID string  `json:"project_id" binding:"required,uuid"`
	AuthorID  *string `json:"author_id"`
}

type UpdateCommentReq struct {
	Text      *string    `json:"text"`
	AuthorID  *string    `json:"author_id"`
	CreatedAt *time.Time `json:"created_at"`
}

// ListComments godoc
//
//	@Summary		List comments
//	@Description	List the caller's own comments
//	@Tags			comment
//	@Accept			json
//	@Produce		json
//	@Param			limit		query	integer	false	"Page size, default 20, max 200"
//	@Param			cursor		query	string	false	"Cursor from the previous page"
//	@Param			time_desc	query	string	false	"Newest first when true"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.ListCommentsOutput}
//	@Router			/comments [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	req := ListQuery{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	out, err := h.svc.List(c.Request.Context(), service.ListCommentsInput{
		ListInput: service.ListInput{Limit: req.Limit, Cursor: req.Cursor, TimeDesc: req.TimeDesc},
		Caller:    caller,
	})
	if err != nil {
		serializer.JSONError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// CreateComment godoc
//
//	@Summary		Create comment
//	@Description	Create a comment on a task the caller is assigned to or manages
//	@Tags			comment
//	@Accept			json
//	@Produce		json
//	@Param			payload	body	handler.CreateCommentReq	true	"CreateComment payload"
//	@Security		BearerAuth
//	@Success		201	{object}	serializer.Response{data=model.Comment}
//	@Router			/comments [post]
func (h *CommentHandler) CreateComment(c *gin.Context) {
	req := CreateCommentReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(req.TaskID)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid task_id", err))
		return
	}
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid project_id", err))
		return
	}
	authorID, err := parseUUIDPtr(req.AuthorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid author_id", err))
		return
	}

	comment, err := h.svc.Create(c.Request.Context(), caller, service.CreateCommentInput{
		Text:      req.Text,
		TaskID:    taskID,
		ProjectID: projectID,
		AuthorID:  authorID,
	})
	if err != nil {
		serializer.JSONError(c, err)
		return
	}

	c.JSON(http.StatusCreated, serializer.Response{Data: comment})
}

// GetComment godoc
//
//	@Summary		Get comment
//	@Description	Retrieve one of the caller's own comments
//	@Tags			comment
//	@Accept			json
//	@Produce		json
//	@Param			comment_id	path	string	true	"Comment ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Comment}
//	@Router			/comments/{comment_id} [get]
func (h *CommentHandler) GetComment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("comment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	comment, err := h.svc.Retrieve(c.Request.Context(), caller, id)
	if err != nil {
		serializer.JSONError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: comment})
}

// UpdateComment godoc
//
//	@Summary		Update comment
//	@Description	Update the text of the caller's own comment
//	@Tags			comment
//	@Accept			json
//	@Produce		json
//	@Param			comment_id	path	string						true	"Comment ID"	Format(uuid)
//	@Param			payload		body	handler.UpdateCommentReq	true	"UpdateComment payload"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Comment}
//	@Router			/comments/{comment_id} [put]
func (h *CommentHandler) UpdateComment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("comment_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	req := UpdateCommentReq{}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	authorID, err := parseUUIDPtr(req.AuthorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("invalid author_id", err))
		return
	}

	comment, err := h.svc.Update(c.Request.Context(), caller, id, service.UpdateCommentInput{
		Text:      req.Text,
		AuthorID:  authorID,
		CreatedAt: req.CreatedAt,
	})
	if err != nil {
		serializer.JSONError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: comment})
}

// DeleteComment godoc
//
//	@Summary		Delete comment
//	@Description	Delete the caller's own comment
//	@Tags			comment
//	@Accept			json
//	@Produce		json
//	@Param			comment_id	path	string	true	"Comment ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		204	{object}	nil
//	@Router			/comments/{comment_id} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("comment_id"))
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

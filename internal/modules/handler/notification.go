package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/taskdeck-io/taskdeck/internal/modules/serializer"
	"github.com/taskdeck-io/taskdeck/internal/modules/service"
)

type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(s service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: s}
}

// ListNotifications godoc
//
//	@Summary		List notifications
//	@Description	List the caller's own notifications
//	@Tags			notification
//	@Accept			json
//	@Produce		json
//	@Param			limit		query	integer	false	"Page size, default 20, max 200"
//	@Param			cursor		query	string	false	"Cursor from the previous page"
//	@Param			time_desc	query	string	false	"Newest first when true"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.ListNotificationsOutput}
//	@Router			/notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	req := ListQuery{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	out, err := h.svc.List(c.Request.Context(), service.ListNotificationsInput{
		ListInput: service.ListInput{Limit: req.Limit, Cursor: req.Cursor, TimeDesc: req.TimeDesc},
		Caller:    caller,
	})
	if err != nil {
		serializer.JSONError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

// MarkNotificationRead godoc
//
//	@Summary		Mark notification read
//	@Description	Mark one of the caller's notifications as read
//	@Tags			notification
//	@Accept			json
//	@Produce		json
//	@Param			notification_id	path	string	true	"Notification ID"	Format(uuid)
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=model.Notification}
//	@Router			/notifications/{notification_id}/read [post]
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("notification_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	n, err := h.svc.MarkRead(c.Request.Context(), caller, id)
	if err != nil {
		serializer.JSONError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: n})
}

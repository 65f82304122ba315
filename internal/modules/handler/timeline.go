package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskdeck-io/taskdeck/internal/modules/serializer"
	"github.com/taskdeck-io/taskdeck/internal/modules/service"
)

type TimelineHandler struct {
	svc service.TimelineService
}

func NewTimelineHandler(s service.TimelineService) *TimelineHandler {
	return &TimelineHandler{svc: s}
}

// ListTimelines godoc
//
//	@Summary		List timelines
//	@Description	List project timelines (manager only)
//	@Tags			timeline
//	@Accept			json
//	@Produce		json
//	@Param			limit		query	integer	false	"Page size, default 20, max 200"
//	@Param			cursor		query	string	false	"Cursor from the previous page"
//	@Param			time_desc	query	string	false	"Newest first when true"
//	@Security		BearerAuth
//	@Success		200	{object}	serializer.Response{data=service.ListTimelinesOutput}
//	@Router			/timelines [get]
func (h *TimelineHandler) ListTimelines(c *gin.Context) {
	req := ListQuery{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	caller, ok := currentCaller(c)
	if !ok {
		return
	}

	out, err := h.svc.List(c.Request.Context(), service.ListTimelinesInput{
		ListInput: service.ListInput{Limit: req.Limit, Cursor: req.Cursor, TimeDesc: req.TimeDesc},
		Caller:    caller,
	})
	if err != nil {
		serializer.JSONError(c, err)
		return
	}

	c.JSON(http.StatusOK, serializer.Response{Data: out})
}

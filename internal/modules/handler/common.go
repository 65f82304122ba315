package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taskdeck-io/taskdeck/internal/modules/model"
	"github.com/taskdeck-io/taskdeck/internal/modules/serializer"
)

// CallerKey is where the auth middleware stores the resolved account.
const CallerKey = "caller"

const dateLayout = "2006-01-02"

// currentCaller pulls the authenticated account out of the context. The
// auth middleware guarantees it is present on protected routes.
func currentCaller(c *gin.Context) (*model.Account, bool) {
	v, ok := c.Get(CallerKey)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return nil, false
	}
	caller, ok := v.(*model.Account)
	if !ok {
		c.JSON(http.StatusUnauthorized, serializer.AuthErr(""))
		return nil, false
	}
	return caller, true
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListQuery is the shared pagination query binding.
type ListQuery struct {
	Limit    int    `form:"limit,default=20" json:"limit" binding:"omitempty,min=1,max=200"`
	Cursor   string `form:"cursor" json:"cursor"`
	TimeDesc bool   `form:"time_desc,default=false" json:"time_desc"`
}

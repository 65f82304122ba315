package serializer

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taskdeck-io/taskdeck/internal/pkg/apperr"
)

var log = zap.NewNop()

// SetLogger installs the logger used for unclassified server errors.
func SetLogger(l *zap.Logger) {
	if l != nil {
		log = l
	}
}

// Response
type Response struct {
	Code int         `json:"code"`
	Data interface{} `json:"data,omitempty"`
	Msg  string      `json:"msg"`
	// Fields enumerates per-field validation errors on 400 responses.
	Fields map[string]string `json:"fields,omitempty"`
	Error  string            `json:"error,omitempty"`
}

// Err
func Err(errCode int, msg string, err error) Response {
	res := Response{
		Code: errCode,
		Msg:  msg,
	}
	// development mode, show error detail
	if err != nil && gin.Mode() != gin.ReleaseMode {
		res.Error = fmt.Sprintf("%+v", err)
	}
	return res
}

// DBErr
func DBErr(msg string, err error) Response {
	if msg == "" {
		msg = "database error"
	}
	return Err(http.StatusInternalServerError, msg, err)
}

// ParamErr
func ParamErr(msg string, err error) Response {
	if msg == "" {
		msg = "parameter error"
	}
	return Err(http.StatusBadRequest, msg, err)
}

// AuthErr
func AuthErr(msg string) Response {
	if msg == "" {
		msg = "authentication error"
	}
	return Err(http.StatusUnauthorized, msg, nil)
}

// ForbiddenErr
func ForbiddenErr(msg string) Response {
	if msg == "" {
		msg = "forbidden"
	}
	return Err(http.StatusForbidden, msg, nil)
}

// NotFoundErr
func NotFoundErr(msg string) Response {
	if msg == "" {
		msg = "not found"
	}
	return Err(http.StatusNotFound, msg, nil)
}

// ValidationErr
func ValidationErr(fields map[string]string) Response {
	res := Err(http.StatusBadRequest, "validation failed", nil)
	res.Fields = fields
	return res
}

// ConflictErr
func ConflictErr(msg string) Response {
	if msg == "" {
		msg = "conflict"
	}
	return Err(http.StatusConflict, msg, nil)
}

// FromError maps an application error to its HTTP status and response body.
// Unclassified errors surface as a generic 500 without internal detail.
func FromError(err error) (int, Response) {
	ae, ok := apperr.As(err)
	if !ok {
		log.Sugar().Errorw("unclassified error", "error", err)
		return http.StatusInternalServerError, DBErr("", err)
	}
	switch ae.Kind {
	case apperr.KindValidation:
		return http.StatusBadRequest, ValidationErr(ae.Fields)
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized, AuthErr(ae.Msg)
	case apperr.KindForbidden:
		return http.StatusForbidden, ForbiddenErr(ae.Msg)
	case apperr.KindNotFound:
		return http.StatusNotFound, NotFoundErr(ae.Msg)
	case apperr.KindConflict:
		return http.StatusConflict, ConflictErr(ae.Msg)
	default:
		log.Sugar().Errorw("internal error", "msg", ae.Msg, "error", ae.Err)
		return http.StatusInternalServerError, Err(http.StatusInternalServerError, ae.Msg, ae.Err)
	}
}

// JSONError writes the mapped error response.
func JSONError(c *gin.Context, err error) {
	status, res := FromError(err)
	c.JSON(status, res)
}

package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/taskdeck-io/taskdeck/internal/pkg/apperr"
	"github.com/taskdeck-io/taskdeck/internal/pkg/paging"
	"gorm.io/gorm"
)

// storeErr maps storage failures onto the request-level error taxonomy.
func storeErr(err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(notFoundMsg)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict("already exists")
	default:
		return apperr.Internal("storage error", err)
	}
}

// ListInput is the shared pagination envelope for list operations.
type ListInput struct {
	Limit    int
	Cursor   string
	TimeDesc bool
}

func (in ListInput) decodeCursor() (time.Time, uuid.UUID, error) {
	if in.Cursor == "" {
		return time.Time{}, uuid.Nil, nil
	}
	t, id, err := paging.DecodeCursor(in.Cursor)
	if err != nil {
		return time.Time{}, uuid.Nil, apperr.ValidationField("cursor", "malformed cursor")
	}
	return t, id, nil
}

// page trims an over-fetched slice (limit+1) and produces the next cursor.
func page[T any](items []T, limit int, createdAt func(T) time.Time, id func(T) uuid.UUID) ([]T, string, bool) {
	if len(items) <= limit {
		return items, "", false
	}
	items = items[:limit]
	last := items[len(items)-1]
	return items, paging.EncodeCursor(createdAt(last), id(last)), true
}

// Package event models entity-lifecycle side effects as explicit domain
// events dispatched synchronously to registered handlers. Structural
// handlers run inside the transaction that produced the event and abort it
// on failure; best-effort handlers run after commit and only log failures.
package event

import (
	"context"

	"github.com/google/uuid"
	"github.com/taskdeck-io/taskdeck/internal/modules/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Event interface {
	Name() string
}

// ProjectCreated fires once per new project, inside the creating
// transaction.
type ProjectCreated struct {
	Project *model.Project
}

func (ProjectCreated) Name() string { return "project.created" }

// MembersAdded fires after profiles were added to a project's team. Only
// additions fan out; removals are silent.
type MembersAdded struct {
	Project    *model.Project
	ProfileIDs []uuid.UUID
}

func (MembersAdded) Name() string { return "project.members_added" }

type Handler func(ctx context.Context, db *gorm.DB, e Event) error

type Bus struct {
	db         *gorm.DB
	log        *zap.Logger
	required   map[string][]Handler
	bestEffort map[string][]Handler
}

func NewBus(db *gorm.DB, log *zap.Logger) *Bus {
	return &Bus{
		db:         db,
		log:        log,
		required:   map[string][]Handler{},
		bestEffort: map[string][]Handler{},
	}
}

// Subscribe registers a structural handler: Dispatch propagates its error.
func (b *Bus) Subscribe(name string, h Handler) {
	b.required[name] = append(b.required[name], h)
}

// SubscribeBestEffort registers a handler whose failures are logged and
// swallowed by Announce.
func (b *Bus) SubscribeBestEffort(name string, h Handler) {
	b.bestEffort[name] = append(b.bestEffort[name], h)
}

// Dispatch runs the structural handlers for e synchronously with the given
// transaction handle and returns the first error.
func (b *Bus) Dispatch(ctx context.Context, tx *gorm.DB, e Event) error {
	for _, h := range b.required[e.Name()] {
		if err := h(ctx, tx, e); err != nil {
			return err
		}
	}
	return nil
}

// Announce runs the best-effort handlers for e after the producing operation
// has committed. Failures never surface to the caller.
func (b *Bus) Announce(ctx context.Context, e Event) {
	for _, h := range b.bestEffort[e.Name()] {
		if err := h(ctx, b.db, e); err != nil {
			b.log.Sugar().Warnw("event handler failed", "event", e.Name(), "err", err)
		}
	}
}

package event

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/taskdeck-io/taskdeck/internal/modules/model"
)

func TestBus_DispatchPropagatesFailure(t *testing.T) {
	bus := NewBus(nil, zap.NewNop())

	var order []string
	bus.Subscribe(ProjectCreated{}.Name(), func(ctx context.Context, db *gorm.DB, e Event) error {
		order = append(order, "first")
		return nil
	})
	bus.Subscribe(ProjectCreated{}.Name(), func(ctx context.Context, db *gorm.DB, e Event) error {
		order = append(order, "second")
		return errors.New("timeline insert failed")
	})
	bus.Subscribe(ProjectCreated{}.Name(), func(ctx context.Context, db *gorm.DB, e Event) error {
		order = append(order, "third")
		return nil
	})

	err := bus.Dispatch(context.Background(), nil, ProjectCreated{Project: &model.Project{}})

	assert.Error(t, err)
	// The failing handler stops the chain so the transaction can roll back.
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestBus_AnnounceSwallowsFailure(t *testing.T) {
	bus := NewBus(nil, zap.NewNop())

	var calls int
	bus.SubscribeBestEffort(MembersAdded{}.Name(), func(ctx context.Context, db *gorm.DB, e Event) error {
		calls++
		return errors.New("notification insert failed")
	})
	bus.SubscribeBestEffort(MembersAdded{}.Name(), func(ctx context.Context, db *gorm.DB, e Event) error {
		calls++
		return nil
	})

	bus.Announce(context.Background(), MembersAdded{
		Project:    &model.Project{},
		ProfileIDs: []uuid.UUID{uuid.New()},
	})

	assert.Equal(t, 2, calls)
}

func TestBus_RoutesByEventName(t *testing.T) {
	bus := NewBus(nil, zap.NewNop())

	var got []string
	record := func(label string) Handler {
		return func(ctx context.Context, db *gorm.DB, e Event) error {
			got = append(got, label+":"+e.Name())
			return nil
		}
	}
	bus.SubscribeBestEffort(ProjectCreated{}.Name(), record("created"))
	bus.SubscribeBestEffort(MembersAdded{}.Name(), record("members"))

	bus.Announce(context.Background(), ProjectCreated{Project: &model.Project{}})

	assert.Equal(t, []string{"created:project.created"}, got)
}

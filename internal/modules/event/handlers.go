package event

import (
	"context"
	"fmt"

	"github.com/taskdeck-io/taskdeck/internal/infra/mq"
	"github.com/taskdeck-io/taskdeck/internal/modules/model"
	"gorm.io/gorm"
)

const memberAddedMessage = "You have been added to the project: %s"

// TimelineHandler creates the single timeline row for a new project. It is
// structural: it runs inside the project-creation transaction and a failure
// rolls the whole creation back, so a project never exists without its
// timeline.
func TimelineHandler() Handler {
	return func(ctx context.Context, db *gorm.DB, e Event) error {
		pc, ok := e.(ProjectCreated)
		if !ok {
			return nil
		}
		return db.WithContext(ctx).Create(&model.Timeline{ProjectID: pc.Project.ID}).Error
	}
}

// NotificationHandler creates one notification per newly added team member.
// It runs after the membership change has committed; a failure must not
// undo the membership change.
func NotificationHandler() Handler {
	return func(ctx context.Context, db *gorm.DB, e Event) error {
		ma, ok := e.(MembersAdded)
		if !ok || len(ma.ProfileIDs) == 0 {
			return nil
		}

		var profiles []model.Profile
		if err := db.WithContext(ctx).Where("id IN ?", ma.ProfileIDs).Find(&profiles).Error; err != nil {
			return err
		}

		notifications := make([]model.Notification, 0, len(profiles))
		projectID := ma.Project.ID
		for _, p := range profiles {
			notifications = append(notifications, model.Notification{
				AccountID: p.AccountID,
				ProjectID: &projectID,
				Message:   fmt.Sprintf(memberAddedMessage, ma.Project.Title),
			})
		}
		if len(notifications) == 0 {
			return nil
		}
		return db.WithContext(ctx).Create(&notifications).Error
	}
}

type mirrorPayload struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// MirrorHandler republishes events to the message broker for external
// consumers, best-effort.
func MirrorHandler(pub *mq.Publisher) Handler {
	return func(ctx context.Context, _ *gorm.DB, e Event) error {
		return pub.PublishJSON(ctx, e.Name(), mirrorPayload{Event: e.Name(), Payload: e})
	}
}

package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/job-board/internal/events"
	"github.com/spec-kit/job-board/internal/mailer"
)

// ConfirmationSubject is the subject of the mail sent after applying.
const ConfirmationSubject = "Job Application Confirmation"

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	mail       mailer.Sender
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mail mailer.Sender, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mail:       mail,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventApplicationSubmitted, n.handleApplicationSubmitted)
	n.dispatcher.Subscribe(events.EventApplicationStatusChanged, n.handleApplicationStatusChanged)
	n.dispatcher.Subscribe(events.EventJobPosted, n.logEvent)
	n.dispatcher.Subscribe(events.EventJobClosed, n.logEvent)
}

// handleApplicationSubmitted sends the confirmation mail. A delivery failure
// is returned so the request fails visibly.
func (n *NotificationService) handleApplicationSubmitted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ApplicationSubmittedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	n.logger.Info("ApplicationSubmitted",
		zap.Int64("job_id", event.JobID),
		zap.Int64("application_id", payload.ApplicationID))

	return n.mail.Send(ctx, mailer.Message{
		To:      payload.SeekerEmail,
		Subject: ConfirmationSubject,
		Body:    confirmationBody(payload),
	})
}

func (n *NotificationService) handleApplicationStatusChanged(_ context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.ApplicationStatusChangedPayload)
	n.logger.Info("ApplicationStatusChanged",
		zap.Int64("job_id", event.JobID),
		zap.Int64("application_id", payload.ApplicationID),
		zap.String("old_status", string(payload.OldStatus)),
		zap.String("new_status", string(payload.NewStatus)))
	return nil
}

func (n *NotificationService) logEvent(_ context.Context, event events.Event) error {
	n.logger.Debug("event",
		zap.String("event_type", string(event.Type)),
		zap.Int64("job_id", event.JobID),
		zap.Int64("actor_id", event.Actor.UserID))
	return nil
}

func confirmationBody(payload events.ApplicationSubmittedPayload) string {
	return fmt.Sprintf(`Dear %s,

You have successfully applied for '%s'.

We will review your application shortly.

Regards,
Job Portal Team
`, payload.SeekerEmail, payload.JobTitle)
}

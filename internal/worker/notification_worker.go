package worker

import (
	"github.com/spec-kit/job-board/internal/events"
	"github.com/spec-kit/job-board/internal/service"
)

// StartNotificationWorker registers notification handlers and, when
// configured, the NATS forwarder on the dispatcher.
func StartNotificationWorker(dispatcher events.Dispatcher, notificationService *service.NotificationService, forwarder *events.NATSForwarder) {
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}
	if forwarder != nil && dispatcher != nil {
		forwarder.Register(dispatcher)
	}
}

package worker

import (
	"context"

	"github.com/spec-kit/department-service/internal/service"
)

// StartNotificationWorker registers the department change subscribers and
// starts the publish loop, which stops when ctx is cancelled.
func StartNotificationWorker(ctx context.Context, notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	go notificationService.Run(ctx)
}

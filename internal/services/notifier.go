package services

import (
	"go.uber.org/zap"
)

// Notifier is the console's notification sink. It is injected into the
// coordinator instead of being an ambient toast context.
type Notifier interface {
	Success(event, message string)
	Warning(event, message string)
	Error(event, message string)
}

// NopNotifier drops all notifications.
type NopNotifier struct{}

func (NopNotifier) Success(event, message string) {}
func (NopNotifier) Warning(event, message string) {}
func (NopNotifier) Error(event, message string)   {}

// NotificationPublisher publishes one console notification to a message
// queue. *rabbitmq.Client satisfies this.
type NotificationPublisher interface {
	PublishNotification(level, event, message string) error
}

// QueueNotifier forwards notifications to a message queue, logging publish
// failures without surfacing them to the operation that triggered them.
type QueueNotifier struct {
	queue  NotificationPublisher
	logger *zap.Logger
}

// NewQueueNotifier creates a QueueNotifier.
func NewQueueNotifier(queue NotificationPublisher, logger *zap.Logger) *QueueNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QueueNotifier{queue: queue, logger: logger}
}

func (n *QueueNotifier) Success(event, message string) { n.publish("success", event, message) }
func (n *QueueNotifier) Warning(event, message string) { n.publish("warning", event, message) }
func (n *QueueNotifier) Error(event, message string)   { n.publish("error", event, message) }

func (n *QueueNotifier) publish(level, event, message string) {
	if err := n.queue.PublishNotification(level, event, message); err != nil {
		n.logger.Warn("failed to publish notification",
			zap.String("event", event),
			zap.Error(err))
	}
}

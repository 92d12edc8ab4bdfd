package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shutterbook/models"

	"github.com/hibiken/asynq"
)

const TypeStatusNotification = "booking:status"

// NewStatusNotificationTask builds the task announcing a booking status change to its owner.
func NewStatusNotificationTask(payload models.StatusNotification) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeStatusNotification, b)
	opts := []asynq.Option{
		asynq.MaxRetry(5),
		asynq.Timeout(30 * time.Second),
	}

	return task, opts, nil
}

// Enqueuer is the part of *asynq.Client the notifier needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsynqNotifier queues status notifications for the worker.
type AsynqNotifier struct {
	Client Enqueuer
}

func NewAsynqNotifier(client Enqueuer) *AsynqNotifier {
	return &AsynqNotifier{Client: client}
}

func (n *AsynqNotifier) NotifyStatusChange(ctx context.Context, payload models.StatusNotification) error {
	task, opts, err := NewStatusNotificationTask(payload)
	if err != nil {
		return fmt.Errorf("failed to build notification task: %w", err)
	}
	if _, err := n.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue notification task: %w", err)
	}
	return nil
}

// StatusMessage returns the title and body shown to the customer for a new status.
func StatusMessage(b models.Booking) (string, string) {
	switch b.Status {
	case models.StatusApproved:
		return "Booking approved", fmt.Sprintf("Your %s (%s) on %s has been approved.", b.ServiceType, b.PackageType, b.Date)
	case models.StatusRejected:
		return "Booking rejected", fmt.Sprintf("Your %s on %s could not be accepted.", b.ServiceType, b.Date)
	case models.StatusCompleted:
		return "Booking completed", fmt.Sprintf("Your %s on %s is complete. Thank you!", b.ServiceType, b.Date)
	default:
		return "Booking updated", fmt.Sprintf("Your %s on %s is now %s.", b.ServiceType, b.Date, b.Status)
	}
}

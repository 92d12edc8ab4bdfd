package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"shutterbook/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{ID: "t1", Type: task.Type()}, nil
}

func TestAsynqNotifierEnqueuesPayload(t *testing.T) {
	q := &fakeEnqueuer{}
	n := NewAsynqNotifier(q)

	err := n.NotifyStatusChange(context.Background(), models.StatusNotification{
		BookingID: "b1",
		UserID:    "u1",
		Status:    models.StatusApproved,
		Title:     "Booking approved",
	})
	require.NoError(t, err)
	require.Len(t, q.tasks, 1)
	assert.Equal(t, TypeStatusNotification, q.tasks[0].Type())

	var got models.StatusNotification
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &got))
	assert.Equal(t, "b1", got.BookingID)
	assert.Equal(t, models.StatusApproved, got.Status)
}

func TestAsynqNotifierWrapsEnqueueError(t *testing.T) {
	n := NewAsynqNotifier(&fakeEnqueuer{err: errors.New("redis down")})
	err := n.NotifyStatusChange(context.Background(), models.StatusNotification{BookingID: "b1"})
	assert.ErrorContains(t, err, "redis down")
}

func TestStatusMessage(t *testing.T) {
	title, body := StatusMessage(models.Booking{ServiceType: "Wedding Shoot", PackageType: "Silver Package", Date: "2025-06-01", Status: models.StatusApproved})
	assert.Equal(t, "Booking approved", title)
	assert.Contains(t, body, "Wedding Shoot")
	assert.Contains(t, body, "2025-06-01")

	title, _ = StatusMessage(models.Booking{Status: models.StatusRejected})
	assert.Equal(t, "Booking rejected", title)
}

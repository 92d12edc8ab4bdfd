package cron

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"shutterbook/models"
	"shutterbook/services/tasks"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDeliverer struct {
	got []models.StatusNotification
	err error
}

func (r *recordingDeliverer) Deliver(_ context.Context, n models.StatusNotification) error {
	r.got = append(r.got, n)
	return r.err
}

func TestHandleStatusNotification(t *testing.T) {
	t.Run("delivers a decoded notification", func(t *testing.T) {
		d := &recordingDeliverer{}
		task, _, err := tasks.NewStatusNotificationTask(models.StatusNotification{BookingID: "b1", UserID: "u1", Status: models.StatusCompleted})
		require.NoError(t, err)

		require.NoError(t, HandleStatusNotification(d)(context.Background(), task))
		require.Len(t, d.got, 1)
		assert.Equal(t, models.StatusCompleted, d.got[0].Status)
	})

	t.Run("skips retries for malformed payloads", func(t *testing.T) {
		d := &recordingDeliverer{}
		err := HandleStatusNotification(d)(context.Background(), asynq.NewTask(tasks.TypeStatusNotification, []byte("{")))
		assert.ErrorIs(t, err, asynq.SkipRetry)
		assert.Empty(t, d.got)
	})

	t.Run("drops tasks without a recipient", func(t *testing.T) {
		d := &recordingDeliverer{}
		payload, _ := json.Marshal(models.StatusNotification{BookingID: "b1"})
		assert.NoError(t, HandleStatusNotification(d)(context.Background(), asynq.NewTask(tasks.TypeStatusNotification, payload)))
		assert.Empty(t, d.got)
	})

	t.Run("returns delivery errors so asynq retries", func(t *testing.T) {
		d := &recordingDeliverer{err: errors.New("smtp unavailable")}
		task, _, _ := tasks.NewStatusNotificationTask(models.StatusNotification{BookingID: "b1", UserID: "u1"})
		assert.Error(t, HandleStatusNotification(d)(context.Background(), task))
	})
}

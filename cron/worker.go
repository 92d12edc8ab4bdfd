package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"shutterbook/config"
	"shutterbook/models"
	"shutterbook/services/tasks"
	"shutterbook/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Deliverer hands a status notification to the customer. Email and SMS gateways plug in here.
type Deliverer interface {
	Deliver(ctx context.Context, n models.StatusNotification) error
}

// LogDeliverer writes notifications to the application log.
type LogDeliverer struct{}

func (LogDeliverer) Deliver(_ context.Context, n models.StatusNotification) error {
	utils.GetLogger().Info("Booking status notification",
		zap.String("userID", n.UserID),
		zap.String("bookingID", n.BookingID),
		zap.String("status", string(n.Status)),
		zap.String("title", n.Title),
		zap.String("message", n.Message),
	)
	return nil
}

// RedisOpts returns the asynq connection for the task queue database.
func RedisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	}
}

// InitNotificationWorker runs the async worker in background and returns it so callers can shut it down.
func InitNotificationWorker(ctx context.Context, deliverer Deliverer) *asynq.Server {
	logger := utils.GetLogger()
	srv := asynq.NewServer(
		RedisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeStatusNotification, HandleStatusNotification(deliverer))

	go monitorRedisConnection(ctx)

	// Start async worker with retry logic
	go func() {
		logger.Info("[NotificationWorker] Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Warn("[NotificationWorker] Failed to start worker",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("[NotificationWorker] Max retry attempts reached, notifications disabled")
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(attempts*2) * time.Second):
			}
		}
	}()
	return srv
}

// HandleStatusNotification decodes a booking:status task and delivers it.
func HandleStatusNotification(deliverer Deliverer) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var n models.StatusNotification
		if err := json.Unmarshal(task.Payload(), &n); err != nil {
			utils.GetLogger().Error("[NotificationHandler] Invalid payload", zap.Error(err))
			// Malformed payloads never succeed, so skip retries.
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if n.UserID == "" || n.BookingID == "" {
			utils.GetLogger().Warn("[NotificationHandler] Missing recipient, dropping task", zap.String("bookingID", n.BookingID))
			return nil
		}

		if err := deliverer.Deliver(ctx, n); err != nil {
			utils.GetLogger().Error("[NotificationHandler] Failed to deliver notification", zap.Error(err))
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection(ctx context.Context) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisTaskQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				utils.GetLogger().Warn("[NotificationWorker] Redis connection lost", zap.Error(err))
			}
		}
	}
}

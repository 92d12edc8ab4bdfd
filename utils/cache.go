// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"shutterbook/config"

	"github.com/go-redis/redis/v8"
)

// OTPCacheClient is the dedicated client for one-time passwords.
var OTPCacheClient *redis.Client

// InitOTPCache initializes the Redis client for OTP storage (using DB from AppConfig).
func InitOTPCache() error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisOTPDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to connect to Redis (OTP cache): %w", err)
	}
	OTPCacheClient = client
	return nil
}

// GetOTPCacheClient returns the Redis client for OTP storage.
func GetOTPCacheClient() *redis.Client {
	return OTPCacheClient
}

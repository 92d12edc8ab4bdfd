package utils

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ErrOTPNotFound is returned when no OTP is stored or it has expired.
var ErrOTPNotFound = errors.New("OTP not found or expired")

// GenerateNumericOTP generates a secure random numeric OTP of the specified length.
func GenerateNumericOTP(length int) (string, error) {
	digits := make([]byte, length)
	for i := range digits {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", fmt.Errorf("failed to generate random digit: %w", err)
		}
		digits[i] = byte('0' + n.Int64())
	}
	return string(digits), nil
}

// RedisOTPStore keeps one-time passwords in Redis with a TTL.
type RedisOTPStore struct {
	client *redis.Client
}

// NewRedisOTPStore wraps a Redis client.
func NewRedisOTPStore(client *redis.Client) *RedisOTPStore {
	return &RedisOTPStore{client: client}
}

func otpKey(subject string) string {
	return "otp:" + subject
}

// Save stores the OTP for subject, replacing any previous one.
func (s *RedisOTPStore) Save(ctx context.Context, subject, otp string, ttl time.Duration) error {
	if err := s.client.Set(ctx, otpKey(subject), otp, ttl).Err(); err != nil {
		GetLogger().Error("Failed to cache OTP", zap.Error(err))
		return fmt.Errorf("failed to store OTP: %w", err)
	}
	return nil
}

// Consume compares the stored OTP with the provided one and deletes it on match.
func (s *RedisOTPStore) Consume(ctx context.Context, subject, providedOTP string) error {
	stored, err := s.client.Get(ctx, otpKey(subject)).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrOTPNotFound
		}
		return fmt.Errorf("failed to retrieve OTP: %w", err)
	}
	if stored != providedOTP {
		return fmt.Errorf("OTP does not match")
	}

	// Delete the OTP after successful verification.
	if err := s.client.Del(ctx, otpKey(subject)).Err(); err != nil {
		GetLogger().Error("Failed to delete OTP after verification", zap.Error(err))
	}
	return nil
}

type memoryOTP struct {
	code      string
	expiresAt time.Time
}

// MemoryOTPStore keeps one-time passwords in process memory for local development.
type MemoryOTPStore struct {
	mu    sync.Mutex
	codes map[string]memoryOTP
	now   func() time.Time
}

// NewMemoryOTPStore creates an empty in-memory OTP store.
func NewMemoryOTPStore() *MemoryOTPStore {
	return &MemoryOTPStore{codes: make(map[string]memoryOTP), now: time.Now}
}

func (s *MemoryOTPStore) Save(_ context.Context, subject, otp string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes[subject] = memoryOTP{code: otp, expiresAt: s.now().Add(ttl)}
	return nil
}

func (s *MemoryOTPStore) Consume(_ context.Context, subject, providedOTP string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.codes[subject]
	if !ok || s.now().After(entry.expiresAt) {
		delete(s.codes, subject)
		return ErrOTPNotFound
	}
	if entry.code != providedOTP {
		return fmt.Errorf("OTP does not match")
	}
	delete(s.codes, subject)
	return nil
}

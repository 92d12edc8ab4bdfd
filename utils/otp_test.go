package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNumericOTP(t *testing.T) {
	otp, err := GenerateNumericOTP(6)
	require.NoError(t, err)
	assert.Len(t, otp, 6)
	for _, r := range otp {
		assert.True(t, r >= '0' && r <= '9', "non-digit %q", r)
	}
}

func TestRedisOTPStore(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewRedisOTPStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "admin:a@b.c", "123456", 5*time.Minute))
	assert.True(t, mr.Exists("otp:admin:a@b.c"))

	assert.Error(t, store.Consume(ctx, "admin:a@b.c", "000000"))
	require.NoError(t, store.Consume(ctx, "admin:a@b.c", "123456"))
	assert.False(t, mr.Exists("otp:admin:a@b.c"))

	assert.ErrorIs(t, store.Consume(ctx, "admin:a@b.c", "123456"), ErrOTPNotFound)
}

func TestRedisOTPStore_Expiry(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewRedisOTPStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "admin:a@b.c", "123456", time.Minute))
	mr.FastForward(2 * time.Minute)

	assert.ErrorIs(t, store.Consume(ctx, "admin:a@b.c", "123456"), ErrOTPNotFound)
}

func TestMemoryOTPStore_Expiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	store := NewMemoryOTPStore()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "s", "111111", time.Minute))
	now = now.Add(2 * time.Minute)
	assert.ErrorIs(t, store.Consume(ctx, "s", "111111"), ErrOTPNotFound)
}

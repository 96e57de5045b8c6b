package security

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"

	"tripease/internal/status"
)

func setupRateLimiter() (*RateLimiter, redismock.ClientMock) {
	db, mock := redismock.NewClientMock()
	return NewRateLimiter(db, 3, time.Minute), mock
}

func TestAllowBooking_FirstAttemptSetsWindow(t *testing.T) {
	limiter, mock := setupRateLimiter()
	defer mock.ClearExpect()

	mock.ExpectIncr("ratelimit:booking:user-1").SetVal(1)
	mock.ExpectExpire("ratelimit:booking:user-1", time.Minute).SetVal(true)

	err := limiter.AllowBooking(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAllowBooking_WithinLimit(t *testing.T) {
	limiter, mock := setupRateLimiter()
	defer mock.ClearExpect()

	mock.ExpectIncr("ratelimit:booking:user-1").SetVal(3)

	err := limiter.AllowBooking(context.Background(), "user-1")
	assert.NoError(t, err)
}

func TestAllowBooking_OverLimit(t *testing.T) {
	limiter, mock := setupRateLimiter()
	defer mock.ClearExpect()

	mock.ExpectIncr("ratelimit:booking:user-1").SetVal(4)

	err := limiter.AllowBooking(context.Background(), "user-1")
	assert.ErrorIs(t, err, status.ErrRateLimited)
}

func TestAllowBooking_RedisDownFailsOpen(t *testing.T) {
	limiter, mock := setupRateLimiter()
	defer mock.ClearExpect()

	mock.ExpectIncr("ratelimit:booking:user-1").SetErr(errors.New("connection refused"))

	err := limiter.AllowBooking(context.Background(), "user-1")
	assert.NoError(t, err)
}

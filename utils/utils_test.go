package utils

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Circuit Breaker Tests

func TestCircuitBreaker_NewCircuitBreaker(t *testing.T) {
	cb := NewCircuitBreaker("test")

	assert.Equal(t, "test", cb.name)
	assert.Equal(t, uint32(20), cb.maxRequests)
	assert.Equal(t, 60*time.Second, cb.interval)
	assert.Equal(t, 60*time.Second, cb.timeout)
	assert.Equal(t, 0.6, cb.failureRatio)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_ExecuteSuccess(t *testing.T) {
	cb := NewCircuitBreaker("test")
	ctx := context.Background()

	result, err := cb.Execute(ctx, func(ctx context.Context) (string, error) {
		return "success", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "success", result)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_ExecuteFailure(t *testing.T) {
	cb := NewCircuitBreaker("test")
	ctx := context.Background()

	expectedError := errors.New("test error")
	result, err := cb.Execute(ctx, func(ctx context.Context) (string, error) {
		return "", expectedError
	})

	assert.ErrorIs(t, err, expectedError)
	assert.Empty(t, result)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_OpensAfterFailureRatio(t *testing.T) {
	cb := NewCircuitBreaker("test")
	cb.maxRequests = 5

	ctx := context.Background()

	for i := 0; i < 5; i++ {
		cb.Execute(ctx, func(ctx context.Context) (string, error) {
			return "", errors.New("failure")
		})
	}

	assert.Equal(t, StateOpen, cb.State())

	_, err := cb.Execute(ctx, func(ctx context.Context) (string, error) {
		t.Fatal("request must not run while the breaker is open")
		return "", nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreaker_RecoversAfterTimeout(t *testing.T) {
	cb := NewCircuitBreaker("test")
	cb.maxRequests = 3
	cb.timeout = 50 * time.Millisecond

	ctx := context.Background()

	for i := 0; i < 3; i++ {
		cb.Execute(ctx, func(ctx context.Context) (string, error) {
			return "", errors.New("failure")
		})
	}
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(80 * time.Millisecond)

	// The first probe after the timeout runs and closes the breaker on
	// success.
	result, err := cb.Execute(ctx, func(ctx context.Context) (string, error) {
		return "recovered", nil
	})
	assert.NoError(t, err)
	assert.Equal(t, "recovered", result)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_StaysClosedBelowRatio(t *testing.T) {
	cb := NewCircuitBreaker("test")
	cb.maxRequests = 10

	ctx := context.Background()

	for i := 0; i < 10; i++ {
		cb.Execute(ctx, func(ctx context.Context) (string, error) {
			if i%4 == 0 {
				return "", errors.New("failure")
			}
			return "ok", nil
		})
	}

	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_ConcurrentAccess(t *testing.T) {
	cb := NewCircuitBreaker("concurrent-test")
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	successCount := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cb.Execute(ctx, func(ctx context.Context) (string, error) {
				return "success", nil
			})
			if err == nil {
				mu.Lock()
				successCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, successCount)
	assert.Equal(t, StateClosed, cb.State())
}

// Random Code Tests

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(3)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.Equal(t, code, stringsToUpper(code))

	other, err := GenerateCode(3)
	require.NoError(t, err)
	assert.NotEqual(t, code, other)
}

func stringsToUpper(s string) string {
	out := []rune(s)
	for i, r := range out {
		if r >= 'a' && r <= 'z' {
			out[i] = r - 32
		}
	}
	return string(out)
}

// Redis Client Tests

func TestRedisHealthCheck_Success(t *testing.T) {
	db, mock := redismock.NewClientMock()

	mock.ExpectPing().SetVal("PONG")

	err := RedisHealthCheck(db)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisHealthCheck_Failure(t *testing.T) {
	db, mock := redismock.NewClientMock()

	mock.ExpectPing().SetErr(errors.New("connection failed"))

	err := RedisHealthCheck(db)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "redis health check failed")
	assert.Contains(t, err.Error(), "connection failed")
}

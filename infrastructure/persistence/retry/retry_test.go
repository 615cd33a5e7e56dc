package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"pizzeria/config"
	"pizzeria/domain/order"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func fastConfig() Config {
	cfg := DefaultConfig
	cfg.Enabled = true
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	cfg.JitterEnabled = false
	return cfg
}

func TestIsRetryableError(t *testing.T) {
	cfg := fastConfig()

	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadlock", &mysqlDriver.MySQLError{Number: 1213, Message: "Deadlock found"}, true},
		{"lock wait timeout", fmt.Errorf("save: %w", &mysqlDriver.MySQLError{Number: 1205}), true},
		{"duplicate key", &mysqlDriver.MySQLError{Number: 1062}, false},
		{"invalid conn", mysqlDriver.ErrInvalidConn, true},
		{"sqlite busy", errors.New("database is locked"), true},
		{"concurrent modification", order.NewConcurrentModificationError("o1"), false},
		{"not found", order.NewOrderNotFoundError("o1"), false},
		{"context canceled", context.Canceled, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsRetryableError(tc.err, cfg))
		})
	}
}

func TestIsRetryableErrorRespectsToggles(t *testing.T) {
	cfg := fastConfig()
	cfg.RetryOnDeadlock = false
	assert.False(t, IsRetryableError(&mysqlDriver.MySQLError{Number: 1213}, cfg))
}

func TestExecuteWithRetry(t *testing.T) {
	t.Run("disabled runs once", func(t *testing.T) {
		calls := 0
		err := ExecuteWithRetry(context.Background(), DefaultConfig, func(ctx context.Context) error {
			calls++
			return &mysqlDriver.MySQLError{Number: 1213}
		})
		assert.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient errors until success", func(t *testing.T) {
		calls := 0
		err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
			calls++
			if calls < 3 {
				return &mysqlDriver.MySQLError{Number: 1213}
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("never retries domain conflicts", func(t *testing.T) {
		calls := 0
		err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
			calls++
			return order.NewConcurrentModificationError("o1")
		})
		assert.ErrorIs(t, err, order.ErrConcurrentModification)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops at max attempts", func(t *testing.T) {
		calls := 0
		err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
			calls++
			return mysqlDriver.ErrInvalidConn
		})
		assert.ErrorIs(t, err, mysqlDriver.ErrInvalidConn)
		assert.Equal(t, 3, calls)
	})
}

func TestFromAppConfig(t *testing.T) {
	cfg := FromAppConfig(&config.Config{Database: config.DatabaseConfig{Retry: config.RetryConfig{
		Enabled:     true,
		MaxAttempts: 5,
	}}})
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 5, cfg.MaxAttempts)
}

func TestBackoffIsCapped(t *testing.T) {
	cfg := fastConfig()
	assert.Equal(t, time.Duration(0), ExponentialBackoffWithJitter(0, cfg))
	assert.Equal(t, cfg.InitialDelay, ExponentialBackoffWithJitter(1, cfg))
	assert.Equal(t, cfg.MaxDelay, ExponentialBackoffWithJitter(10, cfg))
}

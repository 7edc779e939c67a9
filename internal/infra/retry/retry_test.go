package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type tempErr struct{ temporary bool }

func (e tempErr) Error() string   { return "temp" }
func (e tempErr) Temporary() bool { return e.temporary }

func TestDo(t *testing.T) {
	opts := Options{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}

	t.Run("success on first attempt", func(t *testing.T) {
		attempts := 0
		err := Do(context.Background(), opts, func(int) error {
			attempts++
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("retries temporary errors", func(t *testing.T) {
		attempts := 0
		err := Do(context.Background(), opts, func(attempt int) error {
			attempts++
			if attempt < 2 {
				return tempErr{temporary: true}
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("stops after max retries", func(t *testing.T) {
		attempts := 0
		err := Do(context.Background(), opts, func(int) error {
			attempts++
			return tempErr{temporary: true}
		})
		assert.Error(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("does not retry permanent errors", func(t *testing.T) {
		attempts := 0
		err := Do(context.Background(), opts, func(int) error {
			attempts++
			return errors.New("permanent")
		})
		assert.EqualError(t, err, "permanent")
		assert.Equal(t, 1, attempts)
	})

	t.Run("context cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := Do(ctx, opts, func(int) error { return nil })
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFullJitterSleep(t *testing.T) {
	for attempt := 0; attempt < 5; attempt++ {
		d := FullJitterSleep(attempt, 10*time.Millisecond, 40*time.Millisecond)
		assert.GreaterOrEqual(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, 40*time.Millisecond)
	}
	assert.Equal(t, time.Duration(0), FullJitterSleep(1, 0, time.Second))
}

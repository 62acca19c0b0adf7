package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	require.Equal(t, BackoffLinear, p.Mode)
	require.Equal(t, time.Second, p.Initial)
	require.Equal(t, 30*time.Second, p.Max)
	require.Equal(t, 2, p.MaxRetries)
	require.Equal(t, 0, None().MaxRetries)
}

// Initial larger than max is clamped.
func TestNewPolicyOverrides(t *testing.T) {
	p := NewPolicy(BackoffFixed, 5*time.Second, 2*time.Second, 5)
	require.Equal(t, 2*time.Second, p.Initial)
	require.Equal(t, 2*time.Second, p.Max)
	require.Equal(t, BackoffFixed, p.Mode)
	require.Equal(t, 5, p.MaxRetries)

	require.Equal(t, BackoffLinear, NewPolicy("weird", time.Millisecond, time.Second, 1).Mode)
}

func TestDelayModes(t *testing.T) {
	ms := time.Millisecond
	cases := []struct {
		name    string
		policy  Policy
		attempt int
		want    time.Duration
	}{
		{"fixed", NewPolicy(BackoffFixed, 100*ms, 500*ms, 3), 3, 100 * ms},
		{"linear first", NewPolicy(BackoffLinear, 100*ms, 250*ms, 5), 1, 100 * ms},
		{"linear second", NewPolicy(BackoffLinear, 100*ms, 250*ms, 5), 2, 200 * ms},
		{"linear capped", NewPolicy(BackoffLinear, 100*ms, 250*ms, 5), 4, 250 * ms},
		{"exponential second", NewPolicy(BackoffExponential, 50*ms, 160*ms, 5), 2, 100 * ms},
		{"exponential capped", NewPolicy(BackoffExponential, 50*ms, 160*ms, 5), 3, 160 * ms},
		{"zero attempt", NewPolicy(BackoffLinear, 10*ms, 20*ms, 1), 0, 0},
		{"negative attempt", NewPolicy(BackoffLinear, 10*ms, 20*ms, 1), -1, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.policy.Delay(tc.attempt))
		})
	}
}

func TestValidate(t *testing.T) {
	require.Error(t, Policy{Initial: 0, Max: time.Second}.Validate())
	require.Error(t, Policy{Initial: time.Second, Max: 0}.Validate())
	require.Error(t, Policy{Initial: time.Second, Max: time.Second, MaxRetries: -1}.Validate())
	require.NoError(t, Policy{Initial: time.Second, Max: 2 * time.Second}.Validate())
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	p := NewPolicy(BackoffFixed, time.Millisecond, time.Millisecond, 3)
	calls := 0
	err := p.Do(context.Background(), func(int) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 3, calls)
}

func TestDo_ReturnsLastError(t *testing.T) {
	p := NewPolicy(BackoffFixed, time.Millisecond, time.Millisecond, 2)
	var attempts []int
	err := p.Do(context.Background(), func(attempt int) error {
		attempts = append(attempts, attempt)
		return errors.New("down")
	})
	require.EqualError(t, err, "down")
	require.Equal(t, []int{0, 1, 2}, attempts)
}

func TestDo_StopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := NewPolicy(BackoffFixed, time.Hour, time.Hour, 5).Do(ctx, func(int) error {
		calls++
		return errors.New("down")
	})
	require.Error(t, err)
	require.Equal(t, 1, calls)
}

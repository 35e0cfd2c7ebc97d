//go:build gcloud

package sink

import (
	"context"
	"errors"
	"testing"
)

func TestCloudTasksSink_WithRetry(t *testing.T) {
	errUnavailable := errors.New("unavailable")

	tests := []struct {
		name      string
		failures  int
		wantCalls int
		wantErr   bool
	}{
		{name: "first attempt succeeds", failures: 0, wantCalls: 1},
		{name: "transient failure is retried", failures: 2, wantCalls: 3},
		{name: "gives up after max retries", failures: 5, wantCalls: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &CloudTasksSink{maxRetries: 3}

			calls := 0
			err := s.withRetry(context.Background(), "create", "trigger-1", func() error {
				calls++
				if calls <= tt.failures {
					return errUnavailable
				}
				return nil
			})

			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if tt.wantErr {
				if !errors.Is(err, errUnavailable) {
					t.Errorf("withRetry() error = %v, want wrapped %v", err, errUnavailable)
				}
				return
			}
			if err != nil {
				t.Errorf("withRetry() error = %v", err)
			}
		})
	}
}

func TestCloudTasksSink_WithRetryStopsOnCancel(t *testing.T) {
	s := &CloudTasksSink{maxRetries: 3}
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := s.withRetry(ctx, "delete", "trigger-1", func() error {
		calls++
		cancel()
		return errors.New("unavailable")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("withRetry() error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

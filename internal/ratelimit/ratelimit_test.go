package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name             string
		fetchesPerSecond float64
		expectUnlimited  bool
	}{
		{
			name:             "unlimited_zero",
			fetchesPerSecond: 0,
			expectUnlimited:  true,
		},
		{
			name:             "unlimited_negative",
			fetchesPerSecond: -1,
			expectUnlimited:  true,
		},
		{
			name:             "limited_one_per_second",
			fetchesPerSecond: 1,
			expectUnlimited:  false,
		},
		{
			name:             "limited_fractional",
			fetchesPerSecond: 0.5,
			expectUnlimited:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			limiter := New(tt.fetchesPerSecond)
			if limiter == nil {
				t.Fatal("New() returned nil")
			}

			limit := limiter.Limit()
			if tt.expectUnlimited {
				if limit != 0 {
					t.Errorf("Expected unlimited (0), got %f", limit)
				}
			} else {
				if limit != tt.fetchesPerSecond {
					t.Errorf("Expected limit %f, got %f", tt.fetchesPerSecond, limit)
				}
			}
		})
	}
}

func TestLimiter_Allow(t *testing.T) {
	t.Run("unlimited_allows_all", func(t *testing.T) {
		limiter := New(0)

		for i := range 10 {
			if !limiter.Allow() {
				t.Errorf("Unlimited limiter should allow fetch %d", i)
			}
		}
	})

	t.Run("limited_respects_rate", func(t *testing.T) {
		limiter := New(1)

		if !limiter.Allow() {
			t.Error("First fetch should be allowed")
		}
		if limiter.Allow() {
			t.Error("Second immediate fetch should be denied")
		}
	})
}

func TestLimiter_Wait(t *testing.T) {
	t.Run("unlimited_no_wait", func(t *testing.T) {
		limiter := New(0)

		start := time.Now()
		if err := limiter.Wait(context.Background()); err != nil {
			t.Errorf("Wait() failed: %v", err)
		}

		if duration := time.Since(start); duration > 10*time.Millisecond {
			t.Errorf("Unlimited limiter took too long: %v", duration)
		}
	})

	t.Run("context_cancellation", func(t *testing.T) {
		limiter := New(1)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		// Use up the first allowed fetch.
		if err := limiter.Wait(context.Background()); err != nil {
			t.Errorf("First Wait() failed: %v", err)
		}

		if err := limiter.Wait(ctx); err == nil {
			t.Error("Expected context cancellation error")
		}
	})
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package bench

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"code.hybscloud.com/spsc"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"uncached", func(c *Config) { c.Variant = Uncached }, false},
		{"zero capacity", func(c *Config) { c.Capacity = 0 }, true},
		{"non power of two", func(c *Config) { c.Capacity = 1000 }, true},
		{"non power of two rounded", func(c *Config) { c.Capacity = 1000; c.RoundUp = true }, false},
		{"zero count", func(c *Config) { c.Count = 0 }, true},
		{"zero rounds", func(c *Config) { c.Rounds = 0 }, true},
		{"unknown variant", func(c *Config) { c.Variant = "lazy" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRun(t *testing.T) {
	if spsc.RaceEnabled {
		t.Skip("skip: SPSC uses cross-variable memory ordering")
	}

	for _, variant := range []Variant{Cached, Uncached} {
		t.Run(string(variant), func(t *testing.T) {
			cfg := Config{
				Capacity: 100,
				RoundUp:  true,
				Count:    50_000,
				Rounds:   2,
				Variant:  variant,
			}

			results, err := Run(context.Background(), cfg, zaptest.NewLogger(t))
			require.NoError(t, err)
			require.Len(t, results, 2)

			for _, r := range results {
				assert.Equal(t, variant, r.Variant)
				assert.Equal(t, 128, r.Capacity)
				assert.Equal(t, 50_000, r.Count)
				assert.Positive(t, r.Elapsed)
				assert.Positive(t, r.NsPerOp())
				assert.Positive(t, r.OpsPerSec())
				assert.GreaterOrEqual(t, r.Full, int64(0))
				assert.GreaterOrEqual(t, r.Empty, int64(0))
			}
		})
	}
}

func TestRunInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Capacity = 3

	results, err := Run(context.Background(), cfg, zaptest.NewLogger(t))
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Empty(t, results)
}

// TestRunCancelled tests that a cancelled context stops a run that would
// otherwise take far longer than the test timeout.
func TestRunCancelled(t *testing.T) {
	if spsc.RaceEnabled {
		t.Skip("skip: SPSC uses cross-variable memory ordering")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{Capacity: 2, Count: 1 << 30, Rounds: 1, Variant: Cached}

	done := make(chan error, 1)
	go func() {
		_, err := Run(ctx, cfg, zaptest.NewLogger(t))
		done <- err
	}()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(10 * time.Second):
		t.Fatal("Run did not stop after cancellation")
	}
}

func TestResultZero(t *testing.T) {
	var r Result
	assert.Zero(t, r.NsPerOp())
	assert.Zero(t, r.OpsPerSec())

	r = Result{Count: 1000, Elapsed: time.Millisecond}
	assert.InDelta(t, 1000.0, r.NsPerOp(), 1e-9)
	assert.InDelta(t, 1e6, r.OpsPerSec(), 1e-3)
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package bench drives one producer and one consumer goroutine through a
// queue and reports throughput.
//
// The consumer checks that every element arrives exactly once and in the
// order it was enqueued. Retrying on full and empty is the caller's policy;
// here both sides spin with [spin.Wait].
package bench

import (
	"context"
	"errors"
	"fmt"
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
	"go.uber.org/zap"

	"code.hybscloud.com/spsc"
)

// Variant selects the cursor protocol.
type Variant string

const (
	Cached   Variant = "cached"
	Uncached Variant = "uncached"
)

// ErrOrderViolation is returned when the consumer receives an element out
// of order, twice, or not at all.
var ErrOrderViolation = errors.New("bench: order violation")

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("bench: invalid config")

// Config describes a run.
type Config struct {
	Capacity int     `mapstructure:"capacity"`
	Count    int     `mapstructure:"count"`
	Rounds   int     `mapstructure:"rounds"`
	Variant  Variant `mapstructure:"variant"`
	RoundUp  bool    `mapstructure:"round-up"`
}

// DefaultConfig returns the configuration used when no flags are given.
func DefaultConfig() Config {
	return Config{
		Capacity: 1024,
		Count:    10_000_000,
		Rounds:   1,
		Variant:  Cached,
	}
}

// Validate checks the configuration without building a queue.
func (c Config) Validate() error {
	switch {
	case c.Capacity < 1:
		return fmt.Errorf("%w: capacity %d < 1", ErrInvalidConfig, c.Capacity)
	case !c.RoundUp && c.Capacity&(c.Capacity-1) != 0:
		return fmt.Errorf("%w: capacity %d is not a power of 2 (set round-up)", ErrInvalidConfig, c.Capacity)
	case c.Count < 1:
		return fmt.Errorf("%w: count %d < 1", ErrInvalidConfig, c.Count)
	case c.Rounds < 1:
		return fmt.Errorf("%w: rounds %d < 1", ErrInvalidConfig, c.Rounds)
	case c.Variant != Cached && c.Variant != Uncached:
		return fmt.Errorf("%w: variant %q (want %q or %q)", ErrInvalidConfig, c.Variant, Cached, Uncached)
	}
	return nil
}

func (c Config) builder() *spsc.Builder {
	b := spsc.NewBuilder(c.Capacity)
	if c.RoundUp {
		b.RoundUp()
	}
	if c.Variant == Uncached {
		b.Uncached()
	}
	return b
}

// Result is the outcome of one round.
type Result struct {
	Variant  Variant
	Capacity int
	Count    int
	Elapsed  time.Duration

	// Full counts rejected Enqueue attempts, Empty rejected Dequeue attempts.
	Full  int64
	Empty int64
}

// NsPerOp returns the elapsed time per transferred element.
func (r Result) NsPerOp() float64 {
	if r.Count == 0 {
		return 0
	}
	return float64(r.Elapsed.Nanoseconds()) / float64(r.Count)
}

// OpsPerSec returns transferred elements per second.
func (r Result) OpsPerSec() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Count) / r.Elapsed.Seconds()
}

// Run executes cfg.Rounds rounds and returns one Result per round.
//
// Cancelling ctx stops both goroutines at their next rejected attempt; Run
// then returns the results so far and ctx.Err().
func Run(ctx context.Context, cfg Config, logger *zap.Logger) ([]Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	results := make([]Result, 0, cfg.Rounds)
	for round := range cfg.Rounds {
		res, err := runRound(ctx, cfg)
		if err != nil {
			return results, fmt.Errorf("round %d: %w", round, err)
		}
		logger.Debug("round complete",
			zap.Int("round", round),
			zap.String("variant", string(res.Variant)),
			zap.Duration("elapsed", res.Elapsed),
			zap.Float64("ns_per_op", res.NsPerOp()),
			zap.Int64("full", res.Full),
			zap.Int64("empty", res.Empty),
		)
		results = append(results, res)
	}
	return results, nil
}

// checkEvery is how many consecutive rejections pass between ctx checks.
const checkEvery = 1 << 10

func runRound(ctx context.Context, cfg Config) (Result, error) {
	q := spsc.Build[uint64](cfg.builder())
	n := uint64(cfg.Count)

	var abort atomix.Bool
	done := make(chan error, 1)

	start := time.Now()

	// Consumer
	var misses int64
	consume := func() error {
		sw := spin.Wait{}
		for expected := uint64(1); expected <= n; {
			v, err := q.Dequeue()
			if err != nil {
				misses++
				if misses%checkEvery == 0 && (abort.Load() || ctx.Err() != nil) {
					abort.Store(true)
					return context.Cause(ctx)
				}
				sw.Once()
				continue
			}
			sw.Reset()
			if v != expected {
				abort.Store(true)
				return fmt.Errorf("%w: got %d, want %d", ErrOrderViolation, v, expected)
			}
			expected++
		}
		if !q.Empty() {
			return fmt.Errorf("%w: %d elements left after %d", ErrOrderViolation, q.Len(), n)
		}
		return nil
	}
	go func() { done <- consume() }()

	// Producer
	sw := spin.Wait{}
	var full int64
	for i := uint64(1); i <= n; i++ {
		for q.Enqueue(&i) != nil {
			full++
			if full%checkEvery == 0 && (abort.Load() || ctx.Err() != nil) {
				abort.Store(true)
				return Result{}, <-done
			}
			sw.Once()
		}
		sw.Reset()
	}

	err := <-done
	elapsed := time.Since(start)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Variant:  cfg.Variant,
		Capacity: q.Cap(),
		Count:    cfg.Count,
		Elapsed:  elapsed,
		Full:     full,
		Empty:    misses,
	}, nil
}

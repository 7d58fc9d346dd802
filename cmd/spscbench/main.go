// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command spscbench streams elements through an SPSC queue between two
// goroutines, verifies ordering, and reports throughput.
//
// Usage:
//
//	spscbench run --capacity 1024 --count 10000000
//	spscbench compare --capacity 64 --rounds 5
//	SPSCBENCH_VARIANT=uncached spscbench run
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

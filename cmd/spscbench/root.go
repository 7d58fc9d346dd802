// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"code.hybscloud.com/spsc/internal/bench"
)

const version = "0.1.0"

// newRootCmd wires the command tree to a fresh viper instance so tests can
// build independent trees.
func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:   "spscbench",
		Short: "Throughput and ordering driver for the SPSC ring queue",
		Long: `spscbench runs one producer and one consumer goroutine over a bounded
SPSC ring queue. The consumer verifies that every element arrives exactly
once and in order; the run fails otherwise.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v, cfgFile)
		},
	}

	def := bench.DefaultConfig()
	flags := root.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (YAML)")
	flags.Int("capacity", def.Capacity, "queue capacity (power of 2 unless --round-up)")
	flags.Int("count", def.Count, "elements transferred per round")
	flags.Int("rounds", def.Rounds, "number of rounds")
	flags.String("variant", string(def.Variant), "cursor protocol: cached or uncached")
	flags.Bool("round-up", def.RoundUp, "round capacity up to a power of 2")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")

	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}

	root.AddCommand(newRunCmd(v), newCompareCmd(v), newVersionCmd())
	return root
}

func initConfig(v *viper.Viper, cfgFile string) error {
	// Defaults register every key, so environment overrides reach Unmarshal
	// even when no flag or file mentions them.
	def := bench.DefaultConfig()
	v.SetDefault("capacity", def.Capacity)
	v.SetDefault("count", def.Count)
	v.SetDefault("rounds", def.Rounds)
	v.SetDefault("variant", string(def.Variant))
	v.SetDefault("round-up", def.RoundUp)
	v.SetDefault("log-level", "info")

	v.SetEnvPrefix("SPSCBENCH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if cfgFile == "" {
		return nil
	}
	v.SetConfigFile(cfgFile)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config %s: %w", cfgFile, err)
	}
	return nil
}

// loadConfig resolves flags, environment and config file into a run
// configuration.
func loadConfig(v *viper.Viper) (bench.Config, error) {
	cfg := bench.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Variant = bench.Variant(strings.ToLower(string(cfg.Variant)))
	return cfg, cfg.Validate()
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	logConfig := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		logConfig = zap.NewDevelopmentConfig()
	}
	logConfig.Level = zap.NewAtomicLevelAt(lvl)
	return logConfig.Build()
}

func newRunCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the configured variant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			logger, err := newLogger(v.GetString("log-level"))
			if err != nil {
				return err
			}
			defer logger.Sync()

			logger.Info("starting run",
				zap.String("variant", string(cfg.Variant)),
				zap.Int("capacity", cfg.Capacity),
				zap.Int("count", cfg.Count),
				zap.Int("rounds", cfg.Rounds),
			)

			results, err := bench.Run(cmd.Context(), cfg, logger)
			writeResults(cmd.OutOrStdout(), results)
			if err != nil {
				return fmt.Errorf("run failed: %w", err)
			}
			return nil
		},
	}
}

func newCompareCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Run the cached and uncached variants with identical parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			logger, err := newLogger(v.GetString("log-level"))
			if err != nil {
				return err
			}
			defer logger.Sync()

			var all []bench.Result
			best := map[bench.Variant]float64{}
			for _, variant := range []bench.Variant{bench.Cached, bench.Uncached} {
				cfg.Variant = variant
				logger.Info("starting variant", zap.String("variant", string(variant)))
				results, err := bench.Run(cmd.Context(), cfg, logger)
				all = append(all, results...)
				if err != nil {
					writeResults(cmd.OutOrStdout(), all)
					return fmt.Errorf("%s run failed: %w", variant, err)
				}
				for _, r := range results {
					if b, ok := best[variant]; !ok || r.NsPerOp() < b {
						best[variant] = r.NsPerOp()
					}
				}
			}

			out := cmd.OutOrStdout()
			writeResults(out, all)
			if c, u := best[bench.Cached], best[bench.Uncached]; c > 0 && u > 0 {
				fmt.Fprintf(out, "\nbest cached %.2f ns/op, best uncached %.2f ns/op, speedup %.2fx\n", c, u, u/c)
			}
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "spscbench %s\n", version)
			return nil
		},
	}
}

func writeResults(w io.Writer, results []bench.Result) {
	if len(results) == 0 {
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VARIANT\tCAPACITY\tCOUNT\tELAPSED\tNS/OP\tMOPS/S\tFULL\tEMPTY")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%v\t%.2f\t%.2f\t%d\t%d\n",
			r.Variant, r.Capacity, r.Count, r.Elapsed, r.NsPerOp(), r.OpsPerSec()/1e6, r.Full, r.Empty)
	}
	tw.Flush()
}

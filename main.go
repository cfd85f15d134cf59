package main

import (
	"fmt"
	"io"
	"os"

	"github.com/btree-query-bench/intmap/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func main() {
	if err := NewRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewRootCommand builds the intmapbench command tree writing to stdout and
// stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	rc := &cobra.Command{
		Use:           "intmapbench",
		Short:         "Benchmark and inspect the bucketed splay integer map.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rc.AddCommand(newBenchCommand(stdout))
	rc.AddCommand(newDumpCommand(stdout))
	rc.AddCommand(newDOTCommand(stdout))
	rc.SetOut(stdout)
	rc.SetErr(stderr)
	return rc
}

func newBenchCommand(stdout io.Writer) *cobra.Command {
	cfg := config.Default()
	var configPath string

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run the workload suite against the selected structures.",
		Long: `Run the workload suite against the selected structures.

Settings come from flags, from INTMAPBENCH_* environment variables, and
from an optional TOML file given with --config, in that priority order.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(viper.New(), cmd.Flags(), configPath); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			log, err := newLogger(cfg.Verbose)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			return runBench(cfg, stdout, log)
		},
	}
	cfg.Flags(cmd.Flags())
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "configuration file to read from")
	return cmd
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

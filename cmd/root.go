// cmd/root.go
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	tissueWidth  int
	tissueHeight int
	minutes      float64
	seed         int64
	paramsPath   string
	outputDir    string
	seedPath     string
	writeTraces  bool
	logLevel     string
)

var rootCmd = &cobra.Command{
	Use:   "segclock-sim",
	Short: "Deterministic and stochastic simulators for the zebrafish segmentation clock",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&tissueWidth, "width", "x", 2, "tissue width")
	rootCmd.PersistentFlags().IntVarP(&tissueHeight, "height", "y", 1, "tissue height")
	rootCmd.PersistentFlags().Float64VarP(&minutes, "minutes", "m", 1200, "total simulated minutes")
	rootCmd.PersistentFlags().Int64VarP(&seed, "seed", "s", 1, "PRNG seed")
	rootCmd.PersistentFlags().StringVarP(&paramsPath, "params", "i", "", "parameter-set CSV file (random sets generated if omitted)")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", ".", "output directory")
	rootCmd.PersistentFlags().StringVarP(&seedPath, "seed-file", "k", "seed.txt", "seed persistence file path")
	rootCmd.PersistentFlags().BoolVarP(&writeTraces, "write-traces", "w", false, "write per-mutant trace files")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&sweepConfigPath, "config", "", "optional YAML sweep config file (CLI flags override it)")
	rootCmd.PersistentFlags().IntVarP(&sweepJobs, "jobs", "j", 1, "parameter sets evaluated concurrently (1 disables concurrency)")

	rootCmd.AddCommand(detCmd)
	rootCmd.AddCommand(stoCmd)
}

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// sweepConfigPath is the optional YAML file (§6 addition, SPEC_FULL.md §6)
// that can set defaults for any CLI flag, letting a sweep be reproduced from
// a checked-in file instead of a long command line. Flags given on the
// command line always win over the file.
var sweepConfigPath string

// sweepJobs bounds how many parameter sets the det driver evaluates
// concurrently (C12's worker pool, §5 "safely parallelizable by partitioning
// the parameter-set list"). 1 disables concurrency. The sto driver runs its
// sets sequentially and does not read it.
var sweepJobs int

// SweepConfig mirrors the CLI surface as YAML-settable defaults. Every field
// is a pointer so the zero value (unset in the file) is distinguishable from
// an explicit zero.
type SweepConfig struct {
	Width         *int     `yaml:"x"`
	Height        *int     `yaml:"y"`
	Minutes       *float64 `yaml:"minutes"`
	Seed          *int64   `yaml:"seed"`
	Params        *string  `yaml:"params"`
	Output        *string  `yaml:"output"`
	SeedFile      *string  `yaml:"seed_file"`
	WriteTraces   *bool    `yaml:"write_traces"`
	Jobs          *int     `yaml:"jobs"`
	Epsilon       *float64 `yaml:"epsilon"`
	PropensityCap *float64 `yaml:"propensity_cap"`
	Count         *int     `yaml:"count"`
	MaxTimesteps  *int64   `yaml:"max_timesteps"`
	Runs          *int     `yaml:"runs"`
	Approximate   *bool    `yaml:"approximate"`
	Granularity   *float64 `yaml:"granularity"`
	Level         *int     `yaml:"level"`
}

func loadSweepConfigFile(path string) (*SweepConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("io: cannot open sweep config %s: %v", path, err)
	}
	defer f.Close()
	var cfg SweepConfig
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("configuration: malformed sweep config %s: %v", path, err)
	}
	return &cfg, nil
}

// applySweepConfig overwrites any flag on cmd's (and its persistent parents')
// flag set that was NOT explicitly given on the command line, using the
// corresponding non-nil SweepConfig field.
func applySweepConfig(cmd *cobra.Command, cfg *SweepConfig) {
	set := func(name string, changed bool, apply func()) {
		if !changed {
			apply()
		}
	}
	flags := cmd.Flags()
	if cfg.Width != nil {
		set("width", flags.Changed("width"), func() { tissueWidth = *cfg.Width })
	}
	if cfg.Height != nil {
		set("height", flags.Changed("height"), func() { tissueHeight = *cfg.Height })
	}
	if cfg.Minutes != nil {
		set("minutes", flags.Changed("minutes"), func() { minutes = *cfg.Minutes })
	}
	if cfg.Seed != nil {
		set("seed", flags.Changed("seed"), func() { seed = *cfg.Seed })
	}
	if cfg.Params != nil {
		set("params", flags.Changed("params"), func() { paramsPath = *cfg.Params })
	}
	if cfg.Output != nil {
		set("output", flags.Changed("output"), func() { outputDir = *cfg.Output })
	}
	if cfg.SeedFile != nil {
		set("seed-file", flags.Changed("seed-file"), func() { seedPath = *cfg.SeedFile })
	}
	if cfg.WriteTraces != nil {
		set("write-traces", flags.Changed("write-traces"), func() { writeTraces = *cfg.WriteTraces })
	}
	if cfg.Jobs != nil {
		set("jobs", flags.Changed("jobs"), func() { sweepJobs = *cfg.Jobs })
	}
	if cfg.Epsilon != nil {
		set("epsilon", flags.Changed("epsilon"), func() { detEpsilon = *cfg.Epsilon })
	}
	if cfg.PropensityCap != nil {
		set("propensity-cap", flags.Changed("propensity-cap"), func() { detPropensityCap = *cfg.PropensityCap })
	}
	if cfg.Count != nil {
		set("count", flags.Changed("count"), func() { detParamSetCount = *cfg.Count })
	}
	if cfg.MaxTimesteps != nil {
		set("max-timesteps", flags.Changed("max-timesteps"), func() { stoMaxTimesteps = *cfg.MaxTimesteps })
	}
	if cfg.Runs != nil {
		set("runs", flags.Changed("runs"), func() { stoRuns = *cfg.Runs })
	}
	if cfg.Approximate != nil {
		set("approximate", flags.Changed("approximate"), func() { stoApproximate = *cfg.Approximate })
	}
	if cfg.Granularity != nil {
		set("granularity", flags.Changed("granularity"), func() { stoGranularity = *cfg.Granularity })
	}
	if cfg.Level != nil {
		set("level", flags.Changed("level"), func() { stoLevel = *cfg.Level })
	}
}

// loadSweepConfigIfSet applies the --config file, if any, to cmd. Called
// from each subcommand's PreRunE so flag-changed state reflects that
// subcommand's own flag set.
func loadSweepConfigIfSet(cmd *cobra.Command) error {
	if sweepConfigPath == "" {
		return nil
	}
	cfg, err := loadSweepConfigFile(sweepConfigPath)
	if err != nil {
		return err
	}
	applySweepConfig(cmd, cfg)
	return nil
}

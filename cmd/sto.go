package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/aylab/segclock-sim/sim"
)

var (
	stoMaxTimesteps int64
	stoRuns         int
	stoApproximate  bool
	stoGranularity  float64
	stoLevel        int
)

var stoCmd = &cobra.Command{
	Use:     "sto",
	Short:   "Run the stochastic (Anderson NRM / Cao tau-leap) core over one or more parameter sets",
	PreRunE: func(cmd *cobra.Command, args []string) error { return loadSweepConfigIfSet(cmd) },
	RunE:    runSTO,
}

func init() {
	stoCmd.Flags().Int64VarP(&stoMaxTimesteps, "max-timesteps", "t", 0, "maximum scheduler steps (0 = unbounded)")
	stoCmd.Flags().IntVarP(&stoRuns, "runs", "r", 1, "independent repetitions per parameter set")
	stoCmd.Flags().BoolVarP(&stoApproximate, "approximate", "a", true, "enable adaptive tau-leaping (false forces pure next-reaction)")
	stoCmd.Flags().Float64VarP(&stoGranularity, "granularity", "g", 1.0, "output cadence, simulated minutes per trace line")
	stoCmd.Flags().IntVarP(&stoLevel, "level", "l", sim.SpeciesHer1mRNA, "species index written to the output trace (0..13)")
}

func runSTO(cmd *cobra.Command, args []string) error {
	topo, err := buildTopology()
	if err != nil {
		os.Exit(exitCode(err))
	}
	sets, err := loadParamSets(1)
	if err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
	if err := ensureOutputDir(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}
	if err := writeSeedFile(); err != nil {
		logrus.Error(err)
		os.Exit(1)
	}

	acceptedPath := filepath.Join(outputDir, "accepted.csv")
	acceptedFile, err := os.Create(acceptedPath)
	if err != nil {
		logrus.Errorf("io: cannot create %s: %v", acceptedPath, err)
		os.Exit(1)
	}
	defer acceptedFile.Close()

	featuresPath := filepath.Join(outputDir, "features.csv")
	featuresFile, err := os.Create(featuresPath)
	if err != nil {
		logrus.Errorf("io: cannot create %s: %v", featuresPath, err)
		os.Exit(1)
	}
	defer featuresFile.Close()
	fmt.Fprintln(featuresFile, strings.Join(featuresCSVHeader(), ","))

	accepted := 0
	for i, base := range sets {
		for run := 0; run < stoRuns; run++ {
			rates, err := sim.NewRates(base)
			if err != nil {
				logrus.Warnf("set %d run %d: %v", i, run, err)
				continue
			}
			ctx := sim.NewRunContext(seed+int64(run), i)

			cfg := sim.STOConfig{
				Minutes:      minutes,
				MaxTimesteps: stoMaxTimesteps,
				Approximate:  stoApproximate,
				Granularity:  stoGranularity,
				Level:        sim.SpeciesHer1mRNA,
			}
			simulate := func(r *sim.Rates) ([]float64, float64, bool) {
				result, err := sim.RunSTO(r, topo, cfg, initialState, ctx.RNG)
				if err != nil {
					logrus.Warnf("set %d run %d: %v", i, run, err)
					return nil, stoGranularity, false
				}
				times, rows := result.Ring.Rows()
				_ = times
				trace := make([]float64, len(rows))
				for n, row := range rows {
					trace[n] = row[0]
				}
				return trace, stoGranularity, result.OK
			}

			battery, err := sim.RunBattery(rates, simulate)
			if err != nil {
				logrus.Warnf("set %d run %d: battery error: %v", i, run, err)
				continue
			}
			if !battery.Accepted {
				logrus.Infof("set %d run %d: rejected", i, run)
				continue
			}
			logrus.Infof("set %d run %d: passed", i, run)
			accepted++
			if err := writeParamSet(acceptedFile, base); err != nil {
				logrus.Errorf("io: writing accepted set %d: %v", i, err)
			}
			if err := writeFeaturesRow(featuresFile, i, battery); err != nil {
				logrus.Errorf("io: writing features row %d: %v", i, err)
			}
			if writeTraces {
				if err := writeWildTrace(topo, rates, cfg, i, run); err != nil {
					logrus.Errorf("io: writing trace for set %d run %d: %v", i, run, err)
				}
			}
		}
	}
	logrus.Infof("STO complete: %d accepted run(s) across %d parameter set(s)", accepted, len(sets))
	return nil
}

// writeWildTrace re-runs the wild-type (unmutated) parameterization at the
// user-requested print level and writes the §6 output-file format: a header
// line "<W> <H>" followed by one tab-separated "<t> <v_0> ... <v_{cells-1}>"
// line per recorded granularity tick.
func writeWildTrace(topo *sim.Topology, rates *sim.Rates, cfg sim.STOConfig, setIdx, run int) error {
	printCfg := cfg
	printCfg.Level = stoLevel
	printCtx := sim.NewRunContext(seed+int64(run), setIdx)
	result, err := sim.RunSTO(rates, topo, printCfg, initialState, printCtx.RNG)
	if err != nil {
		return err
	}
	path := filepath.Join(outputDir, string(sim.MutantWild), fmt.Sprintf("set%d_run%d.trace", setIdx, run))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create %s: %v", path, err)
	}
	defer f.Close()

	fmt.Fprintf(f, "%d %d\n", topo.Width, topo.Height)
	times, rows := result.Ring.Rows()
	for i, t := range times {
		fmt.Fprintf(f, "%g", t)
		for _, v := range rows[i] {
			fmt.Fprintf(f, "\t%g", v)
		}
		fmt.Fprintln(f, "\t")
	}
	return nil
}

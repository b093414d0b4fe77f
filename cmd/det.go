package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/aylab/segclock-sim/sim"
)

var (
	detEpsilon       float64
	detPropensityCap float64
	detParamSetCount int
)

var detCmd = &cobra.Command{
	Use:     "det",
	Short:   "Run the deterministic (Euler DDE) core over one or more parameter sets",
	PreRunE: func(cmd *cobra.Command, args []string) error { return loadSweepConfigIfSet(cmd) },
	RunE:    runDET,
}

func init() {
	detCmd.Flags().Float64VarP(&detEpsilon, "epsilon", "e", 0.01, "Euler integration step, minutes")
	detCmd.Flags().Float64VarP(&detPropensityCap, "propensity-cap", "a", 0, "optional propensity-cap guard (0 disables)")
	detCmd.Flags().IntVarP(&detParamSetCount, "count", "p", 1, "number of random parameter sets to generate (ignored if -i is given)")
}

func runDET(cmd *cobra.Command, args []string) error {
	topo, err := buildTopology()
	if err != nil {
		os.Exit(exitCode(err))
	}
	sets, err := loadParamSets(detParamSetCount)
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

	cfg := sim.DETConfig{Epsilon: detEpsilon, Minutes: minutes, PropensityCap: detPropensityCap}
	outcomes := evaluateDETSets(sets, topo, cfg)

	accepted := 0
	for i, outcome := range outcomes {
		if outcome.err != nil {
			logrus.Warnf("set %d: %v", i, outcome.err)
			continue
		}
		if !outcome.battery.Accepted {
			logrus.Infof("set %d: rejected", i)
			continue
		}
		logrus.Infof("set %d: passed", i)
		accepted++
		if err := writeParamSet(acceptedFile, sets[i]); err != nil {
			logrus.Errorf("io: writing accepted set %d: %v", i, err)
		}
		if err := writeFeaturesRow(featuresFile, i, outcome.battery); err != nil {
			logrus.Errorf("io: writing features row %d: %v", i, err)
		}
	}
	logrus.Infof("DET complete: %d/%d parameter sets passed", accepted, len(sets))
	return nil
}

// detOutcome is one parameter set's mutant-battery result, collected from a
// worker so the caller can write output sequentially and deterministically.
type detOutcome struct {
	battery sim.BatteryResult
	err     error
}

// evaluateDETSets runs the mutant battery over every parameter set, bounded
// to sweepJobs concurrent workers (C12's worker pool, §5 "safely
// parallelizable by partitioning the parameter-set list") - each set owns its
// own Rates/ConcStore, so no shared mutable state crosses goroutines.
func evaluateDETSets(sets [][sim.NumRates]float64, topo *sim.Topology, cfg sim.DETConfig) []detOutcome {
	outcomes := make([]detOutcome, len(sets))
	jobs := sweepJobs
	if jobs < 1 {
		jobs = 1
	}
	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < jobs; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				outcomes[i] = evaluateDETSet(sets[i], topo, cfg)
			}
		}()
	}
	for i := range sets {
		indices <- i
	}
	close(indices)
	wg.Wait()
	return outcomes
}

func evaluateDETSet(base [sim.NumRates]float64, topo *sim.Topology, cfg sim.DETConfig) detOutcome {
	rates, err := sim.NewRates(base)
	if err != nil {
		return detOutcome{err: err}
	}
	simulate := func(r *sim.Rates) ([]float64, float64, bool) {
		result, err := sim.RunDET(r, topo, cfg, initialState)
		if err != nil {
			return nil, detEpsilon, false
		}
		return result.Store.Trace(sim.SpeciesHer1mRNA, 0), detEpsilon, result.OK
	}
	battery, err := sim.RunBattery(rates, simulate)
	if err != nil {
		return detOutcome{err: fmt.Errorf("battery error: %v", err)}
	}
	return detOutcome{battery: battery}
}

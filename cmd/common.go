package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	sim "github.com/aylab/segclock-sim/sim"
)

// loadParamSets returns the sets read from paramsPath, or n freshly-generated
// random sets (drawn from the documented ranges) if paramsPath is empty.
func loadParamSets(n int) ([][sim.NumRates]float64, error) {
	if paramsPath == "" {
		logrus.Infof("no parameter file given, generating %d random set(s) from seed %d", n, seed)
		return generateParamSets(n, seed), nil
	}
	f, err := os.Open(paramsPath)
	if err != nil {
		return nil, fmt.Errorf("io: cannot open parameter file %s: %v", paramsPath, err)
	}
	defer f.Close()
	return readParamSets(f)
}

// ensureOutputDir creates the output directory (and, when traces are
// requested, the per-mutant subdirectories of §6) if they do not exist.
func ensureOutputDir() error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("io: cannot create output directory %s: %v", outputDir, err)
	}
	if writeTraces {
		for _, m := range mutantBatteryOrder {
			dir := filepath.Join(outputDir, string(m))
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("io: cannot create trace directory %s: %v", dir, err)
			}
		}
	}
	return nil
}

// writeSeedFile persists the effective seed to seedPath (relative to
// outputDir), per §6's "seed.txt recording the effective seed of a run".
func writeSeedFile() error {
	path := filepath.Join(outputDir, seedPath)
	return os.WriteFile(path, []byte(fmt.Sprintf("%d\n", seed)), 0o644)
}

// buildTopology validates the -x/-y tissue dimensions into a sim.Topology.
func buildTopology() (*sim.Topology, error) {
	return sim.NewTopology(tissueWidth, tissueHeight)
}

// initialState is the quiescent starting concentration: every species at 0,
// matching the delay guard's "pre-delay history is 0" convention (invariant
// 11) and original_source/deterministic/main.cpp's zeroed initial
// arrays.
var initialState = [sim.NumSpecies]float64{}

// exitCode reports the process exit code for an error per §6: sim.Error
// kinds map through ExitCode(); anything else is a generic invalid-argument
// failure.
func exitCode(err error) int {
	if simErr, ok := err.(*sim.Error); ok {
		return simErr.ExitCode()
	}
	return 1
}

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"

	sim "github.com/aylab/segclock-sim/sim"
)

// paramRange is a closed [low, high] interval from the glossary's documented
// parameter ranges, used by the random parameter-set generator.
type paramRange struct {
	rate     int
	low, high float64
}

// documentedRanges mirrors the glossary's closed intervals (§ GLOSSARY,
// "Documented parameter ranges"). delaymh13 is the sentinel rate and is
// never drawn.
var documentedRanges = []paramRange{
	{sim.RatePSH1, 30, 60}, {sim.RatePSH7, 10, 57}, {sim.RatePSH13, 27, 57}, {sim.RatePSDelta, 22, 59},
	{sim.RatePDH1, 0.12, 0.37}, {sim.RatePDH7, 0.11, 0.4}, {sim.RatePDH13, 0.11, 0.39}, {sim.RatePDDelta, 0.15, 0.38},
	{sim.RateMSH1, 32, 63}, {sim.RateMSH7, 34, 62}, {sim.RateMSH13, 31, 62}, {sim.RateMSDelta, 31, 65},
	{sim.RateMDH1, 0.2, 0.38}, {sim.RateMDH7, 0.28, 0.4}, {sim.RateMDH13, 0.13, 0.39}, {sim.RateMDDelta, 0.12, 0.39},
	{sim.RateDDGH1H1, 0.25, 0.4}, {sim.RateDDGH1H7, 0.16, 0.34}, {sim.RateDDGH1H13, 0.1, 0.36},
	{sim.RateDDGH7H7, 0.12, 0.4}, {sim.RateDDGH7H13, 0.26, 0.4}, {sim.RateDDGH13H13, 0.11, 0.34},
	{sim.RateDelayMH1, 8.8, 12.0}, {sim.RateDelayMH7, 8.6, 11.6}, {sim.RateDelayMDelta, 6.1, 12.0},
	{sim.RateDelayPH1, 0.8, 2.0}, {sim.RateDelayPH7, 0.4, 1.8}, {sim.RateDelayPH13, 0.6, 1.8}, {sim.RateDelayPDelta, 10, 18},
	{sim.RateDAH1H1, 0.005, 0.03}, {sim.RateDAH1H7, 6e-4, 9e-3}, {sim.RateDAH1H13, 0.006, 0.029},
	{sim.RateDAH7H7, 0.002, 0.024}, {sim.RateDAH7H13, 0.007, 0.03}, {sim.RateDAH13H13, 0.001, 0.016},
	{sim.RateDDIH1H1, 0.06, 0.3}, {sim.RateDDIH1H7, 0.03, 0.28}, {sim.RateDDIH1H13, 0.004, 0.18},
	{sim.RateDDIH7H7, 0.07, 0.3}, {sim.RateDDIH7H13, 0.03, 0.3}, {sim.RateDDIH13H13, 0.05, 0.29},
	{sim.RateCritPH1H1, 160, 720}, {sim.RateCritPH7H13, 200, 920}, {sim.RateCritPDelta, 240, 720},
}

// randomParamSet draws one rate vector uniformly within documentedRanges,
// leaving delaymh13 at its sentinel zero value.
func randomParamSet(rng *rand.Rand) [sim.NumRates]float64 {
	var base [sim.NumRates]float64
	for _, r := range documentedRanges {
		base[r.rate] = r.low + rng.Float64()*(r.high-r.low)
	}
	return base
}

// generateParamSets produces n random parameter sets (the -p flag, DET's
// "parameter-set count" when no -i file is supplied).
func generateParamSets(n int, seed int64) [][sim.NumRates]float64 {
	rng := rand.New(rand.NewSource(seed))
	sets := make([][sim.NumRates]float64, n)
	for i := range sets {
		sets[i] = randomParamSet(rng)
	}
	return sets
}

// readParamSets parses the §6 parameter-set CSV format: 45 comma-separated
// reals per line, one set per line, no comments or blank lines.
func readParamSets(r io.Reader) ([][sim.NumRates]float64, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	var sets [][sim.NumRates]float64
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != sim.NumRates {
			return nil, fmt.Errorf("configuration: parameter file line %d: expected %d fields, got %d", lineNo, sim.NumRates, len(fields))
		}
		var set [sim.NumRates]float64
		for i, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, fmt.Errorf("configuration: parameter file line %d field %d: %v", lineNo, i, err)
			}
			set[i] = v
		}
		sets = append(sets, set)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("io: reading parameter file: %v", err)
	}
	return sets, nil
}

// writeParamSet appends one accepted parameter set in canonical CSV order
// (the "Accepted-set CSV" of §6).
func writeParamSet(w io.Writer, set [sim.NumRates]float64) error {
	fields := make([]string, sim.NumRates)
	for i, v := range set {
		fields[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	_, err := fmt.Fprintln(w, strings.Join(fields, ","))
	return err
}

// featuresCSVHeader lists the header of the optional features CSV (§6).
func featuresCSVHeader() []string {
	cols := []string{"set"}
	for _, m := range mutantBatteryOrder {
		cols = append(cols, "per "+string(m), "amp "+string(m), "peak to trough "+string(m))
	}
	return cols
}

// mutantBatteryOrder mirrors sim's fixed wild-then-five-mutant sequence, for
// column labelling only.
var mutantBatteryOrder = []sim.MutantName{
	sim.MutantWild, sim.MutantDelta, sim.MutantHer13, sim.MutantHer1, sim.MutantHer7, sim.MutantHer7Her13,
}

func writeFeaturesRow(w io.Writer, setIdx int, battery sim.BatteryResult) error {
	fields := []string{strconv.Itoa(setIdx)}
	for _, m := range mutantBatteryOrder {
		res, ok := battery.Results[m]
		if !ok {
			fields = append(fields, "", "", "")
			continue
		}
		fields = append(fields,
			strconv.FormatFloat(res.Features.Period, 'g', -1, 64),
			strconv.FormatFloat(res.Features.Amplitude, 'g', -1, 64),
			strconv.FormatFloat(res.Features.PeakToTroughLast, 'g', -1, 64),
		)
	}
	_, err := fmt.Fprintln(w, strings.Join(fields, ","))
	return err
}

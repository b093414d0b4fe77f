package sim

// Features holds the oscillation statistics extracted from a her1 mRNA
// trace (C7): the last full period/amplitude/peak-to-trough ratio, and,
// for the wild-type trace only, a mid-trace peak-to-trough ratio used to
// test for sustained oscillation.
type Features struct {
	Period            float64
	Amplitude         float64
	PeakToTroughLast  float64
	PeakToTroughMid   float64
	HasMid            bool
}

// ExtractFeatures scans her1 mRNA at cell 0, step epsilon, per §4.6.
// Grounded on original_source/deterministic/functions.cpp::ofeatures.
func ExtractFeatures(trace []float64, epsilon float64, scanMid bool) Features {
	n := len(trace)
	var (
		peakTimes, peakVals     [2]float64
		troughTimes, troughVals [2]float64
		nPeaks, nTroughs        int
	)
	for i := 1; i <= n-2; i++ {
		v := trace[i]
		if v > trace[i-1] && v > trace[i+1] {
			peakTimes[0], peakTimes[1] = peakTimes[1], float64(i)*epsilon
			peakVals[0], peakVals[1] = peakVals[1], v
			nPeaks++
		} else if v < trace[i-1] && v < trace[i+1] {
			troughTimes[0], troughTimes[1] = troughTimes[1], float64(i)*epsilon
			troughVals[0], troughVals[1] = troughVals[1], v
			nTroughs++
		}
	}

	f := Features{}
	if nPeaks >= 2 {
		f.Period = peakTimes[1] - peakTimes[0]
	}
	if nPeaks >= 1 && nTroughs >= 1 {
		f.Amplitude = peakVals[1] - troughVals[1]
		f.PeakToTroughLast = peakVals[1] / divGuard(troughVals[1])
	}

	if scanMid && n >= 4 {
		var midPeakVal, midTroughVal float64
		haveMidPeak, haveMidTrough := false, false
		for m := 2; m < n/2; m++ {
			v := trace[m]
			if v > trace[m-1] && v > trace[m+1] {
				midPeakVal = v
				haveMidPeak = true
			} else if v < trace[m-1] && v < trace[m+1] {
				midTroughVal = v
				haveMidTrough = true
			}
		}
		if haveMidPeak && haveMidTrough {
			f.PeakToTroughMid = midPeakVal / divGuard(midTroughVal)
			f.HasMid = true
		}
	}
	return f
}

// divGuard substitutes 1 for a zero trough, per §4.6's "substitute 1 when
// the trough is 0 to avoid division [by zero]".
func divGuard(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

// WildPredicate implements the glossary's wild-type acceptance test:
// peak_to_trough_mid >= 1.5 AND peak_to_trough_last >= 1.5 AND
// peak_to_trough_mid/peak_to_trough_last <= 1.5.
func WildPredicate(f Features) bool {
	if !f.HasMid {
		return false
	}
	return f.PeakToTroughMid >= 1.5 && f.PeakToTroughLast >= 1.5 && f.PeakToTroughMid/f.PeakToTroughLast <= 1.5
}

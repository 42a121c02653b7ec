package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/modescope/modescope/chroma"
	"github.com/modescope/modescope/theory"
)

// Krumhansl-Schmuckler key profiles: expected relative pitch class salience
// for a key with tonic at position 0, derived from listener probe-tone
// ratings.
var (
	majorProfile = []float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
	minorProfile = []float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}
)

// degenerateNorm is the vector norm below which key estimation is not
// attempted
const degenerateNorm = 1e-6

// KeyEstimate is the result of profile-correlation key estimation
type KeyEstimate struct {
	Tonic        string  `json:"tonic"`
	Mode         string  `json:"mode"`
	KeySignature string  `json:"key_signature"`
	Confidence   float64 `json:"confidence"`
}

// NAKeyEstimate returns the sentinel estimate for degenerate input
func NAKeyEstimate() KeyEstimate {
	return KeyEstimate{Tonic: "N/A", Mode: "N/A", KeySignature: "N/A", Confidence: 0}
}

// EstimateKey finds the best-fitting major or minor key for a pitch class
// intensity vector. Each of the 24 candidates correlates the vector against
// the matching profile rotated to the candidate tonic; the highest Pearson
// correlation wins, with ties broken by enumeration order (tonic 0..11,
// major before minor). Confidence rescales the winning correlation from
// [-1,1] to [0,1].
func EstimateKey(v chroma.PitchClassVector) KeyEstimate {
	if v.Norm() < degenerateNorm {
		return NAKeyEstimate()
	}

	bestCorr := math.Inf(-1)
	bestTonic := -1
	bestMajor := false

	for tonic := 0; tonic < chroma.NumPitchClasses; tonic++ {
		for _, mode := range []struct {
			profile []float64
			major   bool
		}{{majorProfile, true}, {minorProfile, false}} {
			corr := correlateWithProfile(v, mode.profile, tonic)
			if math.IsNaN(corr) || math.IsInf(corr, 0) {
				continue
			}
			if corr > bestCorr {
				bestCorr = corr
				bestTonic = tonic
				bestMajor = mode.major
			}
		}
	}

	// Every candidate non-finite: constant input correlates with nothing
	if bestTonic < 0 {
		return NAKeyEstimate()
	}

	confidence := clamp01((bestCorr + 1) / 2)

	tonicName := chroma.PitchClassNames[bestTonic]
	if bestMajor {
		return KeyEstimate{
			Tonic:        tonicName,
			Mode:         string(theory.ModeIonian),
			KeySignature: tonicName + " major",
			Confidence:   confidence,
		}
	}
	return KeyEstimate{
		Tonic:        tonicName,
		Mode:         string(theory.ModeAeolian),
		KeySignature: tonicName + " minor",
		Confidence:   confidence,
	}
}

// correlateWithProfile computes the Pearson correlation between the vector
// and the profile rotated so its tonic position aligns with the given tonic
func correlateWithProfile(v chroma.PitchClassVector, profile []float64, tonic int) float64 {
	rotated := make([]float64, len(profile))
	for i := range profile {
		rotated[(i+tonic)%len(profile)] = profile[i]
	}

	return stat.Correlation(v[:], rotated, nil)
}

// keyOrDefault parses an estimated key signature, recovering to C major when
// the string cannot be parsed (e.g. the "N/A" sentinel)
func keyOrDefault(signature string) theory.Key {
	k, err := theory.Parse(signature)
	if err != nil {
		return theory.Default()
	}
	return k
}

// clamp01 clamps a value to [0, 1]
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

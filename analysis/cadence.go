package analysis

import (
	"sort"

	"github.com/modescope/modescope/chroma"
	"github.com/modescope/modescope/theory"
)

// cadenceStrengthScale rescales raw tonic+dominant energy share into a more
// intuitive 0-1 range
const cadenceStrengthScale = 2.5

// CadenceResult reports tonic/dominant prominence in a passage
type CadenceResult struct {
	Detected bool    `json:"detected"`
	Strength float64 `json:"strength"`
}

// DetectCadence looks for V-I harmonic prominence of a key in a chromagram.
// It is a lightweight heuristic signal for region classification, not a
// chord-progression analyzer: detection fires only when both the tonic and
// the dominant pitch class rank among the three most prominent bins of the
// frame-averaged chromagram.
func DetectCadence(m *chroma.Matrix, key theory.Key) CadenceResult {
	avg := m.MeanVector()
	if avg.Norm() < degenerateNorm {
		return CadenceResult{Detected: false, Strength: 0}
	}

	tonic := key.Tonic
	dominant := key.Dominant()

	top := topIndices(avg, 3)
	if !contains(top, tonic) || !contains(top, dominant) {
		return CadenceResult{Detected: false, Strength: 0}
	}

	// Strength is the combined normalized energy of tonic and dominant
	strength := (avg[tonic] + avg[dominant]) / avg.Sum() * cadenceStrengthScale
	if strength > 1.0 {
		strength = 1.0
	}

	return CadenceResult{Detected: true, Strength: strength}
}

// topIndices returns the indices of the n highest-intensity pitch classes
func topIndices(v chroma.PitchClassVector, n int) []int {
	indices := make([]int, chroma.NumPitchClasses)
	for i := range indices {
		indices[i] = i
	}

	sort.SliceStable(indices, func(a, b int) bool {
		return v[indices[a]] > v[indices[b]]
	})

	if n > len(indices) {
		n = len(indices)
	}
	return indices[:n]
}

func contains(indices []int, target int) bool {
	for _, idx := range indices {
		if idx == target {
			return true
		}
	}
	return false
}

package chroma

import (
	"math"
)

// NumPitchClasses is the number of equal-tempered pitch classes
const NumPitchClasses = 12

// PitchClassNames maps pitch class index (0=C .. 11=B) to its name
var PitchClassNames = [NumPitchClasses]string{
	"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B",
}

// PitchClassVector is a 12-bin pitch class intensity vector, the unit of
// exchange between feature aggregation and key estimation
type PitchClassVector [NumPitchClasses]float64

// Sum returns the total intensity across all pitch classes
func (v PitchClassVector) Sum() float64 {
	total := 0.0
	for _, x := range v {
		total += x
	}
	return total
}

// Norm returns the Euclidean norm of the vector
func (v PitchClassVector) Norm() float64 {
	ss := 0.0
	for _, x := range v {
		ss += x * x
	}
	return math.Sqrt(ss)
}

// Rotate returns the vector rotated upward by k semitones, so the intensity
// of pitch class p moves to (p+k) mod 12
func (v PitchClassVector) Rotate(k int) PitchClassVector {
	var out PitchClassVector
	for i, x := range v {
		out[(i+k%NumPitchClasses+NumPitchClasses)%NumPitchClasses] = x
	}
	return out
}

// Matrix is a chromagram: 12 rows indexed by pitch class (C..B in fixed
// order), one column per analysis frame
type Matrix struct {
	Data [NumPitchClasses][]float64
}

// NewMatrix creates a chromagram with the given number of frames
func NewMatrix(frames int) *Matrix {
	m := &Matrix{}
	for pc := range m.Data {
		m.Data[pc] = make([]float64, frames)
	}
	return m
}

// FromFrames builds a Matrix from frame-major data (one 12-element slice per
// analysis frame)
func FromFrames(frames [][]float64) *Matrix {
	m := NewMatrix(len(frames))
	for t, frame := range frames {
		for pc := 0; pc < NumPitchClasses && pc < len(frame); pc++ {
			m.Data[pc][t] = frame[pc]
		}
	}
	return m
}

// Frames returns the number of analysis frames
func (m *Matrix) Frames() int {
	return len(m.Data[0])
}

// MeanVector returns the column mean as a pitch class intensity vector
func (m *Matrix) MeanVector() PitchClassVector {
	var v PitchClassVector
	frames := m.Frames()
	if frames == 0 {
		return v
	}
	for pc := range m.Data {
		sum := 0.0
		for _, x := range m.Data[pc] {
			sum += x
		}
		v[pc] = sum / float64(frames)
	}
	return v
}

// SumFrames accumulates each row's sum into dst and returns the frame count.
// Used by the streaming aggregator so only per-chunk matrices are ever held
// in memory.
func (m *Matrix) SumFrames(dst *PitchClassVector) int {
	for pc := range m.Data {
		for _, x := range m.Data[pc] {
			dst[pc] += x
		}
	}
	return m.Frames()
}

// Concat concatenates chromagrams column-wise in argument order
func Concat(ms ...*Matrix) *Matrix {
	total := 0
	for _, m := range ms {
		total += m.Frames()
	}

	out := NewMatrix(total)
	offset := 0
	for _, m := range ms {
		for pc := range m.Data {
			copy(out.Data[pc][offset:], m.Data[pc])
		}
		offset += m.Frames()
	}
	return out
}

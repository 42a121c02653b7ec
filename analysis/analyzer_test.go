package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modescope/modescope/chroma"
)

func sineReader(freq float64, sampleRate int, seconds float64) *fakeReader {
	n := int(seconds * float64(sampleRate))
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.8 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
	}
	return &fakeReader{samples: samples, sampleRate: sampleRate}
}

func TestAnalyzeEndToEnd(t *testing.T) {
	// 3 s of A4: global and local should both land on A and agree
	r := sineReader(440, 22050, 3)
	analyzer := NewAnalyzer(DefaultConfig(), chroma.NewCQTDefault(), nil)

	result, err := analyzer.Analyze(r, 0, -1)
	require.NoError(t, err)

	assert.Equal(t, "A", result.Global.Tonic)
	assert.Equal(t, result.Global.KeySignature, result.Local.KeySignature)
	assert.Equal(t, RegionStable, result.Region.Type)
	assert.Equal(t, 0.95, result.Region.Confidence)

	assert.Equal(t, 0.0, result.SegmentStart)
	assert.InDelta(t, 3.0, result.SegmentEnd, 1e-9)

	require.NotNil(t, result.LocalChroma)
	assert.Greater(t, result.LocalChroma.Frames(), 0)
	assert.InDelta(t, result.Summary[9], maxComponent(result.Summary), 1e-12,
		"segment summary should peak on A")
}

func TestAnalyzeSegmentBounds(t *testing.T) {
	r := sineReader(440, 22050, 3)
	analyzer := NewAnalyzer(DefaultConfig(), chroma.NewCQTDefault(), nil)

	// An end past the file clamps to the duration
	result, err := analyzer.Analyze(r, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.SegmentStart)
	assert.InDelta(t, 3.0, result.SegmentEnd, 1e-9)
}

func TestAnalyzeInvalidRange(t *testing.T) {
	r := sineReader(440, 22050, 3)
	analyzer := NewAnalyzer(DefaultConfig(), chroma.NewCQTDefault(), nil)

	_, err := analyzer.Analyze(r, 2, 1)
	assert.ErrorIs(t, err, ErrInvalidRange)
	assert.Zero(t, r.reads, "validation must reject the range before reading audio")
}

func TestAnalyzeEmptyLocalSegment(t *testing.T) {
	r := sineReader(440, 22050, 3)
	analyzer := NewAnalyzer(DefaultConfig(), chroma.NewCQTDefault(), nil)

	_, err := analyzer.Analyze(r, 2, 2)
	assert.ErrorIs(t, err, ErrEmptySegment)
}

func TestValidationErrors(t *testing.T) {
	assert.True(t, IsValidation(ErrInvalidRange))
	assert.True(t, IsValidation(ErrEmptySegment))
	assert.True(t, IsValidation(ErrTooShort))
	assert.False(t, IsValidation(assert.AnError))
}

func maxComponent(v chroma.PitchClassVector) float64 {
	max := v[0]
	for _, x := range v[1:] {
		if x > max {
			max = x
		}
	}
	return max
}

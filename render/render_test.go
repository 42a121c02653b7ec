package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modescope/modescope/chroma"
)

func TestChromagramPNG(t *testing.T) {
	m := chroma.NewMatrix(100)
	for i := 0; i < 100; i++ {
		m.Data[i%12][i] = 1
	}

	raw, err := ChromagramPNG(m)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)

	bounds := img.Bounds()
	assert.Equal(t, 100*cellWidth, bounds.Dx())
	assert.Equal(t, chroma.NumPitchClasses*cellHeight, bounds.Dy())
}

func TestChromagramPNGDownsamplesWideInput(t *testing.T) {
	m := chroma.NewMatrix(3 * maxColumns)

	raw, err := ChromagramPNG(m)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.LessOrEqual(t, img.Bounds().Dx(), maxColumns*cellWidth)
}

func TestChromagramPNGEmptyMatrix(t *testing.T) {
	raw, err := ChromagramPNG(chroma.NewMatrix(0))
	require.NoError(t, err)

	_, err = png.Decode(bytes.NewReader(raw))
	assert.NoError(t, err)
}

func TestHistogramPNG(t *testing.T) {
	var v chroma.PitchClassVector
	v[0] = 1.0
	v[7] = 0.5
	v[3] = 2.0 // Clamped to the top of the axis

	raw, err := HistogramPNG(v)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, histHeight, img.Bounds().Dy())
	assert.Equal(t, chroma.NumPitchClasses*(histBarWidth+histBarGap)+histBarGap, img.Bounds().Dx())
}

// Package render turns chromagrams and pitch class vectors into PNG images
// for the analysis response. Purely presentational.
package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"github.com/modescope/modescope/chroma"
)

const (
	cellHeight = 24 // Pixel height of one pitch class row
	cellWidth  = 4  // Pixel width of one analysis frame column
	maxColumns = 2048

	histBarWidth = 40
	histBarGap   = 8
	histHeight   = 240
)

// ChromagramPNG renders a chromagram as a heat map, pitch classes bottom-up
// (C at the bottom), time left to right. Frames beyond maxColumns are
// downsampled by striding.
func ChromagramPNG(m *chroma.Matrix) ([]byte, error) {
	frames := m.Frames()
	if frames == 0 {
		frames = 1
	}

	stride := 1
	for frames/stride > maxColumns {
		stride++
	}
	cols := (frames + stride - 1) / stride

	peak := 0.0
	for pc := range m.Data {
		for _, x := range m.Data[pc] {
			if x > peak {
				peak = x
			}
		}
	}

	width := cols * cellWidth
	height := chroma.NumPitchClasses * cellHeight
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for col := 0; col < cols; col++ {
		for pc := 0; pc < chroma.NumPitchClasses; pc++ {
			value := 0.0
			if t := col * stride; t < m.Frames() {
				value = m.Data[pc][t]
			}
			if peak > 0 {
				value /= peak
			}

			c := heatColor(value)
			// Row 0 (C) at the bottom of the image
			yTop := (chroma.NumPitchClasses - 1 - pc) * cellHeight
			for y := yTop; y < yTop+cellHeight; y++ {
				for x := col * cellWidth; x < (col+1)*cellWidth; x++ {
					img.SetRGBA(x, y, c)
				}
			}
		}
	}

	return encodePNG(img)
}

// HistogramPNG renders a pitch class intensity vector as a 12-bar histogram.
// The vertical axis is fixed to [0, 1] for consistency across requests.
func HistogramPNG(v chroma.PitchClassVector) ([]byte, error) {
	width := chroma.NumPitchClasses*(histBarWidth+histBarGap) + histBarGap
	img := image.NewRGBA(image.Rect(0, 0, width, histHeight))

	white := color.RGBA{255, 255, 255, 255}
	royalBlue := color.RGBA{65, 105, 225, 255}

	for y := 0; y < histHeight; y++ {
		for x := 0; x < width; x++ {
			img.SetRGBA(x, y, white)
		}
	}

	for pc := 0; pc < chroma.NumPitchClasses; pc++ {
		value := v[pc]
		if value < 0 {
			value = 0
		}
		if value > 1 {
			value = 1
		}

		barHeight := int(value * float64(histHeight))
		x0 := histBarGap + pc*(histBarWidth+histBarGap)

		for y := histHeight - barHeight; y < histHeight; y++ {
			for x := x0; x < x0+histBarWidth; x++ {
				img.SetRGBA(x, y, royalBlue)
			}
		}
	}

	return encodePNG(img)
}

// heatColor maps a normalized intensity to a cool-to-warm gradient
func heatColor(value float64) color.RGBA {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}

	// Blue (cold) through white to red (hot)
	if value < 0.5 {
		t := value * 2
		return color.RGBA{
			R: uint8(59 + t*(255-59)),
			G: uint8(76 + t*(255-76)),
			B: uint8(192 + t*(255-192)),
			A: 255,
		}
	}
	t := (value - 0.5) * 2
	return color.RGBA{
		R: 255,
		G: uint8(255 - t*(255-38)),
		B: uint8(255 - t*(255-38)),
		A: 255,
	}
}

func encodePNG(img *image.RGBA) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

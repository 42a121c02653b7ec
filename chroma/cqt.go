package chroma

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// CQT computes chromagrams using a Constant-Q Transform.
//
// CQT frequency spacing is logarithmic: f_k = f_min * 2^(k/bins_per_octave),
// matching musical note spacing where each octave doubles in frequency. This
// gives higher resolution at low frequencies and better separation of
// low-frequency harmonics than an STFT-based chromagram.
type CQT struct {
	minFreq       float64 // Minimum analysis frequency (default C2 ≈ 65.4 Hz)
	maxFreq       float64 // Maximum analysis frequency
	binsPerOctave int     // CQT bins per octave (12 = semitone resolution)
	qFactor       float64 // Quality factor (frequency/bandwidth)
	tuningFreq    float64 // A4 reference frequency
	hopSize       int     // Analysis hop in samples

	// Kernel cache, valid for kernelRate
	kernelRate int
	cqtKernel  [][]complex128
	freqBins   []float64
	fftSize    int
}

// NewCQT creates a CQT chromagram extractor with custom settings
func NewCQT(minFreq, maxFreq float64, binsPerOctave int, qFactor, tuningFreq float64, hopSize int) *CQT {
	return &CQT{
		minFreq:       minFreq,
		maxFreq:       maxFreq,
		binsPerOctave: binsPerOctave,
		qFactor:       qFactor,
		tuningFreq:    tuningFreq,
		hopSize:       hopSize,
	}
}

// NewCQTDefault creates a CQT chromagram extractor with standard musical settings
func NewCQTDefault() *CQT {
	return NewCQT(
		65.4,   // C2 frequency
		2093.0, // C7 frequency (5 octaves)
		12,     // Semitone resolution
		25.0,   // Quality factor
		440.0,  // A4 = 440 Hz
		512,    // Hop size
	)
}

// Chroma computes the chromagram of a mono signal. The kernel is computed
// lazily and cached per sample rate, so an extractor instance is not safe for
// concurrent use; each analysis request owns its own.
func (c *CQT) Chroma(signal []float64, sampleRate int) (*Matrix, error) {
	if len(signal) == 0 {
		return nil, errors.New("empty signal")
	}
	if sampleRate <= 0 {
		return nil, errors.New("non-positive sample rate")
	}

	if c.kernelRate != sampleRate {
		c.computeKernel(sampleRate)
	}

	numFrames := (len(signal) - c.hopSize) / c.hopSize
	if numFrames <= 0 {
		numFrames = 1
	}

	m := NewMatrix(numFrames)

	frame := make([]float64, c.fftSize)
	for t := 0; t < numFrames; t++ {
		start := t * c.hopSize

		// Extract frame, zero-padded to the kernel FFT size
		for i := range frame {
			if start+i < len(signal) {
				frame[i] = signal[start+i]
			} else {
				frame[i] = 0
			}
		}

		frameFFT := fft.FFTReal(frame)

		// Apply CQT kernels and fold octaves into pitch classes
		for k, freq := range c.freqBins {
			// Pointwise product in the frequency domain (convolution in time)
			bin := complex(0, 0)
			kernel := c.cqtKernel[k]
			for n := 0; n < len(frameFFT) && n < len(kernel); n++ {
				bin += frameFFT[n] * cmplx.Conj(kernel[n])
			}

			mag := cmplx.Abs(bin)
			pc := c.pitchClassOf(freq)
			m.Data[pc][t] += mag * mag
		}

		c.normalizeFrame(m, t)
	}

	return m, nil
}

// computeKernel pre-computes the CQT transformation kernel for a sample rate
func (c *CQT) computeKernel(sampleRate int) {
	numOctaves := math.Log2(c.maxFreq / c.minFreq)
	totalBins := int(numOctaves * float64(c.binsPerOctave))

	c.freqBins = make([]float64, totalBins)
	for k := 0; k < totalBins; k++ {
		c.freqBins[k] = c.minFreq * math.Pow(2.0, float64(k)/float64(c.binsPerOctave))
	}

	// The lowest frequency has the longest kernel; zero-pad for circular convolution
	maxKernelLength := c.kernelLength(c.freqBins[0], sampleRate)
	c.fftSize = nextPowerOfTwo(maxKernelLength * 2)

	c.cqtKernel = make([][]complex128, totalBins)

	for k, freq := range c.freqBins {
		kernelLength := c.kernelLength(freq, sampleRate)

		// Gaussian-windowed complex exponential at the bin frequency
		kernel := make([]complex128, c.fftSize)

		bandwidth := freq / c.qFactor
		sigma := float64(sampleRate) / (2.0 * math.Pi * bandwidth)

		center := kernelLength / 2
		for n := 0; n < kernelLength; n++ {
			t := float64(n - center)

			window := math.Exp(-(t * t) / (2.0 * sigma * sigma))
			phase := 2.0 * math.Pi * freq * t / float64(sampleRate)

			kernel[n] = complex(window, 0) * cmplx.Exp(complex(0, phase))
		}

		c.cqtKernel[k] = fft.FFT(kernel)
	}

	c.kernelRate = sampleRate
}

// kernelLength returns the CQT kernel length for a frequency (Q = f/bandwidth)
func (c *CQT) kernelLength(frequency float64, sampleRate int) int {
	length := int(c.qFactor * float64(sampleRate) / frequency)

	// Odd length for symmetry
	if length%2 == 0 {
		length++
	}

	if length < 3 {
		length = 3
	}
	if length > sampleRate/2 {
		length = sampleRate / 2
	}

	return length
}

// pitchClassOf maps a CQT bin frequency to its pitch class
func (c *CQT) pitchClassOf(frequency float64) int {
	// MIDI note number: 69 + 12*log2(f/tuning); note 69 is A
	midiNote := 69.0 + 12.0*math.Log2(frequency/c.tuningFreq)
	pc := int(math.Round(midiNote)) % NumPitchClasses
	if pc < 0 {
		pc += NumPitchClasses
	}
	// MIDI note 0 is C, so the modular note number is already the pitch class
	return pc
}

// normalizeFrame normalizes one chromagram column to unit sum
func (c *CQT) normalizeFrame(m *Matrix, t int) {
	total := 0.0
	for pc := range m.Data {
		total += m.Data[pc][t]
	}

	if total > 1e-10 {
		for pc := range m.Data {
			m.Data[pc][t] /= total
		}
	}
}

// nextPowerOfTwo finds the next power of 2 >= n
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}

	power := 1
	for power < n {
		power <<= 1
	}
	return power
}

package audio

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/wav"
)

// Info describes an opened audio source
type Info struct {
	SampleRate   int `json:"sample_rate"`
	TotalSamples int `json:"total_samples"` // Sample frames per channel
	NumChannels  int `json:"num_channels"`
	BitDepth     int `json:"bit_depth"`
}

// Reader is the contract the analysis pipeline needs from an audio source.
// Blocks are returned as mono float64 samples in [-1, 1]; multi-channel
// sources are downmixed by averaging channels.
type Reader interface {
	Info() Info

	// Duration returns the total duration in seconds
	Duration() float64

	// ReadSequential returns the next block of up to maxFrames mono samples.
	// Returns io.EOF once the source is exhausted.
	ReadSequential(maxFrames int) ([]float64, error)

	// SeekAndRead returns up to count mono samples starting at startFrame.
	// Reads past the end of the source are truncated, not an error.
	SeekAndRead(startFrame, count int) ([]float64, error)

	Close() error
}

// File is a WAV file reader implementing Reader
type File struct {
	file     *os.File
	info     Info
	pcmStart int64 // Byte offset of the first PCM sample frame
	pos      int   // Next sample frame for sequential reads
}

// Open opens a WAV file and validates its format
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	decoder := wav.NewDecoder(f)
	decoder.ReadInfo()

	if !decoder.IsValidFile() {
		f.Close()
		return nil, errors.New("invalid WAV file format")
	}

	if decoder.BitDepth != 16 && decoder.BitDepth != 24 && decoder.BitDepth != 32 {
		f.Close()
		return nil, fmt.Errorf("unsupported bit depth: %d", decoder.BitDepth)
	}

	if decoder.NumChans != 1 && decoder.NumChans != 2 {
		f.Close()
		return nil, fmt.Errorf("unsupported number of channels: %d", decoder.NumChans)
	}

	if err := decoder.FwdToPCM(); err != nil {
		f.Close()
		return nil, fmt.Errorf("locating PCM data: %w", err)
	}

	// The decoder leaves the underlying file positioned at the first PCM byte
	pcmStart, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		f.Close()
		return nil, err
	}

	bytesPerSample := int(decoder.BitDepth) / 8
	blockAlign := bytesPerSample * int(decoder.NumChans)
	totalSamples := int(decoder.PCMLen()) / blockAlign

	return &File{
		file: f,
		info: Info{
			SampleRate:   int(decoder.SampleRate),
			TotalSamples: totalSamples,
			NumChannels:  int(decoder.NumChans),
			BitDepth:     int(decoder.BitDepth),
		},
		pcmStart: pcmStart,
	}, nil
}

// Info returns the source description
func (f *File) Info() Info {
	return f.info
}

// Duration returns the total duration in seconds
func (f *File) Duration() float64 {
	if f.info.SampleRate <= 0 {
		return 0
	}
	return float64(f.info.TotalSamples) / float64(f.info.SampleRate)
}

// ReadSequential returns the next block of up to maxFrames mono samples
func (f *File) ReadSequential(maxFrames int) ([]float64, error) {
	if f.pos >= f.info.TotalSamples {
		return nil, io.EOF
	}

	block, err := f.readFrames(f.pos, maxFrames)
	if err != nil {
		return nil, err
	}
	if len(block) == 0 {
		return nil, io.EOF
	}

	f.pos += len(block)
	return block, nil
}

// SeekAndRead returns up to count mono samples starting at startFrame
func (f *File) SeekAndRead(startFrame, count int) ([]float64, error) {
	if startFrame < 0 || count <= 0 {
		return nil, nil
	}
	return f.readFrames(startFrame, count)
}

// Close closes the underlying file
func (f *File) Close() error {
	return f.file.Close()
}

// readFrames reads count sample frames at startFrame, decodes the integer
// PCM and downmixes to mono.
func (f *File) readFrames(startFrame, count int) ([]float64, error) {
	if startFrame >= f.info.TotalSamples {
		return nil, nil
	}
	if startFrame+count > f.info.TotalSamples {
		count = f.info.TotalSamples - startFrame
	}

	bytesPerSample := f.info.BitDepth / 8
	blockAlign := bytesPerSample * f.info.NumChannels

	raw := make([]byte, count*blockAlign)
	offset := f.pcmStart + int64(startFrame)*int64(blockAlign)

	n, err := f.file.ReadAt(raw, offset)
	if err != nil && err != io.EOF {
		return nil, err
	}
	raw = raw[:n-n%blockAlign]

	frames := len(raw) / blockAlign
	mono := make([]float64, frames)
	divisor := pcmDivisor(f.info.BitDepth)

	for i := 0; i < frames; i++ {
		sum := 0.0
		for ch := 0; ch < f.info.NumChannels; ch++ {
			idx := i*blockAlign + ch*bytesPerSample
			sum += float64(decodeSample(raw[idx:idx+bytesPerSample])) / divisor
		}
		mono[i] = sum / float64(f.info.NumChannels)
	}

	return mono, nil
}

// decodeSample decodes one little-endian signed PCM sample
func decodeSample(b []byte) int32 {
	switch len(b) {
	case 2:
		return int32(int16(uint16(b[0]) | uint16(b[1])<<8))
	case 3:
		v := int32(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16)
		if v&0x800000 != 0 {
			v |= ^int32(0xffffff) // Sign-extend 24-bit
		}
		return v
	case 4:
		return int32(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24)
	default:
		return 0
	}
}

// pcmDivisor returns the divisor for converting integer PCM to float in [-1, 1]
func pcmDivisor(bitDepth int) float64 {
	switch bitDepth {
	case 16:
		return 32768.0
	case 24:
		return 8388608.0
	case 32:
		return 2147483648.0
	default:
		return 1.0
	}
}

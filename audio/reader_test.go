package audio

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWAV(t *testing.T, numChans int, data []int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, 8000, 16, numChans, 1)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: numChans, SampleRate: 8000},
		Data:           data,
		SourceBitDepth: 16,
	}
	require.NoError(t, enc.Write(buf))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
	return path
}

func TestOpenReadsHeader(t *testing.T) {
	path := writeWAV(t, 1, []int{0, 16384, -16384, 32767})

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	info := r.Info()
	assert.Equal(t, 8000, info.SampleRate)
	assert.Equal(t, 4, info.TotalSamples)
	assert.Equal(t, 1, info.NumChannels)
	assert.Equal(t, 16, info.BitDepth)
	assert.InDelta(t, 4.0/8000.0, r.Duration(), 1e-12)
}

func TestOpenRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bogus.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a wav file at all"), 0o644))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestReadSequential(t *testing.T) {
	path := writeWAV(t, 1, []int{0, 16384, -16384, 32767, 8192})

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	block, err := r.ReadSequential(2)
	require.NoError(t, err)
	require.Len(t, block, 2)
	assert.InDelta(t, 0.0, block[0], 1e-9)
	assert.InDelta(t, 0.5, block[1], 1e-9)

	block, err = r.ReadSequential(2)
	require.NoError(t, err)
	require.Len(t, block, 2)
	assert.InDelta(t, -0.5, block[0], 1e-9)

	// Final partial block, then EOF
	block, err = r.ReadSequential(2)
	require.NoError(t, err)
	require.Len(t, block, 1)
	assert.InDelta(t, 0.25, block[0], 1e-9)

	_, err = r.ReadSequential(2)
	assert.Equal(t, io.EOF, err)
}

func TestSeekAndRead(t *testing.T) {
	path := writeWAV(t, 1, []int{0, 16384, -16384, 32767})

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	block, err := r.SeekAndRead(1, 2)
	require.NoError(t, err)
	require.Len(t, block, 2)
	assert.InDelta(t, 0.5, block[0], 1e-9)
	assert.InDelta(t, -0.5, block[1], 1e-9)

	// Reads past the end truncate rather than fail
	block, err = r.SeekAndRead(3, 10)
	require.NoError(t, err)
	assert.Len(t, block, 1)

	block, err = r.SeekAndRead(100, 10)
	require.NoError(t, err)
	assert.Empty(t, block)

	// Random access does not disturb the sequential cursor
	block, err = r.ReadSequential(4)
	require.NoError(t, err)
	assert.Len(t, block, 4)
}

func TestStereoDownmix(t *testing.T) {
	// Interleaved L/R frames: (16384, 0) and (16384, -16384)
	path := writeWAV(t, 2, []int{16384, 0, 16384, -16384})

	r, err := Open(path)
	require.NoError(t, err)
	defer r.Close()

	info := r.Info()
	assert.Equal(t, 2, info.NumChannels)
	assert.Equal(t, 2, info.TotalSamples)

	block, err := r.ReadSequential(2)
	require.NoError(t, err)
	require.Len(t, block, 2)
	assert.InDelta(t, 0.25, block[0], 1e-9)
	assert.InDelta(t, 0.0, block[1], 1e-9)
}

func TestDecodeSample24Bit(t *testing.T) {
	// Positive, negative (sign-extended), and the extremes
	assert.Equal(t, int32(1), decodeSample([]byte{0x01, 0x00, 0x00}))
	assert.Equal(t, int32(-1), decodeSample([]byte{0xff, 0xff, 0xff}))
	assert.Equal(t, int32(8388607), decodeSample([]byte{0xff, 0xff, 0x7f}))
	assert.Equal(t, int32(-8388608), decodeSample([]byte{0x00, 0x00, 0x80}))
}

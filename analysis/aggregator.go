package analysis

import (
	"fmt"
	"io"

	"github.com/modescope/modescope/audio"
	"github.com/modescope/modescope/chroma"
	"github.com/modescope/modescope/logging"
)

// Extractor converts a mono sample block into a chromagram. Behavior is
// numerically unreliable for blocks shorter than Config.MinSamples, which is
// why the aggregator zero-pads short chunks.
type Extractor interface {
	Chroma(mono []float64, sampleRate int) (*chroma.Matrix, error)
}

// Aggregator converts audio ranges into pitch class vectors without holding
// the full decoded signal in memory
type Aggregator struct {
	cfg       Config
	extractor Extractor
	log       logging.Logger
}

// NewAggregator creates an aggregator over the given extractor
func NewAggregator(cfg Config, extractor Extractor, log logging.Logger) *Aggregator {
	if log == nil {
		log = &logging.NoOpLogger{}
	}
	return &Aggregator{cfg: cfg, extractor: extractor, log: log}
}

// GlobalVector aggregates the whole file chunk-by-chunk into a single pitch
// class intensity vector. Peak memory is one chunk's chromagram: each
// chunk's frame sums are accumulated into a running total rather than
// concatenating matrices.
func (a *Aggregator) GlobalVector(r audio.Reader) (chroma.PitchClassVector, error) {
	var sum chroma.PitchClassVector
	totalFrames := 0

	sampleRate := r.Info().SampleRate
	chunkSize := a.cfg.ChunkSeconds * sampleRate

	for {
		block, err := r.ReadSequential(chunkSize)
		if err == io.EOF {
			break
		}
		if err != nil {
			return sum, fmt.Errorf("reading audio chunk: %w", err)
		}
		if len(block) == 0 {
			break
		}

		block = a.padded(block, "global")

		m, err := a.extractor.Chroma(block, sampleRate)
		if err != nil {
			return sum, fmt.Errorf("extracting chroma: %w", err)
		}

		totalFrames += m.SumFrames(&sum)
	}

	if totalFrames == 0 {
		return sum, fmt.Errorf("%w: minimum duration is ~%.2f seconds",
			ErrTooShort, float64(a.cfg.MinSamples)/float64(sampleRate))
	}

	for pc := range sum {
		sum[pc] /= float64(totalFrames)
	}
	return sum, nil
}

// SegmentMatrix produces the chromagram of the sample range
// [startSample, startSample+count). Short segments are read directly in one
// pass; segments longer than the streaming threshold are read chunk-by-chunk
// and their chromagrams concatenated.
func (a *Aggregator) SegmentMatrix(r audio.Reader, startSample, count int) (*chroma.Matrix, error) {
	if count <= 0 {
		return nil, ErrEmptySegment
	}

	sampleRate := r.Info().SampleRate
	segmentSeconds := float64(count) / float64(sampleRate)

	if segmentSeconds > a.cfg.StreamSeconds {
		return a.streamSegment(r, startSample, count)
	}

	a.log.Debug("local segment is small, using direct in-memory analysis")

	block, err := r.SeekAndRead(startSample, count)
	if err != nil {
		return nil, fmt.Errorf("reading segment: %w", err)
	}
	if len(block) < a.cfg.MinSamples {
		return nil, fmt.Errorf("%w: select a segment longer than %.2f seconds",
			ErrTooShort, float64(a.cfg.MinSamples)/float64(sampleRate))
	}

	return a.extractor.Chroma(block, sampleRate)
}

// streamSegment reads a long segment in bounded chunks. Segment sizes are
// still bounded per request, so concatenation of the per-chunk chromagrams
// is acceptable here.
func (a *Aggregator) streamSegment(r audio.Reader, startSample, count int) (*chroma.Matrix, error) {
	a.log.Debug("local segment is large, using memory-efficient streaming",
		logging.Fields{"samples": count})

	sampleRate := r.Info().SampleRate
	chunkSize := a.cfg.ChunkSeconds * sampleRate

	var matrices []*chroma.Matrix
	processed := 0

	for processed < count {
		want := chunkSize
		if remaining := count - processed; remaining < want {
			want = remaining
		}

		block, err := r.SeekAndRead(startSample+processed, want)
		if err != nil {
			return nil, fmt.Errorf("reading segment chunk: %w", err)
		}
		if len(block) == 0 {
			break
		}
		processed += len(block)

		block = a.padded(block, "local")

		m, err := a.extractor.Chroma(block, sampleRate)
		if err != nil {
			return nil, fmt.Errorf("extracting chroma: %w", err)
		}
		matrices = append(matrices, m)
	}

	if len(matrices) == 0 {
		return nil, fmt.Errorf("%w: segment produced no analyzable chunks", ErrTooShort)
	}

	return chroma.Concat(matrices...), nil
}

// padded zero-pads a short chunk up to MinSamples so trailing partial chunks
// still contribute to the estimate instead of being dropped
func (a *Aggregator) padded(block []float64, scope string) []float64 {
	if len(block) >= a.cfg.MinSamples {
		return block
	}

	a.log.Warn("padding short chunk to meet analysis requirements",
		logging.Fields{"scope": scope, "length": len(block), "min_samples": a.cfg.MinSamples})

	padded := make([]float64, a.cfg.MinSamples)
	copy(padded, block)
	return padded
}

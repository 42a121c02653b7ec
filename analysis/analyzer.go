// Package analysis implements the harmonic-analysis pipeline: streaming
// feature aggregation, profile-correlation key estimation, a cadence
// heuristic, and the stable/modal-shift/modulation region classifier.
package analysis

import (
	"math"

	"github.com/modescope/modescope/audio"
	"github.com/modescope/modescope/chroma"
	"github.com/modescope/modescope/logging"
)

// Result aggregates one full analysis: the global key, the local segment's
// key and bounds, the region classification, and the segment's pitch class
// summary. LocalChroma carries the segment chromagram for rendering.
type Result struct {
	Global       KeyEstimate             `json:"global"`
	Local        KeyEstimate             `json:"local"`
	SegmentStart float64                 `json:"segment_start"`
	SegmentEnd   float64                 `json:"segment_end"`
	Region       RegionClassification    `json:"region"`
	Cadence      CadenceResult           `json:"cadence"`
	Summary      chroma.PitchClassVector `json:"chromagram_summary"`

	LocalChroma *chroma.Matrix `json:"-"`
}

// Analyzer sequences aggregation, estimation, cadence detection, and region
// classification for one analysis request. Analyzers are cheap to construct
// and not shared between requests: the extractor caches per-sample-rate
// state.
type Analyzer struct {
	cfg Config
	agg *Aggregator
	log logging.Logger
}

// NewAnalyzer creates an analyzer with the given pipeline parameters
func NewAnalyzer(cfg Config, extractor Extractor, log logging.Logger) *Analyzer {
	if log == nil {
		log = &logging.NoOpLogger{}
	}
	return &Analyzer{
		cfg: cfg,
		agg: NewAggregator(cfg, extractor, log),
		log: log,
	}
}

// Analyze runs the full pipeline over an audio source. The local segment is
// [startSec, endSec]; a negative endSec means the end of the file. Segment
// bounds are validated before any aggregation happens.
func (a *Analyzer) Analyze(r audio.Reader, startSec, endSec float64) (*Result, error) {
	if endSec >= 0 && endSec < startSec {
		return nil, ErrInvalidRange
	}

	info := r.Info()
	duration := r.Duration()
	a.log.Info("opened audio source", logging.Fields{
		"duration":    duration,
		"sample_rate": info.SampleRate,
	})

	// Global pass: streamed over the whole file
	globalVec, err := a.agg.GlobalVector(r)
	if err != nil {
		return nil, err
	}
	global := EstimateKey(globalVec)
	a.log.Info("global key detected", logging.Fields{
		"key":        global.KeySignature,
		"confidence": global.Confidence,
	})

	// Local pass over the requested segment
	segStart := startSec
	segEnd := duration
	if endSec >= 0 && endSec <= duration {
		segEnd = endSec
	}

	startSample := timeToSamples(segStart, info.SampleRate)
	endSample := timeToSamples(segEnd, info.SampleRate)

	localChroma, err := a.agg.SegmentMatrix(r, startSample, endSample-startSample)
	if err != nil {
		return nil, err
	}

	summary := localChroma.MeanVector()
	local := EstimateKey(summary)
	a.log.Info("local key detected", logging.Fields{
		"key":         local.KeySignature,
		"match_score": local.Confidence,
		"start":       segStart,
		"end":         segEnd,
	})

	// Cadence and classification
	cadence := DetectCadence(localChroma, keyOrDefault(local.KeySignature))
	region := ClassifyRegion(global, local, cadence)
	a.log.Info("region classified", logging.Fields{
		"type":       region.Type,
		"confidence": region.Confidence,
	})

	return &Result{
		Global:       global,
		Local:        local,
		SegmentStart: segStart,
		SegmentEnd:   segEnd,
		Region:       region,
		Cadence:      cadence,
		Summary:      summary,
		LocalChroma:  localChroma,
	}, nil
}

// timeToSamples converts a time in seconds to a sample index
func timeToSamples(seconds float64, sampleRate int) int {
	return int(math.Round(seconds * float64(sampleRate)))
}

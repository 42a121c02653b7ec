package analysis

// Config holds the tunable parameters of the analysis pipeline. All values
// are explicit so tests can vary them deterministically.
type Config struct {
	// ChunkSeconds is the streaming read size in seconds of audio. Smaller
	// chunks reduce peak memory at the cost of more extractor invocations.
	ChunkSeconds int `json:"chunk_seconds"`

	// MinSamples is the smallest block the chroma extractor accepts; shorter
	// blocks are zero-padded up to this length rather than dropped.
	MinSamples int `json:"min_samples"`

	// StreamSeconds is the segment duration above which local analysis
	// switches from a direct in-memory read to chunked streaming.
	StreamSeconds float64 `json:"stream_seconds"`
}

// DefaultConfig returns the standard pipeline parameters
func DefaultConfig() Config {
	return Config{
		ChunkSeconds:  5,
		MinSamples:    4096,
		StreamSeconds: 60,
	}
}

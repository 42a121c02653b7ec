package server

// GlobalAnalysis describes the whole-file key estimate
type GlobalAnalysis struct {
	KeySignature string  `json:"key_signature"`
	Mode         string  `json:"mode"`
	Tonic        string  `json:"tonic"`
	Confidence   float64 `json:"confidence"`
}

// LocalAnalysis describes the segment key estimate and its classification
type LocalAnalysis struct {
	SegmentStart     float64 `json:"segment_start"`
	SegmentEnd       float64 `json:"segment_end"`
	Tonic            string  `json:"tonic"`
	KeySignature     string  `json:"key_signature"`
	Mode             string  `json:"mode"`
	MatchScore       float64 `json:"match_score"`
	RegionType       string  `json:"region_type"`
	RegionConfidence float64 `json:"region_confidence"`
}

// AnalysisDetails carries the supporting evidence behind the classification
type AnalysisDetails struct {
	ChromagramSummary []float64 `json:"chromagram_summary"`
	CadenceDetected   bool      `json:"cadence_detected"`
	BorrowedTones     []string  `json:"borrowed_tones"`
	CadentialStrength float64   `json:"cadential_strength"`
}

// VisualizationItem is one rendered image, base64-encoded as a data URI
type VisualizationItem struct {
	Name        string `json:"name"`
	Scope       string `json:"scope"`
	ImageBase64 string `json:"image_base64"`
}

// ModeAnalysisResponse is the full analysis report returned to the caller
type ModeAnalysisResponse struct {
	Global   GlobalAnalysis      `json:"global"`
	Local    LocalAnalysis       `json:"local"`
	Analysis AnalysisDetails     `json:"analysis"`
	Visuals  []VisualizationItem `json:"visuals"`
}

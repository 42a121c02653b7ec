package analysis

// RegionType classifies the relationship between a local segment's key and
// the global key
type RegionType string

const (
	RegionStable     RegionType = "stable"
	RegionModalShift RegionType = "modal_shift"
	RegionModulation RegionType = "modulation"
)

// Classification thresholds. Modulation requires both a well-correlated new
// key and a confirming cadential gesture; both comparisons are strict.
const (
	stableConfidence       = 0.95
	modulationKeyThreshold = 0.80
	modulationCadenceFloor = 0.60
	shiftPenaltyPerTone    = 0.15
	shiftConfidenceFloor   = 0.5
)

// RegionClassification is the verdict on a local segment
type RegionClassification struct {
	Type          RegionType `json:"type"`
	Confidence    float64    `json:"confidence"`
	BorrowedTones []string   `json:"borrowed_tones"`
}

// ClassifyRegion decides whether the local key estimate represents the same
// tonal center as the global one, a borrowed-harmony shift, or a genuine
// modulation. The checks form a strict priority chain: stability first, then
// modulation's stronger evidence bar, falling back to modal shift.
func ClassifyRegion(global, local KeyEstimate, cadence CadenceResult) RegionClassification {
	if global.KeySignature == local.KeySignature {
		return RegionClassification{
			Type:          RegionStable,
			Confidence:    stableConfidence,
			BorrowedTones: []string{},
		}
	}

	globalKey := keyOrDefault(global.KeySignature)
	localKey := keyOrDefault(local.KeySignature)

	borrowed := localKey.ScaleSet().Diff(globalKey.ScaleSet()).Names()

	isModulation := local.Confidence > modulationKeyThreshold &&
		cadence.Detected &&
		cadence.Strength > modulationCadenceFloor

	if isModulation {
		return RegionClassification{
			Type:          RegionModulation,
			Confidence:    (local.Confidence + cadence.Strength) / 2,
			BorrowedTones: borrowed,
		}
	}

	// Borrowed harmony without a full key change: more borrowed tones lower
	// the confidence that this is merely a color shift, floored since some
	// shift was still detected
	confidence := 1.0 - float64(len(borrowed))*shiftPenaltyPerTone
	if confidence < shiftConfidenceFloor {
		confidence = shiftConfidenceFloor
	}

	return RegionClassification{
		Type:          RegionModalShift,
		Confidence:    confidence,
		BorrowedTones: borrowed,
	}
}

// Package theory provides the minimal music-theory model the analysis
// pipeline needs: key parsing, diatonic scale membership, and pitch class
// set arithmetic.
package theory

import (
	"fmt"
	"strings"

	"github.com/modescope/modescope/chroma"
)

// Mode identifies one of the seven diatonic scale patterns
type Mode string

const (
	ModeIonian     Mode = "Ionian"
	ModeDorian     Mode = "Dorian"
	ModePhrygian   Mode = "Phrygian"
	ModeLydian     Mode = "Lydian"
	ModeMixolydian Mode = "Mixolydian"
	ModeAeolian    Mode = "Aeolian"
	ModeLocrian    Mode = "Locrian"
)

// modeIntervals holds the semitone pattern of each diatonic mode, as offsets
// from the tonic. Each row is a rotation of the major scale pattern.
var modeIntervals = map[Mode][7]int{
	ModeIonian:     {0, 2, 4, 5, 7, 9, 11},
	ModeDorian:     {0, 2, 3, 5, 7, 9, 10},
	ModePhrygian:   {0, 1, 3, 5, 7, 8, 10},
	ModeLydian:     {0, 2, 4, 6, 7, 9, 11},
	ModeMixolydian: {0, 2, 4, 5, 7, 9, 10},
	ModeAeolian:    {0, 2, 3, 5, 7, 8, 10},
	ModeLocrian:    {0, 1, 3, 5, 6, 8, 10},
}

// pitchClassIndex maps a pitch class name to its index (0=C .. 11=B),
// accepting the sharp spellings the estimator emits plus flat equivalents.
var pitchClassIndex = map[string]int{
	"C": 0, "C#": 1, "Db": 1, "D": 2, "D#": 3, "Eb": 3, "E": 4, "F": 5,
	"F#": 6, "Gb": 6, "G": 7, "G#": 8, "Ab": 8, "A": 9, "A#": 10, "Bb": 10, "B": 11,
}

// Key is a tonal center: a tonic pitch class plus a diatonic mode
type Key struct {
	Tonic int  `json:"tonic"`
	Mode  Mode `json:"mode"`
}

// Parse parses a "<Tonic> <mode>" key string such as "C major" or
// "F# minor". Major and minor map to Ionian and Aeolian; the five remaining
// modal names are accepted directly.
func Parse(s string) (Key, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return Key{}, fmt.Errorf("malformed key string %q", s)
	}

	tonic, ok := pitchClassIndex[parts[0]]
	if !ok {
		return Key{}, fmt.Errorf("unknown tonic %q", parts[0])
	}

	var mode Mode
	switch strings.ToLower(parts[1]) {
	case "major", "ionian":
		mode = ModeIonian
	case "minor", "aeolian":
		mode = ModeAeolian
	case "dorian":
		mode = ModeDorian
	case "phrygian":
		mode = ModePhrygian
	case "lydian":
		mode = ModeLydian
	case "mixolydian":
		mode = ModeMixolydian
	case "locrian":
		mode = ModeLocrian
	default:
		return Key{}, fmt.Errorf("unknown mode %q", parts[1])
	}

	return Key{Tonic: tonic, Mode: mode}, nil
}

// Default returns C major, the recovery key used when a key string cannot
// be parsed
func Default() Key {
	return Key{Tonic: 0, Mode: ModeIonian}
}

// Dominant returns the pitch class a perfect fifth (7 semitones) above the tonic
func (k Key) Dominant() int {
	return (k.Tonic + 7) % chroma.NumPitchClasses
}

// ScaleSet returns the set of pitch classes in the key's diatonic scale
func (k Key) ScaleSet() PCSet {
	var set PCSet
	for _, interval := range modeIntervals[k.Mode] {
		set = set.Add((k.Tonic + interval) % chroma.NumPitchClasses)
	}
	return set
}

// String returns the key as "<Tonic> <mode>"
func (k Key) String() string {
	return fmt.Sprintf("%s %s", chroma.PitchClassNames[k.Tonic%chroma.NumPitchClasses], k.Mode)
}

// PCSet is a set of pitch classes packed into the low 12 bits
type PCSet uint16

// Add returns the set with pitch class pc included
func (s PCSet) Add(pc int) PCSet {
	return s | 1<<uint(pc%chroma.NumPitchClasses)
}

// Contains reports whether pitch class pc is in the set
func (s PCSet) Contains(pc int) bool {
	return s&(1<<uint(pc%chroma.NumPitchClasses)) != 0
}

// Diff returns the pitch classes in s that are not in o
func (s PCSet) Diff(o PCSet) PCSet {
	return s &^ o
}

// Names returns the names of the member pitch classes in ascending order
func (s PCSet) Names() []string {
	names := make([]string, 0, chroma.NumPitchClasses)
	for pc := 0; pc < chroma.NumPitchClasses; pc++ {
		if s.Contains(pc) {
			names = append(names, chroma.PitchClassNames[pc])
		}
	}
	return names
}

// Len returns the number of member pitch classes
func (s PCSet) Len() int {
	count := 0
	for pc := 0; pc < chroma.NumPitchClasses; pc++ {
		if s.Contains(pc) {
			count++
		}
	}
	return count
}

package theory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		tonic int
		mode  Mode
	}{
		{"C major", 0, ModeIonian},
		{"A minor", 9, ModeAeolian},
		{"F# minor", 6, ModeAeolian},
		{"Bb major", 10, ModeIonian},
		{"D dorian", 2, ModeDorian},
		{"G Mixolydian", 7, ModeMixolydian},
	}

	for _, tt := range tests {
		k, err := Parse(tt.input)
		require.NoError(t, err, "parsing %q", tt.input)
		assert.Equal(t, tt.tonic, k.Tonic)
		assert.Equal(t, tt.mode, k.Mode)
	}
}

func TestParseRejectsMalformedStrings(t *testing.T) {
	for _, input := range []string{"", "N/A", "C", "C jazzy", "H major", "C major extra"} {
		_, err := Parse(input)
		assert.Error(t, err, "input %q should not parse", input)
	}
}

func TestScaleSet(t *testing.T) {
	cMajor, err := Parse("C major")
	require.NoError(t, err)

	set := cMajor.ScaleSet()
	assert.Equal(t, 7, set.Len())
	assert.Equal(t, []string{"C", "D", "E", "F", "G", "A", "B"}, set.Names())

	// A natural minor shares every pitch class with its relative major
	aMinor, err := Parse("A minor")
	require.NoError(t, err)
	assert.Equal(t, PCSet(0), aMinor.ScaleSet().Diff(cMajor.ScaleSet()))
}

func TestDiff(t *testing.T) {
	cMajor, _ := Parse("C major")
	gMajor, _ := Parse("G major")

	// G major adds F# relative to C major
	borrowed := gMajor.ScaleSet().Diff(cMajor.ScaleSet())
	assert.Equal(t, []string{"F#"}, borrowed.Names())

	// And loses F in the other direction
	assert.Equal(t, []string{"F"}, cMajor.ScaleSet().Diff(gMajor.ScaleSet()).Names())
}

func TestDominant(t *testing.T) {
	cMajor, _ := Parse("C major")
	assert.Equal(t, 7, cMajor.Dominant())

	aMinor, _ := Parse("A minor")
	assert.Equal(t, 4, aMinor.Dominant())
}

func TestDefault(t *testing.T) {
	d := Default()
	assert.Equal(t, 0, d.Tonic)
	assert.Equal(t, ModeIonian, d.Mode)
	assert.Equal(t, "C Ionian", d.String())
}

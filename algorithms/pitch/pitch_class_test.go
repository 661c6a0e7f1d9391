package pitch

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpellingTablesAligned(t *testing.T) {
	sharps, flats := SharpNames(), FlatNames()
	require.Len(t, sharps, Classes)
	require.Len(t, flats, Classes)

	for i := range sharps {
		fromSharp, err := Resolve(sharps[i])
		require.NoError(t, err)
		fromFlat, err := Resolve(flats[i])
		require.NoError(t, err)

		assert.Equal(t, PitchClass(i), fromSharp, sharps[i])
		assert.Equal(t, fromSharp, fromFlat, "%s/%s", sharps[i], flats[i])
	}
}

func TestSplitRoot(t *testing.T) {
	tests := []struct {
		in, root, rest string
		ok             bool
	}{
		{"C#m7", "C#", "m7", true},
		{"Bbmaj7", "Bb", "maj7", true},
		{"Am", "A", "m", true},
		{"G", "G", "", true},
		{"Eb/G", "Eb", "/G", true},
		{"b", "", "b", false},
		{"Hallelujah", "", "Hallelujah", false},
		{"", "", "", false},
	}
	for _, tt := range tests {
		root, rest, ok := SplitRoot(tt.in)
		assert.Equal(t, tt.root, root, tt.in)
		assert.Equal(t, tt.rest, rest, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestResolve(t *testing.T) {
	pc, err := Resolve("C#m7")
	require.NoError(t, err)
	assert.Equal(t, PitchClass(1), pc)

	pc, err = Resolve("Ab")
	require.NoError(t, err)
	assert.Equal(t, PitchClass(8), pc)

	for _, bad := range []string{"Hallelujah", "x", "", "Cb", "E#", "[C]"} {
		_, err := Resolve(bad)
		assert.True(t, errors.Is(err, ErrNotAChord), bad)
	}
}

func TestShiftWraps(t *testing.T) {
	b := PitchClass(11)
	assert.Equal(t, PitchClass(0), b.Shift(1))
	assert.Equal(t, PitchClass(10), PitchClass(0).Shift(-2))
	assert.Equal(t, PitchClass(3), PitchClass(3).Shift(24))
	assert.Equal(t, PitchClass(5), Normalize(-7))
}

func TestNameAndSpelling(t *testing.T) {
	assert.Equal(t, "F#", PitchClass(6).Name(Sharp))
	assert.Equal(t, "Gb", PitchClass(6).Name(Flat))
	assert.Equal(t, "E", PitchClass(4).Name(Flat))
	assert.True(t, PitchClass(4).IsNatural())
	assert.False(t, PitchClass(10).IsNatural())

	assert.Equal(t, Flat, Preserve.Resolve("Bb", Sharp))
	assert.Equal(t, Sharp, Preserve.Resolve("C#", Flat))
	assert.Equal(t, Flat, Preserve.Resolve("C", Flat))
	assert.Equal(t, Flat, Key.Resolve("C#", Flat))
	assert.Equal(t, Sharp, Sharp.Resolve("Db", Flat))
}

func TestParseSpelling(t *testing.T) {
	for in, want := range map[string]Spelling{"": Sharp, "FLAT": Flat, "preserve": Preserve, "key": Key} {
		got, err := ParseSpelling(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		if in != "" && in != "FLAT" {
			assert.Equal(t, in, got.String())
		}
	}
	_, err := ParseSpelling("double-sharp")
	assert.Error(t, err)
}

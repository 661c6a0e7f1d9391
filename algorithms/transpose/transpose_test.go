package transpose

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/RyanBlaney/sonido-chords/algorithms/chart"
	"github.com/RyanBlaney/sonido-chords/algorithms/pitch"
	"github.com/RyanBlaney/sonido-chords/algorithms/tonal"
	"github.com/RyanBlaney/sonido-chords/logging"
)

var extensions = []string{"", "m", "7", "m7", "maj7", "sus4", "sus2", "dim", "dim7", "aug", "add9", "m7b5", "6", "9", "13"}

func TestInterval(t *testing.T) {
	tests := []struct {
		source, target string
		want           int
	}{
		{"C", "D", 2},
		{"D", "C", 10},
		{"G Major", "F", 10},
		{"Am", "Bm", 2},
		{"Eb", "D#", 0},
		{"B", "C", 1},
		{"F#m", "A minor", 3},
	}
	for _, tt := range tests {
		got, err := Interval(tt.source, tt.target)
		require.NoError(t, err, "%s -> %s", tt.source, tt.target)
		assert.Equal(t, tt.want, got, "%s -> %s", tt.source, tt.target)
	}

	_, err := Interval("C", "H")
	assert.ErrorIs(t, err, tonal.ErrUnknownKey)
	_, err = Interval("", "C")
	assert.ErrorIs(t, err, tonal.ErrUnknownKey)
}

func TestSymbolIdentity(t *testing.T) {
	keys := pitch.SharpNames()
	symbols := []string{"C", "Am7", "Db", "Bbmaj7", "F#m7b5", "C/E", "Ebsus4/Bb", "Hallelujah", "C/"}

	for _, k := range keys {
		for _, s := range symbols {
			assert.Equal(t, s, TransposeChordSymbol(s, k, k), "%s in %s", s, k)
		}
	}
	assert.Equal(t, "Db", Symbol("Db", 12, pitch.Sharp))
	assert.Equal(t, "Db", Symbol("Db", -24, pitch.Flat))
}

func TestSymbolRoundTrip(t *testing.T) {
	keys := pitch.SharpNames()
	for _, from := range keys {
		for _, to := range keys {
			for _, root := range pitch.SharpNames() {
				for _, ext := range extensions {
					chord := root + ext
					there := TransposeChordSymbol(chord, from, to)
					back := TransposeChordSymbol(there, to, from)
					require.Equal(t, chord, back, "%s via %s -> %s", chord, from, to)
				}
			}
		}
	}
}

func TestSymbolRoundTripFlats(t *testing.T) {
	for shift := 0; shift < pitch.Classes; shift++ {
		for _, root := range pitch.FlatNames() {
			chord := root + "m7/" + root
			there := Symbol(chord, shift, pitch.Flat)
			back := Symbol(there, -shift, pitch.Flat)
			assert.Equal(t, chord, back, "%s by %d", chord, shift)
		}
	}
}

func TestSymbolPreservesExtension(t *testing.T) {
	for shift := 1; shift < pitch.Classes; shift++ {
		for _, root := range pitch.SharpNames() {
			for _, ext := range extensions {
				got := Symbol(root+ext, shift, pitch.Sharp)
				assert.True(t, strings.HasSuffix(got, ext), "%s%s by %d gave %s", root, ext, shift, got)

				newRoot, rest, ok := pitch.SplitRoot(got)
				require.True(t, ok)
				assert.Equal(t, ext, rest)
				assert.Equal(t, pitch.Normalize(indexOf(root)+shift).String(), newRoot)
			}
		}
	}
}

func TestSymbolSlashChords(t *testing.T) {
	tests := []struct {
		in    string
		shift int
		want  string
	}{
		{"C/E", 2, "D/F#"},
		{"G/B", 5, "C/E"},
		{"Am7/G", 3, "Cm7/A#"},
		{"C/E/G", 2, "D/F#/A"},
		{"C/", 2, "D/"},
		{"/E", 2, "/F#"},
		{"/", 2, "/"},
		{"C/X", 2, "D/X"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Symbol(tt.in, tt.shift, pitch.Sharp), tt.in)
	}
}

func TestSymbolWrapsAndPassesThrough(t *testing.T) {
	assert.Equal(t, "C", Symbol("B", 1, pitch.Sharp))
	assert.Equal(t, "B", Symbol("C", -1, pitch.Sharp))
	assert.Equal(t, "G#m", Symbol("Am", 11, pitch.Sharp))

	for _, word := range []string{"Hallelujah", "", "amen", "H7", "Cb", "E#m", "[C]"} {
		assert.Equal(t, word, TransposeChordSymbol(word, "C", "F"), word)
	}
	assert.Equal(t, "Hallelujah", TransposeChordSymbol("Hallelujah", "C", "F#"))
}

func TestSymbolSpelling(t *testing.T) {
	assert.Equal(t, "C#m", Symbol("Bbm", 3, pitch.Sharp))
	assert.Equal(t, "Dbm", Symbol("Bbm", 3, pitch.Flat))
	assert.Equal(t, "Db", Symbol("Bb", 3, pitch.Preserve))
	assert.Equal(t, "D#", Symbol("C", 3, pitch.Preserve), "naturals fall back to sharps")
	assert.Equal(t, "D#", Symbol("C", 3, pitch.Key), "no key to follow")
}

func TestTransposeChordBlock(t *testing.T) {
	text := "[C]Amazing [G]grace how [Am]sweet the [F]sound"
	assert.Equal(t, "[D]Amazing [A]grace how [Bm]sweet the [G]sound", TransposeChordBlock(text, "C", "D"))

	assert.Equal(t, "sing [Bm] a song", TransposeChordBlock("sing [Am] a song", "Am", "Bm"))
	assert.Equal(t, "sing [Bm] a song", TransposeChordBlock("sing [Am] a song", "A", "B"))

	chart := "C       G/B     Am\r\nAmazing grace,  how sweet\n\n  F   C/E\tG7\n"
	want := "D       A/C#     Bm\r\nAmazing grace,  how sweet\n\n  G   D/F#\tA7\n"
	assert.Equal(t, want, TransposeChordBlock(chart, "C", "D"))

	assert.Equal(t, chart, TransposeChordBlock(chart, "C", "C"))
	assert.Equal(t, chart, TransposeChordBlock(chart, "C", "not a key"))
}

func TestNewTransposer(t *testing.T) {
	tr, err := New("G Major", "Bb", WithSpelling(pitch.Key))
	require.NoError(t, err)

	assert.True(t, tr.Resolved())
	assert.Equal(t, 3, tr.Shift())
	assert.Equal(t, "G major", tr.Source().String())
	assert.Equal(t, "Bb major", tr.Target().String())
	assert.Equal(t, "Bb", tr.TargetName())

	assert.Equal(t, []string{"Bb", "Eb", "F7", "Gm", "Bb/D"}, tr.Symbols([]string{"G", "C", "D7", "Em", "G/B"}))
	assert.Nil(t, tr.Symbols(nil))
}

func TestTransposerSpellings(t *testing.T) {
	tests := []struct {
		spelling pitch.Spelling
		target   string
		in       []string
		want     []string
	}{
		{pitch.Sharp, "F", []string{"C", "F", "Bb"}, []string{"F", "A#", "D#"}},
		{pitch.Flat, "D", []string{"C", "E", "A"}, []string{"D", "Gb", "B"}},
		{pitch.Key, "F", []string{"C", "F", "Am"}, []string{"F", "Bb", "Dm"}},
		{pitch.Key, "D", []string{"C", "E", "Bb"}, []string{"D", "F#", "C"}},
		{pitch.Preserve, "D", []string{"Bb", "C#", "E", "Eb/G"}, []string{"C", "D#", "F#", "F/A"}},
		{pitch.Preserve, "F", []string{"F", "D#", "Db"}, []string{"Bb", "G#", "Gb"}},
	}
	for _, tt := range tests {
		tr, err := New("C", tt.target, WithSpelling(tt.spelling))
		require.NoError(t, err)
		assert.Equal(t, tt.want, tr.Symbols(tt.in), "%s to %s", tt.spelling, tt.target)
	}
}

func TestTransposerKeyPolicy(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := logging.WrapZap(zap.New(core))

	tr, err := New("C", "H", WithLogger(logger))
	require.NoError(t, err)
	assert.False(t, tr.Resolved())
	assert.Equal(t, 0, tr.Shift())
	assert.Equal(t, "C/E", tr.Symbol("C/E"))
	assert.Equal(t, "[C]grace", tr.Block("[C]grace"))

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "H", warnings[0].ContextMap()["target_key"])

	assert.Equal(t, "C major", tr.Source().String())
	assert.Equal(t, tonal.Key{}, tr.Target())
	assert.Equal(t, "C", tr.SourceName())
	assert.Equal(t, "H", tr.TargetName())

	_, err = New("C", "H", WithKeyPolicy(Strict), WithLogger(logger))
	require.Error(t, err)
	assert.ErrorIs(t, err, tonal.ErrUnknownKey)
	assert.ErrorIs(t, err, pitch.ErrNotAChord)

	tr, err = New("C", "D", WithKeyPolicy(Strict), WithLogger(logger))
	require.NoError(t, err)
	assert.Equal(t, 2, tr.Shift())
}

func TestParseKeyPolicy(t *testing.T) {
	p, err := ParseKeyPolicy("Strict")
	require.NoError(t, err)
	assert.Equal(t, Strict, p)
	assert.Equal(t, "strict", p.String())

	p, err = ParseKeyPolicy("")
	require.NoError(t, err)
	assert.Equal(t, PassThrough, p)

	_, err = ParseKeyPolicy("sometimes")
	assert.Error(t, err)
}

func TestTransposerBlockDetection(t *testing.T) {
	text := "G  C  D\nA mighty fortress is [G]our God\n"

	tokens, err := New("G", "A")
	require.NoError(t, err)
	assert.Equal(t, "A  D  E\nB mighty fortress is [A]our God\n", tokens.Block(text))

	lines, err := New("G", "A", WithDetection(chart.ChordLines))
	require.NoError(t, err)
	assert.Equal(t, "A  D  E\nA mighty fortress is [A]our God\n", lines.Block(text))
}

func TestTransposerSheet(t *testing.T) {
	tr := NewFromKeys(tonal.NewKey(0, tonal.KeyModeMajor), tonal.NewKey(5, tonal.KeyModeMajor), WithSpelling(pitch.Key))

	sheet := chart.ParseInline("[C]Amazing [G7]grace\n[Am]sweet the [F]sound")
	got := tr.Sheet(sheet)

	assert.Equal(t, "[F]Amazing [C7]grace\n[Dm]sweet the [Bb]sound", got.String())
	assert.Equal(t, "[C]Amazing [G7]grace\n[Am]sweet the [F]sound", sheet.String())
	assert.Nil(t, tr.Sheet(nil))
}

func indexOf(root string) int {
	pc, err := pitch.Resolve(root)
	if err != nil {
		panic(err)
	}
	return int(pc)
}

// Package transpose shifts chord symbols, and chord charts built from them,
// between musical keys.
package transpose

import (
	"strings"

	"github.com/RyanBlaney/sonido-chords/algorithms/chart"
	"github.com/RyanBlaney/sonido-chords/algorithms/pitch"
	"github.com/RyanBlaney/sonido-chords/algorithms/tonal"
	"github.com/RyanBlaney/sonido-chords/logging"
)

// Interval returns how many semitones up, in [0, 11], a chord must move to go
// from the source key to the target key. Mode markers ("Major", "m") are
// ignored; only the key roots matter.
func Interval(sourceKeyRoot, targetKeyRoot string) (int, error) {
	source, err := tonal.ParseKey(sourceKeyRoot)
	if err != nil {
		return 0, err
	}
	target, err := tonal.ParseKey(targetKeyRoot)
	if err != nil {
		return 0, err
	}
	return semitones(source, target), nil
}

func semitones(source, target tonal.Key) int {
	return int(pitch.Normalize(int(target.Root) - int(source.Root)))
}

// Symbol moves a single chord symbol up by shift semitones. The quality and
// extension text after the root is copied verbatim and both sides of a slash
// chord are moved by the same amount. Symbols without a recognisable root are
// returned unchanged, as is every symbol when shift is a multiple of 12.
//
// The Key spelling has no key to follow here and writes sharps; use a
// Transposer to spell by key.
func Symbol(symbol string, shift int, spelling pitch.Spelling) string {
	return transposeSymbol(symbol, shift, spelling, pitch.Sharp)
}

func transposeSymbol(symbol string, shift int, spelling, keySpelling pitch.Spelling) string {
	if pitch.Normalize(shift) == 0 {
		return symbol
	}

	if upper, lower, found := strings.Cut(symbol, "/"); found {
		return transposeRoot(upper, shift, spelling, keySpelling) + "/" +
			transposeSymbol(lower, shift, spelling, keySpelling)
	}
	return transposeRoot(symbol, shift, spelling, keySpelling)
}

func transposeRoot(symbol string, shift int, spelling, keySpelling pitch.Spelling) string {
	root, extension, ok := pitch.SplitRoot(symbol)
	if !ok {
		return symbol
	}
	pc, err := pitch.Resolve(root)
	if err != nil {
		return symbol
	}
	return pc.Shift(shift).Name(spelling.Resolve(root, keySpelling)) + extension
}

// TransposeChordSymbol moves one chord symbol from the source key to the
// target key, writing sharps. It never fails: if either key cannot be
// resolved the symbol is returned unchanged and a warning is logged.
func TransposeChordSymbol(symbol, sourceKeyRoot, targetKeyRoot string) string {
	shift, ok := passThroughInterval(sourceKeyRoot, targetKeyRoot)
	if !ok {
		return symbol
	}
	return Symbol(symbol, shift, pitch.Sharp)
}

// TransposeChordBlock moves every chord of a multi-line chart from the source
// key to the target key. Bracketed chords and free-standing chord tokens are
// rewritten; everything else, whitespace included, is left as it was.
func TransposeChordBlock(text, sourceKeyRoot, targetKeyRoot string) string {
	shift, ok := passThroughInterval(sourceKeyRoot, targetKeyRoot)
	if !ok || shift == 0 {
		return text
	}
	return chart.TransformBlock(text, chart.Tokens, func(chord string) string {
		return Symbol(chord, shift, pitch.Sharp)
	})
}

func passThroughInterval(sourceKeyRoot, targetKeyRoot string) (int, bool) {
	shift, err := Interval(sourceKeyRoot, targetKeyRoot)
	if err != nil {
		logging.Warn("Key not recognised, leaving chords untransposed", logging.Fields{
			"source_key": sourceKeyRoot,
			"target_key": targetKeyRoot,
			"error":      err.Error(),
		})
		return 0, false
	}
	return shift, true
}

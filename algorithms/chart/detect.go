// Package chart finds chord symbols embedded in lyric and chord-chart text.
package chart

import (
	"fmt"
	"regexp"
	"strings"
)

// MaxChordTokenLength is the longest free-standing word still considered a chord.
const MaxChordTokenLength = 8

// chordToken accepts a root, an optional quality, an optional extension,
// any number of modifier pairs (sus4, add9, b5, #9) and an optional bass.
var chordToken = regexp.MustCompile(
	`^[A-G][#b]?` +
		`(?:maj|min|dim|aug|sus|add|m|M|\+)?` +
		`(?:2|4|5|6|7|9|11|13)?` +
		`(?:(?:maj|sus|add|b|#)(?:2|4|5|6|7|9|11|13))*` +
		`(?:/[A-G][#b]?)?$`)

// IsChordToken reports whether a whitespace-delimited word looks like a
// chord symbol. Short lyric words shaped like chords ("A") are accepted too;
// the heuristic cannot tell them apart.
func IsChordToken(token string) bool {
	if token == "" || len(token) > MaxChordTokenLength {
		return false
	}
	return chordToken.MatchString(token)
}

// Detection selects which free-standing words are eligible for transposition.
// Bracketed chords are always eligible.
type Detection int

const (
	// Tokens transposes every word accepted by IsChordToken.
	Tokens Detection = iota
	// ChordLines transposes free words only on lines made up entirely of
	// chords (and bar lines), as in chords-over-lyrics charts.
	ChordLines
)

func (d Detection) String() string {
	switch d {
	case Tokens:
		return "tokens"
	case ChordLines:
		return "chord-lines"
	default:
		return "unknown"
	}
}

// ParseDetection converts a config or flag value to a Detection.
func ParseDetection(name string) (Detection, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "tokens":
		return Tokens, nil
	case "chord-lines", "chordlines", "lines":
		return ChordLines, nil
	default:
		return Tokens, fmt.Errorf("unknown detection mode %q", name)
	}
}

func isBarToken(token string) bool {
	return token != "" && strings.Trim(token, "|:-.%/") == ""
}

// Package pitch maps pitch names to the twelve pitch classes and back.
package pitch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotAChord is returned when a string does not start with a recognised
// pitch name. Callers treating free text leave such tokens untouched.
var ErrNotAChord = errors.New("not a chord")

// Classes is the number of pitch classes in the chromatic scale.
const Classes = 12

// PitchClass is a pitch class number (0=C, 1=C#/Db, ..., 11=B)
type PitchClass int

var sharpNames = [Classes]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// flatNames is index-aligned with sharpNames.
var flatNames = [Classes]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

// SharpNames returns the sharp spelling table.
func SharpNames() []string {
	return append([]string(nil), sharpNames[:]...)
}

// FlatNames returns the flat spelling table.
func FlatNames() []string {
	return append([]string(nil), flatNames[:]...)
}

// Normalize reduces any integer to the equivalent pitch class.
func Normalize(n int) PitchClass {
	return PitchClass(((n % Classes) + Classes) % Classes)
}

// Shift moves the pitch class up by n semitones, wrapping at the octave.
// Negative n moves down.
func (pc PitchClass) Shift(n int) PitchClass {
	return Normalize(int(pc) + n)
}

// Name renders the pitch class in the requested spelling. Spellings that
// depend on context (Preserve, Key) render with sharps here.
func (pc PitchClass) Name(spelling Spelling) string {
	idx := Normalize(int(pc))
	if spelling == Flat {
		return flatNames[idx]
	}
	return sharpNames[idx]
}

func (pc PitchClass) String() string {
	return pc.Name(Sharp)
}

// SplitRoot isolates the leading pitch token of s: a letter A-G optionally
// followed by '#' or 'b'. The remainder is returned verbatim.
func SplitRoot(s string) (root, rest string, ok bool) {
	if s == "" || s[0] < 'A' || s[0] > 'G' {
		return "", s, false
	}
	if len(s) > 1 && (s[1] == '#' || s[1] == 'b') {
		return s[:2], s[2:], true
	}
	return s[:1], s[1:], true
}

// Resolve maps the leading pitch token of s to its pitch class. Trailing
// chord text ("C#m7") is ignored. The sharp table is consulted first, then
// the flat table.
func Resolve(s string) (PitchClass, error) {
	root, _, ok := SplitRoot(s)
	if !ok {
		return 0, fmt.Errorf("%q: %w", s, ErrNotAChord)
	}
	if idx := indexOf(sharpNames[:], root); idx >= 0 {
		return PitchClass(idx), nil
	}
	if idx := indexOf(flatNames[:], root); idx >= 0 {
		return PitchClass(idx), nil
	}
	// E#, B#, Cb, Fb
	return 0, fmt.Errorf("%q: %w", s, ErrNotAChord)
}

// Accidental reports the accidental of a root token: '#', 'b', or 0 for
// a natural.
func Accidental(root string) byte {
	if len(root) > 1 && (root[1] == '#' || root[1] == 'b') {
		return root[1]
	}
	return 0
}

func indexOf(table []string, name string) int {
	for i, n := range table {
		if n == name {
			return i
		}
	}
	return -1
}

// IsNatural reports whether the pitch class has a natural name (no accidental).
func (pc PitchClass) IsNatural() bool {
	return !strings.ContainsAny(sharpNames[Normalize(int(pc))], "#b")
}

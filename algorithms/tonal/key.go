// Package tonal models musical keys and chords and estimates the key of a
// chord progression.
package tonal

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/RyanBlaney/sonido-chords/algorithms/pitch"
)

// ErrUnknownKey is returned when a key name has no recognisable root.
var ErrUnknownKey = errors.New("unknown key")

// KeyMode represents major or minor mode
type KeyMode int

const (
	KeyModeMajor KeyMode = iota
	KeyModeMinor
)

func (m KeyMode) String() string {
	if m == KeyModeMinor {
		return "minor"
	}
	return "major"
}

// Key is a tonic pitch class plus mode. Only Root matters to transposition;
// Mode and Token are kept for display and spelling decisions.
type Key struct {
	Root  pitch.PitchClass `json:"root"`
	Mode  KeyMode          `json:"mode"`
	Token string           `json:"token"` // root as written, e.g. "Bb"
}

// ParseKey parses names such as "C", "G Major", "Am", "F#m" or "Eb minor".
// Mode markers are matched case-insensitively, except that a bare "M" means
// major and a bare "m" means minor.
func ParseKey(name string) (Key, error) {
	trimmed := strings.TrimSpace(name)
	root, rest, ok := pitch.SplitRoot(trimmed)
	if !ok {
		return Key{}, fmt.Errorf("%w %q: %w", ErrUnknownKey, name, pitch.ErrNotAChord)
	}
	pc, err := pitch.Resolve(root)
	if err != nil {
		return Key{}, fmt.Errorf("%w %q: %w", ErrUnknownKey, name, err)
	}

	return Key{Root: pc, Mode: parseMode(rest), Token: root}, nil
}

func parseMode(marker string) KeyMode {
	marker = strings.TrimSpace(marker)
	switch marker {
	case "m", "-":
		return KeyModeMinor
	case "M", "":
		return KeyModeMajor
	}

	// Casers keep state, so each call gets its own.
	folded := cases.Fold().String(marker)
	if strings.HasPrefix(folded, "min") || folded == "moll" {
		return KeyModeMinor
	}
	return KeyModeMajor
}

// NewKey builds a key with the conventional spelling for its root.
func NewKey(root pitch.PitchClass, mode KeyMode) Key {
	k := Key{Root: pitch.Normalize(int(root)), Mode: mode}
	if k.conventionallyFlat() {
		k.Token = k.Root.Name(pitch.Flat)
	} else {
		k.Token = k.Root.Name(pitch.Sharp)
	}
	return k
}

func (k Key) String() string {
	token := k.Token
	if token == "" {
		token = k.Root.Name(pitch.Sharp)
	}
	return token + " " + k.Mode.String()
}

// PrefersFlats reports whether chords in this key are conventionally written
// with flats. An explicitly spelled root decides; otherwise the relative
// major's place on the circle of fifths does.
func (k Key) PrefersFlats() bool {
	switch pitch.Accidental(k.Token) {
	case 'b':
		return true
	case '#':
		return false
	}
	return k.conventionallyFlat()
}

// Spelling returns the pitch spelling conventionally used in this key.
func (k Key) Spelling() pitch.Spelling {
	if k.PrefersFlats() {
		return pitch.Flat
	}
	return pitch.Sharp
}

// F, Bb, Eb, Ab, Db majors
var flatMajors = map[pitch.PitchClass]bool{5: true, 10: true, 3: true, 8: true, 1: true}

func (k Key) conventionallyFlat() bool {
	major := k.Root
	if k.Mode == KeyModeMinor {
		major = k.Root.Shift(3)
	}
	return flatMajors[major]
}

// Relative returns the relative major/minor key
func (k Key) Relative() Key {
	if k.Mode == KeyModeMajor {
		return NewKey(k.Root.Shift(-3), KeyModeMinor)
	}
	return NewKey(k.Root.Shift(3), KeyModeMajor)
}

// Parallel returns the parallel major/minor key
func (k Key) Parallel() Key {
	if k.Mode == KeyModeMajor {
		return NewKey(k.Root, KeyModeMinor)
	}
	return NewKey(k.Root, KeyModeMajor)
}

// Dominant returns the key a fifth above
func (k Key) Dominant() Key {
	return NewKey(k.Root.Shift(7), k.Mode)
}

// Subdominant returns the key a fifth below
func (k Key) Subdominant() Key {
	return NewKey(k.Root.Shift(-7), k.Mode)
}

// IsRelated reports whether other is the same key or its relative,
// parallel, dominant or subdominant.
func (k Key) IsRelated(other Key) bool {
	same := func(a, b Key) bool { return a.Root == b.Root && a.Mode == b.Mode }
	return same(k, other) ||
		same(k.Relative(), other) ||
		same(k.Parallel(), other) ||
		same(k.Dominant(), other) ||
		same(k.Subdominant(), other)
}

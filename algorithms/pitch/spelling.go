package pitch

import (
	"fmt"
	"strings"
)

// Spelling selects how transposed pitch classes are written.
type Spelling int

const (
	// Sharp always writes accidentals as sharps (C#, F#, A#).
	Sharp Spelling = iota
	// Flat always writes accidentals as flats (Db, Gb, Bb).
	Flat
	// Preserve keeps the accidental style of the token being transposed.
	// Naturals follow the fallback spelling supplied by the caller.
	Preserve
	// Key follows the conventional accidentals of the target key.
	Key
)

func (s Spelling) String() string {
	switch s {
	case Sharp:
		return "sharp"
	case Flat:
		return "flat"
	case Preserve:
		return "preserve"
	case Key:
		return "key"
	default:
		return "unknown"
	}
}

// ParseSpelling converts a config or flag value to a Spelling.
func ParseSpelling(name string) (Spelling, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "sharp", "sharps":
		return Sharp, nil
	case "flat", "flats":
		return Flat, nil
	case "preserve":
		return Preserve, nil
	case "key":
		return Key, nil
	default:
		return Sharp, fmt.Errorf("unknown spelling %q", name)
	}
}

// Resolve narrows a context-dependent spelling down to Sharp or Flat.
// source is the root token being transposed and keySpelling is the
// spelling conventionally used by the target key.
func (s Spelling) Resolve(source string, keySpelling Spelling) Spelling {
	switch s {
	case Flat:
		return Flat
	case Key:
		return keySpelling.concrete()
	case Preserve:
		switch Accidental(source) {
		case 'b':
			return Flat
		case '#':
			return Sharp
		}
		return keySpelling.concrete()
	default:
		return Sharp
	}
}

func (s Spelling) concrete() Spelling {
	if s == Flat {
		return Flat
	}
	return Sharp
}

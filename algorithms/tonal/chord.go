package tonal

import (
	"fmt"
	"sort"
	"strings"

	"github.com/RyanBlaney/sonido-chords/algorithms/pitch"
)

// ChordQuality represents the triad quality of a chord symbol
type ChordQuality int

const (
	ChordMajor ChordQuality = iota
	ChordMinor
	ChordDiminished
	ChordAugmented
	ChordSus2
	ChordSus4
	ChordPowerChord
)

// GetChordQualityName returns the human-readable name for a chord quality
func GetChordQualityName(quality ChordQuality) string {
	names := map[ChordQuality]string{
		ChordMajor:      "major",
		ChordMinor:      "minor",
		ChordDiminished: "diminished",
		ChordAugmented:  "augmented",
		ChordSus2:       "sus2",
		ChordSus4:       "sus4",
		ChordPowerChord: "power",
	}

	if name, exists := names[quality]; exists {
		return name
	}
	return "unknown"
}

// Chord is a parsed chord symbol.
type Chord struct {
	Symbol    string             `json:"symbol"`
	Root      pitch.PitchClass   `json:"root"`
	Quality   ChordQuality       `json:"quality"`
	Intervals []int              `json:"intervals"` // semitones above the root, ascending
	Tones     []pitch.PitchClass `json:"tones"`
	Bass      pitch.PitchClass   `json:"bass"`
	HasBass   bool               `json:"has_bass"`
}

// ParseChord parses a chord symbol such as "Am7", "Bbmaj7", "G7sus4" or
// "C/E". Unknown suffix characters are ignored; an unrecognised root or bass
// is an error.
func ParseChord(symbol string) (Chord, error) {
	upper, lower, hasBass := strings.Cut(symbol, "/")

	rootToken, ext, ok := pitch.SplitRoot(upper)
	if !ok {
		return Chord{}, fmt.Errorf("chord %q: %w", symbol, pitch.ErrNotAChord)
	}
	root, err := pitch.Resolve(rootToken)
	if err != nil {
		return Chord{}, fmt.Errorf("chord %q: %w", symbol, err)
	}

	quality, intervals := parseExtension(ext)
	chord := Chord{
		Symbol:    symbol,
		Root:      root,
		Quality:   quality,
		Intervals: intervals,
		Tones:     make([]pitch.PitchClass, len(intervals)),
	}
	for i, iv := range intervals {
		chord.Tones[i] = root.Shift(iv)
	}

	if hasBass {
		bass, err := pitch.Resolve(lower)
		if err != nil {
			return Chord{}, fmt.Errorf("chord %q bass: %w", symbol, err)
		}
		chord.Bass = bass
		chord.HasBass = true
	}

	return chord, nil
}

// modifiers are matched longest first
var modifiers = []struct {
	token string
	apply func(*toneSet)
}{
	{"sus2", func(s *toneSet) { s.clearThird(); s.add(2); s.quality = ChordSus2 }},
	{"sus4", func(s *toneSet) { s.clearThird(); s.add(5); s.quality = ChordSus4 }},
	{"add11", func(s *toneSet) { s.add(5) }},
	{"add13", func(s *toneSet) { s.add(9) }},
	{"add9", func(s *toneSet) { s.add(2) }},
	{"add2", func(s *toneSet) { s.add(2) }},
	{"add4", func(s *toneSet) { s.add(5) }},
	{"add6", func(s *toneSet) { s.add(9) }},
	{"maj", func(s *toneSet) { s.majorSeventh = true }},
	{"sus", func(s *toneSet) { s.clearThird(); s.add(5); s.quality = ChordSus4 }},
	{"b13", func(s *toneSet) { s.seventh(); s.add(8) }},
	{"#11", func(s *toneSet) { s.seventh(); s.add(6) }},
	{"13", func(s *toneSet) { s.seventh(); s.add(2); s.add(9) }},
	{"11", func(s *toneSet) { s.seventh(); s.add(2); s.add(5) }},
	{"b9", func(s *toneSet) { s.seventh(); s.add(1) }},
	{"#9", func(s *toneSet) { s.seventh(); s.add(3) }},
	{"b5", func(s *toneSet) { s.remove(7); s.add(6) }},
	{"#5", func(s *toneSet) { s.remove(7); s.add(8) }},
	{"9", func(s *toneSet) { s.seventh(); s.add(2) }},
	{"7", func(s *toneSet) { s.seventh() }},
	{"6", func(s *toneSet) { s.add(9) }},
	{"5", func(s *toneSet) { s.clearThird(); s.quality = ChordPowerChord }},
	{"2", func(s *toneSet) { s.add(2) }},
	{"4", func(s *toneSet) { s.add(5) }},
}

// parseExtension derives the chord quality and intervals from the text that
// follows the root, e.g. "m7b5" or "maj9".
func parseExtension(ext string) (ChordQuality, []int) {
	s := &toneSet{quality: ChordMajor}
	s.add(0)
	s.add(4)
	s.add(7)

	rest := ext
	switch {
	case strings.HasPrefix(rest, "maj"):
		s.majorSeventh = true
		rest = rest[3:]
	case strings.HasPrefix(rest, "M"):
		s.majorSeventh = true
		rest = rest[1:]
	case strings.HasPrefix(rest, "min"):
		s.minorTriad()
		rest = rest[3:]
	case strings.HasPrefix(rest, "m"):
		s.minorTriad()
		rest = rest[1:]
	case strings.HasPrefix(rest, "dim"), strings.HasPrefix(rest, "°"):
		s.diminishedTriad()
		rest = strings.TrimPrefix(strings.TrimPrefix(rest, "dim"), "°")
	case strings.HasPrefix(rest, "aug"), strings.HasPrefix(rest, "+"):
		s.remove(7)
		s.add(8)
		s.quality = ChordAugmented
		rest = strings.TrimPrefix(strings.TrimPrefix(rest, "aug"), "+")
	}

	for rest != "" {
		matched := false
		for _, m := range modifiers {
			if strings.HasPrefix(rest, m.token) {
				m.apply(s)
				rest = rest[len(m.token):]
				matched = true
				break
			}
		}
		if !matched {
			// parentheses, commas and anything unrecognised
			rest = rest[1:]
		}
	}

	return s.quality, s.intervals()
}

type toneSet struct {
	tones        [pitch.Classes]bool
	quality      ChordQuality
	majorSeventh bool
}

func (s *toneSet) add(iv int)    { s.tones[iv%pitch.Classes] = true }
func (s *toneSet) remove(iv int) { s.tones[iv%pitch.Classes] = false }

func (s *toneSet) clearThird() {
	s.remove(3)
	s.remove(4)
}

func (s *toneSet) minorTriad() {
	s.remove(4)
	s.add(3)
	s.quality = ChordMinor
}

func (s *toneSet) diminishedTriad() {
	s.minorTriad()
	s.remove(7)
	s.add(6)
	s.quality = ChordDiminished
}

func (s *toneSet) seventh() {
	switch {
	case s.majorSeventh:
		s.add(11)
	case s.quality == ChordDiminished:
		s.add(9)
	default:
		s.add(10)
	}
}

func (s *toneSet) intervals() []int {
	out := make([]int, 0, 6)
	for iv, on := range s.tones {
		if on {
			out = append(out, iv)
		}
	}
	sort.Ints(out)
	return out
}

package chart

import (
	"strings"
	"unicode/utf8"
)

// Segment is a run of lyric text sung under one chord. Chord is empty for
// text that precedes the first chord of a line.
type Segment struct {
	Chord string `json:"chord,omitempty"`
	Text  string `json:"text"`
}

// Line is one line of a song as chord/text segments.
type Line struct {
	Segments []Segment `json:"segments"`
}

// Sheet is a structured chord chart. Transposing a Sheet never has to guess
// which words are chords.
type Sheet struct {
	Lines []Line `json:"lines"`
}

// ParseInline builds a Sheet from inline notation such as
// "[C]Amazing [G]grace". Empty or unterminated brackets stay in the text.
func ParseInline(text string) *Sheet {
	rawLines := strings.Split(text, "\n")
	sheet := &Sheet{Lines: make([]Line, 0, len(rawLines))}

	for _, raw := range rawLines {
		var line Line
		current := Segment{}
		var textBuf strings.Builder

		i := 0
		for i < len(raw) {
			open := strings.IndexByte(raw[i:], '[')
			if open < 0 {
				textBuf.WriteString(raw[i:])
				break
			}
			open += i
			end := closingBracket(raw, open)
			if end < 0 || end == open+1 {
				textBuf.WriteString(raw[i : open+1])
				i = open + 1
				continue
			}

			textBuf.WriteString(raw[i:open])
			if current.Chord != "" || textBuf.Len() > 0 {
				current.Text = textBuf.String()
				line.Segments = append(line.Segments, current)
			}
			textBuf.Reset()
			current = Segment{Chord: raw[open+1 : end]}
			i = end + 1
		}

		if current.Chord != "" || textBuf.Len() > 0 {
			current.Text = textBuf.String()
			line.Segments = append(line.Segments, current)
		}
		sheet.Lines = append(sheet.Lines, line)
	}

	return sheet
}

// Transpose returns a copy of the sheet with every chord rewritten by fn.
func (s *Sheet) Transpose(fn func(string) string) *Sheet {
	out := &Sheet{Lines: make([]Line, len(s.Lines))}
	for i, line := range s.Lines {
		segments := make([]Segment, len(line.Segments))
		for j, seg := range line.Segments {
			segments[j] = seg
			if seg.Chord != "" {
				segments[j].Chord = fn(seg.Chord)
			}
		}
		out.Lines[i] = Line{Segments: segments}
	}
	return out
}

// String renders the sheet back into inline notation.
func (s *Sheet) String() string {
	var b strings.Builder
	for i, line := range s.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		for _, seg := range line.Segments {
			if seg.Chord != "" {
				b.WriteByte('[')
				b.WriteString(seg.Chord)
				b.WriteByte(']')
			}
			b.WriteString(seg.Text)
		}
	}
	return b.String()
}

// Chords returns the distinct chords of the sheet in order of first use.
func (s *Sheet) Chords() []string {
	seen := make(map[string]bool)
	var chords []string
	for _, line := range s.Lines {
		for _, seg := range line.Segments {
			if seg.Chord == "" || seen[seg.Chord] {
				continue
			}
			seen[seg.Chord] = true
			chords = append(chords, seg.Chord)
		}
	}
	return chords
}

// ChordsOverLyrics renders the sheet with each chord printed on its own
// line above the syllable it falls on. Lines without chords are printed
// as-is.
func (s *Sheet) ChordsOverLyrics() string {
	var b strings.Builder
	for i, line := range s.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}

		var chordRow, lyricRow strings.Builder
		hasChord := false
		for _, seg := range line.Segments {
			if seg.Chord != "" {
				hasChord = true
				col := utf8.RuneCountInString(lyricRow.String())
				pad := col - utf8.RuneCountInString(chordRow.String())
				if chordRow.Len() > 0 && pad < 1 {
					pad = 1
				}
				if pad > 0 {
					chordRow.WriteString(strings.Repeat(" ", pad))
				}
				chordRow.WriteString(seg.Chord)

				// keep the lyric under a long chord from running into the next one
				if seg.Text == "" {
					lyricRow.WriteString(strings.Repeat(" ", utf8.RuneCountInString(seg.Chord)+1))
					continue
				}
			}
			lyricRow.WriteString(seg.Text)
		}

		if hasChord {
			b.WriteString(strings.TrimRight(chordRow.String(), " "))
			b.WriteByte('\n')
		}
		b.WriteString(strings.TrimRight(lyricRow.String(), " "))
	}
	return b.String()
}

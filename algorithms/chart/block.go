package chart

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// TransformBlock rewrites the chords of a multi-line text block with fn.
// Every [bracketed] span is passed to fn; free-standing words are passed to
// fn only when detection allows it. All other bytes, including whitespace
// runs and line endings, are copied unchanged.
func TransformBlock(text string, detection Detection, fn func(string) string) string {
	var b strings.Builder
	b.Grow(len(text))

	for _, line := range strings.SplitAfter(text, "\n") {
		words := scanLine(line)
		allowFree := detection == Tokens || isChordLine(words)

		for _, w := range words {
			switch {
			case !w.word:
				b.WriteString(w.text)
			case w.bracketed:
				b.WriteString(replaceBrackets(w.text, fn))
			case allowFree && IsChordToken(w.text):
				b.WriteString(fn(w.text))
			default:
				b.WriteString(w.text)
			}
		}
	}

	return b.String()
}

// ChordsInBlock lists the chords TransformBlock would hand to fn, in order
// of appearance.
func ChordsInBlock(text string, detection Detection) []string {
	var chords []string
	TransformBlock(text, detection, func(chord string) string {
		chords = append(chords, chord)
		return chord
	})
	return chords
}

type span struct {
	text      string
	word      bool
	bracketed bool
}

// scanLine splits a line into alternating whitespace runs and words. A
// bracketed span is part of the word it touches, even if it contains spaces.
func scanLine(line string) []span {
	var spans []span
	i := 0
	for i < len(line) {
		r, size := utf8.DecodeRuneInString(line[i:])
		if unicode.IsSpace(r) {
			j := i + size
			for j < len(line) {
				r, size := utf8.DecodeRuneInString(line[j:])
				if !unicode.IsSpace(r) {
					break
				}
				j += size
			}
			spans = append(spans, span{text: line[i:j]})
			i = j
			continue
		}

		j := i
		bracketed := false
		for j < len(line) {
			r, size := utf8.DecodeRuneInString(line[j:])
			if unicode.IsSpace(r) {
				break
			}
			if r == '[' {
				if end := closingBracket(line, j); end >= 0 {
					j = end + 1
					bracketed = true
					continue
				}
			}
			j += size
		}
		spans = append(spans, span{text: line[i:j], word: true, bracketed: bracketed})
		i = j
	}
	return spans
}

// closingBracket returns the index of the ']' matching the '[' at open, or -1.
func closingBracket(s string, open int) int {
	end := strings.IndexAny(s[open+1:], "[]\n")
	if end < 0 || s[open+1+end] != ']' {
		return -1
	}
	return open + 1 + end
}

func replaceBrackets(word string, fn func(string) string) string {
	var b strings.Builder
	i := 0
	for i < len(word) {
		open := strings.IndexByte(word[i:], '[')
		if open < 0 {
			break
		}
		open += i
		end := closingBracket(word, open)
		if end < 0 {
			b.WriteString(word[i : open+1])
			i = open + 1
			continue
		}
		b.WriteString(word[i : open+1])
		b.WriteString(fn(word[open+1 : end]))
		b.WriteByte(']')
		i = end + 1
	}
	b.WriteString(word[i:])
	return b.String()
}

// isChordLine reports whether every free word of the line is a chord or a
// bar line, with at least one chord.
func isChordLine(spans []span) bool {
	chords := 0
	for _, s := range spans {
		if !s.word || s.bracketed {
			continue
		}
		switch {
		case IsChordToken(s.text):
			chords++
		case isBarToken(s.text):
		default:
			return false
		}
	}
	return chords > 0
}

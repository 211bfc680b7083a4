package links

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// LineIndex converts byte offsets in a text to line/column positions.
type LineIndex struct {
	text   string
	starts []int // byte offset of each line start
}

// NewLineIndex records the line starts of text in a single pass.
func NewLineIndex(text string) *LineIndex {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LineIndex{text: text, starts: starts}
}

// Lines returns the number of lines in the text.
func (x *LineIndex) Lines() int {
	return len(x.starts)
}

// Line returns the zero-based line containing byte offset off.
func (x *LineIndex) Line(off int) int {
	return sort.Search(len(x.starts), func(i int) bool { return x.starts[i] > off }) - 1
}

// Span returns the position of text[start:end]. Out-of-range offsets yield NoPosition.
func (x *LineIndex) Span(start, end int) Position {
	if start < 0 || end < start || end > len(x.text) {
		return NoPosition
	}
	line := x.Line(start)
	col := utf8.RuneCountInString(x.text[x.starts[line]:start])
	return Position{
		Line:        line,
		ColumnStart: col,
		ColumnEnd:   col + utf8.RuneCountInString(x.text[start:end]),
	}
}

// Locate finds the first line of text that contains capture.
//
// This reports the earliest occurrence of the string, which is not
// necessarily the occurrence a match came from when the same reference
// appears more than once. Prefer LineIndex.Span with the match offsets.
func Locate(text, capture string) (Position, bool) {
	if capture == "" {
		return NoPosition, false
	}
	for i, line := range strings.Split(text, "\n") {
		idx := strings.Index(line, capture)
		if idx < 0 {
			continue
		}
		col := utf8.RuneCountInString(line[:idx])
		return Position{
			Line:        i,
			ColumnStart: col,
			ColumnEnd:   col + utf8.RuneCountInString(capture),
		}, true
	}
	return NoPosition, false
}

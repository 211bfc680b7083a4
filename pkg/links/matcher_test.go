package links

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPattern_GroupCount(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantErr bool
	}{
		{"one group", `render\('([^']+)'\)`, false},
		{"one group with non-capturing", `(?:view\.)?render\('([^']+)'\)`, false},
		{"no groups", `render\('[^']+'\)`, true},
		{"two groups", `(\w+)\('([^']+)'\)`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPattern("test", tt.expr)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrPatternGroups)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewPattern_InvalidRegexp(t *testing.T) {
	_, err := NewPattern("broken", `render\((`)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPatternGroups)
}

func TestMustPattern_Panics(t *testing.T) {
	assert.Panics(t, func() { MustPattern("none", `abc`) })
}

func TestMatch_OrderAndOffsets(t *testing.T) {
	p := MustPattern("view", `render\(('[^']+'|"[^"]+")\)`)
	text := "a = render('users.index')\nb = render(\"users.show\"); c = render('admin.home')\n"

	matches := Match(text, p)
	require.Len(t, matches, 3)

	want := []string{"users.index", "users.show", "admin.home"}
	for i, m := range matches {
		assert.Equal(t, want[i], m.Capture)
		assert.Equal(t, m.Capture, text[m.Start:m.End], "offsets must slice the normalized capture")
		assert.Equal(t, len(m.Raw), len(m.Capture)+2)
		assert.True(t, m.FullStart <= m.Start && m.End <= m.FullEnd)
	}
	assert.Less(t, matches[0].Start, matches[1].Start)
	assert.Less(t, matches[1].Start, matches[2].Start)
}

func TestMatch_NoQuotes(t *testing.T) {
	p := MustPattern("method", `async (\w+)\(`)
	matches := Match("async index() {}\nasync store() {}", p)
	require.Len(t, matches, 2)
	assert.Equal(t, "index", matches[0].Raw)
	assert.Equal(t, "index", matches[0].Capture)
	assert.Equal(t, "store", matches[1].Capture)
}

func TestMatch_NoMatches(t *testing.T) {
	p := MustPattern("view", `render\('([^']+)'\)`)
	matches := Match("nothing to see here", p)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestMatch_ZeroPattern(t *testing.T) {
	assert.Empty(t, Match("render('x')", Pattern{}))
}

func TestTrimQuotes(t *testing.T) {
	tests := []struct {
		in         string
		want       string
		wantOffset int
	}{
		{`'users'`, "users", 1},
		{`"users"`, "users", 1},
		{"`users`", "users", 1},
		{`users`, "users", 0},
		{`'users"`, `'users"`, 0},
		{`'`, `'`, 0},
		{`''`, "", 1},
	}
	for _, tt := range tests {
		got, off := trimQuotes(tt.in)
		assert.Equal(t, tt.want, got, "trimQuotes(%q)", tt.in)
		assert.Equal(t, tt.wantOffset, off, "trimQuotes(%q) offset", tt.in)
	}
}

package csvlog

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert"
)

func TestSplitLinesEmpty(t *testing.T) {
	lines, err := SplitLines("")
	assert.NoError(t, err)
	assert.Equal(t, 0, len(lines))
}

func TestSplitLines(t *testing.T) {
	tests := []struct {
		in  string
		exp []string
	}{
		{"Date,Name\n", []string{"Date,Name"}},
		{"Date,Name", []string{"Date,Name"}},
		{"a\nb\n", []string{"a", "b"}},
		{"a\r\nb\r\n", []string{"a", "b"}},
		{"a\n\nb\n", []string{"a", "", "b"}},
		{"h\n\"x\",\"line one\nline two\"\n", []string{"h", "\"x\",\"line one\nline two\""}},
		{"\"a\n\nb\"\n\"c\"\n", []string{"\"a\n\nb\"", `"c"`}},
		{"\"say \"\"hi\"\"\"\n", []string{`"say ""hi"""`}},
		{"\"one\r\ntwo\"\r\n", []string{"\"one\r\ntwo\""}},
		{"\"\n\"\n", []string{"\"\n\""}},
	}
	for _, test := range tests {
		got, err := SplitLines(test.in)
		assert.NoError(t, err, "SplitLines(%q)", test.in)
		assert.Equal(t, test.exp, got, "SplitLines(%q)", test.in)
	}
}

func TestSplitLinesUnterminated(t *testing.T) {
	in := "h\n\"a\"\n\"b\nc\nd"
	lines, err := SplitLines(in)
	assert.Equal(t, []string{"h", `"a"`}, lines)
	assert.True(t, errors.Is(err, ErrUnterminatedQuote))
	var pe *ParseError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, 3, pe.Line)
}

func TestReassemblerPending(t *testing.T) {
	var r Reassembler
	s, ok := r.Push(`"a`)
	assert.False(t, ok)
	assert.Equal(t, "", s)
	pending, ok := r.Pending()
	assert.True(t, ok)
	assert.Equal(t, `"a`, pending)
	assert.Error(t, r.Finish())

	s, ok = r.Push(`b"`)
	assert.True(t, ok)
	assert.Equal(t, "\"a\nb\"", s)
	_, ok = r.Pending()
	assert.False(t, ok)
	assert.NoError(t, r.Finish())
}

func TestSplitNumbered(t *testing.T) {
	in := "h\n\"a\nb\nc\"\n\n\"d\"\n"
	lines, err := SplitNumbered(in)
	assert.NoError(t, err)
	exp := []Line{
		{Num: 1, Text: "h"},
		{Num: 2, Text: "\"a\nb\nc\""},
		{Num: 5, Text: ""},
		{Num: 6, Text: `"d"`},
	}
	assert.Equal(t, exp, lines)
}

package csvlog

import "strings"

type quoteState int

const (
	unquoted quoteState = iota
	insideQuotedSpan
)

// Reassembler merges physical lines into logical lines.
// A logical line is complete when no quoted span is open at its end.
type Reassembler struct {
	state quoteState
	buf   strings.Builder
	// true if buf holds the start of a logical line
	pending bool
	// 1-based number of the physical line that started the pending logical line
	startLine int
	nLines    int
}

// Push adds one physical line, without its terminator.
// Returns the logical line and true if line completed it.
func (r *Reassembler) Push(line string) (string, bool) {
	r.nLines++
	if r.pending {
		r.buf.WriteByte('\n')
	} else {
		r.buf.Reset()
		r.pending = true
		r.startLine = r.nLines
	}
	for i := 0; i < len(line); i++ {
		if line[i] != quote {
			continue
		}
		if r.state == unquoted {
			r.state = insideQuotedSpan
		} else {
			r.state = unquoted
		}
	}
	r.buf.WriteString(line)
	if r.state == insideQuotedSpan {
		return "", false
	}
	s := r.buf.String()
	// \r of a \r\n terminator; inside a quoted span it's data
	s = strings.TrimSuffix(s, "\r")
	r.buf.Reset()
	r.pending = false
	return s, true
}

// Pending returns the logical line accumulated so far that is still
// waiting for its quoted span to close
func (r *Reassembler) Pending() (string, bool) {
	if !r.pending {
		return "", false
	}
	return r.buf.String(), true
}

// Finish reports an error if the input ended inside a quoted span.
// The error is a *ParseError whose Line is the physical line where the
// unterminated logical line started.
func (r *Reassembler) Finish() error {
	if r.state == insideQuotedSpan {
		return &ParseError{Line: r.startLine, Err: ErrUnterminatedQuote}
	}
	return nil
}

// Line is a logical line and the 1-based number of the physical line it starts on
type Line struct {
	Num  int
	Text string
}

// SplitNumbered is like SplitLines but also returns the physical line
// number where each logical line starts
func SplitNumbered(text string) ([]Line, error) {
	if text == "" {
		return nil, nil
	}
	text = strings.TrimSuffix(text, "\n")
	var r Reassembler
	var res []Line
	for {
		idx := strings.IndexByte(text, '\n')
		line := text
		if idx >= 0 {
			line = text[:idx]
		}
		if s, ok := r.Push(line); ok {
			res = append(res, Line{Num: r.startLine, Text: s})
		}
		if idx < 0 {
			break
		}
		text = text[idx+1:]
	}
	return res, r.Finish()
}

// SplitLines splits text into logical lines.
// A single trailing line terminator doesn't produce an empty last line.
// Lines that were completed are returned even if error is not nil.
func SplitLines(text string) ([]string, error) {
	lines, err := SplitNumbered(text)
	if len(lines) == 0 {
		return nil, err
	}
	res := make([]string, len(lines))
	for i, l := range lines {
		res[i] = l.Text
	}
	return res, err
}

package notation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotationParse is matched by every adapter failure.
var ErrNotationParse = errors.New("notation parse failed")

// ParseError normalises parser failures from the underlying YAML, TOML and
// JSON libraries. Line and Column are 1-based; zero means unknown.
type ParseError struct {
	Notation Notation
	Line     int
	Column   int
	Message  string
	Err      error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Notation.String())
	b.WriteString(" frontmatter")
	if e.Line > 0 {
		fmt.Fprintf(&b, " line %d", e.Line)
		if e.Column > 0 {
			fmt.Fprintf(&b, ", column %d", e.Column)
		}
	}
	b.WriteString(": ")
	if e.Message != "" {
		b.WriteString(e.Message)
	} else if e.Err != nil {
		b.WriteString(e.Err.Error())
	} else {
		b.WriteString(ErrNotationParse.Error())
	}
	return b.String()
}

// Is lets errors.Is match ErrNotationParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrNotationParse
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// HasPosition reports whether a line number is known.
func (e *ParseError) HasPosition() bool {
	return e.Line > 0
}

func newParseError(n Notation, line, col int, msg string, cause error) *ParseError {
	return &ParseError{
		Notation: n,
		Line:     line,
		Column:   col,
		Message:  msg,
		Err:      cause,
	}
}

// lineCol converts a byte offset within text into 1-based line and column.
func lineCol(text string, offset int64) (int, int) {
	if offset < 0 {
		return 0, 0
	}
	if offset > int64(len(text)) {
		offset = int64(len(text))
	}
	prefix := text[:offset]
	line := strings.Count(prefix, "\n") + 1
	col := int(offset) - strings.LastIndexByte(prefix, '\n')
	return line, col
}

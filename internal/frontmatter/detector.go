package frontmatter

import (
	"errors"
	"fmt"
	"strings"

	adrg "github.com/adrg/frontmatter"

	"github.com/goliatone/go-metagen/internal/notation"
)

// Header describes the frontmatter block found at the head of a document.
type Header struct {
	Found     bool
	Notation  notation.Notation
	Delimiter notation.Delimiter
	// Start is the byte offset of the opening delimiter line.
	Start int
	// End is the byte offset where the body begins.
	End int
	// Raw is the header text handed to the notation adapter.
	Raw string
}

// Len returns the size of the header span in bytes.
func (h Header) Len() int {
	if !h.Found {
		return 0
	}
	return h.End - h.Start
}

// Detect sniffs the first non-blank line of text against the opening
// delimiters of adapters, in order, and locates the matching closing line.
// A document without a recognised opening line yields a zero Header and no
// error. An opening line without a closing one yields ErrUnterminatedHeader.
func Detect(text string, adapters []notation.Adapter) (Header, error) {
	opening, start, ok := firstLine(text)
	if !ok {
		return Header{}, nil
	}

	adapter, delim, ok := matchOpening(opening, adapters)
	if !ok {
		return Header{}, nil
	}

	header := Header{
		Found:     true,
		Notation:  adapter.Notation,
		Delimiter: delim,
		Start:     start,
	}

	format := &adrg.Format{
		Start:           delim.Start,
		End:             delim.End,
		UnmarshalDelims: delim.KeepDelims,
		RequiresNewLine: delim.RequiresBlankLine,
		Unmarshal: func(data []byte, _ any) error {
			header.Raw = string(data)
			return nil
		},
	}

	var sink struct{}
	rest, err := adrg.MustParse(strings.NewReader(text), &sink, format)
	if err != nil {
		if errors.Is(err, adrg.ErrNotFound) {
			return Header{}, &UnterminatedError{Notation: adapter.Notation, Delimiter: delim, Offset: start}
		}
		return Header{}, fmt.Errorf("frontmatter scan: %w", err)
	}

	header.End = len(text) - len(rest)
	return header, nil
}

// firstLine returns the trimmed first non-blank line and its byte offset.
func firstLine(text string) (string, int, bool) {
	offset := 0
	for offset < len(text) {
		end := strings.IndexByte(text[offset:], '\n')
		var line string
		if end < 0 {
			line = text[offset:]
			end = len(text) - offset
		} else {
			line = text[offset : offset+end]
			end++
		}
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed, offset, true
		}
		offset += end
	}
	return "", 0, false
}

func matchOpening(line string, adapters []notation.Adapter) (notation.Adapter, notation.Delimiter, bool) {
	for _, adapter := range adapters {
		for _, delim := range adapter.Delimiters {
			if delim.Start == line {
				return adapter, delim, true
			}
		}
	}
	return notation.Adapter{}, notation.Delimiter{}, false
}

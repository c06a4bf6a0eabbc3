package frontmatter

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-metagen/internal/notation"
)

const (
	textCodeUnterminated  = "UNTERMINATED_HEADER"
	textCodeNotationParse = "NOTATION_PARSE_FAILED"
	textCodeRead          = "DOCUMENT_READ_FAILED"
)

// ErrUnterminatedHeader reports an opening delimiter without a closing one.
var ErrUnterminatedHeader = errors.New("frontmatter: unterminated header")

// ErrNotationParse is re-exported so callers need a single import.
var ErrNotationParse = notation.ErrNotationParse

// UnterminatedError carries the delimiter that was opened and never closed.
type UnterminatedError struct {
	Notation  notation.Notation
	Delimiter notation.Delimiter
	Offset    int
}

func (e *UnterminatedError) Error() string {
	return fmt.Sprintf("%s header opened with %q at offset %d is missing closing %q",
		e.Notation, e.Delimiter.Start, e.Offset, e.Delimiter.End)
}

func (e *UnterminatedError) Is(target error) bool {
	return target == ErrUnterminatedHeader
}

func wrapUnterminated(err error) error {
	return goerrors.Wrap(err, goerrors.CategoryBadInput, "frontmatter header is not terminated").
		WithTextCode(textCodeUnterminated)
}

func wrapNotationParse(n notation.Notation, err error) error {
	meta := map[string]any{"notation": n.String()}
	var perr *notation.ParseError
	if errors.As(err, &perr) && perr.HasPosition() {
		meta["line"] = perr.Line
		if perr.Column > 0 {
			meta["column"] = perr.Column
		}
	}
	return goerrors.Wrap(err, goerrors.CategoryBadInput, fmt.Sprintf("parse failed in %s frontmatter", n)).
		WithTextCode(textCodeNotationParse).
		WithMetadata(meta)
}

func wrapRead(err error) error {
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryBadInput, "read document").
		WithTextCode(textCodeRead)
}

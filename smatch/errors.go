package smatch

import (
	"errors"
	"fmt"

	"github.com/arunkannawadi/smatch/catalog"
	"github.com/arunkannawadi/smatch/healpix"
)

// Kind classifies an Error returned by this package.
type Kind int

const (
	// BadInput marks a malformed argument: mismatched array lengths, an
	// Nside/maxmatch outside its valid range, or an empty primary catalog.
	BadInput Kind = iota
	// BadCoordinate marks a non-finite ra/dec value encountered while
	// building a catalog or indexing a secondary point.
	BadCoordinate
	// IoError marks a failure to open, read, or write a match file.
	IoError
	// ParseError marks a malformed line in a loaded match file.
	ParseError
)

func (k Kind) String() string {
	switch k {
	case BadInput:
		return "BadInput"
	case BadCoordinate:
		return "BadCoordinate"
	case IoError:
		return "IoError"
	case ParseError:
		return "ParseError"
	default:
		return "Unknown"
	}
}

// Error is returned by every exported Matcher operation that can fail.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("smatch: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("smatch: %s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func badInput(op string, err error) error      { return &Error{Kind: BadInput, Op: op, Err: err} }
func badCoordinate(op string, err error) error { return &Error{Kind: BadCoordinate, Op: op, Err: err} }
func ioErr(op string, err error) error          { return &Error{Kind: IoError, Op: op, Err: err} }
func parseErr(op string, err error) error       { return &Error{Kind: ParseError, Op: op, Err: err} }

// classifyCatalogErr maps the sentinel errors catalog.New and healpix.New
// can return onto this package's Kind taxonomy.
func classifyCatalogErr(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, healpix.ErrBadInput):
		return badInput(op, err)
	case errors.Is(err, catalog.ErrSizeMismatch), errors.Is(err, catalog.ErrEmptyCatalog):
		return badInput(op, err)
	case errors.Is(err, healpix.ErrBadCoordinate):
		return badCoordinate(op, err)
	default:
		return badInput(op, err)
	}
}

var errNegativeMaxmatch = errors.New("maxmatch must be >= 0")

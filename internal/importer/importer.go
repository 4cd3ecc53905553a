package importer

import (
	"io"

	"github.com/npereira/centavo/internal/ledger"
)

// Format identifies a supported statement layout.
type Format string

const (
	FormatStatement Format = "statement"
)

type Parser interface {
	Parse(r io.Reader) ([]ledger.CreateParams, error)
}

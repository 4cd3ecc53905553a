package importer

import (
	"fmt"
	"io"

	"github.com/npereira/centavo/internal/importer/statement"
	"github.com/npereira/centavo/internal/ledger"
)

type Service struct {
	statementParser Parser
}

func NewService() *Service {
	return &Service{
		statementParser: statement.NewParser(),
	}
}

func (s *Service) Import(format Format, r io.Reader) ([]ledger.CreateParams, error) {
	var parser Parser

	switch format {
	case FormatStatement:
		parser = s.statementParser
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	return parser.Parse(r)
}

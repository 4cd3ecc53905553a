package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// detectPeek is enough bytes for BOM checks and charset heuristics on
// typical statement exports.
const detectPeek = 4096

// NewUTF8Reader detects the encoding of an uploaded statement and returns
// a reader that decodes it to UTF-8. Banks export CSVs in whatever their
// backoffice produces, so the order of checks is:
//
//  1. BOM (UTF-8 BOM is stripped; UTF-16 LE/BE is decoded)
//  2. Valid UTF-8 passes through unchanged
//  3. Heuristic detection via chardet
//  4. Fallback to Windows-1252
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	buf, err := br.Peek(detectPeek)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	if decoded, ok := bomReader(br, buf); ok {
		return decoded, nil
	}

	if utf8.Valid(buf) {
		return br, nil
	}

	if decoded, ok := sniffReader(br, buf); ok {
		return decoded, nil
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}

func bomReader(br *bufio.Reader, buf []byte) (io.Reader, bool) {
	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, true
	case bytes.HasPrefix(buf, bomUTF16LE):
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), true
	case bytes.HasPrefix(buf, bomUTF16BE):
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), true
	}

	return nil, false
}

func sniffReader(br *bufio.Reader, buf []byte) (io.Reader, bool) {
	result, err := chardet.NewTextDetector().DetectBest(buf)
	if err != nil {
		return nil, false
	}

	switch result.Charset {
	case "UTF-8":
		return br, true
	case "ISO-8859-1", "windows-1252":
		return transform.NewReader(br, charmap.Windows1252.NewDecoder()), true
	case "ISO-8859-9":
		return transform.NewReader(br, charmap.ISO8859_9.NewDecoder()), true
	}

	return nil, false
}

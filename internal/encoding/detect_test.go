package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npereira/centavo/internal/encoding"
)

func decode(t *testing.T, input []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	input := "date;section;amount\n2024-01-05;Cafés;-12.50\n"
	assert.Equal(t, input, decode(t, []byte(input)))
}

func TestNewUTF8Reader_Windows1252(t *testing.T) {
	// Windows-1252 encoded "Cafés" (é = 0xE9).
	input := []byte{'C', 'a', 'f', 0xE9, 's', '\n'}
	assert.Equal(t, "Cafés\n", decode(t, input))
}

func TestNewUTF8Reader_UTF8BOMStripped(t *testing.T) {
	content := "date;section;amount\n"
	input := append([]byte{0xEF, 0xBB, 0xBF}, content...)
	assert.Equal(t, content, decode(t, input))
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	// "ab\n" as UTF-16 LE with BOM.
	input := []byte{0xFF, 0xFE, 'a', 0x00, 'b', 0x00, '\n', 0x00}
	assert.Equal(t, "ab\n", decode(t, input))
}

func TestNewUTF8Reader_Empty(t *testing.T) {
	assert.Equal(t, "", decode(t, nil))
}

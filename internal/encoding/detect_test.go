package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/tradedesk/internal/encoding"
)

func readAll(t *testing.T, input []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

func utf16le(s string) []byte {
	out := []byte{0xFF, 0xFE}
	for _, c := range s {
		out = append(out, byte(c), 0)
	}

	return out
}

func TestNewUTF8Reader(t *testing.T) {
	type testCase struct {
		name  string
		input []byte
		want  string
	}

	tests := []testCase{
		{
			name:  "UTF8Passthrough",
			input: []byte("Remitter,Amount\nSociété Générale,1250.00\n"),
			want:  "Remitter,Amount\nSociété Générale,1250.00\n",
		},
		{
			name:  "UTF8BOMStripped",
			input: append([]byte{0xEF, 0xBB, 0xBF}, []byte("Remitter,Amount\n")...),
			want:  "Remitter,Amount\n",
		},
		{
			// Windows-1252: é = 0xE9, è = 0xE8
			name:  "Windows1252",
			input: []byte{'S', 'o', 'c', 'i', 0xE9, 't', 0xE9, ' ', 'M', 'a', 'r', 'c', 'h', 0xE8, '\n'},
			want:  "Société Marchè\n",
		},
		{
			name:  "UTF16LE",
			input: utf16le("Ref,Amount\nIRW001,500\n"),
			want:  "Ref,Amount\nIRW001,500\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, readAll(t, tt.input))
		})
	}
}

func TestDetect(t *testing.T) {
	assert.Equal(t, encoding.UTF8, encoding.Detect([]byte("plain ascii")))
	assert.Equal(t, encoding.UTF8BOM, encoding.Detect([]byte{0xEF, 0xBB, 0xBF, 'a'}))
	assert.Equal(t, encoding.UTF16BE, encoding.Detect([]byte{0xFE, 0xFF, 0, 'a'}))
	assert.Equal(t, encoding.UTF8, encoding.Detect(nil))
}

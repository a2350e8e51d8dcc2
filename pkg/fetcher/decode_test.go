package fetcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeHTML(t *testing.T) {
	tests := []struct {
		name     string
		raw      []byte
		expected string
	}{
		{"ASCII", []byte("<p>hello</p>"), "<p>hello</p>"},
		{"UTF-8", []byte("Caf\xc3\xa9"), "Café"},
		{"Latin-1", []byte("Caf\xe9"), "Café"},
		{"不正なUTF-8はすべてLatin-1として扱う", []byte("\xc3\xa9 \xe9"), "Ã© é"},
		{"空", []byte{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DecodeHTML(tt.raw))
		})
	}
}

package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArticle_HasURL(t *testing.T) {
	assert.True(t, Article{Title: "First Article", URL: "https://archlinux.org/news/1/"}.HasURL())
	assert.False(t, Article{Title: "Article A"}.HasURL())
}

func TestTitles(t *testing.T) {
	tests := []struct {
		name     string
		articles []Article
		expected []string
	}{
		{
			name: "順序を保持する",
			articles: []Article{
				{Title: "Second", URL: "https://example.com/2"},
				{Title: "First"},
			},
			expected: []string{"Second", "First"},
		},
		{
			name:     "nil入力は空スライス",
			articles: nil,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Titles(tt.articles))
		})
	}
}

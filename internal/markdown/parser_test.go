package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	html, err := NewParser().Parse([]byte("1. Boil water\n2. Add **pasta**"))
	require.NoError(t, err)

	assert.Contains(t, string(html), "<ol>")
	assert.Contains(t, string(html), "<strong>pasta</strong>")
}

func TestParse_EscapesRawHTML(t *testing.T) {
	html, err := NewParser().Parse([]byte("Stir <script>alert(1)</script> well"))
	require.NoError(t, err)

	assert.NotContains(t, string(html), "<script>")
}

func TestParseWithFrontmatter(t *testing.T) {
	source := []byte("---\ntitle: Shakshuka\npublished: true\n---\nCrack the eggs.\n")

	html, meta, err := NewParser().ParseWithFrontmatter(source)
	require.NoError(t, err)

	assert.Equal(t, "Shakshuka", meta["title"])
	assert.Equal(t, true, meta["published"])
	assert.Contains(t, string(html), "Crack the eggs.")
	assert.NotContains(t, string(html), "title:")
}

func TestParseWithFrontmatter_NoFrontmatter(t *testing.T) {
	_, meta, err := NewParser().ParseWithFrontmatter([]byte("Just text"))
	require.NoError(t, err)
	assert.Empty(t, meta)
}

func TestBody(t *testing.T) {
	assert.Equal(t, "Crack the eggs.\n", string(Body([]byte("---\ntitle: x\n---\nCrack the eggs.\n"))))
	assert.Equal(t, "No front matter", string(Body([]byte("No front matter"))))
	assert.Equal(t, "---\nunterminated", string(Body([]byte("---\nunterminated"))))
}

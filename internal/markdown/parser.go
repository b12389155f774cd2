package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"go.abhg.dev/goldmark/frontmatter"
)

// Parser renders recipe Markdown. Raw HTML in the source is not passed
// through, so submitted instructions cannot inject markup.
type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			&frontmatter.Extender{},
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithHardWraps(),
			goldmarkhtml.WithXHTML(),
		),
	)

	return &Parser{md: md}
}

func (p *Parser) Parse(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	err := p.md.Convert(source, &buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ParseWithFrontmatter renders the body and decodes the YAML front matter.
// A document without front matter yields an empty map.
func (p *Parser) ParseWithFrontmatter(source []byte) (content []byte, meta map[string]any, err error) {
	ctx := parser.NewContext()
	var buf bytes.Buffer

	err = p.md.Convert(source, &buf, parser.WithContext(ctx))
	if err != nil {
		return nil, nil, err
	}

	meta = make(map[string]any)
	data := frontmatter.Get(ctx)
	if data != nil {
		err = data.Decode(&meta)
		if err != nil {
			return nil, nil, err
		}
	}

	return buf.Bytes(), meta, nil
}

// Body returns source with a leading front matter block removed.
func Body(source []byte) []byte {
	for _, delim := range []string{"---", "+++"} {
		open := []byte(delim + "\n")
		if !bytes.HasPrefix(source, open) {
			continue
		}
		rest := source[len(open):]
		end := bytes.Index(rest, []byte("\n"+delim))
		if end < 0 {
			return source
		}
		body := rest[end+len(delim)+1:]
		return bytes.TrimLeft(body, "\r\n")
	}
	return source
}

package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"go.abhg.dev/goldmark/frontmatter"

	"github.com/inkpost/inkpost/internal/model"
)

type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			extension.Typographer,
			&frontmatter.Extender{},
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			goldmarkhtml.WithXHTML(),
		),
	)

	return &Parser{
		md: md,
	}
}

func (p *Parser) Parse(source []byte) ([]byte, error) {
	var buf bytes.Buffer
	err := p.md.Convert(source, &buf)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p *Parser) ParseWithFrontmatter(source []byte) (content []byte, meta map[string]any, err error) {
	context := parser.NewContext()
	var buf bytes.Buffer

	err = p.md.Convert(source, &buf, parser.WithContext(context))
	if err != nil {
		return nil, nil, err
	}

	data := frontmatter.Get(context)
	if data == nil {
		meta = make(map[string]any)
	} else {
		err = data.Decode(&meta)
		if err != nil {
			meta = make(map[string]any)
		}
	}

	return buf.Bytes(), meta, nil
}

func (p *Parser) ExtractFrontmatter(source []byte) map[string]any {
	context := parser.NewContext()
	p.md.Parser().Parse(text.NewReader(source), parser.WithContext(context))

	data := frontmatter.Get(context)
	if data == nil {
		return make(map[string]any)
	}

	var meta map[string]any
	err := data.Decode(&meta)
	if err != nil {
		return make(map[string]any)
	}
	return meta
}

// CodeBlocks walks the body and collects fenced code blocks in document
// order. The fence info string is either a bare language ("jsx") or a
// language plus annotations ("jsx render=true").
func (p *Parser) CodeBlocks(source []byte) ([]model.CodeBlock, error) {
	context := parser.NewContext()
	doc := p.md.Parser().Parse(text.NewReader(source), parser.WithContext(context))

	var blocks []model.CodeBlock
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var info string
		if fcb.Info != nil {
			info = string(fcb.Info.Segment.Value(source))
		}
		lang, render := parseInfoString(info)

		var code bytes.Buffer
		lines := fcb.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			code.Write(seg.Value(source))
		}

		blocks = append(blocks, model.CodeBlock{
			Lang:     lang,
			Render:   render,
			Code:     code.String(),
			Position: len(blocks),
		})
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	return blocks, nil
}

// parseInfoString splits a fence info string into the language tag and the
// render annotation. Unknown annotations are ignored.
func parseInfoString(info string) (lang string, render bool) {
	fields := strings.Fields(info)
	if len(fields) == 0 {
		return "", false
	}

	lang = fields[0]
	for _, f := range fields[1:] {
		if f == "render=true" || f == "render" {
			render = true
		}
	}
	return lang, render
}

// CheckFences verifies that every fenced code block opened in the source has
// a closing delimiter. Goldmark closes dangling fences at EOF without
// complaint, so well-formedness has to be checked on the raw text.
func CheckFences(source []byte) error {
	var (
		open      bool
		openLine  int
		openMark  byte
		openLen   int
		lineCount int
	)

	for _, raw := range bytes.Split(source, []byte("\n")) {
		lineCount++
		line := bytes.TrimLeft(raw, " ")

		marker, length := fenceMarker(line)
		if length < 3 {
			continue
		}

		if !open {
			open = true
			openLine = lineCount
			openMark = marker
			openLen = length
			continue
		}

		// A closing fence uses the same marker, at least as long, with
		// nothing but the marker on the line.
		rest := bytes.TrimRight(line[length:], " ")
		if marker == openMark && length >= openLen && len(rest) == 0 {
			open = false
		}
	}

	if open {
		return fmt.Errorf("unclosed code fence opened at line %d", openLine)
	}
	return nil
}

func fenceMarker(line []byte) (marker byte, length int) {
	if len(line) == 0 {
		return 0, 0
	}
	c := line[0]
	if c != '`' && c != '~' {
		return 0, 0
	}
	n := 0
	for n < len(line) && line[n] == c {
		n++
	}
	return c, n
}

package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ErrMarkup indicates free-text markup that could not be translated.
var ErrMarkup = errors.New("markup translation failed")

// inlineParser parses the restricted lightweight markup (bold, italic,
// links) embedded in free-text fields. Goldmark is the same parser the
// Markdown rendition uses, so both outputs agree on what the markup means.
var inlineParser = goldmark.New()

// MarkupToTypst translates restricted inline Markdown in a free-text field
// into Typst syntax. All literal text is escaped, so syntax-significant
// characters in user text cannot leak into the generated source.
func MarkupToTypst(src string) (string, error) {
	if src == "" {
		return "", nil
	}

	source := []byte(src)
	doc := inlineParser.Parser().Parse(text.NewReader(source))

	var sb strings.Builder
	if err := walkInline(doc, source, &sb); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMarkup, err)
	}
	return strings.TrimSpace(sb.String()), nil
}

// walkInline emits Typst for the inline nodes of the parsed fragment.
// Anything outside the restricted set (bold, italic, links, code spans)
// degrades to its escaped literal text.
func walkInline(n ast.Node, source []byte, sb *strings.Builder) error {
	switch node := n.(type) {
	case *ast.Text:
		sb.WriteString(EscapeTypst(string(node.Segment.Value(source))))
		if node.SoftLineBreak() || node.HardLineBreak() {
			sb.WriteByte(' ')
		}
		return nil

	case *ast.Emphasis:
		if node.Level >= 2 {
			sb.WriteString("#strong[")
		} else {
			sb.WriteString("#emph[")
		}
		if err := walkChildren(node, source, sb); err != nil {
			return err
		}
		sb.WriteString("]")
		return nil

	case *ast.Link:
		sb.WriteString(`#link("`)
		sb.WriteString(EscapeTypstString(string(node.Destination)))
		sb.WriteString(`")[`)
		if err := walkChildren(node, source, sb); err != nil {
			return err
		}
		sb.WriteString("]")
		return nil

	case *ast.AutoLink:
		url := string(node.URL(source))
		sb.WriteString(`#link("`)
		sb.WriteString(EscapeTypstString(url))
		sb.WriteString(`")`)
		return nil

	case *ast.CodeSpan:
		sb.WriteString("#raw(\"")
		sb.WriteString(EscapeTypstString(string(node.Text(source))))
		sb.WriteString("\")")
		return nil

	default:
		return walkChildren(n, source, sb)
	}
}

func walkChildren(n ast.Node, source []byte, sb *strings.Builder) error {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if err := walkInline(c, source, sb); err != nil {
			return err
		}
	}
	return nil
}

// Package render expands theme template fragments against a validated CV
// model and a resolved design, producing document source text.
package render

import "strings"

// EscapeTypst escapes characters that start Typst control sequences so user
// text can never inject markup into the generated source.
// Special characters: \ # $ * _ ` @ < > [ ] ~
func EscapeTypst(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) * 2)

	for _, r := range text {
		switch r {
		case '\\', '#', '$', '*', '_', '`', '@', '<', '>', '[', ']', '~':
			result.WriteByte('\\')
			result.WriteRune(r)
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

// EscapeTypstString escapes text for use inside a double-quoted Typst string
// literal, e.g. a #link destination.
func EscapeTypstString(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	return strings.ReplaceAll(text, `"`, `\"`)
}

// EscapeMarkdown escapes characters significant to Markdown so plain fields
// render literally in the lightweight-markup rendition.
// Special characters: \ ` * _ # [ ] < >
func EscapeMarkdown(text string) string {
	if text == "" {
		return ""
	}

	var result strings.Builder
	result.Grow(len(text) * 2)

	for _, r := range text {
		switch r {
		case '\\', '`', '*', '_', '#', '[', ']', '<', '>':
			result.WriteByte('\\')
			result.WriteRune(r)
		default:
			result.WriteRune(r)
		}
	}

	return result.String()
}

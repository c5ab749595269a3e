package render

import (
	"context"
	"strings"
	"testing"
)

func TestHTMLFromMarkdown(t *testing.T) {
	t.Parallel()

	md := "# Ada Lovelace\n\n**Programmer** at *Analytical Engines Ltd*\n"
	got, err := HTMLFromMarkdown(context.Background(), "Ada Lovelace", md)
	if err != nil {
		t.Fatalf("HTMLFromMarkdown() error = %v", err)
	}

	for _, want := range []string{
		"<!DOCTYPE html>",
		"<title>Ada Lovelace</title>",
		"<h1",
		"<strong>Programmer</strong>",
		"<em>Analytical Engines Ltd</em>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestHTMLFromMarkdownEscapesTitle(t *testing.T) {
	t.Parallel()

	got, err := HTMLFromMarkdown(context.Background(), `<script>`, "text")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, "<title><script></title>") {
		t.Error("title not escaped")
	}
	if !strings.Contains(got, "&lt;script&gt;") {
		t.Error("expected escaped title")
	}
}

func TestHTMLFromMarkdownHonorsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := HTMLFromMarkdown(ctx, "t", "text"); err == nil {
		t.Error("expected context error after cancellation")
	}
}

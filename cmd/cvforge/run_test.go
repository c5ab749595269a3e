package main

// Notes:
// - Render tests request only template-stage formats (typ, md, html) so no
//   external compiler is needed.

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cvforge "github.com/alnah/go-cvforge"
)

func writeSample(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "cv.yaml")
	if err := os.WriteFile(path, cvforge.NewSampleCV(), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunNoArgsPrintsUsage(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	if code := run(nil, &out, &errOut); code != exitUsage {
		t.Errorf("run() = %d, want %d", code, exitUsage)
	}
	if !strings.Contains(errOut.String(), "usage: cvforge") {
		t.Errorf("expected usage text, got %q", errOut.String())
	}
}

func TestRunUnknownCommand(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	if code := run([]string{"frobnicate"}, &out, &errOut); code != exitUsage {
		t.Errorf("run() = %d, want %d", code, exitUsage)
	}
	if !strings.Contains(errOut.String(), "unknown command") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestRunHelp(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	if code := run([]string{"help"}, &out, &errOut); code != exitOK {
		t.Errorf("run() = %d, want %d", code, exitOK)
	}
	if !strings.Contains(out.String(), "render") {
		t.Errorf("help should list commands, got %q", out.String())
	}
}

func TestRunCheckValidDocument(t *testing.T) {
	t.Parallel()

	input := writeSample(t, t.TempDir())

	var out, errOut bytes.Buffer
	if code := run([]string{"check", input}, &out, &errOut); code != exitOK {
		t.Fatalf("run() = %d, stderr %q", code, errOut.String())
	}
	if !strings.Contains(out.String(), "ok") {
		t.Errorf("stdout = %q", out.String())
	}
}

func TestRunCheckInvalidDocument(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("email: not-an-email\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer
	if code := run([]string{"check", path}, &out, &errOut); code != exitValidation {
		t.Errorf("run() = %d, want %d", code, exitValidation)
	}
}

func TestRunSchema(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	if code := run([]string{"schema"}, &out, &errOut); code != exitOK {
		t.Fatalf("run() = %d, stderr %q", code, errOut.String())
	}
	if !strings.Contains(out.String(), `"oneOf"`) {
		t.Error("schema output should contain the entry oneOf")
	}
}

func TestRunInit(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	var out, errOut bytes.Buffer
	if code := run([]string{"init"}, &out, &errOut); code != exitOK {
		t.Fatalf("run() = %d, stderr %q", code, errOut.String())
	}
	if _, err := os.Stat(filepath.Join(dir, "cv.yaml")); err != nil {
		t.Errorf("cv.yaml not written: %v", err)
	}

	// The starter document must pass its own validation.
	var out2, errOut2 bytes.Buffer
	if code := run([]string{"check", "cv.yaml"}, &out2, &errOut2); code != exitOK {
		t.Errorf("starter document fails check: %q", out2.String())
	}

	// A second init must refuse to overwrite.
	var out3, errOut3 bytes.Buffer
	if code := run([]string{"init"}, &out3, &errOut3); code != exitError {
		t.Errorf("second init = %d, want %d", code, exitError)
	}
}

func TestRunThemes(t *testing.T) {
	t.Parallel()

	var out, errOut bytes.Buffer
	if code := run([]string{"themes"}, &out, &errOut); code != exitOK {
		t.Fatalf("run() = %d, stderr %q", code, errOut.String())
	}
	for _, name := range []string{"classic", "engineering"} {
		if !strings.Contains(out.String(), name) {
			t.Errorf("themes output missing %q: %q", name, out.String())
		}
	}
}

func TestRunRenderTemplateFormats(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeSample(t, dir)
	outDir := filepath.Join(dir, "out")

	var out, errOut bytes.Buffer
	code := run([]string{"render", "-f", "typ,md,html", "-o", outDir, input}, &out, &errOut)
	if code != exitOK {
		t.Fatalf("run() = %d, stderr %q", code, errOut.String())
	}

	for _, name := range []string{"cv.typ", "cv.md", "cv.html", "cv.artifact.yaml"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}

	artifact, err := cvforge.LoadArtifact(filepath.Join(outDir, "cv.artifact.yaml"))
	if err != nil {
		t.Fatalf("LoadArtifact() error = %v", err)
	}
	if artifact.Theme != "classic" {
		t.Errorf("artifact theme = %q, want classic", artifact.Theme)
	}
	data, _ := os.ReadFile(input)
	if !artifact.Matches(data) {
		t.Error("artifact digest does not match input")
	}
}

func TestRunRenderUnknownFormat(t *testing.T) {
	t.Parallel()

	input := writeSample(t, t.TempDir())

	var out, errOut bytes.Buffer
	if code := run([]string{"render", "-f", "docx", input}, &out, &errOut); code != exitError {
		t.Errorf("run() = %d, want %d", code, exitError)
	}
}

func TestRunRenderUnknownThemeListsAvailable(t *testing.T) {
	t.Parallel()

	input := writeSample(t, t.TempDir())

	var out, errOut bytes.Buffer
	if code := run([]string{"render", "-f", "md", "-t", "brutalist", input}, &out, &errOut); code != exitError {
		t.Errorf("run() = %d, want %d", code, exitError)
	}
	stderr := errOut.String()
	if !strings.Contains(stderr, "hint:") || !strings.Contains(stderr, "classic") {
		t.Errorf("unknown theme should hint at available themes, stderr %q", stderr)
	}
}

func TestRunRenderValidationFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(path, []byte("surprise: true\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var out, errOut bytes.Buffer
	if code := run([]string{"render", "-f", "md", path}, &out, &errOut); code != exitValidation {
		t.Errorf("run() = %d, want %d, stderr %q", code, exitValidation, errOut.String())
	}
	if !strings.Contains(errOut.String(), "hint:") {
		t.Errorf("validation failure should carry a hint, stderr %q", errOut.String())
	}
}

func TestRunImplicitRender(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeSample(t, dir)
	outDir := filepath.Join(dir, "out")

	var out, errOut bytes.Buffer
	code := run([]string{input, "-f", "md", "-o", outDir}, &out, &errOut)
	if code != exitOK {
		t.Fatalf("run() = %d, stderr %q", code, errOut.String())
	}
	if _, err := os.Stat(filepath.Join(outDir, "cv.md")); err != nil {
		t.Errorf("cv.md not written: %v", err)
	}
}

func TestParseRenderFlags(t *testing.T) {
	t.Parallel()

	var errOut bytes.Buffer
	f, err := parseRenderFlags([]string{
		"--theme", "engineering",
		"--format", "pdf", "--format", "png",
		"--dpi", "300",
		"--workers", "4",
		"--typst-bin", "/usr/local/bin/typst",
		"cv.yaml", "other.yaml",
	}, &errOut)
	if err != nil {
		t.Fatalf("parseRenderFlags() error = %v", err)
	}
	if f.theme != "engineering" {
		t.Errorf("theme = %q", f.theme)
	}
	if f.typstBin != "/usr/local/bin/typst" {
		t.Errorf("typstBin = %q", f.typstBin)
	}
	if len(f.formats) != 2 || f.formats[1] != "png" {
		t.Errorf("formats = %v", f.formats)
	}
	if f.dpi != 300 {
		t.Errorf("dpi = %v", f.dpi)
	}
	if len(f.inputs) != 2 {
		t.Errorf("inputs = %v", f.inputs)
	}
}

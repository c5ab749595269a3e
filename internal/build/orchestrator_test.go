package build

// Notes:
// - The compiler is replaced by a fake runner that writes the output file
//   itself, so no external binary is needed.
// - Convergence signals are injected per test through the measure hook.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeRunner struct {
	calls    int
	lastName string
	fail     bool
	noWrite  bool
	block    bool
	stderr   string
}

func (f *fakeRunner) Run(ctx context.Context, dir, name string, args ...string) (string, string, error) {
	f.calls++
	f.lastName = name
	if f.block {
		<-ctx.Done()
		return "", "", ctx.Err()
	}
	if f.fail {
		return "", f.stderr, errors.New("exit status 1")
	}
	if !f.noWrite {
		out := args[len(args)-1]
		if err := os.WriteFile(filepath.Join(dir, out), []byte("%PDF-fake"), 0o600); err != nil {
			return "", "", err
		}
	}
	return "", "", nil
}

// scriptedMeasure returns each Signals value in turn, repeating the last.
func scriptedMeasure(seq ...Signals) func(string) (Signals, error) {
	i := 0
	return func(string) (Signals, error) {
		s := seq[i]
		if i < len(seq)-1 {
			i++
		}
		return s, nil
	}
}

func writeSource(t *testing.T) (dir, file string) {
	t.Helper()
	dir = t.TempDir()
	file = "cv.typ"
	if err := os.WriteFile(filepath.Join(dir, file), []byte("#lorem(10)"), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir, file
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestCompileConvergesOnSecondPass(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	o := NewOrchestrator(WithRunner(runner))
	o.measure = scriptedMeasure(
		Signals{Pages: 2, Digest: "aa"},
		Signals{Pages: 2, Digest: "aa"},
	)

	dir, file := writeSource(t)
	res, err := o.Compile(context.Background(), dir, file)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !res.Converged {
		t.Error("expected converged result")
	}
	if res.Passes != 2 {
		t.Errorf("Passes = %d, want 2", res.Passes)
	}
	if res.Pages != 2 {
		t.Errorf("Pages = %d, want 2", res.Pages)
	}
	if got := o.State(); got != StateStable {
		t.Errorf("State() = %v, want %v", got, StateStable)
	}
}

func TestCompileReRunsWhenPageCountShifts(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	o := NewOrchestrator(WithRunner(runner))
	o.measure = scriptedMeasure(
		Signals{Pages: 1, Digest: "aa"},
		Signals{Pages: 2, Digest: "bb"},
		Signals{Pages: 2, Digest: "bb"},
	)

	dir, file := writeSource(t)
	res, err := o.Compile(context.Background(), dir, file)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !res.Converged {
		t.Error("expected converged result")
	}
	if res.Passes != 3 {
		t.Errorf("Passes = %d, want 3", res.Passes)
	}
}

func TestCompileDigestMismatchDelaysConvergence(t *testing.T) {
	t.Parallel()

	// Same page count every pass, digest only settles on pass three.
	runner := &fakeRunner{}
	o := NewOrchestrator(WithRunner(runner))
	o.measure = scriptedMeasure(
		Signals{Pages: 2, Digest: "aa"},
		Signals{Pages: 2, Digest: "bb"},
		Signals{Pages: 2, Digest: "bb"},
	)

	dir, file := writeSource(t)
	res, err := o.Compile(context.Background(), dir, file)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if res.Passes != 3 {
		t.Errorf("Passes = %d, want 3", res.Passes)
	}
}

func TestCompilePageCountOnlyPolicy(t *testing.T) {
	t.Parallel()

	// With the digest requirement off, matching page counts suffice.
	runner := &fakeRunner{}
	o := NewOrchestrator(WithRunner(runner), WithPolicy(ConvergencePolicy{}))
	o.measure = scriptedMeasure(
		Signals{Pages: 2, Digest: "aa"},
		Signals{Pages: 2, Digest: "bb"},
	)

	dir, file := writeSource(t)
	res, err := o.Compile(context.Background(), dir, file)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if !res.Converged {
		t.Error("expected converged result")
	}
	if res.Passes != 2 {
		t.Errorf("Passes = %d, want 2", res.Passes)
	}
}

func TestCompileStopsAtPassLimit(t *testing.T) {
	t.Parallel()

	// Signals never repeat. The run must stop at the limit and hand back
	// the last document without reporting an error.
	runner := &fakeRunner{}
	o := NewOrchestrator(WithRunner(runner))
	o.measure = scriptedMeasure(
		Signals{Pages: 1, Digest: "aa"},
		Signals{Pages: 2, Digest: "bb"},
		Signals{Pages: 3, Digest: "cc"},
		Signals{Pages: 4, Digest: "dd"},
	)

	dir, file := writeSource(t)
	res, err := o.Compile(context.Background(), dir, file)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if res.Converged {
		t.Error("expected non-converged result")
	}
	if res.Passes != MaxCompilePasses {
		t.Errorf("Passes = %d, want %d", res.Passes, MaxCompilePasses)
	}
	if res.PDFPath == "" {
		t.Error("expected a document path even without convergence")
	}
}

func TestCompileUsesConfiguredBinary(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	o := NewOrchestrator(WithRunner(runner), WithCompilerBinary("/opt/typst/bin/typst"))
	o.measure = scriptedMeasure(Signals{Pages: 1, Digest: "aa"})

	dir, file := writeSource(t)
	if _, err := o.Compile(context.Background(), dir, file); err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if runner.lastName != "/opt/typst/bin/typst" {
		t.Errorf("compiler invoked as %q", runner.lastName)
	}

	// Empty override keeps the default.
	o = NewOrchestrator(WithRunner(runner), WithCompilerBinary(""))
	o.measure = scriptedMeasure(Signals{Pages: 1, Digest: "aa"})
	if _, err := o.Compile(context.Background(), dir, file); err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if runner.lastName != DefaultCompilerBinary {
		t.Errorf("compiler invoked as %q, want %q", runner.lastName, DefaultCompilerBinary)
	}
}

func TestCompileFailurePropagatesDiagnostics(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{fail: true, stderr: "cv.typ:3: unknown variable"}
	o := NewOrchestrator(WithRunner(runner))

	dir, file := writeSource(t)
	_, err := o.Compile(context.Background(), dir, file)
	if !errors.Is(err, ErrCompileFailed) {
		t.Fatalf("error = %v, want ErrCompileFailed", err)
	}
	if want := "unknown variable"; err != nil && !strings.Contains(err.Error(), want) {
		t.Errorf("error %q does not mention %q", err, want)
	}
	if got := o.State(); got != StateFailed {
		t.Errorf("State() = %v, want %v", got, StateFailed)
	}
}

func TestCompileMissingArtifact(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{noWrite: true}
	o := NewOrchestrator(WithRunner(runner))

	dir, file := writeSource(t)
	_, err := o.Compile(context.Background(), dir, file)
	if !errors.Is(err, ErrMissingArtifact) {
		t.Fatalf("error = %v, want ErrMissingArtifact", err)
	}
}

func TestCompileMissingSource(t *testing.T) {
	t.Parallel()

	o := NewOrchestrator(WithRunner(&fakeRunner{}))
	_, err := o.Compile(context.Background(), t.TempDir(), "absent.typ")
	if !errors.Is(err, ErrNoSource) {
		t.Fatalf("error = %v, want ErrNoSource", err)
	}
}

func TestCompilePassTimeout(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{block: true}
	o := NewOrchestrator(WithRunner(runner), WithPassTimeout(20*time.Millisecond))

	dir, file := writeSource(t)
	_, err := o.Compile(context.Background(), dir, file)
	if !errors.Is(err, ErrCompileTimeout) {
		t.Fatalf("error = %v, want ErrCompileTimeout", err)
	}
	if runner.calls != 1 {
		t.Errorf("runner called %d times, want 1", runner.calls)
	}
}

func TestStateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StateCompiling, "compiling"},
		{StateStable, "stable"},
		{StateFailed, "failed"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}

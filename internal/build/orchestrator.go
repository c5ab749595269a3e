// Package build drives the external typesetting compiler to a fixpoint.
//
// Documents with cross-references (page counters in headers, "page N of M")
// may need more than one compile pass before the output stabilizes, because
// the first pass does not yet know the final page count. The orchestrator
// re-runs the compiler until the output signals repeat or the pass limit
// is reached.
package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrCompileFailed is returned when the compiler exits non-zero.
	ErrCompileFailed = errors.New("compile failed")
	// ErrCompileTimeout is returned when a single pass exceeds its deadline.
	ErrCompileTimeout = errors.New("compile pass timed out")
	// ErrMissingArtifact is returned when the compiler reports success but
	// produced no output file.
	ErrMissingArtifact = errors.New("compiler produced no output")
	// ErrNoSource is returned when the source file does not exist.
	ErrNoSource = errors.New("source file not found")
)

const (
	// MaxCompilePasses bounds the fixpoint loop. Two passes settle almost
	// every real document; four leaves headroom for pathological layouts.
	MaxCompilePasses = 4

	// DefaultPassTimeout bounds a single compiler invocation.
	DefaultPassTimeout = 2 * time.Minute

	// DefaultCompilerBinary is resolved on PATH unless WithCompilerBinary
	// points somewhere else.
	DefaultCompilerBinary = "typst"
)

// sourceDateEpoch pins the compiler's notion of "now" so repeated passes
// over identical input produce byte-identical output. 2020-01-01T00:00:00Z.
const sourceDateEpoch = 1577836800

// State describes where the orchestrator is in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateCompiling
	StateStable
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCompiling:
		return "compiling"
	case StateStable:
		return "stable"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result reports the outcome of a compile run.
type Result struct {
	// PDFPath is the absolute path of the compiled document.
	PDFPath string
	// Passes is how many compiler invocations ran.
	Passes int
	// Converged reports whether the output stabilized within the pass
	// limit. A non-converged result still carries a usable document.
	Converged bool
	// Pages is the page count of the final document.
	Pages int
	// Log holds the compiler's diagnostic output from the last pass.
	Log string
}

// Orchestrator compiles a typesetting source to a stable document.
type Orchestrator struct {
	runner      CommandRunner
	binary      string
	passTimeout time.Duration
	policy      ConvergencePolicy
	state       State

	// measure is swapped in tests to avoid real PDF output.
	measure func(path string) (Signals, error)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRunner replaces the command runner, mainly for tests.
func WithRunner(r CommandRunner) Option {
	return func(o *Orchestrator) { o.runner = r }
}

// WithPassTimeout overrides the per-pass deadline.
func WithPassTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.passTimeout = d
		}
	}
}

// WithCompilerBinary overrides the compiler executable, either a bare name
// resolved on PATH or an absolute path.
func WithCompilerBinary(name string) Option {
	return func(o *Orchestrator) {
		if name != "" {
			o.binary = name
		}
	}
}

// WithPolicy overrides the convergence policy.
func WithPolicy(p ConvergencePolicy) Option {
	return func(o *Orchestrator) { o.policy = p }
}

// NewOrchestrator builds an orchestrator with the given options.
func NewOrchestrator(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		runner: &ExecRunner{
			Env: []string{"SOURCE_DATE_EPOCH=" + strconv.Itoa(sourceDateEpoch)},
		},
		binary:      DefaultCompilerBinary,
		passTimeout: DefaultPassTimeout,
		policy:      DefaultPolicy,
		state:       StateIdle,
		measure:     measurePDF,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// State returns the orchestrator's current lifecycle state.
func (o *Orchestrator) State() State {
	return o.state
}

// Compile runs the compiler on sourceFile inside workDir until the output
// document stabilizes or MaxCompilePasses is reached. The source file path
// is relative to workDir. Exceeding the pass limit is not an error; the
// Result reports Converged false and the caller decides how loudly to warn.
func (o *Orchestrator) Compile(ctx context.Context, workDir, sourceFile string) (*Result, error) {
	src := filepath.Join(workDir, sourceFile)
	if _, err := os.Stat(src); err != nil {
		o.state = StateFailed
		return nil, fmt.Errorf("%w: %s", ErrNoSource, src)
	}

	stem := strings.TrimSuffix(sourceFile, filepath.Ext(sourceFile))
	outFile := stem + ".pdf"
	outPath := filepath.Join(workDir, outFile)

	o.state = StateCompiling

	var prev Signals
	result := &Result{PDFPath: outPath}

	for pass := 1; pass <= MaxCompilePasses; pass++ {
		result.Passes = pass

		log, err := o.runPass(ctx, workDir, sourceFile, outFile)
		result.Log = log
		if err != nil {
			o.state = StateFailed
			return nil, err
		}

		if _, err := os.Stat(outPath); err != nil {
			o.state = StateFailed
			return nil, fmt.Errorf("%w: expected %s", ErrMissingArtifact, outPath)
		}

		cur, err := o.measure(outPath)
		if err != nil {
			o.state = StateFailed
			return nil, err
		}
		result.Pages = cur.Pages

		if pass > 1 && cur.Equal(prev, o.policy) {
			result.Converged = true
			o.state = StateStable
			return result, nil
		}
		prev = cur
	}

	// Pass limit reached without two agreeing passes. The last document
	// is still returned; layout may be off by a page reference.
	o.state = StateStable
	return result, nil
}

func (o *Orchestrator) runPass(ctx context.Context, workDir, sourceFile, outFile string) (string, error) {
	passCtx, cancel := context.WithTimeout(ctx, o.passTimeout)
	defer cancel()

	stdout, stderr, err := o.runner.Run(passCtx, workDir, o.binary,
		"compile", "--diagnostic-format", "short", sourceFile, outFile)
	log := strings.TrimSpace(stdout + stderr)
	if err != nil {
		if errors.Is(passCtx.Err(), context.DeadlineExceeded) {
			return log, fmt.Errorf("%w after %s", ErrCompileTimeout, o.passTimeout)
		}
		if log != "" {
			return log, fmt.Errorf("%w: %s", ErrCompileFailed, log)
		}
		return log, fmt.Errorf("%w: %v", ErrCompileFailed, err)
	}
	return log, nil
}

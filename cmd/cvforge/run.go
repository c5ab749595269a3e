package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	cvforge "github.com/alnah/go-cvforge"
	"github.com/alnah/go-cvforge/internal/config"
	"github.com/alnah/go-cvforge/internal/fileutil"
	"github.com/alnah/go-cvforge/internal/hints"
)

const usage = `usage: cvforge <command> [flags]

Commands:
  render   render a CV document (default when given a file)
  check    validate a CV document without rendering
  schema   print the JSON Schema for CV input
  init     write a starter CV document
  themes   list built-in themes

Run 'cvforge render --help' for render flags.`

// run dispatches the subcommand and returns the process exit code.
func run(args []string, out, errOut io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(errOut, usage)
		return exitUsage
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "render":
		return report(errOut, runRender(rest, out, errOut))
	case "check":
		return report(errOut, runCheck(rest, out))
	case "schema":
		return report(errOut, runSchema(out))
	case "init":
		return report(errOut, runInit(rest, out))
	case "themes":
		return report(errOut, runThemes(out))
	case "help", "-h", "--help":
		fmt.Fprintln(out, usage)
		return exitOK
	default:
		// A bare file argument means an implicit render.
		if fileutil.FileExists(cmd) || strings.Contains(cmd, ".") {
			return report(errOut, runRender(args, out, errOut))
		}
		fmt.Fprintf(errOut, "unknown command %q\n%s\n", cmd, usage)
		return exitUsage
	}
}

// report prints the error with an actionable hint where one applies.
func report(errOut io.Writer, err error) int {
	if err == nil {
		return exitOK
	}
	msg := err.Error()
	switch {
	case errors.Is(err, cvforge.ErrValidation):
		msg += hints.ForValidation()
	case errors.Is(err, cvforge.ErrUnknownTheme):
		names, _ := cvforge.ListThemes()
		msg += hints.ForThemeNotFound(names)
	case errors.Is(err, cvforge.ErrCompileTimeout):
		msg += hints.ForTimeout()
	case strings.Contains(msg, "executable file not found"):
		msg += hints.ForCompilerMissing()
	case errors.Is(err, config.ErrConfigNotFound):
		msg += hints.ForConfigNotFound(nil)
	}
	fmt.Fprintln(errOut, "error:", msg)
	return exitCodeFor(err)
}

func runRender(args []string, out, errOut io.Writer) error {
	f, err := parseRenderFlags(args, errOut)
	if err != nil {
		return err
	}
	if len(f.inputs) == 0 {
		return errors.New("render needs at least one input file")
	}

	cfg := config.DefaultConfig()
	if f.config != "" {
		cfg, err = config.LoadConfig(f.config)
		if err != nil {
			return err
		}
	}

	opts, formats, err := buildServiceOptions(f, cfg)
	if err != nil {
		return err
	}

	var override []byte
	designFile := f.design
	if designFile == "" {
		designFile = cfg.Design.File
	}
	if designFile != "" {
		override, err = os.ReadFile(designFile) // #nosec G304 -- design path is user-provided
		if err != nil {
			return fmt.Errorf("reading design override: %w", err)
		}
	}

	pool, err := cvforge.NewServicePool(cvforge.ResolvePoolSize(f.workers), opts...)
	if err != nil {
		return err
	}
	defer func() { _ = pool.Close() }()

	ctx := context.Background()
	var (
		mu       sync.Mutex
		firstErr error
		wg       sync.WaitGroup
	)

	for _, input := range f.inputs {
		wg.Add(1)
		go func(input string) {
			defer wg.Done()
			if err := renderOne(ctx, pool, input, override, formats, f, cfg, out, errOut); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
			}
		}(input)
	}
	wg.Wait()
	return firstErr
}

// buildServiceOptions merges flags over config file values into the service
// option set. Flags win.
func buildServiceOptions(f *renderFlags, cfg *config.Config) ([]cvforge.ServiceOption, []cvforge.Format, error) {
	formatNames := f.formats
	if len(formatNames) == 0 {
		formatNames = cfg.Render.Formats
	}
	if len(formatNames) == 0 {
		formatNames = []string{"pdf"}
	}
	formats := make([]cvforge.Format, 0, len(formatNames))
	for _, name := range formatNames {
		format, err := cvforge.ParseFormat(name)
		if err != nil {
			return nil, nil, err
		}
		formats = append(formats, format)
	}

	opts := []cvforge.ServiceOption{cvforge.WithFormats(formats...)}

	switch {
	case f.themeDir != "":
		opts = append(opts, cvforge.WithThemeDir(f.themeDir))
	case f.theme != "":
		opts = append(opts, cvforge.WithTheme(f.theme))
	case cfg.Render.Theme != "":
		if fileutil.IsFilePath(cfg.Render.Theme) {
			opts = append(opts, cvforge.WithThemeDir(cfg.Render.Theme))
		} else {
			opts = append(opts, cvforge.WithTheme(cfg.Render.Theme))
		}
	}

	dpi := f.dpi
	if dpi == 0 && cfg.Render.DPI != 0 {
		dpi = float64(cfg.Render.DPI)
	}
	if dpi != 0 {
		opts = append(opts, cvforge.WithDPI(dpi))
	}

	timeout := f.timeout
	if timeout == 0 {
		timeout = cfg.Compile.Timeout
	}
	if timeout > 0 {
		opts = append(opts, cvforge.WithPassTimeout(timeout))
	}

	binary := f.typstBin
	if binary == "" {
		binary = cfg.Compile.Binary
	}
	if binary != "" {
		opts = append(opts, cvforge.WithCompilerBinary(binary))
	}

	return opts, formats, nil
}

// renderOne renders a single input file and writes its artifacts.
func renderOne(ctx context.Context, pool *cvforge.ServicePool, input string, override []byte,
	formats []cvforge.Format, f *renderFlags, cfg *config.Config, out, errOut io.Writer) error {

	data, err := os.ReadFile(input) // #nosec G304 -- input path is user-provided
	if err != nil {
		return fmt.Errorf("reading %s: %w", input, err)
	}

	start := time.Now()
	res, err := pool.Render(ctx, cvforge.Input{
		CV:             data,
		DesignOverride: override,
		Stem:           fileutil.Stem(input),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	outDir := f.outputDir
	if outDir == "" {
		outDir = cfg.Output.DefaultDir
	}
	if outDir == "" {
		outDir = filepath.Dir(input)
	}
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w%s", err, hints.ForOutputDirectory())
	}

	written, err := writeOutputs(outDir, formats, res)
	if err != nil {
		return err
	}

	artifact := cvforge.NewArtifact(cvforge.Input{CV: data}, formats, res, written)
	if _, err := artifact.Save(outDir); err != nil {
		return err
	}

	for _, name := range written {
		fmt.Fprintf(out, "created %s\n", filepath.Join(outDir, name))
	}
	for _, failure := range res.PageFailures {
		fmt.Fprintf(errOut, "warning: %s: %s\n", input, failure)
	}
	if !res.Converged && res.Passes > 0 {
		fmt.Fprintf(errOut, "warning: %s: layout did not stabilize after %d passes\n", input, res.Passes)
	}
	if f.verbose {
		fmt.Fprintf(out, "%s: %d pages, %d passes, converged=%t, %s\n",
			input, res.Pages, res.Passes, res.Converged, time.Since(start).Round(time.Millisecond))
	}
	return nil
}

// writeOutputs persists the requested artifacts and returns the file names
// written, relative to dir.
func writeOutputs(dir string, formats []cvforge.Format, res *cvforge.Result) ([]string, error) {
	var written []string
	write := func(name string, data []byte) error {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o600); err != nil {
			return fmt.Errorf("writing %s: %w", name, err)
		}
		written = append(written, name)
		return nil
	}

	for _, format := range formats {
		switch format {
		case cvforge.FormatPDF:
			if err := write(res.Stem+".pdf", res.PDF); err != nil {
				return nil, err
			}
		case cvforge.FormatPNG:
			for _, img := range res.Images {
				name := fmt.Sprintf("%s_page_%d.png", res.Stem, img.Page)
				if err := write(name, img.PNG); err != nil {
					return nil, err
				}
			}
		case cvforge.FormatTypst:
			if err := write(res.Stem+".typ", []byte(res.Typst)); err != nil {
				return nil, err
			}
		case cvforge.FormatMarkdown:
			if err := write(res.Stem+".md", []byte(res.Markdown)); err != nil {
				return nil, err
			}
		case cvforge.FormatHTML:
			if err := write(res.Stem+".html", []byte(res.HTML)); err != nil {
				return nil, err
			}
		}
	}
	return written, nil
}

func runCheck(args []string, out io.Writer) error {
	if len(args) == 0 {
		return errors.New("check needs at least one input file")
	}
	var firstErr error
	for _, input := range args {
		data, err := os.ReadFile(input) // #nosec G304 -- input path is user-provided
		if err != nil {
			return fmt.Errorf("reading %s: %w", input, err)
		}
		if err := cvforge.Check(data); err != nil {
			fmt.Fprintf(out, "%s: %v\n", input, err)
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		fmt.Fprintf(out, "%s: ok\n", input)
	}
	return firstErr
}

func runSchema(out io.Writer) error {
	data, err := cvforge.Schema()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func runInit(args []string, out io.Writer) error {
	path := "cv.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if fileutil.FileExists(path) {
		return fmt.Errorf("%s already exists, refusing to overwrite", path)
	}
	if err := os.WriteFile(path, cvforge.NewSampleCV(), 0o600); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(out, "created %s\n", path)
	return nil
}

func runThemes(out io.Writer) error {
	names, err := cvforge.ListThemes()
	if err != nil {
		return err
	}
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	return nil
}

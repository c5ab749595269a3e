package cvforge

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alnah/go-cvforge/internal/build"
	"github.com/alnah/go-cvforge/internal/design"
	"github.com/alnah/go-cvforge/internal/fileutil"
	"github.com/alnah/go-cvforge/internal/raster"
	"github.com/alnah/go-cvforge/internal/render"
	"github.com/alnah/go-cvforge/internal/schema"
	"github.com/alnah/go-cvforge/internal/theme"
	"github.com/alnah/go-cvforge/internal/yamlutil"
)

// DefaultStem names output files when the input does not.
const DefaultStem = "cv"

// Service renders CV documents with a fixed theme and format selection.
// A Service is safe for sequential reuse; for concurrent rendering wrap
// Services in a Pool.
type Service struct {
	theme       *theme.Theme
	registry    *theme.Registry
	formats     []Format
	dpi         float64
	passTimeout time.Duration
	binary      string
	runner      build.CommandRunner
	policy      build.ConvergencePolicy
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceConfig)

type serviceConfig struct {
	themeName   string
	themeDir    string
	formats     []Format
	dpi         float64
	passTimeout time.Duration
	binary      string
	runner      build.CommandRunner
	policy      build.ConvergencePolicy
}

// WithTheme selects a built-in theme by name.
func WithTheme(name string) ServiceOption {
	return func(c *serviceConfig) { c.themeName = name }
}

// WithThemeDir loads a theme bundle from a directory instead of the
// built-ins. Takes precedence over WithTheme.
func WithThemeDir(dir string) ServiceOption {
	return func(c *serviceConfig) { c.themeDir = dir }
}

// WithFormats selects the artifacts each render produces.
func WithFormats(formats ...Format) ServiceOption {
	return func(c *serviceConfig) { c.formats = formats }
}

// WithDPI sets the rasterization resolution for PNG output.
func WithDPI(dpi float64) ServiceOption {
	return func(c *serviceConfig) { c.dpi = dpi }
}

// WithPassTimeout bounds each typesetting compiler invocation.
func WithPassTimeout(d time.Duration) ServiceOption {
	return func(c *serviceConfig) { c.passTimeout = d }
}

// WithCompilerBinary points at the typesetting compiler executable. Empty
// keeps the default, typst resolved on PATH.
func WithCompilerBinary(name string) ServiceOption {
	return func(c *serviceConfig) { c.binary = name }
}

// WithCommandRunner replaces the compiler process runner, mainly for tests.
func WithCommandRunner(r build.CommandRunner) ServiceOption {
	return func(c *serviceConfig) { c.runner = r }
}

// WithConvergencePolicy selects which signals must stabilize between
// compile passes.
func WithConvergencePolicy(p build.ConvergencePolicy) ServiceOption {
	return func(c *serviceConfig) { c.policy = p }
}

// NewService builds a Service. Theme resolution happens here so a bad theme
// name or directory fails fast instead of on the first render.
func NewService(opts ...ServiceOption) (*Service, error) {
	cfg := serviceConfig{
		themeName: "classic",
		formats:   []Format{FormatPDF},
		dpi:       raster.DefaultDPI,
		policy:    build.DefaultPolicy,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	if len(cfg.formats) == 0 {
		return nil, ErrNoFormats
	}
	for _, f := range cfg.formats {
		if _, err := ParseFormat(string(f)); err != nil {
			return nil, err
		}
	}

	registry, err := theme.NewRegistry()
	if err != nil {
		return nil, err
	}

	var th *theme.Theme
	if cfg.themeDir != "" {
		th, err = theme.LoadDir(cfg.themeDir)
	} else {
		th, err = registry.Get(cfg.themeName)
	}
	if err != nil {
		return nil, err
	}

	return &Service{
		theme:       th,
		registry:    registry,
		formats:     cfg.formats,
		dpi:         cfg.dpi,
		passTimeout: cfg.passTimeout,
		binary:      cfg.binary,
		runner:      cfg.runner,
		policy:      cfg.policy,
	}, nil
}

// Themes lists the built-in theme names.
func (s *Service) Themes() []string {
	return s.registry.Names()
}

// ListThemes returns the built-in theme names without building a Service.
func ListThemes() ([]string, error) {
	registry, err := theme.NewRegistry()
	if err != nil {
		return nil, err
	}
	return registry.Names(), nil
}

// Render runs the full pipeline for one CV document: validate, resolve the
// design, expand templates, compile to a stable PDF, and rasterize pages.
// Stages not needed by the requested formats are skipped.
func (s *Service) Render(ctx context.Context, in Input) (*Result, error) {
	if len(in.CV) == 0 {
		return nil, ErrEmptyInput
	}

	stem := in.Stem
	if stem == "" {
		stem = DefaultStem
	}
	if err := fileutil.ValidateName(stem); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStem, err)
	}

	model, err := schema.Parse(in.CV)
	if err != nil {
		return nil, err
	}

	d, err := design.Resolve(s.theme.Name, s.theme.Defaults, in.DesignOverride)
	if err != nil {
		return nil, err
	}

	resolved, err := yamlutil.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encoding resolved design: %w", err)
	}
	res := &Result{Stem: stem, Theme: s.theme.Name, ResolvedDesign: string(resolved)}

	typstEngine, err := render.NewTypstEngine(s.theme, d)
	if err != nil {
		return nil, err
	}
	typstSrc, err := typstEngine.Render(model)
	if err != nil {
		return nil, err
	}
	if hasFormat(s.formats, FormatTypst) {
		res.Typst = typstSrc
	}

	if wantsMarkdown(s.formats) {
		if err := s.renderMarkdown(ctx, model, d, res); err != nil {
			return nil, err
		}
	}

	if wantsCompile(s.formats) {
		if err := s.compile(ctx, stem, typstSrc, res); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// renderMarkdown produces the lightweight-markup rendition and, when
// requested, the standalone HTML page.
func (s *Service) renderMarkdown(ctx context.Context, model *schema.CVModel, d *design.Design, res *Result) error {
	fragments, err := theme.MarkdownFragments()
	if err != nil {
		return err
	}
	mdEngine, err := render.NewMarkdownEngine(fragments, d)
	if err != nil {
		return err
	}
	md, err := mdEngine.Render(model)
	if err != nil {
		return err
	}

	if hasFormat(s.formats, FormatMarkdown) {
		res.Markdown = md
	}
	if hasFormat(s.formats, FormatHTML) {
		html, err := render.HTMLFromMarkdown(ctx, model.Name, md)
		if err != nil {
			return err
		}
		res.HTML = html
	}
	return nil
}

// compile writes the typesetting source into an isolated work directory,
// drives the compiler to a fixpoint, and reads the artifacts back.
func (s *Service) compile(ctx context.Context, stem, typstSrc string, res *Result) error {
	workDir, cleanup, err := fileutil.NewWorkDir()
	if err != nil {
		return err
	}
	defer cleanup()

	srcName := stem + ".typ"
	if _, err := fileutil.WriteWorkFile(workDir, srcName, []byte(typstSrc)); err != nil {
		return err
	}

	var orchOpts []build.Option
	if s.runner != nil {
		orchOpts = append(orchOpts, build.WithRunner(s.runner))
	}
	if s.passTimeout > 0 {
		orchOpts = append(orchOpts, build.WithPassTimeout(s.passTimeout))
	}
	if s.binary != "" {
		orchOpts = append(orchOpts, build.WithCompilerBinary(s.binary))
	}
	orchOpts = append(orchOpts, build.WithPolicy(s.policy))

	compiled, err := build.NewOrchestrator(orchOpts...).Compile(ctx, workDir, srcName)
	if err != nil {
		return err
	}
	res.Pages = compiled.Pages
	res.Passes = compiled.Passes
	res.Converged = compiled.Converged

	if hasFormat(s.formats, FormatPDF) {
		pdf, err := os.ReadFile(compiled.PDFPath) // #nosec G304 -- path is inside our work directory
		if err != nil {
			return fmt.Errorf("reading compiled document: %w", err)
		}
		res.PDF = pdf
	}

	if hasFormat(s.formats, FormatPNG) {
		if err := s.rasterize(compiled.PDFPath, workDir, res); err != nil {
			return err
		}
	}
	return nil
}

// rasterize renders each PDF page to PNG and loads the images into the
// result. Pages that fail are reported without discarding the others.
func (s *Service) rasterize(pdfPath, workDir string, res *Result) error {
	r, err := raster.NewRasterizer(s.dpi)
	if err != nil {
		return err
	}
	rastered, err := r.Rasterize(pdfPath, workDir)
	if err != nil {
		return err
	}

	for _, img := range rastered.Images {
		data, err := os.ReadFile(img.Path) // #nosec G304 -- path is inside our work directory
		if err != nil {
			return fmt.Errorf("reading page image: %w", err)
		}
		res.Images = append(res.Images, PageImage{Page: img.Page, PNG: data})
	}
	for _, pe := range rastered.Failed {
		res.PageFailures = append(res.PageFailures, pe.Error())
	}
	return nil
}

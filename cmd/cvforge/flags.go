package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/pflag"
)

// renderFlags holds everything the render subcommand accepts.
type renderFlags struct {
	theme     string
	themeDir  string
	formats   []string
	design    string
	outputDir string
	dpi       float64
	workers   int
	timeout   time.Duration
	typstBin  string
	config    string
	verbose   bool

	inputs []string
}

// parseRenderFlags parses the render subcommand's arguments.
func parseRenderFlags(args []string, errOut io.Writer) (*renderFlags, error) {
	f := &renderFlags{}

	fs := pflag.NewFlagSet("render", pflag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {
		fmt.Fprintln(errOut, "usage: cvforge render [flags] <cv.yaml> [more.yaml ...]")
		fs.PrintDefaults()
	}

	fs.StringVarP(&f.theme, "theme", "t", "", "built-in theme name")
	fs.StringVar(&f.themeDir, "theme-dir", "", "load theme from a directory instead of the built-ins")
	fs.StringSliceVarP(&f.formats, "format", "f", nil, "output formats: pdf, png, typ, md, html")
	fs.StringVarP(&f.design, "design", "d", "", "design override YAML file")
	fs.StringVarP(&f.outputDir, "output-dir", "o", "", "directory for output files (default: alongside input)")
	fs.Float64Var(&f.dpi, "dpi", 0, "raster resolution for PNG output")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent render workers (0 = auto)")
	fs.DurationVar(&f.timeout, "timeout", 0, "per-pass compile deadline")
	fs.StringVar(&f.typstBin, "typst-bin", "", "typst executable name or path (default: typst on PATH)")
	fs.StringVarP(&f.config, "config", "c", "", "config file path or name")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "report passes, convergence, and timings")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	f.inputs = fs.Args()
	return f, nil
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"

	"github.com/Alia5/mtlgen/internal/codegen/generator"
	"github.com/Alia5/mtlgen/internal/codegen/meta"
	"github.com/Alia5/mtlgen/internal/codegen/scanner"
	"github.com/Alia5/mtlgen/internal/log"
)

const shaderExt = ".metal"

// Pairing holds the vertex/fragment matching flags.
type Pairing struct {
	Mode          string `help:"How vertex shaders find their fragment shader: prefix (vMain/fMain), suffix (mainVertex/mainFragment) or none (directives only)" enum:"prefix,suffix,none" default:"prefix" env:"MTLGEN_PAIRING_MODE"`
	VertexAffix   string `help:"Vertex shader name affix (default: v for prefix, Vertex for suffix)" env:"MTLGEN_PAIRING_VERTEX_AFFIX"`
	FragmentAffix string `help:"Fragment shader name affix (default: f for prefix, Fragment for suffix)" env:"MTLGEN_PAIRING_FRAGMENT_AFFIX"`
	Scope         string `help:"Pair within each file or across all inputs" enum:"file,all" default:"file" env:"MTLGEN_PAIRING_SCOPE"`
}

type Generate struct {
	Inputs      []string `arg:"" optional:"" type:"path" help:"Metal source files or directories (default: current directory)"`
	Recursive   bool     `short:"r" help:"Descend into subdirectories of input directories" env:"MTLGEN_RECURSIVE"`
	Output      string   `short:"o" type:"path" help:"Write all encoders into this .swift file instead of <name>Encoders.swift next to each source" env:"MTLGEN_OUTPUT"`
	Access      string   `help:"Access level of generated declarations" enum:"public,internal" default:"public" env:"MTLGEN_ACCESS"`
	PixelFormat string   `help:"Default color attachment pixel format (MTLPixelFormat case name)" default:"bgra8Unorm" env:"MTLGEN_PIXEL_FORMAT"`
	Pairing     Pairing  `embed:"" prefix:"pairing."`
	Jobs        int      `short:"j" help:"Number of files processed in parallel (0 uses all CPUs)" default:"0" env:"MTLGEN_JOBS"`
	DryRun      bool     `help:"Report what would be written without touching any file" env:"MTLGEN_DRY_RUN"`

	diag io.Writer `kong:"-"`
}

// Validate is called by Kong after parsing.
func (c *Generate) Validate() error {
	if c.Output != "" && filepath.Ext(c.Output) != ".swift" {
		return fmt.Errorf("output %q must have a .swift extension", c.Output)
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	return nil
}

func (c *Generate) config() generator.Config {
	return generator.Config{
		AccessLevel: meta.AccessLevel(c.Access),
		PixelFormat: c.PixelFormat,
		Pairing: generator.Pairing{
			Mode:          generator.PairingMode(c.Pairing.Mode),
			VertexAffix:   c.Pairing.VertexAffix,
			FragmentAffix: c.Pairing.FragmentAffix,
			Scope:         generator.PairingScope(c.Pairing.Scope),
		},
		Jobs:     c.Jobs,
		Combined: c.Output != "",
	}
}

// Run is called by Kong when the generate command is executed.
func (c *Generate) Run(logger *slog.Logger, dumper log.Dumper) error {
	if err := c.Validate(); err != nil {
		return err
	}
	inputs := c.Inputs
	if len(inputs) == 0 {
		inputs = []string{"."}
	}
	logger.Info("Starting encoder generation", "inputs", inputs, "recursive", c.Recursive, "output", c.Output)

	paths, err := findShaderFiles(inputs, c.Recursive)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		logger.Warn("No Metal sources found", "inputs", inputs)
		return nil
	}
	logger.Debug("Discovered Metal sources", "count", len(paths))

	var ioErrs []error
	sources := make([]generator.SourceFile, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			ioErrs = append(ioErrs, fmt.Errorf("read %s: %w", p, err))
			logger.Error("Failed to read shader source", "file", p, "error", err)
			continue
		}
		sources = append(sources, generator.SourceFile{Path: p, Contents: string(data)})
	}
	failFast := c.Output != "" && len(paths) == 1
	if failFast && len(ioErrs) > 0 {
		return ioErrs[0]
	}

	gen, err := generator.New(c.config(), logger)
	if err != nil {
		return err
	}
	gen.WithDumper(dumper)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	report := gen.Run(ctx, sources)
	c.reportFailures(logger, report)

	if failFast {
		if err := report.FirstErr(); err != nil {
			return err
		}
	}

	outs, err := generator.PlanOutputs(report, c.Output)
	if err != nil {
		ioErrs = append(ioErrs, err)
		logger.Error("Conflicting output files", "error", err)
	}

	writer := generator.NewWriter(logger, c.DryRun)
	written, unchanged := 0, 0
	for _, out := range outs {
		changed, err := writer.Write(out)
		if err != nil {
			ioErrs = append(ioErrs, err)
			logger.Error("Failed to write encoders", "file", out.Path, "error", err)
			continue
		}
		if changed {
			written++
		} else {
			unchanged++
		}
	}

	logger.Info("Encoder generation complete",
		"files", len(report.Files),
		"units", report.Units,
		"written", written,
		"unchanged", unchanged,
		"failed", report.Failed,
		"unpaired", report.Unpaired,
		"skipped", report.Skipped,
		"dryRun", c.DryRun)

	return errors.Join(append([]error{report.Err()}, ioErrs...)...)
}

// reportFailures logs every failure. Parse errors additionally get a source
// excerpt on the diagnostics writer.
func (c *Generate) reportFailures(logger *slog.Logger, report *generator.Report) {
	diag := c.diag
	if diag == nil {
		diag = os.Stderr
	}
	for _, f := range report.Files {
		for _, err := range f.Errs {
			logger.Error("Generation failed", "file", f.Path, "error", err)
			var perr *scanner.ParseError
			if errors.As(err, &perr) {
				_, _ = fmt.Fprintln(diag, perr.FormatWithContext())
			}
		}
	}
}

// findShaderFiles expands inputs into a sorted, de-duplicated list of Metal
// sources. Files named explicitly are taken regardless of extension.
func findShaderFiles(inputs []string, recursive bool) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", input, err)
		}
		if !info.IsDir() {
			add(input)
			continue
		}
		err = filepath.WalkDir(input, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != input && !recursive {
					return fs.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) == shaderExt {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", input, err)
		}
	}
	sort.Strings(files)
	return files, nil
}

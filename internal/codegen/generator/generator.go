package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Alia5/mtlgen/internal/codegen/generator/swift"
	"github.com/Alia5/mtlgen/internal/codegen/scanner"
)

// SourceFile is one Metal source handed to the generator.
type SourceFile struct {
	Path     string
	Contents string
}

// Unit is one generated wrapper type.
type Unit struct {
	SourceFile     string
	TypeName       string
	VertexShader   string
	FragmentShader string // empty for vertex-only pipelines
	Text           string
	UsesConstants  bool
}

// FileResult is the outcome for one source file.
type FileResult struct {
	Path     string
	Units    []Unit
	Errs     []error
	Unpaired []string // fragment shaders nothing paired with
	Skipped  int      // kernels

	parsed *scanner.File
	paired []string // fragmentRef keys claimed by this file's vertex shaders
}

// Report summarizes a generation run. Files keeps input order.
type Report struct {
	Files    []FileResult
	Units    int
	Failed   int
	Unpaired int
	Skipped  int
}

// Err joins every failure of the run, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, f := range r.Files {
		errs = append(errs, f.Errs...)
	}
	return errors.Join(errs...)
}

// FirstErr returns the first failure in input order, or nil.
func (r *Report) FirstErr() error {
	for _, f := range r.Files {
		if len(f.Errs) > 0 {
			return f.Errs[0]
		}
	}
	return nil
}

// AllUnits returns the generated units of every file in input order.
func (r *Report) AllUnits() []Unit {
	var units []Unit
	for _, f := range r.Files {
		units = append(units, f.Units...)
	}
	return units
}

// UnitDumper receives every generated unit. Implementations must be safe
// for concurrent use.
type UnitDumper interface {
	Dump(label, text string)
}

// Generator turns Metal sources into Swift pipeline encoders.
type Generator struct {
	cfg    Config
	logger *slog.Logger
	dumper UnitDumper
}

// New validates cfg and returns a Generator.
func New(cfg Config, logger *slog.Logger) (*Generator, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	return &Generator{cfg: cfg, logger: logger}, nil
}

// WithDumper sets a sink receiving the text of every generated unit.
func (g *Generator) WithDumper(d UnitDumper) *Generator {
	g.dumper = d
	return g
}

// Config returns the effective configuration.
func (g *Generator) Config() Config { return g.cfg }

// Run parses, pairs, validates and emits every file. A failure affects only
// the file or unit it belongs to; the report collects all of them. Files not
// started before ctx is cancelled are marked failed with ctx.Err().
func (g *Generator) Run(ctx context.Context, files []SourceFile) *Report {
	results := make([]FileResult, len(files))
	for i, f := range files {
		results[i].Path = f.Path
	}

	g.logger.Info("Scanning shader sources", "files", len(files), "jobs", g.cfg.Jobs)
	g.forEach(ctx, results, func(i int, r *FileResult) {
		parsed, err := scanner.Parse(r.Path, files[i].Contents)
		if err != nil {
			r.Errs = append(r.Errs, err)
			return
		}
		r.parsed = parsed
		g.logger.Debug("Parsed shader source",
			"file", r.Path,
			"shaders", len(parsed.Shaders),
			"constants", len(parsed.Constants))
	})

	var shared *Pairer
	if g.cfg.Pairing.Scope == ScopeAll {
		var candidates []fragmentRef
		for i := range results {
			candidates = append(candidates, fragmentsOf(&results[i])...)
		}
		shared = g.newPairer(candidates)
	}

	g.forEach(ctx, results, func(_ int, r *FileResult) {
		if r.parsed == nil {
			return
		}
		pairer := shared
		if pairer == nil {
			pairer = g.newPairer(fragmentsOf(r))
		}
		g.generateFile(r, pairer)
	})

	g.checkTypeNames(results)
	g.collectUnpaired(results)

	report := &Report{Files: results}
	for _, r := range results {
		report.Units += len(r.Units)
		report.Failed += len(r.Errs)
		report.Unpaired += len(r.Unpaired)
		report.Skipped += r.Skipped
	}
	return report
}

// forEach runs fn for every result on a bounded pool. fn never fails the
// group, so one file cannot cancel its siblings.
func (g *Generator) forEach(ctx context.Context, results []FileResult, fn func(int, *FileResult)) {
	var eg errgroup.Group
	eg.SetLimit(g.cfg.Jobs)
	for i := range results {
		r := &results[i]
		if err := ctx.Err(); err != nil {
			// files that already failed keep their own error
			if r.parsed != nil || len(r.Errs) == 0 {
				r.parsed = nil
				r.Errs = append(r.Errs, fmt.Errorf("%s: %w", r.Path, err))
			}
			continue
		}
		i := i
		eg.Go(func() error {
			fn(i, r)
			return nil
		})
	}
	_ = eg.Wait()
}

func (g *Generator) newPairer(candidates []fragmentRef) *Pairer {
	p, shadowed := NewPairer(g.cfg.Pairing, candidates)
	for _, s := range shadowed {
		g.logger.Warn("Fragment shader name declared more than once, first declaration wins",
			"file", s.File,
			"shader", s.Shader.Name)
	}
	return p
}

func fragmentsOf(r *FileResult) []fragmentRef {
	if r.parsed == nil {
		return nil
	}
	var refs []fragmentRef
	for i := range r.parsed.Shaders {
		s := &r.parsed.Shaders[i]
		if s.Kind == scanner.StageFragment {
			refs = append(refs, fragmentRef{File: r.Path, Shader: s})
		}
	}
	return refs
}

// generateFile emits one unit per vertex shader of r.
func (g *Generator) generateFile(r *FileResult, pairer *Pairer) {
	for i := range r.parsed.Shaders {
		shader := &r.parsed.Shaders[i]
		switch shader.Kind {
		case scanner.StageKernel:
			r.Skipped++
			g.logger.Debug("Skipping compute kernel", "file", r.Path, "shader", shader.Name)
			continue
		case scanner.StageFragment:
			continue
		}

		ref, paired, err := pairer.Match(r.Path, shader)
		if err != nil {
			r.Errs = append(r.Errs, err)
			continue
		}
		var fragment *scanner.Shader
		if paired {
			fragment = ref.Shader
			r.paired = append(r.paired, ref.key())
		}

		unit, err := g.emit(r.Path, shader, fragment)
		if err != nil {
			r.Errs = append(r.Errs, err)
			continue
		}
		r.Units = append(r.Units, unit)
	}

	g.logger.Info("Generated encoders", "file", r.Path, "units", len(r.Units), "errors", len(r.Errs))
}

func (g *Generator) emit(file string, vertex, fragment *scanner.Shader) (Unit, error) {
	d := describe(g.cfg, file, vertex, fragment)
	if err := validate(d); err != nil {
		return Unit{}, err
	}

	enc, err := swift.EmitRenderPipelineEncoder(d)
	if err != nil {
		return Unit{}, &EmissionError{File: file, Unit: d.GeneratedTypeName, Err: err}
	}
	if g.dumper != nil {
		g.dumper.Dump(file+": "+enc.TypeName, enc.Source)
	}
	g.logger.Debug("Emitted encoder",
		"file", file,
		"type", enc.TypeName,
		"vertex", d.VertexShaderName,
		"fragment", d.FragmentShaderName)

	return Unit{
		SourceFile:     file,
		TypeName:       enc.TypeName,
		VertexShader:   d.VertexShaderName,
		FragmentShader: d.FragmentShaderName,
		Text:           enc.Source,
		UsesConstants:  enc.UsesConstants,
	}, nil
}

// checkTypeNames drops units whose type name is already taken in the same
// output. The earlier unit in input order keeps the name.
func (g *Generator) checkTypeNames(results []FileResult) {
	seen := make(map[string]Unit)
	for i := range results {
		r := &results[i]
		if !g.cfg.Combined {
			clear(seen)
		}
		kept := r.Units[:0]
		for _, u := range r.Units {
			if prev, dup := seen[u.TypeName]; dup {
				r.Errs = append(r.Errs, &BindingConflictError{
					File:   u.SourceFile,
					Unit:   u.TypeName,
					First:  prev.VertexShader,
					Second: u.VertexShader,
					Reason: "generate the same type name",
				})
				continue
			}
			seen[u.TypeName] = u
			kept = append(kept, u)
		}
		r.Units = kept
	}
}

// collectUnpaired records fragment shaders no vertex shader in scope claimed.
func (g *Generator) collectUnpaired(results []FileResult) {
	claimed := make(map[string]bool)
	for _, r := range results {
		for _, k := range r.paired {
			claimed[k] = true
		}
	}
	for i := range results {
		r := &results[i]
		for _, ref := range fragmentsOf(r) {
			if claimed[ref.key()] {
				continue
			}
			r.Unpaired = append(r.Unpaired, ref.Shader.Name)
			g.logger.Warn("Fragment shader has no vertex shader, no encoder generated",
				"file", r.Path,
				"shader", ref.Shader.Name)
		}
	}
}

// RenderFile joins units into the body of one Swift file.
func RenderFile(units []Unit) (string, error) {
	encoders := make([]swift.Encoder, len(units))
	for i, u := range units {
		encoders[i] = swift.Encoder{TypeName: u.TypeName, Source: u.Text, UsesConstants: u.UsesConstants}
	}
	return swift.RenderFile(encoders)
}

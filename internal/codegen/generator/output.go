package generator

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// EncodersSuffix is appended to a shader file's stem to name its per-file output.
const EncodersSuffix = "Encoders.swift"

// OutputFile is the set of units destined for one Swift file.
type OutputFile struct {
	Path  string
	Units []Unit
}

// OutputPath returns the per-file output for a shader source:
// dir/Blit.metal -> dir/BlitEncoders.swift.
func OutputPath(sourcePath string) string {
	stem := strings.TrimSuffix(filepath.Base(sourcePath), filepath.Ext(sourcePath))
	return filepath.Join(filepath.Dir(sourcePath), stem+EncodersSuffix)
}

// PlanOutputs groups the units of r by destination. With a non-empty
// combined path every unit goes there; otherwise each source file with at
// least one unit gets its own file. Nothing is planned for a run without
// units. Sources that map to the same per-file output are reported as an
// *OutputConflictError and none of them is planned. The result is sorted by
// path.
func PlanOutputs(r *Report, combined string) ([]OutputFile, error) {
	if combined != "" {
		units := r.AllUnits()
		if len(units) == 0 {
			return nil, nil
		}
		return []OutputFile{{Path: combined, Units: units}}, nil
	}

	sources := make(map[string][]string)
	var outs []OutputFile
	for _, f := range r.Files {
		if len(f.Units) == 0 {
			continue
		}
		path := OutputPath(f.Path)
		if len(sources[path]) == 0 {
			outs = append(outs, OutputFile{Path: path, Units: f.Units})
		}
		sources[path] = append(sources[path], f.Path)
	}

	var errs []error
	planned := outs[:0]
	for _, out := range outs {
		if srcs := sources[out.Path]; len(srcs) > 1 {
			errs = append(errs, &OutputConflictError{Path: out.Path, Sources: srcs})
			continue
		}
		planned = append(planned, out)
	}
	sort.Slice(planned, func(i, j int) bool { return planned[i].Path < planned[j].Path })
	return planned, errors.Join(errs...)
}

// Writer writes generated files, skipping those whose content is unchanged.
type Writer struct {
	logger *slog.Logger
	dryRun bool
}

// NewWriter returns a Writer. In dry-run mode nothing touches the disk.
func NewWriter(logger *slog.Logger, dryRun bool) *Writer {
	return &Writer{logger: logger, dryRun: dryRun}
}

// Write renders out and stores it. It reports whether the file on disk was
// (or in dry-run mode would be) changed.
func (w *Writer) Write(out OutputFile) (bool, error) {
	text, err := RenderFile(out.Units)
	if err != nil {
		return false, fmt.Errorf("render %s: %w", out.Path, err)
	}
	contents := []byte(text)

	same, err := unchanged(out.Path, contents)
	if err != nil {
		return false, err
	}
	if same {
		w.logger.Debug("Output unchanged, skipping write", "file", out.Path)
		return false, nil
	}
	if w.dryRun {
		w.logger.Info("Would write encoders", "file", out.Path, "units", len(out.Units))
		return true, nil
	}

	if err := os.MkdirAll(filepath.Dir(out.Path), 0o755); err != nil {
		return false, fmt.Errorf("create output directory for %s: %w", out.Path, err)
	}
	if err := os.WriteFile(out.Path, contents, 0o644); err != nil {
		return false, fmt.Errorf("write %s: %w", out.Path, err)
	}
	w.logger.Info("Wrote encoders", "file", out.Path, "units", len(out.Units))
	return true, nil
}

// unchanged compares BLAKE2b-256 digests of the existing file and contents.
func unchanged(path string, contents []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read existing %s: %w", path, err)
	}
	old := blake2b.Sum256(existing)
	cur := blake2b.Sum256(contents)
	return bytes.Equal(old[:], cur[:]), nil
}

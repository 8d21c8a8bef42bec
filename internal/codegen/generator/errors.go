package generator

import (
	"fmt"
	"strings"
)

// PairingError reports a fragment directive whose target does not exist.
type PairingError struct {
	File     string
	Vertex   string
	Fragment string
}

func (e *PairingError) Error() string {
	return fmt.Sprintf("%s: vertex shader %s: fragment shader %q named by directive not found", e.File, e.Vertex, e.Fragment)
}

// BindingConflictError reports a descriptor that would produce invalid or
// ambiguous Swift: two parameters bound to the same slot, two arguments with
// the same name, or two units with the same type name.
type BindingConflictError struct {
	File   string
	Unit   string
	First  string
	Second string // empty when the conflict is with a generated name
	Reason string
}

func (e *BindingConflictError) Error() string {
	if e.Second == "" {
		return fmt.Sprintf("%s: %s: %s %s", e.File, e.Unit, e.First, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s and %s %s", e.File, e.Unit, e.First, e.Second, e.Reason)
}

// EmissionError wraps a failure of the code emitter for one unit.
type EmissionError struct {
	File string
	Unit string
	Err  error
}

func (e *EmissionError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.File, e.Unit, e.Err)
}

func (e *EmissionError) Unwrap() error { return e.Err }

// OutputConflictError reports source files whose generated code would be
// written to the same path.
type OutputConflictError struct {
	Path    string
	Sources []string
}

func (e *OutputConflictError) Error() string {
	return fmt.Sprintf("%s: generated by more than one source (%s)", e.Path, strings.Join(e.Sources, ", "))
}

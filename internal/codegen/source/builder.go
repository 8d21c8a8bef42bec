// Package source provides an indentation-scoped text builder used by the
// language generators to emit source files line by line.
package source

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultIndentWidth is the number of spaces per indent level used by NewBuilder
// when a non-positive width is given.
const DefaultIndentWidth = 4

// ErrUnbalanced is returned by Result when PushLevel and PopLevel calls did not
// pair up.
var ErrUnbalanced = errors.New("unbalanced indentation")

// Builder accumulates lines of text at a current indent level.
//
// PopLevel at level 0 does nothing to the output but is recorded as an underflow;
// Result reports it (and any level still pushed) as ErrUnbalanced.
// A Builder is not safe for concurrent use.
type Builder struct {
	out       strings.Builder
	unit      string
	level     int
	underflow int
}

// NewBuilder returns an empty Builder that indents with width spaces per level.
func NewBuilder(width int) *Builder {
	if width <= 0 {
		width = DefaultIndentWidth
	}
	return &Builder{unit: strings.Repeat(" ", width)}
}

// Begin discards any accumulated text and resets the indent level to 0.
func (b *Builder) Begin() {
	b.out.Reset()
	b.level = 0
	b.underflow = 0
}

// AddLine appends text at the current indent level followed by a newline.
func (b *Builder) AddLine(text string) {
	for i := 0; i < b.level; i++ {
		b.out.WriteString(b.unit)
	}
	b.out.WriteString(text)
	b.out.WriteByte('\n')
}

// AddLinef is AddLine with fmt.Sprintf formatting.
func (b *Builder) AddLinef(format string, args ...any) {
	b.AddLine(fmt.Sprintf(format, args...))
}

// BlankLine appends an empty, unindented line.
func (b *Builder) BlankLine() {
	b.out.WriteByte('\n')
}

// PushLevel increases the indent level by one.
func (b *Builder) PushLevel() {
	b.level++
}

// PopLevel decreases the indent level by one.
func (b *Builder) PopLevel() {
	if b.level == 0 {
		b.underflow++
		return
	}
	b.level--
}

// Level returns the current indent level.
func (b *Builder) Level() int {
	return b.level
}

// Result returns the accumulated text. The text is returned even when the
// error is non-nil.
func (b *Builder) Result() (string, error) {
	switch {
	case b.underflow > 0:
		return b.out.String(), fmt.Errorf("%w: %d pop(s) at level 0", ErrUnbalanced, b.underflow)
	case b.level != 0:
		return b.out.String(), fmt.Errorf("%w: %d level(s) still pushed", ErrUnbalanced, b.level)
	}
	return b.out.String(), nil
}

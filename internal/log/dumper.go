package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Dumper writes generated source units for debugging.
type Dumper interface {
	Dump(label, text string)
}

// dumper implements Dumper with serialized writes.
type dumper struct {
	w   io.Writer
	mu  sync.Mutex
	now func() time.Time
}

// NewDumper creates a new Dumper. If writer is nil, returns a no-op dumper.
func NewDumper(w io.Writer) Dumper {
	return &dumper{w: w, now: time.Now}
}

// Dump emits a timestamped header line followed by the unit text.
func (d *dumper) Dump(label, text string) {
	if d.w == nil || text == "" {
		return
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s ==== %s (%d bytes)\n",
		d.now().Format("2006/01/02 15:04:05"),
		label,
		len(text))
	sb.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		sb.WriteByte('\n')
	}

	d.mu.Lock()
	_, _ = io.WriteString(d.w, sb.String())
	d.mu.Unlock()
}

package backend

import (
	"fmt"
	"strings"
)

// Writer accumulates indented source text.
type Writer struct {
	out    strings.Builder
	indent int
}

// WriteLine writes one indented line. Arguments are formatted with
// fmt.Sprintf only when present.
func (w *Writer) WriteLine(format string, args ...any) {
	w.writeIndent()
	if len(args) == 0 {
		w.out.WriteString(format)
	} else {
		fmt.Fprintf(&w.out, format, args...)
	}
	w.out.WriteByte('\n')
}

// BlankLine writes an empty line.
func (w *Writer) BlankLine() {
	w.out.WriteByte('\n')
}

// Write appends raw text.
func (w *Writer) Write(s string) {
	w.out.WriteString(s)
}

func (w *Writer) writeIndent() {
	for i := 0; i < w.indent; i++ {
		w.out.WriteString("    ")
	}
}

// PushIndent increases indentation.
func (w *Writer) PushIndent() {
	w.indent++
}

// PopIndent decreases indentation.
func (w *Writer) PopIndent() {
	if w.indent > 0 {
		w.indent--
	}
}

// String returns the accumulated text.
func (w *Writer) String() string {
	return w.out.String()
}

// Copyright (c) 2026 sqlrun
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"fmt"
	"io"
)

// Tracer writes step-by-step diagnostic notes to a side channel.
// The channel is free-form text for humans and is never parsed by the host,
// but it still must not carry credentials, so every line is masked.
type Tracer struct {
	w       io.Writer
	verbose bool
}

// NewTracer creates a Tracer writing to w.
// When verbose is false, Debugf lines are suppressed and only Notef lines
// are written.
func NewTracer(w io.Writer, verbose bool) *Tracer {
	return &Tracer{w: w, verbose: verbose}
}

// Notef writes an operational note (e.g. "row limit applied").
func (t *Tracer) Notef(format string, args ...any) {
	if t == nil || t.w == nil {
		return
	}
	fmt.Fprintln(t.w, Mask(fmt.Sprintf(format, args...)))
}

// Debugf writes a debug trace line. No-op unless the tracer is verbose.
func (t *Tracer) Debugf(format string, args ...any) {
	if t == nil || t.w == nil || !t.verbose {
		return
	}
	fmt.Fprintln(t.w, Mask("[DEBUG] "+fmt.Sprintf(format, args...)))
}

// Verbose reports whether debug tracing is enabled.
func (t *Tracer) Verbose() bool { return t != nil && t.verbose }

package protocol

import (
	"encoding/json"
	"fmt"
	"io"
)

// Flusher is implemented by sinks that buffer writes.
type Flusher interface {
	Flush() error
}

// Writer serializes protocol messages to an output stream, one complete
// JSON object per line, flushing after every message. The host may be
// reading line-by-line as the job runs, so no message is ever held back.
//
// Writer also enforces terminal-message discipline: once a Success or
// Error has been written, every further Emit fails without writing.
type Writer struct {
	w        io.Writer
	finished bool
}

// NewWriter creates a Writer over w.
func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

// Emit writes one complete serialized message followed by a newline and
// flushes the sink if it buffers. Emitting after a terminal message is an
// error and writes nothing.
func (w *Writer) Emit(m Message) error {
	if w.finished {
		return fmt.Errorf("protocol: emit after terminal message")
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("protocol: marshal message: %w", err)
	}
	if _, err := w.w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("protocol: write message: %w", err)
	}
	if f, ok := w.w.(Flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("protocol: flush: %w", err)
		}
	}
	if m.Terminal() {
		w.finished = true
	}
	return nil
}

// Finished reports whether a terminal message has been emitted.
func (w *Writer) Finished() bool { return w.finished }

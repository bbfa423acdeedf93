// Package trace provides a decorator for io.ReadWriter that logs all
// reads and writes, and keeps byte counters for basic link observability.
package trace

import (
	"io"
	"log"
	"sync/atomic"
)

// Trace is a trace log on an io.ReadWriter. All reads and writes are
// written to the logger, and counted.
type Trace struct {
	rw   io.ReadWriter
	l    *log.Logger
	wfmt string
	rfmt string

	bytesRead    int64
	bytesWritten int64
}

// Option modifies a Trace object created by New.
type Option func(*Trace)

// New creates a new trace on the io.ReadWriter.
func New(rw io.ReadWriter, l *log.Logger, opts ...Option) *Trace {
	t := &Trace{rw: rw, l: l, wfmt: "w: %s", rfmt: "r: %s"}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// WithReadFormat sets the format used for read logs.
func WithReadFormat(format string) Option {
	return func(t *Trace) { t.rfmt = format }
}

// WithWriteFormat sets the format used for write logs.
func WithWriteFormat(format string) Option {
	return func(t *Trace) { t.wfmt = format }
}

func (t *Trace) Read(p []byte) (n int, err error) {
	n, err = t.rw.Read(p)
	if n > 0 {
		atomic.AddInt64(&t.bytesRead, int64(n))
		t.l.Printf(t.rfmt, p[:n])
	}
	return n, err
}

func (t *Trace) Write(p []byte) (n int, err error) {
	n, err = t.rw.Write(p)
	if n > 0 {
		atomic.AddInt64(&t.bytesWritten, int64(n))
		t.l.Printf(t.wfmt, p[:n])
	}
	return n, err
}

// Stats is a snapshot of the bytes observed flowing through a Trace.
type Stats struct {
	BytesRead    int64
	BytesWritten int64
}

// Stats returns the current byte counters.
func (t *Trace) Stats() Stats {
	return Stats{
		BytesRead:    atomic.LoadInt64(&t.bytesRead),
		BytesWritten: atomic.LoadInt64(&t.bytesWritten),
	}
}

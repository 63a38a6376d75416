// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
)

// Engine bridges a fixed sample buffer to an output device.
//
// The device pulls samples through a render callback which advances the
// engine's Cursor once per output slot. Slots past the end of the buffer are
// filled with the format's silence value; playback is never stopped
// automatically, so Progress keeps growing past 1.0 until the caller acts.
//
// Control methods are safe for concurrent use. The callback shares nothing
// with them except the cursor.
type Engine struct {
	mtx    sync.Mutex
	stream Stream
	closed bool

	cfg    Config
	total  int
	cursor *Cursor
	logger *log.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEngineLogger sets the logger used for stream state changes.
func WithEngineLogger(l *log.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine opens a stream on out for samples and starts it.
//
// The device configuration is the first one out reports, at its maximum
// sample rate. Errors wrap ErrDeviceUnavailable when no usable configuration
// exists and ErrStreamFailure when the stream cannot be opened or started.
// samples must not be modified after the call.
func NewEngine(out Output, samples []int16, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		total:  len(samples),
		cursor: &Cursor{},
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(e)
	}

	ranges, err := out.Configs()
	if err != nil {
		return nil, wrapKind(ErrDeviceUnavailable, fmt.Sprintf("query %s configurations", out.Name()), err)
	}

	cfg, ok := SelectConfig(ranges)
	if !ok {
		return nil, fmt.Errorf("%w: %s reports no usable output configuration", ErrDeviceUnavailable, out.Name())
	}
	if !cfg.Format.Supported() {
		return nil, fmt.Errorf("%w: %s requires unsupported sample format %s", ErrDeviceUnavailable, out.Name(), cfg.Format)
	}
	e.cfg = cfg

	stream, err := out.Open(cfg, newRenderer(samples, e.cursor, cfg.Format))
	if err != nil {
		return nil, wrapKind(ErrStreamFailure, fmt.Sprintf("open %s stream (%s)", out.Name(), cfg), err)
	}

	if err := stream.Play(); err != nil {
		closeErr := stream.Close()
		return nil, wrapKind(ErrStreamFailure, "start stream", errors.Join(err, closeErr))
	}
	e.stream = stream

	e.logger.Printf("[Engine] streaming %d samples to %s (%s)", e.total, out.Name(), cfg)

	return e, nil
}

// newRenderer returns the real-time callback. It must not lock, allocate or
// block: the only shared state is the cursor.
func newRenderer(samples []int16, cursor *Cursor, f Format) RenderFunc {
	spec := f.spec()
	width := spec.width
	n := uint64(len(samples))

	return func(dst []byte) {
		slots := len(dst) / width
		for i := range slots {
			slot := dst[i*width : i*width+width]
			if idx := cursor.Next(); idx < n {
				spec.encode(slot, samples[idx])
			} else {
				spec.silence(slot)
			}
		}
		clear(dst[slots*width:])
	}
}

// Play resumes output.
func (e *Engine) Play() error {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.closed {
		return fmt.Errorf("%w: play on closed engine", ErrStreamFailure)
	}
	if err := e.stream.Play(); err != nil {
		return wrapKind(ErrStreamFailure, "play", err)
	}

	return nil
}

// Pause suspends output. A device that rejects pausing is reported, not
// fatal; the engine keeps its previous state.
func (e *Engine) Pause() error {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.closed {
		return fmt.Errorf("%w: pause on closed engine", ErrStreamFailure)
	}
	if err := e.stream.Pause(); err != nil {
		return wrapKind(ErrStreamFailure, "pause", err)
	}

	return nil
}

// Restart moves the cursor back to the first sample. The stream keeps its
// current play/pause state.
func (e *Engine) Restart() { e.cursor.Reset() }

// Progress returns delivered slots divided by the buffer length, or 0 for an
// empty buffer. It may exceed 1 after the buffer has been played out.
func (e *Engine) Progress() float64 {
	if e.total == 0 {
		return 0
	}
	return float64(e.cursor.Load()) / float64(e.total)
}

// Position returns the number of slots delivered so far.
func (e *Engine) Position() uint64 { return e.cursor.Load() }

// Len returns the number of samples in the buffer.
func (e *Engine) Len() int { return e.total }

// Config returns the configuration the stream was opened with.
func (e *Engine) Config() Config { return e.cfg }

// Close releases the stream. No callbacks run after it returns. Calling Close
// more than once is a no-op.
func (e *Engine) Close() error {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	if err := e.stream.Close(); err != nil {
		return wrapKind(ErrStreamFailure, "close stream", err)
	}

	return nil
}

// wrapKind attaches kind to err unless err already carries one of the
// package's error kinds.
func wrapKind(kind error, msg string, err error) error {
	for _, k := range []error{ErrFileAccess, ErrUnsupportedFormat, ErrDeviceUnavailable, ErrStreamFailure} {
		if errors.Is(err, k) {
			return fmt.Errorf("%s: %w", msg, err)
		}
	}
	return fmt.Errorf("%w: %s: %w", kind, msg, err)
}

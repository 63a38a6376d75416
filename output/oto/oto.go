// SPDX-License-Identifier: EPL-2.0

package oto

import (
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	otolib "github.com/ebitengine/oto/v3"
	"github.com/ik5/audplay/audio"
)

// Options configures the oto context. oto allows one context per process, so
// every stream opened through an Output shares these settings.
type Options struct {
	SampleRate int
	Channels   int
	Format     audio.Format // FormatU8, FormatS16 or FormatF32
	BufferSize time.Duration
	Logger     *log.Logger
}

// DefaultOptions matches the sample rate most WAV files are recorded at.
var DefaultOptions = Options{
	SampleRate: 44100,
	Channels:   1,
	Format:     audio.FormatS16,
	BufferSize: 100 * time.Millisecond,
}

// Output plays through the system default device using oto.
type Output struct {
	opts   Options
	logger *log.Logger

	once   sync.Once
	ctx    *otolib.Context
	ctxErr error
}

// New validates opts and returns an Output. The device is not touched until
// the first stream is opened.
func New(opts Options) (*Output, error) {
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultOptions.SampleRate
	}
	if opts.Channels <= 0 {
		opts.Channels = DefaultOptions.Channels
	}
	if opts.Format == audio.FormatUnknown {
		opts.Format = DefaultOptions.Format
	}
	if _, err := otoFormat(opts.Format); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Output{opts: opts, logger: logger}, nil
}

func otoFormat(f audio.Format) (otolib.Format, error) {
	switch f {
	case audio.FormatU8:
		return otolib.FormatUnsignedInt8, nil
	case audio.FormatS16:
		return otolib.FormatSignedInt16LE, nil
	case audio.FormatF32:
		return otolib.FormatFloat32LE, nil
	}
	return 0, fmt.Errorf("%w: oto cannot output %s", audio.ErrDeviceUnavailable, f)
}

func (o *Output) Name() string { return "oto" }

// Configs reports the single configuration the context is created with.
func (o *Output) Configs() ([]audio.ConfigRange, error) {
	return []audio.ConfigRange{{
		Channels:      o.opts.Channels,
		Format:        o.opts.Format,
		MinSampleRate: o.opts.SampleRate,
		MaxSampleRate: o.opts.SampleRate,
	}}, nil
}

func (o *Output) context() (*otolib.Context, error) {
	o.once.Do(func() {
		format, err := otoFormat(o.opts.Format)
		if err != nil {
			o.ctxErr = err
			return
		}

		ctx, ready, err := otolib.NewContext(&otolib.NewContextOptions{
			SampleRate:   o.opts.SampleRate,
			ChannelCount: o.opts.Channels,
			Format:       format,
			BufferSize:   o.opts.BufferSize,
		})
		if err != nil {
			o.ctxErr = fmt.Errorf("%w: %w", audio.ErrDeviceUnavailable, err)
			return
		}
		<-ready

		o.ctx = ctx
		o.logger.Printf("[oto] context ready: %d Hz, %d ch, %s", o.opts.SampleRate, o.opts.Channels, o.opts.Format)
	})

	return o.ctx, o.ctxErr
}

// Open creates a paused oto player that pulls from render.
func (o *Output) Open(cfg audio.Config, render audio.RenderFunc) (audio.Stream, error) {
	if cfg.SampleRate != o.opts.SampleRate || cfg.Channels != o.opts.Channels || cfg.Format != o.opts.Format {
		return nil, fmt.Errorf("%w: oto context is fixed at %d Hz, %d ch, %s", audio.ErrStreamFailure,
			o.opts.SampleRate, o.opts.Channels, o.opts.Format)
	}

	ctx, err := o.context()
	if err != nil {
		return nil, err
	}

	r := newRenderReader(render, cfg.Format.Width())
	return &stream{player: ctx.NewPlayer(r), logger: o.logger}, nil
}

// renderReader adapts a RenderFunc to the io.Reader oto pulls from. Read runs
// on oto's mixing goroutine and always fills p. A slot that does not fit is
// rendered into slot and its tail is handed out on the next Read, so the
// byte stream stays aligned to whole samples.
type renderReader struct {
	render  audio.RenderFunc
	slot    []byte
	pending []byte
}

func newRenderReader(render audio.RenderFunc, width int) *renderReader {
	return &renderReader{render: render, slot: make([]byte, width)}
}

func (r *renderReader) Read(p []byte) (int, error) {
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	rest := p[n:]
	if len(rest) == 0 {
		return n, nil
	}

	width := len(r.slot)
	if whole := len(rest) / width * width; whole > 0 {
		r.render(rest[:whole])
		n += whole
		rest = rest[whole:]
	}

	if len(rest) > 0 {
		r.render(r.slot)
		k := copy(rest, r.slot)
		r.pending = r.slot[k:]
		n += k
	}

	return n, nil
}

type stream struct {
	player *otolib.Player
	logger *log.Logger
}

func (s *stream) Play() error {
	s.player.Play()
	return s.player.Err()
}

// Pause never fails with oto; a pending player error is reported instead.
func (s *stream) Pause() error {
	s.player.Pause()
	return s.player.Err()
}

func (s *stream) Close() error {
	err := s.player.Close()
	if perr := s.player.Err(); perr != nil && !errors.Is(perr, io.EOF) {
		s.logger.Printf("[oto] player error before close: %v", perr)
	}
	return err
}

// SPDX-License-Identifier: EPL-2.0

package portaudio

import (
	"fmt"
	"io"
	"log"
	"unsafe"

	"github.com/gordonklaus/portaudio"
	"github.com/ik5/audplay/audio"
)

// Output plays through PortAudio's default output device.
//
// PortAudio converts from whatever sample type the callback uses, so the
// device is reported with a single 16-bit configuration at its default rate.
type Output struct {
	channels int
	logger   *log.Logger
}

// New initialises PortAudio. Close terminates it.
// channels <= 0 selects mono.
func New(channels int, logger *log.Logger) (*Output, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if channels <= 0 {
		channels = 1
	}

	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("%w: init portaudio: %w", audio.ErrDeviceUnavailable, err)
	}

	return &Output{channels: channels, logger: logger}, nil
}

func (o *Output) Name() string { return "portaudio" }

func (o *Output) Configs() ([]audio.ConfigRange, error) {
	dev, err := portaudio.DefaultOutputDevice()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", audio.ErrDeviceUnavailable, err)
	}

	o.logger.Printf("[portaudio] default device %q: %d channels, %.0f Hz", dev.Name, dev.MaxOutputChannels, dev.DefaultSampleRate)

	return rangesFor(dev, o.channels), nil
}

func rangesFor(dev *portaudio.DeviceInfo, channels int) []audio.ConfigRange {
	if dev.MaxOutputChannels <= 0 {
		return nil
	}

	rate := int(dev.DefaultSampleRate)
	return []audio.ConfigRange{{
		Channels:      min(channels, dev.MaxOutputChannels),
		Format:        audio.FormatS16,
		MinSampleRate: rate,
		MaxSampleRate: rate,
	}}
}

// Open opens a stopped stream on the default device.
func (o *Output) Open(cfg audio.Config, render audio.RenderFunc) (audio.Stream, error) {
	dev, err := portaudio.DefaultOutputDevice()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", audio.ErrDeviceUnavailable, err)
	}

	params := portaudio.HighLatencyParameters(nil, dev)
	params.Output.Channels = cfg.Channels
	params.SampleRate = float64(cfg.SampleRate)

	callback, err := callbackFor(cfg.Format, render)
	if err != nil {
		return nil, err
	}

	s, err := portaudio.OpenStream(params, callback)
	if err != nil {
		return nil, fmt.Errorf("%w: open stream: %w", audio.ErrStreamFailure, err)
	}

	return &stream{s: s}, nil
}

// callbackFor returns a typed PortAudio callback that renders into the
// buffer's memory. PortAudio buffers are native-endian; the engine renders
// little-endian, which matches every host this is built for.
func callbackFor(f audio.Format, render audio.RenderFunc) (any, error) {
	switch f {
	case audio.FormatU8:
		return func(out []uint8) { render(out) }, nil
	case audio.FormatS16:
		return func(out []int16) {
			if len(out) > 0 {
				render(unsafe.Slice((*byte)(unsafe.Pointer(&out[0])), len(out)*2))
			}
		}, nil
	case audio.FormatS32:
		return func(out []int32) {
			if len(out) > 0 {
				render(unsafe.Slice((*byte)(unsafe.Pointer(&out[0])), len(out)*4))
			}
		}, nil
	case audio.FormatF32:
		return func(out []float32) {
			if len(out) > 0 {
				render(unsafe.Slice((*byte)(unsafe.Pointer(&out[0])), len(out)*4))
			}
		}, nil
	}
	return nil, fmt.Errorf("%w: portaudio cannot output %s", audio.ErrStreamFailure, f)
}

// Close terminates PortAudio. Streams must be closed first.
func (o *Output) Close() error {
	return portaudio.Terminate()
}

type stream struct {
	s       *portaudio.Stream
	started bool
}

func (s *stream) Play() error {
	if s.started {
		return nil
	}
	if err := s.s.Start(); err != nil {
		return err
	}
	s.started = true
	return nil
}

// Pause stops the stream; Pa_StopStream waits for pending buffers to play.
func (s *stream) Pause() error {
	if !s.started {
		return nil
	}
	if err := s.s.Stop(); err != nil {
		return err
	}
	s.started = false
	return nil
}

func (s *stream) Close() error {
	if s.started {
		if err := s.s.Abort(); err != nil {
			return err
		}
		s.started = false
	}
	return s.s.Close()
}

// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// RenderFunc fills dst with output samples in the format of the stream it was
// registered with. It is invoked from the device's real-time thread and must
// not block.
type RenderFunc func(dst []byte)

// Output is an audio output sink: the default playback device of some audio
// backend.
type Output interface {
	// Name of the backend and device, for diagnostics.
	Name() string
	// Configs lists the configurations the device accepts, in the order
	// the backend reports them.
	Configs() ([]ConfigRange, error)
	// Open creates a paused stream that pulls samples through render.
	Open(cfg Config, render RenderFunc) (Stream, error)
}

// Stream is a hardware output stream handle owned by an Engine.
type Stream interface {
	Play() error
	Pause() error
	// Close releases the stream. Once it returns the render function is
	// never invoked again.
	Close() error
}

// ConfigRange is one device-reported combination of channel count, sample
// representation and supported sample rates.
type ConfigRange struct {
	Channels      int
	Format        Format
	MinSampleRate int
	MaxSampleRate int
}

// Config is the concrete configuration a stream is opened with.
type Config struct {
	Channels   int
	Format     Format
	SampleRate int
}

func (c Config) String() string {
	return fmt.Sprintf("%d Hz, %d ch, %s", c.SampleRate, c.Channels, c.Format)
}

// SelectConfig picks the first reported range at its maximum sample rate.
func SelectConfig(ranges []ConfigRange) (Config, bool) {
	if len(ranges) == 0 {
		return Config{}, false
	}

	r := ranges[0]
	return Config{
		Channels:   r.Channels,
		Format:     r.Format,
		SampleRate: r.MaxSampleRate,
	}, true
}

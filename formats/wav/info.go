// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"
	"time"

	gowav "github.com/go-audio/wav"
)

// Info describes a WAV header as read by Probe.
type Info struct {
	SampleRate  int
	Channels    int
	BitDepth    int
	AudioFormat int // 1 is integer PCM
	Duration    time.Duration
}

// PCM16 reports whether the header matches what Decoder assumes.
func (i Info) PCM16() bool {
	return i.AudioFormat == 1 && i.BitDepth == 16
}

func (i Info) String() string {
	return fmt.Sprintf("%d Hz, %d ch, %d-bit, %s", i.SampleRate, i.Channels, i.BitDepth, i.Duration.Round(time.Millisecond))
}

// Probe reads the header of a WAV stream for display purposes. Decoder never
// consults it.
func Probe(r io.ReadSeeker) (Info, error) {
	d := gowav.NewDecoder(r)
	if !d.IsValidFile() {
		if err := d.Err(); err != nil {
			return Info{}, fmt.Errorf("%w: %w", ErrNotWavFile, err)
		}
		return Info{}, ErrNotWavFile
	}

	info := Info{
		SampleRate:  int(d.SampleRate),
		Channels:    int(d.NumChans),
		BitDepth:    int(d.BitDepth),
		AudioFormat: int(d.WavAudioFormat),
	}

	dur, err := d.Duration()
	if err != nil {
		return info, fmt.Errorf("read duration: %w", err)
	}
	info.Duration = dur

	return info, nil
}

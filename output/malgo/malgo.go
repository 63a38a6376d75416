// SPDX-License-Identifier: EPL-2.0

package malgo

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/gen2brain/malgo"
	"github.com/ik5/audplay/audio"
)

// fallbackSampleRate is used when the device reports that it accepts any rate.
const fallbackSampleRate = 48000

// Output plays through the default playback device of the first miniaudio
// backend that initialises.
type Output struct {
	ctx    *malgo.AllocatedContext
	logger *log.Logger

	mtx      sync.Mutex
	deviceID malgo.DeviceID
	found    bool
}

// New initialises a miniaudio context. Close releases it.
func New(logger *log.Logger) (*Output, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		logger.Printf("[malgo] %s", strings.TrimSpace(message))
	})
	if err != nil {
		return nil, fmt.Errorf("%w: init miniaudio context: %w", audio.ErrDeviceUnavailable, err)
	}

	return &Output{ctx: ctx, logger: logger}, nil
}

func (o *Output) Name() string { return "malgo" }

// Configs enumerates the native data formats of the default playback device.
func (o *Output) Configs() ([]audio.ConfigRange, error) {
	info, err := o.defaultDevice()
	if err != nil {
		return nil, err
	}

	o.mtx.Lock()
	o.deviceID = info.ID
	o.found = true
	o.mtx.Unlock()

	o.logger.Printf("[malgo] default device %q reports %d formats", info.Name(), info.FormatCount)

	return rangesFrom(info), nil
}

func (o *Output) defaultDevice() (malgo.DeviceInfo, error) {
	infos, err := o.ctx.Devices(malgo.Playback)
	if err != nil {
		return malgo.DeviceInfo{}, fmt.Errorf("%w: list playback devices: %w", audio.ErrDeviceUnavailable, err)
	}
	if len(infos) == 0 {
		return malgo.DeviceInfo{}, fmt.Errorf("%w: no playback device", audio.ErrDeviceUnavailable)
	}

	pick := infos[0]
	for _, info := range infos {
		if info.IsDefault != 0 {
			pick = info
			break
		}
	}

	full, err := o.ctx.DeviceInfo(malgo.Playback, pick.ID, malgo.Shared)
	if err != nil {
		return malgo.DeviceInfo{}, fmt.Errorf("%w: query %q: %w", audio.ErrDeviceUnavailable, pick.Name(), err)
	}

	return full, nil
}

// rangesFrom converts miniaudio's native formats. Zero channels or rate mean
// "any" to miniaudio.
func rangesFrom(info malgo.DeviceInfo) []audio.ConfigRange {
	count := min(int(info.FormatCount), len(info.Formats))

	ranges := make([]audio.ConfigRange, 0, count)
	for _, df := range info.Formats[:count] {
		rate := int(df.SampleRate)
		if rate == 0 {
			rate = fallbackSampleRate
		}
		channels := int(df.Channels)
		if channels == 0 {
			channels = 2
		}

		ranges = append(ranges, audio.ConfigRange{
			Channels:      channels,
			Format:        fromMalgo(df.Format),
			MinSampleRate: rate,
			MaxSampleRate: rate,
		})
	}

	return ranges
}

func fromMalgo(f malgo.FormatType) audio.Format {
	switch f {
	case malgo.FormatU8:
		return audio.FormatU8
	case malgo.FormatS16:
		return audio.FormatS16
	case malgo.FormatS32:
		return audio.FormatS32
	case malgo.FormatF32:
		return audio.FormatF32
	}
	return audio.FormatUnknown
}

func toMalgo(f audio.Format) malgo.FormatType {
	switch f {
	case audio.FormatU8:
		return malgo.FormatU8
	case audio.FormatS16:
		return malgo.FormatS16
	case audio.FormatS32:
		return malgo.FormatS32
	case audio.FormatF32:
		return malgo.FormatF32
	}
	return malgo.FormatUnknown
}

// Open initialises a stopped playback device on the device found by Configs.
func (o *Output) Open(cfg audio.Config, render audio.RenderFunc) (audio.Stream, error) {
	dc := malgo.DefaultDeviceConfig(malgo.Playback)
	dc.Playback.Format = toMalgo(cfg.Format)
	dc.Playback.Channels = uint32(cfg.Channels)
	dc.SampleRate = uint32(cfg.SampleRate)

	o.mtx.Lock()
	if o.found {
		dc.Playback.DeviceID = o.deviceID.Pointer()
	}
	o.mtx.Unlock()

	callbacks := malgo.DeviceCallbacks{
		Data: func(out, _ []byte, _ uint32) {
			render(out)
		},
	}

	device, err := malgo.InitDevice(o.ctx.Context, dc, callbacks)
	if err != nil {
		return nil, fmt.Errorf("%w: init device: %w", audio.ErrStreamFailure, err)
	}

	return &stream{device: device}, nil
}

// Close releases the miniaudio context. Streams must be closed first.
func (o *Output) Close() error {
	err := o.ctx.Uninit()
	o.ctx.Free()
	return err
}

type stream struct {
	device *malgo.Device
}

func (s *stream) Play() error {
	if s.device.IsStarted() {
		return nil
	}
	return s.device.Start()
}

func (s *stream) Pause() error {
	if !s.device.IsStarted() {
		return nil
	}
	return s.device.Stop()
}

// Close uninitialises the device; miniaudio waits for the data callback to
// return first.
func (s *stream) Close() error {
	s.device.Uninit()
	return nil
}

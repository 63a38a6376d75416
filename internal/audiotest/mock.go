// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"sync"

	"github.com/ik5/audplay/audio"
	"github.com/ik5/audplay/utils"
)

// ErrInjected is returned by mock operations configured to fail.
var ErrInjected = errors.New("injected failure")

// MockOutput is a test helper implementing audio.Output without hardware.
// Streams it opens only render when a test pulls from them.
type MockOutput struct {
	mtx     sync.Mutex
	ranges  []audio.ConfigRange
	streams []*MockStream

	// ConfigErr is returned by Configs when set.
	ConfigErr error
	// OpenErr is returned by Open when set.
	OpenErr error
	// PlayErr is copied to every stream opened afterwards.
	PlayErr error
	// PauseErr is copied to every stream opened afterwards.
	PauseErr error
}

// NewMockOutput creates a mock device reporting ranges. Without ranges it
// reports a single mono 16-bit range from 8kHz to 48kHz.
func NewMockOutput(ranges ...audio.ConfigRange) *MockOutput {
	if len(ranges) == 0 {
		ranges = []audio.ConfigRange{{
			Channels:      1,
			Format:        audio.FormatS16,
			MinSampleRate: 8000,
			MaxSampleRate: 48000,
		}}
	}
	return &MockOutput{ranges: ranges}
}

// NewEmptyOutput creates a mock device with no usable configuration.
func NewEmptyOutput() *MockOutput {
	return &MockOutput{ranges: []audio.ConfigRange{}}
}

func (m *MockOutput) Name() string { return "mock" }

func (m *MockOutput) Configs() ([]audio.ConfigRange, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.ConfigErr != nil {
		return nil, m.ConfigErr
	}
	return append([]audio.ConfigRange(nil), m.ranges...), nil
}

func (m *MockOutput) Open(cfg audio.Config, render audio.RenderFunc) (audio.Stream, error) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if m.OpenErr != nil {
		return nil, m.OpenErr
	}

	s := &MockStream{
		cfg:      cfg,
		render:   render,
		playErr:  m.PlayErr,
		pauseErr: m.PauseErr,
	}
	m.streams = append(m.streams, s)

	return s, nil
}

// Streams returns every stream opened so far, oldest first.
func (m *MockOutput) Streams() []*MockStream {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return append([]*MockStream(nil), m.streams...)
}

// Last returns the most recently opened stream, or nil.
func (m *MockOutput) Last() *MockStream {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if len(m.streams) == 0 {
		return nil
	}
	return m.streams[len(m.streams)-1]
}

// MockStream records everything its render function produced.
type MockStream struct {
	mtx      sync.Mutex
	cfg      audio.Config
	render   audio.RenderFunc
	playing  bool
	closed   bool
	playErr  error
	pauseErr error
	recorded []byte
	plays    int
	pauses   int
}

func (s *MockStream) Play() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.playErr != nil {
		return s.playErr
	}
	s.playing = true
	s.plays++
	return nil
}

func (s *MockStream) Pause() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.pauseErr != nil {
		return s.pauseErr
	}
	s.playing = false
	s.pauses++
	return nil
}

// Close waits for an in-flight Pull, like a real device waits for its
// callback to return.
func (s *MockStream) Close() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.closed = true
	s.playing = false
	return nil
}

// Pull simulates the device requesting slots samples. A paused or closed
// stream is not called back, so Pull returns nil for it.
func (s *MockStream) Pull(slots int) []byte {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if !s.playing || s.closed {
		return nil
	}

	buf := make([]byte, slots*s.cfg.Format.Width())
	s.render(buf)
	s.recorded = append(s.recorded, buf...)

	return buf
}

// Render invokes the render function directly, ignoring play state. It is
// meant for exercising partial or odd-sized buffers.
func (s *MockStream) Render(dst []byte) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.render(dst)
}

// Recorded returns a copy of all bytes rendered through Pull.
func (s *MockStream) Recorded() []byte {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return append([]byte(nil), s.recorded...)
}

// RecordedS16 decodes the recorded bytes as 16-bit little-endian samples.
func (s *MockStream) RecordedS16() []int16 {
	return utils.LittleEndian[int16](s.Recorded())
}

func (s *MockStream) Config() audio.Config { return s.cfg }

func (s *MockStream) Playing() bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.playing
}

func (s *MockStream) Closed() bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.closed
}

// Calls returns how many times Play and Pause succeeded.
func (s *MockStream) Calls() (plays, pauses int) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.plays, s.pauses
}

// SPDX-License-Identifier: EPL-2.0

package audplay

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ik5/audplay/audio"
	"github.com/ik5/audplay/formats/wav"
)

// State of a Player.
type State int

const (
	StateWaitingForFile State = iota
	StatePaused
	StatePlaying
)

func (s State) String() string {
	switch s {
	case StateWaitingForFile:
		return "waiting for file"
	case StatePaused:
		return "paused"
	case StatePlaying:
		return "playing"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Player plays one track at a time on an audio output.
//
// A Player starts in StateWaitingForFile, moves to StatePlaying on the first
// successful Load and then alternates between StatePlaying and StatePaused.
// It never returns to StateWaitingForFile.
//
// Methods are safe for concurrent use. The device callback never takes the
// Player's lock.
type Player struct {
	mtx      sync.Mutex
	out      audio.Output
	registry *audio.Registry
	logger   *log.Logger

	state  State
	engine *audio.Engine
	name   string
}

// Option configures a Player.
type Option func(*Player)

// WithLogger sets the logger for load and state changes.
func WithLogger(l *log.Logger) Option {
	return func(p *Player) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithRegistry replaces the extension to decoder mapping.
func WithRegistry(r *audio.Registry) Option {
	return func(p *Player) {
		if r != nil {
			p.registry = r
		}
	}
}

// DefaultRegistry maps "wav" and "wave" to the WAV decoder.
func DefaultRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register("wav", wav.Decoder{})
	r.Register("wave", wav.Decoder{})
	return r
}

// New creates a Player that opens its streams on out.
func New(out audio.Output, opts ...Option) *Player {
	p := &Player{
		out:      out,
		registry: DefaultRegistry(),
		logger:   log.New(io.Discard, "", 0),
		state:    StateWaitingForFile,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load decodes the file at path and starts playing it.
//
// The decoder is chosen by extension; unknown or missing extensions fail with
// audio.ErrUnsupportedFormat before the file is read. Unreadable files fail
// with audio.ErrFileAccess. Device problems surface as
// audio.ErrDeviceUnavailable or audio.ErrStreamFailure.
//
// The current track keeps playing until the new one has started; then it is
// closed. On any error the current track, name and state are unchanged.
func (p *Player) Load(path string) error {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return fmt.Errorf("%w: %q has no extension", audio.ErrUnsupportedFormat, path)
	}

	dec, ok := p.registry.Get(ext)
	if !ok {
		return fmt.Errorf("%w: %q files are not supported (supported: %s)",
			audio.ErrUnsupportedFormat, ext, strings.Join(p.registry.Extensions(), ", "))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: %w", audio.ErrFileAccess, err)
	}

	samples, err := dec.Decode(data)
	if err != nil {
		return wrapUnsupported(path, err)
	}

	engine, err := audio.NewEngine(p.out, samples, audio.WithEngineLogger(p.logger))
	if err != nil {
		return fmt.Errorf("play %s: %w", filepath.Base(path), err)
	}

	name := displayName(path)

	p.mtx.Lock()
	prev := p.engine
	p.engine = engine
	p.name = name
	p.state = StatePlaying
	p.mtx.Unlock()

	if prev != nil {
		if err := prev.Close(); err != nil {
			p.logger.Printf("[Player] closing previous stream: %v", err)
		}
	}

	p.logger.Printf("[Player] playing %q (%d samples)", name, engine.Len())

	return nil
}

func wrapUnsupported(path string, err error) error {
	if errors.Is(err, audio.ErrUnsupportedFormat) {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return fmt.Errorf("%w: decode %s: %w", audio.ErrUnsupportedFormat, filepath.Base(path), err)
}

// displayName is the base name without extension.
func displayName(path string) string {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Toggle pauses a playing track or resumes a paused one. It does nothing
// before the first Load. If the device refuses, the error is returned and the
// state is unchanged.
func (p *Player) Toggle() error {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	switch p.state {
	case StatePlaying:
		if err := p.engine.Pause(); err != nil {
			return err
		}
		p.state = StatePaused
		p.logger.Printf("[Player] paused")

	case StatePaused:
		if p.engine == nil {
			return fmt.Errorf("%w: resume without an active stream", audio.ErrStreamFailure)
		}
		if err := p.engine.Play(); err != nil {
			return err
		}
		p.state = StatePlaying
		p.logger.Printf("[Player] resumed")
	}

	return nil
}

// Restart moves playback back to the start of the track without changing
// the state. It does nothing before the first Load.
func (p *Player) Restart() {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.engine != nil {
		p.engine.Restart()
	}
}

// Progress returns the fraction of the track delivered to the device. It
// keeps growing past 1 after the track ends, since playback is not stopped
// automatically.
func (p *Player) Progress() float64 {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.engine == nil {
		return 0
	}
	return p.engine.Progress()
}

// Position returns the delivered sample count and the track length.
func (p *Player) Position() (uint64, int) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.engine == nil {
		return 0, 0
	}
	return p.engine.Position(), p.engine.Len()
}

// Device returns the output configuration of the active stream.
func (p *Player) Device() (audio.Config, bool) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.engine == nil {
		return audio.Config{}, false
	}
	return p.engine.Config(), true
}

func (p *Player) State() State {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	return p.state
}

func (p *Player) IsPlaying() bool { return p.State() == StatePlaying }

// TrackName returns the display name of the loaded track.
func (p *Player) TrackName() (string, bool) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	return p.name, p.name != ""
}

// ButtonLabel is the label for a play/pause control.
func (p *Player) ButtonLabel() string {
	if p.IsPlaying() {
		return "Pause"
	}
	return "Play"
}

// Close releases the active stream. A playing Player becomes paused; Toggle
// then reports audio.ErrStreamFailure until the next Load.
func (p *Player) Close() error {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.engine == nil {
		return nil
	}

	err := p.engine.Close()
	p.engine = nil
	if p.state == StatePlaying {
		p.state = StatePaused
	}

	return err
}

// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/audplay"
	"github.com/ik5/audplay/audio"
	"github.com/ik5/audplay/formats/wav"
)

const barWidth = 30

// shell maps command lines onto Player calls.
type shell struct {
	p    *audplay.Player
	w    io.Writer
	path string
}

func newShell(p *audplay.Player, w io.Writer) *shell {
	return &shell{p: p, w: w}
}

// exec runs one command line and reports whether the loop should continue.
func (s *shell) exec(line string) bool {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "":
	case "load", "l":
		s.load(arg)
	case "info", "i":
		s.info(arg)
	case "toggle", "p":
		if err := s.p.Toggle(); err != nil {
			s.fail(err)
			return true
		}
		s.status()
	case "restart", "r":
		s.p.Restart()
		s.status()
	case "status", "s":
		s.status()
	case "help", "h", "?":
		s.help()
	case "quit", "q", "exit":
		return false
	default:
		fmt.Fprintf(s.w, "unknown command %q, try \"help\"\n", cmd)
	}

	return true
}

func (s *shell) load(path string) {
	if path == "" {
		fmt.Fprintln(s.w, "usage: load <path>")
		return
	}

	if err := s.p.Load(path); err != nil {
		s.fail(err)
		return
	}
	s.path = path
	s.status()
}

func (s *shell) info(path string) {
	if path == "" {
		path = s.path
	}
	if path == "" {
		fmt.Fprintln(s.w, "no track loaded")
		return
	}

	f, err := os.Open(path)
	if err != nil {
		s.fail(fmt.Errorf("%w: %w", audio.ErrFileAccess, err))
		return
	}
	defer f.Close()

	info, err := wav.Probe(f)
	if err != nil {
		s.fail(err)
		return
	}

	fmt.Fprintf(s.w, "%s: %s\n", filepath.Base(path), info)
	if !info.PCM16() {
		fmt.Fprintln(s.w, "warning: not 16-bit PCM, playback will be noise")
	}
}

func (s *shell) status() {
	name, ok := s.p.TrackName()
	if !ok {
		fmt.Fprintf(s.w, "[%s]\n", s.p.State())
		return
	}

	pos, total := s.p.Position()
	fmt.Fprintf(s.w, "[%s] %s %s %d/%d (%s)",
		s.p.State(), name, bar(s.p.Progress()), pos, total, s.p.ButtonLabel())
	if cfg, ok := s.p.Device(); ok {
		fmt.Fprintf(s.w, " @ %s", cfg)
	}
	fmt.Fprintln(s.w)
}

// bar draws progress clamped to a full bar.
func bar(progress float64) string {
	filled := int(progress * barWidth)
	filled = max(0, min(filled, barWidth))

	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", barWidth-filled) +
		fmt.Sprintf("] %3.0f%%", min(progress, 1)*100)
}

func (s *shell) fail(err error) {
	kind := "error"
	switch {
	case errors.Is(err, audio.ErrFileAccess):
		kind = "file error"
	case errors.Is(err, audio.ErrUnsupportedFormat):
		kind = "unsupported"
	case errors.Is(err, audio.ErrDeviceUnavailable):
		kind = "device error"
	case errors.Is(err, audio.ErrStreamFailure):
		kind = "stream error"
	}
	fmt.Fprintf(s.w, "%s: %v\n", kind, err)
}

func (s *shell) help() {
	fmt.Fprint(s.w, `commands:
  load <path>    load and play a WAV file
  info [path]    show the header of a file (default: current track)
  toggle, p      pause or resume
  restart, r     play from the beginning
  status, s      show the current state
  quit, q        exit
`)
}

// listFiles completes the path argument of a command line.
func listFiles(line string) []string {
	_, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimLeft(arg, " ")

	prefix := arg[:strings.LastIndex(arg, "/")+1]
	dir := prefix
	if dir == "" {
		dir = "."
	}

	entries, _ := os.ReadDir(dir)
	var names []string
	for _, e := range entries {
		name := prefix + e.Name()
		if e.IsDir() {
			name += "/"
		}
		if strings.HasPrefix(name, arg) {
			names = append(names, name)
		}
	}
	return names
}

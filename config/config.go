// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ik5/audplay/audio"
	"github.com/joho/godotenv"
)

// Backend names an audio output implementation.
type Backend string

const (
	BackendOto       Backend = "oto"
	BackendMalgo     Backend = "malgo"
	BackendPortAudio Backend = "portaudio"
)

// Config holds the settings for the terminal player.
type Config struct {
	Backend    Backend
	SampleRate int
	Channels   int
	Format     audio.Format
	Buffer     time.Duration
	Verbose    bool
}

// Default returns the settings used when no variable is set.
func Default() Config {
	return Config{
		Backend:    BackendOto,
		SampleRate: 44100,
		Channels:   1,
		Format:     audio.FormatS16,
		Buffer:     100 * time.Millisecond,
	}
}

// Load reads an optional .env file from the working directory and then the
// AUDPLAY_* environment variables. Variables already set in the environment
// win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the environment only.
func FromEnv() (*Config, error) {
	cfg := Default()

	if v, ok := lookup("AUDPLAY_BACKEND"); ok {
		switch b := Backend(strings.ToLower(v)); b {
		case BackendOto, BackendMalgo, BackendPortAudio:
			cfg.Backend = b
		default:
			return nil, invalid("AUDPLAY_BACKEND", v)
		}
	}

	if v, ok := lookup("AUDPLAY_SAMPLE_RATE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, invalid("AUDPLAY_SAMPLE_RATE", v)
		}
		cfg.SampleRate = n
	}

	if v, ok := lookup("AUDPLAY_CHANNELS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, invalid("AUDPLAY_CHANNELS", v)
		}
		cfg.Channels = n
	}

	if v, ok := lookup("AUDPLAY_FORMAT"); ok {
		f, ok := audio.ParseFormat(strings.ToLower(v))
		if !ok || f == audio.FormatS32 {
			return nil, invalid("AUDPLAY_FORMAT", v)
		}
		cfg.Format = f
	}

	if v, ok := lookup("AUDPLAY_BUFFER"); ok {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, invalid("AUDPLAY_BUFFER", v)
		}
		cfg.Buffer = d
	}

	if v, ok := lookup("AUDPLAY_VERBOSE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, invalid("AUDPLAY_VERBOSE", v)
		}
		cfg.Verbose = b
	}

	return &cfg, nil
}

// lookup treats an empty variable as unset.
func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func invalid(key, value string) error {
	return fmt.Errorf("config: invalid %s %q", key, value)
}

// SPDX-License-Identifier: EPL-2.0

// Command audplay is an interactive terminal front end for the audplay
// player.
//
//	audplay [file.wav]
//
// Settings are read from AUDPLAY_* variables or a .env file.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/chzyer/readline"
	"github.com/ik5/audplay"
	"github.com/ik5/audplay/audio"
	"github.com/ik5/audplay/config"
	"github.com/ik5/audplay/output/malgo"
	"github.com/ik5/audplay/output/oto"
	"github.com/ik5/audplay/output/portaudio"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := log.New(io.Discard, "", 0)
	if cfg.Verbose {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	out, err := newOutput(cfg, logger)
	if err != nil {
		return err
	}
	if c, ok := out.(io.Closer); ok {
		defer c.Close()
	}

	p := audplay.New(out, audplay.WithLogger(logger))
	defer p.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "audplay> ",
		AutoComplete:    completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer rl.Close()

	sh := newShell(p, rl.Stdout())
	fmt.Fprintf(sh.w, "audplay on %s. Type \"help\" for commands.\n", out.Name())

	if len(args) > 0 {
		sh.exec("load " + args[0])
	}

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if !sh.exec(line) {
			return nil
		}
	}
}

func newOutput(cfg *config.Config, logger *log.Logger) (audio.Output, error) {
	switch cfg.Backend {
	case config.BackendMalgo:
		out, err := malgo.New(logger)
		if err != nil {
			return nil, err
		}
		return out, nil
	case config.BackendPortAudio:
		out, err := portaudio.New(cfg.Channels, logger)
		if err != nil {
			return nil, err
		}
		return out, nil
	}

	out, err := oto.New(oto.Options{
		SampleRate: cfg.SampleRate,
		Channels:   cfg.Channels,
		Format:     cfg.Format,
		BufferSize: cfg.Buffer,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func completer() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem("load", readline.PcItemDynamic(listFiles)),
		readline.PcItem("info", readline.PcItemDynamic(listFiles)),
		readline.PcItem("toggle"),
		readline.PcItem("restart"),
		readline.PcItem("status"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}

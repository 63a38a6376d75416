// SPDX-License-Identifier: EPL-2.0

// Package audplay is a single-track audio player core.
//
// A Player loads one file at a time, decodes it to signed 16-bit samples and
// streams them to an audio output through a real-time render callback. The
// callback only touches an atomic cursor, so the control side (Toggle,
// Restart, Progress) never blocks the device.
//
// # Supported Formats
//
// Only PCM 16-bit WAV files are decoded, under the "wav" and "wave"
// extensions. The decoder skips the canonical 44-byte header and reads the
// rest as little-endian samples. Header fields are not interpreted; use
// wav.Probe to inspect them.
//
// # Quick Start
//
//	out, _ := oto.New(oto.DefaultOptions)
//	p := audplay.New(out)
//	defer p.Close()
//
//	if err := p.Load("song.wav"); err != nil {
//		log.Fatal(err)
//	}
//
//	p.Toggle()  // pause
//	p.Toggle()  // resume
//	p.Restart() // back to the first sample
//
//	fmt.Printf("%.0f%%\n", p.Progress()*100)
//
// # States
//
// A Player starts in StateWaitingForFile. The first successful Load moves it
// to StatePlaying, and Toggle alternates between StatePlaying and
// StatePaused. A failed Load leaves the current track and state untouched.
//
// # Errors
//
// All errors wrap one of audio.ErrFileAccess, audio.ErrUnsupportedFormat,
// audio.ErrDeviceUnavailable or audio.ErrStreamFailure and can be matched
// with errors.Is.
//
// # Outputs
//
// Device backends live under output/: oto (default), malgo and portaudio.
// Each implements audio.Output and can be passed to New.
package audplay

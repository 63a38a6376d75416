// SPDX-License-Identifier: EPL-2.0

// Package audio provides the real-time streaming engine and its contracts.
//
// This package contains the building blocks that sit between a decoded
// track and an audio device:
//   - Engine, which feeds a fixed sample buffer to a device callback
//   - Output and Stream, the contract an audio backend implements
//   - Format, the closed set of device sample representations
//   - Cursor, the atomic playback position
//   - Registry, mapping file extensions to decoders
//
// # Engine
//
// An Engine is created once per loaded track and starts playing right away:
//
//	engine, err := audio.NewEngine(output, samples)
//	if err != nil {
//	    // errors.Is(err, audio.ErrDeviceUnavailable) etc.
//	}
//	defer engine.Close()
//
//	engine.Pause()
//	engine.Play()
//	engine.Restart()
//	fmt.Println(engine.Progress())
//
// The engine asks the output for its configurations and opens a stream with
// the first one at its maximum sample rate.
//
// # Render Callback
//
// The device calls the engine's render function whenever it needs samples.
// For every requested slot the callback advances the cursor once and writes
// either the converted sample at that index or the format's silence value.
// It never locks, allocates or blocks. The cursor is the only state shared
// with the control side.
//
// Playback is not stopped at the end of the buffer, so Progress grows past
// 1.0 until the caller pauses, restarts or closes the engine.
//
// # Sample Formats
//
// Sources are 16-bit signed PCM. Samples are converted when rendered:
//   - FormatU8: unsigned 8-bit, silence is 0x80
//   - FormatS16: signed 16-bit little-endian
//   - FormatS32: signed 32-bit little-endian
//   - FormatF32: IEEE-754 float in [-1, 1), little-endian
//
// # Outputs
//
// Backends live in the output subpackages (oto, malgo, portaudio). Tests use
// the recording mock in internal/audiotest, which needs no hardware.
//
// # Error Handling
//
// Failures wrap one of four kinds, matched with errors.Is:
//
//	ErrFileAccess          unreadable file
//	ErrUnsupportedFormat   unknown extension or bad header
//	ErrDeviceUnavailable   no device or no usable configuration
//	ErrStreamFailure       stream could not be opened, started or paused
package audio

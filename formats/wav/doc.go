// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV track decoding for playback.
//
// # Decoding
//
// Decoder strips the canonical 44-byte header and reinterprets the rest of
// the file as 16-bit little-endian PCM:
//
//	data, _ := os.ReadFile("track.wav")
//	samples, err := wav.Decoder{}.Decode(data)
//
// The header is not validated. Channel count, sample rate, bit depth and
// chunk layout are taken on trust; a file with extra chunks or another bit
// depth decodes to the wrong samples without an error. This is a known
// limitation of the decoder, not something it tries to repair.
//
// # Inspecting Headers
//
// Probe reads the header with github.com/go-audio/wav for display:
//
//	f, _ := os.Open("track.wav")
//	info, err := wav.Probe(f)
//	fmt.Println(info) // 44100 Hz, 2 ch, 16-bit, 3m12.5s
//
// # Writing WAV Files
//
// WriteWAV16 writes a mono 16-bit PCM file with the canonical header, which
// makes it handy for fixtures:
//
//	f, _ := os.Create("tone.wav")
//	err := wav.WriteWAV16(f, 8000, samples)
//
// # Error Handling
//
//   - ErrShortHeader: input is shorter than the header
//   - ErrNotWavFile: Probe found no RIFF/WAVE header
//   - ErrWriteFailed: WriteWAV16 could not write
//
// ErrShortHeader and ErrNotWavFile wrap audio.ErrUnsupportedFormat.
package wav

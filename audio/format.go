// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"math"
)

// Format identifies the sample representation an output device requires.
//
// Each supported variant carries its own width, equilibrium (silence) value
// and per-sample conversion from 16-bit signed PCM. Adding a representation
// means adding a variant to the formats table.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatU8
	FormatS16
	FormatS32
	FormatF32
)

type formatSpec struct {
	name    string
	width   int
	encode  func(dst []byte, s int16)
	silence func(dst []byte)
}

var formats = [...]formatSpec{
	FormatUnknown: {name: "unknown"},
	FormatU8: {
		name:  "u8",
		width: 1,
		encode: func(dst []byte, s int16) {
			dst[0] = uint8(s>>8) ^ 0x80
		},
		silence: func(dst []byte) { dst[0] = 0x80 },
	},
	FormatS16: {
		name:  "s16le",
		width: 2,
		encode: func(dst []byte, s int16) {
			binary.LittleEndian.PutUint16(dst, uint16(s))
		},
		silence: func(dst []byte) { dst[0], dst[1] = 0, 0 },
	},
	FormatS32: {
		name:  "s32le",
		width: 4,
		encode: func(dst []byte, s int16) {
			binary.LittleEndian.PutUint32(dst, uint32(int32(s)<<16))
		},
		silence: func(dst []byte) { dst[0], dst[1], dst[2], dst[3] = 0, 0, 0, 0 },
	},
	FormatF32: {
		name:  "f32le",
		width: 4,
		encode: func(dst []byte, s int16) {
			binary.LittleEndian.PutUint32(dst, math.Float32bits(float32(s)/32768))
		},
		silence: func(dst []byte) { dst[0], dst[1], dst[2], dst[3] = 0, 0, 0, 0 },
	},
}

func (f Format) spec() formatSpec {
	if int(f) >= len(formats) {
		return formats[FormatUnknown]
	}
	return formats[f]
}

// Supported reports whether f has a conversion the engine can render.
func (f Format) Supported() bool { return f.spec().width > 0 }

// Width is the size of one sample in bytes, or 0 for unsupported formats.
func (f Format) Width() int { return f.spec().width }

func (f Format) String() string { return f.spec().name }

// Encode writes s converted to f into the first Width bytes of dst.
func (f Format) Encode(dst []byte, s int16) { f.spec().encode(dst, s) }

// Silence writes the equilibrium value of f into the first Width bytes of dst.
func (f Format) Silence(dst []byte) { f.spec().silence(dst) }

// ParseFormat maps a short name ("u8", "s16", "s32", "f32", with or without an
// "le" suffix) to a Format. Unknown names yield FormatUnknown and false.
func ParseFormat(name string) (Format, bool) {
	switch name {
	case "u8":
		return FormatU8, true
	case "s16", "s16le":
		return FormatS16, true
	case "s32", "s32le":
		return FormatS32, true
	case "f32", "f32le":
		return FormatF32, true
	}
	return FormatUnknown, false
}

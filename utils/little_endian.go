// SPDX-License-Identifier: EPL-2.0

package utils

import "encoding/binary"

// Integer is the set of fixed-width integer sample types LittleEndian can
// produce.
type Integer interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64
}

// LittleEndian reinterprets b as consecutive little-endian values of type T.
//
// The width of each value is the size of T. The result holds len(b)/width
// values; trailing bytes that do not form a whole value are dropped.
//
// Example:
//
//	LittleEndian[int16]([]byte{0x01, 0x00, 0x02, 0x00}) // []int16{1, 2}
func LittleEndian[T Integer](b []byte) []T {
	var zero T
	width := binary.Size(zero)

	out := make([]T, len(b)/width)
	for i := range out {
		chunk := b[i*width : i*width+width]

		var v uint64
		for j := width - 1; j >= 0; j-- {
			v = v<<8 | uint64(chunk[j])
		}
		// Conversion truncates to the width of T, which keeps the two's
		// complement bit pattern for signed types.
		out[i] = T(v)
	}

	return out
}

// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"github.com/ik5/audplay/utils"
)

// HeaderSize is the length of a canonical PCM WAV header.
const HeaderSize = 44

// Decoder turns WAV file contents into 16-bit PCM samples.
//
// It assumes a canonical 44-byte header followed by little-endian 16-bit
// samples and does not check that assumption: channel count, sample rate,
// bit depth and chunk layout are ignored. Files with a different layout decode
// to the wrong samples without an error. Use Probe to inspect a header.
type Decoder struct{}

func (Decoder) Decode(data []byte) ([]int16, error) {
	if len(data) < HeaderSize {
		return nil, ErrShortHeader
	}

	return utils.LittleEndian[int16](data[HeaderSize:]), nil
}

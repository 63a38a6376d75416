// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"errors"
	"fmt"

	"github.com/ik5/audplay/audio"
)

var (
	ErrShortHeader = fmt.Errorf("%w: input shorter than the %d-byte WAV header", audio.ErrUnsupportedFormat, HeaderSize)
	ErrNotWavFile  = fmt.Errorf("%w: not a WAV file", audio.ErrUnsupportedFormat)
	ErrWriteFailed = errors.New("failed to write WAV data")
)

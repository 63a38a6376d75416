// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

// Error kinds reported by the engine and the player. Call sites wrap them
// with detail, so match with errors.Is.
var (
	ErrFileAccess        = errors.New("file access error")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrDeviceUnavailable = errors.New("audio device unavailable")
	ErrStreamFailure     = errors.New("audio stream failure")
)

// SPDX-License-Identifier: EPL-2.0

package malgo

import (
	"testing"

	"github.com/gen2brain/malgo"
	"github.com/ik5/audplay/audio"
)

func TestFormatMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		malgo malgo.FormatType
		audio audio.Format
	}{
		{malgo.FormatU8, audio.FormatU8},
		{malgo.FormatS16, audio.FormatS16},
		{malgo.FormatS32, audio.FormatS32},
		{malgo.FormatF32, audio.FormatF32},
	}

	for _, tt := range tests {
		if got := fromMalgo(tt.malgo); got != tt.audio {
			t.Errorf("fromMalgo(%v) = %v, want %v", tt.malgo, got, tt.audio)
		}
		if got := toMalgo(tt.audio); got != tt.malgo {
			t.Errorf("toMalgo(%v) = %v, want %v", tt.audio, got, tt.malgo)
		}
	}

	if got := fromMalgo(malgo.FormatS24); got != audio.FormatUnknown {
		t.Errorf("fromMalgo(S24) = %v, want unknown", got)
	}
	if got := toMalgo(audio.FormatUnknown); got != malgo.FormatUnknown {
		t.Errorf("toMalgo(unknown) = %v, want FormatUnknown", got)
	}
}

func TestRangesFrom(t *testing.T) {
	t.Parallel()

	info := malgo.DeviceInfo{
		FormatCount: 3,
		Formats: []malgo.DataFormat{
			{Format: malgo.FormatS24, Channels: 2, SampleRate: 96000},
			{Format: malgo.FormatF32, Channels: 0, SampleRate: 0},
			{Format: malgo.FormatS16, Channels: 1, SampleRate: 44100},
		},
	}

	got := rangesFrom(info)
	want := []audio.ConfigRange{
		{Channels: 2, Format: audio.FormatUnknown, MinSampleRate: 96000, MaxSampleRate: 96000},
		{Channels: 2, Format: audio.FormatF32, MinSampleRate: fallbackSampleRate, MaxSampleRate: fallbackSampleRate},
		{Channels: 1, Format: audio.FormatS16, MinSampleRate: 44100, MaxSampleRate: 44100},
	}

	if len(got) != len(want) {
		t.Fatalf("rangesFrom() returned %d ranges, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("range[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRangesFrom_Empty(t *testing.T) {
	t.Parallel()

	if got := rangesFrom(malgo.DeviceInfo{}); len(got) != 0 {
		t.Errorf("rangesFrom(empty) = %v, want none", got)
	}
}

func TestRangesFrom_CountBeyondFormats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		count uint32
		want  int
	}{
		{"count larger than slice", 5, 1},
		{"count smaller than slice", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info := malgo.DeviceInfo{
				FormatCount: tt.count,
				Formats: []malgo.DataFormat{
					{Format: malgo.FormatS16, Channels: 1, SampleRate: 44100},
				},
			}

			if got := rangesFrom(info); len(got) != tt.want {
				t.Errorf("rangesFrom() returned %d ranges, want %d", len(got), tt.want)
			}
		})
	}
}

// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"bytes"
	"errors"
	"math"
	"slices"
	"sync"
	"testing"

	"github.com/ik5/audplay/audio"
	"github.com/ik5/audplay/internal/audiotest"
)

const tolerance = 1e-9

func newEngine(t *testing.T, out *audiotest.MockOutput, samples []int16) (*audio.Engine, *audiotest.MockStream) {
	t.Helper()

	e, err := audio.NewEngine(out, samples)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	t.Cleanup(func() { _ = e.Close() })

	return e, out.Last()
}

func TestNewEngine_StartsImmediately(t *testing.T) {
	t.Parallel()

	out := audiotest.NewMockOutput()
	e, stream := newEngine(t, out, []int16{1, 2, 3})

	if !stream.Playing() {
		t.Error("stream not playing after NewEngine()")
	}
	if e.Len() != 3 {
		t.Errorf("Len() = %d, want 3", e.Len())
	}

	want := audio.Config{Channels: 1, Format: audio.FormatS16, SampleRate: 48000}
	if e.Config() != want || stream.Config() != want {
		t.Errorf("Config() = %+v, stream %+v, want %+v", e.Config(), stream.Config(), want)
	}
}

func TestEngine_RendersSamplesThenSilence(t *testing.T) {
	t.Parallel()

	out := audiotest.NewMockOutput()
	_, stream := newEngine(t, out, []int16{10, -20, 30})

	stream.Pull(2)
	stream.Pull(4)

	got := stream.RecordedS16()
	want := []int16{10, -20, 30, 0, 0, 0}
	if !slices.Equal(got, want) {
		t.Errorf("rendered %v, want %v", got, want)
	}
}

func TestEngine_ProgressTracksConsumption(t *testing.T) {
	t.Parallel()

	out := audiotest.NewMockOutput()
	e, stream := newEngine(t, out, make([]int16, 8))

	if e.Progress() != 0 {
		t.Fatalf("Progress() = %v before any callback, want 0", e.Progress())
	}

	prev := 0.0
	for k := 1; k <= 8; k++ {
		stream.Pull(1)
		got := e.Progress()
		if math.Abs(got-float64(k)/8) > tolerance {
			t.Errorf("Progress() after %d samples = %v, want %v", k, got, float64(k)/8)
		}
		if got < prev {
			t.Errorf("Progress() decreased from %v to %v", prev, got)
		}
		prev = got
	}
}

func TestEngine_ProgressExceedsOne(t *testing.T) {
	t.Parallel()

	out := audiotest.NewMockOutput()
	e, stream := newEngine(t, out, make([]int16, 4))

	stream.Pull(6)
	if math.Abs(e.Progress()-1.5) > tolerance {
		t.Errorf("Progress() = %v, want 1.5", e.Progress())
	}
	if e.Position() != 6 {
		t.Errorf("Position() = %d, want 6", e.Position())
	}
}

func TestEngine_ProgressEmptyBuffer(t *testing.T) {
	t.Parallel()

	out := audiotest.NewMockOutput()
	e, stream := newEngine(t, out, nil)

	stream.Pull(16)
	if e.Progress() != 0 {
		t.Errorf("Progress() = %v for empty buffer, want 0", e.Progress())
	}
	if got := stream.RecordedS16(); !slices.Equal(got, make([]int16, 16)) {
		t.Errorf("rendered %v, want silence", got)
	}
}

func TestEngine_PauseStopsConsumption(t *testing.T) {
	t.Parallel()

	out := audiotest.NewMockOutput()
	e, stream := newEngine(t, out, make([]int16, 10))

	stream.Pull(3)
	if err := e.Pause(); err != nil {
		t.Fatalf("Pause() error = %v", err)
	}

	before := e.Progress()
	stream.Pull(5)
	if e.Progress() != before {
		t.Errorf("Progress() moved while paused: %v -> %v", before, e.Progress())
	}

	if err := e.Play(); err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	stream.Pull(2)
	if math.Abs(e.Progress()-0.5) > tolerance {
		t.Errorf("Progress() after resume = %v, want 0.5", e.Progress())
	}
}

func TestEngine_Restart(t *testing.T) {
	t.Parallel()

	out := audiotest.NewMockOutput()
	e, stream := newEngine(t, out, []int16{1, 2, 3, 4})

	stream.Pull(3)
	e.Restart()

	if e.Progress() != 0 {
		t.Errorf("Progress() after Restart = %v, want 0", e.Progress())
	}
	if !stream.Playing() {
		t.Error("Restart() changed the stream state")
	}

	stream.Pull(2)
	if got := stream.RecordedS16(); !slices.Equal(got, []int16{1, 2, 3, 1, 2}) {
		t.Errorf("rendered %v, want playback from the start", got)
	}
}

func TestEngine_RestartWhilePaused(t *testing.T) {
	t.Parallel()

	out := audiotest.NewMockOutput()
	e, stream := newEngine(t, out, make([]int16, 4))

	stream.Pull(2)
	_ = e.Pause()
	e.Restart()

	if e.Progress() != 0 {
		t.Errorf("Progress() = %v, want 0", e.Progress())
	}
	if stream.Playing() {
		t.Error("Restart() resumed a paused stream")
	}
}

func TestEngine_OutputFormats(t *testing.T) {
	t.Parallel()

	samples := []int16{math.MinInt16, 0, math.MaxInt16}

	tests := []struct {
		format audio.Format
		slots  int
		want   []byte
	}{
		{audio.FormatU8, 4, []byte{0x00, 0x80, 0xFF, 0x80}},
		{audio.FormatS16, 4, []byte{0x00, 0x80, 0, 0, 0xFF, 0x7F, 0, 0}},
		{audio.FormatS32, 4, []byte{
			0, 0, 0x00, 0x80,
			0, 0, 0, 0,
			0, 0, 0xFF, 0x7F,
			0, 0, 0, 0,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			t.Parallel()

			out := audiotest.NewMockOutput(audio.ConfigRange{
				Channels:      2,
				Format:        tt.format,
				MinSampleRate: 44100,
				MaxSampleRate: 44100,
			})
			_, stream := newEngine(t, out, samples)

			got := stream.Pull(tt.slots)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("rendered % x, want % x", got, tt.want)
			}
		})
	}
}

func TestEngine_ZeroesPartialSlot(t *testing.T) {
	t.Parallel()

	out := audiotest.NewMockOutput()
	e, stream := newEngine(t, out, []int16{0x0102})

	dst := []byte{0xAA, 0xAA, 0xAA}
	stream.Render(dst)

	if !bytes.Equal(dst, []byte{0x02, 0x01, 0x00}) {
		t.Errorf("rendered % x, want 02 01 00", dst)
	}
	if e.Position() != 1 {
		t.Errorf("Position() = %d, want 1", e.Position())
	}
}

func TestNewEngine_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func() *audiotest.MockOutput
		want  error
	}{
		{
			name: "configs fail",
			setup: func() *audiotest.MockOutput {
				out := audiotest.NewMockOutput()
				out.ConfigErr = audiotest.ErrInjected
				return out
			},
			want: audio.ErrDeviceUnavailable,
		},
		{
			name:  "no configuration",
			setup: audiotest.NewEmptyOutput,
			want:  audio.ErrDeviceUnavailable,
		},
		{
			name: "unsupported format",
			setup: func() *audiotest.MockOutput {
				return audiotest.NewMockOutput(audio.ConfigRange{Channels: 2, Format: audio.FormatUnknown, MaxSampleRate: 48000})
			},
			want: audio.ErrDeviceUnavailable,
		},
		{
			name: "open fails",
			setup: func() *audiotest.MockOutput {
				out := audiotest.NewMockOutput()
				out.OpenErr = audiotest.ErrInjected
				return out
			},
			want: audio.ErrStreamFailure,
		},
		{
			name: "play fails",
			setup: func() *audiotest.MockOutput {
				out := audiotest.NewMockOutput()
				out.PlayErr = audiotest.ErrInjected
				return out
			},
			want: audio.ErrStreamFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := tt.setup()
			e, err := audio.NewEngine(out, []int16{1})
			if e != nil {
				t.Error("NewEngine() returned an engine on failure")
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("NewEngine() error = %v, want %v", err, tt.want)
			}

			for _, s := range out.Streams() {
				if !s.Closed() {
					t.Error("NewEngine() leaked an opened stream")
				}
			}
		})
	}
}

func TestEngine_PauseRejected(t *testing.T) {
	t.Parallel()

	out := audiotest.NewMockOutput()
	out.PauseErr = audiotest.ErrInjected
	e, stream := newEngine(t, out, make([]int16, 4))

	err := e.Pause()
	if !errors.Is(err, audio.ErrStreamFailure) || !errors.Is(err, audiotest.ErrInjected) {
		t.Fatalf("Pause() error = %v, want ErrStreamFailure wrapping the device error", err)
	}
	if !stream.Playing() {
		t.Error("stream paused after rejected pause")
	}

	stream.Pull(2)
	if math.Abs(e.Progress()-0.5) > tolerance {
		t.Errorf("Progress() = %v, want 0.5", e.Progress())
	}
}

func TestEngine_Close(t *testing.T) {
	t.Parallel()

	out := audiotest.NewMockOutput()
	e, stream := newEngine(t, out, make([]int16, 4))

	if err := e.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !stream.Closed() {
		t.Error("stream not closed")
	}
	if stream.Pull(4) != nil {
		t.Error("closed stream still rendered")
	}
	if err := e.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := e.Play(); !errors.Is(err, audio.ErrStreamFailure) {
		t.Errorf("Play() after Close error = %v, want ErrStreamFailure", err)
	}
	if err := e.Pause(); !errors.Is(err, audio.ErrStreamFailure) {
		t.Errorf("Pause() after Close error = %v, want ErrStreamFailure", err)
	}
}

func TestEngine_ConcurrentControl(t *testing.T) {
	t.Parallel()

	out := audiotest.NewMockOutput()
	e, stream := newEngine(t, out, make([]int16, 1024))

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for range 200 {
			stream.Pull(64)
		}
	}()

	go func() {
		defer wg.Done()
		for i := range 200 {
			if p := e.Progress(); p < 0 {
				t.Errorf("Progress() = %v", p)
			}
			if i%50 == 0 {
				e.Restart()
			}
		}
	}()

	wg.Wait()
}

func BenchmarkEngine_Render(b *testing.B) {
	out := audiotest.NewMockOutput()
	e, err := audio.NewEngine(out, make([]int16, 1<<20))
	if err != nil {
		b.Fatal(err)
	}
	defer e.Close()

	stream := out.Last()
	dst := make([]byte, 2048)

	b.ReportAllocs()
	b.ResetTimer()

	for b.Loop() {
		stream.Render(dst)
	}
}

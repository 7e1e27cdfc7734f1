package gait

import (
	"errors"
	"testing"

	"github.com/Shashikr2605/StrideSense/internal/pose"
)

func TestDetectHeelStrikes(t *testing.T) {
	const heel = 33

	tests := []struct {
		name string
		ys   []float64
		want []int
	}{
		{
			name: "two asymmetric minima",
			ys:   []float64{5, 4, 3, 1, 4, 5, 4, 3, 1, 4, 5},
			want: []int{3, 8},
		},
		{
			name: "symmetric minimum is not a sign flip",
			ys:   []float64{3, 2, 1, 2, 3, 0.5, 3.5},
			want: []int{5},
		},
		{
			name: "adjacent detections are kept",
			ys:   []float64{3, 2, 3.5, 1, 4},
			want: []int{1, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lm := landmarksFrom(30, map[int][]pose.Keypoint{heel: heelTrack(tt.ys...)})

			got, err := DetectHeelStrikes(lm, heel)
			if err != nil {
				t.Fatalf("DetectHeelStrikes() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("DetectHeelStrikes() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("DetectHeelStrikes() = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestDetectHeelStrikes_AscendingInterior(t *testing.T) {
	ys := make([]float64, 200)
	for i := range ys {
		// Deterministic jitter that produces many sign flips.
		ys[i] = float64((i*i*7)%13) / 10
	}
	lm := landmarksFrom(30, map[int][]pose.Keypoint{33: heelTrack(ys...)})

	got, err := DetectHeelStrikes(lm, 33)
	if err != nil {
		t.Fatalf("DetectHeelStrikes() error = %v", err)
	}
	for i, s := range got {
		if s < 1 || s > len(ys)-2 {
			t.Errorf("strike %d outside [1, %d]", s, len(ys)-2)
		}
		if i > 0 && s <= got[i-1] {
			t.Errorf("strikes not strictly ascending: %v", got)
		}
	}
}

func TestDetectHeelStrikes_None(t *testing.T) {
	t.Run("flat heel", func(t *testing.T) {
		lm := landmarksFrom(30, map[int][]pose.Keypoint{33: heelTrack(1, 1, 1, 1, 1)})
		if _, err := DetectHeelStrikes(lm, 33); !errors.Is(err, ErrNoEventsDetected) {
			t.Errorf("error = %v, want ErrNoEventsDetected", err)
		}
	})

	t.Run("heel dropped", func(t *testing.T) {
		lm := landmarksFrom(30, map[int][]pose.Keypoint{0: heelTrack(3, 1, 4, 1, 5)})
		if _, err := DetectHeelStrikes(lm, 33); !errors.Is(err, ErrNoEventsDetected) {
			t.Errorf("error = %v, want ErrNoEventsDetected", err)
		}
	})

	t.Run("too short", func(t *testing.T) {
		lm := landmarksFrom(30, map[int][]pose.Keypoint{33: heelTrack(2, 1)})
		if _, err := DetectHeelStrikes(lm, 33); !errors.Is(err, ErrNoEventsDetected) {
			t.Errorf("error = %v, want ErrNoEventsDetected", err)
		}
	})
}

func TestSegmentCycles(t *testing.T) {
	lm := landmarksFrom(30, map[int][]pose.Keypoint{
		32: constantTrack(50, pose.Keypoint{X: 0.6}),
		33: constantTrack(50, pose.Keypoint{X: 0.4}),
	})

	cycles, err := SegmentCycles(lm, []int{5, 20, 40})
	if err != nil {
		t.Fatalf("SegmentCycles() error = %v", err)
	}
	if len(cycles) != 2 {
		t.Fatalf("len(cycles) = %d, want 2", len(cycles))
	}

	want := [][2]int{{5, 20}, {20, 40}}
	for i, c := range cycles {
		if c.Start != want[i][0] || c.End != want[i][1] {
			t.Errorf("cycle %d = [%d,%d), want [%d,%d)", i, c.Start, c.End, want[i][0], want[i][1])
		}
		if c.Frames.Len() != c.Len() {
			t.Errorf("cycle %d has %d frames, want %d", i, c.Frames.Len(), c.Len())
		}
		if len(c.Frames.Indices()) != len(lm.Indices()) {
			t.Errorf("cycle %d keypoint count = %d, want %d", i, len(c.Frames.Indices()), len(lm.Indices()))
		}
	}
}

func TestSegmentCycles_SkipsEmpty(t *testing.T) {
	lm := landmarksFrom(30, map[int][]pose.Keypoint{0: constantTrack(20, pose.Keypoint{})})

	cycles, err := SegmentCycles(lm, []int{5, 5, 9})
	if err != nil {
		t.Fatalf("SegmentCycles() error = %v", err)
	}
	if len(cycles) != 1 || cycles[0].Start != 5 || cycles[0].End != 9 {
		t.Errorf("cycles = %+v, want one cycle [5,9)", cycles)
	}
}

func TestSegmentCycles_NoCycles(t *testing.T) {
	lm := landmarksFrom(30, map[int][]pose.Keypoint{0: constantTrack(20, pose.Keypoint{})})

	for _, strikes := range [][]int{nil, {7}, {4, 4}} {
		if _, err := SegmentCycles(lm, strikes); !errors.Is(err, ErrNoCycles) {
			t.Errorf("SegmentCycles(%v) error = %v, want ErrNoCycles", strikes, err)
		}
	}
}

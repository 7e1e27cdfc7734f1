package gait

import (
	"errors"
	"math"
	"testing"

	"github.com/Shashikr2605/StrideSense/internal/pose"
)

// frameOf builds a detected frame from x values; keypoint j gets X=xs[j].
func frameOf(xs ...float64) pose.Frame {
	kps := make([]pose.Keypoint, len(xs))
	for j, x := range xs {
		kps[j] = pose.Keypoint{X: x, Y: x / 2, Z: 0, Visibility: 0.9}
	}
	return pose.Detected(kps)
}

func TestReconstruct_AllValidIsSmoothedInput(t *testing.T) {
	raw := []float64{0.1, 0.4, 0.2, 0.8, 0.5, 0.6, 0.3, 0.9, 0.7, 0.2, 0.4, 0.5}
	seq := make(pose.Sequence, len(raw))
	for i, x := range raw {
		seq[i] = frameOf(x)
	}

	lm, err := Reconstruct(seq, 30, nil)
	if err != nil {
		t.Fatalf("Reconstruct() error = %v", err)
	}

	want := smooth(raw, gaussianKernel(SmoothingSigma, kernelTruncate))
	track, ok := lm.Track(0)
	if !ok {
		t.Fatal("keypoint 0 missing")
	}
	for i := range want {
		if !approxEqual(track[i].X, want[i], epsilon) {
			t.Errorf("x[%d] = %v, want %v", i, track[i].X, want[i])
		}
		if track[i].Visibility != 0.9 {
			t.Errorf("visibility[%d] = %v, want 0.9 unsmoothed", i, track[i].Visibility)
		}
	}
}

func TestReconstruct_FillsGapsBeforeSmoothing(t *testing.T) {
	seq := make(pose.Sequence, 11)
	for i := range seq {
		seq[i] = pose.NotDetected()
	}
	seq[0] = frameOf(0)
	seq[10] = frameOf(1)

	lm, err := Reconstruct(seq, 30, nil)
	if err != nil {
		t.Fatalf("Reconstruct() error = %v", err)
	}

	linear := make([]float64, 11)
	for i := range linear {
		linear[i] = float64(i) / 10
	}
	want := smooth(linear, gaussianKernel(SmoothingSigma, kernelTruncate))

	track, _ := lm.Track(0)
	for i := range want {
		if !approxEqual(track[i].X, want[i], epsilon) {
			t.Errorf("x[%d] = %v, want %v", i, track[i].X, want[i])
		}
	}

	// Interior of a straight line survives a symmetric kernel.
	if !approxEqual(track[5].X, 0.5, epsilon) {
		t.Errorf("x[5] = %v, want 0.5", track[5].X)
	}

	for i := 1; i < 10; i++ {
		if track[i].Visibility != 0 {
			t.Errorf("visibility[%d] = %v, want 0 for a missing frame", i, track[i].Visibility)
		}
	}
}

func TestReconstruct_DropPolicy(t *testing.T) {
	nan := math.NaN()
	seq := pose.Sequence{
		frameOf(0.1, 0.5, nan),
		frameOf(0.2, nan, nan),
		pose.NotDetected(),
		frameOf(0.3),
		frameOf(0.4, nan, nan),
	}

	log := newRecordingLogger()
	lm, err := Reconstruct(seq, 30, log)
	if err != nil {
		t.Fatalf("Reconstruct() error = %v", err)
	}

	got := lm.Indices()
	if len(got) != 1 || got[0] != 0 {
		t.Fatalf("Indices() = %v, want [0]", got)
	}
	if lm.Has(1) || lm.Has(2) {
		t.Error("indices with fewer than two samples must be dropped")
	}
	if lm.Len() != len(seq) {
		t.Errorf("Len() = %d, want %d", lm.Len(), len(seq))
	}

	if !log.contains("warn", "keypoint 1") {
		t.Error("expected a warning for the single-sample keypoint")
	}
	if !log.contains("error", "keypoint 2") {
		t.Error("expected an error line for the keypoint with no samples")
	}
}

func TestReconstruct_InsufficientData(t *testing.T) {
	tests := []struct {
		name string
		seq  pose.Sequence
	}{
		{"empty", pose.Sequence{}},
		{"no detections", pose.Sequence{pose.NotDetected(), pose.NotDetected(), pose.NotDetected()}},
		{"single detection", pose.Sequence{frameOf(0.1, 0.2), pose.NotDetected()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reconstruct(tt.seq, 30, nil)
			if !errors.Is(err, ErrInsufficientData) {
				t.Errorf("Reconstruct() error = %v, want ErrInsufficientData", err)
			}
		})
	}
}

func TestReconstruct_DoesNotMutateInput(t *testing.T) {
	seq := pose.Sequence{frameOf(0.1), pose.NotDetected(), frameOf(0.3)}

	if _, err := Reconstruct(seq, 30, nil); err != nil {
		t.Fatalf("Reconstruct() error = %v", err)
	}

	if seq[1].IsDetected() {
		t.Error("input frame was modified")
	}
	kps, _ := seq[0].Keypoints()
	if kps[0].X != 0.1 {
		t.Errorf("input keypoint modified: %v", kps[0].X)
	}
}

func TestLandmarks_Slice(t *testing.T) {
	lm := landmarksFrom(30, map[int][]pose.Keypoint{
		0: heelTrack(0, 1, 2, 3, 4, 5),
		7: heelTrack(5, 4, 3, 2, 1, 0),
	})

	s := lm.Slice(2, 5)
	if s.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", s.Len())
	}
	if len(s.Indices()) != 2 {
		t.Errorf("Indices() = %v, want both indices", s.Indices())
	}
	kp, ok := s.At(0, 0)
	if !ok || kp.Y != 2 {
		t.Errorf("At(0, 0) = %v, %v; want y=2", kp, ok)
	}
	if _, ok := s.At(3, 0); ok {
		t.Error("At past the end should fail")
	}
	if s.FPS() != 30 {
		t.Errorf("FPS() = %v, want 30", s.FPS())
	}
}

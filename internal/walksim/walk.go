// Package walksim generates synthetic walking sequences for tests.
package walksim

import (
	"math"

	"github.com/Shashikr2605/StrideSense/internal/pose"
)

// WalkOptions describes a synthetic walk seen from the side.
type WalkOptions struct {
	FPS       float64
	Frames    int
	Period    int     // frames between heel strikes; keep it even
	Amplitude float64 // vertical heel travel
	StepWidth float64 // horizontal heel to right ankle distance
	Missing   []int   // frames with no detection
}

// SlowWalk is a 20 second walk with one heel strike per second, which
// classifies as abnormal cadence only.
func SlowWalk() WalkOptions {
	return WalkOptions{
		FPS:       30,
		Frames:    600,
		Period:    30,
		Amplitude: 0.02,
		StepWidth: 0.2,
	}
}

// NormalWalk is a walk with a cadence of 112.5 steps/min and no
// abnormality.
func NormalWalk() WalkOptions {
	return WalkOptions{
		FPS:       30,
		Frames:    592,
		Period:    16,
		Amplitude: 0.02,
		StepWidth: 0.2,
	}
}

// Walk renders the walk as a recording carrying every keypoint of layout.
//
// The heel follows a cosine whose minima fall a quarter frame before each
// multiple of Period offset by Period/2, so a strike is detected exactly at
// those frames. The other joints hold a standing pose with a straight leg.
func Walk(layout pose.Layout, opts WalkOptions) pose.Recording {
	width := layout.Width()
	if width < pose.NumKeypoints {
		width = pose.NumKeypoints
	}

	missing := make(map[int]bool, len(opts.Missing))
	for _, i := range opts.Missing {
		missing[i] = true
	}

	frames := make(pose.Sequence, opts.Frames)
	for i := range frames {
		if missing[i] {
			frames[i] = pose.NotDetected()
			continue
		}

		kps := make([]pose.Keypoint, width)
		for j := range kps {
			kps[j] = pose.Keypoint{X: 0.5, Y: 0.3, Visibility: 0.9}
		}

		heelY := opts.HeelY(i)
		kps[layout.LeftHip] = pose.Keypoint{X: 0.5, Y: 0.4, Visibility: 0.95}
		kps[layout.LeftKnee] = pose.Keypoint{X: 0.5, Y: 0.55, Visibility: 0.95}
		kps[layout.LeftAnkle] = pose.Keypoint{X: 0.5, Y: 0.7, Visibility: 0.9}
		kps[layout.LeftFootIndex] = pose.Keypoint{X: 0.58, Y: 0.86, Visibility: 0.85}
		kps[layout.RightAnkle] = pose.Keypoint{X: 0.48 + opts.StepWidth, Y: 0.84, Visibility: 0.9}
		kps[layout.LeftHeel] = pose.Keypoint{X: 0.48, Y: heelY, Visibility: 0.8}

		frames[i] = pose.Detected(kps)
	}

	return pose.Recording{FPS: opts.FPS, Frames: frames}
}

// HeelY returns the heel height at frame i.
func (o WalkOptions) HeelY(i int) float64 {
	p := float64(o.Period)
	lowest := p/2 - 0.25
	return 0.84 - o.Amplitude*math.Cos(2*math.Pi*(float64(i)-lowest)/p)
}

// ExpectedStrikes returns the frames at which heel strikes are detected in
// a walk without missing frames.
func (o WalkOptions) ExpectedStrikes() []int {
	var strikes []int
	for i := o.Period / 2; i <= o.Frames-2; i += o.Period {
		strikes = append(strikes, i)
	}
	return strikes
}

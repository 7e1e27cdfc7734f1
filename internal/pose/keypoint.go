// Package pose provides body keypoint types and pose detection for gait analysis.
package pose

import (
	"encoding/json"
	"fmt"
	"math"
)

// Body keypoint indices following the MediaPipe pose convention.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	Nose           = 0
	LeftShoulder   = 11
	RightShoulder  = 12
	LeftHip        = 23
	RightHip       = 24
	LeftKnee       = 25
	RightKnee      = 26
	LeftAnkle      = 27
	RightAnkle     = 28
	LeftHeel       = 29
	RightHeel      = 30
	LeftFootIndex  = 31
	RightFootIndex = 32
	NumKeypoints   = 33
)

// Keypoint is one tracked body landmark. X and Y are normalized to [0,1]
// relative to the frame, Z is relative depth and Visibility is in [0,1].
type Keypoint struct {
	X          float64
	Y          float64
	Z          float64
	Visibility float64
}

// Finite reports whether the position has finite x, y and z.
func (k Keypoint) Finite() bool {
	return isFinite(k.X) && isFinite(k.Y) && isFinite(k.Z)
}

// MarshalJSON encodes the keypoint as [x, y, z, visibility].
func (k Keypoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{k.X, k.Y, k.Z, k.Visibility})
}

// UnmarshalJSON decodes [x, y, z] or [x, y, z, visibility].
func (k *Keypoint) UnmarshalJSON(data []byte) error {
	var v []float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("keypoint: %w", err)
	}
	switch len(v) {
	case 3:
		*k = Keypoint{X: v[0], Y: v[1], Z: v[2]}
	case 4:
		*k = Keypoint{X: v[0], Y: v[1], Z: v[2], Visibility: v[3]}
	default:
		return fmt.Errorf("keypoint: expected 3 or 4 values, got %d", len(v))
	}
	return nil
}

// Frame is the pose detection result for one video frame: either a
// detected keypoint set or no detection.
type Frame struct {
	detected  bool
	keypoints []Keypoint
}

// Detected returns a frame holding a copy of kps.
func Detected(kps []Keypoint) Frame {
	cp := make([]Keypoint, len(kps))
	copy(cp, kps)
	return Frame{detected: true, keypoints: cp}
}

// NotDetected returns a frame in which no person was found.
func NotDetected() Frame {
	return Frame{}
}

// Keypoints returns the detected keypoints and true, or nil and false when
// the frame has no detection.
func (f Frame) Keypoints() ([]Keypoint, bool) {
	if !f.detected {
		return nil, false
	}
	return f.keypoints, true
}

// IsDetected reports whether the frame has a keypoint set.
func (f Frame) IsDetected() bool {
	return f.detected
}

// MarshalJSON encodes a detected frame as an array of keypoints and a
// missing detection as null.
func (f Frame) MarshalJSON() ([]byte, error) {
	if !f.detected {
		return []byte("null"), nil
	}
	return json.Marshal(f.keypoints)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (f *Frame) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = NotDetected()
		return nil
	}
	var kps []Keypoint
	if err := json.Unmarshal(data, &kps); err != nil {
		return err
	}
	*f = Frame{detected: true, keypoints: kps}
	return nil
}

// Sequence is an ordered list of frames, one per video frame.
type Sequence []Frame

// DetectedCount returns the number of frames with a detection.
func (s Sequence) DetectedCount() int {
	n := 0
	for _, f := range s {
		if f.detected {
			n++
		}
	}
	return n
}

// Recording is a landmark sequence together with its source frame rate.
// It is the file format read and written by the gaitreport tool.
type Recording struct {
	FPS    float64  `json:"fps"`
	Frames Sequence `json:"frames"`
}

// Duration returns the recording length in seconds, or 0 if the frame rate
// is unknown.
func (r Recording) Duration() float64 {
	if r.FPS <= 0 {
		return 0
	}
	return float64(len(r.Frames)) / r.FPS
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

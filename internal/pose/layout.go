package pose

import (
	"fmt"
	"strings"
)

// Layout names the keypoint indices gait analysis reads.
type Layout struct {
	Name string

	LeftHip       int
	LeftKnee      int
	LeftAnkle     int
	LeftFootIndex int
	LeftHeel      int
	RightAnkle    int

	// StepLeft and StepRight are the contact points used for step length.
	StepLeft  int
	StepRight int
}

// Layout names accepted by LayoutByName.
const (
	LayoutContract  = "contract"
	LayoutBlazePose = "blazepose"
)

// ContractLayout returns the index contract of the gait report format:
// left hip 23, left knee 25, left ankle 27, left foot index 31,
// right ankle 32 and left heel 33. Index 33 lies past the 33 MediaPipe
// pose keypoints, so this layout needs an extended keypoint set; with plain
// MediaPipe output the heel track is missing and no heel strikes are found.
func ContractLayout() Layout {
	return Layout{
		Name:          LayoutContract,
		LeftHip:       23,
		LeftKnee:      25,
		LeftAnkle:     27,
		LeftFootIndex: 31,
		LeftHeel:      33,
		RightAnkle:    32,
		StepLeft:      33,
		StepRight:     32,
	}
}

// BlazePoseLayout returns the anatomical indices of the 33-point MediaPipe
// pose model.
func BlazePoseLayout() Layout {
	return Layout{
		Name:          LayoutBlazePose,
		LeftHip:       LeftHip,
		LeftKnee:      LeftKnee,
		LeftAnkle:     LeftAnkle,
		LeftFootIndex: LeftFootIndex,
		LeftHeel:      LeftHeel,
		RightAnkle:    RightAnkle,
		StepLeft:      LeftAnkle,
		StepRight:     RightAnkle,
	}
}

// LayoutByName returns the layout registered under name. An empty name
// selects the contract layout.
func LayoutByName(name string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", LayoutContract:
		return ContractLayout(), nil
	case LayoutBlazePose:
		return BlazePoseLayout(), nil
	default:
		return Layout{}, fmt.Errorf("unknown keypoint layout %q", name)
	}
}

// Width returns the number of keypoints a frame needs to carry every index
// of the layout.
func (l Layout) Width() int {
	max := 0
	for _, idx := range []int{l.LeftHip, l.LeftKnee, l.LeftAnkle, l.LeftFootIndex, l.LeftHeel, l.RightAnkle, l.StepLeft, l.StepRight} {
		if idx > max {
			max = idx
		}
	}
	return max + 1
}

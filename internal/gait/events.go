package gait

import "fmt"

// DetectHeelStrikes returns the frames at which the heel keypoint heel
// makes ground contact.
//
// For each interior frame i the vertical heel velocity is estimated as
// (y[i+1] - y[i-1]) * fps. A strike is flagged where that velocity is
// positive (moving down the image) while the previous step y[i] - y[i-1]
// was negative. This sign-flip test approximates the local minimum of the
// heel height; it is not a true minimum finder and makes no attempt to
// merge detections that land close together on a noisy trajectory.
//
// The result is strictly ascending and lies within [1, Len()-2].
func DetectHeelStrikes(lm *Landmarks, heel int) ([]int, error) {
	track, ok := lm.tracks[heel]
	if !ok {
		return nil, fmt.Errorf("%w: heel keypoint %d was not reconstructed", ErrNoEventsDetected, heel)
	}

	fps := lm.fps
	var strikes []int
	for i := 1; i < len(track)-1; i++ {
		velocity := (track[i+1].Y - track[i-1].Y) * fps
		if velocity > 0 && track[i].Y-track[i-1].Y < 0 {
			strikes = append(strikes, i)
		}
	}

	if len(strikes) == 0 {
		return nil, fmt.Errorf("%w: heel keypoint %d over %d frames", ErrNoEventsDetected, heel, len(track))
	}
	return strikes, nil
}

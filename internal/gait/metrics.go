package gait

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Shashikr2605/StrideSense/internal/pose"
)

// Metrics holds the per-cycle measurements and the aggregate scalars of one
// analysis. Per-cycle slices are index-aligned.
type Metrics struct {
	StepLengthLeft  []float64 `json:"step_length_left"`
	StepLengthRight []float64 `json:"step_length_right"`
	Cadence         float64   `json:"cadence"`
	HipAngle        []float64 `json:"hip_angle"`
	KneeAngle       []float64 `json:"knee_angle"`
	AnkleAngle      []float64 `json:"ankle_angle"`
	StepAsymmetry   float64   `json:"step_asymmetry"`
}

// Cadence returns steps per minute for strikes heel strikes over frames
// frames, or 0 if fps or frames is not positive.
func Cadence(strikes, frames int, fps float64) float64 {
	if fps <= 0 || frames <= 0 {
		return 0
	}
	return float64(strikes) / (float64(frames) / fps / 60)
}

// StepAsymmetry returns the percentage difference between the left and right
// mean step lengths. A zero total returns 0.
func StepAsymmetry(meanLeft, meanRight float64) float64 {
	total := meanLeft + meanRight
	if total == 0 {
		return 0
	}
	return (meanLeft - meanRight) / total * 100
}

// ExtractMetrics measures every cycle and aggregates the results.
//
// Step lengths are planar distances between the step contact points of the
// cycle's first and last frame; joint angles are taken from the first frame.
// A keypoint missing from the cleaned sequence is replaced by the zero
// vector and logged, which biases that cycle's values toward zero rather
// than discarding it.
func ExtractMetrics(cycles []Cycle, strikes, frames int, fps float64, layout pose.Layout, log Logger) (Metrics, error) {
	log = orNop(log)

	m := Metrics{
		Cadence:         Cadence(strikes, frames, fps),
		StepLengthLeft:  []float64{},
		StepLengthRight: []float64{},
		HipAngle:        []float64{},
		KneeAngle:       []float64{},
		AnkleAngle:      []float64{},
	}

	for _, c := range cycles {
		if c.Frames == nil || c.Frames.Len() == 0 {
			log.Warn("cycle [%d,%d): no frames, skipped", c.Start, c.End)
			continue
		}

		first, last := 0, c.Frames.Len()-1
		point := func(frame, idx int) pose.Keypoint {
			kp, ok := c.Frames.At(frame, idx)
			if !ok {
				log.Warn("cycle [%d,%d): keypoint %d missing at frame %d, using zero vector",
					c.Start, c.End, idx, c.Start+frame)
			}
			return kp
		}

		m.StepLengthLeft = append(m.StepLengthLeft,
			planarDistance(point(first, layout.StepLeft), point(last, layout.StepRight)))
		m.StepLengthRight = append(m.StepLengthRight,
			planarDistance(point(first, layout.StepRight), point(last, layout.StepLeft)))

		hip := point(first, layout.LeftHip)
		knee := point(first, layout.LeftKnee)
		ankle := point(first, layout.LeftAnkle)
		foot := point(first, layout.LeftFootIndex)
		heel := point(first, layout.LeftHeel)

		m.HipAngle = append(m.HipAngle, Angle(hip, knee, ankle, log))
		m.KneeAngle = append(m.KneeAngle, Angle(knee, ankle, foot, log))
		m.AnkleAngle = append(m.AnkleAngle, Angle(ankle, foot, heel, log))
	}

	if len(m.StepLengthLeft) == 0 || len(m.StepLengthRight) == 0 {
		return Metrics{}, fmt.Errorf("%w: %d cycles", ErrEmptyMetrics, len(cycles))
	}

	meanLeft := stat.Mean(m.StepLengthLeft, nil)
	meanRight := stat.Mean(m.StepLengthRight, nil)
	if meanLeft+meanRight == 0 {
		log.Warn("step lengths are all zero, step asymmetry reported as 0")
	}
	m.StepAsymmetry = StepAsymmetry(meanLeft, meanRight)

	return m, nil
}

// Angle returns the angle in degrees at vertex p2 between p1 and p3, using
// x and y only. Degenerate input (a zero-length arm or a non-finite
// coordinate) is logged and yields 0.
func Angle(p1, p2, p3 pose.Keypoint, log Logger) float64 {
	v1 := []float64{p1.X - p2.X, p1.Y - p2.Y}
	v2 := []float64{p3.X - p2.X, p3.Y - p2.Y}

	denom := floats.Norm(v1, 2) * floats.Norm(v2, 2)
	if denom == 0 || math.IsNaN(denom) || math.IsInf(denom, 0) {
		orNop(log).Error("angle at (%.4f, %.4f): degenerate vectors %v and %v, using 0", p2.X, p2.Y, v1, v2)
		return 0
	}

	cos := floats.Dot(v1, v2) / denom
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi
}

func planarDistance(a, b pose.Keypoint) float64 {
	return floats.Distance([]float64{a.X, a.Y}, []float64{b.X, b.Y}, 2)
}

// mean returns the arithmetic mean of xs, or NaN if xs is empty.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

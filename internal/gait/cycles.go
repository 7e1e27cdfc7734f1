package gait

import "fmt"

// Cycle is one gait cycle: frames [Start, End) of the cleaned sequence,
// from one heel strike up to the next.
type Cycle struct {
	Start  int
	End    int
	Frames *Landmarks
}

// Len returns the number of frames in the cycle.
func (c Cycle) Len() int {
	return c.End - c.Start
}

// SegmentCycles splits lm at consecutive heel strikes. Cycle k covers
// frames [strikes[k], strikes[k+1]). Empty or out-of-range pairs are
// skipped.
func SegmentCycles(lm *Landmarks, strikes []int) ([]Cycle, error) {
	var cycles []Cycle
	for k := 0; k+1 < len(strikes); k++ {
		start, end := strikes[k], strikes[k+1]
		if end <= start || start < 0 || end > lm.Len() {
			continue
		}
		cycles = append(cycles, Cycle{Start: start, End: end, Frames: lm.Slice(start, end)})
	}

	if len(cycles) == 0 {
		return nil, fmt.Errorf("%w: %d heel strikes", ErrNoCycles, len(strikes))
	}
	return cycles, nil
}

// Package gait turns a per-frame landmark sequence into gait metrics,
// abnormality findings and exercise recommendations.
//
// The pipeline runs in five steps: reconstruction (gap filling and
// smoothing), heel-strike detection, cycle segmentation, metric extraction
// and classification, followed by a lookup in an exercise catalog. Failures
// that make the whole sequence unusable are returned as *StageError; local
// problems such as a degenerate angle are logged and degrade to a default.
package gait

import (
	"github.com/Shashikr2605/StrideSense/internal/pose"
)

// Config holds the collaborators of an Analyzer.
type Config struct {
	// Layout selects the keypoint indices to read. The zero value means
	// pose.ContractLayout.
	Layout pose.Layout

	// Catalog supplies recommendations. Nil yields none.
	Catalog Catalog

	// Logger receives diagnostics. Nil discards them.
	Logger Logger
}

// Span is the frame range of one gait cycle.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Report is the result of one analysis.
type Report struct {
	Metrics         Metrics    `json:"metrics"`
	Abnormalities   []Finding  `json:"abnormalities"`
	Recommendations []Exercise `json:"recommendations"`
	HeelStrikes     []int      `json:"heel_strikes"`
	Cycles          []Span     `json:"cycles"`
	Frames          int        `json:"frames"`
	FPS             float64    `json:"fps"`
}

// Analyzer runs the gait pipeline. It holds no per-analysis state and is
// safe for concurrent use when its Catalog and Logger are.
type Analyzer struct {
	layout  pose.Layout
	catalog Catalog
	log     Logger
}

// NewAnalyzer creates an Analyzer from config.
func NewAnalyzer(config Config) *Analyzer {
	layout := config.Layout
	if layout == (pose.Layout{}) {
		layout = pose.ContractLayout()
	}
	return &Analyzer{
		layout:  layout,
		catalog: config.Catalog,
		log:     orNop(config.Logger),
	}
}

// Layout returns the keypoint layout in use.
func (a *Analyzer) Layout() pose.Layout {
	return a.layout
}

// Analyze runs the full pipeline over seq recorded at fps.
func (a *Analyzer) Analyze(seq pose.Sequence, fps float64) (*Report, error) {
	lm, err := Reconstruct(seq, fps, a.log)
	if err != nil {
		return nil, &StageError{Stage: StageReconstruction, Err: err}
	}
	a.log.Debug("reconstructed %d keypoints over %d frames", len(lm.tracks), lm.Len())

	strikes, err := DetectHeelStrikes(lm, a.layout.LeftHeel)
	if err != nil {
		return nil, &StageError{Stage: StageEvents, Err: err}
	}

	cycles, err := SegmentCycles(lm, strikes)
	if err != nil {
		return nil, &StageError{Stage: StageCycles, Err: err}
	}

	metrics, err := ExtractMetrics(cycles, len(strikes), lm.Len(), fps, a.layout, a.log)
	if err != nil {
		return nil, &StageError{Stage: StageMetrics, Err: err}
	}

	findings := Classify(metrics)
	report := &Report{
		Metrics:         metrics,
		Abnormalities:   findings,
		Recommendations: Recommend(findings, a.catalog),
		HeelStrikes:     strikes,
		Cycles:          make([]Span, 0, len(cycles)),
		Frames:          lm.Len(),
		FPS:             fps,
	}
	for _, c := range cycles {
		report.Cycles = append(report.Cycles, Span{Start: c.Start, End: c.End})
	}

	a.log.Info("analyzed %d frames: %d heel strikes, %d cycles, %d findings",
		lm.Len(), len(strikes), len(cycles), len(findings))
	return report, nil
}

// AnalyzeRecording is Analyze for a pose.Recording.
func (a *Analyzer) AnalyzeRecording(rec pose.Recording) (*Report, error) {
	return a.Analyze(rec.Frames, rec.FPS)
}

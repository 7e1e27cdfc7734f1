package gait

import (
	"errors"
	"testing"

	"github.com/Shashikr2605/StrideSense/internal/pose"
	"github.com/Shashikr2605/StrideSense/internal/walksim"
)

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAnalyzer_SlowWalk(t *testing.T) {
	opts := walksim.SlowWalk()
	rec := walksim.Walk(pose.ContractLayout(), opts)

	catalog := StaticCatalog{
		AbnormalCadence: {GaitTraining: []Exercise{{Name: "Metronome Walking", Duration: "10 minutes"}}},
	}
	a := NewAnalyzer(Config{Catalog: catalog})

	report, err := a.AnalyzeRecording(rec)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}

	if want := opts.ExpectedStrikes(); !equalInts(report.HeelStrikes, want) {
		t.Errorf("HeelStrikes = %v, want %v", report.HeelStrikes, want)
	}
	if !approxEqual(report.Metrics.Cadence, 60, 1e-9) {
		t.Errorf("Cadence = %v, want 60", report.Metrics.Cadence)
	}
	if len(report.Cycles) != len(report.HeelStrikes)-1 {
		t.Errorf("len(Cycles) = %d, want %d", len(report.Cycles), len(report.HeelStrikes)-1)
	}
	if len(report.Metrics.StepLengthLeft) != len(report.Cycles) {
		t.Errorf("step lengths not aligned with cycles")
	}

	if len(report.Abnormalities) != 1 {
		t.Fatalf("Abnormalities = %v, want only abnormal_cadence", findingTypes(report.Abnormalities))
	}
	f := report.Abnormalities[0]
	if f.Type != AbnormalCadence || f.Value == nil || *f.Value != 60 {
		t.Errorf("finding = %+v", f)
	}

	if len(report.Recommendations) != 1 || report.Recommendations[0].Name != "Metronome Walking" {
		t.Errorf("Recommendations = %+v", report.Recommendations)
	}
	if report.Frames != opts.Frames || report.FPS != opts.FPS {
		t.Errorf("Frames/FPS = %d/%v", report.Frames, report.FPS)
	}
}

func TestAnalyzer_NormalWalk(t *testing.T) {
	layouts := []pose.Layout{pose.ContractLayout(), pose.BlazePoseLayout()}

	for _, layout := range layouts {
		t.Run(layout.Name, func(t *testing.T) {
			opts := walksim.NormalWalk()
			a := NewAnalyzer(Config{Layout: layout})

			report, err := a.AnalyzeRecording(walksim.Walk(layout, opts))
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}

			if want := opts.ExpectedStrikes(); !equalInts(report.HeelStrikes, want) {
				t.Errorf("HeelStrikes = %v, want %v", report.HeelStrikes, want)
			}
			if !approxEqual(report.Metrics.Cadence, 112.5, 1e-9) {
				t.Errorf("Cadence = %v, want 112.5", report.Metrics.Cadence)
			}
			if len(report.Abnormalities) != 0 {
				t.Errorf("Abnormalities = %v, want none", findingTypes(report.Abnormalities))
			}
			if report.Recommendations == nil || len(report.Recommendations) != 0 {
				t.Errorf("Recommendations = %v, want empty", report.Recommendations)
			}
		})
	}
}

func TestAnalyzer_ToleratesGaps(t *testing.T) {
	opts := walksim.SlowWalk()
	opts.Missing = []int{29, 30, 31, 359, 360}

	report, err := NewAnalyzer(Config{}).AnalyzeRecording(walksim.Walk(pose.ContractLayout(), opts))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if want := opts.ExpectedStrikes(); !equalInts(report.HeelStrikes, want) {
		t.Errorf("HeelStrikes = %v, want %v", report.HeelStrikes, want)
	}
}

func TestAnalyzer_FatalErrors(t *testing.T) {
	short := walksim.SlowWalk()
	short.Frames = 40

	tests := []struct {
		name   string
		layout pose.Layout
		rec    pose.Recording
		stage  Stage
		want   error
	}{
		{
			name:  "empty sequence",
			rec:   pose.Recording{FPS: 30},
			stage: StageReconstruction,
			want:  ErrInsufficientData,
		},
		{
			name:  "nothing detected",
			rec:   pose.Recording{FPS: 30, Frames: pose.Sequence{pose.NotDetected(), pose.NotDetected()}},
			stage: StageReconstruction,
			want:  ErrInsufficientData,
		},
		{
			name:  "heel index absent from 33-point data",
			rec:   walksim.Walk(pose.BlazePoseLayout(), walksim.NormalWalk()),
			stage: StageEvents,
			want:  ErrNoEventsDetected,
		},
		{
			name:  "single heel strike",
			rec:   walksim.Walk(pose.ContractLayout(), short),
			stage: StageCycles,
			want:  ErrNoCycles,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := NewAnalyzer(Config{Layout: tt.layout}).AnalyzeRecording(tt.rec)
			if report != nil {
				t.Error("no report expected on a fatal error")
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
			var se *StageError
			if !errors.As(err, &se) {
				t.Fatalf("error %T is not a *StageError", err)
			}
			if se.Stage != tt.stage {
				t.Errorf("Stage = %q, want %q", se.Stage, tt.stage)
			}
			if !IsAnalysisError(err) {
				t.Error("IsAnalysisError() = false")
			}
		})
	}
}

func TestNewAnalyzer_DefaultLayout(t *testing.T) {
	if got := NewAnalyzer(Config{}).Layout(); got != pose.ContractLayout() {
		t.Errorf("Layout() = %+v, want contract layout", got)
	}
}

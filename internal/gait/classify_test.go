package gait

import "testing"

// normal returns metrics that trigger no finding.
func normal() Metrics {
	return Metrics{
		StepLengthLeft:  []float64{1.0},
		StepLengthRight: []float64{1.0},
		Cadence:         110,
		HipAngle:        []float64{170},
		KneeAngle:       []float64{150},
		AnkleAngle:      []float64{40},
		StepAsymmetry:   0,
	}
}

func findingTypes(fs []Finding) []AbnormalityType {
	out := make([]AbnormalityType, len(fs))
	for i, f := range fs {
		out[i] = f.Type
	}
	return out
}

func TestClassify_Normal(t *testing.T) {
	if got := Classify(normal()); len(got) != 0 {
		t.Errorf("Classify() = %v, want none", got)
	}
}

func TestClassify_CadenceBoundaries(t *testing.T) {
	tests := []struct {
		cadence float64
		want    bool
	}{
		{100, false},
		{120, false},
		{99.9, true},
		{120.1, true},
		{0, true},
	}

	for _, tt := range tests {
		m := normal()
		m.Cadence = tt.cadence
		got := Classify(m)
		if (len(got) == 1) != tt.want {
			t.Errorf("cadence %v: findings = %v, want triggered=%v", tt.cadence, findingTypes(got), tt.want)
			continue
		}
		if !tt.want {
			continue
		}
		f := got[0]
		if f.Type != AbnormalCadence || f.NormalRange != "100-120 steps/min" || f.Value == nil || *f.Value != tt.cadence {
			t.Errorf("cadence %v: finding = %+v", tt.cadence, f)
		}
	}
}

func TestClassify_StepAsymmetry(t *testing.T) {
	tests := []struct {
		name      string
		asymmetry float64
		triggered bool
		severity  Severity
		side      Side
	}{
		{"within range", StepAsymmetry(1.2, 1.0), false, "", ""},
		{"exactly ten", 10, false, "", ""},
		{"moderate left", 10.5, true, Moderate, Left},
		{"moderate right", StepAsymmetry(1.0, 1.3), true, Moderate, Right},
		{"severe at twenty", StepAsymmetry(1.5, 1.0), true, Severe, Left},
		{"severe right", -25, true, Severe, Right},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := normal()
			m.StepAsymmetry = tt.asymmetry

			got := Classify(m)
			if (len(got) == 1) != tt.triggered {
				t.Fatalf("findings = %v, want triggered=%v", findingTypes(got), tt.triggered)
			}
			if !tt.triggered {
				return
			}
			f := got[0]
			if f.Type != StepAsymmetryType || f.Severity != tt.severity || f.AffectedSide != tt.side {
				t.Errorf("finding = %+v, want %s on %s", f, tt.severity, tt.side)
			}
			if f.Value != nil || f.NormalRange != "" {
				t.Errorf("step asymmetry finding carries value fields: %+v", f)
			}
		})
	}
}

func TestClassify_Angles(t *testing.T) {
	m := normal()
	m.HipAngle = []float64{29.9, 30.02}
	m.KneeAngle = []float64{59.0}
	m.AnkleAngle = []float64{19.99}

	got := Classify(m)
	want := []AbnormalityType{ReducedHipFlexion, ReducedKneeFlexion, ReducedAnkleFlexion}
	if len(got) != len(want) {
		t.Fatalf("Classify() = %v, want %v", findingTypes(got), want)
	}
	for i := range want {
		if got[i].Type != want[i] {
			t.Errorf("finding %d = %s, want %s", i, got[i].Type, want[i])
		}
	}

	values := []float64{30.0, 59.0, 20.0}
	for i, v := range values {
		if got[i].Value == nil || *got[i].Value != v {
			t.Errorf("%s value = %v, want %v", got[i].Type, got[i].Value, v)
		}
	}
}

func TestClassify_EmptyAnglesNeverTrigger(t *testing.T) {
	m := normal()
	m.HipAngle, m.KneeAngle, m.AnkleAngle = nil, []float64{}, nil

	if got := Classify(m); len(got) != 0 {
		t.Errorf("Classify() = %v, want none", findingTypes(got))
	}
}

func TestClassify_Order(t *testing.T) {
	m := Metrics{
		Cadence:       50,
		StepAsymmetry: -30,
		HipAngle:      []float64{10},
		KneeAngle:     []float64{10},
		AnkleAngle:    []float64{10},
	}

	got := findingTypes(Classify(m))
	for i, want := range AbnormalityTypes {
		if got[i] != want {
			t.Fatalf("order = %v, want %v", got, AbnormalityTypes)
		}
	}
}

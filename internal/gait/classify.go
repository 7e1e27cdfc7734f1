package gait

import "math"

// AbnormalityType labels a finding of the classifier.
type AbnormalityType string

const (
	StepAsymmetryType   AbnormalityType = "step_asymmetry"
	AbnormalCadence     AbnormalityType = "abnormal_cadence"
	ReducedHipFlexion   AbnormalityType = "reduced_hip_flexion"
	ReducedKneeFlexion  AbnormalityType = "reduced_knee_flexion"
	ReducedAnkleFlexion AbnormalityType = "reduced_ankle_flexion"
)

// AbnormalityTypes lists every type in classification order.
var AbnormalityTypes = []AbnormalityType{
	StepAsymmetryType,
	AbnormalCadence,
	ReducedHipFlexion,
	ReducedKneeFlexion,
	ReducedAnkleFlexion,
}

// Valid reports whether t is a known abnormality type.
func (t AbnormalityType) Valid() bool {
	for _, known := range AbnormalityTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Severity grades a step asymmetry finding.
type Severity string

const (
	Moderate Severity = "moderate"
	Severe   Severity = "severe"
)

// Side is the side of the body a finding affects.
type Side string

const (
	Left  Side = "left"
	Right Side = "right"
)

// Classification thresholds. Comparisons are strict.
const (
	AsymmetryThreshold = 10.0 // |asymmetry| above this is abnormal
	SevereAsymmetry    = 20.0 // |asymmetry| at or above this is severe
	CadenceMin         = 100.0
	CadenceMax         = 120.0
	HipFlexionMin      = 30.0
	KneeFlexionMin     = 60.0
	AnkleFlexionMin    = 20.0

	CadenceNormalRange = "100-120 steps/min"
)

// Finding is one abnormality reported by Classify. Which optional fields
// are set depends on Type.
type Finding struct {
	Type         AbnormalityType `json:"type"`
	Severity     Severity        `json:"severity,omitempty"`
	AffectedSide Side            `json:"affected_side,omitempty"`
	Value        *float64        `json:"value,omitempty"`
	NormalRange  string          `json:"normal_range,omitempty"`
}

// Classify applies the fixed thresholds to m. Rules are independent and
// findings come back in a fixed order: step asymmetry, cadence, hip, knee,
// ankle. Angle rules never fire on an empty angle list.
func Classify(m Metrics) []Finding {
	findings := []Finding{}

	if a := m.StepAsymmetry; math.Abs(a) > AsymmetryThreshold {
		f := Finding{Type: StepAsymmetryType, Severity: Moderate, AffectedSide: Right}
		if math.Abs(a) >= SevereAsymmetry {
			f.Severity = Severe
		}
		if a > 0 {
			f.AffectedSide = Left
		}
		findings = append(findings, f)
	}

	if m.Cadence < CadenceMin || m.Cadence > CadenceMax {
		findings = append(findings, Finding{
			Type:        AbnormalCadence,
			Value:       rounded(m.Cadence),
			NormalRange: CadenceNormalRange,
		})
	}

	angleRules := []struct {
		t     AbnormalityType
		xs    []float64
		limit float64
	}{
		{ReducedHipFlexion, m.HipAngle, HipFlexionMin},
		{ReducedKneeFlexion, m.KneeAngle, KneeFlexionMin},
		{ReducedAnkleFlexion, m.AnkleAngle, AnkleFlexionMin},
	}
	for _, r := range angleRules {
		if avg := mean(r.xs); avg < r.limit {
			findings = append(findings, Finding{Type: r.t, Value: rounded(avg)})
		}
	}

	return findings
}

// rounded returns v rounded to one decimal place.
func rounded(v float64) *float64 {
	r := math.Round(v*10) / 10
	return &r
}

package gait

// Exercise is one recommended exercise.
type Exercise struct {
	Name         string `json:"name" yaml:"name"`
	Duration     string `json:"duration" yaml:"duration"`
	Instructions string `json:"instructions" yaml:"instructions"`
	Progression  string `json:"progression,omitempty" yaml:"progression,omitempty"`
}

// Program is the exercise set for one abnormality type.
type Program struct {
	Strengthening []Exercise `json:"strengthening,omitempty" yaml:"strengthening,omitempty"`
	Mobility      []Exercise `json:"mobility,omitempty" yaml:"mobility,omitempty"`
	GaitTraining  []Exercise `json:"gait_training,omitempty" yaml:"gait_training,omitempty"`
}

// Exercises returns strengthening, mobility and gait training exercises
// concatenated in that order.
func (p Program) Exercises() []Exercise {
	out := make([]Exercise, 0, len(p.Strengthening)+len(p.Mobility)+len(p.GaitTraining))
	out = append(out, p.Strengthening...)
	out = append(out, p.Mobility...)
	out = append(out, p.GaitTraining...)
	return out
}

// Catalog is a read-only exercise database keyed by abnormality type.
type Catalog interface {
	Lookup(t AbnormalityType) (Program, bool)
}

// StaticCatalog is a Catalog backed by a fixed map.
type StaticCatalog map[AbnormalityType]Program

// Lookup implements Catalog.
func (c StaticCatalog) Lookup(t AbnormalityType) (Program, bool) {
	p, ok := c[t]
	return p, ok
}

// Recommend looks up each finding's type in catalog and concatenates the
// exercises in finding order. Types missing from the catalog contribute
// nothing; repeated exercises are kept.
func Recommend(findings []Finding, catalog Catalog) []Exercise {
	recs := []Exercise{}
	if catalog == nil {
		return recs
	}
	for _, f := range findings {
		p, ok := catalog.Lookup(f.Type)
		if !ok {
			continue
		}
		recs = append(recs, p.Exercises()...)
	}
	return recs
}

// Package exercises loads the exercise recommendation database and keeps a
// live, read-only snapshot of it for the analysis pipeline.
package exercises

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/Shashikr2605/StrideSense/internal/gait"
	"github.com/Shashikr2605/StrideSense/internal/store"
)

// Exercise categories, in recommendation order.
const (
	CategoryStrengthening = "strengthening"
	CategoryMobility      = "mobility"
	CategoryGaitTraining  = "gait_training"
)

var categories = []string{CategoryStrengthening, CategoryMobility, CategoryGaitTraining}

// Database maps abnormality types to their exercise programs.
type Database map[gait.AbnormalityType]gait.Program

// Lookup implements gait.Catalog.
func (d Database) Lookup(t gait.AbnormalityType) (gait.Program, bool) {
	p, ok := d[t]
	return p, ok
}

// Default returns the built-in exercise database.
func Default() Database {
	return Database{
		gait.StepAsymmetryType: {
			Strengthening: []gait.Exercise{{
				Name:         "Single Leg Stance",
				Duration:     "30 seconds x 3 sets",
				Instructions: "Stand on affected leg, maintain balance",
				Progression:  "Close eyes for increased difficulty",
			}},
			Mobility: []gait.Exercise{{
				Name:         "Hip Flexor Stretch",
				Duration:     "30 seconds hold x 3 reps",
				Instructions: "Lunge position, push hips forward",
			}},
		},
		gait.AbnormalCadence: {
			GaitTraining: []gait.Exercise{{
				Name:         "Metronome Walking",
				Duration:     "10 minutes",
				Instructions: "Walk to a metronome set at 100-120 steps/min",
			}},
		},
	}
}

// Parse decodes a YAML exercise database.
func Parse(data []byte) (Database, error) {
	var db Database
	if err := yaml.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("parse exercises: %w", err)
	}
	if db == nil {
		db = Database{}
	}
	if err := db.Validate(); err != nil {
		return nil, err
	}
	return db, nil
}

// Load reads a YAML exercise database from path.
func Load(path string) (Database, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read exercises %s: %w", path, err)
	}
	return Parse(data)
}

// Validate checks that every key is a known abnormality type and every
// exercise has a name.
func (d Database) Validate() error {
	for t, p := range d {
		if !t.Valid() {
			return fmt.Errorf("exercises: unknown abnormality type %q", t)
		}
		for _, e := range p.Exercises() {
			if e.Name == "" {
				return fmt.Errorf("exercises: %s has an exercise without a name", t)
			}
		}
	}
	return nil
}

// Types returns the abnormality types present, sorted.
func (d Database) Types() []gait.AbnormalityType {
	types := make([]gait.AbnormalityType, 0, len(d))
	for t := range d {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Entries flattens the database into store rows.
func (d Database) Entries() []store.ExerciseEntry {
	var entries []store.ExerciseEntry
	for _, t := range d.Types() {
		p := d[t]
		for _, cat := range categories {
			for i, e := range category(p, cat) {
				entries = append(entries, store.ExerciseEntry{
					Abnormality:  string(t),
					Category:     cat,
					Position:     i,
					Name:         e.Name,
					Duration:     e.Duration,
					Instructions: e.Instructions,
					Progression:  e.Progression,
				})
			}
		}
	}
	return entries
}

// FromEntries rebuilds a database from store rows. Rows must be ordered by
// position within each category.
func FromEntries(entries []store.ExerciseEntry) Database {
	db := Database{}
	for _, row := range entries {
		t := gait.AbnormalityType(row.Abnormality)
		p := db[t]
		e := gait.Exercise{
			Name:         row.Name,
			Duration:     row.Duration,
			Instructions: row.Instructions,
			Progression:  row.Progression,
		}
		switch row.Category {
		case CategoryStrengthening:
			p.Strengthening = append(p.Strengthening, e)
		case CategoryMobility:
			p.Mobility = append(p.Mobility, e)
		case CategoryGaitTraining:
			p.GaitTraining = append(p.GaitTraining, e)
		}
		db[t] = p
	}
	return db
}

func category(p gait.Program, name string) []gait.Exercise {
	switch name {
	case CategoryStrengthening:
		return p.Strengthening
	case CategoryMobility:
		return p.Mobility
	case CategoryGaitTraining:
		return p.GaitTraining
	}
	return nil
}

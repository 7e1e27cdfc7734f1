// Package report renders an analysis report as an xlsx workbook.
package report

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"
	"gonum.org/v1/gonum/stat"

	"github.com/Shashikr2605/StrideSense/internal/gait"
)

// Sheet names.
const (
	SheetSummary   = "Summary"
	SheetCycles    = "Cycles"
	SheetFindings  = "Findings"
	SheetExercises = "Exercises"
)

type column struct {
	title string
	width float64
}

// Workbook builds the workbook for r. The caller closes the returned file.
func Workbook(r *gait.Report) (*excelize.File, error) {
	if r == nil {
		return nil, fmt.Errorf("report: nil report")
	}

	f := excelize.NewFile()
	f.SetSheetName("Sheet1", SheetSummary)
	for _, name := range []string{SheetCycles, SheetFindings, SheetExercises} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#2E75B6"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}
	numberStyle, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create number style: %w", err)
	}

	w := &writer{f: f, header: headerStyle, number: numberStyle}
	w.summary(r)
	w.cycles(r)
	w.findings(r)
	w.exercises(r)
	if w.err != nil {
		f.Close()
		return nil, w.err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// WriteWorkbook writes the workbook for r to out.
func WriteWorkbook(out io.Writer, r *gait.Report) error {
	f, err := Workbook(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveWorkbook writes the workbook for r to the file at path.
func SaveWorkbook(path string, r *gait.Report) error {
	f, err := Workbook(r)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

// writer keeps the first error so the sheet builders stay linear.
type writer struct {
	f      *excelize.File
	header int
	number int
	err    error
}

func (w *writer) set(sheet string, col, row int, v any) {
	if w.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = err
		return
	}
	if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
		v = ""
	}
	if err := w.f.SetCellValue(sheet, cell, v); err != nil {
		w.err = fmt.Errorf("%s!%s: %w", sheet, cell, err)
	}
}

func (w *writer) headers(sheet string, cols []column) {
	for i, c := range cols {
		w.set(sheet, i+1, 1, c.title)
		name, _ := excelize.ColumnNumberToName(i + 1)
		w.f.SetColWidth(sheet, name, name, c.width)
	}
	last, _ := excelize.CoordinatesToCellName(len(cols), 1)
	w.f.SetCellStyle(sheet, "A1", last, w.header)
	w.f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func (w *writer) numbers(sheet, from, to string) {
	if w.err != nil {
		return
	}
	if err := w.f.SetCellStyle(sheet, from, to, w.number); err != nil {
		w.err = err
	}
}

func (w *writer) summary(r *gait.Report) {
	w.headers(SheetSummary, []column{{"Metric", 28}, {"Value", 16}})

	m := r.Metrics
	duration := 0.0
	if r.FPS > 0 {
		duration = float64(r.Frames) / r.FPS
	}
	rows := []struct {
		name    string
		value   any
		decimal bool
	}{
		{"Frames", r.Frames, false},
		{"FPS", r.FPS, true},
		{"Duration (s)", duration, true},
		{"Heel strikes", len(r.HeelStrikes), false},
		{"Gait cycles", len(r.Cycles), false},
		{"Cadence (steps/min)", m.Cadence, true},
		{"Step asymmetry (%)", m.StepAsymmetry, true},
		{"Mean step length left", mean(m.StepLengthLeft), true},
		{"Mean step length right", mean(m.StepLengthRight), true},
		{"Mean hip angle (deg)", mean(m.HipAngle), true},
		{"Mean knee angle (deg)", mean(m.KneeAngle), true},
		{"Mean ankle angle (deg)", mean(m.AnkleAngle), true},
		{"Abnormalities", len(r.Abnormalities), false},
	}
	for i, row := range rows {
		w.set(SheetSummary, 1, i+2, row.name)
		w.set(SheetSummary, 2, i+2, row.value)
		if row.decimal {
			cell := fmt.Sprintf("B%d", i+2)
			w.numbers(SheetSummary, cell, cell)
		}
	}
}

func (w *writer) cycles(r *gait.Report) {
	w.headers(SheetCycles, []column{
		{"Cycle", 8}, {"Start frame", 12}, {"End frame", 12}, {"Frames", 10},
		{"Step length left", 18}, {"Step length right", 18},
		{"Hip angle", 12}, {"Knee angle", 12}, {"Ankle angle", 12},
	})

	m := r.Metrics
	for i, c := range r.Cycles {
		row := i + 2
		w.set(SheetCycles, 1, row, i+1)
		w.set(SheetCycles, 2, row, c.Start)
		w.set(SheetCycles, 3, row, c.End)
		w.set(SheetCycles, 4, row, c.End-c.Start)
		// Metric lists skip cycles that produced no measurement.
		if i < len(m.StepLengthLeft) {
			w.set(SheetCycles, 5, row, m.StepLengthLeft[i])
			w.set(SheetCycles, 6, row, m.StepLengthRight[i])
			w.set(SheetCycles, 7, row, m.HipAngle[i])
			w.set(SheetCycles, 8, row, m.KneeAngle[i])
			w.set(SheetCycles, 9, row, m.AnkleAngle[i])
		}
	}
	if len(r.Cycles) > 0 {
		w.numbers(SheetCycles, "E2", fmt.Sprintf("I%d", len(r.Cycles)+1))
	}
}

func (w *writer) findings(r *gait.Report) {
	w.headers(SheetFindings, []column{
		{"Type", 24}, {"Severity", 12}, {"Affected side", 14}, {"Value", 10}, {"Normal range", 20},
	})

	for i, fd := range r.Abnormalities {
		row := i + 2
		w.set(SheetFindings, 1, row, string(fd.Type))
		w.set(SheetFindings, 2, row, string(fd.Severity))
		w.set(SheetFindings, 3, row, string(fd.AffectedSide))
		if fd.Value != nil {
			w.set(SheetFindings, 4, row, *fd.Value)
		}
		w.set(SheetFindings, 5, row, fd.NormalRange)
	}
}

func (w *writer) exercises(r *gait.Report) {
	w.headers(SheetExercises, []column{
		{"Exercise", 26}, {"Duration", 24}, {"Instructions", 48}, {"Progression", 36},
	})

	for i, e := range r.Recommendations {
		row := i + 2
		w.set(SheetExercises, 1, row, e.Name)
		w.set(SheetExercises, 2, row, e.Duration)
		w.set(SheetExercises, 3, row, e.Instructions)
		w.set(SheetExercises, 4, row, e.Progression)
	}
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

// Command gaitreport analyses one recording offline and prints the gait
// report as JSON. Input is either a landmark file written by a previous run
// or a video, which is passed through the MediaPipe pose helper.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/cheggaaa/pb/v3"

	"github.com/Shashikr2605/StrideSense/internal/config"
	"github.com/Shashikr2605/StrideSense/internal/exercises"
	"github.com/Shashikr2605/StrideSense/internal/gait"
	"github.com/Shashikr2605/StrideSense/internal/logging"
	"github.com/Shashikr2605/StrideSense/internal/pose"
	"github.com/Shashikr2605/StrideSense/internal/report"
	"github.com/Shashikr2605/StrideSense/internal/video"
)

const barTemplate = `{{ string . "prefix" }} {{counters . "%s/%s" "%s/?"}} {{bar . }} {{percent . "%.03f%%" "?"}} {{etime . "%s elapsed"}} {{rtime . "%s remain" "%s total" "???"}}`

var (
	configPath    string
	landmarksPath string
	videoPath     string
	outPath       string
	xlsxPath      string
	savePath      string
	layoutName    string
)

func init() {
	flag.StringVar(&configPath, "config", "", "path to stridesense.yaml")
	flag.StringVar(&landmarksPath, "landmarks", "", "landmark recording (JSON) to analyse")
	flag.StringVar(&videoPath, "video", "", "video file to analyse")
	flag.StringVar(&outPath, "out", "", "write the JSON report here instead of stdout")
	flag.StringVar(&xlsxPath, "xlsx", "", "also write the report as an Excel workbook")
	flag.StringVar(&savePath, "save-landmarks", "", "write the extracted landmark recording here")
	flag.StringVar(&layoutName, "layout", "", "keypoint layout, blazepose or contract (overrides the config)")
}

func main() {
	flag.Parse()

	if (landmarksPath == "") == (videoPath == "") {
		fmt.Fprintln(os.Stderr, "gaitreport: exactly one of -landmarks or -video must be provided")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gaitreport: %v\n", err)
		if gait.IsAnalysisError(err) || video.IsValidation(err) {
			os.Exit(3)
		}
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if layoutName != "" {
		if _, err := pose.LayoutByName(layoutName); err != nil {
			return err
		}
		cfg.Analysis.Layout = layoutName
	}

	// Logs go to stderr so stdout carries only the report.
	log := logging.New(cfg.LogLevel(), os.Stderr)

	var rec pose.Recording
	if landmarksPath != "" {
		rec, err = readRecording(landmarksPath)
	} else {
		rec, err = extract(cfg, log)
	}
	if err != nil {
		return err
	}

	if savePath != "" {
		if err := writeJSON(savePath, rec); err != nil {
			return err
		}
	}

	db := exercises.Default()
	if cfg.Exercises.File != "" {
		if db, err = exercises.Load(cfg.Exercises.File); err != nil {
			return err
		}
	}

	analyzer := gait.NewAnalyzer(gait.Config{
		Layout:  cfg.Layout(),
		Catalog: db,
		Logger:  log.With("gait"),
	})
	r, err := analyzer.AnalyzeRecording(rec)
	if err != nil {
		return err
	}

	if xlsxPath != "" {
		if err := report.SaveWorkbook(xlsxPath, r); err != nil {
			return err
		}
		log.Info("workbook written to %s", xlsxPath)
	}

	if outPath != "" {
		return writeJSON(outPath, r)
	}
	return encode(os.Stdout, r)
}

func extract(cfg *config.Config, log *logging.Logger) (pose.Recording, error) {
	det, err := pose.NewMediaPipeDetector(cfg.PoseConfig())
	if err != nil {
		return pose.Recording{}, err
	}
	defer det.Close()

	ex := video.NewExtractor(nil, det, cfg.VideoLimits(), log.With("video"))

	var bar *pb.ProgressBar
	rec, err := ex.Extract(context.Background(), videoPath, func(done, total int) {
		if bar == nil {
			bar = pb.ProgressBarTemplate(barTemplate).Start(total)
			bar.Set("prefix", "Pose")
		}
		bar.SetCurrent(int64(done))
	})
	if bar != nil {
		bar.Finish()
	}
	return rec, err
}

func readRecording(path string) (pose.Recording, error) {
	var rec pose.Recording
	data, err := os.ReadFile(path)
	if err != nil {
		return rec, err
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return rec, fmt.Errorf("parse %s: %w", path, err)
	}
	if rec.FPS <= 0 {
		return rec, errors.New("recording has no frame rate")
	}
	return rec, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package gait

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Shashikr2605/StrideSense/internal/pose"
)

const epsilon = 1e-9

// recordingLogger captures diagnostics by level.
type recordingLogger struct {
	mu    sync.Mutex
	lines map[string][]string
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{lines: make(map[string][]string)}
}

func (l *recordingLogger) add(level, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines[level] = append(l.lines[level], fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Debug(f string, a ...any) { l.add("debug", f, a...) }
func (l *recordingLogger) Info(f string, a ...any)  { l.add("info", f, a...) }
func (l *recordingLogger) Warn(f string, a ...any)  { l.add("warn", f, a...) }
func (l *recordingLogger) Error(f string, a ...any) { l.add("error", f, a...) }

func (l *recordingLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines[level])
}

func (l *recordingLogger) contains(level, substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines[level] {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// landmarksFrom builds cleaned landmarks directly from tracks.
func landmarksFrom(fps float64, tracks map[int][]pose.Keypoint) *Landmarks {
	n := 0
	for _, t := range tracks {
		n = len(t)
		break
	}
	return &Landmarks{fps: fps, frames: n, tracks: tracks}
}

// heelTrack returns a track whose y values are ys.
func heelTrack(ys ...float64) []pose.Keypoint {
	t := make([]pose.Keypoint, len(ys))
	for i, y := range ys {
		t[i] = pose.Keypoint{X: 0.5, Y: y}
	}
	return t
}

// constantTrack returns n copies of kp.
func constantTrack(n int, kp pose.Keypoint) []pose.Keypoint {
	t := make([]pose.Keypoint, n)
	for i := range t {
		t[i] = kp
	}
	return t
}

func approxEqual(a, b, tol float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

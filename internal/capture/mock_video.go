package capture

import (
	"fmt"
	"io"
	"sync"

	"gocv.io/x/gocv"
)

// MockVideo plays back in-memory frames for testing. When total exceeds
// the number of frames, playback cycles through them until total frames
// have been read.
type MockVideo struct {
	frames  []*gocv.Mat
	fps     float64
	total   int
	index   int
	openErr error
	mu      sync.Mutex
	running bool
}

// NewMockVideo creates a MockVideo. A total of 0 or less means len(frames).
func NewMockVideo(frames []*gocv.Mat, fps float64, total int) *MockVideo {
	if total <= 0 {
		total = len(frames)
	}
	return &MockVideo{
		frames: frames,
		fps:    fps,
		total:  total,
	}
}

// SetOpenError makes the next Open calls fail with err.
func (v *MockVideo) SetOpenError(err error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.openErr = err
}

func (v *MockVideo) Open() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.openErr != nil {
		return v.openErr
	}
	v.running = true
	v.index = 0
	return nil
}

func (v *MockVideo) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.running = false
	return nil
}

func (v *MockVideo) ReadFrame() (*gocv.Mat, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.running {
		return nil, ErrVideoNotOpen
	}
	if len(v.frames) == 0 {
		return nil, fmt.Errorf("no frames available")
	}
	if v.index >= v.total {
		return nil, io.EOF
	}

	// Clone the frame so the original isn't modified
	frame := v.frames[v.index%len(v.frames)].Clone()
	v.index++

	return &frame, nil
}

func (v *MockVideo) FPS() float64    { return v.fps }
func (v *MockVideo) FrameCount() int { return v.total }
func (v *MockVideo) IsOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.running
}

// Reads returns how many frames have been read since Open.
func (v *MockVideo) Reads() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.index
}

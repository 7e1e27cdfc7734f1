// Package capture reads frames from recorded video files using GoCV (OpenCV).
package capture

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"gocv.io/x/gocv"
)

// ErrVideoNotOpen is returned when trying to read from a video that is not open.
var ErrVideoNotOpen = errors.New("video is not open")

// VideoSource defines the interface for frame sources.
type VideoSource interface {
	Open() error
	Close() error
	// ReadFrame returns the next frame, or io.EOF once the stream is
	// exhausted. The caller is responsible for closing the returned Mat.
	ReadFrame() (*gocv.Mat, error)
	// FPS is the native frame rate reported by the container.
	FPS() float64
	// FrameCount is the number of frames reported by the container. It may
	// be 0 when the container does not record it.
	FrameCount() int
	IsOpen() bool
}

// Opener creates a VideoSource for a file path.
type Opener func(path string) VideoSource

// videoFile decodes a video file with GoCV.
type videoFile struct {
	path    string
	capture *gocv.VideoCapture
	mu      sync.Mutex
	running bool
	fps     float64
	frames  int
}

// NewVideoFile creates a VideoSource for the file at path. The file is not
// touched until Open.
func NewVideoFile(path string) VideoSource {
	return &videoFile{path: path}
}

// Open opens the file and reads its stream properties.
func (v *videoFile) Open() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.running {
		return nil
	}

	capture, err := gocv.VideoCaptureFile(v.path)
	if err != nil {
		return fmt.Errorf("open video %s: %w", v.path, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return fmt.Errorf("open video %s: unsupported or corrupt file", v.path)
	}

	v.capture = capture
	v.fps = capture.Get(gocv.VideoCaptureFPS)
	v.frames = int(capture.Get(gocv.VideoCaptureFrameCount))
	v.running = true

	return nil
}

// Close closes the file and releases resources.
func (v *videoFile) Close() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.running || v.capture == nil {
		v.running = false
		return nil
	}

	err := v.capture.Close()
	v.capture = nil
	v.running = false

	return err
}

// ReadFrame reads the next frame from the file.
func (v *videoFile) ReadFrame() (*gocv.Mat, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.running || v.capture == nil {
		return nil, ErrVideoNotOpen
	}

	mat := gocv.NewMat()
	if ok := v.capture.Read(&mat); !ok || mat.Empty() {
		mat.Close()
		return nil, io.EOF
	}

	return &mat, nil
}

// FPS returns the container frame rate.
func (v *videoFile) FPS() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.fps
}

// FrameCount returns the container frame count.
func (v *videoFile) FrameCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.frames
}

// IsOpen returns true if the file is currently open.
func (v *videoFile) IsOpen() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.running
}

package capture

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestNewVideoFile(t *testing.T) {
	v := NewVideoFile("walk.mp4")
	if v == nil {
		t.Fatal("NewVideoFile returned nil")
	}
	if v.IsOpen() {
		t.Error("video should not be open initially")
	}
	if _, err := v.ReadFrame(); !errors.Is(err, ErrVideoNotOpen) {
		t.Errorf("ReadFrame() before Open error = %v, want ErrVideoNotOpen", err)
	}
	if err := v.Close(); err != nil {
		t.Errorf("Close() on unopened video error = %v", err)
	}
}

func TestVideoFile_OpenMissing(t *testing.T) {
	v := NewVideoFile(filepath.Join(t.TempDir(), "missing.mp4"))
	if err := v.Open(); err == nil {
		v.Close()
		t.Fatal("expected error opening a missing file")
	}
	if v.IsOpen() {
		t.Error("video should not be open after a failed Open")
	}
}

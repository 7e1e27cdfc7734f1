package app

// Analysis stages reported through a ProgressSink.
const (
	StageExtracting = "extracting"
	StageAnalyzing  = "analyzing"
	StageDone       = "done"
	StageFailed     = "failed"
)

// Progress is one progress event of an analysis.
type Progress struct {
	FileID string `json:"file_id"`
	Stage  string `json:"stage"`
	Done   int    `json:"done"`
	Total  int    `json:"total"`
	Error  string `json:"error,omitempty"`
}

// ProgressSink receives progress events. Publish must not block for long;
// it runs on the analysis goroutine.
type ProgressSink interface {
	Publish(p Progress)
}

type nopSink struct{}

func (nopSink) Publish(Progress) {}

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Shashikr2605/StrideSense/internal/app"
	"github.com/Shashikr2605/StrideSense/internal/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AnalysisHandler handles uploads, analyses and result lookups.
type AnalysisHandler struct {
	service        *app.Service
	maxUploadBytes int64
}

// NewAnalysisHandler creates a new AnalysisHandler. A maxUploadBytes of 0
// or less leaves upload size unbounded.
func NewAnalysisHandler(service *app.Service, maxUploadBytes int64) *AnalysisHandler {
	return &AnalysisHandler{service: service, maxUploadBytes: maxUploadBytes}
}

// ServeHTTP routes /api/upload, /api/analyze and /api/results/{id}.
func (h *AnalysisHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/upload":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.upload(w, r)
	case r.URL.Path == "/api/analyze":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.analyze(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/results/"):
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.results(w, r)
	default:
		http.NotFound(w, r)
	}
}

type uploadResponse struct {
	FileID string `json:"file_id"`
}

type analyzeRequest struct {
	FileID string `json:"file_id"`
}

// upload handles POST /api/upload with the video in multipart field "file".
func (h *AnalysisHandler) upload(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	u, err := h.service.SaveUpload(header.Filename, file)
	if err != nil {
		writeError(w, StatusCode(err), errorMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{FileID: u.ID})
}

// analyze handles POST /api/analyze. With ?format=xlsx the report is
// returned as a workbook.
func (h *AnalysisHandler) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	res, err := h.service.Analyze(r.Context(), req.FileID)
	if err != nil {
		writeError(w, StatusCode(err), errorMessage(err))
		return
	}

	if r.URL.Query().Get("format") == "xlsx" {
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+res.FileID+`.xlsx"`)
		if err := report.WriteWorkbook(w, res.Report); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to render workbook")
		}
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// results handles GET /api/results/{id}. Reports are not kept after an
// analysis, so there is nothing to return.
func (h *AnalysisHandler) results(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotImplemented, "Results storage not implemented")
}

// Package api provides the JSON HTTP handlers of the StrideSense service.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Shashikr2605/StrideSense/internal/app"
	"github.com/Shashikr2605/StrideSense/internal/gait"
	"github.com/Shashikr2605/StrideSense/internal/store"
	"github.com/Shashikr2605/StrideSense/internal/video"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// StatusCode maps a service error to its HTTP status.
func StatusCode(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, app.ErrUnsupportedFormat),
		errors.Is(err, app.ErrMissingID),
		video.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrBusy):
		return http.StatusConflict
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case gait.IsAnalysisError(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns the client-facing message for err.
func errorMessage(err error) string {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return "File not found"
	case errors.Is(err, app.ErrMissingID):
		return "No file_id provided"
	case errors.Is(err, app.ErrUnsupportedFormat):
		return "Invalid file format. Only MP4 and AVI are supported"
	case errors.Is(err, video.ErrNoLandmarks):
		return "No valid pose landmarks detected in video"
	case StatusCode(err) == http.StatusInternalServerError:
		return "Analysis failed: " + err.Error()
	default:
		return err.Error()
	}
}

package api

import (
	"encoding/json"
	"net/http"

	"github.com/Shashikr2605/StrideSense/internal/app"
	"github.com/Shashikr2605/StrideSense/internal/exercises"
	"github.com/Shashikr2605/StrideSense/internal/gait"
)

// RecommendationsHandler handles POST /api/recommendations.
type RecommendationsHandler struct {
	service *app.Service
}

// NewRecommendationsHandler creates a new RecommendationsHandler.
func NewRecommendationsHandler(service *app.Service) *RecommendationsHandler {
	return &RecommendationsHandler{service: service}
}

type recommendationsRequest struct {
	Abnormalities []struct {
		Type string `json:"type"`
	} `json:"abnormalities"`
}

type recommendationsResponse struct {
	Recommendations []gait.Exercise `json:"recommendations"`
}

func (h *RecommendationsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req recommendationsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	findings := make([]gait.Finding, 0, len(req.Abnormalities))
	for _, ab := range req.Abnormalities {
		findings = append(findings, gait.Finding{Type: gait.AbnormalityType(ab.Type)})
	}

	writeJSON(w, http.StatusOK, recommendationsResponse{
		Recommendations: h.service.Recommend(findings),
	})
}

// ExercisesHandler handles GET /api/exercises.
type ExercisesHandler struct {
	catalog *exercises.Catalog
}

// NewExercisesHandler creates a new ExercisesHandler.
func NewExercisesHandler(catalog *exercises.Catalog) *ExercisesHandler {
	return &ExercisesHandler{catalog: catalog}
}

func (h *ExercisesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, h.catalog.Snapshot())
}

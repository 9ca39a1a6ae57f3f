package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okrhub/okrhub/internal/http/middleware"
	"github.com/okrhub/okrhub/internal/http/response"
)

// GetObjective handles GET /api/v1/objectives/{objectiveID}.
// Returns the fully derived objective tree: re-filtered key results,
// backlog, recomputed metrics, and per-task urgency.
func (s *Server) GetObjective(w http.ResponseWriter, r *http.Request) {
	objectiveID := chi.URLParam(r, "objectiveID")
	user := middleware.CurrentProfile(r.Context())

	snap, err := s.okrService.BuildSnapshot(r.Context(), objectiveID, user)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, mapSnapshotToResponse(snap))
}

// ListObjectiveTasks handles GET /api/v1/objectives/{objectiveID}/tasks.
// Tasks are returned in triage order: urgency rank, then nearest due
// date, then title. The only supported order is "urgency"; the query
// parameter exists so clients state their assumption explicitly.
func (s *Server) ListObjectiveTasks(w http.ResponseWriter, r *http.Request) {
	objectiveID := chi.URLParam(r, "objectiveID")
	user := middleware.CurrentProfile(r.Context())

	if order := r.URL.Query().Get("order"); order != "" && order != "urgency" {
		response.BadRequest(w, "unsupported order: "+order)
		return
	}

	snap, err := s.okrService.BuildSnapshot(r.Context(), objectiveID, user)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.OK(w, TaskListResponse{
		Tasks:       mapTasksToDTO(snap.OrderedTasks),
		EvaluatedAt: snap.EvaluatedAt,
	})
}

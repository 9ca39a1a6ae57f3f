package handler

import (
	"net/http"

	"github.com/okrhub/okrhub/internal/http/middleware"
	"github.com/okrhub/okrhub/internal/http/response"
)

// GetCriticalObjectives handles GET /api/v1/dashboard/critical.
// Returns every objective visible to the caller whose calculated
// status is late or that has at least one overdue task.
func (s *Server) GetCriticalObjectives(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentProfile(r.Context())

	objectives, err := s.okrService.CriticalObjectives(r.Context(), user)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	dtos := make([]ObjectiveDTO, 0, len(objectives))
	for i := range objectives {
		dtos = append(dtos, mapObjectiveToDTO(&objectives[i]))
	}

	response.OK(w, CriticalObjectivesResponse{Objectives: dtos})
}

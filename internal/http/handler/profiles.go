package handler

import (
	"net/http"

	"github.com/okrhub/okrhub/internal/http/middleware"
	"github.com/okrhub/okrhub/internal/http/response"
)

// ListProfiles handles GET /api/v1/profiles.
// Admins see the full roster; everyone else their own company.
func (s *Server) ListProfiles(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentProfile(r.Context())

	profiles, err := s.okrService.VisibleProfiles(r.Context(), user)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	dtos := make([]ProfileDTO, 0, len(profiles))
	for _, p := range profiles {
		dtos = append(dtos, mapProfileToDTO(p))
	}

	response.OK(w, ProfileListResponse{Profiles: dtos})
}

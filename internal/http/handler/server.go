// Package handler implements the HTTP handlers for the OKR read API.
package handler

import (
	"github.com/okrhub/okrhub/internal/application/okr"
)

// Server holds the handler dependencies.
type Server struct {
	okrService *okr.Service
}

// NewServer creates a new HTTP handler server.
func NewServer(okrService *okr.Service) *Server {
	return &Server{
		okrService: okrService,
	}
}

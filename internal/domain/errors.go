package domain

import "errors"

// Domain errors returned by repositories and the hierarchy loader.

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrObjectiveNotFound indicates the specified objective does not exist.
	ErrObjectiveNotFound = errors.New("objective not found")

	// ErrAccessDenied indicates the objective belongs to another company
	// and the caller is not an admin.
	ErrAccessDenied = errors.New("access to objective denied")

	// ErrUnauthenticated indicates no user is signed in.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrUnauthorized indicates the presented credential is invalid.
	ErrUnauthorized = errors.New("invalid or missing credentials")

	// ErrInvalidID indicates the provided ID format is invalid.
	ErrInvalidID = errors.New("invalid ID format")

	// ErrInvalidTaskStatus indicates an unknown task status value.
	ErrInvalidTaskStatus = errors.New("invalid task status")

	// ErrInvalidObjectiveStatus indicates an unknown objective status value.
	ErrInvalidObjectiveStatus = errors.New("invalid objective status")

	// ErrInvalidUserGroup indicates an unknown user group value.
	ErrInvalidUserGroup = errors.New("invalid user group")
)

package okr

import (
	"context"

	"github.com/okrhub/okrhub/internal/domain"
)

// Repository defines the read surface of the data-store collaborator.
// This engine only reads: objectives, key results, and tasks are
// mutated elsewhere, and every writer publishes okr-data-changed after
// a successful write.
type Repository interface {
	// ListProfiles retrieves the full user profile roster. Visibility
	// trimming for the caller happens in the service layer.
	ListProfiles(ctx context.Context) ([]domain.UserProfile, error)

	// FindObjectiveTree retrieves the objective with nested key results
	// and tasks, plus every task linked to the objective outside the
	// nested join (the backlog). The join is allowed to be loose: the
	// loader re-filters tasks into key results by exact kr_id match.
	// Returns domain.ErrObjectiveNotFound if the objective doesn't exist.
	FindObjectiveTree(ctx context.Context, objectiveID string) (*domain.Objective, []domain.Task, error)

	// FindObjectiveIDs lists every objective ID, newest first. Feeds the
	// BI critical-objective scan.
	FindObjectiveIDs(ctx context.Context) ([]string, error)
}

// ProfileResolver resolves a bearer token to the profile it belongs
// to. Implemented by the persistence stores; consumed by the HTTP auth
// middleware. Returns domain.ErrUnauthorized for unknown tokens.
type ProfileResolver interface {
	FindProfileByToken(ctx context.Context, token string) (*domain.UserProfile, error)
}

// Navigator is the navigation collaborator: invoked with a target path
// on unauthenticated, not-found, and denied outcomes.
type Navigator interface {
	RedirectTo(path string)
}

// Notifier is the notification collaborator: invoked with a
// user-visible notice on denied-access and error outcomes.
type Notifier interface {
	Notify(n domain.Notice)
}

// NopNavigator is a Navigator that does nothing.
type NopNavigator struct{}

func (NopNavigator) RedirectTo(string) {}

// NopNotifier is a Notifier that does nothing.
type NopNotifier struct{}

func (NopNotifier) Notify(domain.Notice) {}

package okr

import (
	"context"
	"fmt"
	"time"

	"github.com/okrhub/okrhub/internal/domain"
)

// Snapshot is one fully derived view of an objective tree: the
// enriched objective, the re-filtered backlog, the urgency-ordered
// flat task sequence, and the roster visible to the caller. Derived
// state has no persistence of its own - a snapshot is rebuilt from
// scratch on every load and discarded on the next.
type Snapshot struct {
	Objective    *domain.Objective
	Backlog      []domain.Task
	OrderedTasks []domain.Task
	Profiles     []domain.UserProfile
	EvaluatedAt  time.Time
}

// Service provides the read/derive business logic for OKR trees.
// It orchestrates operations using the Repository interface.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new OKR service.
func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// BuildSnapshot loads and derives the full objective view for the
// given user. The profile roster and the objective tree are fetched
// concurrently; a failure in either aborts the whole load and nothing
// partial is returned.
//
// Returns domain.ErrObjectiveNotFound when the objective is absent and
// domain.ErrAccessDenied when it belongs to another company and the
// user is not an admin - in the denied case no task data leaves this
// function.
func (s *Service) BuildSnapshot(ctx context.Context, objectiveID string, user *domain.UserProfile) (*Snapshot, error) {
	if objectiveID == "" {
		return nil, domain.ErrObjectiveNotFound
	}
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}

	type rosterResult struct {
		profiles []domain.UserProfile
		err      error
	}
	rosterCh := make(chan rosterResult, 1)
	go func() {
		profiles, err := s.repo.ListProfiles(ctx)
		rosterCh <- rosterResult{profiles: profiles, err: err}
	}()

	obj, rawTasks, treeErr := s.repo.FindObjectiveTree(ctx, objectiveID)
	roster := <-rosterCh

	if treeErr != nil {
		return nil, treeErr
	}
	if roster.err != nil {
		return nil, fmt.Errorf("failed to load profile roster: %w", roster.err)
	}

	// Access control before any task data is surfaced.
	if !user.CanSeeObjective(obj) {
		return nil, fmt.Errorf("%w: objective %s", domain.ErrAccessDenied, objectiveID)
	}

	now := s.now()

	// Defensive re-filter: collect every task the store returned for
	// this objective, dedupe the loose join, and re-attach by exact
	// kr_id match. Unassigned tasks form the backlog.
	krs, backlog := domain.AssignTasksToKeyResults(obj.KeyResults, dedupeTasks(obj, rawTasks))
	obj.KeyResults = krs

	domain.DeriveObjectiveMetrics(obj, backlog, now)
	domain.AnnotateTaskUrgency(obj, backlog, now)

	return &Snapshot{
		Objective:    obj,
		Backlog:      backlog,
		OrderedTasks: domain.SortTasksByUrgencyAt(domain.FlattenTree(obj, backlog), now),
		Profiles:     visibleProfiles(roster.profiles, user),
		EvaluatedAt:  now,
	}, nil
}

// VisibleProfiles returns the roster trimmed to what the user may see:
// admins see everyone, everyone else their own company.
func (s *Service) VisibleProfiles(ctx context.Context, user *domain.UserProfile) ([]domain.UserProfile, error) {
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}

	profiles, err := s.repo.ListProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile roster: %w", err)
	}
	return visibleProfiles(profiles, user), nil
}

// CriticalObjectives scans every objective visible to the user and
// returns the enriched records flagged critical: calculated status
// Atrasado, or at least one overdue task. Consumed by BI triage views.
func (s *Service) CriticalObjectives(ctx context.Context, user *domain.UserProfile) ([]domain.Objective, error) {
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}

	ids, err := s.repo.FindObjectiveIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list objectives: %w", err)
	}

	now := s.now()
	critical := make([]domain.Objective, 0)
	for _, id := range ids {
		obj, rawTasks, err := s.repo.FindObjectiveTree(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load objective %s: %w", id, err)
		}
		if !user.CanSeeObjective(obj) {
			continue
		}

		krs, backlog := domain.AssignTasksToKeyResults(obj.KeyResults, dedupeTasks(obj, rawTasks))
		obj.KeyResults = krs

		domain.DeriveObjectiveMetrics(obj, backlog, now)
		if obj.IsCritical {
			critical = append(critical, *obj)
		}
	}

	return critical, nil
}

// dedupeTasks merges the tasks nested under key results with the flat
// slice returned alongside, keeping the first occurrence per ID. The
// store may return the same row in both places.
func dedupeTasks(obj *domain.Objective, flat []domain.Task) []domain.Task {
	seen := make(map[string]struct{})
	merged := make([]domain.Task, 0, len(flat))

	appendTask := func(t domain.Task) {
		if _, dup := seen[t.ID]; dup {
			return
		}
		seen[t.ID] = struct{}{}
		merged = append(merged, t)
	}

	for i := range obj.KeyResults {
		for _, t := range obj.KeyResults[i].Tasks {
			appendTask(t)
		}
	}
	for _, t := range flat {
		appendTask(t)
	}
	return merged
}

func visibleProfiles(profiles []domain.UserProfile, user *domain.UserProfile) []domain.UserProfile {
	if user.IsAdmin() {
		return profiles
	}
	out := make([]domain.UserProfile, 0, len(profiles))
	for _, p := range profiles {
		if p.Company == user.Company {
			out = append(out, p)
		}
	}
	return out
}

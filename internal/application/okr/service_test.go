package okr

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okrhub/okrhub/internal/domain"
	"github.com/okrhub/okrhub/internal/ptr"
)

var testNow = time.Date(2025, 1, 15, 9, 0, 0, 0, time.UTC)

// fakeRepo is an in-memory Repository for service and loader tests.
type fakeRepo struct {
	profiles    []domain.UserProfile
	profilesErr error

	objectives map[string]*domain.Objective
	flatTasks  map[string][]domain.Task
	treeErr    error
}

func (f *fakeRepo) ListProfiles(ctx context.Context) ([]domain.UserProfile, error) {
	if f.profilesErr != nil {
		return nil, f.profilesErr
	}
	return f.profiles, nil
}

func (f *fakeRepo) FindObjectiveTree(ctx context.Context, objectiveID string) (*domain.Objective, []domain.Task, error) {
	if f.treeErr != nil {
		return nil, nil, f.treeErr
	}
	obj, ok := f.objectives[objectiveID]
	if !ok {
		return nil, nil, domain.ErrObjectiveNotFound
	}
	cp := *obj
	cp.KeyResults = append([]domain.KeyResult(nil), obj.KeyResults...)
	return &cp, f.flatTasks[objectiveID], nil
}

func (f *fakeRepo) FindObjectiveIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(f.objectives))
	for id := range f.objectives {
		ids = append(ids, id)
	}
	return ids, nil
}

func newTestService(repo Repository) *Service {
	s := NewService(repo)
	s.now = func() time.Time { return testNow }
	return s
}

func acmeUser(group domain.UserGroup) *domain.UserProfile {
	return &domain.UserProfile{ID: "u1", Name: "Ana", Group: group, Company: "acme"}
}

func fixtureRepo() *fakeRepo {
	return &fakeRepo{
		profiles: []domain.UserProfile{
			{ID: "u1", Name: "Ana", Company: "acme"},
			{ID: "u2", Name: "Bruno", Company: "acme"},
			{ID: "u3", Name: "Carla", Company: "globex"},
		},
		objectives: map[string]*domain.Objective{
			"o1": {
				ID:      "o1",
				Title:   "Ship the thing",
				Company: "acme",
				Status:  domain.ObjectiveStatusInProgress,
				KeyResults: []domain.KeyResult{
					{ID: "kr1", ObjectiveID: "o1", Status: domain.TaskStatusInProgress},
					{ID: "kr2", ObjectiveID: "o1", Status: domain.TaskStatusDone},
				},
			},
		},
		flatTasks: map[string][]domain.Task{
			"o1": {
				{ID: "t1", Title: "overdue", KRID: ptr.To("kr1"), Status: domain.TaskStatusTodo, DueDate: ptr.To("2025-01-10")},
				{ID: "t2", Title: "done", KRID: ptr.To("kr2"), Status: domain.TaskStatusDone},
				{ID: "t3", Title: "parked", KRID: nil, Status: domain.TaskStatusBacklog},
				{ID: "t4", Title: "stray", KRID: ptr.To("other-objective-kr"), Status: domain.TaskStatusTodo},
			},
		},
	}
}

func TestBuildSnapshot_DerivesAndOrders(t *testing.T) {
	svc := newTestService(fixtureRepo())

	snap, err := svc.BuildSnapshot(context.Background(), "o1", acmeUser(domain.UserGroupTeamMember))
	require.NoError(t, err)

	obj := snap.Objective
	require.NotNil(t, obj)

	// Re-filter: t1 under kr1, t2 under kr2, t3 in backlog, t4 dropped.
	require.Len(t, obj.KeyResults, 2)
	assert.Equal(t, "t1", obj.KeyResults[0].Tasks[0].ID)
	assert.Equal(t, "t2", obj.KeyResults[1].Tasks[0].ID)
	require.Len(t, snap.Backlog, 1)
	assert.Equal(t, "t3", snap.Backlog[0].ID)

	// Derived metrics recomputed from the filtered tree.
	assert.Equal(t, 2, obj.OpenTasksCount)
	assert.Equal(t, 1, obj.OverdueTasksCount)
	assert.Equal(t, 50, obj.KRCompletionRate)
	assert.Equal(t, 33, obj.ProgressWithBacklog, "1 done of 3 counted")
	assert.True(t, obj.IsCritical)

	// Urgency annotation and triage order: overdue, dateless, completed.
	assert.Equal(t, domain.UrgencyOverdue, obj.KeyResults[0].Tasks[0].Urgency)
	require.Len(t, snap.OrderedTasks, 3)
	assert.Equal(t, []string{"t1", "t3", "t2"}, []string{
		snap.OrderedTasks[0].ID, snap.OrderedTasks[1].ID, snap.OrderedTasks[2].ID,
	})

	// Roster trimmed to the caller's company.
	require.Len(t, snap.Profiles, 2)
	assert.Equal(t, testNow, snap.EvaluatedAt)
}

func TestBuildSnapshot_NotFound(t *testing.T) {
	svc := newTestService(fixtureRepo())

	_, err := svc.BuildSnapshot(context.Background(), "missing", acmeUser(domain.UserGroupAdmin))
	assert.ErrorIs(t, err, domain.ErrObjectiveNotFound)
}

func TestBuildSnapshot_AccessDeniedForOtherCompany(t *testing.T) {
	svc := newTestService(fixtureRepo())
	outsider := &domain.UserProfile{ID: "u3", Group: domain.UserGroupProductOwner, Company: "globex"}

	snap, err := svc.BuildSnapshot(context.Background(), "o1", outsider)

	assert.ErrorIs(t, err, domain.ErrAccessDenied)
	assert.Nil(t, snap, "no task data may leak on denial")
}

func TestBuildSnapshot_AdminCrossesCompanies(t *testing.T) {
	svc := newTestService(fixtureRepo())
	admin := &domain.UserProfile{ID: "root", Group: domain.UserGroupAdmin, Company: "globex"}

	snap, err := svc.BuildSnapshot(context.Background(), "o1", admin)

	require.NoError(t, err)
	assert.Len(t, snap.Profiles, 3, "admins see the full roster")
}

func TestBuildSnapshot_RosterFailureAbortsWholeLoad(t *testing.T) {
	repo := fixtureRepo()
	repo.profilesErr = errors.New("store unavailable")
	svc := newTestService(repo)

	snap, err := svc.BuildSnapshot(context.Background(), "o1", acmeUser(domain.UserGroupAdmin))

	require.Error(t, err)
	assert.Nil(t, snap, "either fetch failing publishes nothing partial")
}

func TestBuildSnapshot_NilUser(t *testing.T) {
	svc := newTestService(fixtureRepo())

	_, err := svc.BuildSnapshot(context.Background(), "o1", nil)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestVisibleProfiles(t *testing.T) {
	svc := newTestService(fixtureRepo())

	got, err := svc.VisibleProfiles(context.Background(), acmeUser(domain.UserGroupTeamMember))
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.VisibleProfiles(context.Background(), &domain.UserProfile{Group: domain.UserGroupAdmin})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestCriticalObjectives(t *testing.T) {
	repo := fixtureRepo()
	// A healthy objective for contrast: future due date, nothing overdue.
	repo.objectives["o2"] = &domain.Objective{
		ID:      "o2",
		Company: "acme",
		Status:  domain.ObjectiveStatusInProgress,
		DueDate: ptr.To("2025-06-30"),
		KeyResults: []domain.KeyResult{
			{ID: "kr3", ObjectiveID: "o2", Status: domain.TaskStatusInProgress},
		},
	}
	repo.flatTasks["o2"] = []domain.Task{
		{ID: "t9", KRID: ptr.To("kr3"), Status: domain.TaskStatusTodo, DueDate: ptr.To("2025-06-01")},
	}
	svc := newTestService(repo)

	critical, err := svc.CriticalObjectives(context.Background(), acmeUser(domain.UserGroupProductOwner))
	require.NoError(t, err)

	require.Len(t, critical, 1, "only o1 has an overdue task")
	assert.Equal(t, "o1", critical[0].ID)
	assert.True(t, critical[0].IsCritical)
}

func TestCriticalObjectives_SkipsForeignCompanies(t *testing.T) {
	svc := newTestService(fixtureRepo())
	outsider := &domain.UserProfile{ID: "u3", Group: domain.UserGroupTeamMember, Company: "globex"}

	critical, err := svc.CriticalObjectives(context.Background(), outsider)
	require.NoError(t, err)
	assert.Empty(t, critical)
}

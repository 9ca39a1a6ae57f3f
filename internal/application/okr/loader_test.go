package okr

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okrhub/okrhub/internal/domain"
	"github.com/okrhub/okrhub/internal/eventbus"
)

// recordingNav captures redirect targets.
type recordingNav struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNav) RedirectTo(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *recordingNav) last() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.paths) == 0 {
		return ""
	}
	return n.paths[len(n.paths)-1]
}

// recordingNotifier captures notices.
type recordingNotifier struct {
	mu      sync.Mutex
	notices []domain.Notice
}

func (n *recordingNotifier) Notify(notice domain.Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.notices)
}

func signedIn(user *domain.UserProfile) func() AuthState {
	return func() AuthState { return AuthState{User: user} }
}

func TestLoader_ReadyOutcome(t *testing.T) {
	svc := newTestService(fixtureRepo())
	l := NewLoader(context.Background(), svc, nil, "o1", signedIn(acmeUser(domain.UserGroupTeamMember)))
	defer l.Close()

	assert.Equal(t, OutcomeLoading, l.State().Outcome, "initial state is loading")

	l.Reload(context.Background())

	state := l.State()
	require.Equal(t, OutcomeReady, state.Outcome)
	require.NotNil(t, state.Snapshot)
	assert.Equal(t, "o1", state.Snapshot.Objective.ID)
}

func TestLoader_AuthResolvingStaysLoadingWithoutFetch(t *testing.T) {
	repo := fixtureRepo()
	repo.treeErr = assertNotCalledErr{} // any fetch would surface as an error outcome
	svc := newTestService(repo)

	l := NewLoader(context.Background(), svc, nil, "o1", func() AuthState {
		return AuthState{Loading: true}
	})
	defer l.Close()

	l.Reload(context.Background())

	assert.Equal(t, OutcomeLoading, l.State().Outcome)
}

type assertNotCalledErr struct{}

func (assertNotCalledErr) Error() string { return "store must not be touched while auth resolves" }

func TestLoader_UnauthenticatedRedirectsToLogin(t *testing.T) {
	svc := newTestService(fixtureRepo())
	nav := &recordingNav{}

	l := NewLoader(context.Background(), svc, nil, "o1", signedIn(nil), WithNavigator(nav))
	defer l.Close()

	l.Reload(context.Background())

	state := l.State()
	assert.Equal(t, OutcomeUnauthenticated, state.Outcome)
	assert.ErrorIs(t, state.Err, domain.ErrUnauthenticated)
	assert.Equal(t, "/login", nav.last())
}

func TestLoader_NotFoundRedirectsToDashboard(t *testing.T) {
	svc := newTestService(fixtureRepo())
	nav := &recordingNav{}

	l := NewLoader(context.Background(), svc, nil, "missing", signedIn(acmeUser(domain.UserGroupAdmin)), WithNavigator(nav))
	defer l.Close()

	l.Reload(context.Background())

	assert.Equal(t, OutcomeNotFound, l.State().Outcome)
	assert.Equal(t, "/dashboard", nav.last())
}

func TestLoader_AccessDeniedNotifiesAndNeverPublishesTasks(t *testing.T) {
	svc := newTestService(fixtureRepo())
	nav := &recordingNav{}
	notifier := &recordingNotifier{}
	outsider := &domain.UserProfile{ID: "u9", Group: domain.UserGroupTeamMember, Company: "globex"}

	l := NewLoader(context.Background(), svc, nil, "o1", signedIn(outsider),
		WithNavigator(nav), WithNotifier(notifier))
	defer l.Close()

	l.Reload(context.Background())

	state := l.State()
	assert.Equal(t, OutcomeAccessDenied, state.Outcome)
	assert.ErrorIs(t, state.Err, domain.ErrAccessDenied)
	assert.Nil(t, state.Snapshot, "denied outcome must not carry task data")
	assert.Equal(t, 1, notifier.count())
	assert.Equal(t, "/dashboard", nav.last())
}

func TestLoader_TransientErrorOutcomeWithoutRetry(t *testing.T) {
	repo := fixtureRepo()
	repo.treeErr = context.DeadlineExceeded
	svc := newTestService(repo)
	notifier := &recordingNotifier{}

	l := NewLoader(context.Background(), svc, nil, "o1", signedIn(acmeUser(domain.UserGroupAdmin)), WithNotifier(notifier))
	defer l.Close()

	l.Reload(context.Background())

	state := l.State()
	assert.Equal(t, OutcomeError, state.Outcome)
	require.Error(t, state.Err)
	assert.Equal(t, 1, notifier.count())

	// Recovery only on the next explicit reload.
	repo.treeErr = nil
	l.Reload(context.Background())
	assert.Equal(t, OutcomeReady, l.State().Outcome)
}

func TestLoader_BusSignalTriggersReload(t *testing.T) {
	svc := newTestService(fixtureRepo())
	bus := eventbus.New()

	l := NewLoader(context.Background(), svc, bus, "o1", signedIn(acmeUser(domain.UserGroupAdmin)))
	defer l.Close()

	bus.Publish(eventbus.TopicOKRDataChanged)

	require.Eventually(t, func() bool {
		return l.State().Outcome == OutcomeReady
	}, time.Second, 5*time.Millisecond)
}

func TestLoader_CloseUnsubscribes(t *testing.T) {
	svc := newTestService(fixtureRepo())
	bus := eventbus.New()

	l := NewLoader(context.Background(), svc, bus, "o1", signedIn(acmeUser(domain.UserGroupAdmin)))
	l.Close()

	bus.Publish(eventbus.TopicOKRDataChanged)

	// Closed loaders stop applying results entirely.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, OutcomeLoading, l.State().Outcome, "no state change after Close")
}

// gatedRepo blocks FindObjectiveTree until the per-call gate opens,
// and lets each call return a differently titled objective. It drives
// the overlapping-reload ordering tests.
type gatedRepo struct {
	mu    sync.Mutex
	calls int
	gates map[int]chan struct{} // call number -> open to proceed
	title map[int]string
}

func (g *gatedRepo) ListProfiles(ctx context.Context) ([]domain.UserProfile, error) {
	return nil, nil
}

func (g *gatedRepo) FindObjectiveIDs(ctx context.Context) ([]string, error) {
	return []string{"o1"}, nil
}

func (g *gatedRepo) FindObjectiveTree(ctx context.Context, objectiveID string) (*domain.Objective, []domain.Task, error) {
	g.mu.Lock()
	g.calls++
	call := g.calls
	gate := g.gates[call]
	title := g.title[call]
	g.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return &domain.Objective{ID: objectiveID, Title: title, Company: "acme"}, nil, nil
}

func (g *gatedRepo) waitForCall(t *testing.T, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		g.mu.Lock()
		defer g.mu.Unlock()
		return g.calls >= n
	}, time.Second, time.Millisecond)
}

// The invariant under overlapping reloads: the published state matches
// the reload requested last, even when the older reload physically
// resolves later.
func TestLoader_StaleReloadNeverOverwritesNewer(t *testing.T) {
	slowGate := make(chan struct{})
	repo := &gatedRepo{
		gates: map[int]chan struct{}{1: slowGate},
		title: map[int]string{1: "stale", 2: "fresh"},
	}
	svc := newTestService(repo)

	l := NewLoader(context.Background(), svc, nil, "o1", signedIn(acmeUser(domain.UserGroupAdmin)))
	defer l.Close()

	// First reload: requested first, blocked in the store.
	done1 := make(chan struct{})
	go func() {
		defer close(done1)
		l.Reload(context.Background())
	}()
	repo.waitForCall(t, 1)

	// Second reload: requested later, completes immediately.
	l.Reload(context.Background())

	state := l.State()
	require.Equal(t, OutcomeReady, state.Outcome)
	require.Equal(t, "fresh", state.Snapshot.Objective.Title)

	// Now the older reload resolves - its result must be discarded.
	close(slowGate)
	<-done1

	state = l.State()
	assert.Equal(t, OutcomeReady, state.Outcome)
	assert.Equal(t, "fresh", state.Snapshot.Objective.Title,
		"slow stale reload must not overwrite the newer result")
}

func TestLoader_SecondReloadWinsWhenBothBlocked(t *testing.T) {
	gate1 := make(chan struct{})
	gate2 := make(chan struct{})
	repo := &gatedRepo{
		gates: map[int]chan struct{}{1: gate1, 2: gate2},
		title: map[int]string{1: "first", 2: "second"},
	}
	svc := newTestService(repo)

	l := NewLoader(context.Background(), svc, nil, "o1", signedIn(acmeUser(domain.UserGroupAdmin)))
	defer l.Close()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() { defer wg.Done(); l.Reload(context.Background()) }()
	repo.waitForCall(t, 1)
	go func() { defer wg.Done(); l.Reload(context.Background()) }()
	repo.waitForCall(t, 2)

	// Release in reverse order: the newer one lands first, the older
	// one resolves last and must be dropped.
	close(gate2)
	require.Eventually(t, func() bool {
		return l.State().Outcome == OutcomeReady
	}, time.Second, time.Millisecond)
	close(gate1)
	wg.Wait()

	assert.Equal(t, "second", l.State().Snapshot.Objective.Title)
}

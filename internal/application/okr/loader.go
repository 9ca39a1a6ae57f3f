package okr

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/okrhub/okrhub/internal/domain"
	"github.com/okrhub/okrhub/internal/eventbus"
)

// Outcome is the terminal classification of a load cycle. Every reload
// resolves to exactly one outcome - loading states never hang.
type Outcome int

const (
	OutcomeLoading Outcome = iota
	OutcomeReady
	OutcomeUnauthenticated
	OutcomeNotFound
	OutcomeAccessDenied
	OutcomeError
)

// String returns the outcome name for logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeLoading:
		return "loading"
	case OutcomeReady:
		return "ready"
	case OutcomeUnauthenticated:
		return "unauthenticated"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeAccessDenied:
		return "access_denied"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// AuthState is what the auth collaborator exposes: the current user
// (nil when signed out) and whether the session is still resolving.
type AuthState struct {
	User    *domain.UserProfile
	Loading bool
}

// State is the loader's published view. Snapshot is non-nil only for
// OutcomeReady; Err carries the cause for the failure outcomes.
type State struct {
	Outcome  Outcome
	Snapshot *Snapshot
	Err      error
}

// Loader keeps one consumer's view of a single objective tree fresh.
//
// It subscribes to the okr-data-changed broadcast for its lifetime and
// reloads on every signal. Overlapping reloads are resolved by a
// generation counter: each Reload claims the next generation, and a
// completed reload publishes only if no newer generation has been
// requested since. The published state therefore always corresponds to
// the most recently requested reload - a slow older fetch can never
// overwrite a newer one (last-requested-wins, not last-returns-wins).
type Loader struct {
	service     *Service
	objectiveID string
	auth        func() AuthState
	nav         Navigator
	notifier    Notifier

	ctx context.Context // base context for bus-triggered reloads
	sub *eventbus.Subscription

	mu        sync.Mutex
	state     State
	requested uint64 // highest generation handed out
	closed    bool

	// reloads observable in tests; guarded by mu
	reloadCount int
}

// NewLoader constructs a loader for one objective and subscribes it to
// the data-changed broadcast. Callers must Close the loader when the
// consumer goes away, or the subscription keeps reloading forever.
// The initial state is loading; call Reload to populate it.
func NewLoader(ctx context.Context, service *Service, bus *eventbus.Bus, objectiveID string, auth func() AuthState, opts ...LoaderOption) *Loader {
	l := &Loader{
		service:     service,
		objectiveID: objectiveID,
		auth:        auth,
		nav:         NopNavigator{},
		notifier:    NopNotifier{},
		ctx:         ctx,
		state:       State{Outcome: OutcomeLoading},
	}
	for _, opt := range opts {
		opt(l)
	}

	if bus != nil {
		l.sub = bus.Subscribe(eventbus.TopicOKRDataChanged, func() {
			// Handlers must not block: reload on a fresh goroutine.
			go l.Reload(l.ctx)
		})
	}
	return l
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithNavigator wires the navigation collaborator invoked on
// unauthenticated (/login), not-found and denied (/dashboard) outcomes.
func WithNavigator(nav Navigator) LoaderOption {
	return func(l *Loader) { l.nav = nav }
}

// WithNotifier wires the notification collaborator invoked on denied
// and error outcomes.
func WithNotifier(n Notifier) LoaderOption {
	return func(l *Loader) { l.notifier = n }
}

// State returns the currently published state.
func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Reload fetches and derives the objective view, publishing the result
// unless a newer reload was requested meanwhile. Idempotent and safe
// to call at any time from any goroutine.
//
// While auth is still resolving the loader stays in the loading state
// and performs no fetch; the auth collaborator is expected to trigger
// another Reload once resolved.
func (l *Loader) Reload(ctx context.Context) {
	gen := l.nextGeneration()
	if gen == 0 {
		return // closed
	}

	authState := l.auth()
	if authState.Loading {
		l.publish(gen, State{Outcome: OutcomeLoading})
		return
	}

	if authState.User == nil {
		if l.publish(gen, State{Outcome: OutcomeUnauthenticated, Err: domain.ErrUnauthenticated}) {
			l.nav.RedirectTo("/login")
		}
		return
	}

	snapshot, err := l.service.BuildSnapshot(ctx, l.objectiveID, authState.User)
	switch {
	case err == nil:
		l.publish(gen, State{Outcome: OutcomeReady, Snapshot: snapshot})

	case errors.Is(err, domain.ErrObjectiveNotFound):
		if l.publish(gen, State{Outcome: OutcomeNotFound, Err: err}) {
			l.nav.RedirectTo("/dashboard")
		}

	case errors.Is(err, domain.ErrAccessDenied):
		if l.publish(gen, State{Outcome: OutcomeAccessDenied, Err: err}) {
			l.notifier.Notify(domain.Notice{
				Title:       "Acesso negado",
				Description: "Você não tem permissão para ver este objetivo.",
				Severity:    "error",
			})
			l.nav.RedirectTo("/dashboard")
		}

	default:
		// Transient store failure: no automatic retry. The next reload
		// comes from the user or the change broadcast.
		slog.ErrorContext(ctx, "objective reload failed",
			"objective_id", l.objectiveID,
			"error", err)
		if l.publish(gen, State{Outcome: OutcomeError, Err: err}) {
			l.notifier.Notify(domain.Notice{
				Title:       "Erro ao carregar objetivo",
				Description: err.Error(),
				Severity:    "error",
			})
		}
	}
}

// Close cancels the broadcast subscription and stops any in-flight
// reload from publishing. Safe to call more than once.
func (l *Loader) Close() {
	l.mu.Lock()
	l.closed = true
	sub := l.sub
	l.sub = nil
	l.mu.Unlock()

	sub.Cancel()
}

// nextGeneration claims a reload generation, or 0 if the loader is
// closed.
func (l *Loader) nextGeneration() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return 0
	}
	l.requested++
	l.reloadCount++
	return l.requested
}

// publish applies the state if this generation is still the newest
// requested one. Stale results - an older reload resolving after a
// newer one was requested - are discarded, which serializes state
// updates in request order without blocking reloads on each other.
// Reports whether the state was applied, so collaborator side effects
// fire only for published outcomes.
func (l *Loader) publish(gen uint64, s State) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || gen != l.requested {
		return false
	}
	l.state = s
	return true
}

package domain

import "time"

// Objective is the top-level goal record. It owns an ordered list of
// key results; tasks not yet assigned to a key result form the backlog.
//
// The derived fields are recomputed from scratch on every load by
// DeriveObjectiveMetrics and are never persisted - they must not drift
// from the source tree, so partial patching is not supported.
type Objective struct {
	ID                       string
	Title                    string
	Description              string
	ResponsibleID            string
	CoordinatorScrumMasterID string
	Company                  string
	Status                   ObjectiveStatus
	DueDate                  *string // calendar date, ISO "YYYY-MM-DD"
	CreatedAt                time.Time

	KeyResults []KeyResult

	// Derived fields (see DeriveObjectiveMetrics).
	ProgressWithBacklog int             // 0-100, backlog tasks dilute the denominator
	KRCompletionRate    int             // 0-100
	OpenTasksCount      int             // tasks not yet completed
	OverdueTasksCount   int             // open tasks past their due date
	CalculatedStatus    ObjectiveStatus // stored status overridden by lateness/completion
	IsCritical          bool            // feeds the BI critical list
}

// KeyResult is a measurable sub-goal under an objective.
//
// Invariant: every task in Tasks has *task.KRID == kr.ID. The backing
// store's join is not trusted to be exact - the loader re-filters via
// AssignTasksToKeyResults before anything consumes the tree.
type KeyResult struct {
	ID            string
	ObjectiveID   string
	Title         string
	Description   string
	ResponsibleID string
	DueDate       *string
	Status        TaskStatus
	CreatedAt     time.Time
	CompletedAt   *time.Time

	Tasks []Task
}

// Task is a unit of work, optionally assigned to a key result.
// Tasks with a nil KRID belong to the objective's backlog.
type Task struct {
	ID            string
	Title         string
	Description   string
	ResponsibleID string
	Status        TaskStatus
	DueDate       *string // calendar date, ISO "YYYY-MM-DD"
	Company       string
	ObjectiveID   string
	KRID          *string
	CreatedAt     time.Time
	CompletedAt   *time.Time

	// Urgency is derived from (DueDate, Status) at load time, never persisted.
	Urgency UrgencyCategory
}

// UserProfile is the profile record of an authenticated user.
type UserProfile struct {
	ID        string
	Name      string
	Email     string
	Group     UserGroup
	Company   string
	AvatarURL string
}

// IsAdmin reports whether the profile belongs to the admin group.
func (u *UserProfile) IsAdmin() bool {
	return u != nil && u.Group == UserGroupAdmin
}

// CanSeeObjective reports company-level visibility: admins see every
// objective, everyone else only their own company's.
func (u *UserProfile) CanSeeObjective(obj *Objective) bool {
	if u == nil || obj == nil {
		return false
	}
	return u.IsAdmin() || u.Company == obj.Company
}

// Notice is a user-visible notification emitted on denied-access and
// error outcomes. Delivery is the notification collaborator's concern.
type Notice struct {
	Title       string
	Description string
	Severity    string // "error", "warning", "info"
}

package domain

// ObjectiveStatus represents the stored state of an objective.
// Value object - immutable string enum. The product stores the
// Portuguese labels, so they are the canonical wire values.
type ObjectiveStatus string

const (
	ObjectiveStatusTodo       ObjectiveStatus = "A Fazer"
	ObjectiveStatusInProgress ObjectiveStatus = "Em Progresso"
	ObjectiveStatusDone       ObjectiveStatus = "Concluído"
	ObjectiveStatusLate       ObjectiveStatus = "Atrasado"
)

// TaskStatus represents the current state of a task or key result.
// Value object - immutable string enum.
type TaskStatus string

const (
	TaskStatusBacklog    TaskStatus = "Backlog"
	TaskStatusTodo       TaskStatus = "A Fazer"
	TaskStatusInProgress TaskStatus = "Em Progresso"
	TaskStatusDone       TaskStatus = "Concluído"
)

// IsDone reports whether the status indicates completion.
func (s TaskStatus) IsDone() bool {
	return s == TaskStatusDone
}

// UserGroup represents the access group of a user profile.
// Value object - immutable string enum.
type UserGroup string

const (
	UserGroupAdmin         UserGroup = "admin"
	UserGroupProductOwner  UserGroup = "product_owner"
	UserGroupScrumMaster   UserGroup = "scrum_master"
	UserGroupTeamMember    UserGroup = "team_member"
	UserGroupInventoryUser UserGroup = "inventory_user"
)

// UrgencyCategory is the classification bucket derived from a task's
// due date and completion status. Derived only - never persisted.
type UrgencyCategory string

const (
	UrgencyCompleted UrgencyCategory = "completed"
	UrgencyNoDueDate UrgencyCategory = "no_due_date"
	UrgencyOverdue   UrgencyCategory = "overdue"
	UrgencyDueToday  UrgencyCategory = "due_today"
	UrgencyDueIn1Day UrgencyCategory = "due_in_1_day"
	UrgencyDueIn2Day UrgencyCategory = "due_in_2_days"
	UrgencyDueIn3Day UrgencyCategory = "due_in_3_days"
	UrgencyFarFuture UrgencyCategory = "far_future"
)

// unknownUrgencyRank sorts any unrecognized category after every known one.
const unknownUrgencyRank = 99

// Rank returns the triage precedence of the category.
// Lower rank = more urgent. Unrecognized categories sort last.
func (c UrgencyCategory) Rank() int {
	switch c {
	case UrgencyOverdue:
		return 1
	case UrgencyDueToday:
		return 2
	case UrgencyDueIn1Day:
		return 3
	case UrgencyDueIn2Day:
		return 4
	case UrgencyDueIn3Day:
		return 5
	case UrgencyFarFuture:
		return 6
	case UrgencyNoDueDate:
		return 7
	case UrgencyCompleted:
		return 8
	default:
		return unknownUrgencyRank
	}
}

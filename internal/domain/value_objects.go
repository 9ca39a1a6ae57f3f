package domain

import (
	"fmt"
	"strings"
)

// NewTaskStatus validates and creates a TaskStatus.
func NewTaskStatus(s string) (TaskStatus, error) {
	status := TaskStatus(strings.TrimSpace(s))

	switch status {
	case TaskStatusBacklog, TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidTaskStatus, s)
	}
}

// NewObjectiveStatus validates and creates an ObjectiveStatus.
func NewObjectiveStatus(s string) (ObjectiveStatus, error) {
	status := ObjectiveStatus(strings.TrimSpace(s))

	switch status {
	case ObjectiveStatusTodo, ObjectiveStatusInProgress,
		ObjectiveStatusDone, ObjectiveStatusLate:
		return status, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidObjectiveStatus, s)
	}
}

// NewUserGroup validates and creates a UserGroup.
func NewUserGroup(s string) (UserGroup, error) {
	group := UserGroup(strings.ToLower(strings.TrimSpace(s)))

	switch group {
	case UserGroupAdmin, UserGroupProductOwner, UserGroupScrumMaster,
		UserGroupTeamMember, UserGroupInventoryUser:
		return group, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrInvalidUserGroup, s)
	}
}

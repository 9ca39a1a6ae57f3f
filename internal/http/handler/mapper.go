package handler

import (
	"time"

	"github.com/okrhub/okrhub/internal/application/okr"
	"github.com/okrhub/okrhub/internal/domain"
)

// DTO types returned by the read API. Statuses keep their stored
// labels; urgency is serialized as the category slug plus its sort
// rank so clients never re-derive triage order.

type ProfileDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Group     string `json:"group"`
	Company   string `json:"company"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type TaskDTO struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	ResponsibleID string     `json:"responsible_id,omitempty"`
	Status        string     `json:"status"`
	DueDate       *string    `json:"due_date"`
	KRID          *string    `json:"kr_id"`
	Urgency       string     `json:"urgency"`
	UrgencyRank   int        `json:"urgency_rank"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

type KeyResultDTO struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	ResponsibleID string    `json:"responsible_id,omitempty"`
	Status        string    `json:"status"`
	DueDate       *string   `json:"due_date"`
	Tasks         []TaskDTO `json:"tasks"`
}

type ObjectiveDTO struct {
	ID                  string         `json:"id"`
	Title               string         `json:"title"`
	Description         string         `json:"description,omitempty"`
	Company             string         `json:"company"`
	Status              string         `json:"status"`
	CalculatedStatus    string         `json:"calculated_status"`
	DueDate             *string        `json:"due_date"`
	ProgressWithBacklog int            `json:"progress_with_backlog"`
	KRCompletionRate    int            `json:"kr_completion_rate"`
	OpenTasksCount      int            `json:"open_tasks_count"`
	OverdueTasksCount   int            `json:"overdue_tasks_count"`
	IsCritical          bool           `json:"is_critical"`
	KeyResults          []KeyResultDTO `json:"key_results"`
}

type ObjectiveResponse struct {
	Objective    ObjectiveDTO `json:"objective"`
	Backlog      []TaskDTO    `json:"backlog"`
	OrderedTasks []TaskDTO    `json:"ordered_tasks"`
	EvaluatedAt  time.Time    `json:"evaluated_at"`
}

type TaskListResponse struct {
	Tasks       []TaskDTO `json:"tasks"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

type CriticalObjectivesResponse struct {
	Objectives []ObjectiveDTO `json:"objectives"`
}

type ProfileListResponse struct {
	Profiles []ProfileDTO `json:"profiles"`
}

func mapProfileToDTO(p domain.UserProfile) ProfileDTO {
	return ProfileDTO{
		ID:        p.ID,
		Name:      p.Name,
		Email:     p.Email,
		Group:     string(p.Group),
		Company:   p.Company,
		AvatarURL: p.AvatarURL,
	}
}

func mapTaskToDTO(t domain.Task) TaskDTO {
	return TaskDTO{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		ResponsibleID: t.ResponsibleID,
		Status:        string(t.Status),
		DueDate:       t.DueDate,
		KRID:          t.KRID,
		Urgency:       string(t.Urgency),
		UrgencyRank:   t.Urgency.Rank(),
		CompletedAt:   t.CompletedAt,
	}
}

func mapTasksToDTO(tasks []domain.Task) []TaskDTO {
	out := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, mapTaskToDTO(t))
	}
	return out
}

func mapKeyResultToDTO(kr domain.KeyResult) KeyResultDTO {
	return KeyResultDTO{
		ID:            kr.ID,
		Title:         kr.Title,
		Description:   kr.Description,
		ResponsibleID: kr.ResponsibleID,
		Status:        string(kr.Status),
		DueDate:       kr.DueDate,
		Tasks:         mapTasksToDTO(kr.Tasks),
	}
}

func mapObjectiveToDTO(obj *domain.Objective) ObjectiveDTO {
	krs := make([]KeyResultDTO, 0, len(obj.KeyResults))
	for _, kr := range obj.KeyResults {
		krs = append(krs, mapKeyResultToDTO(kr))
	}

	return ObjectiveDTO{
		ID:                  obj.ID,
		Title:               obj.Title,
		Description:         obj.Description,
		Company:             obj.Company,
		Status:              string(obj.Status),
		CalculatedStatus:    string(obj.CalculatedStatus),
		DueDate:             obj.DueDate,
		ProgressWithBacklog: obj.ProgressWithBacklog,
		KRCompletionRate:    obj.KRCompletionRate,
		OpenTasksCount:      obj.OpenTasksCount,
		OverdueTasksCount:   obj.OverdueTasksCount,
		IsCritical:          obj.IsCritical,
		KeyResults:          krs,
	}
}

func mapSnapshotToResponse(snap *okr.Snapshot) ObjectiveResponse {
	return ObjectiveResponse{
		Objective:    mapObjectiveToDTO(snap.Objective),
		Backlog:      mapTasksToDTO(snap.Backlog),
		OrderedTasks: mapTasksToDTO(snap.OrderedTasks),
		EvaluatedAt:  snap.EvaluatedAt,
	}
}

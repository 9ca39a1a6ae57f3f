package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/okrhub/okrhub/internal/domain"
)

// ListProfiles retrieves the full profile roster ordered by name.
func (s *Store) ListProfiles(ctx context.Context) ([]domain.UserProfile, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, email, user_group, company, avatar_url
		FROM profiles
		ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var profiles []domain.UserProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}

	return profiles, nil
}

// FindObjectiveTree retrieves the objective with its key results plus
// every task linked to the objective. Tasks are returned flat; the
// service layer re-attaches them to key results by exact kr_id match.
// Returns domain.ErrObjectiveNotFound when the objective is absent.
func (s *Store) FindObjectiveTree(ctx context.Context, objectiveID string) (*domain.Objective, []domain.Task, error) {
	if _, err := uuid.Parse(objectiveID); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", domain.ErrInvalidID, objectiveID)
	}

	obj, err := s.findObjective(ctx, objectiveID)
	if err != nil {
		return nil, nil, err
	}

	krs, err := s.findKeyResults(ctx, objectiveID)
	if err != nil {
		return nil, nil, err
	}
	obj.KeyResults = krs

	tasks, err := s.findObjectiveTasks(ctx, objectiveID)
	if err != nil {
		return nil, nil, err
	}

	return obj, tasks, nil
}

// FindObjectiveIDs lists every objective ID, newest first.
func (s *Store) FindObjectiveIDs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id
		FROM objectives
		ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query objective ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id pgtype.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan objective id: %w", err)
		}
		ids = append(ids, pgtypeToUUIDString(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read objective ids: %w", err)
	}

	return ids, nil
}

// FindProfileByToken resolves a session bearer token to its profile.
// Unknown or expired tokens return domain.ErrUnauthorized.
func (s *Store) FindProfileByToken(ctx context.Context, token string) (*domain.UserProfile, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT p.id, p.name, p.email, p.user_group, p.company, p.avatar_url
		FROM sessions s
		JOIN profiles p ON p.id = s.profile_id
		WHERE s.token = $1
		  AND (s.expires_at IS NULL OR s.expires_at > now())`, token)

	p, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to resolve session token: %w", err)
	}

	return p, nil
}

func (s *Store) findObjective(ctx context.Context, objectiveID string) (*domain.Objective, error) {
	var (
		id            pgtype.UUID
		title         string
		description   string
		responsibleID pgtype.UUID
		coordinatorID pgtype.UUID
		company       string
		status        string
		dueDate       pgtype.Date
		createdAt     pgtype.Timestamptz
	)

	err := s.pool.QueryRow(ctx, `
		SELECT id, title, description, responsible_id,
		       coordinator_scrum_master_id, company, status, due_date, created_at
		FROM objectives
		WHERE id = $1`, objectiveID).Scan(
		&id, &title, &description, &responsibleID,
		&coordinatorID, &company, &status, &dueDate, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrObjectiveNotFound, objectiveID)
		}
		return nil, fmt.Errorf("failed to query objective: %w", err)
	}

	return &domain.Objective{
		ID:                       pgtypeToUUIDString(id),
		Title:                    title,
		Description:              description,
		ResponsibleID:            pgtypeToUUIDString(responsibleID),
		CoordinatorScrumMasterID: pgtypeToUUIDString(coordinatorID),
		Company:                  company,
		Status:                   domain.ObjectiveStatus(status),
		DueDate:                  pgtypeToCivilDatePtr(dueDate),
		CreatedAt:                pgtypeToTime(createdAt),
	}, nil
}

func (s *Store) findKeyResults(ctx context.Context, objectiveID string) ([]domain.KeyResult, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, objective_id, title, description, responsible_id,
		       due_date, status, created_at, completed_at
		FROM key_results
		WHERE objective_id = $1
		ORDER BY created_at, id`, objectiveID)
	if err != nil {
		return nil, fmt.Errorf("failed to query key results: %w", err)
	}
	defer rows.Close()

	var krs []domain.KeyResult
	for rows.Next() {
		var (
			id            pgtype.UUID
			objID         pgtype.UUID
			title         string
			description   string
			responsibleID pgtype.UUID
			dueDate       pgtype.Date
			status        string
			createdAt     pgtype.Timestamptz
			completedAt   pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &objID, &title, &description, &responsibleID,
			&dueDate, &status, &createdAt, &completedAt); err != nil {
			return nil, fmt.Errorf("failed to scan key result: %w", err)
		}
		krs = append(krs, domain.KeyResult{
			ID:            pgtypeToUUIDString(id),
			ObjectiveID:   pgtypeToUUIDString(objID),
			Title:         title,
			Description:   description,
			ResponsibleID: pgtypeToUUIDString(responsibleID),
			DueDate:       pgtypeToCivilDatePtr(dueDate),
			Status:        domain.TaskStatus(status),
			CreatedAt:     pgtypeToTime(createdAt),
			CompletedAt:   pgtypeToTimePtr(completedAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read key results: %w", err)
	}

	return krs, nil
}

func (s *Store) findObjectiveTasks(ctx context.Context, objectiveID string) ([]domain.Task, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, title, description, responsible_id, status, due_date,
		       company, objective_id, kr_id, created_at, completed_at
		FROM tasks
		WHERE objective_id = $1
		ORDER BY created_at, id`, objectiveID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var (
			id            pgtype.UUID
			title         string
			description   string
			responsibleID pgtype.UUID
			status        string
			dueDate       pgtype.Date
			company       string
			objID         pgtype.UUID
			krID          pgtype.UUID
			createdAt     pgtype.Timestamptz
			completedAt   pgtype.Timestamptz
		)
		if err := rows.Scan(&id, &title, &description, &responsibleID, &status,
			&dueDate, &company, &objID, &krID, &createdAt, &completedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, domain.Task{
			ID:            pgtypeToUUIDString(id),
			Title:         title,
			Description:   description,
			ResponsibleID: pgtypeToUUIDString(responsibleID),
			Status:        domain.TaskStatus(status),
			DueDate:       pgtypeToCivilDatePtr(dueDate),
			Company:       company,
			ObjectiveID:   pgtypeToUUIDString(objID),
			KRID:          pgtypeToUUIDStringPtr(krID),
			CreatedAt:     pgtypeToTime(createdAt),
			CompletedAt:   pgtypeToTimePtr(completedAt),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}

	return tasks, nil
}

// scanProfile scans one profile row in column order
// (id, name, email, user_group, company, avatar_url).
func scanProfile(row pgx.Row) (*domain.UserProfile, error) {
	var (
		id        pgtype.UUID
		name      string
		email     string
		userGroup string
		company   string
		avatarURL pgtype.Text
	)
	if err := row.Scan(&id, &name, &email, &userGroup, &company, &avatarURL); err != nil {
		return nil, err
	}

	return &domain.UserProfile{
		ID:        pgtypeToUUIDString(id),
		Name:      name,
		Email:     email,
		Group:     domain.UserGroup(userGroup),
		Company:   company,
		AvatarURL: pgtypeToString(avatarURL),
	}, nil
}

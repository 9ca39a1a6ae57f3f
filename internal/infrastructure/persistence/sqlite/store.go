// Package sqlite implements the persistence interfaces over a local
// SQLite database. It serves development and CI; production runs on
// the postgres store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/okrhub/okrhub/internal/application/okr"
	"github.com/okrhub/okrhub/internal/domain"
)

// Store provides the SQLite implementation of the repository
// interfaces.
type Store struct {
	db *sqlx.DB
}

var (
	_ okr.Repository      = (*Store)(nil)
	_ okr.ProfileResolver = (*Store)(nil)
)

// NewStore opens (or creates) a SQLite database at dbPath, enables WAL
// mode and foreign keys, and runs any pending schema migrations.
func NewStore(dbPath string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *Store) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

type profileRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Email     string `db:"email"`
	UserGroup string `db:"user_group"`
	Company   string `db:"company"`
	AvatarURL string `db:"avatar_url"`
}

func (r profileRow) toDomain() domain.UserProfile {
	return domain.UserProfile{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Group:     domain.UserGroup(r.UserGroup),
		Company:   r.Company,
		AvatarURL: r.AvatarURL,
	}
}

type objectiveRow struct {
	ID            string         `db:"id"`
	Title         string         `db:"title"`
	Description   string         `db:"description"`
	ResponsibleID string         `db:"responsible_id"`
	CoordinatorID string         `db:"coordinator_scrum_master_id"`
	Company       string         `db:"company"`
	Status        string         `db:"status"`
	DueDate       sql.NullString `db:"due_date"`
	CreatedAt     time.Time      `db:"created_at"`
}

type keyResultRow struct {
	ID            string         `db:"id"`
	ObjectiveID   string         `db:"objective_id"`
	Title         string         `db:"title"`
	Description   string         `db:"description"`
	ResponsibleID string         `db:"responsible_id"`
	DueDate       sql.NullString `db:"due_date"`
	Status        string         `db:"status"`
	CreatedAt     time.Time      `db:"created_at"`
	CompletedAt   sql.NullTime   `db:"completed_at"`
}

type taskRow struct {
	ID            string         `db:"id"`
	Title         string         `db:"title"`
	Description   string         `db:"description"`
	ResponsibleID string         `db:"responsible_id"`
	Status        string         `db:"status"`
	DueDate       sql.NullString `db:"due_date"`
	Company       string         `db:"company"`
	ObjectiveID   string         `db:"objective_id"`
	KRID          sql.NullString `db:"kr_id"`
	CreatedAt     time.Time      `db:"created_at"`
	CompletedAt   sql.NullTime   `db:"completed_at"`
}

// ListProfiles retrieves the full profile roster ordered by name.
func (s *Store) ListProfiles(ctx context.Context) ([]domain.UserProfile, error) {
	var rows []profileRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, name, email, user_group, company, avatar_url
		FROM profiles
		ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}

	profiles := make([]domain.UserProfile, 0, len(rows))
	for _, r := range rows {
		profiles = append(profiles, r.toDomain())
	}
	return profiles, nil
}

// FindObjectiveTree retrieves the objective with its key results plus
// every task linked to the objective. Tasks are returned flat; the
// service layer re-attaches them to key results by exact kr_id match.
func (s *Store) FindObjectiveTree(ctx context.Context, objectiveID string) (*domain.Objective, []domain.Task, error) {
	var objRow objectiveRow
	err := s.db.GetContext(ctx, &objRow, `
		SELECT id, title, description, responsible_id,
		       coordinator_scrum_master_id, company, status, due_date, created_at
		FROM objectives
		WHERE id = ?`, objectiveID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, fmt.Errorf("%w: %s", domain.ErrObjectiveNotFound, objectiveID)
		}
		return nil, nil, fmt.Errorf("failed to query objective: %w", err)
	}

	obj := &domain.Objective{
		ID:                       objRow.ID,
		Title:                    objRow.Title,
		Description:              objRow.Description,
		ResponsibleID:            objRow.ResponsibleID,
		CoordinatorScrumMasterID: objRow.CoordinatorID,
		Company:                  objRow.Company,
		Status:                   domain.ObjectiveStatus(objRow.Status),
		DueDate:                  nullStringPtr(objRow.DueDate),
		CreatedAt:                objRow.CreatedAt.UTC(),
	}

	var krRows []keyResultRow
	err = s.db.SelectContext(ctx, &krRows, `
		SELECT id, objective_id, title, description, responsible_id,
		       due_date, status, created_at, completed_at
		FROM key_results
		WHERE objective_id = ?
		ORDER BY created_at, id`, objectiveID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query key results: %w", err)
	}
	for _, r := range krRows {
		obj.KeyResults = append(obj.KeyResults, domain.KeyResult{
			ID:            r.ID,
			ObjectiveID:   r.ObjectiveID,
			Title:         r.Title,
			Description:   r.Description,
			ResponsibleID: r.ResponsibleID,
			DueDate:       nullStringPtr(r.DueDate),
			Status:        domain.TaskStatus(r.Status),
			CreatedAt:     r.CreatedAt.UTC(),
			CompletedAt:   nullTimePtr(r.CompletedAt),
		})
	}

	var taskRows []taskRow
	err = s.db.SelectContext(ctx, &taskRows, `
		SELECT id, title, description, responsible_id, status, due_date,
		       company, objective_id, kr_id, created_at, completed_at
		FROM tasks
		WHERE objective_id = ?
		ORDER BY created_at, id`, objectiveID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query tasks: %w", err)
	}

	tasks := make([]domain.Task, 0, len(taskRows))
	for _, r := range taskRows {
		tasks = append(tasks, domain.Task{
			ID:            r.ID,
			Title:         r.Title,
			Description:   r.Description,
			ResponsibleID: r.ResponsibleID,
			Status:        domain.TaskStatus(r.Status),
			DueDate:       nullStringPtr(r.DueDate),
			Company:       r.Company,
			ObjectiveID:   r.ObjectiveID,
			KRID:          nullStringPtr(r.KRID),
			CreatedAt:     r.CreatedAt.UTC(),
			CompletedAt:   nullTimePtr(r.CompletedAt),
		})
	}

	return obj, tasks, nil
}

// FindObjectiveIDs lists every objective ID, newest first.
func (s *Store) FindObjectiveIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.SelectContext(ctx, &ids, `
		SELECT id
		FROM objectives
		ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query objective ids: %w", err)
	}
	return ids, nil
}

// FindProfileByToken resolves a session bearer token to its profile.
// Unknown or expired tokens return domain.ErrUnauthorized.
func (s *Store) FindProfileByToken(ctx context.Context, token string) (*domain.UserProfile, error) {
	var r profileRow
	err := s.db.GetContext(ctx, &r, `
		SELECT p.id, p.name, p.email, p.user_group, p.company, p.avatar_url
		FROM sessions s
		JOIN profiles p ON p.id = s.profile_id
		WHERE s.token = ?
		  AND (s.expires_at IS NULL OR s.expires_at > CURRENT_TIMESTAMP)`, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to resolve session token: %w", err)
	}

	p := r.toDomain()
	return &p, nil
}

func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	utc := t.Time.UTC()
	return &utc
}

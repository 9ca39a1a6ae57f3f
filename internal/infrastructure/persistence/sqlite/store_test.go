package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okrhub/okrhub/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(filepath.Join(t.TempDir(), "okr.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func seedFixture(t *testing.T, s *Store) {
	t.Helper()

	stmts := []string{
		`INSERT INTO profiles (id, name, email, user_group, company) VALUES
			('u1', 'Ana', 'ana@acme.test', 'team_member', 'acme'),
			('u2', 'Bruno', 'bruno@acme.test', 'admin', 'acme')`,
		`INSERT INTO sessions (token, profile_id) VALUES ('tok-ana', 'u1')`,
		`INSERT INTO sessions (token, profile_id, expires_at) VALUES
			('tok-expired', 'u2', '2020-01-01 00:00:00')`,
		`INSERT INTO objectives (id, title, company, status, due_date) VALUES
			('o1', 'Ship the thing', 'acme', 'Em Progresso', '2025-06-30')`,
		`INSERT INTO key_results (id, objective_id, title, status) VALUES
			('kr1', 'o1', 'First KR', 'Em Progresso')`,
		`INSERT INTO tasks (id, title, status, due_date, company, objective_id, kr_id) VALUES
			('t1', 'assigned', 'A Fazer', '2025-06-01', 'acme', 'o1', 'kr1'),
			('t2', 'loose', 'Backlog', NULL, 'acme', 'o1', NULL)`,
	}
	for _, stmt := range stmts {
		_, err := s.db.Exec(stmt)
		require.NoError(t, err)
	}
}

func TestListProfiles(t *testing.T) {
	s := newTestStore(t)
	seedFixture(t, s)

	profiles, err := s.ListProfiles(context.Background())
	require.NoError(t, err)

	require.Len(t, profiles, 2)
	assert.Equal(t, "Ana", profiles[0].Name)
	assert.Equal(t, domain.UserGroupTeamMember, profiles[0].Group)
	assert.Equal(t, domain.UserGroupAdmin, profiles[1].Group)
}

func TestFindObjectiveTree(t *testing.T) {
	s := newTestStore(t)
	seedFixture(t, s)

	obj, tasks, err := s.FindObjectiveTree(context.Background(), "o1")
	require.NoError(t, err)

	assert.Equal(t, "Ship the thing", obj.Title)
	assert.Equal(t, domain.ObjectiveStatusInProgress, obj.Status)
	require.NotNil(t, obj.DueDate)
	assert.Equal(t, "2025-06-30", *obj.DueDate)

	require.Len(t, obj.KeyResults, 1)
	assert.Equal(t, "kr1", obj.KeyResults[0].ID)

	// Tasks come back flat, assigned and unassigned alike.
	require.Len(t, tasks, 2)
	require.NotNil(t, tasks[0].KRID)
	assert.Equal(t, "kr1", *tasks[0].KRID)
	assert.Nil(t, tasks[1].KRID)
	assert.Nil(t, tasks[1].DueDate)
}

func TestFindObjectiveTree_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, _, err := s.FindObjectiveTree(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrObjectiveNotFound)
}

func TestFindObjectiveIDs(t *testing.T) {
	s := newTestStore(t)
	seedFixture(t, s)

	ids, err := s.FindObjectiveIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"o1"}, ids)
}

func TestFindProfileByToken(t *testing.T) {
	s := newTestStore(t)
	seedFixture(t, s)

	t.Run("valid token", func(t *testing.T) {
		p, err := s.FindProfileByToken(context.Background(), "tok-ana")
		require.NoError(t, err)
		assert.Equal(t, "u1", p.ID)
		assert.Equal(t, "acme", p.Company)
	})

	t.Run("expired token", func(t *testing.T) {
		_, err := s.FindProfileByToken(context.Background(), "tok-expired")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("unknown token", func(t *testing.T) {
		_, err := s.FindProfileByToken(context.Background(), "nope")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})
}

func TestMigrationsIdempotent(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.runMigrations())

	var version int
	require.NoError(t, s.db.Get(&version, "SELECT MAX(version) FROM schema_version"))
	assert.Equal(t, 1, version)
}

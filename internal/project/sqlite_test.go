package project

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clintrovert/scopesync/pkg/types"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p := &types.Project{
		Name: "Portal",
		Jira: types.JiraCredentials{
			URL:        "https://acme.atlassian.net",
			Email:      "po@acme.com",
			APIToken:   "token",
			ProjectKey: "POR",
		},
	}
	require.NoError(t, s.Save(ctx, p))
	require.NotEmpty(t, p.ID)

	got, err := s.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Portal", got.Name)
	assert.Equal(t, p.Jira, got.Jira)
	assert.True(t, got.HasJiraConfig())
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSave_Upsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return created }
	p := &types.Project{ID: "p-1", Name: "Before"}
	require.NoError(t, s.Save(ctx, p))

	s.now = func() time.Time { return created.Add(time.Hour) }
	p.Name = "After"
	p.Jira.ProjectKey = "AFT"
	require.NoError(t, s.Save(ctx, p))

	got, err := s.Get(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "After", got.Name)
	assert.Equal(t, "AFT", got.Jira.ProjectKey)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, created.Add(time.Hour), got.UpdatedAt)
	assert.False(t, got.HasJiraConfig())

	all, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGet_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = s.Credentials(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestList_OrderedByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"Zeta", "Alpha", "Mid"} {
		require.NoError(t, s.Save(ctx, &types.Project{Name: name}))
	}

	all, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Alpha", all[0].Name)
	assert.Equal(t, "Mid", all[1].Name)
	assert.Equal(t, "Zeta", all[2].Name)
}

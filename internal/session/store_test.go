package session

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/parceltrack/console/internal/client/migrations"
	"github.com/parceltrack/console/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTokenDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "tokens.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Up(t.Context(), db))
	return db
}

func exerciseStore(t *testing.T, s Store) {
	ctx := t.Context()

	v, err := s.Get(ctx, common.AccessTokenKey)
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, s.Set(ctx, map[string]string{
		common.AccessTokenKey:  "A1",
		common.RefreshTokenKey: "R1",
	}))
	v, err = s.Get(ctx, common.AccessTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "A1", v)

	require.NoError(t, s.Set(ctx, map[string]string{common.AccessTokenKey: "A2"}))
	v, _ = s.Get(ctx, common.AccessTokenKey)
	assert.Equal(t, "A2", v)
	v, _ = s.Get(ctx, common.RefreshTokenKey)
	assert.Equal(t, "R1", v)

	require.NoError(t, s.Clear(ctx, common.AccessTokenKey, common.RefreshTokenKey, "never-set"))
	for _, k := range []string{common.AccessTokenKey, common.RefreshTokenKey} {
		v, err := s.Get(ctx, k)
		require.NoError(t, err)
		assert.Empty(t, v)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestSQLStore_Plain(t *testing.T) {
	db := openTokenDB(t)
	s, err := NewSQLStore(t.Context(), db, "")
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestSQLStore_Sealed(t *testing.T) {
	db := openTokenDB(t)
	s, err := NewSQLStore(t.Context(), db, "correct horse")
	require.NoError(t, err)
	exerciseStore(t, s)

	require.NoError(t, s.Set(t.Context(), map[string]string{common.AccessTokenKey: "A1"}))

	var raw []byte
	require.NoError(t, db.QueryRow(`SELECT value FROM metadata WHERE key = ?`, common.AccessTokenKey).Scan(&raw))
	assert.NotEqual(t, "A1", string(raw))

	again, err := NewSQLStore(t.Context(), db, "correct horse")
	require.NoError(t, err)
	v, err := again.Get(t.Context(), common.AccessTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "A1", v)

	wrong, err := NewSQLStore(t.Context(), db, "wrong secret")
	require.NoError(t, err)
	_, err = wrong.Get(t.Context(), common.AccessTokenKey)
	require.ErrorContains(t, err, "open access_token")
}

func TestSQLStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.db")
	ctx := context.Background()

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	require.NoError(t, migrations.Up(ctx, db))
	s, err := NewSQLStore(ctx, db, "")
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, map[string]string{common.RefreshTokenKey: "R1"}))
	require.NoError(t, db.Close())

	db, err = sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	s, err = NewSQLStore(ctx, db, "")
	require.NoError(t, err)

	v, err := s.Get(ctx, common.RefreshTokenKey)
	require.NoError(t, err)
	assert.Equal(t, "R1", v)
}

func TestSQLStore_ClearNothing(t *testing.T) {
	s, err := NewSQLStore(t.Context(), openTokenDB(t), "")
	require.NoError(t, err)
	require.NoError(t, s.Clear(t.Context()))
}

func TestSQLStore_UnmigratedDatabase(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = NewSQLStore(t.Context(), db, "secret")
	require.ErrorContains(t, err, "load token salt")
}

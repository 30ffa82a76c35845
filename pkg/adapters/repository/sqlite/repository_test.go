package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/go-3dnav/pkg/core/domain"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository("file:" + filepath.Join(t.TempDir(), "db.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestLinkLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	first := &domain.Link{Title: "Blender", URL: "https://blender.org", Category: "software", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateLink(ctx, first))
	assert.Equal(t, "1", first.ID)

	second := &domain.Link{Title: "Poly Haven", URL: "https://polyhaven.com", Category: "assets", Featured: true, Order: 2, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateLink(ctx, second))
	assert.Equal(t, "2", second.ID)

	got, err := repo.GetLink(ctx, "2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Poly Haven", got.Title)
	assert.True(t, got.Featured)
	assert.Equal(t, 2, got.Order)

	update := &domain.Link{ID: "1", Title: "Blender 4", URL: "https://blender.org", Category: "software", UpdatedAt: now.Add(time.Minute)}
	require.NoError(t, repo.UpdateLink(ctx, update))
	got, err = repo.GetLink(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Blender 4", got.Title)
	assert.WithinDuration(t, now, got.CreatedAt, time.Second)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))

	assert.ErrorIs(t, repo.UpdateLink(ctx, &domain.Link{ID: "999"}), domain.ErrNotFound)

	require.NoError(t, repo.DeleteLink(ctx, "1"))
	assert.ErrorIs(t, repo.DeleteLink(ctx, "1"), domain.ErrNotFound)

	links, err := repo.ListLinks(ctx)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, "2", links[0].ID)

	// Ids keep increasing past the deleted one.
	third := &domain.Link{Title: "CGTrader", URL: "https://cgtrader.com", Category: "assets", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateLink(ctx, third))
	assert.Equal(t, "3", third.ID)
}

func TestGetMissingLink(t *testing.T) {
	repo := newTestRepo(t)
	got, err := repo.GetLink(context.Background(), "42")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestUsers(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	admin := &domain.User{Email: "Admin@3dnav.top", PasswordHash: "hash", Name: "Admin", Role: domain.RoleAdmin, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateUser(ctx, admin))
	assert.NotEmpty(t, admin.ID)

	assert.ErrorIs(t, repo.CreateUser(ctx, &domain.User{Email: "admin@3dnav.top", PasswordHash: "x", Role: domain.RoleUser}), domain.ErrValidation)

	found, err := repo.FindUserByEmail(ctx, "ADMIN@3dnav.top")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, domain.RoleAdmin, found.Role)
	assert.Equal(t, "hash", found.PasswordHash)

	byRole, err := repo.FindUserByRole(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	require.NotNil(t, byRole)

	n, err := repo.DeleteUsersByRole(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	byRole, err = repo.FindUserByRole(ctx, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Nil(t, byRole)
}

func TestDump(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for _, title := range []string{"a", "b", "c"} {
		require.NoError(t, repo.CreateLink(ctx, &domain.Link{Title: title, URL: "https://" + title + ".test", Category: "tools", CreatedAt: now, UpdatedAt: now}))
	}
	require.NoError(t, repo.CreateUser(ctx, &domain.User{Email: "u@x.test", PasswordHash: "h", Role: domain.RoleUser, CreatedAt: now, UpdatedAt: now}))

	ds, err := repo.Dump(ctx)
	require.NoError(t, err)
	assert.Len(t, ds.Links, 3)
	assert.Len(t, ds.Users, 1)
	assert.Equal(t, "1", ds.Links[0].ID)
}

func TestBadURLIsDataSourceError(t *testing.T) {
	_, err := NewSQLiteRepository("file:" + filepath.Join(t.TempDir(), "missing-dir", "db.sqlite") + "?mode=ro")
	assert.ErrorIs(t, err, domain.ErrDataSource)
}

func TestImportReplacesContents(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	stale := &domain.Link{Title: "stale", URL: "https://stale.test", Category: "tools"}
	require.NoError(t, repo.CreateLink(ctx, stale))

	seed := domain.SeedDataset()
	require.NoError(t, repo.Import(ctx, seed))

	ds, err := repo.Dump(ctx)
	require.NoError(t, err)
	assert.Len(t, ds.Links, len(seed.Links))
	for _, l := range ds.Links {
		assert.NotEqual(t, "stale", l.Title)
	}

	next := &domain.Link{Title: "next", URL: "https://next.test", Category: "tools"}
	require.NoError(t, repo.CreateLink(ctx, next))
	assert.Equal(t, "11", next.ID)
}

func TestUniqueConflictsAreValidationErrors(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()

	first := &domain.Link{Title: "Blender", URL: "https://www.blender.org/", Category: "software", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateLink(ctx, first))
	second := &domain.Link{Title: "Other", URL: "https://other.test", Category: "tools", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.CreateLink(ctx, second))

	dup := &domain.Link{Title: "Again", URL: "https://www.blender.org/", Category: "software", CreatedAt: now, UpdatedAt: now}
	err := repo.CreateLink(ctx, dup)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.NotErrorIs(t, err, domain.ErrDataSource)

	second.URL = first.URL
	err = repo.UpdateLink(ctx, second)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.NotErrorIs(t, err, domain.ErrDataSource)

	// A racing insert that slips past the lookup still hits the unique index.
	_, err = repo.db.ExecContext(ctx, `INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		"u1", "a@example.com", "h", "", "admin", now, now)
	require.NoError(t, err)
	_, err = repo.db.ExecContext(ctx, `INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		"u2", "a@example.com", "h", "", "admin", now, now)
	require.Error(t, err)
	classified := writeErr("insert user", "email", err)
	assert.ErrorIs(t, classified, domain.ErrValidation)
	assert.NotErrorIs(t, classified, domain.ErrDataSource)
}

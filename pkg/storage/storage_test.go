package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seed(t *testing.T, db *DB) (Project, Page, []Test) {
	t.Helper()
	ctx := context.Background()
	p, err := db.CreateProject(ctx, "Docs site")
	require.NoError(t, err)
	page, created, err := db.CreatePage(ctx, p.ID, "https://Example.com/about/", "About")
	require.NoError(t, err)
	require.True(t, created)
	_, err = db.UpsertTests(ctx, []TestItem{{Name: "7.images-alt"}, {Name: "7.color-only"}, {Name: "11.page-title"}})
	require.NoError(t, err)
	tests, err := db.ListTests(ctx)
	require.NoError(t, err)
	return p, page, tests
}

func TestProjects(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	p, err := db.CreateProject(ctx, "  Marketing  ")
	require.NoError(t, err)
	assert.Equal(t, "Marketing", p.Name)

	got, err := db.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = db.GetProject(ctx, 999)
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = db.CreateProject(ctx, " ")
	assert.Error(t, err)

	all, err := db.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPages(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	p, page, _ := seed(t, db)

	assert.Equal(t, "https://example.com/about", page.URL)
	assert.Equal(t, "About", page.Title)

	again, created, err := db.CreatePage(ctx, p.ID, "example.com/about#team", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, page.ID, again.ID)

	_, _, err = db.CreatePage(ctx, 42, "https://example.com", "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = db.CreatePage(ctx, p.ID, "ftp://example.com/file", "")
	assert.Error(t, err)

	pages, err := db.ListPages(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, pages, 1)

	_, err = db.GetPage(ctx, 1234)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpsertTests_SkipsExisting(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	added, err := db.UpsertTests(ctx, []TestItem{{Name: "1.keyboard", Description: "All functionality via keyboard"}, {Name: " "}})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	added, err = db.UpsertTests(ctx, []TestItem{{Name: "1.keyboard"}, {Name: "2.focus"}})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	tests, err := db.ListTests(ctx)
	require.NoError(t, err)
	require.Len(t, tests, 2)
	assert.Equal(t, "All functionality via keyboard", tests[0].Description)

	_, err = db.CreateTest(ctx, "2.focus", "")
	assert.Error(t, err)

	_, err = db.GetTest(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateResult_AppendsHistory(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_, page, tests := seed(t, db)

	first, err := db.CreateResult(ctx, page.ID, tests[0].ID, Pass)
	require.NoError(t, err)
	second, err := db.CreateResult(ctx, page.ID, tests[0].ID, Fail)
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	history, err := db.ListResults(ctx, page.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, Pass, history[0].Value)
	assert.Equal(t, Fail, history[1].Value)

	_, err = db.CreateResult(ctx, page.ID, tests[0].ID, ResultValue("MAYBE"))
	assert.Error(t, err)

	_, err = db.CreateResult(ctx, page.ID, 9999, Pass)
	assert.Error(t, err, "foreign key must reject unknown tests")

	history, err = db.ListResults(ctx, page.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestLatestResults_DistinctByTest(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	p, page, tests := seed(t, db)
	other, _, err := db.CreatePage(ctx, p.ID, "https://example.com/contact", "")
	require.NoError(t, err)

	mustResult := func(pageID, testID int64, v ResultValue) {
		_, err := db.CreateResult(ctx, pageID, testID, v)
		require.NoError(t, err)
	}
	mustResult(page.ID, tests[0].ID, Pass)
	mustResult(page.ID, tests[1].ID, Pass)
	mustResult(page.ID, tests[0].ID, Fail)
	mustResult(other.ID, tests[0].ID, Pass)

	latest, err := db.LatestResults(ctx, page.ID)
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, tests[0].ID, latest[0].TestID)
	assert.Equal(t, Fail, latest[0].Value)
	assert.Equal(t, tests[1].ID, latest[1].TestID)

	byPage, err := db.LatestResultsByProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, byPage[page.ID], 2)
	assert.Len(t, byPage[other.ID], 1)

	stats, err := db.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, Stats{Projects: 1, Pages: 2, Tests: 3, Results: 4}, stats)
}

func TestCreateResult_TouchesPage(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_, page, tests := seed(t, db)

	later := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)
	db.now = func() time.Time { return later }

	_, err := db.CreateResult(ctx, page.ID, tests[0].ID, Pass)
	require.NoError(t, err)

	got, err := db.GetPage(ctx, page.ID)
	require.NoError(t, err)
	assert.True(t, got.UpdatedAt.Equal(later), "updated_at = %s", got.UpdatedAt)
}

func TestCreateResult_RollsBackWhenPageUpdateFails(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	_, page, tests := seed(t, db)

	_, err := db.sql.ExecContext(ctx, `CREATE TRIGGER pages_readonly BEFORE UPDATE ON pages
BEGIN
  SELECT RAISE(ABORT, 'pages are read-only');
END`)
	require.NoError(t, err)

	_, err = db.CreateResult(ctx, page.ID, tests[0].ID, Fail)
	require.Error(t, err)

	history, err := db.ListResults(ctx, page.ID)
	require.NoError(t, err)
	assert.Empty(t, history)

	_, err = db.sql.ExecContext(ctx, "DROP TRIGGER pages_readonly")
	require.NoError(t, err)

	_, err = db.CreateResult(ctx, page.ID, tests[0].ID, Fail)
	require.NoError(t, err)
	history, err = db.ListResults(ctx, page.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestParseResultValue(t *testing.T) {
	v, err := ParseResultValue("pass")
	require.NoError(t, err)
	assert.Equal(t, Pass, v)

	v, err = ParseResultValue(" FAIL ")
	require.NoError(t, err)
	assert.Equal(t, Fail, v)

	_, err = ParseResultValue("skip")
	assert.ErrorIs(t, err, ErrInvalid)
}

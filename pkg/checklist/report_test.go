package checklist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	other, _, err := f.db.CreatePage(ctx, f.page.ProjectID, "https://example.com/about", "About")
	require.NoError(t, err)
	for _, name := range []string{"7.images-alt", "7.color-only", "11.page-title"} {
		_, err := f.svc.Submit(ctx, f.page.ID, f.tests[name].ID, "pass")
		require.NoError(t, err)
	}
	_, err = f.svc.Submit(ctx, other.ID, f.tests["11.page-title"].ID, "fail")
	require.NoError(t, err)

	r, err := Report(ctx, f.db, f.page.ProjectID)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Summary.Total)
	assert.Equal(t, 1, r.Summary.Passing)
	assert.Equal(t, 1, r.Summary.InProgress)
	assert.Equal(t, 0, r.Summary.Unchecked)

	require.Len(t, r.Pages, 2)
	assert.Equal(t, 3, r.Pages[0].Passing)
	assert.Equal(t, 0, r.Pages[0].Pending)
	assert.Equal(t, 1, r.Pages[1].Failing)
	assert.Equal(t, 2, r.Pages[1].Pending)

	_, err = Report(ctx, f.db, 999)
	assert.True(t, IsNotFound(err))
}

func TestProjectSummaries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.db.CreateProject(ctx, "Empty")
	require.NoError(t, err)

	all, err := ProjectSummaries(ctx, f.db)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Site", all[0].Project.Name)
	assert.Equal(t, 1, all[0].Total)
	assert.Equal(t, 1, all[0].Unchecked)
	assert.Equal(t, "Empty", all[1].Project.Name)
	assert.Equal(t, 0, all[1].Total)
}

package checklist

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sw33tLie/a11yscope/pkg/storage"
)

// ReportStore is the read surface needed for project and page summaries.
type ReportStore interface {
	GetProject(ctx context.Context, id int64) (storage.Project, error)
	ListProjects(ctx context.Context) ([]storage.Project, error)
	ListPages(ctx context.Context, projectID int64) ([]storage.Page, error)
	ListTests(ctx context.Context) ([]storage.Test, error)
	LatestResultsByProject(ctx context.Context, projectID int64) (map[int64][]storage.Result, error)
}

// ProjectReport is a project with one summary per page.
type ProjectReport struct {
	Summary ProjectSummary `json:"summary"`
	Pages   []PageSummary  `json:"pages"`
}

// ProjectSummaries summarizes every project in creation order.
func ProjectSummaries(ctx context.Context, st ReportStore) ([]ProjectSummary, error) {
	projects, err := st.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	tests, err := st.ListTests(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]ProjectSummary, len(projects))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, p := range projects {
		g.Go(func() error {
			pages, latest, err := projectData(gctx, st, p.ID)
			if err != nil {
				return err
			}
			out[i] = SummarizeProject(p, pages, latest, len(tests))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Report summarizes one project and each of its pages.
func Report(ctx context.Context, st ReportStore, projectID int64) (*ProjectReport, error) {
	project, err := st.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tests, err := st.ListTests(ctx)
	if err != nil {
		return nil, err
	}
	pages, latest, err := projectData(ctx, st, projectID)
	if err != nil {
		return nil, err
	}

	r := &ProjectReport{
		Summary: SummarizeProject(project, pages, latest, len(tests)),
		Pages:   make([]PageSummary, 0, len(pages)),
	}
	for _, p := range pages {
		r.Pages = append(r.Pages, SummarizePage(p, latest[p.ID], len(tests)))
	}
	return r, nil
}

func projectData(ctx context.Context, st ReportStore, projectID int64) ([]storage.Page, map[int64][]storage.Result, error) {
	pages, err := st.ListPages(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	latest, err := st.LatestResultsByProject(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	return pages, latest, nil
}

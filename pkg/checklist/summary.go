package checklist

import (
	"time"

	"github.com/sw33tLie/a11yscope/pkg/storage"
)

// PageSummary counts the current status of every test on a page.
type PageSummary struct {
	Page      storage.Page `json:"page"`
	Passing   int          `json:"passing"`
	Failing   int          `json:"failing"`
	Pending   int          `json:"pending"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// SummarizePage builds a summary from the page's latest result per test.
func SummarizePage(page storage.Page, latest []storage.Result, totalTests int) PageSummary {
	s := PageSummary{Page: page, UpdatedAt: page.UpdatedAt}
	var newest time.Time
	for _, r := range latest {
		switch r.Value {
		case storage.Pass:
			s.Passing++
		case storage.Fail:
			s.Failing++
		}
		if r.CreatedAt.After(newest) {
			newest = r.CreatedAt
		}
	}
	if !newest.IsZero() {
		s.UpdatedAt = newest
	}
	if s.Pending = totalTests - len(latest); s.Pending < 0 {
		s.Pending = 0
	}
	return s
}

// ProjectSummary counts pages of a project by review progress.
type ProjectSummary struct {
	Project    storage.Project `json:"project"`
	Total      int             `json:"total"`
	Unchecked  int             `json:"unchecked"`
	InProgress int             `json:"in_progress"`
	Passing    int             `json:"passing"`
	Failing    int             `json:"failing"`
}

// SummarizeProject classifies each page: unchecked has no results, in
// progress has results for only some tests, passing and failing have every
// test passing or failing respectively.
func SummarizeProject(project storage.Project, pages []storage.Page, latestByPage map[int64][]storage.Result, totalTests int) ProjectSummary {
	s := ProjectSummary{Project: project, Total: len(pages)}
	for _, p := range pages {
		latest := latestByPage[p.ID]
		if len(latest) == 0 {
			s.Unchecked++
			continue
		}
		if len(latest) < totalTests {
			s.InProgress++
		}
		if totalTests == 0 {
			continue
		}
		ps := SummarizePage(p, latest, totalTests)
		if ps.Passing == totalTests {
			s.Passing++
		}
		if ps.Failing == totalTests {
			s.Failing++
		}
	}
	return s
}

package checklist

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"golang.org/x/sync/errgroup"

	"github.com/sw33tLie/a11yscope/pkg/catalog"
	"github.com/sw33tLie/a11yscope/pkg/storage"
)

// IsNotFound reports whether err signals a missing page, test, project or
// document.
func IsNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound) || errors.Is(err, catalog.ErrNotFound)
}

// Store is the persistence surface used by the checklist. *storage.DB
// satisfies it.
type Store interface {
	GetPage(ctx context.Context, id int64) (storage.Page, error)
	GetTest(ctx context.Context, id int64) (storage.Test, error)
	ListTests(ctx context.Context) ([]storage.Test, error)
	ListResults(ctx context.Context, pageID int64) ([]storage.Result, error)
	CreateResult(ctx context.Context, pageID, testID int64, value storage.ResultValue) (storage.Result, error)
}

// Service builds checklist views over a store and a document set.
type Service struct {
	DB      Store
	Content fs.FS
	Dir     string
	Log     catalog.Logger
}

// Item is one test of the active document with its current status.
type Item struct {
	Test   storage.Test    `json:"test"`
	Status Status          `json:"status"`
	Latest *storage.Result `json:"latest,omitempty"`
}

// View is everything needed to render a page's checklist for one document.
type View struct {
	Page   storage.Page    `json:"page"`
	Links  []catalog.Entry `json:"links"`
	Active catalog.Entry   `json:"active"`
	Items  []Item          `json:"items"`
}

// Catalog loads a fresh catalog snapshot.
func (s *Service) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	l := &catalog.Loader{FS: s.Content, Dir: s.Dir, Log: s.Log}
	c, err := l.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return c, nil
}

// Document returns the catalog entry for slug and its body.
func (s *Service) Document(ctx context.Context, slug string) (catalog.Entry, string, error) {
	c, err := s.Catalog(ctx)
	if err != nil {
		return catalog.Entry{}, "", err
	}
	e, err := c.Find(slug)
	if err != nil {
		return catalog.Entry{}, "", err
	}
	body, err := catalog.ReadBody(s.Content, e)
	if err != nil {
		return catalog.Entry{}, "", err
	}
	return e, body, nil
}

// View loads the checklist of pageID for the document named by slug. An
// empty slug selects the first document in navigation order. The page, the
// catalog, the test list and the page history are read concurrently.
func (s *Service) View(ctx context.Context, pageID int64, slug string) (*View, error) {
	var (
		page    storage.Page
		cat     *catalog.Catalog
		tests   []storage.Test
		history []storage.Result
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		page, err = s.DB.GetPage(gctx, pageID)
		return err
	})
	g.Go(func() (err error) {
		cat, err = s.Catalog(gctx)
		return err
	})
	g.Go(func() (err error) {
		tests, err = s.DB.ListTests(gctx)
		return err
	})
	g.Go(func() (err error) {
		history, err = s.DB.ListResults(gctx, pageID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var (
		active catalog.Entry
		err    error
	)
	if slug == "" {
		active, err = cat.First()
	} else {
		active, err = cat.Find(slug)
	}
	if err != nil {
		return nil, err
	}

	matched := catalog.MatchTests(active.Slug, tests)
	items := make([]Item, 0, len(matched))
	for _, t := range matched {
		item := Item{Test: t, Status: Pending}
		if r, ok := LatestResult(history, t.ID); ok {
			item.Status = statusOf(r.Value)
			item.Latest = &r
		}
		items = append(items, item)
	}

	return &View{Page: page, Links: cat.Entries, Active: active, Items: items}, nil
}

// Submit records one result for a test on a page. Every call appends a new
// row; earlier rows stay untouched.
func (s *Service) Submit(ctx context.Context, pageID, testID int64, value string) (storage.Result, error) {
	v, err := storage.ParseResultValue(value)
	if err != nil {
		return storage.Result{}, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := s.DB.GetPage(gctx, pageID)
		return err
	})
	g.Go(func() error {
		_, err := s.DB.GetTest(gctx, testID)
		return err
	})
	if err := g.Wait(); err != nil {
		return storage.Result{}, err
	}

	return s.DB.CreateResult(ctx, pageID, testID, v)
}

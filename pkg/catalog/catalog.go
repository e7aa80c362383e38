// Package catalog loads the reference document set that backs the test
// checklist: it reads each document's front matter, assigns URL slugs,
// orders the result for navigation, and matches tests to documents.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

// ErrNotFound is returned when a slug does not name any catalog entry.
var ErrNotFound = errors.New("catalog entry not found")

// Logger abstracts logging so callers can pass logrus or anything else
// that satisfies it.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Entry is one navigable document of a catalog snapshot.
type Entry struct {
	SourcePath string `json:"source_path"`
	Slug       string `json:"slug"`
	Title      string `json:"title"`
	// Order is the effective display rank. It equals DefaultOrder when the
	// document does not carry a usable order.
	Order    int  `json:"order"`
	OrderSet bool `json:"order_set"`
}

// Catalog is an ordered snapshot of entries. It is computed fresh on every
// load and never persisted.
type Catalog struct {
	Entries []Entry `json:"entries"`
}

// Find returns the entry with the given slug.
func (c *Catalog) Find(slug string) (Entry, error) {
	for _, e := range c.Entries {
		if e.Slug == slug {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, slug)
}

// First returns the first entry in navigation order.
func (c *Catalog) First() (Entry, error) {
	if len(c.Entries) == 0 {
		return Entry{}, fmt.Errorf("%w: catalog is empty", ErrNotFound)
	}
	return c.Entries[0], nil
}

// Load reads every document under dir in fsys and returns the ordered
// catalog. Each call uses its own Slugger, so concurrent loads never share
// disambiguation state. Front matter problems are reported to log; a nil
// log discards them.
func Load(ctx context.Context, fsys fs.FS, dir string, log Logger) (*Catalog, error) {
	return (&Loader{FS: fsys, Dir: dir, Log: log}).Load(ctx)
}

// Build turns loaded documents into an ordered catalog. Slugs are issued in
// document order before sorting.
func Build(docs []Document) *Catalog {
	slugger := NewSlugger()
	entries := make([]Entry, 0, len(docs))
	for _, d := range docs {
		e := Entry{
			SourcePath: d.SourcePath,
			Slug:       slugger.Slug(d.FrontMatter.Title),
			Title:      d.FrontMatter.Title,
			Order:      DefaultOrder,
		}
		if d.FrontMatter.Order != nil {
			e.Order = *d.FrontMatter.Order
			e.OrderSet = true
		}
		entries = append(entries, e)
	}
	SortEntries(entries)
	return &Catalog{Entries: entries}
}

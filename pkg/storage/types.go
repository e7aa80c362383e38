package storage

import (
	"fmt"
	"strings"
	"time"
)

// Project groups the pages under test.
type Project struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Page is a single URL belonging to exactly one project.
type Page struct {
	ID        int64     `json:"id"`
	ProjectID int64     `json:"project_id"`
	URL       string    `json:"url"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Test is a named accessibility check, e.g. "7.images-alt".
type Test struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TestName lets tests be matched against catalog entries.
func (t Test) TestName() string { return t.Name }

// ResultValue is the outcome of one test run on a page.
type ResultValue string

const (
	Pass ResultValue = "PASS"
	Fail ResultValue = "FAIL"
)

// ParseResultValue accepts "pass" or "fail" in any case.
func ParseResultValue(s string) (ResultValue, error) {
	switch ResultValue(strings.ToUpper(strings.TrimSpace(s))) {
	case Pass:
		return Pass, nil
	case Fail:
		return Fail, nil
	}
	return "", fmt.Errorf("%w: result value %q (want pass or fail)", ErrInvalid, s)
}

// Result is one append-only history row. The latest row for a
// (page, test) pair is its current status.
type Result struct {
	ID        int64       `json:"id"`
	TestID    int64       `json:"test_id"`
	PageID    int64       `json:"page_id"`
	Value     ResultValue `json:"value"`
	CreatedAt time.Time   `json:"created_at"`
}

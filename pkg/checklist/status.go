// Package checklist assembles the per-page test checklist: the ordered
// document catalog, the tests matched to the active document, and the
// current status of each test on the page.
package checklist

import "github.com/sw33tLie/a11yscope/pkg/storage"

// Status is the current outcome of a test on a page.
type Status string

const (
	Pending Status = "pending"
	Passing Status = "pass"
	Failing Status = "fail"
)

func statusOf(v storage.ResultValue) Status {
	if v == storage.Pass {
		return Passing
	}
	return Failing
}

// LatestResult returns the last entry of history for testID. history must
// be in creation order. ok is false when the test has no result yet.
func LatestResult(history []storage.Result, testID int64) (latest storage.Result, ok bool) {
	for _, r := range history {
		if r.TestID == testID {
			latest, ok = r, true
		}
	}
	return latest, ok
}

// ResolveStatus returns the status of testID given a page's history in
// creation order. A test without results is Pending.
func ResolveStatus(history []storage.Result, testID int64) Status {
	r, ok := LatestResult(history, testID)
	if !ok {
		return Pending
	}
	return statusOf(r.Value)
}

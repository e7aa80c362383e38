package catalog

import "strings"

// Named is anything carrying a test name of the form "<chapter>.<rest>".
type Named interface {
	TestName() string
}

// ChapterOfSlug returns the slug text before its first hyphen.
func ChapterOfSlug(slug string) string {
	chapter, _, _ := strings.Cut(slug, "-")
	return chapter
}

// ChapterOfTest returns the test name text before its first dot.
func ChapterOfTest(name string) string {
	chapter, _, _ := strings.Cut(name, ".")
	return chapter
}

// MatchTests returns the tests sharing a chapter with slug, for example
// test "7.images-alt" and slug "7-sensory-characteristics". The result is
// never nil.
func MatchTests[T Named](slug string, tests []T) []T {
	chapter := ChapterOfSlug(slug)
	out := make([]T, 0)
	for _, t := range tests {
		if ChapterOfTest(t.TestName()) == chapter {
			out = append(out, t)
		}
	}
	return out
}

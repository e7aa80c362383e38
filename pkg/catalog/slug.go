package catalog

import (
	"strconv"
	"strings"
	"unicode"
)

// Normalize turns a title into its base slug: lower-cased, letters, digits
// and hyphens kept, whitespace runs joined by a single hyphen, everything
// else dropped, and leading or trailing hyphens trimmed.
func Normalize(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Trim(strings.Join(strings.Fields(b.String()), "-"), "-")
}

// Slugger issues slugs that are unique within one batch. The zero value is
// not usable; create one per batch with NewSlugger.
type Slugger struct {
	seen map[string]bool
}

func NewSlugger() *Slugger {
	return &Slugger{seen: make(map[string]bool)}
}

// Slug returns the normalized title, suffixed with -1, -2, ... when an
// earlier call in the same batch already issued it.
func (s *Slugger) Slug(title string) string {
	base := Normalize(title)
	slug := base
	for n := 1; s.seen[slug]; n++ {
		slug = base + "-" + strconv.Itoa(n)
	}
	s.seen[slug] = true
	return slug
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(frontMatter string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte("---\n" + frontMatter + "\n---\n\n# Body\n\ntext\n")}
}

type recordingLogger struct {
	nopLogger
	warnings []string
}

func (r *recordingLogger) Warnf(format string, args ...interface{}) {
	r.warnings = append(r.warnings, fmt.Sprintf(format, args...))
}

func slugs(c *Catalog) []string {
	out := make([]string, 0, len(c.Entries))
	for _, e := range c.Entries {
		out = append(out, e.Slug)
	}
	return out
}

func TestLoad_OrdersByFrontMatter(t *testing.T) {
	fsys := fstest.MapFS{
		"content/01Keyboard.mdx":    doc("title: 1. Keyboard Accessible\norder: 2"),
		"content/02Focus.mdx":       doc("title: 2. Focus Visible\norder: 3"),
		"content/introduction.mdx":  doc("title: Introduction\norder: 1"),
		"content/AppendixA.md":      doc("title: Appendix A"),
		"content/notes.txt":         {Data: []byte("ignored")},
		"content/nested/Skip.md":    doc("title: Nested"),
		"content/07Sensory.mdx":     doc("title: 7. Sensory Characteristics\norder: 8"),
		"content/ChangeLog3.mdx":    doc("title: Change Log\norder: 1000"),
		"content/99Placeholder.mdx": doc("title: Placeholder\norder: 999"),
	}

	c, err := Load(context.Background(), fsys, "content", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"introduction",
		"1-keyboard-accessible",
		"2-focus-visible",
		"7-sensory-characteristics",
		"placeholder",
		"appendix-a",
		"change-log",
	}, slugs(c))

	intro, err := c.Find("introduction")
	require.NoError(t, err)
	assert.Equal(t, "content/introduction.mdx", intro.SourcePath)
	assert.Equal(t, "Introduction", intro.Title)

	appendix, err := c.Find("appendix-a")
	require.NoError(t, err)
	assert.False(t, appendix.OrderSet)
	assert.Equal(t, DefaultOrder, appendix.Order)
}

func TestLoad_EqualOrdersKeepEnumerationOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"a.md": doc("title: Alpha\norder: 5"),
		"b.md": doc("title: Beta\norder: 5"),
		"c.md": doc("title: Gamma\norder: 1"),
		"d.md": doc("title: Delta\norder: 5"),
	}

	c, err := Load(context.Background(), fsys, ".", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"gamma", "alpha", "beta", "delta"}, slugs(c))
}

func TestLoad_MissingOrderSortsAsDefault(t *testing.T) {
	fsys := fstest.MapFS{
		"a.md": doc("title: Unordered"),
		"b.md": doc("title: Explicit Default\norder: 1000"),
		"c.md": doc("title: Late\norder: 1001"),
		"d.md": doc("title: Word Order\norder: soon"),
		"e.md": doc("title: Quoted Order\norder: \"3\""),
	}

	c, err := Load(context.Background(), fsys, ".", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"unordered", "explicit-default", "word-order", "quoted-order", "late"}, slugs(c))
}

func TestLoad_MalformedFrontMatterDegrades(t *testing.T) {
	fsys := fstest.MapFS{
		"a.md": doc("title: First\norder: 1"),
		"b.md": {Data: []byte("# no front matter\n")},
		"c.md": doc("title: [unclosed"),
		"d.md": {Data: []byte("---\ntitle: never closed\n")},
	}

	c, err := Load(context.Background(), fsys, ".", nil)
	require.NoError(t, err)
	require.Len(t, c.Entries, 4)

	assert.Equal(t, "first", c.Entries[0].Slug)
	// Degenerate documents keep enumeration order and share the empty base.
	assert.Equal(t, []string{"first", "", "-1", "-2"}, slugs(c))
	for _, e := range c.Entries[1:] {
		assert.Empty(t, e.Title)
		assert.False(t, e.OrderSet)
	}
}

func TestLoad_WarnsThroughLogger(t *testing.T) {
	fsys := fstest.MapFS{
		"a.md": doc("title: First"),
		"b.md": {Data: []byte("# no front matter\n")},
		"c.md": doc("title: [unclosed"),
	}

	log := &recordingLogger{}
	c, err := Load(context.Background(), fsys, ".", log)
	require.NoError(t, err)
	require.Len(t, c.Entries, 3)
	require.Len(t, log.warnings, 2)
	assert.Contains(t, log.warnings[0], "b.md")
	assert.Contains(t, log.warnings[1], "c.md")
}

func TestLoad_FloatOrder(t *testing.T) {
	fsys := fstest.MapFS{
		"a.md": doc("title: Whole\norder: 2.0"),
		"b.md": doc("title: Fraction\norder: 1.5"),
	}

	c, err := Load(context.Background(), fsys, ".", nil)
	require.NoError(t, err)

	whole, err := c.Find("whole")
	require.NoError(t, err)
	assert.True(t, whole.OrderSet)
	assert.Equal(t, 2, whole.Order)

	fraction, err := c.Find("fraction")
	require.NoError(t, err)
	assert.False(t, fraction.OrderSet)
}

func TestLoad_MissingDirFails(t *testing.T) {
	_, err := Load(context.Background(), fstest.MapFS{}, "nope", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

type failingFS struct {
	fstest.MapFS
	bad string
}

func (f failingFS) Open(name string) (fs.File, error) {
	if name == f.bad {
		return nil, fs.ErrPermission
	}
	return f.MapFS.Open(name)
}

func TestLoad_FileReadFailureFailsBatch(t *testing.T) {
	fsys := failingFS{
		MapFS: fstest.MapFS{
			"a.md": doc("title: A"),
			"b.md": doc("title: B"),
		},
		bad: "b.md",
	}

	_, err := Load(context.Background(), fsys, ".", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrPermission)
}

func TestLoad_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, fstest.MapFS{"a.md": doc("title: A")}, ".", nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCatalog_FindUnknownSlug(t *testing.T) {
	c := Build([]Document{{SourcePath: "a.md", FrontMatter: FrontMatter{Title: "A"}}})

	_, err := c.Find("b")
	assert.ErrorIs(t, err, ErrNotFound)

	first, err := c.First()
	require.NoError(t, err)
	assert.Equal(t, "a", first.Slug)

	_, err = (&Catalog{}).First()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReadBody_StripsFrontMatter(t *testing.T) {
	fsys := fstest.MapFS{
		"a.md": doc("title: A"),
		"b.md": {Data: []byte("plain body\n")},
	}

	body, err := ReadBody(fsys, Entry{SourcePath: "a.md"})
	require.NoError(t, err)
	assert.Equal(t, "# Body\n\ntext\n", body)

	body, err = ReadBody(fsys, Entry{SourcePath: "b.md"})
	require.NoError(t, err)
	assert.Equal(t, "plain body\n", body)

	_, err = ReadBody(fsys, Entry{SourcePath: "c.md"})
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

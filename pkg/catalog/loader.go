package catalog

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

const frontMatterFence = "---"

// documentExts are the file extensions treated as catalog documents.
var documentExts = map[string]bool{
	".md":  true,
	".mdx": true,
}

// FrontMatter is the metadata schema consumed by the catalog.
type FrontMatter struct {
	Title string
	Order *int
}

// Document pairs a source file with its parsed front matter.
type Document struct {
	SourcePath  string
	FrontMatter FrontMatter
}

// Loader discovers documents in a directory of an fs.FS.
type Loader struct {
	FS  fs.FS
	Dir string
	Log Logger
}

func (l *Loader) log() Logger {
	if l.Log == nil {
		return nopLogger{}
	}
	return l.Log
}

// Load returns the ordered catalog for the loader's directory.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	docs, err := l.Documents(ctx)
	if err != nil {
		return nil, err
	}
	return Build(docs), nil
}

// Documents reads the front matter of every document in enumeration
// order. Malformed front matter degrades to an empty title; read errors
// fail the whole batch.
func (l *Loader) Documents(ctx context.Context) ([]Document, error) {
	dir := l.Dir
	if dir == "" {
		dir = "."
	}
	entries, err := fs.ReadDir(l.FS, dir)
	if err != nil {
		return nil, fmt.Errorf("read content dir %s: %w", dir, err)
	}

	docs := make([]Document, 0, len(entries))
	for _, de := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if de.IsDir() || !documentExts[strings.ToLower(path.Ext(de.Name()))] {
			continue
		}
		p := path.Join(dir, de.Name())
		fm, err := l.readFrontMatter(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{SourcePath: p, FrontMatter: fm})
	}
	return docs, nil
}

func (l *Loader) readFrontMatter(p string) (FrontMatter, error) {
	f, err := l.FS.Open(p)
	if err != nil {
		return FrontMatter{}, fmt.Errorf("open %s: %w", p, err)
	}
	defer f.Close()

	block, ok, err := scanFrontMatter(bufio.NewReader(f))
	if err != nil {
		return FrontMatter{}, fmt.Errorf("read %s: %w", p, err)
	}
	if !ok {
		l.log().Warnf("%s: no front matter, using empty title", p)
		return FrontMatter{}, nil
	}
	fm, err := parseFrontMatter(block, p, l.log())
	if err != nil {
		l.log().Warnf("%s: malformed front matter, using empty title: %v", p, err)
		return FrontMatter{}, nil
	}
	return fm, nil
}

// scanFrontMatter reads lines up to the closing fence only. ok is false
// when the document does not open with a fence or never closes it.
func scanFrontMatter(r *bufio.Reader) (block []byte, ok bool, err error) {
	var buf bytes.Buffer
	first := true
	for {
		line, rerr := r.ReadString('\n')
		if rerr != nil && !errors.Is(rerr, io.EOF) {
			return nil, false, rerr
		}
		trimmed := strings.TrimRight(line, " \t\r\n")
		if first {
			trimmed = strings.TrimPrefix(trimmed, "\ufeff")
			if trimmed != frontMatterFence {
				return nil, false, nil
			}
			first = false
		} else if trimmed == frontMatterFence || trimmed == "..." {
			return buf.Bytes(), true, nil
		} else {
			buf.WriteString(line)
		}
		if errors.Is(rerr, io.EOF) {
			return nil, false, nil
		}
	}
}

type rawFrontMatter struct {
	Title yaml.Node `yaml:"title"`
	Order yaml.Node `yaml:"order"`
}

func parseFrontMatter(block []byte, p string, log Logger) (FrontMatter, error) {
	var raw rawFrontMatter
	if err := yaml.Unmarshal(block, &raw); err != nil {
		return FrontMatter{}, err
	}

	var fm FrontMatter
	switch {
	case raw.Title.Kind == 0, raw.Title.ShortTag() == "!!null":
	case raw.Title.Kind == yaml.ScalarNode:
		fm.Title = raw.Title.Value
	default:
		log.Warnf("%s: title is not a scalar, using empty title", p)
	}

	if raw.Order.Kind != 0 {
		if order, ok := orderValue(&raw.Order); ok {
			fm.Order = &order
		} else {
			log.Debugf("%s: ignoring non-numeric order %q", p, raw.Order.Value)
		}
	}
	return fm, nil
}

// orderValue accepts YAML integers and integral floats. Strings are never
// converted.
func orderValue(n *yaml.Node) (int, bool) {
	if n.Kind != yaml.ScalarNode {
		return 0, false
	}
	switch n.ShortTag() {
	case "!!int":
		var i int
		if err := n.Decode(&i); err != nil {
			return 0, false
		}
		return i, true
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return 0, false
		}
		if math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
			return 0, false
		}
		return int(f), true
	}
	return 0, false
}

// ReadBody returns the document content following its front matter. The
// body is opaque to the catalog.
func ReadBody(fsys fs.FS, e Entry) (string, error) {
	data, err := fs.ReadFile(fsys, e.SourcePath)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", e.SourcePath, err)
	}
	return stripFrontMatter(string(data)), nil
}

func stripFrontMatter(s string) string {
	rest := strings.TrimPrefix(s, "\ufeff")
	firstNL := strings.IndexByte(rest, '\n')
	if firstNL < 0 || strings.TrimRight(rest[:firstNL], " \t\r") != frontMatterFence {
		return s
	}
	rest = rest[firstNL+1:]
	for len(rest) > 0 {
		nl := strings.IndexByte(rest, '\n')
		line, next := rest, ""
		if nl >= 0 {
			line, next = rest[:nl], rest[nl+1:]
		}
		if t := strings.TrimRight(line, " \t\r"); t == frontMatterFence || t == "..." {
			return strings.TrimLeft(next, "\r\n")
		}
		rest = next
	}
	return s
}

// Package testsuite reads test definitions from JSON documents.
package testsuite

import (
	"errors"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/sw33tLie/a11yscope/pkg/storage"
)

var ErrInvalidJSON = errors.New("invalid test definition JSON")

// Definition is one named test, e.g. "7.images-alt".
type Definition struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Parse accepts either a top-level array or an object with a "tests" array.
// Elements may be plain strings or objects with "name" and "description".
func Parse(data []byte) ([]Definition, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}

	root := gjson.ParseBytes(data)
	list := root
	if root.IsObject() {
		list = root.Get("tests")
	}
	if !list.IsArray() {
		return nil, errors.New(`expected an array of tests or an object with a "tests" array`)
	}

	var defs []Definition
	seen := make(map[string]bool)
	list.ForEach(func(_, value gjson.Result) bool {
		var d Definition
		switch {
		case value.Type == gjson.String:
			d.Name = value.Str
		case value.IsObject():
			d.Name = value.Get("name").String()
			d.Description = strings.TrimSpace(value.Get("description").String())
		default:
			return true
		}
		d.Name = strings.TrimSpace(d.Name)
		if d.Name == "" || seen[d.Name] {
			return true
		}
		seen[d.Name] = true
		defs = append(defs, d)
		return true
	})
	return defs, nil
}

// Items converts definitions for storage.UpsertTests.
func Items(defs []Definition) []storage.TestItem {
	items := make([]storage.TestItem, 0, len(defs))
	for _, d := range defs {
		items = append(items, storage.TestItem{Name: d.Name, Description: d.Description})
	}
	return items
}

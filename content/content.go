// Package content bundles the default reference documents.
package content

import "embed"

// Dir is the directory inside FS that holds the documents.
const Dir = "."

//go:embed *.md
var FS embed.FS

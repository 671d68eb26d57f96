// Package web holds the console templates and static assets.
package web

import "embed"

// EmbeddedFS carries templates/ and static/ into release builds.
//
//go:embed templates static
var EmbeddedFS embed.FS

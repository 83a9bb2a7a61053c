// Package templates provides the embedded HTML pages of the dashboard shell.
package templates

import "embed"

// FS contains the page templates.
//
//go:embed *.html
var FS embed.FS

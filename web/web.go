// SPDX-License-Identifier: MIT

// Package web embeds the built single-page site. The dist directory is
// produced by the frontend build and checked in so the daemon binary is
// self-contained.
package web

import (
	"embed"
	"io/fs"
)

//go:embed dist
var dist embed.FS

// Dist returns the site bundle rooted at the directory containing
// index.html.
func Dist() (fs.FS, error) {
	return fs.Sub(dist, "dist")
}

// Package web carries the console templates and static assets in the binary.
package web

import "embed"

// Templates embeds the page, partial and layout templates.
//
//go:embed templates/**/*.html
var Templates embed.FS

// Static embeds stylesheets served under /static/.
//
//go:embed static/**/*
var Static embed.FS

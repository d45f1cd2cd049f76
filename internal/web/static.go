package web

import (
	"embed"
)

// staticFiles holds the embedded browser UI.
//
//go:embed static/*
var staticFiles embed.FS

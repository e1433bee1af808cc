package api

import (
	"embed"
	"io/fs"
)

// apiStaticFS holds the dashboard page and nothing else.
//
//go:embed static/*
var apiStaticFS embed.FS

// dashboardFS strips the static/ prefix so the page is served by file name.
var dashboardFS fs.FS = func() fs.FS {
	sub, err := fs.Sub(apiStaticFS, "static")
	if err != nil {
		return apiStaticFS
	}
	return sub
}()

// Package static embeds the preview gallery page.
package static

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed all:dist/*
var distFS embed.FS

// FS returns the embedded dist directory as a file system rooted at dist.
func FS() fs.FS {
	fsys, err := fs.Sub(distFS, "dist")
	if err != nil {
		panic(err)
	}
	return fsys
}

// GetFileSystem returns an http.FileSystem for the embedded dist directory.
func GetFileSystem() http.FileSystem {
	return http.FS(FS())
}

// HasIndex reports whether the gallery page is embedded.
func HasIndex() bool {
	_, err := fs.Stat(FS(), "index.html")
	return err == nil
}

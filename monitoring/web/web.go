// Package web holds the single-page dashboard served by the monitor.
package web

import (
	"embed"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

//go:embed dist/*
var dashboard embed.FS

// DevModeEnv names the variable that makes the monitor serve the dashboard
// from the source tree, so edits show up without a rebuild.
const DevModeEnv = "SCHEDSIM_MONITOR_DEV"

// GetAssets returns the file system the monitor serves under "/".
func GetAssets() http.FileSystem {
	if dir, ok := sourceDir(); ok && devMode() {
		log.Printf("serving dashboard from %s", dir)
		return http.Dir(dir)
	}

	dist, err := fs.Sub(dashboard, "dist")
	if err != nil {
		log.Panic(err)
	}

	return http.FS(dist)
}

func sourceDir() (string, bool) {
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", false
	}

	return filepath.Join(filepath.Dir(thisFile), "dist"), true
}

func devMode() bool {
	on, err := strconv.ParseBool(os.Getenv(DevModeEnv))
	return err == nil && on
}

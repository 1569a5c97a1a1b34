// Package web includes the static web pages for the monitoring tool.
package web

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"runtime"
	"strings"
)

//go:embed dist/*
var staticAssets embed.FS

// DevModeEnv names the environment variable that makes the monitor serve
// pages from the source tree instead of the embedded copy.
const DevModeEnv = "SWMMDRIVER_MONITOR_DEV"

// GetAssets returns the static assets
func GetAssets() http.FileSystem {
	if isDevelopmentMode() {
		_, assetPath, _, ok := runtime.Caller(0)
		if !ok {
			panic("error getting path")
		}

		assetPath = path.Join(path.Dir(assetPath), "/dist")

		fmt.Fprintf(os.Stderr,
			"In monitoring tool development mode, serving assets from %s\n",
			assetPath)

		return http.Dir(assetPath)
	}

	subFS, err := fs.Sub(staticAssets, "dist")
	if err != nil {
		panic(err)
	}

	return http.FS(subFS)
}

func isDevelopmentMode() bool {
	evValue, exist := os.LookupEnv(DevModeEnv)
	if !exist {
		return false
	}

	return strings.ToLower(evValue) == "true" || evValue == "1"
}

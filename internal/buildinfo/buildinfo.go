// Package buildinfo holds version data set at link time, e.g.
//
//	go build -ldflags "-X github.com/dmitrijs2005/civicwatch/internal/buildinfo.Version=v1.0.0"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	Version = "N/A"
	Commit  = "N/A"
	Date    = "N/A"
)

// PrintBuildData writes the version, date and commit lines to w.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", Version)
	fmt.Fprintf(w, "Build date: %s\n", Date)
	fmt.Fprintf(w, "Build commit: %s\n", Commit)
}

// Package buildinfo holds build-time version metadata injected via ldflags.
//
// Release builds override the defaults with:
//
//	go build -ldflags "\
//	  -X github.com/tilegrid/boardflow/pkg/buildinfo.Version=v1.2.3 \
//	  -X github.com/tilegrid/boardflow/pkg/buildinfo.Commit=abc1234 \
//	  -X github.com/tilegrid/boardflow/pkg/buildinfo.Date=2026-08-30"
package buildinfo

import "fmt"

var (
	// Version is the semantic version of the binary.
	Version = "dev"

	// Commit is the short git hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// String returns a single-line version summary.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, Date)
}

// Template returns the cobra version template, including commit and date.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}

// Package version holds build metadata injected at link time.
//
// Release builds set these via -ldflags, e.g.:
//
//	go build -ldflags "\
//	  -X github.com/jackzampolin/fitcheck/version.GitRelease=v0.1.0 \
//	  -X github.com/jackzampolin/fitcheck/version.GitCommit=$(git rev-parse HEAD) \
//	  -X github.com/jackzampolin/fitcheck/version.GitCommitDate=$(git show -s --format=%cI HEAD)"
package version

import (
	"fmt"
	"runtime"
)

var (
	// GitRelease is the release tag this binary was built from.
	GitRelease = "dev"

	// GitCommit is the git commit hash this binary was built from.
	GitCommit = "unknown"

	// GitCommitDate is the commit date of GitCommit.
	GitCommitDate = "unknown"

	// GoInfo describes the Go toolchain and platform of the build.
	GoInfo = fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
)

package version

import (
	"runtime"
	"runtime/debug"
	"time"

	"github.com/Masterminds/semver"
)

// GITVERSION is injected by the build, e.g. v0.3.0.
var GITVERSION = "v0.0.0-dev"

// BuildVersionInfo is the version of the lfgen binary.
type BuildVersionInfo struct {
	GitVersion string    `json:"GitVersion" yaml:"GitVersion"`
	GitCommit  string    `json:"GitCommit" yaml:"GitCommit"`
	BuildDate  time.Time `json:"BuildDate" yaml:"BuildDate"`
	GOOS       string    `json:"GOOS" yaml:"GOOS"`
	GOARCH     string    `json:"GOARCH" yaml:"GOARCH"`
}

// Get returns the version of the running binary. Commit and date come from
// the VCS stamp of the build, when there is one.
func Get() *BuildVersionInfo {
	info := &BuildVersionInfo{
		GitVersion: GITVERSION,
		GOOS:       runtime.GOOS,
		GOARCH:     runtime.GOARCH,
	}
	build, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, setting := range build.Settings {
		switch setting.Key {
		case "vcs.revision":
			info.GitCommit = setting.Value
		case "vcs.time":
			if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
				info.BuildDate = t
			}
		}
	}
	return info
}

// Semver parses GitVersion. Development builds carry a prerelease suffix.
func (v *BuildVersionInfo) Semver() (*semver.Version, error) {
	return semver.NewVersion(v.GitVersion)
}

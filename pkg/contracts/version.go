package contracts

import (
	"fmt"
	"runtime"
)

const (
	// Version is the current version of the pipeline
	Version = "1.0.0"

	// VersionPrerelease is the pre-release identifier, empty for releases
	VersionPrerelease = ""

	// DataFormatVersion tracks the column layout of the derived tables.
	// Bump it when a table in output/tables changes shape.
	DataFormatVersion = "v1"
)

var (
	// BuildTime and GitCommit are stamped by build.go through -ldflags
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// VersionInfo contains detailed version information
type VersionInfo struct {
	Version      string `json:"version"`
	BuildTime    string `json:"build_time"`
	GitCommit    string `json:"git_commit"`
	GoVersion    string `json:"go_version"`
	OS           string `json:"os"`
	Architecture string `json:"architecture"`
	DataFormat   string `json:"data_format"`
}

// GetVersionInfo returns detailed version information
func GetVersionInfo() VersionInfo {
	return VersionInfo{
		Version:      Version,
		BuildTime:    BuildTime,
		GitCommit:    GitCommit,
		GoVersion:    runtime.Version(),
		OS:           runtime.GOOS,
		Architecture: runtime.GOARCH,
		DataFormat:   DataFormatVersion,
	}
}

// GetVersionString returns a formatted version string, e.g. "springs v1.0.0-rc1"
func GetVersionString() string {
	if IsPrerelease() {
		return fmt.Sprintf("springs v%s-%s", Version, VersionPrerelease)
	}
	return fmt.Sprintf("springs v%s", Version)
}

// GetFullVersionString returns a detailed version string
func GetFullVersionString() string {
	info := GetVersionInfo()
	return fmt.Sprintf(
		"%s (built: %s, commit: %s, go: %s, os: %s/%s, tables: %s)",
		GetVersionString(),
		info.BuildTime,
		info.GitCommit,
		info.GoVersion,
		info.OS,
		info.Architecture,
		info.DataFormat,
	)
}

// IsPrerelease returns true if this is a pre-release version
func IsPrerelease() bool {
	return VersionPrerelease != ""
}

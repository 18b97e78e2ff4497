// Package version provides build version information for lattice.
package version

import (
	"fmt"
	"runtime"

	"github.com/reglet-dev/lattice/internal/infrastructure/config"
)

var (
	// Version is the semantic version (set by build flags)
	Version = "dev"
	// Commit is the git commit hash (set by build flags)
	Commit = "unknown"
	// BuildDate is the build date (set by build flags)
	BuildDate = "unknown"
)

// Info describes the running binary and the description formats it reads.
type Info struct {
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	Platform     string
	Descriptions string
}

// Get returns the version information
func Get() Info {
	return Info{
		Version:      Version,
		Commit:       Commit,
		BuildDate:    BuildDate,
		GoVersion:    runtime.Version(),
		Platform:     runtime.GOOS + "/" + runtime.GOARCH,
		Descriptions: config.SupportedVersions,
	}
}

func (i Info) String() string {
	return i.Version
}

// Full returns a detailed version string.
func (i Info) Full() string {
	return fmt.Sprintf("%s (%s) built %s %s %s, description format %s",
		i.Version, i.Commit, i.BuildDate, i.GoVersion, i.Platform, i.Descriptions)
}

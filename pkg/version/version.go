// Package version holds build information for kcc.
package version

import (
	"fmt"
	"runtime"

	"github.com/Masterminds/semver/v3"
)

// Set with -ldflags "-X kcc/pkg/version.Version=..." at release time.
var (
	Version   = "0.3.0"
	GitCommit = "development"
	BuildDate = "unknown"
)

// Semver parses Version.
func Semver() (*semver.Version, error) {
	return semver.NewVersion(Version)
}

// Satisfies reports whether Version meets constraint, e.g. ">= 0.2, < 1.0".
func Satisfies(constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid version constraint %q: %w", constraint, err)
	}
	v, err := Semver()
	if err != nil {
		return false, fmt.Errorf("invalid build version %q: %w", Version, err)
	}
	return c.Check(v), nil
}

// String returns the multi-line version report printed by `kcc version`.
func String() string {
	return fmt.Sprintf("kcc v%s\n  Git Commit: %s\n  Build Date: %s\n  Go Version: %s\n  OS/Arch:    %s/%s\n",
		Version, GitCommit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

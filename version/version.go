// Package version reports the crowdsim release and the VCS revision the binary was built from.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"

	"github.com/Masterminds/semver"
)

// Version is the release of this build. Release builds override it with
// -ldflags "-X github.com/qiibee/crowdsim/version.Version=<tag>"; a leading "v" is accepted.
var Version = "0.1.0"

// Info describes a build.
type Info struct {
	// Version is the release, normalized to semantic version form when it parses as one.
	Version string

	// Revision is the VCS commit the binary was built from, empty if unknown.
	Revision string

	// RevisionTime is the commit time of Revision, zero if unknown.
	RevisionTime time.Time

	// Modified indicates the working tree had uncommitted changes at build time.
	Modified bool

	// GoVersion is the Go toolchain the binary was built with.
	GoVersion string
}

// GetInfo returns the information of the running binary.
func GetInfo() Info {
	info := Info{
		Version:   normalize(Version),
		GoVersion: runtime.Version(),
	}
	build, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, setting := range build.Settings {
		switch setting.Key {
		case "vcs.revision":
			info.Revision = setting.Value
		case "vcs.time":
			if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
				info.RevisionTime = t
			}
		case "vcs.modified":
			info.Modified = setting.Value == "true"
		}
	}
	return info
}

// normalize returns the canonical form of a semantic version, or the input unchanged if it is not one.
func normalize(version string) string {
	v, err := semver.NewVersion(version)
	if err != nil {
		return version
	}
	return v.String()
}

// revision returns the abbreviated revision, marked when the tree was modified.
func (i Info) revision() string {
	r := i.Revision
	if len(r) > 7 {
		r = r[:7]
	}
	if i.Modified {
		r += "-dirty"
	}
	return r
}

// Short returns the version on one line, with the abbreviated revision as build metadata.
func (i Info) Short() string {
	if i.Revision == "" {
		return i.Version
	}
	return i.Version + "+" + i.revision()
}

// String returns the full multi-line description printed by the version command.
func (i Info) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "crowdsim version %s\n", i.Version)
	if i.Revision != "" {
		fmt.Fprintf(&sb, "  Commit:     %s\n", i.revision())
	}
	if !i.RevisionTime.IsZero() {
		fmt.Fprintf(&sb, "  Built:      %s\n", i.RevisionTime.UTC().Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Fprintf(&sb, "  Go version: %s\n", i.GoVersion)
	return sb.String()
}

package platforms

import "github.com/qiibee/crowdsim/compilation/types"

// PlatformConfig describes the interface all compilation platform configs must implement.
type PlatformConfig interface {
	// Compile compiles the target and returns the resulting compilations along with any compiler output worth
	// surfacing to the user.
	Compile() ([]types.Compilation, string, error)

	// Platform returns the identifier of the platform.
	Platform() string

	// GetTarget returns the compilation target (a file or a project directory).
	GetTarget() string

	// SetTarget sets the compilation target.
	SetTarget(string)
}

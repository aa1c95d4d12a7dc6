package compilation

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/qiibee/crowdsim/compilation/platforms"
	"github.com/qiibee/crowdsim/compilation/types"
)

// CompilationConfig describes the configuration options used to compile a smart contract target.
type CompilationConfig struct {
	// Platform references an identifier indicating which compilation platform to use.
	Platform string `json:"platform"`

	// PlatformConfig describes the Platform-specific configuration needed to compile.
	PlatformConfig *json.RawMessage `json:"platformConfig"`
}

// NewCompilationConfig returns a CompilationConfig with default values for a given platform identifier.
func NewCompilationConfig(platform string) (*CompilationConfig, error) {
	if !IsSupportedCompilationPlatform(platform) {
		return nil, errors.Errorf("could not get default compilation configs: platform '%s' is unsupported", platform)
	}
	return NewCompilationConfigFromPlatformConfig(GetDefaultPlatformConfig(platform))
}

// NewCompilationConfigFromPlatformConfig takes a platforms.PlatformConfig and wraps it in a generic
// CompilationConfig, so that each platform config type can be serialized under a single key.
func NewCompilationConfigFromPlatformConfig(platformConfig platforms.PlatformConfig) (*CompilationConfig, error) {
	b, err := json.Marshal(platformConfig)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	platformConfigMsg := json.RawMessage(b)
	return &CompilationConfig{Platform: platformConfig.Platform(), PlatformConfig: &platformConfigMsg}, nil
}

// GetPlatformConfig deserializes the inner platforms.PlatformConfig.
func (c *CompilationConfig) GetPlatformConfig() (platforms.PlatformConfig, error) {
	if !IsSupportedCompilationPlatform(c.Platform) {
		return nil, errors.Errorf("could not compile from configs: platform '%s' is unsupported", c.Platform)
	}

	// json.Unmarshal needs a concrete structure to populate, so start from the platform's default config.
	platformConfig := GetDefaultPlatformConfig(c.Platform)
	if c.PlatformConfig != nil {
		if err := json.Unmarshal(*c.PlatformConfig, platformConfig); err != nil {
			return nil, errors.Wrapf(err, "could not parse the '%s' platform config", c.Platform)
		}
	}
	return platformConfig, nil
}

// SetTarget updates the target of the inner platform config.
func (c *CompilationConfig) SetTarget(target string) error {
	platformConfig, err := c.GetPlatformConfig()
	if err != nil {
		return err
	}
	platformConfig.SetTarget(target)

	updated, err := NewCompilationConfigFromPlatformConfig(platformConfig)
	if err != nil {
		return err
	}
	*c = *updated
	return nil
}

// Compile deserializes the inner platforms.PlatformConfig and uses it to compile the underlying targets. Returns the
// compilations produced by the platform along with any compiler output.
func (c *CompilationConfig) Compile() ([]types.Compilation, string, error) {
	platformConfig, err := c.GetPlatformConfig()
	if err != nil {
		return nil, "", err
	}
	return platformConfig.Compile()
}

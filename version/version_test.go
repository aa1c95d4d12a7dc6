package version

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "1.2.3", normalize("v1.2.3"))
	assert.Equal(t, "1.2.0", normalize("1.2"))
	assert.Equal(t, "dev", normalize("dev"))
}

func TestInfoShort(t *testing.T) {
	info := Info{Version: "1.2.3"}
	assert.Equal(t, "1.2.3", info.Short())

	info.Revision = "0123456789abcdef"
	assert.Equal(t, "1.2.3+0123456", info.Short())

	info.Modified = true
	assert.Equal(t, "1.2.3+0123456-dirty", info.Short())
}

func TestInfoString(t *testing.T) {
	info := Info{
		Version:      "1.2.3",
		Revision:     "abc",
		RevisionTime: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		GoVersion:    "go1.23.0",
	}
	s := info.String()
	assert.Contains(t, s, "crowdsim version 1.2.3")
	assert.Contains(t, s, "Commit:     abc")
	assert.Contains(t, s, "Built:      2024-01-02 03:04:05 UTC")
	assert.Contains(t, s, "Go version: go1.23.0")

	assert.NotContains(t, Info{Version: "1.2.3"}.String(), "Built:")
}

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.GoVersion)
}

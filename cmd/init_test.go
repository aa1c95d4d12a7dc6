package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelativeTarget(t *testing.T) {
	dir := t.TempDir()
	target, err := relativeTarget(dir, filepath.Join(dir, "contracts", "crowdsale.sol"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("contracts", "crowdsale.sol"), target)

	target, err = relativeTarget(filepath.Join(dir, "config"), filepath.Join(dir, "crowdsale.sol"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("..", "crowdsale.sol"), target)
}

func TestValidateInitArgs(t *testing.T) {
	assert.NoError(t, cmdValidateInitArgs(initCmd, nil))
	assert.NoError(t, cmdValidateInitArgs(initCmd, []string{DefaultCompilationPlatform}))
	assert.Error(t, cmdValidateInitArgs(initCmd, []string{"not-a-platform"}))
	assert.Error(t, cmdValidateInitArgs(initCmd, []string{"solc", "truffle"}))
}

func TestCorpusPath(t *testing.T) {
	assert.Equal(t, filepath.Join("corpus", corpusFileName), corpusPath("corpus"))
}

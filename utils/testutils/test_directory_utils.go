package testutils

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/qiibee/crowdsim/utils"
	"github.com/stretchr/testify/require"
)

// CopyToTestDirectory copies files or directories from the provided filePath (relative to the working directory) to
// an ephemeral directory used for unit tests, returning the absolute path of the copy.
func CopyToTestDirectory(t *testing.T, filePath string) string {
	cwd, err := os.Getwd()
	require.NoError(t, err)
	sourcePath := filepath.Join(cwd, filePath)

	sourcePathInfo, err := os.Stat(sourcePath)
	require.NoError(t, err)

	targetPath := filepath.Join(t.TempDir(), "crowdsimTest", sourcePathInfo.Name())
	if sourcePathInfo.IsDir() {
		err = utils.CopyDirectory(sourcePath, targetPath, true)
	} else {
		err = utils.CopyFile(sourcePath, targetPath)
	}
	require.NoError(t, err)

	targetPath, err = filepath.Abs(targetPath)
	require.NoError(t, err)
	return targetPath
}

// ExecuteInDirectory changes the working directory to the directory of testPath, runs the provided method, then
// restores the working directory. Any file artifacts generated by the method end up in the test directory.
func ExecuteInDirectory(t *testing.T, testPath string, method func()) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	testPathInfo, err := os.Stat(testPath)
	require.NoError(t, err)
	testDirectory := testPath
	if !testPathInfo.IsDir() {
		testDirectory = filepath.Dir(testPath)
	}

	require.NoError(t, os.Chdir(testDirectory))
	defer func() {
		require.NoError(t, os.Chdir(cwd))
	}()
	method()
}

// RequireSolc skips the calling test when solc is not available on the PATH.
func RequireSolc(t *testing.T) {
	if _, err := exec.LookPath("solc"); err != nil {
		t.Skip("solc is not installed, skipping test which compiles contracts")
	}
}

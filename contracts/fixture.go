package contracts

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/qiibee/crowdsim/utils"
)

// FixtureFileName is the file name the bundled contract suite is written under.
const FixtureFileName = "crowdsale.sol"

// FixtureSource is the Solidity source of the bundled token, crowdsale and message contracts, which match
// DefaultContractNames.
//
//go:embed solidity/crowdsale.sol
var FixtureSource []byte

// WriteFixture writes the bundled contract suite into the directory and returns the path of the written file.
func WriteFixture(directory string) (string, error) {
	if err := utils.MakeDirectory(directory); err != nil {
		return "", err
	}
	path := filepath.Join(directory, FixtureFileName)
	if err := os.WriteFile(path, FixtureSource, 0644); err != nil {
		return "", errors.WithStack(err)
	}
	return path, nil
}

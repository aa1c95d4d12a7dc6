package platforms

import (
	"encoding/hex"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Masterminds/semver"
	"github.com/crytic/medusa-geth/common/compiler"
	"github.com/pkg/errors"
	"github.com/qiibee/crowdsim/compilation/types"
	"github.com/qiibee/crowdsim/utils"
)

// DefaultSolcVersionConstraint is the version range the fixture contracts are written for.
const DefaultSolcVersionConstraint = ">= 0.8.0"

// SolcCompilationConfig describes a compilation of a single Solidity file with the solc binary on PATH.
type SolcCompilationConfig struct {
	// Target is the Solidity source file to compile.
	Target string `json:"target"`

	// VersionConstraint is a semver constraint the installed solc must satisfy. An empty constraint accepts any
	// version.
	VersionConstraint string `json:"versionConstraint"`

	// ExtraArgs are passed to solc before the target.
	ExtraArgs []string `json:"extraArgs,omitempty"`
}

// NewSolcCompilationConfig returns a SolcCompilationConfig for the target with the default version constraint.
func NewSolcCompilationConfig(target string) *SolcCompilationConfig {
	return &SolcCompilationConfig{
		Target:            target,
		VersionConstraint: DefaultSolcVersionConstraint,
	}
}

// Platform returns the platform identifier.
func (s *SolcCompilationConfig) Platform() string {
	return "solc"
}

// GetTarget returns the target for compilation
func (s *SolcCompilationConfig) GetTarget() string {
	return s.Target
}

// SetTarget sets the new target for compilation
func (s *SolcCompilationConfig) SetTarget(newTarget string) {
	s.Target = newTarget
}

// GetSystemSolcVersion runs `solc --version` and parses the compiler version out of its output.
func GetSystemSolcVersion() (*semver.Version, error) {
	out, err := exec.Command("solc", "--version").CombinedOutput()
	if err != nil {
		return nil, errors.Errorf("error while executing solc:\nOUTPUT:\n%s\nERROR: %s\n", string(out), err.Error())
	}
	return parseSolcVersion(string(out))
}

// parseSolcVersion extracts the first semantic version found in solc's version output.
func parseSolcVersion(output string) (*semver.Version, error) {
	versionStr := regexp.MustCompile(`\d+\.\d+\.\d+`).FindString(output)
	if versionStr == "" {
		return nil, errors.New("could not parse solc version using 'solc --version'")
	}
	v, err := semver.NewVersion(versionStr)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return v, nil
}

// CheckVersion verifies the provided solc version satisfies the config's VersionConstraint.
func (s *SolcCompilationConfig) CheckVersion(v *semver.Version) error {
	if s.VersionConstraint == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(s.VersionConstraint)
	if err != nil {
		return errors.Wrapf(err, "invalid solc version constraint '%s'", s.VersionConstraint)
	}
	if !constraint.Check(v) {
		return errors.Errorf("solc version %v does not satisfy the constraint '%s'", v, s.VersionConstraint)
	}
	return nil
}

// Compile runs solc with combined JSON output and parses the contracts it produced.
func (s *SolcCompilationConfig) Compile() ([]types.Compilation, string, error) {
	v, err := GetSystemSolcVersion()
	if err != nil {
		return nil, "", err
	}
	if err = s.CheckVersion(v); err != nil {
		return nil, "", err
	}

	args := append([]string{}, s.ExtraArgs...)
	args = append(args, s.Target, "--combined-json", "abi,bin,bin-runtime,srcmap,srcmap-runtime")
	cmd := exec.Command("solc", args...)
	cmdStdout, cmdStderr, cmdCombined, err := utils.RunCommandWithOutputAndError(cmd)
	if err != nil {
		return nil, "", errors.Errorf("error while executing solc:\n%s\n\nCommand Output:\n%s\n", err.Error(), string(cmdCombined))
	}

	compilation, err := parseCombinedJSON(cmdStdout, v)
	if err != nil {
		return nil, "", err
	}
	return []types.Compilation{*compilation}, string(cmdStderr), nil
}

// parseCombinedJSON converts solc combined JSON output into a Compilation.
func parseCombinedJSON(combinedJson []byte, v *semver.Version) (*types.Compilation, error) {
	contracts, err := compiler.ParseCombinedJSON(combinedJson, "solc", v.String(), v.String(), "")
	if err != nil {
		return nil, errors.Wrap(err, "could not parse solc combined json output")
	}

	compilation := types.NewCompilation()
	for name, contract := range contracts {
		// Names are of the form "path:ContractName", where the path itself may contain colons.
		nameSplit := strings.Split(name, ":")
		sourcePath := strings.Join(nameSplit[0:len(nameSplit)-1], ":")
		contractName := nameSplit[len(nameSplit)-1]

		contractAbi, err := types.ParseABIFromInterface(contract.Info.AbiDefinition)
		if err != nil {
			return nil, errors.Wrapf(err, "unable to parse abi for contract '%s'", contractName)
		}

		initBytecode, err := hex.DecodeString(strings.TrimPrefix(contract.Code, "0x"))
		if err != nil {
			return nil, errors.Errorf("unable to parse init bytecode for contract '%s'", contractName)
		}
		runtimeBytecode, err := hex.DecodeString(strings.TrimPrefix(contract.RuntimeCode, "0x"))
		if err != nil {
			return nil, errors.Errorf("unable to parse runtime bytecode for contract '%s'", contractName)
		}

		srcMapInit, _ := contract.Info.SrcMap.(string)

		if _, ok := compilation.Sources[sourcePath]; !ok {
			compilation.Sources[sourcePath] = types.CompiledSource{
				Contracts: make(map[string]types.CompiledContract),
			}
		}
		compilation.Sources[sourcePath].Contracts[contractName] = types.CompiledContract{
			Abi:             *contractAbi,
			InitBytecode:    initBytecode,
			RuntimeBytecode: runtimeBytecode,
			SrcMapsInit:     srcMapInit,
			SrcMapsRuntime:  contract.Info.SrcMapRuntime,
		}
	}
	return compilation, nil
}

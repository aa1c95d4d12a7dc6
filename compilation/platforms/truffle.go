package platforms

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/qiibee/crowdsim/compilation/types"
)

// TruffleCompilationConfig describes a compilation of a truffle project, read back from its build artifacts.
type TruffleCompilationConfig struct {
	// Target is the truffle project directory.
	Target string `json:"target"`

	// UseNpx indicates whether truffle should be invoked through npx.
	UseNpx bool `json:"useNpx"`

	// Command overrides the truffle binary name.
	Command string `json:"command"`

	// BuildDirectory overrides the artifact directory. Defaults to build/contracts under the target.
	BuildDirectory string `json:"buildDirectory"`

	// SkipBuild reads existing artifacts without running truffle.
	SkipBuild bool `json:"skipBuild"`
}

// truffleArtifact is the subset of a truffle build artifact that is read.
type truffleArtifact struct {
	ContractName      string `json:"contractName"`
	Abi               any    `json:"abi"`
	Bytecode          string `json:"bytecode"`
	DeployedBytecode  string `json:"deployedBytecode"`
	SourceMap         string `json:"sourceMap"`
	DeployedSourceMap string `json:"deployedSourceMap"`
	SourcePath        string `json:"sourcePath"`
}

// NewTruffleCompilationConfig returns a TruffleCompilationConfig for the project directory.
func NewTruffleCompilationConfig(target string) *TruffleCompilationConfig {
	return &TruffleCompilationConfig{
		Target:         target,
		UseNpx:         true,
		Command:        "",
		BuildDirectory: "",
	}
}

// Platform returns the platform identifier.
func (t *TruffleCompilationConfig) Platform() string {
	return "truffle"
}

// GetTarget returns the target for compilation
func (t *TruffleCompilationConfig) GetTarget() string {
	return t.Target
}

// SetTarget sets the new target for compilation
func (t *TruffleCompilationConfig) SetTarget(newTarget string) {
	t.Target = newTarget
}

// Compile builds the project with truffle (unless SkipBuild is set) and parses every artifact in the build
// directory.
func (t *TruffleCompilationConfig) Compile() ([]types.Compilation, string, error) {
	var out []byte
	if !t.SkipBuild {
		baseCommandStr := "truffle"
		if t.Command != "" {
			baseCommandStr = t.Command
		}

		var cmd *exec.Cmd
		if t.UseNpx {
			cmd = exec.Command("npx", baseCommandStr, "compile", "--all")
		} else {
			cmd = exec.Command(baseCommandStr, "compile", "--all")
		}
		cmd.Dir = t.Target

		var err error
		out, err = cmd.CombinedOutput()
		if err != nil {
			return nil, "", errors.Errorf("error while executing truffle:\nOUTPUT:\n%s\nERROR: %s\n", string(out), err.Error())
		}
	}

	buildDirectory := t.BuildDirectory
	if buildDirectory == "" {
		buildDirectory = filepath.Join(t.Target, "build", "contracts")
	}
	compilation, err := parseTruffleArtifacts(buildDirectory)
	if err != nil {
		return nil, "", err
	}
	return []types.Compilation{*compilation}, string(out), nil
}

// parseTruffleArtifacts reads every JSON artifact in the directory into a Compilation. Artifacts without a parsable
// ABI are skipped.
func parseTruffleArtifacts(buildDirectory string) (*types.Compilation, error) {
	matches, err := filepath.Glob(filepath.Join(buildDirectory, "*.json"))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(matches) == 0 {
		return nil, errors.Errorf("no truffle artifacts found in '%s'", buildDirectory)
	}

	compilation := types.NewCompilation()
	for _, match := range matches {
		b, err := os.ReadFile(match)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		var artifact truffleArtifact
		if err = json.Unmarshal(b, &artifact); err != nil {
			return nil, errors.Wrapf(err, "could not parse truffle artifact '%s'", match)
		}

		contractAbi, err := types.ParseABIFromInterface(artifact.Abi)
		if err != nil {
			continue
		}

		initBytecode, err := hex.DecodeString(strings.TrimPrefix(artifact.Bytecode, "0x"))
		if err != nil {
			return nil, errors.Errorf("unable to parse init bytecode for contract '%s'", artifact.ContractName)
		}
		runtimeBytecode, err := hex.DecodeString(strings.TrimPrefix(artifact.DeployedBytecode, "0x"))
		if err != nil {
			return nil, errors.Errorf("unable to parse runtime bytecode for contract '%s'", artifact.ContractName)
		}

		if _, ok := compilation.Sources[artifact.SourcePath]; !ok {
			compilation.Sources[artifact.SourcePath] = types.CompiledSource{
				Contracts: make(map[string]types.CompiledContract),
			}
		}
		compilation.Sources[artifact.SourcePath].Contracts[artifact.ContractName] = types.CompiledContract{
			Abi:             *contractAbi,
			InitBytecode:    initBytecode,
			RuntimeBytecode: runtimeBytecode,
			SrcMapsInit:     artifact.SourceMap,
			SrcMapsRuntime:  artifact.DeployedSourceMap,
		}
	}
	return compilation, nil
}

package contracts

import (
	"github.com/pkg/errors"
	compilationTypes "github.com/qiibee/crowdsim/compilation/types"
)

// ContractNames names the compiled contracts the harness drives.
type ContractNames struct {
	// Token is the name of the token contract. The crowdsale creates the token, so it is never deployed directly.
	Token string `json:"token"`

	// Crowdsale is the name of the crowdsale contract.
	Crowdsale string `json:"crowdsale"`

	// Message is the name of the contract receiving data-carrying token transfers. It may be empty.
	Message string `json:"message"`
}

// DefaultContractNames returns the names of the fixture contracts.
func DefaultContractNames() ContractNames {
	return ContractNames{
		Token:     "QiibeeToken",
		Crowdsale: "QiibeeCrowdsale",
		Message:   "Message",
	}
}

// Validate checks that the required contract names are set.
func (n ContractNames) Validate() error {
	if n.Token == "" {
		return errors.New("token contract name must be set")
	}
	if n.Crowdsale == "" {
		return errors.New("crowdsale contract name must be set")
	}
	return nil
}

// Artifacts holds the compiled contracts the harness deploys or binds.
type Artifacts struct {
	// Names are the names the artifacts were resolved with.
	Names ContractNames

	// Token is the compiled token contract.
	Token *compilationTypes.CompiledContract

	// Crowdsale is the compiled crowdsale contract.
	Crowdsale *compilationTypes.CompiledContract

	// Message is the compiled message receiver, or nil if none was named.
	Message *compilationTypes.CompiledContract
}

// LoadArtifacts resolves the named contracts from the compilations.
func LoadArtifacts(compilations []compilationTypes.Compilation, names ContractNames) (*Artifacts, error) {
	if err := names.Validate(); err != nil {
		return nil, err
	}

	var err error
	artifacts := &Artifacts{Names: names}
	if artifacts.Token, err = compilationTypes.FindContract(compilations, names.Token); err != nil {
		return nil, err
	}
	if artifacts.Crowdsale, err = compilationTypes.FindContract(compilations, names.Crowdsale); err != nil {
		return nil, err
	}
	if names.Message != "" {
		if artifacts.Message, err = compilationTypes.FindContract(compilations, names.Message); err != nil {
			return nil, err
		}
	}
	return artifacts, nil
}

package utils

import (
	"encoding/json"

	"github.com/crytic/medusa-geth/params"
	"github.com/pkg/errors"
)

// CopyChainConfig takes a chain configuration and creates a deep copy of it.
func CopyChainConfig(config *params.ChainConfig) (*params.ChainConfig, error) {
	data, err := json.Marshal(config)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var chainConfig *params.ChainConfig
	err = json.Unmarshal(data, &chainConfig)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return chainConfig, nil
}

package corpus

import (
	"math/big"

	"github.com/fxamacker/cbor"
	"github.com/pkg/errors"
	"github.com/qiibee/crowdsim/generators"
)

// encOptions produces deterministic encodings, so equal sequences hash equally.
var encOptions = cbor.CanonicalEncOptions()

// commandRecord is the stored form of a command: its name and its encoded fields.
type commandRecord struct {
	Type    string          `cbor:"type"`
	Payload cbor.RawMessage `cbor:"payload"`
}

// configRecord is the stored form of a crowdsale configuration. The goal is kept as a decimal string since big
// integers have no CBOR encoding of their own.
type configRecord struct {
	InitialRate        uint64             `cbor:"initialRate"`
	PreferentialRate   uint64             `cbor:"preferentialRate"`
	PrivatePresaleRate uint64             `cbor:"privatePresaleRate"`
	Goal               string             `cbor:"goal"`
	FoundationWallet   generators.Account `cbor:"foundationWallet"`
	WeiLockSeconds     uint64             `cbor:"weiLockSeconds"`
	Owner              generators.Account `cbor:"owner"`
}

func newConfigRecord(config generators.CrowdsaleConfig) configRecord {
	goal := "0"
	if config.Goal != nil {
		goal = config.Goal.String()
	}
	return configRecord{
		InitialRate:        config.InitialRate,
		PreferentialRate:   config.PreferentialRate,
		PrivatePresaleRate: config.PrivatePresaleRate,
		Goal:               goal,
		FoundationWallet:   config.FoundationWallet,
		WeiLockSeconds:     config.WeiLockSeconds,
		Owner:              config.Owner,
	}
}

func (r configRecord) config() (generators.CrowdsaleConfig, error) {
	goal, ok := new(big.Int).SetString(r.Goal, 10)
	if !ok {
		return generators.CrowdsaleConfig{}, errors.Errorf("invalid goal %q", r.Goal)
	}
	return generators.CrowdsaleConfig{
		InitialRate:        r.InitialRate,
		PreferentialRate:   r.PreferentialRate,
		PrivatePresaleRate: r.PrivatePresaleRate,
		Goal:               goal,
		FoundationWallet:   r.FoundationWallet,
		WeiLockSeconds:     r.WeiLockSeconds,
		Owner:              r.Owner,
	}, nil
}

// encodeCommands converts commands to their stored form.
func encodeCommands(commands []generators.Command) ([]commandRecord, error) {
	records := make([]commandRecord, len(commands))
	for i, command := range commands {
		payload, err := cbor.Marshal(command, encOptions)
		if err != nil {
			return nil, errors.Wrapf(err, "could not encode command %d (%s)", i, command.Name())
		}
		records[i] = commandRecord{Type: command.Name(), Payload: payload}
	}
	return records, nil
}

// decodeCommands restores commands from their stored form.
func decodeCommands(records []commandRecord) ([]generators.Command, error) {
	commands := make([]generators.Command, len(records))
	for i, record := range records {
		command, err := generators.NewCommand(record.Type)
		if err != nil {
			return nil, err
		}
		if err = cbor.Unmarshal(record.Payload, command); err != nil {
			return nil, errors.Wrapf(err, "could not decode command %d (%s)", i, record.Type)
		}
		commands[i] = command
	}
	return commands, nil
}

package campaign

import (
	"github.com/pkg/errors"
)

// Config configures a campaign.
type Config struct {
	// Iterations is the number of sequences to run.
	Iterations int `json:"iterations"`

	// SequenceLength is the maximum number of commands in a sequence.
	SequenceLength int `json:"sequenceLength"`

	// Seed seeds the generators. Sequence i of a campaign is generated from the seed and i alone.
	Seed uint64 `json:"seed"`

	// StopOnFailure stops the campaign at the first failing sequence.
	StopOnFailure bool `json:"stopOnFailure"`

	// DefaultWeiPerUSD is the wei per USD value the funding commands set when the crowdsale has none yet.
	DefaultWeiPerUSD uint64 `json:"defaultWeiPerUSD"`
}

// DefaultConfig returns the default campaign configuration.
func DefaultConfig() Config {
	return Config{
		Iterations:       100,
		SequenceLength:   40,
		Seed:             0,
		StopOnFailure:    true,
		DefaultWeiPerUSD: 3_000_000_000_000_000,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if c.Iterations <= 0 {
		return errors.New("campaign iterations must be positive")
	}
	if c.SequenceLength <= 0 {
		return errors.New("campaign sequence length must be positive")
	}
	if c.DefaultWeiPerUSD == 0 {
		return errors.New("campaign default wei per USD must be positive")
	}
	return nil
}

package corpus

import (
	"encoding/hex"
	"time"

	"github.com/fxamacker/cbor"
	"github.com/google/uuid"
	"github.com/qiibee/crowdsim/generators"
	"golang.org/x/crypto/sha3"
)

// Entry is a stored failing sequence together with the crowdsale configuration it failed against.
type Entry struct {
	// ID identifies the entry.
	ID string `cbor:"id"`

	// CreatedAt is the unix time the entry was recorded at.
	CreatedAt int64 `cbor:"createdAt"`

	// Seed and Iteration locate the sequence in the campaign which generated it.
	Seed      uint64 `cbor:"seed"`
	Iteration int    `cbor:"iteration"`

	// ArtifactHash identifies the contract bytecode the sequence failed against.
	ArtifactHash string `cbor:"artifactHash"`

	// FailedCommand is the index of the failing command, and Failure its message.
	FailedCommand int    `cbor:"failedCommand"`
	Failure       string `cbor:"failure"`

	Config   configRecord    `cbor:"config"`
	Commands []commandRecord `cbor:"commands"`
}

// NewEntry creates an entry with a fresh ID for the sequence.
func NewEntry(config generators.CrowdsaleConfig, commands []generators.Command) (*Entry, error) {
	records, err := encodeCommands(commands)
	if err != nil {
		return nil, err
	}
	return &Entry{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().Unix(),
		Config:    newConfigRecord(config),
		Commands:  records,
	}, nil
}

// Sequence decodes the crowdsale configuration and commands of the entry.
func (e *Entry) Sequence() (generators.CrowdsaleConfig, []generators.Command, error) {
	config, err := e.Config.config()
	if err != nil {
		return generators.CrowdsaleConfig{}, nil, err
	}
	commands, err := decodeCommands(e.Commands)
	if err != nil {
		return generators.CrowdsaleConfig{}, nil, err
	}
	return config, commands, nil
}

// Hash returns the keccak256 hash of the configuration and commands, which identifies equal sequences.
func (e *Entry) Hash() (string, error) {
	type sequence struct {
		Config   configRecord    `cbor:"config"`
		Commands []commandRecord `cbor:"commands"`
	}
	data, err := cbor.Marshal(sequence{Config: e.Config, Commands: e.Commands}, encOptions)
	if err != nil {
		return "", err
	}
	hash := sha3.NewLegacyKeccak256()
	hash.Write(data)
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// Length returns the number of commands in the entry.
func (e *Entry) Length() int {
	return len(e.Commands)
}

// Time returns the time the entry was recorded at.
func (e *Entry) Time() time.Time {
	return time.Unix(e.CreatedAt, 0)
}

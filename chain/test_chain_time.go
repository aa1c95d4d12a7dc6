package chain

import (
	"github.com/pkg/errors"
)

// ErrTimestampInPast is returned when the chain is asked to move to a timestamp before its head.
var ErrTimestampInPast = errors.New("timestamp is earlier than the chain head")

// LatestTimestamp returns the timestamp of the most recently committed block.
func (t *TestChain) LatestTimestamp() uint64 {
	return t.Head().Header.Time
}

// mineEmptyBlock commits a block with no transactions at the provided timestamp.
func (t *TestChain) mineEmptyBlock(timestamp uint64) error {
	_, err := t.PendingBlockCreateWithParameters(t.HeadBlockNumber()+1, timestamp, nil)
	if err != nil {
		return err
	}
	return t.PendingBlockCommit()
}

// AdvanceSeconds mines an empty block whose timestamp is the head timestamp plus the provided number of seconds.
func (t *TestChain) AdvanceSeconds(seconds uint64) error {
	return t.mineEmptyBlock(t.LatestTimestamp() + seconds)
}

// AdvanceToTimestamp mines an empty block with exactly the provided timestamp. A timestamp equal to the head's is
// accepted; an earlier one returns ErrTimestampInPast and leaves the chain untouched.
func (t *TestChain) AdvanceToTimestamp(timestamp uint64) error {
	if timestamp < t.LatestTimestamp() {
		return errors.Wrapf(ErrTimestampInPast, "cannot advance to %d, head is at %d", timestamp, t.LatestTimestamp())
	}
	return t.mineEmptyBlock(timestamp)
}

// AdvanceBlocks mines the provided number of empty blocks, one second apart.
func (t *TestChain) AdvanceBlocks(count uint64) error {
	for i := uint64(0); i < count; i++ {
		if err := t.AdvanceSeconds(1); err != nil {
			return err
		}
	}
	return nil
}

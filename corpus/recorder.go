package corpus

import (
	"github.com/qiibee/crowdsim/campaign"
	"github.com/qiibee/crowdsim/logging"
)

// Recorder stores the failing sequences of a campaign in a corpus.
type Recorder struct {
	corpus       *Corpus
	artifactHash string
	logger       *logging.Logger
}

// NewRecorder creates a Recorder. The artifact hash is stored with every entry.
func NewRecorder(corpus *Corpus, artifactHash string, logger *logging.Logger) *Recorder {
	if logger == nil {
		logger = logging.GlobalLogger.NewSubLogger("module", "corpus")
	}
	return &Recorder{corpus: corpus, artifactHash: artifactHash, logger: logger}
}

// RecordFailure stores the failing sequence, unless the corpus already holds it.
func (r *Recorder) RecordFailure(failure *campaign.SequenceFailure) error {
	result := failure.Result
	entry, err := NewEntry(result.Config, result.Commands)
	if err != nil {
		return err
	}
	entry.Seed = failure.Seed
	entry.Iteration = failure.Iteration
	entry.ArtifactHash = r.artifactHash
	if result.Failure != nil {
		entry.FailedCommand = result.Failure.Index
		entry.Failure = result.Failure.Message
	}

	added, err := r.corpus.Add(entry)
	if err != nil {
		return err
	}
	if added {
		r.logger.Info("Saved failing sequence ", entry.ID, " to the corpus")
	} else {
		r.logger.Debug("Failing sequence of iteration ", failure.Iteration, " is already in the corpus")
	}
	return nil
}

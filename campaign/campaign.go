// Package campaign runs randomly generated command sequences against freshly deployed crowdsales and checks every
// command's outcome against the expected contract behavior.
package campaign

import (
	"time"

	"github.com/crytic/medusa-geth/common"
	"github.com/dsnet/golib/unitconv"
	"github.com/pkg/errors"
	"github.com/qiibee/crowdsim/generators"
	"github.com/qiibee/crowdsim/logging"
	"github.com/qiibee/crowdsim/logging/colors"
	"github.com/qiibee/crowdsim/utils"
	"golang.org/x/net/context"
	"pgregory.net/rand"
)

// progressInterval is the number of sequences between two progress reports.
const progressInterval = 10

// SequenceRunner runs a single command sequence against a crowdsale deployed with the given configuration.
type SequenceRunner interface {
	Accounts() []common.Address
	RunSequence(ctx context.Context, config generators.CrowdsaleConfig, commands []generators.Command) (*SequenceResult, error)
}

// FailureRecorder stores failing sequences so they can be replayed later.
type FailureRecorder interface {
	RecordFailure(failure *SequenceFailure) error
}

// SequenceFailure is a sequence which did not behave as expected.
type SequenceFailure struct {
	// Seed is the campaign seed the sequence was generated from.
	Seed uint64

	// Iteration is the position of the sequence in its campaign.
	Iteration int

	Result *SequenceResult
}

// Report summarizes a campaign.
type Report struct {
	Sequences           int
	DeploymentsRejected int
	Commands            int
	Rejected            int
	Failures            []*SequenceFailure
	Duration            time.Duration
}

// Passed indicates whether no sequence failed.
func (r *Report) Passed() bool {
	return len(r.Failures) == 0
}

// Throughput formats the number of commands run per second with an SI prefix.
func (r *Report) Throughput() string {
	seconds := r.Duration.Seconds()
	if seconds <= 0 {
		return "0"
	}
	return unitconv.FormatPrefix(float64(r.Commands)/seconds, unitconv.SI, 0)
}

// Campaign generates sequences from a seed and runs them.
type Campaign struct {
	runner   SequenceRunner
	config   Config
	recorder FailureRecorder
	logger   *logging.Logger
}

// NewCampaign creates a Campaign. The recorder may be nil, in which case failures are only reported.
func NewCampaign(runner SequenceRunner, config Config, recorder FailureRecorder, logger *logging.Logger) (*Campaign, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.GlobalLogger.NewSubLogger("module", "campaign")
	}
	return &Campaign{
		runner:   runner,
		config:   config,
		recorder: recorder,
		logger:   logger,
	}, nil
}

// Generate returns the crowdsale configuration and command sequence of the iteration. The result only depends on the
// seed, the iteration and the pool size.
func Generate(seed uint64, iteration int, poolSize int, sequenceLength int) (generators.CrowdsaleConfig, []generators.Command) {
	rnd := rand.New(seed, uint64(iteration))
	config := generators.CrowdsaleConfigGen(poolSize)(rnd)
	commands := generators.SequenceGen(poolSize, sequenceLength)(rnd)
	return config, commands
}

// Run runs the configured number of sequences. It stops early on the first failure if configured to, or when the
// context is cancelled.
func (c *Campaign) Run(ctx context.Context) (*Report, error) {
	report := &Report{}
	start := time.Now()
	defer func() {
		report.Duration = time.Since(start)
	}()

	poolSize := len(c.runner.Accounts())
	c.logger.Info("Starting campaign with seed ", colors.Bold, c.config.Seed, colors.Reset, " (", c.config.Iterations, " sequences)")

	for i := 0; i < c.config.Iterations; i++ {
		if utils.CheckContextDone(ctx) {
			c.logger.Warn("Campaign interrupted after ", report.Sequences, " sequences")
			break
		}

		config, commands := Generate(c.config.Seed, i, poolSize, c.config.SequenceLength)
		result, err := c.runner.RunSequence(ctx, config, commands)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				c.logger.Warn("Campaign interrupted after ", report.Sequences, " sequences")
				break
			}
			return report, errors.Wrapf(err, "sequence %d", i)
		}

		report.Sequences++
		report.Commands += result.Executed
		report.Rejected += result.Rejected
		if result.DeploymentRejected {
			report.DeploymentsRejected++
		}

		if !result.Passed() {
			failure := &SequenceFailure{Seed: c.config.Seed, Iteration: i, Result: result}
			report.Failures = append(report.Failures, failure)
			c.logger.Error("Sequence ", i, " failed: ", colors.Red, result.Failure.Error(), colors.Reset)
			if c.recorder != nil {
				if err = c.recorder.RecordFailure(failure); err != nil {
					return report, err
				}
			}
			if c.config.StopOnFailure {
				break
			}
		}

		if report.Sequences%progressInterval == 0 {
			elapsed := time.Since(start)
			c.logger.Info(
				"sequences: ", report.Sequences, "/", c.config.Iterations,
				", commands: ", report.Commands,
				", rejected: ", report.Rejected,
				", failures: ", len(report.Failures),
				", elapsed: ", elapsed.Round(time.Second),
				", ~", unitconv.FormatPrefix(float64(report.Commands)/elapsed.Seconds(), unitconv.SI, 0), " commands/s",
			)
		}
	}
	return report, nil
}

package campaign

import (
	"math/big"

	"github.com/crytic/medusa-geth/common"
	"github.com/pkg/errors"
	"github.com/qiibee/crowdsim/chain"
	"github.com/qiibee/crowdsim/compilation/abiutils"
	"github.com/qiibee/crowdsim/contracts"
	"github.com/qiibee/crowdsim/generators"
	"github.com/qiibee/crowdsim/logging"
	"github.com/qiibee/crowdsim/utils"
	"golang.org/x/net/context"
)

// Schedule offsets of a crowdsale deployed for a sequence, relative to the chain head at deployment.
const (
	presaleStartOffset = 10
	startOffset        = 30
	endOffset          = 90
)

// SequenceResult describes the execution of one command sequence.
type SequenceResult struct {
	// Config is the crowdsale configuration the sequence ran against.
	Config generators.CrowdsaleConfig

	// Commands is the sequence.
	Commands []generators.Command

	// DeploymentRejected indicates the crowdsale rejected its configuration, so no command ran.
	DeploymentRejected bool

	// Executed is the number of commands which ran, including the failing one.
	Executed int

	// Rejected is the number of commands the contracts rejected as expected.
	Rejected int

	// Failure is the assertion failure which stopped the sequence, or nil if it passed.
	Failure *AssertionError
}

// Passed indicates whether every command behaved as expected.
func (r *SequenceResult) Passed() bool {
	return r.Failure == nil
}

// Runner runs command sequences against freshly deployed crowdsales on a single chain, reverting the chain to its
// base state before each sequence.
type Runner struct {
	deployer *contracts.Deployer
	accounts []common.Address
	config   Config
	decoder  *abiutils.LogDecoder
	logger   *logging.Logger

	// baseBlockIndex is the chain length every sequence starts from.
	baseBlockIndex uint64
}

// NewRunner creates a Runner. The chain's current head becomes the base state of every sequence.
func NewRunner(deployer *contracts.Deployer, accounts []common.Address, config Config, logger *logging.Logger) (*Runner, error) {
	if len(accounts) == 0 {
		return nil, errors.New("campaign needs at least one account")
	}
	if logger == nil {
		logger = logging.GlobalLogger.NewSubLogger("module", "campaign")
	}

	decoder := abiutils.NewLogDecoder(&deployer.Artifacts.Crowdsale.Abi, &deployer.Artifacts.Token.Abi)
	if deployer.Artifacts.Message != nil {
		decoder.RegisterInterface(&deployer.Artifacts.Message.Abi)
	}

	return &Runner{
		deployer:       deployer,
		accounts:       accounts,
		config:         config,
		decoder:        decoder,
		logger:         logger,
		baseBlockIndex: uint64(len(deployer.Chain.CommittedBlocks())),
	}, nil
}

// Accounts returns the account pool commands draw from.
func (r *Runner) Accounts() []common.Address {
	return r.accounts
}

// RunSequence reverts the chain to its base state, deploys a crowdsale with the configuration and runs the commands
// in order. A command behaving differently than expected stops the sequence and is reported in the result; errors
// other than contract rejections are returned.
func (r *Runner) RunSequence(ctx context.Context, config generators.CrowdsaleConfig, commands []generators.Command) (*SequenceResult, error) {
	result := &SequenceResult{Config: config, Commands: commands}
	testChain := r.deployer.Chain
	if err := testChain.RevertToBlockIndex(r.baseBlockIndex); err != nil {
		return nil, err
	}

	crowdsale, err := r.deploy(config)
	if err != nil {
		if chain.IsChainRejection(err) {
			r.logger.Debug("Crowdsale deployment was rejected: ", err)
			result.DeploymentRejected = true
			return result, nil
		}
		return nil, err
	}

	state := &sequenceState{
		runner:    r,
		chain:     testChain,
		crowdsale: crowdsale,
		token:     crowdsale.Token(),
		burned:    big.NewInt(0),
		result:    result,
	}
	for i, command := range commands {
		if utils.CheckContextDone(ctx) {
			return nil, errors.WithStack(ctx.Err())
		}

		state.index = i
		state.command = command
		result.Executed++
		r.logger.Debug("Running command ", i, ": ", generators.Describe(command))

		err = command.Accept(state)
		if err == nil {
			err = state.checkInvariants()
		}
		if err != nil {
			var assertionError *AssertionError
			if errors.As(err, &assertionError) {
				result.Failure = assertionError
				return result, nil
			}
			return nil, errors.Wrapf(err, "command %d (%s)", i, generators.Describe(command))
		}
	}
	return result, nil
}

// deploy deploys a crowdsale from the configured owner, scheduled relative to the chain head.
func (r *Runner) deploy(config generators.CrowdsaleConfig) (*contracts.Crowdsale, error) {
	owner, err := config.Owner.Resolve(r.accounts)
	if err != nil {
		return nil, err
	}
	wallet, err := config.FoundationWallet.Resolve(r.accounts)
	if err != nil {
		return nil, err
	}

	latest := r.deployer.Chain.LatestTimestamp()
	return r.deployer.DeployCrowdsale(owner, contracts.CrowdsaleParams{
		PresaleStartTime:   latest + presaleStartOffset,
		StartTime:          latest + startOffset,
		EndTime:            latest + endOffset,
		InitialRate:        new(big.Int).SetUint64(config.InitialRate),
		PreferentialRate:   new(big.Int).SetUint64(config.PreferentialRate),
		Goal:               config.Goal,
		PrivatePresaleRate: new(big.Int).SetUint64(config.PrivatePresaleRate),
		WeiLockSeconds:     config.WeiLockSeconds,
		Wallet:             wallet,
	})
}

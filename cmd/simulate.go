package cmd

import (
	"math/big"

	"github.com/qiibee/crowdsim/cmd/exitcodes"
	"github.com/qiibee/crowdsim/generators"
	"github.com/qiibee/crowdsim/logging/colors"
	"github.com/qiibee/crowdsim/simulation"
	"github.com/qiibee/crowdsim/units"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// foundationShare is the share of the sold tokens minted to the wallet on finalization.
var foundationShare = decimal.New(25, -2)

// simulateCmd represents the command provider for the deterministic crowdsale simulation
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulates a crowdsale with fixed buyer funding",
	Long: `Deploys a crowdsale, sets its wei per USD value, buys tokens from five buyers so each ends up with the
configured funding, finalizes the sale, and checks the resulting token supply and balances.`,
	Args:          cobra.NoArgs,
	RunE:          cmdRunSimulate,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	if err := addSimulateFlags(); err != nil {
		cmdLogger.Panic("Failed to initialize the simulate command", err)
	}
	rootCmd.AddCommand(simulateCmd)
}

// cmdRunSimulate executes the simulate CLI command
func cmdRunSimulate(cmd *cobra.Command, args []string) error {
	projectConfig, err := loadProjectConfig(cmd)
	if err != nil {
		cmdLogger.Error("Failed to run the simulate command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	if err = updateProjectConfigWithSimulateFlags(cmd, projectConfig); err != nil {
		cmdLogger.Error("Failed to run the simulate command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	funding, err := projectConfig.Funding()
	if err != nil {
		cmdLogger.Error("Failed to run the simulate command", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}

	h, err := setupHarness(projectConfig)
	if err != nil {
		cmdLogger.Error("Failed to set up the harness", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	defer h.Close()

	ctx, cancel := interruptibleContext()
	defer cancel()

	env := simulation.NewChainEnvironment(h.deployer, h.accounts, nil)
	crowdsaleConfig := generators.DefaultCrowdsaleConfig(projectConfig.Simulation.Rate)
	weiPerUSD := new(big.Int).SetUint64(projectConfig.Simulation.WeiPerUSD)
	crowdsale, schedule, err := simulation.SimulateCrowdsale(ctx, env, crowdsaleConfig, funding, weiPerUSD)
	if err != nil {
		cmdLogger.Error("Simulation failed", err)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	cmdLogger.Info("Crowdsale ran from ", schedule.PresaleStart, " to ", schedule.End, " and was finalized")

	sold := decimal.Zero
	for _, amount := range funding {
		sold = sold.Add(amount)
	}
	totalSupply := sold.Add(sold.Mul(foundationShare))

	err = simulation.CheckToken(crowdsale.Token(), h.accounts, totalSupply, funding)
	if err != nil {
		cmdLogger.Error("Token check failed: ", colors.Red, err.Error(), colors.Reset)
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeTestFailed)
	}

	supply, err := crowdsale.Token().TotalSupply()
	if err != nil {
		return exitcodes.NewErrorWithExitCode(err, exitcodes.ExitCodeHandledError)
	}
	cmdLogger.Info(colors.GreenBold, "Token check passed", colors.Reset, ": total supply ", units.ToDisplayUnits(supply).String(), " QBX")
	for i, amount := range funding {
		cmdLogger.Info("  account ", i+1, ": ", amount.String(), " QBX")
	}
	return nil
}

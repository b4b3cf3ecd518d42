package cli

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/loam-labs/evmkit/internal/domain/models"
)

func newDeployCmd() *cobra.Command {
	var (
		from string
		gas  uint64
		link map[string]string
	)

	cmd := &cobra.Command{
		Use:   "deploy <contract-key> [constructor-args...]",
		Short: "Deploy a registered contract",
		Long: `Deploy re-fetches the contract's artifact, links library placeholders,
submits the creation transaction and waits for its receipt. On confirmation
the registry record is updated with the new address.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := appFromContext(cmd)
			if err != nil {
				return err
			}

			key := args[0]
			rec, ok := appInstance.Registry.Get(key)
			if !ok {
				return fmt.Errorf("contract %q not found in registry", key)
			}

			var inputs abi.Arguments
			if rec.ABI != nil {
				inputs = rec.ABI.Constructor.Inputs
			}
			constructorArgs, err := parseCallArgs(inputs, args[1:])
			if err != nil {
				return err
			}

			opts := models.DeployOptions{
				PlaceholderReplacements: link,
			}
			if from != "" {
				if !common.IsHexAddress(from) {
					return fmt.Errorf("invalid --from address %q", from)
				}
				opts.From = common.HexToAddress(from)
			}
			opts.Gas = gas

			updated, err := appInstance.Deployer.Deploy(cmd.Context(), key, constructorArgs, opts)
			if err != nil {
				return err
			}

			color.Green("✓ %s deployed at %s", key, updated.Address.Hex())
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "sender address (default: first ledger account)")
	cmd.Flags().Uint64Var(&gas, "gas", 0, fmt.Sprintf("gas limit (default: %d)", models.DefaultGasLimit))
	cmd.Flags().StringToStringVar(&link, "link", nil, "library placeholder replacements, token=address-or-key")
	return cmd
}

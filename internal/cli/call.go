package cli

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/loam-labs/evmkit/internal/domain/models"
)

// parseContractRef interprets a command-line contract reference: a plain
// registry key, or key@address-or-key for an ad-hoc binding.
func parseContractRef(s string) models.ContractRef {
	if key, at, found := strings.Cut(s, "@"); found {
		return models.KeyAtRef(key, at)
	}
	return models.KeyRef(s)
}

func newCallCmd() *cobra.Command {
	var (
		from          string
		gas           uint64
		ignoreForward bool
	)

	cmd := &cobra.Command{
		Use:   "call <contract-ref> <method> [args...]",
		Short: "Invoke a contract method",
		Long: `Call resolves a contract reference (a registry key, or key@address for an
ad-hoc binding; forwards-to indirection is honored unless --ignore-forward)
and dispatches the method. Read-only methods print their outputs;
state-changing ones print the transaction hash.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			appInstance, err := appFromContext(cmd)
			if err != nil {
				return err
			}

			ref := parseContractRef(args[0])
			method := args[1]

			opts := models.CallOptions{IgnoreForward: ignoreForward}
			if from != "" {
				if !common.IsHexAddress(from) {
					return fmt.Errorf("invalid --from address %q", from)
				}
				opts.From = common.HexToAddress(from)
			}
			opts.Gas = gas

			inst, err := appInstance.Invoker.Resolve(cmd.Context(), ref, ignoreForward)
			if err != nil {
				return err
			}
			contractABI := inst.ABI()
			if contractABI == nil {
				return fmt.Errorf("contract %s has no interface descriptor", ref)
			}
			m, ok := contractABI.Methods[method]
			if !ok {
				return fmt.Errorf("method %q not found on %s", method, ref)
			}
			callArgs, err := parseCallArgs(m.Inputs, args[2:])
			if err != nil {
				return err
			}

			result, err := appInstance.Invoker.Call(cmd.Context(), ref, method, callArgs, opts)
			if err != nil {
				return err
			}

			if result.TxHash != (common.Hash{}) {
				color.Green("✓ transaction %s", result.TxHash.Hex())
				return nil
			}
			for _, v := range result.Values {
				fmt.Fprintln(cmd.OutOrStdout(), formatValue(v))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "sender address (default: first ledger account)")
	cmd.Flags().Uint64Var(&gas, "gas", 0, fmt.Sprintf("gas limit (default: %d)", models.DefaultGasLimit))
	cmd.Flags().BoolVar(&ignoreForward, "ignore-forward", false, "resolve the reference directly, bypassing forwards-to")
	return cmd
}

func formatValue(v any) string {
	switch val := v.(type) {
	case common.Address:
		return val.Hex()
	case common.Hash:
		return val.Hex()
	case []byte:
		return fmt.Sprintf("0x%x", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

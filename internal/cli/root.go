// Package cli implements the evmkit command tree.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/loam-labs/evmkit/internal/app"
)

// contextKey is the type for context keys.
type contextKey string

const (
	appKey     contextKey = "app"
	cleanupKey contextKey = "cleanup"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "evmkit",
		Short: "Smart contract lifecycle and event replay toolkit",
		Long: `evmkit manages contract metadata against an EVM ledger: deploying
contracts with library linking, invoking methods through a contract registry,
and replaying historical event logs from many sources in one consistent
(block, transaction, log) order.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			appInstance, cleanup, err := app.InitApp(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			ctx = context.WithValue(ctx, cleanupKey, cleanup)

			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if cleanup, ok := cmd.Context().Value(cleanupKey).(func()); ok {
				cleanup()
			}
		},
	}

	rootCmd.AddCommand(
		newDeployCmd(),
		newCallCmd(),
		newReplayCmd(),
		newListCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// appFromContext retrieves the wired app stored by the root command.
func appFromContext(cmd *cobra.Command) (*app.App, error) {
	appInstance, ok := cmd.Context().Value(appKey).(*app.App)
	if !ok {
		return nil, fmt.Errorf("app not initialized")
	}
	return appInstance, nil
}

// Execute runs the command tree.
func Execute() error {
	return NewRootCmd().Execute()
}

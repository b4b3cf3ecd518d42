//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"

	"github.com/loam-labs/evmkit/internal/adapters/artifacts"
	"github.com/loam-labs/evmkit/internal/adapters/blockchain"
	"github.com/loam-labs/evmkit/internal/adapters/registry"
	"github.com/loam-labs/evmkit/internal/config"
	"github.com/loam-labs/evmkit/internal/logging"
	"github.com/loam-labs/evmkit/internal/usecase"
)

// InitApp creates a fully wired App instance.
func InitApp(ctx context.Context) (*App, func(), error) {
	wire.Build(
		config.Load,
		logging.NewLogger,

		ProvideLedger,
		ProvideArtifacts,
		ProvideRegistry,
		ProvidePoller,

		wire.Bind(new(usecase.Ledger), new(*blockchain.LedgerAdapter)),
		wire.Bind(new(usecase.ContractStore), new(*registry.InMemoryRegistry)),
		wire.Bind(new(usecase.ArtifactStore), new(*artifacts.FSLoader)),

		usecase.NewInvoker,
		usecase.NewDeployer,
		usecase.NewEnricher,
		usecase.NewReplayer,
		usecase.NewOrderedReplayer,

		NewApp,
	)
	return nil, nil, nil
}

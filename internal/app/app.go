// Package app assembles the evmkit application.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"github.com/loam-labs/evmkit/internal/adapters/artifacts"
	"github.com/loam-labs/evmkit/internal/adapters/blockchain"
	"github.com/loam-labs/evmkit/internal/adapters/registry"
	"github.com/loam-labs/evmkit/internal/config"
	"github.com/loam-labs/evmkit/internal/domain/models"
	"github.com/loam-labs/evmkit/internal/usecase"
)

// App is the application container holding every wired component.
type App struct {
	Config   *config.RuntimeConfig
	Log      *slog.Logger
	Ledger   *blockchain.LedgerAdapter
	Registry *registry.InMemoryRegistry

	Poller          *usecase.ReceiptPoller
	Invoker         *usecase.Invoker
	Deployer        *usecase.Deployer
	Enricher        *usecase.Enricher
	Replayer        *usecase.Replayer
	OrderedReplayer *usecase.OrderedReplayer
}

// NewApp creates the container.
func NewApp(
	cfg *config.RuntimeConfig,
	log *slog.Logger,
	ledger *blockchain.LedgerAdapter,
	reg *registry.InMemoryRegistry,
	poller *usecase.ReceiptPoller,
	invoker *usecase.Invoker,
	deployer *usecase.Deployer,
	enricher *usecase.Enricher,
	replayer *usecase.Replayer,
	orderedReplayer *usecase.OrderedReplayer,
) *App {
	return &App{
		Config:          cfg,
		Log:             log,
		Ledger:          ledger,
		Registry:        reg,
		Poller:          poller,
		Invoker:         invoker,
		Deployer:        deployer,
		Enricher:        enricher,
		Replayer:        replayer,
		OrderedReplayer: orderedReplayer,
	}
}

// ProvideLedger dials the configured node. The cleanup closes the
// connection.
func ProvideLedger(ctx context.Context, cfg *config.RuntimeConfig) (*blockchain.LedgerAdapter, func(), error) {
	ledger, err := blockchain.Dial(ctx, cfg.RPCURL)
	if err != nil {
		return nil, nil, err
	}
	return ledger, ledger.Close, nil
}

// ProvideArtifacts creates the artifact loader over the build output dir.
func ProvideArtifacts(cfg *config.RuntimeConfig) *artifacts.FSLoader {
	return artifacts.NewFSLoader(cfg.ArtifactsDir)
}

// ProvideRegistry builds the registry from the initial contract set: each
// manifest entry's artifact is loaded, and deployed entries with an
// interface descriptor get a bound instance.
func ProvideRegistry(
	ctx context.Context,
	cfg *config.RuntimeConfig,
	loader *artifacts.FSLoader,
	ledger *blockchain.LedgerAdapter,
	log *slog.Logger,
) (*registry.InMemoryRegistry, error) {
	manifest, err := config.LoadContracts(cfg.ContractsFile)
	if err != nil {
		return nil, err
	}

	records := make([]*models.ContractRecord, 0, len(manifest.Contracts))
	for key, entry := range manifest.Contracts {
		name := entry.Name
		if name == "" {
			name = key
		}

		artifact, err := loader.Artifact(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("contract %q: %w", key, err)
		}

		rec := &models.ContractRecord{
			Key:        key,
			Name:       name,
			ABI:        artifact.ABI,
			Bytecode:   artifact.Bytecode,
			ForwardsTo: entry.ForwardsTo,
		}
		if entry.Address != "" {
			rec.Address = common.HexToAddress(entry.Address)
			if rec.ABI != nil {
				rec.Instance = ledger.Bind(rec.ABI, rec.Address)
			}
		}
		records = append(records, rec)
		log.Debug("registered contract",
			"key", key,
			"name", name,
			"address", entry.Address,
			"forwards_to", entry.ForwardsTo,
		)
	}

	return registry.NewInMemoryRegistry(records...), nil
}

// ProvidePoller creates the receipt poller with the configured bounds.
func ProvidePoller(ledger *blockchain.LedgerAdapter, cfg *config.RuntimeConfig, log *slog.Logger) *usecase.ReceiptPoller {
	opts := []usecase.PollerOption{}
	if cfg.PollInterval > 0 {
		opts = append(opts, usecase.WithPollInterval(cfg.PollInterval))
	}
	if cfg.MaxPollAttempts > 0 {
		opts = append(opts, usecase.WithMaxAttempts(cfg.MaxPollAttempts))
	}
	return usecase.NewReceiptPoller(ledger, log, opts...)
}

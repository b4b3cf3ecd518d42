package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/loam-labs/evmkit/internal/domain"
	"github.com/loam-labs/evmkit/internal/domain/models"
)

// Deployer links, submits and confirms contract-creation transactions, then
// records the resulting address in the registry.
type Deployer struct {
	artifacts ArtifactStore
	ledger    Ledger
	registry  ContractStore
	poller    *ReceiptPoller
	log       *slog.Logger
}

// NewDeployer creates a Deployer.
func NewDeployer(artifacts ArtifactStore, ledger Ledger, registry ContractStore, poller *ReceiptPoller, log *slog.Logger) *Deployer {
	return &Deployer{
		artifacts: artifacts,
		ledger:    ledger,
		registry:  registry,
		poller:    poller,
		log:       log,
	}
}

// Deploy deploys the contract registered under key.
//
// The interface descriptor and bytecode are re-fetched from build artifacts
// rather than taken from the registry, so a recompile between deployments is
// always picked up. On confirmation the registry record is merged with the
// new address and bound instance. A receipt arriving without a gas-used
// value or block number leaves the registry untouched and yields
// domain.ErrDeploymentPending.
func (d *Deployer) Deploy(ctx context.Context, key string, constructorArgs []any, opts models.DeployOptions) (*models.ContractRecord, error) {
	rec, ok := d.registry.Get(key)
	if !ok {
		return nil, domain.KeyNotFoundError{Key: key}
	}
	name := rec.Name
	if name == "" {
		name = key
	}

	artifact, err := d.artifacts.Artifact(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("loading artifact for %q: %w", name, err)
	}
	if artifact.Bytecode == "" {
		return nil, fmt.Errorf("contract %q: %w", key, domain.ErrMissingBytecode)
	}

	bytecode, err := LinkBytecode(artifact.Bytecode, opts.PlaceholderReplacements, d.registry)
	if err != nil {
		return nil, fmt.Errorf("linking bytecode for %q: %w", key, err)
	}

	txOpts, err := fillTxDefaults(ctx, d.ledger, opts.TxOptions)
	if err != nil {
		return nil, err
	}

	txHash, err := d.ledger.SubmitDeployment(ctx, bytecode, artifact.ABI, constructorArgs, txOpts)
	if err != nil {
		return nil, fmt.Errorf("submitting deployment of %q: %w", key, err)
	}
	d.log.Info("deployment submitted",
		"contract", key,
		"tx", txHash.Hex(),
		"from", txOpts.From.Hex(),
		"gas", txOpts.Gas,
	)

	receipt, err := d.poller.Wait(ctx, txHash)
	if err != nil {
		return nil, err
	}

	if receipt.GasUsed == 0 || receipt.BlockNumber == nil {
		d.log.Warn("deployment receipt incomplete, registry not updated",
			"contract", key,
			"tx", txHash.Hex(),
		)
		return nil, fmt.Errorf("contract %q (tx %s): %w", key, txHash.Hex(), domain.ErrDeploymentPending)
	}

	instance := d.ledger.Bind(artifact.ABI, receipt.ContractAddress)
	updated := d.registry.Update(key, models.RecordUpdate{
		Address:  &receipt.ContractAddress,
		Instance: instance,
	})

	d.log.Info("contract deployed",
		"contract", key,
		"address", receipt.ContractAddress.Hex(),
		"block", receipt.BlockNumber.String(),
		"gas_used", receipt.GasUsed,
	)
	return updated, nil
}

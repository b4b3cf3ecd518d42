package usecase_test

import (
	"context"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loam-labs/evmkit/internal/adapters/registry"
	"github.com/loam-labs/evmkit/internal/domain"
	"github.com/loam-labs/evmkit/internal/domain/models"
	"github.com/loam-labs/evmkit/internal/usecase"
)

func TestDeployer(t *testing.T) {
	ctx := context.Background()
	account := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	contractAddr := common.HexToAddress("0xcccccccccccccccccccccccccccccccccccccccc")
	txHash := common.HexToHash("0xfeed")

	counterABI := mustABI(t, counterABIJSON)

	newDeployer := func(ledger *fakeLedger, reg *registry.InMemoryRegistry, artifacts *fakeArtifacts) *usecase.Deployer {
		poller := usecase.NewReceiptPoller(ledger, testLogger(),
			usecase.WithPollInterval(time.Millisecond))
		return usecase.NewDeployer(artifacts, ledger, reg, poller, testLogger())
	}

	t.Run("deploys with defaults and records the address", func(t *testing.T) {
		reg := registry.NewInMemoryRegistry(
			&models.ContractRecord{Key: "counter", Name: "Counter"},
		)
		artifacts := &fakeArtifacts{artifacts: map[string]*models.Artifact{
			"Counter": {Name: "Counter", ABI: counterABI, Bytecode: "60606040"},
		}}
		ledger := &fakeLedger{
			accounts:   []common.Address{account},
			submitHash: txHash,
			receiptResults: []receiptResult{
				{err: ethereum.NotFound},
				{receipt: &types.Receipt{
					GasUsed:         84000,
					BlockNumber:     big.NewInt(12),
					ContractAddress: contractAddr,
				}},
			},
		}
		deployer := newDeployer(ledger, reg, artifacts)

		updated, err := deployer.Deploy(ctx, "counter", []any{big.NewInt(42)}, models.DeployOptions{})
		require.NoError(t, err)

		require.Len(t, ledger.submitted, 1)
		sub := ledger.submitted[0]
		assert.Equal(t, account, sub.opts.From)
		assert.Equal(t, models.DefaultGasLimit, sub.opts.Gas)
		assert.Equal(t, "60606040", sub.bytecode)
		assert.Equal(t, []any{big.NewInt(42)}, sub.args)

		assert.Equal(t, contractAddr, updated.Address)
		assert.NotNil(t, updated.Instance)

		stored, ok := reg.Get("counter")
		require.True(t, ok)
		assert.Equal(t, contractAddr, stored.Address)
		assert.Equal(t, "Counter", stored.Name, "merge must preserve existing fields")
	})

	t.Run("links placeholders through the registry before submitting", func(t *testing.T) {
		libAddr := common.HexToAddress("0xABCDEF0123456789ABCDEF0123456789ABCDEF01")
		token := placeholder("SafeMath")
		reg := registry.NewInMemoryRegistry(
			&models.ContractRecord{Key: "counter", Name: "Counter"},
			&models.ContractRecord{Key: "safe-math", Name: "SafeMath", Address: libAddr},
		)
		artifacts := &fakeArtifacts{artifacts: map[string]*models.Artifact{
			"Counter": {Name: "Counter", ABI: counterABI, Bytecode: "6060" + token + "6040"},
		}}
		ledger := &fakeLedger{
			accounts:   []common.Address{account},
			submitHash: txHash,
			receiptResults: []receiptResult{
				{receipt: &types.Receipt{
					GasUsed:         84000,
					BlockNumber:     big.NewInt(12),
					ContractAddress: contractAddr,
				}},
			},
		}
		deployer := newDeployer(ledger, reg, artifacts)

		_, err := deployer.Deploy(ctx, "counter", []any{big.NewInt(1)}, models.DeployOptions{
			PlaceholderReplacements: map[string]string{token: "safe-math"},
		})
		require.NoError(t, err)

		require.Len(t, ledger.submitted, 1)
		assert.Equal(t, "6060"+"abcdef0123456789abcdef0123456789abcdef01"+"6040",
			ledger.submitted[0].bytecode)
	})

	t.Run("incomplete receipt leaves the registry untouched", func(t *testing.T) {
		reg := registry.NewInMemoryRegistry(
			&models.ContractRecord{Key: "counter", Name: "Counter"},
		)
		artifacts := &fakeArtifacts{artifacts: map[string]*models.Artifact{
			"Counter": {Name: "Counter", ABI: counterABI, Bytecode: "6060"},
		}}
		ledger := &fakeLedger{
			accounts:   []common.Address{account},
			submitHash: txHash,
			receiptResults: []receiptResult{
				{receipt: &types.Receipt{GasUsed: 0, BlockNumber: big.NewInt(12)}},
			},
		}
		deployer := newDeployer(ledger, reg, artifacts)

		_, err := deployer.Deploy(ctx, "counter", nil, models.DeployOptions{})
		require.ErrorIs(t, err, domain.ErrDeploymentPending)

		stored, ok := reg.Get("counter")
		require.True(t, ok)
		assert.False(t, stored.Deployed())
		assert.Nil(t, stored.Instance)
	})

	t.Run("missing bytecode is rejected", func(t *testing.T) {
		reg := registry.NewInMemoryRegistry(
			&models.ContractRecord{Key: "counter", Name: "Counter"},
		)
		artifacts := &fakeArtifacts{artifacts: map[string]*models.Artifact{}}
		ledger := &fakeLedger{accounts: []common.Address{account}}
		deployer := newDeployer(ledger, reg, artifacts)

		_, err := deployer.Deploy(ctx, "counter", nil, models.DeployOptions{})
		require.ErrorIs(t, err, domain.ErrMissingBytecode)
		assert.Empty(t, ledger.submitted)
	})

	t.Run("unknown key is rejected", func(t *testing.T) {
		reg := registry.NewInMemoryRegistry()
		deployer := newDeployer(&fakeLedger{}, reg, &fakeArtifacts{})

		_, err := deployer.Deploy(ctx, "ghost", nil, models.DeployOptions{})
		var notFound domain.KeyNotFoundError
		require.ErrorAs(t, err, &notFound)
	})
}

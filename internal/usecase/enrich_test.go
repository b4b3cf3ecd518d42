package usecase_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loam-labs/evmkit/internal/adapters/registry"
	"github.com/loam-labs/evmkit/internal/domain/models"
	"github.com/loam-labs/evmkit/internal/usecase"
)

func TestEnricher(t *testing.T) {
	tokenAddr := common.HexToAddress("0x4444444444444444444444444444444444444444")
	counterABI := mustABI(t, counterABIJSON)

	reg := registry.NewInMemoryRegistry(
		&models.ContractRecord{
			Key:      "token",
			Name:     "Token",
			ABI:      counterABI,
			Bytecode: "6060",
			Address:  tokenAddr,
			Instance: &fakeInstance{abi: counterABI, addr: tokenAddr},
		},
	)
	enricher := usecase.NewEnricher(reg)

	t.Run("constant-style event names are preserved", func(t *testing.T) {
		log := enricher.Enrich(rawLog(tokenAddr, "Transfer", 3, 0, 1))
		assert.Equal(t, "Transfer", log.Name)
		assert.Equal(t, "Transfer", log.Event)
	})

	t.Run("lower camel names become word-separated", func(t *testing.T) {
		log := enricher.Enrich(rawLog(tokenAddr, "valueChanged", 3, 0, 1))
		assert.Equal(t, "value-changed", log.Name)
	})

	t.Run("attaches a metadata-only contract copy", func(t *testing.T) {
		log := enricher.Enrich(rawLog(tokenAddr, "Transfer", 3, 0, 1))
		require.NotNil(t, log.Contract)
		assert.Equal(t, "token", log.Contract.Key)
		assert.Equal(t, "Token", log.Contract.Name)
		assert.Equal(t, tokenAddr, log.Contract.Address)
		assert.Nil(t, log.Contract.ABI)
		assert.Empty(t, log.Contract.Bytecode)
		assert.Nil(t, log.Contract.Instance)
	})

	t.Run("unknown source address leaves contract nil", func(t *testing.T) {
		other := common.HexToAddress("0x5555555555555555555555555555555555555555")
		log := enricher.Enrich(rawLog(other, "Transfer", 3, 0, 1))
		assert.Nil(t, log.Contract)
	})
}

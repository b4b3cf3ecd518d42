package usecase_test

import (
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loam-labs/evmkit/internal/adapters/registry"
	"github.com/loam-labs/evmkit/internal/domain"
	"github.com/loam-labs/evmkit/internal/domain/models"
	"github.com/loam-labs/evmkit/internal/usecase"
)

func placeholder(name string) string {
	token := "__" + name
	return token + strings.Repeat("_", 40-len(token))
}

func TestLinkBytecode(t *testing.T) {
	libAddr := common.HexToAddress("0xABCDEF0123456789ABCDEF0123456789ABCDEF01")
	reg := registry.NewInMemoryRegistry(
		&models.ContractRecord{Key: "safe-math", Name: "SafeMath", Address: libAddr},
		&models.ContractRecord{Key: "undeployed", Name: "Undeployed"},
	)

	t.Run("registry key replacement substitutes the stripped address", func(t *testing.T) {
		token := placeholder("SafeMath")
		bytecode := "606060" + token + "52602a" + token + "6060"

		linked, err := usecase.LinkBytecode(bytecode, map[string]string{token: "safe-math"}, reg)
		require.NoError(t, err)

		want := "606060" + "abcdef0123456789abcdef0123456789abcdef01" + "52602a" +
			"abcdef0123456789abcdef0123456789abcdef01" + "6060"
		assert.Equal(t, want, linked)
	})

	t.Run("literal address replacement strips the prefix verbatim", func(t *testing.T) {
		token := placeholder("SafeMath")
		bytecode := "6060" + token + "6060"

		linked, err := usecase.LinkBytecode(bytecode,
			map[string]string{token: "0xABCDEF0123456789ABCDEF0123456789ABCDEF01"}, reg)
		require.NoError(t, err)
		assert.Equal(t, "6060"+"ABCDEF0123456789ABCDEF0123456789ABCDEF01"+"6060", linked)
	})

	t.Run("no replacements and no placeholders is a no-op", func(t *testing.T) {
		linked, err := usecase.LinkBytecode("60606040", nil, reg)
		require.NoError(t, err)
		assert.Equal(t, "60606040", linked)
	})

	t.Run("unknown registry key fails", func(t *testing.T) {
		token := placeholder("SafeMath")
		_, err := usecase.LinkBytecode("6060"+token, map[string]string{token: "missing"}, reg)
		var notFound domain.KeyNotFoundError
		require.ErrorAs(t, err, &notFound)
	})

	t.Run("undeployed library fails", func(t *testing.T) {
		token := placeholder("SafeMath")
		_, err := usecase.LinkBytecode("6060"+token, map[string]string{token: "undeployed"}, reg)
		var notDeployed domain.NotDeployedError
		require.ErrorAs(t, err, &notDeployed)
	})

	t.Run("leftover placeholders are rejected", func(t *testing.T) {
		linkedToken := placeholder("SafeMath")
		leftover := placeholder("Other")
		bytecode := "6060" + linkedToken + leftover + "6060"

		_, err := usecase.LinkBytecode(bytecode, map[string]string{linkedToken: "safe-math"}, reg)
		var unlinked domain.UnlinkedBytecodeError
		require.ErrorAs(t, err, &unlinked)
		assert.Equal(t, []string{leftover}, unlinked.Tokens)
	})
}

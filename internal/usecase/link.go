package usecase

import (
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/loam-labs/evmkit/internal/domain"
)

// LinkBytecode substitutes library placeholder tokens in creation bytecode.
//
// Each replacement value is either a literal hex address or a registry key;
// for a key, the record's deployed address is used. The address's 0x prefix
// is stripped before substitution so the result stays valid hex. Bytecode
// still containing placeholder markers after linking is rejected.
func LinkBytecode(bytecode string, replacements map[string]string, registry ContractStore) (string, error) {
	linked := bytecode
	for token, target := range replacements {
		addr, err := linkTarget(target, registry)
		if err != nil {
			return "", err
		}
		linked = strings.ReplaceAll(linked, token, addr)
	}

	if tokens := unlinkedTokens(linked); len(tokens) > 0 {
		return "", domain.UnlinkedBytecodeError{Tokens: tokens}
	}
	return linked, nil
}

// linkTarget resolves a replacement value to a bare (prefix-free) hex
// address.
func linkTarget(target string, registry ContractStore) (string, error) {
	if common.IsHexAddress(target) {
		return strip0x(target), nil
	}
	rec, ok := registry.Get(target)
	if !ok {
		return "", domain.KeyNotFoundError{Key: target}
	}
	if !rec.Deployed() {
		return "", domain.NotDeployedError{Key: target}
	}
	return hex.EncodeToString(rec.Address.Bytes()), nil
}

func strip0x(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// placeholderWidth is the fixed width of a linker placeholder: it occupies
// the 20 bytecode bytes the library address will fill.
const placeholderWidth = 40

// unlinkedTokens extracts the distinct placeholder markers left in bytecode.
// Placeholders are the only legal source of underscores in hex bytecode and
// occupy a fixed-width window.
func unlinkedTokens(bytecode string) []string {
	var tokens []string
	seen := map[string]bool{}
	for i := 0; i < len(bytecode); {
		off := strings.IndexByte(bytecode[i:], '_')
		if off < 0 {
			break
		}
		start := i + off
		end := start + placeholderWidth
		if end > len(bytecode) {
			end = len(bytecode)
		}
		token := bytecode[start:end]
		if !seen[token] {
			seen[token] = true
			tokens = append(tokens, token)
		}
		i = end
	}
	return tokens
}

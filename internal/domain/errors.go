package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel errors for ledger operations
var (
	// ErrDeploymentPending is returned when a deployment's receipt arrived
	// without a gas-used value or block number. The transaction may still be
	// confirmed later; the registry is left untouched.
	ErrDeploymentPending = errors.New("deployment pending: receipt has no gas usage or block number")

	// ErrConfirmationTimeout is returned when a bounded receipt poll exhausts
	// its attempt budget without finding a receipt.
	ErrConfirmationTimeout = errors.New("confirmation timed out")

	// ErrNoAccounts is returned when a default sender is needed but the
	// ledger exposes no accounts.
	ErrNoAccounts = errors.New("ledger exposes no accounts")

	// ErrMissingBytecode is returned when deploying a contract whose artifact
	// carries no creation bytecode.
	ErrMissingBytecode = errors.New("artifact has no bytecode")
)

// KeyNotFoundError is returned when a contract reference names a registry key
// that does not exist.
type KeyNotFoundError struct {
	Key string
}

func (e KeyNotFoundError) Error() string {
	return fmt.Sprintf("contract %q not found in registry", e.Key)
}

// NotDeployedError is returned when an operation needs a contract's address
// but the registry record has none.
type NotDeployedError struct {
	Key string
}

func (e NotDeployedError) Error() string {
	return fmt.Sprintf("contract %q has no deployed address", e.Key)
}

// ForwardCycleError is returned when following forwards-to references loops
// back on itself or exceeds the depth guard.
type ForwardCycleError struct {
	Path []string
}

func (e ForwardCycleError) Error() string {
	return fmt.Sprintf("forward cycle detected: %s", strings.Join(e.Path, " -> "))
}

// UnlinkedBytecodeError is returned when bytecode still contains library
// placeholders after linking.
type UnlinkedBytecodeError struct {
	Tokens []string
}

func (e UnlinkedBytecodeError) Error() string {
	return fmt.Sprintf("bytecode contains unlinked placeholders: %s", strings.Join(e.Tokens, ", "))
}

// UnknownMethodError is returned when a call names a method absent from the
// resolved contract's interface.
type UnknownMethodError struct {
	Method  string
	Address common.Address
}

func (e UnknownMethodError) Error() string {
	return fmt.Sprintf("method %q not found on contract %s", e.Method, e.Address.Hex())
}

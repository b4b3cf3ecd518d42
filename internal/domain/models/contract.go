package models

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// DefaultGasLimit is applied to calls and deployments that do not specify a
// gas limit of their own.
const DefaultGasLimit uint64 = 4_000_000

// Instance is a contract bound to a concrete address and interface, ready to
// be invoked. The blockchain adapter backs it with an RPC client; tests back
// it with fakes.
type Instance interface {
	Address() common.Address
	ABI() *abi.ABI

	// Call performs a read-only invocation and returns the unpacked outputs.
	Call(ctx context.Context, opts TxOptions, method string, args ...any) ([]any, error)

	// Transact submits a state-changing invocation and returns its hash.
	Transact(ctx context.Context, opts TxOptions, method string, args ...any) (common.Hash, error)
}

// ContractRecord is the registry's unit of contract metadata. A record may
// describe an undeployed contract (bytecode only), a deployed one (address
// and instance set), or a proxy that forwards interface resolution to
// another record.
type ContractRecord struct {
	Key      string
	Name     string
	ABI      *abi.ABI
	Bytecode string

	// Address is the deployed address; the zero address means not deployed.
	Address common.Address

	// Instance is the callable bound at Address with ABI.
	Instance Instance

	// ForwardsTo names another registry key whose interface this record
	// delegates to while keeping its own address.
	ForwardsTo string
}

// Deployed reports whether the record carries a deployed address.
func (r *ContractRecord) Deployed() bool {
	return r.Address != (common.Address{})
}

// MetadataOnly returns a copy of the record with the interface descriptor,
// bytecode and bound instance stripped, suitable for attaching to event logs.
func (r *ContractRecord) MetadataOnly() *ContractRecord {
	if r == nil {
		return nil
	}
	return &ContractRecord{
		Key:        r.Key,
		Name:       r.Name,
		Address:    r.Address,
		ForwardsTo: r.ForwardsTo,
	}
}

// RecordUpdate is a partial ContractRecord. Only non-nil fields are merged
// into the stored record; fields left nil never clear existing values.
type RecordUpdate struct {
	Name       *string
	ABI        *abi.ABI
	Bytecode   *string
	Address    *common.Address
	Instance   Instance
	ForwardsTo *string
}

// ApplyTo merges the update into rec in place.
func (u RecordUpdate) ApplyTo(rec *ContractRecord) {
	if u.Name != nil {
		rec.Name = *u.Name
	}
	if u.ABI != nil {
		rec.ABI = u.ABI
	}
	if u.Bytecode != nil {
		rec.Bytecode = *u.Bytecode
	}
	if u.Address != nil {
		rec.Address = *u.Address
	}
	if u.Instance != nil {
		rec.Instance = u.Instance
	}
	if u.ForwardsTo != nil {
		rec.ForwardsTo = *u.ForwardsTo
	}
}

// TxOptions carries the transport-level options of a call or deployment.
type TxOptions struct {
	// From is the sender; the zero address means "first ledger account".
	From common.Address

	// Gas is the gas limit; zero means DefaultGasLimit.
	Gas uint64

	// Value is the amount of native currency to send, if any.
	Value *big.Int
}

// CallOptions are the options accepted by contract calls.
type CallOptions struct {
	TxOptions

	// IgnoreForward resolves the contract reference directly, bypassing any
	// forwards-to indirection. It is consumed by resolution and never
	// reaches the transport.
	IgnoreForward bool
}

// DeployOptions are the options accepted by deployments.
type DeployOptions struct {
	TxOptions

	// PlaceholderReplacements maps a library placeholder token to either a
	// literal hex address or a registry key whose deployed address is used.
	PlaceholderReplacements map[string]string
}

// Artifact is a contract's compiled interface descriptor and creation
// bytecode as produced by the build output. Either field may be absent.
type Artifact struct {
	Name     string
	ABI      *abi.ABI
	Bytecode string
}

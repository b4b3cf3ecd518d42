package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"github.com/loam-labs/evmkit/internal/domain"
	"github.com/loam-labs/evmkit/internal/domain/models"
)

// maxForwardDepth caps forwards-to chains; anything deeper is treated as a
// cycle.
const maxForwardDepth = 16

// Invoker resolves polymorphic contract references against the registry and
// dispatches method calls through the ledger transport.
type Invoker struct {
	registry ContractStore
	ledger   Ledger
	log      *slog.Logger
}

// NewInvoker creates an Invoker.
func NewInvoker(registry ContractStore, ledger Ledger, log *slog.Logger) *Invoker {
	return &Invoker{registry: registry, ledger: ledger, log: log}
}

// CallResult is the outcome of a dispatched call: unpacked outputs for a
// read-only method, a transaction hash for a state-changing one.
type CallResult struct {
	Values []any
	TxHash common.Hash
}

// Resolve turns a contract reference into a callable instance.
//
// A plain key whose record forwards to another key yields an instance bound
// to the target's interface at the referencing record's own address, unless
// ignoreForward is set. A (key, address-or-key) pair reuses key's interface
// at the other location.
func (inv *Invoker) Resolve(ctx context.Context, ref models.ContractRef, ignoreForward bool) (models.Instance, error) {
	switch ref.Kind() {
	case models.RefByInstance:
		return ref.Instance(), nil

	case models.RefByKeyAt:
		rec, ok := inv.registry.Get(ref.Key())
		if !ok {
			return nil, domain.KeyNotFoundError{Key: ref.Key()}
		}
		addr, err := inv.resolveAddress(ref.At())
		if err != nil {
			return nil, err
		}
		return inv.ledger.Bind(rec.ABI, addr), nil

	default:
		rec, ok := inv.registry.Get(ref.Key())
		if !ok {
			return nil, domain.KeyNotFoundError{Key: ref.Key()}
		}
		if rec.ForwardsTo != "" && !ignoreForward {
			target, err := inv.followForwards(rec)
			if err != nil {
				return nil, err
			}
			// The target's interface bound at the proxy's own address.
			return inv.ledger.Bind(target.ABI, rec.Address), nil
		}
		if rec.Instance != nil {
			return rec.Instance, nil
		}
		if !rec.Deployed() {
			return nil, domain.NotDeployedError{Key: ref.Key()}
		}
		return inv.ledger.Bind(rec.ABI, rec.Address), nil
	}
}

// followForwards walks the forwards-to chain from rec to its terminal
// record, failing on unknown keys and on cycles.
func (inv *Invoker) followForwards(rec *models.ContractRecord) (*models.ContractRecord, error) {
	path := []string{rec.Key}
	seen := map[string]bool{rec.Key: true}

	current := rec
	for current.ForwardsTo != "" {
		next, ok := inv.registry.Get(current.ForwardsTo)
		if !ok {
			return nil, domain.KeyNotFoundError{Key: current.ForwardsTo}
		}
		path = append(path, next.Key)
		if seen[next.Key] || len(path) > maxForwardDepth {
			return nil, domain.ForwardCycleError{Path: path}
		}
		seen[next.Key] = true
		current = next
	}
	return current, nil
}

// resolveAddress interprets addressOrKey as a hex address, or as a registry
// key whose deployed address is used.
func (inv *Invoker) resolveAddress(addressOrKey string) (common.Address, error) {
	if common.IsHexAddress(addressOrKey) {
		return common.HexToAddress(addressOrKey), nil
	}
	rec, ok := inv.registry.Get(addressOrKey)
	if !ok {
		return common.Address{}, domain.KeyNotFoundError{Key: addressOrKey}
	}
	if !rec.Deployed() {
		return common.Address{}, domain.NotDeployedError{Key: addressOrKey}
	}
	return rec.Address, nil
}

// Call resolves ref and dispatches method with args. Missing From and Gas
// options are defaulted to the first ledger account and DefaultGasLimit; the
// IgnoreForward flag is consumed here and never reaches the transport.
// Whether the method is read-only or state-changing is a property of the
// method's interface entry, not of this component.
func (inv *Invoker) Call(ctx context.Context, ref models.ContractRef, method string, args []any, opts models.CallOptions) (*CallResult, error) {
	inst, err := inv.Resolve(ctx, ref, opts.IgnoreForward)
	if err != nil {
		return nil, err
	}

	txOpts, err := fillTxDefaults(ctx, inv.ledger, opts.TxOptions)
	if err != nil {
		return nil, err
	}

	contractABI := inst.ABI()
	if contractABI == nil {
		return nil, domain.UnknownMethodError{Method: method, Address: inst.Address()}
	}
	m, ok := contractABI.Methods[method]
	if !ok {
		return nil, domain.UnknownMethodError{Method: method, Address: inst.Address()}
	}

	if m.IsConstant() {
		values, err := inst.Call(ctx, txOpts, method, args...)
		if err != nil {
			return nil, fmt.Errorf("calling %s on %s: %w", method, ref, err)
		}
		return &CallResult{Values: values}, nil
	}

	txHash, err := inst.Transact(ctx, txOpts, method, args...)
	if err != nil {
		return nil, fmt.Errorf("transacting %s on %s: %w", method, ref, err)
	}
	inv.log.Debug("transaction submitted",
		"contract", ref.String(),
		"method", method,
		"tx", txHash.Hex(),
	)
	return &CallResult{TxHash: txHash}, nil
}

// fillTxDefaults applies the default sender and gas limit to unset options.
func fillTxDefaults(ctx context.Context, ledger Ledger, opts models.TxOptions) (models.TxOptions, error) {
	if opts.From == (common.Address{}) {
		accounts, err := ledger.Accounts(ctx)
		if err != nil {
			return opts, fmt.Errorf("fetching ledger accounts: %w", err)
		}
		if len(accounts) == 0 {
			return opts, domain.ErrNoAccounts
		}
		opts.From = accounts[0]
	}
	if opts.Gas == 0 {
		opts.Gas = models.DefaultGasLimit
	}
	return opts, nil
}

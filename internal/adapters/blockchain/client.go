// Package blockchain adapts the usecase Ledger port onto an Ethereum JSON-RPC
// node. Transactions are signed node-side (eth_sendTransaction), matching a
// development-node account model.
package blockchain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/loam-labs/evmkit/internal/domain/models"
	"github.com/loam-labs/evmkit/internal/usecase"
)

// LedgerAdapter implements the Ledger port over a JSON-RPC connection.
type LedgerAdapter struct {
	rpc *rpc.Client
	eth *ethclient.Client
}

// Dial connects to the node at rpcURL.
func Dial(ctx context.Context, rpcURL string) (*LedgerAdapter, error) {
	client, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %w", rpcURL, err)
	}
	return NewLedgerAdapter(client), nil
}

// NewLedgerAdapter wraps an established RPC connection.
func NewLedgerAdapter(client *rpc.Client) *LedgerAdapter {
	return &LedgerAdapter{
		rpc: client,
		eth: ethclient.NewClient(client),
	}
}

// Close tears down the underlying connection.
func (l *LedgerAdapter) Close() {
	l.rpc.Close()
}

// Accounts lists the node's accounts.
func (l *LedgerAdapter) Accounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := l.rpc.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, fmt.Errorf("fetching accounts: %w", err)
	}
	return accounts, nil
}

// TransactionReceipt fetches the receipt for txHash. ethclient already
// normalizes a missing receipt to ethereum.NotFound, which is the port's
// contract.
func (l *LedgerAdapter) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	return l.eth.TransactionReceipt(ctx, txHash)
}

// SubmitDeployment submits a contract-creation transaction and returns its
// hash. Constructor args are packed per the artifact's interface and
// appended to the creation bytecode.
func (l *LedgerAdapter) SubmitDeployment(ctx context.Context, bytecode string, contractABI *abi.ABI, args []any, opts models.TxOptions) (common.Hash, error) {
	data := common.FromHex(bytecode)
	if len(args) > 0 {
		if contractABI == nil {
			return common.Hash{}, fmt.Errorf("constructor args given but artifact has no interface descriptor")
		}
		packed, err := contractABI.Pack("", args...)
		if err != nil {
			return common.Hash{}, fmt.Errorf("packing constructor args: %w", err)
		}
		data = append(data, packed...)
	}
	return l.sendTransaction(ctx, nil, data, opts)
}

// Bind returns a callable instance at addr.
func (l *LedgerAdapter) Bind(contractABI *abi.ABI, addr common.Address) models.Instance {
	return &boundInstance{ledger: l, abi: contractABI, addr: addr}
}

// sendTransaction submits a node-signed transaction. A nil to address means
// contract creation.
func (l *LedgerAdapter) sendTransaction(ctx context.Context, to *common.Address, data []byte, opts models.TxOptions) (common.Hash, error) {
	msg := map[string]any{
		"from": opts.From,
		"gas":  hexutil.Uint64(opts.Gas),
		"data": hexutil.Bytes(data),
	}
	if to != nil {
		msg["to"] = *to
	}
	if opts.Value != nil {
		msg["value"] = (*hexutil.Big)(opts.Value)
	}

	var txHash common.Hash
	if err := l.rpc.CallContext(ctx, &txHash, "eth_sendTransaction", msg); err != nil {
		return common.Hash{}, fmt.Errorf("sending transaction: %w", err)
	}
	return txHash, nil
}

// boundInstance is a contract bound to an address and interface.
type boundInstance struct {
	ledger *LedgerAdapter
	abi    *abi.ABI
	addr   common.Address
}

func (b *boundInstance) Address() common.Address { return b.addr }
func (b *boundInstance) ABI() *abi.ABI           { return b.abi }

// Call performs a read-only invocation via eth_call and unpacks the outputs.
func (b *boundInstance) Call(ctx context.Context, opts models.TxOptions, method string, args ...any) ([]any, error) {
	data, err := b.abi.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("packing %s args: %w", method, err)
	}

	msg := map[string]any{
		"from": opts.From,
		"to":   b.addr,
		"gas":  hexutil.Uint64(opts.Gas),
		"data": hexutil.Bytes(data),
	}
	var out hexutil.Bytes
	if err := b.ledger.rpc.CallContext(ctx, &out, "eth_call", msg, "latest"); err != nil {
		return nil, fmt.Errorf("calling %s: %w", method, err)
	}

	values, err := b.abi.Unpack(method, out)
	if err != nil {
		return nil, fmt.Errorf("unpacking %s outputs: %w", method, err)
	}
	return values, nil
}

// Transact submits a state-changing invocation and returns its hash.
func (b *boundInstance) Transact(ctx context.Context, opts models.TxOptions, method string, args ...any) (common.Hash, error) {
	data, err := b.abi.Pack(method, args...)
	if err != nil {
		return common.Hash{}, fmt.Errorf("packing %s args: %w", method, err)
	}
	addr := b.addr
	return b.ledger.sendTransaction(ctx, &addr, data, opts)
}

var (
	_ usecase.Ledger  = (*LedgerAdapter)(nil)
	_ models.Instance = (*boundInstance)(nil)
)

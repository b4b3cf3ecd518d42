package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/loam-labs/evmkit/internal/domain/models"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustABI(t *testing.T, def string) *abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(def))
	require.NoError(t, err)
	return &parsed
}

const counterABIJSON = `[
	{"type":"constructor","inputs":[{"name":"start","type":"uint256"}]},
	{"type":"function","name":"value","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"increment","stateMutability":"nonpayable","inputs":[{"name":"by","type":"uint256"}],"outputs":[]}
]`

// receiptResult is one scripted answer of fakeLedger.TransactionReceipt.
type receiptResult struct {
	receipt *types.Receipt
	err     error
}

// submission records one SubmitDeployment call.
type submission struct {
	bytecode string
	args     []any
	opts     models.TxOptions
}

// fakeLedger implements usecase.Ledger with scripted behavior.
type fakeLedger struct {
	mu sync.Mutex

	accounts    []common.Address
	accountsErr error

	// receiptResults are consumed in order; the last one repeats.
	receiptResults  []receiptResult
	receiptAttempts int

	submitHash common.Hash
	submitErr  error
	submitted  []submission

	bound []*fakeInstance
}

func (f *fakeLedger) Accounts(ctx context.Context) ([]common.Address, error) {
	return f.accounts, f.accountsErr
}

func (f *fakeLedger) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.receiptAttempts++
	idx := f.receiptAttempts - 1
	if idx >= len(f.receiptResults) {
		idx = len(f.receiptResults) - 1
	}
	res := f.receiptResults[idx]
	return res.receipt, res.err
}

func (f *fakeLedger) SubmitDeployment(ctx context.Context, bytecode string, contractABI *abi.ABI, args []any, opts models.TxOptions) (common.Hash, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, submission{bytecode: bytecode, args: args, opts: opts})
	return f.submitHash, f.submitErr
}

func (f *fakeLedger) Bind(contractABI *abi.ABI, addr common.Address) models.Instance {
	f.mu.Lock()
	defer f.mu.Unlock()
	inst := &fakeInstance{abi: contractABI, addr: addr}
	f.bound = append(f.bound, inst)
	return inst
}

// recordedCall is one Call/Transact dispatched to a fakeInstance.
type recordedCall struct {
	method string
	args   []any
	opts   models.TxOptions
}

// fakeInstance implements models.Instance with scripted outputs.
type fakeInstance struct {
	abi  *abi.ABI
	addr common.Address

	callValues []any
	callErr    error
	txHash     common.Hash
	txErr      error

	calls     []recordedCall
	transacts []recordedCall
}

func (f *fakeInstance) Address() common.Address { return f.addr }
func (f *fakeInstance) ABI() *abi.ABI           { return f.abi }

func (f *fakeInstance) Call(ctx context.Context, opts models.TxOptions, method string, args ...any) ([]any, error) {
	f.calls = append(f.calls, recordedCall{method: method, args: args, opts: opts})
	return f.callValues, f.callErr
}

func (f *fakeInstance) Transact(ctx context.Context, opts models.TxOptions, method string, args ...any) (common.Hash, error) {
	f.transacts = append(f.transacts, recordedCall{method: method, args: args, opts: opts})
	return f.txHash, f.txErr
}

// fakeArtifacts implements usecase.ArtifactStore from a fixed map.
type fakeArtifacts struct {
	artifacts map[string]*models.Artifact
}

func (f *fakeArtifacts) Artifact(ctx context.Context, name string) (*models.Artifact, error) {
	if art, ok := f.artifacts[name]; ok {
		return art, nil
	}
	return &models.Artifact{Name: name}, nil
}

// fakeSource implements usecase.LogSource (and StopAttacher) with scripted
// logs. When release is non-nil, FetchLogs blocks until it is closed.
type fakeSource struct {
	logs    []models.RawLog
	err     error
	release chan struct{}

	mu      sync.Mutex
	fetches int
	stops   []func()
}

func (f *fakeSource) FetchLogs(ctx context.Context) ([]models.RawLog, error) {
	f.mu.Lock()
	f.fetches++
	f.mu.Unlock()
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.logs, f.err
}

func (f *fakeSource) AttachStop(stop func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops = append(f.stops, stop)
}

// stop invokes every attached replay stop handle.
func (f *fakeSource) stop() {
	f.mu.Lock()
	stops := f.stops
	f.mu.Unlock()
	for _, s := range stops {
		s()
	}
}

// rawLog builds a RawLog at the given ledger position.
func rawLog(addr common.Address, event string, block uint64, txIdx, logIdx uint) models.RawLog {
	return models.RawLog{
		Address:     addr,
		Event:       event,
		BlockNumber: block,
		TxIndex:     txIdx,
		LogIndex:    logIdx,
	}
}

// waitDone fails the test if the handle does not settle in time.
func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("replay did not settle in time")
	}
}

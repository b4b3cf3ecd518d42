package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/loam-labs/evmkit/internal/domain/models"
)

// ContractStore is the process-wide contract registry. Lookups that miss
// return ok=false rather than an error; callers decide whether a miss is
// fatal.
type ContractStore interface {
	// Get returns a copy of the record for key.
	Get(key string) (*models.ContractRecord, bool)

	// LookupByAddress returns the first record deployed at addr. Iteration
	// order is unspecified; addresses are expected to be unique.
	LookupByAddress(addr common.Address) (*models.ContractRecord, bool)

	// Update merges the non-nil fields of upd into the record for key,
	// creating the record if absent, and returns a copy of the result.
	// Previously-set fields not named by upd are preserved.
	Update(key string, upd models.RecordUpdate) *models.ContractRecord

	// All returns copies of every record.
	All() []*models.ContractRecord
}

// Ledger is the RPC transport boundary. Adapters must normalize a missing
// receipt to ethereum.NotFound so the poller can tell "not yet" from a
// transport failure.
type Ledger interface {
	// Accounts lists the ledger node's accounts; the first one is the
	// default sender.
	Accounts(ctx context.Context) ([]common.Address, error)

	// TransactionReceipt fetches the receipt for txHash, or ethereum.NotFound
	// when the transaction is not yet mined.
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)

	// SubmitDeployment submits a contract-creation transaction carrying the
	// linked bytecode and packed constructor args, returning its hash.
	SubmitDeployment(ctx context.Context, bytecode string, contractABI *abi.ABI, args []any, opts models.TxOptions) (common.Hash, error)

	// Bind returns a callable instance for contractABI at addr.
	Bind(contractABI *abi.ABI, addr common.Address) models.Instance
}

// ArtifactStore loads compiled contract artifacts from build output. A
// missing artifact yields a record with absent fields, not an error.
type ArtifactStore interface {
	Artifact(ctx context.Context, name string) (*models.Artifact, error)
}

// LogSource produces one contract event's full log history in a single
// fetch. Transport order of the returned logs carries no meaning.
type LogSource interface {
	FetchLogs(ctx context.Context) ([]models.RawLog, error)
}

// StopAttacher is implemented by log sources that can carry a replay's stop
// handle, so whoever owns the source can halt a replay driven by it.
type StopAttacher interface {
	AttachStop(stop func())
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/loam-labs/evmkit/internal/domain"
)

// DefaultPollInterval is the delay between receipt polls.
const DefaultPollInterval = time.Second

// ReceiptPoller waits for a submitted transaction's receipt to appear on the
// ledger. Polling is unbounded by default; a transport error fails
// immediately and is never retried.
type ReceiptPoller struct {
	ledger   Ledger
	log      *slog.Logger
	interval time.Duration

	// maxAttempts bounds the poll when positive; zero polls forever.
	maxAttempts int
}

// PollerOption configures a ReceiptPoller.
type PollerOption func(*ReceiptPoller)

// WithPollInterval overrides the delay between polls.
func WithPollInterval(d time.Duration) PollerOption {
	return func(p *ReceiptPoller) { p.interval = d }
}

// WithMaxAttempts bounds the number of polls; zero means unbounded.
func WithMaxAttempts(n int) PollerOption {
	return func(p *ReceiptPoller) { p.maxAttempts = n }
}

// NewReceiptPoller creates a poller against ledger.
func NewReceiptPoller(ledger Ledger, log *slog.Logger, opts ...PollerOption) *ReceiptPoller {
	p := &ReceiptPoller{
		ledger:   ledger,
		log:      log,
		interval: DefaultPollInterval,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Wait polls the ledger until the receipt for txHash exists, a transport
// error occurs, the context is cancelled, or the attempt budget (if any) is
// exhausted.
func (p *ReceiptPoller) Wait(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	for attempt := 1; ; attempt++ {
		receipt, err := p.ledger.TransactionReceipt(ctx, txHash)
		switch {
		case err == nil:
			return receipt, nil
		case !errors.Is(err, ethereum.NotFound):
			return nil, fmt.Errorf("fetching receipt for %s: %w", txHash.Hex(), err)
		}

		if p.maxAttempts > 0 && attempt >= p.maxAttempts {
			return nil, fmt.Errorf("no receipt for %s after %d attempts: %w",
				txHash.Hex(), attempt, domain.ErrConfirmationTimeout)
		}

		p.log.Debug("receipt not yet available",
			"tx", txHash.Hex(),
			"attempt", attempt,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(p.interval):
		}
	}
}

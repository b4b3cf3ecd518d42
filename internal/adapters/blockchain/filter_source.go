package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/loam-labs/evmkit/internal/domain/models"
	"github.com/loam-labs/evmkit/internal/usecase"
)

// FilterSource is a log source over one contract event: a filter covering a
// block range, fetched in a single bulk query. It also carries the stop
// handles of any replays it drives, so stopping the source halts them.
type FilterSource struct {
	ledger *LedgerAdapter
	abi    *abi.ABI
	addr   common.Address
	event  string

	// filter constrains indexed event fields by input name.
	filter    map[string]any
	fromBlock *big.Int
	toBlock   *big.Int

	mu    sync.Mutex
	stops []func()
}

// NewFilterSource builds a source for the named event of the contract bound
// at addr. filter constrains indexed fields by name; a nil fromBlock means
// genesis and a nil toBlock means the latest block.
func NewFilterSource(ledger *LedgerAdapter, contractABI *abi.ABI, addr common.Address, event string, filter map[string]any, fromBlock, toBlock *big.Int) *FilterSource {
	return &FilterSource{
		ledger:    ledger,
		abi:       contractABI,
		addr:      addr,
		event:     event,
		filter:    filter,
		fromBlock: fromBlock,
		toBlock:   toBlock,
	}
}

// FetchLogs performs the bulk historical fetch and decodes every log into a
// raw event log. Transport order of the result carries no meaning.
func (s *FilterSource) FetchLogs(ctx context.Context) ([]models.RawLog, error) {
	if s.abi == nil {
		return nil, fmt.Errorf("source for %s has no interface descriptor", s.addr.Hex())
	}
	ev, ok := s.abi.Events[s.event]
	if !ok {
		return nil, fmt.Errorf("event %q not found on contract %s", s.event, s.addr.Hex())
	}

	topics, err := s.buildTopics(ev)
	if err != nil {
		return nil, err
	}

	logs, err := s.ledger.eth.FilterLogs(ctx, ethereum.FilterQuery{
		FromBlock: s.fromBlock,
		ToBlock:   s.toBlock,
		Addresses: []common.Address{s.addr},
		Topics:    topics,
	})
	if err != nil {
		return nil, fmt.Errorf("fetching %s logs from %s: %w", s.event, s.addr.Hex(), err)
	}

	raws := make([]models.RawLog, 0, len(logs))
	for _, log := range logs {
		raw, err := s.decodeLog(ev, log)
		if err != nil {
			return nil, fmt.Errorf("decoding %s log %d in block %d: %w", s.event, log.Index, log.BlockNumber, err)
		}
		raws = append(raws, raw)
	}
	return raws, nil
}

// AttachStop registers a replay stop handle on this source.
func (s *FilterSource) AttachStop(stop func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops = append(s.stops, stop)
}

// Stop halts every replay attached to this source.
func (s *FilterSource) Stop() {
	s.mu.Lock()
	stops := s.stops
	s.mu.Unlock()
	for _, stop := range stops {
		stop()
	}
}

// buildTopics assembles the filter topics: the event signature followed by
// one position per indexed input, constrained when the filter names it.
func (s *FilterSource) buildTopics(ev abi.Event) ([][]common.Hash, error) {
	var query [][]any
	for _, input := range ev.Inputs {
		if !input.Indexed {
			continue
		}
		if v, ok := s.filter[input.Name]; ok {
			query = append(query, []any{v})
		} else {
			query = append(query, nil)
		}
	}

	indexed, err := abi.MakeTopics(query...)
	if err != nil {
		return nil, fmt.Errorf("building topic filter for %s: %w", s.event, err)
	}
	return append([][]common.Hash{{ev.ID}}, indexed...), nil
}

// decodeLog unpacks a ledger log into positional argument values in the
// event's declared input order.
func (s *FilterSource) decodeLog(ev abi.Event, log types.Log) (models.RawLog, error) {
	dataValues, err := ev.Inputs.NonIndexed().UnpackValues(log.Data)
	if err != nil {
		return models.RawLog{}, fmt.Errorf("unpacking data: %w", err)
	}

	var indexed abi.Arguments
	for _, input := range ev.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}
	topicValues := make(map[string]any, len(indexed))
	if len(indexed) > 0 {
		if err := abi.ParseTopicsIntoMap(topicValues, indexed, log.Topics[1:]); err != nil {
			return models.RawLog{}, fmt.Errorf("parsing topics: %w", err)
		}
	}

	args := make([]any, 0, len(ev.Inputs))
	next := 0
	for _, input := range ev.Inputs {
		if input.Indexed {
			args = append(args, topicValues[input.Name])
		} else {
			args = append(args, dataValues[next])
			next++
		}
	}

	return models.RawLog{
		Address:     log.Address,
		Event:       ev.RawName,
		Args:        args,
		BlockNumber: log.BlockNumber,
		TxIndex:     log.TxIndex,
		LogIndex:    log.Index,
	}, nil
}

var (
	_ usecase.LogSource    = (*FilterSource)(nil)
	_ usecase.StopAttacher = (*FilterSource)(nil)
)

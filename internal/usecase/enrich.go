package usecase

import (
	"github.com/loam-labs/evmkit/internal/domain/models"
)

// Enricher normalizes raw event logs and attaches the owning contract's
// metadata from the registry.
type Enricher struct {
	registry ContractStore
}

// NewEnricher creates an Enricher.
func NewEnricher(registry ContractStore) *Enricher {
	return &Enricher{registry: registry}
}

// Enrich normalizes the raw log's event name and attaches a metadata-only
// copy of the contract record owning the log's source address. A source
// address unknown to the registry leaves Contract nil.
func (e *Enricher) Enrich(raw models.RawLog) *models.EventLog {
	log := &models.EventLog{
		Address:     raw.Address,
		Event:       raw.Event,
		Args:        raw.Args,
		BlockNumber: raw.BlockNumber,
		TxIndex:     raw.TxIndex,
		LogIndex:    raw.LogIndex,
		Name:        models.NormalizeEventName(raw.Event),
	}
	if rec, ok := e.registry.LookupByAddress(raw.Address); ok {
		log.Contract = rec.MetadataOnly()
	}
	return log
}

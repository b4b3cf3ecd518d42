// Package registry holds the process-wide contract metadata registry.
package registry

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/loam-labs/evmkit/internal/domain/models"
	"github.com/loam-labs/evmkit/internal/usecase"
)

// InMemoryRegistry is the in-process ContractStore: a mutable map from
// contract key to record, created once at startup from an initial contract
// set and mutated on every successful deployment.
//
// All access goes through an RWMutex so true-parallel callers never observe
// a partially-merged record; accessors hand out copies, never the stored
// struct.
type InMemoryRegistry struct {
	mu      sync.RWMutex
	records map[string]*models.ContractRecord
}

// NewInMemoryRegistry creates a registry seeded with the given records.
func NewInMemoryRegistry(initial ...*models.ContractRecord) *InMemoryRegistry {
	r := &InMemoryRegistry{
		records: make(map[string]*models.ContractRecord, len(initial)),
	}
	for _, rec := range initial {
		clone := *rec
		r.records[rec.Key] = &clone
	}
	return r
}

// Get returns a copy of the record for key.
func (r *InMemoryRegistry) Get(key string) (*models.ContractRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[key]
	if !ok {
		return nil, false
	}
	clone := *rec
	return &clone, true
}

// LookupByAddress returns the first record deployed at addr. The scan order
// is the map's iteration order; addresses are expected to be unique so the
// order is immaterial.
func (r *InMemoryRegistry) LookupByAddress(addr common.Address) (*models.ContractRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.records {
		if rec.Address == addr {
			clone := *rec
			return &clone, true
		}
	}
	return nil, false
}

// Update merges the non-nil fields of upd into the record for key, creating
// it if absent, and returns a copy of the merged record. Fields not named by
// upd keep their previous values.
func (r *InMemoryRegistry) Update(key string, upd models.RecordUpdate) *models.ContractRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[key]
	if !ok {
		rec = &models.ContractRecord{Key: key}
		r.records[key] = rec
	}
	upd.ApplyTo(rec)
	clone := *rec
	return &clone
}

// All returns copies of every record.
func (r *InMemoryRegistry) All() []*models.ContractRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.ContractRecord, 0, len(r.records))
	for _, rec := range r.records {
		clone := *rec
		out = append(out, &clone)
	}
	return out
}

var _ usecase.ContractStore = (*InMemoryRegistry)(nil)

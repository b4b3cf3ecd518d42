package models

import (
	"strings"
	"unicode"

	"github.com/ethereum/go-ethereum/common"
)

// RawLog is an event log as reported by a log source, before enrichment.
type RawLog struct {
	Address     common.Address
	Event       string
	Args        []any
	BlockNumber uint64
	TxIndex     uint
	LogIndex    uint
}

// EventLog is an enriched event log: the raw fields plus the normalized
// event name, the owning contract's metadata, and the per-source fetch error
// (if the source that produced it failed).
type EventLog struct {
	Address     common.Address
	Event       string
	Args        []any
	BlockNumber uint64
	TxIndex     uint
	LogIndex    uint

	// Name is the normalized event identifier, per NormalizeEventName.
	Name string

	// Contract is a metadata-only copy of the owning registry record, nil
	// when the source address is unknown to the registry.
	Contract *ContractRecord

	// Err is the fetch error of the source this log came from, nil on a
	// clean fetch.
	Err error
}

// Before reports whether l precedes other in ledger order. The triple
// (block number, transaction index, log index) totally orders any two logs
// from the same ledger and is the sole ordering key.
func (l *EventLog) Before(other *EventLog) bool {
	if l.BlockNumber != other.BlockNumber {
		return l.BlockNumber < other.BlockNumber
	}
	if l.TxIndex != other.TxIndex {
		return l.TxIndex < other.TxIndex
	}
	return l.LogIndex < other.LogIndex
}

// NormalizeEventName maps a raw event name to its normalized identifier.
// Names starting with an uppercase rune are treated as constant-style and
// kept verbatim ("Transfer" -> "Transfer"); anything else is converted to a
// word-separated lower form ("valueChanged" -> "value-changed").
func NormalizeEventName(raw string) string {
	if raw == "" {
		return raw
	}
	runes := []rune(raw)
	if unicode.IsUpper(runes[0]) {
		return raw
	}

	var b strings.Builder
	for i, r := range runes {
		switch {
		case r == '_':
			b.WriteRune('-')
		case unicode.IsUpper(r):
			if i > 0 && runes[i-1] != '_' {
				b.WriteRune('-')
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

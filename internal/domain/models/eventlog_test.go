package models_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loam-labs/evmkit/internal/domain/models"
)

func TestNormalizeEventName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Transfer", "Transfer"},
		{"Approval", "Approval"},
		{"OwnershipTransferred", "OwnershipTransferred"},
		{"valueChanged", "value-changed"},
		{"newOwnerSet", "new-owner-set"},
		{"value_changed", "value-changed"},
		{"deposit", "deposit"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, models.NormalizeEventName(tt.raw))
		})
	}
}

func TestEventLogOrdering(t *testing.T) {
	logs := []*models.EventLog{
		{BlockNumber: 9, TxIndex: 0, LogIndex: 0},
		{BlockNumber: 2, TxIndex: 1, LogIndex: 0},
		{BlockNumber: 2, TxIndex: 0, LogIndex: 3},
		{BlockNumber: 2, TxIndex: 0, LogIndex: 1},
		{BlockNumber: 5, TxIndex: 0, LogIndex: 2},
	}

	sort.Slice(logs, func(i, j int) bool { return logs[i].Before(logs[j]) })

	var got [][3]uint64
	for _, l := range logs {
		got = append(got, [3]uint64{l.BlockNumber, uint64(l.TxIndex), uint64(l.LogIndex)})
	}
	want := [][3]uint64{
		{2, 0, 1},
		{2, 0, 3},
		{2, 1, 0},
		{5, 0, 2},
		{9, 0, 0},
	}
	assert.Equal(t, want, got)

	equal := &models.EventLog{BlockNumber: 2, TxIndex: 0, LogIndex: 1}
	assert.False(t, equal.Before(equal), "the order is strict")
}

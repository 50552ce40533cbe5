package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pedrojuniorgyn/AuraCore-sub015/internal/core/domain"
)

func TestCanReverse(t *testing.T) {
	posted := domain.JournalEntry{EntryID: "e1", Status: domain.Posted}
	assert.NoError(t, posted.CanReverse())

	reversed := domain.JournalEntry{EntryID: "e2", Status: domain.Reversed}
	err := reversed.CanReverse()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already reversed")

	cancelled := domain.JournalEntry{EntryID: "e3", Status: domain.Cancelled}
	err = cancelled.CanReverse()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cancelled")
}

func TestCanCancel(t *testing.T) {
	posted := domain.JournalEntry{EntryID: "e1", Status: domain.Posted}
	assert.NoError(t, posted.CanCancel())

	reversed := domain.JournalEntry{EntryID: "e2", Status: domain.Reversed}
	err := reversed.CanCancel()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "reversed")

	cancelled := domain.JournalEntry{EntryID: "e3", Status: domain.Cancelled}
	err = cancelled.CanCancel()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already cancelled")
}

func TestCanReverseUnknownStatus(t *testing.T) {
	entry := domain.JournalEntry{EntryID: "e1", Status: domain.EntryStatus("DRAFT")}
	assert.Error(t, entry.CanReverse())
	assert.Error(t, entry.CanCancel())
}

func TestNormalizeCFOP(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		wantErr  bool
	}{
		{"1102", "1102", false},
		{"1.102", "1102", false},
		{" 2.102 ", "2102", false},
		{"5102", "5102", false},
		{"0102", "", true},
		{"110", "", true},
		{"11022", "", true},
		{"1a02", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := domain.NormalizeCFOP(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.input)
			continue
		}
		assert.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.expected, got, "input %q", tt.input)
	}
}

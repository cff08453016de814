package export

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRowColumnOrder(t *testing.T) {
	ts := time.Date(2026, 3, 6, 14, 0, 0, 0, time.UTC)
	row := BuildRow(Summary{
		Timestamp:   ts,
		MessageID:   "msg-1",
		Channel:     "whatsapp",
		Sender:      "+60123456789",
		Content:     "Saya nak buat appointment",
		Language:    "bm",
		Intent:      "booking",
		Name:        "Aisyah",
		Phone:       "0123456789",
		Email:       "a@b.com",
		ServiceType: "haircut",
		LeadID:      "lead-1",
		Score:       95,
	})

	want := Row{
		"2026-03-06T14:00:00Z",
		"msg-1",
		"whatsapp",
		"+60123456789",
		"Saya nak buat appointment",
		"bm",
		"booking",
		"Aisyah",
		"0123456789",
		"a@b.com",
		"haircut",
		"lead-1",
		"95",
	}
	assert.Equal(t, want, row)
}

func TestBuildRowWidthFixed(t *testing.T) {
	row := BuildRow(Summary{})
	require.Len(t, row, RowWidth)
}

func TestBuildRowNoLeadLeavesScoreEmpty(t *testing.T) {
	row := BuildRow(Summary{MessageID: "msg-1", Score: 50})
	assert.Empty(t, row[11], "lead id column")
	assert.Empty(t, row[12], "score column")
}

func TestNewSheetsExporterRequiresCredentials(t *testing.T) {
	_, err := NewSheetsExporter(context.Background(), nil, nil)
	require.Error(t, err)
}

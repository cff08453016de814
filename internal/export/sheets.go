// Package export appends summary rows for processed messages to an external
// spreadsheet. Exports are best-effort: callers log failures and move on.
package export

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"google.golang.org/api/option"
	sheets "google.golang.org/api/sheets/v4"

	"github.com/chatleadhq/chatlead-platform/pkg/logging"
)

// RowWidth is the fixed number of string columns per exported row.
const RowWidth = 13

// Row is one spreadsheet line. Column order is fixed:
// timestamp, message id, channel, sender, content, language, intent,
// name, phone, email, service type, lead id, score.
type Row [RowWidth]string

// Summary carries everything the exporter needs from a pipeline run.
type Summary struct {
	Timestamp   time.Time
	MessageID   string
	Channel     string
	Sender      string
	Content     string
	Language    string
	Intent      string
	Name        string
	Phone       string
	Email       string
	ServiceType string
	LeadID      string
	Score       int
}

// BuildRow maps a summary onto the fixed column layout.
func BuildRow(s Summary) Row {
	score := ""
	if s.LeadID != "" {
		score = strconv.Itoa(s.Score)
	}
	return Row{
		s.Timestamp.UTC().Format(time.RFC3339),
		s.MessageID,
		s.Channel,
		s.Sender,
		s.Content,
		s.Language,
		s.Intent,
		s.Name,
		s.Phone,
		s.Email,
		s.ServiceType,
		s.LeadID,
		score,
	}
}

// Appender appends one row to a named range of a spreadsheet.
type Appender interface {
	Append(ctx context.Context, spreadsheetID, sheetRange string, row Row) error
}

// SheetsExporter appends rows via the Google Sheets API.
type SheetsExporter struct {
	svc    *sheets.Service
	logger *logging.Logger
}

// NewSheetsExporter creates an exporter authenticated with the given
// service account credentials JSON.
func NewSheetsExporter(ctx context.Context, credentialsJSON []byte, logger *logging.Logger) (*SheetsExporter, error) {
	if len(credentialsJSON) == 0 {
		return nil, fmt.Errorf("export: google credentials are required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("export: failed to create sheets service: %w", err)
	}

	return &SheetsExporter{svc: svc, logger: logger}, nil
}

// Append writes one row to the sheet. Each call is its own append; the
// Sheets API does not deduplicate repeated rows.
func (e *SheetsExporter) Append(ctx context.Context, spreadsheetID, sheetRange string, row Row) error {
	values := make([]interface{}, len(row))
	for i, col := range row {
		values[i] = col
	}

	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{values},
	}

	_, err := e.svc.Spreadsheets.Values.
		Append(spreadsheetID, sheetRange, valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("export: sheets append failed: %w", err)
	}

	e.logger.Debug("row exported", "spreadsheet_id", spreadsheetID, "range", sheetRange)
	return nil
}

var _ Appender = (*SheetsExporter)(nil)

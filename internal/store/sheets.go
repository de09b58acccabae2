package store

// sheets.go implements TableStore against the Google Sheets API using a
// service-account credential. Worksheet tabs are created on first use.
//
// Every API failure — network, auth, quota — is reported as ErrUnavailable.
// The dashboard treats the store as a single opaque collaborator and retries
// only when the user re-triggers the action.

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// New worksheet tabs are sized generously so manual edits in the Sheets UI
// never run out of grid.
const (
	newSheetRows = 2000
	newSheetCols = 30
)

// SheetsStore is a TableStore backed by one Google spreadsheet, with each
// table living in its own worksheet tab.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string

	mu     sync.Mutex
	titles map[string]bool // worksheet tabs known to exist
}

// NewSheetsStore authenticates with the given service-account JSON and binds
// to the spreadsheet. Credential parse failures are configuration errors and
// are returned as-is; they are not ErrUnavailable.
func NewSheetsStore(ctx context.Context, credentialsJSON []byte, spreadsheetID string) (*SheetsStore, error) {
	cfg, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse service account credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("create sheets client: %w", err)
	}

	return &SheetsStore{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		titles:        make(map[string]bool),
	}, nil
}

// GetRows fetches the entire worksheet, creating the tab if it is missing.
func (s *SheetsStore) GetRows(ctx context.Context, table string) ([]string, [][]string, error) {
	if err := s.ensureSheet(ctx, table); err != nil {
		return nil, nil, err
	}

	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, sheetRange(table)).Context(ctx).Do()
	if err != nil {
		return nil, nil, unavailable("read", table, err)
	}

	values := toStringRows(resp.Values)
	if len(values) == 0 {
		return nil, nil, nil
	}
	return values[0], values[1:], nil
}

// ReplaceRows clears the worksheet and writes header + rows in one update.
func (s *SheetsStore) ReplaceRows(ctx context.Context, table string, header []string, rows [][]string) error {
	if err := s.ensureSheet(ctx, table); err != nil {
		return err
	}

	if _, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, sheetRange(table), &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return unavailable("clear", table, err)
	}

	values := make([][]interface{}, 0, len(rows)+1)
	values = append(values, toInterfaceRow(header))
	for _, row := range rows {
		values = append(values, toInterfaceRow(row))
	}

	_, err := s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, sheetRange(table), &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return unavailable("write", table, err)
	}
	return nil
}

// ensureSheet creates the worksheet tab if the spreadsheet lacks it.
func (s *SheetsStore) ensureSheet(ctx context.Context, table string) error {
	s.mu.Lock()
	known := s.titles[table]
	s.mu.Unlock()
	if known {
		return nil
	}

	meta, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return unavailable("open spreadsheet for", table, err)
	}

	exists := false
	for _, sh := range meta.Sheets {
		if sh.Properties != nil && sh.Properties.Title == table {
			exists = true
			break
		}
	}

	if !exists {
		req := &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{
				AddSheet: &sheets.AddSheetRequest{
					Properties: &sheets.SheetProperties{
						Title: table,
						GridProperties: &sheets.GridProperties{
							RowCount:    newSheetRows,
							ColumnCount: newSheetCols,
						},
					},
				},
			}},
		}
		if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
			return unavailable("create worksheet", table, err)
		}
	}

	s.mu.Lock()
	s.titles[table] = true
	s.mu.Unlock()
	return nil
}

// sheetRange addresses a whole worksheet in A1 notation. Single quotes in
// the title are escaped by doubling.
func sheetRange(table string) string {
	return "'" + strings.ReplaceAll(table, "'", "''") + "'"
}

func toStringRows(values [][]interface{}) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = fmt.Sprint(v)
		}
		out[i] = cells
	}
	return out
}

func toInterfaceRow(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}

func unavailable(op, table string, err error) error {
	return fmt.Errorf("%w: %s %q: %v", ErrUnavailable, op, table, err)
}

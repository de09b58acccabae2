package core

// service.go orchestrates load-normalize-display and normalize-write cycles
// against the record store. Every mutation normalizes the full record set
// and rewrites the whole table — the store's current content is the sole
// durable state, and last write wins between concurrent sessions.

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mgbet/betbook/internal/store"
)

// Tables names the worksheet tab for each record kind.
type Tables struct {
	Singles string
	Parlays string
}

// Service is the application core: one store handle (injected, never a
// package-level singleton) plus the table names.
type Service struct {
	store  store.TableStore
	tables Tables
}

// NewService creates a Service over the given store.
func NewService(st store.TableStore, tables Tables) *Service {
	return &Service{store: st, tables: tables}
}

// tableFor resolves the worksheet name for a kind.
func (s *Service) tableFor(kind Kind) (string, error) {
	switch kind {
	case KindSingle:
		return s.tables.Singles, nil
	case KindParlay:
		return s.tables.Parlays, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// Load fetches, header-repairs, and normalizes one table.
func (s *Service) Load(ctx context.Context, kind Kind) ([]Record, error) {
	table, err := s.tableFor(kind)
	if err != nil {
		return nil, err
	}

	header, rows, err := s.store.GetRows(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}

	header, rows, err = s.repairHeader(ctx, kind, table, header, rows)
	if err != nil {
		return nil, err
	}

	return Normalize(kind, header, rows), nil
}

// repairHeader brings the stored header up to the expected schema: an empty
// table gets the canonical header, and a header missing expected columns
// gets them appended (union, existing order preserved). Extra columns
// survive until the next Save, which writes the canonical schema only.
func (s *Service) repairHeader(ctx context.Context, kind Kind, table string, header []string, rows [][]string) ([]string, [][]string, error) {
	expected := kind.Columns()

	if len(header) == 0 {
		if err := s.store.ReplaceRows(ctx, table, expected, nil); err != nil {
			return nil, nil, fmt.Errorf("initialize %s: %w", table, err)
		}
		return expected, nil, nil
	}

	have := make(map[string]bool, len(header))
	for _, h := range header {
		have[strings.ToLower(cleanCell(h))] = true
	}

	repaired := header
	changed := false
	for _, col := range expected {
		if !have[strings.ToLower(col)] {
			repaired = append(repaired, col)
			changed = true
		}
	}

	if changed {
		if err := s.store.ReplaceRows(ctx, table, repaired, rows); err != nil {
			return nil, nil, fmt.Errorf("repair header of %s: %w", table, err)
		}
	}
	return repaired, rows, nil
}

// Save normalizes the given records and rewrites the whole table. The
// normalized result is returned so callers can re-render without reloading.
func (s *Service) Save(ctx context.Context, kind Kind, recs []Record) ([]Record, error) {
	table, err := s.tableFor(kind)
	if err != nil {
		return nil, err
	}

	normalized := Normalize(kind, kind.Columns(), Rows(kind, recs))
	if err := s.store.ReplaceRows(ctx, table, kind.Columns(), Rows(kind, normalized)); err != nil {
		return nil, fmt.Errorf("save %s: %w", table, err)
	}
	return normalized, nil
}

// AddInput carries the entry-form fields for a new record. Odds/TotalOdds
// and Stake arrive already parsed; the HTTP layer rejects non-numeric input
// before it gets here.
type AddInput struct {
	League    string  `json:"league"`
	Match     string  `json:"match"`
	Market    string  `json:"market"`
	Odds      float64 `json:"odds"`
	Legs      string  `json:"legs"`
	TotalOdds float64 `json:"totalOdds"`
	Stake     float64 `json:"stake"`
	Outcome   string  `json:"outcome"`
	Notes     string  `json:"notes"`
}

// MinOdds is the lowest decimal price the entry form accepts.
const MinOdds = 1.01

func (in AddInput) validate(kind Kind) error {
	if kind == KindParlay {
		if strings.TrimSpace(in.Legs) == "" {
			return &ValidationError{Field: "Legs", Message: "enter at least one leg"}
		}
		if in.TotalOdds < MinOdds {
			return &ValidationError{Field: "Total Odds", Message: fmt.Sprintf("must be at least %.2f", MinOdds)}
		}
		if in.Stake < 0 {
			return &ValidationError{Field: "Stake", Message: "must not be negative"}
		}
		return nil
	}

	if strings.TrimSpace(in.Match) == "" {
		return &ValidationError{Field: "Match", Message: "enter the match"}
	}
	if in.Odds < MinOdds {
		return &ValidationError{Field: "Odds", Message: fmt.Sprintf("must be at least %.2f", MinOdds)}
	}
	return nil
}

// Add creates one record from form input with a freshly allocated id and
// persists the whole table.
func (s *Service) Add(ctx context.Context, kind Kind, in AddInput) (Record, error) {
	if err := in.validate(kind); err != nil {
		return Record{}, err
	}

	recs, err := s.Load(ctx, kind)
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		ID:      NextID(recs),
		Date:    time.Now().Format(DateLayout),
		Outcome: ParseOutcome(in.Outcome),
		Notes:   strings.TrimSpace(in.Notes),
	}
	switch kind {
	case KindParlay:
		rec.Legs = strings.TrimSpace(in.Legs)
		total := in.TotalOdds
		rec.TotalOdds = &total
		rec.Stake = in.Stake
	default:
		rec.League = NormalizeLeague(in.League)
		rec.Match = strings.TrimSpace(in.Match)
		rec.Market = strings.TrimSpace(in.Market)
		odds := in.Odds
		rec.Odds = &odds
	}

	if _, err := s.Save(ctx, kind, append(recs, rec)); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// UpdateCell applies one inline grid edit by row position (0-based, in the
// displayed id order) and column name, then persists. A numeric column that
// fails to parse rejects only this edit; nothing else changes.
func (s *Service) UpdateCell(ctx context.Context, kind Kind, row int, column, value string) error {
	recs, err := s.Load(ctx, kind)
	if err != nil {
		return err
	}
	if row < 0 || row >= len(recs) {
		return &ValidationError{Message: fmt.Sprintf("no row at position %d", row)}
	}

	if err := setField(kind, &recs[row], column, value); err != nil {
		return err
	}

	_, err = s.Save(ctx, kind, recs)
	return err
}

// setField writes one edited cell into a record, validating numeric fields.
func setField(kind Kind, rec *Record, column, value string) error {
	value = strings.TrimSpace(value)

	col := strings.ToLower(column)
	known := false
	for _, c := range kind.Columns() {
		if strings.EqualFold(c, column) {
			col = strings.ToLower(c)
			known = true
			break
		}
	}
	if !known {
		return &ValidationError{Field: column, Message: "no such column"}
	}

	switch col {
	case "id":
		return &ValidationError{Field: "ID", Message: "ids are assigned automatically and cannot be edited"}
	case "date":
		rec.Date = value
	case "outcome":
		rec.Outcome = ParseOutcome(value)
	case "league":
		rec.League = NormalizeLeague(value)
	case "match":
		rec.Match = value
	case "market":
		rec.Market = value
	case "legs":
		rec.Legs = value
	case "notes":
		rec.Notes = value
	case "odds", "total odds":
		// An empty price is a legal state: "not yet set".
		if value == "" {
			if col == "odds" {
				rec.Odds = nil
			} else {
				rec.TotalOdds = nil
			}
			return nil
		}
		f, ok := parseDecimal(value)
		if !ok {
			return &ValidationError{Field: column, Message: fmt.Sprintf("%q is not a number (use e.g. 1.75)", value)}
		}
		if f < MinOdds {
			return &ValidationError{Field: column, Message: fmt.Sprintf("must be at least %.2f", MinOdds)}
		}
		if col == "odds" {
			rec.Odds = &f
		} else {
			rec.TotalOdds = &f
		}
	case "stake":
		if value == "" {
			rec.Stake = 0
			return nil
		}
		f, ok := parseDecimal(value)
		if !ok {
			return &ValidationError{Field: "Stake", Message: fmt.Sprintf("%q is not a number (use e.g. 10)", value)}
		}
		if f < 0 {
			return &ValidationError{Field: "Stake", Message: "must not be negative"}
		}
		rec.Stake = f
	}
	return nil
}

// Delete removes the record at the given position (0-based, displayed id
// order) and persists.
func (s *Service) Delete(ctx context.Context, kind Kind, row int) error {
	recs, err := s.Load(ctx, kind)
	if err != nil {
		return err
	}
	if row < 0 || row >= len(recs) {
		return &ValidationError{Message: fmt.Sprintf("no row at position %d", row)}
	}

	_, err = s.Save(ctx, kind, append(recs[:row], recs[row+1:]...))
	return err
}

// Refresh busts any read cache in front of the store so the next Load hits
// the spreadsheet. No-op when the store keeps no read state.
func (s *Service) Refresh(kind Kind) {
	table, err := s.tableFor(kind)
	if err != nil {
		return
	}
	if inv, ok := s.store.(store.Invalidator); ok {
		inv.Invalidate(table)
	}
}

// BuildReport loads one table and computes its aggregates over the given
// league filter (singles only; parlays ignore the filter).
func (s *Service) BuildReport(ctx context.Context, kind Kind, leagues []string) (Report, error) {
	recs, err := s.Load(ctx, kind)
	if err != nil {
		return Report{}, err
	}

	if kind == KindSingle {
		recs = FilterByLeagues(recs, leagues)
	}

	rep := Report{Kind: kind, Summary: Summarize(kind, recs)}
	if kind == KindSingle {
		rep.Leagues = LeagueBreakdown(recs)
	}
	return rep, nil
}

// ExportCSV writes the full, unfiltered table as CSV. A UTF-8 BOM is
// prepended so Excel opens the file with the right encoding.
func (s *Service) ExportCSV(ctx context.Context, kind Kind, w io.Writer) error {
	recs, err := s.Load(ctx, kind)
	if err != nil {
		return err
	}

	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(kind.Columns()); err != nil {
		return err
	}
	for _, rec := range recs {
		if err := cw.Write(Row(kind, rec)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

package core

// normalize.go is the reconciliation engine: it turns whatever the worksheet
// currently holds into a typed record set with exactly the canonical columns,
// default-filled fields, and a consistent id sequence.
//
// Coercion never fails. A dashboard over a hand-edited sheet is only useful
// if a single bad cell cannot take the whole table down, so malformed values
// map to defaults instead of errors. Id reconciliation runs after field
// coercion so regenerated ids stay aligned one-to-one with their rows.

import (
	"sort"
	"time"
)

// DateLayout is the calendar date format used in the Date column.
const DateLayout = "2006-01-02"

// Normalize converts raw worksheet rows into the canonical record set for
// the kind, using the current clock for the blank-date default.
func Normalize(kind Kind, header []string, rows [][]string) []Record {
	return NormalizeAt(kind, header, rows, time.Now())
}

// NormalizeAt is Normalize with an injected clock.
//
// It is idempotent: feeding its output (via Rows) back through yields the
// same records. Rows that already carry a date are never touched, so the
// time-dependent default does not break that property.
func NormalizeAt(kind Kind, header []string, rows [][]string, now time.Time) []Record {
	idx := makeHeaderIndex(header)
	recs := make([]Record, 0, len(rows))
	for _, row := range rows {
		recs = append(recs, coerceRow(kind, idx, row, now))
	}

	reconcileIDs(recs)

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
	return recs
}

// coerceRow builds one typed record from a raw row, defaulting every field
// that is missing or malformed.
func coerceRow(kind Kind, idx headerIndex, row []string, now time.Time) Record {
	rec := Record{
		ID:      parseID(idx.cell(row, "ID")),
		Date:    idx.cell(row, "Date"),
		Outcome: ParseOutcome(idx.cell(row, "Outcome")),
		Notes:   idx.cell(row, "Notes"),
	}
	if rec.Date == "" {
		rec.Date = now.Format(DateLayout)
	}

	switch kind {
	case KindParlay:
		rec.Legs = idx.cell(row, "Legs")
		if v, ok := parseDecimal(idx.cell(row, "Total Odds")); ok {
			rec.TotalOdds = &v
		}
		if v, ok := parseDecimal(idx.cell(row, "Stake")); ok {
			rec.Stake = v
		}
	default:
		rec.League = NormalizeLeague(idx.cell(row, "League"))
		rec.Match = idx.cell(row, "Match")
		rec.Market = idx.cell(row, "Market")
		if v, ok := parseDecimal(idx.cell(row, "Odds")); ok {
			rec.Odds = &v
		}
	}

	return rec
}

// reconcileIDs enforces the id invariants in place:
//
//   - any duplicate among the present ids renumbers the whole table as a
//     dense 1..N sequence in current row order (deliberate, destructive
//     conflict resolution — not an attempt to preserve either duplicate);
//   - otherwise present ids are kept and rows lacking one receive strictly
//     increasing ids continuing from the current maximum.
//
// A Record with ID 0 is one whose cell was blank or unparseable.
func reconcileIDs(recs []Record) {
	seen := make(map[int]bool, len(recs))
	maxID := 0
	dup := false
	for _, r := range recs {
		if r.ID <= 0 {
			continue
		}
		if seen[r.ID] {
			dup = true
		}
		seen[r.ID] = true
		if r.ID > maxID {
			maxID = r.ID
		}
	}

	if dup {
		for i := range recs {
			recs[i].ID = i + 1
		}
		return
	}

	next := maxID + 1
	for i := range recs {
		if recs[i].ID <= 0 {
			recs[i].ID = next
			next++
		}
	}
}

// NextID returns the id a freshly created record should get: one past the
// current maximum, or 1 for an empty table.
func NextID(recs []Record) int {
	max := 0
	for _, r := range recs {
		if r.ID > max {
			max = r.ID
		}
	}
	return max + 1
}

// Row renders one record as worksheet strings in canonical column order.
func Row(kind Kind, rec Record) []string {
	id := formatDecimal(float64(rec.ID))

	if kind == KindParlay {
		total := ""
		if rec.TotalOdds != nil {
			total = formatDecimal(*rec.TotalOdds)
		}
		return []string{id, rec.Date, rec.Legs, total, formatDecimal(rec.Stake), string(rec.Outcome), rec.Notes}
	}

	odds := ""
	if rec.Odds != nil {
		odds = formatDecimal(*rec.Odds)
	}
	return []string{id, rec.Date, rec.League, rec.Match, rec.Market, odds, string(rec.Outcome), rec.Notes}
}

// Rows renders a record set as worksheet rows in canonical column order.
func Rows(kind Kind, recs []Record) [][]string {
	rows := make([][]string, len(recs))
	for i, rec := range recs {
		rows[i] = Row(kind, rec)
	}
	return rows
}

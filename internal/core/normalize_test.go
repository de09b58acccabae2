package core

import (
	"reflect"
	"testing"
	"time"
)

var testNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func TestNormalizeCoercesFields(t *testing.T) {
	header := []string{"ID", "Date", "League", "Match", "Market", "Odds", "Outcome", "Notes"}
	rows := [][]string{
		{"1", "2025-03-01", "serie a", "Roma - Lazio", "1X2", "1,85", "won", "derby"},
		{"2", "", "Conference League", "Ajax - PSV", "Over 2.5", "not a number", "maybe", ""},
	}

	recs := NormalizeAt(KindSingle, header, rows, testNow)
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}

	first := recs[0]
	if first.League != "Serie A" {
		t.Errorf("league = %q, want canonical %q", first.League, "Serie A")
	}
	if first.Outcome != OutcomeWon {
		t.Errorf("outcome = %q, want %q", first.Outcome, OutcomeWon)
	}
	if first.Odds == nil || *first.Odds != 1.85 {
		t.Errorf("odds = %v, want 1.85", first.Odds)
	}

	second := recs[1]
	if second.Date != "2025-03-10" {
		t.Errorf("blank date = %q, want today %q", second.Date, "2025-03-10")
	}
	if second.League != LeagueOther {
		t.Errorf("unknown league = %q, want %q", second.League, LeagueOther)
	}
	if second.Outcome != OutcomePending {
		t.Errorf("unknown outcome = %q, want %q", second.Outcome, OutcomePending)
	}
	if second.Odds != nil {
		t.Errorf("unparseable odds = %v, want nil", second.Odds)
	}
}

func TestNormalizeNeverFails(t *testing.T) {
	// Garbage in, records out. Every row yields a record.
	header := []string{"garbage", "columns"}
	rows := [][]string{
		{"x"},
		{},
		{"", "", "", "", "", "", "", "", "extra", "columns"},
	}

	recs := NormalizeAt(KindSingle, header, rows, testNow)
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	for i, rec := range recs {
		if rec.ID != i+1 {
			t.Errorf("record %d id = %d, want %d", i, rec.ID, i+1)
		}
		if rec.Date != "2025-03-10" {
			t.Errorf("record %d date = %q, want default", i, rec.Date)
		}
		if rec.Outcome != OutcomePending {
			t.Errorf("record %d outcome = %q, want Pending", i, rec.Outcome)
		}
	}
}

func TestNormalizeDuplicateIDsRenumberDensely(t *testing.T) {
	header := []string{"ID", "Date", "Legs", "Total Odds", "Stake", "Outcome", "Notes"}
	rows := [][]string{
		{"7", "2025-01-01", "a", "2.0", "10", "Won", ""},
		{"7", "2025-01-02", "b", "3.0", "5", "Lost", ""},
		{"9", "2025-01-03", "c", "4.0", "1", "Pending", ""},
	}

	recs := NormalizeAt(KindParlay, header, rows, testNow)
	for i, rec := range recs {
		if rec.ID != i+1 {
			t.Errorf("record %d id = %d, want dense %d", i, rec.ID, i+1)
		}
	}
	// Row order survives the renumbering.
	if recs[0].Legs != "a" || recs[1].Legs != "b" || recs[2].Legs != "c" {
		t.Errorf("row order changed: %q, %q, %q", recs[0].Legs, recs[1].Legs, recs[2].Legs)
	}
}

func TestNormalizeFillsMissingIDsFromMax(t *testing.T) {
	header := []string{"ID", "Date", "Match", "Odds"}
	rows := [][]string{
		{"5", "2025-01-01", "a", "1.5"},
		{"", "2025-01-02", "b", "1.6"},
		{"2", "2025-01-03", "c", "1.7"},
		{"", "2025-01-04", "d", "1.8"},
	}

	recs := NormalizeAt(KindSingle, header, rows, testNow)

	byMatch := map[string]int{}
	for _, rec := range recs {
		byMatch[rec.Match] = rec.ID
	}
	want := map[string]int{"a": 5, "b": 6, "c": 2, "d": 7}
	if !reflect.DeepEqual(byMatch, want) {
		t.Errorf("ids = %v, want %v", byMatch, want)
	}

	// Output is sorted by id.
	for i := 1; i < len(recs); i++ {
		if recs[i-1].ID >= recs[i].ID {
			t.Errorf("records not sorted by id: %d before %d", recs[i-1].ID, recs[i].ID)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	header := []string{"Odds", "Match", "ID", "Outcome"} // scrambled column order
	rows := [][]string{
		{"2,10", "Inter - Milan", "", "WON"},
		{"1.55", "Betis - Sevilla", "3.0", "lost"},
	}

	once := NormalizeAt(KindSingle, header, rows, testNow)
	twice := NormalizeAt(KindSingle, KindSingle.Columns(), Rows(KindSingle, once), testNow)

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("normalize not idempotent:\n once: %+v\ntwice: %+v", once, twice)
	}
}

func TestNormalizeParlayDefaults(t *testing.T) {
	header := []string{"ID", "Date", "Legs", "Total Odds", "Stake", "Outcome", "Notes"}
	rows := [][]string{
		{"1", "2025-02-01", "leg1; leg2", "", "", "Pending", ""},
	}

	recs := NormalizeAt(KindParlay, header, rows, testNow)
	rec := recs[0]
	if rec.TotalOdds != nil {
		t.Errorf("blank total odds = %v, want nil", rec.TotalOdds)
	}
	if rec.Stake != 0 {
		t.Errorf("blank stake = %v, want 0", rec.Stake)
	}
}

func TestNextID(t *testing.T) {
	if got := NextID(nil); got != 1 {
		t.Errorf("NextID(empty) = %d, want 1", got)
	}
	recs := []Record{{ID: 2}, {ID: 9}, {ID: 4}}
	if got := NextID(recs); got != 10 {
		t.Errorf("NextID = %d, want 10", got)
	}
}

func TestRowRoundTrip(t *testing.T) {
	odds := 1.755
	rec := Record{
		ID: 12, Date: "2025-03-01", League: "La Liga",
		Match: "Girona - Getafe", Market: "BTTS", Odds: &odds,
		Outcome: OutcomeLost, Notes: "late goal",
	}

	got := NormalizeAt(KindSingle, KindSingle.Columns(), [][]string{Row(KindSingle, rec)}, testNow)
	if len(got) != 1 || !reflect.DeepEqual(got[0], rec) {
		t.Errorf("round trip = %+v, want %+v", got, rec)
	}
}

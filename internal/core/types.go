// Package core implements the record model, normalization engine, and
// reporting logic for the betting-simulation tracker. It has no UI or
// transport dependencies and talks to persistence only through the
// store.TableStore interface.
package core

import "strings"

// Kind identifies which record table a row belongs to.
type Kind string

const (
	// KindSingle is a single wager: one match, one market, unit stake.
	KindSingle Kind = "singles"

	// KindParlay is a combination wager: several legs on one ticket with a
	// combined price and a variable stake.
	KindParlay Kind = "parlays"
)

// ParseKind converts a URL/table key into a Kind.
func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindSingle:
		return KindSingle, true
	case KindParlay:
		return KindParlay, true
	}
	return "", false
}

// Outcome is the settlement state of a record.
type Outcome string

const (
	OutcomePending Outcome = "Pending"
	OutcomeWon     Outcome = "Won"
	OutcomeLost    Outcome = "Lost"
)

// Outcomes lists the valid settlement states in display order.
var Outcomes = []Outcome{OutcomePending, OutcomeWon, OutcomeLost}

// ParseOutcome maps a raw cell value onto the outcome enumeration.
// Matching is case-insensitive; anything unrecognized (including the empty
// string) falls back to Pending so a half-edited sheet never blocks a load.
func ParseOutcome(s string) Outcome {
	s = strings.TrimSpace(s)
	for _, o := range Outcomes {
		if strings.EqualFold(s, string(o)) {
			return o
		}
	}
	return OutcomePending
}

// LeagueOther is the fallback bucket for leagues outside the fixed set.
const LeagueOther = "Other"

// Leagues is the closed set of leagues offered by the entry form.
var Leagues = []string{
	"Serie A",
	"Serie B",
	"Premier League",
	"Bundesliga",
	"La Liga",
	"Ligue 1",
	"Eredivisie",
	"Primeira Liga",
	LeagueOther,
}

// NormalizeLeague maps a raw cell value onto the league set, falling back
// to Other. Matching is case-insensitive with canonical casing restored.
func NormalizeLeague(s string) string {
	s = strings.TrimSpace(s)
	for _, lg := range Leagues {
		if strings.EqualFold(s, lg) {
			return lg
		}
	}
	return LeagueOther
}

// Canonical column order per kind. Write order is exact; reads tolerate any
// column order because normalization re-projects rows onto this schema.
var (
	singleColumns = []string{"ID", "Date", "League", "Match", "Market", "Odds", "Outcome", "Notes"}
	parlayColumns = []string{"ID", "Date", "Legs", "Total Odds", "Stake", "Outcome", "Notes"}
)

// Columns returns the canonical column names for the kind.
func (k Kind) Columns() []string {
	if k == KindParlay {
		return parlayColumns
	}
	return singleColumns
}

// Record is one simulated wager in its typed, normalized form.
// League/Match/Market/Odds apply to singles; Legs/TotalOdds/Stake to parlays.
// Odds pointers are nil when the price has not been set yet — that absence is
// meaningful, unlike Stake where missing money committed simply means zero.
type Record struct {
	ID        int      `json:"id"`
	Date      string   `json:"date"`
	League    string   `json:"league,omitempty"`
	Match     string   `json:"match,omitempty"`
	Market    string   `json:"market,omitempty"`
	Odds      *float64 `json:"odds,omitempty"`
	Legs      string   `json:"legs,omitempty"`
	TotalOdds *float64 `json:"totalOdds,omitempty"`
	Stake     float64  `json:"stake"`
	Outcome   Outcome  `json:"outcome"`
	Notes     string   `json:"notes"`
}

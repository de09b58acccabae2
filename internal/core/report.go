package core

// report.go computes the read-only aggregates shown on the dashboard.
// Nothing here is persisted; every figure is derived on demand from the
// normalized record set, over whatever filter the caller applied.

// Profit returns the simulated profit of one record.
//
// Singles assume a unit stake: Won pays odds-1, Lost costs 1. Parlays use
// the recorded stake: Won pays stake*(totalOdds-1), Lost costs the stake.
// Pending records and records with no price yet contribute nothing.
func Profit(kind Kind, rec Record) float64 {
	if kind == KindParlay {
		if rec.TotalOdds == nil {
			return 0
		}
		switch rec.Outcome {
		case OutcomeWon:
			return rec.Stake * (*rec.TotalOdds - 1)
		case OutcomeLost:
			return -rec.Stake
		}
		return 0
	}

	if rec.Odds == nil {
		return 0
	}
	switch rec.Outcome {
	case OutcomeWon:
		return *rec.Odds - 1
	case OutcomeLost:
		return -1
	}
	return 0
}

// Summary holds table-wide aggregates over one record set.
type Summary struct {
	Total          int     `json:"total"`
	Closed         int     `json:"closed"`
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	Pending        int     `json:"pending"`
	WinRate        float64 `json:"winRate"`        // wins/(wins+losses), 0 with no closed records
	AvgWinningOdds float64 `json:"avgWinningOdds"` // mean price of won records
	AvgLosingOdds  float64 `json:"avgLosingOdds"`  // mean price of lost records
	Profit         float64 `json:"profit"`
	TotalStake     float64 `json:"totalStake"` // closed parlays only
	ROI            float64 `json:"roi"`        // profit/closed (unit stake) or profit/stake
}

// Summarize computes the Summary for a record set.
func Summarize(kind Kind, recs []Record) Summary {
	var s Summary
	s.Total = len(recs)

	var winOdds, loseOdds float64
	var winPriced, losePriced int

	for _, rec := range recs {
		price := rec.Odds
		if kind == KindParlay {
			price = rec.TotalOdds
		}

		switch rec.Outcome {
		case OutcomeWon:
			s.Wins++
			if price != nil {
				winOdds += *price
				winPriced++
			}
		case OutcomeLost:
			s.Losses++
			if price != nil {
				loseOdds += *price
				losePriced++
			}
		default:
			s.Pending++
			continue
		}

		s.Profit += Profit(kind, rec)
		if kind == KindParlay {
			s.TotalStake += rec.Stake
		}
	}

	s.Closed = s.Wins + s.Losses
	if s.Closed > 0 {
		s.WinRate = float64(s.Wins) / float64(s.Closed)
	}
	if winPriced > 0 {
		s.AvgWinningOdds = winOdds / float64(winPriced)
	}
	if losePriced > 0 {
		s.AvgLosingOdds = loseOdds / float64(losePriced)
	}

	if kind == KindParlay {
		if s.TotalStake > 0 {
			s.ROI = s.Profit / s.TotalStake
		}
	} else if s.Closed > 0 {
		s.ROI = s.Profit / float64(s.Closed)
	}

	return s
}

// LeagueStats is one row of the per-league breakdown, computed over closed
// records only.
type LeagueStats struct {
	League         string  `json:"league"`
	Played         int     `json:"played"`
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	WinRate        float64 `json:"winRate"`
	AvgWinningOdds float64 `json:"avgWinningOdds"`
	Profit         float64 `json:"profit"`
	ROI            float64 `json:"roi"` // unit stake: profit/played
}

// LeagueBreakdown groups closed single wagers by league. Leagues appear in
// their fixed display order; leagues with no closed records are omitted.
// Parlays carry no league, so callers only use this for KindSingle.
func LeagueBreakdown(recs []Record) []LeagueStats {
	byLeague := make(map[string]*LeagueStats)
	winOdds := make(map[string]float64)
	winPriced := make(map[string]int)

	for _, rec := range recs {
		if rec.Outcome != OutcomeWon && rec.Outcome != OutcomeLost {
			continue
		}
		st := byLeague[rec.League]
		if st == nil {
			st = &LeagueStats{League: rec.League}
			byLeague[rec.League] = st
		}
		st.Played++
		if rec.Outcome == OutcomeWon {
			st.Wins++
			if rec.Odds != nil {
				winOdds[rec.League] += *rec.Odds
				winPriced[rec.League]++
			}
		} else {
			st.Losses++
		}
		st.Profit += Profit(KindSingle, rec)
	}

	out := make([]LeagueStats, 0, len(byLeague))
	for _, lg := range Leagues {
		st, ok := byLeague[lg]
		if !ok {
			continue
		}
		st.WinRate = float64(st.Wins) / float64(st.Played)
		if n := winPriced[lg]; n > 0 {
			st.AvgWinningOdds = winOdds[lg] / float64(n)
		}
		st.ROI = st.Profit / float64(st.Played)
		out = append(out, *st)
	}
	return out
}

// FilterByLeagues returns the records whose league is in the given set.
// An empty filter returns the input unchanged.
func FilterByLeagues(recs []Record, leagues []string) []Record {
	if len(leagues) == 0 {
		return recs
	}
	want := make(map[string]bool, len(leagues))
	for _, lg := range leagues {
		want[NormalizeLeague(lg)] = true
	}
	out := make([]Record, 0, len(recs))
	for _, rec := range recs {
		if want[rec.League] {
			out = append(out, rec)
		}
	}
	return out
}

// Report bundles the summary and the optional per-league breakdown.
type Report struct {
	Kind    Kind          `json:"kind"`
	Summary Summary       `json:"summary"`
	Leagues []LeagueStats `json:"leagues,omitempty"`
}

package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mgbet/betbook/internal/config"
	"github.com/mgbet/betbook/internal/core"
	"github.com/mgbet/betbook/internal/store"
)

func newTestServer() *Server {
	cfg := &config.Config{}
	cfg.Server.RequestTimeout = 5 * time.Second
	cfg.Rate.Enabled = false

	service := core.NewService(store.NewMemStore(), core.Tables{
		Singles: "Singles",
		Parlays: "Parlays",
	})
	return NewServer(service, cfg)
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decodeRecords(t *testing.T, rec *httptest.ResponseRecorder) []core.Record {
	t.Helper()
	var body struct {
		Records []core.Record `json:"records"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v\n%s", err, rec.Body.String())
	}
	return body.Records
}

func TestAddAndListRecords(t *testing.T) {
	srv := newTestServer()

	rec := doJSON(t, srv, http.MethodPost, "/api/records/singles", map[string]any{
		"league": "Serie A", "match": "Roma - Lazio", "market": "1X2", "odds": 1.85,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("add status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/records/singles", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	recs := decodeRecords(t, rec)
	if len(recs) != 1 {
		t.Fatalf("got %d records, want 1", len(recs))
	}
	if recs[0].ID != 1 || recs[0].Match != "Roma - Lazio" || recs[0].Outcome != core.OutcomePending {
		t.Errorf("record = %+v", recs[0])
	}
}

func TestAddRejectsInvalidInput(t *testing.T) {
	srv := newTestServer()

	rec := doJSON(t, srv, http.MethodPost, "/api/records/singles", map[string]any{
		"league": "Serie A", "odds": 1.85, // match missing
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Error core.UserMessage `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Error.Code != "VAL001" {
		t.Errorf("error code = %q, want VAL001", body.Error.Code)
	}
}

func TestUnknownKindIs404(t *testing.T) {
	srv := newTestServer()

	rec := doJSON(t, srv, http.MethodGet, "/api/records/futures", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestUpdateCellAndDelete(t *testing.T) {
	srv := newTestServer()

	doJSON(t, srv, http.MethodPost, "/api/records/parlays", map[string]any{
		"legs": "a; b", "totalOdds": 2.5, "stake": 10.0,
	})

	rec := doJSON(t, srv, http.MethodPost, "/api/records/parlays/cell", map[string]any{
		"row": 0, "column": "Outcome", "value": "Won",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("cell edit status = %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/records/parlays", nil)
	recs := decodeRecords(t, rec)
	if recs[0].Outcome != core.OutcomeWon {
		t.Errorf("outcome = %q, want Won", recs[0].Outcome)
	}

	rec = doJSON(t, srv, http.MethodPost, "/api/records/parlays/delete", map[string]any{"row": 0})
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/records/parlays", nil)
	if recs := decodeRecords(t, rec); len(recs) != 0 {
		t.Errorf("got %d records after delete, want 0", len(recs))
	}
}

func TestSaveGridNormalizes(t *testing.T) {
	srv := newTestServer()

	rec := doJSON(t, srv, http.MethodPut, "/api/records/singles", map[string]any{
		"records": []map[string]any{
			{"match": "A - B", "league": "no such league", "odds": 1.5, "outcome": "Won", "date": "2025-01-01"},
			{"match": "C - D", "league": "Serie A", "odds": 2.0, "outcome": "Pending", "date": "2025-01-02"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d: %s", rec.Code, rec.Body.String())
	}

	recs := decodeRecords(t, rec)
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	if recs[0].ID != 1 || recs[1].ID != 2 {
		t.Errorf("ids = %d, %d; want 1, 2", recs[0].ID, recs[1].ID)
	}
	if recs[0].League != core.LeagueOther {
		t.Errorf("league = %q, want %q", recs[0].League, core.LeagueOther)
	}
}

func TestReportEndpoint(t *testing.T) {
	srv := newTestServer()

	doJSON(t, srv, http.MethodPost, "/api/records/singles", map[string]any{
		"league": "Serie A", "match": "Roma - Lazio", "odds": 2.0, "outcome": "Won",
	})
	doJSON(t, srv, http.MethodPost, "/api/records/singles", map[string]any{
		"league": "La Liga", "match": "Betis - Sevilla", "odds": 1.5, "outcome": "Lost",
	})

	rec := doJSON(t, srv, http.MethodGet, "/api/report/singles?league=Serie+A", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("report status = %d", rec.Code)
	}

	var rep core.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatal(err)
	}
	if rep.Summary.Total != 1 || rep.Summary.Wins != 1 {
		t.Errorf("filtered summary = %+v", rep.Summary)
	}
	if len(rep.Leagues) != 1 || rep.Leagues[0].League != "Serie A" {
		t.Errorf("breakdown = %+v", rep.Leagues)
	}
}

func TestExportEndpoint(t *testing.T) {
	srv := newTestServer()

	doJSON(t, srv, http.MethodPost, "/api/records/singles", map[string]any{
		"league": "Serie A", "match": "Roma - Lazio", "odds": 1.85,
	})

	rec := doJSON(t, srv, http.MethodGet, "/api/export/singles", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Errorf("content disposition = %q", cd)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte{0xEF, 0xBB, 0xBF}) {
		t.Error("export missing UTF-8 BOM")
	}
	if !strings.Contains(rec.Body.String(), "Roma - Lazio") {
		t.Errorf("export body missing the record:\n%s", rec.Body.String())
	}
}

func TestLeaguesEndpoint(t *testing.T) {
	srv := newTestServer()

	rec := doJSON(t, srv, http.MethodGet, "/api/leagues", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Leagues  []string `json:"leagues"`
		Outcomes []string `json:"outcomes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Leagues) == 0 || body.Leagues[len(body.Leagues)-1] != core.LeagueOther {
		t.Errorf("leagues = %v, want Other last", body.Leagues)
	}
	if len(body.Outcomes) != 3 {
		t.Errorf("outcomes = %v, want 3 states", body.Outcomes)
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer()

	rec := doJSON(t, srv, http.MethodGet, "/api/leagues", nil)
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := newRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.allow("1.2.3.4") {
			t.Fatalf("request %d denied within the limit", i+1)
		}
	}
	if rl.allow("1.2.3.4") {
		t.Error("request over the limit allowed")
	}
	if !rl.allow("5.6.7.8") {
		t.Error("a different ip shares the bucket")
	}
}

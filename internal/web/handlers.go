package web

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mgbet/betbook/internal/core"
	"github.com/mgbet/betbook/internal/logging"
)

// maxBodyBytes caps request bodies. Grid saves are the largest payload and
// a personal tracker's table fits in well under a megabyte.
const maxBodyBytes = 1 << 20

// handleIndex serves the single-page UI.
func (s *Server) handleIndex(staticFS fs.FS) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := staticFS.Open("index.html")
		if err != nil {
			respondError(w, r, err)
			return
		}
		defer f.Close()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.Copy(w, f)
	}
}

// kindFromRequest resolves the {kind} URL parameter.
func kindFromRequest(r *http.Request) (core.Kind, error) {
	kind, ok := core.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		return "", fmt.Errorf("%w: %q", core.ErrUnknownKind, chi.URLParam(r, "kind"))
	}
	return kind, nil
}

// decodeBody decodes a JSON request body into dst with a size cap.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &core.ValidationError{Message: "request body is not valid JSON for this endpoint"}
	}
	return nil
}

// recordsResponse is the payload returned by every endpoint that yields a
// full table: the canonical column order plus the normalized records.
type recordsResponse struct {
	Kind    core.Kind     `json:"kind"`
	Columns []string      `json:"columns"`
	Records []core.Record `json:"records"`
}

// handleLeagues returns the form vocabularies: the league set and the
// outcome states, in display order.
func (s *Server) handleLeagues(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"leagues":  core.Leagues,
		"outcomes": core.Outcomes,
	})
}

// handleListRecords returns one table, normalized.
func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	recs, err := s.service.Load(r.Context(), kind)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, recordsResponse{Kind: kind, Columns: kind.Columns(), Records: recs})
}

// handleAddRecord creates one record from the entry form.
func (s *Server) handleAddRecord(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var in core.AddInput
	if err := decodeBody(w, r, &in); err != nil {
		respondError(w, r, err)
		return
	}

	rec, err := s.service.Add(r.Context(), kind, in)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("record added",
		"kind", kind, "id", rec.ID)

	writeJSON(w, http.StatusCreated, map[string]core.Record{"record": rec})
}

// handleSaveGrid replaces the whole table with the edited grid content.
// The normalized result comes back so the client re-renders without a
// second round trip.
func (s *Server) handleSaveGrid(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var body struct {
		Records []core.Record `json:"records"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		respondError(w, r, err)
		return
	}

	recs, err := s.service.Save(r.Context(), kind, body.Records)
	if err != nil {
		respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("grid saved",
		"kind", kind, "records", len(recs))

	writeJSON(w, http.StatusOK, recordsResponse{Kind: kind, Columns: kind.Columns(), Records: recs})
}

// handleUpdateCell applies one inline grid edit.
func (s *Server) handleUpdateCell(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var body struct {
		Row    int    `json:"row"`
		Column string `json:"column"`
		Value  string `json:"value"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.service.UpdateCell(r.Context(), kind, body.Row, body.Column, body.Value); err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// handleDeleteRecord removes one row by position.
func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var body struct {
		Row int `json:"row"`
	}
	if err := decodeBody(w, r, &body); err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.service.Delete(r.Context(), kind, body.Row); err != nil {
		respondError(w, r, err)
		return
	}

	logging.FromContext(r.Context()).Info("record deleted",
		"kind", kind, "row", body.Row)

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleRefresh busts the read cache and returns a fresh load.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.service.Refresh(kind)

	recs, err := s.service.Load(r.Context(), kind)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, recordsResponse{Kind: kind, Columns: kind.Columns(), Records: recs})
}

// handleReport computes the aggregate dashboard for one table. Repeatable
// ?league= parameters filter singles; parlays ignore the filter.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	leagues := r.URL.Query()["league"]

	rep, err := s.service.BuildReport(r.Context(), kind, leagues)
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rep)
}

// handleExport streams one table as a CSV download.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	kind, err := kindFromRequest(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	filename := fmt.Sprintf("%s_%s.csv", kind, time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := s.service.ExportCSV(r.Context(), kind, w); err != nil {
		// The header is already out; log and cut the stream.
		logging.FromContext(r.Context()).Error("csv export failed", "kind", kind, "error", err)
	}
}

package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mgbet/betbook/internal/core"
	"github.com/mgbet/betbook/internal/logging"
	"github.com/mgbet/betbook/internal/store"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	// The status line is already out; an encode failure just truncates
	// the body and the client retries.
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a user-facing error body with the given status code.
func writeError(w http.ResponseWriter, status int, msg core.UserMessage) {
	writeJSON(w, status, map[string]core.UserMessage{"error": msg})
}

// respondError maps an error onto a status code and a safe client message,
// and logs the technical detail under the request id.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError

	var ve *core.ValidationError
	switch {
	case errors.As(err, &ve):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, core.ErrUnknownKind):
		status = http.StatusNotFound
	}

	msg := core.MapError(err)

	log := logging.FromContext(r.Context())
	if status >= 500 {
		log.Error("request failed", "status", status, "code", msg.Code, "error", err)
	} else {
		log.Info("request rejected", "status", status, "code", msg.Code, "error", err)
	}

	writeError(w, status, msg)
}

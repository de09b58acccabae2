package core

// errors.go maps internal errors onto user-facing messages with support
// codes. Users quote the code when something fails; the logs carry the
// technical detail under the same request id.
//
// Code groups:
//
//	CFG001-CFG099 — startup configuration (reported before any work is done)
//	STO001-STO099 — external store connectivity
//	VAL001-VAL099 — rejected manual edits
//	TBL001-TBL099 — table/kind resolution

import (
	"errors"
	"fmt"

	"github.com/mgbet/betbook/internal/store"
)

// ValidationError rejects one specific manual edit or form field. The rest
// of the table is never affected by it.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ErrUnknownKind is returned when a request names a record kind that does
// not exist.
var ErrUnknownKind = errors.New("unknown record kind")

// UserMessage is the client-facing rendering of an error.
type UserMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
}

// MapError converts any error into a UserMessage. It never exposes internal
// detail; that belongs in the server log.
func MapError(err error) UserMessage {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		msg := UserMessage{
			Code:    "VAL001",
			Message: ve.Message,
			Action:  "Correct the value and try again.",
		}
		if ve.Field != "" {
			msg.Message = fmt.Sprintf("%s: %s", ve.Field, ve.Message)
		}
		return msg

	case errors.Is(err, store.ErrUnavailable):
		return UserMessage{
			Code:    "STO001",
			Message: "Could not reach the spreadsheet.",
			Action:  "Check that the sheet is shared with the service account, then retry.",
		}

	case errors.Is(err, ErrUnknownKind):
		return UserMessage{
			Code:    "TBL001",
			Message: "Unknown record table.",
			Action:  "Use one of the tables listed on the dashboard.",
		}
	}

	return UserMessage{
		Code:    "GEN001",
		Message: "Something went wrong.",
		Action:  "Retry, and quote this code if the problem persists.",
	}
}

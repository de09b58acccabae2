// Package store provides the record-store adapter: access to named external
// tables ("worksheets") as a header row plus ordered string rows. The only
// write primitive is a whole-table replace; the external collaborator offers
// nothing finer-grained, and callers must not pretend otherwise.
package store

import (
	"context"
	"errors"
)

// ErrUnavailable is the single opaque condition for any connectivity or
// auth failure against the external store. Callers check it with errors.Is;
// the underlying cause is carried in the message for the logs.
var ErrUnavailable = errors.New("record store unavailable")

// TableStore is the adapter boundary for one external spreadsheet.
//
// GetRows returns the table's header and data rows; a table that does not
// exist yet is created empty. ReplaceRows overwrites the entire table
// content (clear, then header + rows) atomically from the caller's point of
// view — either the whole table is accepted or the previous content is
// presumed still current.
type TableStore interface {
	GetRows(ctx context.Context, table string) (header []string, rows [][]string, err error)
	ReplaceRows(ctx context.Context, table string, header []string, rows [][]string) error
}

// Invalidator is implemented by stores that keep read state worth busting,
// such as the TTL read cache. An explicit user refresh goes through this.
type Invalidator interface {
	Invalidate(table string)
}

func copyRow(row []string) []string {
	out := make([]string, len(row))
	copy(out, row)
	return out
}

func copyRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = copyRow(row)
	}
	return out
}

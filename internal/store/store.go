// Package store holds all persistence and the item/claim state machines.
//
// Every status transition is a conditional update: the UPDATE carries the
// expected prior status in its WHERE clause, and zero affected rows means a
// concurrent actor got there first (ErrStaleState). Callers must re-fetch and
// decide; nothing here retries a lost race.
package store

import (
	"context"
	"database/sql"
	"errors"
)

// ErrStaleState is returned when a conditional update finds the record no
// longer in the expected prior state. The attempted transition had no effect.
var ErrStaleState = errors.New("record state changed concurrently")

// execer is satisfied by both *sql.DB and *sql.Tx so that notification
// writes can join an adjudication transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

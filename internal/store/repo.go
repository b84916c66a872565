package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	From  time.Time // timestamp >= From
	To    time.Time // timestamp <= To
}

// Progress actions recorded in the event log.
const (
	ActionPass   = "pass"
	ActionUnpass = "unpass"
	ActionReset  = "reset"
	ActionImport = "import"
)

// ProgressEventData captures one accepted change to the passed set.
type ProgressEventData struct {
	SessionID   string
	Action      string
	UnitID      string // empty for reset and import
	PassedCount int    // size of the passed set after the change
}

// ProgressEvent is a stored ProgressEventData.
type ProgressEvent struct {
	ID        int64
	Timestamp time.Time
	ProgressEventData
}

// EventRepo provides append and query access to progress events.
type EventRepo interface {
	// AppendProgress records a change to the passed set.
	AppendProgress(ctx context.Context, data ProgressEventData) error

	// QueryProgress returns events newest first.
	QueryProgress(ctx context.Context, opts QueryOpts) ([]ProgressEvent, error)
}

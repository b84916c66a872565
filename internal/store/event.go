package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

const eventTable = "progress_events"

// eventRepo implements EventRepo on the progress_events table.
// Row IDs are assigned by SQLite and increase with every append, so they
// double as the event order.
type eventRepo struct {
	db *sql.DB
}

func (r *eventRepo) AppendProgress(ctx context.Context, data ProgressEventData) error {
	query, args := builder().
		Insert(eventTable).
		Columns("session_id", "action", "unit_id", "passed_count", "timestamp").
		Values(data.SessionID, data.Action, data.UnitID, data.PassedCount, time.Now().UTC()).
		Query()

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("append progress event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryProgress(ctx context.Context, opts QueryOpts) ([]ProgressEvent, error) {
	sel := builder().
		Select("id", "session_id", "action", "unit_id", "passed_count", "timestamp").
		From(entsql.Table(eventTable)).
		OrderBy(entsql.Desc("id"))

	var preds []*entsql.Predicate
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		preds = append(preds, entsql.LTE("timestamp", opts.To.UTC()))
	}
	if len(preds) > 0 {
		sel.Where(entsql.And(preds...))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query progress events: %w", err)
	}
	defer rows.Close()

	var events []ProgressEvent
	for rows.Next() {
		var e ProgressEvent
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Action, &e.UnitID, &e.PassedCount, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan progress event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress events: %w", err)
	}
	return events, nil
}

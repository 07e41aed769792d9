// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package eventlog persists teardown events to SQLite.
package eventlog

import (
	"context"
	"database/sql"
	"strings"
	"sync"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/subnetd/liquidation"
	"github.com/vechain/subnetd/thor"
)

// Record is a stored event.
type Record struct {
	Seq   uint64
	RunID string
	liquidation.Event
}

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Options bounds the result set.
type Options struct {
	Offset uint64
	Limit  uint64
}

// Filter selects records. Zero fields match everything.
type Filter struct {
	NetUID  *thor.NetUID
	Kinds   []liquidation.EventKind
	FromSeq uint64
	Order   Order
	Options *Options
}

// EventLog is a liquidation.Emitter backed by SQLite.
type EventLog struct {
	path          string
	db            *sql.DB
	driverVersion string

	mu   sync.Mutex
	runs map[thor.NetUID]string
}

// New create or open the event log at given path.
func New(path string) (eventLog *EventLog, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if eventLog == nil {
			db.Close()
		}
	}()
	// a single connection keeps an in-memory database alive and shared
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(eventTableSchema); err != nil {
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	return &EventLog{
		path:          path,
		db:            db,
		driverVersion: driverVer,
		runs:          make(map[thor.NetUID]string),
	}, nil
}

// NewMem create an event log in ram.
func NewMem() (*EventLog, error) {
	return New(":memory:")
}

func (l *EventLog) Close() error {
	return l.db.Close()
}

func (l *EventLog) Path() string {
	return l.path
}

// DriverVersion returns the version of the sqlite library in use.
func (l *EventLog) DriverVersion() string {
	return l.driverVersion
}

// runID tags ev with the run it belongs to. Start and completion events carry
// the run id in their detail.
func (l *EventLog) runID(ev liquidation.Event) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch ev.Kind {
	case liquidation.EventLiquidationStarted:
		l.runs[ev.NetUID] = ev.Detail
	case liquidation.EventLiquidationCompleted:
		delete(l.runs, ev.NetUID)
		return ev.Detail
	}
	return l.runs[ev.NetUID]
}

// Emit stores events in one transaction.
func (l *EventLog) Emit(events ...liquidation.Event) error {
	tx, err := l.db.Begin()
	if err != nil {
		return err
	}
	for _, ev := range events {
		if _, err := tx.Exec("INSERT INTO event(runID, kind, netuid, phase, amount, detail) VALUES (?, ?, ?, ?, ?, ?);",
			l.runID(ev),
			uint8(ev.Kind),
			uint16(ev.NetUID),
			uint8(ev.Phase),
			int64(min(ev.Amount, 1<<63-1)),
			ev.Detail,
		); err != nil {
			tx.Rollback()
			return errors.Wrap(err, "insert event")
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	metricEventsStored().Add(int64(len(events)))
	return nil
}

// Filter returns the records matching filter, in sequence order.
func (l *EventLog) Filter(ctx context.Context, filter *Filter) ([]*Record, error) {
	if filter == nil {
		return l.query(ctx, "SELECT seq, runID, kind, netuid, phase, amount, detail FROM event ORDER BY seq ASC")
	}
	var args []any
	stmt := "SELECT seq, runID, kind, netuid, phase, amount, detail FROM event WHERE seq >= ?"
	args = append(args, filter.FromSeq)
	if filter.NetUID != nil {
		stmt += " AND netuid = ?"
		args = append(args, uint16(*filter.NetUID))
	}
	if len(filter.Kinds) > 0 {
		stmt += " AND kind IN (" + strings.TrimSuffix(strings.Repeat("?,", len(filter.Kinds)), ",") + ")"
		for _, k := range filter.Kinds {
			args = append(args, uint8(k))
		}
	}
	if filter.Order == DESC {
		stmt += " ORDER BY seq DESC"
	} else {
		stmt += " ORDER BY seq ASC"
	}
	if filter.Options != nil {
		stmt += " LIMIT ?, ?"
		args = append(args, filter.Options.Offset, filter.Options.Limit)
	}
	return l.query(ctx, stmt, args...)
}

// Runs returns the run ids recorded for netuid, oldest first.
func (l *EventLog) Runs(ctx context.Context, netuid thor.NetUID) ([]string, error) {
	rows, err := l.db.QueryContext(ctx,
		"SELECT runID FROM event WHERE netuid = ? AND kind = ? ORDER BY seq ASC",
		uint16(netuid), uint8(liquidation.EventLiquidationStarted))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		runs = append(runs, id)
	}
	return runs, rows.Err()
}

func (l *EventLog) query(ctx context.Context, stmt string, args ...any) ([]*Record, error) {
	rows, err := l.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		var (
			seq    uint64
			runID  sql.NullString
			kind   uint8
			netuid uint16
			phase  uint8
			amount int64
			detail sql.NullString
		)
		if err := rows.Scan(&seq, &runID, &kind, &netuid, &phase, &amount, &detail); err != nil {
			return nil, err
		}
		records = append(records, &Record{
			Seq:   seq,
			RunID: runID.String,
			Event: liquidation.Event{
				Kind:   liquidation.EventKind(kind),
				NetUID: thor.NetUID(netuid),
				Phase:  liquidation.Tag(phase),
				Amount: uint64(amount),
				Detail: detail.String,
			},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

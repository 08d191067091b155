// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"database/sql"
	"sort"
	"sync"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/vechain/abidb/abi"
	"github.com/vechain/abidb/log"
)

var logger = log.WithContext("pkg", "logdb")

// LogDB stores the logs of prepared events in sqlite, one table per event plus one per dynamic
// array in the event.
type LogDB struct {
	path          string
	db            *sql.DB
	driverVersion string
	stmts         *stmtCache

	lock   sync.RWMutex
	events map[string]*preparedEvent
}

// New create or open log db at given path. Events prepared by a previous run are loaded back.
func New(path string) (logDB *LogDB, err error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if logDB == nil {
			db.Close()
		}
	}()
	// every connection to an in-memory database opens a distinct database
	if isMemoryPath(path) {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(eventBlockTableSchema + eventSchemaTableSchema); err != nil {
		return nil, errors.Wrap(err, "create control tables")
	}

	stmts := newStmtCache(db)
	if err := stmts.PrepareAll(getEventBlock, newEventBlock, setEventBlock, setEventIndexed, newEventSchema); err != nil {
		stmts.Clear()
		return nil, err
	}

	driverVer, _, _ := sqlite3.Version()
	ldb := &LogDB{
		path:          path,
		db:            db,
		driverVersion: driverVer,
		stmts:         stmts,
		events:        make(map[string]*preparedEvent),
	}
	if err := ldb.load(); err != nil {
		stmts.Clear()
		return nil, err
	}
	logger.Debug("opened log db", "path", path, "sqlite", driverVer, "events", len(ldb.events))
	return ldb, nil
}

// NewMem create a log db in ram.
func NewMem() (*LogDB, error) {
	return New(memoryPath)
}

// load registers the events recorded in event_schema.
func (db *LogDB) load() error {
	rows, err := db.db.Query(listEventSchemas)
	if err != nil {
		return errors.Wrap(err, "query event schemas")
	}
	type schema struct {
		name       string
		descriptor []byte
	}
	var schemas []schema
	for rows.Next() {
		var s schema
		if err := rows.Scan(&s.name, &s.descriptor); err != nil {
			rows.Close()
			return errors.Wrap(err, "scan event schema")
		}
		schemas = append(schemas, s)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return errors.Wrap(err, "query event schemas")
	}
	rows.Close()

	for _, s := range schemas {
		event, err := abi.ParseEvent(s.descriptor)
		if err != nil {
			return errors.Wrapf(err, "event %s: parse descriptor", s.name)
		}
		pe, err := compileEvent(s.name, event)
		if err != nil {
			return errors.Wrapf(err, "event %s", s.name)
		}
		if err := db.stmts.PrepareAll(pe.statements()...); err != nil {
			return errors.Wrapf(err, "event %s", s.name)
		}
		db.events[s.name] = pe
	}
	if len(schemas) > 0 {
		logger.Info("loaded prepared events", "count", len(schemas))
	}
	metricPreparedEvents().Set(int64(len(db.events)))
	return nil
}

// Close close the log db.
func (db *LogDB) Close() error {
	db.stmts.Clear()
	return db.db.Close()
}

func (db *LogDB) Path() string {
	return db.path
}

// Events returns the sanitized names of the prepared events, sorted.
func (db *LogDB) Events() []string {
	db.lock.RLock()
	defer db.lock.RUnlock()

	names := make([]string, 0, len(db.events))
	for name := range db.events {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (db *LogDB) event(name string) (*preparedEvent, bool) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	pe, ok := db.events[name]
	return pe, ok
}

// register makes committed events visible to every writer.
func (db *LogDB) register(events map[string]*preparedEvent) {
	if len(events) == 0 {
		return
	}
	db.lock.Lock()
	for name, pe := range events {
		db.events[name] = pe
	}
	count := len(db.events)
	db.lock.Unlock()

	metricPreparedEvents().Set(int64(count))
	for _, pe := range events {
		if err := db.stmts.PrepareAll(pe.statements()...); err != nil {
			// transactions fall back to preparing the statement themselves
			logger.Warn("failed to cache event statements", "event", pe.name, "err", err)
		}
	}
}

// EventBlock returns the indexing progress of the event. On an in-memory db it must not be called
// while a writer is open, use Writer.EventBlock.
func (db *LogDB) EventBlock(name string) (Block, error) {
	name = sanitizeName(name)
	if _, ok := db.event(name); !ok {
		return Block{}, errors.WithMessagef(ErrUnknownEvent, "%s", name)
	}
	stmt, err := db.stmts.Prepare(getEventBlock)
	if err != nil {
		return Block{}, err
	}
	return scanBlock(stmt.QueryRow(name), name)
}

// PrepareEvent registers the event under name, creating its tables. Preparing the same
// descriptor again is a no-op.
func (db *LogDB) PrepareEvent(name string, event *abi.Event) error {
	return db.write(func(w *Writer) error {
		return w.PrepareEvent(name, event)
	})
}

// Update stores the event blocks, then the logs, in one transaction.
func (db *LogDB) Update(blocks []EventBlock, logs []*Log) error {
	return db.write(func(w *Writer) error {
		return w.Update(blocks, logs)
	})
}

// Remove deletes the logs of uncled blocks and rewinds the indexed block of their events.
func (db *LogDB) Remove(uncles []Uncle) error {
	return db.write(func(w *Writer) error {
		return w.Remove(uncles)
	})
}

func (db *LogDB) write(proc func(*Writer) error) error {
	w := db.NewWriter()
	if err := proc(w); err != nil {
		if rbErr := w.Rollback(); rbErr != nil {
			logger.Warn("failed to rollback", "err", rbErr)
		}
		return err
	}
	return w.Commit()
}

func scanBlock(row *sql.Row, name string) (Block, error) {
	var indexed, finalized int64
	if err := row.Scan(&indexed, &finalized); err != nil {
		return Block{}, errors.Wrapf(err, "event %s: get event block", name)
	}
	if indexed < 0 || finalized < 0 {
		return Block{}, errors.WithMessagef(ErrRange, "event %s: stored block %d/%d", name, indexed, finalized)
	}
	return Block{Indexed: uint64(indexed), Finalized: uint64(finalized)}, nil
}

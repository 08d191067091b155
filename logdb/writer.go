// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/vechain/abidb/abi"
)

// Writer groups writes into one transaction, opened on first use and ended by Commit or Rollback.
// Events prepared by a writer are only visible to it until committed.
// A Writer is not safe for concurrent use.
type Writer struct {
	db     *LogDB
	tx     *sql.Tx
	stmts  map[string]*sql.Stmt
	staged map[string]*preparedEvent

	inserted map[string]int64
	removed  map[string]int64
}

// NewWriter creates a writer.
func (db *LogDB) NewWriter() *Writer {
	w := &Writer{db: db}
	w.reset()
	return w
}

func (w *Writer) reset() {
	w.tx = nil
	w.stmts = make(map[string]*sql.Stmt)
	w.staged = make(map[string]*preparedEvent)
	w.inserted = make(map[string]int64)
	w.removed = make(map[string]int64)
}

func (w *Writer) begin() (*sql.Tx, error) {
	if w.tx == nil {
		tx, err := w.db.db.Begin()
		if err != nil {
			return nil, errors.Wrap(err, "begin")
		}
		w.tx = tx
	}
	return w.tx, nil
}

// stmt returns query bound to the transaction. Cached statements are reused, others are
// prepared on the transaction.
func (w *Writer) stmt(query string) (*sql.Stmt, error) {
	if s, ok := w.stmts[query]; ok {
		return s, nil
	}
	tx, err := w.begin()
	if err != nil {
		return nil, err
	}
	var s *sql.Stmt
	if cached, ok := w.db.stmts.Load(query); ok {
		s = tx.Stmt(cached)
	} else if s, err = tx.Prepare(query); err != nil {
		return nil, errors.Wrapf(err, "prepare %q", query)
	}
	w.stmts[query] = s
	return s, nil
}

func (w *Writer) exec(query string, args ...any) (int64, error) {
	s, err := w.stmt(query)
	if err != nil {
		return 0, err
	}
	res, err := s.Exec(args...)
	if err != nil {
		return 0, errors.Wrapf(err, "exec %q", query)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "rows affected")
	}
	return n, nil
}

func (w *Writer) event(name string) (*preparedEvent, bool) {
	if pe, ok := w.staged[name]; ok {
		return pe, true
	}
	return w.db.event(name)
}

// PrepareEvent creates the tables of the event under the sanitized name and registers it in
// the writer. Preparing an equal descriptor again is a no-op, a different one fails with
// ErrDescriptorMismatch.
func (w *Writer) PrepareEvent(name string, event *abi.Event) error {
	if event == nil {
		return errors.New("nil event")
	}
	name = sanitizeName(name)
	if _, err := fieldNames(event); err != nil {
		return errors.WithMessagef(err, "event %s", name)
	}
	if existing, ok := w.event(name); ok {
		if !existing.descriptor.Equal(event) {
			return errors.WithMessagef(ErrDescriptorMismatch, "event %s", name)
		}
		return nil
	}

	pe, err := compileEvent(name, event)
	if err != nil {
		return errors.WithMessagef(err, "event %s", name)
	}
	descriptor, err := json.Marshal(event)
	if err != nil {
		return errors.Wrapf(err, "event %s: encode descriptor", name)
	}

	tx, err := w.begin()
	if err != nil {
		return err
	}
	for _, create := range pe.creates {
		logger.Debug("creating table", "event", name, "sql", create)
		if _, err := tx.Exec(create); err != nil {
			return errors.Wrapf(err, "event %s: create table", name)
		}
	}
	if _, err := w.exec(newEventBlock, name); err != nil {
		return errors.WithMessagef(err, "event %s", name)
	}
	if _, err := w.exec(newEventSchema, name, descriptor); err != nil {
		return errors.WithMessagef(err, "event %s", name)
	}
	for _, query := range pe.statements() {
		logger.Debug("preparing statement", "event", name, "sql", query)
		if _, err := w.stmt(query); err != nil {
			return errors.WithMessagef(ErrSchema, "event %s: invalid statement: %v", name, err)
		}
	}

	w.staged[name] = pe
	return nil
}

// EventBlock returns the indexing progress of the event as seen by the writer.
func (w *Writer) EventBlock(name string) (Block, error) {
	name = sanitizeName(name)
	if _, ok := w.event(name); !ok {
		return Block{}, errors.WithMessagef(ErrUnknownEvent, "%s", name)
	}
	s, err := w.stmt(getEventBlock)
	if err != nil {
		return Block{}, err
	}
	return scanBlock(s.QueryRow(name), name)
}

// Update sets the event blocks, then inserts the logs.
func (w *Writer) Update(blocks []EventBlock, logs []*Log) error {
	if len(logs) > 0 {
		metricUpdateLogs().Observe(int64(len(logs)))
	}

	if err := w.setEventBlocks(blocks); err != nil {
		return err
	}
	for _, l := range logs {
		if err := w.storeLog(l); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) setEventBlocks(blocks []EventBlock) error {
	for _, b := range blocks {
		name := sanitizeName(b.Event)
		if _, ok := w.event(name); !ok {
			return errors.WithMessagef(ErrUnknownEvent, "%s", name)
		}
		indexed, err := toInt64(b.Block.Indexed, "indexed block")
		if err != nil {
			return errors.WithMessagef(err, "event %s", name)
		}
		finalized, err := toInt64(b.Block.Finalized, "finalized block")
		if err != nil {
			return errors.WithMessagef(err, "event %s", name)
		}
		n, err := w.exec(setEventBlock, name, indexed, finalized)
		if err != nil {
			return errors.WithMessagef(err, "event %s", name)
		}
		if n != 1 {
			return errors.WithMessagef(ErrConsistency, "event %s: set event block changed %d rows instead of 1", name, n)
		}
	}
	return nil
}

func (w *Writer) storeLog(l *Log) error {
	name := sanitizeName(l.Event)
	pe, ok := w.event(name)
	if !ok {
		return errors.WithMessagef(ErrUnknownEvent, "%s", name)
	}
	tables, err := encodeLog(pe, l)
	if err != nil {
		return errors.WithMessagef(err, "event %s: block %d log %d", name, l.BlockNumber, l.LogIndex)
	}
	for i, rows := range tables {
		query := pe.inserts[i].sql
		for _, args := range rows {
			if _, err := w.exec(query, args...); err != nil {
				return errors.WithMessagef(err, "event %s: block %d log %d", name, l.BlockNumber, l.LogIndex)
			}
		}
		w.inserted[name] += int64(len(rows))
	}
	return nil
}

// Remove deletes, for each uncle, every row of the event from the uncled block on and sets the
// event's indexed block to the block before it. The finalized block is left unchanged.
func (w *Writer) Remove(uncles []Uncle) error {
	for _, u := range uncles {
		name := sanitizeName(u.Event)
		if u.Number == 0 {
			return errors.WithMessagef(ErrInvalidUncle, "event %s", name)
		}
		pe, ok := w.event(name)
		if !ok {
			return errors.WithMessagef(ErrUnknownEvent, "%s", name)
		}
		number, err := toInt64(u.Number, "uncled block")
		if err != nil {
			return errors.WithMessagef(err, "event %s", name)
		}

		var removed int64
		for _, query := range pe.removes {
			n, err := w.exec(query, number)
			if err != nil {
				return errors.WithMessagef(err, "event %s", name)
			}
			removed += n
		}
		n, err := w.exec(setEventIndexed, name, number-1)
		if err != nil {
			return errors.WithMessagef(err, "event %s", name)
		}
		if n != 1 {
			return errors.WithMessagef(ErrConsistency, "event %s: set indexed block changed %d rows instead of 1", name, n)
		}
		w.removed[name] += removed
		logger.Info("removed uncled logs", "event", name, "block", u.Number, "rows", removed)
	}
	return nil
}

// Commit commits the transaction and registers the events prepared by the writer.
// The writer can be used again afterwards.
func (w *Writer) Commit() error {
	if w.tx != nil {
		if err := w.tx.Commit(); err != nil {
			w.reset()
			return errors.Wrap(err, "commit")
		}
	}
	w.db.register(w.staged)
	for name, n := range w.inserted {
		metricsHandleInserted(name, n)
	}
	for name, n := range w.removed {
		metricsHandleRemoved(name, n)
	}
	w.reset()
	return nil
}

// Rollback discards every write and every event prepared by the writer.
func (w *Writer) Rollback() error {
	tx := w.tx
	w.reset()
	if tx == nil {
		return nil
	}
	return errors.Wrap(tx.Rollback(), "rollback")
}

// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"database/sql"
	"sync"

	"github.com/pkg/errors"
)

// stmtCache keeps statements prepared on the db, keyed by query. Transactions bind them with
// tx.Stmt.
type stmtCache struct {
	db *sql.DB
	m  sync.Map
}

func newStmtCache(db *sql.DB) *stmtCache {
	return &stmtCache{db: db}
}

// Load returns the cached statement without preparing it. A db limited to a single
// connection can't prepare while a transaction holds that connection.
func (sc *stmtCache) Load(query string) (*sql.Stmt, bool) {
	cached, ok := sc.m.Load(query)
	if !ok {
		return nil, false
	}
	return cached.(*sql.Stmt), true
}

// Prepare returns the cached statement, preparing it on first use.
func (sc *stmtCache) Prepare(query string) (*sql.Stmt, error) {
	if cached, ok := sc.Load(query); ok {
		return cached, nil
	}

	stmt, err := sc.db.Prepare(query)
	if err != nil {
		return nil, err
	}

	actual, loaded := sc.m.LoadOrStore(query, stmt)
	if loaded {
		stmt.Close()
	}
	return actual.(*sql.Stmt), nil
}

// PrepareAll prepares every query not cached yet.
func (sc *stmtCache) PrepareAll(queries ...string) error {
	for _, q := range queries {
		if _, err := sc.Prepare(q); err != nil {
			return errors.Wrapf(err, "prepare %q", q)
		}
	}
	return nil
}

func (sc *stmtCache) Clear() {
	sc.m.Range(func(k, v any) bool {
		_ = v.(*sql.Stmt).Close()
		sc.m.Delete(k)
		return true
	})
}

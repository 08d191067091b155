// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/vechain/abidb/abi"
)

type insertStatement struct {
	sql string
	// number of value columns, excluding the fixed and array_index columns
	fields int
}

// preparedEvent is a registered event with the statements derived from its descriptor.
type preparedEvent struct {
	name       string
	descriptor *abi.Event
	tables     []table
	creates    []string
	inserts    []insertStatement
	removes    []string
}

// fieldNames returns the sanitized names of the event inputs.
func fieldNames(event *abi.Event) ([]string, error) {
	names := make([]string, 0, len(event.Inputs))
	seen := make(map[string]struct{}, len(event.Inputs))
	for _, in := range event.Inputs {
		name := sanitizeName(in.Name)
		if _, dup := seen[name]; dup {
			return nil, errors.WithMessagef(ErrDuplicateField, "%q", name)
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names, nil
}

// compileEvent builds the tables and statements of event registered under the sanitized name.
func compileEvent(name string, event *abi.Event) (*preparedEvent, error) {
	columns, err := fieldNames(event)
	if err != nil {
		return nil, err
	}
	tables, err := eventToTables(event)
	if err != nil {
		return nil, err
	}

	pe := &preparedEvent{
		name:       name,
		descriptor: event,
		tables:     tables,
	}
	for i, t := range tables {
		tableName := name + "_" + strconv.Itoa(i)
		pe.creates = append(pe.creates, createTableSQL(tableName, i, t, columns))
		pe.inserts = append(pe.inserts, insertStatement{
			sql:    insertSQL(tableName, i, t),
			fields: len(t.columns),
		})
		pe.removes = append(pe.removes, "DELETE FROM "+tableName+" WHERE block_number >= ?1;")
	}
	return pe, nil
}

// createTableSQL names the columns of table 0 after the fields only when every field maps to
// exactly one column, otherwise columns are named c0, c1, ...
func createTableSQL(tableName string, i int, t table, fields []string) string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS ")
	b.WriteString(tableName)
	b.WriteString(" (")
	b.WriteString(fixedColumns)
	b.WriteString(", ")
	if i != 0 {
		b.WriteString(arrayColumn)
		b.WriteString(", ")
	}
	for j, c := range t.columns {
		if i == 0 && len(fields) == len(t.columns) {
			b.WriteString(fields[j])
		} else {
			b.WriteString("c")
			b.WriteString(strconv.Itoa(j))
		}
		b.WriteString(" ")
		b.WriteString(string(c))
		b.WriteString(", ")
	}
	b.WriteString("PRIMARY KEY(")
	if i == 0 {
		b.WriteString(primaryKey)
	} else {
		b.WriteString(primaryKeyArray)
	}
	b.WriteString(")) STRICT;")
	return b.String()
}

func insertSQL(tableName string, i int, t table) string {
	n := fixedColumnsCount + len(t.columns)
	if i != 0 {
		n++
	}
	params := make([]string, n)
	for j := range params {
		params[j] = "?" + strconv.Itoa(j+1)
	}
	return "INSERT INTO " + tableName + " VALUES(" + strings.Join(params, ",") + ");"
}

// statements returns every insert and remove statement of the event.
func (pe *preparedEvent) statements() []string {
	queries := make([]string, 0, len(pe.inserts)+len(pe.removes))
	for _, ins := range pe.inserts {
		queries = append(queries, ins.sql)
	}
	return append(queries, pe.removes...)
}

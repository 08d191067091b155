// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

// sqliteKeywords lists the reserved words of sqlite, see https://www.sqlite.org/lang_keywords.html.
var sqliteKeywords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"abort", "action", "add", "after", "all", "alter", "always", "analyze", "and", "as", "asc",
		"attach", "autoincrement", "before", "begin", "between", "by", "cascade", "case", "cast", "check",
		"collate", "column", "commit", "conflict", "constraint", "create", "cross", "current",
		"current_date", "current_time", "current_timestamp", "database", "default", "deferrable",
		"deferred", "delete", "desc", "detach", "distinct", "do", "drop", "each", "else", "end", "escape",
		"except", "exclude", "exclusive", "exists", "explain", "fail", "filter", "first", "following",
		"for", "foreign", "from", "full", "generated", "glob", "group", "groups", "having", "if",
		"ignore", "immediate", "in", "index", "indexed", "initially", "inner", "insert", "instead",
		"intersect", "into", "is", "isnull", "join", "key", "last", "left", "like", "limit", "match",
		"materialized", "natural", "no", "not", "nothing", "notnull", "null", "nulls", "of", "offset",
		"on", "or", "order", "others", "outer", "over", "partition", "plan", "pragma", "preceding",
		"primary", "query", "raise", "range", "recursive", "references", "regexp", "reindex", "release",
		"rename", "replace", "restrict", "returning", "right", "rollback", "row", "rows", "savepoint",
		"select", "set", "table", "temp", "temporary", "then", "ties", "to", "transaction", "trigger",
		"unbounded", "union", "unique", "update", "using", "vacuum", "values", "view", "virtual", "when",
		"where", "window", "with", "without",
	} {
		sqliteKeywords[w] = struct{}{}
	}
}

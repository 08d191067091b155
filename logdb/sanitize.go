// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import "strings"

// sanitizeName maps an arbitrary event or field name to a valid unquoted sqlite identifier.
// Only ascii letters, digits and '_' are kept. The result is prefixed with '_' if it doesn't
// start with a letter and suffixed with '_' if it is a keyword.
//
// Distinct names may map to the same identifier ("a-b" and "ab"), which is not detected here.
func sanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name) + 2)
	for i := 0; i < len(name); i++ {
		if c := name[i]; isLetter(c) || isDigit(c) || c == '_' {
			b.WriteByte(c)
		}
	}
	s := b.String()
	if s == "" || !isLetter(s[0]) {
		s = "_" + s
	}
	if _, reserved := sqliteKeywords[strings.ToLower(s)]; reserved {
		s += "_"
	}
	return s
}

func isLetter(c byte) bool { return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

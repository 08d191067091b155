// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package logdb

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const memoryPath = ":memory:"

// Open opens the database named by an sqlite URL:
//
//	sqlite://                      in memory
//	sqlite:///relative/foo.db      relative to the working directory
//	sqlite:////absolute/foo.db     absolute path
//
// Query parameters are passed on as sqlite URI parameters, see https://www.sqlite.org/uri.html.
func Open(rawURL string) (*LogDB, error) {
	path, err := pathFromURL(rawURL)
	if err != nil {
		return nil, err
	}
	return New(path)
}

// pathFromURL converts an sqlite URL into a path or file: URI understood by the driver.
func pathFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrap(err, "parse url")
	}
	if u.Scheme != "sqlite" {
		return "", errors.Errorf("not an sqlite:// url: %q", rawURL)
	}
	if u.Opaque != "" || !strings.HasPrefix(rawURL[len(u.Scheme):], "://") || u.Host != "" || u.User != nil {
		return "", errors.New("sqlite:// url requires empty authority")
	}
	if u.Fragment != "" {
		return "", errors.New("sqlite:// url does not support fragments")
	}
	if u.Path == "" {
		if u.RawQuery == "" {
			return memoryPath, nil
		}
		return "file::memory:?" + u.RawQuery, nil
	}

	path := strings.TrimPrefix(u.Path, "/")
	if !filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, "working directory")
		}
		path = filepath.Join(wd, path)
	}
	file := url.URL{Scheme: "file", Path: filepath.ToSlash(path), RawQuery: u.RawQuery}
	return file.String(), nil
}

func isMemoryPath(path string) bool {
	return path == memoryPath || strings.HasPrefix(path, "file::memory:") || strings.Contains(path, "mode=memory")
}

package sqlite

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Scheme prefixes every sqlite DSN, e.g. sqlite://campaignsmith.db or
// sqlite://:memory:.
const Scheme = "sqlite://"

// databasePath converts a sqlite:// DSN into the path handed to the driver.
// Relative paths gain a ./ prefix so the driver does not read them as URI
// options; anything after ? passes through untouched.
func databasePath(dsn string) (string, error) {
	target, ok := strings.CutPrefix(dsn, Scheme)
	if !ok {
		return "", fmt.Errorf("sqlite DSN must start with %s", Scheme)
	}
	if target == ":memory:" {
		return target, nil
	}

	path, query, hasQuery := strings.Cut(target, "?")
	unescaped, err := url.PathUnescape(path)
	if err != nil {
		return "", fmt.Errorf("unescaping database path: %w", err)
	}
	path = unescaped

	if !filepath.IsAbs(path) && !strings.HasPrefix(path, "./") {
		path = "./" + path
	}
	if hasQuery {
		path += "?" + query
	}
	return path, nil
}

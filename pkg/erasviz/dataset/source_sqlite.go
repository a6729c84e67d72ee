//go:build !js && !wasm
// +build !js,!wasm

package dataset

import (
	"fmt"
	"strings"

	"github.com/himanishpuri/erasviz/pkg/erasviz/storage"
	"github.com/himanishpuri/erasviz/pkg/utils"
)

const sqliteScheme = "sqlite://"

func isSQLiteSource(source string) bool {
	if strings.HasPrefix(source, sqliteScheme) {
		return true
	}
	path, _ := splitFragment(source)
	return strings.HasSuffix(path, ".sqlite3") || strings.HasSuffix(path, ".db")
}

// SQLiteSource builds a source string for a dataset stored at path.
func SQLiteSource(path, name string) string {
	return sqliteScheme + path + "#" + name
}

func splitFragment(source string) (string, string) {
	if i := strings.LastIndex(source, "#"); i >= 0 {
		return source[:i], source[i+1:]
	}
	return source, ""
}

// readStore reads raw rows from the database named in the source. A source
// without a path ("sqlite://#chart") reads from the loader's Store. The
// dataset name defaults to the kind.
func (l *Loader) readStore(source string, kind Kind) (string, []RawRow, error) {
	path, name := splitFragment(strings.TrimPrefix(source, sqliteScheme))
	if name == "" {
		name = string(kind)
	}

	store := l.Store
	if path != "" {
		if !utils.FileExists(path) {
			return name, nil, fmt.Errorf("dataset store %s does not exist", path)
		}
		client, err := storage.NewDBClientWithPath(path)
		if err != nil {
			return name, nil, fmt.Errorf("opening dataset store: %w", err)
		}
		defer client.Close()
		store = client
	}
	if store == nil {
		return name, nil, fmt.Errorf("no dataset store configured for %s", source)
	}

	_, records, err := store.Records(name)
	if err != nil {
		return name, nil, err
	}
	return name, records, nil
}

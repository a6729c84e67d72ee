//go:build js && wasm
// +build js,wasm

package dataset

import (
	"errors"
	"strings"
)

func isSQLiteSource(source string) bool {
	return strings.HasPrefix(source, "sqlite://")
}

func (l *Loader) readStore(source string, kind Kind) (string, []RawRow, error) {
	return string(kind), nil, errors.New("sqlite sources are not available in the browser build")
}

// Package dataset loads song-level feature tables into immutable tracks.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/himanishpuri/erasviz/pkg/models"
)

// Logger is the subset of the application logger the loader uses.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
}

// RecordStore is a database of previously imported datasets.
type RecordStore interface {
	Records(name string) (models.DatasetInfo, []models.RawRecord, error)
}

// Dataset is the result of a successful load.
type Dataset struct {
	Name      string            `json:"name"`
	Kind      Kind              `json:"kind"`
	Source    string            `json:"source"`
	Tracks    []models.Track    `json:"tracks"`
	Dropped   int               `json:"dropped"`
	Malformed []MalformedRecord `json:"-"`
}

// Setlist returns the tracks in performed order.
func (d *Dataset) Setlist() models.Setlist {
	return models.Setlist(d.Tracks)
}

// Track looks up a track by id.
func (d *Dataset) Track(id int) (models.Track, bool) {
	if id < 0 || id >= len(d.Tracks) {
		return models.Track{}, false
	}
	return d.Tracks[id], true
}

type Loader struct {
	HTTPClient *http.Client
	// Store resolves sqlite sources. When nil the loader opens the database
	// named by the source itself.
	Store RecordStore
	Log   Logger
}

func NewLoader(log Logger) *Loader {
	return &Loader{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Log:        log,
	}
}

// Load reads every row of source and coerces it into tracks. Sources are a
// local CSV path, an http(s) URL serving CSV, or a sqlite database written
// by the storage package ("sqlite://path#name", or "path.sqlite3#name").
//
// Rows that fail numeric coercion are dropped and counted. Any failure to
// reach or parse the source itself is a *LoadError wrapping ErrLoadFailure.
func (l *Loader) Load(ctx context.Context, source string, kind Kind) (*Dataset, error) {
	if source == "" {
		return nil, loadErr(source, "empty source")
	}
	if err := ctx.Err(); err != nil {
		return nil, &LoadError{Source: source, Err: err}
	}

	name, rows, err := l.readRaw(ctx, source, kind)
	if err != nil {
		return nil, err
	}

	tracks, malformed := Coerce(rows, kind)
	for _, m := range malformed {
		l.debugf("dropped %s: %s", source, m)
	}
	l.infof("loaded %d %s rows from %s (%d dropped)", len(tracks), kind, source, len(malformed))

	return &Dataset{
		Name:      name,
		Kind:      kind,
		Source:    source,
		Tracks:    tracks,
		Dropped:   len(malformed),
		Malformed: malformed,
	}, nil
}

// readRaw fetches uncoerced rows. Errors are always *LoadError.
func (l *Loader) readRaw(ctx context.Context, source string, kind Kind) (string, []RawRow, error) {
	var (
		rows []RawRow
		name string
		err  error
	)
	switch {
	case isSQLiteSource(source):
		name, rows, err = l.readStore(source, kind)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		name = baseName(source)
		rows, err = l.readURL(ctx, source, kind)
	default:
		name = baseName(source)
		rows, err = readFile(source, kind)
	}
	if err != nil {
		return name, nil, &LoadError{Source: source, Err: err}
	}
	return name, rows, nil
}

// RecordImporter persists raw rows under a dataset name.
type RecordImporter interface {
	ImportRecords(name, kind, source string, records []models.RawRecord) error
}

// Import copies the raw rows of source into dst without coercing them, so
// the stored copy keeps the drop behaviour of the original. It returns the
// number of rows stored.
func (l *Loader) Import(ctx context.Context, source string, kind Kind, name string, dst RecordImporter) (int, error) {
	srcName, rows, err := l.readRaw(ctx, source, kind)
	if err != nil {
		return 0, err
	}
	if name == "" {
		name = srcName
	}
	if err := dst.ImportRecords(name, string(kind), source, rows); err != nil {
		return 0, fmt.Errorf("importing %s: %w", source, err)
	}
	l.infof("imported %d rows from %s as %q", len(rows), source, name)
	return len(rows), nil
}

func readFile(path string, kind Kind) ([]RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %w", err)
	}
	defer f.Close()
	return ReadCSV(f, kind)
}

func (l *Loader) readURL(ctx context.Context, url string, kind Kind) ([]RawRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")

	client := l.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetching dataset: unexpected status %s", resp.Status)
	}
	return ReadCSV(resp.Body, kind)
}

// ReadCSV parses a delimited table with a header row. A missing header or a
// missing required column fails the whole load; a header with no data rows
// is a valid empty dataset.
func ReadCSV(r io.Reader, kind Kind) ([]RawRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	idx := columnIndex(header)
	var missing []string
	for _, col := range kind.requiredColumns() {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	var rows []RawRow
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", len(rows)+1, err)
		}
		if isBlank(rec) {
			continue
		}
		rows = append(rows, toRawRecord(rec, idx))
	}
	return rows, nil
}

func isBlank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func baseName(source string) string {
	s := source
	if i := strings.IndexAny(s, "?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndex(s, "/"); i >= 0 {
		s = s[i+1:]
	}
	return strings.TrimSuffix(s, ".csv")
}

func (l *Loader) debugf(format string, args ...any) {
	if l.Log != nil {
		l.Log.Debugf(format, args...)
	}
}

func (l *Loader) infof(format string, args ...any) {
	if l.Log != nil {
		l.Log.Infof(format, args...)
	}
}

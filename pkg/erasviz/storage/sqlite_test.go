//go:build !js && !wasm
// +build !js,!wasm

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/himanishpuri/erasviz/pkg/models"
)

func setupTestDB(t *testing.T) (*DBClient, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test_erasviz.sqlite3")
	t.Setenv("ERASVIZ_DB_PATH", dbPath)

	client, err := NewDBClient()
	if err != nil {
		t.Fatalf("Failed to create test DB client: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
	})
	return client, dbPath
}

func sampleRecords() []models.RawRecord {
	return []models.RawRecord{
		{Title: "Cruel Summer", Album: "Lover", Danceability: "0.552", PeakRank: "1", AverageRank: "9"},
		{Title: "Anti-Hero", Album: "Midnights", Danceability: "0.637", PeakRank: "1", AverageRank: "6"},
		{Title: "Broken Row", Album: "Lover", Danceability: "N/A"},
	}
}

func TestNewDBClient(t *testing.T) {
	client, dbPath := setupTestDB(t)

	if client.DB == nil || client.db == nil {
		t.Fatal("Expected non-nil database handles")
	}
	if client.Path() != dbPath {
		t.Errorf("Expected path %s, got %s", dbPath, client.Path())
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("Database file was not created at %s", dbPath)
	}
}

func TestNewDBClientCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "custom.db")
	client, err := NewDBClientWithPath(path)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	defer client.Close()

	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("Expected parent dir to exist: %v", err)
	}
}

func TestImportAndReadRecords(t *testing.T) {
	client, _ := setupTestDB(t)

	if err := client.ImportRecords("chart", "chart", "chart_performance.csv", sampleRecords()); err != nil {
		t.Fatalf("ImportRecords failed: %v", err)
	}

	info, records, err := client.Records("chart")
	if err != nil {
		t.Fatalf("Records failed: %v", err)
	}
	if info.Rows != 3 || info.Kind != "chart" {
		t.Errorf("Unexpected dataset info: %+v", info)
	}
	if len(records) != 3 {
		t.Fatalf("Expected 3 records, got %d", len(records))
	}
	if records[0].Title != "Cruel Summer" || records[2].Danceability != "N/A" {
		t.Errorf("Expected source order and raw text preserved, got %+v", records)
	}
}

func TestImportReplacesDataset(t *testing.T) {
	client, _ := setupTestDB(t)

	if err := client.ImportRecords("chart", "chart", "a.csv", sampleRecords()); err != nil {
		t.Fatalf("First import failed: %v", err)
	}
	if err := client.ImportRecords("chart", "chart", "b.csv", sampleRecords()[:1]); err != nil {
		t.Fatalf("Second import failed: %v", err)
	}

	info, records, err := client.Records("chart")
	if err != nil {
		t.Fatalf("Records failed: %v", err)
	}
	if len(records) != 1 || info.Source != "b.csv" {
		t.Errorf("Expected replaced dataset with 1 row from b.csv, got %d rows from %s", len(records), info.Source)
	}
}

func TestListAndDeleteDatasets(t *testing.T) {
	client, err := NewDBClientWithPath(MemoryPath)
	if err != nil {
		t.Fatalf("Failed to open in-memory db: %v", err)
	}
	defer client.Close()

	for _, name := range []string{"setlist", "chart"} {
		if err := client.ImportRecords(name, name, name+".csv", sampleRecords()); err != nil {
			t.Fatalf("Import %s failed: %v", name, err)
		}
	}

	sets, err := client.ListDatasets()
	if err != nil {
		t.Fatalf("ListDatasets failed: %v", err)
	}
	if len(sets) != 2 || sets[0].Name != "chart" {
		t.Errorf("Expected datasets sorted by name, got %+v", sets)
	}

	if err := client.DeleteDataset("chart"); err != nil {
		t.Fatalf("DeleteDataset failed: %v", err)
	}
	if _, _, err := client.Records("chart"); !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("Expected ErrDatasetNotFound after delete, got %v", err)
	}
	if err := client.DeleteDataset("missing"); !errors.Is(err, ErrDatasetNotFound) {
		t.Errorf("Expected ErrDatasetNotFound for missing dataset, got %v", err)
	}
}

func TestNilClient(t *testing.T) {
	var client *DBClient
	if err := client.ImportRecords("x", "chart", "", nil); err == nil {
		t.Error("Expected error on nil client")
	}
	if err := client.Close(); err != nil {
		t.Errorf("Expected nil-safe Close, got %v", err)
	}
}

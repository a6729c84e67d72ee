//go:build !js && !wasm
// +build !js,!wasm

// Package storage keeps imported datasets in SQLite so a session can be
// started from a database instead of re-fetching CSV sources.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/himanishpuri/erasviz/pkg/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const DefaultDBFile = "erasviz.sqlite3"

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const errDBClientNil = "db client is nil"

// ErrDatasetNotFound is returned when no dataset has the requested name.
var ErrDatasetNotFound = errors.New("dataset not found")

type DBClient struct {
	DB   *gorm.DB
	db   *sql.DB
	path string
}

type Dataset struct {
	Name      string `gorm:"primaryKey;type:varchar(128)"`
	Kind      string `gorm:"type:varchar(32)"`
	Source    string
	RowCount  int
	CreatedAt time.Time
}

// Row stores one raw dataset row. Seq preserves source order.
type Row struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"`
	Dataset      string `gorm:"type:varchar(128);uniqueIndex:idx_dataset_seq,priority:1"`
	Seq          int    `gorm:"uniqueIndex:idx_dataset_seq,priority:2"`
	Title        string
	Album        string `gorm:"index:idx_album"`
	Danceability string
	PeakRank     string
	AverageRank  string
	WeeksOnChart string
	TrackNumber  string
	AlbumCover   string
	AudioRef     string
}

func (Row) TableName() string { return "dataset_rows" }

func NewDBClient() (*DBClient, error) {
	dbPath := os.Getenv("ERASVIZ_DB_PATH")
	if dbPath == "" {
		dbPath = DefaultDBFile
	}
	return NewDBClientWithPath(dbPath)
}

func NewDBClientWithPath(dbPath string) (*DBClient, error) {
	dsn := dbPath
	if dbPath != MemoryPath {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating db dir: %w", err)
			}
		}
		dsn = dbPath + "?_pragma=foreign_keys(1)"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}

	if dbPath == MemoryPath {
		// each connection to :memory: is a separate database
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&Dataset{}, &Row{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &DBClient{DB: db, db: sqlDB, path: dbPath}, nil
}

func (c *DBClient) Path() string {
	if c == nil {
		return ""
	}
	return c.path
}

func (c *DBClient) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// ImportRecords replaces the dataset called name with records, keeping
// their order.
func (c *DBClient) ImportRecords(name, kind, source string, records []models.RawRecord) error {
	if c == nil || c.DB == nil {
		return errors.New(errDBClientNil)
	}
	if name == "" {
		return errors.New("dataset name is required")
	}

	rows := make([]Row, len(records))
	for i, r := range records {
		rows[i] = Row{
			Dataset:      name,
			Seq:          i,
			Title:        r.Title,
			Album:        r.Album,
			Danceability: r.Danceability,
			PeakRank:     r.PeakRank,
			AverageRank:  r.AverageRank,
			WeeksOnChart: r.WeeksOnChart,
			TrackNumber:  r.TrackNumber,
			AlbumCover:   r.AlbumCover,
			AudioRef:     r.AudioRef,
		}
	}

	return c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dataset = ?", name).Delete(&Row{}).Error; err != nil {
			return fmt.Errorf("clearing rows: %w", err)
		}
		if err := tx.Where("name = ?", name).Delete(&Dataset{}).Error; err != nil {
			return fmt.Errorf("clearing dataset: %w", err)
		}
		ds := Dataset{Name: name, Kind: kind, Source: source, RowCount: len(rows)}
		if err := tx.Create(&ds).Error; err != nil {
			return fmt.Errorf("creating dataset: %w", err)
		}
		if len(rows) > 0 {
			if err := tx.CreateInBatches(rows, 500).Error; err != nil {
				return fmt.Errorf("batch insert rows: %w", err)
			}
		}
		return nil
	})
}

// Records returns the stored rows of a dataset in source order.
func (c *DBClient) Records(name string) (models.DatasetInfo, []models.RawRecord, error) {
	if c == nil || c.DB == nil {
		return models.DatasetInfo{}, nil, errors.New(errDBClientNil)
	}

	var ds Dataset
	if err := c.DB.Where("name = ?", name).First(&ds).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DatasetInfo{}, nil, fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
		}
		return models.DatasetInfo{}, nil, fmt.Errorf("querying dataset: %w", err)
	}

	var rows []Row
	if err := c.DB.Where("dataset = ?", name).Order("seq ASC").Find(&rows).Error; err != nil {
		return models.DatasetInfo{}, nil, fmt.Errorf("querying rows: %w", err)
	}

	out := make([]models.RawRecord, len(rows))
	for i, r := range rows {
		out[i] = models.RawRecord{
			Title:        r.Title,
			Album:        r.Album,
			Danceability: r.Danceability,
			PeakRank:     r.PeakRank,
			AverageRank:  r.AverageRank,
			WeeksOnChart: r.WeeksOnChart,
			TrackNumber:  r.TrackNumber,
			AlbumCover:   r.AlbumCover,
			AudioRef:     r.AudioRef,
		}
	}
	return ds.info(), out, nil
}

func (c *DBClient) ListDatasets() ([]models.DatasetInfo, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}
	var sets []Dataset
	if err := c.DB.Order("name ASC").Find(&sets).Error; err != nil {
		return nil, fmt.Errorf("listing datasets: %w", err)
	}
	out := make([]models.DatasetInfo, len(sets))
	for i, ds := range sets {
		out[i] = ds.info()
	}
	return out, nil
}

func (c *DBClient) DeleteDataset(name string) error {
	if c == nil || c.DB == nil {
		return errors.New(errDBClientNil)
	}
	return c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("dataset = ?", name).Delete(&Row{}).Error; err != nil {
			return err
		}
		res := tx.Where("name = ?", name).Delete(&Dataset{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: %s", ErrDatasetNotFound, name)
		}
		return nil
	})
}

func (ds Dataset) info() models.DatasetInfo {
	return models.DatasetInfo{
		Name:    ds.Name,
		Kind:    ds.Kind,
		Source:  ds.Source,
		Rows:    ds.RowCount,
		Created: ds.CreatedAt.Unix(),
	}
}

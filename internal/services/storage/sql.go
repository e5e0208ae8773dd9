package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/riordanpawley/codeflow/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// MemoryDSN opens a private in-memory SQLite database
const MemoryDSN = ":memory:"

// Entry is one stored key
type Entry struct {
	Name      string `gorm:"primaryKey;size:255"`
	Value     []byte
	UpdatedAt time.Time
}

// TableName pins the table name
func (Entry) TableName() string {
	return "kv_entries"
}

// SQLStore keeps values in a SQLite table through GORM
type SQLStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// OpenSQLStore opens (creating if needed) the SQLite database at path and
// migrates the entries table. Pass MemoryDSN for a throwaway database.
func OpenSQLStore(path string, log *slog.Logger) (*SQLStore, error) {
	if log == nil {
		log = slog.Default()
	}

	if path != MemoryDSN {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("storage: create %s: %w", filepath.Dir(path), err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite %s: %w", path, err)
	}

	// Every pooled connection to :memory: would get its own database
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("storage: sqlite handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Entry{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("storage: migrate: %w", err)
	}

	log.Debug("opened sqlite store", "path", path)
	return &SQLStore{db: db, logger: log}, nil
}

func (s *SQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	var e Entry
	err := s.db.WithContext(ctx).Where("name = ?", key).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.StoreError{Op: "get", Key: key, Backend: "sqlite", Err: domain.ErrNotFound}
	}
	if err != nil {
		return nil, &domain.StoreError{Op: "get", Key: key, Backend: "sqlite", Err: err}
	}
	return e.Value, nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value []byte) error {
	e := Entry{Name: key, Value: value, UpdatedAt: time.Now()}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e)
	if result.Error != nil {
		return &domain.StoreError{Op: "set", Key: key, Backend: "sqlite", Err: result.Error}
	}
	return nil
}

func (s *SQLStore) Remove(ctx context.Context, key string) error {
	if err := s.db.WithContext(ctx).Where("name = ?", key).Delete(&Entry{}).Error; err != nil {
		return &domain.StoreError{Op: "remove", Key: key, Backend: "sqlite", Err: err}
	}
	return nil
}

// Keys lists stored keys, most recently written first
func (s *SQLStore) Keys(ctx context.Context) ([]string, error) {
	var names []string
	err := s.db.WithContext(ctx).Model(&Entry{}).Order("updated_at DESC").Pluck("name", &names).Error
	if err != nil {
		return nil, &domain.StoreError{Op: "keys", Backend: "sqlite", Err: err}
	}
	return names, nil
}

// Close closes the underlying database
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// sqlitePath returns the database file for a storage directory
func sqlitePath(dir string) string {
	if dir == "" || dir == MemoryDSN {
		return MemoryDSN
	}
	return filepath.Join(dir, "codeflow.db")
}

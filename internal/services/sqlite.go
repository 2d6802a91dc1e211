package services

import (
	"context"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/ytakahashi/todo-api/internal/models"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Item = models.Item

// MemoryDataSource opens a private in-memory database.
const MemoryDataSource = ":memory:"

// ItemStore hands out persistence sessions over the Items table.
type ItemStore interface {
	NewSession() ItemSession
	Ping(ctx context.Context) error
}

type SQLiteService struct {
	db *gorm.DB
}

// NewSQLiteService opens the database file at path and makes sure the Items
// table exists.
func NewSQLiteService(path string) (*SQLiteService, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: newGormLogger(gormlogger.Warn, 200*time.Millisecond),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	if path == MemoryDataSource {
		// every new connection to :memory: is a fresh, empty database
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&models.Item{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate items table: %w", err)
	}

	return &SQLiteService{
		db: db,
	}, nil
}

func (s *SQLiteService) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLiteService) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLiteService) NewSession() ItemSession {
	return &sqliteSession{db: s.db}
}

// SampleItems are inserted by SeedItems into an empty table.
func SampleItems() []Item {
	return []Item{
		{ID: 1, Title: "Go to the gym", IsCompleted: false},
		{ID: 2, Title: "Drink Water", IsCompleted: true},
		{ID: 3, Title: "Watch TV", IsCompleted: false},
	}
}

// SeedItems stores SampleItems when the table holds no rows and reports how
// many were written.
func (s *SQLiteService) SeedItems(ctx context.Context) (int, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Item{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	session := s.NewSession()
	samples := SampleItems()
	for i := range samples {
		session.Add(&samples[i])
	}
	if err := session.Save(ctx); err != nil {
		return 0, err
	}

	return len(samples), nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/okian/onbase/internal/domain/model"
)

const backendSQLite = "sqlite"

// streakRow holds one player's record document.
type streakRow struct {
	PlayerID  int            `gorm:"column:player_id;primaryKey;autoIncrement:false"`
	Document  datatypes.JSON `gorm:"column:document;not null"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

func (streakRow) TableName() string { return "streak_records" }

// SQLiteStore keeps the record as a JSON column in a sqlite database.
type SQLiteStore struct {
	db       *gorm.DB
	playerID int
}

// NewSQLiteStore opens (and migrates) the database at path.
func NewSQLiteStore(path string, playerID int) (*SQLiteStore, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.AutoMigrate(&streakRow{}); err != nil {
		if sqlDB, derr := db.DB(); derr == nil {
			_ = sqlDB.Close()
		}
		return nil, fmt.Errorf("migrate sqlite %s: %w", path, err)
	}
	return &SQLiteStore{db: db, playerID: playerID}, nil
}

// Load reads the player's row.
func (s *SQLiteStore) Load(ctx context.Context) (rec model.StreakRecord, err error) {
	defer func(start time.Time) { observe(backendSQLite, "load", start, err) }(time.Now())

	var row streakRow
	err = s.db.WithContext(ctx).First(&row, "player_id = ?", s.playerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.StreakRecord{}, ErrNotFound
		}
		return model.StreakRecord{}, fmt.Errorf("query streak record: %w", err)
	}
	return decode(row.Document)
}

// Save upserts the player's row.
func (s *SQLiteStore) Save(ctx context.Context, record model.StreakRecord) (err error) {
	defer func(start time.Time) { observe(backendSQLite, "save", start, err) }(time.Now())

	b, err := encode(record)
	if err != nil {
		return err
	}
	row := streakRow{PlayerID: s.playerID, Document: datatypes.JSON(b), UpdatedAt: time.Now().UTC()}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (s *SQLiteStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

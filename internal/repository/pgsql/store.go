// Package pgsql stores posts and comments in PostgreSQL through gorm and searches them with
// full-text search expressions backed by GIN indexes.
package pgsql

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kailas-cloud/postfeed/internal/domain"
)

var languageRe = regexp.MustCompile(`^[a-z_]+$`)

// Config holds PostgreSQL connection settings.
type Config struct {
	DSN      string
	Language string // text search configuration, e.g. "english"
	MaxHits  int
}

// Store owns the gorm handle.
type Store struct {
	db       *gorm.DB
	language string
	maxHits  int
}

// Open creates the connection pool without contacting the server; use Ping to wait for it.
func Open(cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, errors.New("postgres dsn is required")
	}
	if !languageRe.MatchString(cfg.Language) {
		return nil, fmt.Errorf("invalid text search configuration %q", cfg.Language)
	}

	gdb, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
		DisableAutomaticPing: true,
		NowFunc:              func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return &Store{db: gdb, language: cfg.Language, maxHits: cfg.MaxHits}, nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("postgres handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}

// Close releases the pool.
func (s *Store) Close() {
	if sqlDB, err := s.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// Posts returns the post repository.
func (s *Store) Posts() *Posts {
	return &Posts{db: s.db, language: s.language, maxHits: s.maxHits, now: time.Now}
}

// Comments returns the comment repository.
func (s *Store) Comments() *Comments {
	return &Comments{db: s.db, language: s.language, maxHits: s.maxHits, now: time.Now}
}

// EnsureIndexes migrates the tables and creates the GIN text indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	tx := s.db.WithContext(ctx)
	if err := tx.AutoMigrate(&postModel{}, &commentModel{}); err != nil {
		return unavailable("migrate", err)
	}
	for _, stmt := range textIndexStatements(s.language) {
		if err := tx.Exec(stmt).Error; err != nil {
			return unavailable("create text index", err)
		}
	}
	return nil
}

// IndexesReady reports whether both GIN text indexes exist.
func (s *Store) IndexesReady(ctx context.Context) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Raw("SELECT count(*) FROM pg_indexes WHERE indexname IN ?", []string{postTextIndex, commentTextIndex}).
		Scan(&n).Error
	if err != nil {
		return false, unavailable("list indexes", err)
	}
	return n == 2, nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStoreUnavailable, err)
}

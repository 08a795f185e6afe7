package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"

	"chatsafety-server/pkg/lexicon"
)

// MySQLConfig holds MySQL connection configuration
type MySQLConfig struct {
	Host            string
	Port            int
	Database        string
	Username        string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
}

// DefaultMySQLConfig returns sensible connection pool defaults
func DefaultMySQLConfig() MySQLConfig {
	return MySQLConfig{
		Host:            "localhost",
		Port:            3306,
		Database:        "chatsafety",
		Username:        "chatsafety",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		QueryTimeout:    5 * time.Second,
	}
}

// DSN builds the MySQL connection string
func (c MySQLConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		c.Username, c.Password, c.Host, c.Port, c.Database)
}

// LexiconRepository loads lexicon entries from MySQL. Implements lexicon.Fetcher.
type LexiconRepository struct {
	logger       *logrus.Logger
	db           *sql.DB
	queryTimeout time.Duration
}

// NewLexiconRepository opens the database connection and verifies it
func NewLexiconRepository(logger *logrus.Logger, config MySQLConfig) (*LexiconRepository, error) {
	db, err := sql.Open("mysql", config.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)

	queryTimeout := config.QueryTimeout
	if queryTimeout <= 0 {
		queryTimeout = 5 * time.Second
	}

	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"host":     config.Host,
		"database": config.Database,
	}).Info("Connected to lexicon database")

	return &LexiconRepository{
		logger:       logger,
		db:           db,
		queryTimeout: queryTimeout,
	}, nil
}

// FetchEntries implements lexicon.Fetcher, keyed by exact language code
func (r *LexiconRepository) FetchEntries(ctx context.Context, language string) ([]lexicon.Entry, error) {
	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	query := `
		SELECT category, language, variant, pattern, fuzzy_key, severity
		FROM lexicon_entries
		WHERE language = ?
		ORDER BY severity DESC, variant
	`

	rows, err := r.db.QueryContext(ctx, query, language)
	if err != nil {
		return nil, fmt.Errorf("failed to query lexicon entries: %w", err)
	}
	defer rows.Close()

	var entries []lexicon.Entry
	for rows.Next() {
		var e lexicon.Entry
		var fuzzyKey sql.NullString

		if err := rows.Scan(&e.Category, &e.Language, &e.Variant, &e.Pattern, &fuzzyKey, &e.Severity); err != nil {
			return nil, fmt.Errorf("failed to scan lexicon entry: %w", err)
		}

		if fuzzyKey.Valid {
			e.FuzzyKey = fuzzyKey.String
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lexicon entries: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"language": language,
		"entries":  len(entries),
	}).Debug("Fetched lexicon entries")

	return entries, nil
}

// Close releases the database connection pool
func (r *LexiconRepository) Close() error {
	return r.db.Close()
}

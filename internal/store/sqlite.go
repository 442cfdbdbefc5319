package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"options-lab/internal/errors"
	"options-lab/internal/marketdata"
	"options-lab/internal/models"
)

// SQLiteStore implements DataStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based data store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Analysis journal: one row per calculation run
	CREATE TABLE IF NOT EXISTS analyses (
		id TEXT PRIMARY KEY,
		symbol TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		spot_price REAL NOT NULL,
		strategy TEXT NOT NULL,
		confidence REAL NOT NULL,
		initial_cost REAL NOT NULL,
		inputs TEXT NOT NULL,
		results TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_analyses_symbol ON analyses(symbol, created_at);
	CREATE INDEX IF NOT EXISTS idx_analyses_strategy ON analyses(strategy);

	-- Latest quotes per symbol
	CREATE TABLE IF NOT EXISTS quotes (
		symbol TEXT PRIMARY KEY,
		price REAL NOT NULL,
		change REAL NOT NULL,
		change_percent REAL NOT NULL,
		previous_close REAL NOT NULL,
		volume INTEGER NOT NULL,
		timestamp DATETIME NOT NULL
	);

	-- Daily close history
	CREATE TABLE IF NOT EXISTS closes (
		symbol TEXT NOT NULL,
		date DATETIME NOT NULL,
		close REAL NOT NULL,
		PRIMARY KEY(symbol, date)
	);

	-- Available option expiries per symbol
	CREATE TABLE IF NOT EXISTS expiries (
		symbol TEXT NOT NULL,
		date DATETIME NOT NULL,
		PRIMARY KEY(symbol, date)
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveAnalysis persists one calculation run.
func (s *SQLiteStore) SaveAnalysis(ctx context.Context, record *AnalysisRecord) error {
	inputs, err := json.Marshal(record.Inputs)
	if err != nil {
		return errors.Wrap(err, "marshal inputs")
	}
	results, err := json.Marshal(record.Results)
	if err != nil {
		return errors.Wrap(err, "marshal results")
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO analyses
		(id, symbol, created_at, spot_price, strategy, confidence, initial_cost, inputs, results)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Symbol, record.CreatedAt, record.SpotPrice,
		string(record.Strategy), record.Confidence, record.InitialCost,
		string(inputs), string(results))
	if err != nil {
		return errors.Wrap(errors.ErrDatabaseError, err.Error())
	}
	return nil
}

// GetAnalyses returns journal entries matching the filter, newest first.
func (s *SQLiteStore) GetAnalyses(ctx context.Context, filter AnalysisFilter) ([]AnalysisRecord, error) {
	query := `SELECT id, symbol, created_at, spot_price, strategy, confidence, initial_cost, inputs, results
		FROM analyses WHERE 1=1`
	var args []interface{}

	if filter.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, filter.Symbol)
	}
	if filter.Strategy != "" {
		query += " AND strategy = ?"
		args = append(args, string(filter.Strategy))
	}
	if !filter.From.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, filter.From)
	}
	if !filter.To.IsZero() {
		query += " AND created_at <= ?"
		args = append(args, filter.To)
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseError, err.Error())
	}
	defer rows.Close()

	var records []AnalysisRecord
	for rows.Next() {
		record, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// GetAnalysisByID returns one journal entry.
func (s *SQLiteStore) GetAnalysisByID(ctx context.Context, id string) (*AnalysisRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, symbol, created_at, spot_price, strategy, confidence, initial_cost, inputs, results
		FROM analyses WHERE id = ?`, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseError, err.Error())
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, errors.Wrapf(errors.ErrNotFound, "analysis %s", id)
	}
	return scanAnalysis(rows)
}

// DeleteAnalysis removes one journal entry.
func (s *SQLiteStore) DeleteAnalysis(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM analyses WHERE id = ?", id)
	if err != nil {
		return errors.Wrap(errors.ErrDatabaseError, err.Error())
	}
	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.Wrapf(errors.ErrNotFound, "analysis %s", id)
	}
	return nil
}

func scanAnalysis(rows *sql.Rows) (*AnalysisRecord, error) {
	var record AnalysisRecord
	var strategy, inputs, results string
	if err := rows.Scan(&record.ID, &record.Symbol, &record.CreatedAt, &record.SpotPrice,
		&strategy, &record.Confidence, &record.InitialCost, &inputs, &results); err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseError, err.Error())
	}
	record.Strategy = models.StrategyType(strategy)
	if err := json.Unmarshal([]byte(inputs), &record.Inputs); err != nil {
		return nil, errors.Wrap(err, "unmarshal inputs")
	}
	if err := json.Unmarshal([]byte(results), &record.Results); err != nil {
		return nil, errors.Wrap(err, "unmarshal results")
	}
	return &record, nil
}

// SaveQuote upserts the latest quote for a symbol.
func (s *SQLiteStore) SaveQuote(ctx context.Context, quote *marketdata.Quote) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO quotes
		(symbol, price, change, change_percent, previous_close, volume, timestamp)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		strings.ToUpper(quote.Symbol), quote.Price, quote.Change, quote.ChangePercent,
		quote.PreviousClose, quote.Volume, quote.Timestamp)
	if err != nil {
		return errors.Wrap(errors.ErrDatabaseError, err.Error())
	}
	return nil
}

// SaveCloses upserts daily close prices for a symbol.
func (s *SQLiteStore) SaveCloses(ctx context.Context, symbol string, closes map[time.Time]float64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrDatabaseError, err.Error())
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT OR REPLACE INTO closes (symbol, date, close) VALUES (?, ?, ?)")
	if err != nil {
		return errors.Wrap(errors.ErrDatabaseError, err.Error())
	}
	defer stmt.Close()

	for date, close := range closes {
		if _, err := stmt.ExecContext(ctx, strings.ToUpper(symbol), date, close); err != nil {
			return errors.Wrap(errors.ErrDatabaseError, err.Error())
		}
	}
	return tx.Commit()
}

// SaveExpiries upserts available option expiries for a symbol.
func (s *SQLiteStore) SaveExpiries(ctx context.Context, symbol string, dates []time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(errors.ErrDatabaseError, err.Error())
	}
	defer tx.Rollback()

	for _, date := range dates {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO expiries (symbol, date) VALUES (?, ?)",
			strings.ToUpper(symbol), date); err != nil {
			return errors.Wrap(errors.ErrDatabaseError, err.Error())
		}
	}
	return tx.Commit()
}

// Quote implements marketdata.Source from the quotes table.
func (s *SQLiteStore) Quote(ctx context.Context, symbol string) (*marketdata.Quote, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT symbol, price, change, change_percent, previous_close, volume, timestamp
		FROM quotes WHERE symbol = ?`, strings.ToUpper(symbol))

	var quote marketdata.Quote
	err := row.Scan(&quote.Symbol, &quote.Price, &quote.Change, &quote.ChangePercent,
		&quote.PreviousClose, &quote.Volume, &quote.Timestamp)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(errors.ErrNotFound, "quote %s", symbol)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseError, err.Error())
	}
	return &quote, nil
}

// ExpiryDates implements marketdata.Source from the expiries table.
func (s *SQLiteStore) ExpiryDates(ctx context.Context, symbol string) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT date FROM expiries WHERE symbol = ? ORDER BY date", strings.ToUpper(symbol))
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseError, err.Error())
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var date time.Time
		if err := rows.Scan(&date); err != nil {
			return nil, errors.Wrap(errors.ErrDatabaseError, err.Error())
		}
		dates = append(dates, date)
	}
	return dates, rows.Err()
}

// DailyCloses implements marketdata.Source from the closes table,
// returning the most recent closes in chronological order.
func (s *SQLiteStore) DailyCloses(ctx context.Context, symbol string, days int) ([]float64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT close FROM (
			SELECT date, close FROM closes WHERE symbol = ? ORDER BY date DESC LIMIT ?
		) ORDER BY date ASC`, strings.ToUpper(symbol), days)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabaseError, err.Error())
	}
	defer rows.Close()

	var closes []float64
	for rows.Next() {
		var close float64
		if err := rows.Scan(&close); err != nil {
			return nil, errors.Wrap(errors.ErrDatabaseError, err.Error())
		}
		closes = append(closes, close)
	}
	return closes, rows.Err()
}

package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Matincrypto/coinex-trade/internal/domain"

	_ "github.com/glebarez/go-sqlite"
)

// PositionStore persists the single active position row per symbol in SQLite.
type PositionStore struct {
	db *sql.DB
}

// NewPositionStore opens (or creates) the SQLite database with WAL mode
// enabled. The schema is not created here; call InitSchema during bootstrap
// so a broken database fails the process before the polling loop starts.
func NewPositionStore(dbPath string) (*PositionStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("failed to set pragma %s: %w", pragma, err)
		}
	}

	return &PositionStore{db: db}, nil
}

// InitSchema creates the active_positions table if it does not exist.
// symbol carries the uniqueness constraint the upsert relies on; amount is
// TEXT to preserve the exact 8-decimal quantity string.
func (s *PositionStore) InitSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS active_positions (
			symbol TEXT PRIMARY KEY,
			side TEXT NOT NULL,
			entry_price TEXT NOT NULL,
			amount TEXT NOT NULL,
			last_signal_id TEXT
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create active_positions table: %w", err)
	}
	return nil
}

// Get returns the stored position for symbol, or (nil, nil) when no row
// exists, meaning the bot is flat for that symbol.
func (s *PositionStore) Get(ctx context.Context, symbol string) (*domain.Position, error) {
	var pos domain.Position
	var side, entryPrice string
	err := s.db.QueryRowContext(ctx,
		"SELECT symbol, side, entry_price, amount, last_signal_id FROM active_positions WHERE symbol = ?",
		symbol,
	).Scan(&pos.Symbol, &side, &entryPrice, &pos.Amount, &pos.LastSignalID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read position: %w", err)
	}

	pos.Side = domain.PositionSide(side)
	if !pos.Side.Valid() {
		return nil, fmt.Errorf("stored position for %s has unknown side %q", symbol, side)
	}
	pos.EntryPrice, err = decimal.NewFromString(entryPrice)
	if err != nil {
		return nil, fmt.Errorf("stored position for %s has bad entry price %q: %w", symbol, entryPrice, err)
	}
	return &pos, nil
}

// Upsert inserts the position row for symbol, or overwrites every field of
// the existing row keyed by the symbol uniqueness constraint. There is no
// delete; a position row only ever changes by being replaced.
func (s *PositionStore) Upsert(ctx context.Context, pos domain.Position) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO active_positions (symbol, side, entry_price, amount, last_signal_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			side = excluded.side,
			entry_price = excluded.entry_price,
			amount = excluded.amount,
			last_signal_id = excluded.last_signal_id`,
		pos.Symbol, string(pos.Side), pos.EntryPrice.String(), pos.Amount, pos.LastSignalID,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert position: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *PositionStore) Close() error {
	return s.db.Close()
}

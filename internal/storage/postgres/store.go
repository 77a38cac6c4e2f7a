package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"curvescope/internal/model"
)

// Store provides Postgres persistence for classified pool activity.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertTransactions inserts or updates classified transactions. Token legs
// are stored as JSONB.
func (s *Store) UpsertTransactions(ctx context.Context, txs []model.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, tx := range txs {
		legs, err := json.Marshal(tx.Tokens)
		if err != nil {
			return fmt.Errorf("marshal legs for %s: %w", tx.Hash, err)
		}
		batch.Queue(`
			INSERT INTO pool_transactions (
				tx_hash, pool_address, ts, op_type, total_usd, tokens, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, now(), now())
			ON CONFLICT (tx_hash, pool_address)
			DO UPDATE SET
				ts = EXCLUDED.ts,
				op_type = EXCLUDED.op_type,
				total_usd = EXCLUDED.total_usd,
				tokens = EXCLUDED.tokens,
				updated_at = now()
		`,
			tx.Hash,
			tx.Pool,
			int64(tx.Timestamp),
			string(tx.Type),
			tx.TotalUsdAmount,
			legs,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range txs {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// UpsertRatePoints inserts or updates exchange-rate samples for a pool pair.
func (s *Store) UpsertRatePoints(ctx context.Context, poolAddress, pair string, points []model.RatePoint) error {
	if len(points) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, point := range points {
		batch.Queue(`
			INSERT INTO pool_exchange_rates (
				pool_address, pair, ts, rate, created_at, updated_at
			) VALUES ($1, $2, $3, $4, now(), now())
			ON CONFLICT (pool_address, pair, ts)
			DO UPDATE SET
				rate = EXCLUDED.rate,
				updated_at = now()
		`,
			poolAddress,
			pair,
			int64(point.Timestamp),
			point.Rate,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range points {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}

// LoadState returns last_processed_ts for a name.
func (s *Store) LoadState(ctx context.Context, name string) (uint64, bool, error) {
	if name == "" {
		return 0, false, fmt.Errorf("state name required")
	}
	var ts uint64
	row := s.pool.QueryRow(ctx, `SELECT last_processed_ts FROM processor_state WHERE name=$1`, name)
	if err := row.Scan(&ts); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return ts, true, nil
}

// SaveState upserts last_processed_ts for a name.
func (s *Store) SaveState(ctx context.Context, name string, ts uint64) error {
	if name == "" {
		return fmt.Errorf("state name required")
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO processor_state (name, last_processed_ts, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE
		SET last_processed_ts = EXCLUDED.last_processed_ts, updated_at = now()
	`, name, ts)
	return err
}

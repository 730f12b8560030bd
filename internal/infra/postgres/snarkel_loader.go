package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"snarkel-service/internal/domain"
)

// SnarkelLoader loads published snarkel JSONB from Postgres.
type SnarkelLoader struct {
	pool *pgxpool.Pool
}

func NewSnarkelLoader(pool *pgxpool.Pool) *SnarkelLoader {
	return &SnarkelLoader{pool: pool}
}

func (l *SnarkelLoader) LoadSnarkel(ctx context.Context, snarkelID string) (domain.Snarkel, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT data FROM snarkels WHERE id=$1`, snarkelID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Snarkel{}, domain.ErrSnarkelNotFound
	}
	if err != nil {
		return domain.Snarkel{}, fmt.Errorf("load snarkel: %w", err)
	}
	var snarkel domain.Snarkel
	if err := json.Unmarshal(raw, &snarkel); err != nil {
		return domain.Snarkel{}, fmt.Errorf("unmarshal snarkel: %w", err)
	}
	return snarkel, nil
}

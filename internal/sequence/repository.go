package sequence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrEmptyPartitionKey is returned when an event has no order id to sequence on.
var ErrEmptyPartitionKey = errors.New("sequence: partition key is required")

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository hands out OrderPlaced sequences. Each order id is its own
// partition, so consumers see 1, 2, ... per order.
type Repository interface {
	NextSequence(ctx context.Context, partitionKey string) (int64, error)
}

type repo struct {
	db Querier
}

func NewRepository(db Querier) Repository {
	return &repo{db: db}
}

func (r *repo) NextSequence(ctx context.Context, partitionKey string) (int64, error) {
	if partitionKey == "" {
		return 0, ErrEmptyPartitionKey
	}

	var seq int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO event_sequence (partition_key, last_sequence, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (partition_key)
		DO UPDATE SET last_sequence = event_sequence.last_sequence + 1, updated_at = NOW()
		RETURNING last_sequence
	`, partitionKey).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence for order %s: %w", partitionKey, err)
	}
	return seq, nil
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// FindBuyer returns the buyer of the longest pattern contained in the remitter name.
func (s *Store) FindBuyer(ctx context.Context, remitterName string) (string, error) {
	query := `
		SELECT buyer_name
		FROM remitter_mappings
		WHERE $1 ILIKE '%' || raw_pattern || '%'
		ORDER BY LENGTH(raw_pattern) DESC, created_at DESC
		LIMIT 1
	`

	var buyer string

	err := s.db.QueryRowContext(ctx, query, remitterName).Scan(&buyer)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("finding buyer: %w", err)
	}

	return buyer, nil
}

// CreateMapping stores rawPattern as given; the service has already collapsed its whitespace.
// Patterns are unique regardless of case, so learning a known pattern again moves it to the
// new buyer.
func (s *Store) CreateMapping(ctx context.Context, rawPattern, buyerName string) error {
	query := `
		INSERT INTO remitter_mappings (raw_pattern, buyer_name, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT ((LOWER(raw_pattern)))
		DO UPDATE SET buyer_name = EXCLUDED.buyer_name, created_at = EXCLUDED.created_at
	`

	if _, err := s.db.ExecContext(ctx, query, rawPattern, buyerName); err != nil {
		return fmt.Errorf("saving mapping %q: %w", rawPattern, err)
	}

	return nil
}

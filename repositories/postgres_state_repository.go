package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/Dosada05/auction-system/models"
	"github.com/lib/pq"
)

type postgresStateRepository struct {
	db *sql.DB
}

// NewPostgresStateRepository возвращает StateRepository поверх таблицы
// auction_state (key text primary key, value text).
func NewPostgresStateRepository(db *sql.DB) StateRepository {
	return &postgresStateRepository{db: db}
}

func (r *postgresStateRepository) get(ctx context.Context, key string) (string, error) {
	query := `SELECT value FROM auction_state WHERE key = $1`

	var value string
	err := r.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrStateNotFound
		}
		return "", fmt.Errorf("failed to read state entry %q: %w", key, err)
	}
	return value, nil
}

func (r *postgresStateRepository) set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO auction_state (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`

	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to write state entry %q: %w", key, err)
	}
	return nil
}

func (r *postgresStateRepository) LoadTeams(ctx context.Context) ([]*models.Team, error) {
	raw, err := r.get(ctx, stateKeyTeams)
	if err != nil {
		return nil, err
	}
	var teams []*models.Team
	if err := json.Unmarshal([]byte(raw), &teams); err != nil {
		return nil, fmt.Errorf("failed to decode teams entry: %w", err)
	}
	return teams, nil
}

func (r *postgresStateRepository) SaveTeams(ctx context.Context, teams []*models.Team) error {
	raw, err := json.Marshal(teams)
	if err != nil {
		return fmt.Errorf("failed to encode teams entry: %w", err)
	}
	return r.set(ctx, stateKeyTeams, string(raw))
}

func (r *postgresStateRepository) LoadPlayers(ctx context.Context) ([]*models.Player, error) {
	raw, err := r.get(ctx, stateKeyPlayers)
	if err != nil {
		return nil, err
	}
	var players []*models.Player
	if err := json.Unmarshal([]byte(raw), &players); err != nil {
		return nil, fmt.Errorf("failed to decode players entry: %w", err)
	}
	return players, nil
}

func (r *postgresStateRepository) SavePlayers(ctx context.Context, players []*models.Player) error {
	raw, err := json.Marshal(players)
	if err != nil {
		return fmt.Errorf("failed to encode players entry: %w", err)
	}
	return r.set(ctx, stateKeyPlayers, string(raw))
}

func (r *postgresStateRepository) LoadCurrentIndex(ctx context.Context) (int, error) {
	raw, err := r.get(ctx, stateKeyCurrentIndex)
	if err != nil {
		return 0, err
	}
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to decode cursor entry %q: %w", raw, err)
	}
	return index, nil
}

func (r *postgresStateRepository) SaveCurrentIndex(ctx context.Context, index int) error {
	// Курсор хранится как десятичная строка.
	return r.set(ctx, stateKeyCurrentIndex, strconv.Itoa(index))
}

func (r *postgresStateRepository) Clear(ctx context.Context) error {
	query := `DELETE FROM auction_state WHERE key = ANY($1)`

	keys := []string{stateKeyTeams, stateKeyPlayers, stateKeyCurrentIndex}
	if _, err := r.db.ExecContext(ctx, query, pq.Array(keys)); err != nil {
		return fmt.Errorf("failed to clear auction state: %w", err)
	}
	return nil
}

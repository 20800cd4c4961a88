package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/Dosada05/auction-system/models"
)

// memoryStateRepository хранит те же три записи в памяти процесса.
// Используется в тестах и в demo-режиме без базы данных.
type memoryStateRepository struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMemoryStateRepository() StateRepository {
	return &memoryStateRepository{entries: make(map[string]string)}
}

func (r *memoryStateRepository) get(key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.entries[key]
	if !ok {
		return "", ErrStateNotFound
	}
	return value, nil
}

func (r *memoryStateRepository) set(key, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = value
}

func (r *memoryStateRepository) LoadTeams(ctx context.Context) ([]*models.Team, error) {
	raw, err := r.get(stateKeyTeams)
	if err != nil {
		return nil, err
	}
	var teams []*models.Team
	if err := json.Unmarshal([]byte(raw), &teams); err != nil {
		return nil, fmt.Errorf("failed to decode teams entry: %w", err)
	}
	return teams, nil
}

func (r *memoryStateRepository) SaveTeams(ctx context.Context, teams []*models.Team) error {
	raw, err := json.Marshal(teams)
	if err != nil {
		return fmt.Errorf("failed to encode teams entry: %w", err)
	}
	r.set(stateKeyTeams, string(raw))
	return nil
}

func (r *memoryStateRepository) LoadPlayers(ctx context.Context) ([]*models.Player, error) {
	raw, err := r.get(stateKeyPlayers)
	if err != nil {
		return nil, err
	}
	var players []*models.Player
	if err := json.Unmarshal([]byte(raw), &players); err != nil {
		return nil, fmt.Errorf("failed to decode players entry: %w", err)
	}
	return players, nil
}

func (r *memoryStateRepository) SavePlayers(ctx context.Context, players []*models.Player) error {
	raw, err := json.Marshal(players)
	if err != nil {
		return fmt.Errorf("failed to encode players entry: %w", err)
	}
	r.set(stateKeyPlayers, string(raw))
	return nil
}

func (r *memoryStateRepository) LoadCurrentIndex(ctx context.Context) (int, error) {
	raw, err := r.get(stateKeyCurrentIndex)
	if err != nil {
		return 0, err
	}
	index, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("failed to decode cursor entry %q: %w", raw, err)
	}
	return index, nil
}

func (r *memoryStateRepository) SaveCurrentIndex(ctx context.Context, index int) error {
	r.set(stateKeyCurrentIndex, strconv.Itoa(index))
	return nil
}

func (r *memoryStateRepository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, stateKeyTeams)
	delete(r.entries, stateKeyPlayers)
	delete(r.entries, stateKeyCurrentIndex)
	return nil
}

package repositories

import (
	"context"
	"errors"

	"github.com/Dosada05/auction-system/models"
)

// Ключи хранилища состояния. Состояние аукциона — три независимые записи,
// читаемые и записываемые как сериализованные значения.
const (
	stateKeyTeams        = "teams"
	stateKeyPlayers      = "players"
	stateKeyCurrentIndex = "currentPlayerIndex"
)

var (
	// ErrStateNotFound is returned when a state entry has never been written.
	ErrStateNotFound = errors.New("auction state entry not found")
)

// StateRepository persists the auction state as three opaque entries: the
// team list, the player list and the cursor (stored as base-10 text). The
// substrate is a plain get/set/remove key-value store.
type StateRepository interface {
	LoadTeams(ctx context.Context) ([]*models.Team, error)
	SaveTeams(ctx context.Context, teams []*models.Team) error

	LoadPlayers(ctx context.Context) ([]*models.Player, error)
	SavePlayers(ctx context.Context, players []*models.Player) error

	LoadCurrentIndex(ctx context.Context) (int, error)
	SaveCurrentIndex(ctx context.Context, index int) error

	// Clear removes all three entries.
	Clear(ctx context.Context) error
}

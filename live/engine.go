package live

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Dosada05/auction-system/models"
	"github.com/Dosada05/auction-system/money"
	"github.com/Dosada05/auction-system/repositories"
)

const (
	// BidWindowSeconds — окно торгов: каждый принятый бид перезапускает
	// отсчёт с этого значения.
	BidWindowSeconds = 15

	// DefaultTickInterval is the wall-clock length of one countdown tick.
	DefaultTickInterval = time.Second
)

var (
	ErrTeamNotFound     = errors.New("bidding team not found")
	ErrAuctionExhausted = errors.New("no player remaining on the block")
	ErrStateNotLoaded   = errors.New("auction state has not been loaded")
)

// Broadcaster delivers engine events to the rendering layer. The engine never
// touches presentation itself.
type Broadcaster interface {
	BroadcastEvent(msg Message)
}

type EngineConfig struct {
	Store  repositories.StateRepository
	Hub    Broadcaster
	Logger *slog.Logger

	// TickInterval of the countdown. Zero or negative disables the
	// background timer entirely; ticks are then driven manually (tests).
	TickInterval time.Duration
}

// Engine владеет всем изменяемым состоянием аукциона и является единственным
// писателем в хранилище. Все операции сериализуются мьютексом; таймер —
// единственный асинхронный источник входа в машину состояний.
type Engine struct {
	store        repositories.StateRepository
	hub          Broadcaster
	logger       *slog.Logger
	tickInterval time.Duration

	mu     sync.Mutex
	loaded bool

	teams        []*models.Team
	players      []*models.Player
	currentIndex int

	// Transient bidding state, recreated whenever the cursor moves.
	phase         models.AuctionPhase
	currentBid    int64
	leadingTeamID string
	timeLeft      int

	countdown *countdown
}

func NewEngine(cfg EngineConfig) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:        cfg.Store,
		hub:          cfg.Hub,
		logger:       logger,
		tickInterval: cfg.TickInterval,
		phase:        models.PhaseIdle,
	}
}

// Reload reads the persisted state and puts the player at the cursor on the
// block. Called at boot and after every setup commit.
func (e *Engine) Reload(ctx context.Context) error {
	teams, err := e.store.LoadTeams(ctx)
	if err != nil {
		return fmt.Errorf("failed to load teams: %w", err)
	}
	players, err := e.store.LoadPlayers(ctx)
	if err != nil {
		return fmt.Errorf("failed to load players: %w", err)
	}
	index, err := e.store.LoadCurrentIndex(ctx)
	if err != nil {
		return fmt.Errorf("failed to load cursor: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.teams = teams
	e.players = players
	e.currentIndex = index
	e.loaded = true

	e.logger.Info("auction state loaded",
		slog.Int("teams", len(teams)),
		slog.Int("players", len(players)),
		slog.Int("cursor", index),
	)

	e.enterBlockLocked()
	return nil
}

// Stop cancels any running countdown. Called on shutdown.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.countdown.cancel()
	e.countdown = nil
}

// PlaceBid registers a bid gesture for the given team. An off-phase gesture
// or a bid the team cannot afford is silently ignored: the caller gets the
// unchanged snapshot and cannot distinguish "rejected" from "ignored".
func (e *Engine) PlaceBid(teamID string) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return Snapshot{}, ErrStateNotLoaded
	}
	if e.phase != models.PhaseOnBlock {
		return e.snapshotLocked(), nil
	}

	team := e.findTeamLocked(teamID)
	if team == nil {
		return Snapshot{}, ErrTeamNotFound
	}

	player := e.players[e.currentIndex]
	proposed := e.currentBid + money.NextIncrement(e.currentBid)
	if e.currentBid == 0 {
		proposed = player.BasePrice
	}

	if proposed > team.Purse {
		// Недостаточно бюджета — молча игнорируем.
		return e.snapshotLocked(), nil
	}

	e.currentBid = proposed
	e.leadingTeamID = team.ID
	e.timeLeft = BidWindowSeconds
	e.restartCountdownLocked()

	e.hub.BroadcastEvent(Message{Type: MessageBidPlaced, Payload: BidView{
		TeamID:     team.ID,
		TeamName:   team.Name,
		Amount:     e.currentBid,
		AmountCr:   money.FormatCr(e.currentBid),
		TimeLeft:   e.timeLeft,
		PlayerID:   player.ID,
		PlayerName: player.Name,
	}})

	return e.snapshotLocked(), nil
}

// Skip forces the current player UNSOLD, discarding any leading bid, and
// advances. On an already resolved player it only advances.
func (e *Engine) Skip(ctx context.Context) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return Snapshot{}, ErrStateNotLoaded
	}

	switch e.phase {
	case models.PhaseIdle:
		return Snapshot{}, ErrAuctionExhausted
	case models.PhaseOnBlock:
		e.leadingTeamID = ""
		e.resolveLocked(ctx)
	}

	e.advanceLocked(ctx)
	return e.snapshotLocked(), nil
}

// Next advances to the following player. A player still on the block is
// resolved UNSOLD first: advancing never skips the resolution step.
func (e *Engine) Next(ctx context.Context) (Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.loaded {
		return Snapshot{}, ErrStateNotLoaded
	}

	switch e.phase {
	case models.PhaseIdle:
		return Snapshot{}, ErrAuctionExhausted
	case models.PhaseOnBlock:
		e.leadingTeamID = ""
		e.resolveLocked(ctx)
	}

	e.advanceLocked(ctx)
	return e.snapshotLocked(), nil
}

// Snapshot returns the current serializable auction state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// RemainingPlayers returns players at or after the cursor that have not been
// sold, optionally filtered by category ("" or "All" matches everything).
func (e *Engine) RemainingPlayers(category string) []PlayerView {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]PlayerView, 0)
	for i := e.currentIndex; i < len(e.players); i++ {
		p := e.players[i]
		if p.Status == models.StatusSold {
			continue
		}
		if category != "" && category != "All" && string(p.Category) != category {
			continue
		}
		out = append(out, newPlayerView(p))
	}
	return out
}

// tick is invoked by the countdown goroutine. The identity check drops stale
// ticks from a cancelled countdown (cancel-before-restart discipline).
func (e *Engine) tick(c *countdown) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if c != nil && c != e.countdown {
		return
	}
	if e.phase != models.PhaseOnBlock {
		return
	}

	e.timeLeft--
	if e.timeLeft < 0 {
		e.resolveLocked(context.Background())
		return
	}

	e.hub.BroadcastEvent(Message{Type: MessageTimerTick, Payload: TickView{
		TimeLeft: e.timeLeft,
	}})
}

// resolveLocked is the sole transition out of ON_BLOCK. The phase flips
// before any mutation, so a second expiry or a racing gesture can never
// double-deduct a purse or double-append a roster entry.
func (e *Engine) resolveLocked(ctx context.Context) {
	if e.phase != models.PhaseOnBlock {
		return
	}
	e.phase = models.PhaseResolved
	e.countdown.cancel()
	e.countdown = nil

	// Expiry drives timeLeft to -1; the displayed clock bottoms out at 0.
	if e.timeLeft < 0 {
		e.timeLeft = 0
	}

	player := e.players[e.currentIndex]

	if e.leadingTeamID == "" {
		player.Status = models.StatusUnsold
		e.persistPlayersLocked(ctx)

		e.logger.Info("player unsold", slog.String("player", player.Name))
		e.hub.BroadcastEvent(Message{Type: MessagePlayerUnsold, Payload: newPlayerView(player)})
		return
	}

	team := e.findTeamLocked(e.leadingTeamID)
	if team == nil {
		// Лидирующая команда исчезла из состояния — считаем игрока непроданным.
		e.logger.Error("leading team missing at resolution", slog.String("team_id", e.leadingTeamID))
		player.Status = models.StatusUnsold
		e.persistPlayersLocked(ctx)
		e.hub.BroadcastEvent(Message{Type: MessagePlayerUnsold, Payload: newPlayerView(player)})
		return
	}

	player.Status = models.StatusSold
	player.SoldPrice = e.currentBid
	player.TeamID = team.ID
	team.ApplySale(player, e.currentBid)

	e.persistTeamsLocked(ctx)
	e.persistPlayersLocked(ctx)

	e.logger.Info("player sold",
		slog.String("player", player.Name),
		slog.String("team", team.Name),
		slog.String("price", money.FormatCr(player.SoldPrice)),
	)
	e.hub.BroadcastEvent(Message{Type: MessagePlayerSold, Payload: SaleView{
		Player:   newPlayerView(player),
		TeamID:   team.ID,
		TeamName: team.Name,
		Price:    player.SoldPrice,
		PriceCr:  money.FormatCr(player.SoldPrice),
	}})
}

// advanceLocked moves the cursor forward by exactly one and enters the block
// for the next player, or goes idle when the list is exhausted.
func (e *Engine) advanceLocked(ctx context.Context) {
	e.currentIndex++
	if err := e.store.SaveCurrentIndex(ctx, e.currentIndex); err != nil {
		e.logger.Error("failed to persist cursor", slog.Any("error", err))
	}
	e.enterBlockLocked()
}

func (e *Engine) enterBlockLocked() {
	e.countdown.cancel()
	e.countdown = nil

	if e.currentIndex >= len(e.players) {
		e.phase = models.PhaseIdle
		e.currentBid = 0
		e.leadingTeamID = ""
		e.timeLeft = 0
		e.hub.BroadcastEvent(Message{Type: MessageAuctionEnded, Payload: e.snapshotLocked()})
		return
	}

	player := e.players[e.currentIndex]
	e.phase = models.PhaseOnBlock
	e.currentBid = player.BasePrice
	e.leadingTeamID = ""
	e.timeLeft = BidWindowSeconds
	e.restartCountdownLocked()

	e.hub.BroadcastEvent(Message{Type: MessagePlayerOnBlock, Payload: e.snapshotLocked()})
}

func (e *Engine) restartCountdownLocked() {
	e.countdown.cancel()
	e.countdown = nil
	if e.tickInterval <= 0 {
		return
	}
	e.countdown = startCountdown(e.tickInterval, e.tick)
}

func (e *Engine) findTeamLocked(teamID string) *models.Team {
	for _, t := range e.teams {
		if t.ID == teamID {
			return t
		}
	}
	return nil
}

func (e *Engine) persistTeamsLocked(ctx context.Context) {
	if err := e.store.SaveTeams(ctx, e.teams); err != nil {
		e.logger.Error("failed to persist teams", slog.Any("error", err))
	}
}

func (e *Engine) persistPlayersLocked(ctx context.Context) {
	if err := e.store.SavePlayers(ctx, e.players); err != nil {
		e.logger.Error("failed to persist players", slog.Any("error", err))
	}
}

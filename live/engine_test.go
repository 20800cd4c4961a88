package live

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Dosada05/auction-system/models"
	"github.com/Dosada05/auction-system/money"
	"github.com/Dosada05/auction-system/repositories"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

// recorder captures broadcast messages instead of fanning them out to
// websocket clients.
type recorder struct {
	mu   sync.Mutex
	msgs []Message
}

func (r *recorder) BroadcastEvent(msg Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) count(msgType string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, m := range r.msgs {
		if m.Type == msgType {
			n++
		}
	}
	return n
}

func testTeams() []*models.Team {
	return []*models.Team{
		{ID: "t1", Name: "Team 1", Purse: money.StartingPurse, Players: []models.AcquisitionRecord{}},
		{ID: "t2", Name: "Team 2", Purse: money.StartingPurse, Players: []models.AcquisitionRecord{}},
	}
}

func testPlayers() []*models.Player {
	return []*models.Player{
		{ID: "p1", Name: "Virat Kohli", Category: models.CategoryBatsman, BasePrice: 20_000_000, Rating: 10},
		{ID: "p2", Name: "Rashid Khan", Category: models.CategorySpinner, BasePrice: 12_000_000, Rating: 9},
	}
}

// newTestEngine seeds a memory store and loads the engine with the timer
// disabled; tests drive the countdown by calling tick directly.
func newTestEngine(t *testing.T, teams []*models.Team, players []*models.Player) (*Engine, *recorder, repositories.StateRepository) {
	t.Helper()
	ctx := context.Background()

	store := repositories.NewMemoryStateRepository()
	assert.NoError(t, store.SaveTeams(ctx, teams))
	assert.NoError(t, store.SavePlayers(ctx, players))
	assert.NoError(t, store.SaveCurrentIndex(ctx, 0))

	rec := &recorder{}
	engine := NewEngine(EngineConfig{Store: store, Hub: rec, TickInterval: 0})
	assert.NoError(t, engine.Reload(ctx))
	return engine, rec, store
}

// expire drives enough ticks to run the bid window down past zero.
func expire(e *Engine) {
	for i := 0; i <= BidWindowSeconds; i++ {
		e.tick(nil)
	}
}

func TestReload_PutsFirstPlayerOnBlock(t *testing.T) {
	engine, rec, _ := newTestEngine(t, testTeams(), testPlayers())

	snap := engine.Snapshot()
	check.Equal(t, models.PhaseOnBlock, snap.Phase)
	check.Equal(t, 0, snap.CurrentIndex)
	check.Equal(t, int64(20_000_000), snap.CurrentBid)
	check.Equal(t, BidWindowSeconds, snap.TimeLeft)
	check.Equal(t, "", snap.LeadingTeam)
	assert.NotNil(t, snap.Player)
	check.Equal(t, "Virat Kohli", snap.Player.Name)
	check.Equal(t, 1, rec.count(MessagePlayerOnBlock))
}

func TestPlaceBid_RaisesByIncrement(t *testing.T) {
	engine, rec, _ := newTestEngine(t, testTeams(), testPlayers())

	// Base 2 Cr sits in the 25 L increment tier.
	snap, err := engine.PlaceBid("t1")
	assert.NoError(t, err)
	check.Equal(t, int64(22_500_000), snap.CurrentBid)
	check.Equal(t, "t1", snap.LeadingTeam)
	check.Equal(t, BidWindowSeconds, snap.TimeLeft)

	snap, err = engine.PlaceBid("t2")
	assert.NoError(t, err)
	check.Equal(t, int64(25_000_000), snap.CurrentBid)
	check.Equal(t, "t2", snap.LeadingTeam)
	check.Equal(t, 2, rec.count(MessageBidPlaced))
}

func TestPlaceBid_ResetsClock(t *testing.T) {
	engine, _, _ := newTestEngine(t, testTeams(), testPlayers())

	engine.tick(nil)
	engine.tick(nil)
	engine.tick(nil)
	check.Equal(t, BidWindowSeconds-3, engine.Snapshot().TimeLeft)

	snap, err := engine.PlaceBid("t1")
	assert.NoError(t, err)
	check.Equal(t, BidWindowSeconds, snap.TimeLeft)
}

func TestPlaceBid_InsufficientPurseIgnored(t *testing.T) {
	teams := testTeams()
	teams[1].Purse = 1_000_000 // below the 2 Cr base price
	engine, rec, _ := newTestEngine(t, teams, testPlayers())

	before := engine.Snapshot()
	snap, err := engine.PlaceBid("t2")
	assert.NoError(t, err)

	// The gesture must leave no trace: same bid, same leader, same clock.
	check.Equal(t, before.CurrentBid, snap.CurrentBid)
	check.Equal(t, before.LeadingTeam, snap.LeadingTeam)
	check.Equal(t, before.TimeLeft, snap.TimeLeft)
	check.Equal(t, 0, rec.count(MessageBidPlaced))
}

func TestPlaceBid_UnknownTeam(t *testing.T) {
	engine, _, _ := newTestEngine(t, testTeams(), testPlayers())

	_, err := engine.PlaceBid("nope")
	check.True(t, errors.Is(err, ErrTeamNotFound))
}

func TestExpiry_NoBids_ResolvesUnsold(t *testing.T) {
	engine, rec, store := newTestEngine(t, testTeams(), testPlayers())

	expire(engine)

	snap := engine.Snapshot()
	check.Equal(t, models.PhaseResolved, snap.Phase)
	check.Equal(t, 0, snap.TimeLeft)
	check.Equal(t, 1, rec.count(MessagePlayerUnsold))

	players, err := store.LoadPlayers(context.Background())
	assert.NoError(t, err)
	check.Equal(t, models.StatusUnsold, players[0].Status)
	check.Equal(t, int64(0), players[0].SoldPrice)
}

func TestExpiry_WithLeader_ResolvesSold(t *testing.T) {
	engine, rec, store := newTestEngine(t, testTeams(), testPlayers())

	_, err := engine.PlaceBid("t1")
	assert.NoError(t, err)
	expire(engine)

	check.Equal(t, 1, rec.count(MessagePlayerSold))
	check.Equal(t, 0, engine.Snapshot().TimeLeft)

	ctx := context.Background()
	players, err := store.LoadPlayers(ctx)
	assert.NoError(t, err)
	check.Equal(t, models.StatusSold, players[0].Status)
	check.Equal(t, int64(22_500_000), players[0].SoldPrice)
	check.Equal(t, "t1", players[0].TeamID)

	teams, err := store.LoadTeams(ctx)
	assert.NoError(t, err)
	check.Equal(t, money.StartingPurse-22_500_000, teams[0].Purse)
	check.Equal(t, 1, len(teams[0].Players))
	check.Equal(t, int64(22_500_000), teams[0].Players[0].Price)
	check.Equal(t, money.StartingPurse, teams[1].Purse)
}

func TestResolution_HappensExactlyOnce(t *testing.T) {
	engine, rec, store := newTestEngine(t, testTeams(), testPlayers())

	_, err := engine.PlaceBid("t1")
	assert.NoError(t, err)
	expire(engine)

	// Stale ticks after resolution must not deduct or append again.
	expire(engine)
	engine.tick(nil)

	check.Equal(t, 1, rec.count(MessagePlayerSold))

	teams, err := store.LoadTeams(context.Background())
	assert.NoError(t, err)
	check.Equal(t, money.StartingPurse-22_500_000, teams[0].Purse)
	check.Equal(t, 1, len(teams[0].Players))
}

func TestSkip_DiscardsLeadingBid(t *testing.T) {
	engine, rec, store := newTestEngine(t, testTeams(), testPlayers())

	_, err := engine.PlaceBid("t1")
	assert.NoError(t, err)

	snap, err := engine.Skip(context.Background())
	assert.NoError(t, err)

	// The leading bid never lands: the player goes UNSOLD and the purse is
	// untouched.
	check.Equal(t, 1, rec.count(MessagePlayerUnsold))
	check.Equal(t, 0, rec.count(MessagePlayerSold))
	check.Equal(t, 1, snap.CurrentIndex)
	check.Equal(t, models.PhaseOnBlock, snap.Phase)

	ctx := context.Background()
	players, err := store.LoadPlayers(ctx)
	assert.NoError(t, err)
	check.Equal(t, models.StatusUnsold, players[0].Status)

	teams, err := store.LoadTeams(ctx)
	assert.NoError(t, err)
	check.Equal(t, money.StartingPurse, teams[0].Purse)
}

func TestNext_AfterResolution_OnlyAdvances(t *testing.T) {
	engine, rec, store := newTestEngine(t, testTeams(), testPlayers())

	_, err := engine.PlaceBid("t1")
	assert.NoError(t, err)
	expire(engine)

	snap, err := engine.Next(context.Background())
	assert.NoError(t, err)
	check.Equal(t, 1, snap.CurrentIndex)
	check.Equal(t, models.PhaseOnBlock, snap.Phase)
	check.Equal(t, int64(12_000_000), snap.CurrentBid)
	check.Equal(t, 1, rec.count(MessagePlayerSold))
	check.Equal(t, 0, rec.count(MessagePlayerUnsold))

	index, err := store.LoadCurrentIndex(context.Background())
	assert.NoError(t, err)
	check.Equal(t, 1, index)
}

func TestNext_OnBlock_ResolvesUnsoldFirst(t *testing.T) {
	engine, rec, _ := newTestEngine(t, testTeams(), testPlayers())

	snap, err := engine.Next(context.Background())
	assert.NoError(t, err)
	check.Equal(t, 1, snap.CurrentIndex)
	check.Equal(t, 1, rec.count(MessagePlayerUnsold))
}

func TestAuction_EndsAfterLastPlayer(t *testing.T) {
	engine, rec, _ := newTestEngine(t, testTeams(), testPlayers())
	ctx := context.Background()

	_, err := engine.Skip(ctx)
	assert.NoError(t, err)
	snap, err := engine.Skip(ctx)
	assert.NoError(t, err)

	check.Equal(t, models.PhaseIdle, snap.Phase)
	check.Equal(t, 2, snap.CurrentIndex)
	check.True(t, snap.Player == nil)
	check.Equal(t, 1, rec.count(MessageAuctionEnded))

	_, err = engine.Next(ctx)
	check.True(t, errors.Is(err, ErrAuctionExhausted))
	_, err = engine.Skip(ctx)
	check.True(t, errors.Is(err, ErrAuctionExhausted))
}

func TestRemainingPlayers_Filter(t *testing.T) {
	players := []*models.Player{
		{ID: "p1", Name: "A", Category: models.CategoryBatsman, BasePrice: 10_000_000},
		{ID: "p2", Name: "B", Category: models.CategorySpinner, BasePrice: 10_000_000},
		{ID: "p3", Name: "C", Category: models.CategoryBatsman, BasePrice: 10_000_000},
	}
	engine, _, _ := newTestEngine(t, testTeams(), players)

	check.Equal(t, 3, len(engine.RemainingPlayers("")))
	check.Equal(t, 3, len(engine.RemainingPlayers("All")))
	check.Equal(t, 2, len(engine.RemainingPlayers("Batsman")))
	check.Equal(t, 0, len(engine.RemainingPlayers("Fast Bowler")))

	// Sell the first player: sold players drop out, the cursor hides the rest
	// of the past.
	_, err := engine.PlaceBid("t1")
	assert.NoError(t, err)
	expire(engine)
	_, err = engine.Next(context.Background())
	assert.NoError(t, err)

	check.Equal(t, 2, len(engine.RemainingPlayers("")))
	check.Equal(t, 1, len(engine.RemainingPlayers("Batsman")))
}

func TestFullAuction_TwoTeams(t *testing.T) {
	engine, _, store := newTestEngine(t, testTeams(), testPlayers())
	ctx := context.Background()

	// Kohli: t1 opens, t2 raises, t2 wins at 2.5 Cr.
	_, err := engine.PlaceBid("t1")
	assert.NoError(t, err)
	_, err = engine.PlaceBid("t2")
	assert.NoError(t, err)
	expire(engine)
	snap, err := engine.Next(ctx)
	assert.NoError(t, err)
	check.Equal(t, models.PhaseOnBlock, snap.Phase)

	// Rashid Khan: single bid from t1, window expires at 1.45 Cr.
	_, err = engine.PlaceBid("t1")
	assert.NoError(t, err)
	expire(engine)
	snap, err = engine.Next(ctx)
	assert.NoError(t, err)
	check.Equal(t, models.PhaseIdle, snap.Phase)

	teams, err := store.LoadTeams(ctx)
	assert.NoError(t, err)
	check.Equal(t, money.StartingPurse-14_500_000, teams[0].Purse)
	check.Equal(t, int64(475_000_000), teams[1].Purse)
	check.Equal(t, 1, teams[0].PlayerCount())
	check.Equal(t, 1, teams[1].PlayerCount())

	players, err := store.LoadPlayers(ctx)
	assert.NoError(t, err)
	check.Equal(t, models.StatusSold, players[0].Status)
	check.Equal(t, "t2", players[0].TeamID)
	check.Equal(t, int64(25_000_000), players[0].SoldPrice)
	check.Equal(t, models.StatusSold, players[1].Status)
	check.Equal(t, "t1", players[1].TeamID)
	check.Equal(t, int64(14_500_000), players[1].SoldPrice)
}

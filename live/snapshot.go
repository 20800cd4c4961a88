package live

import (
	"github.com/Dosada05/auction-system/models"
	"github.com/Dosada05/auction-system/money"
)

// Snapshot — сериализуемый срез состояния аукциона для экранов.
// Рендеринг подписывается на снапшоты и никогда не трогает движок напрямую.
type Snapshot struct {
	Phase        models.AuctionPhase `json:"phase"`
	CurrentIndex int                 `json:"current_index"`
	TotalPlayers int                 `json:"total_players"`

	Player *PlayerView `json:"player,omitempty"`

	CurrentBid   int64  `json:"current_bid"`
	CurrentBidCr string `json:"current_bid_cr"`
	LeadingTeam  string `json:"leading_team_id,omitempty"`
	TimeLeft     int    `json:"time_left"`

	Teams []TeamView `json:"teams"`
}

type TeamView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Logo        string `json:"logo"`
	Purse       int64  `json:"purse"`
	PurseCr     string `json:"purse_cr"`
	PlayerCount int    `json:"player_count"`
}

type PlayerView struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Category    models.Category     `json:"category"`
	BasePrice   int64               `json:"base_price"`
	BasePriceCr string              `json:"base_price_cr"`
	Rating      int                 `json:"rating"`
	Photo       string              `json:"photo,omitempty"`
	Status      models.PlayerStatus `json:"status,omitempty"`
}

type BidView struct {
	TeamID     string `json:"team_id"`
	TeamName   string `json:"team_name"`
	Amount     int64  `json:"amount"`
	AmountCr   string `json:"amount_cr"`
	TimeLeft   int    `json:"time_left"`
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
}

type SaleView struct {
	Player   PlayerView `json:"player"`
	TeamID   string     `json:"team_id"`
	TeamName string     `json:"team_name"`
	Price    int64      `json:"price"`
	PriceCr  string     `json:"price_cr"`
}

type TickView struct {
	TimeLeft int `json:"time_left"`
}

func newPlayerView(p *models.Player) PlayerView {
	return PlayerView{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		BasePrice:   p.BasePrice,
		BasePriceCr: money.FormatCr(p.BasePrice),
		Rating:      p.ClampedRating(),
		Photo:       p.Photo,
		Status:      p.Status,
	}
}

func (e *Engine) snapshotLocked() Snapshot {
	snap := Snapshot{
		Phase:        e.phase,
		CurrentIndex: e.currentIndex,
		TotalPlayers: len(e.players),
		CurrentBid:   e.currentBid,
		CurrentBidCr: money.FormatCr(e.currentBid),
		LeadingTeam:  e.leadingTeamID,
		TimeLeft:     e.timeLeft,
		Teams:        make([]TeamView, 0, len(e.teams)),
	}

	if e.currentIndex < len(e.players) {
		view := newPlayerView(e.players[e.currentIndex])
		snap.Player = &view
	}

	for _, t := range e.teams {
		snap.Teams = append(snap.Teams, TeamView{
			ID:          t.ID,
			Name:        t.Name,
			Logo:        t.Logo,
			Purse:       t.Purse,
			PurseCr:     money.FormatCr(t.Purse),
			PlayerCount: t.PlayerCount(),
		})
	}

	return snap
}

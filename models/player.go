package models

// Category представляет роль игрока, соответствующую фильтрам на живом экране.
type Category string

const (
	CategoryBatsman      Category = "Batsman"
	CategoryAllRounder   Category = "All Rounder"
	CategoryWicketKeeper Category = "Wicket Keeper"
	CategoryFastBowler   Category = "Fast Bowler"
	CategorySpinner      Category = "Spinner"
)

// Categories lists every role tag in the order the filter row shows them.
func Categories() []Category {
	return []Category{
		CategoryBatsman,
		CategoryAllRounder,
		CategoryWicketKeeper,
		CategoryFastBowler,
		CategorySpinner,
	}
}

// PlayerStatus is the terminal auction outcome of a player. The zero value
// means the player has not been on the block yet.
type PlayerStatus string

const (
	StatusSold   PlayerStatus = "SOLD"
	StatusUnsold PlayerStatus = "UNSOLD"
)

// Player представляет игрока в аукционном списке. JSON-теги совпадают с
// форматом сериализованных записей в хранилище состояния.
type Player struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Category  Category `json:"category"`
	BasePrice int64    `json:"basePrice"`
	Rating    int      `json:"rating"`
	Photo     string   `json:"photo,omitempty"`

	// Outcome fields, set exactly once when the player is resolved.
	Status    PlayerStatus `json:"status,omitempty"`
	SoldPrice int64        `json:"soldPrice,omitempty"`
	TeamID    string       `json:"teamId,omitempty"`
}

// ClampedRating returns the rating bounded to the 0..10 star scale.
func (p *Player) ClampedRating() int {
	if p.Rating < 0 {
		return 0
	}
	if p.Rating > 10 {
		return 10
	}
	return p.Rating
}

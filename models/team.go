package models

// AcquisitionRecord — запись о покупке игрока, добавляется в состав команды
// ровно один раз за продажу.
type AcquisitionRecord struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Price    int64    `json:"price"`
	Photo    string   `json:"photo,omitempty"`
}

// Team represents a franchise taking part in the auction. Purse is held in
// rupees and only ever decreases.
type Team struct {
	ID      string              `json:"id"`
	Name    string              `json:"name"`
	Logo    string              `json:"logo"`
	Purse   int64               `json:"purse"`
	Players []AcquisitionRecord `json:"players"`
}

// ApplySale deducts the sale price from the purse (floored at zero, the purse
// must never be observed negative) and appends the acquisition record.
func (t *Team) ApplySale(p *Player, price int64) {
	t.Purse -= price
	if t.Purse < 0 {
		t.Purse = 0
	}
	t.Players = append(t.Players, AcquisitionRecord{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Price:    price,
		Photo:    p.Photo,
	})
}

// PlayerCount возвращает количество купленных игроков.
func (t *Team) PlayerCount() int {
	return len(t.Players)
}

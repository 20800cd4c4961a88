package models

import (
	"testing"

	"github.com/peterldowns/testy/check"
)

func TestApplySale_DeductsAndAppends(t *testing.T) {
	team := &Team{ID: "t1", Name: "CSK", Purse: 500_000_000}
	player := &Player{ID: "p1", Name: "Virat Kohli", Category: CategoryBatsman, Photo: "x.png"}

	team.ApplySale(player, 22_500_000)

	check.Equal(t, int64(477_500_000), team.Purse)
	check.Equal(t, 1, team.PlayerCount())
	check.Equal(t, "p1", team.Players[0].ID)
	check.Equal(t, int64(22_500_000), team.Players[0].Price)
}

func TestApplySale_PurseNeverNegative(t *testing.T) {
	// Состояние могло быть отредактировано вручную; кошелёк всё равно не
	// должен опуститься ниже нуля.
	team := &Team{ID: "t1", Purse: 10_000_000}
	player := &Player{ID: "p1", Name: "X"}

	team.ApplySale(player, 25_000_000)

	check.Equal(t, int64(0), team.Purse)
	check.Equal(t, 1, team.PlayerCount())
}

func TestClampedRating(t *testing.T) {
	check.Equal(t, 0, (&Player{Rating: -3}).ClampedRating())
	check.Equal(t, 7, (&Player{Rating: 7}).ClampedRating())
	check.Equal(t, 10, (&Player{Rating: 14}).ClampedRating())
}

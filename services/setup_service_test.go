package services

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/auction-system/models"
	"github.com/Dosada05/auction-system/money"
	"github.com/Dosada05/auction-system/repositories"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

func TestBuildTeams_Defaults(t *testing.T) {
	teams, err := BuildTeams(4, []string{"CSK", "", "  MI  "})
	assert.NoError(t, err)
	assert.Equal(t, 4, len(teams))

	check.Equal(t, "t1", teams[0].ID)
	check.Equal(t, "CSK", teams[0].Name)
	check.Equal(t, "Team 2", teams[1].Name)
	check.Equal(t, "MI", teams[2].Name)
	check.Equal(t, "Team 4", teams[3].Name)

	for _, team := range teams {
		check.Equal(t, money.StartingPurse, team.Purse)
		check.Equal(t, 0, team.PlayerCount())
	}
}

func TestBuildTeams_TooFew(t *testing.T) {
	_, err := BuildTeams(1, nil)
	check.True(t, errors.Is(err, ErrTeamCountInvalid))

	_, err = BuildTeams(0, nil)
	check.True(t, errors.Is(err, ErrTeamCountInvalid))
}

func TestBuildTeams_LogoPaletteCycles(t *testing.T) {
	teams, err := BuildTeams(10, nil)
	assert.NoError(t, err)

	// Девятая команда получает тот же логотип, что и первая.
	check.Equal(t, teams[0].Logo, teams[8].Logo)
	check.Equal(t, teams[1].Logo, teams[9].Logo)
	check.NotEqual(t, teams[0].Logo, teams[7].Logo)
}

func TestParsePlayersCSV_HeaderOrderAndCase(t *testing.T) {
	csv := "Rating,PHOTO,name,BasePrice,category\n" +
		"9,http://example.com/a.png,Virat Kohli,20000000,Batsman\n"

	players := ParsePlayersCSV(csv)
	assert.Equal(t, 1, len(players))
	check.Equal(t, "Virat Kohli", players[0].Name)
	check.Equal(t, models.CategoryBatsman, players[0].Category)
	check.Equal(t, int64(20_000_000), players[0].BasePrice)
	check.Equal(t, 9, players[0].Rating)
	check.Equal(t, "http://example.com/a.png", players[0].Photo)
	check.True(t, players[0].ID != "")
}

func TestParsePlayersCSV_DropsAndCoerces(t *testing.T) {
	csv := "name,category,baseprice,rating,photo\r\n" +
		"  ,Batsman,10000000,9,\n" +
		"Solid Player,Spinner,not-a-number,also-bad,\n" +
		"\n" +
		"Decimal Player,Fast Bowler,12000000.0,8,\n"

	players := ParsePlayersCSV(csv)
	assert.Equal(t, 2, len(players))

	// Malformed numbers coerce to zero instead of dropping the row.
	check.Equal(t, "Solid Player", players[0].Name)
	check.Equal(t, int64(0), players[0].BasePrice)
	check.Equal(t, 0, players[0].Rating)

	check.Equal(t, "Decimal Player", players[1].Name)
	check.Equal(t, int64(12_000_000), players[1].BasePrice)
}

func TestParsePlayersCSV_DuplicateHeaderFirstWins(t *testing.T) {
	csv := "name,name,category,baseprice,rating,photo\n" +
		"Real Name,Shadow Name,Batsman,10000000,8,\n"

	players := ParsePlayersCSV(csv)
	assert.Equal(t, 1, len(players))
	check.Equal(t, "Real Name", players[0].Name)
}

func TestParsePlayersCSV_Empty(t *testing.T) {
	check.Equal(t, 0, len(ParsePlayersCSV("")))
	check.Equal(t, 0, len(ParsePlayersCSV("name,category,baseprice,rating,photo")))
}

func TestCommitSetup_WritesStateAndResetsCursor(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStateRepository()
	svc := NewSetupService(store)

	assert.NoError(t, store.SaveCurrentIndex(ctx, 7))

	result, err := svc.CommitSetup(ctx, CommitSetupInput{
		TeamCount:  2,
		TeamNames:  []string{"CSK", "MI"},
		PlayersCSV: "name,category,baseprice,rating,photo\nOnly Player,Batsman,10000000,5,\n",
	})
	assert.NoError(t, err)
	check.Equal(t, 2, len(result.Teams))
	check.Equal(t, 1, len(result.Players))

	teams, err := store.LoadTeams(ctx)
	assert.NoError(t, err)
	check.Equal(t, "CSK", teams[0].Name)

	players, err := store.LoadPlayers(ctx)
	assert.NoError(t, err)
	check.Equal(t, "Only Player", players[0].Name)

	index, err := store.LoadCurrentIndex(ctx)
	assert.NoError(t, err)
	check.Equal(t, 0, index)
}

func TestCommitSetup_EmptyCSVFallsBackToDemoPlayers(t *testing.T) {
	ctx := context.Background()
	svc := NewSetupService(repositories.NewMemoryStateRepository())

	result, err := svc.CommitSetup(ctx, CommitSetupInput{TeamCount: 2})
	assert.NoError(t, err)
	check.Equal(t, len(DemoPlayers()), len(result.Players))
}

func TestEnsureDefaults_SeedsOnlyWhenEmpty(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStateRepository()
	svc := NewSetupService(store)

	assert.NoError(t, svc.EnsureDefaults(ctx))

	teams, err := store.LoadTeams(ctx)
	assert.NoError(t, err)
	check.Equal(t, 4, len(teams))

	// A second call must not overwrite committed state.
	assert.NoError(t, store.SaveCurrentIndex(ctx, 3))
	assert.NoError(t, svc.EnsureDefaults(ctx))

	index, err := store.LoadCurrentIndex(ctx)
	assert.NoError(t, err)
	check.Equal(t, 3, index)
}

func TestReset_ClearsAndReseeds(t *testing.T) {
	ctx := context.Background()
	store := repositories.NewMemoryStateRepository()
	svc := NewSetupService(store)

	_, err := svc.CommitSetup(ctx, CommitSetupInput{TeamCount: 6})
	assert.NoError(t, err)
	assert.NoError(t, store.SaveCurrentIndex(ctx, 2))

	assert.NoError(t, svc.Reset(ctx))

	teams, err := store.LoadTeams(ctx)
	assert.NoError(t, err)
	check.Equal(t, 4, len(teams))

	index, err := store.LoadCurrentIndex(ctx)
	assert.NoError(t, err)
	check.Equal(t, 0, index)
}

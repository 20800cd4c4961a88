package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Dosada05/auction-system/models"
	"github.com/Dosada05/auction-system/money"
	"github.com/Dosada05/auction-system/repositories"
	"github.com/google/uuid"
)

// Фиксированная палитра логотипов. Для команд сверх восьми палитра
// зацикливается (решение зафиксировано в DESIGN.md).
var logoPalette = []string{
	"https://i.ibb.co/1fQPB0f/red.png",
	"https://i.ibb.co/h1F4JQp/blue.png",
	"https://i.ibb.co/fnJtD1S/green.png",
	"https://i.ibb.co/GCws7Vq/orange.png",
	"https://i.ibb.co/vqZ6gNf/purple.png",
	"https://i.ibb.co/Jr5tCv6/yellow.png",
	"https://i.ibb.co/xYhMhgR/black.png",
	"https://i.ibb.co/QFkWQzW/white.png",
}

type SetupService interface {
	// CommitSetup validates the input, writes the three state entries and
	// resets the cursor to zero. The caller is expected to reload the
	// engine afterwards.
	CommitSetup(ctx context.Context, input CommitSetupInput) (*SetupResult, error)

	// PreviewPlayersCSV parses uploaded CSV text without committing anything.
	PreviewPlayersCSV(text string) []*models.Player

	// EnsureDefaults seeds the demo auction when no state has been written.
	EnsureDefaults(ctx context.Context) error

	// Reset clears the persisted state and re-seeds the demo auction.
	Reset(ctx context.Context) error
}

type CommitSetupInput struct {
	TeamCount  int      `json:"team_count"`
	TeamNames  []string `json:"team_names"`
	PlayersCSV string   `json:"players_csv"`
}

type SetupResult struct {
	Teams   []*models.Team   `json:"teams"`
	Players []*models.Player `json:"players"`
}

type setupService struct {
	stateRepo repositories.StateRepository
}

func NewSetupService(stateRepo repositories.StateRepository) SetupService {
	return &setupService{stateRepo: stateRepo}
}

func (s *setupService) CommitSetup(ctx context.Context, input CommitSetupInput) (*SetupResult, error) {
	teams, err := BuildTeams(input.TeamCount, input.TeamNames)
	if err != nil {
		return nil, err
	}

	players := ParsePlayersCSV(input.PlayersCSV)
	if len(players) == 0 {
		players = DemoPlayers()
	}

	if err := s.commit(ctx, teams, players); err != nil {
		return nil, err
	}
	return &SetupResult{Teams: teams, Players: players}, nil
}

func (s *setupService) PreviewPlayersCSV(text string) []*models.Player {
	return ParsePlayersCSV(text)
}

func (s *setupService) EnsureDefaults(ctx context.Context) error {
	teams, err := s.stateRepo.LoadTeams(ctx)
	if err != nil && !errors.Is(err, repositories.ErrStateNotFound) {
		return err
	}
	players, perr := s.stateRepo.LoadPlayers(ctx)
	if perr != nil && !errors.Is(perr, repositories.ErrStateNotFound) {
		return perr
	}
	if len(teams) > 0 && len(players) > 0 {
		return nil
	}
	return s.commit(ctx, DemoTeams(), DemoPlayers())
}

func (s *setupService) Reset(ctx context.Context) error {
	if err := s.stateRepo.Clear(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrSetupCommitFailed, err)
	}
	return s.commit(ctx, DemoTeams(), DemoPlayers())
}

func (s *setupService) commit(ctx context.Context, teams []*models.Team, players []*models.Player) error {
	if err := s.stateRepo.SaveTeams(ctx, teams); err != nil {
		return fmt.Errorf("%w: %w", ErrSetupCommitFailed, err)
	}
	if err := s.stateRepo.SavePlayers(ctx, players); err != nil {
		return fmt.Errorf("%w: %w", ErrSetupCommitFailed, err)
	}
	if err := s.stateRepo.SaveCurrentIndex(ctx, 0); err != nil {
		return fmt.Errorf("%w: %w", ErrSetupCommitFailed, err)
	}
	return nil
}

// BuildTeams constructs count teams with fixed starting purses and empty
// rosters. Blank names fall back to "Team N".
func BuildTeams(count int, names []string) ([]*models.Team, error) {
	if count < 2 {
		return nil, ErrTeamCountInvalid
	}

	teams := make([]*models.Team, 0, count)
	for i := 0; i < count; i++ {
		name := ""
		if i < len(names) {
			name = strings.TrimSpace(names[i])
		}
		if name == "" {
			name = fmt.Sprintf("Team %d", i+1)
		}
		teams = append(teams, &models.Team{
			ID:      fmt.Sprintf("t%d", i+1),
			Name:    name,
			Logo:    logoPalette[i%len(logoPalette)],
			Purse:   money.StartingPurse,
			Players: []models.AcquisitionRecord{},
		})
	}
	return teams, nil
}

// ParsePlayersCSV parses comma-separated player rows. The first line is a
// header matched case-insensitively against name, category, baseprice,
// rating and photo in any column order. Rows with an empty trimmed name are
// dropped; malformed numeric fields coerce to zero.
//
// Values are split on bare commas: embedded commas in names or URLs are not
// supported, matching the format the setup screen has always produced.
func ParsePlayersCSV(text string) []*models.Player {
	lines := make([]string, 0)
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return []*models.Player{}
	}

	header := strings.Split(lines[0], ",")
	idx := map[string]int{"name": -1, "category": -1, "baseprice": -1, "rating": -1, "photo": -1}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		// При дублирующихся колонках действует первая.
		if v, ok := idx[key]; ok && v == -1 {
			idx[key] = i
		}
	}

	players := make([]*models.Player, 0, len(lines)-1)
	for _, line := range lines[1:] {
		cols := strings.Split(line, ",")

		name := strings.TrimSpace(column(cols, idx["name"]))
		if name == "" {
			continue
		}

		players = append(players, &models.Player{
			ID:        uuid.NewString(),
			Name:      name,
			Category:  models.Category(strings.TrimSpace(column(cols, idx["category"]))),
			BasePrice: parseAmount(column(cols, idx["baseprice"])),
			Rating:    int(parseAmount(column(cols, idx["rating"]))),
			Photo:     strings.TrimSpace(column(cols, idx["photo"])),
		})
	}
	return players
}

func column(cols []string, i int) string {
	if i < 0 || i >= len(cols) {
		return ""
	}
	return cols[i]
}

// parseAmount coerces a numeric field to int64, defaulting to 0 on malformed
// input rather than failing the row.
func parseAmount(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}

// DemoTeams возвращает стандартный набор из четырёх команд.
func DemoTeams() []*models.Team {
	teams, _ := BuildTeams(4, nil)
	return teams
}

// DemoPlayers returns the built-in fallback player list.
func DemoPlayers() []*models.Player {
	demo := []struct {
		name     string
		category models.Category
		base     int64
		rating   int
		photo    string
	}{
		{"Virat Kohli", models.CategoryBatsman, 20_000_000, 10, "https://images.unsplash.com/photo-1549646033-ec93f22d73b1?q=80&w=1200&auto=format&fit=crop"},
		{"Hardik Pandya", models.CategoryAllRounder, 15_000_000, 9, "https://images.unsplash.com/photo-1547106634-56dcd53ae883?q=80&w=1200&auto=format&fit=crop"},
		{"MS Dhoni", models.CategoryWicketKeeper, 20_000_000, 9, "https://images.unsplash.com/photo-1516567727245-06e525fcb346?q=80&w=1200&auto=format&fit=crop"},
		{"Jasprit Bumrah", models.CategoryFastBowler, 12_000_000, 9, "https://images.unsplash.com/photo-1609175874318-81e4a4f2c9ae?q=80&w=1200&auto=format&fit=crop"},
		{"Rashid Khan", models.CategorySpinner, 12_000_000, 9, "https://images.unsplash.com/photo-1517959105821-eaf2591984dd?q=80&w=1200&auto=format&fit=crop"},
	}

	players := make([]*models.Player, 0, len(demo))
	for _, d := range demo {
		players = append(players, &models.Player{
			ID:        uuid.NewString(),
			Name:      d.name,
			Category:  d.category,
			BasePrice: d.base,
			Rating:    d.rating,
			Photo:     d.photo,
		})
	}
	return players
}

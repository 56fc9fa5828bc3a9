package features

import (
	"errors"
	"fmt"
	"testing"

	"github.com/yourusername/matchday/internal/models"
)

func intPtr(v int) *int { return &v }

// boxGame builds a completed basketball game with a five-man box score for
// each side.
func boxGame(date, home, away string, homePts, awayPts int) models.GameRecord {
	winner := home
	if awayPts > homePts {
		winner = away
	}
	g := models.GameRecord{
		Date: date, HomeTeam: home, AwayTeam: away,
		Status: models.GameCompleted, Winner: winner,
		HomeScore: intPtr(homePts), AwayScore: intPtr(awayPts),
	}
	for _, side := range []struct {
		team string
		pts  int
	}{{home, homePts}, {away, awayPts}} {
		for i := 0; i < 5; i++ {
			g.Box = append(g.Box, models.PlayerLine{
				Player:    fmt.Sprintf("%s-p%d", side.team, i),
				Team:      side.team,
				Points:    float64(side.pts) / 5,
				Assists:   5,
				Rebounds:  8,
				FGPct:     0.46,
				ThreePct:  0.35,
				FTPct:     0.8,
				GameScore: 12,
			})
		}
	}
	return g
}

func basketballSeason(team string, n int, startDay int) []models.GameRecord {
	var games []models.GameRecord
	for i := 0; i < n; i++ {
		games = append(games, boxGame(
			fmt.Sprintf("2025-01-%02d", startDay+i), team, "OPP", 100+i, 95,
		))
	}
	return games
}

func TestSnapshotExcludesGamesOnOrAfterCutoff(t *testing.T) {
	games := basketballSeason("LAL", 6, 1) // 01-01 .. 01-06
	calc := NewBasketballCalculator()

	snap, err := calc.Snapshot("LAL", "2025-01-06", games)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.GamesCounted != 5 {
		t.Fatalf("expected the 01-06 game excluded, counted %d", snap.GamesCounted)
	}

	// Average points over 01-01..01-05 is (100+101+102+103+104)/5.
	if snap.AvgPoints != 102 {
		t.Fatalf("expected avg points 102, got %f", snap.AvgPoints)
	}
	if snap.WinRate != 1 {
		t.Fatalf("expected win rate 1, got %f", snap.WinRate)
	}
}

func TestSnapshotMinimumGameGate(t *testing.T) {
	games := basketballSeason("LAL", 4, 1)
	calc := NewBasketballCalculator()

	_, err := calc.Snapshot("LAL", "2025-02-01", games)
	if !errors.Is(err, models.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData with 4 games, got %v", err)
	}
}

func TestSnapshotTrailingWindowCap(t *testing.T) {
	games := basketballSeason("LAL", 15, 1)
	calc := NewBasketballCalculator()

	snap, err := calc.Snapshot("LAL", "2025-02-01", games)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snap.GamesCounted != BasketballWindow {
		t.Fatalf("expected window cap %d, got %d", BasketballWindow, snap.GamesCounted)
	}
	// The last ten games are 01-06..01-15, scoring 105..114.
	if snap.AvgPoints != 109.5 {
		t.Fatalf("expected avg points 109.5 over trailing window, got %f", snap.AvgPoints)
	}
}

func TestFootballSnapshotWindows(t *testing.T) {
	var games []models.GameRecord
	// Eight games: first five wins, last three losses.
	for i := 0; i < 8; i++ {
		hs, as := 24, 17
		if i >= 5 {
			hs, as = 14, 20
		}
		winner := "KC"
		if as > hs {
			winner = "DEN"
		}
		games = append(games, models.GameRecord{
			Date: fmt.Sprintf("2024-10-%02d", 1+i), HomeTeam: "KC", AwayTeam: "DEN",
			Status: models.GameCompleted, Winner: winner,
			HomeScore: intPtr(hs), AwayScore: intPtr(as),
		})
	}

	snap, err := NewFootballCalculator().Snapshot("KC", "2024-11-01", games)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}

	// Recent form covers the trailing five: two wins, three losses.
	if snap.WinRate != 0.4 {
		t.Fatalf("expected recent win rate 0.4, got %f", snap.WinRate)
	}
	if snap.SeasonWinRate != 0.625 {
		t.Fatalf("expected season win rate 0.625, got %f", snap.SeasonWinRate)
	}
	if snap.GamesCounted != FootballRecentWindow {
		t.Fatalf("expected %d recent games, got %d", FootballRecentWindow, snap.GamesCounted)
	}
	if snap.PointDiff != snap.AvgPointsFor-snap.AvgPointsAgainst {
		t.Fatalf("point diff mismatch")
	}
}

func TestRosterAvailabilitySteps(t *testing.T) {
	tests := []struct {
		name    string
		players int
		want    float64
	}{
		{"full rotation", 10, 1.0},
		{"nine deep", 9, 0.95},
		{"eight deep", 8, 0.90},
		{"seven deep", 7, 0.85},
		{"six deep", 6, 0.80},
		{"five deep", 5, 0.75},
		{"skeleton crew", 4, AvailabilityFloor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var games []models.GameRecord
			for i := 0; i < 6; i++ {
				g := models.GameRecord{
					Date: fmt.Sprintf("2025-01-%02d", 1+i), HomeTeam: "LAL", AwayTeam: "OPP",
					Status: models.GameCompleted, Winner: "LAL",
					HomeScore: intPtr(100), AwayScore: intPtr(95),
				}
				for p := 0; p < tt.players; p++ {
					g.Box = append(g.Box, models.PlayerLine{
						Player: fmt.Sprintf("p%d", p), Team: "LAL", Points: 10,
					})
					g.Box = append(g.Box, models.PlayerLine{
						Player: fmt.Sprintf("o%d", p), Team: "OPP", Points: 9,
					})
				}
				games = append(games, g)
			}

			got := RosterAvailability("LAL", "2025-02-01", games)
			if got != tt.want {
				t.Fatalf("expected %f for %d players, got %f", tt.want, tt.players, got)
			}
		})
	}
}

func TestInjuryAvailability(t *testing.T) {
	if got := InjuryAvailability(nil); got != 1.0 {
		t.Fatalf("missing report must fail open, got %f", got)
	}

	entries := []models.InjuryEntry{
		{Player: "a", Position: "QB", Status: "Out"},
		{Player: "b", Position: "WR", Status: "Questionable"},
		{Player: "c", Position: "K", Status: "Out"}, // not a key position
	}
	if got := InjuryAvailability(entries); got != 0.9 {
		t.Fatalf("expected 0.9 for two key injuries, got %f", got)
	}

	// Six or more key injuries pin the factor at the floor.
	var many []models.InjuryEntry
	for i := 0; i < 7; i++ {
		many = append(many, models.InjuryEntry{Player: fmt.Sprintf("p%d", i), Position: "OL", Status: "Out"})
	}
	if got := InjuryAvailability(many); got != AvailabilityFloor {
		t.Fatalf("expected floor %f, got %f", AvailabilityFloor, got)
	}
}

func TestBasketballVectorOrderAndScaling(t *testing.T) {
	home := &models.TeamSnapshot{
		Team: "LAL", AvgPoints: 100, AvgAssists: 20, AvgRebounds: 40,
		FGPct: 0.5, ThreePct: 0.4, FTPct: 0.8, WinRate: 0.7, AvgGameScore: 15,
	}
	away := &models.TeamSnapshot{
		Team: "BOS", AvgPoints: 90, AvgAssists: 25, AvgRebounds: 44,
		FGPct: 0.45, ThreePct: 0.36, FTPct: 0.78, WinRate: 0.6, AvgGameScore: 13,
	}

	vec, err := BasketballVector(home, away, 0.9, 1.0)
	if err != nil {
		t.Fatalf("vector: %v", err)
	}
	if len(vec) != BasketballVectorLen {
		t.Fatalf("expected %d elements, got %d", BasketballVectorLen, len(vec))
	}

	if vec[0] != 90 { // 100 * 0.9
		t.Fatalf("home points not scaled by availability: %f", vec[0])
	}
	if vec[6] != 0.5 || vec[10] != 0.7 {
		t.Fatalf("percentages and win rate must not be scaled: fg=%f wr=%f", vec[6], vec[10])
	}
	if vec[14] != vec[0]-vec[1] {
		t.Fatalf("points differential must use scaled points")
	}
	if vec[15] != home.WinRate-away.WinRate {
		t.Fatalf("win rate differential wrong: %f", vec[15])
	}
}

func TestFootballVectorOrder(t *testing.T) {
	home := &models.FootballSnapshot{Team: "DAL", WinRate: 0.6, AvgPointsFor: 27, AvgPointsAgainst: 20, PointDiff: 7, SeasonWinRate: 0.55, RecentForm: 0.6}
	away := &models.FootballSnapshot{Team: "NYG", WinRate: 0.4, AvgPointsFor: 18, AvgPointsAgainst: 24, PointDiff: -6, SeasonWinRate: 0.35, RecentForm: 0.4}

	vec, err := FootballVector(home, away, true, 0.95, 1.0)
	if err != nil {
		t.Fatalf("vector: %v", err)
	}
	if len(vec) != FootballVectorLen {
		t.Fatalf("expected %d elements, got %d", FootballVectorLen, len(vec))
	}
	if vec[0] != 0.6 || vec[6] != 0.4 {
		t.Fatalf("win rates out of order: %f %f", vec[0], vec[6])
	}
	if vec[12] != 1.0 {
		t.Fatalf("indoor venue flag expected 1.0, got %f", vec[12])
	}
	if vec[13] != 0.95 || vec[14] != 1.0 {
		t.Fatalf("availability tail wrong: %f %f", vec[13], vec[14])
	}

	if _, err := FootballVector(nil, away, false, 1, 1); !errors.Is(err, models.ErrMissingTeamData) {
		t.Fatalf("expected ErrMissingTeamData for nil snapshot, got %v", err)
	}
}

func TestVenueIndoor(t *testing.T) {
	if !VenueIndoor("DAL") {
		t.Fatalf("DAL plays indoors")
	}
	if VenueIndoor("GB") {
		t.Fatalf("GB plays outdoors")
	}
}

package models

import "time"

// DateLayout is the wire format for game dates throughout the system.
// Dates are kept as strings so persisted JSON round-trips unchanged and
// chronological comparison reduces to lexicographic comparison.
const DateLayout = "2006-01-02"

// Sport identifies a supported league.
type Sport string

const (
	SportBasketball Sport = "nba"
	SportFootball   Sport = "nfl"
)

// Valid reports whether the sport is one we model.
func (s Sport) Valid() bool {
	return s == SportBasketball || s == SportFootball
}

// GameStatus represents the lifecycle state of a game record.
type GameStatus string

const (
	GameScheduled GameStatus = "scheduled"
	GameCompleted GameStatus = "completed"
)

// PlayerLine is a single player's box-score row for one basketball game.
type PlayerLine struct {
	Player    string  `json:"player"`
	Team      string  `json:"team"`
	Points    float64 `json:"points"`
	Assists   float64 `json:"assists"`
	Rebounds  float64 `json:"rebounds"`
	FGPct     float64 `json:"fg_pct"`
	ThreePct  float64 `json:"three_pct"`
	FTPct     float64 `json:"ft_pct"`
	GameScore float64 `json:"game_score"`
}

// GameRecord is one completed or scheduled matchup. It is immutable once
// stored and is the source of truth for both feature computation and
// accuracy reconciliation.
type GameRecord struct {
	Date      string       `json:"date"`
	HomeTeam  string       `json:"home_team"`
	AwayTeam  string       `json:"away_team"`
	Status    GameStatus   `json:"status"`
	HomeScore *int         `json:"home_score,omitempty"`
	AwayScore *int         `json:"away_score,omitempty"`
	Winner    string       `json:"winner,omitempty"`
	Week      *int         `json:"week,omitempty"`
	Season    *int         `json:"season,omitempty"`
	Box       []PlayerLine `json:"box,omitempty"`
}

// Completed reports whether the game has a usable final result.
func (g *GameRecord) Completed() bool {
	return g.Status == GameCompleted && g.Winner != ""
}

// Involves reports whether the given team played in this game.
func (g *GameRecord) Involves(team string) bool {
	return g.HomeTeam == team || g.AwayTeam == team
}

// ScoreFor returns the points scored by team in this game, or false when the
// team did not play or no score is recorded.
func (g *GameRecord) ScoreFor(team string) (int, bool) {
	switch {
	case g.HomeTeam == team && g.HomeScore != nil:
		return *g.HomeScore, true
	case g.AwayTeam == team && g.AwayScore != nil:
		return *g.AwayScore, true
	}
	return 0, false
}

// ScoreAgainst returns the points conceded by team in this game.
func (g *GameRecord) ScoreAgainst(team string) (int, bool) {
	switch {
	case g.HomeTeam == team && g.AwayScore != nil:
		return *g.AwayScore, true
	case g.AwayTeam == team && g.HomeScore != nil:
		return *g.HomeScore, true
	}
	return 0, false
}

// ParseDate parses the record date. Callers that only need ordering should
// compare the raw strings instead.
func (g *GameRecord) ParseDate() (time.Time, error) {
	return time.Parse(DateLayout, g.Date)
}

// InjuryEntry is one player on a team's injury report.
type InjuryEntry struct {
	Player   string `json:"player"`
	Position string `json:"position"`
	Status   string `json:"status"`
	Injury   string `json:"injury,omitempty"`
}

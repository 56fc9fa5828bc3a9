package models

// TeamSnapshot is a basketball team's rolling-window strength summary as of
// a given date. Snapshots are derived and transient; they are recomputed per
// request (or cached inside a trained model) and never persisted on their own.
type TeamSnapshot struct {
	Team         string  `json:"team"`
	AsOf         string  `json:"as_of_date"`
	AvgPoints    float64 `json:"avg_points"`
	AvgAssists   float64 `json:"avg_assists"`
	AvgRebounds  float64 `json:"avg_rebounds"`
	FGPct        float64 `json:"fg_pct"`
	ThreePct     float64 `json:"three_pct"`
	FTPct        float64 `json:"ft_pct"`
	WinRate      float64 `json:"win_rate"`
	AvgGameScore float64 `json:"avg_game_score"`
	GamesCounted int     `json:"games_counted"`
}

// FootballSnapshot is a football team's strength summary. Two windows are
// maintained at once: the trailing five games ("recent") and the full season.
type FootballSnapshot struct {
	Team             string  `json:"team"`
	AsOf             string  `json:"as_of_date"`
	WinRate          float64 `json:"win_rate"`
	AvgPointsFor     float64 `json:"avg_points_for"`
	AvgPointsAgainst float64 `json:"avg_points_against"`
	PointDiff        float64 `json:"point_differential"`
	SeasonWinRate    float64 `json:"season_win_rate"`
	RecentForm       float64 `json:"recent_form"`
	GamesCounted     int     `json:"games_counted"`
}

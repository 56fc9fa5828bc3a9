package features

import "github.com/yourusername/matchday/internal/models"

// Vector lengths. The element order below is load-bearing: the outcome
// models are order-sensitive, and training and inference must build vectors
// through these same functions. An order mismatch corrupts predictions
// silently, so nothing else in the codebase assembles feature slices.
const (
	BasketballVectorLen = 16
	FootballVectorLen   = 15
)

// BasketballVector builds the fixed-order matchup vector. Offense-correlated
// fields (points, assists, rebounds, game score) are pre-multiplied by the
// respective availability factor; shooting percentages and win rate pass
// through unscaled.
//
// Order: home_pts, away_pts, home_ast, away_ast, home_trb, away_trb,
// home_fg%, away_fg%, home_3p%, away_3p%, home_win%, away_win%, home_gmsc,
// away_gmsc, pts_diff, win_pct_diff.
func BasketballVector(home, away *models.TeamSnapshot, homeAvail, awayAvail float64) ([]float64, error) {
	if home == nil || away == nil {
		return nil, models.ErrMissingTeamData
	}

	homePts := home.AvgPoints * homeAvail
	awayPts := away.AvgPoints * awayAvail

	return []float64{
		homePts,
		awayPts,
		home.AvgAssists * homeAvail,
		away.AvgAssists * awayAvail,
		home.AvgRebounds * homeAvail,
		away.AvgRebounds * awayAvail,
		home.FGPct,
		away.FGPct,
		home.ThreePct,
		away.ThreePct,
		home.WinRate,
		away.WinRate,
		home.AvgGameScore * homeAvail,
		away.AvgGameScore * awayAvail,
		homePts - awayPts,
		home.WinRate - away.WinRate,
	}, nil
}

// FootballVector builds the fixed-order matchup vector for football.
//
// Order: home win_rate, pts_for, pts_against, point_diff, season_win_rate,
// recent_form, then the same six for away, then venue_indoor, home
// availability, away availability. Availability enters the vector directly
// rather than scaling the snapshot fields.
func FootballVector(home, away *models.FootballSnapshot, venueIndoor bool, homeAvail, awayAvail float64) ([]float64, error) {
	if home == nil || away == nil {
		return nil, models.ErrMissingTeamData
	}

	indoor := 0.0
	if venueIndoor {
		indoor = 1.0
	}

	return []float64{
		home.WinRate,
		home.AvgPointsFor,
		home.AvgPointsAgainst,
		home.PointDiff,
		home.SeasonWinRate,
		home.RecentForm,
		away.WinRate,
		away.AvgPointsFor,
		away.AvgPointsAgainst,
		away.PointDiff,
		away.SeasonWinRate,
		away.RecentForm,
		indoor,
		homeAvail,
		awayAvail,
	}, nil
}

package features

// indoorVenues lists NFL home venues that are domed or retractable-roof.
var indoorVenues = map[string]bool{
	"ARI": true,
	"ATL": true,
	"DAL": true,
	"DET": true,
	"HOU": true,
	"IND": true,
	"LV":  true,
	"LAC": true,
	"LAR": true,
	"MIN": true,
	"NO":  true,
}

// VenueIndoor reports whether the home team's venue is indoor. Unknown teams
// default to outdoor.
func VenueIndoor(homeTeam string) bool {
	return indoorVenues[homeTeam]
}

package server

import (
	"sort"
	"strings"

	"github.com/harryji168/nba-api/internal/models"
)

// FilterGames narrows a game listing by a search term and a date. The
// search term matches as a substring of either team name or the game
// status; the date matches the day the game started.
func FilterGames(games []models.GameSummary, search, date string) []models.GameSummary {
	if search == "" && date == "" {
		return games
	}

	filtered := make([]models.GameSummary, 0, len(games))
	for _, g := range games {
		if search != "" &&
			!strings.Contains(g.VisitorsTeamName, search) &&
			!strings.Contains(g.HomeTeamName, search) &&
			!strings.Contains(g.Status, search) {
			continue
		}
		if date != "" && g.DateStart.UTC().Format(models.DateLayout) != date {
			continue
		}
		filtered = append(filtered, g)
	}

	return filtered
}

// SortGames orders a game listing by a whitelisted column name. Unknown
// columns leave the listing in its incoming order (game id descending).
func SortGames(games []models.GameSummary, orderby string) {
	var less func(a, b models.GameSummary) bool

	switch orderby {
	case "game_id":
		less = func(a, b models.GameSummary) bool { return a.GameID < b.GameID }
	case "date_start":
		less = func(a, b models.GameSummary) bool { return a.DateStart.Before(b.DateStart) }
	case "season":
		less = func(a, b models.GameSummary) bool { return a.Season < b.Season }
	case "status":
		less = func(a, b models.GameSummary) bool { return a.Status < b.Status }
	case "home_team_name":
		less = func(a, b models.GameSummary) bool { return a.HomeTeamName < b.HomeTeamName }
	case "visitors_team_name":
		less = func(a, b models.GameSummary) bool { return a.VisitorsTeamName < b.VisitorsTeamName }
	default:
		return
	}

	sort.SliceStable(games, func(i, j int) bool { return less(games[i], games[j]) })
}

// Paginate slices a game listing to one page. Pages are 1-based; out of
// range pages yield an empty slice, never an error.
func Paginate(games []models.GameSummary, page, perPage int) []models.GameSummary {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}

	start := (page - 1) * perPage
	if start >= len(games) {
		return []models.GameSummary{}
	}

	end := start + perPage
	if end > len(games) {
		end = len(games)
	}

	return games[start:end]
}

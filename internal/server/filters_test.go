package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/harryji168/nba-api/internal/models"
)

func sampleGames() []models.GameSummary {
	return []models.GameSummary{
		{GameID: 3, HomeTeamName: "Boston Celtics", VisitorsTeamName: "Miami Heat", Status: "Finished",
			DateStart: time.Date(2023, 5, 29, 0, 30, 0, 0, time.UTC), Season: 2022},
		{GameID: 2, HomeTeamName: "Denver Nuggets", VisitorsTeamName: "Los Angeles Lakers", Status: "Finished",
			DateStart: time.Date(2023, 5, 22, 0, 30, 0, 0, time.UTC), Season: 2022},
		{GameID: 1, HomeTeamName: "Golden State Warriors", VisitorsTeamName: "Boston Celtics", Status: "Scheduled",
			DateStart: time.Date(2023, 5, 22, 2, 0, 0, 0, time.UTC), Season: 2022},
	}
}

func TestFilterGamesBySearch(t *testing.T) {
	games := FilterGames(sampleGames(), "Celtics", "")
	assert.Len(t, games, 2, "Search should match home and visitor team names")

	games = FilterGames(sampleGames(), "Scheduled", "")
	assert.Len(t, games, 1, "Search should match game status")
	assert.Equal(t, int64(1), games[0].GameID)

	games = FilterGames(sampleGames(), "Raptors", "")
	assert.Empty(t, games)
}

func TestFilterGamesByDate(t *testing.T) {
	games := FilterGames(sampleGames(), "", "2023-05-22")
	assert.Len(t, games, 2)

	games = FilterGames(sampleGames(), "", "2023-05-29")
	assert.Len(t, games, 1)
	assert.Equal(t, int64(3), games[0].GameID)
}

func TestFilterGamesSearchAndDate(t *testing.T) {
	games := FilterGames(sampleGames(), "Celtics", "2023-05-22")
	assert.Len(t, games, 1)
	assert.Equal(t, int64(1), games[0].GameID)
}

func TestFilterGamesNoFilters(t *testing.T) {
	in := sampleGames()
	out := FilterGames(in, "", "")
	assert.Equal(t, in, out)
}

func TestSortGames(t *testing.T) {
	games := sampleGames()
	SortGames(games, "game_id")
	assert.Equal(t, int64(1), games[0].GameID)
	assert.Equal(t, int64(3), games[2].GameID)

	games = sampleGames()
	SortGames(games, "home_team_name")
	assert.Equal(t, "Boston Celtics", games[0].HomeTeamName)

	// Unknown columns leave the incoming order untouched.
	games = sampleGames()
	SortGames(games, "drop table")
	assert.Equal(t, int64(3), games[0].GameID)
}

func TestPaginate(t *testing.T) {
	games := sampleGames()

	page := Paginate(games, 1, 2)
	assert.Len(t, page, 2)
	assert.Equal(t, int64(3), page[0].GameID)

	page = Paginate(games, 2, 2)
	assert.Len(t, page, 1)
	assert.Equal(t, int64(1), page[0].GameID)

	page = Paginate(games, 5, 2)
	assert.Empty(t, page, "Out of range pages should be empty, not an error")

	page = Paginate(games, 0, 0)
	assert.Len(t, page, 3, "Bad params should fall back to defaults")
}

package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harryji168/nba-api/internal/models"
)

func intPtr(v int) *int { return &v }

func TestGameRepository_Upsert(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	homeID, err := db.Teams.Upsert(ctx, "Denver Nuggets", "")
	require.NoError(t, err)
	visitorsID, err := db.Teams.Upsert(ctx, "Miami Heat", "")
	require.NoError(t, err)
	arenaID, err := db.Arenas.Upsert(ctx, "Ball Arena", "Denver", "CO")
	require.NoError(t, err)

	game := &models.Game{
		GameID:         12345,
		Season:         2023,
		DateStart:      time.Date(2023, 6, 1, 20, 30, 0, 0, time.UTC),
		HomeTeamID:     homeID,
		VisitorsTeamID: visitorsID,
		HomePoints:     intPtr(104),
		VisitorsPoints: intPtr(93),
		ArenaID:        arenaID,
		Status:         "Finished",
	}

	id, err := db.Games.Upsert(ctx, game)
	require.NoError(t, err, "Should insert game")
	assert.Greater(t, id, int64(0))

	retrieved, err := db.Games.GetByGameID(ctx, 12345)
	require.NoError(t, err, "Should retrieve game")
	assert.Equal(t, 2023, retrieved.Season)
	assert.Equal(t, homeID, retrieved.HomeTeamID)
	assert.Equal(t, "Finished", retrieved.Status)
	require.NotNil(t, retrieved.HomePoints)
	assert.Equal(t, 104, *retrieved.HomePoints)
	assert.True(t, retrieved.DateStart.Equal(game.DateStart))
}

func TestGameRepository_UpsertDoesNotOverwrite(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	homeID, err := db.Teams.Upsert(ctx, "Phoenix Suns", "")
	require.NoError(t, err)
	visitorsID, err := db.Teams.Upsert(ctx, "Dallas Mavericks", "")
	require.NoError(t, err)
	arenaID, err := db.Arenas.Upsert(ctx, "Footprint Center", "Phoenix", "AZ")
	require.NoError(t, err)

	game := &models.Game{
		GameID:         54321,
		Season:         2022,
		DateStart:      time.Date(2022, 5, 15, 19, 0, 0, 0, time.UTC),
		HomeTeamID:     homeID,
		VisitorsTeamID: visitorsID,
		HomePoints:     intPtr(110),
		VisitorsPoints: intPtr(80),
		ArenaID:        arenaID,
		Status:         "Finished",
	}
	first, err := db.Games.Upsert(ctx, game)
	require.NoError(t, err)

	// Re-ingesting the same game id with changed scores must keep the
	// original row.
	game.HomePoints = intPtr(0)
	game.Status = "Scheduled"
	second, err := db.Games.Upsert(ctx, game)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	retrieved, err := db.Games.GetByGameID(ctx, 54321)
	require.NoError(t, err)
	assert.Equal(t, "Finished", retrieved.Status)
	require.NotNil(t, retrieved.HomePoints)
	assert.Equal(t, 110, *retrieved.HomePoints)
}

func TestGameRepository_CountBySeason(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	homeID, err := db.Teams.Upsert(ctx, "Utah Jazz", "")
	require.NoError(t, err)
	visitorsID, err := db.Teams.Upsert(ctx, "Chicago Bulls", "")
	require.NoError(t, err)
	arenaID, err := db.Arenas.Upsert(ctx, "Delta Center", "Salt Lake City", "UT")
	require.NoError(t, err)

	before, err := db.Games.CountBySeason(ctx, 1997)
	require.NoError(t, err)

	for i := int64(0); i < 3; i++ {
		_, err := db.Games.Upsert(ctx, &models.Game{
			GameID:         90000 + i,
			Season:         1997,
			DateStart:      time.Date(1997, 6, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(i)),
			HomeTeamID:     homeID,
			VisitorsTeamID: visitorsID,
			ArenaID:        arenaID,
			Status:         "Finished",
		})
		require.NoError(t, err)
	}

	after, err := db.Games.CountBySeason(ctx, 1997)
	require.NoError(t, err)
	assert.Equal(t, before+3, after)
}

func TestGameRepository_ListAllOrdering(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	homeID, err := db.Teams.Upsert(ctx, "Sacramento Kings", "")
	require.NoError(t, err)
	visitorsID, err := db.Teams.Upsert(ctx, "Portland Trail Blazers", "")
	require.NoError(t, err)
	arenaID, err := db.Arenas.Upsert(ctx, "Golden 1 Center", "Sacramento", "CA")
	require.NoError(t, err)

	for _, gid := range []int64{80001, 80003, 80002} {
		_, err := db.Games.Upsert(ctx, &models.Game{
			GameID:         gid,
			Season:         2023,
			DateStart:      time.Date(2024, 2, 1, 19, 0, 0, 0, time.UTC),
			HomeTeamID:     homeID,
			VisitorsTeamID: visitorsID,
			ArenaID:        arenaID,
			Status:         "Finished",
		})
		require.NoError(t, err)
	}

	games, err := db.Games.ListAll(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, games)

	for i := 1; i < len(games); i++ {
		assert.Greater(t, games[i-1].GameID, games[i].GameID, "Listing must be ordered by game_id descending")
	}

	// Joined fields come back populated.
	for _, g := range games {
		if g.GameID == 80003 {
			assert.Equal(t, "Sacramento Kings", g.HomeTeamName)
			assert.Equal(t, "Portland Trail Blazers", g.VisitorsTeamName)
			assert.Equal(t, "Golden 1 Center", g.ArenaName)
			return
		}
	}
	t.Fatal("inserted game missing from listing")
}

func TestLineScoreRepository_Upsert(t *testing.T) {
	db, ctx := setupTestDB(t)
	defer teardownTestDB(t, db)

	homeID, err := db.Teams.Upsert(ctx, "New York Knicks", "")
	require.NoError(t, err)
	visitorsID, err := db.Teams.Upsert(ctx, "Indiana Pacers", "")
	require.NoError(t, err)
	arenaID, err := db.Arenas.Upsert(ctx, "Madison Square Garden", "New York", "NY")
	require.NoError(t, err)

	gameRowID, err := db.Games.Upsert(ctx, &models.Game{
		GameID:         77777,
		Season:         2023,
		DateStart:      time.Date(2024, 1, 10, 19, 30, 0, 0, time.UTC),
		HomeTeamID:     homeID,
		VisitorsTeamID: visitorsID,
		ArenaID:        arenaID,
		Status:         "Finished",
	})
	require.NoError(t, err)

	points := []int{26, 31, 22, 30}
	for quarter, pts := range points {
		_, err := db.LineScores.Upsert(ctx, &models.LineScore{
			GameID:  gameRowID,
			TeamID:  homeID,
			Quarter: quarter + 1,
			Points:  pts,
		})
		require.NoError(t, err)
	}

	// Re-upsert of the first quarter with different points keeps the
	// original value.
	_, err = db.LineScores.Upsert(ctx, &models.LineScore{
		GameID: gameRowID, TeamID: homeID, Quarter: 1, Points: 99,
	})
	require.NoError(t, err)

	scores, err := db.LineScores.ListByGameTeam(ctx, gameRowID, homeID)
	require.NoError(t, err)
	require.Len(t, scores, 4)
	for i, ls := range scores {
		assert.Equal(t, i+1, ls.Quarter, "Quarters should come back in order")
		assert.Equal(t, points[i], ls.Points)
	}
}

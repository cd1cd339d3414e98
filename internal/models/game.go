package models

import (
	"strconv"
	"strings"
	"time"
)

// GameRecord is one element of the api-nba games "response" array.
// Season is not part of the upstream payload; the ingestor tags it on
// every record before persistence.
type GameRecord struct {
	ID     int64      `json:"id"`
	Season int        `json:"season,omitempty"`
	Date   GameDate   `json:"date"`
	Status GameStatus `json:"status"`
	Arena  ArenaInfo  `json:"arena"`
	Teams  GameTeams  `json:"teams"`
	Scores GameScores `json:"scores"`
}

// GameDate holds the upstream start timestamp (ISO 8601).
type GameDate struct {
	Start string `json:"start"`
}

// GameStatus holds the upstream free-text status label.
type GameStatus struct {
	Long string `json:"long"`
}

// ArenaInfo identifies the venue of a game. Name is the natural key.
type ArenaInfo struct {
	Name  string `json:"name"`
	City  string `json:"city"`
	State string `json:"state"`
}

// GameTeams holds both sides of a matchup.
type GameTeams struct {
	Visitors TeamInfo `json:"visitors"`
	Home     TeamInfo `json:"home"`
}

// TeamInfo identifies a team. Name is the natural key.
type TeamInfo struct {
	Name string `json:"name"`
	Logo string `json:"logo"`
}

// GameScores holds both sides' totals and per-quarter line scores.
type GameScores struct {
	Visitors TeamScore `json:"visitors"`
	Home     TeamScore `json:"home"`
}

// TeamScore is one side's total and per-quarter points. The upstream
// encodes line scores as strings and may include overtime periods, so
// the sequence is arbitrary length.
type TeamScore struct {
	Points    *int     `json:"points"`
	Linescore []string `json:"linescore"`
}

// LinescorePoints converts the string-encoded quarter scores to ints.
// Malformed entries count as zero rather than failing the whole game,
// matching the upstream's loose encoding.
func (s TeamScore) LinescorePoints() []int {
	points := make([]int, len(s.Linescore))
	for i, raw := range s.Linescore {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			n = 0
		}
		points[i] = n
	}
	return points
}

// GamesPayload is the envelope of the games endpoint. Response is a
// pointer so a missing "response" key can be told apart from an empty
// array. A rate-limit notice arrives as a 200 body with a message.
type GamesPayload struct {
	Message  string        `json:"message"`
	Response *[]GameRecord `json:"response"`
}

// RateLimited reports whether the payload is an upstream throttling
// notice rather than data.
func (p *GamesPayload) RateLimited() bool {
	return strings.Contains(p.Message, "rate limit")
}

// SeasonsPayload is the envelope of the seasons endpoint.
type SeasonsPayload struct {
	Message  string `json:"message"`
	Response *[]int `json:"response"`
}

// RateLimited reports whether the payload is an upstream throttling
// notice rather than data.
func (p *SeasonsPayload) RateLimited() bool {
	return strings.Contains(p.Message, "rate limit")
}

// Team is a row in the teams table.
type Team struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Logo string `db:"logo"`
}

// Arena is a row in the arenas table.
type Arena struct {
	ID    int64  `db:"id"`
	Name  string `db:"name"`
	City  string `db:"city"`
	State string `db:"state"`
}

// Game is a row in the games table. GameID is the upstream's external
// identifier and the natural key; ID is the generated primary key.
type Game struct {
	ID             int64     `db:"id"`
	GameID         int64     `db:"game_id"`
	Season         int       `db:"season"`
	DateStart      time.Time `db:"date_start"`
	HomeTeamID     int64     `db:"home_team_id"`
	VisitorsTeamID int64     `db:"visitors_team_id"`
	HomePoints     *int      `db:"home_team_points"`
	VisitorsPoints *int      `db:"visitors_team_points"`
	ArenaID        int64     `db:"arena_id"`
	Status         string    `db:"status"`
}

// LineScore is one team's points in one quarter of one game.
type LineScore struct {
	ID      int64 `db:"id"`
	GameID  int64 `db:"game_id"`
	TeamID  int64 `db:"team_id"`
	Quarter int   `db:"quarter"`
	Points  int   `db:"points"`
}

/// GameSummary is the joined read model: one game with both team names,
// logos and the arena resolved.
type GameSummary struct {
	ID               int64     `json:"id"`
	GameID           int64     `json:"game_id"`
	Season           int       `json:"season"`
	DateStart        time.Time `json:"-"`
	Status           string    `json:"status"`
	HomeTeamID       int64     `json:"home_team_id"`
	VisitorsTeamID   int64     `json:"visitors_team_id"`
	HomePoints       *int      `json:"home_team_points"`
	VisitorsPoints   *int      `json:"visitors_team_points"`
	HomeTeamName     string    `json:"home_team_name"`
	HomeTeamLogo     string    `json:"home_team_logo"`
	VisitorsTeamName string    `json:"visitors_team_name"`
	VisitorsTeamLogo string    `json:"visitors_team_logo"`
	ArenaName        string    `json:"arena_name"`
	ArenaCity        string    `json:"arena_city"`
	ArenaState       string    `json:"arena_state"`
}

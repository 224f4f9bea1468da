// internal/models/match_result.go
package models

// MatchResult is the immutable box score of a finished room, written once
// to storage. Team modes comma-join the member ids.
type MatchResult struct {
	GameID         string
	PlayerOneID    string
	PlayerOneScore int
	PlayerTwoID    string
	PlayerTwoScore int
	WinnerID       string
	Mode           string
	DurationMs     int64

	// TournamentID is set only for tournament-seeded rooms; it selects
	// whether a progression event is emitted alongside the persisted row.
	TournamentID string
}

// MatchResultEvent is the progression signal the tournament bracket
// service consumes from the message bus.
type MatchResultEvent struct {
	WinnerID     string `json:"winnerId"`
	GameMatchID  string `json:"gameMatchId"`
	TournamentID string `json:"tournamentId"`
}

// internal/database/match_result.go
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pongarena/matchengine/internal/models"
)

// Store runs match-result queries against a pgx pool.
type Store struct {
	Pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Pool: pool}
}

// InsertMatchResult records one finished match. GameID is the primary
// key, so a replayed finish for the same room is rejected by the db.
func (s *Store) InsertMatchResult(ctx context.Context, res *models.MatchResult) error {
	q := `
		INSERT INTO match_results
			(game_id, player_one_id, player_one_score, player_two_id, player_two_score, winner_id, game_mode, duration_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.Pool.Exec(ctx, q,
		res.GameID,
		res.PlayerOneID,
		res.PlayerOneScore,
		res.PlayerTwoID,
		res.PlayerTwoScore,
		res.WinnerID,
		res.Mode,
		res.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("insert match result: %w", err)
	}
	return nil
}

package domain

import "time"

// MatchOutcome is the per-player result of a completed match.
type MatchOutcome string

const (
	MatchOutcomeWin  MatchOutcome = "win"
	MatchOutcomeLose MatchOutcome = "lose"
)

// MatchRecord is one player's row in the match history. A completed
// match produces one row per participant.
type MatchRecord struct {
	ID          int64        `db:"id" json:"id"`
	MatchID     string       `db:"match_id" json:"match_id"`
	PlayerID    int64        `db:"player_id" json:"player_id"`
	OpponentID  int64        `db:"opponent_id" json:"opponent_id"`
	Outcome     MatchOutcome `db:"outcome" json:"outcome"`
	Reason      string       `db:"reason" json:"reason"`
	RatingAfter int          `db:"rating_after" json:"rating_after"`
	RatingDelta int          `db:"rating_delta" json:"rating_delta"`
	CreatedAt   time.Time    `db:"created_at" json:"created_at"`
}

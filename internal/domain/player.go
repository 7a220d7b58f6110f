package domain

import "time"

type Player struct {
	ID        int64     `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// RatingEntry is a leaderboard row.
type RatingEntry struct {
	PlayerID int64  `db:"player_id" json:"player_id"`
	Username string `db:"username" json:"username"`
	Rating   int    `db:"rating" json:"rating"`
}

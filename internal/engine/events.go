package engine

// Notification events emitted to the session layer for fan-out to match
// participants. The engine only needs a sink; delivery is not its
// concern.

const (
	EventMatched           = "matched"
	EventPlacementAccepted = "placement_accepted"
	EventStarted           = "started"
	EventShot              = "shot"
	EventFinished          = "finished"
	EventRematchVote       = "rematch_vote"
	EventRematchStarted    = "rematch_started"
	EventPlayerLeft        = "player_left"
	EventAborted           = "match_aborted"
)

// Sink receives (audience, event, payload) tuples. Implementations must
// not block the engine; the ws hub queues per-client sends.
type Sink interface {
	Emit(audience []int64, event string, payload any)
}

// NopSink discards all events. Used by tests and tooling.
type NopSink struct{}

func (NopSink) Emit([]int64, string, any) {}

// Finish reasons.
const (
	ReasonAllShipsSunk = "all_ships_sunk"
	ReasonForfeit      = "forfeit"
)

// MatchSummary is the caller-facing view of a match.
type MatchSummary struct {
	ID      string  `json:"match_id"`
	Players []int64 `json:"players"`
	Turn    int64   `json:"turn,omitempty"`
	State   State   `json:"state"`
}

type MatchedPayload struct {
	MatchID string  `json:"match_id"`
	Players []int64 `json:"players"`
	Turn    int64   `json:"turn"`
}

type PlacementPayload struct {
	MatchID  string `json:"match_id"`
	PlayerID int64  `json:"player_id"`
}

type StartedPayload struct {
	MatchID string `json:"match_id"`
	Turn    int64  `json:"turn"`
}

type FinishedPayload struct {
	MatchID  string        `json:"match_id"`
	WinnerID int64         `json:"winner_id"`
	Reason   string        `json:"reason"`
	Rating   *RatingChange `json:"rating,omitempty"`
}

type PlayerLeftPayload struct {
	MatchID  string `json:"match_id"`
	PlayerID int64  `json:"player_id"`
}

type AbortedPayload struct {
	MatchID string `json:"match_id"`
}

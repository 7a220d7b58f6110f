package engine

import (
	"math"
	"sync"
)

// BaseRating seeds every player on first reference.
const BaseRating = 1000

// RatingPolicy selects how completed matches adjust ratings. The policy
// is fixed at table construction and never changes afterwards.
type RatingPolicy string

const (
	// PolicyFixed moves a constant K from loser to winner, floored at 0.
	PolicyFixed RatingPolicy = "fixed"
	// PolicyElo applies the Elo expected-score update with factor K.
	PolicyElo RatingPolicy = "elo"
)

const (
	DefaultFixedK = 25
	DefaultEloK   = 32
)

// RatingChange reports one applied update, including the pre-update
// deltas so the session layer can broadcast them.
type RatingChange struct {
	WinnerID    int64 `json:"winner_id"`
	LoserID     int64 `json:"loser_id"`
	Winner      int   `json:"winner_rating"`
	Loser       int   `json:"loser_rating"`
	WinnerDelta int   `json:"winner_delta"`
	LoserDelta  int   `json:"loser_delta"`
}

// Ratings is the process-wide skill table. Entries are seeded lazily and
// never removed. Both sides of a match update are computed from the
// pre-update pair under a single critical section.
type Ratings struct {
	mu       sync.Mutex
	policy   RatingPolicy
	k        int
	byPlayer map[int64]int
}

func NewRatings(policy RatingPolicy, k int) *Ratings {
	if policy != PolicyFixed {
		policy = PolicyElo
	}
	if k <= 0 {
		if policy == PolicyFixed {
			k = DefaultFixedK
		} else {
			k = DefaultEloK
		}
	}
	return &Ratings{
		policy:   policy,
		k:        k,
		byPlayer: make(map[int64]int),
	}
}

// Get returns a player's rating, seeding it at BaseRating on first
// reference.
func (r *Ratings) Get(playerID int64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(playerID)
}

// ApplyResult adjusts both ratings for one completed match.
func (r *Ratings) ApplyResult(winnerID, loserID int64) RatingChange {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, l := r.get(winnerID), r.get(loserID)

	var nw, nl int
	switch r.policy {
	case PolicyFixed:
		nw, nl = applyFixed(w, l, r.k)
	default:
		nw, nl = applyElo(w, l, r.k)
	}

	r.byPlayer[winnerID] = nw
	r.byPlayer[loserID] = nl

	return RatingChange{
		WinnerID:    winnerID,
		LoserID:     loserID,
		Winner:      nw,
		Loser:       nl,
		WinnerDelta: nw - w,
		LoserDelta:  nl - l,
	}
}

func (r *Ratings) get(playerID int64) int {
	v, ok := r.byPlayer[playerID]
	if !ok {
		v = BaseRating
		r.byPlayer[playerID] = v
	}
	return v
}

// applyFixed is the constant-delta policy: winner +k, loser -k with a
// floor of 0.
func applyFixed(winner, loser, k int) (newWinner, newLoser int) {
	newWinner = winner + k
	newLoser = loser - k
	if newLoser < 0 {
		newLoser = 0
	}
	return newWinner, newLoser
}

// applyElo is the expected-score policy. No floor: the expected score
// lies in (0, 1), so adjustments shrink as ratings drift apart.
func applyElo(winner, loser, k int) (newWinner, newLoser int) {
	expected := 1 / (1 + math.Pow(10, float64(loser-winner)/400))
	delta := float64(k) * (1 - expected)
	newWinner = winner + int(math.Round(delta))
	newLoser = loser - int(math.Round(delta))
	return newWinner, newLoser
}

package engine

import (
	"context"
	"time"

	"seabattle_backend/internal/logger"
)

// MatchResult is handed to the Recorder when a match completes.
type MatchResult struct {
	MatchID  string
	WinnerID int64
	LoserID  int64
	Reason   string
	Change   RatingChange
}

// Recorder persists completed matches and rating snapshots. Writes are
// best-effort and asynchronous; in-flight match state is never stored.
type Recorder interface {
	RecordResult(ctx context.Context, res MatchResult) error
	SaveRating(ctx context.Context, playerID int64, rating int) error
}

// Engine wires the matchmaking queue, the match registry and the rating
// table behind the player-action API. All stores are constructed at
// startup and owned here; nothing is package-global.
type Engine struct {
	queue    *Queue
	registry *Registry
	ratings  *Ratings
	sink     Sink
	recorder Recorder
}

func New(ratings *Ratings, sink Sink, recorder Recorder) *Engine {
	if sink == nil {
		sink = NopSink{}
	}
	return &Engine{
		queue:    NewQueue(),
		registry: NewRegistry(),
		ratings:  ratings,
		sink:     sink,
		recorder: recorder,
	}
}

// Ratings exposes the rating table for read paths (leaderboard, profile).
func (e *Engine) Ratings() *Ratings { return e.ratings }

// Stats reports current queue depth and live match count.
func (e *Engine) Stats() (queued, matches int) {
	return e.queue.Len(), e.registry.Count()
}

// EnqueueResult is the direct reply to an enqueue action.
type EnqueueResult struct {
	Queued bool          `json:"queued"`
	Match  *MatchSummary `json:"match,omitempty"`
}

// Enqueue puts a player on the waiting list. When this makes a pair, the
// two oldest waiters get a match in waiting state, first-in as
// first-mover, and both are notified.
func (e *Engine) Enqueue(playerID int64) *EnqueueResult {
	pair, paired := e.queue.Enqueue(playerID)
	if !paired {
		return &EnqueueResult{Queued: true}
	}

	m := e.registry.Create(pair[0], pair[1])
	players := m.Players()
	turn := m.Turn()

	logger.Info("match paired", "match_id", m.ID, "players", players)
	e.sink.Emit(players, EventMatched, MatchedPayload{MatchID: m.ID, Players: players, Turn: turn})

	return &EnqueueResult{Match: &MatchSummary{ID: m.ID, Players: players, Turn: turn, State: m.State()}}
}

// CreateMatch opens a match with a single seat filled, joinable by id.
func (e *Engine) CreateMatch(playerID int64) *MatchSummary {
	m := e.registry.Create(playerID)
	logger.Info("match created", "match_id", m.ID, "player", playerID)
	return &MatchSummary{ID: m.ID, Players: m.Players(), Turn: m.Turn(), State: m.State()}
}

// JoinMatch seats a player in an existing waiting match.
func (e *Engine) JoinMatch(matchID string, playerID int64) (*MatchSummary, error) {
	m, err := e.registry.Get(matchID)
	if err != nil {
		return nil, err
	}
	players, err := m.Join(playerID)
	if err != nil {
		return nil, err
	}

	turn := m.Turn()
	e.sink.Emit(players, EventMatched, MatchedPayload{MatchID: m.ID, Players: players, Turn: turn})
	return &MatchSummary{ID: m.ID, Players: players, Turn: turn, State: m.State()}, nil
}

// PlacementResult is the direct reply to a placement submission.
type PlacementResult struct {
	Accepted bool  `json:"accepted"`
	Started  bool  `json:"started"`
	Turn     int64 `json:"turn,omitempty"`
}

// SubmitPlacement stores a layout and starts the match once both
// players have submitted.
func (e *Engine) SubmitPlacement(matchID string, playerID int64, ships []Ship) (*PlacementResult, error) {
	m, err := e.registry.Get(matchID)
	if err != nil {
		return nil, err
	}
	started, turn, err := m.SubmitPlacement(playerID, ships)
	if err != nil {
		return nil, err
	}

	players := m.Players()
	e.sink.Emit(players, EventPlacementAccepted, PlacementPayload{MatchID: matchID, PlayerID: playerID})
	if started {
		logger.Info("match started", "match_id", matchID, "turn", turn)
		e.sink.Emit(players, EventStarted, StartedPayload{MatchID: matchID, Turn: turn})
	}
	return &PlacementResult{Accepted: true, Started: started, Turn: turn}, nil
}

// Fire resolves a shot. The outcome is returned synchronously to the
// shooter and broadcast to all participants; on a finishing shot the
// rating update runs before the finished event is emitted so the
// broadcast carries the deltas.
func (e *Engine) Fire(matchID string, playerID int64, x, y int) (*FireOutcome, error) {
	m, err := e.registry.Get(matchID)
	if err != nil {
		return nil, err
	}
	out, err := m.Fire(playerID, x, y)
	if err != nil {
		return nil, err
	}

	players := m.Players()
	e.sink.Emit(players, EventShot, out)

	if out.Finished {
		loserID := int64(0)
		for _, p := range players {
			if p != out.WinnerID {
				loserID = p
			}
		}
		e.finishMatch(m, out.WinnerID, loserID, ReasonAllShipsSunk, players)
	}
	return out, nil
}

// RequestRematch records a rematch vote and broadcasts either the vote
// or the restart once all participants agree.
func (e *Engine) RequestRematch(matchID string, playerID int64) (*RematchStatus, error) {
	m, err := e.registry.Get(matchID)
	if err != nil {
		return nil, err
	}
	st, err := m.RequestRematch(playerID)
	if err != nil {
		return nil, err
	}

	players := m.Players()
	if st.Restarted {
		logger.Info("rematch started", "match_id", matchID, "turn", st.Turn)
		e.sink.Emit(players, EventRematchStarted, st)
	} else {
		e.sink.Emit(players, EventRematchVote, st)
	}
	return st, nil
}

// Leave removes a player from the queue and from the match. A started
// match is forfeited to the opponent; otherwise the match is aborted.
// The match is discarded either way.
func (e *Engine) Leave(matchID string, playerID int64) (*LeaveOutcome, error) {
	e.queue.Remove(playerID)

	m, err := e.registry.Get(matchID)
	if err != nil {
		return nil, err
	}
	return e.leaveMatch(m, playerID)
}

// Disconnect is the session layer's hook: dequeue the player and apply
// the leave path to every match they occupy.
func (e *Engine) Disconnect(playerID int64) {
	e.queue.Remove(playerID)

	for _, m := range e.registry.FindByPlayer(playerID) {
		if _, err := e.leaveMatch(m, playerID); err != nil {
			logger.Warn("disconnect leave failed", "match_id", m.ID, "player", playerID, "error", err)
		}
	}
}

func (e *Engine) leaveMatch(m *Match, playerID int64) (*LeaveOutcome, error) {
	out, err := m.Leave(playerID)
	if err != nil {
		return nil, err
	}

	remaining := m.Players()
	e.sink.Emit(remaining, EventPlayerLeft, PlayerLeftPayload{MatchID: m.ID, PlayerID: playerID})

	if out.Forfeit {
		logger.Info("match forfeited", "match_id", m.ID, "left", playerID, "winner", out.WinnerID)
		e.finishMatch(m, out.WinnerID, playerID, ReasonForfeit, remaining)
	} else {
		e.sink.Emit(remaining, EventAborted, AbortedPayload{MatchID: m.ID})
	}

	e.registry.Remove(m.ID)
	return out, nil
}

// finishMatch applies the rating update, persists the result and emits
// the finished event. The rating pair is read and written in one
// critical section inside ApplyResult.
func (e *Engine) finishMatch(m *Match, winnerID, loserID int64, reason string, audience []int64) {
	change := e.ratings.ApplyResult(winnerID, loserID)

	e.sink.Emit(audience, EventFinished, FinishedPayload{
		MatchID:  m.ID,
		WinnerID: winnerID,
		Reason:   reason,
		Rating:   &change,
	})

	if e.recorder != nil {
		res := MatchResult{MatchID: m.ID, WinnerID: winnerID, LoserID: loserID, Reason: reason, Change: change}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := e.recorder.RecordResult(ctx, res); err != nil {
				logger.Error("record match result failed", "match_id", res.MatchID, "error", err)
			}
			if err := e.recorder.SaveRating(ctx, res.WinnerID, change.Winner); err != nil {
				logger.Error("save rating failed", "player", res.WinnerID, "error", err)
			}
			if err := e.recorder.SaveRating(ctx, res.LoserID, change.Loser); err != nil {
				logger.Error("save rating failed", "player", res.LoserID, "error", err)
			}
		}()
	}
}

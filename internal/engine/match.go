package engine

import (
	"math/rand"
	"sync"
)

// Match lifecycle states.
type State string

const (
	StateWaiting  State = "waiting"
	StateStarted  State = "started"
	StateFinished State = "finished"
	StateAborted  State = "aborted"
)

// Match is the stateful aggregate for one game session. All mutating
// operations serialize on mu; Fire uses TryLock so a caller never waits
// behind a concurrent operation on the same match (it gets busy and
// retries). Player IDs are positive, 0 means "no player".
type Match struct {
	ID string

	mu         sync.Mutex
	state      State
	players    []int64
	placements map[int64][]Ship
	shots      map[int64]map[int]ShotResult
	hits       map[int64]map[int]bool
	votes      map[int64]bool
	turn       int64
	winner     int64
	generation int

	// pick returns a random int in [0, n); swapped out in tests.
	pick func(n int) int
}

func newMatch(id string, players ...int64) *Match {
	m := &Match{
		ID:         id,
		state:      StateWaiting,
		players:    append([]int64(nil), players...),
		placements: make(map[int64][]Ship),
		shots:      make(map[int64]map[int]ShotResult),
		hits:       make(map[int64]map[int]bool),
		votes:      make(map[int64]bool),
		pick:       rand.Intn,
	}
	if len(m.players) > 0 {
		m.turn = m.players[0]
	}
	return m
}

// FireOutcome is the uniform result of a resolved shot. It is both the
// direct reply to the shooter and the broadcast payload for the match.
type FireOutcome struct {
	MatchID   string     `json:"match_id"`
	ShooterID int64      `json:"shooter_id"`
	X         int        `json:"x"`
	Y         int        `json:"y"`
	Index     int        `json:"index"`
	Result    ShotResult `json:"result"`
	NextTurn  int64      `json:"next_turn,omitempty"`
	Finished  bool       `json:"finished"`
	WinnerID  int64      `json:"winner_id,omitempty"`
	Sunk      *SunkShip  `json:"sunk,omitempty"`
}

// RematchStatus reports the effect of a rematch vote.
type RematchStatus struct {
	MatchID   string `json:"match_id"`
	Votes     int    `json:"votes"`
	Needed    int    `json:"needed"`
	Restarted bool   `json:"restarted"`
	Turn      int64  `json:"turn,omitempty"`
}

// LeaveOutcome reports what happened to the match when a player left.
type LeaveOutcome struct {
	MatchID  string `json:"match_id"`
	PlayerID int64  `json:"player_id"`
	Forfeit  bool   `json:"forfeit"`
	Aborted  bool   `json:"aborted"`
	WinnerID int64  `json:"winner_id,omitempty"`
}

// Join adds a second player to a waiting match. Joining a match you are
// already in is a no-op.
func (m *Match) Join(playerID int64) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.hasPlayer(playerID) {
		return m.playersCopy(), nil
	}
	if m.state != StateWaiting {
		return nil, newError(CodeInvalidState, "match is not joinable")
	}
	if len(m.players) >= 2 {
		return nil, ErrMatchFull
	}

	m.players = append(m.players, playerID)
	if m.turn == 0 {
		m.turn = m.players[0]
	}
	return m.playersCopy(), nil
}

// SubmitPlacement stores a player's ship layout. The layout is taken
// verbatim apart from a bounds check; adjacency/overlap legality is not
// the engine's concern. The second distinct placement starts the match.
func (m *Match) SubmitPlacement(playerID int64, ships []Ship) (started bool, turn int64, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.hasPlayer(playerID) {
		return false, 0, newError(CodeInvalidState, "player is not in this match")
	}
	if m.state != StateWaiting {
		return false, 0, newError(CodeInvalidState, "placement only allowed before start")
	}
	for _, s := range ships {
		for _, c := range s.Cells {
			if !ValidIndex(c) {
				return false, 0, ErrOutOfBounds
			}
		}
	}

	placed := make([]Ship, len(ships))
	for i, s := range ships {
		placed[i] = s
		placed[i].Cells = append([]int(nil), s.Cells...)
	}
	m.placements[playerID] = placed
	if m.shots[playerID] == nil {
		m.shots[playerID] = make(map[int]ShotResult)
	}
	if m.hits[playerID] == nil {
		m.hits[playerID] = make(map[int]bool)
	}

	if len(m.players) == 2 && len(m.placements) == 2 {
		m.state = StateStarted
		if m.turn == 0 {
			m.turn = m.players[0]
		}
		return true, m.turn, nil
	}
	return false, 0, nil
}

// Fire resolves a shot at (x, y) by playerID. See the turn rule below:
// a miss passes the turn, a hit or sunk keeps it, so turns run in
// streaks rather than strict alternation.
func (m *Match) Fire(playerID int64, x, y int) (*FireOutcome, error) {
	if !m.mu.TryLock() {
		return nil, ErrBusy
	}
	defer m.mu.Unlock()

	if m.state != StateStarted {
		return nil, ErrMatchNotStarted
	}
	if playerID != m.turn {
		return nil, ErrNotYourTurn
	}
	index, ok := CellIndex(x, y)
	if !ok {
		return nil, ErrOutOfBounds
	}
	if prior, fired := m.shots[playerID][index]; fired {
		return nil, &AlreadyShotError{Index: index, Result: prior}
	}

	// Record before resolving so a duplicate request for the same cell
	// is rejected even if it races this one.
	m.shots[playerID][index] = ShotMiss

	opponent := m.opponentOf(playerID)
	if opponent == 0 {
		return nil, ErrNoOpponent
	}

	out := &FireOutcome{
		MatchID:   m.ID,
		ShooterID: playerID,
		X:         x,
		Y:         y,
		Index:     index,
		Result:    ShotMiss,
	}

	for _, ship := range m.placements[opponent] {
		if !containsCell(ship.Cells, index) {
			continue
		}
		out.Result = ShotHit
		m.hits[opponent][index] = true
		if m.shipSunk(opponent, ship) {
			out.Result = ShotSunk
			out.Sunk = sunkDescriptor(opponent, ship)
		}
		break
	}
	m.shots[playerID][index] = out.Result

	if len(m.hits[opponent]) >= m.totalCells(opponent) {
		m.state = StateFinished
		m.winner = playerID
		m.turn = 0
		out.Finished = true
		out.WinnerID = playerID
		return out, nil
	}

	if out.Result == ShotMiss {
		m.turn = opponent
	}
	out.NextTurn = m.turn
	return out, nil
}

// RequestRematch records a rematch vote. Once every participant has
// voted, the match is re-armed in place: same id, same players, cleared
// boards, and a randomly chosen first-mover so neither player keeps a
// systematic advantage across rounds.
func (m *Match) RequestRematch(playerID int64) (*RematchStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.hasPlayer(playerID) {
		return nil, newError(CodeInvalidState, "player is not in this match")
	}
	if m.state != StateFinished {
		return nil, newError(CodeInvalidState, "rematch only allowed after finish")
	}

	m.votes[playerID] = true
	st := &RematchStatus{MatchID: m.ID, Votes: len(m.votes), Needed: len(m.players)}
	if len(m.votes) < len(m.players) {
		return st, nil
	}

	m.generation++
	m.placements = make(map[int64][]Ship)
	m.shots = make(map[int64]map[int]ShotResult)
	m.hits = make(map[int64]map[int]bool)
	m.votes = make(map[int64]bool)
	m.winner = 0
	m.state = StateWaiting
	m.turn = m.players[m.pick(len(m.players))]

	st.Restarted = true
	st.Turn = m.turn
	return st, nil
}

// Leave removes a player. A started match is forfeited to the remaining
// player; a waiting match is aborted. A finished match stays finished
// (the registry simply discards it).
func (m *Match) Leave(playerID int64) (*LeaveOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.hasPlayer(playerID) {
		return nil, newError(CodeInvalidState, "player is not in this match")
	}

	out := &LeaveOutcome{MatchID: m.ID, PlayerID: playerID}

	switch m.state {
	case StateStarted:
		m.state = StateFinished
		m.winner = m.opponentOf(playerID)
		m.turn = 0
		out.Forfeit = true
		out.WinnerID = m.winner
	case StateWaiting:
		m.state = StateAborted
		m.turn = 0
		out.Aborted = true
	}

	m.removePlayer(playerID)
	return out, nil
}

// Snapshot accessors. Each takes the match lock so readers never see a
// half-applied operation.

func (m *Match) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Match) Players() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playersCopy()
}

func (m *Match) Turn() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.turn
}

func (m *Match) Winner() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.winner
}

func (m *Match) Generation() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generation
}

func (m *Match) HasPlayer(playerID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hasPlayer(playerID)
}

// internal helpers, caller must hold mu

func (m *Match) hasPlayer(playerID int64) bool {
	for _, p := range m.players {
		if p == playerID {
			return true
		}
	}
	return false
}

func (m *Match) opponentOf(playerID int64) int64 {
	for _, p := range m.players {
		if p != playerID {
			return p
		}
	}
	return 0
}

func (m *Match) removePlayer(playerID int64) {
	for i, p := range m.players {
		if p == playerID {
			m.players = append(m.players[:i], m.players[i+1:]...)
			return
		}
	}
}

func (m *Match) playersCopy() []int64 {
	return append([]int64(nil), m.players...)
}

func (m *Match) shipSunk(ownerID int64, ship Ship) bool {
	for _, c := range ship.Cells {
		if !m.hits[ownerID][c] {
			return false
		}
	}
	return len(ship.Cells) > 0
}

func (m *Match) totalCells(ownerID int64) int {
	total := 0
	for _, s := range m.placements[ownerID] {
		total += len(s.Cells)
	}
	return total
}

func containsCell(cells []int, index int) bool {
	for _, c := range cells {
		if c == index {
			return true
		}
	}
	return false
}

package engine

import (
	"context"
	"sync"
	"testing"
	"time"
)

type capturedEvent struct {
	Audience []int64
	Name     string
	Payload  any
}

type captureSink struct {
	mu     sync.Mutex
	events []capturedEvent
}

func (s *captureSink) Emit(audience []int64, event string, payload any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, capturedEvent{Audience: audience, Name: event, Payload: payload})
}

func (s *captureSink) named(name string) []capturedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []capturedEvent
	for _, e := range s.events {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

type fakeRecorder struct {
	results chan MatchResult
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{results: make(chan MatchResult, 4)}
}

func (r *fakeRecorder) RecordResult(ctx context.Context, res MatchResult) error {
	r.results <- res
	return nil
}

func (r *fakeRecorder) SaveRating(ctx context.Context, playerID int64, rating int) error {
	return nil
}

func newTestEngine(sink Sink, rec Recorder) *Engine {
	return New(NewRatings(PolicyElo, 32), sink, rec)
}

func pairUp(t *testing.T, e *Engine) string {
	t.Helper()

	if res := e.Enqueue(playerA); !res.Queued || res.Match != nil {
		t.Fatalf("first enqueue = %+v; want queued", res)
	}
	res := e.Enqueue(playerB)
	if res.Match == nil {
		t.Fatal("second enqueue did not pair")
	}
	if res.Match.Turn != playerA {
		t.Fatalf("paired turn = %d; want first-in %d", res.Match.Turn, playerA)
	}
	return res.Match.ID
}

func placeBoth(t *testing.T, e *Engine, matchID string) {
	t.Helper()
	fleet := []Ship{{Cells: []int{0}, Size: 1, Orientation: "horizontal"}}
	if _, err := e.SubmitPlacement(matchID, playerA, fleet); err != nil {
		t.Fatalf("placement A: %v", err)
	}
	res, err := e.SubmitPlacement(matchID, playerB, fleet)
	if err != nil {
		t.Fatalf("placement B: %v", err)
	}
	if !res.Started {
		t.Fatal("match did not start after both placements")
	}
}

func TestEnqueuePairsAndNotifies(t *testing.T) {
	sink := &captureSink{}
	e := newTestEngine(sink, nil)

	pairUp(t, e)

	matched := sink.named(EventMatched)
	if len(matched) != 1 {
		t.Fatalf("matched events = %d; want 1", len(matched))
	}
	if aud := matched[0].Audience; len(aud) != 2 {
		t.Fatalf("matched audience = %v; want both players", aud)
	}
}

func TestEnqueueIdempotent(t *testing.T) {
	e := newTestEngine(nil, nil)
	e.Enqueue(playerA)
	if res := e.Enqueue(playerA); res.Match != nil {
		t.Fatal("double enqueue paired a player with itself")
	}
}

func TestFullGameUpdatesRatings(t *testing.T) {
	sink := &captureSink{}
	rec := newFakeRecorder()
	e := newTestEngine(sink, rec)

	matchID := pairUp(t, e)
	placeBoth(t, e, matchID)

	out, err := e.Fire(matchID, playerA, 0, 0)
	if err != nil {
		t.Fatalf("fire: %v", err)
	}
	if !out.Finished || out.WinnerID != playerA {
		t.Fatalf("outcome = %+v; want finished win for A", out)
	}

	if got := e.Ratings().Get(playerA); got <= BaseRating {
		t.Fatalf("winner rating = %d; want above %d", got, BaseRating)
	}
	if got := e.Ratings().Get(playerB); got >= BaseRating {
		t.Fatalf("loser rating = %d; want below %d", got, BaseRating)
	}

	fin := sink.named(EventFinished)
	if len(fin) != 1 {
		t.Fatalf("finished events = %d; want 1", len(fin))
	}
	payload, ok := fin[0].Payload.(FinishedPayload)
	if !ok || payload.Rating == nil {
		t.Fatalf("finished payload = %+v; want rating change attached", fin[0].Payload)
	}
	if payload.Reason != ReasonAllShipsSunk {
		t.Fatalf("reason = %s; want %s", payload.Reason, ReasonAllShipsSunk)
	}

	select {
	case res := <-rec.results:
		if res.WinnerID != playerA || res.LoserID != playerB {
			t.Fatalf("recorded result = %+v", res)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("match result was never recorded")
	}
}

func TestLeaveStartedForfeitsAndDiscards(t *testing.T) {
	sink := &captureSink{}
	rec := newFakeRecorder()
	e := newTestEngine(sink, rec)

	matchID := pairUp(t, e)
	placeBoth(t, e, matchID)

	out, err := e.Leave(matchID, playerB)
	if err != nil {
		t.Fatalf("leave: %v", err)
	}
	if !out.Forfeit || out.WinnerID != playerA {
		t.Fatalf("leave outcome = %+v; want forfeit win for A", out)
	}

	select {
	case res := <-rec.results:
		if res.Reason != ReasonForfeit || res.WinnerID != playerA || res.LoserID != playerB {
			t.Fatalf("recorded forfeit = %+v", res)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("forfeit was never recorded")
	}

	if _, err := e.Fire(matchID, playerA, 0, 0); CodeOf(err) != CodeMatchNotFound {
		t.Fatalf("fire after leave err = %v; want %s", err, CodeMatchNotFound)
	}
}

func TestLeaveWaitingAborts(t *testing.T) {
	sink := &captureSink{}
	e := newTestEngine(sink, nil)

	matchID := pairUp(t, e)
	out, err := e.Leave(matchID, playerA)
	if err != nil {
		t.Fatalf("leave: %v", err)
	}
	if !out.Aborted {
		t.Fatalf("leave outcome = %+v; want abort", out)
	}
	if len(sink.named(EventAborted)) != 1 {
		t.Fatal("abort was not broadcast")
	}
	if _, err := e.JoinMatch(matchID, playerB); CodeOf(err) != CodeMatchNotFound {
		t.Fatal("aborted match still joinable")
	}
}

func TestDisconnectDequeuesAndForfeits(t *testing.T) {
	e := newTestEngine(nil, nil)

	// queued player disappears cleanly
	e.Enqueue(playerA)
	e.Disconnect(playerA)
	if res := e.Enqueue(playerB); res.Match != nil {
		t.Fatal("disconnected player was still paired")
	}
	e.Disconnect(playerB)

	// in-match player forfeits
	matchID := pairUp(t, e)
	placeBoth(t, e, matchID)
	e.Disconnect(playerB)

	if got := e.Ratings().Get(playerA); got <= BaseRating {
		t.Fatalf("disconnect forfeit did not credit remaining player: rating %d", got)
	}
	if _, err := e.Fire(matchID, playerA, 0, 0); CodeOf(err) != CodeMatchNotFound {
		t.Fatal("match survived participant disconnect")
	}
}

func TestCreateAndJoinMatch(t *testing.T) {
	e := newTestEngine(nil, nil)

	sum := e.CreateMatch(playerA)
	if sum.State != StateWaiting || sum.Turn != playerA {
		t.Fatalf("created summary = %+v", sum)
	}

	joined, err := e.JoinMatch(sum.ID, playerB)
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if len(joined.Players) != 2 {
		t.Fatalf("players = %v; want 2 seats filled", joined.Players)
	}

	if _, err := e.JoinMatch(sum.ID, 99); CodeOf(err) != CodeMatchFull {
		t.Fatalf("third join err = %v; want %s", err, CodeMatchFull)
	}
	if _, err := e.JoinMatch("missing", playerA); CodeOf(err) != CodeMatchNotFound {
		t.Fatalf("join missing err = %v; want %s", err, CodeMatchNotFound)
	}
}

func TestRematchThroughFacade(t *testing.T) {
	sink := &captureSink{}
	e := newTestEngine(sink, nil)

	matchID := pairUp(t, e)
	placeBoth(t, e, matchID)
	if _, err := e.Fire(matchID, playerA, 0, 0); err != nil {
		t.Fatalf("fire: %v", err)
	}

	st, err := e.RequestRematch(matchID, playerA)
	if err != nil || st.Restarted {
		t.Fatalf("first vote: st=%+v err=%v", st, err)
	}
	st, err = e.RequestRematch(matchID, playerB)
	if err != nil || !st.Restarted {
		t.Fatalf("second vote: st=%+v err=%v", st, err)
	}

	if len(sink.named(EventRematchStarted)) != 1 {
		t.Fatal("rematch start was not broadcast")
	}

	// same match id plays a fresh generation
	placeBoth(t, e, matchID)
	m, err := e.registry.Get(matchID)
	if err != nil {
		t.Fatalf("match gone after rematch: %v", err)
	}
	if m.Generation() != 1 || m.State() != StateStarted {
		t.Fatalf("generation=%d state=%s", m.Generation(), m.State())
	}
}

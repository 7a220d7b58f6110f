package ws

import (
	"encoding/json"
	"fmt"
	"testing"

	"seabattle_backend/internal/engine"
)

func newTestHub() *Hub {
	h := NewHub()
	h.Bind(engine.New(engine.NewRatings(engine.PolicyElo, 32), h, nil))
	return h
}

func addClient(h *Hub, playerID int64) *Client {
	c := &Client{PlayerID: playerID, Send: make(chan []byte, sendBuffSize), hub: h}
	h.mu.Lock()
	h.clients[playerID] = c
	h.mu.Unlock()
	return c
}

// drain empties a client's send queue and returns the decoded messages.
func drain(t *testing.T, c *Client) []Message {
	t.Helper()
	var out []Message
	for {
		select {
		case data := <-c.Send:
			var m Message
			if err := json.Unmarshal(data, &m); err != nil {
				t.Fatalf("bad message on wire: %v", err)
			}
			out = append(out, m)
		default:
			return out
		}
	}
}

func lastOfType(msgs []Message, typ string) (Message, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Type == typ {
			return msgs[i], true
		}
	}
	return Message{}, false
}

func req(t *testing.T, typ string, payload any) []byte {
	t.Helper()
	var raw json.RawMessage
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		raw = b
	}
	b, err := json.Marshal(Envelope{Type: typ, Payload: raw})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return b
}

func TestDispatchEnqueueAndMatch(t *testing.T) {
	h := newTestHub()
	a := addClient(h, 1)
	b := addClient(h, 2)

	h.HandleMessage(a, req(t, MsgEnqueue, nil))
	msgs := drain(t, a)
	if _, ok := lastOfType(msgs, MsgQueued); !ok {
		t.Fatalf("first enqueue replies = %v; want queued", msgs)
	}

	h.HandleMessage(b, req(t, MsgEnqueue, nil))
	if _, ok := lastOfType(drain(t, a), engine.EventMatched); !ok {
		t.Fatal("player A did not receive matched broadcast")
	}
	if _, ok := lastOfType(drain(t, b), engine.EventMatched); !ok {
		t.Fatal("player B did not receive matched broadcast")
	}
}

func TestDispatchFullGame(t *testing.T) {
	h := newTestHub()
	a := addClient(h, 1)
	b := addClient(h, 2)

	h.HandleMessage(a, req(t, MsgEnqueue, nil))
	h.HandleMessage(b, req(t, MsgEnqueue, nil))

	matched, _ := lastOfType(drain(t, a), engine.EventMatched)
	payload, _ := matched.Payload.(map[string]any)
	matchID, _ := payload["match_id"].(string)
	if matchID == "" {
		t.Fatal("matched broadcast missing match_id")
	}
	drain(t, b)

	ships := []engine.Ship{{Cells: []int{0}, Size: 1, Orientation: "horizontal"}}
	h.HandleMessage(a, req(t, MsgPlaceShips, PlaceShipsPayload{MatchID: matchID, Ships: ships}))
	h.HandleMessage(b, req(t, MsgPlaceShips, PlaceShipsPayload{MatchID: matchID, Ships: ships}))

	if _, ok := lastOfType(drain(t, b), engine.EventStarted); !ok {
		t.Fatal("started event missing after both placements")
	}
	drain(t, a)

	// out-of-turn fire rejected with a stable code
	h.HandleMessage(b, req(t, MsgFire, FirePayload{MatchID: matchID, X: 0, Y: 0}))
	errMsg, ok := lastOfType(drain(t, b), MsgError)
	if !ok {
		t.Fatal("out-of-turn fire produced no error")
	}
	ep, _ := errMsg.Payload.(map[string]any)
	if ep["code"] != string(engine.CodeNotYourTurn) {
		t.Fatalf("error code = %v; want %s", ep["code"], engine.CodeNotYourTurn)
	}

	// winning shot: direct reply plus broadcasts to both
	h.HandleMessage(a, req(t, MsgFire, FirePayload{MatchID: matchID, X: 0, Y: 0}))

	aMsgs := drain(t, a)
	direct, ok := lastOfType(aMsgs, MsgFireResult)
	if !ok {
		t.Fatal("shooter got no direct fire result")
	}
	dp, _ := direct.Payload.(map[string]any)
	if dp["result"] != string(engine.ShotSunk) || dp["finished"] != true {
		t.Fatalf("fire result payload = %v", dp)
	}
	if _, ok := lastOfType(aMsgs, engine.EventFinished); !ok {
		t.Fatal("shooter missing finished broadcast")
	}

	bMsgs := drain(t, b)
	fin, ok := lastOfType(bMsgs, engine.EventFinished)
	if !ok {
		t.Fatal("opponent missing finished broadcast")
	}
	fp, _ := fin.Payload.(map[string]any)
	if fp["winner_id"] != float64(1) {
		t.Fatalf("finished winner = %v; want 1", fp["winner_id"])
	}
	if fp["rating"] == nil {
		t.Fatal("finished broadcast missing rating change")
	}
}

func TestDispatchValidation(t *testing.T) {
	h := newTestHub()
	c := addClient(h, 1)

	cases := []struct {
		name string
		raw  []byte
	}{
		{"malformed json", []byte(`{"type":`)},
		{"unknown type", req(t, "warp_drive", nil)},
		{"fire without payload", req(t, MsgFire, nil)},
		{"fire without match id", req(t, MsgFire, FirePayload{X: 1, Y: 1})},
		{"place without ships", req(t, MsgPlaceShips, PlaceShipsPayload{MatchID: "m"})},
	}

	for _, tc := range cases {
		h.HandleMessage(c, tc.raw)
		if _, ok := lastOfType(drain(t, c), MsgError); !ok {
			t.Fatalf("%s: no error reply", tc.name)
		}
	}
}

func TestDispatchAlreadyShotCarriesFact(t *testing.T) {
	h := newTestHub()
	a := addClient(h, 1)
	b := addClient(h, 2)

	h.HandleMessage(a, req(t, MsgEnqueue, nil))
	h.HandleMessage(b, req(t, MsgEnqueue, nil))
	matched, _ := lastOfType(drain(t, a), engine.EventMatched)
	payload, _ := matched.Payload.(map[string]any)
	matchID, _ := payload["match_id"].(string)

	ships := []engine.Ship{
		{Cells: []int{0}, Size: 1, Orientation: "horizontal"},
		{Cells: []int{50, 51}, Size: 2, Orientation: "horizontal"},
	}
	h.HandleMessage(a, req(t, MsgPlaceShips, PlaceShipsPayload{MatchID: matchID, Ships: ships}))
	h.HandleMessage(b, req(t, MsgPlaceShips, PlaceShipsPayload{MatchID: matchID, Ships: ships}))
	drain(t, a)
	drain(t, b)

	h.HandleMessage(a, req(t, MsgFire, FirePayload{MatchID: matchID, X: 0, Y: 0}))
	drain(t, a)
	h.HandleMessage(a, req(t, MsgFire, FirePayload{MatchID: matchID, X: 0, Y: 0}))

	errMsg, ok := lastOfType(drain(t, a), MsgError)
	if !ok {
		t.Fatal("duplicate fire produced no error")
	}
	ep, _ := errMsg.Payload.(map[string]any)
	if ep["code"] != string(engine.CodeAlreadyShot) {
		t.Fatalf("code = %v; want %s", ep["code"], engine.CodeAlreadyShot)
	}
	if fmt.Sprint(ep["index"]) != "0" || ep["result"] != string(engine.ShotSunk) {
		t.Fatalf("original fact not carried: %v", ep)
	}
}

func TestReplacedConnectionDoesNotForfeit(t *testing.T) {
	h := newTestHub()
	a := addClient(h, 1)
	b := addClient(h, 2)

	h.HandleMessage(a, req(t, MsgEnqueue, nil))
	h.HandleMessage(b, req(t, MsgEnqueue, nil))
	matched, _ := lastOfType(drain(t, a), engine.EventMatched)
	payload, _ := matched.Payload.(map[string]any)
	matchID, _ := payload["match_id"].(string)

	// a stale client object for player 1 disconnects after replacement
	stale := a
	addClient(h, 1)
	h.OnDisconnect(stale)

	ships := []engine.Ship{{Cells: []int{0}, Size: 1, Orientation: "horizontal"}}
	if _, err := h.engine.SubmitPlacement(matchID, 1, ships); err != nil {
		t.Fatalf("match was torn down by stale disconnect: %v", err)
	}
}

package ws

import (
	"encoding/json"
	"errors"
	"sync"

	"seabattle_backend/internal/engine"
	"seabattle_backend/internal/logger"
)

// Hub is the session directory: it maps player ids to their delivery
// channel and bridges both directions between connections and the
// engine. It implements engine.Sink for event fan-out.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]*Client
	engine  *engine.Engine
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]*Client)}
}

// Bind attaches the engine after construction; the engine takes the hub
// as its sink, so the two are created in sequence.
func (h *Hub) Bind(e *engine.Engine) {
	h.engine = e
}

// Register adds a client to the directory. A second connection for the
// same player replaces the first.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	old := h.clients[c.PlayerID]
	h.clients[c.PlayerID] = c
	h.mu.Unlock()

	if old != nil && old != c {
		logger.Warn("replacing existing connection", "player", c.PlayerID)
		_ = old.Conn.Close()
	}
	logger.Info("player connected", "player", c.PlayerID)
}

// OnDisconnect removes the client and applies the engine's leave path
// to everything the player was part of.
func (h *Hub) OnDisconnect(c *Client) {
	h.mu.Lock()
	current := h.clients[c.PlayerID] == c
	if current {
		delete(h.clients, c.PlayerID)
	}
	h.mu.Unlock()

	// a replaced connection must not forfeit the new one's matches
	if !current {
		return
	}

	logger.Info("player disconnected", "player", c.PlayerID)
	h.engine.Disconnect(c.PlayerID)
}

// Emit implements engine.Sink. Delivery is best-effort and never blocks
// the engine: a full send buffer drops the message for that client.
func (h *Hub) Emit(audience []int64, event string, payload any) {
	countEvent(event, payload)

	data, err := json.Marshal(Message{Type: event, Payload: payload})
	if err != nil {
		logger.Error("marshal event failed", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, id := range audience {
		c, ok := h.clients[id]
		if !ok {
			continue
		}
		select {
		case c.Send <- data:
		default:
			logger.Warn("send buffer full, dropping event", "player", id, "event", event)
		}
	}
}

// HandleMessage dispatches one client request. Every request gets a
// synchronous direct reply (or an error); broadcasts go out through
// Emit before the engine call returns.
func (h *Hub) HandleMessage(c *Client, raw []byte) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic in message handler", "player", c.PlayerID, "panic", r)
			h.sendError(c, engine.CodeInternal, "internal error")
		}
	}()

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		h.sendError(c, "bad_request", "malformed message")
		return
	}

	switch env.Type {
	case MsgEnqueue:
		res := h.engine.Enqueue(c.PlayerID)
		if res.Queued {
			h.send(c, Message{Type: MsgQueued})
		}
		// on pairing the matched broadcast already reached both players

	case MsgCreateMatch:
		sum := h.engine.CreateMatch(c.PlayerID)
		h.send(c, Message{Type: MsgMatchCreated, Payload: sum})

	case MsgJoinMatch:
		var p JoinMatchPayload
		if !h.decode(c, env.Payload, &p) || !h.requireMatchID(c, p.MatchID) {
			return
		}
		sum, err := h.engine.JoinMatch(p.MatchID, c.PlayerID)
		if err != nil {
			h.replyError(c, err)
			return
		}
		h.send(c, Message{Type: MsgMatchJoined, Payload: sum})

	case MsgPlaceShips:
		var p PlaceShipsPayload
		if !h.decode(c, env.Payload, &p) || !h.requireMatchID(c, p.MatchID) {
			return
		}
		if len(p.Ships) == 0 {
			h.sendError(c, "bad_request", "ships are required")
			return
		}
		res, err := h.engine.SubmitPlacement(p.MatchID, c.PlayerID, p.Ships)
		if err != nil {
			h.replyError(c, err)
			return
		}
		h.send(c, Message{Type: MsgPlacementSet, Payload: res})

	case MsgFire:
		var p FirePayload
		if !h.decode(c, env.Payload, &p) || !h.requireMatchID(c, p.MatchID) {
			return
		}
		out, err := h.engine.Fire(p.MatchID, c.PlayerID, p.X, p.Y)
		if err != nil {
			h.replyError(c, err)
			return
		}
		h.send(c, Message{Type: MsgFireResult, Payload: out})

	case MsgRematch:
		var p RematchPayload
		if !h.decode(c, env.Payload, &p) || !h.requireMatchID(c, p.MatchID) {
			return
		}
		st, err := h.engine.RequestRematch(p.MatchID, c.PlayerID)
		if err != nil {
			h.replyError(c, err)
			return
		}
		h.send(c, Message{Type: MsgRematchStatus, Payload: st})

	case MsgLeave:
		var p LeavePayload
		if !h.decode(c, env.Payload, &p) || !h.requireMatchID(c, p.MatchID) {
			return
		}
		out, err := h.engine.Leave(p.MatchID, c.PlayerID)
		if err != nil {
			h.replyError(c, err)
			return
		}
		h.send(c, Message{Type: MsgLeft, Payload: out})

	default:
		h.sendError(c, "bad_request", "unknown message type: "+env.Type)
	}
}

func (h *Hub) decode(c *Client, raw json.RawMessage, into any) bool {
	if len(raw) == 0 {
		h.sendError(c, "bad_request", "payload is required")
		return false
	}
	if err := json.Unmarshal(raw, into); err != nil {
		h.sendError(c, "bad_request", "malformed payload")
		return false
	}
	return true
}

func (h *Hub) requireMatchID(c *Client, id string) bool {
	if id == "" {
		h.sendError(c, "bad_request", "match_id is required")
		return false
	}
	return true
}

// replyError maps an engine error onto the wire. already_shot carries
// the originally recorded shot back to the caller.
func (h *Hub) replyError(c *Client, err error) {
	var dup *engine.AlreadyShotError
	if errors.As(err, &dup) {
		idx := dup.Index
		h.send(c, Message{Type: MsgError, Payload: ErrorPayload{
			Code:    string(engine.CodeAlreadyShot),
			Message: "cell already fired at",
			Index:   &idx,
			Result:  dup.Result,
		}})
		return
	}

	code := engine.CodeOf(err)
	if code == engine.CodeInternal {
		logger.Error("engine operation failed", "player", c.PlayerID, "error", err)
		h.sendError(c, engine.CodeInternal, "internal error")
		return
	}
	h.sendError(c, code, err.Error())
}

func (h *Hub) sendError(c *Client, code engine.Code, msg string) {
	h.send(c, Message{Type: MsgError, Payload: ErrorPayload{Code: string(code), Message: msg}})
}

func (h *Hub) send(c *Client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		logger.Error("marshal reply failed", "type", msg.Type, "error", err)
		return
	}
	select {
	case c.Send <- data:
	default:
		logger.Warn("send buffer full, dropping reply", "player", c.PlayerID, "type", msg.Type)
	}
}

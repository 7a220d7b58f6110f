package ws

import (
	"encoding/json"

	"seabattle_backend/internal/engine"
)

// Message is the envelope for everything on the wire, both directions.
type Message struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

// Envelope is the incoming variant with the payload left raw until the
// type is known.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// client -> server payloads. Each request is a defined variant with
// required fields checked at the boundary.

type JoinMatchPayload struct {
	MatchID string `json:"match_id"`
}

type PlaceShipsPayload struct {
	MatchID string        `json:"match_id"`
	Ships   []engine.Ship `json:"ships"`
}

type FirePayload struct {
	MatchID string `json:"match_id"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
}

type RematchPayload struct {
	MatchID string `json:"match_id"`
}

type LeavePayload struct {
	MatchID string `json:"match_id"`
}

// server -> client

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// set for already_shot so the client gets the original fact back
	Index  *int              `json:"index,omitempty"`
	Result engine.ShotResult `json:"result,omitempty"`
}

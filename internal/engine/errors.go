package engine

import "errors"

// Code is a stable machine-readable error code. Clients branch on these,
// so values are part of the wire contract.
type Code string

const (
	CodeMatchNotFound   Code = "match_not_found"
	CodeMatchFull       Code = "match_full"
	CodeMatchNotStarted Code = "match_not_started"
	CodeNotYourTurn     Code = "not_your_turn"
	CodeAlreadyShot     Code = "already_shot"
	CodeNoOpponent      Code = "no_opponent"
	CodeOutOfBounds     Code = "out_of_bounds"
	CodeInvalidState    Code = "invalid_state"
	CodeBusy            Code = "busy"
	CodeInternal        Code = "internal"
)

// Error is the discriminated error type returned by all engine
// operations. It never wraps a panic; unexpected faults are logged and
// mapped to CodeInternal by the caller-facing layer.
type Error struct {
	Code Code
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return string(e.Code)
	}
	return string(e.Code) + ": " + e.Msg
}

func newError(code Code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

var (
	ErrMatchNotFound   = newError(CodeMatchNotFound, "match does not exist")
	ErrMatchFull       = newError(CodeMatchFull, "match already has two players")
	ErrMatchNotStarted = newError(CodeMatchNotStarted, "match is not in progress")
	ErrNotYourTurn     = newError(CodeNotYourTurn, "it is not your turn")
	ErrNoOpponent      = newError(CodeNoOpponent, "no opponent in match")
	ErrOutOfBounds     = newError(CodeOutOfBounds, "coordinates outside the grid")
	ErrBusy            = newError(CodeBusy, "match is busy, retry")
)

// AlreadyShotError carries the previously recorded shot so the caller
// can return the original fact instead of guessing.
type AlreadyShotError struct {
	Index  int
	Result ShotResult
}

func (e *AlreadyShotError) Error() string {
	return string(CodeAlreadyShot)
}

// CodeOf extracts the stable code from any engine error. Unknown errors
// map to CodeInternal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var dup *AlreadyShotError
	if errors.As(err, &dup) {
		return CodeAlreadyShot
	}
	return CodeInternal
}

package ws

// client -> server
const (
	MsgEnqueue     = "enqueue"
	MsgCreateMatch = "create_match"
	MsgJoinMatch   = "join_match"
	MsgPlaceShips  = "place_ships"
	MsgFire        = "fire"
	MsgRematch     = "rematch"
	MsgLeave       = "leave"
)

// server -> client (direct replies; broadcast types reuse the engine
// event names)
const (
	MsgQueued        = "queued"
	MsgMatchCreated  = "match_created"
	MsgMatchJoined   = "match_joined"
	MsgPlacementSet  = "placement_result"
	MsgFireResult    = "fire_result"
	MsgRematchStatus = "rematch_status"
	MsgLeft          = "left"
	MsgError         = "error"
)

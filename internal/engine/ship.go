package engine

// Ship is a placed piece, immutable once submitted. Cells are linear
// board indices. The engine does not validate adjacency or overlap
// (client concern); only bounds are checked at submission.
type Ship struct {
	Cells       []int  `json:"cells"`
	Size        int    `json:"size"`
	Orientation string `json:"orientation"`
	SkinID      string `json:"skin_id,omitempty"`
}

// ShotResult classifies the outcome of a single shot.
type ShotResult string

const (
	ShotMiss ShotResult = "miss"
	ShotHit  ShotResult = "hit"
	ShotSunk ShotResult = "sunk"
)

// SunkShip describes a fully destroyed ship, revealed to both players.
type SunkShip struct {
	OwnerID     int64  `json:"owner_id"`
	Cells       []int  `json:"cells"`
	Size        int    `json:"size"`
	Orientation string `json:"orientation"`
	SkinID      string `json:"skin_id,omitempty"`
}

func sunkDescriptor(ownerID int64, s Ship) *SunkShip {
	cells := make([]int, len(s.Cells))
	copy(cells, s.Cells)
	return &SunkShip{
		OwnerID:     ownerID,
		Cells:       cells,
		Size:        s.Size,
		Orientation: s.Orientation,
		SkinID:      s.SkinID,
	}
}

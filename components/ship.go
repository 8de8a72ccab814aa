package components

// ShipState is the targeting state of a swarm ship.
type ShipState uint8

const (
	ShipUnassigned  ShipState = iota // no claim
	ShipApproaching                  // claim held, flying to the resource
	ShipPushing                      // claim held, resource being pushed to its zone
)

// String returns the state name.
func (s ShipState) String() string {
	switch s {
	case ShipUnassigned:
		return "unassigned"
	case ShipApproaching:
		return "approaching"
	case ShipPushing:
		return "pushing"
	default:
		return "unknown"
	}
}

// Ship identifies a swarm ship.
type Ship struct {
	ID    uint32
	Color uint32 // 0xRRGGBB
	State ShipState
}

// Player tags the manually flown anchor ship.
type Player struct{}

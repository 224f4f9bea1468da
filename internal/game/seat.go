// internal/game/seat.go
package game

import "github.com/coder/websocket"

// Seat is one participant's slot within a room: identity, connection,
// paddle and score. A seat is owned exclusively by exactly one room while
// active and is only ever mutated under that room's lock.
type Seat struct {
	PlayerID string
	Conn     *websocket.Conn

	// Index is 0-based in seating order. Team is index parity: odd seats
	// defend the x=0 goal plane, even seats defend x=CanvasWidth (the
	// -x/+x planes in 3D).
	Index int

	PaddleY float64 // top edge of the 2D paddle
	PaddleZ float64 // lateral position of the 3D paddle

	Score            int
	RestartRequested bool
}

// NewSeat returns a seat with paddles at their rest positions.
func NewSeat(playerID string, conn *websocket.Conn, index int) *Seat {
	return &Seat{
		PlayerID: playerID,
		Conn:     conn,
		Index:    index,
		PaddleY:  (CanvasHeight - PaddleHeight) / 2,
		PaddleZ:  PaddleRestPosition,
	}
}

// Team returns the seat's side. Teammates in 2v2 share index parity.
func (s *Seat) Team() int {
	return s.Index % 2
}

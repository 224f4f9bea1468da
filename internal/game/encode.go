// internal/game/encode.go
package game

// The broadcast encoder projects the shared simulation state into one
// seat's view. Coordinates are mirrored for far-side seats so every
// client renders itself on the same canonical side: in 2D the canonical
// side is the x=0 lane (even seats get mirrored frames), in 3D it is the
// +x paddle (odd seats get mirrored frames). Mirroring is an involution,
// so for opposite 1v1 seats the encoded 2D ball x positions always sum to
// CanvasWidth.

// SeatView is one participant's entry inside a state frame. PaddleY
// carries the lateral paddle position in 3D frames.
type SeatView struct {
	ID          string  `json:"id"`
	PaddleY     float64 `json:"paddleY"`
	Score       int     `json:"score"`
	PlayerIndex int     `json:"playerIndex"`
}

// StateFrame2D is the per-seat 2D snapshot pushed every tick.
type StateFrame2D struct {
	Type            string      `json:"type"`
	GameState       StateBody2D `json:"gameState"`
	YourPlayerIndex int         `json:"yourPlayerIndex"`
}

type StateBody2D struct {
	BallX       float64    `json:"ballX"`
	BallY       float64    `json:"ballY"`
	GameRunning bool       `json:"gameRunning"`
	Players     []SeatView `json:"players"`
}

// StateFrame3D is the per-seat 3D snapshot pushed every tick.
type StateFrame3D struct {
	Type            string      `json:"type"`
	GameState       StateBody3D `json:"gameState"`
	YourPlayerIndex int         `json:"yourPlayerIndex"`
}

type StateBody3D struct {
	BallX         float64    `json:"ballX"`
	BallY         float64    `json:"ballY"`
	BallZ         float64    `json:"ballZ"`
	BallVelocityX float64    `json:"ballVelocityX"`
	BallVelocityY float64    `json:"ballVelocityY"`
	BallVelocityZ float64    `json:"ballVelocityZ"`
	GameRunning   bool       `json:"gameRunning"`
	Players       []SeatView `json:"players"`
}

// EncodeFor projects the simulation state into the given seat's view.
// Pure: it never touches the connection; delivery failures belong to the
// connection handler.
func EncodeFor(seat *Seat, seats []*Seat, s *SimState, mode Mode) any {
	if mode == Mode3D {
		return encode3D(seat, seats, s)
	}
	return encode2D(seat, seats, s)
}

func encode2D(seat *Seat, seats []*Seat, s *SimState) StateFrame2D {
	ballX := s.BallX
	if seat.Team() == 0 {
		ballX = CanvasWidth - s.BallX
	}
	return StateFrame2D{
		Type: FrameGameState,
		GameState: StateBody2D{
			BallX:       ballX,
			BallY:       s.BallY,
			GameRunning: s.Running,
			Players:     seatViews(seats, false),
		},
		YourPlayerIndex: seat.Index,
	}
}

func encode3D(seat *Seat, seats []*Seat, s *SimState) StateFrame3D {
	b := s.Ball3D
	if seat.Team() == 1 {
		b.X = -b.X
		b.Z = -b.Z + ZMirrorOffset
		b.VelX = -b.VelX
		b.VelZ = -b.VelZ
	}
	return StateFrame3D{
		Type: FrameGameState3D,
		GameState: StateBody3D{
			BallX:         b.X,
			BallY:         b.Y,
			BallZ:         b.Z,
			BallVelocityX: b.VelX,
			BallVelocityY: b.VelY,
			BallVelocityZ: b.VelZ,
			GameRunning:   s.Running,
			Players:       seatViews(seats, true),
		},
		YourPlayerIndex: seat.Index,
	}
}

func seatViews(seats []*Seat, lateral bool) []SeatView {
	views := make([]SeatView, 0, len(seats))
	for _, seat := range seats {
		paddle := seat.PaddleY
		if lateral {
			paddle = seat.PaddleZ
		}
		views = append(views, SeatView{
			ID:          seat.PlayerID,
			PaddleY:     paddle,
			Score:       seat.Score,
			PlayerIndex: seat.Index,
		})
	}
	return views
}

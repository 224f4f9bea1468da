// internal/game/state.go
package game

import "math/rand"

// Mode identifies which variant a room runs.
type Mode string

const (
	Mode1v1 Mode = "1v1"
	Mode2v2 Mode = "2v2"
	Mode3D  Mode = "3d"
)

// SeatCount returns the fixed roster size for the mode.
func (m Mode) SeatCount() int {
	if m == Mode2v2 {
		return 4
	}
	return 2
}

// Phase is the room lifecycle state machine. The tick scheduler is only
// ever active in PhaseRunning; every transition out of it cancels the
// ticker exactly once.
type Phase int

const (
	PhaseCountdown Phase = iota
	PhaseRunning
	PhaseOver
	PhaseAbandoned
	PhaseDisposed
)

// Terminal reports whether no further simulation can occur in this phase.
func (p Phase) Terminal() bool {
	return p == PhaseOver || p == PhaseAbandoned || p == PhaseDisposed
}

func (p Phase) String() string {
	switch p {
	case PhaseCountdown:
		return "countdown"
	case PhaseRunning:
		return "running"
	case PhaseOver:
		return "over"
	case PhaseAbandoned:
		return "abandoned"
	case PhaseDisposed:
		return "disposed"
	}
	return "unknown"
}

// Ball3D is the 3D ball, positioned at its center.
type Ball3D struct {
	X, Y, Z          float64
	VelX, VelY, VelZ float64
}

// SimState is the authoritative simulation state a room owns. The 2D
// fields are used by Mode1v1/Mode2v2; Ball3D by Mode3D. It is mutated
// only by the step functions during a tick or by an explicit reset, and
// always under the owning room's lock.
type SimState struct {
	BallX, BallY float64 // ball center
	VelX, VelY   float64

	Ball3D Ball3D

	Running bool
	Over    bool
}

// ResetBall2D re-centers the ball and serves it in a random diagonal.
func ResetBall2D(s *SimState, rng *rand.Rand) {
	s.BallX = CanvasWidth / 2
	s.BallY = CanvasHeight / 2
	s.VelX = randSign(rng) * BallSpeed
	s.VelY = randSign(rng) * BallSpeed
}

// ResetBall3D re-serves the 3D ball above the table's lateral center.
func ResetBall3D(s *SimState, rng *rand.Rand) {
	b := &s.Ball3D
	b.X = 0
	b.Y = ServeY3D
	b.Z = ServeZ3D
	b.VelX = randSign(rng) * ServeVelX3D
	b.VelY = ServeVelY3D
	b.VelZ = (rng.Float64() - 0.5) * 0.6
}

func randSign(rng *rand.Rand) float64 {
	if rng.Float64() > 0.5 {
		return 1
	}
	return -1
}

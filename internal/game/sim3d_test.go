// internal/game/sim3d_test.go
package game

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStep3DGravityPullsBallDown(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := &SimState{Running: true}
	s.Ball3D = Ball3D{X: 0, Y: 80, Z: -28}
	Step3D(s, testSeats(2), rng)

	assert.InDelta(t, Gravity3D, s.Ball3D.VelY, 1e-9)
	assert.InDelta(t, 80+Gravity3D*BallStep3D, s.Ball3D.Y, 1e-9)
}

func TestStep3DTableBounceClampsRebound(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := &SimState{Running: true}
	s.Ball3D = Ball3D{X: 0, Y: TableY + 2, Z: -28, VelY: -0.4}
	Step3D(s, testSeats(2), rng)

	b := s.Ball3D
	assert.Equal(t, TableY+BallRadius3D, b.Y, "ball rests on the table surface")
	assert.Positive(t, b.VelY)
	assert.GreaterOrEqual(t, b.VelY, MinTableRebound)
	assert.LessOrEqual(t, b.VelY, MaxTableRebound)
}

func TestStep3DNoBounceBeyondTableEdge(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := &SimState{Running: true}
	// Past the table's x extent: the ball falls through instead of bouncing.
	s.Ball3D = Ball3D{X: 80, Y: TableY + 2, Z: -28, VelY: -0.4}
	Step3D(s, testSeats(2), rng)

	assert.Negative(t, s.Ball3D.VelY)
	assert.Less(t, s.Ball3D.Y, TableY+BallRadius3D)
}

func TestStep3DSideWallReflects(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := &SimState{Running: true}
	s.Ball3D = Ball3D{X: 0, Y: 80, Z: TableMinZ + 0.1, VelZ: -1}
	Step3D(s, testSeats(2), rng)

	assert.Equal(t, TableMinZ, s.Ball3D.Z, "position clamps to the wall")
	assert.Equal(t, 1.0, s.Ball3D.VelZ, "lateral velocity reflects")
}

func TestStep3DPaddleHitReturnsBall(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seats := testSeats(2)
	s := &SimState{Running: true}
	// Heading into the even seat's plane at +x, laterally on its paddle.
	s.Ball3D = Ball3D{X: 58, Y: PaddleCenterY3D, Z: seats[0].PaddleZ, VelX: 1}
	Step3D(s, seats, rng)

	b := s.Ball3D
	assert.InDelta(t, -1*PaddleSpeedup, b.VelX, 1e-9, "return inverts with a speedup")
	assert.GreaterOrEqual(t, b.VelY, 0.25)
	assert.Less(t, b.VelY, 0.7)
	assert.InDelta(t, 0.0, b.VelZ, 1e-9, "dead-center hit adds no lateral spin")
}

func TestStep3DPaddleMissWhenLaterallyOff(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seats := testSeats(2)
	s := &SimState{Running: true}
	s.Ball3D = Ball3D{X: 58, Y: PaddleCenterY3D, Z: seats[0].PaddleZ + PaddleHalfSpan3D + 2, VelX: 1}
	Step3D(s, seats, rng)

	assert.Positive(t, s.Ball3D.VelX, "ball sails past an out-of-position paddle")
}

func TestStep3DGoalScoresAndReserves(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seats := testSeats(2)
	s := &SimState{Running: true}
	s.Ball3D = Ball3D{X: GoalPlaneX - 0.5, Y: 80, Z: -28, VelX: 1}
	Step3D(s, seats, rng)

	assert.Equal(t, 1, seats[1].Score, "past +x beats the even defense")
	assert.Zero(t, seats[0].Score)

	b := s.Ball3D
	assert.Zero(t, b.X)
	assert.Equal(t, ServeY3D, b.Y)
	assert.Equal(t, ServeZ3D, b.Z)
	assert.Equal(t, ServeVelX3D, math.Abs(b.VelX))
}

// internal/game/sim2d_test.go
package game

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeats(n int) []*Seat {
	seats := make([]*Seat, n)
	for i := 0; i < n; i++ {
		seats[i] = NewSeat(string(rune('a'+i)), nil, i)
	}
	return seats
}

func TestStep2DNotRunning(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := &SimState{BallX: 400, BallY: 200, VelX: 8, VelY: 8}
	Step2D(s, testSeats(2), rng)
	assert.Equal(t, 400.0, s.BallX)
	assert.Equal(t, 200.0, s.BallY)
}

func TestStep2DWallBounceEnforcesReboundFloor(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := &SimState{Running: true, BallX: 400, BallY: 9, VelX: 0, VelY: -1.5}
	Step2D(s, testSeats(2), rng)

	assert.Equal(t, BallRadius, s.BallY, "ball clamps to the wall")
	assert.Equal(t, WallReboundFloor, s.VelY, "slow bounce speeds up to the floor")

	s = &SimState{Running: true, BallX: 400, BallY: CanvasHeight - 9, VelX: 0, VelY: 1.5}
	Step2D(s, testSeats(2), rng)
	assert.Equal(t, CanvasHeight-BallRadius, s.BallY)
	assert.Equal(t, -WallReboundFloor, s.VelY)
}

func TestStep2DPaddleDeflectAmplifies(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seats := testSeats(2)
	// Seat 1 defends the left lane; its paddle center is at y=200.
	s := &SimState{Running: true, BallX: 18, BallY: 200, VelX: -BallSpeed, VelY: 0}
	Step2D(s, seats, rng)

	assert.InDelta(t, BallSpeed*PaddleSpeedup, s.VelX, 1e-9, "deflection inverts and amplifies")
	assert.Equal(t, PaddleWidth+BallRadius+1, s.BallX, "ball is nudged out of the lane")
	assert.Equal(t, MinTransverseSpeed, s.VelY, "a dead-center hit still leaves the horizontal")
	assert.Zero(t, seats[0].Score)
	assert.Zero(t, seats[1].Score)
}

func TestStep2DPaddleDeflectCapsSpeed(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := &SimState{Running: true, BallX: 18 + MaxBallSpeed - BallSpeed, BallY: 200, VelX: -MaxBallSpeed, VelY: 0}
	Step2D(s, testSeats(2), rng)
	assert.InDelta(t, MaxBallSpeed, s.VelX, 1e-9, "no speedup at the cap")
}

func TestStep2DSpinFromHitOffset(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seats := testSeats(2)
	// Hit near the paddle's top edge: raw offset -0.875 clamps to -SpinClamp.
	s := &SimState{Running: true, BallX: 18, BallY: 165, VelX: -BallSpeed, VelY: 0}
	Step2D(s, seats, rng)

	wantVelY := -SpinClamp * math.Abs(BallSpeed*PaddleSpeedup) * SpinFactor
	assert.InDelta(t, wantVelY, s.VelY, 1e-9)
}

func TestStep2DGoalScoresAndResets(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seats := testSeats(2)
	// Park the left defender away from the ball's path.
	seats[1].PaddleY = 0
	s := &SimState{Running: true, BallX: 3, BallY: 300, VelX: -BallSpeed, VelY: 0}
	Step2D(s, seats, rng)

	assert.Equal(t, 1, seats[0].Score, "crossing x=0 scores for the even team")
	assert.Zero(t, seats[1].Score)
	assert.Equal(t, CanvasWidth/2, s.BallX, "ball re-serves from center")
	assert.Equal(t, CanvasHeight/2, s.BallY)
	assert.Equal(t, BallSpeed, math.Abs(s.VelX))
	assert.Equal(t, BallSpeed, math.Abs(s.VelY))
}

func TestStep2DRightGoalScoresOddTeam(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seats := testSeats(2)
	seats[0].PaddleY = 0
	s := &SimState{Running: true, BallX: CanvasWidth - 3, BallY: 300, VelX: BallSpeed, VelY: 0}
	Step2D(s, seats, rng)

	assert.Equal(t, 1, seats[1].Score)
	assert.Zero(t, seats[0].Score)
}

func TestStep2DGoalIncrementsWholeTeam(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	seats := testSeats(4)
	seats[1].PaddleY = 0
	seats[3].PaddleY = 0
	s := &SimState{Running: true, BallX: 3, BallY: 300, VelX: -BallSpeed, VelY: 0}
	Step2D(s, seats, rng)

	assert.Equal(t, 1, seats[0].Score, "both even seats score together")
	assert.Equal(t, 1, seats[2].Score)
	assert.Zero(t, seats[1].Score)
	assert.Zero(t, seats[3].Score)
}

func TestCoveringPaddleAnyTeammateDefends(t *testing.T) {
	seats := testSeats(4)
	seats[1].PaddleY = 0
	seats[3].PaddleY = 300

	require.NotNil(t, coveringPaddle(seats, 1, 40))
	require.NotNil(t, coveringPaddle(seats, 1, 340))
	assert.Nil(t, coveringPaddle(seats, 1, 200), "gap between the two paddles is undefended")
}

func TestWinnerTeam(t *testing.T) {
	seats := testSeats(2)
	assert.Equal(t, -1, WinnerTeam(seats))

	seats[1].Score = WinningScore - 1
	assert.Equal(t, -1, WinnerTeam(seats))

	seats[1].Score = WinningScore
	assert.Equal(t, 1, WinnerTeam(seats))
}

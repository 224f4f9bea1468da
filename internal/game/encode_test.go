// internal/game/encode_test.go
package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode2DMirrorIsInvolution(t *testing.T) {
	seats := testSeats(2)
	s := &SimState{BallX: 250, BallY: 100, Running: true}

	f0, ok := EncodeFor(seats[0], seats, s, Mode1v1).(StateFrame2D)
	require.True(t, ok)
	f1, ok := EncodeFor(seats[1], seats, s, Mode1v1).(StateFrame2D)
	require.True(t, ok)

	assert.Equal(t, CanvasWidth-250, f0.GameState.BallX, "even seat sees the mirrored field")
	assert.Equal(t, 250.0, f1.GameState.BallX, "odd seat sees the canonical field")
	assert.Equal(t, CanvasWidth, f0.GameState.BallX+f1.GameState.BallX,
		"opposite views always sum to the field width")
	assert.Equal(t, f0.GameState.BallY, f1.GameState.BallY, "vertical axis is shared")
}

func TestEncode2DFrameShape(t *testing.T) {
	seats := testSeats(2)
	seats[0].Score = 3
	seats[1].Score = 5
	s := &SimState{BallX: 400, BallY: 200, Running: true}

	f := EncodeFor(seats[1], seats, s, Mode1v1).(StateFrame2D)
	assert.Equal(t, FrameGameState, f.Type)
	assert.Equal(t, 1, f.YourPlayerIndex)
	assert.True(t, f.GameState.GameRunning)

	require.Len(t, f.GameState.Players, 2)
	assert.Equal(t, "a", f.GameState.Players[0].ID)
	assert.Equal(t, 3, f.GameState.Players[0].Score)
	assert.Equal(t, 0, f.GameState.Players[0].PlayerIndex)
	assert.Equal(t, "b", f.GameState.Players[1].ID)
	assert.Equal(t, 5, f.GameState.Players[1].Score)
}

func TestEncode3DMirrorsFarSeat(t *testing.T) {
	seats := testSeats(2)
	s := &SimState{Running: true}
	s.Ball3D = Ball3D{X: 30, Y: 60, Z: -20, VelX: 1, VelY: 0.3, VelZ: 0.5}

	f0 := EncodeFor(seats[0], seats, s, Mode3D).(StateFrame3D)
	f1 := EncodeFor(seats[1], seats, s, Mode3D).(StateFrame3D)

	assert.Equal(t, FrameGameState3D, f0.Type)
	assert.Equal(t, 30.0, f0.GameState.BallX, "even seat sees raw coordinates")
	assert.Equal(t, -20.0, f0.GameState.BallZ)

	assert.Equal(t, -30.0, f1.GameState.BallX)
	assert.Equal(t, 20+ZMirrorOffset, f1.GameState.BallZ)
	assert.Equal(t, -1.0, f1.GameState.BallVelocityX)
	assert.Equal(t, -0.5, f1.GameState.BallVelocityZ)
	assert.Equal(t, 0.3, f1.GameState.BallVelocityY, "vertical velocity never mirrors")
	assert.Equal(t, f0.GameState.BallY, f1.GameState.BallY)
}

func TestEncode3DZMirrorIsInvolution(t *testing.T) {
	mirror := func(z float64) float64 { return -z + ZMirrorOffset }
	for _, z := range []float64{0, -28.5, TableMinZ, TableMaxZ} {
		assert.InDelta(t, z, mirror(mirror(z)), 1e-9)
	}
}

func TestEncode3DUsesLateralPaddlePositions(t *testing.T) {
	seats := testSeats(2)
	seats[0].PaddleZ = -10
	seats[1].PaddleZ = -40
	s := &SimState{Running: true}

	f := EncodeFor(seats[0], seats, s, Mode3D).(StateFrame3D)
	require.Len(t, f.GameState.Players, 2)
	assert.Equal(t, -10.0, f.GameState.Players[0].PaddleY)
	assert.Equal(t, -40.0, f.GameState.Players[1].PaddleY)
}

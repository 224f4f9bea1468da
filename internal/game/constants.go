// internal/game/constants.go
package game

import "time"

// 2D playfield geometry and tuning. The field is 800x400 with a paddle
// lane on each vertical edge; ball coordinates are the ball's center.
const (
	CanvasWidth  = 800.0
	CanvasHeight = 400.0

	PaddleWidth  = 10.0
	PaddleHeight = 80.0
	PaddleSpeed  = 7.0

	BallRadius = 8.0
	BallSpeed  = 8.0

	// MaxBallSpeed caps the horizontal speedup applied on each paddle hit.
	MaxBallSpeed  = 15.0
	PaddleSpeedup = 1.05

	// SpinClamp bounds the hit offset so a near-edge hit cannot produce a
	// degenerate near-tangent trajectory.
	SpinClamp  = 0.8
	SpinFactor = 1.2

	// MinTransverseSpeed keeps the ball from flying perfectly horizontal
	// after a paddle hit.
	MinTransverseSpeed = 1.5

	// WallReboundFloor is the minimum vertical speed after a wall bounce.
	// Without it the ball can slide along a wall at near-zero speed.
	WallReboundFloor = 2.0
)

// Match pacing.
const (
	WinningScore  = 7
	CountdownTime = 5 * time.Second

	TickRate     = 60
	TickInterval = time.Second / TickRate
)

// 3D table-tennis physics, in table coordinates: x runs between the two
// paddles, y is up, z is lateral. One unit step per tick scaled by
// BallStep3D.
const (
	Gravity3D    = -0.018
	BallRadius3D = 2.0
	BallStep3D   = 1.2

	TableY    = 53.0
	TableMinX = -60.0
	TableMaxX = 60.0
	TableMinZ = -58.0
	TableMaxZ = 1.0

	BounceDamping = 0.65
	// Rebound off the table is clamped into [MinTableRebound, MaxTableRebound]
	// to keep a playable bounce height.
	MinTableRebound = 0.18
	MaxTableRebound = 0.5

	// Paddle planes sit at |x| in [PaddleNearX, PaddleFarX].
	PaddleNearX        = 55.0
	PaddleFarX         = 65.0
	PaddleHalfSpan3D   = 8.0
	PaddleCenterY3D    = 50.0
	PaddleHeightWin3D  = 16.0
	PaddleRestPosition = -28.0

	GoalPlaneX = 100.0

	ServeVelX3D = 1.2
	ServeVelY3D = 0.25
	ServeY3D    = TableY + 5.0
	ServeZ3D    = -28.5

	// ZMirrorOffset reflects the lateral axis for far-side views:
	// mirrored z = -z + ZMirrorOffset, an involution around the table's
	// lateral center.
	ZMirrorOffset = -57.0
)

// internal/game/sim3d.go
package game

import (
	"math"
	"math/rand"
)

// Step3D advances the table-tennis simulation by one fixed tick: gravity,
// integration, table and side-wall bounces, paddle hits, then scoring.
func Step3D(s *SimState, seats []*Seat, rng *rand.Rand) {
	if !s.Running {
		return
	}
	b := &s.Ball3D

	b.VelY += Gravity3D
	b.X += b.VelX * BallStep3D
	b.Y += b.VelY * BallStep3D
	b.Z += b.VelZ * BallStep3D

	// Table bounce, only within the table's horizontal and depth bounds.
	if b.Y <= TableY+BallRadius3D && b.VelY < 0 &&
		b.X >= TableMinX && b.X <= TableMaxX &&
		b.Z >= TableMinZ && b.Z <= TableMaxZ {
		b.Y = TableY + BallRadius3D
		b.VelY = math.Abs(b.VelY) * BounceDamping
		if b.VelY < MinTableRebound {
			b.VelY = MinTableRebound
		}
		if b.VelY > MaxTableRebound {
			b.VelY = MaxTableRebound
		}
	}

	// Side walls reflect the lateral velocity with a position clamp.
	if b.Z <= TableMinZ || b.Z >= TableMaxZ {
		b.VelZ = -b.VelZ
		if b.Z <= TableMinZ {
			b.Z = TableMinZ
		} else {
			b.Z = TableMaxZ
		}
	}

	resolvePaddles3D(b, seats, rng)

	// Goal planes: past -x beats the odd team's paddle, so the even team
	// scores, and vice versa.
	if b.X < -GoalPlaneX {
		awardPoint(seats, 0)
		ResetBall3D(s, rng)
	} else if b.X > GoalPlaneX {
		awardPoint(seats, 1)
		ResetBall3D(s, rng)
	}
}

// resolvePaddles3D registers a hit when the ball is inside a paddle plane,
// laterally within the paddle's span and vertically within its window,
// moving toward that paddle. The return velocity gets a capped speedup, a
// fresh upward pop and lateral spin from the hit offset.
func resolvePaddles3D(b *Ball3D, seats []*Seat, rng *rand.Rand) {
	for _, seat := range seats {
		inSpan := math.Abs(b.Z-seat.PaddleZ) < PaddleHalfSpan3D &&
			math.Abs(b.Y-PaddleCenterY3D) < PaddleHeightWin3D
		if !inSpan {
			continue
		}

		if seat.Team() == 0 {
			// Even team's paddle at +x.
			if b.X > PaddleNearX && b.X < PaddleFarX && b.VelX > 0 {
				hitOffset := (b.Z - seat.PaddleZ) / PaddleHalfSpan3D
				b.VelX = -math.Abs(b.VelX) * PaddleSpeedup
				b.VelY = rng.Float64()*(0.7-0.25) + 0.25
				b.VelZ = hitOffset
			}
		} else {
			// Odd team's paddle at -x.
			if b.X > -PaddleFarX && b.X < -PaddleNearX && b.VelX < 0 {
				hitOffset := (b.Z - seat.PaddleZ) / PaddleHalfSpan3D
				b.VelX = math.Abs(b.VelX) * PaddleSpeedup
				b.VelY = rng.Float64()*(0.7-0.25) + 0.25
				b.VelZ = hitOffset
			}
		}
	}
}

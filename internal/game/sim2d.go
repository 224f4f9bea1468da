// internal/game/sim2d.go
package game

import (
	"math"
	"math/rand"
)

// Step2D advances the 2D simulation by one fixed tick: integrate, bounce
// off the horizontal walls, resolve paddle hits, then score any goal.
// Pure over its inputs apart from the rng used for the post-goal serve.
func Step2D(s *SimState, seats []*Seat, rng *rand.Rand) {
	if !s.Running {
		return
	}

	s.BallX += s.VelX
	s.BallY += s.VelY

	// Wall bounces clamp position and enforce a rebound floor so the
	// ball can never slide along a wall at near-zero vertical speed.
	if s.BallY-BallRadius <= 0 {
		s.BallY = BallRadius
		s.VelY = math.Abs(s.VelY)
		if s.VelY < WallReboundFloor {
			s.VelY = WallReboundFloor
		}
	}
	if s.BallY+BallRadius >= CanvasHeight {
		s.BallY = CanvasHeight - BallRadius
		s.VelY = -math.Abs(s.VelY)
		if -s.VelY < WallReboundFloor {
			s.VelY = -WallReboundFloor
		}
	}

	// Left lane: defended by the odd team. A hit registers only when the
	// ball's leading edge is inside the lane and its vertical span
	// overlaps the paddle.
	if s.VelX < 0 && s.BallX-BallRadius <= PaddleWidth && s.BallX+BallRadius >= 0 {
		if paddle := coveringPaddle(seats, 1, s.BallY); paddle != nil {
			deflect2D(s, paddle)
			// Nudge fully outside the lane so the next tick cannot
			// re-register the same hit.
			s.BallX = PaddleWidth + BallRadius + 1
		}
	}

	// Right lane: defended by the even team.
	if s.VelX > 0 && s.BallX+BallRadius >= CanvasWidth-PaddleWidth && s.BallX-BallRadius <= CanvasWidth {
		if paddle := coveringPaddle(seats, 0, s.BallY); paddle != nil {
			deflect2D(s, paddle)
			s.BallX = CanvasWidth - PaddleWidth - BallRadius - 1
		}
	}

	// Goals. Crossing x=0 beats the odd team's defense, so the even team
	// scores, and vice versa.
	if s.BallX < 0 {
		awardPoint(seats, 0)
		ResetBall2D(s, rng)
	} else if s.BallX > CanvasWidth {
		awardPoint(seats, 1)
		ResetBall2D(s, rng)
	}
}

// coveringPaddle returns a paddle of the given team whose span overlaps
// the ball's transverse position, or nil if the lane is undefended there.
func coveringPaddle(seats []*Seat, team int, ballY float64) *Seat {
	for _, seat := range seats {
		if seat.Team() != team {
			continue
		}
		if ballY+BallRadius >= seat.PaddleY && ballY-BallRadius <= seat.PaddleY+PaddleHeight {
			return seat
		}
	}
	return nil
}

// deflect2D inverts and slightly amplifies the normal-axis velocity
// (capped), then derives spin from where on the paddle span the hit
// landed, clamped away from near-tangent angles.
func deflect2D(s *SimState, paddle *Seat) {
	s.VelX = -s.VelX
	if math.Abs(s.VelX) < MaxBallSpeed {
		s.VelX *= PaddleSpeedup
	}

	paddleCenter := paddle.PaddleY + PaddleHeight/2
	offset := (s.BallY - paddleCenter) / (PaddleHeight / 2)
	offset = math.Max(-SpinClamp, math.Min(SpinClamp, offset))

	s.VelY = offset * math.Abs(s.VelX) * SpinFactor
	if math.Abs(s.VelY) < MinTransverseSpeed {
		if s.VelY >= 0 {
			s.VelY = MinTransverseSpeed
		} else {
			s.VelY = -MinTransverseSpeed
		}
	}
}

// awardPoint increments every seat on the scoring team, so in 2v2 both
// teammates move together.
func awardPoint(seats []*Seat, team int) {
	for _, seat := range seats {
		if seat.Team() == team {
			seat.Score++
		}
	}
}

// WinnerTeam returns the team that reached the win threshold, or -1.
func WinnerTeam(seats []*Seat) int {
	for _, seat := range seats {
		if seat.Score >= WinningScore {
			return seat.Team()
		}
	}
	return -1
}

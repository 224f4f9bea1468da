// internal/game/room.go
package game

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pongarena/matchengine/internal/models"
)

// SendFunc delivers one outbound frame to one seat. Implementations must
// not block the caller; delivery failures surface on the connection's
// read loop, never here.
type SendFunc func(seat *Seat, frame any)

// OnFinishFunc receives the box score of a finished room plus the
// tournament progression event, nil for non-tournament rooms.
type OnFinishFunc func(res models.MatchResult, ev *models.MatchResultEvent)

// Room is a single match session: a fixed roster of seats, one simulation
// and one tick loop. The seat count never changes after creation; seats
// only leave on disconnect, and the room is disposed the instant the last
// one does. All state is guarded by Mu; control-frame handlers and the
// ticker serialize through it, so no two mutations of the simulation can
// interleave.
type Room struct {
	ID           string
	Mode         Mode
	TournamentID string
	CreatedAt    time.Time

	// Countdown is how long the pre-match countdown runs. Tests shorten it.
	Countdown time.Duration

	Mu    sync.Mutex
	Seats []*Seat
	State SimState
	Phase Phase

	// Pre-match gameType toggles, kept for result labeling.
	game2D   bool
	game2vs2 bool

	rng            *rand.Rand
	countdownTimer *time.Timer
	tickCancel     context.CancelFunc

	Send     SendFunc
	OnFinish OnFinishFunc
	Logger   *logrus.Logger
}

// NewRoom builds a room around an already-assigned roster and serves the
// first ball. The caller starts the countdown separately.
func NewRoom(id string, mode Mode, seats []*Seat, tournamentID string, logger *logrus.Logger) *Room {
	if id == "" {
		id = uuid.NewString()
	}
	if logger == nil {
		logger = logrus.New()
	}
	r := &Room{
		ID:           id,
		Mode:         mode,
		TournamentID: tournamentID,
		CreatedAt:    time.Now(),
		Countdown:    CountdownTime,
		Seats:        seats,
		Phase:        PhaseCountdown,
		game2D:       mode != Mode3D,
		game2vs2:     mode == Mode2v2,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		Logger:       logger,
	}
	r.resetSimLocked()
	return r
}

// StartCountdown announces the match and schedules the transition to
// running once the countdown elapses.
func (r *Room) StartCountdown() {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.Phase.Terminal() {
		return
	}
	r.Phase = PhaseCountdown
	r.broadcastMatchFoundLocked("Match found! Get ready to play!")
	r.countdownTimer = time.AfterFunc(r.Countdown, r.beginRunning)
}

// beginRunning flips the room into the running phase and starts the tick
// loop. Fired by the countdown timer.
func (r *Room) beginRunning() {
	r.Mu.Lock()
	if r.Phase != PhaseCountdown {
		r.Mu.Unlock()
		return
	}
	r.Phase = PhaseRunning
	r.State.Running = true
	r.broadcastLocked(NoticeFrame{Type: FrameGameStarted, Message: "Game started! Good luck!"})

	ctx, cancel := context.WithCancel(context.Background())
	r.tickCancel = cancel
	r.Mu.Unlock()

	r.Logger.Infof("room %s running (%s)", r.ID, r.Mode)
	go r.runTicks(ctx)
}

// runTicks drives the room's fixed-timestep loop. Each room owns its own
// ticker; rooms tick independently of each other.
func (r *Room) runTicks(ctx context.Context) {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick()
		}
	}
}

func (r *Room) tick() {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.Phase != PhaseRunning {
		return
	}

	if r.Mode == Mode3D {
		Step3D(&r.State, r.Seats, r.rng)
	} else {
		Step2D(&r.State, r.Seats, r.rng)
	}

	if team := WinnerTeam(r.Seats); team >= 0 {
		r.finishLocked(team)
		return
	}
	r.broadcastStateLocked()
}

// finishLocked ends the match on a win: terminal phase, ticker canceled,
// per-seat gameOver notices, and the result handed to the publisher.
func (r *Room) finishLocked(winnerTeam int) {
	r.Phase = PhaseOver
	r.State.Running = false
	r.State.Over = true
	r.stopTickingLocked()

	for _, seat := range r.Seats {
		msg := "Game over! You are the loser."
		if seat.Team() == winnerTeam {
			msg = "Game over! You are the winner!"
		}
		r.sendLocked(seat, NoticeFrame{Type: FrameGameOver, Message: msg})
	}

	res := r.resultLocked(winnerTeam, false)
	r.Logger.Infof("room %s over, winner %s", r.ID, res.WinnerID)
	if r.OnFinish != nil {
		// The publisher may touch the database and the bus; keep it off
		// this room's lane.
		go r.OnFinish(res, resultEvent(res))
	}
}

// stopTickingLocked cancels the ticker and countdown timer. Idempotent,
// and clears the running flag so a stopped room can never be resurrected
// by a stray timer.
func (r *Room) stopTickingLocked() {
	if r.tickCancel != nil {
		r.tickCancel()
		r.tickCancel = nil
	}
	if r.countdownTimer != nil {
		r.countdownTimer.Stop()
		r.countdownTimer = nil
	}
	r.State.Running = false
}

// Dispose marks the room dead. Safe to call more than once.
func (r *Room) Dispose() {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	r.stopTickingLocked()
	r.Phase = PhaseDisposed
}

// HandlePaddleMove adjusts this seat's paddle one step up or down.
// Unknown players are a no-op: the frame may race a disconnect.
func (r *Room) HandlePaddleMove(playerID, direction string) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	seat := r.seatByIDLocked(playerID)
	if seat == nil || r.Phase.Terminal() {
		return
	}
	movePaddle(seat, direction)
	r.broadcastStateLocked()
}

// HandlePaddleMove2v2 moves the seat's paddle and mirrors the movement
// onto the teammate sharing its paddle pairing.
func (r *Room) HandlePaddleMove2v2(playerID, direction string) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	seat := r.seatByIDLocked(playerID)
	if seat == nil || r.Phase.Terminal() {
		return
	}
	movePaddle(seat, direction)
	for _, mate := range r.Seats {
		if mate != seat && mate.Team() == seat.Team() {
			movePaddle(mate, direction)
		}
	}
	r.broadcastStateLocked()
}

// HandlePaddleMove3D sets the seat's lateral paddle position, clamped to
// the table's depth bounds.
func (r *Room) HandlePaddleMove3D(playerID string, pos float64) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	seat := r.seatByIDLocked(playerID)
	if seat == nil || r.Phase.Terminal() {
		return
	}
	if pos < TableMinZ {
		pos = TableMinZ
	}
	if pos > TableMaxZ {
		pos = TableMaxZ
	}
	seat.PaddleZ = pos
	r.broadcastStateLocked()
}

// HandleGameType records a pre-match variant toggle. Only meaningful
// during the countdown; ignored in any other phase.
func (r *Room) HandleGameType(playerID, gameType string) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	if r.seatByIDLocked(playerID) == nil || r.Phase != PhaseCountdown {
		return
	}
	switch gameType {
	case "3D":
		r.game2D = false
	case "2vs2":
		r.game2vs2 = true
	}
}

// HandleResetGame registers this seat's restart request. Nothing changes
// until every remaining seat has requested it; then scores and paddles
// clear, the ball is re-served and a fresh countdown begins. A straggler
// seat blocks the reset until it requests or disconnects.
func (r *Room) HandleResetGame(playerID string) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	seat := r.seatByIDLocked(playerID)
	if seat == nil || r.Phase == PhaseAbandoned || r.Phase == PhaseDisposed {
		return
	}
	seat.RestartRequested = true

	if len(r.Seats) <= 1 {
		return
	}
	for _, s := range r.Seats {
		if !s.RestartRequested {
			return
		}
	}

	r.stopTickingLocked()
	for _, s := range r.Seats {
		s.RestartRequested = false
		s.Score = 0
		s.PaddleY = (CanvasHeight - PaddleHeight) / 2
		s.PaddleZ = PaddleRestPosition
	}
	r.resetSimLocked()
	r.Phase = PhaseCountdown

	r.broadcastLocked(NoticeFrame{Type: FrameGameReset, Message: "Game has been reset! Get ready..."})
	r.broadcastMatchFoundLocked("Match restarted! Get ready to play!")
	r.countdownTimer = time.AfterFunc(r.Countdown, r.beginRunning)
	r.Logger.Infof("room %s reset by unanimous request", r.ID)
}

// HandleDisconnect removes the player's seat. A departure from a live
// room abandons it: the ticker stops, the remaining seats are notified
// once each and the match is recorded as a forfeit win for the remaining
// side. Returns true once the room is empty and ready for removal.
func (r *Room) HandleDisconnect(playerID string) bool {
	r.Mu.Lock()
	idx := -1
	for i, s := range r.Seats {
		if s.PlayerID == playerID {
			idx = i
			break
		}
	}
	if idx < 0 {
		empty := len(r.Seats) == 0
		r.Mu.Unlock()
		return empty
	}
	leaver := r.Seats[idx]

	var res *models.MatchResult
	if !r.Phase.Terminal() {
		r.Phase = PhaseAbandoned
		r.State.Over = true
		r.stopTickingLocked()
		if len(r.Seats) > 1 {
			// Forfeit: the remaining side wins with a fixed score.
			result := r.resultLocked(1-leaver.Team(), true)
			res = &result
		}
		for _, s := range r.Seats {
			if s == leaver {
				continue
			}
			msg := "Your opponent disconnected. You are the winner!"
			if s.Team() == leaver.Team() {
				msg = "Your teammate disconnected. Your team forfeits the match."
			}
			r.sendLocked(s, NoticeFrame{Type: FrameOpponentDisconnected, Message: msg})
		}
	}

	r.Seats = append(r.Seats[:idx], r.Seats[idx+1:]...)
	empty := len(r.Seats) == 0
	if empty {
		r.Phase = PhaseDisposed
	}
	r.Mu.Unlock()

	if res != nil && r.OnFinish != nil {
		go r.OnFinish(*res, resultEvent(*res))
	}
	return empty
}

func (r *Room) seatByIDLocked(playerID string) *Seat {
	for _, s := range r.Seats {
		if s.PlayerID == playerID {
			return s
		}
	}
	return nil
}

func (r *Room) resetSimLocked() {
	if r.Mode == Mode3D {
		ResetBall3D(&r.State, r.rng)
	} else {
		ResetBall2D(&r.State, r.rng)
	}
	r.State.Running = false
	r.State.Over = false
}

func movePaddle(seat *Seat, direction string) {
	switch direction {
	case "up":
		seat.PaddleY -= PaddleSpeed
		if seat.PaddleY < 0 {
			seat.PaddleY = 0
		}
	case "down":
		seat.PaddleY += PaddleSpeed
		if seat.PaddleY > CanvasHeight-PaddleHeight {
			seat.PaddleY = CanvasHeight - PaddleHeight
		}
	}
}

func (r *Room) sendLocked(seat *Seat, frame any) {
	if r.Send != nil {
		r.Send(seat, frame)
	}
}

func (r *Room) broadcastLocked(frame any) {
	for _, seat := range r.Seats {
		r.sendLocked(seat, frame)
	}
}

// broadcastStateLocked pushes every seat its mirrored view of the
// simulation. Encode-and-send is fire-and-forget; a broken seat shows up
// as a read-loop failure, not here.
func (r *Room) broadcastStateLocked() {
	for _, seat := range r.Seats {
		r.sendLocked(seat, EncodeFor(seat, r.Seats, &r.State, r.Mode))
	}
}

func (r *Room) broadcastMatchFoundLocked(message string) {
	frame := MatchFoundFrame{
		Type:    FrameMatchFound,
		GameID:  r.ID,
		Message: message,
		Players: seatViews(r.Seats, r.Mode == Mode3D),
	}
	r.broadcastLocked(frame)
}

// resultLocked builds the box score from the current seats. With forfeit
// set, scores are overridden to a win-threshold-to-zero sweep for the
// winning team.
func (r *Room) resultLocked(winnerTeam int, forfeit bool) models.MatchResult {
	teamOneScore := r.teamScoreLocked(0)
	teamTwoScore := r.teamScoreLocked(1)
	if forfeit {
		if winnerTeam == 0 {
			teamOneScore, teamTwoScore = WinningScore, 0
		} else {
			teamOneScore, teamTwoScore = 0, WinningScore
		}
	}
	return models.MatchResult{
		GameID:         r.ID,
		PlayerOneID:    r.teamIDsLocked(0),
		PlayerOneScore: teamOneScore,
		PlayerTwoID:    r.teamIDsLocked(1),
		PlayerTwoScore: teamTwoScore,
		WinnerID:       r.teamIDsLocked(winnerTeam),
		Mode:           r.modeLabelLocked(),
		DurationMs:     time.Since(r.CreatedAt).Milliseconds(),
		TournamentID:   r.TournamentID,
	}
}

func (r *Room) teamIDsLocked(team int) string {
	var ids []string
	for _, s := range r.Seats {
		if s.Team() == team {
			ids = append(ids, s.PlayerID)
		}
	}
	return strings.Join(ids, ",")
}

func (r *Room) teamScoreLocked(team int) int {
	for _, s := range r.Seats {
		if s.Team() == team {
			return s.Score
		}
	}
	return 0
}

func (r *Room) modeLabelLocked() string {
	if r.game2vs2 {
		return string(Mode2v2)
	}
	if !r.game2D {
		return string(Mode3D)
	}
	return string(r.Mode)
}

func resultEvent(res models.MatchResult) *models.MatchResultEvent {
	if res.TournamentID == "" {
		return nil
	}
	return &models.MatchResultEvent{
		WinnerID:     res.WinnerID,
		GameMatchID:  res.GameID,
		TournamentID: res.TournamentID,
	}
}

// internal/game/matchmaker.go
package game

import (
	"errors"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
)

var (
	ErrMissingPlayerID  = errors.New("missing player id")
	ErrUnknownInvite    = errors.New("no pending invite for this room")
	ErrNotInvited       = errors.New("player is not a participant of this invite")
	ErrOpponentMismatch = errors.New("requested opponent does not match the invite")
	ErrDuplicateInvite  = errors.New("invite already exists for this room")
	ErrInviteNotFound   = errors.New("invite not found")
)

// TournamentInvite is a match-start directive from the bracket service: a
// pre-declared room id and its two participants, waiting for both of them
// to connect.
type TournamentInvite struct {
	PlayerOneID  string `json:"playerOneId"`
	PlayerTwoID  string `json:"playerTwoId"`
	RoomID       string `json:"roomId"`
	TournamentID string `json:"tournamentId"`

	seatOne *Seat
	seatTwo *Seat
}

// JoinOptions carries the optional direct-invite parameters parsed from
// the transport's query string.
type JoinOptions struct {
	Private      bool
	RoomID       string
	OpponentID   string
	TournamentID string
}

// Matchmaker pairs joining players into rooms: open-queue FIFO matching
// per mode, plus the direct-invite path for tournament-seeded matches.
// Joins are serialized by its own mutex, independent of any room's lane.
type Matchmaker struct {
	mu      sync.Mutex
	invites []*TournamentInvite

	Registry *Registry
	Logger   *logrus.Logger

	// Send and OnFinish are wired into every room this matchmaker creates.
	Send     SendFunc
	OnFinish OnFinishFunc

	// Countdown overrides the default pre-match countdown on new rooms.
	Countdown time.Duration
}

func NewMatchmaker(reg *Registry, logger *logrus.Logger) *Matchmaker {
	if logger == nil {
		logger = logrus.New()
	}
	return &Matchmaker{
		Registry:  reg,
		Logger:    logger,
		Countdown: CountdownTime,
	}
}

// Join places a connecting player: into a pre-declared invite room when
// one is referenced, otherwise into the open queue for the mode, creating
// a room as soon as the roster fills. An empty player id is rejected
// before any resource is allocated.
func (m *Matchmaker) Join(playerID string, mode Mode, conn *websocket.Conn, opts JoinOptions) error {
	if playerID == "" {
		return ErrMissingPlayerID
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if opts.Private && opts.RoomID != "" {
		return m.joinInviteLocked(playerID, conn, opts)
	}
	return m.joinQueueLocked(playerID, mode, conn)
}

func (m *Matchmaker) joinQueueLocked(playerID string, mode Mode, conn *websocket.Conn) error {
	entry := &WaitingEntry{PlayerID: playerID, Conn: conn, Mode: mode, JoinedAt: time.Now()}
	if err := m.Registry.RegisterWaiting(entry); err != nil {
		return err
	}
	m.Logger.Infof("player %s queued for %s (%d waiting)", playerID, mode, m.Registry.WaitingCount(mode))

	need := mode.SeatCount()
	if m.Registry.WaitingCount(mode) < need {
		return nil
	}

	// Oldest entries first; seat index follows pop order, so the earliest
	// entry takes seat 0 and 2v2 teams interleave by arrival parity.
	entries := m.Registry.PopWaiting(mode, need)
	seats := make([]*Seat, len(entries))
	for i, e := range entries {
		seats[i] = NewSeat(e.PlayerID, e.Conn, i)
	}
	m.startRoomLocked("", mode, seats, "")
	return nil
}

func (m *Matchmaker) joinInviteLocked(playerID string, conn *websocket.Conn, opts JoinOptions) error {
	inv := m.inviteByRoomLocked(opts.RoomID)
	if inv == nil {
		return ErrUnknownInvite
	}

	var seat *Seat
	var opponent string
	switch playerID {
	case inv.PlayerOneID:
		seat = NewSeat(playerID, conn, 0)
		opponent = inv.PlayerTwoID
	case inv.PlayerTwoID:
		seat = NewSeat(playerID, conn, 1)
		opponent = inv.PlayerOneID
	default:
		return ErrNotInvited
	}
	// A client naming an expected opponent must agree with the directive.
	if opts.OpponentID != "" && opts.OpponentID != opponent {
		return ErrOpponentMismatch
	}
	if err := m.Registry.MarkWaiting(playerID, Mode1v1); err != nil {
		return err
	}
	if seat.Index == 0 {
		inv.seatOne = seat
	} else {
		inv.seatTwo = seat
	}
	m.Logger.Infof("player %s bound to invited room %s (tournament %s)", playerID, inv.RoomID, inv.TournamentID)

	if inv.seatOne == nil || inv.seatTwo == nil {
		return nil
	}

	m.removeInviteLocked(inv.RoomID)
	m.startRoomLocked(inv.RoomID, Mode1v1, []*Seat{inv.seatOne, inv.seatTwo}, inv.TournamentID)
	return nil
}

// startRoomLocked builds and registers a room, rebinding every seat from
// waiting to the room, and kicks off the countdown.
func (m *Matchmaker) startRoomLocked(id string, mode Mode, seats []*Seat, tournamentID string) {
	room := NewRoom(id, mode, seats, tournamentID, m.Logger)
	room.Countdown = m.Countdown
	room.Send = m.Send
	room.OnFinish = m.OnFinish

	m.Registry.AddRoom(room)
	for _, seat := range seats {
		m.Registry.Release(seat.PlayerID)
		m.Registry.PromoteToRoom(seat.PlayerID, room)
	}
	m.Logger.Infof("room %s created (%s, %d seats)", room.ID, mode, len(seats))
	room.StartCountdown()
}

// HandleDisconnect cleans up after a closed connection: a waiting entry
// simply leaves its queue; a seated player abandons its room, and the
// room is removed from the registry the instant it empties. The whole
// cleanup holds the matchmaker lock so it serializes with Join: the
// player's location cannot flip from waiting to seated between the
// lookup and the branch acting on it.
func (m *Matchmaker) HandleDisconnect(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, inv := range m.invites {
		if inv.seatOne != nil && inv.seatOne.PlayerID == playerID {
			inv.seatOne = nil
		}
		if inv.seatTwo != nil && inv.seatTwo.PlayerID == playerID {
			inv.seatTwo = nil
		}
	}

	loc, _, room := m.Registry.Locate(playerID)
	switch loc {
	case LocationWaiting:
		m.Registry.Release(playerID)
		m.Logger.Infof("player %s left the queue", playerID)
	case LocationRoom:
		empty := room.HandleDisconnect(playerID)
		m.Registry.Release(playerID)
		if empty {
			room.Dispose()
			m.Registry.RemoveRoom(room.ID)
			m.Logger.Infof("room %s disposed", room.ID)
		}
	}
}

// CreateInvite registers a match-start directive. Duplicate room ids are
// rejected so a bracket cannot double-book a match.
func (m *Matchmaker) CreateInvite(inv TournamentInvite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inviteByRoomLocked(inv.RoomID) != nil {
		return ErrDuplicateInvite
	}
	m.invites = append(m.invites, &inv)
	m.Logger.Infof("tournament invite created: %s vs %s in room %s (tournament %s)",
		inv.PlayerOneID, inv.PlayerTwoID, inv.RoomID, inv.TournamentID)
	return nil
}

// Invites returns a snapshot of all pending invites.
func (m *Matchmaker) Invites() []TournamentInvite {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TournamentInvite, 0, len(m.invites))
	for _, inv := range m.invites {
		out = append(out, *inv)
	}
	return out
}

// InvitesByTournament returns pending invites for one tournament.
func (m *Matchmaker) InvitesByTournament(tournamentID string) []TournamentInvite {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []TournamentInvite
	for _, inv := range m.invites {
		if inv.TournamentID == tournamentID {
			out = append(out, *inv)
		}
	}
	return out
}

// DeleteInvite withdraws a pending directive.
func (m *Matchmaker) DeleteInvite(roomID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.inviteByRoomLocked(roomID) == nil {
		return ErrInviteNotFound
	}
	m.removeInviteLocked(roomID)
	return nil
}

func (m *Matchmaker) inviteByRoomLocked(roomID string) *TournamentInvite {
	for _, inv := range m.invites {
		if inv.RoomID == roomID {
			return inv
		}
	}
	return nil
}

func (m *Matchmaker) removeInviteLocked(roomID string) {
	for i, inv := range m.invites {
		if inv.RoomID == roomID {
			m.invites = append(m.invites[:i], m.invites[i+1:]...)
			return
		}
	}
}

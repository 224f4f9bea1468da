// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/pongarena/matchengine/internal/game"
	"github.com/pongarena/matchengine/internal/middleware"
)

const writeTimeout = 3 * time.Second

// NewSendFunc returns the engine's delivery function: fire-and-forget
// JSON writes with a per-write timeout, so a slow or broken seat can
// never stall a room's tick lane. Failures are logged; the seat's read
// loop notices the dead connection and drives the disconnect.
func NewSendFunc(logger *logrus.Logger) game.SendFunc {
	return func(seat *game.Seat, frame any) {
		if seat.Conn == nil {
			return
		}
		data, err := json.Marshal(frame)
		if err != nil {
			logger.Errorf("failed to marshal frame for player %s: %v", seat.PlayerID, err)
			return
		}
		conn, playerID := seat.Conn, seat.PlayerID
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			defer cancel()
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				logger.Warnf("dropped frame for player %s: %v", playerID, err)
			}
		}()
	}
}

// WSHandler upgrades the connection for one of the three mode endpoints,
// runs the join, and then reads control frames until the connection dies.
// Player identity comes from the userId query parameter; direct/tournament
// joins additionally carry private, roomId, opponentId and tournamentId.
func WSHandler(logger *logrus.Logger, mm *game.Matchmaker, mode game.Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		playerID := q.Get("userId")
		if playerID == "" {
			// Fail fast: no upgrade, no queue entry.
			http.Error(w, "missing userId", http.StatusBadRequest)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("websocket accept failed for player %s: %v", playerID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler exit")
		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		opts := game.JoinOptions{
			Private:      q.Get("private") == "true",
			RoomID:       q.Get("roomId"),
			OpponentID:   q.Get("opponentId"),
			TournamentID: q.Get("tournamentId"),
		}

		if err := mm.Join(playerID, mode, c, opts); err != nil {
			writeFrame(c, game.ErrorFrame{Type: game.FrameError, Message: joinErrorMessage(err)})
			c.Close(websocket.StatusPolicyViolation, "join rejected")
			return
		}

		writeFrame(c, game.ConnectedFrame{
			Type:     game.FrameConnected,
			PlayerID: playerID,
			GameMode: string(mode),
			Message:  fmt.Sprintf("Connected in %s mode. Searching for match...", mode),
		})

		readFrames(r.Context(), c, mm, playerID, logger)

		mm.HandleDisconnect(playerID)
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, nil)
	}
}

// readFrames is the connection's read loop: decode once, route to the
// player's room. A control frame for a player not in any room is a no-op;
// malformed frames get an error frame back without closing anything.
func readFrames(ctx context.Context, c *websocket.Conn, mm *game.Matchmaker, playerID string, logger *logrus.Logger) {
	for {
		_, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("websocket closed normally for player %s", playerID)
			} else if !errors.Is(err, context.Canceled) {
				logger.Warnf("websocket read error for player %s: %v", playerID, err)
			}
			return
		}

		frame, err := DecodeInbound(data)
		if err != nil {
			logger.Warnf("bad frame from player %s: %v", playerID, err)
			writeFrame(c, game.ErrorFrame{Type: game.FrameError, Message: err.Error()})
			continue
		}

		switch f := frame.(type) {
		case PingFrame:
			writeFrame(c, game.PongFrame{Type: game.FramePong})
		case GameTypeFrame:
			if room := mm.Registry.RoomByPlayer(playerID); room != nil {
				room.HandleGameType(playerID, f.Game)
			}
		case PaddleMoveFrame:
			if room := mm.Registry.RoomByPlayer(playerID); room != nil {
				room.HandlePaddleMove(playerID, f.Direction)
			}
		case PaddleMove2v2Frame:
			if room := mm.Registry.RoomByPlayer(playerID); room != nil {
				room.HandlePaddleMove2v2(playerID, f.Direction)
			}
		case PaddleMove3DFrame:
			if room := mm.Registry.RoomByPlayer(playerID); room != nil {
				room.HandlePaddleMove3D(playerID, f.Direction)
			}
		case ResetGameFrame:
			if room := mm.Registry.RoomByPlayer(playerID); room != nil {
				room.HandleResetGame(playerID)
			}
		}
	}
}

func joinErrorMessage(err error) string {
	switch {
	case errors.Is(err, game.ErrAlreadyQueued):
		return "Player is already in the waiting queue"
	case errors.Is(err, game.ErrAlreadyInRoom):
		return "Player is already in an active game"
	case errors.Is(err, game.ErrUnknownInvite):
		return "No pending match for this room"
	case errors.Is(err, game.ErrNotInvited):
		return "Player is not a participant of this match"
	case errors.Is(err, game.ErrOpponentMismatch):
		return "Requested opponent does not match this match"
	default:
		return "Unable to join"
	}
}

func writeFrame(c *websocket.Conn, frame any) {
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	_ = c.Write(ctx, websocket.MessageText, data)
}

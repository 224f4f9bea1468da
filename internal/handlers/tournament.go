// internal/handlers/tournament.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pongarena/matchengine/internal/game"
)

type apiResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, resp apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// InviteHandler serves the bracket service's match-start directives on
// /api/tournament/invite: POST creates one, DELETE (with a trailing room
// id) withdraws it.
func InviteHandler(logger *logrus.Logger, mm *game.Matchmaker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			var inv game.TournamentInvite
			if err := json.NewDecoder(r.Body).Decode(&inv); err != nil {
				respondJSON(w, http.StatusBadRequest, apiResponse{Error: "invalid JSON body"})
				return
			}
			if inv.PlayerOneID == "" || inv.PlayerTwoID == "" || inv.RoomID == "" || inv.TournamentID == "" {
				respondJSON(w, http.StatusBadRequest, apiResponse{
					Error: "missing required fields: playerOneId, playerTwoId, roomId, tournamentId",
				})
				return
			}
			if err := mm.CreateInvite(inv); err != nil {
				if errors.Is(err, game.ErrDuplicateInvite) {
					respondJSON(w, http.StatusConflict, apiResponse{Error: "tournament match already exists for this room"})
					return
				}
				respondJSON(w, http.StatusInternalServerError, apiResponse{Error: "failed to create tournament invitation"})
				return
			}
			logger.WithFields(logrus.Fields{
				"roomId":       inv.RoomID,
				"tournamentId": inv.TournamentID,
			}).Info("Tournament invitation created")
			respondJSON(w, http.StatusOK, apiResponse{Success: true, Message: "tournament invitation created", Data: inv})

		case http.MethodDelete:
			roomID := strings.TrimPrefix(r.URL.Path, "/api/tournament/invite/")
			if roomID == "" || strings.Contains(roomID, "/") {
				respondJSON(w, http.StatusBadRequest, apiResponse{Error: "missing room id"})
				return
			}
			if err := mm.DeleteInvite(roomID); err != nil {
				respondJSON(w, http.StatusNotFound, apiResponse{Error: "tournament invitation not found"})
				return
			}
			respondJSON(w, http.StatusOK, apiResponse{Success: true, Message: "tournament invitation deleted"})

		default:
			respondJSON(w, http.StatusMethodNotAllowed, apiResponse{Error: "method not allowed"})
		}
	}
}

// ListInvitesHandler lists every pending invite (/api/tournament/invites)
// or one tournament's (/api/tournament/{tournamentId}/invites).
func ListInvitesHandler(mm *game.Matchmaker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondJSON(w, http.StatusMethodNotAllowed, apiResponse{Error: "method not allowed"})
			return
		}
		rest := strings.TrimPrefix(r.URL.Path, "/api/tournament/")
		if rest == "invites" {
			respondJSON(w, http.StatusOK, apiResponse{Success: true, Data: mm.Invites()})
			return
		}
		if tid, ok := strings.CutSuffix(rest, "/invites"); ok && tid != "" {
			respondJSON(w, http.StatusOK, apiResponse{Success: true, Data: mm.InvitesByTournament(tid)})
			return
		}
		respondJSON(w, http.StatusNotFound, apiResponse{Error: "not found"})
	}
}

// CanJoinHandler lets a client check the registry before opening a
// websocket: a player already queued or already seated cannot join again.
func CanJoinHandler(reg *game.Registry) http.HandlerFunc {
	type canJoinResponse struct {
		CanJoin bool   `json:"canJoin"`
		Reason  string `json:"reason,omitempty"`
		Message string `json:"message,omitempty"`
		RoomID  string `json:"roomId,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondJSON(w, http.StatusMethodNotAllowed, apiResponse{Error: "method not allowed"})
			return
		}
		playerID := strings.TrimPrefix(r.URL.Path, "/api/can-join/")
		if playerID == "" || strings.Contains(playerID, "/") {
			respondJSON(w, http.StatusBadRequest, apiResponse{Error: "missing player id"})
			return
		}

		var resp canJoinResponse
		loc, _, room := reg.Locate(playerID)
		switch loc {
		case game.LocationRoom:
			resp = canJoinResponse{
				Reason:  "already_in_game",
				Message: "Player is already in an active game",
				RoomID:  room.ID,
			}
		case game.LocationWaiting:
			resp = canJoinResponse{
				Reason:  "already_waiting",
				Message: "Player is already in the waiting queue",
			}
		default:
			resp = canJoinResponse{CanJoin: true}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

// internal/game/events.go
package game

// Outbound frame type tags. Together with the structs below they form the
// closed set of messages the engine ever sends to a client.
const (
	FrameConnected            = "connected"
	FrameMatchFound           = "matchFound"
	FrameGameState            = "gameState"
	FrameGameState3D          = "gameState_3D"
	FrameGameOver             = "gameOver"
	FrameOpponentDisconnected = "opponentDisconnected"
	FrameGameReset            = "gameReset"
	FrameGameStarted          = "gameStarted"
	FramePong                 = "pong"
	FrameError                = "error"
)

// ConnectedFrame acknowledges a fresh connection before matchmaking.
type ConnectedFrame struct {
	Type     string `json:"type"`
	PlayerID string `json:"playerId"`
	GameMode string `json:"gameMode"`
	Message  string `json:"message"`
}

// MatchFoundFrame announces a filled room and its roster.
type MatchFoundFrame struct {
	Type    string     `json:"type"`
	GameID  string     `json:"gameId"`
	Message string     `json:"message"`
	Players []SeatView `json:"players"`
}

// NoticeFrame carries the simple one-line notifications: gameOver,
// opponentDisconnected, gameReset, gameStarted.
type NoticeFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// PongFrame answers a ping.
type PongFrame struct {
	Type string `json:"type"`
}

// ErrorFrame reports an input error without closing the connection.
type ErrorFrame struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

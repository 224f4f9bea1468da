// internal/handlers/frames.go
package handlers

import (
	"encoding/json"
	"fmt"
)

// Inbound is a control frame decoded once at the transport boundary. The
// concrete types below are the closed set of frames a client may send;
// nothing past this point ever dispatches on a raw type string.
type Inbound interface {
	isInbound()
}

// GameTypeFrame toggles a pending room's variant flags pre-match.
type GameTypeFrame struct {
	Game string
}

// PaddleMoveFrame steps a 2D paddle "up" or "down".
type PaddleMoveFrame struct {
	Direction string
}

// PaddleMove2v2Frame steps a 2v2 paddle pairing "up" or "down".
type PaddleMove2v2Frame struct {
	Direction string
}

// PaddleMove3DFrame sets the absolute lateral paddle position.
type PaddleMove3DFrame struct {
	Direction float64
}

// ResetGameFrame requests a full game restart.
type ResetGameFrame struct{}

// PingFrame is a keepalive.
type PingFrame struct{}

func (GameTypeFrame) isInbound()      {}
func (PaddleMoveFrame) isInbound()    {}
func (PaddleMove2v2Frame) isInbound() {}
func (PaddleMove3DFrame) isInbound()  {}
func (ResetGameFrame) isInbound()     {}
func (PingFrame) isInbound()          {}

// DecodeInbound parses one wire message into its tagged variant. Unknown
// or malformed frames return an error for the caller to answer with an
// error frame; the connection stays open.
func DecodeInbound(data []byte) (Inbound, error) {
	var raw struct {
		Type      string          `json:"type"`
		Game      string          `json:"game"`
		Direction json.RawMessage `json:"direction"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON frame: %w", err)
	}

	switch raw.Type {
	case "gameType":
		return GameTypeFrame{Game: raw.Game}, nil
	case "paddleMove":
		dir, err := decodeDirection(raw.Direction)
		if err != nil {
			return nil, err
		}
		return PaddleMoveFrame{Direction: dir}, nil
	case "paddleMove2vs2":
		dir, err := decodeDirection(raw.Direction)
		if err != nil {
			return nil, err
		}
		return PaddleMove2v2Frame{Direction: dir}, nil
	case "paddleMove3D":
		var pos float64
		if err := json.Unmarshal(raw.Direction, &pos); err != nil {
			return nil, fmt.Errorf("paddleMove3D direction must be a number: %w", err)
		}
		return PaddleMove3DFrame{Direction: pos}, nil
	case "resetGame":
		return ResetGameFrame{}, nil
	case "ping":
		return PingFrame{}, nil
	default:
		return nil, fmt.Errorf("unknown frame type %q", raw.Type)
	}
}

func decodeDirection(raw json.RawMessage) (string, error) {
	var dir string
	if err := json.Unmarshal(raw, &dir); err != nil {
		return "", fmt.Errorf("paddleMove direction must be a string: %w", err)
	}
	if dir != "up" && dir != "down" {
		return "", fmt.Errorf("paddleMove direction must be \"up\" or \"down\", got %q", dir)
	}
	return dir, nil
}

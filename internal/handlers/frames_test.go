// internal/handlers/frames_test.go
package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInboundVariants(t *testing.T) {
	tests := []struct {
		name string
		data string
		want Inbound
	}{
		{"gameType", `{"type":"gameType","game":"2vs2"}`, GameTypeFrame{Game: "2vs2"}},
		{"paddleMove up", `{"type":"paddleMove","direction":"up"}`, PaddleMoveFrame{Direction: "up"}},
		{"paddleMove down", `{"type":"paddleMove","direction":"down"}`, PaddleMoveFrame{Direction: "down"}},
		{"paddleMove2vs2", `{"type":"paddleMove2vs2","direction":"down"}`, PaddleMove2v2Frame{Direction: "down"}},
		{"paddleMove3D", `{"type":"paddleMove3D","direction":-41.5}`, PaddleMove3DFrame{Direction: -41.5}},
		{"resetGame", `{"type":"resetGame"}`, ResetGameFrame{}},
		{"ping", `{"type":"ping"}`, PingFrame{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DecodeInbound([]byte(tc.data))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDecodeInboundRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{{{`},
		{"unknown type", `{"type":"teleport"}`},
		{"empty type", `{}`},
		{"bad direction word", `{"type":"paddleMove","direction":"sideways"}`},
		{"numeric 2D direction", `{"type":"paddleMove","direction":3}`},
		{"string 3D direction", `{"type":"paddleMove3D","direction":"up"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeInbound([]byte(tc.data))
			assert.Error(t, err)
		})
	}
}

package ws

import (
	"encoding/json"
)

// MessageType discriminates the WebSocket envelope.
type MessageType string

const (
	MessageTypeMove       MessageType = "move"
	MessageTypeMoveResult MessageType = "moveResult"
	MessageTypeGameState  MessageType = "gameState"
	MessageTypeResign     MessageType = "resign"
	MessageTypeError      MessageType = "error"
)

// Message is the envelope for every WebSocket frame in both directions.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

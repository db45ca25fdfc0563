package websocket

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/dom/libriverse/internal/domain"
)

type MessageType string

const (
	// Client to Server
	MessageTypePing MessageType = "PING"

	// Server to Client
	MessageTypePong                    MessageType = "PONG"
	MessageTypeFollowed                MessageType = MessageType(domain.ActivityFollowed)
	MessageTypeRecommendationLiked     MessageType = MessageType(domain.ActivityRecommendationLiked)
	MessageTypeRecommendationCommented MessageType = MessageType(domain.ActivityRecommendationCommented)
	MessageTypeError                   MessageType = "ERROR"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

package server

import (
	"encoding/json"
	"time"

	"github.com/oraziooztas/poker-trainer/poker"
	"github.com/oraziooztas/poker-trainer/sdk/classification"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages
//
// Equity requests carry an analysis.Request as data.

type OutsRequestData struct {
	HoleCards      []poker.Card `json:"holeCards"`
	CommunityCards []poker.Card `json:"communityCards"`
}

type EvaluateRequestData struct {
	Cards []poker.Card `json:"cards"`
}

// Server → Client Messages
//
// Results carry an analysis.EquityResult and hand messages a
// poker.HandResult.

type ProgressData struct {
	Fraction float64 `json:"fraction"`
}

type OutsData struct {
	Outs    []OutsEntry                 `json:"outs"`
	Texture classification.BoardTexture `json:"texture"`
}

// OutsEntry is one draw with its quick rule of 2 and 4 estimates.
type OutsEntry struct {
	Draw        string  `json:"draw"`
	Outs        int     `json:"outs"`
	Probability float64 `json:"probability"`
	Description string  `json:"description"`
	ToTurn      float64 `json:"ruleOf2"`
	ToRiver     float64 `json:"ruleOf4"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

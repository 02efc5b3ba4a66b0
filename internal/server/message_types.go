package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

const (
	// Client → Server
	MessageTypeEquity   MessageType = "equity"
	MessageTypeCancel   MessageType = "cancel"
	MessageTypeOuts     MessageType = "outs"
	MessageTypeEvaluate MessageType = "evaluate"

	// Server → Client
	MessageTypeProgress MessageType = "progress"
	MessageTypeResult   MessageType = "result"
	MessageTypeHand     MessageType = "hand"
	MessageTypeError    MessageType = "error"
)

// Error codes carried by error messages.
const (
	ErrorCodeInvalidMessage    = "invalid_message"
	ErrorCodeInvalidInput      = "invalid_input"
	ErrorCodeExhaustedDeck     = "exhausted_deck"
	ErrorCodeComputationFailed = "computation_failed"
	ErrorCodeUnknownType       = "unknown_type"
)

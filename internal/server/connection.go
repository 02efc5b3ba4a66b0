package server

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/oraziooztas/poker-trainer/poker"
	"github.com/oraziooztas/poker-trainer/sdk/analysis"
	"github.com/oraziooztas/poker-trainer/sdk/calculator"
	"github.com/oraziooztas/poker-trainer/sdk/classification"
)

// Connection represents a WebSocket connection to a client. Each connection
// owns one calculator, so a new equity request supersedes the previous one.
type Connection struct {
	conn      *websocket.Conn
	send      chan *Message
	calc      *calculator.Calculator
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, runner calculator.Runner, logger *log.Logger, opts ...calculator.Option) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	logger = logger.WithPrefix("conn")

	return &Connection{
		conn:   conn,
		send:   make(chan *Message, 256),
		calc:   calculator.New(runner, append([]calculator.Option{calculator.WithLogger(logger)}, opts...)...),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// Shutdown cancels any running calculation and closes the connection. Unlike
// Close it must not be called from an observer callback.
func (c *Connection) Shutdown() error {
	c.calc.Cancel()
	return c.Close()
}

// Done is closed once the connection has been closed.
func (c *Connection) Done() <-chan struct{} {
	return c.ctx.Done()
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, this is expected during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close() // Ignore close errors
		return ErrConnectionClosed
	}
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Shutdown() }() // Ignore close errors during cleanup

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "request", msg.RequestID)

	switch msg.Type {
	case MessageTypeEquity:
		var req analysis.Request
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			c.sendError(msg.RequestID, ErrorCodeInvalidMessage, "Failed to parse equity request")
			return
		}
		if err := c.calc.Start(req, &requestObserver{conn: c, requestID: msg.RequestID}); err != nil {
			c.sendError(msg.RequestID, errorCode(err), err.Error())
		}

	case MessageTypeCancel:
		c.calc.Cancel()

	case MessageTypeOuts:
		var data OutsRequestData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg.RequestID, ErrorCodeInvalidMessage, "Failed to parse outs request")
			return
		}
		outs := classification.ClassifyOuts(data.HoleCards, data.CommunityCards)
		entries := make([]OutsEntry, 0, len(outs))
		for _, o := range outs {
			entries = append(entries, OutsEntry{
				Draw:        o.Draw.String(),
				Outs:        o.Outs,
				Probability: o.Probability,
				Description: o.Description,
				ToTurn:      o.Estimate(false),
				ToRiver:     o.Estimate(true),
			})
		}
		c.reply(msg.RequestID, MessageTypeOuts, OutsData{
			Outs:    entries,
			Texture: classification.AnalyzeBoardTexture(poker.NewHand(data.CommunityCards...)),
		})

	case MessageTypeEvaluate:
		var data EvaluateRequestData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError(msg.RequestID, ErrorCodeInvalidMessage, "Failed to parse evaluate request")
			return
		}
		result, err := poker.Evaluate(data.Cards...)
		if err != nil {
			c.sendError(msg.RequestID, errorCode(err), err.Error())
			return
		}
		c.reply(msg.RequestID, MessageTypeHand, result)

	default:
		c.logger.Warn("Unknown message type", "type", msg.Type)
		c.sendError(msg.RequestID, ErrorCodeUnknownType, "Unknown message type")
	}
}

// reply sends data tagged with the request it answers.
func (c *Connection) reply(requestID string, messageType MessageType, data any) {
	msg, err := NewMessage(messageType, data)
	if err != nil {
		c.logger.Error("Failed to create message", "type", messageType, "error", err)
		return
	}
	msg.RequestID = requestID
	_ = c.SendMessage(msg) // Ignore send errors for replies
}

// sendError sends an error message to the client
func (c *Connection) sendError(requestID, code, message string) {
	c.reply(requestID, MessageTypeError, ErrorData{Code: code, Message: message})
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, analysis.ErrExhaustedDeck):
		return ErrorCodeExhaustedDeck
	case errors.Is(err, poker.ErrInvalidInput):
		return ErrorCodeInvalidInput
	default:
		return ErrorCodeComputationFailed
	}
}

// requestObserver forwards one calculation's output to the client.
type requestObserver struct {
	conn      *Connection
	requestID string
}

func (o *requestObserver) OnProgress(fraction float64) {
	o.conn.reply(o.requestID, MessageTypeProgress, ProgressData{Fraction: fraction})
}

func (o *requestObserver) OnResult(result analysis.EquityResult) {
	o.conn.reply(o.requestID, MessageTypeResult, result)
}

func (o *requestObserver) OnError(err error) {
	o.conn.sendError(o.requestID, errorCode(err), err.Error())
}

package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"setgame/internal/app"
	"setgame/internal/domain"
	"setgame/internal/schedule"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client message types.
const (
	MsgStart   = "start"
	MsgSelect  = "select"
	MsgRefresh = "refresh"
	MsgBack    = "back"
	MsgHint    = "hint"
)

// Server-only message types; the rest mirror app.EventKind.
const (
	MsgInit = "init"
)

const writeWait = 5 * time.Second

// clientMessage is every inbound message; fields not used by Type are ignored.
type clientMessage struct {
	Type            string `json:"type"`
	Difficulty      string `json:"difficulty,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
	Key             string `json:"key,omitempty"`
}

type initMessage struct {
	SessionID       string `json:"session_id"`
	DurationOptions []int  `json:"duration_options"`
}

// conn is one websocket player. Only run touches the session and writes to ws.
type conn struct {
	id      string
	ws      *websocket.Conn
	logger  *zap.Logger
	server  *Server
	clock   *schedule.Scheduler
	outbox  *app.Outbox
	session *app.Session
	phase   domain.Phase
}

func (s *Server) handleWebSocket(c *gin.Context) {
	ws, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	id := uuid.NewString()
	logger := s.logger.With(zap.String("session_id", id))
	clock := schedule.New()
	outbox := app.NewOutbox()
	cn := &conn{
		id:     id,
		ws:     ws,
		logger: logger,
		server: s,
		clock:  clock,
		outbox: outbox,
		session: app.NewSession(clock, outbox, outbox, app.Options{
			FeedbackDelay:         s.cfg.FeedbackDelay,
			BoardSizes:            s.cfg.BoardSizeMap(),
			MaxGenerationAttempts: s.cfg.MaxGenerationAttempts,
			Rand:                  rand.New(rand.NewSource(time.Now().UnixNano())),
			Logger:                logger,
			Recorder:              s.recorder,
		}),
		phase: domain.PhaseIdle,
	}

	s.active.Add(1)
	defer s.active.Add(-1)
	logger.Info("WebSocket session opened", zap.String("remote", c.Request.RemoteAddr))
	cn.run(c.Request)
	logger.Info("WebSocket session closed")
}

// run owns the session until the client disconnects.
func (c *conn) run(r *http.Request) {
	defer c.ws.Close()
	defer func() { _ = c.session.Back() }()

	inbound := make(chan clientMessage)
	done := make(chan struct{})
	stop := make(chan struct{})
	defer close(stop)
	go c.readLoop(inbound, done, stop)

	if err := c.write(MsgInit, initMessage{SessionID: c.id, DurationOptions: c.server.cfg.DurationOptions}); err != nil {
		return
	}
	if err := c.write(string(app.EventPhase), app.PhaseEvent(c.session).Payload); err != nil {
		return
	}

	ticker := time.NewTicker(c.server.tick)
	defer ticker.Stop()
	last := time.Now()

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case msg := <-inbound:
			if err := c.apply(msg); err != nil {
				c.logger.Debug("Client message rejected", zap.String("type", msg.Type), zap.Error(err))
				if werr := c.write(string(app.EventError), app.ErrorEvent(errorCode(err), err).Payload); werr != nil {
					return
				}
			}
		case now := <-ticker.C:
			c.clock.Advance(now.Sub(last))
			last = now
		}
		if err := c.flush(); err != nil {
			c.logger.Debug("WebSocket write failed", zap.Error(err))
			return
		}
	}
}

func (c *conn) readLoop(inbound chan<- clientMessage, done chan<- struct{}, stop <-chan struct{}) {
	defer close(done)
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Debug("Malformed client message", zap.Error(err))
			msg = clientMessage{Type: "invalid"}
		}
		select {
		case inbound <- msg:
		case <-stop:
			return
		}
	}
}

var errUnknownMessage = errors.New("unknown message type")

// apply translates a client message into a session command.
func (c *conn) apply(msg clientMessage) error {
	var cmd app.Command
	switch msg.Type {
	case MsgStart:
		d := domain.DifficultyStandard
		if msg.Difficulty != "" {
			parsed, err := domain.ParseDifficulty(msg.Difficulty)
			if err != nil {
				return err
			}
			d = parsed
		}
		duration := msg.DurationSeconds
		if duration == 0 {
			duration = c.server.cfg.DefaultDurationSeconds
		}
		cmd = app.StartGame{Difficulty: d, DurationSeconds: duration}
	case MsgSelect:
		card, err := domain.ParseKey(msg.Key)
		if err != nil {
			return err
		}
		cmd = app.SelectCard{Card: card}
	case MsgRefresh:
		cmd = app.RefreshBoard{}
	case MsgBack:
		cmd = app.ReturnToMenu{}
	case MsgHint:
		cmd = app.RequestHint{}
	default:
		return fmt.Errorf("%w: %q", errUnknownMessage, msg.Type)
	}
	return c.session.Handle(cmd)
}

// flush writes queued session events, then a phase message if the phase moved.
func (c *conn) flush() error {
	for _, ev := range c.outbox.Drain() {
		if err := c.write(string(ev.Kind), ev.Payload); err != nil {
			return err
		}
	}
	if phase := c.session.Phase(); phase != c.phase {
		c.phase = phase
		return c.write(string(app.EventPhase), app.PhaseEvent(c.session).Payload)
	}
	return nil
}

func (c *conn) write(msgType string, payload any) error {
	data, err := encodeMessage(msgType, payload)
	if err != nil {
		return err
	}
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// encodeMessage flattens payload into a JSON object tagged with "type".
func encodeMessage(msgType string, payload any) ([]byte, error) {
	fields := make(map[string]any)
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("payload for %s is not an object: %w", msgType, err)
		}
	}
	fields["type"] = msgType
	return json.Marshal(fields)
}

func errorCode(err error) int {
	switch {
	case errors.Is(err, app.ErrInvalidTransition):
		return http.StatusConflict
	case errors.Is(err, domain.ErrGenerationExhausted):
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

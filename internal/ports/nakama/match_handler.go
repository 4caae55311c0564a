package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"setgame/internal/app"
	"setgame/internal/config"
	"setgame/internal/domain"
	"setgame/internal/schedule"

	"github.com/heroiclabs/nakama-common/runtime"
	"go.uber.org/zap/zapcore"
)

// matchLabel is advertised to MatchList queries.
type matchLabel struct {
	Game  string       `json:"game"`
	Phase domain.Phase `json:"phase"`
	Open  bool         `json:"open"`
}

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	OwnerID      string                      `json:"owner_id"`    // The single player; empty until someone joins
	Tick         int64                       `json:"tick"`        // Current tick of the match
	LabelPhase   domain.Phase                `json:"label_phase"` // Phase last advertised in the label
	Presences    map[string]runtime.Presence `json:"-"`           // Map UserId -> Presence for targeted messaging
	Session      *app.Session                `json:"-"`           // Game session driven by this match
	Outbox       *app.Outbox                 `json:"-"`           // Renderer/Display events waiting for dispatch
	Clock        *schedule.Scheduler         `json:"-"`           // Virtual clock advanced once per loop
	TickInterval time.Duration               `json:"-"`           // Virtual time per loop
	Params       matchParams                 `json:"-"`
	Config       *config.GameConfig          `json:"-"`
}

// NewMatch is the factory function registered with Nakama.
func NewMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
	return &matchHandler{}, nil
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	cfg := config.GetGameConfig()
	mp, err := decodeMatchParams(params)
	if err != nil {
		logger.Warn("MatchInit: Ignoring match params: %v", err)
		mp = matchParams{}
	}

	clock := schedule.New()
	outbox := app.NewOutbox()
	session := app.NewSession(clock, outbox, outbox, app.Options{
		FeedbackDelay:         cfg.FeedbackDelay,
		BoardSizes:            cfg.BoardSizeMap(),
		MaxGenerationAttempts: cfg.MaxGenerationAttempts,
		Logger:                newZapLogger(logger, zapcore.DebugLevel),
		Recorder:              NewNakamaMetricsAdapter(nk),
	})

	state := &MatchState{
		LabelPhase:   domain.PhaseIdle,
		Presences:    make(map[string]runtime.Presence),
		Session:      session,
		Outbox:       outbox,
		Clock:        clock,
		TickInterval: cfg.TickInterval(),
		Params:       mp,
		Config:       cfg,
	}

	labelBytes, err := json.Marshal(state.label())
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	return state, cfg.TickRate, string(labelBytes)
}

func (ms *MatchState) label() matchLabel {
	return matchLabel{Game: "set", Phase: ms.Session.Phase(), Open: ms.OwnerID == ""}
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// One player per match; the owner may reconnect.
	if matchState.OwnerID != "" && matchState.OwnerID != presence.GetUserId() {
		return state, false, "Match full"
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p
		if matchState.OwnerID == "" {
			matchState.OwnerID = p.GetUserId()
			logger.Debug("MatchJoin: Owner set to %s.", p.GetUserId())
		}
		mh.sendSnapshot(matchState, dispatcher, logger, p)
	}

	if matchState.Params.Autostart && matchState.Session.Phase() == domain.PhaseIdle {
		mh.startGame(matchState, dispatcher, logger, matchState.OwnerID, startGameRequest{})
	}

	mh.updateLabel(matchState, dispatcher, logger)
	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())
		logger.Debug("MatchLeave: User %s left.", p.GetUserId())
	}

	if len(matchState.Presences) == 0 {
		logger.Info("MatchLeave: Terminating match with no players.")
		_ = matchState.Session.Back()
		return nil
	}

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	// Handle incoming messages
	for _, msg := range messages {
		if msg.GetUserId() != matchState.OwnerID {
			logger.Warn("MatchLoop: Ignoring opcode %d from non-owner %s", msg.GetOpCode(), msg.GetUserId())
			continue
		}
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(matchState, dispatcher, logger, msg)
		case OpSelectCard:
			mh.handleSelectCard(matchState, dispatcher, logger, msg)
		case OpRefresh:
			mh.handleCommand(matchState, dispatcher, logger, msg.GetUserId(), app.RefreshBoard{})
		case OpBack:
			mh.handleCommand(matchState, dispatcher, logger, msg.GetUserId(), app.ReturnToMenu{})
		case OpHint:
			mh.handleCommand(matchState, dispatcher, logger, msg.GetUserId(), app.RequestHint{})
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	// Timer ticks and feedback resolution happen here, after this loop's input.
	matchState.Clock.Advance(matchState.TickInterval)
	mh.flush(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) handleStartGame(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	logger.Info("StartGame: Request received from %s (phase=%s)", senderID, state.Session.Phase())

	var request startGameRequest
	if data := msg.GetData(); len(data) > 0 {
		if err := json.Unmarshal(data, &request); err != nil {
			logger.Warn("StartGame: Invalid StartGameRequest from %s: %v", senderID, err)
			mh.sendError(state, dispatcher, logger, senderID, 400, "invalid start game payload")
			return
		}
	}
	mh.startGame(state, dispatcher, logger, senderID, request)
}

// startGame resolves the request against the match params and config
// defaults, then starts the session.
func (mh *matchHandler) startGame(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, request startGameRequest) {
	difficultyText := request.Difficulty
	if difficultyText == "" {
		difficultyText = state.Params.Difficulty
	}
	difficulty := domain.DifficultyStandard
	if difficultyText != "" {
		d, err := domain.ParseDifficulty(difficultyText)
		if err != nil {
			logger.Warn("StartGame: %v", err)
			mh.sendError(state, dispatcher, logger, userID, 400, err.Error())
			return
		}
		difficulty = d
	}

	duration := request.DurationSeconds
	if duration == 0 {
		duration = state.Params.DurationSeconds
	}
	if err := checkDuration(state.Config, duration); err != nil {
		logger.Warn("StartGame: %v", err)
		mh.sendError(state, dispatcher, logger, userID, 400, err.Error())
		return
	}
	if duration == 0 {
		duration = state.Config.DefaultDurationSeconds
	}

	if err := state.Session.Handle(app.StartGame{Difficulty: difficulty, DurationSeconds: duration}); err != nil {
		logger.Warn("StartGame: User %s failed to start game: %v", userID, err)
		mh.sendError(state, dispatcher, logger, userID, errorCode(err), err.Error())
		return
	}

	mh.flush(state, dispatcher, logger)
	logger.Info("StartGame: Game started (difficulty=%s, duration=%ds).", difficulty, duration)
}

func (mh *matchHandler) handleSelectCard(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()

	var request selectCardRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Warn("SelectCard: Invalid SelectCardRequest from %s: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, "invalid select card payload")
		return
	}
	card, err := domain.ParseKey(request.Key)
	if err != nil {
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	mh.handleCommand(state, dispatcher, logger, senderID, app.SelectCard{Card: card})
}

// handleCommand applies cmd and dispatches the resulting events, or an error
// to the sender if the session rejected it.
func (mh *matchHandler) handleCommand(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, cmd app.Command) {
	if err := state.Session.Handle(cmd); err != nil {
		logger.Debug("Command %T rejected for %s: %v", cmd, userID, err)
		mh.sendError(state, dispatcher, logger, userID, errorCode(err), err.Error())
		return
	}
	mh.flush(state, dispatcher, logger)
}

// errorCode maps session errors to GameError codes.
func errorCode(err error) int {
	switch {
	case errors.Is(err, app.ErrInvalidTransition):
		return 409
	case errors.Is(err, domain.ErrGenerationExhausted):
		return 500
	default:
		return 400
	}
}

// flush broadcasts queued session events and a phase event when the phase changed.
func (mh *matchHandler) flush(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	for _, ev := range state.Outbox.Drain() {
		mh.broadcastEvent(state, dispatcher, logger, ev)
	}
	if phase := state.Session.Phase(); phase != state.LabelPhase {
		mh.broadcastEvent(state, dispatcher, logger, app.PhaseEvent(state.Session))
		mh.updateLabel(state, dispatcher, logger)
	}
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, bytes, err := encodeEvent(ev)
	if err != nil {
		logger.Error("Failed to encode event %v: %v", ev.Kind, err)
		return
	}
	if len(state.Presences) == 0 {
		return
	}
	if err := dispatcher.BroadcastMessage(opCode, bytes, nil, nil, true); err != nil {
		logger.Error("Failed to broadcast event %v: %v", ev.Kind, err)
	}
}

// sendSnapshot brings a joining presence up to date with the session.
func (mh *matchHandler) sendSnapshot(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, presence runtime.Presence) {
	s := state.Session
	events := []app.Event{app.PhaseEvent(s)}
	for i, c := range s.Cards() {
		events = append(events, app.Event{Kind: app.EventCardShown, Payload: app.CardShownPayload{Position: i, Card: app.NewCardView(c)}})
	}
	for _, c := range s.Selected() {
		events = append(events, app.Event{Kind: app.EventCardSelected, Payload: app.CardSelectedPayload{Key: c.Key(), Selected: true}})
	}
	if s.Phase() != domain.PhaseIdle {
		events = append(events, app.Event{Kind: app.EventTime, Payload: app.TimePayload{Text: app.FormatClock(s.Remaining())}})
	}
	events = append(events,
		app.Event{Kind: app.EventMatchCount, Payload: app.MatchCountPayload{Count: s.MatchCount()}},
		app.Event{Kind: app.EventControls, Payload: app.ControlsPayload{Enabled: s.Phase() != domain.PhaseEnded}},
	)

	recipients := []runtime.Presence{presence}
	for _, ev := range events {
		opCode, bytes, err := encodeEvent(ev)
		if err != nil {
			logger.Error("Snapshot: Failed to encode %v: %v", ev.Kind, err)
			continue
		}
		if err := dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true); err != nil {
			logger.Error("Snapshot: Failed to send %v: %v", ev.Kind, err)
		}
	}
}

// sendError sends a GameError event to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	bytes, err := json.Marshal(app.ErrorPayload{Code: code, Message: message})
	if err != nil {
		logger.Error("Failed to marshal GameError: %v", err)
		return
	}

	presence, ok := state.Presences[userID]
	if !ok {
		logger.Warn("Cannot send error to %s: Presence not found", userID)
		return
	}

	dispatcher.BroadcastMessage(OpGameError, bytes, []runtime.Presence{presence}, nil, true)
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	label := state.label()
	labelBytes, err := json.Marshal(label)
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
		return
	}
	state.LabelPhase = label.Phase
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	if matchState, ok := state.(*MatchState); ok {
		_ = matchState.Session.Back()
	}
	return state
}

// MatchSignal answers "phase" with the current session phase.
func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	matchState, ok := state.(*MatchState)
	if !ok || data != "phase" {
		return state, ""
	}
	return state, string(matchState.Session.Phase())
}

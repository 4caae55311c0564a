package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"setgame/internal/config"
	"setgame/internal/domain"

	"github.com/heroiclabs/nakama-common/runtime"
)

// NewGameRequest is the optional RPC payload for a new single-player match.
type NewGameRequest struct {
	Difficulty      string `json:"difficulty"`
	DurationSeconds int    `json:"duration_seconds"`
	Autostart       bool   `json:"autostart"`
}

// NewGameResponse is the payload returned to clients after creating a match.
type NewGameResponse struct {
	MatchID string `json:"match_id"`
}

var errDurationNotOffered = errors.New("duration not offered")

// checkDuration rejects explicit durations that are not menu options.
func checkDuration(cfg *config.GameConfig, seconds int) error {
	if seconds > 0 && !cfg.AllowsDuration(seconds) {
		return fmt.Errorf("%w: %d seconds", errDurationNotOffered, seconds)
	}
	return nil
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	return initializer.RegisterRpc(RpcNewGame, rpcNewGame)
}

func rpcNewGame(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)

	params, err := parseNewGameRequest(payload)
	if err != nil {
		logger.Warn("RpcNewGame [User:%s]: %v", userID, err)
		return "", runtime.NewError(err.Error(), 3) // INVALID_ARGUMENT
	}

	matchID, err := nk.MatchCreate(ctx, MatchNameSet, params)
	if err != nil {
		logger.Error("RpcNewGame [User:%s]: Failed to create match: %v", userID, err)
		return "", err
	}

	logger.Info("RpcNewGame [User:%s]: Created new match %s", userID, matchID)
	b, _ := json.Marshal(NewGameResponse{MatchID: matchID})
	return string(b), nil
}

// parseNewGameRequest validates the RPC payload and turns it into match params.
func parseNewGameRequest(payload string) (map[string]interface{}, error) {
	var req NewGameRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return nil, fmt.Errorf("invalid new_game payload: %w", err)
		}
	}
	if req.Difficulty != "" {
		if _, err := domain.ParseDifficulty(req.Difficulty); err != nil {
			return nil, err
		}
	}
	if req.DurationSeconds < 0 {
		return nil, fmt.Errorf("duration_seconds must be positive, got %d", req.DurationSeconds)
	}
	if err := checkDuration(config.GetGameConfig(), req.DurationSeconds); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"difficulty":       req.Difficulty,
		"duration_seconds": req.DurationSeconds,
		"autostart":        req.Autostart,
	}, nil
}

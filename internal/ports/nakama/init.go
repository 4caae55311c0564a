package nakama

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"

	"setgame/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs and match handlers for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	path := DefaultConfigPath
	if env, ok := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string); ok {
		if val, ok := env[EnvConfigPath]; ok && val != "" {
			path = val
		}
	}
	if err := config.LoadGameConfig(path); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Error("InitModule: Invalid game config %s: %v", path, err)
			return err
		}
		logger.Warn("InitModule: No game config at %s, using defaults.", path)
	}

	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameSet, NewMatch); err != nil {
		return err
	}

	logger.Info("Set Go module loaded.")
	return nil
}

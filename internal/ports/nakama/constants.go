package nakama

const (
	// RpcNewGame is the Nakama RPC id clients call to create a single-player match.
	RpcNewGame = "new_game"

	// MatchNameSet is the authoritative match handler name registered with Nakama.
	MatchNameSet = "set_match"

	// EnvConfigPath names the runtime env entry holding the game config path.
	EnvConfigPath = "setgame_config_path"

	// DefaultConfigPath is used when EnvConfigPath is not set.
	DefaultConfigPath = "data/setgame.yaml"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame  int64 = 1
	OpSelectCard int64 = 2
	OpRefresh    int64 = 3
	OpBack       int64 = 4
	OpHint       int64 = 5

	// Server -> Client events
	OpCardShown    int64 = 101
	OpCardRemoved  int64 = 102
	OpCardSelected int64 = 103
	OpFeedback     int64 = 104
	OpTime         int64 = 105
	OpMatchCount   int64 = 106
	OpControls     int64 = 107
	OpPhase        int64 = 108
	OpHintShown    int64 = 109
	OpGameError    int64 = 110
)

package bot

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// BotLevel selects how well a bot plays.
type BotLevel int

const (
	BotLevelGood BotLevel = iota
	BotLevelSmart
	BotLevelGod
)

func (l BotLevel) String() string {
	switch l {
	case BotLevelGood:
		return "good"
	case BotLevelSmart:
		return "smart"
	case BotLevelGod:
		return "god"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel parses the text form of a bot level.
func ParseLevel(s string) (BotLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "good":
		return BotLevelGood, nil
	case "smart":
		return BotLevelSmart, nil
	case "god":
		return BotLevelGod, nil
	default:
		return 0, fmt.Errorf("unknown bot level: %q", s)
	}
}

// NewBrain creates a new AI brain based on the specified level.
// A nil rng is seeded from the clock.
func NewBrain(level BotLevel, rng *rand.Rand) (Brain, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	switch level {
	case BotLevelGood:
		return &GoodBot{rng: rng, tuning: DefaultTuning}, nil
	case BotLevelSmart:
		return &SmartBot{rng: rng}, nil
	case BotLevelGod:
		return &GodBot{}, nil
	default:
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
}

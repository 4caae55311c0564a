package config

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"setgame/internal/domain"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// MaxFileSize bounds the config file read from disk.
const MaxFileSize = 1 << 20

// MinGenerationAttempts is the smallest non-zero generation budget accepted.
// Below it a full board can run out of draws in normal play.
const MinGenerationAttempts = 2000

// ServerConfig configures the standalone HTTP/websocket server.
type ServerConfig struct {
	Addr           string   `yaml:"addr" validate:"required"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// BoardSizes overrides the number of cards dealt per difficulty.
type BoardSizes struct {
	Easy     int `yaml:"easy" validate:"gte=3"`
	Standard int `yaml:"standard" validate:"gte=3"`
}

type GameConfig struct {
	// FeedbackDelay is how long match/reject feedback stays on screen.
	FeedbackDelay          time.Duration `yaml:"feedback_delay" validate:"gt=0"`
	DefaultDurationSeconds int           `yaml:"default_duration_seconds" validate:"gt=0"`
	// DurationOptions is the list of game lengths offered on the menu.
	DurationOptions []int      `yaml:"duration_options" validate:"min=1,dive,gt=0"`
	BoardSizes      BoardSizes `yaml:"board_sizes"`
	// MaxGenerationAttempts bounds card generation retries. Zero uses the domain
	// default; other values below MinGenerationAttempts are rejected.
	MaxGenerationAttempts int `yaml:"max_generation_attempts" validate:"gte=0"`
	// TickRate is the Nakama match loop frequency in ticks per second.
	TickRate int          `yaml:"tick_rate" validate:"gte=1,lte=60"`
	Server   ServerConfig `yaml:"server"`
}

var validate = validator.New()

// Default returns the built-in configuration.
func Default() *GameConfig {
	return &GameConfig{
		FeedbackDelay:          time.Second,
		DefaultDurationSeconds: 180,
		DurationOptions:        []int{60, 180, 300},
		BoardSizes: BoardSizes{
			Easy:     domain.EasyBoardSize,
			Standard: domain.StandardBoardSize,
		},
		MaxGenerationAttempts: domain.DefaultMaxAttempts,
		TickRate:              10,
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"*"},
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
// An empty path returns the defaults.
func Load(path string) (*GameConfig, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat game config: %w", err)
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("game config %s is %d bytes, limit is %d", path, info.Size(), MaxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks field constraints and that every board fits within the
// attribute capacity of its difficulty.
func (c *GameConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid game config: %s failed %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid game config: %w", err)
	}
	if c.MaxGenerationAttempts != 0 && c.MaxGenerationAttempts < MinGenerationAttempts {
		return fmt.Errorf("max_generation_attempts = %d is below %d: %w", c.MaxGenerationAttempts, MinGenerationAttempts, domain.ErrGenerationExhausted)
	}
	for d, size := range c.BoardSizeMap() {
		if size > d.MaxBoardSize() {
			return fmt.Errorf("board_sizes.%s = %d exceeds %d: %w", d, size, d.MaxBoardSize(), domain.ErrGenerationExhausted)
		}
	}
	return nil
}

// BoardSizeMap returns the board sizes keyed by difficulty.
func (c *GameConfig) BoardSizeMap() map[domain.Difficulty]int {
	return map[domain.Difficulty]int{
		domain.DifficultyEasy:     c.BoardSizes.Easy,
		domain.DifficultyStandard: c.BoardSizes.Standard,
	}
}

// TickInterval is the wall-clock length of one match loop tick.
func (c *GameConfig) TickInterval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(c.TickRate)
}

// AllowsDuration reports whether seconds is one of the menu options.
func (c *GameConfig) AllowsDuration(seconds int) bool {
	for _, d := range c.DurationOptions {
		if d == seconds {
			return true
		}
	}
	return false
}

var (
	cfg      *GameConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadGameConfig loads the global game configuration from the given path.
// Only the first call reads the file.
func LoadGameConfig(path string) error {
	loadOnce.Do(func() {
		c, err := Load(path)
		if err != nil {
			loadErr = err
			return
		}
		cfg = c
	})
	return loadErr
}

// GetGameConfig returns the global game configuration, or the defaults if
// none was loaded.
func GetGameConfig() *GameConfig {
	if cfg == nil {
		return Default()
	}
	return cfg
}

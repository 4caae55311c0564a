package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"setgame/internal/app"
	"setgame/internal/bot"
	"setgame/internal/config"
	"setgame/internal/domain"
	"setgame/internal/metrics"
	"setgame/internal/ports/tui"
	"setgame/internal/ports/web"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	debug      bool
	configPath string

	serveAddr string

	playDifficulty string
	playDuration   int
	playAutoplay   string

	simDifficulty string
	simDuration   int
	simLevel      string
	simSeed       int64

	rootCmd = &cobra.Command{
		Use:           "setgame",
		Short:         "Play and serve the Set card game",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve games over websocket with health and metrics endpoints",
		RunE:  runServe,
	}

	playCmd = &cobra.Command{
		Use:   "play",
		Short: "Play in the terminal",
		RunE:  runPlay,
	}

	simulateCmd = &cobra.Command{
		Use:   "simulate",
		Short: "Let a bot play one headless game and print the result",
		RunE:  runSimulate,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML game config")

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")

	playCmd.Flags().StringVar(&playDifficulty, "difficulty", "", "start right away at easy or standard")
	playCmd.Flags().IntVar(&playDuration, "duration", 0, "game length in seconds")
	playCmd.Flags().StringVar(&playAutoplay, "autoplay", "", "let a bot play: good, smart or god")

	simulateCmd.Flags().StringVar(&simDifficulty, "difficulty", string(domain.DifficultyStandard), "easy or standard")
	simulateCmd.Flags().IntVar(&simDuration, "duration", 0, "game length in seconds")
	simulateCmd.Flags().StringVar(&simLevel, "level", "smart", "bot level: good, smart or god")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "random seed (0 picks one from the clock)")

	rootCmd.AddCommand(serveCmd, playCmd, simulateCmd)
}

func newLogger() (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newFileLogger keeps log output off the terminal while the TUI owns it.
func newFileLogger() (*zap.Logger, error) {
	if !debug {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{"setgame-debug.log"}
	cfg.ErrorOutputPaths = []string{"setgame-debug.log"}
	return cfg.Build()
}

func loadConfig() (*config.GameConfig, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func durationOrDefault(cfg *config.GameConfig, seconds int) int {
	if seconds > 0 {
		return seconds
	}
	return cfg.DefaultDurationSeconds
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	srv := web.NewServer(web.Options{
		Config:   cfg,
		Logger:   logger,
		Recorder: metrics.NewRecorder(prometheus.DefaultRegisterer),
		Gatherer: prometheus.DefaultGatherer,
	})
	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Listening", zap.String("addr", cfg.Server.Addr))
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func runPlay(cmd *cobra.Command, args []string) error {
	logger, err := newFileLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	duration := durationOrDefault(cfg, playDuration)

	opts := tui.Options{
		Config:          cfg,
		Logger:          logger,
		DurationSeconds: duration,
	}
	if playAutoplay != "" {
		level, err := bot.ParseLevel(playAutoplay)
		if err != nil {
			return err
		}
		brain, err := bot.NewBrain(level, nil)
		if err != nil {
			return err
		}
		opts.Autoplay = brain
	}

	m := tui.NewModel(opts)
	if playDifficulty != "" {
		d, err := domain.ParseDifficulty(playDifficulty)
		if err != nil {
			return err
		}
		if err := m.Session().Start(d, duration); err != nil {
			return err
		}
	}

	_, err = tea.NewProgram(m, tea.WithContext(cmd.Context())).Run()
	return err
}

func runSimulate(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	d, err := domain.ParseDifficulty(simDifficulty)
	if err != nil {
		return err
	}
	level, err := bot.ParseLevel(simLevel)
	if err != nil {
		return err
	}
	seed := simSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	res, err := bot.Simulate(cmd.Context(), bot.SimulationConfig{
		Difficulty:      d,
		DurationSeconds: durationOrDefault(cfg, simDuration),
		Level:           level,
		Seed:            seed,
		Session: app.Options{
			FeedbackDelay:         cfg.FeedbackDelay,
			BoardSizes:            cfg.BoardSizeMap(),
			MaxGenerationAttempts: cfg.MaxGenerationAttempts,
			Rand:                  rand.New(rand.NewSource(seed)),
			Logger:                logger,
		},
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s bot found %d sets in %s (%d evaluations, %d refreshes, seed %d)\n",
		level, res.Matches, res.Elapsed, res.Evaluations, res.Refreshes, seed)
	return nil
}

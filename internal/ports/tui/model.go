// Package tui plays the game in a terminal with bubbletea.
package tui

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"setgame/internal/app"
	"setgame/internal/bot"
	"setgame/internal/config"
	"setgame/internal/domain"
	"setgame/internal/ports"
	"setgame/internal/schedule"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// TickInterval is how often the model advances the session clock.
const TickInterval = 100 * time.Millisecond

// positionKeys maps keyboard keys to board positions.
var positionKeys = map[string]int{
	"1": 0, "2": 1, "3": 2, "4": 3, "5": 4, "6": 5,
	"7": 6, "8": 7, "9": 8, "0": 9, "-": 10, "=": 11,
}

var keyLabels = []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "0", "-", "="}

// Options configures the terminal game.
type Options struct {
	Config          *config.GameConfig
	Rand            *rand.Rand
	Logger          *zap.Logger
	Recorder        ports.Recorder
	DurationSeconds int
	// Autoplay lets a bot play instead of the keyboard.
	Autoplay bot.Brain
}

type tickMsg time.Time

// Model is the bubbletea model for one terminal session.
type Model struct {
	cfg      *config.GameConfig
	session  *app.Session
	clock    *schedule.Scheduler
	view     *boardView
	agent    *bot.Agent
	duration int
	status   string
	last     time.Time
	botWait  time.Duration
	quitting bool
}

// NewModel builds an idle model.
func NewModel(opts Options) *Model {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	if opts.DurationSeconds <= 0 {
		opts.DurationSeconds = opts.Config.DefaultDurationSeconds
	}
	clock := schedule.New()
	view := newBoardView()
	m := &Model{
		cfg:   opts.Config,
		clock: clock,
		view:  view,
		session: app.NewSession(clock, view, view, app.Options{
			FeedbackDelay:         opts.Config.FeedbackDelay,
			BoardSizes:            opts.Config.BoardSizeMap(),
			MaxGenerationAttempts: opts.Config.MaxGenerationAttempts,
			Rand:                  opts.Rand,
			Logger:                opts.Logger,
			Recorder:              opts.Recorder,
		}),
		duration: opts.DurationSeconds,
		status:   "e: easy  s: standard  d: duration  q: quit",
	}
	if opts.Autoplay != nil {
		m.agent = &bot.Agent{ID: "autoplay", Name: "autoplay", Strategy: opts.Autoplay}
	}
	return m
}

// Session exposes the underlying session.
func (m *Model) Session() *app.Session {
	return m.session
}

func tick() tea.Cmd {
	return tea.Tick(TickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Init() tea.Cmd {
	return tick()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg.String())
	case tickMsg:
		now := time.Time(msg)
		elapsed := TickInterval
		if !m.last.IsZero() {
			elapsed = now.Sub(m.last)
		}
		m.last = now
		m.Advance(elapsed)
		return m, tick()
	}
	return m, nil
}

// Advance moves the session clock forward and lets the autoplay bot act.
func (m *Model) Advance(d time.Duration) {
	m.clock.Advance(d)
	if m.agent == nil || m.session.Phase() != domain.PhaseRunning {
		return
	}
	m.botWait += d
	if m.botWait < bot.DefaultTuning.ThinkTime {
		return
	}
	m.botWait = 0
	if _, err := m.agent.Act(m.session); err != nil {
		m.status = err.Error()
	}
}

func (m *Model) handleKey(key string) tea.Cmd {
	var err error
	switch key {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		_ = m.session.Back()
		return tea.Quit
	case "e":
		err = m.session.Handle(app.StartGame{Difficulty: domain.DifficultyEasy, DurationSeconds: m.duration})
	case "s":
		err = m.session.Handle(app.StartGame{Difficulty: domain.DifficultyStandard, DurationSeconds: m.duration})
	case "d":
		m.cycleDuration()
	case "r":
		err = m.session.Handle(app.RefreshBoard{})
	case "b":
		err = m.session.Handle(app.ReturnToMenu{})
	case "h":
		var hint []domain.Card
		hint, err = m.session.Hint()
		if err == nil && len(hint) == 0 {
			m.status = "No set on the board, try r"
			return nil
		}
	default:
		pos, ok := positionKeys[key]
		if !ok {
			return nil
		}
		cards := m.session.Cards()
		if pos >= len(cards) {
			return nil
		}
		err = m.session.Handle(app.SelectCard{Card: cards[pos]})
	}

	if err != nil {
		m.status = err.Error()
	} else {
		m.status = ""
	}
	return nil
}

// cycleDuration steps through the configured duration options.
func (m *Model) cycleDuration() {
	opts := m.cfg.DurationOptions
	if len(opts) == 0 {
		return
	}
	next := opts[0]
	for i, d := range opts {
		if d == m.duration && i+1 < len(opts) {
			next = opts[i+1]
		}
	}
	m.duration = next
	m.status = fmt.Sprintf("Duration %s", app.FormatClock(next))
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	statsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Width(14).
			Align(lipgloss.Center)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	colorCodes = map[domain.Color]lipgloss.Color{
		domain.ColorGreen:  lipgloss.Color("42"),
		domain.ColorPurple: lipgloss.Color("135"),
		domain.ColorRed:    lipgloss.Color("196"),
	}

	symbols = map[domain.Shape]map[domain.Style]string{
		domain.ShapeDiamond:  {domain.StyleSolid: "◆", domain.StyleStriped: "◈", domain.StyleOutline: "◇"},
		domain.ShapeOval:     {domain.StyleSolid: "●", domain.StyleStriped: "◍", domain.StyleOutline: "○"},
		domain.ShapeSquiggle: {domain.StyleSolid: "▰", domain.StyleStriped: "▨", domain.StyleOutline: "▱"},
	}
)

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("SET"))
	b.WriteString("  ")
	b.WriteString(statsStyle.Render(fmt.Sprintf("time %s  sets %d  %s  duration %s",
		m.view.time, m.view.matches, m.session.Phase(), app.FormatClock(m.duration))))
	b.WriteString("\n\n")

	const perRow = 3
	var row []string
	for i, c := range m.view.cards {
		row = append(row, m.renderCard(i, c))
		if len(row) == perRow {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
			b.WriteString("\n")
			row = nil
		}
	}
	if len(row) > 0 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
		b.WriteString("\n")
	}

	if m.session.Phase() == domain.PhaseEnded {
		b.WriteString(fmt.Sprintf("\nTime's up! %d sets found. b: menu\n", m.view.matches))
	}
	if m.session.Phase() != domain.PhaseIdle {
		b.WriteString(statsStyle.Render("\nkeys 1-9 0 - = select  r refresh  h hint  b back  q quit"))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderCard(pos int, c domain.Card) string {
	label := "?"
	if pos < len(keyLabels) {
		label = keyLabels[pos]
	}
	shape := strings.Repeat(symbols[c.Shape][c.Style], int(c.Count))
	body := lipgloss.NewStyle().Foreground(colorCodes[c.Color]).Render(shape)
	text := fmt.Sprintf("%s  %s", label, body)

	style := cardStyle
	switch {
	case m.view.feedback[c] != "":
		kind := m.view.feedback[c]
		text += "\n" + kind.Label()
		if kind == ports.FeedbackMatch {
			style = style.BorderForeground(lipgloss.Color("42"))
		} else {
			style = style.BorderForeground(lipgloss.Color("196"))
		}
	case m.view.selected[c]:
		style = style.BorderForeground(lipgloss.Color("226")).Bold(true)
	case m.view.hint[c]:
		style = style.BorderForeground(lipgloss.Color("39"))
	}
	if !m.view.enabled {
		style = style.Faint(true)
	}
	return style.Render(text)
}

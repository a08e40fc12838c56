package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/agbru/limbcalc/internal/errors"
	"github.com/agbru/limbcalc/internal/metrics"
	"github.com/agbru/limbcalc/internal/sysmon"
)

// Session runs the verify rounds, reporting through b, and returns the
// exit code.
type Session func(ctx context.Context, b *Bridge) int

const (
	tickInterval   = 500 * time.Millisecond
	logCapacity    = 200
	sampleCapacity = 60
	minBodyHeight  = 6
)

// Model is the root bubbletea model of the dashboard.
type Model struct {
	header     HeaderModel
	strategies StrategiesModel
	log        LogModel
	system     SystemModel

	keymap KeyMap
	help   help.Model

	ctx     context.Context
	cancel  context.CancelFunc
	session Session
	ref     *programRef

	width    int
	height   int
	paused   bool
	done     bool
	failed   bool
	exitCode int
}

// NewModel creates a dashboard for a session of rounds rounds.
func NewModel(parentCtx context.Context, session Session, rounds int, version string) Model {
	ctx, cancel := context.WithCancel(parentCtx)
	return Model{
		header:     NewHeaderModel(version, rounds),
		strategies: NewStrategiesModel(),
		log:        NewLogModel(logCapacity),
		system:     NewSystemModel(sampleCapacity),
		keymap:     DefaultKeyMap(),
		help:       help.New(),
		ctx:        ctx,
		cancel:     cancel,
		session:    session,
		ref:        &programRef{},
		exitCode:   apperrors.ExitSuccess,
	}
}

// Init starts the session, the sampler and the context watcher.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), startSessionCmd(m.ctx, m.ref, m.session), watchContextCmd(m.ctx))
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case RoundMsg:
		m.header.SetRound(msg.Round)
		return m, nil

	case StartMsg:
		m.strategies.Start(msg.Names)
		return m, nil

	case ProgressMsg:
		if !m.paused {
			m.strategies.Progress(msg)
		}
		return m, nil

	case ResultsMsg:
		m.strategies.Results(msg.Results)
		return m, nil

	case VerdictMsg:
		m.log.AddVerdict(msg)
		if msg.Code != apperrors.ExitSuccess {
			m.failed = true
		}
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if m.paused {
			return m, tickCmd()
		}
		return m, tea.Batch(sampleMemStatsCmd(), sampleSysStatsCmd(), tickCmd())

	case MemStatsMsg:
		m.system.UpdateMem(metrics.MemorySnapshot(msg))
		return m, nil

	case SysStatsMsg:
		m.system.UpdateSys(msg)
		return m, nil

	case CompleteMsg:
		m.done = true
		m.exitCode = msg.ExitCode
		m.failed = m.failed || msg.ExitCode != apperrors.ExitSuccess
		m.header.SetDone()
		m.log.AddLine(completionLine(msg.ExitCode))
		return m, nil

	case ContextCancelledMsg:
		if m.done {
			return m, tea.Quit
		}
		m.done = true
		m.exitCode = apperrors.ExitCodeFor(msg.Err)
		m.header.SetDone()
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if !m.done {
			m.done = true
			m.exitCode = apperrors.ExitErrorCanceled
		}
		m.cancel()
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keymap.Up):
		m.log.Scroll(1)
	case key.Matches(msg, m.keymap.Down):
		m.log.Scroll(-1)
	}
	return m, nil
}

func (m *Model) layout() {
	m.header.SetWidth(m.width)
	m.help.Width = m.width
	body := max(m.height-2, minBodyHeight)
	top := m.strategies.Height()
	rightWidth := m.width * 2 / 5
	m.strategies.SetWidth(m.width)
	m.log.SetSize(m.width-rightWidth, max(body-top, 3))
	m.system.SetSize(rightWidth, max(body-top, 3))
}

func (m Model) status() string {
	switch {
	case m.done && m.failed:
		return statusErrorStyle.Render("FAILED")
	case m.done:
		return statusDoneStyle.Render("DONE")
	case m.paused:
		return statusPausedStyle.Render("PAUSED")
	default:
		return statusRunningStyle.Render("RUNNING")
	}
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.log.View(), m.system.View())
	footer := " " + m.status() + "  " + m.help.View(m.keymap)
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), m.strategies.View(), body, footer)
}

// ExitCode returns the code the session finished with.
func (m Model) ExitCode() int { return m.exitCode }

// Run shows the dashboard until the user quits and returns the exit code
// of the session.
func Run(ctx context.Context, session Session, rounds int, version string) int {
	initTUIStyles()

	model := NewModel(ctx, session, rounds, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.ref.SetProgram(p)

	final, err := p.Run()
	if m, ok := final.(Model); ok {
		return m.exitCode
	}
	if err != nil {
		return apperrors.ExitCodeFor(err)
	}
	return apperrors.ExitSuccess
}

func startSessionCmd(ctx context.Context, ref *programRef, session Session) tea.Cmd {
	return func() tea.Msg {
		return CompleteMsg{ExitCode: session(ctx, newBridge(ref))}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func sampleMemStatsCmd() tea.Cmd {
	return func() tea.Msg {
		return MemStatsMsg(metrics.NewMemoryCollector().Snapshot())
	}
}

func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{CPUPercent: s.CPUPercent, MemPercent: s.MemPercent}
	}
}

func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}

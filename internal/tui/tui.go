// Package tui provides a Bubble Tea terminal user interface for keymix.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/keymix/internal/cache"
	"github.com/handiism/keymix/internal/config"
	"github.com/handiism/keymix/internal/melodic"
	"github.com/handiism/keymix/internal/model"
	"github.com/handiism/keymix/internal/pipeline"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	minorKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#A29BFE"))

	majorKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500"))
)

// maxSetRows is how many tracks of a finished set are listed.
const maxSetRows = 40

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateScanning
	StateResolving
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   pipeline.ProgressLevel
}

// eventBuffer collects progress events from pipeline goroutines until the
// next tick drains them.
type eventBuffer struct {
	mu     sync.Mutex
	events []pipeline.ProgressEvent
}

func (b *eventBuffer) add(e pipeline.ProgressEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, e)
}

func (b *eventBuffer) drain() []pipeline.ProgressEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.events
	b.events = nil
	return out
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	logs      []LogEntry
	events    *eventBuffer
	err       error

	ctx    context.Context
	cancel context.CancelFunc

	manager *pipeline.Manager
	store   *cache.Store
	set     *model.Set

	// Key resolution progress
	totalTracks    int32
	resolvedTracks int32
	failedTracks   int32

	// Options
	appendUnkeyed bool
	playlist      bool
	verbose       bool

	width  int
	height int
}

// NewModel creates a new TUI model. A nil settings uses the defaults.
func NewModel(settings *config.Settings) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	ti := textinput.New()
	ti.Placeholder = "/path/to/music"
	ti.Focus()
	ti.CharLimit = 1000
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:         StateInput,
		textInput:     ti,
		spinner:       sp,
		progress:      prog,
		settings:      settings,
		logs:          make([]LogEntry, 0),
		events:        &eventBuffer{},
		ctx:           ctx,
		cancel:        cancel,
		appendUnkeyed: settings.AppendUnkeyed,
		playlist:      settings.CreatePlaylist,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ScanDoneMsg is sent when the input paths have been scanned.
	ScanDoneMsg struct {
		Manager *pipeline.Manager
		Store   *cache.Store
		Tracks  int
		Err     error
	}

	// SortDoneMsg is sent when keys are resolved and the set is built.
	SortDoneMsg struct {
		Set *model.Set
		Err error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			m.closeStore()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateScanning || m.state == StateResolving {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "tab":
			if m.state == StateInput {
				if m.textInput.Focused() {
					m.textInput.Blur()
				} else {
					cmds = append(cmds, m.textInput.Focus())
				}
				return m, tea.Batch(cmds...)
			}

		case "enter":
			if m.state == StateInput && strings.TrimSpace(m.textInput.Value()) != "" {
				m.state = StateScanning
				return m, tea.Batch(m.scan(), m.spinner.Tick)
			}

		case "a":
			if m.state == StateInput && !m.textInput.Focused() {
				m.appendUnkeyed = !m.appendUnkeyed
			}

		case "p":
			if m.state == StateInput && !m.textInput.Focused() {
				m.playlist = !m.playlist
			}

		case "v":
			if m.state == StateInput && !m.textInput.Focused() {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				m.closeStore()
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				m.closeStore()
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.set = nil
				m.manager = nil
				m.totalTracks, m.resolvedTracks, m.failedTracks = 0, 0, 0
				m.events.drain()
				m.cancel()
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.SetValue("")
				cmds = append(cmds, m.textInput.Focus())
				return m, tea.Batch(cmds...)
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ScanDoneMsg:
		m.collectLogs()
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			if msg.Store != nil {
				msg.Store.Close()
			}
		} else {
			m.manager = msg.Manager
			m.store = msg.Store
			m.totalTracks = int32(msg.Tracks)
			m.state = StateResolving
			cmds = append(cmds, m.resolveAndSort(), m.tickProgress())
		}

	case SortDoneMsg:
		m.collectLogs()
		m.pollProgress()
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.set = msg.Set
			m.state = StateComplete
		}

	case TickMsg:
		m.collectLogs()
		if m.manager != nil && m.state == StateResolving {
			percent := m.pollProgress()
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// pollProgress copies the manager counters and returns the done fraction.
func (m *Model) pollProgress() float64 {
	if m.manager == nil {
		return 0
	}
	m.resolvedTracks, m.failedTracks, m.totalTracks = m.manager.GetProgress()
	if m.totalTracks == 0 {
		return 0
	}
	return float64(m.resolvedTracks+m.failedTracks) / float64(m.totalTracks)
}

// collectLogs moves buffered progress events into the visible log.
func (m *Model) collectLogs() {
	for _, e := range m.events.drain() {
		if e.Level == pipeline.LevelVerbose && !m.verbose {
			continue
		}
		m.logs = append(m.logs, LogEntry{Message: e.Message, Level: e.Level})
	}
	// Keep only last 10 logs
	if len(m.logs) > 10 {
		m.logs = m.logs[len(m.logs)-10:]
	}
}

func (m *Model) closeStore() {
	if m.store != nil {
		m.store.Close()
		m.store = nil
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("keymix"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Harmonic DJ set sorter"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateScanning:
		b.WriteString(m.viewScanning())
	case StateResolving:
		b.WriteString(m.viewResolving())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func checkbox(on bool) string {
	if on {
		return "[x]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Music folder or files (separate with ;):"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options (tab to select):"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Append tracks without key (a)\n", checkbox(m.appendUnkeyed)))
	b.WriteString(fmt.Sprintf("  %s Write playlist (p)\n", checkbox(m.playlist)))
	b.WriteString(fmt.Sprintf("  %s Verbose output (v)\n", checkbox(m.verbose)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Search width: %d | Playlist format: %s", m.settings.SearchLimit, m.settings.PlaylistFormat)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewScanning() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Scanning for audio files..."))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewResolving() string {
	var b strings.Builder

	var percent float64
	if m.totalTracks > 0 {
		percent = float64(m.resolvedTracks+m.failedTracks) / float64(m.totalTracks)
	}
	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Resolving keys..."))
	b.WriteString("\n\n")
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf(
		"Tracks: %d/%d | Without key: %d",
		m.resolvedTracks+m.failedTracks,
		m.totalTracks,
		m.failedTracks,
	)))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	if m.set == nil || m.set.Len() == 0 {
		b.WriteString(warningStyle.Render("No harmonic transitions found between the tracks."))
		b.WriteString("\n")
		return b.String()
	}

	summary := fmt.Sprintf("Set complete!\n\nTracks: %d\nScore: %d\nWithout key: %d\nDid not fit: %d",
		m.set.Len(), m.set.Score, len(m.set.Unkeyed), len(m.set.Unplaced))
	if m.playlist && m.set.PlaylistPath != "" {
		summary += "\nPlaylist: " + m.set.PlaylistPath
	}
	b.WriteString(boxStyle.Render(summary))
	b.WriteString("\n\n")
	b.WriteString(renderSet(m.set, m.settings.Weights))

	return b.String()
}

// renderSet lists the tracks in play order with the movement into each one.
func renderSet(set *model.Set, weights melodic.Weights) string {
	var b strings.Builder
	var prev *model.Key

	for i, track := range set.Tracks {
		if i == maxSetRows {
			b.WriteString(dimStyle.Render(fmt.Sprintf("  ... %d more", len(set.Tracks)-maxSetRows)))
			b.WriteString("\n")
			break
		}

		key, ok := track.ResolvedKey()
		if ok && prev != nil {
			if mv, compatible := melodic.Classify(*prev, key); compatible {
				b.WriteString(dimStyle.Render(fmt.Sprintf("      %s +%d", mv, weights.Weight(mv))))
				b.WriteString("\n")
			}
		}
		if ok {
			prev = &key
		}

		b.WriteString(fmt.Sprintf("%3d. %s %s\n", i+1, keyStyle(track).Render(fmt.Sprintf("%-3s", track.KeyString())), track.Name))
	}

	return b.String()
}

// keyStyle colors minor keys apart from major ones.
func keyStyle(track *model.Track) lipgloss.Style {
	key, ok := track.ResolvedKey()
	switch {
	case !ok:
		return dimStyle
	case key.Minor():
		return minorKeyStyle
	default:
		return majorKeyStyle
	}
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case pipeline.LevelError:
			style = errorStyle
			prefix = "✗"
		case pipeline.LevelWarning:
			style = warningStyle
			prefix = "!"
		case pipeline.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case pipeline.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: sort • tab: options • a: append unkeyed • p: playlist • v: verbose • esc: quit"
	case StateScanning, StateResolving:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new set • q: quit"
	}
	return ""
}

// splitInputs splits the input field into paths.
func splitInputs(value string) []string {
	var inputs []string
	for _, part := range strings.Split(value, ";") {
		if part = strings.TrimSpace(part); part != "" {
			inputs = append(inputs, part)
		}
	}
	return inputs
}

// scan opens the key cache, creates the manager and collects the tracks.
func (m *Model) scan() tea.Cmd {
	settings := *m.settings
	settings.AppendUnkeyed = m.appendUnkeyed
	settings.CreatePlaylist = m.playlist
	inputs := splitInputs(m.textInput.Value())
	events := m.events
	ctx := m.ctx

	return func() tea.Msg {
		var store *cache.Store
		var keyStore pipeline.KeyStore
		if settings.UseCache {
			var err error
			store, err = cache.Open(settings.CachePath)
			if err != nil {
				events.add(pipeline.ProgressEvent{Message: fmt.Sprintf("Key cache disabled: %v", err), Level: pipeline.LevelWarning})
				store = nil
			} else {
				keyStore = store
			}
		}

		manager := pipeline.NewManager(&settings, keyStore, events.add)
		if err := manager.Initialize(ctx, inputs); err != nil {
			return ScanDoneMsg{Store: store, Err: err}
		}

		return ScanDoneMsg{
			Manager: manager,
			Store:   store,
			Tracks:  len(manager.Tracks()),
		}
	}
}

// resolveAndSort resolves keys, sorts and writes the playlist in background.
func (m *Model) resolveAndSort() tea.Cmd {
	manager := m.manager
	ctx := m.ctx
	writePlaylist := m.playlist

	return func() tea.Msg {
		if manager == nil {
			return SortDoneMsg{Err: fmt.Errorf("no manager")}
		}
		if err := manager.ResolveKeys(ctx); err != nil {
			return SortDoneMsg{Err: err}
		}

		set := manager.Sort()
		if writePlaylist && set.Len() > 0 {
			if err := manager.WritePlaylist(ctx, set); err != nil {
				return SortDoneMsg{Set: set, Err: err}
			}
		}
		return SortDoneMsg{Set: set}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

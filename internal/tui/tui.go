// Package tui implements the terminal dashboard: a session guard in
// front of the four feature pages (command center, forecaster, doc
// assistant, history).
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gudangops/wardeck/internal/api"
	"github.com/gudangops/wardeck/internal/session"
	"github.com/gudangops/wardeck/internal/state"
	"github.com/gudangops/wardeck/pkg/models"
	"go.uber.org/zap"
)

type page int

const (
	pageHome page = iota
	pageForecaster
	pageAssistant
	pageHistory
)

var pageTitles = map[page]string{
	pageHome:       "Command Center",
	pageForecaster: "Intelligence Engine",
	pageAssistant:  "Doc Assistant",
	pageHistory:    "Strategic Memory",
}

// PageByName maps a CLI page argument to its page value.
func PageByName(name string) (page, bool) {
	switch name {
	case "", "home", "dashboard":
		return pageHome, true
	case "forecaster":
		return pageForecaster, true
	case "assistant":
		return pageAssistant, true
	case "history":
		return pageHistory, true
	}
	return pageHome, false
}

// guardState mirrors the route guard of the hosted dashboard: Pending
// until the session resolves, then Denied or Granted.
type guardState int

const (
	guardPending guardState = iota
	guardDenied
	guardGranted
)

type historyFilter int

const (
	filterAll historyFilter = iota
	filterForecast
	filterChat
)

func (f historyFilter) String() string {
	switch f {
	case filterForecast:
		return "forecast"
	case filterChat:
		return "chat"
	default:
		return "all"
	}
}

// detailOverlay holds a fetched per-item history detail. It lives only
// as long as the overlay is open.
type detailOverlay struct {
	item     models.HistoryItem
	replay   bool
	loading  bool
	chat     *models.ChatDetail
	forecast *models.ForecastDetail
	failed   bool
}

// Deps wires the explicit state-holder services into the view tree.
type Deps struct {
	API         *api.Client
	Session     *session.Store
	Chat        *state.Chat
	Forecast    *state.Forecast
	Handoff     *state.Handoff
	Maintenance *state.Maintenance
	Logger      *zap.Logger
}

type model struct {
	deps Deps
	ctx  context.Context

	guard         guardState
	user          *models.User
	requestedPage page
	page          page
	sessionCh     <-chan session.Snapshot

	width  int
	height int
	ready  bool

	loading *LoadingIndicator

	// assistant page
	chatInput      textinput.Model
	transcript     viewport.Model
	attachmentPath string
	attachPicker   filepicker.Model
	attaching      bool

	// forecaster page
	csvPicker  filepicker.Model
	pickerInit bool
	uploading  bool

	// history page
	historyItems   []models.HistoryItem
	historyStats   *models.HistoryStats
	historyFilter  historyFilter
	historyLoaded  bool
	historyLoading bool
	historyCursor  int
	detail         *detailOverlay

	// overlays
	alert      string
	cleanupDue bool
}

func newModel(ctx context.Context, deps Deps, start page) model {
	input := textinput.New()
	input.Placeholder = "Ask about SOPs, stock policies, returns..."
	input.CharLimit = 2000

	csvPicker := filepicker.New()
	csvPicker.AllowedTypes = []string{".csv"}
	csvPicker.DirAllowed = false
	csvPicker.FileAllowed = true

	attachPicker := filepicker.New()
	attachPicker.DirAllowed = false
	attachPicker.FileAllowed = true

	return model{
		deps:          deps,
		ctx:           ctx,
		guard:         guardPending,
		requestedPage: start,
		page:          start,
		sessionCh:     deps.Session.Subscribe(),
		loading:       NewLoadingIndicator("Preparing command center..."),
		chatInput:     input,
		csvPicker:     csvPicker,
		attachPicker:  attachPicker,
		cleanupDue:    deps.Maintenance.Check(time.Now()),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		resolveSessionCmd(m.ctx, m.deps.Session),
		waitSessionCmd(m.sessionCh),
		tickCmd(),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		contentHeight := m.height - 5
		if contentHeight < 3 {
			contentHeight = 3
		}
		if !m.ready {
			m.transcript = viewport.New(m.width, contentHeight)
			m.ready = true
		} else {
			m.transcript.Width = m.width
			m.transcript.Height = contentHeight
		}
		m.csvPicker.Height = contentHeight
		m.attachPicker.Height = contentHeight
		m.refreshTranscript()
		return m, nil

	case TickMsg:
		m.loading.Tick()
		return m, tickCmd()

	case SessionResolvedMsg:
		return m.applySession(msg.Snapshot)

	case SessionChangedMsg:
		next, cmd := m.applySession(msg.Snapshot)
		return next, tea.Batch(cmd, waitSessionCmd(m.sessionCh))

	case ChatReplyMsg:
		m.deps.Chat.CompleteExchange(msg.Reply, msg.Err)
		m.refreshTranscript()
		return m, nil

	case ForecastAnalyzedMsg:
		m.uploading = false
		if msg.Err != nil {
			// State stays untouched on failure; the user retries by
			// picking the file again.
			m.alert = "Upload failed: " + msg.Err.Error()
			return m, nil
		}
		m.deps.Forecast.Replace(*msg.Result)
		return m, nil

	case TimelineLoadedMsg:
		m.historyLoading = false
		if msg.Err == nil {
			m.historyItems = msg.Items
		}
		return m, nil

	case StatsLoadedMsg:
		if msg.Err == nil {
			m.historyStats = msg.Stats
		}
		return m, nil

	case DetailLoadedMsg:
		if m.detail != nil {
			m.detail.loading = false
			m.detail.chat = msg.Chat
			m.detail.forecast = msg.Forecast
			m.detail.failed = msg.Err != nil
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveComponent(msg)
}

func (m model) applySession(snap session.Snapshot) (tea.Model, tea.Cmd) {
	m.user = snap.User
	switch {
	case snap.Loading:
		m.guard = guardPending
	case snap.User == nil:
		m.guard = guardDenied
	default:
		wasGranted := m.guard == guardGranted
		m.guard = guardGranted
		if !wasGranted {
			// Land on the page originally requested before the guard
			// resolved.
			return m.enterPage(m.requestedPage)
		}
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}

	// A blocking alert eats the next key.
	if m.alert != "" {
		m.alert = ""
		return m, nil
	}

	if m.cleanupDue {
		switch key {
		case "y", "Y":
			m.deps.Maintenance.Run(time.Now())
			m.deps.Forecast.Reload()
			m.deps.Chat.Reload()
			m.refreshTranscript()
			m.cleanupDue = false
			return m, nil
		case "n", "N", "esc":
			m.cleanupDue = false
			return m, nil
		}
	}

	switch m.guard {
	case guardPending:
		return m, nil
	case guardDenied:
		if key == "q" || key == "esc" {
			return m, tea.Quit
		}
		return m, nil
	}

	if m.detail != nil {
		if key == "esc" || key == "q" {
			m.detail = nil
		}
		return m, nil
	}

	if m.attaching {
		return m.updateAttachPicker(msg)
	}

	// Page switching. The assistant's text input swallows plain digits,
	// so switching from there uses tab only.
	if key == "tab" {
		return m.enterPage((m.page + 1) % 4)
	}
	if m.page != pageAssistant {
		switch key {
		case "1":
			return m.enterPage(pageHome)
		case "2":
			return m.enterPage(pageForecaster)
		case "3":
			return m.enterPage(pageAssistant)
		case "4":
			return m.enterPage(pageHistory)
		case "q":
			return m, tea.Quit
		}
	}

	switch m.page {
	case pageHome:
		return m.handleHomeKey(key)
	case pageForecaster:
		return m.handleForecasterKey(msg)
	case pageAssistant:
		return m.handleAssistantKey(msg)
	case pageHistory:
		return m.handleHistoryKey(key)
	}
	return m, nil
}

// enterPage switches pages and runs per-page entry hooks.
func (m model) enterPage(p page) (tea.Model, tea.Cmd) {
	m.page = p
	var cmds []tea.Cmd

	switch p {
	case pageAssistant:
		// Consume a pending prompt handed off by the command center.
		if prompt, ok := m.deps.Handoff.TakePendingPrompt(); ok {
			m.chatInput.SetValue(prompt)
		}
		cmds = append(cmds, m.chatInput.Focus())
		m.refreshTranscript()
	case pageForecaster:
		m.chatInput.Blur()
		if !m.deps.Forecast.Data().HasData && !m.pickerInit {
			m.pickerInit = true
			cmds = append(cmds, m.csvPicker.Init())
		}
	case pageHistory:
		m.chatInput.Blur()
		if !m.historyLoaded {
			m.historyLoaded = true
			m.historyLoading = true
			cmds = append(cmds,
				loadTimelineCmd(m.ctx, m.deps.API),
				loadStatsCmd(m.ctx, m.deps.API),
			)
		}
	default:
		m.chatInput.Blur()
	}
	return m, tea.Batch(cmds...)
}

// updateActiveComponent forwards non-key messages to whichever bubble is
// active (file pickers need directory-read messages even without focus).
func (m model) updateActiveComponent(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	if m.attaching {
		m.attachPicker, cmd = m.attachPicker.Update(msg)
		cmds = append(cmds, cmd)
		if ok, path := m.attachPicker.DidSelectFile(msg); ok {
			m.attachmentPath = path
			m.attaching = false
		}
		return m, tea.Batch(cmds...)
	}

	if m.page == pageForecaster && !m.uploading && !m.deps.Forecast.Data().HasData {
		m.csvPicker, cmd = m.csvPicker.Update(msg)
		cmds = append(cmds, cmd)
		if ok, path := m.csvPicker.DidSelectFile(msg); ok {
			m.uploading = true
			cmds = append(cmds, uploadForecastCmd(m.ctx, m.deps.API, path))
		}
	}

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}

	// Guard: protected content never renders while the session is
	// unresolved.
	switch m.guard {
	case guardPending:
		return CenterOverlay(m.width, m.height, m.loading.View())
	case guardDenied:
		return m.renderSignIn()
	}

	if m.alert != "" {
		return m.renderAlert()
	}
	if m.detail != nil {
		return m.renderDetailOverlay()
	}
	if m.attaching {
		return m.renderAttachPicker()
	}

	var body string
	switch m.page {
	case pageHome:
		body = m.renderHome()
	case pageForecaster:
		body = m.renderForecaster()
	case pageAssistant:
		body = m.renderAssistant()
	case pageHistory:
		body = m.renderHistory()
	}

	sections := []string{m.renderHeader(), body, m.renderFooter()}
	if m.cleanupDue {
		sections = append([]string{m.renderCleanupNotice()}, sections...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m model) renderHeader() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("23")).
		Padding(0, 1)

	tabStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	activeTab := lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)

	tabs := ""
	for p := pageHome; p <= pageHistory; p++ {
		style := tabStyle
		if p == m.page {
			style = activeTab
		}
		tabs += style.Render(pageTitles[p])
		if p != pageHistory {
			tabs += tabStyle.Render(" • ")
		}
	}

	who := ""
	if m.user != nil {
		who = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Render("  " + m.user.Name)
	}

	return titleStyle.Render("wardeck") + "  " + tabs + who
}

func (m model) renderFooter() string {
	info := "tab: next page"
	if m.page != pageAssistant {
		info += " • 1-4: jump • q: quit"
	}
	switch m.page {
	case pageHome:
		info += " • s: clearance strategy • g: open forecaster"
	case pageForecaster:
		if m.deps.Forecast.Data().HasData {
			info += " • r: reset analysis"
		}
	case pageAssistant:
		info += " • enter: send • ctrl+o: attach • ctrl+x: clear chat"
	case pageHistory:
		info += " • f: filter • r: refresh • enter: view • p: replay"
	}

	return lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(info)
}

func (m model) renderSignIn() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")).
		Render("wardeck — warehouse command center")
	body := "You are signed out.\n\n" +
		"Run " + lipgloss.NewStyle().Bold(true).Render("wardeck login") + " in another terminal,\n" +
		"then return here. The dashboard unlocks as soon as the session appears.\n\n" +
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("q: quit")
	return CenterOverlay(m.width, m.height, title+"\n\n"+body)
}

func (m model) renderAlert() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("196")).
		Padding(1, 2).
		Render(m.alert + "\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render("press any key to dismiss"))
	return CenterOverlay(m.width, m.height, box)
}

func (m model) renderCleanupNotice() string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("58")).
		Padding(0, 1).
		Render("Monthly maintenance due: purge local data older than 1 year? (y/n)")
}

// Run starts the dashboard TUI and blocks until the user quits.
func Run(ctx context.Context, deps Deps, startPage string) error {
	start, ok := PageByName(startPage)
	if !ok {
		deps.Logger.Warn("unknown start page, using command center", zap.String("page", startPage))
	}

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go deps.Session.Watch(watchCtx)

	p := tea.NewProgram(newModel(ctx, deps, start), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Package app contains the root application model.
package app

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/musichub/internal/cachemanager"
	"github.com/zjrosen/musichub/internal/client"
	"github.com/zjrosen/musichub/internal/keys"
	"github.com/zjrosen/musichub/internal/log"
	"github.com/zjrosen/musichub/internal/notify"
	"github.com/zjrosen/musichub/internal/pubsub"
	"github.com/zjrosen/musichub/internal/recent"
	"github.com/zjrosen/musichub/internal/submission"
	"github.com/zjrosen/musichub/internal/ui/isrcform"
	"github.com/zjrosen/musichub/internal/ui/logpanel"
	"github.com/zjrosen/musichub/internal/ui/recentlist"
	"github.com/zjrosen/musichub/internal/ui/styles"
	"github.com/zjrosen/musichub/internal/ui/toaster"
	"github.com/zjrosen/musichub/internal/watcher"
)

// contentMaxWidth caps the form and list so they stay readable on wide
// terminals.
const contentMaxWidth = 72

// Services are the collaborators the root model drives. *client.Client
// satisfies both Registrar and Fetcher.
type Services struct {
	Registrar submission.Registrar
	Fetcher   recent.Fetcher
	Queue     *notify.Queue
	Known     *cachemanager.KnownTracks
	Clock     recentlist.Clock

	// ConfigChanges, when set, announces edits to the config file and
	// ReloadConfig is called for each one.
	ConfigChanges *pubsub.Broker[watcher.Event]
	ReloadConfig  func() error
}

type submitResultMsg struct {
	result submission.Result
}

type recentResultMsg struct {
	ticket recent.Ticket
	env    client.Envelope[[]client.RecentTrack]
}

// Model is the root application state.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	// Controllers are shared across model copies and mutated only in Update.
	submit *submission.Controller
	recent *recent.Controller
	queue  *notify.Queue
	known  *cachemanager.KnownTracks

	keys     keys.KeyMap
	help     help.Model
	showHelp bool

	form    isrcform.Model
	list    recentlist.Model
	toaster toaster.Model

	debugMode bool
	logPanel  logpanel.Model

	toastListener  *pubsub.Listener[notify.Entry]
	logListener    *pubsub.Listener[string]
	configListener *pubsub.Listener[watcher.Event]
	reloadConfig   func() error

	width  int
	height int
}

// New creates the root model. debugMode enables the log panel (ctrl+x).
func New(svc Services, debugMode bool) Model {
	ctx, cancel := context.WithCancel(context.Background())

	queue := svc.Queue
	if queue == nil {
		queue = notify.NewQueue()
	}
	known := svc.Known
	if known == nil {
		known = cachemanager.NewKnownTracks(0)
	}

	m := Model{
		ctx:           ctx,
		cancel:        cancel,
		submit:        submission.New(svc.Registrar, queue).WithContext(ctx),
		recent:        recent.New(svc.Fetcher).WithContext(ctx),
		queue:         queue,
		known:         known,
		keys:          keys.DefaultKeyMap(),
		help:          help.New(),
		form:          isrcform.New(),
		list:          recentlist.New(svc.Clock),
		toaster:       toaster.New(),
		debugMode:     debugMode,
		logPanel:      logpanel.New(),
		toastListener: pubsub.NewListener(ctx, queue.Broker()),
		reloadConfig:  svc.ReloadConfig,
	}
	if debugMode {
		m.logListener = log.NewListener(ctx)
	}
	if svc.ConfigChanges != nil {
		m.configListener = pubsub.NewListener(ctx, svc.ConfigChanges)
	}
	m.syncForm()
	return m
}

// Init starts the recent-list fetch and the event listeners.
func (m Model) Init() tea.Cmd {
	ticket := m.recent.Start()
	cmds := []tea.Cmd{
		fetchRecent(ticket),
		m.list.Init(),
		m.toastListener.Listen(),
	}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	if m.configListener != nil {
		cmds = append(cmds, m.configListener.Listen())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		contentWidth := min(msg.Width-4, contentMaxWidth)
		m.form = m.form.SetWidth(contentWidth)
		m.list = m.list.SetWidth(contentWidth)
		m.help.Width = contentWidth
		m.toaster = m.toaster.SetSize(msg.Width, msg.Height)
		m.logPanel = m.logPanel.SetSize(msg.Width, msg.Height)
		return m, nil

	case submitResultMsg:
		out, ok := m.submit.Settle(msg.result)
		if ok && out.TrackInfo != nil {
			m.known.Remember(out.Code, cachemanager.KnownTrack{
				Title:   out.TrackInfo.Title,
				Artists: out.TrackInfo.Artists,
			})
		}
		return m, m.syncForm()

	case recentResultMsg:
		if !m.recent.Settle(msg.ticket, msg.env) {
			return m, nil
		}
		view := m.recent.Snapshot()
		for _, item := range view.Items {
			m.known.Remember(item.ISRC, cachemanager.KnownTrack{
				Title:   item.Title,
				Artists: strings.Join(item.Artists, ", "),
				Status:  string(item.Raw),
			})
		}
		var cmd tea.Cmd
		m.list, cmd = m.list.SetView(view)
		return m, tea.Batch(cmd, m.syncForm())

	case pubsub.Event[notify.Entry]:
		m.toaster = m.toaster.SetEntries(m.queue.Entries())
		return m, m.toastListener.Listen()

	case pubsub.Event[watcher.Event]:
		m.handleConfigEvent(msg.Payload)
		return m, m.configListener.Listen()

	case log.LogEvent:
		m.logPanel = m.logPanel.Append(msg.Payload)
		return m, m.logListener.Listen()

	case toaster.DismissMsg:
		m.queue.Remove(msg.ID)
		return m, nil

	case isrcform.SubmitMsg:
		return m.beginSubmit()

	case logpanel.CloseMsg:
		return m, nil

	case spinner.TickMsg:
		var formCmd, listCmd tea.Cmd
		m.form, formCmd = m.form.Update(msg)
		m.list, listCmd = m.list.Update(msg)
		return m, tea.Batch(formCmd, listCmd)

	case tea.MouseMsg:
		if m.logPanel.Visible() {
			return m, nil
		}
		var toastCmd, formCmd tea.Cmd
		m.toaster, toastCmd = m.toaster.Update(msg)
		m.form, formCmd = m.form.Update(msg)
		return m, tea.Batch(toastCmd, formCmd)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Cursor blink and anything else the input understands.
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.Close()
		return m, tea.Quit
	}

	if m.debugMode && key.Matches(msg, m.keys.ToggleLog) {
		m.logPanel = m.logPanel.Toggle()
		return m, nil
	}
	// The log panel takes every key while it is open.
	if m.logPanel.Visible() {
		var cmd tea.Cmd
		m.logPanel, cmd = m.logPanel.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.beginSubmit()

	case key.Matches(msg, m.keys.Retry):
		ticket, ok := m.recent.Retry()
		if !ok {
			return m, nil
		}
		var cmd tea.Cmd
		m.list, cmd = m.list.SetView(m.recent.Snapshot())
		return m, tea.Batch(cmd, fetchRecent(ticket))

	case key.Matches(msg, m.keys.Dismiss):
		if newest, ok := m.queue.Newest(); ok {
			m.queue.Remove(newest.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.DismissAll):
		m.queue.Clear()
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.form = m.form.SetValue("")
		m.submit.SetInput("")
		return m, m.syncForm()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)
	m.submit.SetInput(m.form.Value())
	return m, tea.Batch(cmd, m.syncForm())
}

// handleConfigEvent reloads the config file and reports the result as a
// notification.
func (m Model) handleConfigEvent(ev watcher.Event) {
	if ev.Type != watcher.FileChanged || m.reloadConfig == nil {
		return
	}
	if err := m.reloadConfig(); err != nil {
		log.ErrorErr(log.CatConfig, "Config reload failed", err, "path", ev.Path)
		m.queue.Enqueue(notify.Options{
			Title:       "Configuration Not Reloaded",
			Description: strings.Join(strings.Fields(err.Error()), " "),
			Variant:     notify.VariantError,
		})
		return
	}
	log.Info(log.CatConfig, "Config reloaded", "path", ev.Path)
	m.queue.Enqueue(notify.Options{
		Title:       "Configuration Reloaded",
		Description: "Theme and notification settings were updated.",
		Variant:     notify.VariantSuccess,
	})
}

// beginSubmit starts a submission when the trigger is enabled.
func (m Model) beginSubmit() (tea.Model, tea.Cmd) {
	ticket, ok := m.submit.Begin()
	if !ok {
		return m, nil
	}
	return m, tea.Batch(m.syncForm(), func() tea.Msg {
		return submitResultMsg{result: ticket.Execute()}
	})
}

// syncForm pushes the controller state into the form.
func (m *Model) syncForm() tea.Cmd {
	var cmd tea.Cmd
	m.form, cmd = m.form.SetState(isrcform.State{
		CanSubmit:  m.submit.CanSubmit(),
		Submitting: m.submit.State() == submission.Submitting,
		Message:    m.submit.Message(),
		Error:      m.submit.Error(),
		Known:      m.knownHint(),
	})
	return cmd
}

func (m Model) knownHint() string {
	if !m.submit.Valid() {
		return ""
	}
	t, ok := m.known.Lookup(m.submit.Normalized())
	if !ok {
		return ""
	}
	if t.Artists == "" {
		return "Known track: " + t.Title
	}
	return "Known track: " + t.Title + " — " + t.Artists
}

func fetchRecent(t recent.Ticket) tea.Cmd {
	return func() tea.Msg {
		return recentResultMsg{ticket: t, env: t.Execute()}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	header := styles.TitleStyle.Render("musichub") + styles.MutedStyle.Render("  ISRC registration")

	helpView := m.help.ShortHelpView(m.keys.ShortHelp())
	if m.showHelp {
		helpView = m.help.FullHelpView(m.keys.FullHelp())
	}

	view := lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left,
		header,
		"",
		m.form.View(),
		"",
		m.list.View(),
		"",
		helpView,
	))

	view = m.toaster.Overlay(view)
	if m.debugMode {
		view = m.logPanel.Overlay(view)
	}
	return zone.Scan(view)
}

// Submission returns the submission controller.
func (m Model) Submission() *submission.Controller { return m.submit }

// Recent returns the recent-list controller.
func (m Model) Recent() *recent.Controller { return m.recent }

// Close abandons in-flight requests and stops the listeners.
func (m Model) Close() {
	m.submit.Abandon()
	m.recent.Close()
	m.cancel()
}

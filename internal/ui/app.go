package ui

import (
	"context"
	"fmt"

	"github.com/FundamentalEcomLLC/Smartbot/internal/config"
	"github.com/FundamentalEcomLLC/Smartbot/internal/engagement"
	"github.com/FundamentalEcomLLC/Smartbot/internal/geometry"
	"github.com/FundamentalEcomLLC/Smartbot/internal/session"
	"github.com/FundamentalEcomLLC/Smartbot/internal/storage"
	"github.com/FundamentalEcomLLC/Smartbot/internal/stream"
	"github.com/FundamentalEcomLLC/Smartbot/internal/theme"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// assistantName labels assistant messages and titles the panel.
const assistantName = "Smartbot"

// Notifier raises desktop notifications while the widget is in the
// background.
type Notifier interface {
	Enabled() bool
	Send(ctx context.Context, title, body string) error
}

// Options wires the widget shell to the rest of the runtime.
type Options struct {
	Embed    config.Embed
	Settings *config.Config

	Chat     stream.ChatFunc
	Sessions *session.Controller
	Tab      *storage.TabState
	Notifier Notifier
	Log      zerolog.Logger

	// PageBackground is the host page's background color as a CSS value.
	// Empty means unknown; the sampler then assumes a white canvas.
	PageBackground string
	Version        string
}

// App is the root model: a host page with the chat launcher and the
// floating chat panel on top of it.
type App struct {
	chat     stream.ChatFunc
	sessions *session.Controller
	tab      *storage.TabState
	notifier Notifier
	log      zerolog.Logger

	pageURL  string
	tabID    string
	presetID string
	version  string

	// Runtime state shared across model copies.
	machine *engagement.Machine
	conv    *stream.Conversation
	panel   *geometry.Panel // nil until the first WindowSizeMsg
	chooser *theme.Chooser

	// Sub-models
	chatPanel ChatPanelModel
	launcher  LauncherModel
	statusBar StatusBarModel
	help      HelpOverlayModel

	// Theming
	frames         theme.Coalescer
	theme          theme.Theme
	themeKnown     bool
	pageBackground string

	// Layout state
	width       int
	height      int
	initialized bool // whether first WindowSizeMsg has been processed

	// visible mirrors terminal focus, the shell's stand-in for page visibility.
	visible bool
	// closeAfterSend defers a user close until the reply in flight settles.
	closeAfterSend bool

	// sendCtx is canceled on quit so in-flight sends stop promptly.
	sendCtx    context.Context
	cancelSend context.CancelFunc

	tick tickFunc
}

// NewApp creates the widget shell. Nothing touches the network until Init.
func NewApp(opts Options) App {
	settings := opts.Settings
	if settings == nil {
		settings = &config.Config{Preset: config.DefaultPreset, PageURL: config.DefaultPageURL}
	}

	machine := engagement.New(engagement.Config{
		AutoOpenDelay:  opts.Embed.AutoOpenDelay,
		WarnDelay:      opts.Embed.WarnDelay,
		CloseDelay:     opts.Embed.CloseDelay,
		Grace:          config.ClosingGrace,
		WelcomeMessage: opts.Embed.WelcomeMessage,
		WarningMessage: opts.Embed.WarningMessage,
		CloseMessage:   opts.Embed.CloseMessage,
	})

	ctx, cancel := context.WithCancel(context.Background())

	return App{
		chat:           opts.Chat,
		sessions:       opts.Sessions,
		tab:            opts.Tab,
		notifier:       opts.Notifier,
		log:            opts.Log,
		pageURL:        settings.PageURL,
		tabID:          settings.TabID,
		presetID:       settings.Preset,
		version:        opts.Version,
		machine:        machine,
		conv:           &stream.Conversation{},
		chooser:        newTerminalChooser(),
		chatPanel:      NewChatPanelModel(assistantName),
		statusBar:      NewStatusBarModel(),
		help:           NewHelpOverlayModel(),
		pageBackground: opts.PageBackground,
		visible:        true,
		sendCtx:        ctx,
		cancelSend:     cancel,
		tick:           realTick,
	}
}

// Init discards any session a previous load left behind, then arms
// auto-open for this tab.
func (m App) Init() tea.Cmd {
	m.sessions.Restore()
	autoOpened := m.tab.AutoOpened()
	m.log.Info().Bool("auto_opened", autoOpened).Msg("widget mounted")
	return m.applyEffects(m.machine.Mount(autoOpened))
}

// Update dispatches messages to domain-specific sub-handlers.
func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case tea.FocusMsg:
		m.visible = true
		return m, nil
	case tea.BlurMsg:
		m.visible = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)

	case ChatStreamMsg:
		return m.handleStreamMsg(msg)
	case chatStreamClosedMsg:
		return m, nil

	case TimerFiredMsg:
		return m.handleTimer(msg)

	case TeardownDoneMsg:
		cmd := m.statusBar.SetTemporaryMessage("Chat ended", flashDuration)
		return m, cmd

	case themeFrameMsg:
		m.recomputeTheme()
		return m, nil

	case notifyErrMsg:
		m.log.Warn().Err(msg.Err).Msg("desktop notification failed")
		return m, nil

	case StatusBarClearMsg:
		m.statusBar.ClearIfSeqMatch(msg.Seq)
		return m, nil
	}
	return m, nil
}

func (m App) View() string {
	if !m.initialized {
		return "Loading..."
	}

	p := paletteFor(m.theme)
	page := pageSize(m.width, m.height)

	lr := m.launcherRect()
	layers := []layer{{left: lr.left, top: lr.top, content: m.launcher.View(p)}}

	streaming := m.conv.InFlight()
	if m.machine.PanelOpen() {
		chat := m.chatPanel
		chat.SetState(streaming, m.panel.Dragging(), m.layoutLabel())
		pos := m.panel.Position()
		layers = append(layers, layer{left: pos.Left, top: pos.Top, content: chat.View(p)})
	}

	if m.help.IsVisible() {
		left, top := m.help.Origin()
		layers = append(layers, layer{left: left, top: top, content: m.help.View()})
	}

	sb := m.statusBar
	sb.SetWidgetState(m.machine.PanelOpen(), m.panel.Dragging(), streaming,
		m.theme.String(), m.layoutLabel(), m.sessionLabel())

	return composeScreen(page, layers...) + "\n" + sb.View()
}

func (m App) launcherRect() rect {
	return launcherRect(pageSize(m.width, m.height), m.launcher.Width())
}

func (m App) layoutLabel() string {
	if m.panel == nil {
		return ""
	}
	if m.panel.Mode() == geometry.ModeCustom {
		s := m.panel.Size()
		return fmt.Sprintf("custom %dx%d", s.Width, s.Height)
	}
	return m.panel.PresetID()
}

func (m App) sessionLabel() string {
	id := m.sessions.ID()
	if id == "" {
		return "no session"
	}
	if len(id) > 8 {
		id = id[:8]
	}
	return "session " + id
}

// metadata is attached to every outbound message.
func (m App) metadata() map[string]any {
	md := map[string]any{"client": "smartbot-widget"}
	if m.tabID != "" {
		md["tab_id"] = m.tabID
	}
	if m.version != "" {
		md["client_version"] = m.version
	}
	return md
}

// surface is the page as the theme sampler sees it.
func (m App) surface() terminalSurface {
	page := pageSize(m.width, m.height)
	widgets := []rect{m.launcherRect()}
	if m.machine.PanelOpen() && m.panel != nil {
		widgets = append(widgets, panelRect(m.panel.Position(), m.panel.Size()))
	}
	return terminalSurface{
		width:   page.Width,
		height:  page.Height,
		page:    pageElement{background: m.pageBackground},
		widgets: widgets,
	}
}

// glamourStyle picks the markdown style for a launcher theme. The light
// launcher means a dark page, so markdown uses the dark style there.
func glamourStyle(t theme.Theme) string {
	if t == theme.Light {
		return "dark"
	}
	return "light"
}

// syncPanelSize pushes the geometry to the chat panel.
func (m *App) syncPanelSize() {
	if m.panel == nil {
		return
	}
	size := m.panel.Size()
	m.chatPanel.SetSize(size.Width, size.Height)
	m.chatPanel.Refresh(m.conv.Messages(), true)
}

// requestTheme asks for a theme recompute on the next frame.
func (m *App) requestTheme() tea.Cmd {
	if m.frames.Request() {
		return themeFrameCmd(m.tick)
	}
	return nil
}

func (m *App) recomputeTheme() {
	m.frames.Flush(func() {
		t := m.chooser.Choose(m.surface())
		if t == m.theme && m.themeKnown {
			return
		}
		m.themeKnown = true
		m.log.Debug().Str("theme", t.String()).Str("background", m.pageBackground).Msg("launcher theme")
		m.theme = t
		m.chatPanel.SetMarkdownStyle(glamourStyle(t))
		m.chatPanel.Refresh(m.conv.Messages(), true)
	})
}

package ui

import (
	"time"

	"github.com/FundamentalEcomLLC/Smartbot/internal/engagement"
	"github.com/FundamentalEcomLLC/Smartbot/internal/geometry"
	"github.com/FundamentalEcomLLC/Smartbot/internal/stream"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	flashDuration      = 2 * time.Second
	errorFlashDuration = 4 * time.Second
)

// -- Layout --

func (m App) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	page := pageSize(msg.Width, msg.Height)

	if m.panel == nil {
		m.panel = geometry.NewPanel(geometry.TerminalMetrics(), page, m.presetID)
	} else {
		m.panel.SetViewport(page)
	}
	m.initialized = true
	m.statusBar.SetWidth(msg.Width)
	m.help.SetSize(page.Width, page.Height)
	m.syncPanelSize()

	return m, m.requestTheme()
}

// -- Keyboard --

func (m App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, WidgetKeys.Quit) {
		return m.quit()
	}
	if m.help.IsVisible() {
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, WidgetKeys.Toggle):
		return m.toggleLauncher()
	case key.Matches(msg, WidgetKeys.Help):
		m.help.Show(m.machine.PanelOpen())
		return m, nil
	}

	if !m.machine.PanelOpen() {
		return m, nil
	}

	switch {
	case key.Matches(msg, WidgetKeys.Minimize):
		m.minimize()
		return m, nil
	case key.Matches(msg, WidgetKeys.Close):
		return m.closeChat()
	case key.Matches(msg, WidgetKeys.CyclePreset):
		if m.panel == nil {
			return m, nil
		}
		preset := m.panel.CyclePreset()
		m.syncPanelSize()
		cmd := m.statusBar.SetTemporaryMessage("Size: "+preset.ID, flashDuration)
		return m, tea.Batch(cmd, m.requestTheme())
	case key.Matches(msg, WidgetKeys.Send):
		return m.send()
	}

	var cmd tea.Cmd
	m.chatPanel, cmd = m.chatPanel.Update(msg)
	return m, cmd
}

// -- Mouse --

func (m App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.initialized {
		return m, nil
	}
	pointer := geometry.Point{Left: msg.X, Top: msg.Y}

	if m.panel.Dragging() {
		switch msg.Action {
		case tea.MouseActionMotion:
			if m.panel.DragTo(pointer) {
				m.syncPanelSize()
			}
		case tea.MouseActionRelease:
			m.panel.EndDrag()
			m.log.Debug().Str("layout", m.layoutLabel()).Msg("panel resized")
			return m, m.requestTheme()
		}
		return m, nil
	}

	var pr *rect
	if m.machine.PanelOpen() {
		r := panelRect(m.panel.Position(), m.panel.Size())
		pr = &r
	}
	region := hitTest(msg.X, msg.Y, m.launcherRect(), pr)

	switch msg.Button {
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		switch region {
		case RegionLauncher:
			return m.toggleLauncher()
		case RegionHandle:
			m.panel.BeginDrag(pointer)
		}
		return m, nil

	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		if region == RegionPanel || region == RegionHandle {
			var cmd tea.Cmd
			m.chatPanel, cmd = m.chatPanel.Update(msg)
			return m, cmd
		}
		// Scrolling the page can bring a different background under the
		// launcher.
		return m, m.requestTheme()
	}
	return m, nil
}

// -- Panel visibility --

// toggleLauncher opens the panel, or minimizes it when it is open.
func (m App) toggleLauncher() (tea.Model, tea.Cmd) {
	if m.machine.PanelOpen() {
		m.minimize()
		return m, nil
	}
	cmd := m.applyEffects(m.machine.UserOpened())
	return m, cmd
}

// minimize hides the panel. The conversation and its timers carry on.
func (m *App) minimize() {
	m.machine.Minimized()
	m.launcher.SetOpen(false)
	m.chatPanel.Blur()
	if m.panel != nil {
		m.panel.EndDrag()
	}
}

// closeChat ends the conversation. A close requested while a reply is
// streaming waits for that reply to settle.
func (m App) closeChat() (tea.Model, tea.Cmd) {
	if m.conv.InFlight() {
		m.closeAfterSend = true
		cmd := m.statusBar.SetTemporaryMessage("Ending chat after this reply...", flashDuration)
		return m, cmd
	}
	cmd := m.applyEffects(m.machine.UserClosed())
	return m, cmd
}

// quit is the page-unload path.
func (m App) quit() (tea.Model, tea.Cmd) {
	m.sessions.Unload()
	m.cancelSend()
	m.log.Info().Msg("widget unloaded")
	return m, tea.Quit
}

// -- Sending --

func (m App) send() (tea.Model, tea.Cmd) {
	turn, ok := m.conv.Begin(m.chatPanel.InputValue())
	if !ok {
		return m, nil
	}
	msgs := m.conv.Messages()
	text := msgs[len(msgs)-2].Text

	m.chatPanel.ResetInput()
	m.chatPanel.Refresh(msgs, true)

	req := stream.Request{
		Turn:     turn,
		Message:  text,
		PageURL:  m.pageURL,
		Metadata: m.metadata(),
	}
	m.log.Debug().Uint64("turn", uint64(turn)).Int("len", len(text)).Msg("sending message")
	_, cmd := startSendCmd(m.sendCtx, req, m.sessions, m.chat)
	return m, cmd
}

func (m App) handleStreamMsg(msg ChatStreamMsg) (tea.Model, tea.Cmd) {
	ev := msg.Event
	cmds := []tea.Cmd{listenForChatStream(msg.src)}

	// Events of an abandoned turn only keep the channel draining.
	if !m.conv.Current(ev.Turn) {
		return m, tea.Batch(cmds...)
	}

	switch ev.Kind {
	case stream.EventSession:
		m.log.Debug().Str("session_id", ev.SessionID).Msg("session ready")
		cmds = append(cmds, m.applyEffects(m.machine.Activity(m.sessions.Active())))

	case stream.EventChunk:
		m.conv.Append(ev.Turn, ev.Chunk)
		m.chatPanel.Refresh(m.conv.Messages(), false)

	case stream.EventDone:
		m.conv.Finish(ev.Turn)
		m.chatPanel.Refresh(m.conv.Messages(), true)
		m.launcher.MarkUnread()
		cmds = append(cmds, m.applyEffects(m.machine.Activity(m.sessions.Active())))
		cmds = append(cmds, m.afterSend())

	case stream.EventError:
		text := stream.ErrorText
		if ev.SessionFailed {
			text = stream.SessionErrorText
		}
		m.conv.FailWith(ev.Turn, text)
		m.chatPanel.Refresh(m.conv.Messages(), true)
		m.log.Warn().Err(ev.Err).Bool("session_failed", ev.SessionFailed).Msg("send failed")
		if ev.Err != nil {
			cmds = append(cmds, m.statusBar.SetTemporaryMessage(formatUserError(ev.Err.Error()), errorFlashDuration))
		}
		cmds = append(cmds, m.afterSend())
	}
	return m, tea.Batch(cmds...)
}

// afterSend runs a close that was requested while the reply streamed.
func (m *App) afterSend() tea.Cmd {
	if !m.closeAfterSend {
		return nil
	}
	m.closeAfterSend = false
	return m.applyEffects(m.machine.UserClosed())
}

// -- Engagement --

func (m App) handleTimer(msg TimerFiredMsg) (tea.Model, tea.Cmd) {
	var effects []engagement.Effect
	switch msg.Timer {
	case engagement.TimerAutoOpen:
		effects = m.machine.AutoOpenFired(msg.Gen, m.visible)
	case engagement.TimerInactivity:
		effects = m.machine.InactivityFired(msg.Gen)
	}
	if len(effects) > 0 {
		m.log.Debug().Str("state", m.machine.State().String()).Int("effects", len(effects)).Msg("engagement timer")
	}
	cmd := m.applyEffects(effects)
	return m, cmd
}

// applyEffects carries out what the engagement machine asked for.
func (m *App) applyEffects(effects []engagement.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, e := range effects {
		switch e := e.(type) {
		case engagement.Arm:
			cmds = append(cmds, armTimerCmd(m.tick, e))

		case engagement.OpenPanel:
			m.launcher.SetOpen(true)
			m.chatPanel.Refresh(m.conv.Messages(), true)
			cmds = append(cmds, m.chatPanel.Focus())

		case engagement.AppendMessage:
			m.conv.AddAssistant(e.Text)
			m.chatPanel.Refresh(m.conv.Messages(), true)
			m.launcher.MarkUnread()
			if e.Kind == engagement.MessageWarning && !m.visible {
				cmds = append(cmds, notifyCmd(m.notifier, assistantName, e.Text))
			}

		case engagement.MarkAutoOpened:
			m.tab.MarkAutoOpened()

		case engagement.Teardown:
			if id := m.sessions.Detach(); id != "" {
				cmds = append(cmds, teardownCmd(m.sessions, id, e.Reason))
			}

		case engagement.ClosePanel:
			m.conv.Clear()
			m.closeAfterSend = false
			m.minimize()
			m.chatPanel.ResetInput()
			m.chatPanel.Refresh(nil, true)
		}
	}
	return tea.Batch(cmds...)
}

package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/FundamentalEcomLLC/Smartbot/internal/api"
	"github.com/FundamentalEcomLLC/Smartbot/internal/config"
	"github.com/FundamentalEcomLLC/Smartbot/internal/engagement"
	"github.com/FundamentalEcomLLC/Smartbot/internal/session"
	"github.com/FundamentalEcomLLC/Smartbot/internal/storage"
	"github.com/FundamentalEcomLLC/Smartbot/internal/stream"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

// -- Fakes --

type fakeNotifier struct {
	notes *[]string
}

func (f *fakeNotifier) Enabled() bool { return true }

func (f *fakeNotifier) Send(_ context.Context, _, body string) error {
	*f.notes = append(*f.notes, body)
	return nil
}

type fakeBackend struct {
	mu       sync.Mutex
	starts   int
	startErr error
	closed   []string
	beacons  []string
}

func (f *fakeBackend) StartSession(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	if f.startErr != nil {
		return "", f.startErr
	}
	return "sess-" + string(rune('0'+f.starts)), nil
}

func (f *fakeBackend) CloseSession(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = append(f.closed, id)
	return nil
}

func (f *fakeBackend) Beacon(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.beacons = append(f.beacons, id)
}

type sliceChunks struct {
	chunks []string
	i      int
}

func (s *sliceChunks) Next() (string, error) {
	if s.i >= len(s.chunks) {
		return "", io.EOF
	}
	c := s.chunks[s.i]
	s.i++
	return c, nil
}

func (s *sliceChunks) Close() error { return nil }

type armed struct {
	delay time.Duration
	msg   tea.Msg
}

type harness struct {
	backend *fakeBackend
	tab     *storage.TabState
	armed   []armed
	chats   []api.ChatRequest
	notes   []string
}

// lastArmed returns the most recent engagement timer of the given kind.
func (h *harness) lastArmed(t *testing.T, timer engagement.Timer) armed {
	t.Helper()
	for i := len(h.armed) - 1; i >= 0; i-- {
		if fired, ok := h.armed[i].msg.(TimerFiredMsg); ok && fired.Timer == timer {
			return h.armed[i]
		}
	}
	t.Fatalf("no %v timer armed", timer)
	return armed{}
}

func testEmbed() config.Embed {
	return config.Embed{
		BotID:          "bot-1",
		APIBase:        "https://api.test",
		WelcomeMessage: "Hi there!",
		WarnDelay:      70 * time.Second,
		CloseDelay:     60 * time.Second,
		WarningMessage: "Still there?",
		CloseMessage:   "Closing now.",
	}
}

func newTestApp(t *testing.T, embed config.Embed, reply []string, chatErr error) (App, *harness) {
	t.Helper()
	h := &harness{backend: &fakeBackend{}}
	h.tab = storage.NewTabState(storage.NewSafe(storage.NewMemory(), zerolog.Nop()), embed.BotID)

	var mu sync.Mutex
	chat := func(ctx context.Context, req api.ChatRequest) (stream.Chunks, error) {
		mu.Lock()
		h.chats = append(h.chats, req)
		mu.Unlock()
		if chatErr != nil {
			return nil, chatErr
		}
		return &sliceChunks{chunks: reply}, nil
	}


	m := NewApp(Options{
		Embed:    embed,
		Settings: &config.Config{Preset: "comfort", PageURL: "https://shop.test/", TabID: "tab-1"},
		Chat:     chat,
		Sessions: session.NewController(h.backend, h.tab, zerolog.Nop()),
		Tab:      h.tab,
		Notifier: &fakeNotifier{notes: &h.notes},
		Log:      zerolog.Nop(),
	})
	m.tick = func(d time.Duration, msg tea.Msg) tea.Cmd {
		h.armed = append(h.armed, armed{delay: d, msg: msg})
		return nil
	}
	t.Cleanup(m.cancelSend)

	m.Init()
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, h
}

func update(t *testing.T, m App, msg tea.Msg) App {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(App)
}

// pump feeds a send's stream events back into the model until the stream
// channel is drained. The stream listener is always the first command.
func pump(t *testing.T, m App, cmd tea.Cmd) App {
	t.Helper()
	for i := 0; cmd != nil && i < 50; i++ {
		msg := cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			msg = batch[0]()
		}
		if _, done := msg.(chatStreamClosedMsg); done {
			return m
		}
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(App)
	}
	t.Fatal("stream did not finish")
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+w":
		return tea.KeyMsg{Type: tea.KeyCtrlW}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "f1":
		return tea.KeyMsg{Type: tea.KeyF1}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sendMessage(t *testing.T, m App, text string) App {
	t.Helper()
	m.chatPanel.textInput.SetValue(text)
	next, cmd := m.Update(keyMsg("enter"))
	return pump(t, next.(App), cmd)
}

// -- Tests --

func TestApp_SendStreamsReply(t *testing.T) {
	m, h := newTestApp(t, testEmbed(), []string{"Hel", "lo!"}, nil)
	m = update(t, m, keyMsg("ctrl+o"))
	if !m.machine.PanelOpen() {
		t.Fatal("ctrl+o should open the panel")
	}

	m = sendMessage(t, m, "  hello  ")

	msgs := m.conv.Messages()
	if len(msgs) != 2 {
		t.Fatalf("got %d messages, want 2: %+v", len(msgs), msgs)
	}
	if msgs[0].Text != "hello" || msgs[1].Text != "Hello!" || msgs[1].Pending {
		t.Errorf("unexpected transcript: %+v", msgs)
	}
	if m.conv.InFlight() {
		t.Error("send should be settled")
	}
	if m.chatPanel.InputValue() != "" {
		t.Error("input should be cleared after an accepted send")
	}

	if h.backend.starts != 1 {
		t.Errorf("starts = %d, want 1", h.backend.starts)
	}
	if len(h.chats) != 1 {
		t.Fatalf("chats = %d, want 1", len(h.chats))
	}
	req := h.chats[0]
	if req.SessionID != "sess-1" || req.Message != "hello" || req.PageURL != "https://shop.test/" {
		t.Errorf("unexpected chat request: %+v", req)
	}
	if req.Metadata["tab_id"] != "tab-1" {
		t.Errorf("metadata = %v, want tab_id", req.Metadata)
	}

	rec, ok := h.tab.LoadSession()
	if !ok || rec.SessionID != "sess-1" || !rec.HasConversation {
		t.Errorf("persisted record = %+v, %v", rec, ok)
	}
	if m.machine.State() != engagement.Active {
		t.Errorf("state = %v, want active", m.machine.State())
	}
	if got := h.lastArmed(t, engagement.TimerInactivity).delay; got != 70*time.Second {
		t.Errorf("inactivity armed for %v, want 70s", got)
	}
}

func TestApp_SecondSendReusesSession(t *testing.T) {
	m, h := newTestApp(t, testEmbed(), []string{"ok"}, nil)
	m = update(t, m, keyMsg("ctrl+o"))
	m = sendMessage(t, m, "one")
	m = sendMessage(t, m, "two")

	if h.backend.starts != 1 {
		t.Errorf("starts = %d, want 1", h.backend.starts)
	}
	if len(h.chats) != 2 || h.chats[1].SessionID != h.chats[0].SessionID {
		t.Errorf("second send should reuse the session: %+v", h.chats)
	}
	if m.conv.Len() != 4 {
		t.Errorf("messages = %d, want 4", m.conv.Len())
	}
}

func TestApp_BlankSendIgnored(t *testing.T) {
	m, h := newTestApp(t, testEmbed(), nil, nil)
	m = update(t, m, keyMsg("ctrl+o"))
	m.chatPanel.textInput.SetValue("   ")
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(App)
	if cmd != nil || m.conv.Len() != 0 || h.backend.starts != 0 {
		t.Errorf("blank send should do nothing (cmd=%v, len=%d)", cmd != nil, m.conv.Len())
	}
}

func TestApp_ChatFailureShowsApology(t *testing.T) {
	m, _ := newTestApp(t, testEmbed(), nil, &api.StatusError{Op: "chat", Status: 500})
	m = update(t, m, keyMsg("ctrl+o"))
	m = sendMessage(t, m, "hello")

	msgs := m.conv.Messages()
	last := msgs[len(msgs)-1]
	if !last.Failed || last.Text != stream.ErrorText {
		t.Errorf("last message = %+v, want the generic apology", last)
	}
	if m.conv.InFlight() {
		t.Error("a failed send must release the in-flight guard")
	}
}

func TestApp_SessionFailureShowsApology(t *testing.T) {
	m, h := newTestApp(t, testEmbed(), []string{"unused"}, nil)
	h.backend.startErr = &api.StatusError{Op: "start-session", Status: 503}
	m = update(t, m, keyMsg("ctrl+o"))
	m = sendMessage(t, m, "hello")

	msgs := m.conv.Messages()
	if last := msgs[len(msgs)-1]; last.Text != stream.SessionErrorText {
		t.Errorf("last message = %q, want the session apology", last.Text)
	}
	if len(h.chats) != 0 {
		t.Error("chat must not be called without a session")
	}
	if m.machine.State() == engagement.Active {
		t.Error("inactivity cascade must not arm without a session")
	}
}

func TestApp_AutoOpenShowsWelcomeOnce(t *testing.T) {
	embed := testEmbed()
	embed.AutoOpenDelay = 500 * time.Millisecond
	m, h := newTestApp(t, embed, nil, nil)

	timer := h.lastArmed(t, engagement.TimerAutoOpen)
	if timer.delay != 500*time.Millisecond {
		t.Fatalf("auto-open armed for %v", timer.delay)
	}
	m = update(t, m, timer.msg)

	if !m.machine.PanelOpen() {
		t.Fatal("panel should auto-open")
	}
	msgs := m.conv.Messages()
	if len(msgs) != 1 || msgs[0].Text != "Hi there!" {
		t.Errorf("messages = %+v, want one welcome", msgs)
	}
	if !h.tab.AutoOpened() {
		t.Error("auto-open flag should be persisted")
	}

	// A stale second delivery changes nothing.
	m = update(t, m, timer.msg)
	if m.conv.Len() != 1 {
		t.Errorf("welcome repeated: %d messages", m.conv.Len())
	}
}

func TestApp_AutoOpenSkippedWhileHidden(t *testing.T) {
	embed := testEmbed()
	embed.AutoOpenDelay = time.Second
	m, h := newTestApp(t, embed, nil, nil)

	m = update(t, m, tea.BlurMsg{})
	m = update(t, m, h.lastArmed(t, engagement.TimerAutoOpen).msg)

	if m.machine.PanelOpen() {
		t.Error("auto-open must not fire while the page is hidden")
	}
	if !h.tab.AutoOpened() {
		t.Error("skipped auto-open still marks the tab")
	}
}

func TestApp_AutoOpenNotArmedTwicePerTab(t *testing.T) {
	embed := testEmbed()
	embed.AutoOpenDelay = time.Second
	_, h := newTestApp(t, embed, nil, nil)
	h.tab.MarkAutoOpened()

	m := NewApp(Options{
		Embed:    embed,
		Chat:     func(context.Context, api.ChatRequest) (stream.Chunks, error) { return nil, errors.New("unused") },
		Sessions: session.NewController(h.backend, h.tab, zerolog.Nop()),
		Tab:      h.tab,
		Log:      zerolog.Nop(),
	})
	t.Cleanup(m.cancelSend)
	var count int
	m.tick = func(time.Duration, tea.Msg) tea.Cmd { count++; return nil }
	m.Init()
	if count != 0 {
		t.Errorf("armed %d timers on a tab that already auto-opened", count)
	}
}

func TestApp_InactivityCascade(t *testing.T) {
	m, h := newTestApp(t, testEmbed(), []string{"ok"}, nil)
	m = update(t, m, keyMsg("ctrl+o"))
	m = sendMessage(t, m, "hello")
	m = update(t, m, tea.BlurMsg{})

	// Warning, with a desktop notification while hidden.
	next, cmd := m.Update(h.lastArmed(t, engagement.TimerInactivity).msg)
	m = next.(App)
	if cmd != nil {
		cmd()
	}
	if last := m.conv.Messages()[m.conv.Len()-1]; last.Text != "Still there?" {
		t.Errorf("last message = %q, want the warning", last.Text)
	}
	if len(h.notes) != 1 || h.notes[0] != "Still there?" {
		t.Errorf("notifications = %v", h.notes)
	}
	closeTimer := h.lastArmed(t, engagement.TimerInactivity)
	if closeTimer.delay != 60*time.Second {
		t.Errorf("close armed for %v, want 60s", closeTimer.delay)
	}

	// Closing message.
	m = update(t, m, closeTimer.msg)
	if last := m.conv.Messages()[m.conv.Len()-1]; last.Text != "Closing now." {
		t.Errorf("last message = %q, want the closing message", last.Text)
	}
	grace := h.lastArmed(t, engagement.TimerInactivity)
	if grace.delay != config.ClosingGrace {
		t.Errorf("grace = %v", grace.delay)
	}

	// Teardown.
	next, cmd = m.Update(grace.msg)
	m = next.(App)
	if cmd == nil {
		t.Fatal("teardown should close the session")
	}
	if done, ok := cmd().(TeardownDoneMsg); !ok || done.Reason != engagement.ReasonAutoInactivity {
		t.Errorf("teardown result = %v", done)
	}
	if len(h.backend.closed) != 1 || h.backend.closed[0] != "sess-1" {
		t.Errorf("closed = %v", h.backend.closed)
	}
	if m.machine.PanelOpen() || m.conv.Len() != 0 {
		t.Error("teardown should hide the panel and clear messages")
	}
	if _, ok := h.tab.LoadSession(); ok {
		t.Error("teardown should clear the persisted session")
	}
}

func TestApp_ActivityRestartsInactivity(t *testing.T) {
	m, h := newTestApp(t, testEmbed(), []string{"ok"}, nil)
	m = update(t, m, keyMsg("ctrl+o"))
	m = sendMessage(t, m, "one")
	stale := h.lastArmed(t, engagement.TimerInactivity)

	m = sendMessage(t, m, "two")
	m = update(t, m, stale.msg)
	if last := m.conv.Messages()[m.conv.Len()-1]; last.Text == "Still there?" {
		t.Error("a timer superseded by activity must not warn")
	}
}

func TestApp_UserCloseDeferredWhileStreaming(t *testing.T) {
	m, h := newTestApp(t, testEmbed(), nil, nil)
	m = update(t, m, keyMsg("ctrl+o"))

	turn, ok := m.conv.Begin("hello")
	if !ok {
		t.Fatal("Begin failed")
	}
	m = update(t, m, keyMsg("ctrl+w"))
	if !m.machine.PanelOpen() {
		t.Fatal("close must wait for the reply in flight")
	}

	m = update(t, m, ChatStreamMsg{Event: stream.Event{Kind: stream.EventChunk, Turn: turn, Chunk: "Hi"}})
	m = update(t, m, ChatStreamMsg{Event: stream.Event{Kind: stream.EventDone, Turn: turn}})

	if m.machine.PanelOpen() || m.conv.Len() != 0 {
		t.Error("deferred close should run once the reply settled")
	}
	if len(h.backend.closed) != 0 {
		t.Error("no session existed, nothing to close")
	}
}

func TestApp_StreamingReplyKeepsWordsWhole(t *testing.T) {
	m, _ := newTestApp(t, testEmbed(), nil, nil)
	m = update(t, m, keyMsg("ctrl+o"))
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.chatPanel.transcript.live.now = func() time.Time { return now }

	turn, _ := m.conv.Begin("hi")
	m = update(t, m, ChatStreamMsg{Event: stream.Event{Kind: stream.EventChunk, Turn: turn, Chunk: "Hel"}})
	m = update(t, m, ChatStreamMsg{Event: stream.Event{Kind: stream.EventChunk, Turn: turn, Chunk: "lo!"}})

	view := m.chatPanel.viewport.View()
	if !strings.Contains(view, "Hello!") {
		t.Errorf("streaming reply split across lines:\n%s", view)
	}
}

func TestApp_StaleTurnIgnored(t *testing.T) {
	m, _ := newTestApp(t, testEmbed(), nil, nil)
	m = update(t, m, keyMsg("ctrl+o"))

	turn, _ := m.conv.Begin("hello")
	m = update(t, m, keyMsg("esc"))
	m = update(t, m, keyMsg("ctrl+o"))
	m.conv.Clear()

	m = update(t, m, ChatStreamMsg{Event: stream.Event{Kind: stream.EventChunk, Turn: turn, Chunk: "late"}})
	if m.conv.Len() != 0 {
		t.Errorf("chunk for an abandoned turn was rendered: %+v", m.conv.Messages())
	}
}

func TestApp_MinimizeKeepsConversation(t *testing.T) {
	m, _ := newTestApp(t, testEmbed(), []string{"ok"}, nil)
	m = update(t, m, keyMsg("ctrl+o"))
	m = sendMessage(t, m, "hello")

	m = update(t, m, keyMsg("esc"))
	if m.machine.PanelOpen() {
		t.Fatal("esc should minimize")
	}
	if m.conv.Len() != 2 {
		t.Error("minimizing must keep the conversation")
	}
	m = update(t, m, keyMsg("ctrl+o"))
	if !m.machine.PanelOpen() || m.conv.Len() != 2 {
		t.Error("reopening should show the same conversation")
	}
}

func TestApp_QuitSendsBeacon(t *testing.T) {
	m, h := newTestApp(t, testEmbed(), []string{"ok"}, nil)
	m = update(t, m, keyMsg("ctrl+o"))
	m = sendMessage(t, m, "hello")

	_, cmd := m.Update(keyMsg("ctrl+c"))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if len(h.backend.beacons) != 1 || h.backend.beacons[0] != "sess-1" {
		t.Errorf("beacons = %v", h.backend.beacons)
	}
	if _, ok := h.tab.LoadSession(); ok {
		t.Error("unload should clear the persisted session")
	}
}

func TestApp_QuitWithoutConversationSendsNothing(t *testing.T) {
	m, h := newTestApp(t, testEmbed(), nil, nil)
	m.Update(keyMsg("ctrl+c"))
	if len(h.backend.beacons) != 0 {
		t.Errorf("beacons = %v, want none", h.backend.beacons)
	}
}

func TestApp_DragResize(t *testing.T) {
	m, _ := newTestApp(t, testEmbed(), nil, nil)
	m = update(t, m, keyMsg("ctrl+o"))

	startPos := m.panel.Position()
	startSize := m.panel.Size()
	br := m.panel.BottomRight()

	m = update(t, m, tea.MouseMsg{X: startPos.Left, Y: startPos.Top, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if !m.panel.Dragging() {
		t.Fatal("pressing the handle should start a drag")
	}
	m = update(t, m, tea.MouseMsg{X: startPos.Left - 6, Y: startPos.Top - 3, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	m = update(t, m, tea.MouseMsg{X: startPos.Left - 6, Y: startPos.Top - 3, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})

	if m.panel.Dragging() {
		t.Error("release should end the drag")
	}
	size := m.panel.Size()
	if size.Width != startSize.Width+6 || size.Height != startSize.Height+3 {
		t.Errorf("size = %+v, want %+v grown by 6x3", size, startSize)
	}
	if m.panel.BottomRight() != br {
		t.Errorf("bottom-right moved: %+v -> %+v", br, m.panel.BottomRight())
	}
	if !strings.HasPrefix(m.layoutLabel(), "custom") {
		t.Errorf("layout = %q, want custom", m.layoutLabel())
	}

	// A resize of the terminal keeps the custom size.
	m = update(t, m, tea.WindowSizeMsg{Width: 130, Height: 44})
	if m.panel.Size() != size {
		t.Errorf("custom size lost on resize: %+v", m.panel.Size())
	}
}

func TestApp_CyclePreset(t *testing.T) {
	m, _ := newTestApp(t, testEmbed(), nil, nil)
	m = update(t, m, keyMsg("ctrl+o"))
	if m.panel.PresetID() != "comfort" {
		t.Fatalf("preset = %q", m.panel.PresetID())
	}
	m = update(t, m, keyMsg("ctrl+s"))
	if m.panel.PresetID() != "expanded" {
		t.Errorf("preset = %q, want expanded", m.panel.PresetID())
	}
}

func TestApp_LauncherClickToggles(t *testing.T) {
	m, _ := newTestApp(t, testEmbed(), nil, nil)
	lr := m.launcherRect()
	click := tea.MouseMsg{X: lr.left + 1, Y: lr.top, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress}

	m = update(t, m, click)
	if !m.machine.PanelOpen() {
		t.Fatal("clicking the launcher should open the panel")
	}
	m = update(t, m, click)
	if m.machine.PanelOpen() {
		t.Error("clicking again should minimize")
	}
}

func TestApp_ThemeFollowsPageBackground(t *testing.T) {
	tests := []struct {
		background string
		want       string
	}{
		{"#101010", "light"},
		{"#fafafa", "dark"},
		{"", "dark"},
	}
	for _, tt := range tests {
		t.Run(tt.background, func(t *testing.T) {
			m, _ := newTestApp(t, testEmbed(), nil, nil)
			m.pageBackground = tt.background
			m = update(t, m, themeFrameMsg{})
			if m.theme.String() != tt.want {
				t.Errorf("theme = %v, want %s", m.theme, tt.want)
			}
		})
	}
}

func TestApp_ThemeRecomputeCoalesced(t *testing.T) {
	m, h := newTestApp(t, testEmbed(), nil, nil)
	before := len(h.armed)
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m = update(t, m, tea.WindowSizeMsg{Width: 101, Height: 30})
	m = update(t, m, tea.MouseMsg{X: 1, Y: 1, Button: tea.MouseButtonWheelDown})

	frames := 0
	for _, a := range h.armed[before:] {
		if _, ok := a.msg.(themeFrameMsg); ok {
			frames++
		}
	}
	// The frame from setup is still pending, so none of these schedule another.
	if frames != 0 {
		t.Errorf("scheduled %d extra frames, want 0", frames)
	}
	m = update(t, m, themeFrameMsg{})
	m = update(t, m, tea.WindowSizeMsg{Width: 90, Height: 30})
	if _, ok := h.armed[len(h.armed)-1].msg.(themeFrameMsg); !ok {
		t.Error("a request after the frame should schedule a new one")
	}
}

func TestApp_View(t *testing.T) {
	m, _ := newTestApp(t, testEmbed(), nil, nil)
	view := m.View()
	if !strings.Contains(view, "Chat") {
		t.Error("view should show the launcher")
	}
	if strings.Contains(view, assistantName+" ") {
		t.Error("panel should be hidden until opened")
	}

	m = update(t, m, keyMsg("ctrl+o"))
	view = m.View()
	if !strings.Contains(view, dragHandle+" "+assistantName) {
		t.Error("open panel should show its header")
	}
	if !strings.Contains(view, "no session") {
		t.Error("status bar should show the session state")
	}
	if got := strings.Count(view, "\n") + 1; got != 40 {
		t.Errorf("view has %d lines, want 40", got)
	}
}

func TestApp_HelpOverlay(t *testing.T) {
	m, _ := newTestApp(t, testEmbed(), nil, nil)
	m = update(t, m, keyMsg("ctrl+o"))
	m = update(t, m, keyMsg("f1"))
	if !m.help.IsVisible() {
		t.Fatal("F1 should show help")
	}
	if !strings.Contains(m.View(), "Chat panel (current)") {
		t.Error("help should mark the chat panel section current")
	}

	// Keys go to the overlay while it is shown; esc closes it, not the panel.
	m = update(t, m, keyMsg("esc"))
	if m.help.IsVisible() {
		t.Error("esc should hide help")
	}
	if !m.machine.PanelOpen() {
		t.Error("esc on the overlay must not minimize the panel")
	}
}

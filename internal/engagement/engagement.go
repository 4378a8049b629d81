// Package engagement decides when the widget greets a visitor on its own and
// when an idle conversation is warned about and then closed.
//
// The Machine is a pure transition table: callers feed it events and carry
// out the returned effects. It never sleeps or schedules anything itself.
// Timers are requested through Arm effects tagged with a generation; a fired
// timer whose generation is no longer current is ignored, which is how a
// re-armed timer cancels its predecessor.
package engagement

import "time"

// State is the engagement state.
type State int

const (
	Dormant State = iota
	AutoOpenArmed
	Open
	Active
	WarningIssued
	Closing
)

func (s State) String() string {
	switch s {
	case Dormant:
		return "dormant"
	case AutoOpenArmed:
		return "auto-open-armed"
	case Open:
		return "open"
	case Active:
		return "active"
	case WarningIssued:
		return "warning-issued"
	case Closing:
		return "closing"
	}
	return "unknown"
}

// Timer identifies one of the two logical timers.
type Timer int

const (
	TimerAutoOpen Timer = iota
	TimerInactivity
)

// Teardown reasons.
const (
	ReasonUser           = "user"
	ReasonAutoInactivity = "auto_inactivity"
)

// MessageKind tags assistant messages the machine appends.
type MessageKind int

const (
	MessageWelcome MessageKind = iota
	MessageWarning
	MessageClosing
)

// Effect is something the caller must carry out.
type Effect interface{ effect() }

// Arm schedules Timer to fire after Delay. Deliver the firing back with Gen.
type Arm struct {
	Timer Timer
	Delay time.Duration
	Gen   uint64
}

// AppendMessage adds an assistant message to the conversation view.
type AppendMessage struct {
	Kind MessageKind
	Text string
}

// OpenPanel shows the chat panel.
type OpenPanel struct{}

// MarkAutoOpened persists the per-tab "already auto-opened" flag.
type MarkAutoOpened struct{}

// Teardown closes the session with the given reason.
type Teardown struct{ Reason string }

// ClosePanel hides the panel and clears its messages.
type ClosePanel struct{}

func (Arm) effect()            {}
func (AppendMessage) effect()  {}
func (OpenPanel) effect()      {}
func (MarkAutoOpened) effect() {}
func (Teardown) effect()       {}
func (ClosePanel) effect()     {}

// Config holds the delays and canned texts.
type Config struct {
	// AutoOpenDelay <= 0 disables auto-open.
	AutoOpenDelay time.Duration
	// WarnDelay <= 0 disables the inactivity cascade.
	WarnDelay  time.Duration
	CloseDelay time.Duration
	// Grace is the pause between the closing message and the teardown.
	Grace time.Duration

	WelcomeMessage string
	WarningMessage string
	CloseMessage   string
}

// Machine is the engagement state machine for one widget instance.
type Machine struct {
	cfg   Config
	state State

	panelOpen    bool
	userOpened   bool
	conversation bool
	welcomed     bool

	autoArmed bool
	autoGen   uint64
	idleGen   uint64
}

// New creates a machine in Dormant.
func New(cfg Config) *Machine {
	return &Machine{cfg: cfg}
}

func (m *Machine) State() State       { return m.state }
func (m *Machine) PanelOpen() bool    { return m.panelOpen }
func (m *Machine) Conversation() bool { return m.conversation }

// Mount arms the auto-open timer unless it is disabled or this tab already
// auto-opened.
func (m *Machine) Mount(alreadyAutoOpened bool) []Effect {
	if m.cfg.AutoOpenDelay <= 0 || alreadyAutoOpened {
		return nil
	}
	m.state = AutoOpenArmed
	m.autoArmed = true
	m.autoGen++
	return []Effect{Arm{Timer: TimerAutoOpen, Delay: m.cfg.AutoOpenDelay, Gen: m.autoGen}}
}

// UserOpened records that the visitor opened the panel themselves.
func (m *Machine) UserOpened() []Effect {
	m.panelOpen = true
	m.userOpened = true
	if m.state == Dormant || m.state == AutoOpenArmed {
		m.state = Open
	}
	return []Effect{OpenPanel{}}
}

// Minimized records that the panel was hidden without ending the
// conversation. Timers keep running.
func (m *Machine) Minimized() {
	m.panelOpen = false
}

// AutoOpenFired handles the auto-open timer. It is skipped when the panel is
// already open or the page is hidden; the flag is persisted either way.
func (m *Machine) AutoOpenFired(gen uint64, visible bool) []Effect {
	if !m.autoArmed || gen != m.autoGen {
		return nil
	}
	m.autoArmed = false
	effects := []Effect{MarkAutoOpened{}}

	if m.userOpened || m.panelOpen || !visible {
		if m.state == AutoOpenArmed {
			m.state = Dormant
		}
		return effects
	}

	m.panelOpen = true
	if m.state == AutoOpenArmed || m.state == Dormant {
		m.state = Open
	}
	effects = append(effects, OpenPanel{})
	if !m.welcomed && !m.conversation && m.cfg.WelcomeMessage != "" {
		m.welcomed = true
		effects = append(effects, AppendMessage{Kind: MessageWelcome, Text: m.cfg.WelcomeMessage})
	}
	return effects
}

// Activity restarts the inactivity cascade after an outbound message or a
// completed reply. The cascade only arms once a session with a conversation
// exists.
func (m *Machine) Activity(sessionActive bool) []Effect {
	if !sessionActive {
		return nil
	}
	m.conversation = true
	m.state = Active
	m.idleGen++
	if m.cfg.WarnDelay <= 0 {
		return nil
	}
	return []Effect{Arm{Timer: TimerInactivity, Delay: m.cfg.WarnDelay, Gen: m.idleGen}}
}

// InactivityFired advances the warn, close, teardown cascade.
func (m *Machine) InactivityFired(gen uint64) []Effect {
	if gen != m.idleGen {
		return nil
	}
	switch m.state {
	case Active:
		m.state = WarningIssued
		return []Effect{
			AppendMessage{Kind: MessageWarning, Text: m.cfg.WarningMessage},
			Arm{Timer: TimerInactivity, Delay: m.cfg.CloseDelay, Gen: m.idleGen},
		}
	case WarningIssued:
		m.state = Closing
		return []Effect{
			AppendMessage{Kind: MessageClosing, Text: m.cfg.CloseMessage},
			Arm{Timer: TimerInactivity, Delay: m.cfg.Grace, Gen: m.idleGen},
		}
	case Closing:
		return m.reset(ReasonAutoInactivity)
	}
	return nil
}

// UserClosed ends the conversation from any state.
func (m *Machine) UserClosed() []Effect {
	return m.reset(ReasonUser)
}

func (m *Machine) reset(reason string) []Effect {
	var effects []Effect
	if m.autoArmed {
		m.autoArmed = false
		effects = append(effects, MarkAutoOpened{})
	}
	m.idleGen++
	m.state = Dormant
	m.panelOpen = false
	m.conversation = false
	return append(effects, Teardown{Reason: reason}, ClosePanel{})
}

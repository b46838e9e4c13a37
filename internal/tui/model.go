package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vitaminmoo/rollock/internal/commands"
	"github.com/vitaminmoo/rollock/internal/counter"
	"github.com/vitaminmoo/rollock/internal/keyring"
	"github.com/vitaminmoo/rollock/internal/rolling"
	"github.com/vitaminmoo/rollock/internal/session"
	"github.com/vitaminmoo/rollock/internal/transport"
	"github.com/vitaminmoo/rollock/internal/transport/ble"
	"github.com/vitaminmoo/rollock/internal/wire"
)

const historyLimit = 8

const unlockTimeout = 10 * time.Second

// historyEntry is one line of the verdict log.
type historyEntry struct {
	when time.Time
	text string
	ok   bool
}

// Model is the main Bubbletea model for the interactive remote.
type Model struct {
	opts   commands.Options
	device string

	store *counter.FileStore
	next  uint64 // next counter the remote will use

	link transport.Link
	sess *session.Requester

	connecting bool
	unlocking  bool
	errorMsg   string
	history    []historyEntry

	width  int
	height int

	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	styles  Styles
}

// NewModel builds the model and loads the remote's counter for display.
func NewModel(opts commands.Options, device string) (Model, error) {
	store, err := opts.OpenCounter()
	if err != nil {
		return Model{}, fmt.Errorf("failed to open counter store: %w", err)
	}
	next, err := store.Load()
	if err != nil {
		return Model{}, err
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		opts:    opts,
		device:  device,
		store:   store,
		next:    next,
		keys:    DefaultKeyMap(),
		help:    help.New(),
		spinner: sp,
		styles:  DefaultStyles(),
	}, nil
}

func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// --- Messages ---

type connectedMsg struct {
	link transport.Link
	sess *session.Requester
	err  error
}

type verdictMsg struct {
	result session.Result
	err    error
}

// --- Commands ---

func (m Model) connectCmd() tea.Cmd {
	opts := m.opts
	device := m.device
	store := m.store
	return func() tea.Msg {
		link, err := ble.Connect(device)
		if err != nil {
			return connectedMsg{err: err}
		}
		builder := rolling.NewRequester(opts.RollingConfig(), store)
		return connectedMsg{link: link, sess: session.NewRequester(link, builder)}
	}
}

func (m Model) unlockCmd() tea.Cmd {
	sess := m.sess
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), unlockTimeout)
		defer cancel()
		res, err := sess.Unlock(ctx)
		return verdictMsg{result: res, err: err}
	}
}

// --- Update ---

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.link != nil {
				m.link.Close()
			}
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil

		case key.Matches(msg, m.keys.Connect):
			if m.connecting || m.sess != nil {
				return m, nil
			}
			m.connecting = true
			m.errorMsg = ""
			return m, m.connectCmd()

		case key.Matches(msg, m.keys.Unlock):
			if m.unlocking {
				return m, nil
			}
			if m.sess == nil {
				if m.connecting {
					return m, nil
				}
				// Connect first, then the user hits unlock again.
				m.connecting = true
				m.errorMsg = ""
				return m, m.connectCmd()
			}
			m.unlocking = true
			m.errorMsg = ""
			return m, m.unlockCmd()
		}
		return m, nil

	case connectedMsg:
		m.connecting = false
		if msg.err != nil {
			m.errorMsg = msg.err.Error()
			return m, nil
		}
		m.link = msg.link
		m.sess = msg.sess
		m.addHistory(fmt.Sprintf("connected to %s", m.device), true)
		return m, nil

	case verdictMsg:
		m.unlocking = false
		if msg.err != nil {
			m.errorMsg = msg.err.Error()
			// The counter may have advanced even on failure.
			m.refreshCounter()
			return m, nil
		}
		m.refreshCounter()
		switch msg.result.Verdict {
		case wire.Accepted:
			m.addHistory(fmt.Sprintf("unlocked (counter %d)", msg.result.Counter), true)
		default:
			m.addHistory(msg.result.Verdict.String(), false)
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) refreshCounter() {
	if next, err := m.store.Load(); err == nil {
		m.next = next
	}
}

func (m *Model) addHistory(text string, ok bool) {
	m.history = append(m.history, historyEntry{when: time.Now(), text: text, ok: ok})
	if len(m.history) > historyLimit {
		m.history = m.history[len(m.history)-historyLimit:]
	}
}

// --- View ---

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("rollock remote"))
	b.WriteString("\n\n")

	// Status block
	status := m.styles.StatusOffline.Render("disconnected")
	switch {
	case m.connecting:
		status = m.spinner.View() + " connecting..."
	case m.unlocking:
		status = m.spinner.View() + " waiting for verdict..."
	case m.sess != nil:
		status = m.styles.StatusOnline.Render("connected")
	}
	b.WriteString(m.statusLine("lock", status))
	b.WriteString(m.statusLine("device", m.styles.StatusValue.Render(m.device)))
	b.WriteString(m.statusLine("counter", m.styles.StatusValue.Render(fmt.Sprintf("%d", m.next))))
	b.WriteString(m.statusLine("secret", m.styles.StatusValue.Render(
		keyring.ShortFingerprint(keyring.Fingerprint(m.opts.Secret)))))

	if m.errorMsg != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render("error: " + m.errorMsg))
		b.WriteString("\n")
	}

	// History
	if len(m.history) > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.Subtitle.Render("history"))
		b.WriteString("\n")
		for i := len(m.history) - 1; i >= 0; i-- {
			e := m.history[i]
			line := fmt.Sprintf("  %s  %s", e.when.Format("15:04:05"), e.text)
			if e.ok {
				b.WriteString(m.styles.Success.Render(line))
			} else {
				b.WriteString(m.styles.Error.Render(line))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(m.help.View(m.keys)))

	return m.styles.App.Render(b.String())
}

func (m Model) statusLine(label, value string) string {
	return fmt.Sprintf("%s %s\n", m.styles.StatusKey.Render(fmt.Sprintf("%8s:", label)), value)
}

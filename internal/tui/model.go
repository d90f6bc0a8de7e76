package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/Vovarama1992/indic_dubber/internal/language"
	"github.com/Vovarama1992/indic_dubber/internal/session"
)

// changedMsg tells the model to re-read the session. It carries no state so
// that late deliveries can't roll the screen back.
type changedMsg struct{}

type refusedMsg struct{ err error }

type tickMsg time.Time

type styles struct {
	title   lipgloss.Style
	sub     lipgloss.Style
	box     lipgloss.Style
	label   lipgloss.Style
	err     lipgloss.Style
	notice  lipgloss.Style
	muted   lipgloss.Style
	footer  lipgloss.Style
	enabled lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#111827")).Background(lipgloss.Color("#FDE2E4")).Padding(0, 1),
		sub:     lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")),
		box:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#93C5FD")).Padding(0, 1),
		label:   lipgloss.NewStyle().Bold(true),
		err:     lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626")),
		notice:  lipgloss.NewStyle().Foreground(lipgloss.Color("#B45309")),
		muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")),
		footer:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).MarginTop(1),
		enabled: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#059669")),
	}
}

type Model struct {
	ctx     context.Context
	sess    *session.Session
	state   session.State
	refusal string
	width   int
	style   styles
}

func New(ctx context.Context, sess *session.Session) Model {
	return Model{
		ctx:   ctx,
		sess:  sess,
		state: sess.Snapshot(),
		width: 80,
		style: defaultStyles(),
	}
}

// Notify is meant for session.Subscribe: it pokes the program from whatever
// goroutine the session is running on.
func Notify(p *tea.Program) func(session.State) {
	return func(session.State) {
		// Send блокируется, если вызван из Update, поэтому в горутине
		go p.Send(changedMsg{})
	}
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case changedMsg:
		m.state = m.sess.Snapshot()
		return m, nil

	case refusedMsg:
		m.refusal = msg.err.Error()
		m.state = m.sess.Snapshot()
		return m, nil

	case tickMsg:
		m.state = m.sess.Snapshot()
		return m, tickCmd()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.refusal = ""

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit

	case tea.KeyCtrlT:
		return m, m.run(m.sess.Translate)

	case tea.KeyCtrlG:
		return m, m.run(m.sess.Synthesize)

	case tea.KeyTab:
		_ = m.sess.SetTarget(language.Next(m.state.TargetCode))

	case tea.KeyCtrlU:
		m.sess.SetSourceText("")

	case tea.KeyBackspace:
		r := []rune(m.state.SourceText)
		if len(r) > 0 {
			m.sess.SetSourceText(string(r[:len(r)-1]))
		}

	case tea.KeyEnter:
		m.sess.SetSourceText(m.state.SourceText + "\n")

	case tea.KeySpace:
		m.sess.SetSourceText(m.state.SourceText + " ")

	case tea.KeyRunes:
		m.sess.SetSourceText(m.state.SourceText + string(msg.Runes))
	}

	m.state = m.sess.Snapshot()
	return m, nil
}

// run executes a session action off the event loop.
func (m Model) run(action func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		if err := action(ctx); err != nil {
			return refusedMsg{err: err}
		}
		return changedMsg{}
	}
}

func (m Model) View() string {
	st := m.state
	w := m.width - 4
	if w < 20 {
		w = 20
	}

	header := lipgloss.JoinVertical(lipgloss.Left,
		m.style.title.Render("Indian Language Dubber"),
		m.style.sub.Render("Translate any text to Indian regional languages and generate voice."),
	)

	input := m.style.box.Width(w).Render(st.SourceText + "█")

	target := fmt.Sprintf("%s %s %s",
		m.style.label.Render("Target language:"),
		st.TargetName,
		m.style.muted.Render("(tab to change)"),
	)

	actions := strings.Join([]string{
		m.button("ctrl+t", translateLabel(st), st.CanTranslate),
		m.button("ctrl+g", speakLabel(st), st.CanSpeak),
	}, "   ")

	var status []string
	if st.ErrorMessage != "" {
		status = append(status, m.style.err.Render(st.ErrorMessage))
	}
	if st.Notice != "" {
		status = append(status, m.style.notice.Render(st.Notice))
	}
	if m.refusal != "" {
		status = append(status, m.style.muted.Render(m.refusal))
	}

	result := st.TranslatedText
	if result == "" {
		result = m.style.muted.Render("Your translation will appear here.")
	}
	resultBox := lipgloss.JoinVertical(lipgloss.Left,
		m.style.label.Render(fmt.Sprintf("Result (%s)", st.TargetName)),
		m.style.box.Width(w).Render(result),
	)

	footer := m.style.footer.Render(fmt.Sprintf("updated %s · ctrl+u: clear · esc: quit",
		humanize.Time(st.UpdatedAt)))

	parts := []string{header, "", input, target, actions}
	parts = append(parts, status...)
	parts = append(parts, "", resultBox, footer)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) button(key, label string, enabled bool) string {
	text := fmt.Sprintf("[%s] %s", key, label)
	if !enabled {
		return m.style.muted.Render(text)
	}
	return m.style.enabled.Render(text)
}

func translateLabel(st session.State) string {
	if st.Phase == session.PhaseTranslating {
		return "Translating..."
	}
	return "Translate"
}

func speakLabel(st session.State) string {
	if st.Phase == session.PhaseSynthesizing {
		return "Generating..."
	}
	return "Generate Voice"
}

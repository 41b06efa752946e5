// Package ui is the bubbletea front end.  It maps keys for the
// controller, ticks it at the poll interval and renders its View.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"termlink/internal/app"
	"termlink/internal/role"
	"termlink/internal/session"
)

// Controller is what the UI drives; *app.Controller implements it.
type Controller interface {
	Dispatch(ctx context.Context, k role.Key) bool
	Refresh()
	View() app.View
	DismissStatus()
	Close()
}

type tickMsg time.Time

func tickEvery(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type model struct {
	ctx     context.Context
	ctrl    Controller
	poll    time.Duration
	keys    keyMap
	styles  styles
	spinner spinner.Model
	view    app.View
	width   int
}

func newModel(ctx context.Context, ctrl Controller, poll time.Duration) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accent)

	return model{
		ctx:     ctx,
		ctrl:    ctrl,
		poll:    poll,
		keys:    defaultKeys(),
		styles:  defaultStyles(),
		spinner: sp,
		view:    ctrl.View(),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(tickEvery(m.poll), m.spinner.Tick)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.ctrl.Refresh()
		m.view = m.ctrl.View()
		return m, tickEvery(m.poll)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Exit):
			m.ctrl.Close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Dismiss):
			m.ctrl.DismissStatus()
		default:
			if m.ctrl.Dispatch(m.ctx, m.keys.roleKey(msg)) {
				return m, tea.Quit
			}
		}
		m.view = m.ctrl.View()
		return m, nil
	}
	return m, nil
}

func (m model) View() string {
	v := m.view

	var body string
	if v.Role == role.Unselected {
		body = m.menuView(v)
	} else {
		body = m.sessionView(v)
	}

	var b strings.Builder
	b.WriteString(m.styles.title.Render("termlink"))
	b.WriteString("\n")
	panel := m.styles.panel
	if m.width > 0 {
		panel = panel.MaxWidth(m.width)
	}
	b.WriteString(panel.Render(body))
	b.WriteString("\n")
	if v.Message != "" {
		st := m.styles.status
		if v.IsError {
			st = m.styles.errStatus
		}
		b.WriteString(st.Render(v.Message))
		b.WriteString("\n")
	}
	b.WriteString(m.helpView(v.Role == role.Unselected))
	return b.String()
}

func (m model) menuView(v app.View) string {
	lines := make([]string, 0, len(v.Options)+2)
	lines = append(lines, "Choose a role", "")
	for i, opt := range v.Options {
		if i == v.Index {
			lines = append(lines, m.styles.selected.Render("> "+opt))
		} else {
			lines = append(lines, m.styles.option.Render(opt))
		}
	}
	return strings.Join(lines, "\n")
}

func (m model) sessionView(v app.View) string {
	st := v.Session
	state := m.styles.state[st.State.String()].Render(st.State.String())
	if st.State == session.Listening || st.State == session.Connecting {
		state = m.spinner.View() + " " + state
	}

	title := "Server"
	target := "bind"
	if v.Role == role.Client {
		title = "Client"
		target = "remote"
	}

	rows := [][2]string{
		{target, v.Target},
		{"state", state},
	}
	if st.LocalAddr != "" {
		rows = append(rows, [2]string{"local", st.LocalAddr})
	}
	if st.PeerAddr != "" {
		rows = append(rows, [2]string{"peer", st.PeerAddr})
	}
	if st.State == session.Established {
		rows = append(rows,
			[2]string{"received", fmt.Sprintf("%d bytes", st.BytesIn)},
			[2]string{"since", time.Since(st.Since).Truncate(time.Second).String()},
		)
	}

	lines := []string{m.styles.selected.Render(title), ""}
	for _, r := range rows {
		lines = append(lines, m.styles.label.Render(r[0])+m.styles.value.Render(r[1]))
	}
	return strings.Join(lines, "\n")
}

func (m model) helpView(inMenu bool) string {
	bindings := m.keys.help(inMenu)
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return m.styles.help.Render(strings.Join(parts, " • "))
}

// Run starts the terminal UI on the alternate screen and blocks until
// the user quits or ctx is cancelled.  The controller is closed before
// Run returns.
func Run(ctx context.Context, ctrl Controller, poll time.Duration) error {
	p := tea.NewProgram(newModel(ctx, ctrl, poll), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	ctrl.Close()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// loginModel wraps the huh credential form. Credentials live only in the
// pointer-backed fields for the duration of one attempt.
type loginModel struct {
	width  int
	height int

	form    *huh.Form
	errText string

	// Form values as pointers (survive value copies)
	identifier *string
	secret     *string
}

func newLoginModel() loginModel {
	id, sec := "", ""
	l := loginModel{
		identifier: &id,
		secret:     &sec,
	}
	l.form = l.buildForm()
	return l
}

func (l loginModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Username or email").Value(l.identifier),
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(l.secret),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

// reset clears credentials and rebuilds the form for a fresh attempt.
func (l loginModel) reset() loginModel {
	*l.identifier = ""
	*l.secret = ""
	l.errText = ""
	l.form = l.buildForm()
	return l
}

func (l *loginModel) setSize(w, h int) {
	l.width = w
	l.height = h
}

// update runs the form. It reports completion via the second return value;
// the App owns the actual sign-in call.
func (l loginModel) update(msg tea.Msg) (loginModel, tea.Cmd, bool) {
	form, cmd := l.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		l.form = f
	}

	if l.form.State == huh.StateCompleted {
		return l, cmd, true
	}
	return l, cmd, false
}

func (l loginModel) view() string {
	w := l.width - 4
	if w < 30 {
		w = 30
	}

	title := titleStyle.Render("Sign in")

	rows := []string{title, ""}
	if l.errText != "" {
		rows = append(rows, errorStyle.Render(l.errText), "")
	}
	rows = append(rows, l.form.View())

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

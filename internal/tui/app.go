// Package tui is the presentation layer: a two-screen login/dashboard
// program with explicit loading and error screens in between. It owns the
// decision of what to show the user; the api and session packages just
// report what happened.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/gradr/internal/api"
	"github.com/sadopc/gradr/internal/export"
	"github.com/sadopc/gradr/internal/session"
)

// TokenStore is what the app needs from the session store.
type TokenStore interface {
	Save(token string) error
	Load() (string, error)
	Clear() error
}

// Backend is what the app needs from the api client.
type Backend interface {
	SignIn(ctx context.Context, identifier, secret string) (string, error)
	FetchAccount(ctx context.Context, token string) (*api.Account, error)
}

// App is the root Bubble Tea model.
type App struct {
	session TokenStore
	client  Backend
	log     *slog.Logger

	width  int
	height int

	state    screenState
	errText  string
	status   string
	showHelp bool

	exportPicking bool
	exportCursor  int

	login     loginModel
	dashboard dashboardModel
	spinner   spinner.Model
	help      help.Model
}

// NewApp decides the initial screen from the session store: a stored,
// unexpired token skips the login form and goes straight to fetching.
func NewApp(st TokenStore, client Backend, log *slog.Logger) App {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	h := help.New()
	h.ShowAll = false

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	a := App{
		session:   st,
		client:    client,
		log:       log,
		state:     screenLogin,
		login:     newLoginModel(),
		dashboard: newDashboardModel(),
		spinner:   sp,
		help:      h,
	}

	if _, err := st.Load(); err == nil {
		a.state = screenLoading
	}
	return a
}

func (a App) Init() tea.Cmd {
	if a.state == screenLoading {
		return tea.Batch(a.spinner.Tick, a.fetchCmd())
	}
	return a.login.form.Init()
}

// fetchCmd re-reads the token and runs the data query. The token may have
// expired between screens; that just lands the user back at the login form.
func (a App) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		token, err := a.session.Load()
		if err != nil {
			return fetchFailedMsg{err: err}
		}
		acct, err := a.client.FetchAccount(context.Background(), token)
		if err != nil {
			return fetchFailedMsg{err: err}
		}
		return accountMsg{account: acct, token: token}
	}
}

// signInCmd runs the full login flow: auth completes before the data query
// begins, never concurrently.
func (a App) signInCmd(identifier, secret string) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		token, err := a.client.SignIn(ctx, identifier, secret)
		if err != nil {
			return authFailedMsg{err: err}
		}
		acct, err := a.client.FetchAccount(ctx, token)
		if err != nil {
			return fetchFailedMsg{err: err}
		}
		return accountMsg{account: acct, token: token}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.login.setSize(a.width, contentHeight)
		a.dashboard.setSize(a.width, contentHeight)
		return a, nil

	case spinner.TickMsg:
		if a.state != screenLoading {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case accountMsg:
		// Success refreshes the stored token for another hour.
		if err := a.session.Save(msg.token); err != nil {
			a.log.Error("save token", "err", err)
			a.status = "Warning: session not saved"
		}
		a.dashboard.setAccount(msg.account)
		a.state = screenDashboard
		a.status = fmt.Sprintf("Signed in as %s", msg.account.Profile.Login)
		return a, nil

	case authFailedMsg:
		a.state = screenLogin
		a.login = a.login.reset()
		a.login.errText = msg.err.Error()
		return a, a.login.form.Init()

	case fetchFailedMsg:
		a.log.Error("data fetch failed", "err", msg.err)
		if errors.Is(msg.err, session.ErrNoToken) {
			// Token expired between screens; no error page for that.
			a.state = screenLogin
			a.login = a.login.reset()
			return a, a.login.form.Init()
		}
		a.state = screenError
		a.errText = msg.err.Error()
		return a, nil

	case statusMsg:
		a.status = msg.text
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil

	case tea.KeyMsg:
		return a.updateKeys(msg)
	}

	// Everything else (cursor blinks, form internals) belongs to the form.
	if a.state == screenLogin {
		return a.updateLogin(msg)
	}
	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The login form captures all typing; only ctrl+c breaks out.
	if a.state == screenLogin {
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.updateLogin(msg)
	}

	if a.exportPicking {
		return a.updateExportPicker(msg)
	}

	switch a.state {
	case screenLoading:
		if key.Matches(msg, keys.Quit) {
			return a, tea.Quit
		}
		return a, nil

	case screenError:
		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Back), key.Matches(msg, keys.Enter):
			a.state = screenLogin
			a.login = a.login.reset()
			a.errText = ""
			return a, a.login.form.Init()
		}
		return a, nil
	}

	// Dashboard keys.
	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, keys.Help):
		a.showHelp = !a.showHelp
		a.help.ShowAll = a.showHelp
		return a, nil
	case key.Matches(msg, keys.Logout):
		if err := a.session.Clear(); err != nil {
			a.log.Error("clear token", "err", err)
		}
		a.state = screenLogin
		a.login = a.login.reset()
		a.status = "Signed out"
		return a, a.login.form.Init()
	case key.Matches(msg, keys.Refresh):
		a.state = screenLoading
		a.status = ""
		return a, tea.Batch(a.spinner.Tick, a.fetchCmd())
	case key.Matches(msg, keys.Export):
		a.exportPicking = true
		a.exportCursor = 0
		return a, nil
	}

	var cmd tea.Cmd
	a.dashboard, cmd = a.dashboard.update(msg)
	return a, cmd
}

func (a App) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	login, cmd, done := a.login.update(msg)
	a.login = login
	if done {
		identifier, secret := *a.login.identifier, *a.login.secret
		a.state = screenLoading
		a.login.errText = ""
		return a, tea.Batch(a.spinner.Tick, a.signInCmd(identifier, secret))
	}
	return a, cmd
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	acct := a.dashboard.account
	series := a.dashboard.series
	skills := a.dashboard.skills
	return func() tea.Msg {
		if acct == nil {
			return statusMsg{text: "Nothing to export", isError: true}
		}

		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("gradr-export-%s.csv", dateStr))
			if err := export.ToCSV(acct.XP, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("gradr-export-%s.json", dateStr))
			if err := export.ToJSON(acct, series, skills, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.state {
	case screenLogin:
		content = a.login.view()
	case screenLoading:
		content = a.renderLoading()
	case screenDashboard:
		content = a.dashboard.view()
	case screenError:
		content = a.renderError()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("gradr")
	sub := mutedStyle.Render("  student progress")
	return headerStyle.Render(lipgloss.JoinHorizontal(lipgloss.Bottom, title, sub))
}

func (a App) renderFooter() string {
	helpView := ""
	if a.state == screenDashboard {
		helpView = a.help.View(keys)
	}

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}

func (a App) renderLoading() string {
	w := a.width - 4
	content := lipgloss.JoinVertical(lipgloss.Left,
		a.spinner.View()+" Fetching your data...",
		"",
		mutedStyle.Render("q: quit"),
	)
	return panelStyle.Width(w).Render(content)
}

func (a App) renderError() string {
	w := a.width - 4
	content := lipgloss.JoinVertical(lipgloss.Left,
		errorStyle.Render("Couldn't load your data"),
		"",
		normalItemStyle.Render(a.errText),
		"",
		mutedStyle.Render("enter/esc: back to sign in  q: quit"),
	)
	return activePanelStyle.Width(w).Render(content)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV (xp transactions)", "JSON (full snapshot)"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/gradr/internal/api"
	"github.com/sadopc/gradr/internal/session"
	"github.com/sadopc/gradr/internal/tui"
)

func main() {
	dbPath, err := session.DefaultDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	st, err := session.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening session store: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	log := openLogger(filepath.Join(filepath.Dir(dbPath), "gradr.log"))

	client := api.New(log)
	app := tui.NewApp(st, client, log)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// openLogger logs to a file beside the database; stderr would tear up the
// alt screen. Falls back to discarding when the file can't be opened.
func openLogger(path string) *slog.Logger {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(f, nil))
}

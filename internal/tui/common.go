package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/gradr/internal/api"
)

// screenState is the currently shown screen.
type screenState int

const (
	screenLogin screenState = iota
	screenLoading
	screenDashboard
	screenError
)

// --- Messages ---

// accountMsg carries a successful fetch plus the token that produced it, so
// the app can re-save it and refresh its expiry.
type accountMsg struct {
	account *api.Account
	token   string
}

// authFailedMsg is a provider rejection at sign-in; shown inline in the form.
type authFailedMsg struct {
	err error
}

// fetchFailedMsg is a data-fetch failure after a token was accepted.
type fetchFailedMsg struct {
	err error
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func readableDate(t time.Time) string {
	return t.Local().Format("January 2, 2006, 3:04 PM")
}

// formatAmount renders XP the way the y-axis does: kB above 1000.
func formatAmount(v float64) string {
	if v >= 1000 {
		return fmt.Sprintf("%.1f kB", v/1000)
	}
	return fmt.Sprintf("%.0f", v)
}

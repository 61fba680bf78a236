package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/linechart/timeserieslinechart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/gradr/internal/api"
	"github.com/sadopc/gradr/internal/stats"
)

// dashboardModel renders one fetched account: profile text, the skill donut,
// and the monthly XP line chart. Everything derived is recomputed from
// scratch in setAccount, so a re-login or refresh fully replaces the old
// render instead of stacking on top of it.
type dashboardModel struct {
	width  int
	height int

	account  *api.Account
	series   []stats.MonthPoint
	skills   []stats.SkillTotal
	total    float64
	segments []stats.Segment

	// selected indexes segments; -1 means none (center label shows the
	// grand total). The keyboard stand-in for hover.
	selected int

	chart timeserieslinechart.Model
}

func newDashboardModel() dashboardModel {
	return dashboardModel{selected: -1}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
	if d.account != nil {
		d.buildChart()
	}
}

// setAccount replaces all derived data with a fresh computation.
func (d *dashboardModel) setAccount(acct *api.Account) {
	d.account = acct
	d.series = stats.MonthlyXP(acct.XP, time.Now())
	d.skills, d.total = stats.SkillTotals(acct.Skills)
	d.segments = stats.DonutSegments(d.skills, d.total)
	d.selected = -1
	d.buildChart()
}

func (d *dashboardModel) buildChart() {
	chartWidth := d.width - 12
	if chartWidth < 30 {
		chartWidth = 30
	}
	chartHeight := 10
	if d.height > 36 {
		chartHeight = 14
	}

	chart := timeserieslinechart.New(chartWidth, chartHeight)
	chart.XLabelFormatter = func(_ int, v float64) string {
		return time.Unix(int64(v), 0).UTC().Format("Jan")
	}
	chart.YLabelFormatter = func(_ int, v float64) string {
		if v >= 1000 {
			return fmt.Sprintf("%.0fkB", v/1000)
		}
		return fmt.Sprintf("%.0f", v)
	}
	chart.SetStyle(lipgloss.NewStyle().Foreground(colorHighlight))

	for _, p := range d.series {
		chart.Push(timeserieslinechart.TimePoint{Time: p.Month, Value: p.Amount})
	}
	chart.DrawBraille()
	d.chart = chart
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if len(d.segments) == 0 {
			return d, nil
		}
		switch {
		case key.Matches(msg, keys.Right):
			d.selected = (d.selected + 1) % len(d.segments)
		case key.Matches(msg, keys.Left):
			if d.selected <= 0 {
				d.selected = len(d.segments) - 1
			} else {
				d.selected--
			}
		case key.Matches(msg, keys.Back):
			d.selected = -1
		}
	}
	return d, nil
}

func (d dashboardModel) view() string {
	if d.account == nil {
		return mutedStyle.Render("No data")
	}
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	profile := d.renderProfilePanel(contentWidth)
	donut := d.renderDonutPanel(contentWidth)
	xp := d.renderXPPanel(contentWidth)

	return lipgloss.JoinVertical(lipgloss.Left, profile, donut, xp)
}

func (d dashboardModel) renderProfilePanel(w int) string {
	p := d.account.Profile

	hello := titleStyle.Render(fmt.Sprintf("Hello %s!", p.FirstName))

	label := func(s string) string { return mutedStyle.Width(14).Render(s) }
	rows := []string{
		hello,
		"",
		label("full name") + normalItemStyle.Render(p.FirstName+" "+p.LastName),
		label("gitea name") + normalItemStyle.Render(p.Login),
		label("email") + normalItemStyle.Render(p.Email),
		label("created at") + normalItemStyle.Render(readableDate(p.CreatedAt)),
		label("audit ratio") + highlightStyle.Render(fmt.Sprintf("%.3f", p.AuditRatio)),
	}

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderDonutPanel(w int) string {
	title := titleStyle.Render("Skills")

	if len(d.segments) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No skill transactions yet"),
		)
		return panelStyle.Width(w).Render(content)
	}

	// Center label: grand total, or the selected segment's raw amount.
	centerValue := d.total
	centerLabel := "Total"
	if d.selected >= 0 {
		seg := d.segments[d.selected]
		centerValue = seg.Amount
		centerLabel = seg.Category
	}
	center := centerNumberStyle.Render(fmt.Sprintf("%.0f", centerValue)) +
		mutedStyle.Render("  "+centerLabel)

	ring := d.renderRing(min(w-8, 50))

	var legend []string
	for i, seg := range d.segments {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(stats.Palette[seg.ColorIndex])).Render("●")
		cursor := "  "
		style := normalItemStyle
		if i == d.selected {
			cursor = "> "
			style = selectedItemStyle
		}
		legend = append(legend, style.Render(fmt.Sprintf("%s%s %-14s %8.0f  %5.1f%%",
			cursor, dot, seg.Category, seg.Amount, seg.Sweep)))
	}

	rows := []string{title, "", center, "", ring, ""}
	rows = append(rows, legend...)
	rows = append(rows, "", mutedStyle.Render("  ←/→: inspect segment  esc: total"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

// renderRing draws the donut as a flat strip: each segment gets a run of
// cells proportional to its sweep, in ring order. Cumulative rounding keeps
// the strip exactly width cells wide.
func (d dashboardModel) renderRing(width int) string {
	if width < len(d.segments) {
		width = len(d.segments)
	}

	var b strings.Builder
	pos := 0
	cum := 0.0
	for i, seg := range d.segments {
		cum += seg.Sweep
		end := int(math.Round(cum / 100 * float64(width)))
		if end > width {
			end = width
		}
		cells := end - pos
		if cells < 1 {
			cells = 1
		}
		pos += cells

		block := "█"
		if i == d.selected {
			block = "▓"
		}
		color := lipgloss.NewStyle().Foreground(lipgloss.Color(stats.Palette[seg.ColorIndex]))
		b.WriteString(color.Render(strings.Repeat(block, cells)))
	}
	return "  " + b.String()
}

func (d dashboardModel) renderXPPanel(w int) string {
	title := titleStyle.Render("XP per month")

	var totalXP float64
	for _, p := range d.series {
		totalXP += p.Amount
	}
	first := d.series[0].Label
	last := d.series[len(d.series)-1].Label
	rangeLabel := mutedStyle.Render(fmt.Sprintf("%s — %s", first, last))
	totalLabel := highlightStyle.Render(formatAmount(totalXP) + " total")

	header := lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ", rangeLabel, "  ", totalLabel)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", d.chart.View()),
	)
}

package main

import (
	"fmt"

	"github.com/KryptoMuratLive/bit-insight-sub000/internal/types"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)
	bullishStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	bearishStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	neutralStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

func directionBadge(direction types.Direction) string {
	switch direction {
	case types.DirectionBullish:
		return bullishStyle.Render(string(direction))
	case types.DirectionBearish:
		return bearishStyle.Render(string(direction))
	default:
		return neutralStyle.Render(string(direction))
	}
}

func statusBadge(status types.GateStatus) string {
	if status == types.GateStatusGo {
		return bullishStyle.Render(string(status))
	}

	return bearishStyle.Render(string(status))
}

func passMark(c types.GateCriterion) string {
	switch {
	case !c.Evaluated:
		return faintStyle.Render("skip")
	case c.Passed:
		return bullishStyle.Render("pass")
	default:
		return bearishStyle.Render("fail")
	}
}

// formatPnL colors a signed amount.
func formatPnL(v float64) string {
	s := fmt.Sprintf("%+.2f", v)

	switch {
	case v > 0:
		return bullishStyle.Render(s)
	case v < 0:
		return bearishStyle.Render(s)
	default:
		return s
	}
}

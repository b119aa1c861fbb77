package tui

import "github.com/charmbracelet/lipgloss"

var (
	laneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	circleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("237"))
	nodeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	pieceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
	blockedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true)
	possibleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	movingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	centroidStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("201")).Bold(true)
	cursorStyle   = lipgloss.NewStyle().Reverse(true)

	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 1)
	messageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	winStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("42")).Bold(true).Padding(0, 1)
	helpStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
)

package tui

import "github.com/charmbracelet/lipgloss"

var (
	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))

	coveredStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))
	flagStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	wrongStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Strikethrough(true)
	mineStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	detonateStyle = lipgloss.NewStyle().Background(lipgloss.Color("160")).Foreground(lipgloss.Color("255")).Bold(true)
	markedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	cursorStyle   = lipgloss.NewStyle().Background(lipgloss.Color("212")).Foreground(lipgloss.Color("235"))

	numStyles = [8]lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("91")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("37")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}

	labelStyle = lipgloss.NewStyle().Background(lipgloss.Color("62")).Foreground(lipgloss.Color("255")).Bold(true).Padding(0, 1)
	valueStyle = lipgloss.NewStyle().Background(lipgloss.Color("235")).Foreground(lipgloss.Color("255")).Padding(0, 1)
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("248"))
	wonStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	lostStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

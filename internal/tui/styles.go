package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	accentColor        = lipgloss.Color("#ff8c00")
	emberColor         = lipgloss.Color("#2b1400")
	textColor          = lipgloss.Color("#fff4d0")
	secondaryTextColor = lipgloss.Color("#ffb347")

	titleStyle         = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sectionHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	errorStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	warningStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#1a1200")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	helperStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	skeletonStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	taglineStyle       = lipgloss.NewStyle().Foreground(secondaryTextColor).Italic(true)

	badgeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#bde0fe")).Padding(0, 1)
	similarityStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#a3be8c")).Padding(0, 1)
	cardStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(0, 1)
	cardActiveStyle = cardStyle.Copy().BorderForeground(accentColor)
	dialogBoxStyle  = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("#7f5af0")).Padding(1, 2)
	dialogTitle     = lipgloss.NewStyle().Bold(true).Foreground(accentColor)

	statusBarStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#8ecae6")).Padding(0, 1)
	keyStyle           = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#0f0f0f")).Background(lipgloss.Color("#ffd166")).Padding(0, 1)
	keyDisabledStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Background(lipgloss.Color("236")).Padding(0, 1)
	keyDescStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0def4"))
	legendBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#56526e")).Padding(1, 2)
	logoFaceStyle      = lipgloss.NewStyle().Bold(true).Foreground(textColor).Background(emberColor)
	logoShadowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#110600"))
	logoContainerStyle = lipgloss.NewStyle().Padding(0, 1)
	logoArtLines       = []string{
		"██████╗    █████╗   ██████╗   ███████╗  ██████╗   ███████╗   ██████╗   ██████╗   ██████╗   ███████╗  ",
		"██╔══██╗  ██╔══██╗  ██╔══██╗  ██╔════╝  ██╔══██╗  ██╔════╝  ██╔════╝  ██╔═══██╗  ██╔══██╗  ██╔════╝  ",
		"██████╔╝  ███████║  ██████╔╝  █████╗    ██████╔╝  ███████╗  ██║       ██║   ██║  ██████╔╝  █████╗    ",
		"██╔═══╝   ██╔══██║  ██╔═══╝   ██╔══╝    ██╔══██╗  ╚════██║  ██║       ██║   ██║  ██╔═══╝   ██╔══╝    ",
		"██║       ██║  ██║  ██║       ███████╗  ██║  ██║  ███████║  ╚██████╗  ╚██████╔╝  ██║       ███████╗  ",
		"╚═╝       ╚═╝  ╚═╝  ╚═╝       ╚══════╝  ╚═╝  ╚═╝  ╚══════╝   ╚═════╝   ╚═════╝   ╚═╝       ╚══════╝  ",
	}
)

// renderLogo draws the block-letter logo with a one cell drop shadow.
func renderLogo() string {
	width := 0
	lineRunes := make([][]rune, len(logoArtLines))
	for i, line := range logoArtLines {
		lineRunes[i] = []rune(line)
		if len(lineRunes[i]) > width {
			width = len(lineRunes[i])
		}
	}
	width++
	height := len(logoArtLines) + 1

	type cell struct {
		r     rune
		style lipgloss.Style
	}
	grid := make([][]cell, height)
	for i := range grid {
		grid[i] = make([]cell, width)
	}
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' {
				grid[y+1][x+1] = cell{r: r, style: logoShadowStyle}
			}
		}
	}
	for y, runes := range lineRunes {
		for x, r := range runes {
			if r != ' ' {
				grid[y][x] = cell{r: r, style: logoFaceStyle}
			}
		}
	}

	lines := make([]string, height)
	for y, row := range grid {
		var b strings.Builder
		for _, c := range row {
			if c.r == 0 {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(c.style.Render(string(c.r)))
		}
		lines[y] = b.String()
	}
	return logoContainerStyle.Render(strings.Join(lines, "\n"))
}

func logoWidth() int {
	width := 0
	for _, line := range logoArtLines {
		if n := len([]rune(line)); n > width {
			width = n
		}
	}
	return width + 3
}

package client

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const clearScreen = "\033[2J\033[H"

var (
	liveStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Border(lipgloss.DoubleBorder()).
		Padding(0, 4)

	startStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))
)

func liveBanner() string {
	return liveStyle.Render("Linux Kernel Monitor - Live View")
}

func startBanner(intervalSeconds int) string {
	return startStyle.Render(fmt.Sprintf(
		"Starting watch mode (updating every %d seconds)...\nPress Ctrl+C to exit",
		intervalSeconds,
	))
}

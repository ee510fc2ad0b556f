package tui

import (
	"fmt"
	"strings"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	// Title
	b.WriteString(TitleStyle.Render("📣 MarketFlow Activation Demo"))
	b.WriteString("\n\n")

	// Current state
	b.WriteString(m.getStateText())
	b.WriteString("\n\n")

	// Platform info
	if m.PlatformInfo != nil {
		info := fmt.Sprintf("🔌 Platform: %s (%s setup)",
			m.PlatformInfo.PlatformDetails.Name, m.PlatformInfo.PlatformDetails.SetupComplexity)
		b.WriteString(InfoStyle.Render(info))
		b.WriteString("\n\n")
	}

	// Logs
	if len(m.Logs) > 0 {
		b.WriteString(InfoStyle.Render("📝 Recent Activity:"))
		b.WriteString("\n")
		for _, logMsg := range m.Logs {
			b.WriteString(InfoStyle.Render("   " + logMsg))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Results
	if m.State == StateComplete && m.Result != nil {
		b.WriteString(BoxStyle.Render(m.formatResult()))
		b.WriteString("\n\n")
	}

	// Help text
	b.WriteString(InfoStyle.Render("Press 'a' to activate | 'e' to toggle enrichment | 'l' for latest log | 'q' to quit"))

	return b.String()
}

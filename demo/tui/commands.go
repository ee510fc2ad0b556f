package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// runActivation creates a command that triggers one activation
func runActivation(client *ActivationClient, entryID, listID string, enrichment bool) tea.Cmd {
	return func() tea.Msg {
		result, err := client.Activate(entryID, listID, enrichment)
		return ActivationCompleteMsg{Result: result, Err: err}
	}
}

// fetchLatestLog creates a command that reads the latest audit record
func fetchLatestLog(client *ActivationClient, entryID string) tea.Cmd {
	return func() tea.Msg {
		record, err := client.LatestLog(entryID)
		return LogFetchedMsg{Record: record, Err: err}
	}
}

// fetchPlatformInfo creates a command that reads platform configuration
func fetchPlatformInfo(client *ActivationClient) tea.Cmd {
	return func() tea.Msg {
		info, err := client.PlatformInfo()
		return PlatformInfoMsg{Info: info, Err: err}
	}
}

package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case ActivationCompleteMsg:
		return m.handleActivationComplete(msg)
	case LogFetchedMsg:
		return m.handleLogFetched(msg)
	case PlatformInfoMsg:
		return m.handlePlatformInfo(msg)
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "a", "A":
		if m.State != StateActivating {
			m.State = StateActivating
			m.Result = nil
			m.Err = nil
			m = m.AddLog(fmt.Sprintf("Activating %s into %s...", m.EntryID, m.ListID))
			return m, runActivation(m.Client, m.EntryID, m.ListID, m.Enrichment)
		}
	case "e", "E":
		if m.State != StateActivating {
			m.Enrichment = !m.Enrichment
			m = m.AddLog(fmt.Sprintf("AI enrichment: %v", m.Enrichment))
		}
	case "l", "L":
		if m.State != StateActivating {
			m = m.AddLog("Fetching latest activation log...")
			return m, fetchLatestLog(m.Client, m.EntryID)
		}
	}
	return m, nil
}

// handleActivationComplete processes an activation outcome
func (m Model) handleActivationComplete(msg ActivationCompleteMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = msg.Err
		return m, nil
	}
	m.Result = msg.Result
	m.State = StateComplete
	m = m.AddLog(fmt.Sprintf("Activation %s finished: %s", msg.Result.ActivationID, msg.Result.Status))
	return m, nil
}

// handleLogFetched processes the latest audit record
func (m Model) handleLogFetched(msg LogFetchedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = msg.Err
		return m, nil
	}
	if msg.Record == nil {
		m = m.AddLog(fmt.Sprintf("No activation log yet for %s", m.EntryID))
		return m, nil
	}
	m.Result = msg.Record
	m.State = StateComplete
	m = m.AddLog(fmt.Sprintf("Loaded audit record %s", msg.Record.ActivationID))
	return m, nil
}

// handlePlatformInfo processes platform configuration
func (m Model) handlePlatformInfo(msg PlatformInfoMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m = m.AddLog(fmt.Sprintf("Could not reach activation service: %v", msg.Err))
		return m, nil
	}
	m.PlatformInfo = msg.Info
	m = m.AddLog(fmt.Sprintf("Connected. Platform: %s", msg.Info.PlatformDetails.Name))
	return m, nil
}

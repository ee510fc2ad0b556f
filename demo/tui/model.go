package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"marketflow/marketing"
	"marketflow/types"
)

// State represents the application state machine
type State string

const (
	StateIdle       State = "idle"
	StateActivating State = "activating"
	StateComplete   State = "complete"
	StateError      State = "error"
)

// Model represents the TUI client state (thin client)
type Model struct {
	Client *ActivationClient

	EntryID    string
	ListID     string
	Enrichment bool

	State        State
	Result       *types.ActivationResult
	PlatformInfo *marketing.PlatformInfo
	Logs         []string
	Err          error
}

// NewModel creates a new TUI model
func NewModel(baseURL, entryID, listID string) Model {
	return Model{
		Client:     NewActivationClient(baseURL),
		EntryID:    entryID,
		ListID:     listID,
		Enrichment: true,
		State:      StateIdle,
		Logs:       make([]string, 0),
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return fetchPlatformInfo(m.Client)
}

// AddLog appends a log line, keeping the most recent five
func (m Model) AddLog(message string) Model {
	m.Logs = append(m.Logs, message)
	if len(m.Logs) > 5 {
		m.Logs = m.Logs[len(m.Logs)-5:]
	}
	return m
}

// getStateText returns the appropriate state message
func (m Model) getStateText() string {
	switch m.State {
	case StateIdle:
		return HighlightStyle.Render("👋 Ready to activate!") + "\n\n" +
			InfoStyle.Render(fmt.Sprintf("Entry: %s | List: %s | Enrichment: %v", m.EntryID, m.ListID, m.Enrichment))
	case StateActivating:
		return StatusStyle.Render(fmt.Sprintf("⏳ Activating entry %s...", m.EntryID))
	case StateComplete:
		if m.Result != nil && m.Result.Status != types.StatusSuccess {
			return WarningStyle.Render("⚠️  Activation finished with errors")
		}
		return HighlightStyle.Render("✅ COMPLETE")
	case StateError:
		errMsg := "Unknown error"
		if m.Err != nil {
			errMsg = m.Err.Error()
		}
		return ErrorStyle.Render(fmt.Sprintf("❌ Error: %v", errMsg))
	default:
		return ""
	}
}

// formatResult formats the activation result for display
func (m Model) formatResult() string {
	result := m.Result
	var b strings.Builder

	b.WriteString(HighlightStyle.Render("Activation Result"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Status: %s\n", StatusStyle.Render(result.Status)))
	b.WriteString(fmt.Sprintf("Activation: %s\n", result.ActivationID))
	b.WriteString(fmt.Sprintf("Processed in: %.2fs\n\n", result.ProcessingTime))

	for _, msg := range result.Errors {
		b.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %s\n", msg)))
	}
	if len(result.Errors) > 0 {
		b.WriteString("\n")
	}

	if e := result.EnrichmentData; e != nil {
		b.WriteString(fmt.Sprintf("SEO Score: %d", e.SEOScore))
		if e.ReadabilityScore > 0 {
			b.WriteString(fmt.Sprintf(" | Readability: %d", e.ReadabilityScore))
		}
		b.WriteString("\n")
		if e.SuggestedMetaDescription != "" {
			b.WriteString(fmt.Sprintf("Meta: %s\n", InfoStyle.Render(e.SuggestedMetaDescription)))
		}
		if len(e.Keywords) > 0 {
			b.WriteString(fmt.Sprintf("Keywords: %s\n", strings.Join(e.Keywords, ", ")))
		}
		if e.GeneratedAltText != "" {
			b.WriteString(fmt.Sprintf("Alt text: %s\n", InfoStyle.Render(e.GeneratedAltText)))
		}
		if bv := e.BrandVoice; bv != nil {
			b.WriteString(fmt.Sprintf("Brand voice: %s (professional %s, confident %s, action %s)\n",
				bv.Overall, bv.Professionalism, bv.Confidence, bv.ActionOrientation))
		}
		b.WriteString("\n")
	}

	if result.MarketoResponse != nil {
		if ok, _ := result.MarketoResponse["success"].(bool); ok {
			b.WriteString(StatusStyle.Render("Lead dispatched to marketing platform\n"))
		}
		if name, _ := result.MarketoResponse["list_name"].(string); name != "" {
			b.WriteString(fmt.Sprintf("List: %s\n", name))
		}
	}

	return b.String()
}

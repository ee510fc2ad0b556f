package tui

import (
	"marketflow/marketing"
	"marketflow/types"
)

// Messages for the tea program

// ActivationCompleteMsg is sent when an activation run finishes
type ActivationCompleteMsg struct {
	Result *types.ActivationResult
	Err    error
}

// LogFetchedMsg is sent when the latest audit record arrives
type LogFetchedMsg struct {
	Record *types.ActivationResult
	Err    error
}

// PlatformInfoMsg is sent when platform configuration arrives
type PlatformInfoMsg struct {
	Info *marketing.PlatformInfo
	Err  error
}

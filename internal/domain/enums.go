package domain

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
	SessionCancelled SessionStatus = "cancelled"
)

type WhitelistKind string

const (
	WhitelistApp     WhitelistKind = "app"
	WhitelistContact WhitelistKind = "contact"
)

// ValidWhitelistKinds is the canonical set of accepted whitelist kind strings.
var ValidWhitelistKinds = map[string]bool{
	"app": true, "contact": true,
}

// EndReason records why a session left the Active state.
type EndReason string

const (
	EndManual  EndReason = "manual"
	EndExpired EndReason = "expired"
	EndStale   EndReason = "stale"
)

// SettingFocusModeName is the settings key holding the host focus mode name.
const SettingFocusModeName = "focus_mode_name"

// DefaultFocusModeName is used when neither settings nor config name a mode.
const DefaultFocusModeName = "Work"

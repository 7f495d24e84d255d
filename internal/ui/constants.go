package ui

import "time"

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconPlay     = "▶"
	IconPause    = "⏸"
	IconFolder   = "📁"
	IconError    = "❌"
	IconWait     = "⏳"
	IconStop     = "⏹"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
	DashPlaceholder    = "—"
)

// Layout sizing (TaskRow / lists)
const (
	StatusLabelWidth  float32 = 180
	MetricsLabelWidth float32 = 220
	PercentLabelWidth float32 = 56

	RowMinWidth  float32 = 480
	RowMinHeight float32 = 72
)

// Window defaults
const (
	WindowWidth  float32 = 900
	WindowHeight float32 = 600
)

// Notification behavior
const (
	NotificationAutoHide = 5 * time.Second
)

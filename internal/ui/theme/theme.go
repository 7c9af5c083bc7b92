package theme

import (
	"charm.land/lipgloss/v2"
)

// Color palette, EMS red and clinical teal on a dark surface
var (
	Primary   = lipgloss.Color("#E11D48") // EMS Red
	Secondary = lipgloss.Color("#0D9488") // Clinical Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	BgDark    = lipgloss.Color("#0F172A") // Deep Navy
	BgCard    = lipgloss.Color("#1E293B") // Dark Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Package theme provides the Lip Gloss color palette and reusable styles
// for the ZenScreen TUI. It is a leaf package with no internal imports
// to avoid import cycles.
package theme

import "github.com/charmbracelet/lipgloss"

// Brand colors.
var (
	ColorAccent    = lipgloss.Color("#22d3ee")
	ColorMinutes   = lipgloss.Color("#fbbf24")
	ColorXP        = lipgloss.Color("#a855f7")
	ColorClan      = lipgloss.Color("#38bdf8")
	ColorGenerated = lipgloss.Color("#f472b6")
	ColorDefault   = lipgloss.Color("#9ca3af")
)

// Avatar evolution stage colors.
var (
	ColorStage1 = lipgloss.Color("#9ca3af")
	ColorStage2 = lipgloss.Color("#22c55e")
	ColorStage3 = lipgloss.Color("#06b6d4")
	ColorStage4 = lipgloss.Color("#a855f7")
	ColorStage5 = lipgloss.Color("#f59e0b")
)

// App and unlock state colors.
var (
	ColorBlocked  = lipgloss.Color("#dc2626")
	ColorUnlocked = lipgloss.Color("#22c55e")
	ColorCounting = lipgloss.Color("#d97706")
)

// Time bank thresholds.
var (
	ColorBankHealthy = lipgloss.Color("#22c55e") // >60 min
	ColorBankMid     = lipgloss.Color("#d97706") // 15-60 min
	ColorBankLow     = lipgloss.Color("#dc2626") // <15 min
)

// Quest status colors.
var (
	ColorQuestActive    = lipgloss.Color("#3b82f6")
	ColorQuestCompleted = lipgloss.Color("#16a34a")
)

// UI chrome colors.
var (
	ColorBorder  = lipgloss.Color("#4b5563")
	ColorDimmed  = lipgloss.Color("#6b7280")
	ColorBright  = lipgloss.Color("#f9fafb")
	ColorBg      = lipgloss.Color("#111827")
	ColorHealthy = lipgloss.Color("#22c55e")
	ColorWarning = lipgloss.Color("#d97706")
	ColorDanger  = lipgloss.Color("#dc2626")
)

// StageColor returns the color for an avatar evolution stage (1-5).
func StageColor(stage int) lipgloss.Color {
	switch stage {
	case 2:
		return ColorStage2
	case 3:
		return ColorStage3
	case 4:
		return ColorStage4
	case 5:
		return ColorStage5
	default:
		return ColorStage1
	}
}

// BankColor returns the color for a time bank balance in minutes.
func BankColor(minutes int) lipgloss.Color {
	switch {
	case minutes < 15:
		return ColorBankLow
	case minutes <= 60:
		return ColorBankMid
	default:
		return ColorBankHealthy
	}
}

// QuestColor returns the color for a quest status string.
func QuestColor(status string) lipgloss.Color {
	switch status {
	case "completed":
		return ColorQuestCompleted
	case "active":
		return ColorQuestActive
	default:
		return ColorDefault
	}
}

// RoleBadge returns a colored badge string for a clan member role.
func RoleBadge(role string) string {
	switch role {
	case "owner":
		return lipgloss.NewStyle().Foreground(ColorStage5).Render("[O]")
	case "admin":
		return lipgloss.NewStyle().Foreground(ColorClan).Render("[A]")
	default:
		return lipgloss.NewStyle().Foreground(ColorDimmed).Render("[M]")
	}
}

// Reusable styles.
var (
	StyleBorder = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder)

	StyleHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorBright)

	StyleDimmed = lipgloss.NewStyle().
		Foreground(ColorDimmed)

	StyleSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorBright)

	StyleToast = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorBg).
		Background(ColorAccent).
		Padding(0, 1)

	StyleMinutes = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorMinutes)
)

// StageGlyph returns a glyph representing an avatar evolution stage.
func StageGlyph(stage int) string {
	switch stage {
	case 2:
		return "◈"
	case 3:
		return "◆"
	case 4:
		return "✦"
	case 5:
		return "✹"
	default:
		return "◇"
	}
}

// AppGlyph returns a glyph for an app's lock state.
func AppGlyph(blocked, active bool) string {
	switch {
	case active:
		return "▶"
	case blocked:
		return "🔒"
	default:
		return "○"
	}
}

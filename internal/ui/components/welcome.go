// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/riley-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN MODEL
// =============================================================================

// Welcome is the welcome screen shown before the first message.
type Welcome struct {
	version string
	tenant  string
	user    string
	mode    string

	width  int
	height int

	theme *styles.Theme
}

// NewWelcome creates a new welcome screen.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{
		version: "dev",
		tenant:  "global",
		user:    "anonymous",
		mode:    "fast",
		theme:   theme,
	}
}

// SetVersion sets the version string.
func (w *Welcome) SetVersion(version string) {
	w.version = version
}

// SetTenant sets the tenant name.
func (w *Welcome) SetTenant(tenant string) {
	w.tenant = tenant
}

// SetUser sets the user name.
func (w *Welcome) SetUser(user string) {
	w.user = user
}

// SetMode sets the assistant mode.
func (w *Welcome) SetMode(mode string) {
	w.mode = mode
}

// SetSize updates the dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the welcome screen.
func (w Welcome) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (w Welcome) Update(msg tea.Msg) (Welcome, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
	}
	return w, nil
}

// View renders the welcome screen centered in the terminal.
func (w Welcome) View() string {
	width := w.width
	if width == 0 {
		width = 80
	}
	height := w.height
	if height == 0 {
		height = 24
	}

	boxWidth := 58
	if width < 66 {
		boxWidth = width - 8
	}
	if boxWidth < 36 {
		boxWidth = 36
	}

	horizontalPadding := 4
	if width < 66 {
		horizontalPadding = 2
	}

	var content string
	if height >= 18 {
		content = w.renderLogo()
		content += "\n\n" + w.renderVersion()
		content += "\n\n" + w.renderSessionInfo()
		content += "\n\n" + w.renderPressKey()
	} else {
		content = w.renderLogoCompact()
		content += "\n" + w.renderVersion()
		content += "\n" + w.renderSessionInfo()
		content += "\n" + w.renderPressKey()
	}

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(styles.Purple).
		Padding(1, horizontalPadding).
		Width(boxWidth).
		Align(lipgloss.Center).
		Render(content)

	return lipgloss.Place(
		width, height,
		lipgloss.Center, lipgloss.Center,
		box,
	)
}

// =============================================================================
// RENDER HELPERS
// =============================================================================

// renderLogo renders the ASCII art logo.
func (w Welcome) renderLogo() string {
	logoStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)

	if w.width >= 56 {
		logo := `       _ _
  _ __(_) | ___ _   _
 | '__| | |/ _ \ | | |
 | |  | | |  __/ |_| |
 |_|  |_|_|\___|\__, |
                |___/ `
		return logoStyle.Render(logo)
	}

	return w.renderLogoCompact()
}

// renderLogoCompact renders a compact text logo.
func (w Welcome) renderLogoCompact() string {
	logoStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)

	if w.width >= 40 {
		return logoStyle.Render(`+--------------------+
|       riley        |
+--------------------+`)
	}

	return logoStyle.Render("riley - campaign assistant")
}

// renderVersion renders the version subtitle.
func (w Welcome) renderVersion() string {
	return lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true).
		Render("Campaign assistant v" + w.version)
}

// renderSessionInfo renders tenant, user, and mode info.
func (w Welcome) renderSessionInfo() string {
	labelStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Width(9)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)

	lines := []string{
		labelStyle.Render("Tenant: ") + valueStyle.Render(w.tenant),
		labelStyle.Render("User:   ") + valueStyle.Render(w.user),
		labelStyle.Render("Mode:   ") + w.renderModeIndicator(),
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderModeIndicator renders the mode with its signature color.
func (w Welcome) renderModeIndicator() string {
	var modeStyle lipgloss.Style

	switch w.mode {
	case "fast":
		modeStyle = lipgloss.NewStyle().Foreground(styles.Emerald).Bold(true)
	case "deep":
		modeStyle = lipgloss.NewStyle().Foreground(styles.Amber).Bold(true)
	default:
		modeStyle = lipgloss.NewStyle().Foreground(styles.TextSecondary)
	}

	return modeStyle.Render(w.mode)
}

// renderPressKey renders the "press any key" prompt.
func (w Welcome) renderPressKey() string {
	return lipgloss.NewStyle().
		Foreground(styles.Purple).
		Render("Press any key to start chatting...")
}

// =============================================================================
// KEYBOARD SHORTCUT HELP
// =============================================================================

// KeyboardShortcuts returns a formatted list of keyboard shortcuts.
func KeyboardShortcuts() string {
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary)

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send message"},
		{"Ctrl+C", "Quit"},
		{"Ctrl+L", "Clear session"},
		{"Ctrl+S", "Skip text reveal"},
		{"Up/Down", "Scroll transcript"},
		{"PgUp/PgDn", "Page scroll"},
		{"Esc", "Dismiss overlay"},
	}

	lines := make([]string, len(shortcuts))
	for i, s := range shortcuts {
		lines[i] = keyStyle.Render(s.key) + descStyle.Render(s.desc)
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Bold(true)

	return titleStyle.Render("Keyboard Shortcuts") + "\n" +
		lipgloss.JoinVertical(lipgloss.Left, lines...)
}

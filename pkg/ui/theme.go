package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/vanderheijden86/mdoutline/pkg/outline"
)

// Theme groups the colors the viewer renders with.
type Theme struct {
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor

	Active    lipgloss.AdaptiveColor
	Ancestor  lipgloss.AdaptiveColor
	Indicator lipgloss.AdaptiveColor
}

// DefaultTheme returns the standard mdo theme. Ancestor and indicator shades
// are derived from the active color so custom primaries stay coherent.
func DefaultTheme() Theme {
	active := lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#A78BFA"}
	return Theme{
		Primary:   lipgloss.AdaptiveColor{Light: "#1A1A2E", Dark: "#ECECF4"},
		Secondary: lipgloss.AdaptiveColor{Light: "#5A5A72", Dark: "#9A9AB2"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#8A8AA0", Dark: "#6A6A80"},
		Border:    lipgloss.AdaptiveColor{Light: "#D0D0E0", Dark: "#3A3A50"},
		Active:    active,
		Ancestor:  dimColor(active, 0.35),
		Indicator: dimColor(active, 0.70),
	}
}

// OutlineStyles derives the panel styles from the theme.
func (t Theme) OutlineStyles() outline.Styles {
	return outline.Styles{
		Active:    lipgloss.NewStyle().Bold(true).Foreground(t.Active),
		Ancestor:  lipgloss.NewStyle().Foreground(t.Ancestor),
		Indicator: lipgloss.NewStyle().Foreground(t.Indicator),
		Panel:     lipgloss.NewStyle(),
	}
}

// dimColor blends both variants of an adaptive color toward their mode's
// background: light themes blend toward white, dark themes toward black.
func dimColor(c lipgloss.AdaptiveColor, amount float64) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{
		Light: blendHex(c.Light, "#FFFFFF", amount),
		Dark:  blendHex(c.Dark, "#000000", amount),
	}
}

func blendHex(hex, toward string, amount float64) string {
	a, err := colorful.Hex(hex)
	if err != nil {
		return hex
	}
	b, err := colorful.Hex(toward)
	if err != nil {
		return hex
	}
	return a.BlendLab(b, amount).Clamped().Hex()
}

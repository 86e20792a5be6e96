package main

import "github.com/charmbracelet/lipgloss"

type styles struct {
	app      lipgloss.Style
	viewport lipgloss.Style
	footer   lipgloss.Style
	inactive lipgloss.Style
	error    lipgloss.Style
	success  lipgloss.Style
	warn     lipgloss.Style
	prompt   lipgloss.Style
	command  lipgloss.Style
	ascii    lipgloss.Style
}

type ThemeName string

const (
	ThemeCyan    ThemeName = "cyan"
	ThemeMatrix  ThemeName = "matrix"
	ThemeAmber   ThemeName = "amber"
	ThemeDracula ThemeName = "dracula"
)

type themePalette struct {
	primary   lipgloss.Color
	secondary lipgloss.Color
	success   lipgloss.Color
	warning   lipgloss.Color
	errorC    lipgloss.Color
	inactive  lipgloss.Color
}

var palettes = map[ThemeName]themePalette{
	ThemeCyan: {
		primary:   lipgloss.Color("51"),
		secondary: lipgloss.Color("33"),
		success:   lipgloss.Color("46"),
		warning:   lipgloss.Color("226"),
		errorC:    lipgloss.Color("196"),
		inactive:  lipgloss.Color("240"),
	},
	ThemeMatrix: {
		primary:   lipgloss.Color("82"),
		secondary: lipgloss.Color("46"),
		success:   lipgloss.Color("82"),
		warning:   lipgloss.Color("190"),
		errorC:    lipgloss.Color("196"),
		inactive:  lipgloss.Color("240"),
	},
	ThemeAmber: {
		primary:   lipgloss.Color("220"),
		secondary: lipgloss.Color("214"),
		success:   lipgloss.Color("220"),
		warning:   lipgloss.Color("208"),
		errorC:    lipgloss.Color("196"),
		inactive:  lipgloss.Color("240"),
	},
	ThemeDracula: {
		primary:   lipgloss.Color("141"),
		secondary: lipgloss.Color("117"),
		success:   lipgloss.Color("84"),
		warning:   lipgloss.Color("212"),
		errorC:    lipgloss.Color("203"),
		inactive:  lipgloss.Color("240"),
	},
}

func GetTheme(theme ThemeName) styles {
	if palette, ok := palettes[theme]; ok {
		return newStylesFromPalette(palette)
	}
	return newStylesFromPalette(palettes[ThemeCyan])
}

func ListThemes() []ThemeName {
	return []ThemeName{ThemeCyan, ThemeMatrix, ThemeAmber, ThemeDracula}
}

func newStylesFromPalette(p themePalette) styles {
	return styles{
		app:      lipgloss.NewStyle().Margin(0, 1),
		viewport: lipgloss.NewStyle().PaddingLeft(1),
		footer: lipgloss.NewStyle().
			MarginTop(1).
			BorderTop(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(p.primary).
			PaddingTop(1),
		inactive: lipgloss.NewStyle().Foreground(p.inactive),
		error:    lipgloss.NewStyle().Foreground(p.errorC).Bold(true),
		success:  lipgloss.NewStyle().Foreground(p.success).Bold(true),
		warn:     lipgloss.NewStyle().Foreground(p.warning).Bold(true),
		prompt:   lipgloss.NewStyle().Foreground(p.warning).Bold(true),
		command:  lipgloss.NewStyle().Foreground(p.secondary).Italic(true),
		ascii:    lipgloss.NewStyle().Foreground(p.primary).Bold(true),
	}
}

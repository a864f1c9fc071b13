package tui

import (
	"github.com/charmbracelet/lipgloss"

	"todo-remote/model"
)

type styles struct {
	title     lipgloss.Style
	muted     lipgloss.Style
	text      lipgloss.Style
	selected  lipgloss.Style
	done      lipgloss.Style
	section   lipgloss.Style
	status    lipgloss.Style
	statusErr lipgloss.Style
	hint      lipgloss.Style
	prompt    lipgloss.Style
	divider   lipgloss.Style
	frame     lipgloss.Color
	frameIdle lipgloss.Color
	marker    lipgloss.Style
}

func stylesFor(theme model.Theme) styles {
	if theme == model.ThemeDark {
		return styles{
			title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255")),
			muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			text:      lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
			selected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
			done:      lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("246")),
			section:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("111")),
			status:    lipgloss.NewStyle().Foreground(lipgloss.Color("70")),
			statusErr: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
			hint:      lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			prompt:    lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
			divider:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
			frame:     lipgloss.Color("39"),
			frameIdle: lipgloss.Color("240"),
			marker:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10")),
		}
	}
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("235")),
		muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		text:      lipgloss.NewStyle().Foreground(lipgloss.Color("236")),
		selected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("25")),
		done:      lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("245")),
		section:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("61")),
		status:    lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		statusErr: lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		hint:      lipgloss.NewStyle().Foreground(lipgloss.Color("242")),
		prompt:    lipgloss.NewStyle().Foreground(lipgloss.Color("130")),
		divider:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		frame:     lipgloss.Color("33"),
		frameIdle: lipgloss.Color("250"),
		marker:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("28")),
	}
}

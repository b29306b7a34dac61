package ui

import (
	"github.com/charmbracelet/lipgloss"

	"subextract/internal/model"
	"subextract/internal/progress"
)

// Styles is the TUI palette, with one color per stage and per outcome.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	FileName lipgloss.Style
	Info     lipgloss.Style
	Warning  lipgloss.Style
	Faint    lipgloss.Style
	Box      lipgloss.Style
	Spinner  lipgloss.Style

	Stage   map[progress.Stage]lipgloss.Style
	Outcome map[model.Outcome]lipgloss.Style
}

func defaultStyles() Styles {
	base := lipgloss.NewStyle()
	green := base.Foreground(lipgloss.Color("#22C55E"))
	red := base.Foreground(lipgloss.Color("#EF4444"))
	return Styles{
		Title:    base.Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Subtitle: base.Faint(true),
		FileName: base.Foreground(lipgloss.Color("#A3A3A3")),
		Info:     base.Foreground(lipgloss.Color("#D1D5DB")),
		Warning:  base.Foreground(lipgloss.Color("#F59E0B")),
		Faint:    base.Faint(true),
		Box:      base.Padding(0, 1),
		Spinner:  base.Foreground(lipgloss.Color("#22D3EE")),
		Stage: map[progress.Stage]lipgloss.Style{
			progress.StageScanning:   base.Foreground(lipgloss.Color("#60A5FA")),
			progress.StageProbing:    base.Foreground(lipgloss.Color("#60A5FA")),
			progress.StageExtracting: base.Foreground(lipgloss.Color("#06B6D4")),
			progress.StageOCR:        base.Foreground(lipgloss.Color("#D946EF")),
			progress.StageCompleted:  green,
			progress.StageCanceled:   red,
			progress.StageError:      red,
		},
		Outcome: map[model.Outcome]lipgloss.Style{
			model.OutcomeSucceeded:       green,
			model.OutcomeSkippedExisting: base.Foreground(lipgloss.Color("#94A3B8")),
			model.OutcomeNoSubtitles:     base.Foreground(lipgloss.Color("#FBBF24")),
			model.OutcomeTimedOut:        base.Foreground(lipgloss.Color("#F97316")),
			model.OutcomeErrored:         red,
		},
	}
}

// stage returns the style for s, falling back to Info.
func (st Styles) stage(s progress.Stage) lipgloss.Style {
	if style, ok := st.Stage[s]; ok {
		return style
	}
	return st.Info
}

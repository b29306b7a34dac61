package ui

import (
	"fmt"
	"strings"

	"subextract/internal/model"
)

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")
	b.WriteString(m.viewProgress())
	b.WriteString("\n")
	b.WriteString(m.viewCounts())
	if len(m.logs) > 0 {
		b.WriteString("\n\n")
		b.WriteString(m.viewLogs())
	}
	if m.slow && !m.done {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Warning.Render("This is taking a while. Large files and OCR can run for a long time; the run is still going."))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) viewHeader() string {
	title := m.styles.Title.Render("subextract")
	hint := "q: cancel"
	if m.canceling {
		hint = "cancelling..."
	}
	sub := m.styles.Subtitle.Render(fmt.Sprintf("%d file(s) • %s", m.total, hint))
	return title + "\n" + sub
}

func (m Model) viewProgress() string {
	line1 := m.styles.stage(m.stage).Render(string(m.stage))
	if m.file != "" {
		line1 += "  " + m.styles.FileName.Render(truncate(m.file, 60))
	}
	bar := fmt.Sprintf("%s %5.1f%%", m.bar.ViewAs(m.percent/100.0), m.percent)
	if !m.done {
		bar = m.styles.Spinner.Render(m.spinner.View()) + " " + bar
	}
	status := m.styles.Info.Render(truncate(m.status, maxLineRune))
	return m.styles.Box.Render(line1 + "\n" + bar + "\n" + status)
}

func (m Model) viewCounts() string {
	var parts []string
	for _, o := range model.Outcomes {
		n := m.counts[o]
		s := fmt.Sprintf("%s: %d", o, n)
		if n == 0 {
			s = m.styles.Faint.Render(s)
		} else {
			s = m.styles.Outcome[o].Render(s)
		}
		parts = append(parts, s)
	}
	return m.styles.Box.Render(strings.Join(parts, " • "))
}

func (m Model) viewLogs() string {
	var b strings.Builder
	for i, l := range m.logs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.styles.Faint.Render(l))
	}
	return m.styles.Box.Render(b.String())
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}

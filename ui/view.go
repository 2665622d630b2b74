package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/resolveconv/convert"
	"github.com/lepinkainen/resolveconv/video"
)

const (
	minListRows   = 5
	nameMinWidth  = 20
	conflictLimit = 10
)

// View implements tea.Model
func (m ConverterModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := "🎬 Resolve Converter"
	if m.opts.Version != "" {
		title += " " + m.opts.Version
	}
	b.WriteString(HeaderStyle.Render(title))
	b.WriteString("\n")

	if m.picking {
		target := "input"
		if m.pickerTarget == focusOutput {
			target = "output"
		}
		b.WriteString(InfoStyle.Render(fmt.Sprintf("Select %s directory", target)))
		b.WriteString("\n")
		b.WriteString(m.picker.View())
		b.WriteString("\n")
		b.WriteString(MutedStyle.Render("enter: choose • esc: cancel"))
		return b.String()
	}

	b.WriteString(m.renderField("Input", m.inputField.View(), m.focus == focusInput))
	b.WriteString("\n")
	b.WriteString(m.renderField("Output", m.outputField.View(), m.focus == focusOutput))
	b.WriteString("\n")

	p := m.state.Profile()
	b.WriteString(fmt.Sprintf("%s %s  %s\n", LabelStyle.Render("Format"), p.Name, MutedStyle.Render(p.Description)))

	if missing := m.missingTools(); len(missing) > 0 {
		b.WriteString(ErrorStyle.Render("Missing tools: " + strings.Join(missing, ", ")))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(m.conflicts) > 0 {
		b.WriteString(m.renderConflictDialog())
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderFileTable())
		b.WriteString("\n")
	}

	b.WriteString(MutedStyle.Render(m.state.Summary()))
	if m.scanning {
		b.WriteString("  " + ProcessingStyle.Render("Scanning..."))
	}
	b.WriteString("\n")

	if m.running || m.total > 0 {
		b.WriteString(m.progress.ViewAs(m.progressRatio()))
		b.WriteString(" " + m.progressLabel())
		if m.stopping {
			b.WriteString("  " + ProcessingStyle.Render("stopping after current file"))
		}
		b.WriteString("\n")
	}

	b.WriteString(BlurredBorderStyle.Render(m.logView.View()))
	b.WriteString("\n")

	if m.status != "" {
		style := InfoStyle
		if m.statusIsErr {
			style = ErrorStyle
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	h := m.help
	h.ShowAll = m.showHelp
	b.WriteString(h.View(m.keys))

	return b.String()
}

func (m ConverterModel) renderField(label, value string, focused bool) string {
	style := BlurredBorderStyle
	if focused {
		style = FocusedBorderStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, LabelStyle.Render(label), style.Render(value))
}

func (m ConverterModel) missingTools() []string {
	var missing []string
	for _, t := range m.opts.Tools {
		if !t.Found() {
			missing = append(missing, t.Name)
		}
	}
	return missing
}

// listRows is how many files fit on screen
func (m ConverterModel) listRows() int {
	if m.height == 0 {
		return 15
	}
	return max(m.height-m.logView.Height-18, minListRows)
}

func (m ConverterModel) renderFileTable() string {
	files := m.state.Files()
	if len(files) == 0 {
		if m.state.InputDir() == "" {
			return MutedStyle.Render("No videos. Choose an input directory and press s to scan.")
		}
		return MutedStyle.Render("No videos. Press s to scan the input directory.")
	}

	nameWidth := max(m.width-40, nameMinWidth)
	rows := m.listRows()
	start := 0
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	end := min(start+rows, len(files))

	var b strings.Builder
	b.WriteString(MutedStyle.Render(fmt.Sprintf("      %-*s %10s %8s  %s", nameWidth, "Name", "Size", "Duration", "Status")))
	b.WriteString("\n")

	for i := start; i < end; i++ {
		b.WriteString(m.renderFileRow(i, files[i], nameWidth))
		b.WriteString("\n")
	}
	if end < len(files) {
		b.WriteString(MutedStyle.Render(fmt.Sprintf("  ... %d more", len(files)-end)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m ConverterModel) renderFileRow(i int, f video.VideoFile, nameWidth int) string {
	cursor := " "
	if i == m.cursor && m.focus == focusFiles {
		cursor = ">"
	}
	check := "[ ]"
	if f.Selected {
		check = "[x]"
	}

	status := f.Status.String()
	line := fmt.Sprintf("%s %s %-*s %10s %8s  %s",
		cursor, check, nameWidth, truncate(f.Name, nameWidth), f.SizeLabel(), f.DurationLabel(),
		statusStyle(status).Render(status))
	if i == m.cursor && m.focus == focusFiles {
		return InfoStyle.Render(line)
	}
	return line
}

func (m ConverterModel) renderConflictDialog() string {
	var b strings.Builder
	b.WriteString(ErrorStyle.Render(fmt.Sprintf("⚠️  %d files already exist in the output directory", len(m.conflicts))))
	b.WriteString("\n\n")
	b.WriteString(RenderConflictList(m.conflicts, conflictLimit))
	b.WriteString("\n\nHow should existing files be handled?\n")

	for i, p := range convert.Policies() {
		b.WriteString(m.renderChoice(i, fmt.Sprintf("%d. %s", i+1, p.Description())))
	}
	b.WriteString(m.renderChoice(len(convert.Policies()), "Cancel conversion"))
	b.WriteString("\n")
	b.WriteString(MutedStyle.Render("1-4: choose • ↑/↓ enter: select • esc: cancel"))

	return DialogStyle.Render(b.String())
}

func (m ConverterModel) renderChoice(i int, label string) string {
	if i == m.conflictCursor {
		return ProcessingStyle.Render("> "+label) + "\n"
	}
	return "  " + label + "\n"
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

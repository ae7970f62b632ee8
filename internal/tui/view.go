package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sumanbiswas123/image-converter/internal/backend"
	"github.com/sumanbiswas123/image-converter/internal/convert"
)

// Fixed layout offsets. The rows above the color control never move, so the
// widget can hit-test mouse presses against constant bounds.
const (
	leftMargin    = 2
	labelColWidth = 12
	sourceLines   = 6
	colorRow      = 11
	colorLeft     = leftMargin + labelColWidth
)

const maxLogLines = 8

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.browser != nil {
		return m.browser.view()
	}

	lines := []string{
		titleStyle.Render("Image Converter"),
		"",
		m.modeRow(),
		"",
	}
	lines = append(lines, m.sourcePanel()...)
	lines = append(lines, m.formatRow())
	lines = append(lines, m.colorBlock())
	lines = append(lines, "", m.submitRow())
	lines = append(lines, m.statusLines()...)
	lines = append(lines, "", dimStyle.Render(m.helpLine()))

	return strings.Join(lines, "\n")
}

func (m Model) label(s string, zone focusZone) string {
	text := padRight(s, labelColWidth)
	if m.focus == zone {
		return strings.Repeat(" ", leftMargin) + focusStyle.Render(text)
	}
	return strings.Repeat(" ", leftMargin) + labelStyle.Render(text)
}

func (m Model) segment(text string, selected, focused bool) string {
	switch {
	case selected && focused:
		return focusStyle.Render("[" + text + "]")
	case selected:
		return valueStyle.Render("[" + text + "]")
	default:
		return dimStyle.Render(" " + text + " ")
	}
}

func (m Model) modeRow() string {
	focused := m.focus == focusMode
	single := m.segment("Single file", m.mode == ModeSingle, focused)
	folder := m.segment("Folder", m.mode == ModeFolder, focused)
	return m.label("Mode", focusMode) + single + " " + folder
}

func (m Model) sourcePanel() []string {
	indent := strings.Repeat(" ", leftMargin+labelColWidth)
	lines := make([]string, 0, sourceLines)

	if m.mode == ModeSingle {
		if m.file == nil {
			lines = append(lines, m.label("Source", focusSource)+dimStyle.Render("(no image; enter to browse)"))
		} else {
			f := m.file
			head := valueStyle.Render(f.name)
			if f.scanned {
				head += dimStyle.Render(fmt.Sprintf("  %dx%d %s", f.width, f.height, f.kind))
			}
			lines = append(lines, m.label("Source", focusSource)+head)

			switch {
			case !f.scanned:
				lines = append(lines, indent+dimStyle.Render("scanning for transparency..."))
			case f.hasAlpha:
				lines = append(lines, indent+warnStyle.Render("has transparency"))
			default:
				lines = append(lines, indent+dimStyle.Render("no transparency"))
			}

			if len(f.metadata) > 0 {
				note := "metadata dropped on convert: " + strings.Join(f.metadata, ", ")
				lines = append(lines, indent+dimStyle.Render(note))
			}
			lines = append(lines, indent+dimStyle.Render(f.preview))
		}
	} else {
		if m.folder == "" {
			lines = append(lines, m.label("Source", focusSource)+dimStyle.Render("(no folder; enter to pick)"))
		} else {
			lines = append(lines, m.label("Source", focusSource)+valueStyle.Render(m.folder))
			if m.listing {
				lines = append(lines, indent+dimStyle.Render("listing images..."))
			} else {
				lines = append(lines, indent+labelStyle.Render(fmt.Sprintf("%d images", len(m.images))))
				for i, t := range m.images {
					if i == 3 {
						lines = append(lines, indent+dimStyle.Render(fmt.Sprintf("+%d more", len(m.images)-i)))
						break
					}
					lines = append(lines, indent+dimStyle.Render("• "+t.Name))
				}
			}
		}
	}

	for len(lines) < sourceLines {
		lines = append(lines, "")
	}
	return lines[:sourceLines]
}

func (m Model) formatRow() string {
	parts := make([]string, len(m.formats))
	for i, f := range m.formats {
		parts[i] = m.segment(string(f), i == m.formatIdx, m.focus == focusFormat)
	}
	return m.label("Format", focusFormat) + strings.Join(parts, " ")
}

func (m Model) colorBlock() string {
	lbl := m.label("Background", focusColor)
	if !m.colorRelevant() {
		return lbl + dimStyle.Render(m.colorHint())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, lbl, m.color.View())
}

func (m Model) colorHint() string {
	if m.currentFormat() != convert.FormatJPEG {
		return "(jpg output only)"
	}
	if m.file == nil {
		return "(applies to transparent sources)"
	}
	if !m.file.scanned {
		return "(checking for transparency...)"
	}
	return "(source has no transparency)"
}

func (m Model) submitRow() string {
	lbl := m.label("", focusSubmit)
	switch {
	case m.converting:
		return lbl + dimStyle.Render("[ Converting... ]")
	case !m.canSubmit():
		return lbl + dimStyle.Render("[ Convert ]")
	case m.focus == focusSubmit:
		return lbl + focusStyle.Render("[ Convert ]")
	default:
		return lbl + valueStyle.Render("[ Convert ]")
	}
}

func (m Model) canSubmit() bool {
	if m.converting {
		return false
	}
	if m.mode == ModeSingle {
		return m.file != nil
	}
	return m.folder != "" && len(m.images) > 0
}

func (m Model) statusLines() []string {
	indent := strings.Repeat(" ", leftMargin)
	var lines []string

	if m.converting || m.progress > 0 || len(m.logs) > 0 {
		barWidth := 40
		if m.width > 0 {
			barWidth = int(math.Min(60, float64(m.width-10)))
			if barWidth < 20 {
				barWidth = 20
			}
		}
		ratio := float64(m.progress) / 100
		bar := barStyle.Render(renderBar(barWidth, ratio)) + dimStyle.Render(fmt.Sprintf(" %3d%%", m.progress))
		lines = append(lines, "", indent+bar)
		if m.action != "" {
			lines = append(lines, indent+labelStyle.Render(m.action))
		}
	}

	if n := len(m.logs); n > 0 {
		lines = append(lines, "")
		start := 0
		if n > maxLogLines {
			start = n - maxLogLines
			lines = append(lines, indent+dimStyle.Render(fmt.Sprintf("(%d earlier entries)", start)))
		}
		for _, entry := range m.logs[start:] {
			lines = append(lines, indent+styleForStatus(entry.status).Render(entry.message))
		}
	}

	if m.outPath != "" {
		lines = append(lines, "", indent+successStyle.Render("Saved: "+m.outPath))
	}
	if m.alert != "" {
		lines = append(lines, "", indent+errorStyle.Render(m.alert))
	}

	return lines
}

func styleForStatus(s backend.Status) lipgloss.Style {
	switch s {
	case backend.StatusError:
		return errorStyle
	case backend.StatusComplete:
		return successStyle
	default:
		return labelStyle
	}
}

func (m Model) helpLine() string {
	if m.focus == focusColor {
		return "tab: next field · esc: close presets · ctrl+c: quit"
	}
	return "tab: move · enter: select/submit · q: quit"
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func renderBar(width int, ratio float64) string {
	filled := int(math.Round(ratio * float64(width)))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("=", filled) + strings.Repeat(" ", width-filled) + "]"
}

// Package colorinput implements the background-color control: a swatch
// preview with a hex text field beside it, arrow-key lighten/darken on the
// swatch, and a popover palette of preset swatches.
//
// All three input modalities write through one local value. The value is
// always a complete #RRGGBB color; partial text-field input stays local and
// is never reported to the parent.
package colorinput

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sumanbiswas123/image-converter/pkg/hexcolor"
)

// ChangedMsg reports a committed color to the parent. Only complete #RRGGBB
// values are ever reported.
type ChangedMsg struct {
	Value string
}

const (
	swatchWidth       = 4
	lineWidth         = 34
	popoverInnerWidth = presetsPerRow * 3
	popoverWidth      = popoverInnerWidth + 2 // rounded border
	popoverHeight     = 4
	wellStep          = 8
)

var (
	fieldStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	fieldFocusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Underline(true)
	hintStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	popoverStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8"))
)

// Model is the color input widget state.
type Model struct {
	value   string // last committed color, always complete
	field   string // text field contents, possibly partial
	open    bool   // popover showing
	cursor  int    // highlighted preset while open
	focused bool

	// top-left screen cell of the widget, for mouse handling
	x, y int
}

// New builds a widget holding value, or white when value is not a complete
// color.
func New(value string) Model {
	if !hexcolor.Complete(value) {
		value = Presets[0]
	}
	return Model{value: value, field: value}
}

// Value returns the last committed color.
func (m Model) Value() string {
	return m.value
}

// Open reports whether the preset popover is showing.
func (m Model) Open() bool {
	return m.open
}

// Focused reports whether the widget receives key input.
func (m Model) Focused() bool {
	return m.focused
}

// Field returns the raw text-field contents, which may be partial.
func (m Model) Field() string {
	return m.field
}

// Focus directs key input to the widget.
func (m *Model) Focus() {
	m.focused = true
}

// Blur removes focus and dismisses the popover.
func (m *Model) Blur() {
	m.focused = false
	m.open = false
}

// SetValue resynchronizes from the parent. Identical values are ignored so
// the widget's own change reports do not loop back into it; incomplete
// values are ignored entirely.
func (m *Model) SetValue(v string) {
	if !hexcolor.Complete(v) || v == m.value {
		return
	}
	m.value = v
	m.field = v
}

// SetPosition records the widget's top-left screen cell. Mouse handling
// depends on it.
func (m *Model) SetPosition(x, y int) {
	m.x = x
	m.y = y
}

// Contains reports whether the screen cell lies inside the widget's current
// region, popover included while it is open.
func (m Model) Contains(x, y int) bool {
	return m.inBounds(x, y)
}

// Update handles key and mouse input. The parent routes keys here only while
// the widget is focused; mouse events always pass through.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if !m.focused {
			return m, nil
		}
		return m.updateKey(msg)
	case tea.MouseMsg:
		return m.updateMouse(msg)
	}
	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter", " ", "space":
		if m.open {
			return m.selectPreset(m.cursor)
		}
		m.open = true
		m.cursor = presetIndex(m.value)
		return m, nil

	case "esc":
		m.open = false
		return m, nil

	case "up":
		if m.open {
			if m.cursor >= presetsPerRow {
				m.cursor -= presetsPerRow
			}
			return m, nil
		}
		return m.adjustWell(wellStep)

	case "down":
		if m.open {
			if m.cursor < presetsPerRow {
				m.cursor += presetsPerRow
			}
			return m, nil
		}
		return m.adjustWell(-wellStep)

	case "left":
		if m.open && m.cursor%presetsPerRow > 0 {
			m.cursor--
		}
		return m, nil

	case "right":
		if m.open && m.cursor%presetsPerRow < presetsPerRow-1 {
			m.cursor++
		}
		return m, nil

	case "backspace":
		if !m.open && len(m.field) > 0 {
			m.field = m.field[:len(m.field)-1]
		}
		return m, nil
	}

	if m.open || msg.Type != tea.KeyRunes {
		return m, nil
	}
	return m.typeRunes(string(msg.Runes))
}

// typeRunes applies typed text to the field. A keystroke producing anything
// other than '#' plus up to six hex digits is rejected outright; reaching
// exactly seven characters commits and reports the value.
func (m Model) typeRunes(text string) (Model, tea.Cmd) {
	candidate := hexcolor.Normalize(m.field + text)
	if !hexcolor.ValidPartial(candidate) {
		return m, nil
	}
	m.field = candidate
	if !hexcolor.Complete(candidate) {
		return m, nil
	}
	m.value = candidate
	return m, changed(candidate)
}

// adjustWell is the always-valid modality: each step yields a complete color
// that is committed immediately.
func (m Model) adjustWell(delta int) (Model, tea.Cmd) {
	rgb, err := hexcolor.Parse(m.value)
	if err != nil {
		return m, nil
	}
	next := rgb.Shift(delta).Hex()
	if next == m.value {
		return m, nil
	}
	m.value = next
	m.field = next
	return m, changed(next)
}

func (m Model) selectPreset(i int) (Model, tea.Cmd) {
	v := Presets[i]
	m.value = v
	m.field = v
	m.open = false
	return m, changed(v)
}

// updateMouse implements the popover dismissal contract: while the popover is
// open, any press outside the widget region closes it; while it is closed,
// outside presses are never examined.
func (m Model) updateMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if msg.Button == tea.MouseButtonWheelUp && !m.open && m.onSwatch(msg.X, msg.Y) {
		return m.adjustWell(wellStep)
	}
	if msg.Button == tea.MouseButtonWheelDown && !m.open && m.onSwatch(msg.X, msg.Y) {
		return m.adjustWell(-wellStep)
	}

	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}

	if !m.open {
		if m.onSwatch(msg.X, msg.Y) {
			m.open = true
			m.cursor = presetIndex(m.value)
		}
		return m, nil
	}

	if !m.inBounds(msg.X, msg.Y) {
		m.open = false
		return m, nil
	}
	if i, ok := m.presetAt(msg.X, msg.Y); ok {
		m.cursor = i
		return m.selectPreset(i)
	}
	return m, nil
}

func (m Model) onSwatch(x, y int) bool {
	return y == m.y && x >= m.x && x < m.x+swatchWidth
}

func (m Model) inBounds(x, y int) bool {
	if y == m.y && x >= m.x && x < m.x+lineWidth {
		return true
	}
	if !m.open {
		return false
	}
	return y > m.y && y <= m.y+popoverHeight && x >= m.x && x < m.x+popoverWidth
}

// presetAt maps a screen cell to a preset index. Content rows sit inside the
// popover border, one below the widget line.
func (m Model) presetAt(x, y int) (int, bool) {
	row := y - (m.y + 2)
	if row < 0 || row > 1 {
		return 0, false
	}
	rel := x - (m.x + 1)
	if rel < 0 || rel >= popoverInnerWidth {
		return 0, false
	}
	return row*presetsPerRow + rel/3, true
}

// View renders the widget line, plus the popover block when open.
func (m Model) View() string {
	swatch := lipgloss.NewStyle().
		Background(lipgloss.Color(m.value)).
		Render(strings.Repeat(" ", swatchWidth))

	field := m.field
	if len(field) < hexcolor.CompleteLen {
		field += strings.Repeat(" ", hexcolor.CompleteLen-len(field))
	}
	fs := fieldStyle
	hint := "click or enter for presets"
	if m.focused {
		fs = fieldFocusedStyle
		hint = "type hex, ↑/↓ shade, enter presets"
	}

	line := swatch + " " + fs.Render(field) + "  " + hintStyle.Render(hint)
	if !m.open {
		return line
	}

	rows := make([]string, 2)
	for r := 0; r < 2; r++ {
		var b strings.Builder
		for c := 0; c < presetsPerRow; c++ {
			i := r*presetsPerRow + c
			cell := lipgloss.NewStyle().Foreground(lipgloss.Color(Presets[i]))
			if i == m.cursor {
				cell = cell.Reverse(true)
			}
			b.WriteString(cell.Render("██"))
			b.WriteString(" ")
		}
		rows[r] = b.String()
	}

	return line + "\n" + popoverStyle.Render(strings.Join(rows, "\n"))
}

func presetIndex(v string) int {
	for i, p := range Presets {
		if strings.EqualFold(p, v) {
			return i
		}
	}
	return 0
}

func changed(v string) tea.Cmd {
	return func() tea.Msg {
		return ChangedMsg{Value: v}
	}
}

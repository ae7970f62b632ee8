package tui

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// browserMode says what the overlay is picking.
type browserMode int

const (
	pickFile browserMode = iota
	pickFolder
)

const browserPageSize = 12

// browser is the directory-navigator overlay used for both the image picker
// and the folder dialog.
type browser struct {
	mode    browserMode
	dir     string
	entries []browserEntry
	cursor  int
	offset  int
	err     error
}

type browserEntry struct {
	name  string
	isDir bool
}

func newBrowser(mode browserMode, dir string) *browser {
	b := &browser{mode: mode}
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = home
		} else {
			dir = "."
		}
	}
	b.load(dir)
	return b
}

func (b *browser) load(dir string) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		b.err = err
		return
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		b.err = err
		return
	}

	b.dir = abs
	b.err = nil
	b.cursor = 0
	b.offset = 0
	b.entries = b.entries[:0]

	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if b.mode == pickFolder && !e.IsDir() {
			continue
		}
		if b.mode == pickFile && !e.IsDir() && !isImageName(e.Name()) {
			continue
		}
		b.entries = append(b.entries, browserEntry{name: e.Name(), isDir: e.IsDir()})
	}

	sort.SliceStable(b.entries, func(i, j int) bool {
		if b.entries[i].isDir != b.entries[j].isDir {
			return b.entries[i].isDir
		}
		return b.entries[i].name < b.entries[j].name
	})
}

// update handles one key. done reports a final answer: a chosen path, or a
// cancel when ok is false.
func (b *browser) update(msg tea.KeyMsg) (done bool, path string, ok bool) {
	switch msg.String() {
	case "esc":
		return true, "", false

	case "up", "k":
		if b.cursor > 0 {
			b.cursor--
			if b.cursor < b.offset {
				b.offset = b.cursor
			}
		}

	case "down", "j":
		if b.cursor < len(b.entries)-1 {
			b.cursor++
			if b.cursor >= b.offset+browserPageSize {
				b.offset = b.cursor - browserPageSize + 1
			}
		}

	case "backspace", "left", "h":
		b.load(filepath.Dir(b.dir))

	case "s":
		if b.mode == pickFolder {
			return true, b.dir, true
		}

	case "enter", "right", "l":
		if b.cursor >= len(b.entries) {
			return false, "", false
		}
		entry := b.entries[b.cursor]
		full := filepath.Join(b.dir, entry.name)
		if entry.isDir {
			b.load(full)
			return false, "", false
		}
		if b.mode == pickFile {
			return true, full, true
		}
	}

	return false, "", false
}

func (b *browser) view() string {
	title := "Select image"
	help := "enter: open · backspace: up · esc: cancel"
	if b.mode == pickFolder {
		title = "Select folder"
		help = "enter: open · s: use this folder · backspace: up · esc: cancel"
	}

	lines := []string{
		titleStyle.Render(title) + "  " + dimStyle.Render(b.dir),
		"",
	}
	if b.err != nil {
		lines = append(lines, errorStyle.Render(b.err.Error()))
	}

	end := b.offset + browserPageSize
	if end > len(b.entries) {
		end = len(b.entries)
	}
	for i := b.offset; i < end; i++ {
		entry := b.entries[i]
		name := entry.name
		if entry.isDir {
			name += "/"
		}
		if i == b.cursor {
			lines = append(lines, "> "+focusStyle.Render(name))
			continue
		}
		lines = append(lines, "  "+labelStyle.Render(name))
	}
	if len(b.entries) == 0 {
		lines = append(lines, dimStyle.Render("  (empty)"))
	}

	lines = append(lines, "", dimStyle.Render(help))
	return strings.Join(lines, "\n")
}

func isImageName(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".webp":
		return true
	}
	return false
}

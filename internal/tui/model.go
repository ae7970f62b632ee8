package tui

import (
	"context"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sumanbiswas123/image-converter/internal/backend"
	"github.com/sumanbiswas123/image-converter/internal/colorinput"
	"github.com/sumanbiswas123/image-converter/internal/config"
	"github.com/sumanbiswas123/image-converter/internal/convert"
	"github.com/sumanbiswas123/image-converter/pkg/hexcolor"
)

// Mode selects what the form converts.
type Mode int

const (
	ModeSingle Mode = iota
	ModeFolder
)

// focus zones, cycled with tab.
type focusZone int

const (
	focusMode focusZone = iota
	focusSource
	focusFormat
	focusColor
	focusSubmit
	focusZoneCount
)

// selectedFile is the single-mode selection together with the results of the
// local off-screen scan.
type selectedFile struct {
	path     string
	name     string
	preview  string // file:// URI derived from the path
	scanned  bool
	hasAlpha bool
	width    int
	height   int
	kind     string
	metadata []string
}

type logEntry struct {
	status  backend.Status
	message string
}

// Model is the conversion form. All state lives here and changes only inside
// Update; backend calls run as commands and come back as messages.
type Model struct {
	backend backend.Backend
	bridge  *DialogBridge
	cfg     config.Config

	ctx    context.Context
	cancel context.CancelFunc

	mode  Mode
	focus focusZone

	// single mode
	file *selectedFile

	// folder mode
	folder  string
	images  []backend.Thumbnail
	listing bool
	picking bool

	// output config; survives mode switches
	formats   []convert.Format
	formatIdx int
	color     colorinput.Model
	bg        string

	// run state
	converting bool
	progress   int
	action     string
	logs       []logEntry
	outPath    string
	alert      string

	browser *browser
	pending *dialogRequest

	width    int
	height   int
	quitting bool
}

// NewModel wires the form to its backend. bridge may be nil when the backend
// answers folder picks on its own (tests do this).
func NewModel(b backend.Backend, bridge *DialogBridge, cfg config.Config) Model {
	ctx, cancel := context.WithCancel(context.Background())
	m := Model{
		backend: b,
		bridge:  bridge,
		cfg:     cfg,
		ctx:     ctx,
		cancel:  cancel,
		formats: []convert.Format{convert.FormatJPEG, convert.FormatPNG, convert.FormatWebP},
		color:   colorinput.New("#ffffff"),
		bg:      "#ffffff",
	}
	m.color.SetPosition(colorLeft, colorRow)
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(listenEvents(m.backend.Events()), listenDialog(m.bridge))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		if m.browser != nil || !m.colorRelevant() {
			return m, nil
		}
		if m.color.Contains(msg.X, msg.Y) && m.focus != focusColor {
			m.moveFocusTo(focusColor)
		}
		var cmd tea.Cmd
		m.color, cmd = m.color.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case colorinput.ChangedMsg:
		m.bg = msg.Value
		m.color.SetValue(msg.Value)
		return m, nil

	case dialogRequestMsg:
		m.pending = &msg.req
		m.browser = newBrowser(pickFolder, m.folder)
		return m, listenDialog(m.bridge)

	case folderPickedMsg:
		m.picking = false
		if msg.err != nil {
			m.alert = msg.err.Error()
			return m, nil
		}
		if !msg.ok || msg.path == "" {
			return m, nil
		}
		m.folder = msg.path
		m.images = nil
		m.listing = true
		m.alert = ""
		return m, loadThumbnails(m.ctx, m.backend, msg.path)

	case thumbnailsMsg:
		if msg.folder != m.folder {
			return m, nil
		}
		m.listing = false
		if msg.err != nil {
			m.images = nil
			m.alert = msg.err.Error()
			return m, nil
		}
		m.images = msg.items
		return m, nil

	case fileInspectedMsg:
		if m.file == nil || m.file.path != msg.path {
			return m, nil
		}
		if msg.err != nil {
			m.alert = "could not inspect image: " + msg.err.Error()
			return m, nil
		}
		m.file.scanned = true
		m.file.hasAlpha = msg.info.HasAlpha
		m.file.width = msg.info.Width
		m.file.height = msg.info.Height
		m.file.kind = msg.info.Kind.String()
		m.file.metadata = msg.info.Metadata
		return m, nil

	case convertedMsg:
		m.converting = false
		if msg.err != nil {
			m.alert = msg.err.Error()
			return m, nil
		}
		m.outPath = msg.out
		return m, nil

	case batchSubmittedMsg:
		if msg.err != nil {
			m.converting = false
			m.alert = msg.err.Error()
		}
		return m, nil

	case progressMsg:
		ev := backend.ProgressEvent(msg)
		m.progress = ev.Progress
		m.action = ev.Message
		m.logs = append(m.logs, logEntry{status: ev.Status, message: ev.Message})
		if ev.Status == backend.StatusComplete {
			m.converting = false
		}
		return m, listenEvents(m.backend.Events())

	case eventsClosedMsg:
		return m, nil
	}

	return m, nil
}

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.quitting = true
		m.cancel()
		return m, tea.Quit
	}

	if m.browser != nil {
		return m.updateBrowser(msg)
	}

	switch msg.String() {
	case "tab":
		m.moveFocus(1)
		return m, nil
	case "shift+tab":
		m.moveFocus(-1)
		return m, nil
	case "q":
		if m.focus != focusColor {
			m.quitting = true
			m.cancel()
			return m, tea.Quit
		}
	}

	switch m.focus {
	case focusMode:
		switch msg.String() {
		case "left", "right", "h", "l", "enter", " ", "space":
			return m.toggleMode()
		}

	case focusSource:
		if msg.String() == "enter" {
			return m.openSource()
		}

	case focusFormat:
		switch msg.String() {
		case "left", "h":
			if m.formatIdx > 0 {
				m.formatIdx--
			}
		case "right", "l":
			if m.formatIdx < len(m.formats)-1 {
				m.formatIdx++
			}
		}

	case focusColor:
		if m.colorRelevant() {
			var cmd tea.Cmd
			m.color, cmd = m.color.Update(msg)
			return m, cmd
		}

	case focusSubmit:
		if msg.String() == "enter" {
			return m.submit()
		}
	}

	return m, nil
}

func (m Model) updateBrowser(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	done, path, ok := m.browser.update(msg)
	if !done {
		return m, nil
	}
	m.browser = nil

	// An open folder-dialog round trip is answered, not applied directly;
	// the backend call hands the result back through folderPickedMsg.
	if m.pending != nil {
		m.pending.reply <- dialogReply{path: path, ok: ok}
		m.pending = nil
		return m, nil
	}

	if !ok {
		return m, nil
	}
	return m.selectFile(path)
}

// selectFile stores the single-mode selection and kicks off the local
// transparency scan.
func (m Model) selectFile(path string) (tea.Model, tea.Cmd) {
	m.file = &selectedFile{
		path:    path,
		name:    filepath.Base(path),
		preview: "file://" + path,
	}
	m.outPath = ""
	m.alert = ""
	m.progress = 0
	m.action = ""
	return m, inspectFile(path)
}

// toggleMode flips the selection mode and unconditionally resets selection
// and result state. The output config survives.
func (m Model) toggleMode() (tea.Model, tea.Cmd) {
	if m.mode == ModeSingle {
		m.mode = ModeFolder
	} else {
		m.mode = ModeSingle
	}
	m.resetSelections()
	return m, nil
}

func (m *Model) resetSelections() {
	m.file = nil
	m.folder = ""
	m.images = nil
	m.listing = false
	m.logs = nil
	m.progress = 0
	m.action = ""
	m.outPath = ""
	m.alert = ""
}

func (m Model) openSource() (tea.Model, tea.Cmd) {
	if m.mode == ModeSingle {
		start := ""
		if m.file != nil {
			start = filepath.Dir(m.file.path)
		}
		m.browser = newBrowser(pickFile, start)
		return m, nil
	}

	if m.picking {
		return m, nil
	}
	m.picking = true
	return m, selectFolder(m.ctx, m.backend)
}

// submit validates per mode and dispatches. Re-entry is refused while a
// conversion is in flight.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.converting {
		return m, nil
	}
	m.alert = ""

	if m.mode == ModeSingle {
		if m.file == nil {
			m.alert = "select an image first"
			return m, nil
		}
		// The background color rides along only for jpg output of a source
		// that scanned as transparent, and without its '#'.
		var bg *string
		if m.currentFormat() == convert.FormatJPEG && m.file.scanned && m.file.hasAlpha {
			v := hexcolor.Strip(m.bg)
			bg = &v
		}
		m.converting = true
		m.outPath = ""
		return m, convertSingle(m.ctx, m.backend, m.file.path, m.file.name, string(m.currentFormat()), bg)
	}

	if m.folder == "" || len(m.images) == 0 {
		m.alert = "select a folder with images first"
		return m, nil
	}
	files := make([]string, len(m.images))
	for i, t := range m.images {
		files[i] = t.Path
	}
	// Per-file alpha is unknown here, so jpg batches always carry the color.
	var bg *string
	if m.currentFormat() == convert.FormatJPEG {
		v := hexcolor.Strip(m.bg)
		bg = &v
	}
	m.converting = true
	m.logs = nil
	m.progress = 0
	m.action = ""
	m.outPath = ""
	job := backend.BatchJob{Files: files, Format: string(m.currentFormat()), BGColor: bg}
	return m, submitBatch(m.ctx, m.backend, job)
}

func (m Model) currentFormat() convert.Format {
	return m.formats[m.formatIdx]
}

// colorRelevant mirrors when the form shows the background control: jpg
// output, and in single mode only when the selection scanned as transparent.
func (m Model) colorRelevant() bool {
	if m.currentFormat() != convert.FormatJPEG {
		return false
	}
	if m.mode == ModeSingle {
		return m.file != nil && m.file.scanned && m.file.hasAlpha
	}
	return true
}

func (m *Model) moveFocus(delta int) {
	f := m.focus
	for {
		f = (f + focusZone(delta) + focusZoneCount) % focusZoneCount
		if f == focusColor && !m.colorRelevant() {
			continue
		}
		break
	}
	m.moveFocusTo(f)
}

func (m *Model) moveFocusTo(f focusZone) {
	if m.focus == focusColor && f != focusColor {
		m.color.Blur()
	}
	m.focus = f
	if f == focusColor {
		m.color.Focus()
	}
}

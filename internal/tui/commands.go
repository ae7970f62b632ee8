package tui

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sumanbiswas123/image-converter/internal/backend"
	"github.com/sumanbiswas123/image-converter/internal/convert"
)

// listenEvents delivers the next pushed progress event. The model re-arms it
// after every delivery, so the one subscription spans the model's lifetime
// and ends only when the channel closes.
func listenEvents(events <-chan backend.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return eventsClosedMsg{}
		}
		return progressMsg(ev)
	}
}

// listenDialog delivers the next folder-dialog request from the backend.
func listenDialog(bridge *DialogBridge) tea.Cmd {
	if bridge == nil {
		return nil
	}
	return func() tea.Msg {
		return dialogRequestMsg{req: <-bridge.requests}
	}
}

// inspectFile decodes the selection off-screen and scans it for transparency
// and metadata. This is local work; it never touches the backend.
func inspectFile(path string) tea.Cmd {
	return func() tea.Msg {
		info, err := convert.InspectFile(path)
		return fileInspectedMsg{path: path, info: info, err: err}
	}
}

func selectFolder(ctx context.Context, b backend.Backend) tea.Cmd {
	return func() tea.Msg {
		path, ok, err := b.SelectFolder(ctx)
		return folderPickedMsg{path: path, ok: ok, err: err}
	}
}

func loadThumbnails(ctx context.Context, b backend.Backend, folder string) tea.Cmd {
	return func() tea.Msg {
		items, err := b.Thumbnails(ctx, folder)
		return thumbnailsMsg{folder: folder, items: items, err: err}
	}
}

// convertSingle reads the file only now, at submit time, and awaits the
// backend.
func convertSingle(ctx context.Context, b backend.Backend, path, name, format string, bgColor *string) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return convertedMsg{err: err}
		}
		out, err := b.ConvertImage(ctx, data, name, format, bgColor)
		return convertedMsg{out: out, err: err}
	}
}

// submitBatch hands the job to the backend. The call only accepts the job;
// its outcome arrives as progress events.
func submitBatch(ctx context.Context, b backend.Backend, job backend.BatchJob) tea.Cmd {
	return func() tea.Msg {
		return batchSubmittedMsg{err: b.ConvertAll(ctx, job)}
	}
}

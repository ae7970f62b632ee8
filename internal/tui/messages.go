package tui

import (
	"github.com/sumanbiswas123/image-converter/internal/backend"
	"github.com/sumanbiswas123/image-converter/internal/convert"
)

// Messages produced by commands. Each one re-enters the single-threaded
// update loop, so all state changes happen there.

type progressMsg backend.ProgressEvent

type eventsClosedMsg struct{}

type dialogRequestMsg struct {
	req dialogRequest
}

type fileInspectedMsg struct {
	path string
	info convert.Info
	err  error
}

type folderPickedMsg struct {
	path string
	ok   bool
	err  error
}

type thumbnailsMsg struct {
	folder string
	items  []backend.Thumbnail
	err    error
}

type convertedMsg struct {
	out string
	err error
}

type batchSubmittedMsg struct {
	err error
}

// Package backend exposes the command surface the converter form talks to:
// folder selection, thumbnail listing, single conversion, and fire-and-forget
// batch conversion whose progress is pushed over an event channel.
package backend

import (
	"context"
	"errors"
)

// Status classifies a progress event.
type Status string

const (
	StatusInProgress Status = "in-progress"
	StatusError      Status = "error"
	StatusComplete   Status = "complete"
)

// ProgressEvent is one pushed batch update. Events arrive in emission order,
// and the event carrying StatusComplete is always the last one of a job.
type ProgressEvent struct {
	JobID    string
	Progress int // 0..100
	Message  string
	Status   Status
}

// Thumbnail is one folder listing entry, ready for inline display.
type Thumbnail struct {
	Path    string
	Name    string
	DataURL string
}

// BatchJob converts every file in Files to Format. BGColor flattens jpg
// targets whose source has transparency; nil falls back to white.
type BatchJob struct {
	Files   []string
	Format  string
	BGColor *string
}

// ErrNoFolderDialog is returned by SelectFolder when no dialog capability
// was injected.
var ErrNoFolderDialog = errors.New("no folder dialog available")

// FolderDialog lets the UI answer folder-picking requests.
type FolderDialog interface {
	// PickFolder blocks until the user picks a folder or cancels.
	PickFolder(ctx context.Context) (path string, ok bool, err error)
}

// Backend is the command surface of the converter.
//
// ConvertAll returns as soon as the job is accepted; per-file failures and
// completion are only observable through Events. Everything else is
// call-and-response.
type Backend interface {
	SelectFolder(ctx context.Context) (path string, ok bool, err error)
	Thumbnails(ctx context.Context, folder string) ([]Thumbnail, error)
	ConvertImage(ctx context.Context, data []byte, filename, format string, bgColor *string) (string, error)
	ConvertAll(ctx context.Context, job BatchJob) error
	Events() <-chan ProgressEvent
}

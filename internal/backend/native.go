package backend

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/sumanbiswas123/image-converter/internal/config"
	"github.com/sumanbiswas123/image-converter/internal/convert"
	"github.com/sumanbiswas123/image-converter/pkg/hexcolor"
	"github.com/sumanbiswas123/image-converter/pkg/imgutil"
)

// Native runs conversions in-process.
type Native struct {
	cfg    config.Config
	dialog FolderDialog
	logger *log.Logger

	events chan ProgressEvent
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option configures a Native backend.
type Option func(*Native)

// WithFolderDialog injects the folder-picking capability.
func WithFolderDialog(d FolderDialog) Option {
	return func(n *Native) { n.dialog = d }
}

// WithLogger routes backend logs.
func WithLogger(l *log.Logger) Option {
	return func(n *Native) { n.logger = l }
}

// NewNative builds a backend around cfg. Callers must Close it to stop batch
// work and release the event channel.
func NewNative(cfg config.Config, opts ...Option) *Native {
	ctx, cancel := context.WithCancel(context.Background())
	n := &Native{
		cfg:    cfg,
		logger: log.New(io.Discard),
		events: make(chan ProgressEvent, 64),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Events returns the batch progress channel. Close closes it.
func (n *Native) Events() <-chan ProgressEvent {
	return n.events
}

// Close stops in-flight batch work, waits for it, then closes the event
// channel.
func (n *Native) Close() {
	n.cancel()
	n.wg.Wait()
	close(n.events)
}

// SelectFolder asks the injected dialog for a folder. ok is false when the
// user cancels.
func (n *Native) SelectFolder(ctx context.Context) (string, bool, error) {
	if n.dialog == nil {
		return "", false, ErrNoFolderDialog
	}
	return n.dialog.PickFolder(ctx)
}

// ConvertImage converts one in-memory image and writes the result into the
// configured output directory as <base>_converted.<ext>.
func (n *Native) ConvertImage(ctx context.Context, data []byte, filename, format string, bgColor *string) (string, error) {
	f, err := convert.ParseFormat(format)
	if err != nil {
		return "", err
	}
	if imgutil.DetectHeader(data) == imgutil.KindUnknown {
		return "", fmt.Errorf("unsupported image %q", filename)
	}

	opts := convert.Options{
		Format:      f,
		JPEGQuality: n.cfg.JPEGQuality,
		WebPQuality: n.cfg.WebPQuality,
	}
	if bgColor != nil {
		rgb, err := hexcolor.Parse(*bgColor)
		if err != nil {
			return "", err
		}
		opts.Background = &rgb
	}

	out, err := convert.Process(data, opts)
	if err != nil {
		return "", err
	}

	destPath := filepath.Join(n.cfg.OutputDir, fmt.Sprintf("%s_converted.%s", baseName(filename), f.Ext()))
	if err := writeAtomic(destPath, out); err != nil {
		return "", err
	}

	n.logger.Info("converted image", "file", filename, "out", destPath)
	return destPath, nil
}

// ConvertAll accepts a batch job and returns immediately. All validation
// happens per file inside the run, so failures surface only as events.
func (n *Native) ConvertAll(ctx context.Context, job BatchJob) error {
	jobID := uuid.NewString()
	n.logger.Info("batch accepted", "job", jobID, "files", len(job.Files), "format", job.Format)

	n.wg.Add(1)
	go n.runBatch(jobID, job)
	return nil
}

func (n *Native) runBatch(jobID string, job BatchJob) {
	defer n.wg.Done()

	total := len(job.Files)
	for i, path := range job.Files {
		if n.ctx.Err() != nil {
			return
		}

		name := filepath.Base(path)
		progress := (i + 1) * 100 / total

		n.emit(ProgressEvent{
			JobID:    jobID,
			Progress: progress,
			Message:  fmt.Sprintf("Converting %s...", name),
			Status:   StatusInProgress,
		})

		out, err := n.convertFromPath(path, job.Format, job.BGColor)
		if err != nil {
			n.logger.Error("batch file failed", "job", jobID, "file", name, "err", err)
			n.emit(ProgressEvent{
				JobID:    jobID,
				Progress: progress,
				Message:  fmt.Sprintf("❌ %s - %v", name, err),
				Status:   StatusError,
			})
			continue
		}

		n.emit(ProgressEvent{
			JobID:    jobID,
			Progress: progress,
			Message:  fmt.Sprintf("✅ %s -> %s", name, out),
			Status:   StatusInProgress,
		})
	}

	n.emit(ProgressEvent{
		JobID:    jobID,
		Progress: 100,
		Message:  "All conversions finished.",
		Status:   StatusComplete,
	})
	n.logger.Info("batch finished", "job", jobID, "files", total)
}

// convertFromPath converts one file into a <dir>_converted directory inside
// its source folder.
func (n *Native) convertFromPath(path, format string, bgColor *string) (string, error) {
	f, err := convert.ParseFormat(format)
	if err != nil {
		return "", err
	}

	opts := convert.Options{
		Format:         f,
		WhiteIfMissing: true,
		JPEGQuality:    n.cfg.JPEGQuality,
		WebPQuality:    n.cfg.WebPQuality,
	}
	if bgColor != nil {
		rgb, err := hexcolor.Parse(*bgColor)
		if err != nil {
			return "", err
		}
		opts.Background = &rgb
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if imgutil.DetectHeader(data) == imgutil.KindUnknown {
		return "", fmt.Errorf("unsupported image")
	}

	out, err := convert.Process(data, opts)
	if err != nil {
		return "", err
	}

	srcDir := filepath.Dir(path)
	destDir := filepath.Join(srcDir, filepath.Base(srcDir)+"_converted")
	destPath := filepath.Join(destDir, fmt.Sprintf("%s.%s", baseName(filepath.Base(path)), f.Ext()))

	if err := writeAtomic(destPath, out); err != nil {
		return "", err
	}
	return destPath, nil
}

// emit delivers an event unless the backend is being closed.
func (n *Native) emit(ev ProgressEvent) {
	select {
	case n.events <- ev:
	case <-n.ctx.Done():
	}
}

func writeAtomic(destPath string, data []byte) error {
	destDir := filepath.Dir(destPath)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return err
	}

	tmpFile, err := os.CreateTemp(destDir, "imgconv-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return err
	}

	return replaceFile(tmpFile.Name(), destPath)
}

func replaceFile(tmpPath, destPath string) error {
	if err := os.Rename(tmpPath, destPath); err == nil {
		return nil
	}
	if err := os.Remove(destPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return os.Rename(tmpPath, destPath)
}

// baseName cuts the filename at its first dot.
func baseName(filename string) string {
	if idx := strings.Index(filename, "."); idx >= 0 {
		return filename[:idx]
	}
	return filename
}

package backend

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sumanbiswas123/image-converter/internal/config"
	"github.com/sumanbiswas123/image-converter/internal/convert"
	"github.com/sumanbiswas123/image-converter/pkg/imgutil"
)

func TestConvertImageOutputNaming(t *testing.T) {
	dir := t.TempDir()
	n := NewNative(testConfig(dir))
	defer n.Close()

	data, err := buildPNG(4, 4, false)
	if err != nil {
		t.Fatalf("build PNG: %v", err)
	}

	out, err := n.ConvertImage(context.Background(), data, "photo.original.png", "jpg", nil)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	// The base name is everything before the first dot.
	want := filepath.Join(dir, "photo_converted.jpg")
	if out != want {
		t.Fatalf("output path = %q, want %q", out, want)
	}

	kind, err := imgutil.SniffFile(out)
	if err != nil {
		t.Fatalf("sniff output: %v", err)
	}
	if kind != imgutil.KindJPEG {
		t.Fatalf("output kind = %v, want JPEG", kind)
	}
}

func TestConvertImageTransparency(t *testing.T) {
	dir := t.TempDir()
	n := NewNative(testConfig(dir))
	defer n.Close()

	data, err := buildPNG(4, 4, true)
	if err != nil {
		t.Fatalf("build PNG: %v", err)
	}

	// Without a background color a transparent jpg conversion must fail.
	_, err = n.ConvertImage(context.Background(), data, "a.png", "jpg", nil)
	if !errors.Is(err, convert.ErrNeedsBackground) {
		t.Fatalf("expected ErrNeedsBackground, got: %v", err)
	}

	bg := "1a2b3c"
	out, err := n.ConvertImage(context.Background(), data, "a.png", "jpg", &bg)
	if err != nil {
		t.Fatalf("convert with background: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("stat output: %v", err)
	}
}

func TestConvertImageRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	n := NewNative(testConfig(dir))
	defer n.Close()

	if _, err := n.ConvertImage(context.Background(), []byte("definitely not an image"), "a.png", "jpg", nil); err == nil {
		t.Fatal("expected an error for non-image data")
	}

	data, err := buildPNG(4, 4, false)
	if err != nil {
		t.Fatalf("build PNG: %v", err)
	}
	if _, err := n.ConvertImage(context.Background(), data, "a.png", "gif", nil); !errors.Is(err, convert.ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got: %v", err)
	}

	bad := "#12xz34"
	if _, err := n.ConvertImage(context.Background(), data, "a.png", "jpg", &bad); err == nil {
		t.Fatal("expected an error for a malformed background color")
	}
}

func TestConvertAllEventFlow(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "shoot")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	good := filepath.Join(src, "a.png")
	data, err := buildPNG(4, 4, false)
	if err != nil {
		t.Fatalf("build PNG: %v", err)
	}
	if err := os.WriteFile(good, data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	bad := filepath.Join(src, "b.png")
	if err := os.WriteFile(bad, []byte("broken image file"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	n := NewNative(testConfig(root))
	if err := n.ConvertAll(context.Background(), BatchJob{Files: []string{good, bad}, Format: "jpg"}); err != nil {
		t.Fatalf("submit batch: %v", err)
	}
	got := drainEvents(n)
	n.Close()

	if len(got) != 5 {
		t.Fatalf("expected 5 events, got %d: %#v", len(got), got)
	}

	wantStatus := []Status{StatusInProgress, StatusInProgress, StatusInProgress, StatusError, StatusComplete}
	wantProgress := []int{50, 50, 100, 100, 100}
	wantPrefix := []string{"Converting a.png...", "✅ a.png -> ", "Converting b.png...", "❌ b.png - ", "All conversions finished."}
	for i, ev := range got {
		if ev.Status != wantStatus[i] {
			t.Fatalf("event %d status = %q, want %q", i, ev.Status, wantStatus[i])
		}
		if ev.Progress != wantProgress[i] {
			t.Fatalf("event %d progress = %d, want %d", i, ev.Progress, wantProgress[i])
		}
		if !strings.HasPrefix(ev.Message, wantPrefix[i]) {
			t.Fatalf("event %d message = %q, want prefix %q", i, ev.Message, wantPrefix[i])
		}
		if ev.JobID != got[0].JobID {
			t.Fatalf("event %d job id = %q, want %q", i, ev.JobID, got[0].JobID)
		}
	}

	// Batch output lands inside the source folder, named after it.
	converted := filepath.Join(src, "shoot_converted", "a.jpg")
	if _, err := os.Stat(converted); err != nil {
		t.Fatalf("stat batch output: %v", err)
	}
}

func TestConvertAllEmptyBatch(t *testing.T) {
	n := NewNative(testConfig(t.TempDir()))
	if err := n.ConvertAll(context.Background(), BatchJob{Format: "jpg"}); err != nil {
		t.Fatalf("submit batch: %v", err)
	}
	got := drainEvents(n)
	n.Close()

	if len(got) != 1 {
		t.Fatalf("expected only the terminal event, got %d: %#v", len(got), got)
	}
	if got[0].Status != StatusComplete || got[0].Progress != 100 {
		t.Fatalf("terminal event = %#v", got[0])
	}
}

func TestBatchTransparencyDefaultsToWhite(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "icons")
	if err := os.MkdirAll(src, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	data, err := buildPNG(4, 4, true)
	if err != nil {
		t.Fatalf("build PNG: %v", err)
	}
	if err := os.WriteFile(filepath.Join(src, "a.png"), data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	// No background color on the job: the batch path falls back to white
	// instead of failing.
	n := NewNative(testConfig(root))
	if err := n.ConvertAll(context.Background(), BatchJob{
		Files:  []string{filepath.Join(src, "a.png")},
		Format: "jpg",
	}); err != nil {
		t.Fatalf("submit batch: %v", err)
	}
	got := drainEvents(n)
	n.Close()

	for _, ev := range got {
		if ev.Status == StatusError {
			t.Fatalf("unexpected error event: %#v", ev)
		}
	}
	if _, err := os.Stat(filepath.Join(src, "icons_converted", "a.jpg")); err != nil {
		t.Fatalf("stat batch output: %v", err)
	}
}

func TestSelectFolder(t *testing.T) {
	n := NewNative(testConfig(t.TempDir()))
	defer n.Close()

	if _, _, err := n.SelectFolder(context.Background()); !errors.Is(err, ErrNoFolderDialog) {
		t.Fatalf("expected ErrNoFolderDialog, got: %v", err)
	}

	withDialog := NewNative(testConfig(t.TempDir()), WithFolderDialog(stubDialog{path: "/pictures", ok: true}))
	defer withDialog.Close()

	path, ok, err := withDialog.SelectFolder(context.Background())
	if err != nil {
		t.Fatalf("select folder: %v", err)
	}
	if !ok || path != "/pictures" {
		t.Fatalf("got %q, %v; want /pictures, true", path, ok)
	}
}

type stubDialog struct {
	path string
	ok   bool
	err  error
}

func (d stubDialog) PickFolder(ctx context.Context) (string, bool, error) {
	return d.path, d.ok, d.err
}

func testConfig(outputDir string) config.Config {
	return config.Config{
		OutputDir:    outputDir,
		JPEGQuality:  90,
		WebPQuality:  75,
		ThumbSize:    160,
		ThumbQuality: 80,
		ThumbWorkers: 4,
	}
}

// drainEvents collects events up to and including the terminal one.
func drainEvents(n *Native) []ProgressEvent {
	var got []ProgressEvent
	for ev := range n.Events() {
		got = append(got, ev)
		if ev.Status == StatusComplete {
			return got
		}
	}
	return got
}

// buildPNG encodes a w x h image; withAlpha makes every pixel fully
// transparent.
func buildPNG(w, h int, withAlpha bool) ([]byte, error) {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	if !withAlpha {
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				img.SetNRGBA(x, y, color.NRGBA{R: 0x1a, G: 0x2b, B: 0x3c, A: 0xff})
			}
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

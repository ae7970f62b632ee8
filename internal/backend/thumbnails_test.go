package backend

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestThumbnails(t *testing.T) {
	dir := t.TempDir()

	jpg := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			jpg.SetNRGBA(x, y, color.NRGBA{R: 0x80, A: 0xff})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, jpg, nil); err != nil {
		t.Fatalf("encode JPEG: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "a.jpg"), buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	pngData, err := buildPNG(4, 4, true)
	if err != nil {
		t.Fatalf("build PNG: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "c.png"), pngData, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Non-images and subdirectories never show up in the listing.
	if err := os.WriteFile(filepath.Join(dir, "b.txt"), []byte("notes"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	n := NewNative(testConfig(dir))
	defer n.Close()

	thumbs, err := n.Thumbnails(context.Background(), dir)
	if err != nil {
		t.Fatalf("thumbnails: %v", err)
	}
	if len(thumbs) != 2 {
		t.Fatalf("expected 2 thumbnails, got %d: %#v", len(thumbs), thumbs)
	}
	if thumbs[0].Name != "a.jpg" || thumbs[1].Name != "c.png" {
		t.Fatalf("order = %q, %q; want a.jpg, c.png", thumbs[0].Name, thumbs[1].Name)
	}

	// Opaque previews render as jpeg, transparent ones keep png.
	if !strings.HasPrefix(thumbs[0].DataURL, "data:image/jpeg;base64,") {
		t.Fatalf("a.jpg data url = %.40q", thumbs[0].DataURL)
	}
	if !strings.HasPrefix(thumbs[1].DataURL, "data:image/png;base64,") {
		t.Fatalf("c.png data url = %.40q", thumbs[1].DataURL)
	}
}

func TestThumbnailsSkipsUndecodable(t *testing.T) {
	dir := t.TempDir()

	data, err := buildPNG(4, 4, false)
	if err != nil {
		t.Fatalf("build PNG: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "good.png"), data, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "fake.png"), []byte("not a png at all"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	n := NewNative(testConfig(dir))
	defer n.Close()

	thumbs, err := n.Thumbnails(context.Background(), dir)
	if err != nil {
		t.Fatalf("thumbnails: %v", err)
	}
	if len(thumbs) != 1 || thumbs[0].Name != "good.png" {
		t.Fatalf("expected only good.png, got: %#v", thumbs)
	}
}

func TestThumbnailsMissingFolder(t *testing.T) {
	n := NewNative(testConfig(t.TempDir()))
	defer n.Close()

	if _, err := n.Thumbnails(context.Background(), filepath.Join(t.TempDir(), "gone")); err == nil {
		t.Fatal("expected an error for a missing folder")
	}
}

func TestImagePaths(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"z.webp", "a.PNG", "m.jpeg", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}

	paths, err := ImagePaths(dir)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	want := []string{"a.PNG", "m.jpeg", "z.webp"}
	if len(names) != len(want) {
		t.Fatalf("names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}

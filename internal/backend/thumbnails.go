package backend

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/sumanbiswas123/image-converter/internal/convert"
	"github.com/sumanbiswas123/image-converter/pkg/imgutil"
)

// imageExts are the extensions the folder listing picks up.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// ImagePaths lists the convertible images directly inside folder, in name
// order. It does not recurse.
func ImagePaths(folder string) ([]string, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if imageExts[strings.ToLower(filepath.Ext(entry.Name()))] {
			paths = append(paths, filepath.Join(folder, entry.Name()))
		}
	}
	return paths, nil
}

// Thumbnails renders inline previews for every image in folder, in name
// order. Files that cannot be decoded are skipped, not fatal; a listing
// failure is.
func (n *Native) Thumbnails(ctx context.Context, folder string) ([]Thumbnail, error) {
	paths, err := ImagePaths(folder)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, nil
	}

	results := make([]*Thumbnail, len(paths))

	workers := n.cfg.ThumbWorkers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					continue
				}
				thumb, err := n.renderThumbnail(paths[idx])
				if err != nil {
					n.logger.Warn("thumbnail skipped", "file", paths[idx], "err", err)
					continue
				}
				results[idx] = &thumb
			}
		}()
	}

	for idx := range paths {
		select {
		case jobs <- idx:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make([]Thumbnail, 0, len(paths))
	for _, t := range results {
		if t != nil {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (n *Native) renderThumbnail(path string) (Thumbnail, error) {
	kind, err := imgutil.SniffFile(path)
	if err != nil {
		return Thumbnail{}, err
	}
	if kind == imgutil.KindUnknown {
		return Thumbnail{}, fmt.Errorf("not an image")
	}

	f, err := os.Open(path)
	if err != nil {
		return Thumbnail{}, err
	}
	img, err := convert.Decode(f)
	_ = f.Close()
	if err != nil {
		return Thumbnail{}, err
	}

	size := n.cfg.ThumbSize
	if size <= 0 {
		size = 160
	}
	fit := imaging.Fit(img, size, size, imaging.Lanczos)

	var buf bytes.Buffer
	mime := imgutil.KindJPEG.MIME()
	if convert.HasAlpha(fit) {
		mime = imgutil.KindPNG.MIME()
		err = imaging.Encode(&buf, fit, imaging.PNG)
	} else {
		quality := n.cfg.ThumbQuality
		if quality <= 0 {
			quality = 80
		}
		err = imaging.Encode(&buf, fit, imaging.JPEG, imaging.JPEGQuality(quality))
	}
	if err != nil {
		return Thumbnail{}, err
	}

	return Thumbnail{
		Path:    path,
		Name:    filepath.Base(path),
		DataURL: "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

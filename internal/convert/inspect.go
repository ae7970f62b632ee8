package convert

import (
	"fmt"
	"io"
	"os"

	"github.com/sumanbiswas123/image-converter/pkg/imgutil"
)

// Info describes a selected source image.
type Info struct {
	Kind     imgutil.Kind
	Width    int
	Height   int
	HasAlpha bool

	// Metadata lists the categories of metadata the source carries. None of
	// them survive a re-encode.
	Metadata []string
}

// InspectFile reports what the form shows for a selected file: dimensions,
// whether any pixel is transparent, and a metadata summary.
func InspectFile(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	return Inspect(f)
}

// Inspect is InspectFile over an open read-seeker.
func Inspect(rs io.ReadSeeker) (Info, error) {
	kind, err := imgutil.SniffReader(rs)
	if err != nil {
		return Info{}, err
	}
	if kind == imgutil.KindUnknown {
		return Info{}, fmt.Errorf("not a supported image")
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return Info{}, err
	}
	img, err := Decode(rs)
	if err != nil {
		return Info{}, fmt.Errorf("decode: %w", err)
	}

	info := Info{
		Kind:     kind,
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
		HasAlpha: HasAlpha(img),
	}

	// The summary is advisory; a malformed metadata block must not fail the
	// selection, which needs the alpha flag above.
	if cats, err := MetadataCategories(rs, kind); err == nil {
		info.Metadata = cats
	}

	return info, nil
}

// MetadataCategories lists the metadata categories present in the source.
func MetadataCategories(rs io.ReadSeeker, kind imgutil.Kind) ([]string, error) {
	switch kind {
	case imgutil.KindJPEG, imgutil.KindWebP:
		sum, err := analyzeExif(rs)
		if err != nil {
			return nil, err
		}
		return sum.categories(), nil
	case imgutil.KindPNG:
		sum, err := scanPNGMetadata(rs)
		if err != nil {
			return nil, err
		}
		return sum.categories(), nil
	}
	return nil, nil
}

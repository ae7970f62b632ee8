package convert

import (
	"io"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"
)

type exifSummary struct {
	hasGPS       bool
	hasModel     bool
	hasTimestamp bool
}

func analyzeExif(rs io.ReadSeeker) (exifSummary, error) {
	sum := exifSummary{}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return sum, err
	}

	// The flat-tag readers want a raw TIFF stream, so the EXIF blob has to be
	// dug out of its container first.
	raw, err := exif.SearchAndExtractExifWithReader(rs)
	if err != nil {
		if errIsNoExif(err) {
			return sum, nil
		}
		return sum, err
	}

	tags, _, err := exif.GetFlatExifData(raw, nil)
	if err != nil {
		if errIsNoExif(err) {
			return sum, nil
		}
		return sum, err
	}

	for _, tag := range tags {
		name := tag.TagName

		if strings.HasPrefix(name, "GPS") || strings.Contains(tag.IfdPath, "GPS") {
			sum.hasGPS = true
		}
		if name == "Model" || name == "CameraModelName" {
			sum.hasModel = true
		}
		if name == "DateTimeOriginal" || name == "DateTimeDigitized" || name == "DateTime" {
			sum.hasTimestamp = true
		}
	}

	return sum, nil
}

func (s exifSummary) categories() []string {
	var cats []string
	if s.hasGPS {
		cats = append(cats, "GPS")
	}
	if s.hasModel {
		cats = append(cats, "Device Model")
	}
	if s.hasTimestamp {
		cats = append(cats, "Timestamp")
	}
	return cats
}

func errIsNoExif(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "no exif")
}

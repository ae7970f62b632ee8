package convert

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
)

var pngSignature = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

type pngSummary struct {
	hasGPS       bool
	hasModel     bool
	hasTimestamp bool
}

// scanPNGMetadata walks the chunk stream looking at textual chunks and tIME.
func scanPNGMetadata(rs io.ReadSeeker) (pngSummary, error) {
	sum := pngSummary{}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return sum, err
	}

	br := bufio.NewReader(rs)

	sig := make([]byte, 8)
	if _, err := io.ReadFull(br, sig); err != nil {
		return sum, err
	}
	if !bytes.Equal(sig, pngSignature) {
		return sum, errors.New("invalid PNG signature")
	}

	for {
		lenBuf := make([]byte, 4)
		if _, err := io.ReadFull(br, lenBuf); err != nil {
			if err == io.EOF {
				return sum, nil
			}
			return sum, err
		}
		length := binary.BigEndian.Uint32(lenBuf)

		chunkType := make([]byte, 4)
		if _, err := io.ReadFull(br, chunkType); err != nil {
			return sum, err
		}

		chunkName := string(chunkType)

		switch chunkName {
		case "tEXt", "zTXt", "iTXt":
			data := make([]byte, length)
			if _, err := io.ReadFull(br, data); err != nil {
				return sum, err
			}
			if _, err := io.CopyN(io.Discard, br, 4); err != nil {
				return sum, err
			}
			if key := pngTextKey(data); key != "" {
				sum.applyKey(key)
			}
		case "tIME":
			sum.hasTimestamp = true
			if _, err := io.CopyN(io.Discard, br, int64(length)+4); err != nil {
				return sum, err
			}
		case "eXIf":
			// EXIF embedded in PNG carries the same categories.
			data := make([]byte, length)
			if _, err := io.ReadFull(br, data); err != nil {
				return sum, err
			}
			if _, err := io.CopyN(io.Discard, br, 4); err != nil {
				return sum, err
			}
			if ex, err := analyzeExif(bytes.NewReader(data)); err == nil {
				sum.hasGPS = sum.hasGPS || ex.hasGPS
				sum.hasModel = sum.hasModel || ex.hasModel
				sum.hasTimestamp = sum.hasTimestamp || ex.hasTimestamp
			}
		default:
			if _, err := io.CopyN(io.Discard, br, int64(length)+4); err != nil {
				return sum, err
			}
		}

		if chunkName == "IEND" {
			return sum, nil
		}
	}
}

func (s *pngSummary) applyKey(key string) {
	lower := strings.ToLower(key)
	if strings.Contains(lower, "gps") || strings.Contains(lower, "latitude") || strings.Contains(lower, "longitude") {
		s.hasGPS = true
	}
	if strings.Contains(lower, "model") || strings.Contains(lower, "make") {
		s.hasModel = true
	}
	if strings.Contains(lower, "date") || strings.Contains(lower, "time") {
		s.hasTimestamp = true
	}
}

func (s pngSummary) categories() []string {
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

func pngTextKey(data []byte) string {
	idx := bytes.IndexByte(data, 0)
	if idx <= 0 {
		return ""
	}
	return string(data[:idx])
}

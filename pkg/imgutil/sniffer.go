package imgutil

import (
	"errors"
	"io"
	"os"
)

// Kind identifies a supported image type.
type Kind int

const (
	KindUnknown Kind = iota
	KindJPEG
	KindPNG
	KindWebP
)

func (k Kind) String() string {
	switch k {
	case KindJPEG:
		return "jpeg"
	case KindPNG:
		return "png"
	case KindWebP:
		return "webp"
	default:
		return "unknown"
	}
}

// MIME returns the content type used when embedding the image in a data URL.
func (k Kind) MIME() string {
	switch k {
	case KindJPEG:
		return "image/jpeg"
	case KindPNG:
		return "image/png"
	case KindWebP:
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// headerLen covers the longest signature: RIFF, a 4-byte size, then WEBP.
const headerLen = 12

var (
	pngSig  = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
	jpegSig = []byte{0xff, 0xd8, 0xff}
	riffSig = []byte{'R', 'I', 'F', 'F'}
	webpSig = []byte{'W', 'E', 'B', 'P'}
)

// DetectHeader inspects the leading bytes of an image payload for known
// signatures. Payloads too short to match any signature are unknown.
func DetectHeader(header []byte) Kind {
	if hasPrefix(header, jpegSig) {
		return KindJPEG
	}
	if hasPrefix(header, pngSig) {
		return KindPNG
	}
	if len(header) >= headerLen && hasPrefix(header, riffSig) && hasPrefix(header[8:], webpSig) {
		return KindWebP
	}
	return KindUnknown
}

// SniffFile reads the first bytes of a file to determine its type.
func SniffFile(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown, err
	}
	defer f.Close()

	return SniffReader(f)
}

// SniffReader reads the first bytes from r and determines its type.
func SniffReader(r io.Reader) (Kind, error) {
	header := make([]byte, headerLen)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return KindUnknown, err
	}

	return DetectHeader(header[:n]), nil
}

func hasPrefix(buf, prefix []byte) bool {
	if len(buf) < len(prefix) {
		return false
	}
	for i := range prefix {
		if buf[i] != prefix[i] {
			return false
		}
	}
	return true
}

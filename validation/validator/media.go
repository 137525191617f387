package validator

import (
	"bytes"
	"errors"
	"io"

	"github.com/gabriel-vasile/mimetype"
)

// ErrUnsupportedMedia is returned when an upload is not an accepted image or video.
var ErrUnsupportedMedia = errors.New("unsupported media type")

// sniffLen is how much of an upload is read to detect its type.
const sniffLen = 3072

// allowedMedia lists the accepted upload types.
var allowedMedia = []string{
	"image/png",
	"image/jpeg",
	"image/gif",
	"image/webp",
	"video/mp4",
}

// Media describes an accepted upload.
type Media struct {
	MIME      string
	Extension string
	IsVideo   bool
}

// DetectMedia sniffs the content of r. It returns the detected media and a
// reader that replays the sniffed bytes followed by the rest of r.
func DetectMedia(r io.Reader) (*Media, io.Reader, error) {
	header := make([]byte, sniffLen)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, nil, err
	}
	header = header[:n]
	replay := io.MultiReader(bytes.NewReader(header), r)

	mtype := mimetype.Detect(header)
	for _, allowed := range allowedMedia {
		if mtype.Is(allowed) {
			return &Media{
				MIME:      allowed,
				Extension: mtype.Extension(),
				IsVideo:   allowed == "video/mp4",
			}, replay, nil
		}
	}
	return nil, replay, ErrUnsupportedMedia
}

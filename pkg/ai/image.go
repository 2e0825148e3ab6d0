package ai

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

type Image struct {
	MIMEType string
	Data     []byte
}

var ErrBadImage = errors.New("image_base64 is not valid base64")

// DecodeImage accepts raw base64 or a data URL ("data:image/png;base64,...").
func DecodeImage(s string) (Image, error) {
	s = strings.TrimSpace(s)
	declared := ""
	if strings.HasPrefix(s, "data:") {
		head, body, ok := strings.Cut(s, ",")
		if !ok {
			return Image{}, ErrBadImage
		}
		declared = strings.TrimSuffix(strings.TrimPrefix(head, "data:"), ";base64")
		s = body
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		if b, err = base64.RawStdEncoding.DecodeString(s); err != nil {
			return Image{}, ErrBadImage
		}
	}
	if len(b) == 0 {
		return Image{}, ErrBadImage
	}
	mime := http.DetectContentType(b)
	if !strings.HasPrefix(mime, "image/") {
		mime = declared
	}
	if mime == "" {
		mime = "image/jpeg"
	}
	return Image{MIMEType: mime, Data: b}, nil
}

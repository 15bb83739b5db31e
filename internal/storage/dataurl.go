package storage

import (
	"bytes"
	"encoding/base64"
	"net/http"
	"strings"

	"muru-backend/internal/apperr"
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// DecodeImageData base64 문자열 또는 data URL(data:image/png;base64,...)을 File로 변환
func DecodeImageData(data string) (File, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return File{}, apperr.Validation("imageData is empty")
	}

	var declared string
	if strings.HasPrefix(data, "data:") {
		comma := strings.IndexByte(data, ',')
		if comma < 0 {
			return File{}, apperr.Validation("malformed data URL")
		}
		meta := data[len("data:"):comma]
		if !strings.HasSuffix(meta, ";base64") {
			return File{}, apperr.Validation("data URL must be base64 encoded")
		}
		declared = strings.TrimSuffix(meta, ";base64")
		data = data[comma+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(data)
		if err != nil {
			return File{}, apperr.Validation("imageData is not valid base64")
		}
	}
	if len(raw) == 0 {
		return File{}, apperr.Validation("imageData is empty")
	}

	contentType := declared
	if contentType == "" {
		contentType = http.DetectContentType(raw)
	}
	// DetectContentType 결과에 charset 등이 붙을 수 있음
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}

	ext, ok := imageExtensions[strings.ToLower(contentType)]
	if !ok {
		return File{}, apperr.UnsupportedType("image type %q is not supported", contentType)
	}

	return File{
		OriginalName: "profile" + ext,
		ContentType:  contentType,
		Size:         int64(len(raw)),
		Body:         bytes.NewReader(raw),
	}, nil
}

package valueobjects

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"

	_ "golang.org/x/image/webp"

	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/failures"
)

type ImageFormat string

const (
	JPEG ImageFormat = "jpeg"
	PNG  ImageFormat = "png"
	GIF  ImageFormat = "gif"
	WEBP ImageFormat = "webp"
)

const (
	MimeTypePNG  = "image/png"
	MimeTypeJPEG = "image/jpeg"
	MimeTypeGIF  = "image/gif"
	MimeTypeWEBP = "image/webp"
)

// AcceptedMimeTypes is what the file picker offers. It is a hint, not a check.
var AcceptedMimeTypes = []string{MimeTypePNG, MimeTypeJPEG, MimeTypeWEBP}

// ImageAsset is an encoded image plus what we know about it.
// Width and height are zero when the payload could not be measured.
type ImageAsset struct {
	data     []byte
	mimeType string
	width    int
	height   int
}

// NewImageAsset wraps an already encoded payload without decoding it.
func NewImageAsset(data []byte, mimeType string) (*ImageAsset, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("image data cannot be empty")
	}
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	return &ImageAsset{
		data:     data,
		mimeType: mimeType,
	}, nil
}

// DecodeImageAsset measures the payload and derives its MIME type from the
// detected format.
func DecodeImageAsset(data []byte) (*ImageAsset, error) {
	if len(data) == 0 {
		return nil, failures.New(failures.UnreadableFile, "image data cannot be empty")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, failures.Wrap(failures.UnreadableFile, "the selected file could not be read as an image", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, failures.New(failures.UnreadableFile, fmt.Sprintf("image has invalid dimensions %dx%d", cfg.Width, cfg.Height))
	}

	return &ImageAsset{
		data:     data,
		mimeType: MimeTypeFromFormat(ImageFormat(format)),
		width:    cfg.Width,
		height:   cfg.Height,
	}, nil
}

// ParseDataURL splits "data:<mime>;base64,<payload>" and decodes the result.
func ParseDataURL(dataURL string) (*ImageAsset, error) {
	meta, payload, ok := strings.Cut(dataURL, ",")
	if !ok || !strings.HasPrefix(meta, "data:") {
		return nil, failures.New(failures.UnreadableFile, "not a data URL")
	}

	mimeType, params, _ := strings.Cut(strings.TrimPrefix(meta, "data:"), ";")
	if !strings.Contains(params, "base64") {
		return nil, failures.New(failures.UnreadableFile, "data URL is not base64 encoded")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, failures.Wrap(failures.UnreadableFile, "invalid base64 payload", err)
	}

	asset, err := DecodeImageAsset(data)
	if err != nil {
		return nil, err
	}
	// ヘッダに書かれたMIMEタイプを優先する
	if mimeType != "" {
		asset.mimeType = mimeType
	}
	return asset, nil
}

func MimeTypeFromFormat(format ImageFormat) string {
	switch format {
	case JPEG:
		return MimeTypeJPEG
	case PNG:
		return MimeTypePNG
	case GIF:
		return MimeTypeGIF
	case WEBP:
		return MimeTypeWEBP
	default:
		return "image/" + string(format)
	}
}

func (i *ImageAsset) Data() []byte {
	return i.data
}

func (i *ImageAsset) MimeType() string {
	return i.mimeType
}

func (i *ImageAsset) Width() int {
	return i.width
}

func (i *ImageAsset) Height() int {
	return i.height
}

// HasDimensions reports whether width and height were measured.
func (i *ImageAsset) HasDimensions() bool {
	return i.width > 0 && i.height > 0
}

func (i *ImageAsset) IsAcceptedType() bool {
	for _, t := range AcceptedMimeTypes {
		if t == i.mimeType {
			return true
		}
	}
	return false
}

func (i *ImageAsset) ToBase64() string {
	return base64.StdEncoding.EncodeToString(i.data)
}

func (i *ImageAsset) DataURL() string {
	return fmt.Sprintf("data:%s;base64,%s", i.mimeType, i.ToBase64())
}

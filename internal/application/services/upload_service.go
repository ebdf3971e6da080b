package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/failures"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/valueobjects"
)

const imageField = "image"

// UploadService turns an upload request into an ImageAsset. It accepts a
// multipart form with an "image" file, or a JSON body {"dataUrl": "..."}.
type UploadService struct {
	maxBytes int64
}

func NewUploadService(maxBytes int64) *UploadService {
	return &UploadService{maxBytes: maxBytes}
}

type dataURLBody struct {
	DataURL string `json:"dataUrl"`
}

func (s *UploadService) ReadImage(w http.ResponseWriter, r *http.Request) (*valueobjects.ImageAsset, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBytes)

	var (
		asset *valueobjects.ImageAsset
		err   error
	)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		asset, err = s.readDataURL(r)
	} else {
		asset, err = s.readMultipart(r)
	}
	if err != nil {
		return nil, err
	}

	// 受け付ける形式はあくまで目安
	if !asset.IsAcceptedType() {
		slog.Warn("Uploaded image type is outside the picker allow-list", "mimeType", asset.MimeType())
	}

	return asset, nil
}

func (s *UploadService) readDataURL(r *http.Request) (*valueobjects.ImageAsset, error) {
	var body dataURLBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if s.isTooLarge(err) {
			return nil, s.tooLarge()
		}
		return nil, failures.Wrap(failures.Validation, "invalid JSON body", err)
	}
	if body.DataURL == "" {
		return nil, failures.New(failures.Validation, "an image is required")
	}

	return valueobjects.ParseDataURL(body.DataURL)
}

func (s *UploadService) readMultipart(r *http.Request) (*valueobjects.ImageAsset, error) {
	if err := r.ParseMultipartForm(s.maxBytes); err != nil {
		if s.isTooLarge(err) {
			return nil, s.tooLarge()
		}
		return nil, failures.Wrap(failures.Validation, "failed to parse form data", err)
	}

	file, _, err := r.FormFile(imageField)
	if err != nil {
		return nil, failures.New(failures.Validation, "an image file is required")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, failures.Wrap(failures.UnreadableFile, "failed to read the image file", err)
	}

	return valueobjects.DecodeImageAsset(data)
}

func (s *UploadService) isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func (s *UploadService) tooLarge() error {
	return failures.New(failures.Validation, fmt.Sprintf("image is too large (limit %d MB)", s.maxBytes/(1024*1024)))
}

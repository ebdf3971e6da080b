package services

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/failures"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func multipartRequest(t *testing.T, field string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile(field, "photo.png")
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/studio/person", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadService_Multipart(t *testing.T) {
	service := NewUploadService(1 << 20)

	asset, err := service.ReadImage(httptest.NewRecorder(), multipartRequest(t, "image", testPNG(t, 21, 34)))
	require.NoError(t, err)

	assert.Equal(t, "image/png", asset.MimeType())
	assert.Equal(t, 21, asset.Width())
	assert.Equal(t, 34, asset.Height())
}

func TestUploadService_DataURL(t *testing.T) {
	service := NewUploadService(1 << 20)
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(testPNG(t, 3, 4))

	req := httptest.NewRequest(http.MethodPost, "/api/studio/clothing", strings.NewReader(`{"dataUrl":"`+dataURL+`"}`))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	asset, err := service.ReadImage(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.Equal(t, dataURL, asset.DataURL())
}

func TestUploadService_Errors(t *testing.T) {
	tests := []struct {
		name     string
		maxBytes int64
		request  func(t *testing.T) *http.Request
		wantKind failures.Kind
	}{
		{
			name:     "missing file field",
			maxBytes: 1 << 20,
			request: func(t *testing.T) *http.Request {
				return multipartRequest(t, "other", testPNG(t, 2, 2))
			},
			wantKind: failures.Validation,
		},
		{
			name:     "not an image",
			maxBytes: 1 << 20,
			request: func(t *testing.T) *http.Request {
				return multipartRequest(t, "image", []byte("hello world"))
			},
			wantKind: failures.UnreadableFile,
		},
		{
			name:     "empty json",
			maxBytes: 1 << 20,
			request: func(t *testing.T) *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
			wantKind: failures.Validation,
		},
		{
			name:     "body over the limit",
			maxBytes: 16,
			request: func(t *testing.T) *http.Request {
				return multipartRequest(t, "image", testPNG(t, 50, 50))
			},
			wantKind: failures.Validation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewUploadService(tt.maxBytes)

			asset, err := service.ReadImage(httptest.NewRecorder(), tt.request(t))

			assert.Nil(t, asset)
			assert.Equal(t, tt.wantKind, failures.KindOf(err), "error: %v", err)
		})
	}
}

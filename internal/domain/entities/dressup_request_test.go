package entities

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/valueobjects"
)

func createTestImageAsset(t *testing.T, w, h int) *valueobjects.ImageAsset {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}

	asset, err := valueobjects.DecodeImageAsset(buf.Bytes())
	if err != nil {
		t.Fatalf("Failed to create ImageAsset: %v", err)
	}

	return asset
}

func TestNewDressUpRequest(t *testing.T) {
	personImage := createTestImageAsset(t, 30, 40)
	clothing := []*valueobjects.ImageAsset{createTestImageAsset(t, 10, 10)}
	unmeasured, err := valueobjects.NewImageAsset(personImage.Data(), valueobjects.MimeTypePNG)
	if err != nil {
		t.Fatalf("NewImageAsset() error = %v", err)
	}

	tests := []struct {
		name        string
		personImage *valueobjects.ImageAsset
		clothing    []*valueobjects.ImageAsset
		wantErr     bool
	}{
		{
			name:        "valid request",
			personImage: personImage,
			clothing:    clothing,
			wantErr:     false,
		},
		{
			name:        "nil person image should fail",
			personImage: nil,
			clothing:    clothing,
			wantErr:     true,
		},
		{
			name:        "person without dimensions should fail",
			personImage: unmeasured,
			clothing:    clothing,
			wantErr:     true,
		},
		{
			name:        "no clothing should fail",
			personImage: personImage,
			clothing:    nil,
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request, err := NewDressUpRequest("", tt.personImage, tt.clothing)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewDressUpRequest() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr {
				if request.ID() == "" {
					t.Errorf("Expected non-empty ID")
				}
				if request.Model() != DefaultModel {
					t.Errorf("Expected default model, got %s", request.Model())
				}
				w, h := request.TargetSize()
				if w != 30 || h != 40 {
					t.Errorf("Expected target 30x40, got %dx%d", w, h)
				}
			}
		})
	}
}

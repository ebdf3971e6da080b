package imageproc

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/failures"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/valueobjects"
)

func newTestImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

func pngAsset(t *testing.T, w, h int) *valueobjects.ImageAsset {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, newTestImage(w, h)))
	asset, err := valueobjects.DecodeImageAsset(buf.Bytes())
	require.NoError(t, err)
	return asset
}

func jpegAsset(t *testing.T, w, h int) *valueobjects.ImageAsset {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, newTestImage(w, h), &jpeg.Options{Quality: 90}))
	asset, err := valueobjects.DecodeImageAsset(buf.Bytes())
	require.NoError(t, err)
	return asset
}

func measure(t *testing.T, asset *valueobjects.ImageAsset) (int, int) {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(asset.Data()))
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

func TestReconciler_ResizesToTarget(t *testing.T) {
	r := NewReconciler()

	tests := []struct {
		name     string
		asset    *valueobjects.ImageAsset
		wantMime string
	}{
		{name: "png keeps png", asset: pngAsset(t, 500, 750), wantMime: valueobjects.MimeTypePNG},
		{name: "jpeg keeps jpeg", asset: jpegAsset(t, 500, 750), wantMime: valueobjects.MimeTypeJPEG},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, resized, err := r.Reconcile(context.Background(), tt.asset, 512, 768)
			require.NoError(t, err)

			assert.True(t, resized)
			w, h := measure(t, out)
			assert.Equal(t, 512, w)
			assert.Equal(t, 768, h)
			assert.Equal(t, 512, out.Width())
			assert.Equal(t, 768, out.Height())
			assert.Equal(t, tt.wantMime, out.MimeType())
		})
	}
}

func TestReconciler_IdentityWhenSizesMatch(t *testing.T) {
	r := NewReconciler()
	asset := jpegAsset(t, 64, 48)

	out, resized, err := r.Reconcile(context.Background(), asset, 64, 48)
	require.NoError(t, err)

	assert.False(t, resized)
	assert.Same(t, asset, out)
	assert.Equal(t, asset.Data(), out.Data())
}

func TestReconciler_Idempotent(t *testing.T) {
	r := NewReconciler()
	asset := pngAsset(t, 30, 20)

	once, _, err := r.Reconcile(context.Background(), asset, 45, 60)
	require.NoError(t, err)

	twice, resized, err := r.Reconcile(context.Background(), once, 45, 60)
	require.NoError(t, err)

	assert.False(t, resized)
	assert.Equal(t, once.Data(), twice.Data())

	w1, h1 := measure(t, once)
	w2, h2 := measure(t, twice)
	assert.Equal(t, w1, w2)
	assert.Equal(t, h1, h2)
}

func TestReconciler_Failures(t *testing.T) {
	r := NewReconciler()

	t.Run("undecodable payload", func(t *testing.T) {
		garbage, err := valueobjects.NewImageAsset([]byte("not an image"), valueobjects.MimeTypePNG)
		require.NoError(t, err)

		_, _, err = r.Reconcile(context.Background(), garbage, 10, 10)
		assert.True(t, failures.Is(err, failures.DecodeFailed), "got %v", err)
	})

	t.Run("invalid surface size", func(t *testing.T) {
		_, _, err := r.Reconcile(context.Background(), pngAsset(t, 10, 10), 0, 10)
		assert.True(t, failures.Is(err, failures.SurfaceUnavailable), "got %v", err)
	})

	t.Run("nil asset", func(t *testing.T) {
		_, _, err := r.Reconcile(context.Background(), nil, 10, 10)
		assert.True(t, failures.Is(err, failures.DecodeFailed), "got %v", err)
	})
}

func TestEncode_WebPFallsBackToPNG(t *testing.T) {
	data, mimeType, err := encode(newTestImage(4, 4), valueobjects.MimeTypeWEBP)
	require.NoError(t, err)

	assert.Equal(t, valueobjects.MimeTypePNG, mimeType)
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

package imageproc

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"log/slog"

	"github.com/disintegration/imaging"

	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/failures"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/repositories"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/valueobjects"
)

const jpegQuality = 92

// Reconciler redraws generated images at the person photo's size when the
// model ignored the requested dimensions.
type Reconciler struct {
	resampler imaging.ResampleFilter
}

func NewReconciler() repositories.DimensionReconciler {
	return &Reconciler{resampler: imaging.Linear}
}

func (r *Reconciler) Reconcile(
	ctx context.Context,
	asset *valueobjects.ImageAsset,
	width, height int,
) (*valueobjects.ImageAsset, bool, error) {
	if asset == nil {
		return nil, false, failures.New(failures.DecodeFailed, "no image to check")
	}

	img, _, err := image.Decode(bytes.NewReader(asset.Data()))
	if err != nil {
		return nil, false, failures.Wrap(failures.DecodeFailed, "could not load the generated image to check its dimensions", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == width && bounds.Dy() == height {
		return asset, false, nil
	}

	if width <= 0 || height <= 0 {
		return nil, false, failures.New(failures.SurfaceUnavailable, fmt.Sprintf("cannot create a %dx%d surface for resizing", width, height))
	}

	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	slog.Warn("Generated image size mismatch, resizing",
		"from", fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()),
		"to", fmt.Sprintf("%dx%d", width, height))

	resized := imaging.Resize(img, width, height, r.resampler)

	data, mimeType, err := encode(resized, asset.MimeType())
	if err != nil {
		return nil, false, failures.Wrap(failures.SurfaceUnavailable, "failed to encode resized image", err)
	}

	out, err := valueobjects.DecodeImageAsset(data)
	if err != nil {
		return nil, false, failures.Wrap(failures.DecodeFailed, "resized image could not be read back", err)
	}
	if out.MimeType() != mimeType {
		return nil, false, failures.New(failures.SurfaceUnavailable, fmt.Sprintf("encoded %s but read back %s", mimeType, out.MimeType()))
	}

	return out, true, nil
}

// encode writes img in the source's format. WebP has no encoder available, so
// it falls back to PNG.
func encode(img image.Image, mimeType string) ([]byte, string, error) {
	var buf bytes.Buffer
	var err error

	switch mimeType {
	case valueobjects.MimeTypeJPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality})
	case valueobjects.MimeTypeGIF:
		err = gif.Encode(&buf, img, nil)
	default:
		mimeType = valueobjects.MimeTypePNG
		err = png.Encode(&buf, img)
	}

	if err != nil {
		return nil, "", fmt.Errorf("encoding image: %w", err)
	}
	return buf.Bytes(), mimeType, nil
}

package entities

import (
	"time"

	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/valueobjects"
)

type DressUpResult struct {
	requestID DressUpRequestID
	image     *valueobjects.ImageAsset
	resized   bool
	createdAt time.Time
}

func NewDressUpResult(requestID DressUpRequestID, image *valueobjects.ImageAsset) *DressUpResult {
	return &DressUpResult{
		requestID: requestID,
		image:     image,
		createdAt: time.Now(),
	}
}

func (r *DressUpResult) RequestID() DressUpRequestID {
	return r.requestID
}

func (r *DressUpResult) Image() *valueobjects.ImageAsset {
	return r.image
}

// SetImage replaces the image after reconciliation.
func (r *DressUpResult) SetImage(image *valueobjects.ImageAsset, resized bool) {
	r.image = image
	r.resized = resized
}

// Resized reports whether the image had to be redrawn at the target size.
func (r *DressUpResult) Resized() bool {
	return r.resized
}

func (r *DressUpResult) CreatedAt() time.Time {
	return r.createdAt
}

func (r *DressUpResult) HasImage() bool {
	return r.image != nil
}

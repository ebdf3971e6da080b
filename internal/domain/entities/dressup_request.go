package entities

import (
	"fmt"
	"time"

	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/valueobjects"
)

const DefaultModel = "gemini-2.5-flash-image"

type DressUpRequestID string

type DressUpRequest struct {
	id            DressUpRequestID
	model         string
	prompt        string
	personImage   *valueobjects.ImageAsset
	clothingItems []*valueobjects.ImageAsset
	createdAt     time.Time
}

func NewDressUpRequest(
	model string,
	personImage *valueobjects.ImageAsset,
	clothingItems []*valueobjects.ImageAsset,
) (*DressUpRequest, error) {
	if personImage == nil {
		return nil, fmt.Errorf("person image is required")
	}

	if !personImage.HasDimensions() {
		return nil, fmt.Errorf("person image dimensions are unknown")
	}

	if len(clothingItems) == 0 {
		return nil, fmt.Errorf("at least one clothing item is required")
	}

	if model == "" {
		model = DefaultModel
	}

	id := DressUpRequestID(fmt.Sprintf("req_%d", time.Now().UnixNano()))

	return &DressUpRequest{
		id:            id,
		model:         model,
		personImage:   personImage,
		clothingItems: clothingItems,
		createdAt:     time.Now(),
	}, nil
}

func (r *DressUpRequest) ID() DressUpRequestID {
	return r.id
}

func (r *DressUpRequest) Model() string {
	return r.model
}

func (r *DressUpRequest) Prompt() string {
	return r.prompt
}

func (r *DressUpRequest) SetPrompt(prompt string) {
	r.prompt = prompt
}

func (r *DressUpRequest) PersonImage() *valueobjects.ImageAsset {
	return r.personImage
}

func (r *DressUpRequest) ClothingItems() []*valueobjects.ImageAsset {
	return r.clothingItems
}

// TargetSize is the size the generated image must have.
func (r *DressUpRequest) TargetSize() (width, height int) {
	return r.personImage.Width(), r.personImage.Height()
}

func (r *DressUpRequest) CreatedAt() time.Time {
	return r.createdAt
}

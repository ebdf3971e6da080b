package entities

import (
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/valueobjects"
)

// ClothingItemID is the creation time in nanoseconds, unique within a studio.
type ClothingItemID int64

type ClothingItem struct {
	id    ClothingItemID
	image *valueobjects.ImageAsset
}

func NewClothingItem(id ClothingItemID, image *valueobjects.ImageAsset) *ClothingItem {
	return &ClothingItem{
		id:    id,
		image: image,
	}
}

func (c *ClothingItem) ID() ClothingItemID {
	return c.id
}

func (c *ClothingItem) Image() *valueobjects.ImageAsset {
	return c.image
}

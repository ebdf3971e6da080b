package model

import (
	"strconv"

	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/entities"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/valueobjects"
)

// StudioResponse is the JSON the page renders from.
type StudioResponse struct {
	Success       bool               `json:"success"`
	PersonImage   *Image             `json:"personImage,omitempty"`
	ClothingItems []ClothingItem     `json:"clothingItems"`
	Generation    GenerationResponse `json:"generation"`
	CanGenerate   bool               `json:"canGenerate"`
}

type Image struct {
	Type   string `json:"type"`
	Data   string `json:"data"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

type ClothingItem struct {
	// 文字列で返す（JSの数値精度を超えるため）
	ID    string `json:"id"`
	Image Image  `json:"image"`
}

type GenerationResponse struct {
	Status string `json:"status"`
	Image  *Image `json:"image,omitempty"`
	Error  string `json:"error,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
}

func NewImage(asset *valueobjects.ImageAsset) *Image {
	if asset == nil {
		return nil
	}
	return &Image{
		Type:   asset.MimeType(),
		Data:   asset.ToBase64(),
		Width:  asset.Width(),
		Height: asset.Height(),
	}
}

func NewStudioResponse(snap entities.StudioSnapshot) StudioResponse {
	items := make([]ClothingItem, 0, len(snap.ClothingItems))
	for _, item := range snap.ClothingItems {
		items = append(items, ClothingItem{
			ID:    strconv.FormatInt(int64(item.ID()), 10),
			Image: *NewImage(item.Image()),
		})
	}

	return StudioResponse{
		Success:       true,
		PersonImage:   NewImage(snap.PersonImage),
		ClothingItems: items,
		Generation: GenerationResponse{
			Status: string(snap.Generation.Status),
			Image:  NewImage(snap.Generation.Image),
			Error:  snap.Generation.Error,
		},
		CanGenerate: snap.CanGenerate(),
	}
}

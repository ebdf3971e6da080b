package repositories

import (
	"context"

	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/entities"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/valueobjects"
)

// 画像生成（着せ替え）サービス
type ImageGenerationService interface {
	GenerateDressUp(ctx context.Context, request *entities.DressUpRequest) (*entities.DressUpResult, error)
}

// 生成画像のサイズ補正
type DimensionReconciler interface {
	// Reconcile returns image unchanged when it already measures width x height,
	// otherwise a redrawn copy of exactly that size. The bool reports a resize.
	Reconcile(ctx context.Context, image *valueobjects.ImageAsset, width, height int) (*valueobjects.ImageAsset, bool, error)
}

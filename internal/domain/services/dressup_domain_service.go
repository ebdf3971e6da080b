package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/entities"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/failures"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/repositories"
)

type DressUpDomainService struct {
	generator  repositories.ImageGenerationService
	reconciler repositories.DimensionReconciler
}

func NewDressUpDomainService(
	generator repositories.ImageGenerationService,
	reconciler repositories.DimensionReconciler,
) *DressUpDomainService {
	return &DressUpDomainService{
		generator:  generator,
		reconciler: reconciler,
	}
}

// ProcessDressUp generates the dressed-up image and makes sure it has the
// person photo's exact size.
func (s *DressUpDomainService) ProcessDressUp(ctx context.Context, request *entities.DressUpRequest) (*entities.DressUpResult, error) {
	if err := s.validateRequest(request); err != nil {
		return nil, err
	}

	width, height := request.TargetSize()
	request.SetPrompt(BuildDressUpPrompt(width, height))

	result, err := s.generator.GenerateDressUp(ctx, request)
	if err != nil {
		if failures.IsQuota(err) {
			return nil, fmt.Errorf("service temporarily unavailable due to high demand: %w", err)
		}
		return nil, err
	}

	if !result.HasImage() {
		return nil, failures.New(failures.NoImageData, "No image was generated. The model's response did not contain image data.")
	}

	image, resized, err := s.reconciler.Reconcile(ctx, result.Image(), width, height)
	if err != nil {
		return nil, err
	}
	result.SetImage(image, resized)

	slog.Info("ProcessDressUp",
		"requestID", request.ID(),
		"width", width,
		"height", height,
		"resized", resized,
		"elapsed", result.CreatedAt().Sub(request.CreatedAt()).Round(time.Millisecond),
	)

	return result, nil
}

func (s *DressUpDomainService) validateRequest(request *entities.DressUpRequest) error {
	if request == nil || request.PersonImage() == nil || len(request.ClothingItems()) == 0 {
		return failures.New(failures.Validation, entities.MissingInputsMessage)
	}

	if !request.PersonImage().HasDimensions() {
		return failures.New(failures.Validation, "person image dimensions are unknown")
	}

	return nil
}

package usecases

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/entities"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/failures"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/repositories"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/services"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/valueobjects"
)

type DressUpUseCase struct {
	studioRepo    repositories.StudioRepository
	domainService *services.DressUpDomainService
	model         string
}

func NewDressUpUseCase(
	studioRepo repositories.StudioRepository,
	domainService *services.DressUpDomainService,
	model string,
) *DressUpUseCase {
	return &DressUpUseCase{
		studioRepo:    studioRepo,
		domainService: domainService,
		model:         model,
	}
}

func (uc *DressUpUseCase) Snapshot(ctx context.Context, sessionID repositories.SessionID) (entities.StudioSnapshot, error) {
	studio, err := uc.studioRepo.FindOrCreate(ctx, sessionID)
	if err != nil {
		return entities.StudioSnapshot{}, err
	}
	return studio.Snapshot(), nil
}

func (uc *DressUpUseCase) SetPersonImage(ctx context.Context, sessionID repositories.SessionID, image *valueobjects.ImageAsset) (entities.StudioSnapshot, error) {
	studio, err := uc.studioRepo.FindOrCreate(ctx, sessionID)
	if err != nil {
		return entities.StudioSnapshot{}, err
	}
	if err := studio.SetPersonImage(image); err != nil {
		return entities.StudioSnapshot{}, err
	}
	return studio.Snapshot(), nil
}

func (uc *DressUpUseCase) RemovePersonImage(ctx context.Context, sessionID repositories.SessionID) (entities.StudioSnapshot, error) {
	studio, err := uc.studioRepo.FindOrCreate(ctx, sessionID)
	if err != nil {
		return entities.StudioSnapshot{}, err
	}
	studio.RemovePersonImage()
	return studio.Snapshot(), nil
}

func (uc *DressUpUseCase) AddClothingItem(ctx context.Context, sessionID repositories.SessionID, image *valueobjects.ImageAsset) (*entities.ClothingItem, error) {
	studio, err := uc.studioRepo.FindOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return studio.AddClothingItem(image)
}

func (uc *DressUpUseCase) RemoveClothingItem(ctx context.Context, sessionID repositories.SessionID, id entities.ClothingItemID) (entities.StudioSnapshot, error) {
	studio, err := uc.studioRepo.FindOrCreate(ctx, sessionID)
	if err != nil {
		return entities.StudioSnapshot{}, err
	}
	if err := studio.RemoveClothingItem(id); err != nil {
		return entities.StudioSnapshot{}, err
	}
	return studio.Snapshot(), nil
}

// Subscribe forwards every change of the session's studio to fn until the
// returned func is called.
func (uc *DressUpUseCase) Subscribe(ctx context.Context, sessionID repositories.SessionID, fn entities.Observer) (func(), error) {
	studio, err := uc.studioRepo.FindOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return studio.Subscribe(fn), nil
}

// Reset drops the session's studio. A session without a studio is already reset.
func (uc *DressUpUseCase) Reset(ctx context.Context, sessionID repositories.SessionID) error {
	if _, err := uc.studioRepo.FindByID(ctx, sessionID); err != nil {
		if failures.Is(err, failures.NotFound) {
			return nil
		}
		return err
	}
	return uc.studioRepo.Delete(ctx, sessionID)
}

// Generate runs one generation for the session. Input errors leave the
// generation state alone; every later error ends in the Failed state and is
// also returned so the caller can choose a status code.
func (uc *DressUpUseCase) Generate(ctx context.Context, sessionID repositories.SessionID) (snap entities.StudioSnapshot, err error) {
	studio, err := uc.studioRepo.FindOrCreate(ctx, sessionID)
	if err != nil {
		return entities.StudioSnapshot{}, err
	}

	person, clothing, err := studio.BeginGeneration()
	if err != nil {
		return studio.Snapshot(), err
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("Generation panicked", "session", sessionID, "panic", r)
			err = fmt.Errorf("an unexpected error occurred, please try again: %v", r)
			studio.FailGeneration(err.Error())
			snap = studio.Snapshot()
		}
	}()

	request, err := entities.NewDressUpRequest(uc.model, person, clothing)
	if err != nil {
		studio.FailGeneration(err.Error())
		return studio.Snapshot(), err
	}

	// 実行中の生成はキャンセルしない
	result, err := uc.domainService.ProcessDressUp(context.WithoutCancel(ctx), request)
	if err != nil {
		slog.Error("Dress up failed", "session", sessionID, "requestID", request.ID(), "error", err)
		studio.FailGeneration(err.Error())
		return studio.Snapshot(), err
	}

	studio.CompleteGeneration(result.Image())
	return studio.Snapshot(), nil
}

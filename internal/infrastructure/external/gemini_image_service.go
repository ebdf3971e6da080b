package external

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/entities"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/failures"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/repositories"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/valueobjects"
)

const imageModality = "IMAGE"

// ContentGenerator is the part of genai.Models this service calls.
// client.Models satisfies it.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type GeminiImageService struct {
	models ContentGenerator
}

func NewGeminiImageService(models ContentGenerator) repositories.ImageGenerationService {
	return &GeminiImageService{
		models: models,
	}
}

func (s *GeminiImageService) GenerateDressUp(ctx context.Context, request *entities.DressUpRequest) (*entities.DressUpResult, error) {
	if request == nil || request.PersonImage() == nil {
		return nil, failures.New(failures.Validation, "person image is required")
	}

	slog.Info("GenerateDressUp", "model", request.Model(), "clothingCount", len(request.ClothingItems()))

	// 人物画像 → 衣服画像 → 指示テキストの順に並べる
	parts := []*genai.Part{
		genai.NewPartFromBytes(request.PersonImage().Data(), request.PersonImage().MimeType()),
	}
	for _, item := range request.ClothingItems() {
		parts = append(parts, genai.NewPartFromBytes(item.Data(), item.MimeType()))
	}
	parts = append(parts, genai.NewPartFromText(request.Prompt()))

	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	resp, err := s.models.GenerateContent(
		ctx,
		request.Model(),
		contents,
		&genai.GenerateContentConfig{
			ResponseModalities: []string{imageModality},
		},
	)
	if err != nil {
		slog.Error("Gemini API call failed", "error", err)
		return nil, failures.Wrap(failures.GenerationFailed, "failed to generate image", err)
	}

	image, err := parseImageResponse(resp)
	if err != nil {
		slog.Warn("No image in Gemini response", "kind", failures.KindOf(err), "error", err)
		return nil, err
	}

	return entities.NewDressUpResult(request.ID(), image), nil
}

// parseImageResponse picks the first image out of the first candidate.
func parseImageResponse(resp *genai.GenerateContentResponse) (*valueobjects.ImageAsset, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if reason := blockReason(resp); reason != "" {
			return nil, failures.New(failures.ContentBlocked,
				fmt.Sprintf("Request blocked due to safety settings: %s. Please try with different images.", reason))
		}
		return nil, failures.New(failures.EmptyResponse,
			"The model did not return any content. This could be due to the prompt or safety filters.")
	}

	candidate := resp.Candidates[0]
	var parts []*genai.Part
	if candidate != nil && candidate.Content != nil {
		parts = candidate.Content.Parts
	}

	slog.Info("Gemini API response", "candidatesCount", len(resp.Candidates), "partsCount", len(parts))

	for _, part := range parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}

		slog.Info("Processing image data", "mimeType", part.InlineData.MIMEType, "dataSize", len(part.InlineData.Data))

		// 寸法が取れればそれを使い、取れなければそのまま返してサイズ補正側で判定する
		if image, err := valueobjects.DecodeImageAsset(part.InlineData.Data); err == nil {
			return image, nil
		}
		image, err := valueobjects.NewImageAsset(part.InlineData.Data, part.InlineData.MIMEType)
		if err != nil {
			return nil, failures.Wrap(failures.NoImageData, "failed to create image data", err)
		}
		return image, nil
	}

	for _, part := range parts {
		if part != nil && part.Text != "" {
			return nil, failures.New(failures.ModelReturnedText,
				fmt.Sprintf("The model returned a text message instead of an image: \"%s\"", part.Text))
		}
	}

	return nil, failures.New(failures.NoImageData,
		"No image was generated. The model's response did not contain image data.")
}

func blockReason(resp *genai.GenerateContentResponse) string {
	if resp == nil || resp.PromptFeedback == nil {
		return ""
	}
	reason := string(resp.PromptFeedback.BlockReason)
	if reason == "" || reason == string(genai.BlockedReasonUnspecified) {
		return ""
	}
	return strings.ReplaceAll(strings.ToLower(reason), "_", " ")
}

package external

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/entities"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/failures"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/valueobjects"
)

type fakeModels struct {
	resp     *genai.GenerateContentResponse
	err      error
	calls    int
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.contents = contents
	f.config = config
	return f.resp, f.err
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func newRequest(t *testing.T) *entities.DressUpRequest {
	t.Helper()
	person, err := valueobjects.DecodeImageAsset(pngBytes(t, 40, 60))
	require.NoError(t, err)
	shirt, err := valueobjects.DecodeImageAsset(pngBytes(t, 10, 10))
	require.NoError(t, err)
	hat, err := valueobjects.DecodeImageAsset(pngBytes(t, 8, 8))
	require.NoError(t, err)

	request, err := entities.NewDressUpRequest("", person, []*valueobjects.ImageAsset{shirt, hat})
	require.NoError(t, err)
	request.SetPrompt("dress them up")
	return request
}

func candidateWith(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: parts, Role: "model"}},
		},
	}
}

func TestGeminiImageService_BuildsRequest(t *testing.T) {
	models := &fakeModels{resp: candidateWith(genai.NewPartFromBytes(pngBytes(t, 40, 60), "image/png"))}
	service := NewGeminiImageService(models)
	request := newRequest(t)

	result, err := service.GenerateDressUp(context.Background(), request)
	require.NoError(t, err)

	assert.Equal(t, 1, models.calls)
	assert.Equal(t, entities.DefaultModel, models.model)
	assert.Equal(t, []string{"IMAGE"}, models.config.ResponseModalities)

	require.Len(t, models.contents, 1)
	parts := models.contents[0].Parts
	require.Len(t, parts, 4)
	assert.Equal(t, request.PersonImage().Data(), parts[0].InlineData.Data)
	assert.Equal(t, request.ClothingItems()[0].Data(), parts[1].InlineData.Data)
	assert.Equal(t, request.ClothingItems()[1].Data(), parts[2].InlineData.Data)
	assert.Equal(t, "dress them up", parts[3].Text)

	assert.Equal(t, request.ID(), result.RequestID())
	assert.Equal(t, "image/png", result.Image().MimeType())
	assert.Equal(t, 40, result.Image().Width())
}

func TestGeminiImageService_ResponseHandling(t *testing.T) {
	tests := []struct {
		name        string
		resp        *genai.GenerateContentResponse
		err         error
		wantKind    failures.Kind
		wantMessage string
	}{
		{
			name: "blocked for safety",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: genai.BlockedReasonSafety},
			},
			wantKind:    failures.ContentBlocked,
			wantMessage: "safety",
		},
		{
			name: "blocked with multi word reason",
			resp: &genai.GenerateContentResponse{
				PromptFeedback: &genai.GenerateContentResponsePromptFeedback{BlockReason: "PROHIBITED_CONTENT"},
			},
			wantKind:    failures.ContentBlocked,
			wantMessage: "prohibited content",
		},
		{
			name:        "no candidates and no reason",
			resp:        &genai.GenerateContentResponse{},
			wantKind:    failures.EmptyResponse,
			wantMessage: "did not return any content",
		},
		{
			name:        "nil response",
			resp:        nil,
			wantKind:    failures.EmptyResponse,
			wantMessage: "did not return any content",
		},
		{
			name:        "text only",
			resp:        candidateWith(genai.NewPartFromText("I can't edit photos of this kind.")),
			wantKind:    failures.ModelReturnedText,
			wantMessage: "I can't edit photos of this kind.",
		},
		{
			name:        "empty candidate",
			resp:        candidateWith(),
			wantKind:    failures.NoImageData,
			wantMessage: "did not contain image data",
		},
		{
			name:        "transport error",
			err:         errors.New("Error 403, Message: API key not valid"),
			wantKind:    failures.GenerationFailed,
			wantMessage: "API key not valid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewGeminiImageService(&fakeModels{resp: tt.resp, err: tt.err})

			result, err := service.GenerateDressUp(context.Background(), newRequest(t))

			assert.Nil(t, result)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, failures.KindOf(err))
			assert.True(t, strings.Contains(err.Error(), tt.wantMessage), "message %q should contain %q", err.Error(), tt.wantMessage)
		})
	}
}

func TestGeminiImageService_ImageWinsOverText(t *testing.T) {
	resp := candidateWith(
		genai.NewPartFromText("Here is your image"),
		genai.NewPartFromBytes(pngBytes(t, 5, 5), "image/png"),
	)
	service := NewGeminiImageService(&fakeModels{resp: resp})

	result, err := service.GenerateDressUp(context.Background(), newRequest(t))
	require.NoError(t, err)
	assert.True(t, result.HasImage())
}

func TestGeminiImageService_UndecodableImageIsStillReturned(t *testing.T) {
	resp := candidateWith(genai.NewPartFromBytes([]byte("opaque"), "image/png"))
	service := NewGeminiImageService(&fakeModels{resp: resp})

	result, err := service.GenerateDressUp(context.Background(), newRequest(t))
	require.NoError(t, err)
	assert.Equal(t, "image/png", result.Image().MimeType())
	assert.False(t, result.Image().HasDimensions())
}

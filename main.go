package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"slices"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"gopkg.in/natefinch/lumberjack.v2"

	appservices "github.com/Dichobeauty/Gemini-Dress-Up/internal/application/services"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/application/usecases"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/config"
	domainrepos "github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/repositories"
	domainservices "github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/services"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/infrastructure/api"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/infrastructure/external"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/infrastructure/imageproc"
	"github.com/Dichobeauty/Gemini-Dress-Up/internal/infrastructure/repositories"
	infraservices "github.com/Dichobeauty/Gemini-Dress-Up/internal/infrastructure/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[boot] %v", err)
	}
	setupLogging(cfg)

	log.Printf("[boot] Using MODEL=%s", cfg.Model)
	log.Printf("[boot] CORS_ALLOWED_ORIGINS=%v MAX_UPLOAD_BYTES=%d", cfg.AllowedOrigins, cfg.MaxUploadBytes)

	// インフラ層を初期化
	clientPool := infraservices.NewGenAIClientPool(&domainrepos.AIClientConfig{APIKey: cfg.APIKey})
	defer clientPool.Close()

	client, err := clientPool.GetGenAIClient(context.Background())
	if err != nil {
		log.Fatalf("Failed to create GenAI client: %v", err)
	}

	handler := newHandler(cfg, external.NewGeminiImageService(client.Models))

	log.Printf("Starting server on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// newHandler wires the layers around generator and returns the CORS-wrapped router.
func newHandler(cfg *config.Config, generator domainrepos.ImageGenerationService) http.Handler {
	studioRepository := repositories.NewMemoryStudioRepository()

	// ドメイン層を初期化
	dressUpDomainService := domainservices.NewDressUpDomainService(generator, imageproc.NewReconciler())

	// アプリケーション層を初期化
	dressUpUseCase := usecases.NewDressUpUseCase(studioRepository, dressUpDomainService, cfg.Model)
	uploadService := appservices.NewUploadService(cfg.MaxUploadBytes)

	// API層を初期化
	dressUpHandler := api.NewDressUpHandler(dressUpUseCase, uploadService, cfg.Model)

	// ルートを設定
	r := mux.NewRouter()
	dressUpHandler.RegisterRoutes(r)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		// ブラウザは "*" に対してCookie付きリクエストを許可しない
		AllowCredentials: !allowsAnyOrigin(cfg.AllowedOrigins),
	})
	return c.Handler(r)
}

func allowsAnyOrigin(origins []string) bool {
	return slices.Contains(origins, "*")
}

// setupLogging mirrors log output (and slog's default handler, which writes
// through the log package) into a size-rotated file when LOG_FILE is set.
func setupLogging(cfg *config.Config) {
	if cfg.LogFile == "" {
		return
	}
	log.SetOutput(io.MultiWriter(os.Stderr, &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    10, // MB
		MaxBackups: 2,
		MaxAge:     28, // days
		Compress:   true,
	}))
	log.Printf("[boot] Writing logs to %s", cfg.LogFile)
}

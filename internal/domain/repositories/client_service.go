package repositories

import (
	"context"

	"google.golang.org/genai"
)

// AIクライアント共通設定
type AIClientConfig struct {
	APIKey string
}

// GenAI Client Pool Service
// 画像生成で使用するGenAIクライアントを遅延生成して共有する
type GenAIClientPool interface {
	GetGenAIClient(ctx context.Context) (*genai.Client, error)

	Close() error
}

package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Dichobeauty/Gemini-Dress-Up/internal/domain/valueobjects"
)

// 「images」ディレクトリの画像を /api/studio/person や /api/studio/clothing に
// そのまま送れるJSON ({"dataUrl": "..."}) に変換して「encoded」に保存する
func main() {
	files, err := os.ReadDir("images")
	if err != nil {
		log.Fatal(err)
	}

	if err := os.MkdirAll("encoded", 0o755); err != nil {
		log.Fatal(err)
	}

	validExtensions := []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}

	for _, file := range files {
		if !slices.Contains(validExtensions, strings.ToLower(filepath.Ext(file.Name()))) {
			continue
		}

		body, err := encode(filepath.Join("images", file.Name()))
		if err != nil {
			log.Printf("skip %s: %v", file.Name(), err)
			continue
		}

		name := strings.TrimSuffix(file.Name(), filepath.Ext(file.Name()))
		if err := os.WriteFile(filepath.Join("encoded", name+".json"), body, 0o644); err != nil {
			log.Fatal(err)
		}
		log.Printf("encoded %s", file.Name())
	}
}

func encode(file string) ([]byte, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	asset, err := valueobjects.DecodeImageAsset(data)
	if err != nil {
		return nil, err
	}

	return json.Marshal(map[string]string{"dataUrl": asset.DataURL()})
}

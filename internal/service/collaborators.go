package service

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=service

import (
	"context"

	"alcyxob/tritrack/internal/inference"
	"alcyxob/tritrack/internal/nutrition"
)

// Inference is the language model provider used for coaching and plan photo parsing.
type Inference interface {
	Chat(ctx context.Context, messages []inference.Message) (string, error)
	ParseImage(ctx context.Context, image []byte, mimeType string, hints inference.ParseHints) (string, error)
}

// FoodAnalyzer turns a free text meal description into nutrition totals.
type FoodAnalyzer interface {
	Analyze(ctx context.Context, description string) (*nutrition.Analysis, error)
}

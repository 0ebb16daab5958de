package services

import (
	"context"
	"log"
	"strings"
	"time"

	"civicBack/internal/models"
)

const classifierTimeout = 10 * time.Second

// ClassifierService asks the language model to pick a complaint
// category from the submitted title and description. Any failure falls
// back to "other": classification is advisory and must never block a
// submission.
type ClassifierService struct {
	Client *OpenAIClient
	Model  string
}

const classifierPrompt = `You classify citizen complaints about civic issues.
Reply with exactly one of: road_maintenance, streetlights, waste_management,
water_supply, drainage, parks, traffic, noise_pollution, other.
Reply with the label only, nothing else.`

func (s *ClassifierService) SuggestCategory(ctx context.Context, title, description string) string {
	if s == nil || s.Client == nil {
		return models.CategoryOther
	}

	llmCtx, cancel := context.WithTimeout(ctx, classifierTimeout)
	defer cancel()

	resp, err := s.Client.Complete(llmCtx, ChatCompletionRequest{
		Model: s.Model,
		Messages: []ChatMessage{
			{Role: "system", Content: classifierPrompt},
			{Role: "user", Content: title + "\n\n" + description},
		},
		Temperature: 0,
	})
	if err != nil {
		log.Printf("classifier: completion failed, defaulting to other: %v", err)
		return models.CategoryOther
	}

	category := strings.ToLower(strings.TrimSpace(resp.Content))
	if _, ok := models.Categories[category]; !ok {
		return models.CategoryOther
	}
	return category
}

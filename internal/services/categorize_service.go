package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"braindump_backend/internal/logger"
	"braindump_backend/internal/models"
	"braindump_backend/internal/services/dto"
)

const categorizeSystemPrompt = `You are a thought classifier for a note-capture app. The user sends a raw brain dump. Respond ONLY with a JSON array of items, one per distinct thought. Split the input into multiple items when it contains multiple distinct thoughts. Each item has:
- "category": one of "task", "reminder", "note", "idea", or a short lowercase label you invent when none fits
- "refinedText": a cleaned-up version of the thought
- "priority": "high", "medium" or "low" (optional)
- "tags": up to 3 short lowercase tags (optional)
Do not add any text outside the JSON array.`

const maxTagsPerItem = 3

// CategorizeService turns one free-text submission into one or more
// structured items. Process never fails: any upstream or parse problem
// degrades to a single fallback item, so the caller always receives at
// least one item for non-empty input.
type CategorizeService interface {
	Process(ctx context.Context, text string) []dto.DumpItem
}

type CategorizeConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

type CategorizeServiceImpl struct {
	config CategorizeConfig
	client *http.Client
}

func NewCategorizeService(config CategorizeConfig) CategorizeService {
	return &CategorizeServiceImpl{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (s *CategorizeServiceImpl) Process(ctx context.Context, text string) []dto.DumpItem {
	if s.config.APIKey == "" {
		logger.CtxWarn(ctx, "AI API key not configured, using fallback categorization")
		return fallbackItems(text)
	}

	content, err := s.complete(ctx, text)
	if err != nil {
		// Single failure falls back immediately, no retries.
		logger.CtxWithError(ctx, "categorization call failed, using fallback", err)
		return fallbackItems(text)
	}

	items, err := parseItems(content)
	if err != nil {
		logger.CtxWithError(ctx, "failed to parse categorization response, using fallback", err,
			"content_len", len(content))
		return fallbackItems(text)
	}

	return normalizeItems(items, text)
}

func (s *CategorizeServiceImpl) complete(ctx context.Context, text string) (string, error) {
	reqBody := chatCompletionRequest{
		Model: s.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: categorizeSystemPrompt},
			{Role: "user", Content: text},
		},
		Temperature: 0.2,
	}

	bodyJSON, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.BaseURL+"/chat/completions", bytes.NewReader(bodyJSON))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion endpoint returned HTTP %d", resp.StatusCode)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", fmt.Errorf("invalid completion response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("completion response contained no choices")
	}

	return completion.Choices[0].Message.Content, nil
}

// parseItems extracts the item array from the model output, which may be
// wrapped in a ```json fenced block.
func parseItems(content string) ([]dto.DumpItem, error) {
	cleaned := stripCodeFence(content)

	var items []dto.DumpItem
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		// Some models wrap the array in an {"items": [...]} object.
		var envelope dto.ProcessResult
		if envErr := json.Unmarshal([]byte(cleaned), &envelope); envErr == nil && len(envelope.Items) > 0 {
			return envelope.Items, nil
		}
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("model returned an empty item list")
	}
	return items, nil
}

// stripCodeFence removes a leading/trailing markdown fence (```json or ```).
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// normalizeItems enforces the response contract: category never empty,
// refined text never empty, at most 3 tags.
func normalizeItems(items []dto.DumpItem, original string) []dto.DumpItem {
	out := make([]dto.DumpItem, 0, len(items))
	for _, item := range items {
		item.Category = strings.TrimSpace(strings.ToLower(item.Category))
		if item.Category == "" {
			item.Category = models.CategoryFallback
		}
		if strings.TrimSpace(item.RefinedText) == "" {
			item.RefinedText = original
		}
		if len(item.Tags) > maxTagsPerItem {
			item.Tags = item.Tags[:maxTagsPerItem]
		}
		out = append(out, item)
	}
	if len(out) == 0 {
		return fallbackItems(original)
	}
	return out
}

// fallbackItems is the guaranteed non-empty degradation path: the original
// text unchanged, categorized as a note with medium priority.
func fallbackItems(text string) []dto.DumpItem {
	return []dto.DumpItem{
		{
			Category:    models.CategoryFallback,
			RefinedText: text,
			Priority:    "medium",
		},
	}
}

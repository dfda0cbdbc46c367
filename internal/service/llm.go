package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/n-OlegS/dnrbot/internal/config"
)

// SummarizerService generates chat summaries through an OpenAI-compatible
// chat-completions endpoint. The system instructions are loaded once from
// the prompt file at construction.
type SummarizerService struct {
	apiKey       string
	baseURL      string
	model        string
	instructions string
	httpClient   *http.Client
}

func NewSummarizerService(cfg *config.Config) (*SummarizerService, error) {
	instructions, err := os.ReadFile(cfg.PromptPath)
	if err != nil {
		return nil, fmt.Errorf("read prompt file: %w", err)
	}

	return &SummarizerService{
		apiKey:       cfg.OpenAIKey,
		baseURL:      cfg.OpenAIBaseURL,
		model:        cfg.SummaryModel,
		instructions: string(instructions),
		httpClient:   &http.Client{Timeout: config.SummaryTimeout},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Summarize turns the concatenated chat log into a summary. An empty
// corpus is passed through as-is; the model owns that case.
func (s *SummarizerService) Summarize(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: s.instructions},
			{Role: "user", Content: prompt},
		},
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var result chatResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	if result.Error != nil {
		return "", fmt.Errorf("completion error: %s", result.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion status %d", resp.StatusCode)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}

	return result.Choices[0].Message.Content, nil
}

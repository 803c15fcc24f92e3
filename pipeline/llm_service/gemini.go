package llm_service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

type GeminiService struct {
	httpClient *http.Client
	logger     *slog.Logger
}

func NewGeminiService(logger *slog.Logger, timeout time.Duration) *GeminiService {
	return &GeminiService{
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (s *GeminiService) CallLLM(ctx context.Context, config map[string]interface{}, prompt string) (string, error) {
	apiURL, ok := config["api_url"].(string)
	if !ok {
		return "", fmt.Errorf("api_url not found in config")
	}

	apiKey, ok := config["api_key"].(string)
	if !ok {
		return "", fmt.Errorf("api_key not found in config")
	}

	url := fmt.Sprintf("%s?key=%s", apiURL, apiKey)

	params, ok := config["parameters"].(map[string]interface{})
	if !ok {
		params = make(map[string]interface{})
	}

	responseMimeType, ok := params["response_mime_type"].(string)
	if !ok {
		responseMimeType = "text/plain"
	}

	payload := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"role": "user",
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":      safeParseFloat(params["temperature"], 1.0),
			"topK":             safeParseFloat(params["top_k"], 64.0),
			"topP":             safeParseFloat(params["top_p"], 0.95),
			"maxOutputTokens":  safeParseFloat(params["max_tokens"], 8192.0),
			"responseMimeType": responseMimeType,
		},
	}

	requestBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("error marshaling request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("Gemini API returned non-200 status",
			slog.Int("status", resp.StatusCode),
			slog.String("body", truncateForLog(string(body))))
		return "", fmt.Errorf("Gemini API error (HTTP %d)", resp.StatusCode)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("error unmarshaling response: %w", err)
	}

	candidates, ok := result["candidates"].([]interface{})
	if !ok || len(candidates) == 0 {
		return "", fmt.Errorf("unexpected response format from Gemini API")
	}

	firstCandidate, ok := candidates[0].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected candidate format in Gemini API response")
	}

	content, ok := firstCandidate["content"].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("content not found in Gemini API response")
	}

	parts, ok := content["parts"].([]interface{})
	if !ok || len(parts) == 0 {
		return "", fmt.Errorf("parts not found in Gemini API response")
	}

	firstPart, ok := parts[0].(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("unexpected part format in Gemini API response")
	}

	text, ok := firstPart["text"].(string)
	if !ok {
		return "", fmt.Errorf("text not found in Gemini API response")
	}

	return text, nil
}

func safeParseFloat(v interface{}, fallback float64) float64 {
	f, ok := v.(float64)
	if !ok {
		return fallback
	}
	return f
}

func truncateForLog(s string) string {
	const max = 512
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

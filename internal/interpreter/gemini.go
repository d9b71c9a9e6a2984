package interpreter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// promptTemplate instructs the model to answer with strictly the JSON
// shape the coercion step expects, and nothing else.
const promptTemplate = `You are a professional dream interpreter. Analyze the following dream.

Dream title: %s
Dream content: %s

Respond with ONLY a JSON object in exactly this shape, with no surrounding prose:

{
  "analysis": "an overall reading of the dream, written in a warm and empathetic tone",
  "symbols": [
    {
      "symbol": "name of the symbol",
      "meaning": "what it stands for",
      "significance": "high"
    }
  ],
  "mood": "positive",
  "themes": ["theme"]
}

Rules:
1. Interpret as best you can even if the dream content is thin.
2. symbols holds at most 4 entries; significance is one of "high", "medium", "low".
3. mood is exactly one of "positive", "negative", "neutral".
4. themes holds at most 3 entries.
5. Output valid JSON only, with no other text.`

// Client produces raw interpretation text for a dream. The response is
// untrusted model output; callers run it through ParseDraft.
type Client interface {
	Interpret(ctx context.Context, title, content string) (string, error)
}

// GeminiClient calls the Gemini generateContent REST endpoint.
type GeminiClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGeminiClient creates a client for the given model. An empty baseURL
// selects the public endpoint; an empty apiKey leaves the client in a
// not-configured state where every call fails critically.
func NewGeminiClient(baseURL, apiKey, model string) *GeminiClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &GeminiClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature      float32 `json:"temperature"`
	ResponseMIMEType string  `json:"responseMimeType"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Interpret sends the dream to the model and returns the raw response
// text. Missing credentials, transport failures and credential rejections
// come back as critical errors; every other failure is recoverable.
func (c *GeminiClient) Interpret(ctx context.Context, title, content string) (string, error) {
	if c.apiKey == "" {
		return "", NewCriticalError(ErrNotConfigured)
	}

	reqBody := geminiRequest{
		Contents: []geminiContent{
			{
				Role:  "user",
				Parts: []geminiPart{{Text: fmt.Sprintf(promptTemplate, title, content)}},
			},
		},
		GenerationConfig: geminiGenerationConfig{
			Temperature:      0.7,
			ResponseMIMEType: "application/json",
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", NewCriticalError(fmt.Errorf("call interpretation endpoint: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewCriticalError(fmt.Errorf("read interpretation response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		message := apiErrorMessage(body)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return "", NewCriticalError(fmt.Errorf("interpretation endpoint rejected credentials: %s", message))
		}
		// Rate limits, server errors and the like: recoverable, the
		// fallback engine takes over.
		return "", fmt.Errorf("interpretation endpoint returned %d: %s", resp.StatusCode, message)
	}

	var parsed geminiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode interpretation response: %w", err)
	}

	for _, candidate := range parsed.Candidates {
		for _, part := range candidate.Content.Parts {
			if part.Text != "" {
				return part.Text, nil
			}
		}
	}
	return "", fmt.Errorf("empty interpretation response")
}

func apiErrorMessage(body []byte) string {
	var apiErr geminiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return apiErr.Error.Message
	}
	return "no error detail"
}

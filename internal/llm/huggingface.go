package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultHFBaseURL = "https://api-inference.huggingface.co/models"

type HuggingFaceClient struct {
	apiToken   string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewHuggingFaceClient(apiToken string, model string, baseURL string) *HuggingFaceClient {
	if baseURL == "" {
		baseURL = defaultHFBaseURL
	}
	return &HuggingFaceClient{
		apiToken:   apiToken,
		model:      model,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

type hfParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens,omitempty"`
	Temperature    float32 `json:"temperature,omitempty"`
	ReturnFullText bool    `json:"return_full_text"`
}

type hfGenerateRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

func (c *HuggingFaceClient) Generate(ctx context.Context, prompt string, params GenerateParams) (string, error) {
	if c.apiToken == "" {
		return "", fmt.Errorf("missing huggingface api token")
	}

	payload := hfGenerateRequest{
		Inputs: prompt,
		Parameters: hfParameters{
			MaxNewTokens:   params.MaxTokens,
			Temperature:    params.Temperature,
			ReturnFullText: false,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := c.baseURL + "/" + c.model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling huggingface: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("huggingface returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("parsing huggingface response: %w", err)
	}
	if len(out) == 0 {
		return "", fmt.Errorf("empty response from huggingface")
	}
	return strings.TrimSpace(out[0].GeneratedText), nil
}

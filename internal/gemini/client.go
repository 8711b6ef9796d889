package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/oukeidos/batrans/internal/apperrors"
	"github.com/oukeidos/batrans/internal/httpclient"
	"github.com/oukeidos/batrans/internal/language"
	"github.com/oukeidos/batrans/internal/provider"
	"google.golang.org/api/option"
)

// Client is the primary translation provider, backed by the Gemini API.
// The source→target pair is fixed at construction; every call translates
// exactly one text.
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// Ensure Client implements the provider capability.
var _ provider.Provider = (*Client)(nil)

// NewClient creates a Gemini-backed provider for the given language pair.
func NewClient(ctx context.Context, apiKey, modelName string, pair language.Pair) (*Client, error) {
	// Note: We avoid using option.WithHTTPClient because it interferes with the genai library's
	// internal header injection for API keys, causing 403 errors.
	// Instead, we enforce timeouts via context in the Translate method.
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPrompt(pair))},
	}

	return &Client{
		client: client,
		model:  model,
	}, nil
}

func systemPrompt(pair language.Pair) string {
	return fmt.Sprintf(`You are a professional %s to %s translator specializing in news article summaries.
Translate the 'text' field of the input JSON from %s into %s.

Rules:
- Maintain the original tone and register.
- Do not add commentary or include the %s source text.
- Respond ONLY with a JSON object of the form {"translation": "..."}.`,
		pair.Source.Name, pair.Target.Name, pair.Source.Name, pair.Target.Name, pair.Source.Name)
}

// Close closes the underlying genai client.
func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) Name() string {
	return "gemini"
}

// Translate sends one text to Gemini and returns the translation.
func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	// Enforce a per-call timeout to prevent indefinite hangs, since we are not
	// using a custom HTTP client with its own timeout.
	ctx, cancel := context.WithTimeout(ctx, httpclient.DefaultTimeout)
	defer cancel()

	requestJSON, err := json.Marshal(RequestData{Text: text})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	resp, err := c.model.GenerateContent(ctx, genai.Text(string(requestJSON)))
	if err != nil {
		return "", classifyGeminiError(err)
	}

	raw, err := extractResponseText(resp)
	if err != nil {
		return "", apperrors.BadResponse(err)
	}

	var responseData ResponseData
	if err := json.Unmarshal([]byte(raw), &responseData); err != nil {
		return "", apperrors.BadResponse(fmt.Errorf("failed to unmarshal response: %w", err))
	}
	translation := strings.TrimSpace(responseData.Translation)
	if translation == "" {
		return "", apperrors.BadResponse(fmt.Errorf("empty translation in Gemini response"))
	}
	return translation, nil
}

func extractResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("no response received from Gemini")
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
			continue
		}
		var combined string
		for _, part := range candidate.Content.Parts {
			text, ok := part.(genai.Text)
			if !ok {
				continue
			}
			combined += string(text)
		}
		if combined != "" {
			return combined, nil
		}
	}
	return "", fmt.Errorf("no text parts found in Gemini response")
}

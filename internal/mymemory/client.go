// Package mymemory implements the fallback translation provider on top of
// the MyMemory REST API. MyMemory expects region-qualified RFC3066 codes in
// its langpair query parameter, independent of the bare ISO codes the
// primary provider uses.
package mymemory

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/oukeidos/batrans/internal/apperrors"
	"github.com/oukeidos/batrans/internal/httpclient"
	"github.com/oukeidos/batrans/internal/language"
	"github.com/oukeidos/batrans/internal/provider"
)

// ResponseData is the subset of the MyMemory response body we consume.
type ResponseData struct {
	Data struct {
		TranslatedText string `json:"translatedText"`
	} `json:"responseData"`
	QuotaFinished bool `json:"quotaFinished"`
	// Status is a number on success but a quoted string on some error
	// responses, so it is decoded loosely and coerced in statusCode.
	Status  any    `json:"responseStatus"`
	Details string `json:"responseDetails"`
}

func (r ResponseData) statusCode() int {
	switch v := r.Status.(type) {
	case float64:
		return int(v)
	case string:
		var code int
		fmt.Sscanf(v, "%d", &code)
		return code
	default:
		return 0
	}
}

type Client struct {
	baseURL  string
	langPair string
	email    string
}

var _ provider.Provider = (*Client)(nil)

// NewClient creates a MyMemory-backed provider. The pair is rendered into
// MyMemory's region-qualified codes. email is optional; when set it is
// passed along to raise the free quota.
func NewClient(pair language.Pair, email string) *Client {
	return &Client{
		baseURL:  "https://api.mymemory.translated.net",
		langPair: pair.Source.MyMemory + "|" + pair.Target.MyMemory,
		email:    email,
	}
}

func (c *Client) Name() string {
	return "mymemory"
}

func (c *Client) Translate(ctx context.Context, text string) (string, error) {
	params := url.Values{}
	params.Set("q", text)
	params.Set("langpair", c.langPair)
	if c.email != "" {
		params.Set("de", c.email)
	}

	reqURL := c.baseURL + "/get?" + params.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	client := httpclient.GetDefaultClient()
	body, resp, err := httpclient.DoAndRead(client, httpReq)
	if err != nil {
		return "", apperrors.New(
			apperrors.KindTransient,
			"MyMemory request failed due to a temporary network/runtime error.",
			fmt.Errorf("request failed: %w", err),
		)
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyHTTPError(resp.StatusCode, resp.Status)
	}

	var result ResponseData
	if err := json.Unmarshal(body, &result); err != nil {
		return "", apperrors.BadResponse(fmt.Errorf("failed to decode response: %w", err))
	}

	return interpret(result)
}

func interpret(result ResponseData) (string, error) {
	code := result.statusCode()
	translated := strings.TrimSpace(result.Data.TranslatedText)
	cause := fmt.Errorf("mymemory status=%d details=%s", code, result.Details)

	switch {
	case result.QuotaFinished || strings.HasPrefix(translated, "MYMEMORY WARNING"):
		return "", apperrors.New(apperrors.KindRateLimit, "MyMemory free quota exhausted. Please try again later.", cause)
	case code == http.StatusTooManyRequests:
		return "", apperrors.New(apperrors.KindRateLimit, "MyMemory rate limit exceeded (429). Please try again later.", cause)
	case code == http.StatusForbidden:
		return "", apperrors.New(apperrors.KindAuth, "MyMemory rejected the request (403).", cause)
	case code >= 500:
		return "", apperrors.New(apperrors.KindTransient, fmt.Sprintf("MyMemory server error (%d). Please retry.", code), cause)
	case code != http.StatusOK:
		return "", apperrors.New(apperrors.KindBadRequest, fmt.Sprintf("MyMemory API error (%d).", code), cause)
	case translated == "":
		return "", apperrors.BadResponse(fmt.Errorf("empty translation in MyMemory response"))
	}
	return translated, nil
}

func classifyHTTPError(statusCode int, status string) error {
	cause := fmt.Errorf("mymemory http status=%s", status)
	switch {
	case statusCode == http.StatusTooManyRequests:
		return apperrors.New(apperrors.KindRateLimit, "MyMemory rate limit exceeded (429). Please try again later.", cause)
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return apperrors.New(apperrors.KindAuth, fmt.Sprintf("MyMemory authentication failed (%d).", statusCode), cause)
	case statusCode >= 500:
		return apperrors.New(apperrors.KindTransient, fmt.Sprintf("MyMemory server error (%d). Please retry.", statusCode), cause)
	default:
		return apperrors.New(apperrors.KindBadRequest, fmt.Sprintf("MyMemory API error (%d): %s", statusCode, status), cause)
	}
}

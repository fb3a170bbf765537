package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

const googleTranslateURL = "https://translate.googleapis.com/translate_a/single"

// Google calls the free gtx translation endpoint. No API key, no timeout, no
// retry; a transient failure surfaces directly to the user.
type Google struct {
	client *http.Client
	apiURL string
}

func NewGoogle() *Google {
	return &Google{
		client: &http.Client{},
		apiURL: googleTranslateURL,
	}
}

func (g *Google) Name() string { return "google" }

func (g *Google) Translate(ctx context.Context, text, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyInput
	}

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", target)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, "GET", g.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrService, err)
	}
	if resp.StatusCode != 200 {
		return "", fmt.Errorf("%w: HTTP %d", ErrService, resp.StatusCode)
	}

	translated, err := parseGtx(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrService, err)
	}
	return translated, nil
}

// parseGtx walks the endpoint's nested-array payload:
// [[["bonjour","hello",...],["le monde","world",...]],null,"en",...]
// and concatenates the translated segment at index 0 of each entry.
func parseGtx(body []byte) (string, error) {
	var payload []any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("parsing response: %v", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty response")
	}

	segments, ok := payload[0].([]any)
	if !ok {
		return "", fmt.Errorf("unexpected response shape")
	}

	var sb strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if s, ok := parts[0].(string); ok {
			sb.WriteString(s)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no translation in response")
	}
	return sb.String(), nil
}

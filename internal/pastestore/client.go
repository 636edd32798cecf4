// Package pastestore is the HTTP client for the external paste service:
// paste creation plus the language catalog lookup that maps detected tags
// to store-side language ids.
package pastestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Language is one entry of the store-side language catalog.
type Language struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Alias string `json:"alias"`
}

// Paste is the handle returned for stored content.
type Paste struct {
	ID  string
	URL string
}

// Client for interacting with the paste-store service.
type Client struct {
	pasteURL       string
	languagesURL   string
	websiteURL     string
	botToken       string
	expirationDays int
	httpClient     *http.Client
	logger         *zap.Logger
}

// NewClient creates a new paste-store API client. Paste links are built
// from websiteURL and the returned paste id.
func NewClient(pasteURL, languagesURL, websiteURL, botToken string, expirationDays int, logger *zap.Logger) *Client {
	return &Client{
		pasteURL:       pasteURL,
		languagesURL:   languagesURL,
		websiteURL:     strings.TrimRight(websiteURL, "/"),
		botToken:       botToken,
		expirationDays: expirationDays,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Languages fetches the language catalog from the store.
func (c *Client) Languages(ctx context.Context) ([]Language, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.languagesURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create languages request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch languages: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("Languages endpoint returned non-OK status", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("languages endpoint returned status: %d", resp.StatusCode)
	}

	var languages []Language
	if err := json.NewDecoder(resp.Body).Decode(&languages); err != nil {
		return nil, fmt.Errorf("failed to decode languages response: %w", err)
	}

	c.logger.Debug("Fetched store languages", zap.Int("count", len(languages)))
	return languages, nil
}

// ResolveLanguageID finds the store id for a detected language alias,
// matching case-insensitively.
func (c *Client) ResolveLanguageID(ctx context.Context, alias string) (int64, bool, error) {
	languages, err := c.Languages(ctx)
	if err != nil {
		return 0, false, err
	}
	for _, lang := range languages {
		if strings.EqualFold(lang.Alias, alias) {
			return lang.ID, true, nil
		}
	}
	return 0, false, nil
}

// CreatePaste stores content and returns its handle. The payload carries a
// store language id when the detected alias resolves; otherwise the first
// catalog entry is used as a default. A catalog failure only drops the
// language field, it does not abort the paste.
func (c *Client) CreatePaste(ctx context.Context, content, languageAlias string) (*Paste, error) {
	payload := map[string]any{
		"content":    content,
		"expiration": c.expirationDays,
		"one_time":   false,
	}

	if id, ok := c.languageIDFor(ctx, languageAlias); ok {
		payload["language"] = id
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode paste payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.pasteURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create paste request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to create paste: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		c.logger.Error("Paste store returned non-created status", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("paste store returned status: %d", resp.StatusCode)
	}

	// The store may hand back numeric or string ids.
	var created struct {
		ID any `json:"id"`
	}
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&created); err != nil {
		return nil, fmt.Errorf("failed to decode paste response: %w", err)
	}

	var id string
	switch v := created.ID.(type) {
	case string:
		id = v
	case json.Number:
		id = v.String()
	}
	if id == "" {
		return nil, fmt.Errorf("paste store returned no paste id")
	}

	paste := &Paste{
		ID:  id,
		URL: fmt.Sprintf("%s/%s", c.websiteURL, id),
	}
	c.logger.Info("Paste created", zap.String("paste_id", paste.ID))
	return paste, nil
}

// languageIDFor resolves the alias against the store catalog, falling back
// to the first listed language when the alias is unknown or empty.
func (c *Client) languageIDFor(ctx context.Context, alias string) (int64, bool) {
	if alias != "" {
		id, ok, err := c.ResolveLanguageID(ctx, alias)
		if err != nil {
			c.logger.Error("Failed to resolve language alias", zap.String("alias", alias), zap.Error(err))
		} else if ok {
			return id, true
		}
	}

	languages, err := c.Languages(ctx)
	if err != nil {
		c.logger.Error("Failed to fetch fallback language", zap.Error(err))
		return 0, false
	}
	if len(languages) == 0 {
		return 0, false
	}
	return languages[0].ID, true
}

func (c *Client) setHeaders(req *http.Request) {
	if c.botToken != "" {
		req.Header.Set("X-Bot-Token", c.botToken)
	} else {
		c.logger.Warn("No bot token set, store API calls may be rate limited")
	}
}

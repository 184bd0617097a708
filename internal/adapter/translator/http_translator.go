package translator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/ilanmarket/listing-service/internal/config"
)

// HTTPTranslator implements domain.Translator against a LibreTranslate-style
// JSON endpoint. With no base URL configured it echoes the input, which keeps
// local development working without a translation backend.
type HTTPTranslator struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

func NewHTTPTranslator(cfg *config.TranslatorConfig, logger *zap.Logger) *HTTPTranslator {
	return &HTTPTranslator{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger.Named("HTTPTranslator"),
	}
}

type translateRequest struct {
	Text   string `json:"q"`
	Target string `json:"target"`
	APIKey string `json:"api_key,omitempty"`
}

type translateResponse struct {
	TranslatedText string `json:"translatedText"`
}

func (t *HTTPTranslator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	if t.baseURL == "" {
		return text, nil
	}

	payload, err := json.Marshal(translateRequest{
		Text:   text,
		Target: targetLanguage,
		APIKey: t.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("marshal translate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/translate", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build translate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call translator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		t.logger.Warn("translator returned non-OK status",
			zap.Int("status", resp.StatusCode),
			zap.String("target", targetLanguage),
			zap.ByteString("body", body),
		)
		return "", fmt.Errorf("translator returned status %d", resp.StatusCode)
	}

	var out translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode translate response: %w", err)
	}
	return out.TranslatedText, nil
}
